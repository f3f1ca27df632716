// Package notifications sends push notifications about publishing events
// through ntfy. When no topic is configured, a noop implementation keeps
// callers branch-free.
package notifications
