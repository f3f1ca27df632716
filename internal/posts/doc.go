// Package posts defines the blog post model and its SQLite persistence,
// plus an optional Redis-backed cache for list reads.
package posts
