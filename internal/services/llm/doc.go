// Package llm wraps an OpenAI-compatible chat completion API for structured
// content generation. Every request asks for a JSON-only response shaped by
// a schema descriptor embedded into the system prompt, and transient
// provider failures are retried with exponential backoff.
package llm
