// Package main hosts the quill CLI entrypoint and command graph.
//
// The Cobra-based command tree surfaces topic ideation, full-article
// generation, auto-publishing, post and remote-file management, the HTTP
// API server, and configuration scaffolding. It centralizes configuration
// resolution and collaborator wiring so subcommands can focus on user
// experience instead of plumbing.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
