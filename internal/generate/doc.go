// Package generate builds structured-output requests for topic ideation,
// full-article generation, and training-module generation, and turns the
// provider's JSON responses into validated domain values.
package generate
