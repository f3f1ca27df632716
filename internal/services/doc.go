// Package services holds cross-cutting helpers shared by the generation,
// image, storage, and publishing components: the error taxonomy used to
// classify failures, and context carriers for request correlation.
package services
