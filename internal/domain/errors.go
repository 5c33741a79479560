package domain

import "errors"

// Fatal operation errors. Each aborts the in-flight operation and is
// surfaced to the user; none is swallowed into an empty result.
var (
	// ErrEmptyExtraction indicates bootstrap extracted zero units from
	// the configured documents. The session cannot proceed.
	ErrEmptyExtraction = errors.New("no text extracted from documents")

	// ErrCorruptIndex indicates the stored index blob could not be
	// decoded into units of uniform dimensionality.
	ErrCorruptIndex = errors.New("corrupt index")

	// ErrEmptyIndex indicates retrieval was attempted over an index
	// with zero units.
	ErrEmptyIndex = errors.New("empty index")

	// ErrEmbeddingService indicates the embedding service was
	// unreachable or returned malformed output.
	ErrEmbeddingService = errors.New("embedding service failed")

	// ErrGenerationService indicates the language-generation service
	// was unreachable or returned malformed output.
	ErrGenerationService = errors.New("generation service failed")

	// ErrBusy indicates an operation was attempted while another was
	// still in flight. The session processes one operation at a time.
	ErrBusy = errors.New("session busy")
)
