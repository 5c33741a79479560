package domain

import (
	"context"
	"time"
)

// Unit is one retrievable fragment of a source document: half of one
// page's extracted text, labelled with its origin.
type Unit struct {
	Text   string    `json:"text"`
	Source string    `json:"source"`
	Vector []float64 `json:"vector,omitempty"`
}

// Index is the full set of indexed units, in extraction order.
// All unit vectors share the same dimensionality.
type Index struct {
	Units     []Unit    `json:"units"`
	CreatedAt time.Time `json:"createdAt"`
}

// Dimension returns the vector dimensionality of the index, or 0 for an
// empty index.
func (i *Index) Dimension() int {
	if i == nil || len(i.Units) == 0 {
		return 0
	}
	return len(i.Units[0].Vector)
}

// Turn is a single entry in the session transcript.
type Turn struct {
	Role    string
	Content string
}

// Transcript roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Result is a retrieved unit with its cosine similarity to the query.
type Result struct {
	Unit  Unit
	Score float64
}

// Answer is a generated reply with the deduplicated set of source labels
// among the retrieved units. Sources carry no meaningful order.
type Answer struct {
	Text    string
	Sources []string
}

// Extractor pulls indexable units out of source documents.
// Missing documents are skipped, failed reads are errors.
type Extractor interface {
	Extract(paths []string) ([]Unit, error)
}

// Embedder converts text into a fixed-dimensionality vector via an
// embedding service. Dimension is 0 until the first successful call.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
	Dimension() int
}

// IndexStore persists an Index as a single durable blob. Existence of
// the blob is the signal that the index has been built.
type IndexStore interface {
	Exists() bool
	Load() (*Index, error)
	Save(index *Index) error
	Clear() error
}

// Generator produces a grounded answer to a question from retrieved units.
type Generator interface {
	Generate(ctx context.Context, question string, retrieved []Result) (Answer, error)
}
