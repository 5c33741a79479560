// Package session coordinates the assistant lifecycle: index
// bootstrap-or-load, the question loop, and destructive reindexing.
package session

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"bankdocs/internal/domain"
	"bankdocs/internal/retriever"
)

// State names the orchestrator's position in its lifecycle.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateLoadingIndex  State = "loading_index"
	StateBootstrapping State = "bootstrapping"
	StateReady         State = "ready"
	StateReindexing    State = "reindexing"
)

// embedBatchSize caps how many unit texts go into one embedding request.
const embedBatchSize = 64

// Config fixes the document list and retrieval depth for a session.
type Config struct {
	Documents []string
	TopK      int
}

// Session owns one in-memory index and one transcript. It processes one
// operation at a time: a second operation started while one is in flight
// fails with domain.ErrBusy. A failed operation leaves the session in
// its pre-operation state.
type Session struct {
	documents []string
	topK      int

	extractor domain.Extractor
	embedder  domain.Embedder
	store     domain.IndexStore
	generator domain.Generator

	mu         sync.Mutex
	busy       bool
	state      State
	index      *domain.Index
	transcript []domain.Turn
}

func New(cfg Config, extractor domain.Extractor, embedder domain.Embedder, store domain.IndexStore, generator domain.Generator) *Session {
	topK := cfg.TopK
	if topK <= 0 {
		topK = retriever.DefaultTopK
	}
	return &Session{
		documents: cfg.Documents,
		topK:      topK,
		extractor: extractor,
		embedder:  embedder,
		store:     store,
		generator: generator,
		state:     StateUninitialized,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Transcript returns a copy of the conversation so far.
func (s *Session) Transcript() []domain.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Turn, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// Open brings an uninitialized session to ready: it loads the persisted
// index if one exists, otherwise it bootstraps from the documents and
// persists the result. A corrupt stored index is fatal and is never
// silently rebuilt; a bootstrap that extracts zero units is fatal and
// leaves storage unwritten.
func (s *Session) Open(ctx context.Context) error {
	if err := s.begin(StateUninitialized); err != nil {
		return err
	}

	if s.store.Exists() {
		s.setState(StateLoadingIndex)
		idx, err := s.store.Load()
		if err != nil {
			s.fail(StateUninitialized)
			return fmt.Errorf("load index: %w", err)
		}
		s.finish(idx)
		return nil
	}

	s.setState(StateBootstrapping)
	idx, err := s.bootstrap(ctx)
	if err != nil {
		s.fail(StateUninitialized)
		return err
	}
	s.finish(idx)
	return nil
}

// Ask answers one question from the index: embed, retrieve top-K,
// generate a grounded answer, append both turns to the transcript. Any
// failure aborts the cycle and leaves the transcript untouched.
func (s *Session) Ask(ctx context.Context, question string) (domain.Answer, error) {
	if err := s.begin(StateReady); err != nil {
		return domain.Answer{}, err
	}
	defer s.end()

	vec, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("embed question: %w", err)
	}

	results, err := retriever.Retrieve(vec, s.index, s.topK)
	if err != nil {
		return domain.Answer{}, err
	}

	ans, err := s.generator.Generate(ctx, question, results)
	if err != nil {
		return domain.Answer{}, err
	}

	s.mu.Lock()
	s.transcript = append(s.transcript,
		domain.Turn{Role: domain.RoleUser, Content: question},
		domain.Turn{Role: domain.RoleAssistant, Content: ans.Text},
	)
	s.mu.Unlock()
	return ans, nil
}

// Reindex deletes the persisted index and drops the in-memory copy,
// returning the session to uninitialized. The rebuild happens on the
// next Open. Destructive and irreversible; a no-op when storage is
// already empty.
func (s *Session) Reindex(ctx context.Context) error {
	if err := s.begin(StateReady); err != nil {
		return err
	}

	s.setState(StateReindexing)
	if err := s.store.Clear(); err != nil {
		s.fail(StateReady)
		return fmt.Errorf("clear index: %w", err)
	}

	s.mu.Lock()
	s.index = nil
	s.state = StateUninitialized
	s.busy = false
	s.mu.Unlock()
	return nil
}

// bootstrap extracts units from the fixed document list, embeds them in
// batches, and persists the built index. Storage is only written
// after every unit has a vector, so a failed bootstrap leaves no blob
// behind and the next run starts from scratch.
func (s *Session) bootstrap(ctx context.Context) (*domain.Index, error) {
	units, err := s.extractor.Extract(s.documents)
	if err != nil {
		return nil, err
	}
	if len(units) == 0 {
		return nil, fmt.Errorf("%w: checked %d documents", domain.ErrEmptyExtraction, len(s.documents))
	}

	log.Printf("Embedding %d units...", len(units))
	for start := 0; start < len(units); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(units) {
			end = len(units)
		}
		texts := make([]string, end-start)
		for i := start; i < end; i++ {
			texts[i-start] = units[i].Text
		}
		vecs, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embed units %d-%d: %w", start, end-1, err)
		}
		if len(vecs) != len(texts) {
			return nil, fmt.Errorf("%w: got %d vectors for %d units", domain.ErrEmbeddingService, len(vecs), len(texts))
		}
		for i := start; i < end; i++ {
			units[i].Vector = vecs[i-start]
		}
		log.Printf("Embedded %d/%d units", end, len(units))
	}

	idx := &domain.Index{Units: units, CreatedAt: time.Now()}
	if err := s.store.Save(idx); err != nil {
		return nil, fmt.Errorf("save index: %w", err)
	}
	log.Printf("Index saved: %d units", len(units))
	return idx, nil
}

// begin claims the session for one operation, requiring the given state.
func (s *Session) begin(want State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return domain.ErrBusy
	}
	if s.state != want {
		return fmt.Errorf("session is %s, not %s", s.state, want)
	}
	s.busy = true
	return nil
}

func (s *Session) end() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// fail reverts to the pre-operation state and releases the session.
func (s *Session) fail(st State) {
	s.mu.Lock()
	s.state = st
	s.busy = false
	s.mu.Unlock()
}

func (s *Session) finish(idx *domain.Index) {
	s.mu.Lock()
	s.index = idx
	s.state = StateReady
	s.busy = false
	s.mu.Unlock()
}
