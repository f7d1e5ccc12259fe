// Package rag owns the document vector index: ingestion of embedded chunks,
// exact nearest-neighbor search and whole-index rebuild on deletion. One
// Processor instance owns the index, the chunk metadata and the embedding
// provider handle, so tests can use a fresh instance per case.
package rag

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"

	"kurum-asistan-be/pkg/embedding"
)

// ChunkMeta pairs a stored vector with its source chunk. The record at
// position i always describes the vector at position i.
type ChunkMeta struct {
	ReportID   int    `json:"report_id"`
	ChunkIndex int    `json:"chunk_index"`
	Text       string `json:"text"`
}

// SearchResult is one retrieved passage. Lower distance means more similar.
type SearchResult struct {
	Text     string
	ReportID int
	Distance float32
}

// Processor maintains the append-only flat index over all document chunks.
// Queries may run concurrently with each other but never with a mutation:
// ingestion and deletion hold the write lock for the full mutation including
// the durable write.
type Processor struct {
	mu       sync.RWMutex
	provider embedding.Provider
	store    *fileStore
	logger   *log.Logger

	dim      int
	vectors  [][]float32
	metadata []ChunkMeta
}

// NewProcessor loads any previously persisted index from dir. A missing or
// unreadable index starts empty; the durable copy is rewritten on the next
// mutation.
func NewProcessor(dir string, provider embedding.Provider, logger *log.Logger) (*Processor, error) {
	store, err := newFileStore(dir)
	if err != nil {
		return nil, fmt.Errorf("init vector store dir: %w", err)
	}

	p := &Processor{
		provider: provider,
		store:    store,
		logger:   logger,
	}

	dim, vectors, metadata, err := store.load()
	if err != nil {
		logger.Printf("[WARN] could not load existing index, starting empty: %v", err)
		return p, nil
	}
	p.dim = dim
	p.vectors = vectors
	p.metadata = metadata
	if len(vectors) > 0 {
		logger.Printf("[INFO] loaded vector index: %d vectors, dim %d", len(vectors), dim)
	}
	return p, nil
}

// Count returns the number of stored vectors.
func (p *Processor) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.vectors)
}

// IngestReport embeds the chunks of one document and appends them to the
// index with lock-step metadata. If the provider's output dimension disagrees
// with the existing index, the index is reset before appending; a mismatched
// index is only ever expected on cold start.
func (p *Processor) IngestReport(ctx context.Context, reportID int, chunks []string) error {
	if len(chunks) == 0 {
		return nil
	}

	vectors, err := p.provider.Encode(ctx, chunks)
	if err != nil {
		return fmt.Errorf("encode chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedding count mismatch: %d chunks, %d vectors", len(chunks), len(vectors))
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	dim := len(vectors[0])
	if p.dim != 0 && p.dim != dim {
		p.logger.Printf("[WARN] index dimension %d != provider dimension %d, resetting index", p.dim, dim)
		p.vectors = nil
		p.metadata = nil
	}
	p.dim = dim

	priorTotal := len(p.vectors)
	for i, chunk := range chunks {
		p.vectors = append(p.vectors, vectors[i])
		p.metadata = append(p.metadata, ChunkMeta{
			ReportID:   reportID,
			ChunkIndex: priorTotal + i,
			Text:       chunk,
		})
	}

	return p.store.save(p.dim, p.vectors, p.metadata)
}

// Search runs an exact L2 scan over all stored vectors and returns up to
// topK passages ascending by distance. An empty index yields an empty result.
func (p *Processor) Search(ctx context.Context, query string, topK int) ([]SearchResult, error) {
	return p.search(ctx, query, topK, nil)
}

// SearchReport behaves like Search but only considers chunks of one document.
func (p *Processor) SearchReport(ctx context.Context, reportID int, query string, topK int) ([]SearchResult, error) {
	return p.search(ctx, query, topK, func(m ChunkMeta) bool {
		return m.ReportID == reportID
	})
}

func (p *Processor) search(ctx context.Context, query string, topK int, keep func(ChunkMeta) bool) ([]SearchResult, error) {
	if topK <= 0 {
		topK = 5
	}
	if p.Count() == 0 {
		return []SearchResult{}, nil
	}

	queryVectors, err := p.provider.Encode(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}
	queryVec := queryVectors[0]

	p.mu.RLock()
	defer p.mu.RUnlock()

	results := make([]SearchResult, 0, len(p.vectors))
	for i, vec := range p.vectors {
		meta := p.metadata[i]
		if keep != nil && !keep(meta) {
			continue
		}
		results = append(results, SearchResult{
			Text:     meta.Text,
			ReportID: meta.ReportID,
			Distance: l2Squared(queryVec, vec),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// DeleteReport removes every chunk of one document. The flat index has no
// per-vector deletion, so the retained chunks are re-embedded from their
// stored text and the index is rebuilt wholesale. O(total remaining chunks);
// acceptable for small corpora. No-op when the document has no chunks.
func (p *Processor) DeleteReport(ctx context.Context, reportID int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	retained := make([]ChunkMeta, 0, len(p.metadata))
	removed := 0
	for _, meta := range p.metadata {
		if meta.ReportID == reportID {
			removed++
			continue
		}
		retained = append(retained, meta)
	}
	if removed == 0 {
		return nil
	}

	if len(retained) == 0 {
		p.vectors = nil
		p.metadata = nil
		if err := p.store.save(p.dim, p.vectors, p.metadata); err != nil {
			return err
		}
		p.logger.Printf("[INFO] removed report %d from index, index now empty", reportID)
		return nil
	}

	texts := make([]string, len(retained))
	for i, meta := range retained {
		texts[i] = meta.Text
	}
	vectors, err := p.provider.Encode(ctx, texts)
	if err != nil {
		return fmt.Errorf("re-embed retained chunks: %w", err)
	}

	for i := range retained {
		retained[i].ChunkIndex = i
	}
	p.vectors = vectors
	p.metadata = retained
	p.dim = len(vectors[0])

	if err := p.store.save(p.dim, p.vectors, p.metadata); err != nil {
		return err
	}
	p.logger.Printf("[INFO] removed report %d from index (%d chunks), %d retained", reportID, removed, len(retained))
	return nil
}

func l2Squared(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float32
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
