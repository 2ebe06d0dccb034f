// Package vectordb builds an in-memory nearest-neighbor index over text
// chunks using chromem-go, embedding chunks with a configured model.
package vectordb

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strconv"

	"github.com/philippgille/chromem-go"
	"github.com/tmc/langchaingo/embeddings"
)

// ErrEmptyCorpus is returned when an index build is attempted over zero
// chunks. An empty index is never queryable.
var ErrEmptyCorpus = errors.New("cannot build index from empty corpus")

const (
	collectionName = "documents"
	positionKey    = "position"
)

// Index is an in-memory (chunk, embedding) store supporting top-k retrieval
// by cosine similarity. It lives and dies with one processing action.
type Index struct {
	collection *chromem.Collection
	size       int
}

// BuildIndex embeds every chunk and adds it to a fresh in-memory collection.
// The build is synchronous: the returned index is fully queryable, or an
// error is returned and no index exists.
func BuildIndex(ctx context.Context, chunks []string, embedder embeddings.Embedder) (*Index, error) {
	if len(chunks) == 0 {
		return nil, ErrEmptyCorpus
	}

	db := chromem.NewDB()
	collection, err := db.CreateCollection(collectionName, nil, chromem.EmbeddingFunc(embedder.EmbedQuery))
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}

	docs := make([]chromem.Document, len(chunks))
	for i, chunk := range chunks {
		docs[i] = chromem.Document{
			ID:       fmt.Sprintf("chunk-%d", i),
			Content:  chunk,
			Metadata: map[string]string{positionKey: strconv.Itoa(i)},
		}
	}
	if err := collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return nil, fmt.Errorf("failed to add documents: %w", err)
	}

	return &Index{collection: collection, size: len(chunks)}, nil
}

// Size reports the number of indexed chunks.
func (idx *Index) Size() int {
	return idx.size
}

// Retrieve returns up to k chunks ranked by descending similarity to the
// query, ties broken by original chunk position. k larger than the corpus is
// clamped.
func (idx *Index) Retrieve(ctx context.Context, query string, k int) ([]string, error) {
	if k <= 0 {
		return nil, nil
	}
	if k > idx.size {
		k = idx.size
	}

	results, err := idx.collection.Query(ctx, query, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query by similarity: %w", err)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Similarity != results[j].Similarity {
			return results[i].Similarity > results[j].Similarity
		}
		return position(results[i]) < position(results[j])
	})

	chunks := make([]string, len(results))
	for i, r := range results {
		chunks[i] = r.Content
	}
	return chunks, nil
}

func position(r chromem.Result) int {
	p, _ := strconv.Atoi(r.Metadata[positionKey])
	return p
}
