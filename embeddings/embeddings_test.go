package embeddings_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/textwindow/embeddings"
)

// recordingClient captures what the batcher sends to the backing client.
type recordingClient struct {
	mu      sync.Mutex
	batches [][]string
	queries []string
	err     error
}

func (c *recordingClient) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	c.batches = append(c.batches, texts)
	vectors := make([][]float32, len(texts))
	for i, t := range texts {
		vectors[i] = []float32{float32(len(t))}
	}
	return vectors, nil
}

func (c *recordingClient) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queries = append(c.queries, text)
	return []float32{float32(len(text))}, nil
}

func TestNewEmbedder_RequiresClient(t *testing.T) {
	_, err := embeddings.NewEmbedder(nil)
	assert.Error(t, err)
}

func TestEmbedDocuments_BatchesAndPreservesOrder(t *testing.T) {
	client := &recordingClient{}
	embedder, err := embeddings.NewEmbedder(client, embeddings.WithBatchSize(2))
	require.NoError(t, err)

	texts := []string{"a", "bb", "ccc", "dddd", "eeeee"}
	vectors, err := embedder.EmbedDocuments(context.Background(), texts)
	require.NoError(t, err)

	require.Len(t, vectors, len(texts))
	for i, text := range texts {
		assert.Equal(t, float32(len(text)), vectors[i][0], "vector %d out of order", i)
	}
	assert.Len(t, client.batches, 3)
}

func TestEmbedDocuments_StripsNewlinesByDefault(t *testing.T) {
	client := &recordingClient{}
	embedder, err := embeddings.NewEmbedder(client)
	require.NoError(t, err)

	_, err = embedder.EmbedDocuments(context.Background(), []string{"line one\nline two"})
	require.NoError(t, err)
	require.Len(t, client.batches, 1)
	assert.Equal(t, "line one line two", client.batches[0][0])
}

func TestEmbedDocuments_KeepNewLines(t *testing.T) {
	client := &recordingClient{}
	embedder, err := embeddings.NewEmbedder(client, embeddings.WithKeepNewLines())
	require.NoError(t, err)

	_, err = embedder.EmbedDocuments(context.Background(), []string{"one\ntwo"})
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo", client.batches[0][0])
}

func TestEmbedDocuments_PropagatesClientError(t *testing.T) {
	wantErr := errors.New("backend down")
	embedder, err := embeddings.NewEmbedder(&recordingClient{err: wantErr})
	require.NoError(t, err)

	_, err = embedder.EmbedDocuments(context.Background(), []string{"text"})
	assert.ErrorIs(t, err, wantErr)
}

func TestEmbedQuery_RejectsEmptyText(t *testing.T) {
	embedder, err := embeddings.NewEmbedder(&recordingClient{})
	require.NoError(t, err)

	_, err = embedder.EmbedQuery(context.Background(), "   ")
	assert.ErrorIs(t, err, embeddings.ErrEmptyText)
}

func TestEmbedDocuments_EmptyInput(t *testing.T) {
	embedder, err := embeddings.NewEmbedder(&recordingClient{})
	require.NoError(t, err)

	vectors, err := embedder.EmbedDocuments(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, vectors)
}
