// Package qdrant implements the chunk sink against a Qdrant server. Unlike
// the in-memory chromem store this one is durable: it is meant for the final
// indexing run with the configuration the optimizer selected, not for the
// per-candidate search itself.
package qdrant

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/qdrant/go-client/qdrant"

	"github.com/sevigo/textwindow/schema"
	"github.com/sevigo/textwindow/vectorstores"
)

type Store struct {
	client  *qdrant.Client
	options options
	logger  *slog.Logger
}

var _ vectorstores.VectorStore = (*Store)(nil)

func New(opts ...Option) (*Store, error) {
	o, err := parseOptions(opts...)
	if err != nil {
		return nil, err
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   o.host,
		Port:   o.port,
		APIKey: o.apiKey,
		UseTLS: o.useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: creating client: %w", err)
	}

	logger := o.logger.With("component", "qdrant_store", "collection", o.collectionName)
	logger.Info("qdrant store initialized", "host", o.host, "port", o.port)

	return &Store{client: client, options: o, logger: logger}, nil
}

// EnsureCollection creates the collection if it does not exist yet.
func (s *Store) EnsureCollection(ctx context.Context) error {
	exists, err := s.client.CollectionExists(ctx, s.options.collectionName)
	if err != nil {
		return fmt.Errorf("qdrant: checking collection: %w", err)
	}
	if exists {
		return nil
	}

	_, err = s.client.GetCollectionsClient().Create(ctx, &qdrant.CreateCollection{
		CollectionName: s.options.collectionName,
		VectorsConfig: &qdrant.VectorsConfig{
			Config: &qdrant.VectorsConfig_Params{
				Params: &qdrant.VectorParams{
					Size:     uint64(s.options.dimension),
					Distance: qdrant.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("qdrant: creating collection %q: %w", s.options.collectionName, err)
	}
	s.logger.Info("collection created", "dimension", s.options.dimension)
	return nil
}

// AddChunks embeds and upserts chunks. Point IDs are the chunk IDs, which
// are already deterministic UUIDs: re-indexing the same document overwrites
// existing points instead of duplicating them.
func (s *Store) AddChunks(ctx context.Context, chunks []schema.Chunk, _ ...vectorstores.Option) ([]string, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	if err := s.EnsureCollection(ctx); err != nil {
		return nil, err
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := s.options.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("qdrant: embedding chunks: %w", err)
	}

	points := make([]*qdrant.PointStruct, len(chunks))
	ids := make([]string, len(chunks))
	for i, c := range chunks {
		points[i] = &qdrant.PointStruct{
			Id:      &qdrant.PointId{PointIdOptions: &qdrant.PointId_Uuid{Uuid: c.ID}},
			Vectors: &qdrant.Vectors{VectorsOptions: &qdrant.Vectors_Vector{Vector: &qdrant.Vector{Data: vectors[i]}}},
			Payload: chunkToPayload(c),
		}
		ids[i] = c.ID
	}

	wait := true
	_, err = s.client.GetPointsClient().Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.options.collectionName,
		Points:         points,
		Wait:           &wait,
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: upserting %d points: %w", len(points), err)
	}

	s.logger.Debug("chunks upserted", "count", len(chunks))
	return ids, nil
}

func (s *Store) SimilaritySearch(ctx context.Context, query string, numDocuments int, options ...vectorstores.Option) ([]schema.Document, error) {
	scored, err := s.SimilaritySearchWithScores(ctx, query, numDocuments, options...)
	if err != nil {
		return nil, err
	}
	docs := make([]schema.Document, len(scored))
	for i, r := range scored {
		docs[i] = r.Document
	}
	return docs, nil
}

func (s *Store) SimilaritySearchWithScores(ctx context.Context, query string, numDocuments int, options ...vectorstores.Option) ([]vectorstores.DocumentWithScore, error) {
	opts := vectorstores.ParseOptions(options...)

	if strings.TrimSpace(query) == "" || numDocuments <= 0 {
		return nil, nil
	}

	queryVector, err := s.options.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("qdrant: embedding query: %w", err)
	}

	searchResult, err := s.client.GetPointsClient().Search(ctx, &qdrant.SearchPoints{
		CollectionName: s.options.collectionName,
		Vector:         queryVector,
		Limit:          uint64(numDocuments),
		WithPayload: &qdrant.WithPayloadSelector{
			SelectorOptions: &qdrant.WithPayloadSelector_Enable{Enable: true},
		},
		ScoreThreshold: &opts.ScoreThreshold,
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: search failed: %w", err)
	}

	results := searchResult.GetResult()
	scored := make([]vectorstores.DocumentWithScore, 0, len(results))
	for _, point := range results {
		scored = append(scored, vectorstores.DocumentWithScore{
			Document: payloadToDocument(point.GetId().GetUuid(), point.GetPayload()),
			Score:    point.GetScore(),
		})
	}
	return scored, nil
}

// DeleteCollection drops the collection and everything in it.
func (s *Store) DeleteCollection(ctx context.Context) error {
	_, err := s.client.GetCollectionsClient().Delete(ctx, &qdrant.DeleteCollection{
		CollectionName: s.options.collectionName,
	})
	if err != nil {
		return fmt.Errorf("qdrant: deleting collection %q: %w", s.options.collectionName, err)
	}
	return nil
}

func chunkToPayload(c schema.Chunk) map[string]*qdrant.Value {
	payload := make(map[string]*qdrant.Value, len(c.Metadata)+5)
	payload[defaultContentKey] = stringValue(c.Text)
	payload["document_id"] = stringValue(c.DocumentID)
	payload["char_start"] = intValue(c.CharStart)
	payload["char_end"] = intValue(c.CharEnd)
	payload["overlap"] = &qdrant.Value{Kind: &qdrant.Value_DoubleValue{DoubleValue: c.Overlap}}
	for k, v := range c.Metadata {
		payload[k] = stringValue(v)
	}
	return payload
}

func payloadToDocument(id string, payload map[string]*qdrant.Value) schema.Document {
	doc := schema.Document{ID: id, Metadata: make(map[string]string)}
	for key, value := range payload {
		if key == defaultContentKey {
			doc.Text = value.GetStringValue()
			continue
		}
		switch kind := value.GetKind().(type) {
		case *qdrant.Value_StringValue:
			doc.Metadata[key] = kind.StringValue
		case *qdrant.Value_IntegerValue:
			doc.Metadata[key] = strconv.FormatInt(kind.IntegerValue, 10)
		case *qdrant.Value_DoubleValue:
			doc.Metadata[key] = strconv.FormatFloat(kind.DoubleValue, 'f', -1, 64)
		}
	}
	return doc
}

func stringValue(s string) *qdrant.Value {
	return &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: s}}
}

func intValue(i int) *qdrant.Value {
	return &qdrant.Value{Kind: &qdrant.Value_IntegerValue{IntegerValue: int64(i)}}
}
