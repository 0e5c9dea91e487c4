package qdrant

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/sevigo/textwindow/embeddings"
)

const (
	defaultHost       = "localhost"
	defaultPort       = 6334
	defaultDimension  = 768
	defaultContentKey = "content"
)

var ErrInvalidOptions = errors.New("qdrant: invalid options provided")

type options struct {
	collectionName string
	host           string
	port           int
	apiKey         string
	useTLS         bool
	dimension      int
	embedder       embeddings.Embedder
	logger         *slog.Logger
}

type Option func(*options)

// WithCollectionName sets the target collection.
func WithCollectionName(name string) Option {
	return func(opts *options) {
		opts.collectionName = strings.TrimSpace(name)
	}
}

// WithHostAndPort points the store at a non-default Qdrant server.
func WithHostAndPort(host string, port int) Option {
	return func(opts *options) {
		if host != "" {
			opts.host = host
		}
		if port > 0 {
			opts.port = port
		}
	}
}

// WithAPIKey sets the API key for managed deployments; implies TLS.
func WithAPIKey(key string) Option {
	return func(opts *options) {
		if key != "" {
			opts.apiKey = key
			opts.useTLS = true
		}
	}
}

// WithDimension sets the vector size used when the collection is created.
func WithDimension(dim int) Option {
	return func(opts *options) {
		if dim > 0 {
			opts.dimension = dim
		}
	}
}

// WithEmbedder sets the embedder used for chunks and queries. Required.
func WithEmbedder(embedder embeddings.Embedder) Option {
	return func(opts *options) {
		opts.embedder = embedder
	}
}

// WithLogger sets the logger for the store.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *options) {
		if logger != nil {
			opts.logger = logger
		}
	}
}

func parseOptions(opts ...Option) (options, error) {
	o := options{
		host:      defaultHost,
		port:      defaultPort,
		dimension: defaultDimension,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.collectionName == "" {
		return o, errors.Join(ErrInvalidOptions, errors.New("collection name is required"))
	}
	if o.embedder == nil {
		return o, errors.Join(ErrInvalidOptions, errors.New("embedder is required"))
	}
	return o, nil
}
