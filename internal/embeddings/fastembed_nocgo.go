//go:build !cgo

package embeddings

import "context"

// FastEmbedProvider is a stub for builds without CGO support.
type FastEmbedProvider struct{}

// NewFastEmbedProvider fails when CGO is not available.
func NewFastEmbedProvider(_ Config) (*FastEmbedProvider, error) {
	return nil, ErrFastEmbedNotAvailable
}

func (p *FastEmbedProvider) EmbedDocuments(_ context.Context, _ []string) ([][]float32, error) {
	return nil, ErrFastEmbedNotAvailable
}

func (p *FastEmbedProvider) EmbedQuery(_ context.Context, _ string) ([]float32, error) {
	return nil, ErrFastEmbedNotAvailable
}

func (p *FastEmbedProvider) Dimension() int { return 0 }

func (p *FastEmbedProvider) Close() error { return nil }
