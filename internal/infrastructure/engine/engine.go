// Package engine is the boundary to the document signing engine. The
// engine owns document parsing, page rendering and burning signature
// instructions into the output document.
package engine

import (
	"context"

	"esign-composer/internal/domain/entity"
)

// DocumentInfo describes a loaded document.
type DocumentInfo struct {
	PageCount int
}

// PageSize is the size of one page in points, or pixels for raster images.
type PageSize struct {
	Width  float64
	Height float64
}

// LoadOptions controls how the source document is opened.
type LoadOptions struct {
	Password string
}

// SaveOptions controls where the signed document is written.
type SaveOptions struct {
	OutputDir      string
	OutputFileName string
}

// Engine signs and renders documents.
type Engine interface {
	Describe(ctx context.Context, path, password string) (DocumentInfo, error)
	PageSize(ctx context.Context, path string, page int, password string) (PageSize, error)

	// RenderPage returns the PNG image of a page scaled by scale.
	RenderPage(ctx context.Context, path string, page int, password string, scale float64) ([]byte, error)

	// Sign applies every instruction of set to the document at path and
	// returns the output path. Either all instructions are applied or no
	// output is written.
	Sign(ctx context.Context, path string, set entity.InstructionSet, load LoadOptions, save SaveOptions) (string, error)

	Close() error
}
