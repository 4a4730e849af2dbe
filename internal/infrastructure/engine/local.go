package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"esign-composer/internal/domain/entity"
)

type documentKind int

const (
	kindUnsupported documentKind = iota
	kindPDF
	kindRaster
)

func kindOf(path string) documentKind {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return kindPDF
	}
	if entity.IsImageDocument(path) {
		return kindRaster
	}
	return kindUnsupported
}

// localEngine signs PDF documents with pdfcpu and raster images with the Go
// image codecs. Office documents and certificate signatures need an external
// engine.
type localEngine struct {
	pdf    *pdfEngine
	raster *rasterEngine
	logger *zap.Logger
}

// NewLocalEngine returns the in-process engine.
func NewLocalEngine(logger *zap.Logger) Engine {
	return &localEngine{
		pdf:    &pdfEngine{logger: logger},
		raster: &rasterEngine{logger: logger},
		logger: logger,
	}
}

func unsupportedDocument(path string) error {
	return &entity.AppError{
		Code:    entity.ErrCodeUnsupportedFormat,
		Message: fmt.Sprintf("document %s is not supported by the local engine", filepath.Base(path)),
		Path:    path,
	}
}

func (e *localEngine) Describe(ctx context.Context, path, password string) (DocumentInfo, error) {
	switch kindOf(path) {
	case kindPDF:
		return e.pdf.describe(path, password)
	case kindRaster:
		return DocumentInfo{PageCount: 1}, nil
	}
	return DocumentInfo{}, unsupportedDocument(path)
}

func (e *localEngine) PageSize(ctx context.Context, path string, page int, password string) (PageSize, error) {
	switch kindOf(path) {
	case kindPDF:
		return e.pdf.pageSize(path, page, password)
	case kindRaster:
		return e.raster.pageSize(path, page)
	}
	return PageSize{}, unsupportedDocument(path)
}

func (e *localEngine) RenderPage(ctx context.Context, path string, page int, password string, scale float64) ([]byte, error) {
	if kindOf(path) == kindRaster {
		return e.raster.renderPage(path, page, scale)
	}
	return nil, &entity.AppError{
		Code:    entity.ErrCodeUnsupportedFormat,
		Message: fmt.Sprintf("page rendering of %s is not supported by the local engine", filepath.Base(path)),
		Path:    path,
	}
}

func (e *localEngine) Sign(ctx context.Context, path string, set entity.InstructionSet, load LoadOptions, save SaveOptions) (string, error) {
	kind := kindOf(path)
	if kind == kindUnsupported {
		return "", unsupportedDocument(path)
	}
	for _, in := range set.Instructions {
		if in.Kind == entity.SignatureTypeDigital {
			return "", entity.UnsupportedFormatError(in.Kind, in.Format)
		}
		if in.PreviewPath == "" {
			return "", entity.BadRequestError(fmt.Sprintf("%s signature on page %d has no image", in.Kind, in.PageNumber))
		}
	}

	outputName := save.OutputFileName
	if outputName == "" {
		outputName = filepath.Base(path)
	}
	if err := os.MkdirAll(save.OutputDir, 0755); err != nil {
		return "", entity.AssetIOError("create output directory", save.OutputDir, err)
	}
	outputPath := filepath.Join(save.OutputDir, outputName)

	tmp, err := os.CreateTemp(save.OutputDir, ".signing-*"+filepath.Ext(outputName))
	if err != nil {
		return "", entity.AssetIOError("create temporary output in", save.OutputDir, err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	switch kind {
	case kindPDF:
		err = e.pdf.sign(ctx, path, tmpPath, set, load.Password)
	case kindRaster:
		err = e.raster.sign(ctx, path, tmpPath, set)
	}
	if err != nil {
		return "", err
	}

	if err := os.Rename(tmpPath, outputPath); err != nil {
		return "", entity.AssetIOError("move signed document to", outputPath, err)
	}

	if info, err := os.Stat(outputPath); err == nil {
		e.logger.Info("Document signed",
			zap.String("guid", path),
			zap.String("output", outputPath),
			zap.Int("instructions", set.Len()),
			zap.String("size", humanize.Bytes(uint64(info.Size()))),
		)
	}

	return outputPath, nil
}

func (e *localEngine) Close() error {
	e.logger.Info("Signing engine closed")
	return nil
}
