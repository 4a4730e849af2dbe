package usecase

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"esign-composer/internal/domain/entity"
)

// decodeBase64Image strips an optional data URL prefix and decodes the
// payload.
func decodeBase64Image(encoded string) ([]byte, error) {
	if i := strings.Index(encoded, ";base64,"); i >= 0 && strings.HasPrefix(encoded, "data:") {
		encoded = encoded[i+len(";base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, entity.BadRequestError(fmt.Sprintf("invalid base64 image: %v", err))
	}
	return data, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}

// nextNumberedFile returns the first dir/NNN.png that does not exist.
func nextNumberedFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", entity.AssetIOError("list", dir, err)
	}
	for i := 1; i <= len(entries)+1; i++ {
		path := filepath.Join(dir, fmt.Sprintf("%03d.png", i))
		if !exists(path) {
			return path, nil
		}
	}
	return filepath.Join(dir, "001.png"), nil
}

// freeFileName returns dir/name, or dir/"stem (N).ext" with the first N that
// is not taken.
func freeFileName(dir, name string) string {
	path := filepath.Join(dir, name)
	if !exists(path) {
		return path
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		path = filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, i, ext))
		if !exists(path) {
			return path
		}
	}
}

func writeAsset(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return entity.AssetIOError("create directory for", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return entity.AssetIOError("write", path, err)
	}
	return nil
}

// DefaultMaxPreviewSide bounds preview dimensions when none is configured.
const DefaultMaxPreviewSide = 4096

func checkPreviewSize(width, height, maxSide int) error {
	if width <= 0 || height <= 0 || width > maxSide || height > maxSide {
		return entity.BadRequestError(fmt.Sprintf("invalid preview size %dx%d, each side must be between 1 and %d", width, height, maxSide))
	}
	return nil
}

// blankPreview is a white placeholder used when the client sends no
// rendered preview.
func blankPreview(width, height, maxSide int) ([]byte, error) {
	if err := checkPreviewSize(width, height, maxSide); err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}
	return buf.Bytes(), nil
}

// previewBytes returns the client rendered preview, or a blank placeholder.
func previewBytes(encoded string, width, height, maxSide int) ([]byte, error) {
	if encoded != "" {
		return decodeBase64Image(encoded)
	}
	return blankPreview(width, height, maxSide)
}
