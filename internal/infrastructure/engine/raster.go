package engine

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/tiff"

	"esign-composer/internal/domain/entity"
)

// rasterEngine signs single page raster documents by compositing each
// signature preview onto the image.
type rasterEngine struct {
	logger *zap.Logger
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, entity.AssetIOError("open", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, entity.EngineError("decode", path, err)
	}
	return img, nil
}

func encodeImage(path string, img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "jpg", "jpeg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95})
	case "bmp":
		err = bmp.Encode(&buf, img)
	case "tif", "tiff":
		err = tiff.Encode(&buf, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		err = png.Encode(&buf, img)
	}
	if err != nil {
		return nil, entity.EngineError("encode", path, err)
	}
	return buf.Bytes(), nil
}

func (e *rasterEngine) pageSize(path string, page int) (PageSize, error) {
	if page != 1 {
		return PageSize{}, entity.BadRequestError(fmt.Sprintf("page %d out of range 1..1", page))
	}
	cfg, err := imageConfig(path)
	if err != nil {
		return PageSize{}, err
	}
	return PageSize{Width: float64(cfg.Width), Height: float64(cfg.Height)}, nil
}

func (e *rasterEngine) renderPage(path string, page int, scale float64) ([]byte, error) {
	if page != 1 {
		return nil, entity.BadRequestError(fmt.Sprintf("page %d out of range 1..1", page))
	}
	img, err := decodeImage(path)
	if err != nil {
		return nil, err
	}

	if scale > 0 && scale != 1 {
		b := img.Bounds()
		w := int(math.Round(float64(b.Dx()) * scale))
		h := int(math.Round(float64(b.Dy()) * scale))
		dst := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
		img = dst
	}

	return encodeImage(".png", img)
}

// placement maps the preview's pixel space onto the instruction rectangle,
// rotated clockwise by the instruction angle around the rectangle center.
func placement(in entity.Instruction, src image.Rectangle) f64.Aff3 {
	sw, sh := float64(src.Dx()), float64(src.Dy())
	w, h := float64(in.Width), float64(in.Height)
	if w <= 0 {
		w = sw
	}
	if h <= 0 {
		h = sh
	}

	sx, sy := w/sw, h/sh
	theta := float64(in.RotationAngle) * math.Pi / 180
	cos, sin := math.Cos(theta), math.Sin(theta)
	cx, cy := float64(in.Left)+w/2, float64(in.Top)+h/2

	a, b := cos*sx, -sin*sy
	d, e := sin*sx, cos*sy
	ox, oy := float64(src.Min.X)+sw/2, float64(src.Min.Y)+sh/2

	return f64.Aff3{
		a, b, cx - a*ox - b*oy,
		d, e, cy - d*ox - e*oy,
	}
}

func (e *rasterEngine) sign(ctx context.Context, src, dst string, set entity.InstructionSet) error {
	img, err := decodeImage(src)
	if err != nil {
		return err
	}

	canvas := image.NewRGBA(img.Bounds())
	xdraw.Draw(canvas, canvas.Bounds(), img, img.Bounds().Min, xdraw.Src)

	for i, in := range set.Instructions {
		if err := ctx.Err(); err != nil {
			return err
		}
		if in.PageNumber != 1 {
			return entity.BadRequestError(fmt.Sprintf("page %d out of range 1..1", in.PageNumber))
		}

		preview, err := decodeImage(in.PreviewPath)
		if err != nil {
			return err
		}
		xdraw.BiLinear.Transform(canvas, placement(in, preview.Bounds()), preview, preview.Bounds(), xdraw.Over, nil)

		e.logger.Debug("Signature composited",
			zap.Int("index", i),
			zap.String("signature_type", in.Kind.String()),
		)
	}

	data, err := encodeImage(src, canvas)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return entity.AssetIOError("write", dst, err)
	}
	return nil
}
