package engine

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"strconv"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"go.uber.org/zap"

	"esign-composer/internal/domain/entity"
)

// pdfEngine burns signature previews into PDF pages as image stamps.
type pdfEngine struct {
	logger *zap.Logger
}

func pdfConfig(password string) *model.Configuration {
	conf := model.NewDefaultConfiguration()
	if password != "" {
		conf.UserPW = password
		conf.OwnerPW = password
	}
	return conf
}

func (e *pdfEngine) describe(path, password string) (DocumentInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return DocumentInfo{}, entity.AssetIOError("open", path, err)
	}
	defer f.Close()

	n, err := pdfapi.PageCount(f, pdfConfig(password))
	if err != nil {
		return DocumentInfo{}, entity.EngineError("count pages of", path, err)
	}
	return DocumentInfo{PageCount: n}, nil
}

func (e *pdfEngine) pageDims(path, password string) ([]types.Dim, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, entity.AssetIOError("open", path, err)
	}
	defer f.Close()

	dims, err := pdfapi.PageDims(f, pdfConfig(password))
	if err != nil {
		return nil, entity.EngineError("read page sizes of", path, err)
	}
	return dims, nil
}

func (e *pdfEngine) pageSize(path string, page int, password string) (PageSize, error) {
	dims, err := e.pageDims(path, password)
	if err != nil {
		return PageSize{}, err
	}
	if page < 1 || page > len(dims) {
		return PageSize{}, entity.BadRequestError(fmt.Sprintf("page %d out of range 1..%d", page, len(dims)))
	}
	d := dims[page-1]
	return PageSize{Width: d.Width, Height: d.Height}, nil
}

// watermarkFor converts an instruction into an image stamp anchored at the
// bottom left of the page. Instruction coordinates are measured from the top
// left corner.
func watermarkFor(in entity.Instruction, page types.Dim) (*model.Watermark, error) {
	cfg, err := imageConfig(in.PreviewPath)
	if err != nil {
		return nil, err
	}

	scale := 1.0
	if in.Width > 0 && cfg.Width > 0 {
		scale = float64(in.Width) / float64(cfg.Width)
	}

	desc := fmt.Sprintf("scale:%.4f abs, pos:bl, rot:%d, op:1", scale, -in.RotationAngle)
	wm, err := pdfcpu.ParseImageWatermarkDetails(in.PreviewPath, desc, true, types.POINTS)
	if err != nil {
		return nil, entity.EngineError("prepare stamp from", in.PreviewPath, err)
	}

	height := float64(in.Height)
	if height <= 0 {
		height = float64(cfg.Height) * scale
	}
	wm.Dx = float64(in.Left)
	wm.Dy = page.Height - float64(in.Top) - height

	return wm, nil
}

func imageConfig(path string) (image.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, entity.AssetIOError("open", path, err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return image.Config{}, entity.EngineError("decode", path, err)
	}
	return cfg, nil
}

func (e *pdfEngine) sign(ctx context.Context, src, dst string, set entity.InstructionSet, password string) error {
	if err := copyFile(src, dst); err != nil {
		return entity.AssetIOError("copy", src, err)
	}

	dims, err := e.pageDims(src, password)
	if err != nil {
		return err
	}

	conf := pdfConfig(password)
	for i, in := range set.Instructions {
		if err := ctx.Err(); err != nil {
			return err
		}
		if in.PageNumber < 1 || in.PageNumber > len(dims) {
			return entity.BadRequestError(fmt.Sprintf("page %d out of range 1..%d", in.PageNumber, len(dims)))
		}

		wm, err := watermarkFor(in, dims[in.PageNumber-1])
		if err != nil {
			return err
		}

		pages := []string{strconv.Itoa(in.PageNumber)}
		if err := pdfapi.AddWatermarksFile(dst, "", pages, wm, conf); err != nil {
			return entity.EngineError("stamp", src, err)
		}

		e.logger.Debug("Signature stamped",
			zap.Int("index", i),
			zap.String("signature_type", in.Kind.String()),
			zap.Int("page", in.PageNumber),
		)
	}

	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	return copyAndClose(out, in)
}

// copyAndClose copies r into w and closes w, returning the first error.
func copyAndClose(w io.WriteCloser, r io.Reader) error {
	_, err := io.Copy(w, r)
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	return err
}
