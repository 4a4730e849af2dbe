package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"esign-composer/internal/config"
	"esign-composer/internal/domain/entity"
	"esign-composer/internal/domain/repository"
	"esign-composer/internal/infrastructure/engine"
	"esign-composer/internal/infrastructure/storage"
)

const (
	defaultSignLogLimit = 50
	maxSignLogLimit     = 200
)

type DocumentUsecase interface {
	LoadDocumentDescription(ctx context.Context, req *entity.LoadDocumentRequest) (*entity.DocumentDescription, error)
	LoadDocumentPage(ctx context.Context, req *entity.LoadDocumentPageRequest) (*entity.PageDescription, error)

	// DownloadPath resolves the file served for a download. Only the base
	// name of guid is used.
	DownloadPath(ctx context.Context, guid string, signed bool) (string, error)

	SignLogs(ctx context.Context, documentGuid string, limit int) ([]entity.SignLog, error)
}

type documentUsecase struct {
	config   *config.Config
	layout   storage.Layout
	engines  *engine.Provider
	cache    repository.DescriptionCache
	signLogs repository.SignLogRepository
	logger   *zap.Logger
}

func NewDocumentUsecase(
	cfg *config.Config,
	layout storage.Layout,
	engines *engine.Provider,
	cache repository.DescriptionCache,
	signLogs repository.SignLogRepository,
	logger *zap.Logger,
) DocumentUsecase {
	return &documentUsecase{
		config:   cfg,
		layout:   layout,
		engines:  engines,
		cache:    cache,
		signLogs: signLogs,
		logger:   logger,
	}
}

func (u *documentUsecase) engine(guid string) (engine.Engine, error) {
	eng, err := u.engines.Get()
	if err != nil {
		return nil, entity.EngineError("initialize engine for", guid, err)
	}
	return eng, nil
}

func (u *documentUsecase) LoadDocumentDescription(ctx context.Context, req *entity.LoadDocumentRequest) (*entity.DocumentDescription, error) {
	if req.Guid == "" {
		return nil, entity.BadRequestError("guid is required")
	}

	info, err := os.Stat(req.Guid)
	if err != nil {
		return nil, entity.AssetIOError("open", req.Guid, err)
	}

	// descriptions of password protected documents are not cached
	cacheable := req.Password == ""
	if cacheable {
		if cached, ok := u.cache.Get(ctx, req.Guid, info.ModTime()); ok {
			u.logger.Debug("Document description served from cache", zap.String("guid", req.Guid))
			return cached, nil
		}
	}

	eng, err := u.engine(req.Guid)
	if err != nil {
		return nil, err
	}

	doc, err := eng.Describe(ctx, req.Guid, req.Password)
	if err != nil {
		return nil, err
	}

	withImages := u.config.Signature.PreloadPageCount == 0
	description := &entity.DocumentDescription{
		Guid:  req.Guid,
		Pages: make([]entity.PageDescription, 0, doc.PageCount),
	}
	for n := 1; n <= doc.PageCount; n++ {
		page, err := u.describePage(ctx, eng, req.Guid, n, req.Password, withImages)
		if err != nil {
			return nil, err
		}
		description.Pages = append(description.Pages, *page)
	}

	u.logger.Info("Document description loaded",
		zap.String("guid", req.Guid),
		zap.Int("pages", doc.PageCount),
		zap.Bool("with_images", withImages),
	)

	if cacheable {
		if err := u.cache.Set(ctx, req.Guid, info.ModTime(), description); err != nil {
			u.logger.Warn("Failed to cache document description", zap.String("guid", req.Guid), zap.Error(err))
		}
	}

	return description, nil
}

// describePage returns the size of a page and, when withImage is set, its
// rendered image. Engines that cannot render the document leave the image
// empty.
func (u *documentUsecase) describePage(ctx context.Context, eng engine.Engine, guid string, number int, password string, withImage bool) (*entity.PageDescription, error) {
	size, err := eng.PageSize(ctx, guid, number, password)
	if err != nil {
		return nil, err
	}

	page := &entity.PageDescription{Number: number, Width: size.Width, Height: size.Height}
	if !withImage {
		return page, nil
	}

	data, err := eng.RenderPage(ctx, guid, number, password, 1)
	if err != nil {
		if errors.Is(err, entity.ErrUnsupportedFormat) {
			return page, nil
		}
		return nil, err
	}
	page.Data = base64.StdEncoding.EncodeToString(data)
	return page, nil
}

func (u *documentUsecase) LoadDocumentPage(ctx context.Context, req *entity.LoadDocumentPageRequest) (*entity.PageDescription, error) {
	if req.Guid == "" {
		return nil, entity.BadRequestError("guid is required")
	}
	if req.Page < 1 {
		return nil, entity.BadRequestError("page must be positive")
	}

	eng, err := u.engine(req.Guid)
	if err != nil {
		return nil, err
	}
	return u.describePage(ctx, eng, req.Guid, req.Page, req.Password, true)
}

func (u *documentUsecase) DownloadPath(ctx context.Context, guid string, signed bool) (string, error) {
	name := filepath.Base(guid)
	if guid == "" || name == "." || name == string(filepath.Separator) {
		return "", entity.BadRequestError("path is required")
	}

	dir := u.layout.FilesPath()
	if signed {
		dir = u.layout.SignedPath()
	}

	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &entity.AppError{Code: entity.ErrCodeBadRequest, Message: "file not found", Op: "download", Path: path, Cause: err}
		}
		return "", entity.AssetIOError("open", path, err)
	}
	return path, nil
}

func (u *documentUsecase) SignLogs(ctx context.Context, documentGuid string, limit int) ([]entity.SignLog, error) {
	if limit <= 0 {
		limit = defaultSignLogLimit
	}
	if limit > maxSignLogLimit {
		limit = maxSignLogLimit
	}
	if documentGuid != "" {
		return u.signLogs.FindByDocument(ctx, documentGuid, limit)
	}
	return u.signLogs.FindRecent(ctx, limit)
}
