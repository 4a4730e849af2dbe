package usecase

import (
	"context"
	"encoding/base64"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"esign-composer/internal/config"
	"esign-composer/internal/domain/entity"
	"esign-composer/internal/infrastructure/catalog"
	"esign-composer/internal/infrastructure/httpclient"
	"esign-composer/internal/infrastructure/metadata"
	"esign-composer/internal/infrastructure/metrics"
	"esign-composer/internal/infrastructure/storage"
)

// DrawnSignatureName is the file name of a hand drawn signature.
const DrawnSignatureName = "drawn signature.png"

type AssetUsecase interface {
	ListFiles(ctx context.Context, req *entity.FileTreeRequest) ([]entity.FileDescriptor, error)
	LoadSignatureImage(ctx context.Context, req *entity.LoadSignatureImageRequest) (*entity.LoadedSignatureImage, error)
	DeleteSignatureFile(ctx context.Context, req *entity.DeleteSignatureFileRequest) error
	SaveImage(ctx context.Context, req *entity.SaveImageRequest) (*entity.SavedFile, error)
	SaveStamp(ctx context.Context, req *entity.SaveStampRequest) (*entity.SavedFile, error)
	SaveText(ctx context.Context, req *entity.SaveTextRequest) (*entity.TextRecord, error)
	SaveOpticalCode(ctx context.Context, req *entity.SaveOpticalCodeRequest) (*entity.OpticalRecord, error)
	UploadDocument(ctx context.Context, req *entity.UploadDocumentRequest) (*entity.SavedFile, error)
	Fonts(ctx context.Context) []string
}

type assetUsecase struct {
	config  *config.Config
	layout  storage.Layout
	catalog catalog.Catalog
	client  httpclient.HTTPClient
	metrics metrics.Recorder
	logger  *zap.Logger
}

func NewAssetUsecase(
	cfg *config.Config,
	layout storage.Layout,
	cat catalog.Catalog,
	client httpclient.HTTPClient,
	recorder metrics.Recorder,
	logger *zap.Logger,
) AssetUsecase {
	return &assetUsecase{
		config:  cfg,
		layout:  layout,
		catalog: cat,
		client:  client,
		metrics: recorder,
		logger:  logger,
	}
}

// within joins rel onto root and rejects paths escaping root.
func within(root, rel string) (string, error) {
	if rel == "" {
		return root, nil
	}
	path := filepath.Join(root, rel)
	r, err := filepath.Rel(root, path)
	if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return "", entity.BadRequestError("path is outside of the files directory")
	}
	return path, nil
}

func (u *assetUsecase) ListFiles(ctx context.Context, req *entity.FileTreeRequest) ([]entity.FileDescriptor, error) {
	dirs := u.layout.Resolve(req.SignatureType)
	exclude := u.layout.DataPath()

	switch req.SignatureType {
	case entity.SignatureTypeImage, entity.SignatureTypeHand:
		return u.catalog.ListImageAssets(dirs.Preview, exclude)
	case entity.SignatureTypeStamp, entity.SignatureTypeText, entity.SignatureTypeQRCode, entity.SignatureTypeBarCode:
		return u.catalog.ListStampLikeAssets(dirs.Preview, dirs.Metadata, exclude, req.SignatureType.IsOptical())
	}

	// documents and certificates
	path, err := within(dirs.Preview, req.Path)
	if err != nil {
		return nil, err
	}
	return u.catalog.ListDocuments(path, exclude)
}

func (u *assetUsecase) LoadSignatureImage(ctx context.Context, req *entity.LoadSignatureImageRequest) (*entity.LoadedSignatureImage, error) {
	if req.Guid == "" {
		return nil, entity.BadRequestError("guid is required")
	}
	return u.catalog.LoadImage(req.Guid, req.SignatureType)
}

func (u *assetUsecase) DeleteSignatureFile(ctx context.Context, req *entity.DeleteSignatureFileRequest) error {
	return u.catalog.DeleteAsset(req.Guid, req.SignatureType)
}

func (u *assetUsecase) maxPreviewSide() int {
	if u.config.Signature.MaxPreviewPx > 0 {
		return u.config.Signature.MaxPreviewPx
	}
	return DefaultMaxPreviewSide
}

func (u *assetUsecase) saved(signatureType entity.SignatureType, path string, size int) {
	u.metrics.RecordAssetSaved(signatureType.String())
	u.logger.Info("Signature asset saved",
		zap.String("signature_type", signatureType.String()),
		zap.String("guid", path),
		zap.String("size", humanize.Bytes(uint64(size))),
	)
}

func (u *assetUsecase) SaveImage(ctx context.Context, req *entity.SaveImageRequest) (*entity.SavedFile, error) {
	data, err := decodeBase64Image(req.Image)
	if err != nil {
		return nil, err
	}

	path := freeFileName(u.layout.Resolve(entity.SignatureTypeImage).Preview, DrawnSignatureName)
	if err := writeAsset(path, data); err != nil {
		return nil, err
	}

	u.saved(entity.SignatureTypeImage, path, len(data))
	return &entity.SavedFile{Guid: path}, nil
}

func (u *assetUsecase) SaveStamp(ctx context.Context, req *entity.SaveStampRequest) (*entity.SavedFile, error) {
	if len(req.StampData) == 0 {
		return nil, entity.BadRequestError("stamp has no rings")
	}
	data, err := decodeBase64Image(req.Image)
	if err != nil {
		return nil, err
	}

	dirs := u.layout.Resolve(entity.SignatureTypeStamp)
	path, err := nextNumberedFile(dirs.Preview)
	if err != nil {
		return nil, err
	}
	if err := writeAsset(path, data); err != nil {
		return nil, err
	}
	if err := metadata.Write(metadata.RecordPathFor(path, dirs.Metadata), entity.StampRecord{Rings: req.StampData}); err != nil {
		return nil, err
	}

	u.saved(entity.SignatureTypeStamp, path, len(data))
	return &entity.SavedFile{Guid: path}, nil
}

// previewPath returns the preview file to write: the existing asset being
// edited, or the next numbered file.
func previewPath(dir, imageGuid string) (string, error) {
	if imageGuid != "" {
		return filepath.Join(dir, filepath.Base(imageGuid)), nil
	}
	return nextNumberedFile(dir)
}

func (u *assetUsecase) SaveText(ctx context.Context, req *entity.SaveTextRequest) (*entity.TextRecord, error) {
	record := req.Properties
	record.ApplyDefaults()

	if err := checkPreviewSize(record.Width, record.Height, u.maxPreviewSide()); err != nil {
		return nil, err
	}
	data, err := previewBytes(record.EncodedImage, record.Width, record.Height, u.maxPreviewSide())
	if err != nil {
		return nil, err
	}

	dirs := u.layout.Resolve(entity.SignatureTypeText)
	path, err := previewPath(dirs.Preview, record.ImageGuid)
	if err != nil {
		return nil, err
	}
	if err := writeAsset(path, data); err != nil {
		return nil, err
	}
	if err := metadata.Write(metadata.RecordPathFor(path, dirs.Metadata), record); err != nil {
		return nil, err
	}

	record.ImageGuid = path
	record.EncodedImage = base64.StdEncoding.EncodeToString(data)

	u.saved(entity.SignatureTypeText, path, len(data))
	return &record, nil
}

func (u *assetUsecase) SaveOpticalCode(ctx context.Context, req *entity.SaveOpticalCodeRequest) (*entity.OpticalRecord, error) {
	if !req.SignatureType.IsOptical() {
		return nil, entity.UnsupportedSignatureTypeError(req.SignatureType)
	}

	record := req.Properties
	record.Width = entity.DefaultOpticalWidth
	record.Height = entity.DefaultOpticalHeight

	data, err := previewBytes(record.EncodedImage, record.Width, record.Height, u.maxPreviewSide())
	if err != nil {
		return nil, err
	}
	record.EncodedImage = base64.StdEncoding.EncodeToString(data)

	if record.Temp {
		return &record, nil
	}

	dirs := u.layout.Resolve(req.SignatureType)
	path, err := previewPath(dirs.Preview, record.ImageGuid)
	if err != nil {
		return nil, err
	}
	if err := writeAsset(path, data); err != nil {
		return nil, err
	}
	if err := metadata.Write(metadata.RecordPathFor(path, dirs.Metadata), record); err != nil {
		return nil, err
	}
	record.ImageGuid = path

	u.saved(req.SignatureType, path, len(data))
	return &record, nil
}

func (u *assetUsecase) UploadDocument(ctx context.Context, req *entity.UploadDocumentRequest) (*entity.SavedFile, error) {
	if len(req.Content) == 0 && req.URL != "" {
		d, err := u.client.Download(ctx, req.URL)
		if err != nil {
			return nil, err
		}
		fetched := *req
		fetched.Filename = d.Filename
		fetched.Content = d.Content
		req = &fetched
	}

	name := filepath.Base(req.Filename)
	if name == "." || name == string(filepath.Separator) || name == "" {
		return nil, entity.BadRequestError("file name is required")
	}

	dir := u.layout.Resolve(req.SignatureType).Preview
	path := filepath.Join(dir, name)
	if !req.Rewrite {
		path = freeFileName(dir, name)
	}
	if err := writeAsset(path, req.Content); err != nil {
		return nil, err
	}

	u.logger.Info("File uploaded",
		zap.String("guid", path),
		zap.String("signature_type", req.SignatureType.String()),
		zap.Bool("rewrite", req.Rewrite),
		zap.String("size", humanize.Bytes(uint64(len(req.Content)))),
	)

	saved := &entity.SavedFile{Guid: path}
	if req.SignatureType == entity.SignatureTypeImage {
		saved.Image = base64.StdEncoding.EncodeToString(req.Content)
	}
	return saved, nil
}

func (u *assetUsecase) Fonts(ctx context.Context) []string {
	fonts := make([]string, len(u.config.Signature.Fonts))
	copy(fonts, u.config.Signature.Fonts)
	return fonts
}
