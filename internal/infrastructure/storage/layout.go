package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"esign-composer/internal/config"
	"esign-composer/internal/domain/entity"
)

// Directory names relative to the data root
const (
	CertificatesDir     = "certificates"
	ImagesDir           = "images"
	StampsPreviewDir    = "stamps/preview"
	StampsMetadataDir   = "stamps/xml"
	QRCodesPreviewDir   = "qrcodes/preview"
	QRCodesMetadataDir  = "qrcodes/xml"
	BarCodesPreviewDir  = "barcodes/preview"
	BarCodesMetadataDir = "barcodes/xml"
	TextPreviewDir      = "text/preview"
	TextMetadataDir     = "text/xml"
	SignedDir           = "signed"

	// DefaultDataFolder is created under the files directory when no data
	// directory is configured.
	DefaultDataFolder = "SignatureData"
)

// Dirs is the directory pair of one signature type. Metadata is empty for
// types without metadata records.
type Dirs struct {
	Preview  string
	Metadata string
}

// Layout maps signature types to their directories.
type Layout interface {
	// Resolve returns the directories of a signature type. Unknown types
	// resolve to the files directory without a metadata directory.
	Resolve(signatureType entity.SignatureType) Dirs

	// FilesPath returns the directory of documents offered for signing
	FilesPath() string

	// DataPath returns the signature assets root
	DataPath() string

	// SignedPath returns the output directory of signed documents
	SignedPath() string

	// EnsureDirectories creates every directory of the layout
	EnsureDirectories() error
}

type layout struct {
	filesPath string
	dataPath  string
	table     map[entity.SignatureType]Dirs
	logger    *zap.Logger
}

// NewLayout builds the layout from configuration and creates its directories.
func NewLayout(cfg *config.Config, logger *zap.Logger) (Layout, error) {
	l := newLayout(cfg.Signature.FilesDirectory, cfg.Signature.DataDirectory, logger)

	if err := l.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create signature directories: %w", err)
	}

	logger.Info("Storage layout initialized",
		zap.String("files_path", l.FilesPath()),
		zap.String("data_path", l.DataPath()),
		zap.String("signed_path", l.SignedPath()),
	)

	return l, nil
}

func newLayout(filesPath, dataPath string, logger *zap.Logger) *layout {
	if dataPath == "" {
		dataPath = filepath.Join(filesPath, DefaultDataFolder)
	}

	join := func(rel string) string {
		return filepath.Join(dataPath, filepath.FromSlash(rel))
	}
	images := Dirs{Preview: join(ImagesDir)}

	return &layout{
		filesPath: filesPath,
		dataPath:  dataPath,
		logger:    logger,
		table: map[entity.SignatureType]Dirs{
			entity.SignatureTypeDigital: {Preview: join(CertificatesDir)},
			entity.SignatureTypeImage:   images,
			entity.SignatureTypeHand:    images,
			entity.SignatureTypeStamp:   {Preview: join(StampsPreviewDir), Metadata: join(StampsMetadataDir)},
			entity.SignatureTypeQRCode:  {Preview: join(QRCodesPreviewDir), Metadata: join(QRCodesMetadataDir)},
			entity.SignatureTypeBarCode: {Preview: join(BarCodesPreviewDir), Metadata: join(BarCodesMetadataDir)},
			entity.SignatureTypeText:    {Preview: join(TextPreviewDir), Metadata: join(TextMetadataDir)},
		},
	}
}

func (l *layout) Resolve(signatureType entity.SignatureType) Dirs {
	if dirs, ok := l.table[signatureType]; ok {
		return dirs
	}
	return Dirs{Preview: l.filesPath}
}

func (l *layout) FilesPath() string {
	return l.filesPath
}

func (l *layout) DataPath() string {
	return l.dataPath
}

func (l *layout) SignedPath() string {
	return filepath.Join(l.dataPath, SignedDir)
}

func (l *layout) EnsureDirectories() error {
	dirs := []string{l.filesPath, l.SignedPath()}
	for _, d := range l.table {
		dirs = append(dirs, d.Preview)
		if d.Metadata != "" {
			dirs = append(dirs, d.Metadata)
		}
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
