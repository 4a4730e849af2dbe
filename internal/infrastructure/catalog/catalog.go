// Package catalog lists, loads and deletes the files behind the signature
// file trees.
package catalog

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"esign-composer/internal/domain/entity"
	"esign-composer/internal/infrastructure/metadata"
	"esign-composer/internal/infrastructure/metrics"
	"esign-composer/internal/infrastructure/storage"
)

// Catalog reads and removes documents and signature assets.
type Catalog interface {
	// ListDocuments lists the immediate children of path, directories
	// first, then by name. No previews are attached.
	ListDocuments(path, excludePath string) ([]entity.FileDescriptor, error)

	// ListImageAssets lists the files of path oldest first with their
	// Base64 content attached.
	ListImageAssets(path, excludePath string) ([]entity.FileDescriptor, error)

	// ListStampLikeAssets lists previews that have a metadata record with
	// the same stem. When decorate is set the optical record text is
	// attached to each entry.
	ListStampLikeAssets(previewDir, metadataDir, excludePath string, decorate bool) ([]entity.FileDescriptor, error)

	// DeleteAsset removes an asset and, for types with metadata, its
	// record. Files already gone are ignored.
	DeleteAsset(guid string, signatureType entity.SignatureType) error

	// LoadImage returns the Base64 content of an asset and, for text
	// signatures, its record.
	LoadImage(guid string, signatureType entity.SignatureType) (*entity.LoadedSignatureImage, error)
}

type catalog struct {
	layout  storage.Layout
	metrics metrics.Recorder
	logger  *zap.Logger
}

func NewCatalog(layout storage.Layout, recorder metrics.Recorder, logger *zap.Logger) Catalog {
	return &catalog{
		layout:  layout,
		metrics: recorder,
		logger:  logger,
	}
}

type entry struct {
	path string
	info fs.FileInfo
}

// readEntries returns the visible children of dir. A missing directory has no
// children.
func readEntries(dir, excludePath string, filesOnly bool) ([]entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, entity.AssetIOError("list", dir, err)
	}

	exclude := ""
	if excludePath != "" {
		exclude = absPath(excludePath)
	}

	entries := make([]entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		path := absPath(filepath.Join(dir, de.Name()))
		if path == exclude || isHidden(path, de.Name()) {
			continue
		}
		if filesOnly && de.IsDir() {
			continue
		}
		info, err := de.Info()
		if err != nil {
			// removed between ReadDir and Info
			continue
		}
		entries = append(entries, entry{path: path, info: info})
	}

	return entries, nil
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

func sortByTypeThenName(entries []entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].info, entries[j].info
		if a.IsDir() != b.IsDir() {
			return a.IsDir()
		}
		return a.Name() < b.Name()
	})
}

func sortByDateThenName(entries []entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].info.ModTime(), entries[j].info.ModTime()
		if !a.Equal(b) {
			return a.Before(b)
		}
		return entries[i].info.Name() < entries[j].info.Name()
	})
}

func describe(e entry, withImage bool) (entity.FileDescriptor, error) {
	fd := entity.FileDescriptor{
		Guid:        e.path,
		Name:        e.info.Name(),
		Size:        e.info.Size(),
		IsDirectory: e.info.IsDir(),
	}
	if withImage {
		encoded, err := encodeFile(e.path)
		if err != nil {
			return fd, err
		}
		fd.Image = encoded
	}
	return fd, nil
}

func encodeFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", entity.AssetIOError("read", path, err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

func (c *catalog) ListDocuments(path, excludePath string) ([]entity.FileDescriptor, error) {
	entries, err := readEntries(path, excludePath, false)
	if err != nil {
		return nil, err
	}
	sortByTypeThenName(entries)

	files := make([]entity.FileDescriptor, 0, len(entries))
	for _, e := range entries {
		fd, _ := describe(e, false)
		files = append(files, fd)
	}

	c.logger.Debug("Listed documents",
		zap.String("path", path),
		zap.Int("count", len(files)),
	)

	return files, nil
}

func (c *catalog) ListImageAssets(path, excludePath string) ([]entity.FileDescriptor, error) {
	entries, err := readEntries(path, excludePath, true)
	if err != nil {
		return nil, err
	}
	sortByDateThenName(entries)

	return c.describeAll(path, entries, nil)
}

func (c *catalog) ListStampLikeAssets(previewDir, metadataDir, excludePath string, decorate bool) ([]entity.FileDescriptor, error) {
	previews, err := readEntries(previewDir, excludePath, true)
	if err != nil {
		return nil, err
	}
	records, err := readEntries(metadataDir, "", true)
	if err != nil {
		return nil, err
	}

	stems := make(map[string]bool, len(records))
	for _, r := range records {
		if name := r.info.Name(); filepath.Ext(name) == metadata.Extension {
			stems[stem(name)] = true
		}
	}

	paired := previews[:0]
	for _, p := range previews {
		if stems[stem(p.info.Name())] {
			paired = append(paired, p)
		}
	}
	sortByDateThenName(paired)

	var decorateFn func(*entity.FileDescriptor) error
	if decorate {
		decorateFn = func(fd *entity.FileDescriptor) error {
			record, err := metadata.Read[entity.OpticalRecord](metadata.RecordPath(fd.Guid, absPath(previewDir), absPath(metadataDir)))
			if err != nil {
				return err
			}
			fd.Text = record.Text
			return nil
		}
	}

	return c.describeAll(previewDir, paired, decorateFn)
}

func (c *catalog) describeAll(dir string, entries []entry, decorate func(*entity.FileDescriptor) error) ([]entity.FileDescriptor, error) {
	var total int64
	files := make([]entity.FileDescriptor, 0, len(entries))
	for _, e := range entries {
		fd, err := describe(e, true)
		if err != nil {
			return nil, err
		}
		if decorate != nil {
			if err := decorate(&fd); err != nil {
				return nil, err
			}
		}
		total += fd.Size
		files = append(files, fd)
	}

	c.logger.Debug("Listed signature assets",
		zap.String("path", dir),
		zap.Int("count", len(files)),
		zap.String("size", humanize.Bytes(uint64(total))),
	)

	return files, nil
}

func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func (c *catalog) recordPath(guid string, signatureType entity.SignatureType) string {
	dirs := c.layout.Resolve(signatureType)
	return metadata.RecordPath(absPath(guid), absPath(dirs.Preview), absPath(dirs.Metadata))
}

// confine resolves guid and rejects files outside the preview directory of
// signatureType.
func (c *catalog) confine(guid string, signatureType entity.SignatureType) (string, error) {
	if guid == "" {
		return "", entity.BadRequestError("guid is required")
	}

	root := absPath(c.layout.Resolve(signatureType).Preview)
	path := absPath(guid)
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", entity.BadRequestError(fmt.Sprintf("%s is outside of the %s directory", guid, signatureType))
	}
	return path, nil
}

func (c *catalog) DeleteAsset(guid string, signatureType entity.SignatureType) error {
	guid, err := c.confine(guid, signatureType)
	if err != nil {
		return err
	}

	if err := removeIfExists(guid); err != nil {
		return err
	}

	if signatureType.HasMetadata() {
		if err := removeIfExists(c.recordPath(guid, signatureType)); err != nil {
			return err
		}
	}

	c.metrics.RecordAssetDeleted(signatureType.String())
	c.logger.Info("Signature asset deleted",
		zap.String("guid", guid),
		zap.String("signature_type", signatureType.String()),
	)

	return nil
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return entity.AssetIOError("delete", path, err)
	}
	return nil
}

func (c *catalog) LoadImage(guid string, signatureType entity.SignatureType) (*entity.LoadedSignatureImage, error) {
	guid, err := c.confine(guid, signatureType)
	if err != nil {
		return nil, err
	}

	encoded, err := encodeFile(guid)
	if err != nil {
		return nil, err
	}

	loaded := &entity.LoadedSignatureImage{PageImage: encoded}
	if signatureType == entity.SignatureTypeText {
		record, err := metadata.Read[entity.TextRecord](c.recordPath(guid, signatureType))
		if err != nil {
			return nil, err
		}
		record.ImageGuid = guid
		loaded.Props = &record
	}

	return loaded, nil
}
