package catalog

import (
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"esign-composer/internal/config"
	"esign-composer/internal/domain/entity"
	"esign-composer/internal/infrastructure/metadata"
	"esign-composer/internal/infrastructure/metrics"
	"esign-composer/internal/infrastructure/storage"
)

func newTestCatalog(t *testing.T) (Catalog, storage.Layout) {
	t.Helper()

	cfg := &config.Config{}
	cfg.Signature.FilesDirectory = filepath.Join(t.TempDir(), "files")

	layout, err := storage.NewLayout(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewLayout() error = %v", err)
	}
	return NewCatalog(layout, metrics.NewNoopRecorder(), zaptest.NewLogger(t)), layout
}

func writeFile(t *testing.T, path, content string, mtime time.Time) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	if !mtime.IsZero() {
		if err := os.Chtimes(path, mtime, mtime); err != nil {
			t.Fatal(err)
		}
	}
}

func names(files []entity.FileDescriptor) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Name
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestListDocumentsOrder(t *testing.T) {
	c, layout := newTestCatalog(t)
	root := layout.FilesPath()

	writeFile(t, filepath.Join(root, "b.pdf"), "b", time.Time{})
	writeFile(t, filepath.Join(root, "B.docx"), "B", time.Time{})
	writeFile(t, filepath.Join(root, "a.pdf"), "a", time.Time{})
	writeFile(t, filepath.Join(root, ".hidden.pdf"), "h", time.Time{})
	if err := os.MkdirAll(filepath.Join(root, "zfolder"), 0755); err != nil {
		t.Fatal(err)
	}

	files, err := c.ListDocuments(root, layout.DataPath())
	if err != nil {
		t.Fatalf("ListDocuments() error = %v", err)
	}

	// data directory is excluded, directories first, case-sensitive names
	want := []string{"zfolder", "B.docx", "a.pdf", "b.pdf"}
	if got := names(files); !equal(got, want) {
		t.Errorf("ListDocuments() = %v, want %v", got, want)
	}
	if !files[0].IsDirectory {
		t.Error("expected first entry to be a directory")
	}
	for _, f := range files {
		if f.Image != "" {
			t.Errorf("document %s has a preview attached", f.Name)
		}
		if !filepath.IsAbs(f.Guid) {
			t.Errorf("guid %q is not absolute", f.Guid)
		}
	}
}

func TestListDocumentsMissingDirectory(t *testing.T) {
	c, _ := newTestCatalog(t)

	files, err := c.ListDocuments(filepath.Join(t.TempDir(), "nope"), "")
	if err != nil {
		t.Fatalf("ListDocuments() error = %v", err)
	}
	if len(files) != 0 {
		t.Errorf("expected empty listing, got %v", names(files))
	}
}

func TestListImageAssetsOrderAndPreview(t *testing.T) {
	c, layout := newTestCatalog(t)
	dir := layout.Resolve(entity.SignatureTypeImage).Preview
	base := time.Now().Add(-time.Hour)

	writeFile(t, filepath.Join(dir, "c.png"), "c", base)
	writeFile(t, filepath.Join(dir, "b.png"), "b", base.Add(time.Minute))
	writeFile(t, filepath.Join(dir, "a.png"), "a", base.Add(time.Minute))
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0755); err != nil {
		t.Fatal(err)
	}

	files, err := c.ListImageAssets(dir, "")
	if err != nil {
		t.Fatalf("ListImageAssets() error = %v", err)
	}

	want := []string{"c.png", "a.png", "b.png"}
	if got := names(files); !equal(got, want) {
		t.Errorf("ListImageAssets() = %v, want %v", got, want)
	}
	if files[0].Image != base64.StdEncoding.EncodeToString([]byte("c")) {
		t.Errorf("image = %q", files[0].Image)
	}
}

func TestListStampLikeAssetsIntersection(t *testing.T) {
	c, layout := newTestCatalog(t)
	dirs := layout.Resolve(entity.SignatureTypeQRCode)
	base := time.Now().Add(-time.Hour)

	writeFile(t, filepath.Join(dirs.Preview, "001.png"), "one", base)
	writeFile(t, filepath.Join(dirs.Preview, "002.png"), "two", base.Add(time.Second))
	if err := metadata.Write(filepath.Join(dirs.Metadata, "001.yaml"), entity.OpticalRecord{Text: "hello"}); err != nil {
		t.Fatal(err)
	}
	if err := metadata.Write(filepath.Join(dirs.Metadata, "003.yaml"), entity.OpticalRecord{Text: "orphan"}); err != nil {
		t.Fatal(err)
	}

	files, err := c.ListStampLikeAssets(dirs.Preview, dirs.Metadata, "", true)
	if err != nil {
		t.Fatalf("ListStampLikeAssets() error = %v", err)
	}

	if got := names(files); !equal(got, []string{"001.png"}) {
		t.Fatalf("ListStampLikeAssets() = %v, want [001.png]", got)
	}
	if files[0].Text != "hello" {
		t.Errorf("text = %q, want hello", files[0].Text)
	}

	plain, err := c.ListStampLikeAssets(dirs.Preview, dirs.Metadata, "", false)
	if err != nil {
		t.Fatalf("ListStampLikeAssets() error = %v", err)
	}
	if plain[0].Text != "" {
		t.Errorf("undecorated entry has text %q", plain[0].Text)
	}
}

func TestListStampLikeAssetsIgnoresForeignRecords(t *testing.T) {
	c, layout := newTestCatalog(t)
	dirs := layout.Resolve(entity.SignatureTypeBarCode)

	writeFile(t, filepath.Join(dirs.Preview, "001.png"), "one", time.Time{})
	writeFile(t, filepath.Join(dirs.Metadata, "001.xml"), "<legacy/>", time.Time{})
	writeFile(t, filepath.Join(dirs.Preview, "002.png"), "two", time.Time{})
	if err := metadata.Write(filepath.Join(dirs.Metadata, "002.yaml"), entity.OpticalRecord{Text: "123456"}); err != nil {
		t.Fatal(err)
	}

	files, err := c.ListStampLikeAssets(dirs.Preview, dirs.Metadata, "", true)
	if err != nil {
		t.Fatalf("ListStampLikeAssets() error = %v", err)
	}
	if got := names(files); !equal(got, []string{"002.png"}) {
		t.Fatalf("ListStampLikeAssets() = %v, want [002.png]", got)
	}
	if files[0].Text != "123456" {
		t.Errorf("text = %q, want 123456", files[0].Text)
	}
}

func TestDeleteAssetRemovesRecord(t *testing.T) {
	c, layout := newTestCatalog(t)
	dirs := layout.Resolve(entity.SignatureTypeStamp)
	preview := filepath.Join(dirs.Preview, "001.png")
	record := filepath.Join(dirs.Metadata, "001.yaml")

	writeFile(t, preview, "png", time.Time{})
	if err := metadata.Write(record, entity.StampRecord{}); err != nil {
		t.Fatal(err)
	}

	if err := c.DeleteAsset(preview, entity.SignatureTypeStamp); err != nil {
		t.Fatalf("DeleteAsset() error = %v", err)
	}
	for _, path := range []string{preview, record} {
		if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("%s still exists", path)
		}
	}

	// deleting again is not an error
	if err := c.DeleteAsset(preview, entity.SignatureTypeStamp); err != nil {
		t.Errorf("second DeleteAsset() error = %v", err)
	}
}

func TestDeleteImageKeepsSiblings(t *testing.T) {
	c, layout := newTestCatalog(t)
	dir := layout.Resolve(entity.SignatureTypeImage).Preview
	image := filepath.Join(dir, "sig.png")
	sibling := filepath.Join(dir, "sig.yaml")

	writeFile(t, image, "png", time.Time{})
	writeFile(t, sibling, "keep", time.Time{})

	if err := c.DeleteAsset(image, entity.SignatureTypeImage); err != nil {
		t.Fatalf("DeleteAsset() error = %v", err)
	}
	if _, err := os.Stat(sibling); err != nil {
		t.Errorf("sibling removed: %v", err)
	}
}

func TestLoadImageText(t *testing.T) {
	c, layout := newTestCatalog(t)
	dirs := layout.Resolve(entity.SignatureTypeText)
	preview := filepath.Join(dirs.Preview, "001.png")

	writeFile(t, preview, "png", time.Time{})
	if err := metadata.Write(filepath.Join(dirs.Metadata, "001.yaml"), entity.TextRecord{Text: "Signed", Font: "Arial"}); err != nil {
		t.Fatal(err)
	}

	loaded, err := c.LoadImage(preview, entity.SignatureTypeText)
	if err != nil {
		t.Fatalf("LoadImage() error = %v", err)
	}
	if loaded.PageImage != base64.StdEncoding.EncodeToString([]byte("png")) {
		t.Errorf("PageImage = %q", loaded.PageImage)
	}
	if loaded.Props == nil || loaded.Props.Text != "Signed" {
		t.Errorf("Props = %+v", loaded.Props)
	}

	if _, err := c.LoadImage(filepath.Join(dirs.Preview, "missing.png"), entity.SignatureTypeImage); !errors.Is(err, entity.ErrAssetIOFailure) {
		t.Errorf("missing image error = %v, want asset i/o failure", err)
	}
}

func TestAssetOutsidePreviewDirRejected(t *testing.T) {
	c, layout := newTestCatalog(t)
	outside := filepath.Join(filepath.Dir(layout.FilesPath()), "etc")
	image := filepath.Join(outside, "app.png")
	record := filepath.Join(outside, "app.yaml")
	writeFile(t, image, "png", time.Time{})
	writeFile(t, record, "keep", time.Time{})

	stampDir := layout.Resolve(entity.SignatureTypeStamp).Preview
	guids := []string{
		image,
		filepath.Join(stampDir, "..", "..", "..", "..", "etc", "app.png"),
		stampDir,
	}
	for _, guid := range guids {
		if err := c.DeleteAsset(guid, entity.SignatureTypeStamp); !errors.Is(err, entity.ErrBadRequest) {
			t.Errorf("DeleteAsset(%s) error = %v, want bad request", guid, err)
		}
		if _, err := c.LoadImage(guid, entity.SignatureTypeText); !errors.Is(err, entity.ErrBadRequest) {
			t.Errorf("LoadImage(%s) error = %v, want bad request", guid, err)
		}
	}

	for _, path := range []string{image, record} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("%s removed: %v", path, err)
		}
	}

	// an image guid is checked against the images directory, not the stamps one
	stamp := filepath.Join(stampDir, "001.png")
	writeFile(t, stamp, "png", time.Time{})
	if err := c.DeleteAsset(stamp, entity.SignatureTypeImage); !errors.Is(err, entity.ErrBadRequest) {
		t.Errorf("DeleteAsset() across types error = %v, want bad request", err)
	}
	if _, err := os.Stat(stamp); err != nil {
		t.Errorf("stamp removed: %v", err)
	}
}
