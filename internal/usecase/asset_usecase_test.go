package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"esign-composer/internal/domain/entity"
	"esign-composer/internal/infrastructure/catalog"
	"esign-composer/internal/infrastructure/httpclient"
	"esign-composer/internal/infrastructure/metadata"
	"esign-composer/internal/infrastructure/storage"
)

var pixel = base64.StdEncoding.EncodeToString([]byte("not really a png"))

func newAssetFixture(t *testing.T) (AssetUsecase, storage.Layout, *fakeRecorder) {
	t.Helper()
	cfg, layout := newTestLayout(t)
	recorder := newFakeRecorder()
	logger := zaptest.NewLogger(t)
	cat := catalog.NewCatalog(layout, recorder, logger)
	client := fakeDownloader{}
	return NewAssetUsecase(cfg, layout, cat, client, recorder, logger), layout, recorder
}

// fakeDownloader serves a single remote document.
type fakeDownloader struct{}

func (fakeDownloader) Download(ctx context.Context, rawURL string) (*httpclient.Download, error) {
	if rawURL == "https://example.com/report.pdf" {
		return &httpclient.Download{Filename: "report.pdf", Content: []byte("remote")}, nil
	}
	return nil, entity.AssetIOError("download", rawURL, errors.New("404 Not Found"))
}

func TestSaveImageFindsFreeName(t *testing.T) {
	u, layout, recorder := newAssetFixture(t)
	ctx := context.Background()
	dir := layout.Resolve(entity.SignatureTypeImage).Preview

	first, err := u.SaveImage(ctx, &entity.SaveImageRequest{Image: "data:image/png;base64," + pixel})
	if err != nil {
		t.Fatalf("SaveImage() error = %v", err)
	}
	second, err := u.SaveImage(ctx, &entity.SaveImageRequest{Image: pixel})
	if err != nil {
		t.Fatalf("SaveImage() error = %v", err)
	}

	if first.Guid != filepath.Join(dir, "drawn signature.png") {
		t.Errorf("first = %q", first.Guid)
	}
	if second.Guid != filepath.Join(dir, "drawn signature (1).png") {
		t.Errorf("second = %q", second.Guid)
	}
	data, err := os.ReadFile(first.Guid)
	if err != nil || string(data) != "not really a png" {
		t.Errorf("stored %q, %v", data, err)
	}
	if recorder.saved["image"] != 2 {
		t.Errorf("saved metric = %d, want 2", recorder.saved["image"])
	}
}

func TestSaveImageRejectsBadPayload(t *testing.T) {
	u, _, _ := newAssetFixture(t)

	_, err := u.SaveImage(context.Background(), &entity.SaveImageRequest{Image: "%%%"})
	if !errors.Is(err, entity.ErrBadRequest) {
		t.Errorf("error = %v, want bad request", err)
	}
}

func TestSaveStampNumbersPreviews(t *testing.T) {
	u, layout, _ := newAssetFixture(t)
	ctx := context.Background()
	dirs := layout.Resolve(entity.SignatureTypeStamp)
	rings := []entity.StampRing{{Text: "ACME", TextRepeat: 3, Radius: 40, Height: 100}}

	for i, want := range []string{"001.png", "002.png"} {
		saved, err := u.SaveStamp(ctx, &entity.SaveStampRequest{Image: pixel, StampData: rings})
		if err != nil {
			t.Fatalf("SaveStamp() #%d error = %v", i, err)
		}
		if saved.Guid != filepath.Join(dirs.Preview, want) {
			t.Errorf("SaveStamp() #%d guid = %q, want %s", i, saved.Guid, want)
		}
	}

	record, err := metadata.Read[entity.StampRecord](filepath.Join(dirs.Metadata, "002.yaml"))
	if err != nil {
		t.Fatalf("stamp record: %v", err)
	}
	if len(record.Rings) != 1 || record.Rings[0].Text != "ACME" || record.Rings[0].TextRepeat != 3 {
		t.Errorf("record = %+v", record)
	}

	if _, err := u.SaveStamp(ctx, &entity.SaveStampRequest{Image: pixel}); !errors.Is(err, entity.ErrBadRequest) {
		t.Errorf("stamp without rings error = %v, want bad request", err)
	}
}

func TestSaveTextWritesBlankPreviewAndRecord(t *testing.T) {
	u, layout, _ := newAssetFixture(t)
	ctx := context.Background()
	dirs := layout.Resolve(entity.SignatureTypeText)

	saved, err := u.SaveText(ctx, &entity.SaveTextRequest{Properties: entity.TextRecord{
		Text: "Jane", Width: 120, Height: 40, Font: "Arial", FontSize: 14, Bold: true,
	}})
	if err != nil {
		t.Fatalf("SaveText() error = %v", err)
	}
	if saved.ImageGuid != filepath.Join(dirs.Preview, "001.png") {
		t.Errorf("ImageGuid = %q", saved.ImageGuid)
	}
	if saved.EncodedImage == "" {
		t.Error("no preview returned")
	}

	record, err := metadata.Read[entity.TextRecord](filepath.Join(dirs.Metadata, "001.yaml"))
	if err != nil {
		t.Fatalf("text record: %v", err)
	}
	if record.Text != "Jane" || !record.Bold || record.FontColor != entity.DefaultTextFontColor {
		t.Errorf("record = %+v", record)
	}

	// editing an existing text signature overwrites it in place
	edited, err := u.SaveText(ctx, &entity.SaveTextRequest{Properties: entity.TextRecord{
		Text: "Jane Roe", Width: 120, Height: 40, ImageGuid: saved.ImageGuid,
	}})
	if err != nil {
		t.Fatalf("SaveText() edit error = %v", err)
	}
	if edited.ImageGuid != saved.ImageGuid {
		t.Errorf("edit wrote %q, want %q", edited.ImageGuid, saved.ImageGuid)
	}
	record, _ = metadata.Read[entity.TextRecord](filepath.Join(dirs.Metadata, "001.yaml"))
	if record.Text != "Jane Roe" {
		t.Errorf("record text = %q after edit", record.Text)
	}
}

func TestSaveOpticalCode(t *testing.T) {
	u, layout, recorder := newAssetFixture(t)
	ctx := context.Background()
	dirs := layout.Resolve(entity.SignatureTypeQRCode)

	preview, err := u.SaveOpticalCode(ctx, &entity.SaveOpticalCodeRequest{
		SignatureType: entity.SignatureTypeQRCode,
		Properties:    entity.OpticalRecord{Text: "https://example.com", Temp: true},
	})
	if err != nil {
		t.Fatalf("SaveOpticalCode() temp error = %v", err)
	}
	if preview.ImageGuid != "" || preview.Width != entity.DefaultOpticalWidth || preview.Height != entity.DefaultOpticalHeight {
		t.Errorf("temp preview = %+v", preview)
	}
	if entries, _ := os.ReadDir(dirs.Preview); len(entries) != 0 {
		t.Errorf("temp preview persisted %d files", len(entries))
	}

	saved, err := u.SaveOpticalCode(ctx, &entity.SaveOpticalCodeRequest{
		SignatureType: entity.SignatureTypeQRCode,
		Properties:    entity.OpticalRecord{Text: "https://example.com"},
	})
	if err != nil {
		t.Fatalf("SaveOpticalCode() error = %v", err)
	}
	record, err := metadata.Read[entity.OpticalRecord](metadata.RecordPathFor(saved.ImageGuid, dirs.Metadata))
	if err != nil || record.Text != "https://example.com" {
		t.Errorf("record = %+v, %v", record, err)
	}
	if recorder.saved["qrCode"] != 1 {
		t.Errorf("saved metric = %d, want 1", recorder.saved["qrCode"])
	}

	_, err = u.SaveOpticalCode(ctx, &entity.SaveOpticalCodeRequest{SignatureType: entity.SignatureTypeStamp})
	if !errors.Is(err, entity.ErrUnsupportedSignatureType) {
		t.Errorf("stamp as optical error = %v", err)
	}
}

func TestUploadDocument(t *testing.T) {
	u, layout, _ := newAssetFixture(t)
	ctx := context.Background()
	dir := layout.FilesPath()

	req := &entity.UploadDocumentRequest{Filename: "../../contract.pdf", Content: []byte("v1")}
	first, err := u.UploadDocument(ctx, req)
	if err != nil {
		t.Fatalf("UploadDocument() error = %v", err)
	}
	if first.Guid != filepath.Join(dir, "contract.pdf") {
		t.Errorf("first = %q", first.Guid)
	}

	second, err := u.UploadDocument(ctx, &entity.UploadDocumentRequest{Filename: "contract.pdf", Content: []byte("v2")})
	if err != nil {
		t.Fatalf("UploadDocument() error = %v", err)
	}
	if second.Guid != filepath.Join(dir, "contract (1).pdf") {
		t.Errorf("second = %q", second.Guid)
	}

	rewritten, err := u.UploadDocument(ctx, &entity.UploadDocumentRequest{Filename: "contract.pdf", Content: []byte("v3"), Rewrite: true})
	if err != nil {
		t.Fatalf("UploadDocument() rewrite error = %v", err)
	}
	if rewritten.Guid != first.Guid {
		t.Errorf("rewrite = %q, want %q", rewritten.Guid, first.Guid)
	}
	if data, _ := os.ReadFile(first.Guid); string(data) != "v3" {
		t.Errorf("content = %q, want v3", data)
	}

	image, err := u.UploadDocument(ctx, &entity.UploadDocumentRequest{
		Filename: "logo.png", Content: []byte("img"), SignatureType: entity.SignatureTypeImage,
	})
	if err != nil {
		t.Fatalf("UploadDocument() image error = %v", err)
	}
	if image.Image != base64.StdEncoding.EncodeToString([]byte("img")) {
		t.Errorf("image upload returned %q", image.Image)
	}
	if filepath.Dir(image.Guid) != layout.Resolve(entity.SignatureTypeImage).Preview {
		t.Errorf("image stored in %q", filepath.Dir(image.Guid))
	}
}

func TestUploadDocumentFromURL(t *testing.T) {
	u, layout, _ := newAssetFixture(t)
	ctx := context.Background()

	saved, err := u.UploadDocument(ctx, &entity.UploadDocumentRequest{URL: "https://example.com/report.pdf"})
	if err != nil {
		t.Fatalf("UploadDocument() error = %v", err)
	}
	if saved.Guid != filepath.Join(layout.FilesPath(), "report.pdf") {
		t.Errorf("guid = %q", saved.Guid)
	}
	if data, _ := os.ReadFile(saved.Guid); string(data) != "remote" {
		t.Errorf("content = %q", data)
	}

	_, err = u.UploadDocument(ctx, &entity.UploadDocumentRequest{URL: "https://example.com/gone.pdf"})
	if !errors.Is(err, entity.ErrAssetIOFailure) {
		t.Errorf("error = %v, want asset io failure", err)
	}
}

func TestListFilesRejectsTraversal(t *testing.T) {
	u, layout, _ := newAssetFixture(t)
	ctx := context.Background()

	if err := os.WriteFile(filepath.Join(layout.FilesPath(), "a.pdf"), []byte("%PDF"), 0644); err != nil {
		t.Fatal(err)
	}

	files, err := u.ListFiles(ctx, &entity.FileTreeRequest{})
	if err != nil {
		t.Fatalf("ListFiles() error = %v", err)
	}
	for _, f := range files {
		if f.Guid == layout.DataPath() {
			t.Error("data directory listed among documents")
		}
	}
	if len(files) != 1 || files[0].Name != "a.pdf" {
		t.Errorf("files = %+v", files)
	}

	_, err = u.ListFiles(ctx, &entity.FileTreeRequest{Path: "../.."})
	if !errors.Is(err, entity.ErrBadRequest) {
		t.Errorf("traversal error = %v, want bad request", err)
	}
}

func TestSignatureFileRequestsConfinedToAssetDirectory(t *testing.T) {
	u, layout, recorder := newAssetFixture(t)
	ctx := context.Background()

	outside := filepath.Join(filepath.Dir(layout.FilesPath()), "etc")
	if err := os.MkdirAll(outside, 0755); err != nil {
		t.Fatal(err)
	}
	image := filepath.Join(outside, "app.png")
	record := filepath.Join(outside, "app.yaml")
	for _, path := range []string{image, record} {
		if err := os.WriteFile(path, []byte("keep"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	err := u.DeleteSignatureFile(ctx, &entity.DeleteSignatureFileRequest{Guid: image, SignatureType: entity.SignatureTypeStamp})
	if !errors.Is(err, entity.ErrBadRequest) {
		t.Errorf("DeleteSignatureFile() error = %v, want bad request", err)
	}
	_, err = u.LoadSignatureImage(ctx, &entity.LoadSignatureImageRequest{Guid: image, SignatureType: entity.SignatureTypeImage})
	if !errors.Is(err, entity.ErrBadRequest) {
		t.Errorf("LoadSignatureImage() error = %v, want bad request", err)
	}

	for _, path := range []string{image, record} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("%s removed: %v", path, err)
		}
	}
	if recorder.deleted[entity.SignatureTypeStamp.String()] != 0 {
		t.Error("rejected delete was recorded")
	}
}

func TestSaveTextRejectsOversizedPreview(t *testing.T) {
	u, layout, recorder := newAssetFixture(t)
	ctx := context.Background()

	sizes := [][2]int{{40000, 40000}, {1 << 24, 1 << 24}, {DefaultMaxPreviewSide + 1, 10}, {0, 40}}
	for _, size := range sizes {
		_, err := u.SaveText(ctx, &entity.SaveTextRequest{Properties: entity.TextRecord{
			Text: "Jane", Width: size[0], Height: size[1],
		}})
		if !errors.Is(err, entity.ErrBadRequest) {
			t.Errorf("SaveText(%dx%d) error = %v, want bad request", size[0], size[1], err)
		}
	}

	entries, err := os.ReadDir(layout.Resolve(entity.SignatureTypeText).Preview)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("rejected saves wrote %d previews", len(entries))
	}
	if recorder.saved[entity.SignatureTypeText.String()] != 0 {
		t.Error("rejected save was recorded")
	}

	if _, err := u.SaveText(ctx, &entity.SaveTextRequest{Properties: entity.TextRecord{
		Text: "Jane", Width: DefaultMaxPreviewSide, Height: 1,
	}}); err != nil {
		t.Errorf("SaveText() at the limit error = %v", err)
	}
}

func TestBlankPreviewBounds(t *testing.T) {
	if _, err := blankPreview(1<<24, 1<<24, DefaultMaxPreviewSide); !errors.Is(err, entity.ErrBadRequest) {
		t.Errorf("blankPreview() huge error = %v, want bad request", err)
	}
	if _, err := blankPreview(300, 10, 200); !errors.Is(err, entity.ErrBadRequest) {
		t.Errorf("blankPreview() above configured max error = %v, want bad request", err)
	}
	data, err := blankPreview(4, 3, DefaultMaxPreviewSide)
	if err != nil {
		t.Fatalf("blankPreview() error = %v", err)
	}
	if len(data) == 0 {
		t.Error("empty preview")
	}
}

func TestFontsReturnsCopy(t *testing.T) {
	u, _, _ := newAssetFixture(t)

	fonts := u.Fonts(context.Background())
	fonts[0] = "Comic Sans"
	if again := u.Fonts(context.Background()); again[0] != "Arial" {
		t.Errorf("Fonts() shares its backing slice: %v", again)
	}
}
