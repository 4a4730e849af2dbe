package usecase

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"esign-composer/internal/config"
	"esign-composer/internal/domain/entity"
	"esign-composer/internal/infrastructure/engine"
	"esign-composer/internal/infrastructure/storage"
)

func newTestLayout(t *testing.T) (*config.Config, storage.Layout) {
	t.Helper()

	cfg := &config.Config{}
	cfg.Signature.FilesDirectory = filepath.Join(t.TempDir(), "files")
	cfg.Signature.Fonts = []string{"Arial", "Verdana"}

	layout, err := storage.NewLayout(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewLayout() error = %v", err)
	}
	return cfg, layout
}

type fakeEngine struct {
	mu        sync.Mutex
	signCalls int
	lastSet   entity.InstructionSet
	lastLoad  engine.LoadOptions
	lastSave  engine.SaveOptions
	signErr   error
	pages     int
	renderErr error
	renders   int
}

func (f *fakeEngine) Describe(ctx context.Context, path, password string) (engine.DocumentInfo, error) {
	return engine.DocumentInfo{PageCount: f.pages}, nil
}

func (f *fakeEngine) PageSize(ctx context.Context, path string, page int, password string) (engine.PageSize, error) {
	return engine.PageSize{Width: 595, Height: 842}, nil
}

func (f *fakeEngine) RenderPage(ctx context.Context, path string, page int, password string, scale float64) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.renders++
	if f.renderErr != nil {
		return nil, f.renderErr
	}
	return []byte{byte(page)}, nil
}

func (f *fakeEngine) Sign(ctx context.Context, path string, set entity.InstructionSet, load engine.LoadOptions, save engine.SaveOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signCalls++
	f.lastSet = set
	f.lastLoad = load
	f.lastSave = save
	if f.signErr != nil {
		return "", f.signErr
	}
	return filepath.Join(save.OutputDir, save.OutputFileName), nil
}

func (f *fakeEngine) Close() error {
	return nil
}

func providerFor(t *testing.T, e engine.Engine) *engine.Provider {
	return engine.NewProvider(func() (engine.Engine, error) { return e, nil }, zaptest.NewLogger(t))
}

type fakeSignLogs struct {
	saved []entity.SignLog
}

func (f *fakeSignLogs) Save(ctx context.Context, log *entity.SignLog) error {
	f.saved = append(f.saved, *log)
	return nil
}

func (f *fakeSignLogs) FindRecent(ctx context.Context, limit int) ([]entity.SignLog, error) {
	if len(f.saved) > limit {
		return f.saved[:limit], nil
	}
	return f.saved, nil
}

func (f *fakeSignLogs) FindByDocument(ctx context.Context, documentGuid string, limit int) ([]entity.SignLog, error) {
	var out []entity.SignLog
	for _, l := range f.saved {
		if l.DocumentGuid == documentGuid {
			out = append(out, l)
		}
	}
	return out, nil
}

type signCall struct {
	format  string
	success bool
}

type fakeRecorder struct {
	signs      []signCall
	signatures map[string]int
	saved      map[string]int
	deleted    map[string]int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{
		signatures: map[string]int{},
		saved:      map[string]int{},
		deleted:    map[string]int{},
	}
}

func (f *fakeRecorder) RecordSign(format string, success bool, duration time.Duration) {
	f.signs = append(f.signs, signCall{format, success})
}

func (f *fakeRecorder) RecordSignatures(signatureType string, count int) {
	f.signatures[signatureType] += count
}

func (f *fakeRecorder) RecordAssetSaved(signatureType string) {
	f.saved[signatureType]++
}

func (f *fakeRecorder) RecordAssetDeleted(signatureType string) {
	f.deleted[signatureType]++
}

type fakeCache struct {
	entries map[string]*entity.DocumentDescription
	sets    int
}

func (f *fakeCache) key(guid string, modTime time.Time) string {
	return guid + "@" + modTime.String()
}

func (f *fakeCache) Get(ctx context.Context, guid string, modTime time.Time) (*entity.DocumentDescription, bool) {
	d, ok := f.entries[f.key(guid, modTime)]
	return d, ok
}

func (f *fakeCache) Set(ctx context.Context, guid string, modTime time.Time, description *entity.DocumentDescription) error {
	if f.entries == nil {
		f.entries = map[string]*entity.DocumentDescription{}
	}
	f.sets++
	f.entries[f.key(guid, modTime)] = description
	return nil
}
