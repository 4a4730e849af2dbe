package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"go.uber.org/zap/zaptest"

	"esign-composer/internal/domain/entity"
)

type countingEngine struct {
	closed int32
}

func (c *countingEngine) Describe(ctx context.Context, path, password string) (DocumentInfo, error) {
	return DocumentInfo{}, nil
}

func (c *countingEngine) PageSize(ctx context.Context, path string, page int, password string) (PageSize, error) {
	return PageSize{}, nil
}

func (c *countingEngine) RenderPage(ctx context.Context, path string, page int, password string, scale float64) ([]byte, error) {
	return nil, nil
}

func (c *countingEngine) Sign(ctx context.Context, path string, set entity.InstructionSet, load LoadOptions, save SaveOptions) (string, error) {
	return "", nil
}

func (c *countingEngine) Close() error {
	atomic.AddInt32(&c.closed, 1)
	return nil
}

func TestProviderCreatesOnce(t *testing.T) {
	var created int32
	p := NewProvider(func() (Engine, error) {
		atomic.AddInt32(&created, 1)
		return &countingEngine{}, nil
	}, zaptest.NewLogger(t))

	var wg sync.WaitGroup
	engines := make([]Engine, 32)
	for i := range engines {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e, err := p.Get()
			if err != nil {
				t.Errorf("Get() error = %v", err)
			}
			engines[i] = e
		}(i)
	}
	wg.Wait()

	if created != 1 {
		t.Errorf("factory called %d times, want 1", created)
	}
	for _, e := range engines {
		if e != engines[0] {
			t.Fatal("Get() returned different handles")
		}
	}

	if err := p.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if engines[0].(*countingEngine).closed != 1 {
		t.Error("engine was not closed")
	}
}

func TestProviderKeepsFactoryError(t *testing.T) {
	calls := 0
	boom := errors.New("license missing")
	p := NewProvider(func() (Engine, error) {
		calls++
		return nil, boom
	}, zaptest.NewLogger(t))

	for i := 0; i < 3; i++ {
		if _, err := p.Get(); !errors.Is(err, boom) {
			t.Fatalf("Get() error = %v, want %v", err, boom)
		}
	}
	if calls != 1 {
		t.Errorf("factory called %d times, want 1", calls)
	}
}

func TestProviderCloseWithoutEngine(t *testing.T) {
	p := NewProvider(func() (Engine, error) {
		t.Fatal("factory must not run on Close")
		return nil, nil
	}, zaptest.NewLogger(t))

	if err := p.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
