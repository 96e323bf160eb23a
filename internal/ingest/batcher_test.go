package ingest_test

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thep200/xsmb-analyzer/internal/ingest"
	"github.com/thep200/xsmb-analyzer/internal/model"
	"github.com/thep200/xsmb-analyzer/internal/result/resulttest"
	"github.com/thep200/xsmb-analyzer/pkg/log"
)

type memStore struct {
	mu      sync.Mutex
	batches [][]model.KetQuaMessage
}

func (s *memStore) UpsertBatch(ctx context.Context, messages []model.KetQuaMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, append([]model.KetQuaMessage(nil), messages...))
	return nil
}

func (s *memStore) sizes() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, 0, len(s.batches))
	for _, b := range s.batches {
		out = append(out, len(b))
	}
	return out
}

func encoded(t *testing.T, n int) [][]byte {
	t.Helper()
	id := uuid.New()
	out := make([][]byte, 0, n)
	for _, raw := range resulttest.RandomRaws(resulttest.Date(2025, time.May, 1), n, 9) {
		data, err := json.Marshal(model.NewKetQuaMessage(id, raw, "test"))
		require.NoError(t, err)
		out = append(out, data)
	}
	return out
}

func newBatcher(t *testing.T, store ingest.Store, size int, timeout time.Duration) *ingest.Batcher {
	t.Helper()
	logger, err := log.NewCslLoggerWith(io.Discard, "ingest", log.LevelDebug)
	require.NoError(t, err)
	return ingest.NewBatcher(store, logger, size, timeout)
}

func TestBatcherFlushesBySize(t *testing.T) {
	store := &memStore{}
	b := newBatcher(t, store, 3, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		b.Run(ctx)
		close(done)
	}()

	for _, data := range encoded(t, 7) {
		require.NoError(t, b.Handle(ctx, data))
	}
	require.Eventually(t, func() bool { return len(store.sizes()) == 2 }, time.Second, 5*time.Millisecond)

	// phần còn lại được ghi khi dừng
	cancel()
	<-done
	assert.Equal(t, []int{3, 3, 1}, store.sizes())
}

func TestBatcherFlushesOnTimeout(t *testing.T) {
	store := &memStore{}
	b := newBatcher(t, store, 100, 20*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Run(ctx)

	for _, data := range encoded(t, 2) {
		require.NoError(t, b.Handle(ctx, data))
	}
	require.Eventually(t, func() bool {
		sizes := store.sizes()
		return len(sizes) == 1 && sizes[0] == 2
	}, time.Second, 5*time.Millisecond)
}

func TestBatcherRejectsBadMessage(t *testing.T) {
	b := newBatcher(t, &memStore{}, 1, time.Second)
	assert.Error(t, b.Handle(context.Background(), []byte("{not json")))
}
