// Gói ingest gom message kết quả từ Kafka thành lô rồi ghi vào database.

package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/thep200/xsmb-analyzer/internal/model"
	"github.com/thep200/xsmb-analyzer/pkg/log"
)

// Store là nơi ghi một lô kết quả, model.KetQua thoả mãn interface này
type Store interface {
	UpsertBatch(ctx context.Context, messages []model.KetQuaMessage) error
}

type Batcher struct {
	Store        Store
	Logger       log.Logger
	BatchSize    int
	BatchTimeout time.Duration
	messages     chan model.KetQuaMessage
}

func NewBatcher(store Store, logger log.Logger, batchSize int, batchTimeout time.Duration) *Batcher {
	if batchSize <= 0 {
		batchSize = 50
	}
	if batchTimeout <= 0 {
		batchTimeout = 5 * time.Second
	}
	return &Batcher{
		Store:        store,
		Logger:       logger,
		BatchSize:    batchSize,
		BatchTimeout: batchTimeout,
		messages:     make(chan model.KetQuaMessage, batchSize*2),
	}
}

// Handle giải mã message và đưa vào hàng đợi, dùng làm kafka.Handler
func (b *Batcher) Handle(ctx context.Context, data []byte) error {
	var msg model.KetQuaMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("failed to unmarshal ket qua message: %w", err)
	}

	select {
	case b.messages <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run gom lô theo kích thước hoặc theo thời gian tới khi ctx bị huỷ
func (b *Batcher) Run(ctx context.Context) {
	var batch []model.KetQuaMessage
	timer := time.NewTimer(b.BatchTimeout)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			// Ghi nốt các message còn lại, ctx đã huỷ nên dùng context không huỷ
			b.drain(&batch)
			if len(batch) > 0 {
				b.flush(context.WithoutCancel(ctx), batch)
			}
			return

		case msg := <-b.messages:
			batch = append(batch, msg)
			if len(batch) >= b.BatchSize {
				b.flush(ctx, batch)
				batch = nil
				timer.Reset(b.BatchTimeout)
			}

		case <-timer.C:
			if len(batch) > 0 {
				b.flush(ctx, batch)
				batch = nil
			}
			timer.Reset(b.BatchTimeout)
		}
	}
}

func (b *Batcher) drain(batch *[]model.KetQuaMessage) {
	for {
		select {
		case msg := <-b.messages:
			*batch = append(*batch, msg)
		default:
			return
		}
	}
}

func (b *Batcher) flush(ctx context.Context, batch []model.KetQuaMessage) {
	startTime := time.Now()
	if err := b.Store.UpsertBatch(ctx, batch); err != nil {
		b.Logger.Error(ctx, "[INGEST] Failed to save batch of %d ket qua: %v", len(batch), err)
		return
	}
	b.Logger.Info(ctx, "[INGEST] Saved batch of %d ket qua in %v", len(batch), time.Since(startTime))
}
