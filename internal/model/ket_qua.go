package model

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/thep200/xsmb-analyzer/cfg"
	"github.com/thep200/xsmb-analyzer/internal/result"
	"github.com/thep200/xsmb-analyzer/pkg/db"
	"github.com/thep200/xsmb-analyzer/pkg/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound khi không có kết quả cho ngày cần tìm
var ErrNotFound = result.ErrNotFound

// KetQua là kết quả một ngày trong bảng kq_xs
type KetQua struct {
	Model
	Date         string    `json:"date" gorm:"column:date;type:varchar(16);uniqueIndex;not null"`
	DrawDate     time.Time `json:"draw_date" gorm:"column:draw_date;index;not null"`
	KetQua       string    `json:"ket_qua" gorm:"column:ket_qua;type:text;not null"`
	CountNumbers int       `json:"count_numbers" gorm:"column:count_numbers;default:0"`
	Source       string    `json:"source" gorm:"column:source;type:varchar(255)"`
}

func NewKetQua(config *cfg.Config, logger log.Logger, database db.Database) (*KetQua, error) {
	if database == nil {
		return nil, errors.New("[ERROR][MODEL] database is required")
	}
	return &KetQua{
		Model: Model{
			Config: config,
			Logger: logger,
			Db:     database,
		},
	}, nil
}

func (k *KetQua) TableName() string {
	return "kq_xs"
}

// Raw đọc lại tài liệu thô từ bản ghi
func (k *KetQua) Raw() (result.RawDay, error) {
	var raw result.RawDay
	doc := fmt.Sprintf(`{"date": %q, "ketqua": %s}`, k.Date, k.KetQua)
	if err := json.Unmarshal([]byte(doc), &raw); err != nil {
		return result.RawDay{}, fmt.Errorf("decode ket_qua of %s: %w", k.Date, err)
	}
	return raw, nil
}

func newRecord(raw result.RawDay, source string, now time.Time) (KetQua, bool, error) {
	day, ok := result.Normalize(raw)
	if !ok {
		return KetQua{}, false, fmt.Errorf("unparseable date %q", raw.Date)
	}
	ketqua := make(map[string][]string, len(day.Tiers))
	for _, t := range day.Tiers {
		ketqua[t.Label] = t.Values
	}
	body, err := json.Marshal(ketqua)
	if err != nil {
		return KetQua{}, false, err
	}
	rec := KetQua{
		Date:         day.Label,
		DrawDate:     day.Date,
		KetQua:       string(body),
		CountNumbers: day.CountNumbers(),
		Source:       TruncateString(source, 250),
	}
	rec.CreatedAt = now
	rec.UpdatedAt = now
	return rec, result.IsValid(day), nil
}

// Ngày đã có kết quả thật thì không bị ghi đè bởi bản giữ chỗ
func conflictClause(valid bool) clause.OnConflict {
	if !valid {
		return clause.OnConflict{Columns: []clause.Column{{Name: "date"}}, DoNothing: true}
	}
	return clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"draw_date", "ket_qua", "count_numbers", "source", "updated_at"}),
	}
}

// Upsert lưu kết quả một ngày, bản giữ chỗ được thay bằng kết quả thật khi có
func (k *KetQua) Upsert(ctx context.Context, raw result.RawDay, source string) error {
	rec, valid, err := newRecord(raw, source, time.Now())
	if err != nil {
		k.Logger.Warn(ctx, "[MODEL] Skip ket qua: %v", err)
		return err
	}
	gdb, err := k.Db.Db()
	if err != nil {
		k.Logger.Error(ctx, "Failed to get database connection: %v", err)
		return err
	}
	if err := gdb.WithContext(ctx).Clauses(conflictClause(valid)).Create(&rec).Error; err != nil {
		k.Logger.Error(ctx, "Failed to upsert ket qua %s: %v", rec.Date, err)
		return err
	}
	k.Logger.Info(ctx, "Successfully saved ket qua %s (%d numbers)", rec.Date, rec.CountNumbers)
	return nil
}

// UpsertBatch lưu một lô message trong một transaction
func (k *KetQua) UpsertBatch(ctx context.Context, messages []KetQuaMessage) error {
	gdb, err := k.Db.Db()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	now := time.Now()
	var valid, pending []KetQua
	for _, msg := range messages {
		rec, ok, err := newRecord(msg.Raw(), msg.Source, now)
		if err != nil {
			k.Logger.Warn(ctx, "[MODEL] Skip message %s: %v", msg.CrawlID, err)
			continue
		}
		if ok {
			valid = append(valid, rec)
		} else {
			pending = append(pending, rec)
		}
	}

	return gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(valid) > 0 {
			if err := tx.Clauses(conflictClause(true)).CreateInBatches(valid, 100).Error; err != nil {
				return fmt.Errorf("failed to batch upsert ket qua: %w", err)
			}
		}
		if len(pending) > 0 {
			if err := tx.Clauses(conflictClause(false)).CreateInBatches(pending, 100).Error; err != nil {
				return fmt.Errorf("failed to batch insert pending ket qua: %w", err)
			}
		}
		return nil
	})
}

// FindByDate tìm kết quả theo ngày
func (k *KetQua) FindByDate(ctx context.Context, date time.Time) (*KetQua, error) {
	gdb, err := k.Db.Db()
	if err != nil {
		return nil, err
	}
	var rec KetQua
	err = gdb.WithContext(ctx).Where("date = ?", result.FormatDate(date)).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, result.FormatDate(date))
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// FindDay trả về tài liệu thô của một ngày
func (k *KetQua) FindDay(ctx context.Context, date time.Time) (result.RawDay, error) {
	rec, err := k.FindByDate(ctx, date)
	if err != nil {
		return result.RawDay{}, err
	}
	return rec.Raw()
}

// RecentDocuments trả về tối đa limit tài liệu mới nhất trước
func (k *KetQua) RecentDocuments(ctx context.Context, limit int) ([]result.RawDay, error) {
	gdb, err := k.Db.Db()
	if err != nil {
		return nil, err
	}
	var records []KetQua
	if err := gdb.WithContext(ctx).Order("draw_date DESC").Limit(limit).Find(&records).Error; err != nil {
		k.Logger.Error(ctx, "Failed to fetch recent ket qua: %v", err)
		return nil, err
	}
	out := make([]result.RawDay, 0, len(records))
	for i := range records {
		raw, err := records[i].Raw()
		if err != nil {
			// Bản ghi hỏng bị bỏ qua
			k.Logger.Warn(ctx, "[MODEL] %v", err)
			continue
		}
		out = append(out, raw)
	}
	return out, nil
}
