package adapters

import (
	"context"
	"fmt"
	"time"

	"market_history/internal/feature/history/domain"
	"market_history/internal/feature/history/domain/entity"
	"market_history/internal/feature/history/usecase"

	"gorm.io/gorm"
)

// entryGorm はEntrySourceインターフェースのgorm実装です。
type entryGorm struct {
	db *gorm.DB
}

var _ usecase.EntrySource = (*entryGorm)(nil)

// NewEntrySource は指定されたDB接続でentryGormの新しいインスタンスを生成します。
func NewEntrySource(db *gorm.DB) *entryGorm {
	return &entryGorm{db: db}
}

// Query はアイテムの観測値を作成日時の昇順で返します。since が指定された場合はそれ以降 (境界を含む) のみを返します。
func (r *entryGorm) Query(ctx context.Context, item entity.ItemRef, since *time.Time) ([]entity.Entry, error) {
	q := r.db.WithContext(ctx).
		Where("region = ? AND item_id = ?", item.Region, item.ID)
	if since != nil {
		q = q.Where("created_at >= ?", since.UTC())
	}

	var rows []EntryModel
	if err := q.Order("created_at ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query entries %s: %w: %w", item, domain.ErrTransientStore, err)
	}

	out := make([]entity.Entry, 0, len(rows))
	for _, m := range rows {
		out = append(out, toEntry(m))
	}
	return out, nil
}
