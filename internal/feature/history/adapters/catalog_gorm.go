package adapters

import (
	"context"
	"fmt"

	"market_history/internal/feature/history/domain"
	"market_history/internal/feature/history/usecase"

	"gorm.io/gorm"
)

// catalogGorm はCatalogインターフェースのgorm実装です。
type catalogGorm struct {
	db *gorm.DB
}

var _ usecase.Catalog = (*catalogGorm)(nil)

// NewCatalog は指定されたDB接続でcatalogGormの新しいインスタンスを生成します。
func NewCatalog(db *gorm.DB) *catalogGorm {
	return &catalogGorm{db: db}
}

// ListItems はリージョンとカテゴリに属するアイテムのIDをID順に返します。
func (r *catalogGorm) ListItems(ctx context.Context, region, category string) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&ItemModel{}).
		Where("region = ? AND category = ?", region, category).
		Order("id ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list items %s/%s: %w: %w", region, category, domain.ErrTransientStore, err)
	}
	return ids, nil
}
