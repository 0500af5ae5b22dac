package adapters

import (
	"context"
	"fmt"
	"time"

	"market_history/internal/feature/history/domain"
	"market_history/internal/feature/history/domain/entity"
	"market_history/internal/feature/history/usecase"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// candleInsertBatchSize は1回のINSERTで書き込むローソク足の件数です。
const candleInsertBatchSize = 500

// snapshotGorm はSnapshotStoreインターフェースのgorm実装です。
type snapshotGorm struct {
	db *gorm.DB
}

var _ usecase.SnapshotStore = (*snapshotGorm)(nil)

// NewSnapshotStore は指定されたDB接続でsnapshotGormの新しいインスタンスを生成します。
func NewSnapshotStore(db *gorm.DB) *snapshotGorm {
	return &snapshotGorm{db: db}
}

// Get は保存済みの履歴を時間順に返します。履歴が無い場合は nil, nil を返します。
func (r *snapshotGorm) Get(ctx context.Context, item entity.ItemRef) (*entity.HistorySnapshot, error) {
	// 初回実行では履歴が無いのが通常のため、First ではなく件数で判定する
	var head SnapshotModel
	res := r.db.WithContext(ctx).
		Where("region = ? AND item_id = ?", item.Region, item.ID).
		Limit(1).
		Find(&head)
	if res.Error != nil {
		return nil, fmt.Errorf("get snapshot %s: %w: %w", item, domain.ErrTransientStore, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}

	var rows []CandleModel
	if err := r.db.WithContext(ctx).
		Where("region = ? AND item_id = ?", item.Region, item.ID).
		Order("time ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("get candles %s: %w: %w", item, domain.ErrTransientStore, err)
	}

	snapshot := &entity.HistorySnapshot{
		TimeData:  make([]entity.Candle, 0, len(rows)),
		UpdatedAt: head.UpdatedAt.UTC(),
	}
	for _, m := range rows {
		snapshot.TimeData = append(snapshot.TimeData, toCandle(m))
	}
	return snapshot, nil
}

// Put は履歴全体を1トランザクションで置き換えます。
func (r *snapshotGorm) Put(ctx context.Context, item entity.ItemRef, timeData []entity.Candle, updatedAt time.Time) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		head := SnapshotModel{Region: item.Region, ItemID: item.ID, UpdatedAt: updatedAt.UTC()}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "region"}, {Name: "item_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"updated_at"}),
		}).Create(&head).Error; err != nil {
			return err
		}

		if err := tx.Where("region = ? AND item_id = ?", item.Region, item.ID).
			Delete(&CandleModel{}).Error; err != nil {
			return err
		}
		if len(timeData) == 0 {
			return nil
		}

		ms := make([]CandleModel, 0, len(timeData))
		for _, c := range timeData {
			ms = append(ms, toCandleModel(item, c))
		}
		return tx.CreateInBatches(&ms, candleInsertBatchSize).Error
	})
	if err != nil {
		return fmt.Errorf("put snapshot %s: %w: %w", item, domain.ErrTransientStore, err)
	}
	return nil
}

// UpdateShortHistoric はアイテムの日次サマリーを置き換えます。
func (r *snapshotGorm) UpdateShortHistoric(ctx context.Context, item entity.ItemRef, summary entity.ShortHistoric) error {
	if summary == nil {
		summary = entity.ShortHistoric{}
	}
	res := r.db.WithContext(ctx).
		Model(&ItemModel{}).
		Where("region = ? AND id = ?", item.Region, item.ID).
		Select("short_historic").
		Updates(&ItemModel{ShortHistoric: summary})
	if res.Error != nil {
		return fmt.Errorf("update short historic %s: %w: %w", item, domain.ErrTransientStore, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update short historic %s: %w", item, domain.ErrItemNotFound)
	}
	return nil
}
