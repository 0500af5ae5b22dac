// Package adapters はhistoryフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"time"

	"market_history/internal/feature/history/domain/entity"
)

// ItemModel はカタログ上のアイテムと日次サマリーを保持します。
type ItemModel struct {
	Region        string               `gorm:"primaryKey;size:64;index:items_region_category,priority:1"`
	ID            string               `gorm:"primaryKey;size:128"`
	Name          string               `gorm:"size:255"`
	Category      string               `gorm:"size:64;not null;index:items_region_category,priority:2"`
	ShortHistoric entity.ShortHistoric `gorm:"type:text;serializer:json"`
}

func (ItemModel) TableName() string {
	return "items"
}

// EntryModel は生の観測値です。数値項目は欠損を表現するため NULL を許容します。
type EntryModel struct {
	ID                uint      `gorm:"primaryKey"`
	Region            string    `gorm:"size:64;not null;index:entries_item_time,priority:1"`
	ItemID            string    `gorm:"size:128;not null;index:entries_item_time,priority:2"`
	LowPrice          *float64
	RecentPrice       *float64
	CheapestRemaining *float64
	AvgPrice          *float64
	CreatedAt         time.Time `gorm:"not null;index:entries_item_time,priority:3"`
}

func (EntryModel) TableName() string {
	return "entries"
}

// SnapshotModel は履歴のヘッダーで、UpdatedAt が次回の取得開始時刻になります。
type SnapshotModel struct {
	Region    string    `gorm:"primaryKey;size:64"`
	ItemID    string    `gorm:"primaryKey;size:128"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false"`
}

func (SnapshotModel) TableName() string {
	return "history_snapshots"
}

// CandleModel は履歴の1時間分のローソク足です。
type CandleModel struct {
	ID           uint      `gorm:"primaryKey"`
	Region       string    `gorm:"size:64;not null;uniqueIndex:history_candle_item_time,priority:1"`
	ItemID       string    `gorm:"size:128;not null;uniqueIndex:history_candle_item_time,priority:2"`
	Time         time.Time `gorm:"not null;uniqueIndex:history_candle_item_time,priority:3"`
	Open         float64   `gorm:"not null"`
	Close        float64   `gorm:"not null"`
	Low          float64   `gorm:"not null"`
	High         float64   `gorm:"not null"`
	Interpolated bool      `gorm:"not null;default:false"`
}

func (CandleModel) TableName() string {
	return "history_candles"
}

// Models はマイグレーション対象のモデル一覧です。
func Models() []any {
	return []any{&ItemModel{}, &EntryModel{}, &SnapshotModel{}, &CandleModel{}}
}

func toEntry(m EntryModel) entity.Entry {
	return entity.Entry{
		LowPrice:          m.LowPrice,
		RecentPrice:       m.RecentPrice,
		CheapestRemaining: m.CheapestRemaining,
		AvgPrice:          m.AvgPrice,
		ObservedAt:        m.CreatedAt.UTC(),
	}
}

func toCandleModel(item entity.ItemRef, c entity.Candle) CandleModel {
	return CandleModel{
		Region:       item.Region,
		ItemID:       item.ID,
		Time:         c.Time.UTC(),
		Open:         c.Open,
		Close:        c.Close,
		Low:          c.Low,
		High:         c.High,
		Interpolated: c.Interpolated,
	}
}

func toCandle(m CandleModel) entity.Candle {
	return entity.Candle{
		Time:         m.Time.UTC(),
		Open:         m.Open,
		Close:        m.Close,
		Low:          m.Low,
		High:         m.High,
		Interpolated: m.Interpolated,
	}
}
