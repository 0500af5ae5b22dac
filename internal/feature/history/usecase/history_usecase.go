// Package usecase はアイテムごとの時間足履歴を生成するビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"market_history/internal/feature/history/domain"
	"market_history/internal/feature/history/domain/entity"
)

// EntrySource は生の観測値を読み取るリポジトリのインターフェイスです。
// since が nil の場合は全履歴を、それ以外は observedAt >= since の観測値を昇順で返します。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type EntrySource interface {
	Query(ctx context.Context, item entity.ItemRef, since *time.Time) ([]entity.Entry, error)
}

// SnapshotStore は時間足履歴と日次サマリーを永続化するリポジトリのインターフェイスです。
type SnapshotStore interface {
	// Get は保存済みの履歴を返します。存在しない場合は nil, nil を返します。
	Get(ctx context.Context, item entity.ItemRef) (*entity.HistorySnapshot, error)
	// Put は履歴全体を置き換えます。
	Put(ctx context.Context, item entity.ItemRef, timeData []entity.Candle, updatedAt time.Time) error
	// UpdateShortHistoric は日次サマリー全体を置き換えます。
	UpdateShortHistoric(ctx context.Context, item entity.ItemRef, summary entity.ShortHistoric) error
}

// Catalog はカテゴリに属するアイテムの一覧を返すリポジトリのインターフェイスです。
type Catalog interface {
	ListItems(ctx context.Context, region, category string) ([]string, error)
}

// Stage はアイテム単位のパイプラインの進行状態です。
type Stage int

const (
	StageNotStarted Stage = iota
	StageFetched
	StageAggregated
	StageInterpolated
	StageMerged
	StagePersisted
	StageSummarized
	StageDone
)

var stageNames = [...]string{
	"not_started",
	"fetched",
	"aggregated",
	"interpolated",
	"merged",
	"persisted",
	"summarized",
	"done",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

// ItemResult は1アイテム分の処理結果です。
type ItemResult struct {
	Item          entity.ItemRef
	Stage         Stage // 最後に完了した状態
	Fetched       int // 取得した有効な観測値 (透かしの時間帯の再読込を含む)
	NewEntries    int // 透かしの時間帯より後の観測値
	Dropped       int // 不正な観測値として除外した件数
	Generated     int // 実データから生成したローソク足の数
	Interpolated  int
	UnboundedGaps int
	Skipped       bool // 新しい観測値が無く、書き込みを行わなかった
	Duration      time.Duration
	Err           error
}

// HistoryUsecase は1アイテムの履歴を更新するユースケースです。
type HistoryUsecase struct {
	entries   EntrySource
	snapshots SnapshotStore
}

// NewHistoryUsecase は新しい HistoryUsecase を作成します。
func NewHistoryUsecase(entries EntrySource, snapshots SnapshotStore) *HistoryUsecase {
	return &HistoryUsecase{entries: entries, snapshots: snapshots}
}

// Process は保存済みの履歴と前回以降の観測値から履歴と日次サマリーを更新します。
// 新しい観測値が無い場合や結果が保存済みの履歴と変わらない場合は何も書き込みません。途中で失敗した場合も、それまでの書き込みは巻き戻しません。
// パニックはエラーに変換し、到達した状態を残して返します。
func (hu *HistoryUsecase) Process(ctx context.Context, item entity.ItemRef) (res ItemResult) {
	start := time.Now()
	res = ItemResult{Item: item, Stage: StageNotStarted}
	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("%s: panic: %v", res.Stage+1, r)
			res.Duration = time.Since(start)
		}
	}()
	fail := func(err error) ItemResult {
		res.Err = fmt.Errorf("%s: %w", res.Stage+1, err)
		res.Duration = time.Since(start)
		return res
	}

	snapshot, err := hu.snapshots.Get(ctx, item)
	if err != nil {
		return fail(err)
	}
	var (
		since    *time.Time
		existing []entity.Candle
		anchor   *entity.Candle
	)
	if snapshot != nil {
		existing = snapshot.TimeData
		anchor = snapshot.Latest()
		if !snapshot.UpdatedAt.IsZero() {
			watermark := snapshot.UpdatedAt
			since = &watermark
		}
	}

	raw, err := hu.entries.Query(ctx, item, since)
	if err != nil {
		return fail(err)
	}
	res.Stage = StageFetched

	valid, dropped := FilterValid(raw)
	res.Fetched, res.Dropped = len(valid), dropped
	res.NewEntries = countNew(valid, since)
	if dropped > 0 {
		slog.Warn("dropped observations", "item", item.ID, "region", item.Region, "count", dropped, "error", domain.ErrMalformedEntry)
	}
	if len(valid) == 0 {
		res.Skipped = true
		res.Stage = StageDone
		res.Duration = time.Since(start)
		slog.Info("no new entries", "item", item.ID, "region", item.Region)
		return res
	}

	fresh := Aggregate(valid)
	res.Generated = len(fresh)
	res.Stage = StageAggregated

	timeline, stats := Interpolate(fresh, anchor)
	res.Interpolated, res.UnboundedGaps = stats.Interpolated, stats.UnboundedGaps
	if stats.UnboundedGaps > 0 {
		slog.Warn("gap left unfilled", "item", item.ID, "region", item.Region, "hours", stats.UnboundedGaps, "error", domain.ErrUnboundedGap)
	}
	res.Stage = StageInterpolated

	merged := Merge(existing, timeline)
	res.Stage = StageMerged

	// 透かしの時間帯は毎回読み直すため、観測値が増えていなければ結果は保存済みと一致する
	if snapshot != nil && slices.EqualFunc(merged, snapshot.TimeData, entity.Candle.Equal) {
		res.Skipped = true
		res.Stage = StageDone
		res.Duration = time.Since(start)
		slog.Info("history unchanged", "item", item.ID, "region", item.Region)
		return res
	}

	updatedAt := merged[len(merged)-1].Time
	if err := hu.snapshots.Put(ctx, item, merged, updatedAt); err != nil {
		return fail(err)
	}
	res.Stage = StagePersisted

	summary := ShortHistoric(merged)
	if err := hu.snapshots.UpdateShortHistoric(ctx, item, summary); err != nil {
		return fail(err)
	}
	res.Stage = StageDone
	res.Duration = time.Since(start)

	slog.Info("history updated",
		"item", item.ID,
		"region", item.Region,
		"fetched", res.Fetched,
		"new_entries", res.NewEntries,
		"generated", res.Generated,
		"interpolated", res.Interpolated,
		"unbounded_gap_hours", res.UnboundedGaps,
		"short_days", len(summary),
	)
	return res
}

// countNew は透かしの時間帯より後の観測値を数えます。透かしが無い場合は全件が新規です。
func countNew(entries []entity.Entry, since *time.Time) int {
	if since == nil {
		return len(entries)
	}
	watermarkHour := entity.HourOf(*since)
	n := 0
	for _, e := range entries {
		if entity.HourOf(e.ObservedAt) > watermarkHour {
			n++
		}
	}
	return n
}
