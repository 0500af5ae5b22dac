package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"market_history/internal/feature/history/domain/entity"
)

const (
	// DefaultConcurrency は同時に実行するアイテムパイプラインの上限です。
	DefaultConcurrency = 20
	// DefaultBudget は1回のバッチに与える実行時間です。
	DefaultBudget = 9 * time.Minute
)

// ItemProcessor は1アイテム分のパイプラインを実行します。
type ItemProcessor interface {
	Process(ctx context.Context, item entity.ItemRef) ItemResult
}

// BatchReport は1回のバッチ実行の結果です。
type BatchReport struct {
	RunID     string
	Region    string
	Category  string
	Items     int
	Succeeded int
	Skipped   int // 新しい観測値が無かったアイテム
	Failed    int
	Deferred  int // 予算切れで開始しなかったアイテム
	Results   []ItemResult
	Duration  time.Duration
}

// BatchUsecase はリージョンとカテゴリ単位で全アイテムのパイプラインを並行に実行します。
type BatchUsecase struct {
	catalog     Catalog
	processor   ItemProcessor
	concurrency int
	budget      time.Duration
}

// NewBatchUsecase は新しい BatchUsecase を作成します。
// concurrency と budget が0以下の場合はデフォルト値を使用します。
func NewBatchUsecase(catalog Catalog, processor ItemProcessor, concurrency int, budget time.Duration) *BatchUsecase {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if budget <= 0 {
		budget = DefaultBudget
	}
	return &BatchUsecase{
		catalog:     catalog,
		processor:   processor,
		concurrency: concurrency,
		budget:      budget,
	}
}

// Run はカテゴリ内の全アイテムを処理します。
// 1つのアイテムでエラーが発生しても他のアイテムの処理は続行します。
// 予算を超えた時点で未開始のアイテムは開始せず、実行中のパイプラインはキャンセルせずに完了を待ちます。
// エラーを返すのはアイテム一覧の取得に失敗した場合のみです。
func (bu *BatchUsecase) Run(ctx context.Context, region, category string) (BatchReport, error) {
	start := time.Now()
	report := BatchReport{
		RunID:    uuid.NewString(),
		Region:   region,
		Category: category,
	}
	logger := slog.With("run_id", report.RunID, "region", region, "category", category)

	ids, err := bu.catalog.ListItems(ctx, region, category)
	if err != nil {
		logger.Error("failed to list items", "error", err)
		return report, fmt.Errorf("list items: %w", err)
	}
	report.Items = len(ids)
	report.Results = make([]ItemResult, len(ids))
	logger.Info("historical batch started", "items", len(ids), "concurrency", bu.concurrency)

	budgetCtx, cancel := context.WithTimeout(ctx, bu.budget)
	defer cancel()
	// 実行中のパイプラインは予算切れでキャンセルしない
	workCtx := context.WithoutCancel(ctx)

	var g errgroup.Group
	g.SetLimit(bu.concurrency)
	for i, id := range ids {
		item := entity.ItemRef{Region: region, ID: id}
		report.Results[i] = ItemResult{Item: item, Stage: StageNotStarted}

		if budgetCtx.Err() != nil {
			continue
		}
		g.Go(func() error {
			if budgetCtx.Err() != nil {
				return nil
			}
			res := bu.process(workCtx, item)
			if res.Err != nil {
				logger.Error("failed to process item", "item", id, "stage", res.Stage, "error", res.Err)
			}
			report.Results[i] = res
			return nil
		})
	}
	_ = g.Wait() // workers never return an error

	for _, res := range report.Results {
		switch {
		case res.Err != nil:
			report.Failed++
		case res.Stage == StageNotStarted:
			report.Deferred++
		case res.Skipped:
			report.Skipped++
		default:
			report.Succeeded++
		}
	}
	report.Duration = time.Since(start)

	logger.Info("historical batch finished",
		"items", report.Items,
		"succeeded", report.Succeeded,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"deferred", report.Deferred,
		"duration", report.Duration,
	)
	return report, nil
}

// process は1アイテムを処理し、パニックをそのアイテムのエラーとして返します。
func (bu *BatchUsecase) process(ctx context.Context, item entity.ItemRef) (res ItemResult) {
	defer func() {
		if r := recover(); r != nil {
			res = ItemResult{Item: item, Stage: StageNotStarted, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	return bu.processor.Process(ctx, item)
}
