// Package handler はhistoryフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"market_history/internal/feature/history/usecase"
	"market_history/internal/platform/config"
)

// BatchRunner はバッチ実行のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type BatchRunner interface {
	Run(ctx context.Context, region, category string) (usecase.BatchReport, error)
}

// JobLookup は設定済みのジョブを探す関数です。
type JobLookup func(region, category string) (config.Job, error)

// TriggerHandler は履歴バッチを手動で起動するHTTPリクエストを処理します。
type TriggerHandler struct {
	runner BatchRunner
	lookup JobLookup
	ctx    context.Context
}

// NewTriggerHandler はTriggerHandlerの新しいインスタンスを生成します。
// ctx は起動したバッチに渡され、リクエストの終了ではキャンセルされません。
func NewTriggerHandler(ctx context.Context, runner BatchRunner, lookup JobLookup) *TriggerHandler {
	return &TriggerHandler{runner: runner, lookup: lookup, ctx: ctx}
}

// Trigger は指定されたリージョンとカテゴリのバッチを非同期で開始し、202を返します。
//
// エンドポイント例:
// POST /jobs/historical/:region/:category
func (h *TriggerHandler) Trigger(c *gin.Context) {
	job, err := h.lookup(c.Param("region"), c.Param("category"))
	if err != nil {
		if errors.Is(err, config.ErrUnknownJob) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	go func() {
		if _, err := h.runner.Run(h.ctx, job.Region, job.Category); err != nil {
			slog.Error("manual historical batch failed", "region", job.Region, "category", job.Category, "error", err)
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"status":   "accepted",
		"region":   job.Region,
		"category": job.Category,
	})
}
