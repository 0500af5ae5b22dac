package router

import (
	historyhandler "market_history/internal/feature/history/transport/handler"

	"github.com/gin-gonic/gin"
)

func NewRouter(health gin.HandlerFunc, trigger *historyhandler.TriggerHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// 導通確認用
	r.GET("/healthz", health)
	r.HEAD("/healthz", health)
	r.OPTIONS("/healthz", health)

	// 履歴バッチの手動実行
	r.POST("/jobs/historical/:region/:category", trigger.Trigger)

	return r
}
