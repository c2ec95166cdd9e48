package http

import (
	"github.com/DareenAmin/Library-Desk-Agent/internal/adapter/http/middleware"
	"github.com/DareenAmin/Library-Desk-Agent/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(oh *OrderHandler, bh *BookHandler, th *TranscriptHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.MetricsMiddleware())

	l := logging.New("http")
	r.Use(middleware.Logging(l))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	// Prometheus endpoint (scraped by Prometheus)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")
	{
		v1.GET("/books", bh.FindBooks)
		v1.POST("/books/:isbn/restock", bh.Restock)
		v1.PUT("/books/:isbn/price", bh.UpdatePrice)
		v1.GET("/inventory/summary", bh.InventorySummary)

		v1.POST("/orders", oh.CreateOrder)
		v1.GET("/orders/:id", oh.GetOrderByID)

		v1.GET("/sessions/:id/history", th.History)
		v1.POST("/sessions/:id/messages", th.SaveMessage)
	}

	return r
}
