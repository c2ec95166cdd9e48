package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/DareenAmin/Library-Desk-Agent/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type BookHandler struct {
	catalog *usecase.Catalog

	// low-stock threshold used when the request carries none
	defaultThreshold int
}

func NewBookHandler(catalog *usecase.Catalog, defaultThreshold int) *BookHandler {
	return &BookHandler{catalog: catalog, defaultThreshold: defaultThreshold}
}

type bookResp struct {
	ISBN   string `json:"isbn"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Stock  int    `json:"stock"`
	Price  string `json:"price"`
}

// FindBooks handles GET /v1/books?q=...
func (h *BookHandler) FindBooks(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	books, err := h.catalog.FindBooks(ctx, c.Query("q"))
	if err != nil {
		writeDomainError(c, err)
		return
	}

	resp := make([]bookResp, 0, len(books))
	for _, b := range books {
		resp = append(resp, bookResp{
			ISBN:   b.ISBN,
			Title:  b.Title,
			Author: b.Author,
			Stock:  b.Stock,
			Price:  b.Price.StringFixed(2),
		})
	}
	c.JSON(http.StatusOK, gin.H{"books": resp})
}

type restockReq struct {
	Qty int `json:"qty"`
}

func (h *BookHandler) Restock(c *gin.Context) {
	var req restockReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	out, err := h.catalog.Restock(ctx, usecase.RestockInput{
		ISBN: c.Param("isbn"),
		Qty:  req.Qty,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"isbn":     out.ISBN,
		"title":    out.Title,
		"newStock": out.NewStock,
	})
}

type updatePriceReq struct {
	Price string `json:"price" binding:"required"`
}

func (h *BookHandler) UpdatePrice(c *gin.Context) {
	var req updatePriceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_price"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	out, err := h.catalog.UpdatePrice(ctx, usecase.UpdatePriceInput{
		ISBN:  c.Param("isbn"),
		Price: price,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"isbn":     out.ISBN,
		"title":    out.Title,
		"newPrice": out.NewPrice.StringFixed(2),
	})
}

// InventorySummary handles GET /v1/inventory/summary?threshold=5
func (h *BookHandler) InventorySummary(c *gin.Context) {
	threshold := h.defaultThreshold
	if raw := c.Query("threshold"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_threshold"})
			return
		}
		threshold = v
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	out, err := h.catalog.InventorySummary(ctx, threshold)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	low := make([]bookResp, 0, len(out.LowStock))
	for _, b := range out.LowStock {
		low = append(low, bookResp{
			ISBN:   b.ISBN,
			Title:  b.Title,
			Author: b.Author,
			Stock:  b.Stock,
			Price:  b.Price.StringFixed(2),
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"totalTitles": out.TotalTitles,
		"totalUnits":  out.TotalUnits,
		"threshold":   out.Threshold,
		"lowStock":    low,
	})
}
