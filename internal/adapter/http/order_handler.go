package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/DareenAmin/Library-Desk-Agent/internal/usecase"
	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	create *usecase.CreateOrder
	status *usecase.OrderStatus
}

func NewOrderHandler(create *usecase.CreateOrder, status *usecase.OrderStatus) *OrderHandler {
	return &OrderHandler{create: create, status: status}
}

type orderItemReq struct {
	ISBN string `json:"isbn" binding:"required"`
	Qty  int    `json:"qty"`
}

type createOrderReq struct {
	CustomerID int64          `json:"customerId" binding:"required"`
	Items      []orderItemReq `json:"items"`
}

type createOrderResp struct {
	OrderID    int64  `json:"orderId"`
	GrandTotal string `json:"grandTotal"`
}

// CreateOrder handler: translate to use case input.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	idemKey := c.GetHeader("X-Idempotency-Key") // prevent duplicated requests

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	in := usecase.CreateOrderInput{
		CustomerID:     req.CustomerID,
		IdempotencyKey: idemKey,
	}
	for _, item := range req.Items {
		in.Items = append(in.Items, usecase.OrderItemInput{ISBN: item.ISBN, Qty: item.Qty})
	}

	out, err := h.create.Execute(ctx, in)
	if err != nil {
		ordersRejected.WithLabelValues(errCode(err)).Inc()
		writeDomainError(c, err)
		return
	}

	ordersCreated.Inc()
	c.JSON(http.StatusCreated, createOrderResp{
		OrderID:    out.OrderID,
		GrandTotal: out.GrandTotal.StringFixed(2),
	})
}

type orderLineResp struct {
	ISBN         string `json:"isbn"`
	Title        string `json:"title"`
	Qty          int    `json:"qty"`
	PriceAtOrder string `json:"priceAtOrder"`
	Subtotal     string `json:"subtotal"`
}

type orderStatusResp struct {
	OrderID      int64           `json:"orderId"`
	CustomerID   int64           `json:"customerId"`
	CustomerName string          `json:"customerName"`
	OrderDate    time.Time       `json:"orderDate"`
	Items        []orderLineResp `json:"items"`
	GrandTotal   string          `json:"grandTotal"`
}

func (h *OrderHandler) GetOrderByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	out, err := h.status.Execute(ctx, id)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	resp := orderStatusResp{
		OrderID:      out.OrderID,
		CustomerID:   out.CustomerID,
		CustomerName: out.CustomerName,
		OrderDate:    out.OrderDate,
		GrandTotal:   out.GrandTotal.StringFixed(2),
	}
	for _, l := range out.Lines {
		resp.Items = append(resp.Items, orderLineResp{
			ISBN:         l.ISBN,
			Title:        l.Title,
			Qty:          l.Qty,
			PriceAtOrder: l.PriceAtOrder.StringFixed(2),
			Subtotal:     l.Subtotal.StringFixed(2),
		})
	}
	c.JSON(http.StatusOK, resp)
}
