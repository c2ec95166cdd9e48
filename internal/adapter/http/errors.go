package http

import (
	"errors"
	"net/http"

	domain "github.com/DareenAmin/Library-Desk-Agent/internal/entity"
	"github.com/DareenAmin/Library-Desk-Agent/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ordersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders committed successfully",
	})
	ordersRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_rejected_total",
		Help: "Order requests rejected, by reason",
	}, []string{"reason"})
)

// errCode names a domain error for clients and metrics labels.
func errCode(err error) string {
	var (
		unknownBook *domain.UnknownBookError
		badQty      *domain.InvalidQuantityError
		dupLine     *domain.DuplicateLineItemError
		noStock     *domain.InsufficientStockError
	)
	switch {
	case errors.Is(err, domain.ErrEmptyOrder):
		return "empty_order"
	case errors.Is(err, domain.ErrUnknownCustomer):
		return "unknown_customer"
	case errors.As(err, &unknownBook):
		return "unknown_book"
	case errors.As(err, &badQty):
		return "invalid_quantity"
	case errors.As(err, &dupLine):
		return "duplicate_line_item"
	case errors.As(err, &noStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrOrderNotFound):
		return "order_not_found"
	case errors.Is(err, domain.ErrInvalidPrice):
		return "invalid_price"
	case errors.Is(err, usecase.ErrInvalidThreshold):
		return "invalid_threshold"
	case errors.Is(err, usecase.ErrDuplicate):
		return "duplicate_request"
	case errors.Is(err, usecase.ErrEmptySession), errors.Is(err, usecase.ErrBadRole):
		return "bad_request"
	case errors.Is(err, domain.ErrTxConflict):
		return "transaction_conflict"
	case errors.Is(err, domain.ErrStoreUnavailable):
		return "store_unavailable"
	default:
		return "internal"
	}
}

// writeDomainError maps the error taxonomy onto HTTP statuses and carries
// enough detail (offending isbn, available vs requested) for the calling
// layer to relay a precise message.
func writeDomainError(c *gin.Context, err error) {
	body := gin.H{"error": errCode(err), "message": err.Error()}
	status := http.StatusInternalServerError

	var (
		unknownBook *domain.UnknownBookError
		badQty      *domain.InvalidQuantityError
		dupLine     *domain.DuplicateLineItemError
		noStock     *domain.InsufficientStockError
	)
	switch {
	case errors.Is(err, domain.ErrEmptyOrder),
		errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, usecase.ErrInvalidThreshold),
		errors.Is(err, usecase.ErrEmptySession),
		errors.Is(err, usecase.ErrBadRole):
		status = http.StatusBadRequest
	case errors.As(err, &badQty):
		status = http.StatusBadRequest
		body["isbn"] = badQty.ISBN
	case errors.Is(err, domain.ErrUnknownCustomer),
		errors.Is(err, domain.ErrOrderNotFound):
		status = http.StatusNotFound
	case errors.As(err, &unknownBook):
		status = http.StatusNotFound
		body["isbn"] = unknownBook.ISBN
	case errors.As(err, &dupLine):
		status = http.StatusConflict
		body["isbn"] = dupLine.ISBN
	case errors.As(err, &noStock):
		status = http.StatusConflict
		body["isbn"] = noStock.ISBN
		body["available"] = noStock.Available
		body["requested"] = noStock.Requested
	case errors.Is(err, usecase.ErrDuplicate), errors.Is(err, domain.ErrTxConflict):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, body)
}
