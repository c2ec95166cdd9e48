package kafka

import (
	"context"
	"errors"
	"log/slog"

	domain "github.com/DareenAmin/Library-Desk-Agent/internal/entity"
	"github.com/DareenAmin/Library-Desk-Agent/internal/usecase"
)

// StockReceivedHandler applies warehouse deliveries through the restock
// use case, so broker-driven restocks get the same transactional
// guarantees as API-driven ones.
type StockReceivedHandler struct {
	Catalog *usecase.Catalog
	Logger  *slog.Logger
}

func NewStockReceivedHandler(catalog *usecase.Catalog, log *slog.Logger) *StockReceivedHandler {
	return &StockReceivedHandler{Catalog: catalog, Logger: log}
}

func (h *StockReceivedHandler) Handle(ctx context.Context, ev usecase.StockReceivedMsg) error {
	out, err := h.Catalog.Restock(ctx, usecase.RestockInput{ISBN: ev.ISBN, Qty: ev.Qty})
	if err != nil {
		// A malformed or unknown-book event will never succeed; log and
		// swallow so it is not redelivered forever.
		var unknown *domain.UnknownBookError
		var badQty *domain.InvalidQuantityError
		if errors.As(err, &unknown) || errors.As(err, &badQty) {
			h.Logger.Warn("dropping stock.received event", "isbn", ev.ISBN, "qty", ev.Qty, "err", err)
			return nil
		}
		return err
	}
	h.Logger.Info("stock received", "isbn", out.ISBN, "title", out.Title, "new_stock", out.NewStock)
	return nil
}
