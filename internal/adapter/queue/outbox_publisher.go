package queue

import (
	"context"
	"log/slog"
	"time"

	"github.com/DareenAmin/Library-Desk-Agent/internal/usecase"
)

// Publisher is what the drainer needs from the broker side.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// OutboxPublisher drains pending outbox rows to the broker. It runs
// outside the request path; order transactions only ever insert rows.
type OutboxPublisher struct {
	repo     usecase.OutboxRepo
	pub      Publisher
	interval time.Duration
	batch    int
	log      *slog.Logger
}

func NewOutboxPublisher(repo usecase.OutboxRepo, pub Publisher, interval time.Duration, batch int, log *slog.Logger) *OutboxPublisher {
	if interval <= 0 {
		interval = time.Second
	}
	if batch <= 0 {
		batch = 100
	}
	return &OutboxPublisher{repo: repo, pub: pub, interval: interval, batch: batch, log: log}
}

// Start blocks until ctx is cancelled.
func (p *OutboxPublisher) Start(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.Drain(ctx); err != nil {
				p.log.Error("outbox drain", "err", err)
			}
		}
	}
}

// Drain publishes one batch. A row that fails to publish is marked for
// retry and does not block the rest of the batch.
func (p *OutboxPublisher) Drain(ctx context.Context) error {
	rows, err := p.repo.FetchPending(ctx, p.batch)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if err := p.pub.Publish(ctx, row.Channel, row.Payload); err != nil {
			p.log.Warn("outbox publish", "id", row.ID, "channel", row.Channel, "err", err)
			if err := p.repo.MarkFailed(ctx, row.ID); err != nil {
				return err
			}
			continue
		}
		if err := p.repo.MarkSent(ctx, row.ID); err != nil {
			return err
		}
	}
	return nil
}
