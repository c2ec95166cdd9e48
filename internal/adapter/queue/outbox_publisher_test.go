package queue

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DareenAmin/Library-Desk-Agent/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOutbox struct {
	pending []usecase.OutboxRow
	sent    []int64
	failed  []int64
}

func (f *fakeOutbox) FetchPending(_ context.Context, limit int) ([]usecase.OutboxRow, error) {
	if len(f.pending) > limit {
		return f.pending[:limit], nil
	}
	return f.pending, nil
}

func (f *fakeOutbox) MarkSent(_ context.Context, id int64) error {
	f.sent = append(f.sent, id)
	return nil
}

func (f *fakeOutbox) MarkFailed(_ context.Context, id int64) error {
	f.failed = append(f.failed, id)
	return nil
}

type fakePublisher struct {
	published []string
	failOn    string
}

func (f *fakePublisher) Publish(_ context.Context, channel string, payload []byte) error {
	if f.failOn != "" && string(payload) == f.failOn {
		return errors.New("broker down")
	}
	f.published = append(f.published, channel+":"+string(payload))
	return nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDrain_PublishesAndMarks(t *testing.T) {
	repo := &fakeOutbox{pending: []usecase.OutboxRow{
		{ID: 1, Channel: "order.placed.v1", Payload: []byte("a")},
		{ID: 2, Channel: "order.placed.v1", Payload: []byte("b")},
	}}
	pub := &fakePublisher{}
	p := NewOutboxPublisher(repo, pub, time.Second, 100, discard())

	require.NoError(t, p.Drain(context.Background()))
	assert.Equal(t, []string{"order.placed.v1:a", "order.placed.v1:b"}, pub.published)
	assert.Equal(t, []int64{1, 2}, repo.sent)
	assert.Empty(t, repo.failed)
}

func TestDrain_FailedRowDoesNotBlockBatch(t *testing.T) {
	repo := &fakeOutbox{pending: []usecase.OutboxRow{
		{ID: 1, Channel: "order.placed.v1", Payload: []byte("a")},
		{ID: 2, Channel: "order.placed.v1", Payload: []byte("b")},
	}}
	pub := &fakePublisher{failOn: "a"}
	p := NewOutboxPublisher(repo, pub, time.Second, 100, discard())

	require.NoError(t, p.Drain(context.Background()))
	assert.Equal(t, []int64{1}, repo.failed)
	assert.Equal(t, []int64{2}, repo.sent)
	assert.Equal(t, []string{"order.placed.v1:b"}, pub.published)
}

func TestDrain_RespectsBatchSize(t *testing.T) {
	repo := &fakeOutbox{}
	for i := int64(1); i <= 5; i++ {
		repo.pending = append(repo.pending, usecase.OutboxRow{ID: i, Channel: "c", Payload: []byte("x")})
	}
	pub := &fakePublisher{}
	p := NewOutboxPublisher(repo, pub, time.Second, 3, discard())

	require.NoError(t, p.Drain(context.Background()))
	assert.Len(t, repo.sent, 3)
}
