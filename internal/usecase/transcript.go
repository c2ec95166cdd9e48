package usecase

import (
	"context"
	"errors"

	domain "github.com/DareenAmin/Library-Desk-Agent/internal/entity"
)

var (
	ErrEmptySession = errors.New("session id required")
	ErrBadRole      = errors.New(`role must be "user" or "assistant"`)
)

// Transcript persists chat history for the external conversational layer.
type Transcript struct {
	store Store
	clock Clock
}

func NewTranscript(store Store, clock Clock) *Transcript {
	return &Transcript{store: store, clock: clock}
}

func (t *Transcript) Save(ctx context.Context, sessionID, role, content string) error {
	if sessionID == "" {
		return ErrEmptySession
	}
	if role != "user" && role != "assistant" {
		return ErrBadRole
	}
	return t.store.WithinTx(ctx, func(tx Tx) error {
		return tx.InsertMessage(ctx, domain.ChatMessage{
			SessionID: sessionID,
			Role:      role,
			Content:   content,
			CreatedAt: t.clock.Now(),
		})
	})
}

// History returns a session's messages oldest first.
func (t *Transcript) History(ctx context.Context, sessionID string) ([]domain.ChatMessage, error) {
	if sessionID == "" {
		return nil, ErrEmptySession
	}
	var msgs []domain.ChatMessage
	err := t.store.WithinTx(ctx, func(tx Tx) error {
		var err error
		msgs, err = tx.ListMessages(ctx, sessionID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return msgs, nil
}
