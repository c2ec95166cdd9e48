package usecase_test

import (
	"context"
	"testing"

	"github.com/DareenAmin/Library-Desk-Agent/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscript_SaveAndHistory(t *testing.T) {
	store := seededStore()
	tr := usecase.NewTranscript(store, fixedClock())
	ctx := context.Background()

	require.NoError(t, tr.Save(ctx, "s1", "user", "any clean code in stock?"))
	require.NoError(t, tr.Save(ctx, "s1", "assistant", "Clean Code: 5 in stock."))
	require.NoError(t, tr.Save(ctx, "s2", "user", "unrelated session"))

	msgs, err := tr.History(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "user", msgs[0].Role)
	assert.Equal(t, "assistant", msgs[1].Role)
	assert.Equal(t, fixedNow, msgs[0].CreatedAt)

	empty, err := tr.History(ctx, "s3")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestTranscript_Validation(t *testing.T) {
	store := seededStore()
	tr := usecase.NewTranscript(store, fixedClock())
	ctx := context.Background()

	assert.ErrorIs(t, tr.Save(ctx, "", "user", "hi"), usecase.ErrEmptySession)
	assert.ErrorIs(t, tr.Save(ctx, "s1", "system", "hi"), usecase.ErrBadRole)
	_, err := tr.History(ctx, "")
	assert.ErrorIs(t, err, usecase.ErrEmptySession)
}
