package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockMailerRecords(t *testing.T) {
	m := NewMockMailer()

	require.NoError(t, m.Send(context.Background(), "user@example.com", "Welcome", "hello"))
	require.NoError(t, m.Send(context.Background(), "other@example.com", "Case update", "progress"))

	sent := m.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, "user@example.com", sent[0].To)
	assert.Equal(t, "Case update", sent[1].Subject)

	// Sent returns a copy.
	sent[0].To = "mutated"
	assert.Equal(t, "user@example.com", m.Sent()[0].To)
}

func TestMockMailerError(t *testing.T) {
	m := NewMockMailer()
	m.Err = errors.New("relay down")

	err := m.Send(context.Background(), "user@example.com", "Welcome", "hello")
	require.Error(t, err)
	assert.Empty(t, m.Sent())
}
