package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginMapsEmailToStableID(t *testing.T) {
	s := NewAuthService()
	ctx := context.Background()

	first, err := s.Login(ctx, "Dev@Example.com")
	require.NoError(t, err)
	second, err := s.Login(ctx, "  dev@example.com ")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "dev@example.com", first.Email)
	assert.True(t, strings.HasPrefix(first.ID, "user-"))
}

func TestLoginDistinctEmailsDistinctIDs(t *testing.T) {
	s := NewAuthService()
	ctx := context.Background()

	a, err := s.Login(ctx, "a@example.com")
	require.NoError(t, err)
	b, err := s.Login(ctx, "b@example.com")
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}

func TestLoginRejectsInvalidEmail(t *testing.T) {
	s := NewAuthService()
	ctx := context.Background()

	_, err := s.Login(ctx, "")
	assert.Error(t, err)

	_, err = s.Login(ctx, "not-an-email")
	assert.Error(t, err)
}
