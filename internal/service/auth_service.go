package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"

	"github.com/autoposterhub/autoposter/internal/models"
)

// AuthService is a mock session: any email logs in and maps to a stable user
// id so campaigns stay attached to it across sessions. Not a security
// boundary.
type AuthService interface {
	Login(ctx context.Context, email string) (*models.User, error)
}

type authService struct{}

func NewAuthService() AuthService {
	return &authService{}
}

func (s *authService) Login(ctx context.Context, email string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		err := errors.New("a valid email is required")
		slog.Info(err.Error())
		return nil, err
	}

	sum := sha256.Sum256([]byte(email))
	return &models.User{
		ID:    "user-" + hex.EncodeToString(sum[:8]),
		Email: email,
	}, nil
}
