package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tuanvumaihuynh/perfume-inventory/internal/apperr"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/model"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/repository"
	"github.com/tuanvumaihuynh/perfume-inventory/pkg/token"
	"github.com/tuanvumaihuynh/perfume-inventory/pkg/validator"
)

type Credentials struct {
	Email    string `validate:"required,email,max=254"`
	Password string `validate:"min=6,max=72"`
}

type AccessToken struct {
	Token     string
	ExpiresAt time.Time
	User      model.User
}

type AuthService interface {
	Register(ctx context.Context, creds Credentials) (model.User, error)
	Login(ctx context.Context, creds Credentials) (AccessToken, error)
	// Authenticate verifies a bearer token and returns its user id.
	Authenticate(ctx context.Context, rawToken string) (uuid.UUID, error)
}

type authService struct {
	logger     *slog.Logger
	validator  validator.Validator
	issuer     *token.Issuer
	userRepo   repository.UserRepository
	bcryptCost int
}

func NewAuthService(
	logger *slog.Logger,
	validator validator.Validator,
	issuer *token.Issuer,
	userRepo repository.UserRepository,
) AuthService {
	return &authService{
		logger:     logger.With(slog.String("service", "auth")),
		validator:  validator,
		issuer:     issuer,
		userRepo:   userRepo,
		bcryptCost: bcrypt.DefaultCost,
	}
}

func (s *authService) Register(ctx context.Context, creds Credentials) (model.User, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if err := validate(s.validator, creds); err != nil {
		return model.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), s.bcryptCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return model.User{}, fmt.Errorf("generate uuid v7: %w", err)
	}

	user := model.User{
		ID:           id,
		Email:        creds.Email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return model.User{}, apperr.EmailTakenErr
		}
		return model.User{}, fmt.Errorf("user repository create user: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered", slog.String("user_id", user.ID.String()))
	return user, nil
}

// dummyPasswordHash is compared against when the email is unknown, so Login
// spends the same bcrypt work whether or not the account exists.
var dummyPasswordHash = sync.OnceValue(func() []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte("perfume-inventory-dummy"), bcrypt.DefaultCost)
	if err != nil {
		panic(fmt.Sprintf("hash dummy password: %v", err))
	}
	return hash
})

func (s *authService) Login(ctx context.Context, creds Credentials) (AccessToken, error) {
	creds.Email = strings.TrimSpace(creds.Email)

	user, err := s.userRepo.FindByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyPasswordHash(), []byte(creds.Password))
			return AccessToken{}, apperr.InvalidCredentialsErr
		}
		return AccessToken{}, fmt.Errorf("user repository find by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		return AccessToken{}, apperr.InvalidCredentialsErr
	}

	signed, expiresAt, err := s.issuer.Issue(user.ID, user.Email)
	if err != nil {
		return AccessToken{}, fmt.Errorf("issue token: %w", err)
	}

	return AccessToken{Token: signed, ExpiresAt: expiresAt, User: user}, nil
}

func (s *authService) Authenticate(_ context.Context, rawToken string) (uuid.UUID, error) {
	userID, err := s.issuer.Parse(rawToken)
	if err != nil {
		return uuid.Nil, apperr.UnauthorizedErr.WrapParent(err)
	}
	return userID, nil
}
