package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"inkline/internal/config"
	"inkline/internal/utils/crypto"

	"go.mongodb.org/mongo-driver/v2/bson"
)

var (
	errHashPassword = errors.New("failed to process password")
	errCreateUser   = errors.New("failed to create user")
)

// Service registers accounts and exchanges credentials for access tokens.
type Service struct {
	repo   UsersRepo
	config config.Config
	log    *slog.Logger
	now    func() time.Time
}

func NewService(repo UsersRepo, cfg config.Config, log *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		config: cfg,
		log:    log,
		now:    time.Now,
	}
}

// SignUp creates an account and signs it in. A taken email is reported as
// ErrRegistrationFailed so that sign-up cannot be used to probe accounts.
func (s *Service) SignUp(ctx context.Context, req SignUpRequest) (*AuthResponse, error) {
	email := normalizeEmail(req.Email)

	if existing, err := s.repo.FindByEmail(ctx, email); err == nil && existing != nil {
		return nil, ErrRegistrationFailed
	}

	hash, err := crypto.HashPassword(req.Password, s.config.BcryptCost)
	if err != nil {
		s.log.Error(errHashPassword.Error(), "error", err)
		return nil, errHashPassword
	}

	now := s.now().UTC()
	user := &User{
		ID:           bson.NewObjectID(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, ErrRegistrationFailed
		}
		s.log.Error(errCreateUser.Error(), "error", err)
		return nil, errCreateUser
	}

	s.log.Info("user signed up", "user_id", user.ID.Hex())
	return s.respond(user)
}

// SignIn checks the password of an existing account.
func (s *Service) SignIn(ctx context.Context, req SignInRequest) (*AuthResponse, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			s.log.Error("failed to find user by email", "error", err)
		}
		return nil, ErrInvalidCredentials
	}

	if err := crypto.CheckPassword(req.Password, user.PasswordHash); err != nil {
		s.log.Info("password mismatch", "user_id", user.ID.Hex())
		return nil, ErrInvalidCredentials
	}
	return s.respond(user)
}

// Me returns the user behind a verified token.
func (s *Service) Me(ctx context.Context, userID bson.ObjectID) (*User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *Service) respond(user *User) (*AuthResponse, error) {
	token, err := s.issueToken(user)
	if err != nil {
		s.log.Error(ErrGenAccessToken.Error(), "error", err, "user_id", user.ID.Hex())
		return nil, ErrGenAccessToken
	}
	return &AuthResponse{User: user, Token: token}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
