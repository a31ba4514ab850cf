package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pet-adoption-api/internal/domain/entity"
	"github.com/oksasatya/pet-adoption-api/internal/domain/repository"
	"github.com/oksasatya/pet-adoption-api/pkg/helpers"
)

var emailCheck = validator.New()

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID int64, role string) (string, time.Time, error)
}

// AuthService is the credential store: registration, login and identity lookup.
type AuthService struct {
	Store    repository.Store
	Hasher   helpers.PasswordHasher
	Tokens   TokenIssuer
	Notifier Notifier
	Logger   *logrus.Logger
}

func NewAuthService(store repository.Store, hasher helpers.PasswordHasher, tokens TokenIssuer, notifier Notifier, logger *logrus.Logger) *AuthService {
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &AuthService{Store: store, Hasher: hasher, Tokens: tokens, Notifier: notifier, Logger: logger}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     entity.Role
}

// AuthResult is returned by Register and Authenticate so clients can act
// right away without a second round trip.
type AuthResult struct {
	User      *entity.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" || in.Role == "" {
		return nil, ErrMissingFields
	}
	if !in.Role.Valid() {
		return nil, ErrInvalidRole
	}
	if emailCheck.Var(email, "email") != nil {
		return nil, ErrInvalidEmail
	}

	users := s.Store.Repos().Users
	if _, err := users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, internalErr(s.Logger, "register.lookup", err)
	}

	digest, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, internalErr(s.Logger, "register.hash", err)
	}
	u := &entity.User{Name: name, Email: email, Role: in.Role, PasswordHash: digest}
	if err := users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, internalErr(s.Logger, "register.create", err)
	}

	s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "role": u.Role}).Info("user registered")
	res, err := s.issue(u)
	if err != nil {
		return nil, err
	}
	s.Notifier.Welcome(ctx, u)
	return res, nil
}

// Authenticate matches on (email, role) so one address cannot log in under a role it was not registered with.
func (s *AuthService) Authenticate(ctx context.Context, email, password string, role entity.Role) (*AuthResult, error) {
	u, err := s.Store.Repos().Users.GetByEmailAndRole(ctx, normalizeEmail(email), role)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, internalErr(s.Logger, "authenticate.lookup", err)
	}
	if !s.Hasher.Verify(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return s.issue(u)
}

func (s *AuthService) Lookup(ctx context.Context, id int64) (*entity.User, error) {
	u, err := s.Store.Repos().Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, internalErr(s.Logger, "lookup", err)
	}
	return u, nil
}

func (s *AuthService) issue(u *entity.User) (*AuthResult, error) {
	token, exp, err := s.Tokens.Issue(u.ID, string(u.Role))
	if err != nil {
		return nil, internalErr(s.Logger, "issue token", err)
	}
	return &AuthResult{User: u, Token: token, ExpiresAt: exp}, nil
}
