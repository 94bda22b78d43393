package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	domain "entrepreneur/backend/internal/domain/auth"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Service coordinates authentication workflows between domain and infrastructure.
type Service struct {
	users    domain.UserRepository
	hasher   domain.PasswordHasher
	tokens   TokenManager
	resolver *Resolver
	verifier *Verifier
	log      zerolog.Logger
	nowFunc  func() time.Time
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	Token IssuedToken
	User  *domain.User
}

// NewService constructs an auth service.
func NewService(users domain.UserRepository, hasher domain.PasswordHasher, tokens TokenManager, log zerolog.Logger) *Service {
	resolver := NewResolver(users)
	return &Service{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		resolver: resolver,
		verifier: NewVerifier(resolver, hasher),
		log:      log,
		nowFunc:  time.Now,
	}
}

// Resolver exposes the identity resolver backing this service.
func (s *Service) Resolver() *Resolver {
	return s.resolver
}

// Register creates a new USER identity and returns it without a password hash.
func (s *Service) Register(ctx context.Context, email, password string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil, errors.New("email is required")
	}
	if strings.TrimSpace(password) == "" {
		return nil, errors.New("password is required")
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Role:         domain.RoleUser,
		PasswordHash: hashed,
		CreatedAt:    s.nowFunc().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user registered")
	return user.Sanitize(), nil
}

// Login validates credentials and returns an access token plus user.
func (s *Service) Login(ctx context.Context, creds domain.Credentials) (LoginResult, error) {
	user, err := s.verifier.Verify(ctx, creds.Email, creds.Password)
	if err != nil {
		return LoginResult{}, err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Token: token, User: user}, nil
}

// Authenticate turns a bearer token into an identity. Any failure, including
// an identity deleted after issuance, yields (nil, false).
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.User, bool) {
	result := s.tokens.Validate(token)
	if !result.Valid {
		return nil, false
	}

	user, err := s.resolver.ResolveBySubject(ctx, result.Subject)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			s.log.Error().Err(err).Msg("resolve token subject")
		}
		return nil, false
	}
	return user, true
}
