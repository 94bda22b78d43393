package token

import (
	"errors"
	"fmt"
	"time"

	"entrepreneur/backend/internal/config"
	domain "entrepreneur/backend/internal/domain/auth"
	usecase "entrepreneur/backend/internal/usecase/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

var (
	// ErrMissingSecret is returned when the manager is built without a signing secret.
	ErrMissingSecret = errors.New("token: signing secret is required")
	// ErrMissingIssuer is returned when the manager is built without an issuer.
	ErrMissingIssuer = errors.New("token: issuer is required")
)

// JWTManager issues and validates HS256 JWT access tokens. It holds no
// mutable state after construction and is safe for concurrent use.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
	parser *jwt.Parser
	log    zerolog.Logger
}

// Option customises a JWTManager.
type Option func(*JWTManager)

// WithClock overrides the time source used for issuing and validating.
func WithClock(now func() time.Time) Option {
	return func(m *JWTManager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithLogger sets the logger used to record rejection reasons server-side.
func WithLogger(log zerolog.Logger) Option {
	return func(m *JWTManager) {
		m.log = log
	}
}

// NewJWTManager constructs a manager from the token configuration.
func NewJWTManager(cfg config.Token, opts ...Option) (*JWTManager, error) {
	if cfg.Secret == "" {
		return nil, ErrMissingSecret
	}
	if cfg.Issuer == "" {
		return nil, ErrMissingIssuer
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("token: ttl must be positive, got %s", cfg.TTL)
	}

	m := &JWTManager{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
		issuer: cfg.Issuer,
		now:    time.Now,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(m.now),
	)
	return m, nil
}

// Ensure JWTManager implements the TokenManager interface.
var _ usecase.TokenManager = (*JWTManager)(nil)

// Issue creates a signed JWT whose subject is the user's email.
func (m *JWTManager) Issue(user *domain.User) (usecase.IssuedToken, error) {
	if user == nil || user.Email == "" {
		return usecase.IssuedToken{}, errors.New("token: user email is required")
	}

	now := m.now().UTC()
	expiresAt := now.Add(m.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   user.Email,
		Issuer:    m.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return usecase.IssuedToken{}, fmt.Errorf("token: sign: %w", err)
	}

	return usecase.IssuedToken{
		AccessToken: signed,
		ExpiresAt:   expiresAt,
		ExpiresIn:   int64(m.ttl / time.Second),
	}, nil
}

// Validate parses the token and returns its subject when the signature,
// expiry and issuer all check out.
func (m *JWTManager) Validate(tokenString string) usecase.Validation {
	var claims jwt.RegisteredClaims
	token, err := m.parser.ParseWithClaims(tokenString, &claims, m.keyFunc)
	if err != nil {
		m.log.Debug().Err(err).Msg("token rejected")
		return usecase.Rejected
	}
	if !token.Valid || claims.Subject == "" {
		m.log.Debug().Msg("token rejected: missing subject")
		return usecase.Rejected
	}
	return usecase.Accepted(claims.Subject)
}

func (m *JWTManager) keyFunc(t *jwt.Token) (any, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.New("unexpected signing method")
	}
	return m.secret, nil
}
