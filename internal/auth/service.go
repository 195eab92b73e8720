package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 50
	maxNameLen     = 100
)

// Service registers tutors, verifies credentials and issues session tokens.
type Service struct {
	store      TutorStore
	now        func() time.Time
	secret     []byte
	issuer     string
	tokenTTL   time.Duration
	bcryptCost int
	verify     func(hash, password string) error

	dummyOnce sync.Once
	dummyHash string
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service) error

// WithTokenSecret sets the HMAC key used to sign and verify session tokens.
func WithTokenSecret(secret string) ServiceOption {
	return func(s *Service) error {
		if strings.TrimSpace(secret) == "" {
			return errMissingSecret
		}
		s.secret = []byte(secret)
		return nil
	}
}

// WithIssuer overrides the token issuer claim.
func WithIssuer(issuer string) ServiceOption {
	return func(s *Service) error {
		if issuer = strings.TrimSpace(issuer); issuer != "" {
			s.issuer = issuer
		}
		return nil
	}
}

// WithTokenTTL configures session token lifetime.
func WithTokenTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) error {
		if ttl > 0 {
			s.tokenTTL = ttl
		}
		return nil
	}
}

// WithBcryptCost sets the bcrypt work factor. Values below MinBcryptCost are rejected.
func WithBcryptCost(cost int) ServiceOption {
	return func(s *Service) error {
		if cost == 0 {
			return nil
		}
		if cost < MinBcryptCost {
			return fmt.Errorf("auth: bcrypt cost must be >= %d", MinBcryptCost)
		}
		s.bcryptCost = cost
		return nil
	}
}

// WithClock overrides time source (useful for tests).
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) error {
		if fn != nil {
			s.now = fn
		}
		return nil
	}
}

// NewService constructs Service with optional configuration.
func NewService(store TutorStore, opts ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, errors.New("auth: tutor store is required")
	}
	svc := &Service{
		store:      store,
		now:        time.Now,
		issuer:     defaultIssuer,
		tokenTTL:   defaultTokenTTL,
		bcryptCost: MinBcryptCost,
		verify:     VerifyPassword,
	}
	for _, opt := range opts {
		if err := opt(svc); err != nil {
			return nil, err
		}
	}
	if len(svc.secret) == 0 {
		return nil, errMissingSecret
	}
	return svc, nil
}

// Register creates a tutor account and returns a fresh session.
func (s *Service) Register(ctx context.Context, username, password, name string) (Session, error) {
	username = strings.TrimSpace(username)
	name = strings.TrimSpace(name)
	if username == "" || password == "" {
		return Session{}, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}
	if n := utf8.RuneCountInString(username); n < minUsernameLen || n > maxUsernameLen {
		return Session{}, fmt.Errorf("%w: username must be between %d and %d characters", ErrInvalidInput, minUsernameLen, maxUsernameLen)
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return Session{}, fmt.Errorf("%w: name must be at most %d characters", ErrInvalidInput, maxNameLen)
	}
	if len(password) > maxPasswordBytes {
		return Session{}, fmt.Errorf("%w: password must be at most %d bytes", ErrInvalidInput, maxPasswordBytes)
	}

	if _, err := s.store.FindByUsername(ctx, username); err == nil {
		return Session{}, ErrConflict
	} else if !errors.Is(err, ErrNotFound) {
		return Session{}, err
	}

	hash, err := HashPassword(password, s.bcryptCost)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}
	tutor := &Tutor{Username: username, PasswordHash: hash, Name: name}
	if err := s.store.Create(ctx, tutor); err != nil {
		return Session{}, err
	}
	return s.session(*tutor)
}

// Login verifies credentials. Unknown usernames and wrong passwords fail identically.
func (s *Service) Login(ctx context.Context, username, password string) (Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return Session{}, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}
	tutor, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			_ = s.verify(s.missingHash(), password)
			return Session{}, ErrUnauthorized
		}
		return Session{}, err
	}
	if err := s.verify(tutor.PasswordHash, password); err != nil {
		return Session{}, ErrUnauthorized
	}
	return s.session(*tutor)
}

// missingHash is compared against when the username is unknown so both
// failure paths pay the same bcrypt cost.
func (s *Service) missingHash() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = HashPassword("tutortrack-missing-account", s.bcryptCost)
	})
	return s.dummyHash
}

// Authenticate resolves a bearer token to the stored tutor.
// It returns ErrInvalidToken for bad tokens and ErrNotFound when the tutor no longer exists.
func (s *Service) Authenticate(ctx context.Context, token string) (Tutor, error) {
	claims, err := s.ParseToken(token)
	if err != nil {
		return Tutor{}, err
	}
	tutor, err := s.store.Find(ctx, claims.Subject)
	if err != nil {
		return Tutor{}, err
	}
	return *tutor, nil
}

// Me returns the public fields of the tutor attached to ctx.
func (s *Service) Me(ctx context.Context) (PublicTutor, error) {
	tutor, ok := TutorFromContext(ctx)
	if !ok {
		return PublicTutor{}, ErrInvalidToken
	}
	return tutor.Public(), nil
}

func (s *Service) session(t Tutor) (Session, error) {
	token, exp, err := s.IssueToken(t)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, ExpiresAt: exp, User: t.Public()}, nil
}
