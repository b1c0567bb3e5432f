package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/itobot/scout/internal/dependencies/clock"
	"github.com/itobot/scout/internal/dependencies/ids"
	"github.com/itobot/scout/internal/model"
	"github.com/itobot/scout/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrEmailInUse         = errors.New("email already in use")
)

// MinPasswordLength is the shortest accepted password
const MinPasswordLength = 6

// Session represents an authenticated session
type Session struct {
	Token     string
	UID       model.UserID
	Profile   model.UserProfile
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Claims are carried in the signed session token
type Claims struct {
	UID  model.UserID `json:"uid"`
	Role model.Role   `json:"role"`
	jwt.RegisteredClaims
}

// Service handles registration, login and session verification
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	ids     ids.Generator
	logger  *slog.Logger
	cfg     Config

	secret      []byte
	adminEmails map[string]bool

	mu      sync.Mutex
	revoked map[string]time.Time // token id -> expiry
}

// Config holds configuration for the auth service
type Config struct {
	SessionDuration time.Duration
	// Secret signs session tokens; a random one is generated when empty
	Secret string
	Issuer string
	// AdminEmails are granted the admin role when they register
	AdminEmails []string
	BcryptCost  int
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
		Issuer:          "scout",
		BcryptCost:      bcrypt.DefaultCost,
	}
}

// New creates a new auth Service
func New(storage storage.Storage, clock clock.Clock, ids ids.Generator, cfg Config, logger *slog.Logger) *Service {
	defaults := DefaultConfig()
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = defaults.SessionDuration
	}
	if cfg.Issuer == "" {
		cfg.Issuer = defaults.Issuer
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = defaults.BcryptCost
	}

	secret := []byte(cfg.Secret)
	if len(secret) == 0 {
		logger.Warn("no session secret configured, generating an ephemeral one")
		secret = make([]byte, 32)
		_, _ = rand.Read(secret)
	}

	admins := make(map[string]bool, len(cfg.AdminEmails))
	for _, email := range cfg.AdminEmails {
		admins[normalizeEmail(email)] = true
	}

	return &Service{
		storage:     storage,
		clock:       clock,
		ids:         ids,
		logger:      logger,
		cfg:         cfg,
		secret:      secret,
		adminEmails: admins,
		revoked:     make(map[string]time.Time),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterInput holds the fields of the registration form
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Surname  string
}

func (in RegisterInput) validate() error {
	fields := []struct{ name, value string }{
		{"email", in.Email},
		{"password", in.Password},
		{"name", in.Name},
		{"surname", in.Surname},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return &model.ValidationError{Field: f.name, Message: "is required"}
		}
	}
	if !strings.Contains(in.Email, "@") {
		return &model.ValidationError{Field: "email", Message: "is not a valid email address"}
	}
	if len(in.Password) < MinPasswordLength {
		return &model.ValidationError{
			Field:   "password",
			Message: fmt.Sprintf("must be at least %d characters", MinPasswordLength),
		}
	}
	return nil
}

// Register creates a user account and a session for it
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	email := normalizeEmail(in.Email)

	// Check if email exists
	_, err := s.storage.GetCredentialsByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailInUse
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return nil, &model.PersistenceError{Op: "look up email", Err: err}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	uid := model.UserID(s.ids.NewID())
	now := s.clock.Now()

	role := model.RoleUser
	if s.adminEmails[email] {
		role = model.RoleAdmin
	}

	profile := &model.UserProfile{
		UID:       uid,
		Email:     email,
		Name:      strings.TrimSpace(in.Name),
		Surname:   strings.TrimSpace(in.Surname),
		Role:      role,
		CreatedAt: now,
	}

	creds := &model.Credentials{
		UID:          uid,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.SaveUser(ctx, profile); err != nil {
		return nil, &model.PersistenceError{Op: "save user", Err: err}
	}

	// Without credentials the profile could never sign in, so take it back out
	if err := s.storage.SaveCredentials(ctx, creds); err != nil {
		if delErr := s.storage.DeleteUser(ctx, uid); delErr != nil {
			s.logger.Error("failed to remove profile after credentials write failed",
				"uid", uid, "error", delErr)
		}
		return nil, &model.PersistenceError{Op: "save credentials", Err: err}
	}

	s.logger.Info("user registered", "uid", uid, "role", role)
	return s.createSession(profile)
}

// Login authenticates a user and creates a session
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	creds, err := s.storage.GetCredentialsByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, &model.PersistenceError{Op: "look up email", Err: err}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	profile, err := s.storage.GetUser(ctx, creds.UID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, &model.PersistenceError{Op: "get user", Err: err}
	}

	return s.createSession(profile)
}

// ValidateSession verifies a session token and returns the session.
// The profile, and so the role, is always reloaded from storage.
func (s *Service) ValidateSession(ctx context.Context, token string) (*Session, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, ErrInvalidSession
	}

	if s.isRevoked(claims.ID) {
		return nil, ErrInvalidSession
	}

	profile, err := s.storage.GetUser(ctx, claims.UID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}

	return &Session{
		Token:     token,
		UID:       profile.UID,
		Profile:   *profile,
		CreatedAt: claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// InvalidateSession revokes a token until it would have expired anyway
func (s *Service) InvalidateSession(token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return ErrInvalidSession
	}

	s.mu.Lock()
	s.revoked[claims.ID] = claims.ExpiresAt.Time
	s.mu.Unlock()
	return nil
}

// CleanExpiredRevocations forgets revoked tokens that have expired (call periodically)
func (s *Service) CleanExpiredRevocations() {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, expiresAt := range s.revoked {
		if now.After(expiresAt) {
			delete(s.revoked, id)
		}
	}
}

// ListUsers returns every profile; admins only
func (s *Service) ListUsers(ctx context.Context, actor *model.UserProfile) ([]*model.UserProfile, error) {
	if !actor.IsAdmin() {
		return nil, model.ErrPermissionDenied
	}
	return s.storage.ListUsers(ctx)
}

// SetRole changes a user's role; admins only
func (s *Service) SetRole(ctx context.Context, actor *model.UserProfile, uid model.UserID, role model.Role) (*model.UserProfile, error) {
	if !actor.IsAdmin() {
		return nil, model.ErrPermissionDenied
	}
	if !role.Valid() {
		return nil, &model.ValidationError{Field: "role", Message: "must be admin or user"}
	}

	profile, err := s.storage.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}

	profile.Role = role
	if err := s.storage.SaveUser(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info("user role changed", "uid", uid, "role", role, "by", actor.UID)
	return profile, nil
}

func (s *Service) isRevoked(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[id]
	return ok
}

// createSession signs a new token for a profile
func (s *Service) createSession(profile *model.UserProfile) (*Session, error) {
	now := s.clock.Now()
	expiresAt := now.Add(s.cfg.SessionDuration)

	claims := Claims{
		UID:  profile.UID,
		Role: profile.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.generateID("sess_"),
			Subject:   string(profile.UID),
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	return &Session{
		Token:     token,
		UID:       profile.UID,
		Profile:   *profile,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *Service) parse(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid || claims.ID == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// generateID generates a random ID with a prefix
func (s *Service) generateID(prefix string) string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return prefix + base64.RawURLEncoding.EncodeToString(b)
}
