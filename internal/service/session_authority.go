package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/vidrios-leads-api/internal/models"
	appErrors "github.com/noah-isme/vidrios-leads-api/pkg/errors"
)

// SessionRevoker denylists logged out sessions until they expire.
type SessionRevoker interface {
	Revoke(ctx context.Context, sessionID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

type noopRevoker struct{}

func (noopRevoker) Revoke(context.Context, string, time.Duration) error { return nil }
func (noopRevoker) IsRevoked(context.Context, string) (bool, error) { return false, nil }

// SessionConfig defines the administrator identity and credential lifetime.
type SessionConfig struct {
	Secret            string
	Issuer            string
	TTL               time.Duration
	AdminEmail        string
	AdminPassword     string
	AdminPasswordHash string
}

// SessionAuthority issues and verifies signed administrator session credentials.
type SessionAuthority struct {
	cfg          SessionConfig
	passwordHash []byte
	revoker      SessionRevoker
	validator    *validator.Validate
	logger       *zap.Logger
	metrics      *MetricsService
	now          func() time.Time
}

// NewSessionAuthority constructs a SessionAuthority. When no password hash is configured the
// plain administrator password is hashed once here. revoker may be nil.
func NewSessionAuthority(cfg SessionConfig, revoker SessionRevoker, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService) (*SessionAuthority, error) {
	if cfg.Secret == "" {
		return nil, errors.New("session secret is required")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 7 * 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if revoker == nil {
		revoker = noopRevoker{}
	}

	hash := []byte(cfg.AdminPasswordHash)
	if len(hash) == 0 {
		if cfg.AdminPassword == "" {
			return nil, errors.New("admin password or password hash is required")
		}
		generated, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
		hash = generated
	}
	cfg.AdminPassword = ""

	return &SessionAuthority{
		cfg:          cfg,
		passwordHash: hash,
		revoker:      revoker,
		validator:    validate,
		logger:       logger,
		metrics:      metrics,
		now:          time.Now,
	}, nil
}

// TTL is the lifetime of issued credentials.
func (s *SessionAuthority) TTL() time.Duration {
	return s.cfg.TTL
}

// Login checks the administrator credentials and issues a session credential.
func (s *SessionAuthority) Login(ctx context.Context, req models.LoginRequest) (*models.Session, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "Email y password son obligatorios.")
	}

	emailMatches := strings.EqualFold(req.Email, strings.TrimSpace(s.cfg.AdminEmail))
	passwordErr := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(req.Password))
	if !emailMatches || passwordErr != nil {
		s.metrics.LoginAttempt(false)
		s.logger.Warn("admin login rejected", zap.String("email", req.Email))
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "Credenciales inválidas.")
	}

	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(s.cfg.TTL)
	claims := &models.SessionClaims{
		Email: s.cfg.AdminEmail,
		Role:  models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   s.cfg.AdminEmail,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign session")
	}

	s.metrics.LoginAttempt(true)
	s.logger.Info("admin logged in", zap.String("email", claims.Email), zap.String("session_id", claims.ID))

	return &models.Session{Token: signed, ExpiresAt: expiresAt, User: claims.User()}, nil
}

// Logout revokes the credential for the rest of its lifetime. It never fails.
func (s *SessionAuthority) Logout(ctx context.Context, token string) {
	if token == "" {
		return
	}
	claims, err := s.parse(token)
	if err != nil || claims.ExpiresAt == nil {
		return
	}
	remaining := claims.ExpiresAt.Time.Sub(s.now())
	if err := s.revoker.Revoke(ctx, claims.ID, remaining); err != nil {
		s.logger.Warn("failed to revoke session", zap.String("session_id", claims.ID), zap.Error(err))
		return
	}
	s.logger.Info("admin logged out", zap.String("email", claims.Email), zap.String("session_id", claims.ID))
}

// Verify validates a session credential and requires the admin role.
func (s *SessionAuthority) Verify(ctx context.Context, token string) (*models.SessionClaims, error) {
	if token == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "No autorizado: falta token")
	}

	claims, err := s.parse(token)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "Token inválido o expirado")
	}

	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		// An unreachable denylist fails open.
		s.logger.Warn("session revocation check failed", zap.String("session_id", claims.ID), zap.Error(err))
	}
	if revoked {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "Token inválido o expirado")
	}

	if claims.Role != models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "No autorizado: rol inválido")
	}

	return claims, nil
}

func (s *SessionAuthority) parse(token string) (*models.SessionClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.cfg.Issuer))
	}

	parsed, err := jwt.ParseWithClaims(token, &models.SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Secret), nil
	}, opts...)
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*models.SessionClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid session claims")
	}
	return claims, nil
}
