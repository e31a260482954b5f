package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/ArturPrzybyloo/testingforge-auth/pkg/errors"

	"github.com/ArturPrzybyloo/testingforge-auth/internal/auth"
	"github.com/ArturPrzybyloo/testingforge-auth/internal/domain"
	"github.com/ArturPrzybyloo/testingforge-auth/internal/repository"
)

const minPasswordLength = 8

// Notifier delivers verification emails. Delivery failure never fails a
// registration; the user can request a resend.
type Notifier interface {
	SendVerificationEmail(ctx context.Context, email, username, token string) error
}

// EventPublisher publishes account lifecycle events for other services.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, user *domain.User) error
	PublishUserVerified(ctx context.Context, user *domain.User) error
}

// LoginLimiter throttles repeated failed logins per account.
type LoginLimiter interface {
	// Allow returns a rate-limited error when the account has exceeded the
	// failed-attempt budget.
	Allow(ctx context.Context, key string) error
	RecordFailure(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

// Config carries the tunable knobs of the auth service.
type Config struct {
	BcryptCost         int
	VerificationTTL    time.Duration
	RefreshTTL         time.Duration
	RefreshRememberTTL time.Duration
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		BcryptCost:         12,
		VerificationTTL:    24 * time.Hour,
		RefreshTTL:         24 * time.Hour,
		RefreshRememberTTL: 168 * time.Hour,
	}
}

// AuthService implements registration, email verification, login, token
// refresh, and logout.
type AuthService struct {
	userRepo repository.UserRepository
	jwt      *auth.JWTManager
	notifier Notifier
	events   EventPublisher
	limiter  LoginLimiter
	logger   *slog.Logger
	cfg      Config

	// dummyHash is compared against on the unknown-email login path. It is
	// generated at the configured cost so that path burns the same bcrypt
	// work as a wrong-password comparison and timing does not reveal whether
	// the account exists.
	dummyHash []byte
}

// NewAuthService creates a new auth service.
func NewAuthService(
	userRepo repository.UserRepository,
	jwt *auth.JWTManager,
	notifier Notifier,
	events EventPublisher,
	limiter LoginLimiter,
	logger *slog.Logger,
	cfg Config,
) *AuthService {
	if cfg.BcryptCost == 0 {
		cfg = DefaultConfig()
	}
	dummyHash, err := bcrypt.GenerateFromPassword([]byte("timing-equalizer"), cfg.BcryptCost)
	if err != nil {
		// Only reachable with an out-of-range cost; fall back to defaults.
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("timing-equalizer"), bcrypt.DefaultCost)
	}
	return &AuthService{
		userRepo:  userRepo,
		jwt:       jwt,
		notifier:  notifier,
		events:    events,
		limiter:   limiter,
		logger:    logger,
		cfg:       cfg,
		dummyHash: dummyHash,
	}
}

// RegisterInput is the payload for Register.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// RegisterResult reports the created user and whether the verification email
// left the building.
type RegisterResult struct {
	User                  *domain.User
	VerificationEmailSent bool
}

// Register creates an unverified account and sends a verification email.
// The account is created even when email delivery fails, so registration is
// never lost to a flaky mail path.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}

	email := normalizeEmail(in.Email)

	// Pre-insert username check for a field-identifying error before the
	// expensive hash. The unique constraint still backs the race window.
	if _, err := s.userRepo.GetByUsername(ctx, in.Username); err == nil {
		return nil, apperrors.AlreadyExists("user", "username", in.Username)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	token, err := auth.NewOpaqueToken()
	if err != nil {
		return nil, fmt.Errorf("generate verification token: %w", err)
	}

	now := time.Now().UTC()
	tokenHash := auth.HashToken(token)
	tokenExpires := now.Add(s.cfg.VerificationTTL)

	user := &domain.User{
		ID:                    uuid.New().String(),
		Username:              in.Username,
		Email:                 email,
		PasswordHash:          string(hash),
		Role:                  domain.RolePlayer,
		EmailVerified:         false,
		VerificationTokenHash: &tokenHash,
		VerificationExpiresAt: &tokenExpires,
		Points:                0,
		Level:                 1,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	emailSent := true
	if err := s.notifier.SendVerificationEmail(ctx, user.Email, user.Username, token); err != nil {
		emailSent = false
		s.logger.Warn("verification email delivery failed",
			"user_id", user.ID,
			"error", err,
		)
	}

	s.publishEvent(ctx, "user registered", user, s.events.PublishUserRegistered)

	s.logger.Info("user registered",
		"user_id", user.ID,
		"username", user.Username,
		"email_sent", emailSent,
	)

	return &RegisterResult{User: user, VerificationEmailSent: emailSent}, nil
}

// VerifyEmail consumes a verification token and marks the account verified.
// A wrong, expired, or already-used token all produce the same error.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, apperrors.InvalidToken()
	}

	user, err := s.userRepo.ConsumeVerificationToken(ctx, auth.HashToken(token))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.InvalidToken()
		}
		return nil, err
	}

	s.publishEvent(ctx, "user verified", user, s.events.PublishUserVerified)

	s.logger.Info("email verified", "user_id", user.ID)

	return user, nil
}

// ResendVerification issues a fresh verification token and email, replacing
// any previous token for the account.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("user", email)
		}
		return err
	}

	if user.EmailVerified {
		return apperrors.InvalidInput("email address is already verified")
	}

	token, err := auth.NewOpaqueToken()
	if err != nil {
		return fmt.Errorf("generate verification token: %w", err)
	}

	expires := time.Now().UTC().Add(s.cfg.VerificationTTL)
	if err := s.userRepo.SetVerificationToken(ctx, user.ID, auth.HashToken(token), expires); err != nil {
		return err
	}

	if err := s.notifier.SendVerificationEmail(ctx, user.Email, user.Username, token); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}

	s.logger.Info("verification email resent", "user_id", user.ID)

	return nil
}

// Login verifies credentials and issues a token pair. The same error is
// returned for an unknown email and a wrong password, so the endpoint does not
// leak which accounts exist. Unverified accounts are rejected before the
// password is checked.
func (s *AuthService) Login(ctx context.Context, email, password string, rememberMe bool) (*domain.User, *domain.TokenPair, error) {
	email = normalizeEmail(email)

	if err := s.limiter.Allow(ctx, email); err != nil {
		return nil, nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Burn the same bcrypt work as a real comparison so response
			// timing does not reveal whether the account exists.
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, nil, invalidCredentials()
		}
		return nil, nil, err
	}

	if !user.EmailVerified {
		return nil, nil, emailNotVerified()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if lerr := s.limiter.RecordFailure(ctx, email); lerr != nil {
			s.logger.Warn("record login failure", "error", lerr)
		}
		return nil, nil, invalidCredentials()
	}

	if err := s.limiter.Reset(ctx, email); err != nil {
		s.logger.Warn("reset login limiter", "error", err)
	}

	ttl := s.cfg.RefreshTTL
	if rememberMe {
		ttl = s.cfg.RefreshRememberTTL
	}

	pair, err := s.issueTokens(ctx, user, ttl)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("user logged in", "user_id", user.ID, "remember_me", rememberMe)

	return user, pair, nil
}

// Refresh rotates the refresh token and mints a new access token. The rotation
// invalidates the presented token, so a replayed token fails even when the
// session is otherwise alive.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.User, *domain.TokenPair, error) {
	if refreshToken == "" {
		return nil, nil, apperrors.Unauthorized("invalid or expired refresh token")
	}

	newToken, err := auth.NewOpaqueToken()
	if err != nil {
		return nil, nil, fmt.Errorf("generate refresh token: %w", err)
	}

	user, err := s.userRepo.RotateRefreshToken(ctx, auth.HashToken(refreshToken), auth.HashToken(newToken))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, apperrors.Unauthorized("invalid or expired refresh token")
		}
		return nil, nil, err
	}

	access, err := s.jwt.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, nil, fmt.Errorf("generate access token: %w", err)
	}

	s.logger.Debug("refresh token rotated", "user_id", user.ID)

	return user, &domain.TokenPair{AccessToken: access, RefreshToken: newToken}, nil
}

// Logout clears the stored refresh token, ending the session. The access token
// stays valid until it expires on its own.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.userRepo.SetRefreshToken(ctx, userID, nil, nil); err != nil {
		return err
	}

	s.logger.Info("user logged out", "user_id", userID)

	return nil
}

// GetUser returns a user by ID.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("user", userID)
		}
		return nil, err
	}
	return user, nil
}

// issueTokens creates an access/refresh pair and persists the refresh hash,
// overwriting any previous session for the user.
func (s *AuthService) issueTokens(ctx context.Context, user *domain.User, refreshTTL time.Duration) (*domain.TokenPair, error) {
	access, err := s.jwt.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refresh, err := auth.NewOpaqueToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	hash := auth.HashToken(refresh)
	expires := time.Now().UTC().Add(refreshTTL)
	if err := s.userRepo.SetRefreshToken(ctx, user.ID, &hash, &expires); err != nil {
		return nil, err
	}

	return &domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// publishEvent fires a lifecycle event without blocking the request outcome.
func (s *AuthService) publishEvent(ctx context.Context, name string, user *domain.User, publish func(context.Context, *domain.User) error) {
	if err := publish(ctx, user); err != nil {
		s.logger.Warn("publish event failed", "event", name, "user_id", user.ID, "error", err)
	}
}

func invalidCredentials() *apperrors.AppError {
	return apperrors.Unauthorized("invalid email or password")
}

// emailNotVerified is distinguishable from bad credentials so clients can
// prompt for verification instead of a password retry.
func emailNotVerified() *apperrors.AppError {
	return &apperrors.AppError{
		Code:    "EMAIL_NOT_VERIFIED",
		Message: "email address not verified",
		Status:  http.StatusUnauthorized,
		Err:     apperrors.ErrUnauthorized,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validatePassword enforces the password policy: at least 8 characters with an
// uppercase letter, a lowercase letter, and a digit.
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apperrors.InvalidInput(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasUpper || !hasLower || !hasDigit {
		return apperrors.InvalidInput("password must contain an uppercase letter, a lowercase letter, and a digit")
	}

	return nil
}
