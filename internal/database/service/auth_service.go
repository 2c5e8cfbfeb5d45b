package service

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/access"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/config"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/database/repository"
)

// AuthService defines the interface for authentication business logic
type AuthService interface {
	Register(username, email, password string) (*models.User, *TokenPair, error)
	Login(email, password string) (*models.User, *TokenPair, error)
	RefreshToken(refreshToken string) (*TokenPair, error)
	Logout(refreshToken string) error
	ValidateAccessToken(tokenString string) (uint, error)
	EnsureAdmin(username, email, password string) (*models.User, error)
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// AccessClaims are the claims carried by an access token. The role is informational;
// authorization always reloads the account.
type AccessClaims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	Type   string `json:"type"`
	jwt.RegisteredClaims
}

const accessTokenType = "access"

type authService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	jwtSecret        string
	cfg              *config.Config
	logger           *slog.Logger
}

// NewAuthService creates a new authentication service instance
func NewAuthService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	cfg *config.Config,
	logger *slog.Logger,
) AuthService {
	return &authService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		jwtSecret:        cfg.JWTSecret,
		cfg:              cfg,
		logger:           logger,
	}
}

func (s *authService) Register(username, email, password string) (*models.User, *TokenPair, error) {
	s.logger.Info("📝 [AuthService] Registration attempt", "email", email, "username", username)

	user, err := s.createAccount(username, email, password, models.RoleGamer)
	if err != nil {
		return nil, nil, err
	}

	tokens, err := s.generateTokenPair(user)
	if err != nil {
		s.logger.Error("❌ [AuthService] Failed to generate tokens", "error", err)
		return nil, nil, err
	}

	s.logger.Info("✅ [AuthService] User registered successfully", "user_id", user.ID)
	return user, tokens, nil
}

func (s *authService) Login(email, password string) (*models.User, *TokenPair, error) {
	s.logger.Info("🔐 [AuthService] Login attempt", "email", email)

	user, err := s.userRepo.FindByEmail(normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.logger.Warn("⚠️ [AuthService] User not found", "email", email)
			return nil, nil, ErrInvalidCredentials
		}
		s.logger.Error("❌ [AuthService] Database error", "error", err)
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.logger.Warn("⚠️ [AuthService] Invalid password", "email", email)
		return nil, nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		s.logger.Warn("⚠️ [AuthService] Login refused for deactivated account", "user_id", user.ID)
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.generateTokenPair(user)
	if err != nil {
		s.logger.Error("❌ [AuthService] Failed to generate tokens", "error", err)
		return nil, nil, err
	}

	s.logger.Info("✅ [AuthService] User logged in successfully", "user_id", user.ID)
	return user, tokens, nil
}

func (s *authService) RefreshToken(refreshToken string) (*TokenPair, error) {
	s.logger.Info("🔄 [AuthService] Token refresh attempt")

	storedToken, err := s.refreshTokenRepo.FindByToken(refreshToken)
	if err != nil {
		s.logger.Warn("⚠️ [AuthService] Invalid refresh token", "error", err)
		return nil, ErrInvalidToken
	}

	if !storedToken.User.IsActive {
		s.logger.Warn("⚠️ [AuthService] Refresh refused for deactivated account", "user_id", storedToken.UserID)
		if err := s.refreshTokenRepo.RevokeAllUserTokens(storedToken.UserID); err != nil {
			s.logger.Error("❌ [AuthService] Failed to revoke tokens", "user_id", storedToken.UserID, "error", err)
		}
		return nil, ErrInvalidToken
	}

	// Revoke first so a token can be exchanged only once
	if err := s.refreshTokenRepo.RevokeToken(refreshToken); err != nil {
		s.logger.Warn("⚠️ [AuthService] Refresh token already used", "error", err)
		return nil, ErrInvalidToken
	}

	tokens, err := s.generateTokenPair(&storedToken.User)
	if err != nil {
		s.logger.Error("❌ [AuthService] Failed to generate new tokens", "error", err)
		return nil, err
	}

	s.logger.Info("✅ [AuthService] Token refreshed successfully", "user_id", storedToken.UserID)
	return tokens, nil
}

func (s *authService) Logout(refreshToken string) error {
	s.logger.Info("👋 [AuthService] Logout attempt")

	if err := s.refreshTokenRepo.RevokeToken(refreshToken); err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			s.logger.Warn("⚠️ [AuthService] Token not found for logout")
			return repository.ErrTokenNotFound
		}
		return err
	}

	s.logger.Info("✅ [AuthService] User logged out successfully")
	return nil
}

func (s *authService) ValidateAccessToken(tokenString string) (uint, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())

	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	if claims.Type != accessTokenType || claims.UserID == 0 {
		return 0, ErrInvalidToken
	}

	return claims.UserID, nil
}

// EnsureAdmin creates the bootstrap administrator unless an account with that email exists
func (s *authService) EnsureAdmin(username, email, password string) (*models.User, error) {
	existing, err := s.userRepo.FindByEmail(normalizeEmail(email))
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	if existing != nil {
		if !existing.Role.IsAdmin() {
			s.logger.Warn("⚠️ [AuthService] Bootstrap admin email belongs to a gamer", "user_id", existing.ID)
			return nil, ErrEmailAlreadyExists
		}
		s.logger.Info("👑 [AuthService] Admin account already present", "user_id", existing.ID)
		return existing, nil
	}

	user, err := s.createAccount(username, email, password, models.RoleAdmin)
	if err != nil {
		return nil, err
	}

	s.logger.Info("👑 [AuthService] Admin account created", "user_id", user.ID)
	return user, nil
}

func (s *authService) createAccount(username, email, password string, role models.Role) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)

	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	if err := s.ensureAvailable(username, email, 0); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("❌ [AuthService] Failed to hash password", "error", err)
		return nil, err
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hashedPassword),
		Role:     role,
		IsActive: true,
	}

	if err := s.userRepo.Create(user); err != nil {
		s.logger.Error("❌ [AuthService] Failed to create user", "error", err)
		return nil, err
	}

	return user, nil
}

// ensureAvailable checks that username and email are free for the account selfID
func (s *authService) ensureAvailable(username, email string, selfID uint) error {
	return checkAvailability(s.userRepo, s.logger, username, email, selfID)
}

// generateTokenPair creates both access and refresh tokens
func (s *authService) generateTokenPair(user *models.User) (*TokenPair, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateAndStoreRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    s.cfg.AccessTokenExpiration,
	}, nil
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		UserID: user.ID,
		Role:   user.Role.String(),
		Type:   accessTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.cfg.AccessTokenExpiration) * time.Second)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) generateAndStoreRefreshToken(userID uint) (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	tokenString := base64.URLEncoding.EncodeToString(tokenBytes)

	refreshToken := &models.RefreshToken{
		UserID:    userID,
		Token:     tokenString,
		ExpiresAt: time.Now().Add(time.Duration(s.cfg.RefreshTokenExpiration) * time.Second),
		IsRevoked: false,
	}

	if err := s.refreshTokenRepo.Create(refreshToken); err != nil {
		return "", err
	}

	return tokenString, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateUsername(username string) error {
	if n := len([]rune(username)); n < config.UsernameMinLength || n > config.UsernameMaxLength {
		return access.NewValidationError("username", "must be between %d and %d characters",
			config.UsernameMinLength, config.UsernameMaxLength)
	}
	return nil
}

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return access.NewValidationError("email", "must be a valid email address")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < config.PasswordMinLength {
		return access.NewValidationError("password", "must be at least %d characters", config.PasswordMinLength)
	}
	return nil
}

// checkAvailability reports a conflict when username or email belongs to an account other than selfID.
// Soft-deleted accounts are not visible here; the unique indexes still catch them on write.
func checkAvailability(repo repository.UserRepository, logger *slog.Logger, username, email string, selfID uint) error {
	if email != "" {
		existing, err := repo.FindByEmail(email)
		if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
			logger.Error("❌ [UserCheck] Database error checking email", "error", err)
			return err
		}
		if existing != nil && existing.ID != selfID {
			logger.Warn("⚠️ [UserCheck] Email already registered", "email", email)
			return ErrEmailAlreadyExists
		}
	}

	if username != "" {
		existing, err := repo.FindByUsername(username)
		if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
			logger.Error("❌ [UserCheck] Database error checking username", "error", err)
			return err
		}
		if existing != nil && existing.ID != selfID {
			logger.Warn("⚠️ [UserCheck] Username already taken", "username", username)
			return ErrUsernameTaken
		}
	}

	return nil
}

// Service errors
var (
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)
