package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"
	"reviewhub/internal/auth"
	"reviewhub/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUsernameTaken    = errors.New("username already in use")
	ErrEmailTaken       = errors.New("email already in use")
	ErrReservedUsername = errors.New(`username "me" is not allowed`)
	ErrInvalidUsername  = errors.New("username may only contain letters, digits and @/./+/-/_")
	ErrInvalidCode      = errors.New("invalid confirmation code")
	ErrInvalidToken     = errors.New("invalid token")
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.@+-]+$`)

// ValidateUsername applies the shared username rules. The literal "me"
// is reserved in any case because /users/me is a route.
func ValidateUsername(username string) error {
	if strings.EqualFold(username, "me") {
		return ErrReservedUsername
	}
	if !usernamePattern.MatchString(username) {
		return ErrInvalidUsername
	}
	return nil
}

// Claims is the decoded identity carried by an access token.
type Claims struct {
	UserID   string
	Username string
	Role     models.Role
}

type AuthService interface {
	Signup(ctx context.Context, username, email string) (*models.User, error)
	ObtainToken(ctx context.Context, username, code string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	userRepo       repository.UserRepository
	codeStore      CodeStore
	notifier       Notifier
	logger         *slog.Logger
	jwtSecret      string
	accessTokenTTL time.Duration
	codeTTL        time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	codeStore CodeStore,
	notifier Notifier,
	logger *slog.Logger,
	cfg *config.Config,
) AuthService {
	return &authService{
		userRepo:       userRepo,
		codeStore:      codeStore,
		notifier:       notifier,
		logger:         logger,
		jwtSecret:      cfg.JWTSecret,
		accessTokenTTL: cfg.AccessTokenTTL,
		codeTTL:        cfg.ConfirmationCodeTTL,
	}
}

// Signup registers a new user, or re-issues the confirmation code when
// the exact (username, email) pair already exists. Re-submission is a
// success, not an error.
func (s *authService) Signup(ctx context.Context, username, email string) (*models.User, error) {
	user, err := s.userRepo.FindByUsernameAndEmail(username, email)
	if err == nil {
		if err := s.issueConfirmationCode(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := ValidateUsername(username); err != nil {
		return nil, err
	}

	// Username or email held by a different identity is a conflict.
	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = &models.User{
		Username: username,
		Email:    email,
		Role:     models.RoleUser,
	}
	if err := s.userRepo.Create(user); err != nil {
		// lost a race with a concurrent signup
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	if err := s.issueConfirmationCode(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "username", user.Username)
	return user, nil
}

func (s *authService) issueConfirmationCode(ctx context.Context, user *models.User) error {
	code, err := auth.GenerateCode()
	if err != nil {
		return fmt.Errorf("generate confirmation code: %w", err)
	}
	hash, err := auth.HashCode(code)
	if err != nil {
		return fmt.Errorf("hash confirmation code: %w", err)
	}
	if err := s.codeStore.Save(ctx, user.ID, hash, s.codeTTL); err != nil {
		return fmt.Errorf("store confirmation code: %w", err)
	}
	if err := s.notifier.SendConfirmationCode(ctx, user.Email, code); err != nil {
		return fmt.Errorf("send confirmation code: %w", err)
	}
	return nil
}

// ObtainToken exchanges a confirmation code for a signed access token.
// Codes are single use: the stored hash is dropped after a successful
// verification.
func (s *authService) ObtainToken(ctx context.Context, username, code string) (string, error) {
	user, err := s.userRepo.FindByUsername(username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", err
	}

	hash, err := s.codeStore.Get(ctx, user.ID)
	if errors.Is(err, ErrCodeNotFound) {
		return "", ErrInvalidCode
	}
	if err != nil {
		return "", err
	}

	if err := auth.VerifyCode(hash, code); err != nil {
		return "", ErrInvalidCode
	}

	if err := s.codeStore.Delete(ctx, user.ID); err != nil {
		s.logger.Warn("failed to drop used confirmation code", "username", user.Username, "error", err)
	}

	return s.generateAccessToken(user)
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	role := user.Role
	if user.Superuser {
		// superusers act as admins everywhere a role is checked
		role = models.RoleAdmin
	}

	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     string(role),
		"exp":      time.Now().Add(s.accessTokenTTL).Unix(),
		"iat":      time.Now().Unix(),
		"type":     "access",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	userID, _ := mapClaims["user_id"].(string)
	username, _ := mapClaims["username"].(string)
	role, _ := mapClaims["role"].(string)
	if userID == "" || !models.Role(role).Valid() {
		return nil, ErrInvalidToken
	}

	return &Claims{
		UserID:   userID,
		Username: username,
		Role:     models.Role(role),
	}, nil
}
