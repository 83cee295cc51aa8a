package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mathquiz/internal/config"
	"mathquiz/internal/domain"
	"mathquiz/internal/dto"
	"mathquiz/internal/logger"
	"mathquiz/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService owns the user lifecycle and the session token.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*dto.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*dto.AuthResponse, error)
	RestoreAccount(ctx context.Context, email, password string) (*dto.AuthResponse, error)
	GetCurrentUser(ctx context.Context, userID string) (*dto.UserView, error)
	UpdateTheme(ctx context.Context, userID, theme string) error
	ListUsers(ctx context.Context) ([]dto.AdminUserView, error)
	DeleteAccount(ctx context.Context, userID, password string) error
	PermanentDeleteAccount(ctx context.Context, userID, password string) error
	CreateToken(user *domain.User) (string, error)
	ValidateToken(tokenString string) (*dto.AuthClaims, error)
}

type authServiceImpl struct {
	userRepo        repository.UserRepository
	sessionRepo     repository.SessionRepository
	statsRepo       repository.StatsRepository
	achievementRepo repository.AchievementRepository
	secretKey       []byte
	tokenTTL        time.Duration
	now             func() time.Time
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	statsRepo repository.StatsRepository,
	achievementRepo repository.AchievementRepository,
	jwtCfg config.JWTConfig,
) AuthService {
	return &authServiceImpl{
		userRepo:        userRepo,
		sessionRepo:     sessionRepo,
		statsRepo:       statsRepo,
		achievementRepo: achievementRepo,
		secretKey:       []byte(jwtCfg.SecretKey),
		tokenTTL:        jwtCfg.TokenTTL,
		now:             time.Now,
	}
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func verifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Register creates a new account, or resurrects a soft-deleted account with
// the same email so its stats and session history carry over.
func (s *authServiceImpl) Register(ctx context.Context, name, email, password string) (*dto.AuthResponse, error) {
	appLogger := logger.Get()
	email = domain.NormalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, domain.NewInvalidInputError("name, email and password are required")
	}

	existing, err := s.userRepo.GetActiveByEmail(ctx, email)
	if err != nil {
		return nil, domain.NewInternalError("failed to check existing user", err)
	}
	if existing != nil {
		return nil, domain.NewDuplicateEmailError(email)
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, domain.NewInternalError("failed to hash password", err)
	}

	deleted, err := s.userRepo.GetDeletedByEmail(ctx, email)
	if err != nil {
		return nil, domain.NewInternalError("failed to check deleted user", err)
	}
	if deleted != nil {
		matched, err := s.userRepo.Update(ctx, deleted.ID, func(u *domain.User) {
			u.Name = name
			u.PasswordHash = passwordHash
			u.IsDeleted = false
			u.DeletedAt = nil
		})
		if err != nil {
			return nil, domain.NewInternalError("failed to resurrect user", err)
		}
		if !matched {
			return nil, domain.NewUserNotFoundError(deleted.ID)
		}
		if err := s.ensureStats(ctx, deleted.ID); err != nil {
			return nil, err
		}

		user, err := s.userRepo.GetByID(ctx, deleted.ID)
		if err != nil || user == nil {
			return nil, domain.NewInternalError("failed to reload resurrected user", err)
		}
		appLogger.Info("Deleted account resurrected on registration",
			zap.String("userID", user.ID), zap.String("email", user.Email))
		return s.issueToken(user)
	}

	user := domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Theme:        domain.ThemeDark,
	}
	userID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, domain.NewInternalError("failed to create user", err)
	}
	if err := s.ensureStats(ctx, userID); err != nil {
		return nil, err
	}

	created, err := s.userRepo.GetByID(ctx, userID)
	if err != nil || created == nil {
		return nil, domain.NewInternalError("failed to reload created user", err)
	}
	appLogger.Info("User registered", zap.String("userID", userID), zap.String("email", email))
	return s.issueToken(created)
}

func (s *authServiceImpl) Login(ctx context.Context, email, password string) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetActiveByEmail(ctx, email)
	if err != nil {
		return nil, domain.NewInternalError("failed to look up user", err)
	}
	// One generic failure for unknown email and wrong password alike.
	if user == nil || !verifyPassword(password, user.PasswordHash) {
		return nil, domain.NewInvalidCredentialsError()
	}

	logger.Get().Info("User logged in", zap.String("userID", user.ID))
	return s.issueToken(user)
}

// RestoreAccount matches only soft-deleted users, clears their deletion
// state and logs them in.
func (s *authServiceImpl) RestoreAccount(ctx context.Context, email, password string) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetDeletedByEmail(ctx, email)
	if err != nil {
		return nil, domain.NewInternalError("failed to look up deleted user", err)
	}
	if user == nil {
		return nil, domain.NewNoDeletedAccountError(email)
	}
	if !verifyPassword(password, user.PasswordHash) {
		return nil, domain.NewInvalidPasswordError()
	}

	if _, err := s.userRepo.Update(ctx, user.ID, func(u *domain.User) {
		u.IsDeleted = false
		u.DeletedAt = nil
	}); err != nil {
		return nil, domain.NewInternalError("failed to restore user", err)
	}

	user.IsDeleted = false
	user.DeletedAt = nil
	logger.Get().Info("Account restored", zap.String("userID", user.ID))
	return s.issueToken(user)
}

func (s *authServiceImpl) GetCurrentUser(ctx context.Context, userID string) (*dto.UserView, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to get user", err)
	}
	if user == nil || user.IsDeleted {
		return nil, domain.NewUserNotFoundError(userID)
	}
	return &dto.UserView{ID: user.ID, Name: user.Name, Email: user.Email, Theme: user.Theme}, nil
}

func (s *authServiceImpl) UpdateTheme(ctx context.Context, userID, theme string) error {
	if !domain.IsValidTheme(theme) {
		return domain.NewError(domain.ErrInvalidTheme, fmt.Sprintf("Invalid theme: %s", theme), nil)
	}
	matched, err := s.userRepo.Update(ctx, userID, func(u *domain.User) { u.Theme = theme })
	if err != nil {
		return domain.NewInternalError("failed to update theme", err)
	}
	if !matched {
		return domain.NewUserNotFoundError(userID)
	}
	return nil
}

func (s *authServiceImpl) ListUsers(ctx context.Context) ([]dto.AdminUserView, error) {
	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return nil, domain.NewInternalError("failed to list users", err)
	}
	views := make([]dto.AdminUserView, len(users))
	for i, u := range users {
		views[i] = dto.AdminUserView{
			ID:        u.ID,
			Name:      u.Name,
			Email:     u.Email,
			Theme:     u.Theme,
			IsDeleted: u.IsDeleted,
			DeletedAt: u.DeletedAt,
			CreatedAt: u.CreatedAt,
		}
	}
	return views, nil
}

// DeleteAccount soft-deletes: the deletion flag is set but every owned
// record stays intact for a later restore or resurrection.
func (s *authServiceImpl) DeleteAccount(ctx context.Context, userID, password string) error {
	user, err := s.verifyUserPassword(ctx, userID, password)
	if err != nil {
		return err
	}

	deletedAt := s.now()
	if _, err := s.userRepo.Update(ctx, user.ID, func(u *domain.User) {
		u.IsDeleted = true
		u.DeletedAt = &deletedAt
	}); err != nil {
		return domain.NewInternalError("failed to delete account", err)
	}
	logger.Get().Info("Account soft-deleted", zap.String("userID", userID))
	return nil
}

// PermanentDeleteAccount cascade-deletes sessions, questions, stats and
// earned achievements before removing the user record itself.
func (s *authServiceImpl) PermanentDeleteAccount(ctx context.Context, userID, password string) error {
	user, err := s.verifyUserPassword(ctx, userID, password)
	if err != nil {
		return err
	}

	if err := s.sessionRepo.DeleteSessionsByUser(ctx, user.ID); err != nil {
		return domain.NewInternalError("failed to delete user sessions", err)
	}
	if err := s.statsRepo.DeleteByUser(ctx, user.ID); err != nil {
		return domain.NewInternalError("failed to delete user stats", err)
	}
	if err := s.achievementRepo.DeleteByUser(ctx, user.ID); err != nil {
		return domain.NewInternalError("failed to delete user achievements", err)
	}
	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		return domain.NewInternalError("failed to delete user", err)
	}
	logger.Get().Info("Account permanently deleted", zap.String("userID", userID))
	return nil
}

func (s *authServiceImpl) verifyUserPassword(ctx context.Context, userID, password string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to get user", err)
	}
	if user == nil {
		return nil, domain.NewUserNotFoundError(userID)
	}
	if !verifyPassword(password, user.PasswordHash) {
		return nil, domain.NewInvalidPasswordError()
	}
	return user, nil
}

func (s *authServiceImpl) ensureStats(ctx context.Context, userID string) error {
	stats, err := s.statsRepo.GetByUser(ctx, userID)
	if err != nil {
		return domain.NewInternalError("failed to check user stats", err)
	}
	if stats != nil {
		return nil
	}
	if _, err := s.statsRepo.Create(ctx, domain.UserStats{UserID: userID}); err != nil {
		return domain.NewInternalError("failed to initialize user stats", err)
	}
	return nil
}

func (s *authServiceImpl) issueToken(user *domain.User) (*dto.AuthResponse, error) {
	token, err := s.CreateToken(user)
	if err != nil {
		return nil, domain.NewInternalError("failed to create token", err)
	}
	return &dto.AuthResponse{
		Token: token,
		User:  dto.UserView{ID: user.ID, Name: user.Name, Email: user.Email, Theme: user.Theme},
	}, nil
}

// CreateToken issues a signed token carrying the user id and email with the
// configured validity window.
func (s *authServiceImpl) CreateToken(user *domain.User) (string, error) {
	now := s.now()
	claims := dto.AuthClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   user.ID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

// ValidateToken is a pure function of the token value and the clock: it
// performs no store lookup. Callers re-fetch the user where the record
// matters and must reject deleted users themselves.
func (s *authServiceImpl) ValidateToken(tokenString string) (*dto.AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &dto.AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			logger.Get().Warn("Token expired", zap.Error(err))
		}
		return nil, domain.NewError(domain.ErrNotAuthenticated, "Not authenticated", err)
	}

	claims, ok := token.Claims.(*dto.AuthClaims)
	if !ok || !token.Valid {
		return nil, domain.NewNotAuthenticatedError()
	}
	return claims, nil
}
