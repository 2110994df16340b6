package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"support-desk/internal/dto"
	"support-desk/internal/repositories"
	"support-desk/pkg/config"
	apperrors "support-desk/pkg/errors"
	"support-desk/pkg/service"
)

const (
	maxLoginAttempts    = 5
	loginLockoutTTL     = 15 * time.Minute
	loginAttemptsPrefix = "support-desk:login_attempts:"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, payload dto.LoginDTO) (*dto.AuthResponseDTO, error)
	Refresh(ctx context.Context, payload dto.RefreshTokenDTO) (*dto.AuthResponseDTO, error)
}

// AuthService обслуживает единственного оператора из конфигурации.
type AuthService struct {
	operator  config.OperatorConfig
	jwt       service.JWTService
	cacheRepo repositories.CacheRepositoryInterface
	logger    *zap.Logger
}

func NewAuthService(
	operator config.OperatorConfig,
	jwt service.JWTService,
	cacheRepo repositories.CacheRepositoryInterface,
	logger *zap.Logger,
) AuthServiceInterface {
	return &AuthService{operator: operator, jwt: jwt, cacheRepo: cacheRepo, logger: logger}
}

func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.AuthResponseDTO, error) {
	email := strings.ToLower(strings.TrimSpace(payload.Email))
	logger := s.logger.With(zap.String("email", email))
	attemptsKey := loginAttemptsPrefix + email

	if s.attempts(ctx, attemptsKey) >= maxLoginAttempts {
		logger.Warn("Вход заблокирован: слишком много попыток")
		return nil, apperrors.NewHttpError(
			http.StatusTooManyRequests,
			fmt.Sprintf("Слишком много попыток. Попробуйте через %.0f минут.", loginLockoutTTL.Minutes()),
			nil,
		)
	}

	if !s.checkCredentials(email, payload.Password) {
		logger.Warn("Неудачная попытка входа")
		s.registerFailure(ctx, attemptsKey)
		return nil, apperrors.ErrInvalidCredentials
	}

	if s.cacheRepo != nil {
		if err := s.cacheRepo.Del(ctx, attemptsKey); err != nil {
			logger.Debug("Не удалось сбросить счётчик попыток", zap.Error(err))
		}
	}
	logger.Info("Оператор вошёл в систему")
	return s.issue(s.operator.Email)
}

func (s *AuthService) Refresh(ctx context.Context, payload dto.RefreshTokenDTO) (*dto.AuthResponseDTO, error) {
	claims, err := s.jwt.ValidateToken(payload.RefreshToken)
	if err != nil {
		return nil, err
	}
	if !claims.IsRefreshToken {
		return nil, apperrors.ErrTokenIsNotRefresh
	}
	if !strings.EqualFold(claims.Email, s.operator.Email) {
		return nil, apperrors.ErrInvalidToken
	}
	return s.issue(s.operator.Email)
}

func (s *AuthService) checkCredentials(email, password string) bool {
	if s.operator.PasswordHash == "" || !strings.EqualFold(email, s.operator.Email) {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(s.operator.PasswordHash), []byte(password)) == nil
}

func (s *AuthService) issue(email string) (*dto.AuthResponseDTO, error) {
	access, refresh, err := s.jwt.GenerateTokens(email)
	if err != nil {
		return nil, fmt.Errorf("не удалось выпустить токены: %w", err)
	}
	return &dto.AuthResponseDTO{AccessToken: access, RefreshToken: refresh, Email: email}, nil
}

// attempts - число неудачных попыток; без кэша блокировки нет.
func (s *AuthService) attempts(ctx context.Context, key string) int {
	if s.cacheRepo == nil {
		return 0
	}
	raw, err := s.cacheRepo.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Debug("Кэш попыток входа недоступен", zap.Error(err))
		}
		return 0
	}
	n, _ := strconv.Atoi(raw)
	return n
}

func (s *AuthService) registerFailure(ctx context.Context, key string) {
	if s.cacheRepo == nil {
		return
	}
	n, err := s.cacheRepo.Incr(ctx, key)
	if err != nil {
		s.logger.Debug("Не удалось сохранить счётчик попыток", zap.Error(err))
		return
	}
	// Окно блокировки отсчитывается от первой неудачи.
	if n == 1 {
		if _, err := s.cacheRepo.Expire(ctx, key, loginLockoutTTL); err != nil {
			s.logger.Debug("Не удалось задать срок счётчика попыток", zap.Error(err))
		}
	}
}
