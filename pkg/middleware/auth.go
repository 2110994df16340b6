package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"support-desk/pkg/contextkeys"
	apperrors "support-desk/pkg/errors"
	"support-desk/pkg/service"
	"support-desk/pkg/utils"
)

type AuthMiddleware struct {
	jwtService service.JWTService
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtSvc, logger: logger}
}

// Auth пропускает дальше только запрос с действующим access-токеном.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return utils.ErrorResponse(c, apperrors.ErrEmptyAuthHeader, m.logger)
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			return utils.ErrorResponse(c, apperrors.ErrInvalidAuthHeader, m.logger)
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			m.logger.Warn("AuthMiddleware: ошибка валидации токена", zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}
		if claims.IsRefreshToken {
			return utils.ErrorResponse(c, apperrors.ErrTokenIsNotAccess, m.logger)
		}

		ctx := context.WithValue(c.Request().Context(), contextkeys.OperatorEmailKey, claims.Email)
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

// OperatorFromContext - email оператора или пустая строка.
func OperatorFromContext(ctx context.Context) string {
	email, _ := ctx.Value(contextkeys.OperatorEmailKey).(string)
	return email
}
