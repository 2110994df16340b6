package utils

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	apperrors "support-desk/pkg/errors"
	"support-desk/pkg/types"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type HTTPResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
}

const (
	DefaultLimit = 200
	MaxLimit     = 500
)

// CustomValidator - обертка для использования в Echo
type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator(v *validator.Validate) *CustomValidator {
	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func ParseFilterFromQuery(values url.Values) types.Filter {
	filterReq := types.Filter{
		Filter: make(map[string]string),
		Limit:  DefaultLimit,
		Page:   1,
	}

	if limitStr := values.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			if l > MaxLimit {
				filterReq.Limit = MaxLimit
			} else {
				filterReq.Limit = l
			}
		}
	}

	if pageStr := values.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			filterReq.Page = p
		}
	}

	if offsetStr := values.Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			filterReq.Offset = o
		}
	} else {
		filterReq.Offset = (filterReq.Page - 1) * filterReq.Limit
	}

	filterReq.WithPagination = values.Get("withPagination") == "true"

	for key, vals := range values {
		if len(vals) == 0 || vals[0] == "" {
			continue
		}

		if key == "search" {
			filterReq.Search = vals[0]
			continue
		}

		if strings.HasPrefix(key, "filter[") && strings.HasSuffix(key, "]") {
			field := key[7 : len(key)-1]
			filterReq.Filter[field] = vals[0]
		}
	}

	return filterReq
}

// Paginate режет уже отфильтрованный список в памяти.
func Paginate[T any](list []T, filter types.Filter) ([]T, types.Pagination) {
	total := len(list)
	meta := types.Pagination{TotalCount: uint64(total), Page: filter.Page, Limit: filter.Limit}
	if filter.Limit <= 0 {
		meta.TotalPages = 1
		return list, meta
	}
	meta.TotalPages = (total + filter.Limit - 1) / filter.Limit

	start := filter.Offset
	if start > total {
		start = total
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}
	return list[start:end], meta
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int) error {
	return ctx.JSON(code, &HTTPResponse{Status: true, Body: body, Message: message})
}

// SuccessListResponse отдаёт список целиком или страницу + pagination, если withPagination=true.
func SuccessListResponse[T any](ctx echo.Context, list []T, filter types.Filter, message string) error {
	if list == nil {
		list = make([]T, 0)
	}
	if !filter.WithPagination {
		return SuccessResponse(ctx, list, message, http.StatusOK)
	}
	page, meta := Paginate(list, filter)
	return SuccessResponse(ctx, map[string]interface{}{"list": page, "pagination": meta}, message, http.StatusOK)
}

func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		if httpErr.Err != nil {
			logger.Warn("HTTP Error",
				zap.Int("code", httpErr.Code),
				zap.String("message", httpErr.Message),
				zap.Error(httpErr.Err),
			)
		}
		// Ошибки валидатора внутри HttpError раскрываем по полям
		var validationErrors validator.ValidationErrors
		if httpErr.Details == nil && errors.As(httpErr.Err, &validationErrors) {
			return c.JSON(httpErr.Code, errorBody(httpErr.Message, validationDetails(validationErrors)))
		}
		return c.JSON(httpErr.Code, errorBody(httpErr.Message, httpErr.Details))
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return c.JSON(http.StatusBadRequest, errorBody("Ошибка валидации", validationDetails(validationErrors)))
	}

	var domainValidation *apperrors.ValidationError
	if errors.As(err, &domainValidation) {
		return c.JSON(http.StatusBadRequest, errorBody("Ошибка валидации", domainValidation.Fields))
	}

	if errors.Is(err, apperrors.ErrNotFound) {
		return c.JSON(http.StatusNotFound, errorBody(err.Error(), nil))
	}

	var storeErr *apperrors.StoreError
	if errors.As(err, &storeErr) {
		if storeErr.Conflict {
			return c.JSON(http.StatusConflict, errorBody("Запись с такими данными уже существует", nil))
		}
		logger.Error("Store Error", zap.String("op", storeErr.Op), zap.Error(storeErr.Err))
		return c.JSON(http.StatusServiceUnavailable, errorBody("Хранилище временно недоступно, изменения не сохранены", nil))
	}

	switch {
	case errors.Is(err, apperrors.ErrEmptyAuthHeader),
		errors.Is(err, apperrors.ErrInvalidAuthHeader),
		errors.Is(err, apperrors.ErrInvalidToken),
		errors.Is(err, apperrors.ErrTokenExpired),
		errors.Is(err, apperrors.ErrTokenIsNotAccess),
		errors.Is(err, apperrors.ErrTokenIsNotRefresh),
		errors.Is(err, apperrors.ErrInvalidSigningMethod),
		errors.Is(err, apperrors.ErrInvalidCredentials),
		errors.Is(err, apperrors.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, errorBody(err.Error(), nil))
	case errors.Is(err, apperrors.ErrBadRequest):
		return c.JSON(http.StatusBadRequest, errorBody(err.Error(), nil))
	}

	logger.Error("Unexpected Error", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, errorBody("Внутренняя ошибка сервера", nil))
}

func errorBody(message string, details interface{}) map[string]interface{} {
	response := map[string]interface{}{
		"status":  false,
		"message": message,
	}
	if details != nil {
		response["body"] = details
	}
	return response
}

func validationDetails(validationErrors validator.ValidationErrors) map[string]string {
	fields := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		fields[e.Field()] = e.Tag()
	}
	return fields
}
