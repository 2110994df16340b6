package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// JWT и токены
	ErrInvalidSigningMethod = fmt.Errorf("неверный метод подписи токена")
	ErrInvalidToken         = fmt.Errorf("недопустимый токен")
	ErrTokenExpired         = fmt.Errorf("срок действия токена истёк")
	ErrTokenIsNotRefresh    = fmt.Errorf("токен не является refresh-токеном")
	ErrTokenIsNotAccess     = fmt.Errorf("токен не является access-токеном")

	// Авторизация
	ErrEmptyAuthHeader    = fmt.Errorf("заголовок авторизации отсутствует")
	ErrInvalidAuthHeader  = fmt.Errorf("неверный формат заголовка авторизации")
	ErrInvalidCredentials = fmt.Errorf("неверные учётные данные")
	ErrUnauthorized       = fmt.Errorf("неавторизован")

	// Общие
	ErrNotFound       = fmt.Errorf("запись не найдена")
	ErrBadRequest     = fmt.Errorf("неверный запрос")
	ErrInternalServer = fmt.Errorf("внутренняя ошибка сервера")
	ErrStore          = fmt.Errorf("хранилище недоступно")
)

// HttpError несёт код ответа и сообщение для клиента; Err - техническая причина для лога.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Details interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, details ...interface{}) *HttpError {
	httpErr := &HttpError{Code: code, Message: message, Err: err}
	if len(details) > 0 {
		httpErr.Details = details[0]
	}
	return httpErr
}

// ValidationError - ошибки входных данных, найденные до обращения к хранилищу.
// Fields: поле -> причина.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: reason}}
}

func (e *ValidationError) Add(field, reason string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = reason
}

func (e *ValidationError) HasErrors() bool { return len(e.Fields) > 0 }

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "ошибка валидации: " + strings.Join(parts, "; ")
}

// NotFoundError сопоставляется с ErrNotFound через errors.Is.
type NotFoundError struct {
	Entity string
	ID     string
}

func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q не найден(а)", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// StoreError - сбой хранилища. Мутация не применена, повтор не выполняется.
type StoreError struct {
	Op       string
	Err      error
	Conflict bool
}

const pgUniqueViolation = "23505"

func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	var already *StoreError
	if errors.As(err, &already) || errors.Is(err, ErrNotFound) {
		return err
	}
	storeErr := &StoreError{Op: op, Err: err}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		storeErr.Conflict = true
	}
	return storeErr
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool { return target == ErrStore }
