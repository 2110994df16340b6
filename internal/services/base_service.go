package services

import (
	"context"
	"strings"
	"time"

	"support-desk/internal/snapshot"
	apperrors "support-desk/pkg/errors"
)

// SnapshotSource - то, что сервисам нужно от snapshot.Holder.
type SnapshotSource interface {
	Refresh(ctx context.Context) (*snapshot.Snapshot, error)
	Mutate(ctx context.Context, fn func(ctx context.Context) error) error
}

// Clock возвращает "сейчас" в часовом поясе бизнеса.
type Clock func() time.Time

func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return func() time.Time { return time.Now().In(loc) }
}

// requireText добавляет ошибку, если значение пустое после обрезки пробелов.
func requireText(v *apperrors.ValidationError, field, value string) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, "обязательное поле")
	}
}

func validationOrNil(v *apperrors.ValidationError) error {
	if v.HasErrors() {
		return v
	}
	return nil
}
