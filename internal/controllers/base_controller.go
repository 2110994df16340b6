package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "support-desk/pkg/errors"
)

// bindAndValidate разбирает тело запроса и прогоняет его через валидатор echo.
func bindAndValidate(c echo.Context, payload interface{}) error {
	if err := c.Bind(payload); err != nil {
		return apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных", err)
	}
	if err := c.Validate(payload); err != nil {
		return err
	}
	return nil
}
