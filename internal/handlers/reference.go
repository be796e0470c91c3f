package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/atelier-montres/montres_shop/internal/models"
)

// ReferenceHandler serves the static attribute tables. Each route dumps
// one table whole; the rows are seeded once and never mutated by the API.
type ReferenceHandler struct {
	DB *gorm.DB
}

func (h *ReferenceHandler) Cases(c echo.Context) error {
	var rows []models.Case
	if err := h.DB.Find(&rows).Error; err != nil {
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *ReferenceHandler) CaseTextures(c echo.Context) error {
	var rows []models.CaseTexture
	if err := h.DB.Find(&rows).Error; err != nil {
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *ReferenceHandler) Gems(c echo.Context) error {
	var rows []models.Gem
	if err := h.DB.Find(&rows).Error; err != nil {
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *ReferenceHandler) StrapTextures(c echo.Context) error {
	var rows []models.StrapTexture
	if err := h.DB.Find(&rows).Error; err != nil {
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *ReferenceHandler) Straps(c echo.Context) error {
	var rows []models.Strap
	if err := h.DB.Find(&rows).Error; err != nil {
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, rows)
}
