package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/atelier-montres/montres_shop/internal/models"
	"github.com/atelier-montres/montres_shop/internal/mykafka"
	"github.com/atelier-montres/montres_shop/internal/service/search"
)

type WatchHandler struct {
	DB        *gorm.DB
	Producer  *mykafka.Producer
	JWTSecret []byte
	ES        *elasticsearch.Client
	Index     string
}

// WatchRow is one joined catalog row. Every attribute column is nullable:
// a watch keeps rendering with nulls when a reference is absent, and the
// summed total stays SQL-null whenever any one operand is null.
type WatchRow struct {
	MontreID          uint     `gorm:"column:montre_id"          json:"MontreID"`
	Name              string   `gorm:"column:name"               json:"Name"`
	Username          *string  `gorm:"column:username"           json:"Username"`
	CaseName          *string  `gorm:"column:case_name"          json:"CaseName"`
	CaseTexture       *string  `gorm:"column:case_texture"       json:"CaseTexture"`
	GemName           *string  `gorm:"column:gem_name"           json:"GemName"`
	StrapTexture      *string  `gorm:"column:strap_texture"      json:"StrapTexture"`
	CasePrice         *float64 `gorm:"column:case_price"         json:"CasePrice"`
	CaseTexturePrice  *float64 `gorm:"column:case_texture_price" json:"CaseTexturePrice"`
	GemPrice          *float64 `gorm:"column:gem_price"          json:"GemPrice"`
	StrapTexturePrice *float64 `gorm:"column:strap_texture_price" json:"StrapTexturePrice"`
	TotalPrice        *float64 `gorm:"column:total_price"        json:"TotalPrice"`
}

// OwnedWatchRow mirrors WatchRow for the per-owner listing, which never
// echoes the owner back.
type OwnedWatchRow struct {
	MontreID          uint     `gorm:"column:montre_id"          json:"MontreID"`
	Name              string   `gorm:"column:name"               json:"Name"`
	CaseName          *string  `gorm:"column:case_name"          json:"CaseName"`
	CaseTexture       *string  `gorm:"column:case_texture"       json:"CaseTexture"`
	GemName           *string  `gorm:"column:gem_name"           json:"GemName"`
	StrapTexture      *string  `gorm:"column:strap_texture"      json:"StrapTexture"`
	CasePrice         *float64 `gorm:"column:case_price"         json:"CasePrice"`
	CaseTexturePrice  *float64 `gorm:"column:case_texture_price" json:"CaseTexturePrice"`
	GemPrice          *float64 `gorm:"column:gem_price"          json:"GemPrice"`
	StrapTexturePrice *float64 `gorm:"column:strap_texture_price" json:"StrapTexturePrice"`
	TotalPrice        *float64 `gorm:"column:total_price"        json:"TotalPrice"`
}

// WatchDetailRow adds the attribute identities for the single-watch view.
type WatchDetailRow struct {
	MontreID          uint     `gorm:"column:montre_id"          json:"MontreID"`
	Name              string   `gorm:"column:name"               json:"Name"`
	CaseID            *uint    `gorm:"column:case_id"            json:"CaseID"`
	CaseName          *string  `gorm:"column:case_name"          json:"CaseName"`
	CaseTextureID     *uint    `gorm:"column:case_texture_id"    json:"CaseTextureID"`
	CaseTexture       *string  `gorm:"column:case_texture"       json:"CaseTexture"`
	GemID             *uint    `gorm:"column:gem_id"             json:"GemID"`
	GemName           *string  `gorm:"column:gem_name"           json:"GemName"`
	StrapTextureID    *uint    `gorm:"column:strap_texture_id"   json:"StrapTextureID"`
	StrapTexture      *string  `gorm:"column:strap_texture"      json:"StrapTexture"`
	CasePrice         *float64 `gorm:"column:case_price"         json:"CasePrice"`
	CaseTexturePrice  *float64 `gorm:"column:case_texture_price" json:"CaseTexturePrice"`
	GemPrice          *float64 `gorm:"column:gem_price"          json:"GemPrice"`
	StrapTexturePrice *float64 `gorm:"column:strap_texture_price" json:"StrapTexturePrice"`
	TotalPrice        *float64 `gorm:"column:total_price"        json:"TotalPrice"`
}

const watchListQuery = `
SELECT
  w.id    AS montre_id,
  w.name  AS name,
  u.username,
  c.name  AS case_name,
  ct.name AS case_texture,
  g.name  AS gem_name,
  st.name AS strap_texture,
  c.price  AS case_price,
  ct.price AS case_texture_price,
  g.price  AS gem_price,
  st.price AS strap_texture_price,
  (c.price + ct.price + g.price + st.price) AS total_price
FROM watches AS w
LEFT JOIN users AS u ON w.user_id = u.id
LEFT JOIN cases AS c ON w.case_id = c.id
LEFT JOIN case_textures AS ct ON w.case_texture_id = ct.id
LEFT JOIN gems AS g ON w.gem_id = g.id
LEFT JOIN strap_textures AS st ON w.strap_texture_id = st.id`

const watchByOwnerQuery = `
SELECT
  w.id    AS montre_id,
  w.name  AS name,
  c.name  AS case_name,
  ct.name AS case_texture,
  g.name  AS gem_name,
  st.name AS strap_texture,
  c.price  AS case_price,
  ct.price AS case_texture_price,
  g.price  AS gem_price,
  st.price AS strap_texture_price,
  (c.price + ct.price + g.price + st.price) AS total_price
FROM watches AS w
LEFT JOIN cases AS c ON w.case_id = c.id
LEFT JOIN case_textures AS ct ON w.case_texture_id = ct.id
LEFT JOIN gems AS g ON w.gem_id = g.id
LEFT JOIN strap_textures AS st ON w.strap_texture_id = st.id
WHERE w.user_id = ?`

const watchDetailQuery = `
SELECT
  w.id    AS montre_id,
  w.name  AS name,
  c.id    AS case_id,
  c.name  AS case_name,
  ct.id   AS case_texture_id,
  ct.name AS case_texture,
  g.id    AS gem_id,
  g.name  AS gem_name,
  st.id   AS strap_texture_id,
  st.name AS strap_texture,
  c.price  AS case_price,
  ct.price AS case_texture_price,
  g.price  AS gem_price,
  st.price AS strap_texture_price,
  (c.price + ct.price + g.price + st.price) AS total_price
FROM watches AS w
LEFT JOIN cases AS c ON w.case_id = c.id
LEFT JOIN case_textures AS ct ON w.case_texture_id = ct.id
LEFT JOIN gems AS g ON w.gem_id = g.id
LEFT JOIN strap_textures AS st ON w.strap_texture_id = st.id
WHERE w.id = ?`

type watchRequest struct {
	Name           string `json:"Name"`
	CaseID         *uint  `json:"CaseID"`
	CaseTextureID  *uint  `json:"CaseTextureID"`
	GemID          *uint  `json:"GemID"`
	StrapTextureID *uint  `json:"StrapTextureID"`
}

func (h *WatchHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "watch_events", fmt.Sprint(event["MontreID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *WatchHandler) indexDoc(c echo.Context, doc search.Doc) {
	if h.ES == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := search.Index(ctx, h.ES, h.Index, doc); err != nil {
		c.Logger().Errorf("ES index error: %v", err)
	}
}

func (h *WatchHandler) deleteDoc(c echo.Context, id uint) {
	if h.ES == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := search.Delete(ctx, h.ES, h.Index, id); err != nil {
		c.Logger().Errorf("ES delete error: %v", err)
	}
}

// List returns every configured watch joined with its owner and priced
// attributes.
func (h *WatchHandler) List(c echo.Context) error {
	var rows []WatchRow
	if err := h.DB.Raw(watchListQuery).Scan(&rows).Error; err != nil {
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}
	if rows == nil {
		rows = []WatchRow{}
	}
	return c.JSON(http.StatusOK, rows)
}

// ListByUser returns the caller's watches. The owner comes from the
// verified token, never from the request.
func (h *WatchHandler) ListByUser(c echo.Context) error {
	userID, err := GetID(c, h.JWTSecret)
	if err != nil {
		return errorJSON(c, http.StatusUnauthorized, err.Error())
	}

	var rows []OwnedWatchRow
	if err := h.DB.Raw(watchByOwnerQuery, userID).Scan(&rows).Error; err != nil {
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}
	if rows == nil {
		rows = []OwnedWatchRow{}
	}
	return c.JSON(http.StatusOK, rows)
}

// GetOne returns zero or one joined rows; an unknown identity is an empty
// array, not an error.
func (h *WatchHandler) GetOne(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid id")
	}

	var rows []WatchDetailRow
	if err := h.DB.Raw(watchDetailQuery, id).Scan(&rows).Error; err != nil {
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}
	if rows == nil {
		rows = []WatchDetailRow{}
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *WatchHandler) Create(c echo.Context) error {
	userID, err := GetID(c, h.JWTSecret)
	if err != nil {
		return errorJSON(c, http.StatusUnauthorized, err.Error())
	}

	var req watchRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}

	watch := models.Watch{
		UserID:         &userID,
		Name:           req.Name,
		CaseID:         req.CaseID,
		CaseTextureID:  req.CaseTextureID,
		GemID:          req.GemID,
		StrapTextureID: req.StrapTextureID,
	}
	if err := h.DB.Create(&watch).Error; err != nil {
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]any{
		"type":     "watch_created",
		"MontreID": watch.ID,
		"UserID":   userID,
		"name":     watch.Name,
	})
	h.indexDoc(c, search.Doc{MontreID: watch.ID, Name: watch.Name})

	return c.JSON(http.StatusOK, echo.Map{
		"message":  "watch added successfully",
		"MontreID": watch.ID,
	})
}

// Replace overwrites all five fields of a watch. The route carries no
// credential and checks no ownership.
func (h *WatchHandler) Replace(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid id")
	}

	var req watchRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}

	if err := h.DB.Exec(
		`UPDATE watches
		 SET name = ?, case_id = ?, case_texture_id = ?, gem_id = ?, strap_texture_id = ?
		 WHERE id = ?`,
		req.Name, req.CaseID, req.CaseTextureID, req.GemID, req.StrapTextureID, id,
	).Error; err != nil {
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]any{
		"type":     "watch_updated",
		"MontreID": id,
		"name":     req.Name,
	})
	h.indexDoc(c, search.Doc{MontreID: uint(id), Name: req.Name})

	return c.JSON(http.StatusOK, echo.Map{"message": "watch updated successfully"})
}

type watchNameRequest struct {
	Name             string `json:"Name"`
	CaseName         string `json:"CaseName"`
	CaseTextureName  string `json:"CaseTextureName"`
	GemName          string `json:"GemName"`
	StrapTextureName string `json:"StrapTextureName"`
}

// ReplaceByName resolves each attribute by name through a subquery. An
// unmatched name resolves to NULL and silently clears that reference. A
// missing watch is a soft 200, not an error.
func (h *WatchHandler) ReplaceByName(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid id")
	}

	var req watchNameRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}

	var count int64
	if err := h.DB.Model(&models.Watch{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}
	if count == 0 {
		return c.JSON(http.StatusOK, echo.Map{"message": "this watch does not exist"})
	}

	if err := h.DB.Exec(
		`UPDATE watches
		 SET name = ?,
		     case_id = (SELECT id FROM cases WHERE name = ?),
		     case_texture_id = (SELECT id FROM case_textures WHERE name = ?),
		     gem_id = (SELECT id FROM gems WHERE name = ?),
		     strap_texture_id = (SELECT id FROM strap_textures WHERE name = ?)
		 WHERE id = ?`,
		req.Name, req.CaseName, req.CaseTextureName, req.GemName, req.StrapTextureName, id,
	).Error; err != nil {
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]any{
		"type":     "watch_updated",
		"MontreID": id,
		"name":     req.Name,
	})
	h.indexDoc(c, search.Doc{MontreID: uint(id), Name: req.Name})

	return c.JSON(http.StatusOK, echo.Map{"message": "watch updated successfully"})
}

// Delete removes a watch by identity. Deleting an unknown identity still
// answers success: zero rows affected is not an error.
func (h *WatchHandler) Delete(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid id")
	}

	if err := h.DB.Delete(&models.Watch{}, id).Error; err != nil {
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]any{
		"type":     "watch_deleted",
		"MontreID": id,
	})
	h.deleteDoc(c, uint(id))

	return c.JSON(http.StatusOK, echo.Map{"message": "watch deleted successfully"})
}
