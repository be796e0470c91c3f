package cart

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/atelier-montres/montres_shop/internal/models"
	"github.com/atelier-montres/montres_shop/internal/mykafka"
)

type CartHandler struct {
	DB        *gorm.DB
	Producer  *mykafka.Producer
	JWTSecret []byte
}

// CartRow is one priced cart line. The price is recomputed at read time
// from the case and case texture only; gem and strap never enter cart
// pricing. The inner joins drop lines whose watch lacks either attribute.
type CartRow struct {
	PanierID    uint     `gorm:"column:panier_id"    json:"PanierID"`
	Name        string   `gorm:"column:name"         json:"Name"`
	CaseName    string   `gorm:"column:case_name"    json:"CaseName"`
	CaseTexture string   `gorm:"column:case_texture" json:"CaseTexture"`
	Quantity    uint     `gorm:"column:quantity"     json:"Quantity"`
	TotalPrice  *float64 `gorm:"column:total_price"  json:"TotalPrice"`
}

const cartListQuery = `
SELECT
  p.id    AS panier_id,
  w.name  AS name,
  c.name  AS case_name,
  ct.name AS case_texture,
  p.quantity,
  (c.price + ct.price) AS total_price
FROM cart_items AS p
INNER JOIN watches AS w ON p.watch_id = w.id
INNER JOIN cases AS c ON w.case_id = c.id
INNER JOIN case_textures AS ct ON w.case_texture_id = ct.id
WHERE p.user_id = ?`

func (h *CartHandler) AddToCart(c echo.Context) error {
	userID, err := GetID(c, h.JWTSecret)
	if err != nil {
		return errorJSON(c, http.StatusUnauthorized, err.Error())
	}

	var req struct {
		WatchID  uint `json:"WatchID"`
		Quantity uint `json:"Quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}

	if req.Quantity < 1 {
		req.Quantity = 1
	}

	// Every add inserts a fresh line; duplicates are never merged and the
	// watch reference is not validated.
	item := models.CartItem{
		UserID:   userID,
		WatchID:  req.WatchID,
		Quantity: req.Quantity,
	}
	if err := h.DB.Create(&item).Error; err != nil {
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]any{
		"type":     "cart_item_added",
		"UserID":   userID,
		"PanierID": item.ID,
		"WatchID":  item.WatchID,
		"quantity": item.Quantity,
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "watch added to cart successfully"})
}

func (h *CartHandler) GetCart(c echo.Context) error {
	userID, err := GetID(c, h.JWTSecret)
	if err != nil {
		return errorJSON(c, http.StatusUnauthorized, err.Error())
	}

	var rows []CartRow
	if err := h.DB.Raw(cartListQuery, userID).Scan(&rows).Error; err != nil {
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}
	if rows == nil {
		rows = []CartRow{}
	}
	return c.JSON(http.StatusOK, rows)
}

// DeleteFromCart deletes a line by identity. The token is verified but
// line ownership is not checked against it, and an unknown identity still
// answers success.
func (h *CartHandler) DeleteFromCart(c echo.Context) error {
	userID, err := GetID(c, h.JWTSecret)
	if err != nil {
		return errorJSON(c, http.StatusUnauthorized, err.Error())
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid id")
	}

	if err := h.DB.Delete(&models.CartItem{}, id).Error; err != nil {
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]any{
		"type":     "cart_item_deleted",
		"UserID":   userID,
		"PanierID": id,
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "watch removed from cart successfully"})
}
