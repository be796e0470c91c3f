package cart

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/atelier-montres/montres_shop/internal/models"
	"github.com/atelier-montres/montres_shop/internal/mykafka"
)

var testSecret = []byte("test_secret")

func InitTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
		return nil
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Case{},
		&models.CaseTexture{},
		&models.Gem{},
		&models.StrapTexture{},
		&models.Watch{},
		&models.CartItem{},
	); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return db
}

func doJSON(t *testing.T, e *echo.Echo, method, target string, body any, token string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(bodyBytes)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	rec := httptest.NewRecorder()
	return rec, e.NewContext(req, rec)
}

func makeToken(t *testing.T, userID uint) string {
	t.Helper()
	claims := jwt.MapClaims{
		"UserID": userID,
		"exp":    time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return signed
}

func uintPtr(v uint) *uint { return &v }

func newCartHandler(db *gorm.DB) *CartHandler {
	return &CartHandler{DB: db, Producer: &mykafka.Producer{}, JWTSecret: testSecret}
}

func TestAddToCartDefaultsAndDuplicates(t *testing.T) {
	db := InitTestDB(t)
	e := echo.New()
	h := newCartHandler(db)
	token := makeToken(t, 1)

	rec, c := doJSON(t, e, http.MethodPost, "/panier/ajout", map[string]uint{"WatchID": 3}, token)
	require.NoError(t, h.AddToCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	// Same watch again: a second line, never a merge.
	rec2, c2 := doJSON(t, e, http.MethodPost, "/panier/ajout", map[string]uint{"WatchID": 3, "Quantity": 2}, token)
	require.NoError(t, h.AddToCart(c2))
	require.Equal(t, http.StatusOK, rec2.Code)

	var items []models.CartItem
	require.NoError(t, db.Where("user_id = ?", 1).Order("id").Find(&items).Error)
	require.Len(t, items, 2)
	require.Equal(t, uint(1), items[0].Quantity)
	require.Equal(t, uint(2), items[1].Quantity)
	require.Equal(t, uint(3), items[0].WatchID)
}

func TestAddToCartRequiresToken(t *testing.T) {
	db := InitTestDB(t)
	e := echo.New()
	h := newCartHandler(db)

	rec, c := doJSON(t, e, http.MethodPost, "/panier/ajout", map[string]uint{"WatchID": 3}, "")
	require.NoError(t, h.AddToCart(c))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetCartPricesCaseAndTextureOnly(t *testing.T) {
	db := InitTestDB(t)
	e := echo.New()
	h := newCartHandler(db)

	db.Create(&models.Case{Name: "Rond", Price: 10})
	db.Create(&models.CaseTexture{Name: "Or", Price: 20})
	db.Create(&models.Gem{Name: "Diamant", Price: 500})
	db.Create(&models.StrapTexture{Name: "Cuir", Price: 40})

	// Gem and strap prices stay out of the cart total.
	db.Create(&models.Watch{
		Name:           "complete",
		CaseID:         uintPtr(1),
		CaseTextureID:  uintPtr(1),
		GemID:          uintPtr(1),
		StrapTextureID: uintPtr(1),
	})
	db.Create(&models.CartItem{UserID: 1, WatchID: 1, Quantity: 2})

	rec, c := doJSON(t, e, http.MethodGet, "/panier/liste", nil, makeToken(t, 1))
	require.NoError(t, h.GetCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []CartRow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	require.Equal(t, "complete", rows[0].Name)
	require.Equal(t, uint(2), rows[0].Quantity)
	require.NotNil(t, rows[0].TotalPrice)
	require.Equal(t, float64(30), *rows[0].TotalPrice)
}

func TestGetCartDropsWatchWithoutCaseAttributes(t *testing.T) {
	db := InitTestDB(t)
	e := echo.New()
	h := newCartHandler(db)

	db.Create(&models.Case{Name: "Rond", Price: 10})
	db.Create(&models.CaseTexture{Name: "Or", Price: 20})

	db.Create(&models.Watch{Name: "nue"})
	db.Create(&models.CartItem{UserID: 1, WatchID: 1, Quantity: 1})

	rec, c := doJSON(t, e, http.MethodGet, "/panier/liste", nil, makeToken(t, 1))
	require.NoError(t, h.GetCart(c))
	require.Equal(t, http.StatusOK, rec.Code)
	// The inner joins drop the unpriceable line.
	require.JSONEq(t, "[]", rec.Body.String())
}

func TestGetCartIsScopedToCaller(t *testing.T) {
	db := InitTestDB(t)
	e := echo.New()
	h := newCartHandler(db)

	db.Create(&models.Case{Name: "Rond", Price: 10})
	db.Create(&models.CaseTexture{Name: "Or", Price: 20})
	db.Create(&models.Watch{Name: "m", CaseID: uintPtr(1), CaseTextureID: uintPtr(1)})
	db.Create(&models.CartItem{UserID: 1, WatchID: 1, Quantity: 1})
	db.Create(&models.CartItem{UserID: 2, WatchID: 1, Quantity: 5})

	rec, c := doJSON(t, e, http.MethodGet, "/panier/liste", nil, makeToken(t, 1))
	require.NoError(t, h.GetCart(c))

	var rows []CartRow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	require.Equal(t, uint(1), rows[0].Quantity)
}

func TestDeleteFromCartUnknownIDIsSuccess(t *testing.T) {
	db := InitTestDB(t)
	e := echo.New()
	h := newCartHandler(db)

	rec, c := doJSON(t, e, http.MethodDelete, "/panier/9/suppr", nil, makeToken(t, 1))
	c.SetParamNames("id")
	c.SetParamValues("9")
	require.NoError(t, h.DeleteFromCart(c))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteFromCartRequiresToken(t *testing.T) {
	db := InitTestDB(t)
	e := echo.New()
	h := newCartHandler(db)

	rec, c := doJSON(t, e, http.MethodDelete, "/panier/9/suppr", nil, "")
	c.SetParamNames("id")
	c.SetParamValues("9")
	require.NoError(t, h.DeleteFromCart(c))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
