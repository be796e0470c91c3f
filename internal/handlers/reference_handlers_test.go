package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/atelier-montres/montres_shop/internal/models"
)

func TestReferenceDumps(t *testing.T) {
	db := InitTestDB(t)
	e := echo.New()

	db.Create(&models.Case{Name: "Rond", Price: 120})
	db.Create(&models.Case{Name: "Carre", Price: 110})
	db.Create(&models.Gem{Name: "Diamant", Price: 500})
	db.Create(&models.Strap{Name: "Cuir noir", Price: 70})

	h := &ReferenceHandler{DB: db}

	rec, c := doJSON(t, e, http.MethodGet, "/boitiers", nil, "")
	require.NoError(t, h.Cases(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var cases []models.Case
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cases))
	require.Len(t, cases, 2)
	require.Equal(t, "Rond", cases[0].Name)
	require.Equal(t, float64(120), cases[0].Price)

	recGems, cGems := doJSON(t, e, http.MethodGet, "/pierres", nil, "")
	require.NoError(t, h.Gems(cGems))
	var gems []models.Gem
	require.NoError(t, json.Unmarshal(recGems.Body.Bytes(), &gems))
	require.Len(t, gems, 1)

	recStraps, cStraps := doJSON(t, e, http.MethodGet, "/bracelets", nil, "")
	require.NoError(t, h.Straps(cStraps))
	var straps []models.Strap
	require.NoError(t, json.Unmarshal(recStraps.Body.Bytes(), &straps))
	require.Len(t, straps, 1)
}
