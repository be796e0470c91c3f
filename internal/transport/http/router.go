package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/atelier-montres/montres_shop/internal/handlers"
	"github.com/atelier-montres/montres_shop/internal/handlers/cart"
)

type Deps struct {
	DB               *gorm.DB
	AuthHandler      *handlers.AuthHandler
	WatchHandler     *handlers.WatchHandler
	CartHandler      *cart.CartHandler
	ReferenceHandler *handlers.ReferenceHandler
	SearchHandler    *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/montres")
	})

	e.POST("/inscription", d.AuthHandler.Register)
	e.POST("/connexion", d.AuthHandler.Login)

	e.GET("/montres", d.WatchHandler.List)
	e.GET("/montres/recherche", d.SearchHandler.Handler)
	e.GET("/montresConfiguredByUser", d.WatchHandler.ListByUser)
	e.GET("/montre/:id", d.WatchHandler.GetOne)
	e.POST("/montre/ajout", d.WatchHandler.Create)
	e.PUT("/montre/:id/modif", d.WatchHandler.Replace)
	e.PUT("/montre/:id/modif2", d.WatchHandler.ReplaceByName)
	e.DELETE("/montre/:id/suppr", d.WatchHandler.Delete)

	e.POST("/panier/ajout", d.CartHandler.AddToCart)
	e.GET("/panier/liste", d.CartHandler.GetCart)
	e.DELETE("/panier/:id/suppr", d.CartHandler.DeleteFromCart)

	e.GET("/boitiers", d.ReferenceHandler.Cases)
	e.GET("/pierres", d.ReferenceHandler.Gems)
	e.GET("/bracelets", d.ReferenceHandler.Straps)
	e.GET("/texturesBoitier", d.ReferenceHandler.CaseTextures)
	e.GET("/texturesBracelet", d.ReferenceHandler.StrapTextures)
}
