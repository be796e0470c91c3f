package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

func errorJSON(c echo.Context, code int, msg string) error {
	return c.JSON(code, echo.Map{"error": msg})
}

func (h *CartHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "cart_events", fmt.Sprint(event["UserID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

// GetID extracts the caller identity from the raw token in the
// Authorization header.
func GetID(c echo.Context, jwtSecret []byte) (uint, error) {
	tokenString := c.Request().Header.Get("Authorization")
	if tokenString == "" {
		return 0, errors.New("access denied")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return 0, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid token claims")
	}
	idRaw, ok := claims["UserID"].(float64)
	if !ok {
		return 0, errors.New("token is missing the UserID claim")
	}

	return uint(idRaw), nil
}
