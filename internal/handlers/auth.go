package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/atelier-montres/montres_shop/internal/hash"
	"github.com/atelier-montres/montres_shop/internal/logging"
	"github.com/atelier-montres/montres_shop/internal/models"
	"github.com/atelier-montres/montres_shop/internal/mykafka"
)

const tokenTTL = time.Hour

type AuthHandler struct {
	DB        *gorm.DB
	JWTSecret []byte
	Producer  *mykafka.Producer
}

// errorJSON writes the error body shape every client of this API expects.
func errorJSON(c echo.Context, code int, msg string) error {
	return c.JSON(code, echo.Map{"error": msg})
}

func (h *AuthHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "user_events", fmt.Sprint(event["UserID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req struct {
		Username string
		Password string
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return errorJSON(c, http.StatusInternalServerError, "cannot hash the password")
	}

	user := models.User{
		Username:     req.Username,
		PasswordHash: pwHash,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		// A duplicate username surfaces here as the driver's own message.
		l.Error("register_failed", "status", 500, "reason", "db_error", "error", err)
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]any{
		"type":     "user_registered",
		"UserID":   user.ID,
		"username": user.Username,
	})

	l.Info("register_success", "status", 200, "UserID", user.ID)
	return c.JSON(http.StatusOK, echo.Map{"UserID": user.ID})
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req struct {
		Username string
		Password string
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}

	// Unknown user and wrong password answer identically so usernames
	// cannot be enumerated.
	var user models.User
	if err := h.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		l.Warn("login_failed", "status", 401, "reason", "invalid username or password")
		return errorJSON(c, http.StatusUnauthorized, "invalid username or password")
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		l.Warn("login_failed", "status", 401, "reason", "invalid username or password")
		return errorJSON(c, http.StatusUnauthorized, "invalid username or password")
	}

	claims := jwt.MapClaims{
		"UserID": user.ID,
		"exp":    time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(h.JWTSecret)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot create token", "error", err)
		return errorJSON(c, http.StatusInternalServerError, "cannot create token")
	}

	h.publish(c, map[string]any{
		"type":     "user_logged_in",
		"UserID":   user.ID,
		"username": user.Username,
	})

	l.Info("login_success", "status", 200, "UserID", user.ID)
	return c.JSON(http.StatusOK, echo.Map{"token": signed, "UserID": user.ID})
}

// GetID extracts the caller identity from the Authorization header. The
// original clients send the raw token, without the Bearer prefix.
func GetID(c echo.Context, secret []byte) (uint, error) {
	tokenString := c.Request().Header.Get("Authorization")
	if tokenString == "" {
		return 0, errors.New("access denied")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
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
