package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/yourusername/marine-classifieds/config"
	"github.com/yourusername/marine-classifieds/middleware"
	"github.com/yourusername/marine-classifieds/models"
	"github.com/yourusername/marine-classifieds/utils"
	"gorm.io/gorm"
)

func newAuthHandler(db *gorm.DB) (*AuthHandler, *fakeMailer) {
	mailer := &fakeMailer{}
	handler := &AuthHandler{
		DB: db,
		Cfg: &config.Config{
			JWTSecret:        "test-secret",
			JWTRefreshSecret: "test-refresh-secret",
			FrontendURL:      "http://localhost:3000",
		},
		Mailer: mailer,
	}
	return handler, mailer
}

func TestRegister(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupTestDB(t)
	handler, mailer := newAuthHandler(db)

	router := gin.New()
	router.POST("/register", handler.Register)

	register := func(body RegisterRequest) *httptest.ResponseRecorder {
		raw, _ := json.Marshal(body)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/register", bytes.NewBuffer(raw))
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("Valid Request", func(t *testing.T) {
		w := register(RegisterRequest{
			Username:  "skipper",
			Email:     "a@x.com",
			Password:  "password123",
			FirstName: "Alex",
			LastName:  "Mariner",
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "access_token")

		var user models.User
		assert.NoError(t, db.Where("email = ?", "a@x.com").First(&user).Error)
		assert.NotEqual(t, "password123", user.Password)
		assert.True(t, utils.CheckPasswordHash("password123", user.Password))
		assert.False(t, user.IsAdmin)
		assert.False(t, user.EmailVerified)

		// A verification mail went out.
		assert.Len(t, mailer.to, 1)
		assert.Equal(t, "a@x.com", mailer.to[0])
		assert.Contains(t, mailer.bodies[0], "verify-email?token=")
	})

	t.Run("Duplicate Email", func(t *testing.T) {
		w := register(RegisterRequest{Username: "other", Email: "a@x.com", Password: "password123"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Short Password", func(t *testing.T) {
		w := register(RegisterRequest{Username: "short", Email: "b@x.com", Password: "abc"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Invalid Email", func(t *testing.T) {
		w := register(RegisterRequest{Username: "bad", Email: "not-an-email", Password: "password123"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupTestDB(t)
	handler, _ := newAuthHandler(db)
	createTestUser(t, db, "a@x.com", false)

	router := gin.New()
	router.POST("/login", handler.Login)

	login := func(email, password string) *httptest.ResponseRecorder {
		raw, _ := json.Marshal(LoginRequest{Email: email, Password: password})
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/login", bytes.NewBuffer(raw))
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("Valid Credentials", func(t *testing.T) {
		w := login("a@x.com", "password123")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "access_token")
		assert.Contains(t, w.Body.String(), "refresh_token")
	})

	t.Run("Wrong Password", func(t *testing.T) {
		w := login("a@x.com", "wrong-password")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Unknown Email", func(t *testing.T) {
		w := login("nobody@x.com", "password123")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Inactive Account", func(t *testing.T) {
		user := createTestUser(t, db, "inactive@x.com", false)
		db.Model(&user).Update("is_active", false)

		w := login("inactive@x.com", "password123")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestVerifyEmail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupTestDB(t)
	handler, _ := newAuthHandler(db)
	user := createTestUser(t, db, "a@x.com", false)

	router := gin.New()
	router.GET("/verify-email", handler.VerifyEmail)

	t.Run("Valid Token", func(t *testing.T) {
		token, err := middleware.GenerateToken(user.ID, false, handler.Cfg.JWTSecret, time.Hour)
		assert.NoError(t, err)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/verify-email?token="+token, nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var found models.User
		db.First(&found, user.ID)
		assert.True(t, found.EmailVerified)
	})

	t.Run("Invalid Token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/verify-email?token=garbage", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Missing Token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/verify-email", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRefresh(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupTestDB(t)
	handler, _ := newAuthHandler(db)
	user := createTestUser(t, db, "a@x.com", false)

	router := gin.New()
	router.POST("/refresh", handler.Refresh)

	t.Run("Valid Refresh Token", func(t *testing.T) {
		token, _ := middleware.GenerateToken(user.ID, false, handler.Cfg.JWTRefreshSecret, time.Hour)
		raw, _ := json.Marshal(RefreshTokenRequest{RefreshToken: token})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/refresh", bytes.NewBuffer(raw))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "access_token")
	})

	t.Run("Access Token Rejected As Refresh", func(t *testing.T) {
		token, _ := middleware.GenerateToken(user.ID, false, handler.Cfg.JWTSecret, time.Hour)
		raw, _ := json.Marshal(RefreshTokenRequest{RefreshToken: token})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/refresh", bytes.NewBuffer(raw))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
