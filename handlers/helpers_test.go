package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"studio-api/config"
	"studio-api/models"
	"studio-api/services"
	"studio-api/validation"
)

const testSecret = "test-secret"

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	validation.Register()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	cfg := &config.Config{
		APIVersion: "v1",
		JWTSecret:  testSecret,
		JWTExpires: time.Hour,
	}

	r := gin.New()
	RegisterRoutes(r, cfg, db)
	return r, db
}

func doRequest(t *testing.T, r *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// registerAndLogin creates an account through the public API and returns the
// issued token plus the decoded user payload.
func registerAndLogin(t *testing.T, r *gin.Engine, name, email, password string) (string, map[string]any) {
	t.Helper()

	w := doRequest(t, r, http.MethodPost, "/api/v1/auth/register", gin.H{
		"name":     name,
		"email":    email,
		"password": password,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	data := decodeBody(t, w)["data"].(map[string]any)
	return data["token"].(string), data["user"].(map[string]any)
}

// promoteToAdmin flips the role directly in the store; registration never
// produces admins.
func promoteToAdmin(t *testing.T, db *gorm.DB, userID string) {
	t.Helper()

	role := models.RoleAdmin
	_, err := services.NewUserStore(db).Update(userID, services.UserPatch{Role: &role})
	require.NoError(t, err)
}
