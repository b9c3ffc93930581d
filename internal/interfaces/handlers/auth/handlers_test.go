package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	authsvc "krishi-backend/internal/application/auth"
	"krishi-backend/internal/domain"
	"krishi-backend/internal/middleware"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupAuthHandlersTest(t *testing.T) (*fiber.App, *miniredis.Miniredis, *gorm.DB) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}))

	h := &Handlers{
		Service: &authsvc.Service{DB: db, Rdb: rdb, OTPTTL: 5 * time.Minute},
		Rdb:     rdb,
		Config:  middleware.SessionConfig{},
	}

	app := fiber.New()
	app.Use(middleware.SessionWithClient(rdb))
	app.Post("/api/v1/auth/send-otp", h.SendOTP)
	app.Post("/api/v1/auth/verify-otp", h.VerifyOTP)
	app.Get("/api/v1/auth/me", h.Me)
	app.Delete("/api/v1/auth/logout", h.Logout)

	return app, mr, db
}

func seedOTPHash(t *testing.T, mr *miniredis.Miniredis, phone, code string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(code), 10)
	require.NoError(t, err)
	mr.Set("otp:"+phone, string(hash))
}

func postAuth(t *testing.T, app *fiber.App, path string, payload interface{}) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, ck := range resp.Cookies() {
		if ck.Name == middleware.SessionCookieName {
			return ck
		}
	}
	return nil
}

func TestSendOTP_InvalidPhone(t *testing.T) {
	app, _, _ := setupAuthHandlersTest(t)

	resp := postAuth(t, app, "/api/v1/auth/send-otp", map[string]string{"phone": "abc"})
	assert.Equal(t, 400, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	errObj := result["error"].(map[string]interface{})
	assert.Equal(t, "Invalid phone number", errObj["message"])
}

func TestVerifyOTP_SetsSessionCookie(t *testing.T) {
	app, mr, db := setupAuthHandlersTest(t)
	seedOTPHash(t, mr, "+911234567890", "4321")

	resp := postAuth(t, app, "/api/v1/auth/verify-otp", map[string]string{
		"phone": "+911234567890",
		"otp":   "4321",
	})
	require.Equal(t, 200, resp.StatusCode)

	ck := sessionCookie(resp)
	require.NotNil(t, ck)
	assert.NotEmpty(t, ck.Value)
	assert.True(t, ck.HttpOnly)

	// Session persisted in Redis under the new ID.
	require.True(t, mr.Exists("session:"+ck.Value))

	var user domain.User
	require.NoError(t, db.First(&user, "phone = ?", "+911234567890").Error)
	assert.True(t, mr.Exists("user_sessions:"+user.UserID.String()))
}

func TestVerifyOTP_WrongCode(t *testing.T) {
	app, mr, _ := setupAuthHandlersTest(t)
	seedOTPHash(t, mr, "+911234567890", "4321")

	resp := postAuth(t, app, "/api/v1/auth/verify-otp", map[string]string{
		"phone": "+911234567890",
		"otp":   "0000",
	})
	assert.Equal(t, 400, resp.StatusCode)
	assert.Nil(t, sessionCookie(resp))
}

func TestMe_WithAndWithoutSession(t *testing.T) {
	app, mr, _ := setupAuthHandlersTest(t)
	seedOTPHash(t, mr, "+911234567890", "4321")

	// Without a session cookie.
	req := httptest.NewRequest("GET", "/api/v1/auth/me", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)

	// Login, then replay the cookie.
	login := postAuth(t, app, "/api/v1/auth/verify-otp", map[string]string{
		"phone": "+911234567890",
		"otp":   "4321",
	})
	ck := sessionCookie(login)
	require.NotNil(t, ck)

	req = httptest.NewRequest("GET", "/api/v1/auth/me", nil)
	req.AddCookie(ck)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	me := result["data"].(map[string]interface{})["user"].(map[string]interface{})
	assert.Equal(t, "+911234567890", me["phone"])
}

func TestLogout_DropsSession(t *testing.T) {
	app, mr, _ := setupAuthHandlersTest(t)
	seedOTPHash(t, mr, "+911234567890", "4321")

	login := postAuth(t, app, "/api/v1/auth/verify-otp", map[string]string{
		"phone": "+911234567890",
		"otp":   "4321",
	})
	ck := sessionCookie(login)
	require.NotNil(t, ck)
	require.True(t, mr.Exists("session:"+ck.Value))

	req := httptest.NewRequest("DELETE", "/api/v1/auth/logout", nil)
	req.AddCookie(ck)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	// Cookie cleared and the session key gone.
	out := sessionCookie(resp)
	require.NotNil(t, out)
	assert.Empty(t, out.Value)
	assert.False(t, mr.Exists("session:"+ck.Value))
}