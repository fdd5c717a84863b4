package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/internal/handler"
	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/pkg/config"
	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/pkg/database"
	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/pkg/jwtutil"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

// setupServer wires the full route table against a fresh in-memory
// store, so tests exercise the same middleware chain production runs.
func setupServer(t *testing.T) (*echo.Echo, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
		Logger:         glogger.Default.LogMode(glogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.DB = db

	jwtutil.Initialize(&config.JWTConfig{
		SigningKey:             "handler-test-signing-key",
		ExpirationHours:        1,
		RefreshExpirationHours: 24,
	})

	e := echo.New()
	handler.RegisterRoutes(e)
	return e, db
}

// request performs an HTTP round trip through the echo instance. A
// non-empty token goes out as a Bearer header.
func request(t *testing.T, e *echo.Echo, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	decode(t, rec, &body)
	return body.Error
}

// account is a registered user fixture with a usable access token.
type account struct {
	ID      uint
	Token   string
	Refresh string
	Email   string
}

// signup registers a user through the API and returns the issued
// credentials. An empty role takes the registration default.
func signup(t *testing.T, e *echo.Echo, username, role string) account {
	t.Helper()

	payload := map[string]interface{}{
		"email":     username + "@example.com",
		"username":  username,
		"password":  "s3cret-pass",
		"password2": "s3cret-pass",
	}
	if role != "" {
		payload["role"] = role
	}

	rec := request(t, e, http.MethodPost, "/api/users/register", "", payload)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
		User    struct {
			ID    uint   `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}
	decode(t, rec, &resp)
	require.NotEmpty(t, resp.Access)

	return account{ID: resp.User.ID, Token: resp.Access, Refresh: resp.Refresh, Email: resp.User.Email}
}

// createListing posts a listing as the given account and returns its ID.
// Extra fields override the defaults.
func createListing(t *testing.T, e *echo.Echo, owner account, title string, extra map[string]interface{}) uint {
	t.Helper()

	payload := map[string]interface{}{
		"title":           title,
		"price":           100000,
		"property_status": "for_sale",
	}
	for k, v := range extra {
		payload[k] = v
	}

	rec := request(t, e, http.MethodPost, "/api/properties/listings", owner.Token, payload)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var listing struct {
		ID uint `json:"id"`
	}
	decode(t, rec, &listing)
	return listing.ID
}
