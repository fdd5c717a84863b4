package handler_test

import (
	"net/http"
	"testing"

	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterDefaultsToTenant(t *testing.T) {
	e, _ := setupServer(t)

	rec := request(t, e, http.MethodPost, "/api/users/register", "", map[string]interface{}{
		"email":      "alice@example.com",
		"username":   "alice",
		"password":   "s3cret-pass",
		"password2":  "s3cret-pass",
		"first_name": "Alice",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
		Detail  string `json:"detail"`
		User    struct {
			Email   string `json:"email"`
			Profile struct {
				Role string `json:"role"`
			} `json:"profile"`
		} `json:"user"`
	}
	decode(t, rec, &resp)
	assert.NotEmpty(t, resp.Access)
	assert.NotEmpty(t, resp.Refresh)
	assert.Equal(t, "Registration successful.", resp.Detail)
	assert.Equal(t, "alice@example.com", resp.User.Email)
	assert.Equal(t, "tenant", resp.User.Profile.Role)
}

func TestRegisterValidation(t *testing.T) {
	e, _ := setupServer(t)

	t.Run("password mismatch", func(t *testing.T) {
		rec := request(t, e, http.MethodPost, "/api/users/register", "", map[string]interface{}{
			"email":     "alice@example.com",
			"password":  "s3cret-pass",
			"password2": "different",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "passwords do not match", errorMessage(t, rec))
	})

	t.Run("missing email", func(t *testing.T) {
		rec := request(t, e, http.MethodPost, "/api/users/register", "", map[string]interface{}{
			"password":  "s3cret-pass",
			"password2": "s3cret-pass",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("admin role rejected", func(t *testing.T) {
		rec := request(t, e, http.MethodPost, "/api/users/register", "", map[string]interface{}{
			"email":     "boss@example.com",
			"password":  "s3cret-pass",
			"password2": "s3cret-pass",
			"role":      "admin",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "role must be tenant or agent", errorMessage(t, rec))
	})

	t.Run("duplicate email", func(t *testing.T) {
		signup(t, e, "dup", "")
		rec := request(t, e, http.MethodPost, "/api/users/register", "", map[string]interface{}{
			"email":     "dup@example.com",
			"username":  "dup2",
			"password":  "s3cret-pass",
			"password2": "s3cret-pass",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "a user with that email already exists", errorMessage(t, rec))
	})
}

func TestRegisterAgentProvisionsRecord(t *testing.T) {
	e, db := setupServer(t)

	rec := request(t, e, http.MethodPost, "/api/users/register", "", map[string]interface{}{
		"email":      "bob@example.com",
		"username":   "bob",
		"password":   "s3cret-pass",
		"password2":  "s3cret-pass",
		"first_name": "Bob",
		"last_name":  "Okello",
		"role":       "agent",
		"bio":        "Ten years in Juba",
		"company":    "Juba Homes",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		User struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	decode(t, rec, &resp)

	var agent model.Agent
	require.NoError(t, db.Where("user_id = ?", resp.User.ID).First(&agent).Error)
	assert.Equal(t, "Bob Okello", agent.Name)
	assert.Equal(t, "Juba Homes", agent.Company)
	assert.Equal(t, "Ten years in Juba", agent.Bio)
}

func TestLogin(t *testing.T) {
	e, _ := setupServer(t)
	signup(t, e, "alice", "")

	t.Run("by email", func(t *testing.T) {
		rec := request(t, e, http.MethodPost, "/api/users/token", "", map[string]interface{}{
			"email":    "alice@example.com",
			"password": "s3cret-pass",
		})
		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Access string `json:"access"`
			Role   string `json:"role"`
		}
		decode(t, rec, &resp)
		assert.NotEmpty(t, resp.Access)
		assert.Equal(t, "tenant", resp.Role)
	})

	t.Run("by username", func(t *testing.T) {
		rec := request(t, e, http.MethodPost, "/api/users/token", "", map[string]interface{}{
			"username": "alice",
			"password": "s3cret-pass",
		})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := request(t, e, http.MethodPost, "/api/users/token", "", map[string]interface{}{
			"email":    "alice@example.com",
			"password": "nope",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "invalid credentials", errorMessage(t, rec))
	})

	t.Run("unknown user", func(t *testing.T) {
		rec := request(t, e, http.MethodPost, "/api/users/token", "", map[string]interface{}{
			"email":    "ghost@example.com",
			"password": "s3cret-pass",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestGatedLogins(t *testing.T) {
	e, _ := setupServer(t)
	signup(t, e, "alice", "")
	signup(t, e, "bob", "agent")

	t.Run("agent through agent gate", func(t *testing.T) {
		rec := request(t, e, http.MethodPost, "/api/users/agent/login", "", map[string]interface{}{
			"email":    "bob@example.com",
			"password": "s3cret-pass",
		})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("tenant through agent gate", func(t *testing.T) {
		rec := request(t, e, http.MethodPost, "/api/users/agent/login", "", map[string]interface{}{
			"email":    "alice@example.com",
			"password": "s3cret-pass",
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "this login is restricted to agent accounts", errorMessage(t, rec))
	})

	t.Run("agent through tenant gate", func(t *testing.T) {
		rec := request(t, e, http.MethodPost, "/api/users/tenant/login", "", map[string]interface{}{
			"email":    "bob@example.com",
			"password": "s3cret-pass",
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestRefreshToken(t *testing.T) {
	e, _ := setupServer(t)
	alice := signup(t, e, "alice", "")

	rec := request(t, e, http.MethodPost, "/api/users/token/refresh", "", map[string]interface{}{
		"refresh": alice.Refresh,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Access string `json:"access"`
	}
	decode(t, rec, &resp)
	require.NotEmpty(t, resp.Access)

	me := request(t, e, http.MethodGet, "/api/users/me", resp.Access, nil)
	assert.Equal(t, http.StatusOK, me.Code)

	t.Run("access token rejected as refresh", func(t *testing.T) {
		rec := request(t, e, http.MethodPost, "/api/users/token/refresh", "", map[string]interface{}{
			"refresh": alice.Token,
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("refresh token rejected as access", func(t *testing.T) {
		rec := request(t, e, http.MethodGet, "/api/users/me", alice.Refresh, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestMe(t *testing.T) {
	e, _ := setupServer(t)
	alice := signup(t, e, "alice", "")

	rec := request(t, e, http.MethodGet, "/api/users/me", alice.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Email   string `json:"email"`
		Profile struct {
			Role string `json:"role"`
		} `json:"profile"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, "alice@example.com", resp.Email)
	assert.Equal(t, "tenant", resp.Profile.Role)

	t.Run("anonymous", func(t *testing.T) {
		rec := request(t, e, http.MethodGet, "/api/users/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestUpdateProfile(t *testing.T) {
	e, db := setupServer(t)
	alice := signup(t, e, "alice", "")

	rec := request(t, e, http.MethodPut, "/api/users/update_profile", alice.Token, map[string]interface{}{
		"first_name": "Alice",
		"profile": map[string]interface{}{
			"phone_number": "+211-555-0100",
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		FirstName string `json:"first_name"`
		Profile   struct {
			Role        string `json:"role"`
			PhoneNumber string `json:"phone_number"`
		} `json:"profile"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, "Alice", resp.FirstName)
	assert.Equal(t, "tenant", resp.Profile.Role)
	assert.Equal(t, "+211-555-0100", resp.Profile.PhoneNumber)

	// Both writes of the update land in the store, not just the echoed view.
	var stored model.User
	require.NoError(t, db.Preload("Profile").First(&stored, alice.ID).Error)
	assert.Equal(t, "Alice", stored.FirstName)
	require.NotNil(t, stored.Profile)
	assert.Equal(t, "+211-555-0100", stored.Profile.PhoneNumber)

	t.Run("role switch provisions agent", func(t *testing.T) {
		rec := request(t, e, http.MethodPut, "/api/users/update_profile", alice.Token, map[string]interface{}{
			"profile": map[string]interface{}{"role": "agent"},
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var agent model.Agent
		require.NoError(t, db.Where("user_id = ?", alice.ID).First(&agent).Error)
		assert.Equal(t, "+211-555-0100", agent.Phone)
	})

	t.Run("admin self-assignment rejected", func(t *testing.T) {
		rec := request(t, e, http.MethodPut, "/api/users/update_profile", alice.Token, map[string]interface{}{
			"profile": map[string]interface{}{"role": "admin"},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
