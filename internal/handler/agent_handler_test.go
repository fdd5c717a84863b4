package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func agentRecordID(t *testing.T, db *gorm.DB, userID uint) uint {
	t.Helper()
	var agent model.Agent
	require.NoError(t, db.Where("user_id = ?", userID).First(&agent).Error)
	return agent.ID
}

func TestAgentDirectory(t *testing.T) {
	e, _ := setupServer(t)
	signup(t, e, "bob", "agent")
	signup(t, e, "carol", "agent")

	rec := request(t, e, http.MethodGet, "/api/properties/agents", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var agents []struct {
		Name string `json:"name"`
	}
	decode(t, rec, &agents)
	assert.Len(t, agents, 2)
}

func TestUpdateAgentSelfOnly(t *testing.T) {
	e, db := setupServer(t)
	bob := signup(t, e, "bob", "agent")
	carol := signup(t, e, "carol", "agent")
	bobAgent := agentRecordID(t, db, bob.ID)
	path := fmt.Sprintf("/api/properties/agents/%d", bobAgent)

	t.Run("another agent denied", func(t *testing.T) {
		rec := request(t, e, http.MethodPut, path, carol.Token, map[string]interface{}{
			"company": "Rival Realty",
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "not owner", errorMessage(t, rec))
	})

	t.Run("owner updates", func(t *testing.T) {
		rec := request(t, e, http.MethodPut, path, bob.Token, map[string]interface{}{
			"company": "Juba Homes",
			"bio":     "Ten years in Juba",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var agent struct {
			Company string `json:"company"`
			Bio     string `json:"bio"`
		}
		decode(t, rec, &agent)
		assert.Equal(t, "Juba Homes", agent.Company)
		assert.Equal(t, "Ten years in Juba", agent.Bio)
	})
}

func TestDeleteAgentDetachesListings(t *testing.T) {
	e, db := setupServer(t)
	bob := signup(t, e, "bob", "agent")
	listingID := createListing(t, e, bob, "Bob's House", nil)
	bobAgent := agentRecordID(t, db, bob.ID)

	rec := request(t, e, http.MethodDelete, fmt.Sprintf("/api/properties/agents/%d", bobAgent), bob.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// The listing survives without its agent.
	rec = request(t, e, http.MethodGet, fmt.Sprintf("/api/properties/listings/%d", listingID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listing struct {
		AgentID *uint `json:"agent_id"`
	}
	decode(t, rec, &listing)
	assert.Nil(t, listing.AgentID)
}
