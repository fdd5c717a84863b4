package handler

import (
	"net/http"

	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/internal/apperr"
	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/internal/model"
	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/internal/policy"
	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/pkg/database"
	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Agent records are created solely by profile lifecycle provisioning;
// the handlers expose the directory plus self-service updates.

type agentRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Bio     string `json:"bio"`
	Company string `json:"company"`
}

// ListAgents returns the agent directory
func ListAgents(c echo.Context) error {
	var agents []model.Agent
	if err := database.GetDB().Find(&agents).Error; err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, agents)
}

// GetAgent returns one agent record
func GetAgent(c echo.Context) error {
	var agent model.Agent
	if err := database.GetDB().First(&agent, c.Param("id")).Error; err != nil {
		return fail(c, apperr.NotFound("agent not found"))
	}
	return c.JSON(http.StatusOK, agent)
}

// UpdateAgent updates an agent's own professional record
func UpdateAgent(c echo.Context) error {
	log := logger.FromContext(c)
	db := database.GetDB()

	var agent model.Agent
	if err := db.First(&agent, c.Param("id")).Error; err != nil {
		return fail(c, apperr.NotFound("agent not found"))
	}

	actor := actorFromContext(c)
	res := &policy.Resource{OwnerID: agent.UserID}
	if err := authorize(actor, policy.ActionUpdate, policy.ClassAgent, res); err != nil {
		return fail(c, err)
	}

	var req agentRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, apperr.Validation("invalid request"))
	}

	if req.Name != "" {
		agent.Name = req.Name
	}
	if req.Phone != "" {
		agent.Phone = req.Phone
	}
	if req.Bio != "" {
		agent.Bio = req.Bio
	}
	if req.Company != "" {
		agent.Company = req.Company
	}

	if err := db.Save(&agent).Error; err != nil {
		log.Error("Failed to update agent", zap.Uint("agent_id", agent.ID), zap.Error(err))
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, agent)
}

// DeleteAgent removes an agent's own record. Listings that pointed at
// it keep running with a null agent.
func DeleteAgent(c echo.Context) error {
	log := logger.FromContext(c)
	db := database.GetDB()

	var agent model.Agent
	if err := db.First(&agent, c.Param("id")).Error; err != nil {
		return fail(c, apperr.NotFound("agent not found"))
	}

	actor := actorFromContext(c)
	res := &policy.Resource{OwnerID: agent.UserID}
	if err := authorize(actor, policy.ActionDelete, policy.ClassAgent, res); err != nil {
		return fail(c, err)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		// Weak association: listings lose the agent, nothing cascades.
		if err := tx.Model(&model.Listing{}).Where("agent_id = ?", agent.ID).
			Update("agent_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&agent).Error
	})
	if err != nil {
		log.Error("Failed to delete agent", zap.Uint("agent_id", agent.ID), zap.Error(err))
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Agent deleted successfully"})
}
