package handler

import (
	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/internal/apperr"
	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/internal/policy"
	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/internal/provision"
	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/pkg/logger"
	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// actorFromContext builds the policy actor from the claims the auth
// middleware stored. Anonymous requests yield the zero actor.
func actorFromContext(c echo.Context) policy.Actor {
	actor := policy.Actor{}
	if userID, ok := c.Get("user_id").(uint); ok && userID != 0 {
		actor.Authenticated = true
		actor.UserID = userID
		if role, ok := c.Get("role").(string); ok {
			actor.Role = policy.Role(role)
		}
	}
	return actor
}

// actorWithAgent additionally resolves the actor's agent record so
// object-level rules can compare against listing assignments. No record
// simply leaves AgentID nil.
func actorWithAgent(c echo.Context, db *gorm.DB) (policy.Actor, error) {
	actor := actorFromContext(c)
	if !actor.Authenticated || actor.Role != policy.RoleAgent {
		return actor, nil
	}
	agent, err := provision.ResolveAgent(db, actor.UserID)
	if err != nil {
		return actor, err
	}
	if agent != nil {
		actor.AgentID = &agent.ID
	}
	return actor, nil
}

// authorize consults the policy evaluator and converts a denial into
// the typed error the boundary renders.
func authorize(actor policy.Actor, action policy.Action, class policy.Class, res *policy.Resource) error {
	decision := policy.Evaluate(actor, action, class, res)
	if !decision.Allowed {
		prometheus.RecordDenial(string(class))
		return apperr.Denied(decision.Reason)
	}
	return nil
}

// fail is the single boundary that renders a typed failure. Expected
// failures are logged at warn, everything else at error.
func fail(c echo.Context, err error) error {
	log := logger.FromContext(c)
	status := apperr.Status(err)
	if status >= 500 {
		log.Error("Request failed", zap.Error(err))
	} else {
		log.Warn("Request rejected", zap.Error(err))
	}
	return c.JSON(status, echo.Map{"error": apperr.Message(err)})
}
