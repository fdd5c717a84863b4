// Package provision manages the agent record attached to users holding
// the agent role.
package provision

import (
	"errors"
	"strings"

	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/internal/apperr"
	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EnsureAgent idempotently provisions the agent record for a user. The
// insert-if-absent rides on the unique index on agents.user_id, so
// concurrent triggers for the same user converge on one row without any
// check-then-act in here. The existing or new record is returned.
func EnsureAgent(db *gorm.DB, user *model.User, profile *model.Profile) (*model.Agent, error) {
	agent := model.Agent{
		UserID: user.ID,
		Name:   agentName(user),
	}
	if profile != nil {
		agent.Phone = profile.PhoneNumber
	}

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&agent).Error
	if err != nil {
		return nil, apperr.Provisioning(err)
	}

	// The insert is a no-op when the record already exists, so read back
	// whichever row won.
	var out model.Agent
	if err := db.Where("user_id = ?", user.ID).First(&out).Error; err != nil {
		return nil, apperr.Provisioning(err)
	}
	return &out, nil
}

// ResolveAgent fetches a user's agent record without provisioning one.
// Returns (nil, nil) when no record exists.
func ResolveAgent(db *gorm.DB, userID uint) (*model.Agent, error) {
	var agent model.Agent
	err := db.Where("user_id = ?", userID).First(&agent).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &agent, nil
}

func agentName(user *model.User) string {
	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if name == "" {
		name = user.Username
	}
	return name
}
