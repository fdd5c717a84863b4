package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func uintPtr(v uint) *uint { return &v }

func tenant(id uint) Actor {
	return Actor{Authenticated: true, UserID: id, Role: RoleTenant}
}

func agent(id uint, agentID uint) Actor {
	return Actor{Authenticated: true, UserID: id, Role: RoleAgent, AgentID: uintPtr(agentID)}
}

func TestEvaluateRuleTable(t *testing.T) {
	anonymous := Actor{}
	admin := Actor{Authenticated: true, UserID: 9, Role: RoleAdmin}

	tests := []struct {
		name    string
		actor   Actor
		action  Action
		class   Class
		res     *Resource
		allowed bool
		reason  string
	}{
		// Rule 1: world-readable catalog
		{"anonymous reads listings", anonymous, ActionRead, ClassListing, nil, true, ""},
		{"anonymous reads property types", anonymous, ActionRead, ClassPropertyType, nil, true, ""},
		{"anonymous reads features", anonymous, ActionRead, ClassFeature, nil, true, ""},
		{"anonymous reads agents", anonymous, ActionRead, ClassAgent, nil, true, ""},
		{"anonymous reads images", anonymous, ActionRead, ClassImage, nil, true, ""},
		{"tenant reads listings", tenant(1), ActionRead, ClassListing, nil, true, ""},

		// Rule 2: catalog mutations need the agent role
		{"anonymous creates listing", anonymous, ActionCreate, ClassListing, nil, false, ReasonAgentRequired},
		{"tenant creates listing", tenant(1), ActionCreate, ClassListing, nil, false, ReasonAgentRequired},
		{"admin creates listing", admin, ActionCreate, ClassListing, nil, false, ReasonAgentRequired},
		{"agent creates listing", agent(2, 10), ActionCreate, ClassListing, nil, true, ""},
		{"agent creates property type", agent(2, 10), ActionCreate, ClassPropertyType, nil, true, ""},
		{"tenant creates feature", tenant(1), ActionCreate, ClassFeature, nil, false, ReasonAgentRequired},
		{"agent creates image", agent(2, 10), ActionCreate, ClassImage, nil, true, ""},

		// Rule 3: object-level listing mutations need creator or assigned agent
		{"creator updates own listing", agent(2, 10), ActionUpdate, ClassListing, &Resource{OwnerID: 2}, true, ""},
		{"assigned agent updates listing", agent(3, 11), ActionUpdate, ClassListing, &Resource{OwnerID: 2, AgentID: uintPtr(11)}, true, ""},
		{"unrelated agent updates listing", agent(3, 11), ActionUpdate, ClassListing, &Resource{OwnerID: 2, AgentID: uintPtr(10)}, false, ReasonNotOwner},
		{"unrelated agent deletes listing", agent(3, 11), ActionDelete, ClassListing, &Resource{OwnerID: 2}, false, ReasonNotOwner},

		// Rule 4: favorites are tenant territory
		{"tenant lists favorites", tenant(1), ActionRead, ClassFavorite, nil, true, ""},
		{"tenant adds favorite", tenant(1), ActionCreate, ClassFavorite, nil, true, ""},
		{"agent adds favorite", agent(2, 10), ActionCreate, ClassFavorite, nil, false, ReasonTenantRequired},
		{"anonymous recommended", anonymous, ActionRecommend, ClassFavorite, nil, false, ReasonTenantRequired},
		{"tenant recommended", tenant(1), ActionRecommend, ClassFavorite, nil, true, ""},
		{"tenant deletes own favorite", tenant(1), ActionDelete, ClassFavorite, &Resource{OwnerID: 1}, true, ""},
		{"tenant deletes other's favorite", tenant(1), ActionDelete, ClassFavorite, &Resource{OwnerID: 4}, false, ReasonNotOwner},

		// Rule 5: inquiries
		{"tenant creates inquiry", tenant(1), ActionCreate, ClassInquiry, nil, true, ""},
		{"agent creates inquiry", agent(2, 10), ActionCreate, ClassInquiry, nil, false, ReasonTenantRequired},
		{"tenant updates own inquiry", tenant(1), ActionUpdate, ClassInquiry, &Resource{OwnerID: 1}, true, ""},
		{"tenant deletes other's inquiry", tenant(1), ActionDelete, ClassInquiry, &Resource{OwnerID: 4}, false, ReasonNotOwner},
		{"listing agent responds", agent(2, 10), ActionRespond, ClassInquiry, &Resource{OwnerID: 1, AgentID: uintPtr(10)}, true, ""},
		{"other agent responds", agent(3, 11), ActionRespond, ClassInquiry, &Resource{OwnerID: 1, AgentID: uintPtr(10)}, false, ReasonNotListingAgent},
		{"agent without record responds", Actor{Authenticated: true, UserID: 3, Role: RoleAgent}, ActionRespond, ClassInquiry, &Resource{OwnerID: 1, AgentID: uintPtr(10)}, false, ReasonNotListingAgent},
		{"tenant responds", tenant(1), ActionRespond, ClassInquiry, &Resource{OwnerID: 1, AgentID: uintPtr(10)}, false, ReasonAgentRequired},

		// Rule 6: agent records belong to their user
		{"agent updates own record", agent(2, 10), ActionUpdate, ClassAgent, &Resource{OwnerID: 2}, true, ""},
		{"agent updates other's record", agent(2, 10), ActionUpdate, ClassAgent, &Resource{OwnerID: 3}, false, ReasonNotOwner},
		{"anonymous deletes agent record", anonymous, ActionDelete, ClassAgent, &Resource{OwnerID: 2}, false, ReasonNotOwner},

		// Unmatched combinations
		{"anonymous reads favorites", anonymous, ActionRead, ClassFavorite, nil, false, ReasonTenantRequired},
		{"tenant responds to listing", tenant(1), ActionRespond, ClassListing, nil, false, ReasonUnauthorized},
		{"agent recommends listing", agent(2, 10), ActionRecommend, ClassListing, nil, false, ReasonUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := Evaluate(tt.actor, tt.action, tt.class, tt.res)
			assert.Equal(t, tt.allowed, decision.Allowed)
			if !tt.allowed {
				assert.Equal(t, tt.reason, decision.Reason)
			}
		})
	}
}

func TestEvaluateIsPure(t *testing.T) {
	actor := agent(3, 11)
	res := &Resource{OwnerID: 2, AgentID: uintPtr(10)}

	first := Evaluate(actor, ActionUpdate, ClassListing, res)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, Evaluate(actor, ActionUpdate, ClassListing, res))
	}
}
