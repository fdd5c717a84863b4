// Package policy is the sole authority for allow/deny decisions. It is
// a pure rule table: evaluating the same inputs always yields the same
// decision, so callers may consult it as often as they like within a
// request.
package policy

// Role is the closed set of actor roles. The zero value stands for an
// unauthenticated actor.
type Role string

const (
	RoleUnauthenticated Role = ""
	RoleTenant          Role = "tenant"
	RoleAgent           Role = "agent"
	RoleAdmin           Role = "admin"
)

// Action names an operation an actor attempts on a resource class.
type Action string

const (
	ActionRead      Action = "read"
	ActionCreate    Action = "create"
	ActionUpdate    Action = "update"
	ActionDelete    Action = "delete"
	ActionRespond   Action = "respond"
	ActionRecommend Action = "recommend"
)

// Class names a resource class the rules are keyed on.
type Class string

const (
	ClassListing      Class = "listing"
	ClassPropertyType Class = "property_type"
	ClassFeature      Class = "feature"
	ClassImage        Class = "image"
	ClassAgent        Class = "agent"
	ClassFavorite     Class = "favorite"
	ClassInquiry      Class = "inquiry"
)

// Actor is the identity a decision is made for. AgentID is the actor's
// agent record if one exists and the caller resolved it.
type Actor struct {
	Authenticated bool
	UserID        uint
	Role          Role
	AgentID       *uint
}

// Resource carries the ownership facts of a specific object. OwnerID is
// the owning user (listing creator, favorite owner, inquiry tenant,
// agent's user); AgentID is the assigned agent where one applies
// (listing.agent, inquiry.listing.agent).
type Resource struct {
	OwnerID uint
	AgentID *uint
}

// Decision is the outcome of an evaluation. Reason is set on denials.
type Decision struct {
	Allowed bool
	Reason  string
}

// Denial reasons surfaced to the boundary layer.
const (
	ReasonAgentRequired   = "agent role required"
	ReasonTenantRequired  = "tenant role required"
	ReasonNotOwner        = "not owner"
	ReasonNotListingAgent = "not the listing's agent"
	ReasonUnauthorized    = "unauthorized"
)

func allow() Decision             { return Decision{Allowed: true} }
func deny(reason string) Decision { return Decision{Reason: reason} }

// Evaluate runs the ordered rule table, first match wins. res may be nil
// for class-level checks; when present it adds the object-level
// ownership requirements.
func Evaluate(actor Actor, action Action, class Class, res *Resource) Decision {
	// Rule 1: the catalog is world-readable.
	if action == ActionRead {
		switch class {
		case ClassListing, ClassPropertyType, ClassFeature, ClassAgent, ClassImage:
			return allow()
		}
	}

	switch class {
	case ClassListing, ClassImage:
		switch action {
		case ActionCreate, ActionUpdate, ActionDelete:
			// Rule 2: catalog mutations need the agent role.
			if !actor.Authenticated || actor.Role != RoleAgent {
				return deny(ReasonAgentRequired)
			}
			// Rule 3: touching a specific listing or image additionally
			// needs the creator or the assigned agent.
			if res != nil && (action == ActionUpdate || action == ActionDelete) {
				if actor.UserID != res.OwnerID && !sameAgent(actor.AgentID, res.AgentID) {
					return deny(ReasonNotOwner)
				}
			}
			return allow()
		}

	case ClassPropertyType, ClassFeature:
		switch action {
		case ActionCreate, ActionUpdate, ActionDelete:
			// Rule 2: shared vocabularies are maintained by agents.
			if !actor.Authenticated || actor.Role != RoleAgent {
				return deny(ReasonAgentRequired)
			}
			return allow()
		}

	case ClassFavorite:
		switch action {
		case ActionRead, ActionCreate, ActionDelete, ActionRecommend:
			// Rule 4: favorites and recommendations are tenant territory.
			if !actor.Authenticated || actor.Role != RoleTenant {
				return deny(ReasonTenantRequired)
			}
			if res != nil && actor.UserID != res.OwnerID {
				return deny(ReasonNotOwner)
			}
			return allow()
		}

	case ClassInquiry:
		// Rule 5: tenants open and own inquiries, the listing's agent answers.
		switch action {
		case ActionCreate:
			if !actor.Authenticated || actor.Role != RoleTenant {
				return deny(ReasonTenantRequired)
			}
			return allow()
		case ActionUpdate, ActionDelete:
			if !actor.Authenticated || actor.Role != RoleTenant {
				return deny(ReasonTenantRequired)
			}
			if res != nil && actor.UserID != res.OwnerID {
				return deny(ReasonNotOwner)
			}
			return allow()
		case ActionRespond:
			if !actor.Authenticated || actor.Role != RoleAgent {
				return deny(ReasonAgentRequired)
			}
			if res == nil || !sameAgent(actor.AgentID, res.AgentID) {
				return deny(ReasonNotListingAgent)
			}
			return allow()
		}

	case ClassAgent:
		switch action {
		case ActionUpdate, ActionDelete:
			// Rule 6: an agent record belongs to its user.
			if !actor.Authenticated || res == nil || actor.UserID != res.OwnerID {
				return deny(ReasonNotOwner)
			}
			return allow()
		}
	}

	// Unmatched combination.
	return deny(ReasonUnauthorized)
}

func sameAgent(a, b *uint) bool {
	return a != nil && b != nil && *a == *b
}
