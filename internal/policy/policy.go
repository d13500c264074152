package policy

import (
	"github.com/ritikk978/next-nest/internal/model"
)

// Relationship is how the caller relates to the resource being acted on
type Relationship string

const (
	// RelSelf means the caller is the user the resource belongs to
	RelSelf Relationship = "self"
	// RelOwner means the caller owns the underlying property or record
	RelOwner Relationship = "owner"
	// RelParticipant means the caller is a participant of the resource
	RelParticipant Relationship = "participant"
	// RelAnyone matches every authenticated caller
	RelAnyone Relationship = "anyone"
)

// Action is a named operation on a resource type
type Action string

const (
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionManage Action = "manage"
)

// Rule names which relationships may perform an action. Admins pass
// every rule implicitly and never need listing.
type Rule struct {
	Resource string
	Action   Action
	AllowFor []Relationship
}

// rules is the authorization table. Keeping every grant in one place
// means a reviewer can audit access without reading handler bodies.
var rules = []Rule{
	{Resource: "user", Action: ActionRead, AllowFor: []Relationship{RelAnyone}},
	{Resource: "user", Action: ActionUpdate, AllowFor: []Relationship{RelSelf}},
	{Resource: "user", Action: ActionDelete, AllowFor: []Relationship{RelSelf}},

	{Resource: "property", Action: ActionRead, AllowFor: []Relationship{RelAnyone}},
	{Resource: "property", Action: ActionUpdate, AllowFor: []Relationship{RelOwner}},
	{Resource: "property", Action: ActionDelete, AllowFor: []Relationship{RelOwner}},

	{Resource: "booking", Action: ActionRead, AllowFor: []Relationship{RelSelf, RelOwner}},
	{Resource: "booking", Action: ActionUpdate, AllowFor: []Relationship{RelSelf, RelOwner}},
	{Resource: "booking", Action: ActionDelete, AllowFor: []Relationship{RelSelf}},
	// confirm/complete/no-show belong to the property side
	{Resource: "booking", Action: ActionManage, AllowFor: []Relationship{RelOwner}},

	{Resource: "transaction", Action: ActionRead, AllowFor: []Relationship{RelSelf}},

	{Resource: "roommate_request", Action: ActionRead, AllowFor: []Relationship{RelAnyone}},
	{Resource: "roommate_request", Action: ActionUpdate, AllowFor: []Relationship{RelSelf}},
	{Resource: "roommate_request", Action: ActionDelete, AllowFor: []Relationship{RelSelf}},

	{Resource: "maintenance", Action: ActionRead, AllowFor: []Relationship{RelSelf, RelOwner}},
	{Resource: "maintenance", Action: ActionUpdate, AllowFor: []Relationship{RelSelf, RelOwner}},
	{Resource: "maintenance", Action: ActionDelete, AllowFor: []Relationship{RelSelf}},
	{Resource: "maintenance", Action: ActionManage, AllowFor: []Relationship{RelOwner}},

	{Resource: "conversation", Action: ActionRead, AllowFor: []Relationship{RelParticipant}},
	{Resource: "conversation", Action: ActionUpdate, AllowFor: []Relationship{RelParticipant}},
}

// Allow reports whether a caller with the given role and relationships
// may perform the action. Unknown resource/action pairs deny by default.
func Allow(role model.UserRole, resource string, action Action, rels ...Relationship) bool {
	if role == model.RoleAdmin {
		return true
	}
	for _, r := range rules {
		if r.Resource != resource || r.Action != action {
			continue
		}
		for _, allowed := range r.AllowFor {
			if allowed == RelAnyone {
				return true
			}
			for _, have := range rels {
				if have == allowed {
					return true
				}
			}
		}
		return false
	}
	return false
}

// Relate derives the caller's relationships to a resource from id
// comparisons. ownerID is zero when the resource has no owning side.
func Relate(callerID, subjectID, ownerID uint) []Relationship {
	var rels []Relationship
	if callerID == subjectID {
		rels = append(rels, RelSelf)
	}
	if ownerID != 0 && callerID == ownerID {
		rels = append(rels, RelOwner)
	}
	return rels
}
