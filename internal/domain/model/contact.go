package model

import "strings"

// Relationship categories enabled by default when a dispatch request does not
// name its own set.
const (
	RelationshipCounselor = "counselor"
	RelationshipParent    = "parent"
	RelationshipFriend    = "friend"
)

// DefaultRelationships returns the relationship categories notified when the
// caller does not supply an explicit filter.
func DefaultRelationships() []string {
	return []string{RelationshipCounselor, RelationshipParent, RelationshipFriend}
}

// NormalizeRelationship converts a relationship value to its canonical
// comparison form. Relationship values arrive from loosely-typed upstream
// sources, so normalization happens once at the boundary rather than inside
// filtering logic.
func NormalizeRelationship(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// Contact is a person eligible to be notified about a subject.
type Contact struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone,omitempty"`
}

// Deliverable reports whether the contact can actually receive a message.
// A contact with no delivery address is never selected, regardless of
// relationship.
func (c Contact) Deliverable() bool {
	return strings.TrimSpace(c.Email) != ""
}

// Subject is the person being monitored, whose contacts receive alerts.
// Subjects are produced by a ContactDirectory lookup at dispatch time and are
// treated as immutable for the duration of one dispatch.
type Subject struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email,omitempty"`
	Contacts []Contact `json:"contacts"`
}

// Normalize trims identity fields. Missing optional fields stay empty
// strings; a subject is never rejected for incomplete directory data.
func (s *Subject) Normalize() {
	s.ID = strings.TrimSpace(s.ID)
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.TrimSpace(s.Email)
}
