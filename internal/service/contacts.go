package service

import (
	"github.com/brightside-platform/alert-service/internal/domain/model"
)

// ContactSelector filters a subject's contacts down to the ones an alert
// should reach. It is a pure filter: no I/O, no mutation of its inputs.
type ContactSelector struct {
	defaults []string
}

// NewContactSelector creates a selector with the given default relationship
// categories. An empty default set falls back to the platform defaults.
func NewContactSelector(defaults []string) *ContactSelector {
	if len(defaults) == 0 {
		defaults = model.DefaultRelationships()
	}
	return &ContactSelector{defaults: defaults}
}

// Filter returns the contacts whose relationship is in the allowed set and
// who have a delivery address, preserving the input order. Order matters
// downstream: the rendered alert surfaces "your relationship" using the
// first eligible contact, which is a deliberate order-dependent choice.
//
// An absent or explicitly empty allowed set means the configured defaults.
// An empty result is not an error; the dispatcher reads it as "nothing to
// send".
func (s *ContactSelector) Filter(contacts []model.Contact, allowed []string) []model.Contact {
	if len(allowed) == 0 {
		allowed = s.defaults
	}

	allowedSet := make(map[string]struct{}, len(allowed))
	for _, rel := range allowed {
		normalized := model.NormalizeRelationship(rel)
		if normalized == "" {
			continue
		}
		allowedSet[normalized] = struct{}{}
	}

	var eligible []model.Contact
	for _, c := range contacts {
		if !c.Deliverable() {
			continue
		}
		if _, ok := allowedSet[model.NormalizeRelationship(c.Relationship)]; !ok {
			continue
		}
		eligible = append(eligible, c)
	}
	return eligible
}
