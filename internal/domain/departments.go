package domain

import "strings"

// Department identifies an admin pool. DepartmentAny is a guard-only
// value accepting any admin regardless of association tags.
type Department string

const (
	DepartmentIT          Department = "IT"
	DepartmentMaintenance Department = "Maintenance"
	DepartmentManagement  Department = "Management"
	DepartmentAny         Department = "AnyAdmin"
)

// ValidTicketDepartment reports whether the value may appear on a ticket.
func ValidTicketDepartment(d Department) bool {
	switch d {
	case DepartmentIT, DepartmentMaintenance, DepartmentManagement:
		return true
	}
	return false
}

// departmentTags maps each department to its association-tag
// allow-list. The table is carried over verbatim from the deployed
// configuration, including the lime/lima pair.
var departmentTags = map[Department][]string{
	DepartmentIT:          {"bravo", "echo", "hotel", "india", "kilo", "lima", "november", "oscar"},
	DepartmentMaintenance: {"delta", "golf", "india", "juliett", "lime", "mike", "november", "oscar"},
	DepartmentManagement:  {"charlie", "foxtrot", "hotel", "juliett", "kilo", "mike", "november", "oscar"},
}

// DepartmentTags returns a copy of the allow-list for the department.
func DepartmentTags(d Department) []string {
	tags := departmentTags[d]
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}

// TagSet is a user's association tags, computed once from the
// comma-separated associations string.
type TagSet map[string]struct{}

// ParseAssociations splits a comma-separated tag string into a set.
// Blank entries are dropped.
func ParseAssociations(associations string) TagSet {
	set := make(TagSet)
	for _, part := range strings.Split(associations, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			set[tag] = struct{}{}
		}
	}
	return set
}

// Empty reports whether the set has no tags.
func (s TagSet) Empty() bool {
	return len(s) == 0
}

// MemberOf reports whether any tag in the set appears in the
// department's allow-list. DepartmentAny always matches.
func (s TagSet) MemberOf(d Department) bool {
	if d == DepartmentAny {
		return true
	}
	for _, tag := range departmentTags[d] {
		if _, ok := s[tag]; ok {
			return true
		}
	}
	return false
}
