package enums

import "fmt"

// GroupStatus represents the canonical group_status enum in Postgres.
type GroupStatus string

const (
	GroupStatusActive GroupStatus = "active"
	GroupStatusClosed GroupStatus = "closed"
)

var validGroupStatuses = []GroupStatus{
	GroupStatusActive,
	GroupStatusClosed,
}

// String implements fmt.Stringer.
func (s GroupStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known GroupStatus.
func (s GroupStatus) IsValid() bool {
	for _, candidate := range validGroupStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseGroupStatus converts raw input into a GroupStatus.
func ParseGroupStatus(value string) (GroupStatus, error) {
	for _, candidate := range validGroupStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid group status %q", value)
}

// GroupRole distinguishes a user's relation to a group in listing queries.
type GroupRole string

const (
	GroupRoleCreator GroupRole = "creator"
	GroupRoleMember  GroupRole = "member"
)

var validGroupRoles = []GroupRole{
	GroupRoleCreator,
	GroupRoleMember,
}

// IsValid reports whether the value is a known GroupRole.
func (r GroupRole) IsValid() bool {
	for _, candidate := range validGroupRoles {
		if candidate == r {
			return true
		}
	}
	return false
}
