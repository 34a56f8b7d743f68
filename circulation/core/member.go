package core

import (
	"time"
)

// MemberStatus is the membership status of a Member.
type MemberStatus string

const (
	MemberPending  MemberStatus = "pending"
	MemberApproved MemberStatus = "approved"
	MemberBlocked  MemberStatus = "blocked"
)

// Member is a person in the community. Status changes only through admin actions or the admin bootstrap.
type Member struct {
	ID           MemberIDString
	DisplayName  string
	Handle       string
	Area         string
	Status       MemberStatus
	IsAdmin      bool
	RegisteredAt time.Time
}

// IsApproved tells whether the member may take part in circulation.
func (m Member) IsApproved() bool {
	return m.Status == MemberApproved
}
