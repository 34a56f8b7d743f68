package core

import (
	"time"
)

// Review is a member's text about an item. It is independent of circulation state.
type Review struct {
	ID        string
	ItemID    ItemIDString
	AuthorID  MemberIDString
	Text      string
	CreatedAt time.Time
}

// AdminLogEntry records one admin action. The log is append only.
type AdminLogEntry struct {
	AdminID   MemberIDString
	Action    string
	Details   string
	CreatedAt time.Time
}
