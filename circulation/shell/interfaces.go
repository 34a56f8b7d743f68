package shell

import (
	"context"

	"github.com/AntonStoeckl/bookcircle/circulation/booking"
	"github.com/AntonStoeckl/bookcircle/circulation/core"
	"github.com/AntonStoeckl/bookcircle/circulation/waitlist"
	"github.com/AntonStoeckl/bookcircle/ledger"
)

// Command is implemented by every command type. CommandType names it for observability and routing.
type Command interface {
	CommandType() string
}

// CoreCommandHandler processes one command type and reports its outcome.
type CoreCommandHandler[C Command] interface {
	Handle(ctx context.Context, command C) (HandlerResult, error)
}

// Query is implemented by every query type.
type Query interface {
	QueryType() string
}

// CoreQueryHandler answers one query type.
type CoreQueryHandler[Q Query, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}

// Store opens per-item units of work.
//
// WithinItem runs fn against a scope whose writes become visible atomically when fn returns nil,
// and are discarded when it returns an error. Writes are rejected with ledger.ErrConcurrencyConflict
// when another unit of work changed the item in between.
type Store interface {
	WithinItem(ctx context.Context, itemID core.ItemIDString, fn func(ctx context.Context, scope ItemScope) error) error
}

// ItemScope is the consistency unit of one item: the item row, its waitlist, its bookings and
// the ledger appends caused by it.
type ItemScope interface {
	LoadItem(ctx context.Context) (core.Item, bool, error)
	CreateItem(ctx context.Context, item core.Item) error
	// SaveItem stores item, whose Version must be exactly one above the stored version.
	SaveItem(ctx context.Context, item core.Item) error
	// DeleteItem removes the item with its waitlist and bookings if it still has expectedVersion.
	DeleteItem(ctx context.Context, expectedVersion uint) error
	Waitlist() waitlist.Repository
	Bookings() booking.Repository
	Ledger() ledger.Appender
}

// ItemReader is the read side over items, for queries.
type ItemReader interface {
	GetItem(ctx context.Context, itemID core.ItemIDString) (core.Item, bool, error)
	ListItems(ctx context.Context) ([]core.Item, error)
	WaitlistOf(ctx context.Context, itemID core.ItemIDString) ([]core.WaitlistEntry, error)
	PendingBookingsOf(ctx context.Context, itemID core.ItemIDString) ([]core.BookingRequest, error)
}

// MemberRepository stores community members. Status changes go through an AdminScope.
type MemberRepository interface {
	// InsertMember fails with core.ErrMemberAlreadyExists for a known id.
	InsertMember(ctx context.Context, member core.Member) error
	GetMember(ctx context.Context, memberID core.MemberIDString) (core.Member, bool, error)
	ListMembers(ctx context.Context) ([]core.Member, error)
}

// ReviewRepository stores reviews. Deleting one is an admin action, see AdminScope.
type ReviewRepository interface {
	AddReview(ctx context.Context, review core.Review) error
	// ListReviews returns the reviews of an item, newest first.
	ListReviews(ctx context.Context, itemID core.ItemIDString) ([]core.Review, error)
}

// AdminLog is the read side of the append-only record of admin actions.
type AdminLog interface {
	// ListAdminLog returns up to limit entries, newest first.
	ListAdminLog(ctx context.Context, limit int) ([]core.AdminLogEntry, error)
}

// AdminActions opens the unit of work of one admin action.
//
// WithinAdminAction runs fn against a scope whose writes, the admin log entry included, become visible
// together when fn returns nil. When fn returns an error nothing is written.
type AdminActions interface {
	WithinAdminAction(ctx context.Context, fn func(ctx context.Context, scope AdminScope) error) error
}

// AdminScope is what one admin action may change: a member or a review, plus the log entry recording it.
type AdminScope interface {
	// GetMember sees the writes of this scope.
	GetMember(ctx context.Context, memberID core.MemberIDString) (core.Member, bool, error)
	// UpdateMember fails with core.ErrNoSuchMember for an unknown id.
	UpdateMember(ctx context.Context, member core.Member) error
	// DeleteReview reports whether the review existed.
	DeleteReview(ctx context.Context, reviewID string) (bool, error)
	AppendAdminLog(ctx context.Context, entry core.AdminLogEntry) error
}

// Notifier delivers one notification. Errors are logged by the dispatcher and never retried.
type Notifier interface {
	Notify(ctx context.Context, notification core.Notification) error
}

// ItemRunner runs a decision inside the serialized scope of one item.
type ItemRunner interface {
	Run(ctx context.Context, itemID core.ItemIDString, decide DecideFunc) (HandlerResult, error)
}
