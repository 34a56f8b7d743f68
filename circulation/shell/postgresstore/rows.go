package postgresstore

import (
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
	"github.com/AntonStoeckl/bookcircle/internal/adapters"
)

const (
	dialectPostgres = "postgres"
	castJsonb       = "?::jsonb"
	castTimestamp   = "?::timestamp with time zone"

	tableMembers  = "members"
	tableItems    = "items"
	tableWaitlist = "waitlist_entries"
	tableBookings = "booking_requests"
	tableReviews  = "reviews"
	tableAdminLog = "admin_log"

	colID              = "id"
	colOwnerID         = "owner_id"
	colHolderID        = "holder_id"
	colTitle           = "title"
	colAuthor          = "author"
	colGenre           = "genre"
	colTags            = "tags"
	colAgeRating       = "age_rating"
	colDescription     = "description"
	colCoverRef        = "cover_ref"
	colCode            = "code"
	colVisibility      = "visibility"
	colRecallRequested = "recall_requested"
	colVersion         = "version"
	colAddedAt         = "added_at"
	colItemID          = "item_id"
	colMemberID        = "member_id"
	colJoinedAt        = "joined_at"
	colPosition        = "position"
	colRequesterID     = "requester_id"
	colStatus          = "status"
	colCreatedAt       = "created_at"
	colResolvedAt      = "resolved_at"
	colDisplayName     = "display_name"
	colHandle          = "handle"
	colArea            = "area"
	colIsAdmin         = "is_admin"
	colRegisteredAt    = "registered_at"
	colAuthorID        = "author_id"
	colText            = "text"
	colAdminID         = "admin_id"
	colAction          = "action"
	colDetails         = "details"
)

// ErrDecodingTagsFailed is returned when the stored tags of an item are not a JSON array of strings.
var ErrDecodingTagsFailed = errors.New("decoding item tags failed")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func dialect() goqu.DialectWrapper {
	return goqu.Dialect(dialectPostgres)
}

func timestamp(t time.Time) any {
	return goqu.L(castTimestamp, t.UTC())
}

// nullableTimestamp maps the zero time to NULL.
func nullableTimestamp(t time.Time) any {
	if t.IsZero() {
		return nil
	}

	return timestamp(t)
}

// nullableString maps the empty string to NULL.
func nullableString(s string) any {
	if s == "" {
		return nil
	}

	return s
}

func itemColumns() []any {
	return []any{
		colID,
		colOwnerID,
		goqu.COALESCE(goqu.C(colHolderID), "").As(colHolderID),
		colTitle,
		colAuthor,
		colGenre,
		colTags,
		colAgeRating,
		colDescription,
		colCoverRef,
		colCode,
		colVisibility,
		colRecallRequested,
		colVersion,
		colAddedAt,
	}
}

func scanItem(rows adapters.DBRows) (core.Item, error) {
	var (
		item       core.Item
		tags       []byte
		visibility string
	)

	err := rows.Scan(
		&item.ID,
		&item.OwnerID,
		&item.HolderID,
		&item.Metadata.Title,
		&item.Metadata.Author,
		&item.Metadata.Genre,
		&tags,
		&item.Metadata.AgeRating,
		&item.Metadata.Description,
		&item.Metadata.CoverRef,
		&item.Metadata.Code,
		&visibility,
		&item.RecallRequested,
		&item.Version,
		&item.AddedAt,
	)
	if err != nil {
		return core.Item{}, err
	}

	item.Visibility = core.Visibility(visibility)

	decoded, decodeErr := decodeTags(tags)
	if decodeErr != nil {
		return core.Item{}, decodeErr
	}

	item.Metadata.Tags = decoded

	return item, nil
}

// itemRecord holds all columns of an item except its id.
func itemRecord(item core.Item) (goqu.Record, error) {
	tags := item.Metadata.Tags
	if tags == nil {
		tags = []string{}
	}

	encoded, err := json.Marshal(tags)
	if err != nil {
		return nil, err
	}

	return goqu.Record{
		colOwnerID:         item.OwnerID,
		colHolderID:        nullableString(item.HolderID),
		colTitle:           item.Metadata.Title,
		colAuthor:          item.Metadata.Author,
		colGenre:           item.Metadata.Genre,
		colTags:            goqu.L(castJsonb, string(encoded)),
		colAgeRating:       item.Metadata.AgeRating,
		colDescription:     item.Metadata.Description,
		colCoverRef:        item.Metadata.CoverRef,
		colCode:            item.Metadata.Code,
		colVisibility:      string(item.Visibility),
		colRecallRequested: item.RecallRequested,
		colVersion:         item.Version,
		colAddedAt:         timestamp(item.AddedAt),
	}, nil
}

func decodeTags(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return []string{}, nil
	}

	tags := make([]string, 0)
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil, errors.Join(ErrDecodingTagsFailed, err)
	}

	return tags, nil
}

func bookingSelect() *goqu.SelectDataset {
	return dialect().
		From(tableBookings).
		Select(colID, colItemID, colRequesterID, colStatus, colCreatedAt, colResolvedAt)
}

func scanBooking(rows adapters.DBRows) (core.BookingRequest, error) {
	var (
		b          core.BookingRequest
		status     string
		resolvedAt *time.Time
	)

	if err := rows.Scan(&b.ID, &b.ItemID, &b.RequesterID, &status, &b.CreatedAt, &resolvedAt); err != nil {
		return core.BookingRequest{}, err
	}

	b.Status = core.BookingStatus(status)
	if resolvedAt != nil {
		b.ResolvedAt = *resolvedAt
	}

	return b, nil
}

func memberColumns() []any {
	return []any{colID, colDisplayName, colHandle, colArea, colStatus, colIsAdmin, colRegisteredAt}
}

func scanMember(rows adapters.DBRows) (core.Member, error) {
	var (
		m      core.Member
		status string
	)

	if err := rows.Scan(&m.ID, &m.DisplayName, &m.Handle, &m.Area, &status, &m.IsAdmin, &m.RegisteredAt); err != nil {
		return core.Member{}, err
	}

	m.Status = core.MemberStatus(status)

	return m, nil
}

func memberRecord(m core.Member) goqu.Record {
	return goqu.Record{
		colDisplayName:  m.DisplayName,
		colHandle:       m.Handle,
		colArea:         m.Area,
		colStatus:       string(m.Status),
		colIsAdmin:      m.IsAdmin,
		colRegisteredAt: timestamp(m.RegisteredAt),
	}
}
