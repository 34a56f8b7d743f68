package api

import (
	"time"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
	"github.com/AntonStoeckl/bookcircle/circulation/features/query/circulationstats"
	"github.com/AntonStoeckl/bookcircle/circulation/features/query/itemhistory"
	"github.com/AntonStoeckl/bookcircle/circulation/features/query/itemoverview"
	"github.com/AntonStoeckl/bookcircle/circulation/shell"
)

type registerRequest struct {
	DisplayName string `json:"display_name"`
	Handle      string `json:"handle"`
	Area        string `json:"area"`
}

type reviewRequest struct {
	Text string `json:"text"`
}

// CommandResponse reports the outcome of a circulation command.
type CommandResponse struct {
	Command         CommandName `json:"command"`
	Idempotent      bool        `json:"idempotent"`
	Event           string      `json:"event,omitempty"`
	ItemID          string      `json:"item_id,omitempty"`
	BookingID       string      `json:"booking_id,omitempty"`
	NextCandidateID string      `json:"next_candidate_id,omitempty"`
	Notifications   int         `json:"notifications"`
}

func commandResponse(name CommandName, result shell.HandlerResult) CommandResponse {
	response := CommandResponse{
		Command:         name,
		Idempotent:      result.Idempotent,
		NextCandidateID: result.NextCandidateID,
		Notifications:   len(result.Notifications),
	}

	if result.Event != nil {
		response.Event = result.Event.IsEventType()
		response.ItemID = result.Event.AffectsItem()
	}

	if requested, ok := result.Event.(core.ItemRequested); ok {
		response.BookingID = requested.BookingID
	}

	return response
}

// MemberResponse is a community member.
type MemberResponse struct {
	ID           string    `json:"id"`
	DisplayName  string    `json:"display_name"`
	Handle       string    `json:"handle,omitempty"`
	Area         string    `json:"area,omitempty"`
	Status       string    `json:"status"`
	IsAdmin      bool      `json:"is_admin"`
	RegisteredAt time.Time `json:"registered_at"`
}

func memberResponse(m core.Member) MemberResponse {
	return MemberResponse{
		ID:           m.ID,
		DisplayName:  m.DisplayName,
		Handle:       m.Handle,
		Area:         m.Area,
		Status:       string(m.Status),
		IsAdmin:      m.IsAdmin,
		RegisteredAt: m.RegisteredAt,
	}
}

func memberResponses(members []core.Member) []MemberResponse {
	out := make([]MemberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, memberResponse(m))
	}

	return out
}

// AdminLogResponse is one admin log entry.
type AdminLogResponse struct {
	AdminID   string    `json:"admin_id"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"created_at"`
}

func adminLogResponses(entries []core.AdminLogEntry) []AdminLogResponse {
	out := make([]AdminLogResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, AdminLogResponse{AdminID: e.AdminID, Action: e.Action, Details: e.Details, CreatedAt: e.CreatedAt})
	}

	return out
}

// ItemResponse is an item without its circulation details.
type ItemResponse struct {
	ID              string          `json:"id"`
	OwnerID         string          `json:"owner_id"`
	HolderID        string          `json:"holder_id,omitempty"`
	Metadata        MetadataPayload `json:"metadata"`
	Visibility      string          `json:"visibility"`
	RecallRequested bool            `json:"recall_requested"`
	AddedAt         time.Time       `json:"added_at"`
}

func itemResponse(item core.Item) ItemResponse {
	tags := item.Metadata.Tags
	if tags == nil {
		tags = []string{}
	}

	return ItemResponse{
		ID:       item.ID,
		OwnerID:  item.OwnerID,
		HolderID: item.HolderID,
		Metadata: MetadataPayload{
			Title:       item.Metadata.Title,
			Author:      item.Metadata.Author,
			Genre:       item.Metadata.Genre,
			Tags:        tags,
			AgeRating:   item.Metadata.AgeRating,
			Description: item.Metadata.Description,
			CoverRef:    item.Metadata.CoverRef,
			Code:        item.Metadata.Code,
		},
		Visibility:      string(item.Visibility),
		RecallRequested: item.RecallRequested,
		AddedAt:         item.AddedAt,
	}
}

// WaitlistEntryResponse is one queued member.
type WaitlistEntryResponse struct {
	MemberID string    `json:"member_id"`
	Position int       `json:"position"`
	JoinedAt time.Time `json:"joined_at"`
}

// BookingResponse is a pending booking request.
type BookingResponse struct {
	ID          string    `json:"id"`
	RequesterID string    `json:"requester_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// OverviewResponse is the item with its state, waitlist and pending bookings.
type OverviewResponse struct {
	Item            ItemResponse            `json:"item"`
	State           string                  `json:"state"`
	Waitlist        []WaitlistEntryResponse `json:"waitlist"`
	PendingBookings []BookingResponse       `json:"pending_bookings"`
}

// overviewResponse numbers waitlist positions from 1 in queue order.
func overviewResponse(o itemoverview.ItemOverview) OverviewResponse {
	waitlist := make([]WaitlistEntryResponse, 0, len(o.Waitlist))
	for i, e := range o.Waitlist {
		waitlist = append(waitlist, WaitlistEntryResponse{MemberID: e.MemberID, Position: i + 1, JoinedAt: e.JoinedAt})
	}

	bookings := make([]BookingResponse, 0, len(o.PendingBookings))
	for _, b := range o.PendingBookings {
		bookings = append(bookings, BookingResponse{ID: b.ID, RequesterID: b.RequesterID, CreatedAt: b.CreatedAt})
	}

	return OverviewResponse{
		Item:            itemResponse(o.Item),
		State:           o.State.String(),
		Waitlist:        waitlist,
		PendingBookings: bookings,
	}
}

// MovementResponse is one entry of an item's history.
type MovementResponse struct {
	Kind           string    `json:"kind"`
	FromMemberID   string    `json:"from_member_id,omitempty"`
	ToMemberID     string    `json:"to_member_id,omitempty"`
	BookingID      string    `json:"booking_id,omitempty"`
	IsHandover     bool      `json:"is_handover"`
	OccurredAt     time.Time `json:"occurred_at"`
	SequenceNumber uint      `json:"sequence_number"`
}

// HistoryResponse is the movement history of an item.
type HistoryResponse struct {
	ItemID    string             `json:"item_id"`
	Movements []MovementResponse `json:"movements"`
	Count     int                `json:"count"`
}

func historyResponse(h itemhistory.ItemHistory) HistoryResponse {
	movements := make([]MovementResponse, 0, len(h.Entries))
	for _, e := range h.Entries {
		movements = append(movements, MovementResponse{
			Kind:           e.Kind,
			FromMemberID:   e.FromMemberID,
			ToMemberID:     e.ToMemberID,
			BookingID:      e.BookingID,
			IsHandover:     e.IsHandover,
			OccurredAt:     e.OccurredAt,
			SequenceNumber: e.SequenceNumber,
		})
	}

	return HistoryResponse{ItemID: h.ItemID, Movements: movements, Count: h.Count}
}

type itemRankResponse struct {
	ItemID    string `json:"item_id"`
	Title     string `json:"title"`
	Transfers int    `json:"transfers"`
}

type readerRankResponse struct {
	MemberID    string `json:"member_id"`
	DisplayName string `json:"display_name"`
	Received    int    `json:"received"`
}

// StatsResponse is the community-wide circulation summary.
type StatsResponse struct {
	ApprovedMembers int                  `json:"approved_members"`
	Items           int                  `json:"items"`
	Transfers       int                  `json:"transfers"`
	TopItems        []itemRankResponse   `json:"top_items"`
	TopReaders      []readerRankResponse `json:"top_readers"`
}

func statsResponse(s circulationstats.CirculationStats) StatsResponse {
	items := make([]itemRankResponse, 0, len(s.TopItems))
	for _, r := range s.TopItems {
		items = append(items, itemRankResponse{ItemID: r.ItemID, Title: r.Title, Transfers: r.Transfers})
	}

	readers := make([]readerRankResponse, 0, len(s.TopReaders))
	for _, r := range s.TopReaders {
		readers = append(readers, readerRankResponse{MemberID: r.MemberID, DisplayName: r.DisplayName, Received: r.Received})
	}

	return StatsResponse{
		ApprovedMembers: s.ApprovedMembers,
		Items:           s.Items,
		Transfers:       s.Transfers,
		TopItems:        items,
		TopReaders:      readers,
	}
}

// ReviewResponse is a review of an item.
type ReviewResponse struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"item_id"`
	AuthorID  string    `json:"author_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

func reviewResponse(r core.Review) ReviewResponse {
	return ReviewResponse{ID: r.ID, ItemID: r.ItemID, AuthorID: r.AuthorID, Text: r.Text, CreatedAt: r.CreatedAt}
}
