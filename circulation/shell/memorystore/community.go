package memorystore

import (
	"context"
	"slices"
	"strings"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
	"github.com/AntonStoeckl/bookcircle/circulation/shell"
)

// InsertMember stores a new member.
func (s *Store) InsertMember(_ context.Context, member core.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.members[member.ID]; exists {
		return core.ErrMemberAlreadyExists
	}

	s.members[member.ID] = member

	return nil
}

// GetMember returns a member.
func (s *Store) GetMember(_ context.Context, memberID core.MemberIDString) (core.Member, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	member, found := s.members[memberID]

	return member, found, nil
}

// ListMembers returns all members ordered by registration time.
func (s *Store) ListMembers(context.Context) ([]core.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	members := make([]core.Member, 0, len(s.members))
	for _, m := range s.members {
		members = append(members, m)
	}

	slices.SortFunc(members, func(a, b core.Member) int {
		if c := a.RegisteredAt.Compare(b.RegisteredAt); c != 0 {
			return c
		}

		return strings.Compare(a.ID, b.ID)
	})

	return members, nil
}

// AddReview stores a review.
func (s *Store) AddReview(_ context.Context, review core.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reviews = append(s.reviews, review)

	return nil
}

// ListReviews returns the reviews of an item, newest first.
func (s *Store) ListReviews(_ context.Context, itemID core.ItemIDString) ([]core.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reviews := make([]core.Review, 0)
	for i := len(s.reviews) - 1; i >= 0; i-- {
		if s.reviews[i].ItemID == itemID {
			reviews = append(reviews, s.reviews[i])
		}
	}

	slices.SortStableFunc(reviews, func(a, b core.Review) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return reviews, nil
}

// ListAdminLog returns up to limit entries, newest first.
func (s *Store) ListAdminLog(_ context.Context, limit int) ([]core.AdminLogEntry, error) {
	if limit <= 0 {
		return []core.AdminLogEntry{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]core.AdminLogEntry, 0, min(limit, len(s.adminLog)))
	for i := len(s.adminLog) - 1; i >= 0 && len(entries) < limit; i-- {
		entries = append(entries, s.adminLog[i])
	}

	return entries, nil
}

var (
	_ shell.MemberRepository = (*Store)(nil)
	_ shell.ReviewRepository = (*Store)(nil)
	_ shell.AdminLog         = (*Store)(nil)
	_ shell.AdminActions     = (*Store)(nil)
)
