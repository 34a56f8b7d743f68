package memorystore

import (
	"context"
	"slices"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
	"github.com/AntonStoeckl/bookcircle/circulation/shell"
)

// WithinAdminAction buffers the writes of fn and applies them together when fn returns nil.
func (s *Store) WithinAdminAction(
	ctx context.Context,
	fn func(ctx context.Context, scope shell.AdminScope) error,
) error {

	if err := ctx.Err(); err != nil {
		return err
	}

	scope := &adminScope{store: s, members: make(map[core.MemberIDString]core.Member)}

	if err := fn(ctx, scope); err != nil {
		return err
	}

	return s.commitAdminAction(scope)
}

func (s *Store) commitAdminAction(scope *adminScope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for memberID := range scope.members {
		if _, exists := s.members[memberID]; !exists {
			return core.ErrNoSuchMember
		}
	}

	for _, reviewID := range scope.deletedReviews {
		if !slices.ContainsFunc(s.reviews, func(r core.Review) bool { return r.ID == reviewID }) {
			return core.Reject(core.ErrNoSuchReview, "review "+reviewID+" was deleted meanwhile")
		}
	}

	for memberID, member := range scope.members {
		s.members[memberID] = member
	}

	s.reviews = slices.DeleteFunc(s.reviews, func(r core.Review) bool {
		return slices.Contains(scope.deletedReviews, r.ID)
	})

	s.adminLog = append(s.adminLog, scope.entries...)

	return nil
}

// adminScope buffers the writes of one admin action.
type adminScope struct {
	store          *Store
	members        map[core.MemberIDString]core.Member
	deletedReviews []string
	entries        []core.AdminLogEntry
}

func (a *adminScope) GetMember(ctx context.Context, memberID core.MemberIDString) (core.Member, bool, error) {
	if member, buffered := a.members[memberID]; buffered {
		return member, true, nil
	}

	return a.store.GetMember(ctx, memberID)
}

func (a *adminScope) UpdateMember(ctx context.Context, member core.Member) error {
	if _, found, _ := a.GetMember(ctx, member.ID); !found {
		return core.ErrNoSuchMember
	}

	a.members[member.ID] = member

	return nil
}

func (a *adminScope) DeleteReview(_ context.Context, reviewID string) (bool, error) {
	if slices.Contains(a.deletedReviews, reviewID) {
		return false, nil
	}

	a.store.mu.RLock()
	exists := slices.ContainsFunc(a.store.reviews, func(r core.Review) bool { return r.ID == reviewID })
	a.store.mu.RUnlock()

	if !exists {
		return false, nil
	}

	a.deletedReviews = append(a.deletedReviews, reviewID)

	return true, nil
}

func (a *adminScope) AppendAdminLog(_ context.Context, entry core.AdminLogEntry) error {
	a.entries = append(a.entries, entry)

	return nil
}
