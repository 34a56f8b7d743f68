package membership

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
	"github.com/AntonStoeckl/bookcircle/circulation/shell"
)

const (
	logMsgRegistered    = "member registered"
	logMsgAdminAction   = "admin action"
	logAttrMemberID     = "member_id"
	logAttrAdminID      = "admin_id"
	logAttrAction       = "action"
	logAttrStatus       = "status"
	defaultAdminLogSize = 50
)

// Registration is what a person tells about themselves when joining.
type Registration struct {
	MemberID    uuid.UUID
	DisplayName string
	Handle      string
	Area        string
	OccurredAt  time.Time
}

// Store is the storage a Service works on.
type Store interface {
	shell.MemberRepository
	shell.AdminLog
	shell.AdminActions
}

// Service runs membership use cases. Changes to one member are serialized in-process.
// A status change and its admin log entry are written in one unit of work.
type Service struct {
	store      Store
	dispatcher *shell.NotificationDispatcher
	locks      *shell.KeyedLocks
	adminIDs   []core.MemberIDString
	logger     shell.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithBootstrapAdmins makes the given members approved admins on registration.
func WithBootstrapAdmins(memberIDs ...string) Option {
	return func(s *Service) {
		s.adminIDs = append(s.adminIDs, memberIDs...)
	}
}

// WithDispatcher sets where membership notifications go.
func WithDispatcher(dispatcher *shell.NotificationDispatcher) Option {
	return func(s *Service) {
		s.dispatcher = dispatcher
	}
}

// WithLogger logs registrations and admin actions at info level.
func WithLogger(logger shell.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a Service.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		locks: shell.NewKeyedLocks(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Register adds a pending member, or an approved admin for bootstrap ids.
// Registering a known member again returns the stored member unchanged.
func (s *Service) Register(ctx context.Context, registration Registration) (core.Member, error) {
	memberID := registration.MemberID.String()

	displayName := strings.TrimSpace(registration.DisplayName)
	if displayName == "" {
		return core.Member{}, core.Reject(core.ErrInvalidInput, failureReasonEmptyDisplayName)
	}

	unlock := s.locks.Lock(memberID)
	defer unlock()

	existing, found, err := s.store.GetMember(ctx, memberID)
	if err != nil {
		return core.Member{}, shell.StorageError(err)
	}

	if found {
		return existing, nil
	}

	member := core.Member{
		ID:           memberID,
		DisplayName:  displayName,
		Handle:       strings.TrimSpace(registration.Handle),
		Area:         strings.TrimSpace(registration.Area),
		Status:       core.MemberPending,
		RegisteredAt: core.ToOccurredAt(registration.OccurredAt),
	}

	if slices.Contains(s.adminIDs, memberID) {
		member.Status = core.MemberApproved
		member.IsAdmin = true
	}

	if err = s.store.InsertMember(ctx, member); err != nil {
		return core.Member{}, shell.StorageError(err)
	}

	s.logInfo(logMsgRegistered, logAttrMemberID, memberID, logAttrStatus, string(member.Status))

	if member.Status == core.MemberPending {
		s.notifyAdmins(ctx, member)
	}

	return member, nil
}

// Approve lets a member take part in circulation.
func (s *Service) Approve(ctx context.Context, adminID, memberID uuid.UUID, at time.Time) (core.Member, error) {
	return s.act(ctx, adminID.String(), memberID.String(), ActionApprove, at)
}

// Reject refuses a registration. The member ends up blocked.
func (s *Service) Reject(ctx context.Context, adminID, memberID uuid.UUID, at time.Time) (core.Member, error) {
	return s.act(ctx, adminID.String(), memberID.String(), ActionReject, at)
}

// Block excludes a member from circulation.
func (s *Service) Block(ctx context.Context, adminID, memberID uuid.UUID, at time.Time) (core.Member, error) {
	return s.act(ctx, adminID.String(), memberID.String(), ActionBlock, at)
}

// Promote makes a member an approved admin.
func (s *Service) Promote(ctx context.Context, adminID, memberID uuid.UUID, at time.Time) (core.Member, error) {
	return s.act(ctx, adminID.String(), memberID.String(), ActionPromote, at)
}

// RequireApproved returns the member if they may take part in circulation.
func (s *Service) RequireApproved(ctx context.Context, memberID core.MemberIDString) (core.Member, error) {
	member, err := s.get(ctx, memberID)
	if err != nil {
		return core.Member{}, err
	}

	if !member.IsApproved() {
		return core.Member{}, core.Reject(core.ErrMemberNotApproved, "membership status is "+string(member.Status))
	}

	return member, nil
}

// RequireAdmin returns the member if they are an approved admin.
func (s *Service) RequireAdmin(ctx context.Context, memberID core.MemberIDString) (core.Member, error) {
	member, err := s.RequireApproved(ctx, memberID)
	if err != nil {
		return core.Member{}, err
	}

	if !member.IsAdmin {
		return core.Member{}, core.Reject(core.ErrNotAdmin, failureReasonActorNotAdmin)
	}

	return member, nil
}

// Members lists all members, optionally only those with the given status.
func (s *Service) Members(ctx context.Context, status ...core.MemberStatus) ([]core.Member, error) {
	members, err := s.store.ListMembers(ctx)
	if err != nil {
		return nil, shell.StorageError(err)
	}

	if len(status) == 0 {
		return members, nil
	}

	return slices.DeleteFunc(members, func(m core.Member) bool {
		return !slices.Contains(status, m.Status)
	}), nil
}

// AdminLog returns the newest entries of the admin log to an admin. Non-positive limits use a default.
func (s *Service) AdminLog(ctx context.Context, adminID core.MemberIDString, limit int) ([]core.AdminLogEntry, error) {
	if _, err := s.RequireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultAdminLogSize
	}

	entries, err := s.store.ListAdminLog(ctx, limit)
	if err != nil {
		return nil, shell.StorageError(err)
	}

	return entries, nil
}

func (s *Service) act(ctx context.Context, adminID, memberID core.MemberIDString, action Action, at time.Time) (core.Member, error) {
	admin, err := s.get(ctx, adminID)
	if err != nil {
		return core.Member{}, err
	}

	unlock := s.locks.Lock(memberID)
	defer unlock()

	var (
		decision Decision
		entry    core.AdminLogEntry
	)

	err = s.store.WithinAdminAction(ctx, func(ctx context.Context, scope shell.AdminScope) error {
		target, found, getErr := scope.GetMember(ctx, memberID)
		if getErr != nil {
			return getErr
		}

		if !found {
			return core.Reject(core.ErrNoSuchMember, "member "+memberID+" is not registered")
		}

		var decideErr error
		if decision, decideErr = DecideAdminAction(admin, target, action); decideErr != nil {
			return decideErr
		}

		if !decision.Changed {
			return nil
		}

		if updateErr := scope.UpdateMember(ctx, decision.Member); updateErr != nil {
			return updateErr
		}

		entry = core.AdminLogEntry{
			AdminID:   adminID,
			Action:    string(action),
			Details:   fmt.Sprintf("member %s (%s): %s -> %s", memberID, target.DisplayName, target.Status, decision.Member.Status),
			CreatedAt: core.ToOccurredAt(at),
		}

		return scope.AppendAdminLog(ctx, entry)
	})
	if err != nil {
		return core.Member{}, shell.StorageError(err)
	}

	if !decision.Changed {
		return decision.Member, nil
	}

	s.logInfo(logMsgAdminAction, logAttrAdminID, adminID, logAttrAction, string(action), logAttrMemberID, memberID)

	s.dispatcher.Dispatch(ctx, []core.Notification{{
		RecipientID: memberID,
		Topic:       core.TopicMembershipChanged,
		ActorID:     adminID,
		OccurredAt:  entry.CreatedAt,
	}})

	return decision.Member, nil
}

func (s *Service) get(ctx context.Context, memberID core.MemberIDString) (core.Member, error) {
	member, found, err := s.store.GetMember(ctx, memberID)
	if err != nil {
		return core.Member{}, shell.StorageError(err)
	}

	if !found {
		return core.Member{}, core.Reject(core.ErrNoSuchMember, "member "+memberID+" is not registered")
	}

	return member, nil
}

func (s *Service) notifyAdmins(ctx context.Context, registered core.Member) {
	members, err := s.store.ListMembers(ctx)
	if err != nil {
		return
	}

	var notifications []core.Notification

	for _, m := range members {
		if m.IsAdmin && m.IsApproved() {
			notifications = append(notifications, core.Notification{
				RecipientID: m.ID,
				Topic:       core.TopicMemberRegistered,
				ActorID:     registered.ID,
				OccurredAt:  registered.RegisteredAt,
			})
		}
	}

	s.dispatcher.Dispatch(ctx, notifications)
}

func (s *Service) logInfo(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}
