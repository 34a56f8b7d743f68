package api

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
	"github.com/AntonStoeckl/bookcircle/circulation/features/command/additem"
	"github.com/AntonStoeckl/bookcircle/circulation/features/command/cancelrecall"
	"github.com/AntonStoeckl/bookcircle/circulation/features/command/changevisibility"
	"github.com/AntonStoeckl/bookcircle/circulation/features/command/confirmreturn"
	"github.com/AntonStoeckl/bookcircle/circulation/features/command/confirmtransfer"
	"github.com/AntonStoeckl/bookcircle/circulation/features/command/edititem"
	"github.com/AntonStoeckl/bookcircle/circulation/features/command/initiatereturn"
	"github.com/AntonStoeckl/bookcircle/circulation/features/command/joinwaitlist"
	"github.com/AntonStoeckl/bookcircle/circulation/features/command/leavewaitlist"
	"github.com/AntonStoeckl/bookcircle/circulation/features/command/peerhandover"
	"github.com/AntonStoeckl/bookcircle/circulation/features/command/rejectrequest"
	"github.com/AntonStoeckl/bookcircle/circulation/features/command/removeitem"
	"github.com/AntonStoeckl/bookcircle/circulation/features/command/requestitem"
	"github.com/AntonStoeckl/bookcircle/circulation/features/command/requestrecall"
	"github.com/AntonStoeckl/bookcircle/circulation/features/command/skipturn"
	"github.com/AntonStoeckl/bookcircle/circulation/shell"
)

// CommandName identifies a circulation command on the HTTP surface.
type CommandName string

const (
	CommandAddItem          CommandName = "add_item"
	CommandEditItem         CommandName = "edit_item"
	CommandChangeVisibility CommandName = "change_visibility"
	CommandRemoveItem       CommandName = "remove_item"
	CommandRequestItem      CommandName = "request_item"
	CommandConfirmTransfer  CommandName = "confirm_transfer"
	CommandRejectRequest    CommandName = "reject_request"
	CommandRequestRecall    CommandName = "request_recall"
	CommandCancelRecall     CommandName = "cancel_recall"
	CommandInitiateReturn   CommandName = "initiate_return"
	CommandConfirmReturn    CommandName = "confirm_return"
	CommandJoinWaitlist     CommandName = "join_waitlist"
	CommandLeaveWaitlist    CommandName = "leave_waitlist"
	CommandSkipTurn         CommandName = "skip_turn"
	CommandPeerHandover     CommandName = "peer_handover"
)

var (
	ErrUnknownCommand   = errors.New("unknown command")
	ErrMissingHandler   = errors.New("missing command handler")
	ErrMalformedRequest = errors.New("malformed request")
)

// MetadataPayload is the descriptive part of an item as sent by clients.
type MetadataPayload struct {
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Genre       string   `json:"genre"`
	Tags        []string `json:"tags"`
	AgeRating   string   `json:"age_rating"`
	Description string   `json:"description"`
	CoverRef    string   `json:"cover_ref"`
	Code        string   `json:"code"`
}

func (m MetadataPayload) toCore() core.ItemMetadata {
	return core.ItemMetadata{
		Title:       m.Title,
		Author:      m.Author,
		Genre:       m.Genre,
		Tags:        m.Tags,
		AgeRating:   m.AgeRating,
		Description: m.Description,
		CoverRef:    m.CoverRef,
		Code:        m.Code,
	}
}

// Payload carries the arguments of any command. Which fields are required depends on the command.
type Payload struct {
	ItemID      uuid.UUID       `json:"item_id"`
	RecipientID uuid.UUID       `json:"recipient_id"`
	RequesterID uuid.UUID       `json:"requester_id"`
	Visibility  string          `json:"visibility"`
	Metadata    MetadataPayload `json:"metadata"`
}

// Handlers holds one handler per command. All of them are required.
type Handlers struct {
	AddItem          shell.CoreCommandHandler[additem.Command]
	EditItem         shell.CoreCommandHandler[edititem.Command]
	ChangeVisibility shell.CoreCommandHandler[changevisibility.Command]
	RemoveItem       shell.CoreCommandHandler[removeitem.Command]
	RequestItem      shell.CoreCommandHandler[requestitem.Command]
	ConfirmTransfer  shell.CoreCommandHandler[confirmtransfer.Command]
	RejectRequest    shell.CoreCommandHandler[rejectrequest.Command]
	RequestRecall    shell.CoreCommandHandler[requestrecall.Command]
	CancelRecall     shell.CoreCommandHandler[cancelrecall.Command]
	InitiateReturn   shell.CoreCommandHandler[initiatereturn.Command]
	ConfirmReturn    shell.CoreCommandHandler[confirmreturn.Command]
	JoinWaitlist     shell.CoreCommandHandler[joinwaitlist.Command]
	LeaveWaitlist    shell.CoreCommandHandler[leavewaitlist.Command]
	SkipTurn         shell.CoreCommandHandler[skipturn.Command]
	PeerHandover     shell.CoreCommandHandler[peerhandover.Command]
}

// ApprovalGuard resolves the acting member. membership.Service implements it.
type ApprovalGuard interface {
	RequireApproved(ctx context.Context, memberID core.MemberIDString) (core.Member, error)
}

// dispatchFunc builds the typed command from the payload and runs its handler.
type dispatchFunc func(ctx context.Context, actor core.Member, actorID uuid.UUID, p Payload, at time.Time) (shell.HandlerResult, error)

// Dispatcher routes command names to typed handlers. The set of names is fixed at construction.
type Dispatcher struct {
	guard ApprovalGuard
	table map[CommandName]dispatchFunc
}

// NewDispatcher creates a Dispatcher. It fails when a handler is missing.
func NewDispatcher(handlers Handlers, guard ApprovalGuard) (*Dispatcher, error) {
	if guard == nil {
		return nil, fmt.Errorf("%w: approval guard", ErrMissingHandler)
	}

	table := map[CommandName]dispatchFunc{
		CommandAddItem:          addItem(handlers.AddItem),
		CommandEditItem:         editItem(handlers.EditItem),
		CommandChangeVisibility: changeVisibility(handlers.ChangeVisibility),
		CommandRemoveItem:       removeItem(handlers.RemoveItem),
		CommandRequestItem:      itemOnly(handlers.RequestItem, requestitem.BuildCommand),
		CommandConfirmTransfer:  confirmTransfer(handlers.ConfirmTransfer),
		CommandRejectRequest:    rejectRequest(handlers.RejectRequest),
		CommandRequestRecall:    itemOnly(handlers.RequestRecall, requestrecall.BuildCommand),
		CommandCancelRecall:     itemOnly(handlers.CancelRecall, cancelrecall.BuildCommand),
		CommandInitiateReturn:   itemOnly(handlers.InitiateReturn, initiatereturn.BuildCommand),
		CommandConfirmReturn:    itemOnly(handlers.ConfirmReturn, confirmreturn.BuildCommand),
		CommandJoinWaitlist:     itemOnly(handlers.JoinWaitlist, joinwaitlist.BuildCommand),
		CommandLeaveWaitlist:    itemOnly(handlers.LeaveWaitlist, leavewaitlist.BuildCommand),
		CommandSkipTurn:         itemOnly(handlers.SkipTurn, skipturn.BuildCommand),
		CommandPeerHandover:     peerHandover(handlers.PeerHandover),
	}

	for name, fn := range table {
		if fn == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingHandler, name)
		}
	}

	return &Dispatcher{guard: guard, table: table}, nil
}

// Names returns the supported command names in lexical order.
func (d *Dispatcher) Names() []CommandName {
	names := make([]CommandName, 0, len(d.table))
	for name := range d.table {
		names = append(names, name)
	}

	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	return names
}

// Dispatch runs the named command for an approved actor.
func (d *Dispatcher) Dispatch(
	ctx context.Context,
	name CommandName,
	actorID uuid.UUID,
	payload Payload,
	at time.Time,
) (shell.HandlerResult, error) {

	fn, known := d.table[name]
	if !known {
		return shell.HandlerResult{}, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}

	actor, err := d.guard.RequireApproved(ctx, actorID.String())
	if err != nil {
		return shell.HandlerResult{}, actorError(err)
	}

	return fn(ctx, actor, actorID, payload, at)
}

func requireID(id uuid.UUID, field string) error {
	if id == uuid.Nil {
		return core.Reject(core.ErrInvalidInput, field+" is required")
	}

	return nil
}

// itemOnly covers the commands whose only arguments are the item and the actor.
func itemOnly[C shell.Command](
	handler shell.CoreCommandHandler[C],
	build func(itemID, actorID uuid.UUID, at time.Time) C,
) dispatchFunc {

	if handler == nil {
		return nil
	}

	return func(ctx context.Context, _ core.Member, actorID uuid.UUID, p Payload, at time.Time) (shell.HandlerResult, error) {
		if err := requireID(p.ItemID, "item_id"); err != nil {
			return shell.HandlerResult{}, err
		}

		return handler.Handle(ctx, build(p.ItemID, actorID, at))
	}
}

// addItem creates a new item id unless the client supplied one, which makes retries idempotent.
func addItem(handler shell.CoreCommandHandler[additem.Command]) dispatchFunc {
	if handler == nil {
		return nil
	}

	return func(ctx context.Context, _ core.Member, actorID uuid.UUID, p Payload, at time.Time) (shell.HandlerResult, error) {
		if p.ItemID == uuid.Nil {
			return handler.Handle(ctx, additem.BuildCommand(actorID, p.Metadata.toCore(), at))
		}

		return handler.Handle(ctx, additem.BuildCommandForItem(p.ItemID, actorID, p.Metadata.toCore(), at))
	}
}

func editItem(handler shell.CoreCommandHandler[edititem.Command]) dispatchFunc {
	if handler == nil {
		return nil
	}

	return func(ctx context.Context, _ core.Member, actorID uuid.UUID, p Payload, at time.Time) (shell.HandlerResult, error) {
		if err := requireID(p.ItemID, "item_id"); err != nil {
			return shell.HandlerResult{}, err
		}

		return handler.Handle(ctx, edititem.BuildCommand(p.ItemID, actorID, p.Metadata.toCore(), at))
	}
}

func changeVisibility(handler shell.CoreCommandHandler[changevisibility.Command]) dispatchFunc {
	if handler == nil {
		return nil
	}

	return func(ctx context.Context, _ core.Member, actorID uuid.UUID, p Payload, at time.Time) (shell.HandlerResult, error) {
		if err := requireID(p.ItemID, "item_id"); err != nil {
			return shell.HandlerResult{}, err
		}

		command := changevisibility.BuildCommand(p.ItemID, actorID, core.Visibility(p.Visibility), at)

		return handler.Handle(ctx, command)
	}
}

// removeItem lets admins remove any item.
func removeItem(handler shell.CoreCommandHandler[removeitem.Command]) dispatchFunc {
	if handler == nil {
		return nil
	}

	return func(ctx context.Context, actor core.Member, actorID uuid.UUID, p Payload, at time.Time) (shell.HandlerResult, error) {
		if err := requireID(p.ItemID, "item_id"); err != nil {
			return shell.HandlerResult{}, err
		}

		return handler.Handle(ctx, removeitem.BuildCommand(p.ItemID, actorID, actor.IsAdmin, at))
	}
}

func confirmTransfer(handler shell.CoreCommandHandler[confirmtransfer.Command]) dispatchFunc {
	if handler == nil {
		return nil
	}

	return func(ctx context.Context, _ core.Member, actorID uuid.UUID, p Payload, at time.Time) (shell.HandlerResult, error) {
		if err := errors.Join(requireID(p.ItemID, "item_id"), requireID(p.RecipientID, "recipient_id")); err != nil {
			return shell.HandlerResult{}, err
		}

		return handler.Handle(ctx, confirmtransfer.BuildCommand(p.ItemID, actorID, p.RecipientID, at))
	}
}

func rejectRequest(handler shell.CoreCommandHandler[rejectrequest.Command]) dispatchFunc {
	if handler == nil {
		return nil
	}

	return func(ctx context.Context, _ core.Member, actorID uuid.UUID, p Payload, at time.Time) (shell.HandlerResult, error) {
		if err := errors.Join(requireID(p.ItemID, "item_id"), requireID(p.RequesterID, "requester_id")); err != nil {
			return shell.HandlerResult{}, err
		}

		return handler.Handle(ctx, rejectrequest.BuildCommand(p.ItemID, actorID, p.RequesterID, at))
	}
}

func peerHandover(handler shell.CoreCommandHandler[peerhandover.Command]) dispatchFunc {
	if handler == nil {
		return nil
	}

	return func(ctx context.Context, _ core.Member, actorID uuid.UUID, p Payload, at time.Time) (shell.HandlerResult, error) {
		if err := errors.Join(requireID(p.ItemID, "item_id"), requireID(p.RecipientID, "recipient_id")); err != nil {
			return shell.HandlerResult{}, err
		}

		return handler.Handle(ctx, peerhandover.BuildCommand(p.ItemID, actorID, p.RecipientID, at))
	}
}
