package reviews

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
	"github.com/AntonStoeckl/bookcircle/circulation/shell"
)

const (
	// MaxTextLength bounds a review, in characters.
	MaxTextLength = 4000

	actionDeleteReview = "delete_review"
)

// MemberGuard resolves who may write reviews and who may delete them.
// membership.Service implements it.
type MemberGuard interface {
	RequireApproved(ctx context.Context, memberID core.MemberIDString) (core.Member, error)
	RequireAdmin(ctx context.Context, memberID core.MemberIDString) (core.Member, error)
}

// Service runs the review use cases.
type Service struct {
	reviews shell.ReviewRepository
	items   shell.ItemReader
	guard   MemberGuard
	admin   shell.AdminActions
}

// NewService creates a Service.
func NewService(reviews shell.ReviewRepository, items shell.ItemReader, guard MemberGuard, admin shell.AdminActions) *Service {
	return &Service{
		reviews: reviews,
		items:   items,
		guard:   guard,
		admin:   admin,
	}
}

// Add stores a review by an approved member for an existing item.
func (s *Service) Add(ctx context.Context, itemID, authorID uuid.UUID, text string, at time.Time) (core.Review, error) {
	text = strings.TrimSpace(text)

	if text == "" {
		return core.Review{}, core.Reject(core.ErrInvalidInput, "review text must not be empty")
	}

	if utf8.RuneCountInString(text) > MaxTextLength {
		return core.Review{}, core.Reject(core.ErrInvalidInput, "review text is too long")
	}

	if _, err := s.guard.RequireApproved(ctx, authorID.String()); err != nil {
		return core.Review{}, err
	}

	if _, found, err := s.items.GetItem(ctx, itemID.String()); err != nil {
		return core.Review{}, shell.StorageError(err)
	} else if !found {
		return core.Review{}, core.Reject(core.ErrNoSuchItem, "item does not exist")
	}

	review := core.Review{
		ID:        uuid.NewString(),
		ItemID:    itemID.String(),
		AuthorID:  authorID.String(),
		Text:      text,
		CreatedAt: core.ToOccurredAt(at),
	}

	if err := s.reviews.AddReview(ctx, review); err != nil {
		return core.Review{}, shell.StorageError(err)
	}

	return review, nil
}

// List returns the reviews of an item, newest first.
func (s *Service) List(ctx context.Context, itemID uuid.UUID) ([]core.Review, error) {
	reviews, err := s.reviews.ListReviews(ctx, itemID.String())
	if err != nil {
		return nil, shell.StorageError(err)
	}

	return reviews, nil
}

// Delete removes a review. Only admins may do it. The removal and its admin log entry are written together.
func (s *Service) Delete(ctx context.Context, adminID uuid.UUID, reviewID string, at time.Time) error {
	if _, err := s.guard.RequireAdmin(ctx, adminID.String()); err != nil {
		return err
	}

	err := s.admin.WithinAdminAction(ctx, func(ctx context.Context, scope shell.AdminScope) error {
		deleted, err := scope.DeleteReview(ctx, reviewID)
		if err != nil {
			return err
		}

		if !deleted {
			return core.Reject(core.ErrNoSuchReview, "review "+reviewID+" does not exist")
		}

		return scope.AppendAdminLog(ctx, core.AdminLogEntry{
			AdminID:   adminID.String(),
			Action:    actionDeleteReview,
			Details:   "review " + reviewID,
			CreatedAt: core.ToOccurredAt(at),
		})
	})

	return shell.StorageError(err)
}
