package postgresstore

import (
	"context"
	"errors"

	"github.com/doug-martin/goqu/v9"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
	"github.com/AntonStoeckl/bookcircle/circulation/shell"
	"github.com/AntonStoeckl/bookcircle/internal/adapters"
)

const unitOfWorkAdminAction = "admin_action"

// WithinAdminAction runs fn in one transaction. The transaction is committed when fn returns nil and rolled back otherwise.
func (s *Store) WithinAdminAction(
	ctx context.Context,
	fn func(ctx context.Context, scope shell.AdminScope) error,
) error {

	tx, beginErr := s.db.BeginTx(ctx)
	if beginErr != nil {
		return errors.Join(ErrBeginTxFailed, beginErr)
	}

	committed := false
	defer func() {
		if !committed {
			s.rollback(ctx, tx, logAttrUnitOfWork, unitOfWorkAdminAction)
		}
	}()

	if err := fn(ctx, &adminScope{store: s, tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Join(ErrCommitFailed, err)
	}

	committed = true

	return nil
}

// adminScope routes every statement of one admin action through its transaction.
type adminScope struct {
	store *Store
	tx    adapters.TxAdapter
}

// GetMember reads the member row and locks it until the transaction ends.
func (a *adminScope) GetMember(ctx context.Context, memberID core.MemberIDString) (core.Member, bool, error) {
	return a.store.selectMember(ctx, a.tx, memberID, true)
}

func (a *adminScope) UpdateMember(ctx context.Context, member core.Member) error {
	stmt := dialect().
		Update(tableMembers).
		Set(memberRecord(member)).
		Where(goqu.C(colID).Eq(member.ID))

	affected, err := a.store.exec(ctx, a.tx, stmt)
	if err != nil {
		return err
	}

	if affected == 0 {
		return core.ErrNoSuchMember
	}

	return nil
}

func (a *adminScope) DeleteReview(ctx context.Context, reviewID string) (bool, error) {
	affected, err := a.store.exec(ctx, a.tx, dialect().Delete(tableReviews).Where(goqu.C(colID).Eq(reviewID)))
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

func (a *adminScope) AppendAdminLog(ctx context.Context, entry core.AdminLogEntry) error {
	stmt := dialect().
		Insert(tableAdminLog).
		Rows(goqu.Record{
			colAdminID:   entry.AdminID,
			colAction:    entry.Action,
			colDetails:   entry.Details,
			colCreatedAt: timestamp(entry.CreatedAt),
		})

	_, err := a.store.exec(ctx, a.tx, stmt)

	return err
}
