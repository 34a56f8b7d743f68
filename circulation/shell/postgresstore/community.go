package postgresstore

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
	"github.com/AntonStoeckl/bookcircle/circulation/shell"
	"github.com/AntonStoeckl/bookcircle/internal/adapters"
)

// InsertMember stores a new member.
func (s *Store) InsertMember(ctx context.Context, member core.Member) error {
	record := memberRecord(member)
	record[colID] = member.ID

	_, err := s.exec(ctx, s.db, dialect().Insert(tableMembers).Rows(record))
	if err != nil && adapters.IsUniqueViolation(err) {
		return core.ErrMemberAlreadyExists
	}

	return err
}

// GetMember returns a member.
func (s *Store) GetMember(ctx context.Context, memberID core.MemberIDString) (core.Member, bool, error) {
	return s.selectMember(ctx, s.db, memberID, false)
}

// ListMembers returns all members ordered by registration time.
func (s *Store) ListMembers(ctx context.Context) ([]core.Member, error) {
	stmt := dialect().
		From(tableMembers).
		Select(memberColumns()...).
		Order(goqu.C(colRegisteredAt).Asc(), goqu.C(colID).Asc())

	return s.selectMembers(ctx, s.db, stmt)
}

func (s *Store) selectMember(
	ctx context.Context,
	db adapters.DBAdapter,
	memberID core.MemberIDString,
	forUpdate bool,
) (core.Member, bool, error) {

	stmt := dialect().
		From(tableMembers).
		Select(memberColumns()...).
		Where(goqu.C(colID).Eq(memberID))

	if forUpdate {
		stmt = stmt.ForUpdate(exp.Wait)
	}

	members, err := s.selectMembers(ctx, db, stmt)
	if err != nil || len(members) == 0 {
		return core.Member{}, false, err
	}

	return members[0], true, nil
}

func (s *Store) selectMembers(
	ctx context.Context,
	db adapters.DBAdapter,
	stmt *goqu.SelectDataset,
) ([]core.Member, error) {

	members := make([]core.Member, 0)

	err := s.query(ctx, db, stmt, func(rows adapters.DBRows) error {
		m, scanErr := scanMember(rows)
		if scanErr != nil {
			return scanErr
		}

		members = append(members, m)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return members, nil
}

// AddReview stores a review.
func (s *Store) AddReview(ctx context.Context, review core.Review) error {
	stmt := dialect().
		Insert(tableReviews).
		Rows(goqu.Record{
			colID:        review.ID,
			colItemID:    review.ItemID,
			colAuthorID:  review.AuthorID,
			colText:      review.Text,
			colCreatedAt: timestamp(review.CreatedAt),
		})

	_, err := s.exec(ctx, s.db, stmt)

	return err
}

// ListReviews returns the reviews of an item, newest first.
func (s *Store) ListReviews(ctx context.Context, itemID core.ItemIDString) ([]core.Review, error) {
	stmt := dialect().
		From(tableReviews).
		Select(colID, colItemID, colAuthorID, colText, colCreatedAt).
		Where(goqu.C(colItemID).Eq(itemID)).
		Order(goqu.C(colCreatedAt).Desc(), goqu.C(colID).Desc())

	reviews := make([]core.Review, 0)

	err := s.query(ctx, s.db, stmt, func(rows adapters.DBRows) error {
		var r core.Review
		if scanErr := rows.Scan(&r.ID, &r.ItemID, &r.AuthorID, &r.Text, &r.CreatedAt); scanErr != nil {
			return scanErr
		}

		reviews = append(reviews, r)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return reviews, nil
}

// ListAdminLog returns up to limit entries, newest first.
func (s *Store) ListAdminLog(ctx context.Context, limit int) ([]core.AdminLogEntry, error) {
	if limit <= 0 {
		return []core.AdminLogEntry{}, nil
	}

	stmt := dialect().
		From(tableAdminLog).
		Select(colAdminID, colAction, colDetails, colCreatedAt).
		Order(goqu.C(colID).Desc()).
		Limit(uint(limit))

	entries := make([]core.AdminLogEntry, 0, min(limit, 100))

	err := s.query(ctx, s.db, stmt, func(rows adapters.DBRows) error {
		var e core.AdminLogEntry
		if scanErr := rows.Scan(&e.AdminID, &e.Action, &e.Details, &e.CreatedAt); scanErr != nil {
			return scanErr
		}

		entries = append(entries, e)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

var (
	_ shell.MemberRepository = (*Store)(nil)
	_ shell.ReviewRepository = (*Store)(nil)
	_ shell.AdminLog         = (*Store)(nil)
	_ shell.AdminActions     = (*Store)(nil)
)
