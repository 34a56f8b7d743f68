package postgresstore_test

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
	"github.com/AntonStoeckl/bookcircle/circulation/shell"
	"github.com/AntonStoeckl/bookcircle/circulation/shell/postgresstore"
	"github.com/AntonStoeckl/bookcircle/ledger"
)

var itemColumns = []string{
	"id", "owner_id", "holder_id", "title", "author", "genre", "tags", "age_rating",
	"description", "cover_ref", "code", "visibility", "recall_requested", "version", "added_at",
}

var addedAt = time.Date(2025, 4, 2, 9, 30, 0, 0, time.UTC)

func Test_Factories_Reject_NilConnections(t *testing.T) {
	_, err := postgresstore.NewStoreFromSQLDB(nil)
	assert.ErrorIs(t, err, ledger.ErrNilDatabaseConnection)

	_, err = postgresstore.NewStoreFromPGXPool(nil)
	assert.ErrorIs(t, err, ledger.ErrNilDatabaseConnection)

	_, err = postgresstore.NewStoreFromPGXPoolAndReplica(nil, nil)
	assert.ErrorIs(t, err, ledger.ErrNilDatabaseConnection)

	_, err = postgresstore.NewStoreFromSQLX(nil)
	assert.ErrorIs(t, err, ledger.ErrNilDatabaseConnection)

	_, err = postgresstore.NewStore(nil)
	assert.ErrorIs(t, err, ledger.ErrNilDatabaseConnection)

	assert.ErrorIs(t, postgresstore.Migrate(context.Background(), nil), ledger.ErrNilDatabaseConnection)
}

func Test_WithinItem_Locks_Loads_Saves_And_Commits(t *testing.T) {
	store, mock := givenStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "items" WHERE \("id" = 'item-1'\) FOR UPDATE`).
		WillReturnRows(givenItemRows().AddRow(givenItemRow("member-2", []byte(`["sci-fi","classic"]`), 1)...))
	mock.ExpectExec(`UPDATE "items" SET .*"recall_requested"=TRUE.* WHERE \(\("id" = 'item-1'\) AND \("version" = 1\)\)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	var loaded core.Item
	err := store.WithinItem(context.Background(), "item-1", func(ctx context.Context, scope shell.ItemScope) error {
		item, found, err := scope.LoadItem(ctx)
		require.NoError(t, err)
		require.True(t, found)
		loaded = item

		item.RecallRequested = true
		item.Version++

		return scope.SaveItem(ctx, item)
	})

	require.NoError(t, err)
	assert.Equal(t, "owner-1", loaded.OwnerID)
	assert.Equal(t, "member-2", loaded.HolderID)
	assert.Equal(t, []string{"sci-fi", "classic"}, loaded.Metadata.Tags)
	assert.Equal(t, core.VisibilityListed, loaded.Visibility)
	assert.Equal(t, uint(1), loaded.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_SaveItem_Reports_Conflict_When_VersionMoved(t *testing.T) {
	store, mock := givenStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "items"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := store.WithinItem(context.Background(), "item-1", func(ctx context.Context, scope shell.ItemScope) error {
		return scope.SaveItem(ctx, core.Item{ID: "item-1", OwnerID: "owner-1", Version: 4})
	})

	assert.ErrorIs(t, err, ledger.ErrConcurrencyConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_CreateItem_Maps_UniqueViolation_To_Conflict(t *testing.T) {
	store, mock := givenStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "items"`).WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	err := store.WithinItem(context.Background(), "item-1", func(ctx context.Context, scope shell.ItemScope) error {
		return scope.CreateItem(ctx, core.Item{ID: "item-1", OwnerID: "owner-1", Version: 1, AddedAt: addedAt})
	})

	assert.ErrorIs(t, err, ledger.ErrConcurrencyConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_DeleteItem_Checks_ExpectedVersion(t *testing.T) {
	store, mock := givenStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "items" WHERE \(\("id" = 'item-1'\) AND \("version" = 3\)\)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.WithinItem(context.Background(), "item-1", func(ctx context.Context, scope shell.ItemScope) error {
		return scope.DeleteItem(ctx, 3)
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_Waitlist_Append_Takes_NextPosition(t *testing.T) {
	store, mock := givenStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COALESCE\(MAX\("position"\), ?0\) FROM "waitlist_entries" WHERE \("item_id" = 'item-1'\)`).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(int64(2)))
	mock.ExpectExec(`INSERT INTO "waitlist_entries" .*'member-3'`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	var appended core.WaitlistEntry
	err := store.WithinItem(context.Background(), "item-1", func(ctx context.Context, scope shell.ItemScope) error {
		entry, err := scope.Waitlist().Append(ctx, core.WaitlistEntry{ItemID: "item-1", MemberID: "member-3", JoinedAt: addedAt})
		appended = entry

		return err
	})

	require.NoError(t, err)
	assert.Equal(t, uint(3), appended.Position)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_Bookings_Update_Of_UnknownBooking_Fails_With_NoSuchRequest(t *testing.T) {
	store, mock := givenStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "booking_requests"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := store.WithinItem(context.Background(), "item-1", func(ctx context.Context, scope shell.ItemScope) error {
		return scope.Bookings().Update(ctx, core.BookingRequest{ID: "booking-9", ItemID: "item-1", Status: core.BookingCompleted})
	})

	assert.ErrorIs(t, err, core.ErrNoSuchRequest)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_Ledger_Appends_Run_Inside_The_Transaction(t *testing.T) {
	store, mock := givenStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "movements"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.WithinItem(context.Background(), "item-1", func(ctx context.Context, scope shell.ItemScope) error {
		movement, err := ledger.BuildStorableMovementWithEmptyMetadata(ledger.KindTransfer, "item-1", "owner-1", "member-2", addedAt)
		require.NoError(t, err)

		return scope.Ledger().Append(ctx, movement)
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_WithinItem_Wraps_BeginErrors(t *testing.T) {
	store, mock := givenStore(t)

	mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

	err := store.WithinItem(context.Background(), "item-1", func(context.Context, shell.ItemScope) error {
		t.Fatal("fn must not run without a transaction")

		return nil
	})

	assert.ErrorIs(t, err, postgresstore.ErrBeginTxFailed)
}

func Test_PendingBookingsOf_Scans_NullResolvedAt(t *testing.T) {
	store, mock := givenStore(t)

	mock.ExpectQuery(`FROM "booking_requests" WHERE .*"status" = 'pending'.*ORDER BY "created_at" ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "item_id", "requester_id", "status", "created_at", "resolved_at"}).
			AddRow("booking-1", "item-1", "member-2", "pending", addedAt, nil))

	bookings, err := store.PendingBookingsOf(context.Background(), "item-1")

	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.True(t, bookings[0].IsPending())
	assert.True(t, bookings[0].ResolvedAt.IsZero())
}

func Test_ListItems_Rejects_CorruptTags(t *testing.T) {
	store, mock := givenStore(t)

	mock.ExpectQuery(`FROM "items" ORDER BY "added_at" ASC, "id" ASC`).
		WillReturnRows(givenItemRows().AddRow(givenItemRow("", []byte(`{"not":"a list"}`), 1)...))

	_, err := store.ListItems(context.Background())

	assert.ErrorIs(t, err, postgresstore.ErrScanFailed)
	assert.ErrorIs(t, err, postgresstore.ErrDecodingTagsFailed)
}

func Test_InsertMember_Maps_UniqueViolation(t *testing.T) {
	store, mock := givenStore(t)

	mock.ExpectExec(`INSERT INTO "members"`).WillReturnError(&pq.Error{Code: "23505"})

	err := store.InsertMember(context.Background(), core.Member{ID: "member-1", Status: core.MemberPending, RegisteredAt: addedAt})

	assert.ErrorIs(t, err, core.ErrMemberAlreadyExists)
}

func Test_WithinAdminAction_Updates_Member_And_Logs_In_One_Transaction(t *testing.T) {
	store, mock := givenStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "members" WHERE \("id" = 'member-2'\) FOR UPDATE`).
		WillReturnRows(givenMemberRows().AddRow("member-2", "Mia", "mia", "north", "pending", false, addedAt))
	mock.ExpectExec(`UPDATE "members" SET .*"status"='approved'.* WHERE \("id" = 'member-2'\)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "admin_log"`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := store.WithinAdminAction(context.Background(), func(ctx context.Context, scope shell.AdminScope) error {
		member, found, err := scope.GetMember(ctx, "member-2")
		require.NoError(t, err)
		require.True(t, found)

		member.Status = core.MemberApproved
		if err = scope.UpdateMember(ctx, member); err != nil {
			return err
		}

		return scope.AppendAdminLog(ctx, core.AdminLogEntry{
			AdminID: "admin-1", Action: "approve_member", Details: "member-2", CreatedAt: addedAt,
		})
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_WithinAdminAction_Rolls_Back_The_Update_When_The_Log_Append_Fails(t *testing.T) {
	store, mock := givenStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "members"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "admin_log"`).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := store.WithinAdminAction(context.Background(), func(ctx context.Context, scope shell.AdminScope) error {
		if err := scope.UpdateMember(ctx, core.Member{ID: "member-2", Status: core.MemberApproved}); err != nil {
			return err
		}

		return scope.AppendAdminLog(ctx, core.AdminLogEntry{AdminID: "admin-1", Action: "approve_member"})
	})

	assert.ErrorIs(t, err, postgresstore.ErrExecFailed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_UpdateMember_Of_UnknownMember_Fails(t *testing.T) {
	store, mock := givenStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "members"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := store.WithinAdminAction(context.Background(), func(ctx context.Context, scope shell.AdminScope) error {
		return scope.UpdateMember(ctx, core.Member{ID: "member-1", Status: core.MemberApproved})
	})

	assert.ErrorIs(t, err, core.ErrNoSuchMember)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_GetMember_Reports_Missing_Member(t *testing.T) {
	store, mock := givenStore(t)

	mock.ExpectQuery(`FROM "members" WHERE \("id" = 'member-9'\)`).
		WillReturnRows(givenMemberRows())

	_, found, err := store.GetMember(context.Background(), "member-9")

	require.NoError(t, err)
	assert.False(t, found)
}

func Test_ListAdminLog_Honors_Limit(t *testing.T) {
	store, mock := givenStore(t)

	entries, err := store.ListAdminLog(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, entries)

	mock.ExpectQuery(`FROM "admin_log" ORDER BY "id" DESC LIMIT 2`).
		WillReturnRows(sqlmock.NewRows([]string{"admin_id", "action", "details", "created_at"}).
			AddRow("admin-1", "approve_member", "member-2", addedAt.Add(time.Minute)).
			AddRow("admin-1", "block_member", "member-3", addedAt))

	entries, err = store.ListAdminLog(context.Background(), 2)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "approve_member", entries[0].Action)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_DeleteReview_Reports_Whether_A_Row_Was_Removed(t *testing.T) {
	store, mock := givenStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "reviews" WHERE \("id" = 'review-1'\)`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "reviews"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := store.WithinAdminAction(context.Background(), func(ctx context.Context, scope shell.AdminScope) error {
		deleted, err := scope.DeleteReview(ctx, "review-1")
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = scope.DeleteReview(ctx, "review-1")
		require.NoError(t, err)
		assert.False(t, deleted)

		return nil
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func givenStore(t *testing.T) (*postgresstore.Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store, err := postgresstore.NewStoreFromSQLDB(db)
	require.NoError(t, err)

	return store, mock
}

func givenItemRows() *sqlmock.Rows {
	return sqlmock.NewRows(itemColumns)
}

func givenItemRow(holderID string, tags []byte, version int64) []driver.Value {
	return []driver.Value{
		"item-1", "owner-1", holderID, "Dune", "Frank Herbert", "fiction", tags, "12+",
		"", "", "9780441013593", "listed", false, version, addedAt,
	}
}

func givenMemberRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "display_name", "handle", "area", "status", "is_admin", "registered_at"})
}
