package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/bookcircle/internal/adapters"
	"github.com/AntonStoeckl/bookcircle/ledger"
)

const (
	defaultMovementTableName     = "movements"
	logMsgBuildSelectQueryFailed = "failed to build select query"
	logMsgBuildInsertQueryFailed = "failed to build insert query"
	logMsgDBQueryFailed          = "database query execution failed"
	logMsgDBExecFailed           = "database execution failed during movement append"
	logMsgCloseRowsFailed        = "failed to close database rows"
	logMsgScanRowFailed          = "failed to scan database row"
	logMsgRowsAffectedFailed     = "failed to get rows affected count"
	logMsgAppendIncomplete       = "movement append affected fewer rows than expected"
	logMsgQueryCompleted         = "query completed"
	logMsgMovementsAppended      = "movements appended"
	logMsgSQLExecuted            = "executed sql for: "
	logMsgOperation              = "ledger operation: "
	logAttrError                 = "error"
	logAttrQuery                 = "query"
	logAttrMovementCount         = "movement_count"
	logAttrDurationMS            = "duration_ms"
	logAttrRowsAffected          = "rows_affected"
	logAttrConsistency           = "consistency"
	logActionQuery               = "query"
	logActionAppend              = "append"
	colKind                      = "kind"
	colItemID                    = "item_id"
	colFromMemberID              = "from_member_id"
	colToMemberID                = "to_member_id"
	colOccurredAt                = "occurred_at"
	colMetadata                  = "metadata"
	colSequenceNumber            = "sequence_number"
	dialectPostgres              = "postgres"
	castJsonb                    = "?::jsonb"
	castTimestamp                = "?::timestamp with time zone"
)

// Ledger is the PostgreSQL ledger engine.
type Ledger struct {
	db               adapters.DBAdapter
	tableName        string
	logger           ledger.Logger
	contextualLogger ledger.ContextualLogger
	metricsCollector ledger.MetricsCollector
	tracingCollector ledger.TracingCollector
}

type queryResultRow struct {
	kind           string
	itemID         string
	fromMemberID   string
	toMemberID     string
	occurredAt     time.Time
	metadata       []byte
	sequenceNumber uint
}

// NewLedgerFromPGXPool creates a new Ledger using a pgx Pool with optional configuration.
func NewLedgerFromPGXPool(db *pgxpool.Pool, options ...Option) (*Ledger, error) {
	if db == nil {
		return nil, ledger.ErrNilDatabaseConnection
	}

	return NewLedger(adapters.NewPGXAdapter(db), options...)
}

// NewLedgerFromPGXPoolAndReplica creates a new Ledger that serves eventually consistent reads from the replica.
func NewLedgerFromPGXPoolAndReplica(db *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (*Ledger, error) {
	if db == nil || replica == nil {
		return nil, ledger.ErrNilDatabaseConnection
	}

	return NewLedger(adapters.NewPGXAdapterWithReplica(db, replica), options...)
}

// NewLedgerFromSQLDB creates a new Ledger using a sql.DB with optional configuration.
func NewLedgerFromSQLDB(db *sql.DB, options ...Option) (*Ledger, error) {
	if db == nil {
		return nil, ledger.ErrNilDatabaseConnection
	}

	return NewLedger(adapters.NewSQLAdapter(db), options...)
}

// NewLedgerFromSQLX creates a new Ledger using a sqlx.DB with optional configuration.
func NewLedgerFromSQLX(db *sqlx.DB, options ...Option) (*Ledger, error) {
	if db == nil {
		return nil, ledger.ErrNilDatabaseConnection
	}

	return NewLedger(adapters.NewSQLXAdapter(db), options...)
}

// NewLedger creates a Ledger on top of any adapter, including one bound to an open transaction.
func NewLedger(db adapters.DBAdapter, options ...Option) (*Ledger, error) {
	if db == nil {
		return nil, ledger.ErrNilDatabaseConnection
	}

	l := &Ledger{
		db:        db,
		tableName: defaultMovementTableName,
	}

	for _, option := range options {
		if err := option(l); err != nil {
			return nil, err
		}
	}

	return l, nil
}

// Query retrieves the movements matching the filter in append order,
// together with the highest sequence number among them.
func (l *Ledger) Query(ctx context.Context, filter ledger.Filter) (
	ledger.StorableMovements,
	ledger.MaxSequenceNumberUint,
	error,
) {

	ctx, span := l.startSpan(ctx, spanNameQuery, operationQuery)
	start := time.Now()

	sqlQuery, buildQueryErr := l.buildSelectQuery(filter)
	if buildQueryErr != nil {
		l.logError(ctx, logMsgBuildSelectQueryFailed, buildQueryErr)
		l.finishWithError(ctx, span, operationQuery, errorTypeBuildQuery, time.Since(start))

		return nil, 0, buildQueryErr
	}

	rows, queryErr := l.db.Query(ctx, sqlQuery)
	l.logSQL(ctx, sqlQuery, logActionQuery, time.Since(start))

	if queryErr != nil {
		l.logError(ctx, logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		l.finishWithError(ctx, span, operationQuery, errorTypeDatabaseQuery, time.Since(start))

		return nil, 0, errors.Join(ledger.ErrQueryingMovementsFailed, queryErr)
	}
	defer l.closeRows(ctx, rows)

	movements, maxSequenceNumber, scanErr := l.processQueryResults(ctx, rows)
	if scanErr != nil {
		l.finishWithError(ctx, span, operationQuery, errorTypeRowScan, time.Since(start))

		return nil, 0, scanErr
	}

	duration := time.Since(start)
	l.logOperation(
		ctx,
		logMsgQueryCompleted,
		logAttrMovementCount, len(movements),
		logAttrDurationMS, toMilliseconds(duration),
		logAttrConsistency, ledger.GetConsistencyLevel(ctx).String(),
	)
	l.finishWithSuccess(ctx, span, operationQuery, len(movements), duration)

	return movements, maxSequenceNumber, nil
}

// processQueryResults scans all rows into storable movements.
func (l *Ledger) processQueryResults(ctx context.Context, rows adapters.DBRows) (
	ledger.StorableMovements,
	ledger.MaxSequenceNumberUint,
	error,
) {

	result := queryResultRow{}
	movements := make(ledger.StorableMovements, 0)
	maxSequenceNumber := ledger.MaxSequenceNumberUint(0)

	for rows.Next() {
		rowScanErr := rows.Scan(
			&result.kind,
			&result.itemID,
			&result.fromMemberID,
			&result.toMemberID,
			&result.occurredAt,
			&result.metadata,
			&result.sequenceNumber,
		)
		if rowScanErr != nil {
			l.logError(ctx, logMsgScanRowFailed, rowScanErr)

			return nil, 0, errors.Join(ledger.ErrScanningDBRowFailed, rowScanErr)
		}

		movement, buildErr := ledger.BuildStorableMovement(
			ledger.MovementKind(result.kind),
			result.itemID,
			result.fromMemberID,
			result.toMemberID,
			result.occurredAt,
			result.metadata,
		)
		if buildErr != nil {
			return nil, 0, errors.Join(ledger.ErrBuildingStorableMovementFailed, buildErr)
		}

		movement.SequenceNumber = result.sequenceNumber
		movements = append(movements, movement)
		maxSequenceNumber = result.sequenceNumber
	}

	if err := rows.Err(); err != nil {
		l.logError(ctx, logMsgScanRowFailed, err)

		return nil, 0, errors.Join(ledger.ErrScanningDBRowFailed, err)
	}

	return movements, maxSequenceNumber, nil
}

// Append inserts one or multiple movements with a single statement.
func (l *Ledger) Append(
	ctx context.Context,
	movement ledger.StorableMovement,
	additionalMovements ...ledger.StorableMovement,
) error {

	allMovements := append(ledger.StorableMovements{movement}, additionalMovements...)

	ctx, span := l.startSpan(ctx, spanNameAppend, operationAppend)
	start := time.Now()

	sqlQuery, buildQueryErr := l.buildInsertQuery(allMovements)
	if buildQueryErr != nil {
		l.logError(ctx, logMsgBuildInsertQueryFailed, buildQueryErr, logAttrMovementCount, len(allMovements))
		l.finishWithError(ctx, span, operationAppend, errorTypeBuildQuery, time.Since(start))

		return buildQueryErr
	}

	result, execErr := l.db.Exec(ctx, sqlQuery)
	l.logSQL(ctx, sqlQuery, logActionAppend, time.Since(start))

	if execErr != nil {
		l.logError(ctx, logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)
		l.finishWithError(ctx, span, operationAppend, errorTypeDatabaseExec, time.Since(start))

		return errors.Join(ledger.ErrAppendingMovementFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		l.logError(ctx, logMsgRowsAffectedFailed, rowsAffectedErr)
		l.finishWithError(ctx, span, operationAppend, errorTypeRowsAffected, time.Since(start))

		return errors.Join(ledger.ErrGettingRowsAffectedFailed, rowsAffectedErr)
	}

	if rowsAffected < int64(len(allMovements)) {
		l.logOperation(ctx, logMsgAppendIncomplete, logAttrMovementCount, len(allMovements), logAttrRowsAffected, rowsAffected)
		l.finishWithError(ctx, span, operationAppend, errorTypeRowsAffected, time.Since(start))

		return ledger.ErrAppendingMovementFailed
	}

	duration := time.Since(start)
	l.logOperation(
		ctx,
		logMsgMovementsAppended,
		logAttrMovementCount, len(allMovements),
		logAttrDurationMS, toMilliseconds(duration),
	)
	l.finishWithSuccess(ctx, span, operationAppend, len(allMovements), duration)

	return nil
}

func (l *Ledger) buildSelectQuery(filter ledger.Filter) (string, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(l.tableName).
		Select(colKind, colItemID, colFromMemberID, colToMemberID, colOccurredAt, colMetadata, colSequenceNumber).
		Order(goqu.I(colSequenceNumber).Asc())

	selectStmt = l.addWhereClause(filter, selectStmt)

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(ledger.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (l *Ledger) buildInsertQuery(movements ledger.StorableMovements) (string, error) {
	if len(movements) == 0 {
		return "", ledger.ErrNoMovementsToAppend
	}

	rows := make([][]any, 0, len(movements))
	for _, m := range movements {
		rows = append(rows, goqu.Vals{
			string(m.Kind),
			m.ItemID,
			m.FromMemberID,
			m.ToMemberID,
			goqu.L(castTimestamp, m.OccurredAt),
			goqu.L(castJsonb, string(m.MetadataJSON)),
		})
	}

	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(l.tableName).
		Cols(colKind, colItemID, colFromMemberID, colToMemberID, colOccurredAt, colMetadata).
		Vals(rows...)

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(ledger.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (l *Ledger) addWhereClause(filter ledger.Filter, selectStmt *goqu.SelectDataset) *goqu.SelectDataset {
	expressions := make([]goqu.Expression, 0)

	if ids := filter.ItemIDs(); len(ids) > 0 {
		expressions = append(expressions, goqu.C(colItemID).In(ids))
	}

	if kinds := filter.Kinds(); len(kinds) > 0 {
		kindStrings := make([]string, 0, len(kinds))
		for _, k := range kinds {
			kindStrings = append(kindStrings, string(k))
		}

		expressions = append(expressions, goqu.C(colKind).In(kindStrings))
	}

	if ids := filter.FromMemberIDs(); len(ids) > 0 {
		expressions = append(expressions, goqu.C(colFromMemberID).In(ids))
	}

	if ids := filter.ToMemberIDs(); len(ids) > 0 {
		expressions = append(expressions, goqu.C(colToMemberID).In(ids))
	}

	if !filter.OccurredFrom().IsZero() {
		expressions = append(expressions, goqu.C(colOccurredAt).Gte(filter.OccurredFrom()))
	}

	if !filter.OccurredUntil().IsZero() {
		expressions = append(expressions, goqu.C(colOccurredAt).Lte(filter.OccurredUntil()))
	}

	if filter.SequenceNumberHigherThan() > 0 {
		expressions = append(expressions, goqu.C(colSequenceNumber).Gt(filter.SequenceNumberHigherThan()))
	}

	if len(expressions) == 0 {
		return selectStmt
	}

	return selectStmt.Where(goqu.And(expressions...))
}

// closeRows closes database rows and logs any errors.
func (l *Ledger) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		l.logWarn(ctx, logMsgCloseRowsFailed, logAttrError, closeErr.Error())
	}
}

var _ ledger.Store = (*Ledger)(nil)
