package main

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/log/global"

	"github.com/AntonStoeckl/bookcircle/api"
	"github.com/AntonStoeckl/bookcircle/catalog"
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
	"github.com/AntonStoeckl/bookcircle/circulation/features/query/circulationstats"
	"github.com/AntonStoeckl/bookcircle/circulation/features/query/itemhistory"
	"github.com/AntonStoeckl/bookcircle/circulation/features/query/itemoverview"
	"github.com/AntonStoeckl/bookcircle/circulation/membership"
	"github.com/AntonStoeckl/bookcircle/circulation/reviews"
	"github.com/AntonStoeckl/bookcircle/circulation/shell"
	"github.com/AntonStoeckl/bookcircle/circulation/shell/config"
	"github.com/AntonStoeckl/bookcircle/circulation/shell/memorystore"
	"github.com/AntonStoeckl/bookcircle/circulation/shell/observable"
	"github.com/AntonStoeckl/bookcircle/circulation/shell/postgresstore"
	"github.com/AntonStoeckl/bookcircle/ledger"
	"github.com/AntonStoeckl/bookcircle/ledger/memoryengine"
	"github.com/AntonStoeckl/bookcircle/ledger/oteladapters"
	"github.com/AntonStoeckl/bookcircle/ledger/postgresengine"
	"github.com/AntonStoeckl/bookcircle/notify"
)

// circulationStore is what both storage backends provide.
type circulationStore interface {
	shell.Store
	shell.ItemReader
	shell.MemberRepository
	shell.ReviewRepository
	shell.AdminLog
	shell.AdminActions
	Ledger() ledger.Querier
}

// observability bundles the collectors every handler and engine is instrumented with.
type observability struct {
	logger           *slog.Logger
	contextualLogger shell.ContextualLogger
	metrics          shell.MetricsCollector
	tracing          shell.TracingCollector
}

func newObservability(cfg config.Config, logger *slog.Logger, providers *config.ObservabilityProviders) observability {
	obs := observability{
		logger:  logger,
		metrics: oteladapters.NewMetricsCollector(providers.MeterProvider.Meter(cfg.ServiceName)),
		tracing: oteladapters.NewTracingCollector(providers.TracerProvider.Tracer(cfg.ServiceName)),
	}

	// Trace-correlated records only make sense when telemetry leaves the process.
	if cfg.OTLPEndpoint != "" {
		switch cfg.ContextualLogger {
		case config.ContextualLoggerOTel:
			obs.contextualLogger = oteladapters.NewOTelLogger(global.GetLoggerProvider().Logger(cfg.ServiceName))
		default:
			obs.contextualLogger = oteladapters.NewSlogBridgeLogger(cfg.ServiceName)
		}
	}

	return obs
}

// openStore returns the configured backend and a function that releases its connections.
func openStore(ctx context.Context, cfg config.Config, obs observability) (circulationStore, func(), error) {
	if cfg.Storage == config.StorageMemory {
		l := memoryengine.NewLedger(memoryengine.WithLogger(obs.logger))

		return memorystore.NewStore(memorystore.WithLedger(l)), func() {}, nil
	}

	if cfg.RunMigrations {
		if err := postgresstore.MigrateDSN(ctx, cfg.PostgresDSN); err != nil {
			return nil, nil, err
		}
	}

	ledgerOptions := []postgresengine.Option{
		postgresengine.WithMetrics(obs.metrics),
		postgresengine.WithTracing(obs.tracing),
	}
	if obs.contextualLogger != nil {
		ledgerOptions = append(ledgerOptions, postgresengine.WithContextualLogger(obs.contextualLogger))
	}

	storeOptions := []postgresstore.Option{
		postgresstore.WithLogger(obs.logger),
		postgresstore.WithLedgerOptions(ledgerOptions...),
	}

	switch cfg.PostgresDriver {
	case config.DriverSQL:
		db, err := config.OpenSQLDB(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}

		store, err := postgresstore.NewStoreFromSQLDB(db, storeOptions...)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}

		return store, func() { _ = db.Close() }, nil

	case config.DriverSQLX:
		db, err := config.OpenSQLX(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}

		store, err := postgresstore.NewStoreFromSQLX(db, storeOptions...)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}

		return store, func() { _ = db.Close() }, nil

	default:
		return openPGXStore(ctx, cfg, storeOptions)
	}
}

func openPGXStore(ctx context.Context, cfg config.Config, storeOptions []postgresstore.Option) (circulationStore, func(), error) {
	pool, err := config.OpenPGXPool(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, nil, err
	}

	if cfg.PostgresReplicaDSN == "" {
		store, storeErr := postgresstore.NewStoreFromPGXPool(pool, storeOptions...)
		if storeErr != nil {
			pool.Close()
			return nil, nil, storeErr
		}

		return store, pool.Close, nil
	}

	replica, err := config.OpenPGXPool(ctx, cfg.PostgresReplicaDSN)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}

	closeAll := func() {
		replica.Close()
		pool.Close()
	}

	store, err := postgresstore.NewStoreFromPGXPoolAndReplica(pool, replica, storeOptions...)
	if err != nil {
		closeAll()
		return nil, nil, err
	}

	return store, closeAll, nil
}

// newNotifier logs every notification and publishes to RabbitMQ when a broker is configured.
func newNotifier(cfg config.Config, logger *slog.Logger) (shell.Notifier, func(), error) {
	logNotifier := notify.NewLogNotifier(logger)

	if cfg.AMQPURL == "" {
		return logNotifier, func() {}, nil
	}

	publisher, err := notify.DialAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		return nil, nil, err
	}

	return notify.Multi{logNotifier, publisher}, func() { _ = publisher.Close() }, nil
}

func instrumentCommand[C shell.Command](handler shell.CoreCommandHandler[C], obs observability) (shell.CoreCommandHandler[C], error) {
	wrapper, err := observable.NewCommandWrapper(
		handler,
		observable.WithCommandMetrics[C](obs.metrics),
		observable.WithCommandTracing[C](obs.tracing),
		observable.WithCommandContextualLogging[C](obs.contextualLogger),
		observable.WithCommandLogging[C](obs.logger),
	)
	if err != nil {
		var zero C
		return nil, fmt.Errorf("instrumenting %s handler: %w", zero.CommandType(), err)
	}

	return wrapper, nil
}

func instrumentQuery[Q shell.Query, R any](handler shell.CoreQueryHandler[Q, R], obs observability) (shell.CoreQueryHandler[Q, R], error) {
	wrapper, err := observable.NewQueryWrapper(
		handler,
		observable.WithQueryMetrics[Q, R](obs.metrics),
		observable.WithQueryTracing[Q, R](obs.tracing),
		observable.WithQueryContextualLogging[Q, R](obs.contextualLogger),
		observable.WithQueryLogging[Q, R](obs.logger),
	)
	if err != nil {
		var zero Q
		return nil, fmt.Errorf("instrumenting %s handler: %w", zero.QueryType(), err)
	}

	return wrapper, nil
}

// newCommandHandlers builds every circulation command handler on the runner, wrapped in observability.
func newCommandHandlers(runner shell.ItemRunner, lookup additem.MetadataLookup, cfg config.Config, obs observability) (api.Handlers, error) {
	addOptions := []additem.Option{additem.WithLogger(obs.logger)}
	if lookup != nil {
		addOptions = append(addOptions, additem.WithCatalog(lookup), additem.WithLookupTimeout(cfg.CatalogTimeout))
	}

	var (
		h   api.Handlers
		err error
	)

	if h.AddItem, err = instrumentCommand[additem.Command](additem.NewCommandHandler(runner, addOptions...), obs); err != nil {
		return api.Handlers{}, err
	}

	if h.EditItem, err = instrumentCommand[edititem.Command](edititem.NewCommandHandler(runner), obs); err != nil {
		return api.Handlers{}, err
	}

	if h.ChangeVisibility, err = instrumentCommand[changevisibility.Command](changevisibility.NewCommandHandler(runner), obs); err != nil {
		return api.Handlers{}, err
	}

	if h.RemoveItem, err = instrumentCommand[removeitem.Command](removeitem.NewCommandHandler(runner), obs); err != nil {
		return api.Handlers{}, err
	}

	if h.RequestItem, err = instrumentCommand[requestitem.Command](requestitem.NewCommandHandler(runner), obs); err != nil {
		return api.Handlers{}, err
	}

	if h.ConfirmTransfer, err = instrumentCommand[confirmtransfer.Command](confirmtransfer.NewCommandHandler(runner), obs); err != nil {
		return api.Handlers{}, err
	}

	if h.RejectRequest, err = instrumentCommand[rejectrequest.Command](rejectrequest.NewCommandHandler(runner), obs); err != nil {
		return api.Handlers{}, err
	}

	if h.RequestRecall, err = instrumentCommand[requestrecall.Command](requestrecall.NewCommandHandler(runner), obs); err != nil {
		return api.Handlers{}, err
	}

	if h.CancelRecall, err = instrumentCommand[cancelrecall.Command](cancelrecall.NewCommandHandler(runner), obs); err != nil {
		return api.Handlers{}, err
	}

	if h.InitiateReturn, err = instrumentCommand[initiatereturn.Command](initiatereturn.NewCommandHandler(runner), obs); err != nil {
		return api.Handlers{}, err
	}

	if h.ConfirmReturn, err = instrumentCommand[confirmreturn.Command](confirmreturn.NewCommandHandler(runner), obs); err != nil {
		return api.Handlers{}, err
	}

	if h.JoinWaitlist, err = instrumentCommand[joinwaitlist.Command](joinwaitlist.NewCommandHandler(runner), obs); err != nil {
		return api.Handlers{}, err
	}

	if h.LeaveWaitlist, err = instrumentCommand[leavewaitlist.Command](leavewaitlist.NewCommandHandler(runner), obs); err != nil {
		return api.Handlers{}, err
	}

	if h.SkipTurn, err = instrumentCommand[skipturn.Command](skipturn.NewCommandHandler(runner), obs); err != nil {
		return api.Handlers{}, err
	}

	if h.PeerHandover, err = instrumentCommand[peerhandover.Command](peerhandover.NewCommandHandler(runner), obs); err != nil {
		return api.Handlers{}, err
	}

	return h, nil
}

// newDeps assembles the engine behind the HTTP surface.
func newDeps(
	cfg config.Config,
	store circulationStore,
	dispatcher *shell.NotificationDispatcher,
	obs observability,
) (*api.Deps, error) {

	runner := shell.NewItemCommandRunner(
		store,
		shell.WithDispatcher(dispatcher),
		shell.WithRetryOptions(
			shell.WithMaxAttempts(cfg.RetryMaxAttempts),
			shell.WithBaseDelay(cfg.RetryBaseDelay),
		),
	)

	var lookup additem.MetadataLookup
	if cfg.CatalogEnabled {
		client, err := catalog.NewClient(catalog.WithTimeout(cfg.CatalogTimeout))
		if err != nil {
			return nil, err
		}

		lookup = client
	}

	handlers, err := newCommandHandlers(runner, lookup, cfg, obs)
	if err != nil {
		return nil, err
	}

	members := membership.NewService(
		store,
		membership.WithBootstrapAdmins(cfg.AdminIDs...),
		membership.WithDispatcher(dispatcher),
		membership.WithLogger(obs.logger),
	)

	commands, err := api.NewDispatcher(handlers, members)
	if err != nil {
		return nil, err
	}

	auth, err := api.NewAuthenticator(cfg.JWTSecret)
	if err != nil {
		return nil, err
	}

	overview, err := instrumentQuery[itemoverview.Query, itemoverview.ItemOverview](itemoverview.NewQueryHandler(store), obs)
	if err != nil {
		return nil, err
	}

	history, err := instrumentQuery[itemhistory.Query, itemhistory.ItemHistory](itemhistory.NewQueryHandler(store.Ledger()), obs)
	if err != nil {
		return nil, err
	}

	stats, err := instrumentQuery[circulationstats.Query, circulationstats.CirculationStats](circulationstats.NewQueryHandler(store.Ledger(), store, store), obs)
	if err != nil {
		return nil, err
	}

	return &api.Deps{
		Auth:       auth,
		Commands:   commands,
		Membership: members,
		Reviews:    reviews.NewService(store, store, members, store),
		Items:      store,
		Overview:   overview,
		History:    history,
		Stats:      stats,
	}, nil
}
