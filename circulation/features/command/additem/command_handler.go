package additem

import (
	"context"
	"errors"
	"time"

	"github.com/AntonStoeckl/bookcircle/catalog"
	"github.com/AntonStoeckl/bookcircle/circulation/core"
	"github.com/AntonStoeckl/bookcircle/circulation/shell"
)

const (
	defaultLookupTimeout = 10 * time.Second
	logMsgLookupFailed   = "catalog lookup failed, adding item without enrichment"
	logAttrItemID        = "item_id"
	logAttrCode          = "code"
	logAttrError         = "error"
)

// MetadataLookup finds catalog metadata by code. catalog.Client implements it.
type MetadataLookup interface {
	Lookup(ctx context.Context, code string) (catalog.Metadata, error)
}

// CommandHandler enriches the metadata from the catalog and runs Decide inside the item's scope.
type CommandHandler struct {
	runner        shell.ItemRunner
	lookup        MetadataLookup
	lookupTimeout time.Duration
	logger        shell.Logger
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithCatalog enables enrichment by catalog code.
func WithCatalog(lookup MetadataLookup) Option {
	return func(h *CommandHandler) {
		h.lookup = lookup
	}
}

// WithLookupTimeout bounds the catalog lookup. Non-positive values keep the default.
func WithLookupTimeout(timeout time.Duration) Option {
	return func(h *CommandHandler) {
		if timeout > 0 {
			h.lookupTimeout = timeout
		}
	}
}

// WithLogger reports failed lookups at warn level; "not found" is not reported.
func WithLogger(logger shell.Logger) Option {
	return func(h *CommandHandler) {
		h.logger = logger
	}
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(runner shell.ItemRunner, options ...Option) CommandHandler {
	h := CommandHandler{
		runner:        runner,
		lookupTimeout: defaultLookupTimeout,
	}

	for _, option := range options {
		option(&h)
	}

	return h
}

// Handle executes the command. The lookup runs outside the item's scope, before the decision.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	command.Metadata = h.enrich(ctx, command)

	return h.runner.Run(ctx, command.ItemID.String(), func(snapshot core.ItemSnapshot) core.DecisionResult {
		return Decide(snapshot, command)
	})
}

func (h CommandHandler) enrich(ctx context.Context, command Command) core.ItemMetadata {
	metadata := command.Metadata
	if h.lookup == nil || metadata.Code == "" {
		return metadata
	}

	lookupCtx, cancel := context.WithTimeout(ctx, h.lookupTimeout)
	defer cancel()

	found, err := h.lookup.Lookup(lookupCtx, metadata.Code)
	if err != nil {
		if h.logger != nil && !errors.Is(err, catalog.ErrNotFound) {
			h.logger.Warn(logMsgLookupFailed,
				logAttrItemID, command.ItemID.String(),
				logAttrCode, metadata.Code,
				logAttrError, err.Error(),
			)
		}

		return metadata
	}

	return Enrich(metadata, found)
}

// Enrich fills the empty fields of metadata from a catalog entry. Owner input always wins.
func Enrich(metadata core.ItemMetadata, found catalog.Metadata) core.ItemMetadata {
	fill := func(field *string, value string) {
		if *field == "" {
			*field = value
		}
	}

	fill(&metadata.Title, found.Title)
	fill(&metadata.Author, found.Author)
	fill(&metadata.Genre, found.Genre)
	fill(&metadata.Description, found.Description)
	fill(&metadata.CoverRef, found.CoverRef)

	return metadata.Normalized()
}
