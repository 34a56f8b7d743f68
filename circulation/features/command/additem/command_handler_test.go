package additem_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/bookcircle/catalog"
	"github.com/AntonStoeckl/bookcircle/circulation/core"
	"github.com/AntonStoeckl/bookcircle/circulation/features/command/additem"
	"github.com/AntonStoeckl/bookcircle/circulation/shell"
	. "github.com/AntonStoeckl/bookcircle/testutil/circulation/fixtures" //nolint:revive
)

func Test_Handle_Enriches_EmptyFields_From_Catalog(t *testing.T) {
	// arrange
	runner := &decidingRunner{snapshot: GivenNoItem().Snapshot()}
	lookup := &stubLookup{metadata: catalog.Metadata{
		Title:       "Kindred",
		Author:      "Octavia E. Butler",
		Description: "A time travel story.",
		CoverRef:    "https://covers.example/42-L.jpg",
	}}
	handler := additem.NewCommandHandler(runner, additem.WithCatalog(lookup))
	command := additem.BuildCommand(uuid.New(), core.ItemMetadata{Author: "O. E. Butler", Code: "9780807083697"}, FixedTime)

	// act
	result, err := handler.Handle(context.Background(), command)

	// assert
	require.NoError(t, err)
	event, ok := result.Event.(core.ItemAdded)
	require.True(t, ok)
	assert.Equal(t, "Kindred", event.Metadata.Title)
	assert.Equal(t, "O. E. Butler", event.Metadata.Author)
	assert.Equal(t, "A time travel story.", event.Metadata.Description)
	assert.Equal(t, "https://covers.example/42-L.jpg", event.Metadata.CoverRef)
	assert.Equal(t, []string{"9780807083697"}, lookup.codes)
	assert.Equal(t, command.ItemID.String(), runner.itemID)
}

func Test_Handle_Ignores_LookupFailures(t *testing.T) {
	testCases := []struct {
		name        string
		lookupErr   error
		wantWarning bool
	}{
		{"not found", catalog.ErrNotFound, false},
		{"transport failure", errors.Join(catalog.ErrLookupFailed, errors.New("dial tcp: timeout")), true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			runner := &decidingRunner{snapshot: GivenNoItem().Snapshot()}
			logger := &warnRecorder{}
			handler := additem.NewCommandHandler(
				runner,
				additem.WithCatalog(&stubLookup{err: tc.lookupErr}),
				additem.WithLogger(logger),
			)

			result, err := handler.Handle(
				context.Background(),
				additem.BuildCommand(uuid.New(), core.ItemMetadata{Title: "Kindred", Code: "123"}, FixedTime),
			)

			require.NoError(t, err)
			assert.NotNil(t, result.Event)
			assert.Equal(t, tc.wantWarning, len(logger.warnings) == 1)
		})
	}
}

func Test_Handle_Skips_Lookup_WithoutCode(t *testing.T) {
	runner := &decidingRunner{snapshot: GivenNoItem().Snapshot()}
	lookup := &stubLookup{}
	handler := additem.NewCommandHandler(runner, additem.WithCatalog(lookup))

	_, err := handler.Handle(context.Background(), additem.BuildCommand(uuid.New(), core.ItemMetadata{Title: "Kindred"}, FixedTime))

	require.NoError(t, err)
	assert.Empty(t, lookup.codes)
}

func Test_Handle_Bounds_Lookup_WithTimeout(t *testing.T) {
	runner := &decidingRunner{snapshot: GivenNoItem().Snapshot()}
	lookup := &stubLookup{block: true}
	handler := additem.NewCommandHandler(runner, additem.WithCatalog(lookup), additem.WithLookupTimeout(20*time.Millisecond))

	result, err := handler.Handle(
		context.Background(),
		additem.BuildCommand(uuid.New(), core.ItemMetadata{Title: "Kindred", Code: "123"}, FixedTime),
	)

	require.NoError(t, err)
	assert.NotNil(t, result.Event)
}

func Test_Handle_Fails_WithoutTitle_When_CatalogHasNone(t *testing.T) {
	runner := &decidingRunner{snapshot: GivenNoItem().Snapshot()}
	handler := additem.NewCommandHandler(runner, additem.WithCatalog(&stubLookup{err: catalog.ErrNotFound}))

	_, err := handler.Handle(context.Background(), additem.BuildCommand(uuid.New(), core.ItemMetadata{Code: "123"}, FixedTime))

	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

type decidingRunner struct {
	snapshot core.ItemSnapshot
	itemID   string
}

func (r *decidingRunner) Run(_ context.Context, itemID core.ItemIDString, decide shell.DecideFunc) (shell.HandlerResult, error) {
	r.itemID = itemID

	result := decide(r.snapshot)
	if err := result.HasError(); err != nil {
		return shell.NewErrorResult(shell.RetryMetrics{}), err
	}

	if result.IsIdempotent() {
		return shell.NewIdempotentResult(shell.RetryMetrics{}), nil
	}

	return shell.NewSuccessResult(shell.RetryMetrics{}, result.Event, nil), nil
}

type stubLookup struct {
	metadata catalog.Metadata
	err      error
	block    bool
	codes    []string
}

func (s *stubLookup) Lookup(ctx context.Context, code string) (catalog.Metadata, error) {
	s.codes = append(s.codes, code)

	if s.block {
		<-ctx.Done()

		return catalog.Metadata{}, ctx.Err()
	}

	return s.metadata, s.err
}

type warnRecorder struct {
	warnings []string
}

func (w *warnRecorder) Debug(string, ...any)      {}
func (w *warnRecorder) Info(string, ...any)       {}
func (w *warnRecorder) Warn(msg string, _ ...any) { w.warnings = append(w.warnings, msg) }
func (w *warnRecorder) Error(string, ...any)      {}
