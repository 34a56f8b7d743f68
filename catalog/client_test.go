package catalog_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/bookcircle/catalog"
)

const isbn = "9780441478125"

func Test_Lookup_Uses_GoogleBooks_First(t *testing.T) {
	// arrange
	google := givenServer(t, http.StatusOK, `{
		"totalItems": 1,
		"items": [{"volumeInfo": {
			"title": "The Left Hand of Darkness",
			"authors": ["Ursula K. Le Guin"],
			"categories": ["Fiction"],
			"description": "Winter is an icy world.",
			"imageLinks": {"thumbnail": "http://books.google.com/cover.jpg"}
		}}]
	}`)
	openLibrary := givenServer(t, http.StatusInternalServerError, ``)
	client := givenClient(t, google, openLibrary)

	// act
	metadata, err := client.Lookup(context.Background(), isbn)

	// assert
	require.NoError(t, err)
	assert.Equal(t, "The Left Hand of Darkness", metadata.Title)
	assert.Equal(t, "Ursula K. Le Guin", metadata.Author)
	assert.Equal(t, "Fiction", metadata.Genre)
	assert.Equal(t, "Winter is an icy world.", metadata.Description)
	assert.Equal(t, "http://books.google.com/cover.jpg", metadata.CoverRef)
	assert.Equal(t, "google_books", metadata.Source)
	assert.Equal(t, "isbn:"+isbn, google.lastQuery().Get("q"))
	assert.Zero(t, openLibrary.calls())
}

func Test_Lookup_FallsBack_To_OpenLibrary(t *testing.T) {
	testCases := []struct {
		name         string
		googleStatus int
		googleBody   string
	}{
		{"google has no match", http.StatusOK, `{"totalItems": 0}`},
		{"google fails", http.StatusTooManyRequests, ``},
		{"google sends garbage", http.StatusOK, `{not json`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			google := givenServer(t, tc.googleStatus, tc.googleBody)
			openLibrary := givenServer(t, http.StatusOK, `{
				"numFound": 1,
				"docs": [{"title": "Kindred", "author_name": ["Octavia E. Butler", "Someone Else"], "cover_i": 42}]
			}`)
			client := givenClient(t, google, openLibrary, catalog.WithCoversURL("https://covers.example/b/id/"))

			metadata, err := client.Lookup(context.Background(), isbn)

			require.NoError(t, err)
			assert.Equal(t, "Kindred", metadata.Title)
			assert.Equal(t, "Octavia E. Butler, Someone Else", metadata.Author)
			assert.Equal(t, "https://covers.example/b/id/42-L.jpg", metadata.CoverRef)
			assert.Empty(t, metadata.Description)
			assert.Equal(t, "open_library", metadata.Source)
			assert.Equal(t, isbn, openLibrary.lastQuery().Get("isbn"))
		})
	}
}

func Test_Lookup_Returns_NotFound_When_NoSourceKnowsTheCode(t *testing.T) {
	google := givenServer(t, http.StatusOK, `{"totalItems": 0, "items": []}`)
	openLibrary := givenServer(t, http.StatusOK, `{"numFound": 0, "docs": []}`)
	client := givenClient(t, google, openLibrary)

	_, err := client.Lookup(context.Background(), isbn)

	assert.ErrorIs(t, err, catalog.ErrNotFound)
	assert.NotErrorIs(t, err, catalog.ErrLookupFailed)
}

func Test_Lookup_Returns_LookupFailed_When_SourcesFail(t *testing.T) {
	google := givenServer(t, http.StatusBadGateway, ``)
	openLibrary := givenServer(t, http.StatusOK, `{"numFound": 0}`)
	client := givenClient(t, google, openLibrary)

	_, err := client.Lookup(context.Background(), isbn)

	assert.ErrorIs(t, err, catalog.ErrLookupFailed)
}

func Test_Lookup_Rejects_EmptyCode(t *testing.T) {
	client, err := catalog.NewClient()
	require.NoError(t, err)

	_, err = client.Lookup(context.Background(), "   ")

	assert.ErrorIs(t, err, catalog.ErrEmptyCode)
}

func Test_Lookup_Is_BoundedByTimeout(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(slow.Close)

	client, err := catalog.NewClient(
		catalog.WithGoogleBooksURL(slow.URL),
		catalog.WithOpenLibraryURL(slow.URL),
		catalog.WithTimeout(50*time.Millisecond),
	)
	require.NoError(t, err)

	started := time.Now()
	_, err = client.Lookup(context.Background(), isbn)

	assert.ErrorIs(t, err, catalog.ErrLookupFailed)
	assert.Less(t, time.Since(started), time.Second)
}

func Test_NewClient_Rejects_InvalidOptions(t *testing.T) {
	testCases := []struct {
		name   string
		option catalog.Option
	}{
		{"nil http client", catalog.WithHTTPClient(nil)},
		{"empty google url", catalog.WithGoogleBooksURL("")},
		{"empty open library url", catalog.WithOpenLibraryURL("")},
		{"empty covers url", catalog.WithCoversURL("")},
		{"zero timeout", catalog.WithTimeout(0)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := catalog.NewClient(tc.option)

			assert.ErrorIs(t, err, catalog.ErrInvalidOption)
		})
	}
}

type recordingServer struct {
	*httptest.Server
	mu    sync.Mutex
	count int
	query url.Values
}

func (s *recordingServer) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.count
}

func (s *recordingServer) lastQuery() url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.query
}

func givenServer(t *testing.T, status int, body string) *recordingServer {
	t.Helper()

	rs := &recordingServer{}
	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rs.mu.Lock()
		rs.count++
		rs.query = r.URL.Query()
		rs.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(rs.Close)

	return rs
}

func givenClient(t *testing.T, google, openLibrary *recordingServer, options ...catalog.Option) *catalog.Client {
	t.Helper()

	options = append(options, catalog.WithGoogleBooksURL(google.URL), catalog.WithOpenLibraryURL(openLibrary.URL))
	client, err := catalog.NewClient(options...)
	require.NoError(t, err)

	return client
}
