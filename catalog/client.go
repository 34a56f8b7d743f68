package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

const (
	defaultGoogleBooksURL  = "https://www.googleapis.com/books/v1/volumes"
	defaultOpenLibraryURL  = "https://openlibrary.org/search.json"
	defaultCoversURL       = "https://covers.openlibrary.org/b/id"
	defaultTimeout         = 10 * time.Second
	maxResponseBytes       = 1 << 20
	sourceGoogleBooks      = "google_books"
	sourceOpenLibrary      = "open_library"
	authorSeparator        = ", "
	coverSizeSuffix        = "-L.jpg"
	openLibrarySearchParam = "isbn"
)

var (
	ErrNotFound        = errors.New("no catalog entry found")
	ErrEmptyCode       = errors.New("catalog code must not be empty")
	ErrLookupFailed    = errors.New("catalog lookup failed")
	ErrInvalidResponse = errors.New("catalog response could not be decoded")
	ErrInvalidOption   = errors.New("invalid catalog option")
)

// Metadata is what a catalog knows about a code. Empty fields were not provided by the source.
type Metadata struct {
	Title       string
	Author      string
	Genre       string
	Description string
	CoverRef    string
	Source      string
}

// Client queries the public catalogs.
type Client struct {
	httpClient     *http.Client
	googleBooksURL string
	openLibraryURL string
	coversURL      string
	timeout        time.Duration
}

// Option configures a Client.
type Option func(*Client) error

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) error {
		if httpClient == nil {
			return fmt.Errorf("%w: nil http client", ErrInvalidOption)
		}

		c.httpClient = httpClient

		return nil
	}
}

// WithGoogleBooksURL points the client to another Google Books volumes endpoint.
func WithGoogleBooksURL(endpoint string) Option {
	return func(c *Client) error {
		if endpoint == "" {
			return fmt.Errorf("%w: empty google books url", ErrInvalidOption)
		}

		c.googleBooksURL = endpoint

		return nil
	}
}

// WithOpenLibraryURL points the client to another Open Library search endpoint.
func WithOpenLibraryURL(endpoint string) Option {
	return func(c *Client) error {
		if endpoint == "" {
			return fmt.Errorf("%w: empty open library url", ErrInvalidOption)
		}

		c.openLibraryURL = endpoint

		return nil
	}
}

// WithCoversURL sets the base url for Open Library cover images.
func WithCoversURL(endpoint string) Option {
	return func(c *Client) error {
		if endpoint == "" {
			return fmt.Errorf("%w: empty covers url", ErrInvalidOption)
		}

		c.coversURL = strings.TrimSuffix(endpoint, "/")

		return nil
	}
}

// WithTimeout bounds a whole Lookup, both sources included.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) error {
		if timeout <= 0 {
			return fmt.Errorf("%w: timeout must be positive", ErrInvalidOption)
		}

		c.timeout = timeout

		return nil
	}
}

// NewClient creates a Client with the public endpoints unless options say otherwise.
func NewClient(options ...Option) (*Client, error) {
	c := &Client{
		httpClient:     http.DefaultClient,
		googleBooksURL: defaultGoogleBooksURL,
		openLibraryURL: defaultOpenLibraryURL,
		coversURL:      defaultCoversURL,
		timeout:        defaultTimeout,
	}

	for _, option := range options {
		if err := option(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Lookup returns the metadata for code from the first source that knows it.
// It returns ErrNotFound when neither source has an entry, and ErrLookupFailed joined with the
// last transport error when no source could be asked successfully.
func (c *Client) Lookup(ctx context.Context, code string) (Metadata, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Metadata{}, ErrEmptyCode
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	metadata, googleErr := c.lookupGoogleBooks(ctx, code)
	if googleErr == nil {
		return metadata, nil
	}

	metadata, openLibraryErr := c.lookupOpenLibrary(ctx, code)
	if openLibraryErr == nil {
		return metadata, nil
	}

	if errors.Is(googleErr, ErrNotFound) && errors.Is(openLibraryErr, ErrNotFound) {
		return Metadata{}, ErrNotFound
	}

	return Metadata{}, errors.Join(ErrLookupFailed, googleErr, openLibraryErr)
}

type googleBooksResponse struct {
	TotalItems int `json:"totalItems"`
	Items      []struct {
		VolumeInfo struct {
			Title       string   `json:"title"`
			Authors     []string `json:"authors"`
			Categories  []string `json:"categories"`
			Description string   `json:"description"`
			ImageLinks  struct {
				Thumbnail string `json:"thumbnail"`
			} `json:"imageLinks"`
		} `json:"volumeInfo"`
	} `json:"items"`
}

func (c *Client) lookupGoogleBooks(ctx context.Context, code string) (Metadata, error) {
	query := url.Values{"q": []string{"isbn:" + code}}

	var response googleBooksResponse
	if err := c.getJSON(ctx, c.googleBooksURL+"?"+query.Encode(), &response); err != nil {
		return Metadata{}, err
	}

	if response.TotalItems == 0 || len(response.Items) == 0 {
		return Metadata{}, ErrNotFound
	}

	info := response.Items[0].VolumeInfo

	metadata := Metadata{
		Title:       info.Title,
		Author:      strings.Join(info.Authors, authorSeparator),
		Description: info.Description,
		CoverRef:    info.ImageLinks.Thumbnail,
		Source:      sourceGoogleBooks,
	}

	if len(info.Categories) > 0 {
		metadata.Genre = info.Categories[0]
	}

	return metadata, nil
}

type openLibraryResponse struct {
	NumFound int `json:"numFound"`
	Docs     []struct {
		Title      string   `json:"title"`
		AuthorName []string `json:"author_name"`
		Subject    []string `json:"subject"`
		CoverID    int64    `json:"cover_i"`
	} `json:"docs"`
}

func (c *Client) lookupOpenLibrary(ctx context.Context, code string) (Metadata, error) {
	query := url.Values{openLibrarySearchParam: []string{code}}

	var response openLibraryResponse
	if err := c.getJSON(ctx, c.openLibraryURL+"?"+query.Encode(), &response); err != nil {
		return Metadata{}, err
	}

	if response.NumFound == 0 || len(response.Docs) == 0 {
		return Metadata{}, ErrNotFound
	}

	doc := response.Docs[0]

	metadata := Metadata{
		Title:  doc.Title,
		Author: strings.Join(doc.AuthorName, authorSeparator),
		Source: sourceOpenLibrary,
	}

	if len(doc.Subject) > 0 {
		metadata.Genre = doc.Subject[0]
	}

	if doc.CoverID > 0 {
		metadata.CoverRef = fmt.Sprintf("%s/%d%s", c.coversURL, doc.CoverID, coverSizeSuffix)
	}

	return metadata, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, req.URL.Host)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return err
	}

	if err = jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(body, target); err != nil {
		return errors.Join(ErrInvalidResponse, err)
	}

	return nil
}
