package openlibrary

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/shelfsync/internal/lists"
)

const readingLogPage1 = `{
  "page": 1,
  "numFound": 150,
  "reading_log_entries": [
    {
      "work": {
        "title": "Mistborn: The Final Empire",
        "key": "/works/OL45883W",
        "author_keys": ["/authors/OL1394865A"],
        "author_names": ["Brandon Sanderson"],
        "first_publish_year": 2006,
        "cover_id": 111,
        "cover_edition_key": "OL9999999M"
      },
      "logged_edition": "/books/OL7353617M",
      "logged_date": "2024/01/15, 09:30:00"
    },
    {
      "work": {
        "title": "The Lord of the Rings",
        "key": "/works/OL27448W",
        "author_keys": ["/authors/OL26320A"],
        "first_publish_year": 1954,
        "cover_edition_key": "OL51694024M"
      },
      "logged_edition": null,
      "logged_date": "not a date"
    }
  ]
}`

const readingLogPage2 = `{
  "page": 2,
  "numFound": 150,
  "reading_log_entries": [
    {"work": {"title": "Dune", "key": "/works/OL893415W", "author_names": ["Frank Herbert"], "first_publish_year": 1965}}
  ]
}`

const workMistborn = `{
  "title": "The Final Empire",
  "description": {"type": "/type/text", "value": "For a thousand years\n the ash fell."},
  "subjects": ["Fantasy", "Magic", "Heists", "Allomancy", "Epic", "Fiction", "Adventure", "Rebellion", "Gods", "Nobility", "Dystopia", "Series"],
  "covers": [222],
  "authors": [{"author": {"key": "/authors/OL1394865A"}, "type": {"key": "/type/author_role"}}]
}`

const editionMistborn = `{
  "title": "Mistborn",
  "full_title": "Mistborn: The Final Empire (Mistborn, Book 1)",
  "isbn_13": ["978-0-7653-1178-8"],
  "isbn_10": ["0765311780"],
  "number_of_pages": 541,
  "publish_date": "July 17, 2006",
  "covers": [333],
  "languages": [{"key": "/languages/eng"}],
  "series": ["Mistborn"],
  "works": [{"key": "/works/OL45883W"}]
}`

type testServer struct {
	*httptest.Server
	requests atomic.Int64
}

func newTestServer(t *testing.T, routes map[string]func(w http.ResponseWriter, r *http.Request)) (*Fetcher, *testServer) {
	t.Helper()
	ts := &testServer{}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.requests.Add(1)
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		if h, ok := routes[r.URL.Path]; ok {
			h(w, r)
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(ts.Close)

	return &Fetcher{
		httpClient:  &http.Client{Timeout: 5 * time.Second},
		baseURL:     ts.URL,
		coversURL:   "https://covers.test",
		rateLimiter: newRateLimiter(0),
		concurrency: 2,
	}, ts
}

func body(s string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(s))
	}
}

func status(code int) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
	}
}

func TestFetchBooks_ReadingLog(t *testing.T) {
	f, _ := newTestServer(t, map[string]func(http.ResponseWriter, *http.Request){
		"/people/jane/books/want-to-read.json": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "100", r.URL.Query().Get("limit"))
			if r.URL.Query().Get("page") == "2" {
				body(readingLogPage2)(w, r)
				return
			}
			body(readingLogPage1)(w, r)
		},
		"/works/OL45883W.json":     body(workMistborn),
		"/books/OL7353617M.json":   body(editionMistborn),
		"/works/OL27448W.json":     status(http.StatusNotFound),
		"/books/OL51694024M.json":  status(http.StatusInternalServerError),
		"/authors/OL26320A.json":   body(`{"name": "J.R.R. Tolkien"}`),
		"/works/OL893415W.json":    body(`{"title": "Dune"}`),
		"/authors/OL1394865A.json": body(`{"name": "should not be used"}`),
	})

	res := f.FetchBooks(context.Background(), lists.SourceConfig{Username: "jane"}, 1)
	require.Nil(t, res.Error)
	assert.True(t, res.HasMore)
	assert.Equal(t, 2, res.NextPage)
	require.Len(t, res.Books, 2)

	mistborn := res.Books[0]
	assert.Equal(t, "The Final Empire", mistborn.Title)
	assert.Equal(t, "Brandon Sanderson", mistborn.Author)
	assert.Equal(t, "openlibrary:OL45883W", mistborn.Hash)
	assert.Equal(t, "9780765311788", mistborn.ISBN)
	assert.Equal(t, 541, mistborn.PageCount)
	assert.Equal(t, 2006, mistborn.PublishYear)
	assert.Equal(t, "https://covers.test/b/id/333-L.jpg", mistborn.CoverURL, "edition cover wins")
	assert.Equal(t, "eng", mistborn.Language)
	assert.Equal(t, "Mistborn", mistborn.SeriesName)
	assert.Equal(t, float64(1), mistborn.SeriesPosition)
	assert.Equal(t, "For a thousand years the ash fell.", mistborn.Description)
	assert.Len(t, mistborn.Genres, maxGenres)
	assert.Equal(t, f.baseURL+"/works/OL45883W", mistborn.SourceURL)
	require.NotNil(t, mistborn.AddedAt)
	assert.Equal(t, time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC), *mistborn.AddedAt)

	lotr := res.Books[1]
	assert.Equal(t, "The Lord of the Rings", lotr.Title)
	assert.Equal(t, "J.R.R. Tolkien", lotr.Author, "author hop fills missing names")
	assert.Equal(t, "openlibrary:OL27448W", lotr.Hash)
	assert.Equal(t, 1954, lotr.PublishYear)
	assert.Empty(t, lotr.CoverURL)
	assert.Nil(t, lotr.AddedAt)

	res = f.FetchBooks(context.Background(), lists.SourceConfig{Username: "jane"}, 2)
	require.Nil(t, res.Error)
	assert.False(t, res.HasMore)
	require.Len(t, res.Books, 1)
	assert.Equal(t, "Dune", res.Books[0].Title)
}

func TestFetchBooks_ReadingLogEmpty(t *testing.T) {
	f, _ := newTestServer(t, map[string]func(http.ResponseWriter, *http.Request){
		"/people/jane/books/already-read.json": body(`{"page": 1, "numFound": 0, "reading_log_entries": []}`),
	})

	res := f.FetchBooks(context.Background(), lists.SourceConfig{Username: "jane", Shelf: "already-read"}, 1)
	require.Nil(t, res.Error)
	assert.False(t, res.HasMore)
	assert.Empty(t, res.Books)
	assert.NotNil(t, res.Books)
}

func TestFetchBooks_CustomList(t *testing.T) {
	f, _ := newTestServer(t, map[string]func(http.ResponseWriter, *http.Request){
		"/people/jane/lists/OL97L/seeds.json": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "100", r.URL.Query().Get("limit"))
			assert.Equal(t, "0", r.URL.Query().Get("offset"))
			body(`{"size": 3, "entries": [
				{"url": "/works/OL45883W", "title": "Mistborn", "type": {"key": "/type/work"}},
				{"url": "/books/OL7353617M", "title": "Mistborn", "type": {"key": "/type/edition"}},
				{"url": "/authors/OL1A", "title": "Someone", "type": {"key": "/type/author"}}
			]}`)(w, r)
		},
		"/works/OL45883W.json":     body(workMistborn),
		"/books/OL7353617M.json":   body(editionMistborn),
		"/authors/OL1394865A.json": body(`{"name": "Brandon Sanderson"}`),
	})

	res := f.FetchBooks(context.Background(), lists.SourceConfig{Username: "jane", ListID: "OL97L"}, 1)
	require.Nil(t, res.Error)
	assert.False(t, res.HasMore)
	require.Len(t, res.Books, 2, "author seeds are skipped")

	work := res.Books[0]
	assert.Equal(t, "openlibrary:OL45883W", work.Hash)
	assert.Equal(t, "Brandon Sanderson", work.Author)
	assert.Equal(t, "The Final Empire", work.Title)

	edition := res.Books[1]
	assert.Equal(t, "openlibrary:OL7353617M", edition.Hash, "edition seeds keep their own key")
	assert.Equal(t, "OL7353617M", edition.SourceBookID)
	assert.Equal(t, f.baseURL+"/works/OL45883W", edition.SourceURL, "resolved work links the record")
	assert.Equal(t, "Brandon Sanderson", edition.Author)
	assert.Equal(t, 541, edition.PageCount)
}

func TestFetchBooks_EditionSeedHashIgnoresHopFailures(t *testing.T) {
	seeds := body(`{"entries": [{"url": "/books/OL7353617M", "title": "Mistborn"}]}`)
	cfg := lists.SourceConfig{Username: "jane", ListID: "OL97L"}

	healthy, _ := newTestServer(t, map[string]func(http.ResponseWriter, *http.Request){
		"/people/jane/lists/OL97L/seeds.json": seeds,
		"/books/OL7353617M.json":              body(editionMistborn),
		"/works/OL45883W.json":                body(workMistborn),
		"/authors/OL1394865A.json":            body(`{"name": "Brandon Sanderson"}`),
	})
	failing, _ := newTestServer(t, map[string]func(http.ResponseWriter, *http.Request){
		"/people/jane/lists/OL97L/seeds.json": seeds,
		"/books/OL7353617M.json":              status(http.StatusServiceUnavailable),
	})

	ok := healthy.FetchBooks(context.Background(), cfg, 1)
	degraded := failing.FetchBooks(context.Background(), cfg, 1)
	require.Nil(t, ok.Error)
	require.Nil(t, degraded.Error)
	require.Len(t, ok.Books, 1)
	require.Len(t, degraded.Books, 1)

	assert.Equal(t, ok.Books[0].Hash, degraded.Books[0].Hash)
	assert.Equal(t, "openlibrary:OL7353617M", degraded.Books[0].Hash)
	assert.Equal(t, "Mistborn", degraded.Books[0].Title)
	assert.Equal(t, failing.baseURL+"/books/OL7353617M", degraded.Books[0].SourceURL)
}

func TestFetchBooks_CustomListFullPage(t *testing.T) {
	var seeds []string
	for i := 1; i <= PageSize; i++ {
		seeds = append(seeds, fmt.Sprintf(`{"url": "/works/OL%dW", "title": "Book %d"}`, i, i))
	}
	f, _ := newTestServer(t, map[string]func(http.ResponseWriter, *http.Request){
		"/people/jane/lists/OL97L/seeds.json": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "200", r.URL.Query().Get("offset"))
			body(`{"entries": [` + strings.Join(seeds, ",") + `]}`)(w, r)
		},
	})

	res := f.FetchBooks(context.Background(), lists.SourceConfig{Username: "jane", ListType: "list", ListID: "OL97L"}, 3)
	require.Nil(t, res.Error)
	assert.True(t, res.HasMore)
	assert.Equal(t, 4, res.NextPage)
	require.Len(t, res.Books, PageSize)

	for i, b := range res.Books {
		assert.Equal(t, fmt.Sprintf("Book %d", i+1), b.Title, "order is preserved")
		assert.Equal(t, lists.UnknownAuthor, b.Author)
	}
}

func TestFetchBooks_Errors(t *testing.T) {
	tests := []struct {
		name       string
		handler    func(http.ResponseWriter, *http.Request)
		wantKind   lists.ErrorKind
		wantReason string
	}{
		{name: "unknown user", handler: status(http.StatusNotFound), wantKind: lists.KindAccessRevoked, wantReason: lists.ReasonNotFound},
		{name: "private log", handler: status(http.StatusForbidden), wantKind: lists.KindAccessRevoked, wantReason: lists.ReasonPrivate},
		{name: "error payload", handler: body(`{"error": "Shelf want-to-read is private"}`), wantKind: lists.KindAccessRevoked, wantReason: lists.ReasonPrivate},
		{name: "server error", handler: status(http.StatusServiceUnavailable), wantKind: lists.KindUnreachable},
		{name: "bad json", handler: body(`<html>`), wantKind: lists.KindMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, _ := newTestServer(t, map[string]func(http.ResponseWriter, *http.Request){
				"/people/jane/books/want-to-read.json": tt.handler,
			})

			res := f.FetchBooks(context.Background(), lists.SourceConfig{Username: "jane"}, 1)
			require.NotNil(t, res.Error)
			assert.Equal(t, tt.wantKind, res.Error.Kind)
			assert.Equal(t, tt.wantReason, res.Error.Reason)
			assert.False(t, res.HasMore)
		})
	}
}

func TestValidateConfig(t *testing.T) {
	f, ts := newTestServer(t, map[string]func(http.ResponseWriter, *http.Request){
		"/people/jane/books/want-to-read.json": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "1", r.URL.Query().Get("limit"))
			body(`{"numFound": 0, "reading_log_entries": []}`)(w, r)
		},
		"/people/jane/lists/OL97L/seeds.json": body(`{"entries": []}`),
	})

	tests := []struct {
		name      string
		cfg       lists.SourceConfig
		wantValid bool
		wantKind  lists.ErrorKind
	}{
		{name: "reading log", cfg: lists.SourceConfig{Username: "jane"}, wantValid: true},
		{name: "custom list", cfg: lists.SourceConfig{Username: "jane", ListType: "list", ListID: "OL97L"}, wantValid: true},
		{name: "missing username", cfg: lists.SourceConfig{}, wantKind: lists.KindConfig},
		{name: "bad shelf", cfg: lists.SourceConfig{Username: "jane", Shelf: "dnf"}, wantKind: lists.KindConfig},
		{name: "bad list id", cfg: lists.SourceConfig{Username: "jane", ListType: "list", ListID: "97"}, wantKind: lists.KindConfig},
		{name: "bad list type", cfg: lists.SourceConfig{Username: "jane", ListType: "wishlist"}, wantKind: lists.KindConfig},
		{name: "unknown user", cfg: lists.SourceConfig{Username: "ghost"}, wantKind: lists.KindAccessRevoked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := ts.requests.Load()
			res := f.ValidateConfig(context.Background(), tt.cfg)
			assert.Equal(t, tt.wantValid, res.Valid)
			if tt.wantValid {
				return
			}
			require.NotNil(t, res.Error)
			assert.Equal(t, tt.wantKind, res.Error.Kind)
			if tt.wantKind == lists.KindConfig {
				assert.Equal(t, before, ts.requests.Load(), "syntax errors are reported before any request")
			}
		})
	}
}

func TestAvailableLists(t *testing.T) {
	f, _ := newTestServer(t, map[string]func(http.ResponseWriter, *http.Request){
		"/people/jane/lists.json": body(`{"entries": [
			{"url": "/people/jane/lists/OL97L", "full_url": "/people/jane/lists/OL97L/Favorites", "name": "Favorites &amp; more", "seed_count": 3},
			{"url": "/people/jane/lists/OL98L", "name": ""},
			{"url": "/people/jane/lists/OL97L", "name": "Duplicate"}
		]}`),
	})

	got := f.AvailableLists(context.Background(), lists.SourceConfig{Username: "jane"})
	want := append(append([]lists.AvailableList(nil), ReadingLogShelves...),
		lists.AvailableList{ID: "OL97L", Name: "Favorites & more", Slug: "Favorites"},
		lists.AvailableList{ID: "OL98L", Name: "OL98L"},
	)
	assert.Equal(t, want, got)
}

func TestAvailableLists_Fallback(t *testing.T) {
	f, _ := newTestServer(t, nil)

	got := f.AvailableLists(context.Background(), lists.SourceConfig{Username: "jane"})
	assert.Equal(t, ReadingLogShelves, got)
}

func TestParseProfileURL(t *testing.T) {
	f := New(Options{})

	tests := []struct {
		url  string
		ok   bool
		want lists.SourceConfig
	}{
		{url: "https://openlibrary.org/people/jane", ok: true, want: lists.SourceConfig{Username: "jane", ListType: "reading-log", Shelf: "want-to-read"}},
		{url: "openlibrary.org/people/jane/books/already-read", ok: true, want: lists.SourceConfig{Username: "jane", ListType: "reading-log", Shelf: "already-read"}},
		{url: "https://openlibrary.org/people/jane/lists/OL97L/Favorites", ok: true, want: lists.SourceConfig{Username: "jane", ListType: "list", ListID: "OL97L"}},
		{url: "https://openlibrary.org/works/OL45883W", ok: false},
		{url: "https://example.org/people/jane", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			cfg, ok := f.ParseProfileURL(tt.url)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, cfg)
		})
	}
}

func TestNormalizeISBN(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"978-0-13-468599-1", "9780134685991"},
		{"0-13-468599-6", "0134685996"},
		{"978 0 13 468599 1", "9780134685991"},
		{"123", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizeISBN(tt.input))
		})
	}
}

func TestExtractYear(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"2020", 2020},
		{"January 15, 2019", 2019},
		{"Jan 15, 2019", 2019},
		{"2021-06-15", 2021},
		{"January 2018", 2018},
		{"Published in 1999", 1999},
		{"", 0},
		{"no year here", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractYear(tt.input))
		})
	}
}
