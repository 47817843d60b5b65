package lists

import "time"

// UnknownAuthor is reported when a source lists a book without an author.
const UnknownAuthor = "Unknown Author"

// ListBook is one book as reported by an external list source.
//
// Title, Author and Hash are always set. Hash is "<source>:<native id>" when
// the source exposes a stable id, otherwise the ContentHash of title and
// author. Everything else is optional and left at its zero value when the
// source does not report it.
type ListBook struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Hash   string `json:"hash"`

	ISBN           string     `json:"isbn,omitempty"`
	Language       string     `json:"language,omitempty"`
	Description    string     `json:"description,omitempty"`
	PageCount      int        `json:"page_count,omitempty"`
	PublishYear    int        `json:"publish_year,omitempty"`
	Rating         float64    `json:"rating,omitempty"`
	SeriesName     string     `json:"series_name,omitempty"`
	SeriesPosition float64    `json:"series_position,omitempty"`
	CoverURL       string     `json:"cover_url,omitempty"`
	Genres         []string   `json:"genres,omitempty"`
	SourceBookID   string     `json:"source_book_id,omitempty"`
	SourceURL      string     `json:"source_url,omitempty"`
	AddedAt        *time.Time `json:"added_at,omitempty"`
}

// FetchResult is the outcome of fetching one page.
//
// HasMore=false is authoritative: the caller must stop. When HasMore is true
// NextPage is the page number to request next. A non-nil Error may be
// returned together with a partial page of books.
type FetchResult struct {
	Books    []ListBook  `json:"books"`
	HasMore  bool        `json:"has_more"`
	NextPage int         `json:"next_page,omitempty"`
	Error    *FetchError `json:"error,omitempty"`
}

// Done returns a final page result.
func Done(books []ListBook) FetchResult {
	if books == nil {
		books = []ListBook{}
	}
	return FetchResult{Books: books}
}

// More returns a result that asks the caller to continue with next.
func More(books []ListBook, next int) FetchResult {
	if books == nil {
		books = []ListBook{}
	}
	return FetchResult{Books: books, HasMore: true, NextPage: next}
}

// Failed returns an empty, final result carrying err.
func Failed(err *FetchError) FetchResult {
	return FetchResult{Books: []ListBook{}, Error: err}
}

// AvailableList describes a user-selectable list (shelf, reading-log
// bucket, custom list) at a source.
type AvailableList struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// ValidationResult reports whether a SourceConfig can be fetched.
type ValidationResult struct {
	Valid bool        `json:"valid"`
	Error *FetchError `json:"error,omitempty"`
}

// Valid is the successful validation result.
func Valid() ValidationResult {
	return ValidationResult{Valid: true}
}

// Invalid wraps err as a failed validation.
func Invalid(err *FetchError) ValidationResult {
	return ValidationResult{Error: err}
}
