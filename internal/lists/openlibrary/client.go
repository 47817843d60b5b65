package openlibrary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	userAgent      = "ShelfSync/1.0 (+https://github.com/mrlokans/shelfsync)"
	defaultTimeout = 30 * time.Second
)

type rateLimiter struct {
	mu       sync.Mutex
	lastCall time.Time
	interval time.Duration
}

func newRateLimiter(interval time.Duration) *rateLimiter {
	return &rateLimiter{interval: interval}
}

func (r *rateLimiter) wait(ctx context.Context) error {
	if r == nil || r.interval <= 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if since := time.Since(r.lastCall); since < r.interval {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.interval - since):
		}
	}
	r.lastCall = time.Now()
	return nil
}

var errMalformed = errors.New("decode response")

type statusError struct {
	StatusCode int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status: %d", e.StatusCode)
}

// getJSON fetches baseURL+path and decodes the JSON body into target.
func (f *Fetcher) getJSON(ctx context.Context, path string, target any) error {
	if err := f.rateLimiter.wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &statusError{StatusCode: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("%w: %v", errMalformed, err)
	}
	return nil
}

// normalizeISBN removes hyphens and spaces from ISBN.
func normalizeISBN(isbn string) string {
	isbn = strings.ReplaceAll(isbn, "-", "")
	isbn = strings.ReplaceAll(isbn, " ", "")
	isbn = strings.TrimSpace(isbn)

	if len(isbn) != 10 && len(isbn) != 13 {
		return ""
	}
	return isbn
}

// extractYear tries to extract a 4-digit year from a date string.
func extractYear(dateStr string) int {
	dateStr = strings.TrimSpace(dateStr)
	if len(dateStr) < 4 {
		return 0
	}

	formats := []string{
		"2006",
		"January 2, 2006",
		"Jan 2, 2006",
		"2006-01-02",
		"January 2006",
	}
	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t.Year()
		}
	}

	// Last resort: find 4 consecutive digits
	for i := 0; i <= len(dateStr)-4; i++ {
		if dateStr[i] >= '0' && dateStr[i] <= '9' {
			var year int
			if _, err := fmt.Sscanf(dateStr[i:i+4], "%d", &year); err == nil && year > 1000 && year < 3000 {
				return year
			}
		}
	}
	return 0
}

// keyID returns the trailing id of an OpenLibrary key such as
// "/works/OL45883W".
func keyID(key string) string {
	key = strings.TrimRight(strings.TrimSpace(key), "/")
	if i := strings.LastIndex(key, "/"); i >= 0 {
		return key[i+1:]
	}
	return key
}

// description fields are either a string or {"type": ..., "value": ...}.
type textValue string

func (t *textValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = textValue(s)
		return nil
	}
	var obj struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil
	}
	*t = textValue(obj.Value)
	return nil
}

type keyRef struct {
	Key string `json:"key"`
}

type readingLogResponse struct {
	Page     int               `json:"page"`
	NumFound int               `json:"numFound"`
	Entries  []readingLogEntry `json:"reading_log_entries"`
	Error    string            `json:"error"`
}

type readingLogEntry struct {
	Work struct {
		Title            string   `json:"title"`
		Key              string   `json:"key"`
		AuthorKeys       []string `json:"author_keys"`
		AuthorNames      []string `json:"author_names"`
		FirstPublishYear int      `json:"first_publish_year"`
		CoverID          int      `json:"cover_id"`
		CoverEditionKey  string   `json:"cover_edition_key"`
	} `json:"work"`
	LoggedEdition string `json:"logged_edition"`
	LoggedDate    string `json:"logged_date"`
}

type seedsResponse struct {
	Size    int         `json:"size"`
	Entries []seedEntry `json:"entries"`
	Error   string      `json:"error"`
}

type seedEntry struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Type    keyRef `json:"type"`
	Picture struct {
		URL string `json:"url"`
	} `json:"picture"`
}

type userListsResponse struct {
	Entries []struct {
		URL       string `json:"url"`
		FullURL   string `json:"full_url"`
		Name      string `json:"name"`
		SeedCount int    `json:"seed_count"`
	} `json:"entries"`
}

type workDetail struct {
	Title       string    `json:"title"`
	Description textValue `json:"description"`
	Subjects    []string  `json:"subjects"`
	Covers      []int     `json:"covers"`
	Authors     []struct {
		Author keyRef `json:"author"`
	} `json:"authors"`
}

type editionDetail struct {
	Title         string    `json:"title"`
	Subtitle      string    `json:"subtitle"`
	FullTitle     string    `json:"full_title"`
	Description   textValue `json:"description"`
	PublishDate   string    `json:"publish_date"`
	ISBN10        []string  `json:"isbn_10"`
	ISBN13        []string  `json:"isbn_13"`
	NumberOfPages int       `json:"number_of_pages"`
	Covers        []int     `json:"covers"`
	Languages     []keyRef  `json:"languages"`
	Series        []string  `json:"series"`
	Works         []keyRef  `json:"works"`
	Authors       []keyRef  `json:"authors"`
}

type authorDetail struct {
	Name         string `json:"name"`
	PersonalName string `json:"personal_name"`
}
