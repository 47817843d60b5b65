package goodreads

import (
	"bytes"
	"encoding/xml"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mrlokans/shelfsync/internal/lists"
)

var (
	bookLinkRe  = regexp.MustCompile(`/book/show/(\d+)`)
	signInRe    = regexp.MustCompile(`(?i)(/user/sign_in|sign in to goodreads|<title>\s*sign in)`)
	dateLayouts = []string{time.RFC1123Z, time.RFC1123, "Mon, 2 Jan 2006 15:04:05 -0700"}
)

type rssFeed struct {
	Channel struct {
		Items []feedItem `xml:"item"`
	} `xml:"channel"`
}

type feedItem struct {
	GUID            string `xml:"guid"`
	Title           string `xml:"title"`
	Link            string `xml:"link"`
	BookID          string `xml:"book_id"`
	AuthorName      string `xml:"author_name"`
	ISBN            string `xml:"isbn"`
	ImageURL        string `xml:"book_image_url"`
	LargeImageURL   string `xml:"book_large_image_url"`
	Description     string `xml:"book_description"`
	ItemDescription string `xml:"description"`
	AverageRating   string `xml:"average_rating"`
	Published       string `xml:"book_published"`
	DateAdded       string `xml:"user_date_added"`
	Book            struct {
		ID       string `xml:"id,attr"`
		NumPages string `xml:"num_pages"`
	} `xml:"book"`
}

func looksLikeFeed(body []byte) bool {
	head := body
	if len(head) > 2048 {
		head = head[:2048]
	}
	return bytes.Contains(head, []byte("<rss")) || bytes.Contains(head, []byte("<channel"))
}

func isSignInPage(body []byte) bool {
	return signInRe.Match(body)
}

func parseFeed(body []byte) ([]feedItem, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	// Goodreads feeds are not always well formed (stray HTML entities in
	// descriptions), so parse leniently and clean the text afterwards.
	dec.Strict = false
	dec.Entity = xml.HTMLEntity

	var feed rssFeed
	if err := dec.Decode(&feed); err != nil {
		return nil, err
	}
	return feed.Channel.Items, nil
}

func (f *Fetcher) toListBook(item feedItem) (lists.ListBook, bool) {
	rawTitle := lists.CleanText(item.Title)
	title, series := lists.SplitTitleSeries(rawTitle)
	author := lists.NormalizeAuthor(lists.CleanText(item.AuthorName))
	if title == "" {
		return lists.ListBook{}, false
	}
	if author == "" {
		author = lists.UnknownAuthor
	}

	id := bookID(item)
	book := lists.ListBook{
		Title:          title,
		Author:         author,
		Hash:           lists.BookHash(SourceName, id, title, author),
		ISBN:           strings.TrimSpace(lists.CleanText(item.ISBN)),
		Description:    lists.CleanHTMLText(item.Description),
		PageCount:      atoi(lists.CleanText(item.Book.NumPages)),
		PublishYear:    atoi(lists.CleanText(item.Published)),
		Rating:         atof(lists.CleanText(item.AverageRating)),
		SeriesName:     series.Name,
		SeriesPosition: series.Position,
		CoverURL:       coverURL(item),
		SourceBookID:   id,
		AddedAt:        parseDate(lists.CleanText(item.DateAdded)),
	}
	if id != "" {
		book.SourceURL = f.baseURL + "/book/show/" + id
	}
	return book, true
}

// bookID prefers the explicit book_id element, then the <book id=""> attribute,
// then a /book/show/<id> link anywhere in the item.
func bookID(item feedItem) string {
	for _, candidate := range []string{item.BookID, item.Book.ID} {
		if id := strings.TrimSpace(lists.CleanText(candidate)); isDigits(id) {
			return id
		}
	}
	for _, text := range []string{item.Link, item.GUID, item.ItemDescription} {
		if m := bookLinkRe.FindStringSubmatch(lists.StripCDATA(text)); m != nil {
			return m[1]
		}
	}
	return ""
}

func coverURL(item feedItem) string {
	for _, candidate := range []string{item.LargeImageURL, item.ImageURL} {
		u := lists.CleanText(candidate)
		if u != "" && !strings.Contains(u, "nophoto") {
			return u
		}
	}
	return ""
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func atof(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}
