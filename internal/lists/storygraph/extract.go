package storygraph

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mrlokans/shelfsync/internal/lists"
)

var (
	paneAnchorRe = regexp.MustCompile(`data-book-id="([^"]+)"`)
	titleRe      = regexp.MustCompile(`(?s)<h3[^>]*>\s*<a[^>]*href="/books/[^"]+"[^>]*>(.*?)</a>`)
	bookLinkRe   = regexp.MustCompile(`(?s)<a[^>]*href="/books/([A-Za-z0-9-]+)"[^>]*>(.*?)</a>`)
	authorRe     = regexp.MustCompile(`(?s)<a[^>]*href="/authors/[^"]*"[^>]*>(.*?)</a>`)
	seriesRe     = regexp.MustCompile(`(?s)<a[^>]*href="/series/[^"]*"[^>]*>(.*?)</a>(?:\s*<a[^>]*href="/series/[^"]*"[^>]*>\s*#\s*(\d+(?:\.\d+)?)\s*</a>)?`)
	coverRe      = regexp.MustCompile(`<img[^>]*?\ssrc="([^"]+)"`)
	pagesRe      = regexp.MustCompile(`(\d[\d,]*)\s+pages`)
	yearRe       = regexp.MustCompile(`(?i)first pub(?:lished)?\s+(\d{4})`)
)

// Bytes searched around a loose book link for its author and cover.
const (
	looseLookahead  = 2000
	looseLookbehind = 1000
)

type record struct {
	id     string
	title  string
	author string
	cover  string
	pages  int
	year   int
	series lists.Series
}

// extractBooks pulls book records out of a rendered shelf page. The
// structured pass keys on the per-book pane; the loose pass over plain
// /books/<id> links only runs when the structured pass finds nothing.
func extractBooks(body, baseURL string) []lists.ListBook {
	records := extractPanes(body)
	if len(records) == 0 {
		records = extractLoose(body)
	}

	books := make([]lists.ListBook, 0, len(records))
	for _, r := range records {
		books = append(books, r.toListBook(baseURL))
	}
	return books
}

func extractPanes(body string) []record {
	locs := paneAnchorRe.FindAllStringSubmatchIndex(body, -1)

	var out dedup
	for i := 0; i < len(locs); {
		id := body[locs[i][2]:locs[i][3]]
		start := locs[i][0]

		// Consecutive anchors with the same id belong to one pane
		// (StoryGraph repeats the id on nested buttons and mobile layouts).
		j := i + 1
		for j < len(locs) && body[locs[j][2]:locs[j][3]] == id {
			j++
		}
		end := len(body)
		if j < len(locs) {
			end = locs[j][0]
		}

		out.add(parsePane(id, body[start:end]))
		i = j
	}
	return out.records()
}

func parsePane(id, html string) record {
	r := record{id: id}

	if m := titleRe.FindStringSubmatch(html); m != nil {
		r.title = lists.CleanHTMLText(m[1])
	}
	if r.title == "" {
		for _, m := range bookLinkRe.FindAllStringSubmatch(html, -1) {
			if text := lists.CleanHTMLText(m[2]); text != "" {
				r.title = text
				break
			}
		}
	}

	r.author = authors(html)
	r.series = series(html)
	if m := coverRe.FindStringSubmatch(html); m != nil {
		r.cover = lists.DecodeEntities(m[1])
	}
	if m := pagesRe.FindStringSubmatch(html); m != nil {
		r.pages, _ = strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	}
	if m := yearRe.FindStringSubmatch(html); m != nil {
		r.year, _ = strconv.Atoi(m[1])
	}
	return r
}

func extractLoose(body string) []record {
	locs := bookLinkRe.FindAllStringSubmatchIndex(body, -1)

	var out dedup
	prevEnd := 0
	for i, loc := range locs {
		id := body[loc[2]:loc[3]]
		text := lists.CleanHTMLText(body[loc[4]:loc[5]])

		ahead := min(loc[1]+looseLookahead, len(body))
		for _, next := range locs[i+1:] {
			if body[next[2]:next[3]] != id {
				ahead = min(ahead, next[0])
				break
			}
		}
		behind := max(prevEnd, loc[0]-looseLookbehind, 0)

		r := record{id: id, title: text}
		r.author = authors(body[loc[1]:ahead])
		// The cover is usually its own link right before the title link, or
		// an <img> inside this one.
		if covers := coverRe.FindAllStringSubmatch(body[behind:loc[1]], -1); len(covers) > 0 {
			r.cover = lists.DecodeEntities(covers[len(covers)-1][1])
		}
		out.add(r)

		if i+1 < len(locs) && body[locs[i+1][2]:locs[i+1][3]] != id {
			prevEnd = loc[1]
		}
	}
	return out.records()
}

func authors(html string) string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range authorRe.FindAllStringSubmatch(html, -1) {
		name := lists.NormalizeAuthor(lists.CleanHTMLText(m[1]))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return strings.Join(names, ", ")
}

func series(html string) lists.Series {
	m := seriesRe.FindStringSubmatch(html)
	if m == nil {
		return lists.Series{}
	}
	name := lists.CleanHTMLText(m[1])
	if m[2] != "" {
		pos, _ := strconv.ParseFloat(m[2], 64)
		return lists.Series{Name: name, Position: pos}
	}
	return lists.ParseSeries(name)
}

func (r record) toListBook(baseURL string) lists.ListBook {
	title, titleSeries := lists.SplitTitleSeries(r.title)
	s := r.series
	if s.IsZero() {
		s = titleSeries
	}
	return lists.ListBook{
		Title:          title,
		Author:         r.author,
		Hash:           lists.SourceHash(SourceName, r.id),
		PageCount:      r.pages,
		PublishYear:    r.year,
		SeriesName:     s.Name,
		SeriesPosition: s.Position,
		CoverURL:       r.cover,
		SourceBookID:   r.id,
		SourceURL:      baseURL + "/books/" + r.id,
	}
}

// dedup keeps the first record per id, filling its blanks from later
// duplicates. Records still missing a title or author are dropped.
type dedup struct {
	order []string
	byID  map[string]*record
}

func (d *dedup) add(r record) {
	if d.byID == nil {
		d.byID = make(map[string]*record)
	}
	existing, ok := d.byID[r.id]
	if !ok {
		rec := r
		d.byID[r.id] = &rec
		d.order = append(d.order, r.id)
		return
	}
	if existing.title == "" {
		existing.title = r.title
	}
	if existing.author == "" {
		existing.author = r.author
	}
	if existing.cover == "" {
		existing.cover = r.cover
	}
	if existing.pages == 0 {
		existing.pages = r.pages
	}
	if existing.year == 0 {
		existing.year = r.year
	}
	if existing.series.IsZero() {
		existing.series = r.series
	}
}

func (d *dedup) records() []record {
	out := make([]record, 0, len(d.order))
	for _, id := range d.order {
		if r := d.byID[id]; r.title != "" && r.author != "" {
			out = append(out, *r)
		}
	}
	return out
}
