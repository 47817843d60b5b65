package openlibrary

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mrlokans/shelfsync/internal/lists"
)

const (
	maxGenres        = 10
	maxAuthorLookups = 3
)

// item is a list entry before enrichment.
type item struct {
	workID      string
	editionID   string
	title       string
	authors     []string
	authorKeys  []string
	publishYear int
	coverID     int
	addedAt     *time.Time
}

// enrichAll enriches items in parallel and returns books in input order.
func (f *Fetcher) enrichAll(ctx context.Context, items []item) []lists.ListBook {
	enriched := make([]*lists.ListBook, len(items))

	var g errgroup.Group
	g.SetLimit(f.concurrency)
	for i := range items {
		g.Go(func() error {
			book := f.enrich(ctx, items[i])
			if book.Title != "" {
				enriched[i] = &book
			}
			return nil
		})
	}
	_ = g.Wait()

	books := make([]lists.ListBook, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, b := range enriched {
		if b == nil || seen[b.Hash] {
			continue
		}
		seen[b.Hash] = true
		books = append(books, *b)
	}
	return books
}

// enrich follows work, edition and author records. Each hop is best effort:
// a failed lookup leaves the list-level values in place.
func (f *Fetcher) enrich(ctx context.Context, it item) lists.ListBook {
	book := lists.ListBook{
		Title:       it.title,
		PublishYear: it.publishYear,
		AddedAt:     it.addedAt,
	}
	if it.coverID > 0 {
		book.CoverURL = f.coverURL(it.coverID)
	}
	authorKeys := it.authorKeys

	// workID may be resolved through the edition; identity never uses it.
	workID := it.workID
	var edition *editionDetail
	if it.editionID != "" {
		var e editionDetail
		if err := f.getJSON(ctx, "/books/"+it.editionID+".json", &e); err == nil {
			edition = &e
			if workID == "" && len(e.Works) > 0 {
				workID = keyID(e.Works[0].Key)
			}
		}
	}

	if workID != "" {
		var w workDetail
		if err := f.getJSON(ctx, "/works/"+workID+".json", &w); err == nil {
			applyWork(&book, &w, f)
			if len(authorKeys) == 0 {
				for _, a := range w.Authors {
					authorKeys = append(authorKeys, a.Author.Key)
				}
			}
		}
	}

	if edition != nil {
		applyEdition(&book, edition, f)
		if len(authorKeys) == 0 {
			for _, a := range edition.Authors {
				authorKeys = append(authorKeys, a.Key)
			}
		}
	}

	authors := it.authors
	if len(authors) == 0 {
		authors = f.fetchAuthorNames(ctx, authorKeys)
	}

	rawTitle := book.Title
	title, titleSeries := lists.SplitTitleSeries(rawTitle)
	book.Title = title
	if book.SeriesName == "" && !titleSeries.IsZero() {
		book.SeriesName, book.SeriesPosition = titleSeries.Name, titleSeries.Position
	}

	book.Author = lists.NormalizeAuthor(strings.Join(authors, ", "))
	if book.Author == "" {
		book.Author = lists.UnknownAuthor
	}

	// Identity comes from the listing only, so a failed hop cannot change it.
	book.SourceBookID = it.workID
	if book.SourceBookID == "" {
		book.SourceBookID = it.editionID
	}
	book.Hash = lists.BookHash(SourceName, book.SourceBookID, book.Title, book.Author)
	switch {
	case workID != "":
		book.SourceURL = f.baseURL + "/works/" + workID
	case it.editionID != "":
		book.SourceURL = f.baseURL + "/books/" + it.editionID
	}
	return book
}

func applyWork(book *lists.ListBook, w *workDetail, f *Fetcher) {
	if w.Title != "" {
		book.Title = w.Title
	}
	if d := lists.CollapseWhitespace(string(w.Description)); d != "" {
		book.Description = d
	}
	if len(w.Covers) > 0 && w.Covers[0] > 0 {
		book.CoverURL = f.coverURL(w.Covers[0])
	}
	if len(w.Subjects) > 0 {
		genres := w.Subjects
		if len(genres) > maxGenres {
			genres = genres[:maxGenres]
		}
		book.Genres = append([]string(nil), genres...)
	}
}

func applyEdition(book *lists.ListBook, e *editionDetail, f *Fetcher) {
	if len(e.ISBN13) > 0 {
		book.ISBN = normalizeISBN(e.ISBN13[0])
	}
	if book.ISBN == "" && len(e.ISBN10) > 0 {
		book.ISBN = normalizeISBN(e.ISBN10[0])
	}
	if e.NumberOfPages > 0 {
		book.PageCount = e.NumberOfPages
	}
	if y := extractYear(e.PublishDate); y > 0 {
		book.PublishYear = y
	}
	if len(e.Covers) > 0 && e.Covers[0] > 0 {
		book.CoverURL = f.coverURL(e.Covers[0])
	}
	if len(e.Languages) > 0 {
		book.Language = keyID(e.Languages[0].Key)
	}
	if book.Description == "" {
		book.Description = lists.CollapseWhitespace(string(e.Description))
	}
	if book.Title == "" {
		book.Title = e.Title
	}

	if len(e.Series) > 0 {
		s := lists.ParseSeries(e.Series[0])
		if s.Position == 0 {
			for _, text := range []string{e.FullTitle, e.Subtitle, e.Title} {
				if pos, ok := lists.FindSeriesPosition(text, s.Name); ok {
					s.Position = pos
					break
				}
			}
		}
		book.SeriesName, book.SeriesPosition = s.Name, s.Position
	}
}

func (f *Fetcher) fetchAuthorNames(ctx context.Context, keys []string) []string {
	var names []string
	for _, key := range keys {
		if len(names) == maxAuthorLookups {
			break
		}
		id := keyID(key)
		if id == "" {
			continue
		}
		var a authorDetail
		if err := f.getJSON(ctx, "/authors/"+id+".json", &a); err != nil {
			continue
		}
		name := a.Name
		if name == "" {
			name = a.PersonalName
		}
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

func (f *Fetcher) coverURL(id int) string {
	return fmt.Sprintf("%s/b/id/%d-L.jpg", f.coversURL, id)
}
