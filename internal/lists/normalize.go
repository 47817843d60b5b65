package lists

import (
	"crypto/sha256"
	"encoding/hex"
	"html"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	cdataRe       = regexp.MustCompile(`(?s)<!\[CDATA\[(.*?)\]\]>`)
	entityRe      = regexp.MustCompile(`&(#[0-9]{1,7}|#[xX][0-9a-fA-F]{1,6}|[A-Za-z][A-Za-z0-9]{1,31});`)
	tagRe         = regexp.MustCompile(`(?s)<[^>]*>`)
	breakTagRe    = regexp.MustCompile(`(?i)<br\s*/?>|</p>`)
	titleSeriesRe = regexp.MustCompile(`^(.*\S)\s*\(([^()]+?),?\s*#\s*(\d+(?:\.\d+)?)\)$`)
)

// CollapseWhitespace folds runs of whitespace into a single space and trims
// the ends.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// StripCDATA unwraps every <![CDATA[...]]> section in s.
func StripCDATA(s string) string {
	return cdataRe.ReplaceAllString(s, "$1")
}

// DecodeEntities resolves named and numeric character references. Entities
// that are not recognised are removed.
func DecodeEntities(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	return entityRe.ReplaceAllStringFunc(s, func(ref string) string {
		decoded := html.UnescapeString(ref)
		if decoded == ref {
			return ""
		}
		return decoded
	})
}

// StripTags removes markup from s, keeping line breaks for <br> and </p>.
func StripTags(s string) string {
	s = breakTagRe.ReplaceAllString(s, "\n")
	return tagRe.ReplaceAllString(s, "")
}

// CleanText unwraps CDATA, decodes entities and collapses whitespace.
func CleanText(s string) string {
	return CollapseWhitespace(DecodeEntities(StripCDATA(s)))
}

// CleanHTMLText is CleanText for fields that may carry markup.
func CleanHTMLText(s string) string {
	return CollapseWhitespace(DecodeEntities(StripTags(StripCDATA(s))))
}

// NormalizeTitle collapses whitespace and drops a trailing
// "(Series Name, #N)" annotation.
func NormalizeTitle(title string) string {
	clean, _ := SplitTitleSeries(title)
	return clean
}

// SplitTitleSeries separates a trailing "(Series Name, #N)" annotation from
// title. The returned Series is zero when the title has none.
func SplitTitleSeries(title string) (string, Series) {
	title = CollapseWhitespace(title)
	m := titleSeriesRe.FindStringSubmatch(title)
	if m == nil {
		return title, Series{}
	}
	return strings.TrimSpace(m[1]), Series{
		Name:     strings.TrimSpace(m[2]),
		Position: parsePosition(m[3]),
	}
}

// NormalizeAuthor collapses whitespace in an author name.
func NormalizeAuthor(author string) string {
	return CollapseWhitespace(author)
}

// canonicalKey lowercases s, removes diacritics and punctuation, and
// collapses whitespace.
func canonicalKey(s string) string {
	s = strings.ToLower(norm.NFKD.String(s))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return CollapseWhitespace(b.String())
}

// ContentHash derives a stable identity from title and author for books
// whose source exposes no native id. Case, accents, punctuation and spacing
// do not affect the result.
func ContentHash(title, author string) string {
	sum := sha256.Sum256([]byte(canonicalKey(title) + "|" + canonicalKey(author)))
	return hex.EncodeToString(sum[:16])
}

// SourceHash builds the "<source>:<id>" identity for a native id.
func SourceHash(source, id string) string {
	return source + ":" + id
}

// BookHash returns SourceHash when id is present and ContentHash otherwise.
func BookHash(source, id, title, author string) string {
	if id = strings.TrimSpace(id); id != "" {
		return SourceHash(source, id)
	}
	return ContentHash(title, author)
}
