package storygraph

import (
	"net/url"
	"regexp"
	"strings"
)

var notFoundPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<title>[^<]*(page not found|404)[^<]*</title>`),
	regexp.MustCompile(`(?i)the page you were looking for doesn'?t exist`),
	regexp.MustCompile(`(?i)(this|that) user (does not|doesn'?t) exist`),
	regexp.MustCompile(`(?i)couldn'?t find (this|that) user`),
}

var signInPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)action="[^"]*/users/sign_in"`),
	regexp.MustCompile(`(?i)<title>[^<]*(sign in|log in)[^<]*</title>`),
	regexp.MustCompile(`(?i)this (user'?s )?profile is private`),
}

func isNotFoundPage(body string) bool {
	return matchesAny(notFoundPatterns, body)
}

func isSignInPage(body string) bool {
	return matchesAny(signInPatterns, body)
}

// isSignInURL catches the proxy following a redirect to the login form.
func isSignInURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return strings.HasPrefix(u.Path, "/users/sign_in")
}

func matchesAny(patterns []*regexp.Regexp, body string) bool {
	for _, re := range patterns {
		if re.MatchString(body) {
			return true
		}
	}
	return false
}
