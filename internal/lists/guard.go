package lists

import (
	"log"
	"runtime/debug"
)

// RecoverFetch must be deferred directly by a public FetchBooks
// implementation. A panic is logged and replaces *res with a generic
// internal error so it never reaches the caller.
func RecoverFetch(source string, res *FetchResult) {
	if r := recover(); r != nil {
		log.Printf("%s: recovered panic in FetchBooks: %v\n%s", source, r, debug.Stack())
		*res = Failed(InternalError("unexpected error while fetching %s list", source))
	}
}

// RecoverValidate is RecoverFetch for ValidateConfig.
func RecoverValidate(source string, res *ValidationResult) {
	if r := recover(); r != nil {
		log.Printf("%s: recovered panic in ValidateConfig: %v\n%s", source, r, debug.Stack())
		*res = Invalid(InternalError("unexpected error while validating %s configuration", source))
	}
}

// RecoverLists is RecoverFetch for AvailableLists; the fallback lists are
// returned instead.
func RecoverLists(source string, res *[]AvailableList, fallback []AvailableList) {
	if r := recover(); r != nil {
		log.Printf("%s: recovered panic in AvailableLists: %v", source, r)
		*res = append([]AvailableList(nil), fallback...)
	}
}

// RecoverParse is RecoverFetch for ParseProfileURL.
func RecoverParse(source string, cfg *SourceConfig, ok *bool) {
	if r := recover(); r != nil {
		log.Printf("%s: recovered panic in ParseProfileURL: %v", source, r)
		*cfg = SourceConfig{}
		*ok = false
	}
}
