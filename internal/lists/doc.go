// Package lists defines the contract shared by every external reading-list
// source: the normalized ListBook record, the page-oriented FetchResult, the
// Fetcher interface with its optional capabilities, and the normalization
// helpers (title/author cleanup, content hashing, series parsing) the
// concrete fetchers use.
//
// Fetchers never schedule, persist or diff. A caller drives pagination by
// following FetchResult.NextPage while HasMore is true and owns everything
// that happens to the books afterwards.
package lists
