package lists

// SourceConfig addresses one list at one source. Each fetcher reads only
// the fields that apply to it:
//
//	goodreads    UserID, Shelf
//	storygraph   Username, Shelf
//	openlibrary  Username, ListType, Shelf (reading-log) or ListID (list)
type SourceConfig struct {
	UserID   string `json:"user_id,omitempty"`
	Username string `json:"username,omitempty"`
	Shelf    string `json:"shelf,omitempty"`
	ListType string `json:"list_type,omitempty"`
	ListID   string `json:"list_id,omitempty"`
	ListName string `json:"list_name,omitempty"`
}

// OpenLibrary list kinds.
const (
	ListTypeReadingLog = "reading-log"
	ListTypeCustom     = "list"
)
