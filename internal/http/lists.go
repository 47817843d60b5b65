package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/shelfsync/internal/lists"
)

// ListSources exposes the registered list sources.
type ListSources interface {
	Sources() []lists.SourceInfo
	Validate(ctx context.Context, source string, cfg lists.SourceConfig) (lists.ValidationResult, error)
	Fetch(ctx context.Context, source string, cfg lists.SourceConfig, page int) (lists.FetchResult, error)
	AvailableLists(ctx context.Context, source string, cfg lists.SourceConfig) ([]lists.AvailableList, error)
	ParseProfileURL(source, rawURL string) (lists.SourceConfig, bool, error)
	DetectSource(rawURL string) (string, lists.SourceConfig, bool)
}

// ListsController runs the list contract against a source on demand,
// without storing anything.
type ListsController struct {
	sources ListSources
}

func NewListsController(sources ListSources) *ListsController {
	return &ListsController{sources: sources}
}

// ProfileURLRequest carries a profile or list URL.
type ProfileURLRequest struct {
	URL string `json:"url" binding:"required"`
}

// ProfileURLResponse is the result of parsing a profile URL.
type ProfileURLResponse struct {
	Source string             `json:"source,omitempty"`
	Parsed bool               `json:"parsed"`
	Config lists.SourceConfig `json:"config"`
}

// Sources handles GET /api/lists/sources
func (lc *ListsController) Sources(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sources": lc.sources.Sources()})
}

// Validate handles POST /api/lists/:source/validate
func (lc *ListsController) Validate(c *gin.Context) {
	cfg, ok := bindSourceConfig(c)
	if !ok {
		return
	}

	result, err := lc.sources.Validate(c.Request.Context(), c.Param("source"), cfg)
	if err != nil {
		respondRegistryError(c, err, "validate list config")
		return
	}
	c.JSON(http.StatusOK, result)
}

// Fetch handles POST /api/lists/:source/fetch?page=N
// Source failures are reported inside the result with a 200 status.
func (lc *ListsController) Fetch(c *gin.Context) {
	page, ok := parsePositiveQuery(c, "page", 1)
	if !ok {
		return
	}
	cfg, ok := bindSourceConfig(c)
	if !ok {
		return
	}

	result, err := lc.sources.Fetch(c.Request.Context(), c.Param("source"), cfg, page)
	if err != nil {
		respondRegistryError(c, err, "fetch list page")
		return
	}
	c.JSON(http.StatusOK, result)
}

// Available handles POST /api/lists/:source/available
func (lc *ListsController) Available(c *gin.Context) {
	cfg, ok := bindSourceConfig(c)
	if !ok {
		return
	}

	available, err := lc.sources.AvailableLists(c.Request.Context(), c.Param("source"), cfg)
	if err != nil {
		respondRegistryError(c, err, "list available lists")
		return
	}
	c.JSON(http.StatusOK, gin.H{"lists": available})
}

// ParseProfile handles POST /api/lists/:source/parse-profile
func (lc *ListsController) ParseProfile(c *gin.Context) {
	var req ProfileURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "url is required")
		return
	}

	source := c.Param("source")
	cfg, parsed, err := lc.sources.ParseProfileURL(source, req.URL)
	if err != nil {
		respondRegistryError(c, err, "parse profile url")
		return
	}
	resp := ProfileURLResponse{Parsed: parsed, Config: cfg}
	if parsed {
		resp.Source = source
	}
	c.JSON(http.StatusOK, resp)
}

// Detect handles POST /api/lists/detect
// Finds the source that recognises the URL.
func (lc *ListsController) Detect(c *gin.Context) {
	var req ProfileURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "url is required")
		return
	}

	source, cfg, parsed := lc.sources.DetectSource(req.URL)
	c.JSON(http.StatusOK, ProfileURLResponse{Source: source, Parsed: parsed, Config: cfg})
}

// bindSourceConfig reads an optional JSON SourceConfig body.
func bindSourceConfig(c *gin.Context) (lists.SourceConfig, bool) {
	var cfg lists.SourceConfig
	if c.Request.ContentLength == 0 {
		return cfg, true
	}
	if err := c.ShouldBindJSON(&cfg); err != nil {
		respondBadRequest(c, "invalid source config: "+err.Error())
		return cfg, false
	}
	return cfg, true
}
