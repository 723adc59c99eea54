package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/consciouscart/brandcheck/internal/model"
	"github.com/consciouscart/brandcheck/internal/store"
	"github.com/consciouscart/brandcheck/pkg/anthropic"
)

// Tool names exposed to the reasoning model.
const (
	toolCheckDatabase  = "check_database"
	toolWebSearch      = "web_search"
	toolSaveToDatabase = "save_to_database"
	toolSearchDatabase = "search_database"
	toolDatabaseStats  = "get_database_stats"
)

func toolDefs() []anthropic.ToolDef {
	return []anthropic.ToolDef{
		{
			Name:        toolCheckDatabase,
			Description: "Check if a brand exists in the local database of verified brands. Use this FIRST before searching.",
			InputSchema: map[string]any{
				"brand_name": map[string]any{
					"type":        "string",
					"description": "The brand name to look up",
				},
			},
			Required: []string{"brand_name"},
		},
		{
			Name:        toolWebSearch,
			Description: "Search for information about cruelty-free status, certifications, or alternatives.",
			InputSchema: map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "The search query",
				},
			},
			Required: []string{"query"},
		},
		{
			Name:        toolSaveToDatabase,
			Description: "Save verified brand information to database.",
			InputSchema: map[string]any{
				"brand_name":      map[string]any{"type": "string"},
				"is_cruelty_free": map[string]any{"type": "boolean"},
				"parent_company":  map[string]any{"type": "string"},
				"explanation":     map[string]any{"type": "string"},
				"sources": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
			},
			Required: []string{"brand_name", "is_cruelty_free", "explanation"},
		},
		{
			Name:        toolSearchDatabase,
			Description: "Search verified brands by name fragment.",
			InputSchema: map[string]any{
				"query": map[string]any{"type": "string"},
			},
			Required: []string{"query"},
		},
		{
			Name:        toolDatabaseStats,
			Description: "Get statistics about the verified brand database.",
			InputSchema: map[string]any{},
		},
	}
}

// ToolCall records one tool invocation for display and tests.
type ToolCall struct {
	Name   string `json:"name"`
	Input  string `json:"input"`
	Result string `json:"result"`
}

type checkDatabaseInput struct {
	BrandName string `json:"brand_name"`
}

type webSearchInput struct {
	Query string `json:"query"`
}

type saveToDatabaseInput struct {
	BrandName     string   `json:"brand_name"`
	IsCrueltyFree bool     `json:"is_cruelty_free"`
	ParentCompany string   `json:"parent_company"`
	Explanation   string   `json:"explanation"`
	Sources       []string `json:"sources"`
}

type searchDatabaseInput struct {
	Query string `json:"query"`
}

// checkDatabaseResult is what the model sees back from check_database.
type checkDatabaseResult struct {
	Found         bool     `json:"found"`
	BrandName     string   `json:"brand_name,omitempty"`
	IsCrueltyFree bool     `json:"is_cruelty_free,omitempty"`
	ParentCompany string   `json:"parent_company,omitempty"`
	Explanation   string   `json:"explanation,omitempty"`
	Sources       []string `json:"sources,omitempty"`
	Confidence    float64  `json:"confidence,omitempty"`
	LastVerified  string   `json:"last_verified,omitempty"`
	IsStale       bool     `json:"is_stale,omitempty"`
}

// executeTool dispatches one tool call. Tool errors are reported back to
// the model as text, not surfaced as Go errors; the loop must go on.
func (a *Agent) executeTool(ctx context.Context, name string, input json.RawMessage) (string, bool) {
	switch name {
	case toolCheckDatabase:
		var in checkDatabaseInput
		if err := json.Unmarshal(input, &in); err != nil {
			return inputError(name, err), true
		}
		return a.checkDatabase(ctx, in.BrandName)
	case toolWebSearch:
		var in webSearchInput
		if err := json.Unmarshal(input, &in); err != nil {
			return inputError(name, err), true
		}
		return a.webSearch(ctx, in.Query)
	case toolSaveToDatabase:
		var in saveToDatabaseInput
		if err := json.Unmarshal(input, &in); err != nil {
			return inputError(name, err), true
		}
		return a.saveToDatabase(ctx, in)
	case toolSearchDatabase:
		var in searchDatabaseInput
		if err := json.Unmarshal(input, &in); err != nil {
			return inputError(name, err), true
		}
		return a.searchDatabase(ctx, in.Query)
	case toolDatabaseStats:
		return a.databaseStats(ctx)
	}
	return fmt.Sprintf("unknown tool: %s", name), true
}

func inputError(name string, err error) string {
	return fmt.Sprintf("invalid input for %s: %v", name, err)
}

func (a *Agent) checkDatabase(ctx context.Context, brandName string) (string, bool) {
	rec, err := a.store.Lookup(ctx, brandName)
	if err != nil {
		if eris.Is(err, store.ErrNotFound) {
			a.logSearch(ctx, brandName, brandName, false)
			return marshalResult(checkDatabaseResult{Found: false}), false
		}
		return fmt.Sprintf("database error: %v", err), true
	}

	a.logSearch(ctx, rec.Name, brandName, true)

	return marshalResult(checkDatabaseResult{
		Found:         true,
		BrandName:     rec.Name,
		IsCrueltyFree: rec.IsCrueltyFree,
		ParentCompany: rec.ParentCompany,
		Explanation:   rec.Explanation,
		Sources:       rec.Sources,
		Confidence:    rec.Confidence,
		LastVerified:  rec.LastVerified.Format(time.RFC3339),
		IsStale:       rec.IsStale(a.now()),
	}), false
}

func (a *Agent) webSearch(ctx context.Context, query string) (string, bool) {
	sctx, cancel := context.WithTimeout(ctx, a.searchTimeout)
	defer cancel()

	result, err := a.search.Search(sctx, query)
	if err != nil {
		zap.L().Warn("web search failed", zap.String("query", query), zap.Error(err))
		return fmt.Sprintf("search failed: %v", err), true
	}
	return result, false
}

func (a *Agent) saveToDatabase(ctx context.Context, in saveToDatabaseInput) (string, bool) {
	rec := model.BrandRecord{
		Name:          in.BrandName,
		IsCrueltyFree: in.IsCrueltyFree,
		ParentCompany: in.ParentCompany,
		Explanation:   in.Explanation,
		Sources:       in.Sources,
		Confidence:    store.DefaultConfidence,
		LastVerified:  a.now(),
	}
	if err := a.store.Upsert(ctx, rec); err != nil {
		return fmt.Sprintf("save failed: %v", err), true
	}
	return fmt.Sprintf(`{"success": true, "message": "Saved %s"}`, in.BrandName), false
}

func (a *Agent) searchDatabase(ctx context.Context, query string) (string, bool) {
	recs, err := a.store.Search(ctx, query, store.DefaultSearchLimit)
	if err != nil {
		return fmt.Sprintf("search failed: %v", err), true
	}
	if len(recs) == 0 {
		return `{"matches": []}`, false
	}

	type match struct {
		Name          string `json:"name"`
		IsCrueltyFree bool   `json:"is_cruelty_free"`
		Explanation   string `json:"explanation"`
	}
	matches := make([]match, len(recs))
	for i, r := range recs {
		matches[i] = match{Name: r.Name, IsCrueltyFree: r.IsCrueltyFree, Explanation: r.Explanation}
	}
	return marshalResult(map[string]any{"matches": matches}), false
}

func (a *Agent) databaseStats(ctx context.Context) (string, bool) {
	stats, err := a.store.Stats(ctx)
	if err != nil {
		return fmt.Sprintf("stats failed: %v", err), true
	}
	return marshalResult(stats), false
}

// logSearch records a lookup in search history. Failures are logged and
// swallowed; history is best-effort.
func (a *Agent) logSearch(ctx context.Context, brandName, query string, found bool) {
	if err := a.store.LogSearch(ctx, brandName, query, found); err != nil {
		zap.L().Warn("log search failed", zap.String("brand", brandName), zap.Error(err))
	}
}

func marshalResult(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("marshal error: %v", err)
	}
	return string(b)
}
