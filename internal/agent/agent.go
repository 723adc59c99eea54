// Package agent orchestrates brand verification: a deterministic
// lookup/search/classify pipeline for single checks, and a tool-calling
// conversation loop for chat.
package agent

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/consciouscart/brandcheck/internal/classify"
	"github.com/consciouscart/brandcheck/internal/model"
	"github.com/consciouscart/brandcheck/internal/profile"
	"github.com/consciouscart/brandcheck/internal/recommend"
	"github.com/consciouscart/brandcheck/internal/store"
	"github.com/consciouscart/brandcheck/pkg/anthropic"
	"github.com/consciouscart/brandcheck/pkg/search"
)

const (
	defaultModel         = "claude-sonnet-4-5-20250929"
	defaultMaxTurns      = 10
	defaultSearchTimeout = 30 * time.Second
	maxTokens            = 4000
	temperature          = 0.3

	// defaultAnchorPrice anchors budget feedback when no priced
	// recommendation has been made yet this session.
	defaultAnchorPrice = 10
)

// Agent verifies brands against the local store, the web, and a
// reasoning model. One Agent serves one conversation.
type Agent struct {
	oracle  anthropic.Client
	store   store.Store
	search  search.Client
	profile *profile.Profile

	model         string
	maxTurns      int
	searchTimeout time.Duration
	now           func() time.Time

	// lastPrice is the price of the most recent recommendation, used to
	// anchor budget feedback. Zero until a priced recommendation is made.
	lastPrice float64
}

// Option configures an Agent.
type Option func(*Agent)

// WithModel overrides the reasoning model.
func WithModel(m string) Option {
	return func(a *Agent) { a.model = m }
}

// WithMaxTurns caps the tool-calling loop.
func WithMaxTurns(n int) Option {
	return func(a *Agent) { a.maxTurns = n }
}

// WithSearchTimeout bounds each web search.
func WithSearchTimeout(d time.Duration) Option {
	return func(a *Agent) { a.searchTimeout = d }
}

// WithClock overrides the wall clock. Tests use this to pin staleness.
func WithClock(now func() time.Time) Option {
	return func(a *Agent) { a.now = now }
}

// New creates an agent over the given backends.
func New(oracle anthropic.Client, st store.Store, sc search.Client, opts ...Option) *Agent {
	a := &Agent{
		oracle:        oracle,
		store:         st,
		search:        sc,
		profile:       profile.New(),
		model:         defaultModel,
		maxTurns:      defaultMaxTurns,
		searchTimeout: defaultSearchTimeout,
		now:           time.Now,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Profile exposes the session profile for display.
func (a *Agent) Profile() *profile.Profile {
	return a.profile
}

// Verify runs the deterministic verification pipeline for one brand:
// database first, web search on miss or staleness, classification of
// whatever evidence was found, save-back of new findings.
func (a *Agent) Verify(ctx context.Context, brandName string) (*model.VerificationResult, error) {
	rec, err := a.store.Lookup(ctx, brandName)
	switch {
	case err == nil:
		a.logSearch(ctx, rec.Name, brandName, true)
		if !rec.IsStale(a.now()) {
			return a.resultFromRecord(rec), nil
		}
		// Stale record: re-verify, fall back to the record if search fails.
		res, serr := a.verifyOnline(ctx, rec.Name)
		if serr != nil {
			zap.L().Warn("re-verification failed, serving stale record",
				zap.String("brand", rec.Name), zap.Error(serr))
			out := a.resultFromRecord(rec)
			out.Explanation += " (verification may be outdated)"
			return out, nil
		}
		return res, nil
	case eris.Is(err, store.ErrNotFound):
		a.logSearch(ctx, brandName, brandName, false)
		res, serr := a.verifyOnline(ctx, brandName)
		if serr != nil {
			zap.L().Warn("verification failed", zap.String("brand", brandName), zap.Error(serr))
			return unknownResult(brandName), nil
		}
		return res, nil
	default:
		return nil, eris.Wrap(err, "agent: lookup")
	}
}

// verifyOnline searches the web for a brand's status, classifies the
// evidence, and saves the verdict.
func (a *Agent) verifyOnline(ctx context.Context, brandName string) (*model.VerificationResult, error) {
	sctx, cancel := context.WithTimeout(ctx, a.searchTimeout)
	defer cancel()

	text, err := a.search.Search(sctx, fmt.Sprintf("Is %s cruelty-free? animal testing policy certifications", brandName))
	if err != nil {
		return nil, eris.Wrap(err, "agent: web search")
	}

	isCF := inferVerdict(text)
	res := classify.FromEvidence(brandName, isCF, text)
	res.Explanation = truncate(text, 240)

	rec := model.BrandRecord{
		Name:          brandName,
		IsCrueltyFree: isCF,
		Explanation:   res.Explanation,
		Sources:       res.Sources,
		Confidence:    res.Confidence,
	}
	if err := a.store.Upsert(ctx, rec); err != nil {
		zap.L().Warn("save verification failed", zap.String("brand", brandName), zap.Error(err))
	}

	return &res, nil
}

// resultFromRecord classifies a stored record into a verification result.
func (a *Agent) resultFromRecord(rec *model.BrandRecord) *model.VerificationResult {
	cls := classify.Record(*rec)
	return &model.VerificationResult{
		Brand:         rec.Name,
		IsCrueltyFree: rec.IsCrueltyFree,
		Confidence:    cls.Confidence,
		Label:         cls.Label,
		Explanation:   rec.Explanation,
		Sources:       rec.Sources,
	}
}

func unknownResult(brandName string) *model.VerificationResult {
	return &model.VerificationResult{
		Brand:       brandName,
		Confidence:  0.1,
		Label:       "Low",
		Explanation: "Unable to verify: no database record and web search failed.",
	}
}

// truncate shortens s to at most n bytes, cutting on a rune boundary so
// the result stays valid UTF-8.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

// inferVerdict reads a verdict out of search result text. Negative
// phrasing wins when both appear.
func inferVerdict(text string) bool {
	lower := strings.ToLower(text)
	for _, neg := range []string{"not cruelty-free", "tests on animals", "tests where required"} {
		if strings.Contains(lower, neg) {
			return false
		}
	}
	return strings.Contains(lower, "cruelty-free") || strings.Contains(lower, "cruelty free")
}

// Alternatives recommends cruelty-free brands similar to the given one,
// constrained by the session profile.
func (a *Agent) Alternatives(ctx context.Context, brandName string, limit int) ([]model.Recommendation, error) {
	source, err := a.store.Lookup(ctx, brandName)
	if err != nil {
		return nil, eris.Wrap(err, "agent: lookup source brand")
	}
	candidates, err := a.store.ListBrands(ctx, true)
	if err != nil {
		return nil, eris.Wrap(err, "agent: list candidates")
	}
	return recommend.Alternatives(*source, candidates, a.recommendOptions(limit)), nil
}

// recommendOptions maps the session profile onto recommendation filters.
func (a *Agent) recommendOptions(limit int) recommend.Options {
	opts := recommend.Options{
		Limit:                limit,
		RequireVegan:         a.profile.Values.Vegan,
		RequireFragranceFree: a.profile.Values.FragranceFree,
		RequireParabenFree:   a.profile.Values.ParabenFree,
	}
	switch {
	case a.profile.BudgetMax == 0:
	case a.profile.BudgetMax <= 15:
		opts.MaxTier = model.TierBudget
	case a.profile.BudgetMax <= 40:
		opts.MaxTier = model.TierMidRange
	}
	return opts
}

// Reply is one chat turn's outcome.
type Reply struct {
	Text      string
	ToolCalls []ToolCall
	Usage     anthropic.TokenUsage
}

// Chat processes one conversational message through the tool-calling
// loop. Feedback messages update the profile before the model runs.
func (a *Agent) Chat(ctx context.Context, userQuery string) (*Reply, error) {
	if profile.IsFeedback(userQuery) {
		a.profile.LearnFromFeedback(userQuery, profile.FeedbackContext{
			LastPrice: a.lastPrice,
			HasPrice:  a.lastPrice > 0,
		})
	}

	messages := []anthropic.Message{anthropic.NewTextMessage("user", userQuery)}
	// The system prompt repeats every turn of the tool loop; cache it.
	system := []anthropic.SystemBlock{{
		Text:         a.systemPrompt(),
		CacheControl: &anthropic.CacheControl{TTL: "5m"},
	}}
	tools := toolDefs()
	temp := temperature

	reply := &Reply{}

	for turn := 0; turn < a.maxTurns; turn++ {
		resp, err := a.oracle.CreateMessage(ctx, anthropic.MessageRequest{
			Model:       a.model,
			MaxTokens:   maxTokens,
			System:      system,
			Messages:    messages,
			Tools:       tools,
			Temperature: &temp,
		})
		if err != nil {
			if reply.Usage.InputTokens > 0 {
				reply.Usage.LogCost(a.model, "chat")
			}
			return nil, eris.Wrap(err, "agent: create message")
		}
		reply.Usage.Add(resp.Usage)

		if resp.StopReason != "tool_use" {
			reply.Text = resp.TextContent()
			reply.Usage.LogCost(a.model, "chat")
			// Anchor budget feedback on the next turn even when no priced
			// recommendation was surfaced this turn.
			if a.lastPrice == 0 {
				a.lastPrice = defaultAnchorPrice
			}
			return reply, nil
		}

		messages = append(messages, anthropic.Message{Role: "assistant", Blocks: resp.Content})
		for _, tu := range resp.ToolUses() {
			result, isErr := a.executeTool(ctx, tu.Name, tu.Input)
			reply.ToolCalls = append(reply.ToolCalls, ToolCall{
				Name:   tu.Name,
				Input:  string(tu.Input),
				Result: result,
			})
			messages = append(messages, anthropic.NewToolResultMessage(tu.ID, result, isErr))
		}
	}

	reply.Usage.LogCost(a.model, "chat")
	return nil, eris.Errorf("agent: no final answer after %d turns", a.maxTurns)
}

// SetLastPrice records the price of the latest recommendation so that
// subsequent budget feedback has an anchor.
func (a *Agent) SetLastPrice(price float64) {
	a.lastPrice = price
}

func (a *Agent) systemPrompt() string {
	summary := a.profile.Summary()
	constraints := a.profile.ConstraintsString()

	return fmt.Sprintf(`You are an intelligent agent helping users find cruelty-free beauty products.

USER PROFILE: %s
USER CONSTRAINTS: %s

YOUR PROCESS:
1. ALWAYS check database first using check_database tool
2. If not found or stale, use web_search to verify
3. When recommending alternatives, ALWAYS respect user constraints: %s
4. Save new verifications to database
5. Be conversational and remember the user's preferences

IMPORTANT:
- When suggesting alternatives, filter by user's budget if known
- Prioritize options that match ALL user values (vegan, fragrance-free, etc.)
- Mention when products match user preferences
- Be friendly and personal

RESPONSE STYLE:
- Conversational and warm
- Acknowledge user preferences when relevant
- Explain WHY recommendations match their needs`, summary, constraints, constraints)
}
