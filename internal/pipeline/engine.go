package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/houghtp/terra-automation-platform-sub005/internal/content"
	"github.com/houghtp/terra-automation-platform-sub005/internal/llm"
	"github.com/houghtp/terra-automation-platform-sub005/internal/logger"
	"github.com/houghtp/terra-automation-platform-sub005/internal/prompt"
	"github.com/houghtp/terra-automation-platform-sub005/internal/scrape"
	"github.com/houghtp/terra-automation-platform-sub005/internal/search"
	"github.com/houghtp/terra-automation-platform-sub005/internal/store"
)

// Notifier receives a short completion announcement. Failures are logged
// by the implementation, never surfaced into the loop.
type Notifier interface {
	Notify(ctx context.Context, subject, body string)
}

// Result is the completion contract returned to the processing caller.
type Result struct {
	PlanID          string `json:"plan_id"`
	ContentItemID   string `json:"content_item_id,omitempty"`
	Status          string `json:"status"`
	ContentLength   int    `json:"content_length"`
	ResearchSources int    `json:"research_sources"`
}

// ProcessOptions tune one processing run.
type ProcessOptions struct {
	// UseResearch enables the optional research step.
	UseResearch bool
	// TenantID scopes prompt template resolution.
	TenantID string
}

// Engine runs the generation/validation loop over content plans. Distinct
// plans may be processed fully in parallel; a second request for a plan
// already in flight fails fast with ErrConcurrentProcessing.
type Engine struct {
	store    *store.Store
	prompts  *prompt.Store
	ai       *llm.Manager
	search   *search.Manager
	scraper  *scrape.Scraper
	notifier Notifier
	events   *eventBus

	activeMu sync.Mutex
	active   map[string]struct{}
}

// Options wire the engine's collaborators. Search, scraper and notifier
// are optional.
type Options struct {
	Store    *store.Store
	Prompts  *prompt.Store
	AI       *llm.Manager
	Search   *search.Manager
	Scraper  *scrape.Scraper
	Notifier Notifier
}

func NewEngine(opts Options) *Engine {
	return &Engine{
		store:    opts.Store,
		prompts:  opts.Prompts,
		ai:       opts.AI,
		search:   opts.Search,
		scraper:  opts.Scraper,
		notifier: opts.Notifier,
		events:   newEventBus(),
		active:   make(map[string]struct{}),
	}
}

// SubmitPlan validates and persists a new content plan in created status.
func (e *Engine) SubmitPlan(sub content.PlanSubmission) (*content.ContentPlan, error) {
	plan, err := content.NewPlan(sub)
	if err != nil {
		return nil, err
	}
	if err := e.store.SavePlan(plan); err != nil {
		return nil, err
	}
	logger.Info("plan %s submitted: %q", plan.ID, plan.Title)
	return plan, nil
}

// Subscribe registers for progress events of one plan.
func (e *Engine) Subscribe(planID string) (<-chan Event, func()) {
	return e.events.Subscribe(planID)
}

// Process runs the generation/validation loop for one plan until the
// quality gate passes, the iteration budget is exhausted, or the context
// ends. On context cancellation the plan keeps its last recorded status
// and already-persisted progress so a later request can resume it.
func (e *Engine) Process(ctx context.Context, planID string, opts ProcessOptions) (*Result, error) {
	if !e.acquire(planID) {
		return nil, fmt.Errorf("%w: %s", ErrConcurrentProcessing, planID)
	}
	defer e.release(planID)

	plan, err := e.store.GetPlan(planID)
	if err != nil {
		return nil, err
	}
	if plan.Status == content.PlanStatusReady {
		return nil, fmt.Errorf("%w: %s", ErrPlanReady, planID)
	}

	// Both prompt templates must resolve before any provider call is made.
	if _, err := e.prompts.Lookup(prompt.KeyGenerate, opts.TenantID); err != nil {
		return nil, err
	}
	if _, err := e.prompts.Lookup(prompt.KeyValidate, opts.TenantID); err != nil {
		return nil, err
	}

	researchCorpus := &corpus{}
	if opts.UseResearch {
		if err := e.transition(plan, content.PlanStatusResearching); err != nil {
			return nil, err
		}
		e.events.publish(Event{PlanID: plan.ID, Stage: "researching"})
		researchCorpus = e.research(ctx, plan)
		if researchCorpus.SourceCount() == 0 {
			logger.Warn("plan %s: research produced no sources, continuing without corpus", plan.ID)
		}
	}

	var (
		bestDraft    string
		bestScore    = -1
		prevDraft    string
		prevFeedback *content.ValidationResult
	)

	for iteration := 1; iteration <= plan.MaxIterations; iteration++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("processing interrupted at %s: %w", plan.Status, err)
		}

		if err := e.transition(plan, content.PlanStatusDrafting); err != nil {
			return nil, err
		}
		e.events.publish(Event{PlanID: plan.ID, Stage: "drafting", Iteration: iteration})

		draft, err := e.draft(ctx, plan, opts.TenantID, researchCorpus, prevDraft, prevFeedback)
		if err != nil {
			if bestScore >= 0 {
				// A usable draft from an earlier iteration exists; keep it.
				return e.finishFailed(ctx, plan, bestDraft, researchCorpus)
			}
			_ = e.transition(plan, content.PlanStatusFailed)
			e.events.publish(Event{PlanID: plan.ID, Stage: "failed", Iteration: iteration, Message: err.Error()})
			return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
		}

		if err := e.transition(plan, content.PlanStatusValidating); err != nil {
			return nil, err
		}
		e.events.publish(Event{PlanID: plan.ID, Stage: "validating", Iteration: iteration})

		result, err := e.validate(ctx, plan, opts.TenantID, draft)
		if err != nil {
			// Draft exists: degrade to a failed completion rather than an
			// error, retaining the best draft for human review.
			logger.Error("plan %s: validation unparseable after retry: %v", plan.ID, err)
			if bestScore < 0 {
				bestDraft, bestScore = draft, 0
			}
			return e.finishFailed(ctx, plan, bestDraft, researchCorpus)
		}

		if err := e.store.SaveValidation(plan.ID, iteration, result); err != nil {
			logger.Warn("plan %s: persist validation for iteration %d: %v", plan.ID, iteration, err)
		}
		e.events.publish(Event{PlanID: plan.ID, Stage: "validated", Iteration: iteration, Score: result.Score})
		logger.Info("plan %s iteration %d scored %d (gate %d)", plan.ID, iteration, result.Score, plan.MinSEOScore)

		// Later iterations win ties: they incorporated the latest feedback.
		if result.Score >= bestScore {
			bestDraft, bestScore = draft, result.Score
		}

		if result.Score >= plan.MinSEOScore {
			return e.finishReady(ctx, plan, draft, researchCorpus)
		}

		if iteration == plan.MaxIterations {
			return e.finishFailed(ctx, plan, bestDraft, researchCorpus)
		}

		if err := e.transition(plan, content.PlanStatusRefining); err != nil {
			return nil, err
		}
		e.events.publish(Event{PlanID: plan.ID, Stage: "refining", Iteration: iteration})
		prevDraft = draft
		prevFeedback = result
	}

	// Unreachable: the loop always returns from within.
	return nil, fmt.Errorf("plan %s: iteration budget %d exhausted without completion", plan.ID, plan.MaxIterations)
}

func (e *Engine) draft(ctx context.Context, plan *content.ContentPlan, tenantID string, c *corpus, prevDraft string, feedback *content.ValidationResult) (string, error) {
	vars := map[string]any{
		"title":           plan.Title,
		"seo_keywords":    plan.SEOKeywords,
		"target_audience": plan.TargetAudience,
		"tone":            plan.Tone,
		"has_research":    c.SourceCount() > 0,
		"research_corpus": c.Render(),
		"is_refinement":   prevDraft != "",
	}
	if prevDraft != "" {
		vars["previous_draft"] = prevDraft
		if feedback != nil {
			vars["feedback_issues"] = bulleted(feedback.Issues)
			vars["feedback_recommendations"] = bulleted(feedback.Recommendations)
		}
	}

	text, err := e.prompts.Render(prompt.KeyGenerate, tenantID, vars)
	if err != nil {
		return "", err
	}

	resp, err := e.ai.Generate(ctx, llm.GenerateRequest{Prompt: text})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// validate scores a draft, retrying the call once when the response does
// not parse into the expected score document.
func (e *Engine) validate(ctx context.Context, plan *content.ContentPlan, tenantID, draft string) (*content.ValidationResult, error) {
	text, err := e.prompts.Render(prompt.KeyValidate, tenantID, map[string]any{
		"title":        plan.Title,
		"target_score": plan.MinSEOScore,
		"content":      draft,
	})
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		resp, err := e.ai.Generate(ctx, llm.GenerateRequest{Prompt: text, Temperature: 0.2})
		if err != nil {
			lastErr = err
			continue
		}
		result, err := content.ParseValidationDocument(resp.Text, plan.MinSEOScore)
		if err == nil {
			return result, nil
		}
		logger.Warn("plan %s: validation parse attempt %d failed: %v", plan.ID, attempt+1, err)
		lastErr = fmt.Errorf("%w: %v", ErrValidationParse, err)
	}
	return nil, lastErr
}

func (e *Engine) finishReady(ctx context.Context, plan *content.ContentPlan, body string, c *corpus) (*Result, error) {
	item, err := e.persistItem(plan, body)
	if err != nil {
		return nil, err
	}
	if err := e.transition(plan, content.PlanStatusReady); err != nil {
		return nil, err
	}
	e.events.publish(Event{PlanID: plan.ID, Stage: "ready"})
	e.notify(ctx, plan, "ready", len(body))

	return &Result{
		PlanID:          plan.ID,
		ContentItemID:   item.ID,
		Status:          string(content.PlanStatusReady),
		ContentLength:   len(body),
		ResearchSources: c.SourceCount(),
	}, nil
}

// finishFailed persists the best-scoring draft so a human can review a
// best-effort output rather than nothing.
func (e *Engine) finishFailed(ctx context.Context, plan *content.ContentPlan, body string, c *corpus) (*Result, error) {
	item, err := e.persistItem(plan, body)
	if err != nil {
		return nil, err
	}
	if err := e.transition(plan, content.PlanStatusFailed); err != nil {
		return nil, err
	}
	e.events.publish(Event{PlanID: plan.ID, Stage: "failed"})
	e.notify(ctx, plan, "failed", len(body))

	return &Result{
		PlanID:          plan.ID,
		ContentItemID:   item.ID,
		Status:          string(content.PlanStatusFailed),
		ContentLength:   len(body),
		ResearchSources: c.SourceCount(),
	}, nil
}

// persistItem replaces the plan's content item in place, reusing the
// existing item id when one exists.
func (e *Engine) persistItem(plan *content.ContentPlan, body string) (*content.ContentItem, error) {
	item := content.NewItem(plan.ID, plan.Title, body, plan.SEOKeywords)
	if existing, err := e.store.GetItemByPlan(plan.ID); err == nil {
		item.ID = existing.ID
		item.CreatedAt = existing.CreatedAt
	}
	if err := e.store.SaveItem(item); err != nil {
		return nil, err
	}
	return item, nil
}

func (e *Engine) transition(plan *content.ContentPlan, status content.PlanStatus) error {
	plan.Status = status
	return e.store.UpdatePlanStatus(plan.ID, status)
}

func (e *Engine) notify(ctx context.Context, plan *content.ContentPlan, status string, length int) {
	if e.notifier == nil {
		return
	}
	subject := fmt.Sprintf("Content plan %q is %s", plan.Title, status)
	body := fmt.Sprintf("Plan %s finished with status %s (%d characters). Review it in the dashboard.", plan.ID, status, length)
	e.notifier.Notify(ctx, subject, body)
}

func (e *Engine) acquire(planID string) bool {
	e.activeMu.Lock()
	defer e.activeMu.Unlock()
	if _, busy := e.active[planID]; busy {
		return false
	}
	e.active[planID] = struct{}{}
	return true
}

func (e *Engine) release(planID string) {
	e.activeMu.Lock()
	defer e.activeMu.Unlock()
	delete(e.active, planID)
}

func bulleted(items []string) string {
	if len(items) == 0 {
		return "- none noted"
	}
	var sb strings.Builder
	for i, item := range items {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString("- ")
		sb.WriteString(item)
	}
	return sb.String()
}
