package content

import (
	"reflect"
	"testing"
)

func TestNewPlan(t *testing.T) {
	plan, err := NewPlan(PlanSubmission{
		Title:          "  How to brew coffee  ",
		SEOKeywords:    []string{"coffee", "brew", "coffee"},
		TargetChannels: []string{"blog", "blog", "newsletter"},
		MinSEOScore:    75,
		MaxIterations:  3,
	})
	if err != nil {
		t.Fatalf("new plan: %v", err)
	}
	if plan.ID == "" {
		t.Fatal("plan id not assigned")
	}
	if plan.Title != "How to brew coffee" {
		t.Fatalf("title not trimmed: %q", plan.Title)
	}
	if plan.Status != PlanStatusCreated {
		t.Fatalf("status = %s, want created", plan.Status)
	}
	if !reflect.DeepEqual(plan.SEOKeywords, []string{"coffee", "brew"}) {
		t.Fatalf("keywords not deduped: %v", plan.SEOKeywords)
	}
	if !reflect.DeepEqual(plan.TargetChannels, []string{"blog", "newsletter"}) {
		t.Fatalf("channels not deduped: %v", plan.TargetChannels)
	}
}

func TestNewPlanValidation(t *testing.T) {
	cases := map[string]PlanSubmission{
		"empty title":        {MinSEOScore: 75, MaxIterations: 3},
		"blank title":        {Title: "   ", MinSEOScore: 75, MaxIterations: 3},
		"score too high":     {Title: "x", MinSEOScore: 101, MaxIterations: 3},
		"negative score":     {Title: "x", MinSEOScore: -1, MaxIterations: 3},
		"zero iterations":    {Title: "x", MinSEOScore: 75, MaxIterations: 0},
		"negative iteration": {Title: "x", MinSEOScore: 75, MaxIterations: -2},
	}
	for name, sub := range cases {
		if _, err := NewPlan(sub); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestPlanStatusTerminal(t *testing.T) {
	for _, s := range []PlanStatus{PlanStatusReady, PlanStatusFailed} {
		if !s.Terminal() {
			t.Fatalf("%s should be terminal", s)
		}
	}
	for _, s := range []PlanStatus{PlanStatusCreated, PlanStatusResearching, PlanStatusDrafting, PlanStatusValidating, PlanStatusRefining} {
		if s.Terminal() {
			t.Fatalf("%s should not be terminal", s)
		}
	}
}

func TestPlanReopen(t *testing.T) {
	plan, err := NewPlan(PlanSubmission{Title: "x", MinSEOScore: 75, MaxIterations: 1})
	if err != nil {
		t.Fatalf("new plan: %v", err)
	}
	plan.Status = PlanStatusReady
	plan.Reopen()
	if plan.Status != PlanStatusCreated {
		t.Fatalf("status after reopen = %s, want created", plan.Status)
	}
}
