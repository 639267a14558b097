package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/houghtp/terra-automation-platform-sub005/internal/content"
	"github.com/houghtp/terra-automation-platform-sub005/internal/logger"
)

const (
	maxResearchSources = 5
	maxSnippetChars    = 1200
)

// researchSource is one collected snippet with its origin URL.
type researchSource struct {
	URL     string
	Title   string
	Snippet string
}

// corpus is the ordered research material fed into the generation prompt.
type corpus struct {
	Sources []researchSource
}

// SourceCount returns the number of distinct origin URLs.
func (c *corpus) SourceCount() int {
	seen := make(map[string]struct{}, len(c.Sources))
	for _, s := range c.Sources {
		seen[s.URL] = struct{}{}
	}
	return len(seen)
}

// Render formats the corpus for prompt inclusion.
func (c *corpus) Render() string {
	var sb strings.Builder
	for i, s := range c.Sources {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "Source %d: %s (%s)\n%s", i+1, s.Title, s.URL, s.Snippet)
	}
	return sb.String()
}

// research collects source material for a plan. Competitor URLs are
// scraped directly; when none are given, a search query is derived from
// the title and keywords. Every failure here is non-fatal: the loop
// proceeds with whatever was collected, possibly nothing.
func (e *Engine) research(ctx context.Context, plan *content.ContentPlan) *corpus {
	c := &corpus{}

	if e.scraper != nil {
		for _, url := range plan.CompetitorURLs {
			if len(c.Sources) >= maxResearchSources {
				break
			}
			page, err := e.scraper.Scrape(ctx, url)
			if err != nil {
				logger.Warn("research: scrape %s failed: %v", url, err)
				continue
			}
			c.Sources = append(c.Sources, researchSource{
				URL:     url,
				Title:   page.Title,
				Snippet: clip(page.Text, maxSnippetChars),
			})
		}
	}

	if len(c.Sources) == 0 && e.search != nil && e.search.HasEngines() {
		query := plan.Title
		if len(plan.SEOKeywords) > 0 {
			query += " " + strings.Join(plan.SEOKeywords, " ")
		}
		resp, err := e.search.Search(ctx, query, maxResearchSources)
		if err != nil {
			logger.Warn("research: search %q failed: %v", query, err)
			return c
		}
		for _, r := range resp.Results {
			c.Sources = append(c.Sources, researchSource{
				URL:     r.URL,
				Title:   r.Title,
				Snippet: clip(r.Snippet, maxSnippetChars),
			})
		}
	}

	return c
}

func clip(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n]
}
