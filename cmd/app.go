package cmd

import (
	"fmt"

	"github.com/houghtp/terra-automation-platform-sub005/internal/automation"
	"github.com/houghtp/terra-automation-platform-sub005/internal/config"
	"github.com/houghtp/terra-automation-platform-sub005/internal/llm"
	"github.com/houghtp/terra-automation-platform-sub005/internal/logger"
	"github.com/houghtp/terra-automation-platform-sub005/internal/notify"
	"github.com/houghtp/terra-automation-platform-sub005/internal/pipeline"
	"github.com/houghtp/terra-automation-platform-sub005/internal/prompt"
	"github.com/houghtp/terra-automation-platform-sub005/internal/scrape"
	"github.com/houghtp/terra-automation-platform-sub005/internal/search"
	"github.com/houghtp/terra-automation-platform-sub005/internal/store"
)

// app holds the wired collaborators shared by the serve, mcp and plan
// commands.
type app struct {
	cfg      *config.Config
	store    *store.Store
	engine   *pipeline.Engine
	registry *automation.Registry
	scraper  *scrape.Scraper
}

func buildApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if cfg.Logging.File != "" {
		if err := logger.SetOutputFile(cfg.Logging.File); err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
	}

	st, err := store.NewStore(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	ai, err := llm.BuildManager(cfg.AI)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("build ai providers: %w", err)
	}

	searchMgr, err := search.NewManager(cfg.Search, search.NewRegistry())
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("build search engines: %w", err)
	}
	if !searchMgr.HasEngines() {
		logger.Warn("no search engines configured, research will rely on competitor urls only")
	}

	prompts := prompt.NewStore()
	for _, o := range cfg.Prompts.Overrides {
		slots := make([]prompt.Slot, 0, len(o.Slots))
		for _, s := range o.Slots {
			slots = append(slots, prompt.Slot{Name: s.Name, Default: s.Default})
		}
		tmpl := &prompt.Template{Key: o.Key, TenantID: o.TenantID, Body: o.Body, Slots: slots}
		if err := prompts.Register(tmpl); err != nil {
			st.Close()
			return nil, fmt.Errorf("register prompt override %q: %w", o.Key, err)
		}
	}
	prompts.Seal()

	scraper := scrape.NewScraper(cfg.Scrape)
	notifier := notify.BuildMulti(cfg.Notify)
	if targets := notifier.Targets(); len(targets) > 0 {
		logger.Info("notifications enabled: %v", targets)
	}

	engine := pipeline.NewEngine(pipeline.Options{
		Store:    st,
		Prompts:  prompts,
		AI:       ai,
		Search:   searchMgr,
		Scraper:  scraper,
		Notifier: notifier,
	})

	return &app{
		cfg:      cfg,
		store:    st,
		engine:   engine,
		registry: automation.NewRegistry(),
		scraper:  scraper,
	}, nil
}

func (a *app) close() {
	a.scraper.Close()
	if err := a.store.Close(); err != nil {
		logger.Warn("close store: %v", err)
	}
}
