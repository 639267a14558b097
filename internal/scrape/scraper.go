package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/houghtp/terra-automation-platform-sub005/internal/config"
	"github.com/houghtp/terra-automation-platform-sub005/internal/logger"
)

// Page is the uniform scrape-url result shape.
type Page struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Scraper fetches a page and extracts its title and readable text. When
// browser mode is enabled pages are rendered in headless Chrome first,
// which handles script-heavy sites; otherwise a plain HTTP fetch is used.
type Scraper struct {
	useBrowser bool
	screenSize string
	client     *http.Client

	browserOnce sync.Once
	browser     *rod.Browser
	browserErr  error
	cleanup     func()
}

func NewScraper(cfg config.ScrapeConfig) *Scraper {
	return &Scraper{
		useBrowser: cfg.UseBrowser,
		screenSize: cfg.ScreenSize,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Scrape fetches url and returns its extracted content. Targets that
// resolve to private or local addresses are rejected.
func (s *Scraper) Scrape(ctx context.Context, url string) (*Page, error) {
	if err := checkFetchURL(url); err != nil {
		return nil, err
	}
	if s.useBrowser {
		page, err := s.scrapeBrowser(ctx, url)
		if err == nil {
			return page, nil
		}
		logger.Warn("browser scrape of %s failed, falling back to HTTP: %v", url, err)
	}
	return s.scrapeHTTP(ctx, url)
}

func (s *Scraper) scrapeHTTP(ctx context.Context, url string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Terra/1.0 (+content research)")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}

	title, text, err := extract(strings.NewReader(string(body)))
	if err != nil {
		return nil, err
	}
	return &Page{URL: url, Title: title, Text: text}, nil
}

func (s *Scraper) scrapeBrowser(ctx context.Context, url string) (*Page, error) {
	browser, err := s.connectBrowser()
	if err != nil {
		return nil, err
	}

	page, err := browser.Context(ctx).Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer func() { _ = page.Close() }()

	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait load: %w", err)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("read html: %w", err)
	}

	title, text, err := extract(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	return &Page{URL: url, Title: title, Text: text}, nil
}

func (s *Scraper) connectBrowser() (*rod.Browser, error) {
	s.browserOnce.Do(func() {
		l := launcher.New().Headless(true)
		if w, h, ok := parseScreenSize(s.screenSize); ok {
			l = l.Set("window-size", fmt.Sprintf("%d,%d", w, h))
		}
		controlURL, err := l.Launch()
		if err != nil {
			s.browserErr = fmt.Errorf("launch browser: %w", err)
			return
		}
		browser := rod.New().ControlURL(controlURL)
		if err := browser.Connect(); err != nil {
			l.Cleanup()
			s.browserErr = fmt.Errorf("connect browser: %w", err)
			return
		}
		s.browser = browser
		s.cleanup = l.Cleanup
	})
	return s.browser, s.browserErr
}

// Close shuts down the headless browser if one was started.
func (s *Scraper) Close() {
	if s.browser != nil {
		_ = s.browser.Close()
	}
	if s.cleanup != nil {
		s.cleanup()
	}
}

// parseScreenSize parses "WIDTHxHEIGHT" into window dimensions.
func parseScreenSize(s string) (int, int, bool) {
	ws, hs, found := strings.Cut(s, "x")
	if !found {
		return 0, 0, false
	}
	w, err := strconv.Atoi(strings.TrimSpace(ws))
	if err != nil || w <= 0 {
		return 0, 0, false
	}
	h, err := strconv.Atoi(strings.TrimSpace(hs))
	if err != nil || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}

// extract pulls the title and readable text out of an HTML document.
// Content is taken from main/article when present, headings, paragraphs
// and list items otherwise.
func extract(r io.Reader) (title, text string, err error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", "", err
	}

	title = strings.TrimSpace(doc.Find("title").First().Text())

	sel := doc.Find("main, article")
	if sel.Length() == 0 {
		sel = doc.Selection
	}
	var parts []string
	sel.Find("h1,h2,h3,p,li").Each(func(_ int, s *goquery.Selection) {
		t := strings.TrimSpace(s.Text())
		if t != "" {
			parts = append(parts, t)
		}
	})
	return title, strings.Join(parts, "\n"), nil
}
