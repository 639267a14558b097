// Package mcpserver exposes plan submission and the automation catalog as
// MCP tools over stdio, so agent runtimes can drive the content pipeline.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/houghtp/terra-automation-platform-sub005/internal/automation"
	"github.com/houghtp/terra-automation-platform-sub005/internal/content"
	"github.com/houghtp/terra-automation-platform-sub005/internal/pipeline"
	"github.com/houghtp/terra-automation-platform-sub005/internal/store"
)

type Server struct {
	mcp      *server.MCPServer
	engine   *pipeline.Engine
	store    *store.Store
	registry *automation.Registry
}

func New(version string, engine *pipeline.Engine, st *store.Store, registry *automation.Registry) *Server {
	s := &Server{
		mcp: server.NewMCPServer(
			"terra",
			version,
			server.WithToolCapabilities(true),
			server.WithRecovery(),
		),
		engine:   engine,
		store:    st,
		registry: registry,
	}
	s.registerTools()
	return s
}

// Serve blocks on the stdio transport until the peer disconnects.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) registerTools() {
	s.mcp.AddTool(mcp.NewTool("submit_plan",
		mcp.WithDescription("Create a content plan for the generation pipeline"),
		mcp.WithString("title", mcp.Required(), mcp.Description("Working title of the content")),
		mcp.WithString("keywords", mcp.Description("Comma-separated target keywords")),
		mcp.WithString("audience", mcp.Description("Target audience description")),
		mcp.WithString("tone", mcp.Description("Desired tone of voice")),
		mcp.WithNumber("min_seo_score", mcp.Description("Quality gate score, 0-100 (default 75)")),
		mcp.WithNumber("max_iterations", mcp.Description("Refinement budget (default 3)")),
	), s.handleSubmitPlan)

	s.mcp.AddTool(mcp.NewTool("process_plan",
		mcp.WithDescription("Run the generation and validation loop for a plan"),
		mcp.WithString("plan_id", mcp.Required(), mcp.Description("Plan identifier")),
		mcp.WithBoolean("use_research", mcp.Description("Gather research sources before drafting")),
	), s.handleProcessPlan)

	s.mcp.AddTool(mcp.NewTool("get_content",
		mcp.WithDescription("Fetch the generated content item for a plan"),
		mcp.WithString("plan_id", mcp.Required(), mcp.Description("Plan identifier")),
	), s.handleGetContent)

	s.mcp.AddTool(mcp.NewTool("list_automation_templates",
		mcp.WithDescription("List the automation template catalog"),
		mcp.WithString("category", mcp.Description("Filter by category")),
	), s.handleListTemplates)
}

func (s *Server) handleSubmitPlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, ok := req.Params.Arguments["title"].(string)
	if !ok || title == "" {
		return mcp.NewToolResultError("title is required"), nil
	}

	sub := content.PlanSubmission{
		Title:         title,
		MinSEOScore:   75,
		MaxIterations: 3,
	}
	if kw, ok := req.Params.Arguments["keywords"].(string); ok {
		sub.SEOKeywords = splitCSV(kw)
	}
	if aud, ok := req.Params.Arguments["audience"].(string); ok {
		sub.TargetAudience = aud
	}
	if tone, ok := req.Params.Arguments["tone"].(string); ok {
		sub.Tone = tone
	}
	if v, ok := req.Params.Arguments["min_seo_score"].(float64); ok {
		sub.MinSEOScore = int(v)
	}
	if v, ok := req.Params.Arguments["max_iterations"].(float64); ok {
		sub.MaxIterations = int(v)
	}

	plan, err := s.engine.SubmitPlan(sub)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("submit plan: %v", err)), nil
	}
	return jsonResult(plan)
}

func (s *Server) handleProcessPlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	planID, ok := req.Params.Arguments["plan_id"].(string)
	if !ok || planID == "" {
		return mcp.NewToolResultError("plan_id is required"), nil
	}
	useResearch, _ := req.Params.Arguments["use_research"].(bool)

	result, err := s.engine.Process(ctx, planID, pipeline.ProcessOptions{UseResearch: useResearch})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("process plan: %v", err)), nil
	}
	return jsonResult(result)
}

func (s *Server) handleGetContent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	planID, ok := req.Params.Arguments["plan_id"].(string)
	if !ok || planID == "" {
		return mcp.NewToolResultError("plan_id is required"), nil
	}
	item, err := s.store.GetItemByPlan(planID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("get content: %v", err)), nil
	}
	return jsonResult(item)
}

func (s *Server) handleListTemplates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var templates []*automation.AutomationTemplate
	if category, ok := req.Params.Arguments["category"].(string); ok && category != "" {
		templates = s.registry.GetTemplatesByCategory(category)
	} else {
		templates = s.registry.ListTemplates()
	}
	return jsonResult(templates)
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
