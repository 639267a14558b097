package webapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/houghtp/terra-automation-platform-sub005/internal/automation"
	"github.com/houghtp/terra-automation-platform-sub005/internal/content"
	"github.com/houghtp/terra-automation-platform-sub005/internal/pipeline"
	"github.com/houghtp/terra-automation-platform-sub005/internal/store"
)

func (s *Server) handleSubmitPlan(c echo.Context) error {
	var sub content.PlanSubmission
	if err := c.Bind(&sub); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json"})
	}
	plan, err := s.engine.SubmitPlan(sub)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, plan)
}

func (s *Server) handleListPlans(c echo.Context) error {
	plans, err := s.store.ListPlans(100)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, plans)
}

func (s *Server) handleGetPlan(c echo.Context) error {
	plan, err := s.store.GetPlan(c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "plan not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, plan)
}

type processRequest struct {
	UseResearch bool   `json:"use_research"`
	TenantID    string `json:"tenant_id,omitempty"`
}

func (s *Server) handleProcessPlan(c echo.Context) error {
	var req processRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json"})
	}

	ctx := c.Request().Context()
	if s.processTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.processTimeout)
		defer cancel()
	}

	result, err := s.engine.Process(ctx, c.Param("id"), pipeline.ProcessOptions{
		UseResearch: req.UseResearch,
		TenantID:    req.TenantID,
	})
	switch {
	case errors.Is(err, store.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "plan not found"})
	case errors.Is(err, pipeline.ErrConcurrentProcessing):
		return c.JSON(http.StatusConflict, echo.Map{"error": "plan is already being processed"})
	case errors.Is(err, pipeline.ErrPlanReady):
		return c.JSON(http.StatusConflict, echo.Map{"error": "plan is ready; reopen it first"})
	case errors.Is(err, pipeline.ErrGenerationFailed):
		return c.JSON(http.StatusBadGateway, echo.Map{"error": err.Error()})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleReopenPlan(c echo.Context) error {
	plan, err := s.store.GetPlan(c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "plan not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	plan.Reopen()
	if err := s.store.SavePlan(plan); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, plan)
}

func (s *Server) handlePlanValidation(c echo.Context) error {
	result, iteration, err := s.store.GetLatestValidation(c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no validation recorded"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"iteration": iteration, "result": result})
}

func (s *Server) handleGetContent(c echo.Context) error {
	item, err := s.store.GetItem(c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "content not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, item)
}

type contentStateRequest struct {
	State content.ItemState `json:"state"`
}

func (s *Server) handleContentState(c echo.Context) error {
	var req contentStateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json"})
	}
	switch req.State {
	case content.ItemStateDrafted, content.ItemStateUnderReview, content.ItemStateApproved, content.ItemStatePublished:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown state"})
	}
	if err := s.store.UpdateItemState(c.Param("id"), req.State); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "content not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	item, err := s.store.GetItem(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, item)
}

func (s *Server) handleListTemplates(c echo.Context) error {
	if category := c.QueryParam("category"); category != "" {
		return c.JSON(http.StatusOK, s.registry.GetTemplatesByCategory(category))
	}
	return c.JSON(http.StatusOK, s.registry.ListTemplates())
}

func (s *Server) handleGetTemplate(c echo.Context) error {
	tmpl, ok := s.registry.GetTemplateByID(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "template not found"})
	}
	return c.JSON(http.StatusOK, tmpl)
}

type createInstanceRequest struct {
	TemplateID    string                           `json:"template_id"`
	Providers     map[automation.Capability]string `json:"providers"`
	Configuration map[string]any                   `json:"configuration,omitempty"`
}

func (s *Server) handleCreateInstance(c echo.Context) error {
	var req createInstanceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json"})
	}
	inst, err := automation.NewInstance(s.registry, req.TemplateID, req.Providers, req.Configuration)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := s.store.SaveInstance(inst); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, inst)
}

func (s *Server) handleListInstances(c echo.Context) error {
	instances, err := s.store.ListInstances(100)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, instances)
}

func (s *Server) handleGetInstance(c echo.Context) error {
	inst, err := s.store.GetInstance(c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "instance not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, inst)
}
