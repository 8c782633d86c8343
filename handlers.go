package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Handlers serves the admin/debug HTTP API
type Handlers struct {
	rules *RuleCache
}

func NewHandlers(rules *RuleCache) *Handlers {
	return &Handlers{rules: rules}
}

// Register mounts all routes on e
func (h *Handlers) Register(e *echo.Echo) {
	e.GET("/health", h.handleHealth)
	e.POST("/transform", h.handleTransform)
	e.GET("/transform", h.handleTransform)
	e.POST("/praise", h.handlePraise)
	e.GET("/praise", h.handlePraise)

	// Admin endpoints
	e.GET("/admin/rules", h.handleRules)
	e.POST("/admin/reload", h.handleReload)
}

func (h *Handlers) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"timestamp":   time.Now(),
		"auto_reload": h.rules.AutoReload(),
	})
}

func (h *Handlers) handleTransform(c echo.Context) error {
	var req TextRequest

	// Bind request (works for both POST JSON and GET query params)
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	result := transformMessage(req.Text, h.rules.Table())

	return c.JSON(http.StatusOK, TransformResponse{
		Result: result,
		Reply:  result != "",
	})
}

func (h *Handlers) handlePraise(c echo.Context) error {
	var req TextRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	return c.JSON(http.StatusOK, PraiseResponse{Praise: IsPraise(req.Text)})
}

func (h *Handlers) handleRules(c echo.Context) error {
	table := h.rules.Table()

	return c.JSON(http.StatusOK, RulesResponse{
		Source:   table.Source(),
		LoadedAt: table.LoadedAt(),
		Rules:    table.Info(),
	})
}

func (h *Handlers) handleReload(c echo.Context) error {
	table, err := h.rules.Reload()
	if errors.Is(err, errNoRulesFile) {
		return c.JSON(http.StatusConflict, map[string]string{
			"error": "Running on built-in rules, nothing to reload",
		})
	}
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{
			"error": fmt.Sprintf("Reload failed, previous rules kept: %v", err),
		})
	}

	return c.JSON(http.StatusOK, ReloadResponse{
		Message:    fmt.Sprintf("Reloaded %d rules from %s", table.Len(), table.Source()),
		Rules:      table.Len(),
		ReloadedAt: table.LoadedAt(),
	})
}
