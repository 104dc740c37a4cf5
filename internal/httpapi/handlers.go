package httpapi

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/huangsam/learnstat/core"
	"github.com/huangsam/learnstat/internal/contract"
	"github.com/huangsam/learnstat/schema"
)

// handler holds common dependencies for HTTP handlers.
type handler struct {
	baseCfg *contract.Config
	client  contract.StatsClient
	mgr     contract.CacheManager
}

// NormalizeRequest is the body accepted by the normalize endpoint.
// Omitted denominators and window fall back to the server configuration.
type NormalizeRequest struct {
	PeriodStats     *schema.PeriodStats `json:"period_stats"`
	InfoDenominator *int                `json:"info_denominator"`
	TermDenominator *int                `json:"term_denominator"`
	Window          *int                `json:"window"`
}

func (h *handler) healthz(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// selectionConfig clones the base config with the path session and query overrides.
func (h *handler) selectionConfig(c *fiber.Ctx) (*contract.Config, error) {
	sel := contract.Selection{
		Session: c.Params("session"),
		Period:  c.Query("period"),
		Start:   c.Query("start_date"),
		End:     c.Query("end_date"),
	}
	if raw := c.Query("window"); raw != "" {
		window, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid window '%s'", raw)
		}
		if window == 0 {
			return nil, fmt.Errorf("window must be between 1 and %d (received 0)", contract.MaxWindow)
		}
		sel.Window = window
	}

	cfg := h.baseCfg.Clone()
	if err := contract.RevalidateSelection(cfg, sel); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (h *handler) buildDashboard(c *fiber.Ctx) (schema.Dashboard, int, error) {
	cfg, err := h.selectionConfig(c)
	if err != nil {
		return schema.Dashboard{}, fiber.StatusBadRequest, err
	}
	dash, err := core.GetDashboardResults(c.UserContext(), cfg, h.client, h.mgr)
	if err != nil {
		return schema.Dashboard{}, fiber.StatusBadGateway, err
	}
	return dash, fiber.StatusOK, nil
}

func (h *handler) dashboard(c *fiber.Ctx) error {
	dash, status, err := h.buildDashboard(c)
	if err != nil {
		return failure(c, status, err)
	}
	return success(c, fiber.StatusOK, dash)
}

func (h *handler) summary(c *fiber.Ctx) error {
	dash, status, err := h.buildDashboard(c)
	if err != nil {
		return failure(c, status, err)
	}
	if dash.Pending {
		return c.Status(fiber.StatusAccepted).JSON(SuccessResponse{
			Success: true,
			Message: fmt.Sprintf("stats for session %q are not available yet", dash.SessionID),
		})
	}
	return success(c, fiber.StatusOK, dash.Summary)
}

func (h *handler) normalize(c *fiber.Ctx) error {
	var body NormalizeRequest
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, fmt.Errorf("invalid request body: %w", err))
	}
	if body.PeriodStats == nil {
		return badRequest(c, errors.New("period_stats is required"))
	}

	req := schema.DashboardRequest{
		SessionID:    "inline",
		Period:       schema.CustomPeriod,
		StartDate:    body.PeriodStats.StartDate,
		EndDate:      body.PeriodStats.EndDate,
		Denominators: h.baseCfg.Denominators,
		Window:       h.baseCfg.Window,
	}
	if req.StartDate == "" || req.EndDate == "" {
		return badRequest(c, errors.New("period_stats.start_date and period_stats.end_date are required"))
	}
	if err := contract.ValidateSpan(req.StartDate, req.EndDate); err != nil {
		return badRequest(c, err)
	}
	if body.InfoDenominator != nil {
		if *body.InfoDenominator <= 0 {
			return badRequest(c, fmt.Errorf("info_denominator must be greater than 0 (received %d)", *body.InfoDenominator))
		}
		req.Denominators.Info = *body.InfoDenominator
	}
	if body.TermDenominator != nil {
		if *body.TermDenominator <= 0 {
			return badRequest(c, fmt.Errorf("term_denominator must be greater than 0 (received %d)", *body.TermDenominator))
		}
		req.Denominators.Terms = *body.TermDenominator
	}
	if body.Window != nil {
		if *body.Window < 1 || *body.Window > contract.MaxWindow {
			return badRequest(c, fmt.Errorf("window must be between 1 and %d (received %d)", contract.MaxWindow, *body.Window))
		}
		req.Window = *body.Window
	}

	return success(c, fiber.StatusOK, core.BuildDashboard(req, body.PeriodStats))
}
