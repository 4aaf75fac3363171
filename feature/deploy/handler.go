package deploy

import (
	"strconv"

	"spaces-sync/core/logger"
	"spaces-sync/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SharedHeader reports whether a response came from a run already in flight.
const SharedHeader = "X-Deploy-Shared"

// Handler handles HTTP requests for deploys.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the deploy routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/deploy")
	group.Get("/plan", h.HandlePlan)
	group.Post("/", h.HandleDeploy)
}

// HandlePlan returns the dry-run report for the current content tree.
func (h *Handler) HandlePlan(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Planning deploy")

	report, shared, err := h.service.Plan(c.UserContext())
	return h.respond(c, l, report, shared, err)
}

// HandleDeploy runs a real sync and returns its report.
func (h *Handler) HandleDeploy(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Deploy triggered")

	report, shared, err := h.service.Deploy(c.UserContext())
	return h.respond(c, l, report, shared, err)
}

func (h *Handler) respond(c *fiber.Ctx, l *zap.Logger, report *reconcile.Report, shared bool, err error) error {
	c.Set(SharedHeader, strconv.FormatBool(shared))
	if err != nil {
		l.Error("Deploy run failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":  err.Error(),
			"report": report,
		})
	}
	return c.JSON(report)
}
