package controller

import (
	"strconv"

	"collab-docs-be/internal/pkg/logger"
	"collab-docs-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

type ISystemController interface {
	RegisterRoutes(r fiber.Router)
	GetLogs(ctx *fiber.Ctx) error
	GetLogDetail(ctx *fiber.Ctx) error
}

type systemController struct {
	logger logger.ILogger
}

func NewSystemController(log logger.ILogger) ISystemController {
	return &systemController{
		logger: log,
	}
}

func (c *systemController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/system/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("/logs", c.GetLogs)
	h.Get("/logs/:id", c.GetLogDetail)
}

func (c *systemController) GetLogs(ctx *fiber.Ctx) error {
	page, _ := strconv.Atoi(ctx.Query("page", "1"))
	limit, _ := strconv.Atoi(ctx.Query("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	level := ctx.Query("level", "")

	logs, err := c.logger.GetLogs(level, limit, (page-1)*limit)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("System logs", logs))
}

func (c *systemController) GetLogDetail(ctx *fiber.Ctx) error {
	// Log ids are content hashes, not UUIDs.
	entry, err := c.logger.GetLogById(ctx.Params("id"))
	if err != nil {
		return serverutils.ErrNotFound
	}

	return ctx.JSON(serverutils.SuccessResponse("Log detail", entry))
}
