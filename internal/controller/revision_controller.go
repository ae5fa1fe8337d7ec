package controller

import (
	"collab-docs-be/internal/pkg/serverutils"
	"collab-docs-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IRevisionController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
}

type revisionController struct {
	revisionService service.IRevisionService
}

func NewRevisionController(revisionService service.IRevisionService) IRevisionController {
	return &revisionController{
		revisionService: revisionService,
	}
}

func (c *revisionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/revision/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get(":documentId", c.List)
	h.Get(":documentId/:revisionId", c.Show)
}

func (c *revisionController) List(ctx *fiber.Ctx) error {
	userId := userIdFromLocals(ctx)
	documentId, _ := uuid.Parse(ctx.Params("documentId"))

	res, err := c.revisionService.List(ctx.Context(), userId, documentId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list revisions", res))
}

func (c *revisionController) Show(ctx *fiber.Ctx) error {
	userId := userIdFromLocals(ctx)
	documentId, _ := uuid.Parse(ctx.Params("documentId"))
	revisionId, _ := uuid.Parse(ctx.Params("revisionId"))

	res, err := c.revisionService.Show(ctx.Context(), userId, documentId, revisionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show revision", res))
}
