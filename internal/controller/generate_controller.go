package controller

import (
	"collab-docs-be/internal/dto"
	"collab-docs-be/internal/pkg/serverutils"
	"collab-docs-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IGenerateController interface {
	RegisterRoutes(r fiber.Router)
	Generate(ctx *fiber.Ctx) error
}

type generateController struct {
	generateService service.IGenerateService
}

func NewGenerateController(generateService service.IGenerateService) IGenerateController {
	return &generateController{
		generateService: generateService,
	}
}

func (c *generateController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/generate/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post(":documentId", c.Generate)
}

func (c *generateController) Generate(ctx *fiber.Ctx) error {
	userId := userIdFromLocals(ctx)
	documentId, _ := uuid.Parse(ctx.Params("documentId"))

	var req dto.GenerateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.DocumentId = documentId

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.generateService.Generate(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate content", res))
}
