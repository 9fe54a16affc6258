package controller

import (
	"physio-notes-be/internal/dto"
	"physio-notes-be/internal/pkg/serverutils"
	"physio-notes-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ITemplateController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	List(ctx *fiber.Ctx) error
	Suggest(ctx *fiber.Ctx) error
}

type templateController struct {
	templateService service.ITemplateService
}

func NewTemplateController(templateService service.ITemplateService) ITemplateController {
	return &templateController{
		templateService: templateService,
	}
}

func (c *templateController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/templates")
	h.Use(auth)
	h.Get("", c.List)
	h.Post("suggest", c.Suggest)
}

func (c *templateController) List(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success list templates", c.templateService.List()))
}

func (c *templateController) Suggest(ctx *fiber.Ctx) error {
	var req dto.SuggestTemplateRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success suggest template", c.templateService.Suggest(req.Transcript)))
}
