package controller

import (
	"physio-notes-be/internal/dto"
	"physio-notes-be/internal/pkg/serverutils"
	"physio-notes-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICustomTemplateController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	Get(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type customTemplateController struct {
	customTemplateService service.ICustomTemplateService
}

func NewCustomTemplateController(customTemplateService service.ICustomTemplateService) ICustomTemplateController {
	return &customTemplateController{
		customTemplateService: customTemplateService,
	}
}

func (c *customTemplateController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/phi/custom-templates")
	h.Use(auth)
	h.Get("", c.Get)
	h.Post("", c.Create)
	h.Put("", c.Update)
	h.Delete("", c.Delete)
}

func (c *customTemplateController) Get(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	if ctx.Query("id") != "" {
		id, err := queryID(ctx)
		if err != nil {
			return err
		}
		res, err := c.customTemplateService.Show(ctx.UserContext(), userId, id)
		if err != nil {
			return err
		}
		return ctx.JSON(serverutils.SuccessResponse("Success show custom template", res))
	}

	res, err := c.customTemplateService.List(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list custom templates", res))
}

func (c *customTemplateController) Create(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateCustomTemplateRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.customTemplateService.Create(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create custom template", res))
}

func (c *customTemplateController) Update(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateCustomTemplateRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.customTemplateService.Update(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update custom template", res))
}

func (c *customTemplateController) Delete(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}
	id, err := queryID(ctx)
	if err != nil {
		return err
	}

	if err := c.customTemplateService.Delete(ctx.UserContext(), userId, id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete custom template", nil))
}
