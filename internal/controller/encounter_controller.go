package controller

import (
	"physio-notes-be/internal/dto"
	"physio-notes-be/internal/pkg/serverutils"
	"physio-notes-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IEncounterController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Get(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type encounterController struct {
	encounterService service.IEncounterService
}

func NewEncounterController(encounterService service.IEncounterService) IEncounterController {
	return &encounterController{
		encounterService: encounterService,
	}
}

func (c *encounterController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/phi/encounters")
	h.Use(auth)
	h.Post("", c.Create)
	h.Put("", c.Update)
	h.Get("", c.Get)
	h.Delete("", c.Delete)
}

func (c *encounterController) Create(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateEncounterRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.encounterService.Create(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create encounter", res))
}

func (c *encounterController) Update(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateEncounterRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.encounterService.Update(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update encounter", res))
}

// Get returns one encounter with ?id=, otherwise the newest encounters
// (?limit=, default 20, max 100).
func (c *encounterController) Get(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	if ctx.Query("id") != "" {
		id, err := queryID(ctx)
		if err != nil {
			return err
		}
		res, err := c.encounterService.Show(ctx.UserContext(), userId, id)
		if err != nil {
			return err
		}
		return ctx.JSON(serverutils.SuccessResponse("Success show encounter", res))
	}

	res, err := c.encounterService.List(ctx.UserContext(), userId, ctx.QueryInt("limit", dto.DefaultEncounterLimit))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list encounters", res))
}

func (c *encounterController) Delete(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}
	id, err := queryID(ctx)
	if err != nil {
		return err
	}

	if err := c.encounterService.Delete(ctx.UserContext(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete encounter", nil))
}
