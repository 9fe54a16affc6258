package controller

import (
	"physio-notes-be/internal/dto"
	"physio-notes-be/internal/pkg/serverutils"
	"physio-notes-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	Get(ctx *fiber.Ctx) error
	SelectTemplate(ctx *fiber.Ctx) error
	Start(ctx *fiber.Ctx) error
	Chunk(ctx *fiber.Ctx) error
	Stop(ctx *fiber.Ctx) error
	Submit(ctx *fiber.Ctx) error
	View(ctx *fiber.Ctx) error
	New(ctx *fiber.Ctx) error
	Reset(ctx *fiber.Ctx) error
	CaptureError(ctx *fiber.Ctx) error
}

type sessionController struct {
	sessionService service.ISessionService
}

func NewSessionController(sessionService service.ISessionService) ISessionController {
	return &sessionController{
		sessionService: sessionService,
	}
}

func (c *sessionController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/session")
	h.Use(auth)
	h.Get("", c.Get)
	h.Post("template", c.SelectTemplate)
	h.Post("start", c.Start)
	h.Post("chunk", c.Chunk)
	h.Post("stop", c.Stop)
	h.Post("submit", c.Submit)
	h.Post("view", c.View)
	h.Post("new", c.New)
	h.Post("reset", c.Reset)
	h.Post("capture-error", c.CaptureError)
}

func (c *sessionController) Get(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get session", c.sessionService.Get(ctx.UserContext(), userId)))
}

func (c *sessionController) SelectTemplate(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	var req dto.SelectTemplateRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.sessionService.SelectTemplate(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success select template", res))
}

// Start accepts an optional {mimeType} body describing the chunks to come.
func (c *sessionController) Start(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	var req dto.StartRecordingRequest
	if len(ctx.Body()) > 0 {
		if err := parseBody(ctx, &req); err != nil {
			return err
		}
	}

	res, err := c.sessionService.Start(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success start recording", res))
}

// Chunk appends the raw request body to the recording.
func (c *sessionController) Chunk(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.sessionService.WriteChunk(ctx.UserContext(), userId, ctx.Body())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success append chunk", res))
}

func (c *sessionController) Stop(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.sessionService.Stop(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success stop recording", res))
}

func (c *sessionController) Submit(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	var req dto.SubmitSessionRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.sessionService.Submit(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success generate note", res))
}

func (c *sessionController) View(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}
	id, err := queryID(ctx)
	if err != nil {
		return err
	}

	res, err := c.sessionService.View(ctx.UserContext(), userId, id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success view note", res))
}

func (c *sessionController) New(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.sessionService.New(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success create new note", res))
}

func (c *sessionController) Reset(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success reset session", c.sessionService.Reset(ctx.UserContext(), userId)))
}

func (c *sessionController) CaptureError(ctx *fiber.Ctx) error {
	var req dto.CaptureErrorRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success classify capture error", c.sessionService.ClassifyCaptureError(&req)))
}
