package controller

import (
	"errors"

	"github.com/bytebender77/honeypot/internal/dto"
	"github.com/bytebender77/honeypot/internal/pkg/serverutils"
	"github.com/bytebender77/honeypot/internal/service"
	"github.com/bytebender77/honeypot/pkg/engine"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IHoneypotController interface {
	RegisterRoutes(r fiber.Router)
	ProcessMessage(ctx *fiber.Ctx) error
	ShowSession(ctx *fiber.Ctx) error
	EndSession(ctx *fiber.Ctx) error
	ClearSession(ctx *fiber.Ctx) error
}

type honeypotController struct {
	honeypotService service.IHoneypotService
	apiKey          string
}

func NewHoneypotController(honeypotService service.IHoneypotService, apiKey string) IHoneypotController {
	return &honeypotController{
		honeypotService: honeypotService,
		apiKey:          apiKey,
	}
}

func (c *honeypotController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/honeypot/v1")
	h.Use(serverutils.ApiKeyMiddleware(c.apiKey))
	h.Post("message", c.ProcessMessage)
	h.Get("session/:id", c.ShowSession)
	h.Post("session/:id/end", c.EndSession)
	h.Delete("session/:id", c.ClearSession)
}

func (c *honeypotController) ProcessMessage(ctx *fiber.Ctx) error {
	var req dto.ProcessMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewHttpError(fiber.StatusBadRequest, "Invalid JSON body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	sessionId := req.SessionId
	if sessionId == "" {
		sessionId = uuid.NewString()
	}

	res, err := c.honeypotService.ProcessMessage(ctx.Context(), sessionId, req.Message)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Message processed", res))
}

func (c *honeypotController) ShowSession(ctx *fiber.Ctx) error {
	res, err := c.honeypotService.GetSession(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return sessionError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Session state", res))
}

func (c *honeypotController) EndSession(ctx *fiber.Ctx) error {
	var req dto.EndSessionRequest
	// Body is optional; an empty body means the default stop reason.
	_ = ctx.BodyParser(&req)

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.honeypotService.EndSession(ctx.Context(), ctx.Params("id"), req.Reason)
	if err != nil {
		return sessionError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Session ended", res))
}

func (c *honeypotController) ClearSession(ctx *fiber.Ctx) error {
	if err := c.honeypotService.ClearSession(ctx.Context(), ctx.Params("id")); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Session cleared", struct{}{}))
}

func sessionError(err error) error {
	if errors.Is(err, engine.ErrSessionNotFound) {
		return serverutils.NewHttpError(fiber.StatusNotFound, "Session not found")
	}
	return err
}
