package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/xid"
	"github.com/rs/zerolog/log"

	"github.com/tripdesk/intentcore/internal/service"
	"github.com/tripdesk/intentcore/pkg/intent/types"
)

// ClassificationController handles the HTTP surface of the engine. It holds
// no classification logic; everything interesting happens in the service and
// below.
type ClassificationController struct {
	service *service.ClassificationService
}

type ClassificationControllerDependencies struct {
	ClassificationService *service.ClassificationService
}

func NewClassificationController(deps ClassificationControllerDependencies) *ClassificationController {
	return &ClassificationController{
		service: deps.ClassificationService,
	}
}

type classifyRequest struct {
	SessionID string    `json:"session_id"`
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding,omitempty"`
	Language  string    `json:"language,omitempty"`
}

type classifyResponse struct {
	SessionID string       `json:"session_id"`
	Result    types.Result `json:"result"`
}

// Classify handles POST /v1/classify.
func (c *ClassificationController) Classify(ctx fiber.Ctx) error {
	var req classifyRequest
	if err := ctx.Bind().Body(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	requestID := xid.New().String()
	log.Debug().
		Str("request_id", requestID).
		Str("session_id", req.SessionID).
		Msg("Classifying utterance")

	out, err := c.service.Classify(ctx.RequestCtx(), service.ClassifyParams{
		SessionID: req.SessionID,
		Text:      req.Text,
		Embedding: req.Embedding,
		Language:  req.Language,
	})
	if err != nil {
		log.Error().Err(err).Str("request_id", requestID).Msg("Classification failed")
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to classify")
	}

	return ctx.JSON(classifyResponse{SessionID: out.SessionID, Result: out.Result})
}

type addExampleRequest struct {
	Text string `json:"text"`
}

type statusResponse struct {
	Success bool `json:"success"`
}

// AddExample handles POST /v1/intents/:intent/examples.
func (c *ClassificationController) AddExample(ctx fiber.Ctx) error {
	intent := ctx.Params("intent")

	var req addExampleRequest
	if err := ctx.Bind().Body(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	err := c.service.AddUserExample(ctx.RequestCtx(), intent, req.Text)
	switch {
	case errors.Is(err, types.ErrIntentNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Unknown intent")
	case errors.Is(err, types.ErrEmptyExample):
		return fiber.NewError(fiber.StatusBadRequest, "Example text is empty")
	case err != nil:
		log.Error().Err(err).Str("intent", intent).Msg("Failed to add example")
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to add example")
	}

	return ctx.JSON(statusResponse{Success: true})
}

// RegenerateEmbeddings handles POST /v1/embeddings/regenerate.
func (c *ClassificationController) RegenerateEmbeddings(ctx fiber.Ctx) error {
	if err := c.service.ForceRegenerateEmbeddings(ctx.RequestCtx()); err != nil {
		log.Error().Err(err).Msg("Embedding regeneration incomplete")
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(statusResponse{Success: false})
	}
	return ctx.JSON(statusResponse{Success: true})
}

// GetContextInfo handles GET /v1/sessions/:sessionID/context.
func (c *ClassificationController) GetContextInfo(ctx fiber.Ctx) error {
	info, err := c.service.GetContextInfo(ctx.RequestCtx(), ctx.Params("sessionID"))
	if err != nil {
		log.Error().Err(err).Msg("Failed to load context info")
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load context info")
	}
	return ctx.JSON(info)
}

// ResetContext handles DELETE /v1/sessions/:sessionID/context.
func (c *ClassificationController) ResetContext(ctx fiber.Ctx) error {
	if err := c.service.ResetContext(ctx.RequestCtx(), ctx.Params("sessionID")); err != nil {
		log.Error().Err(err).Msg("Failed to reset context")
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to reset context")
	}
	return ctx.JSON(statusResponse{Success: true})
}
