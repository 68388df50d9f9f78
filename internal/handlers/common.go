package handlers

import (
	"errors"

	"github.com/creatorhq/creator-api/internal/config"
	"github.com/creatorhq/creator-api/internal/llm"
	"github.com/creatorhq/creator-api/internal/logger"
	"github.com/creatorhq/creator-api/internal/middleware"
	"github.com/creatorhq/creator-api/internal/services"
	"github.com/creatorhq/creator-api/internal/types"
	"github.com/creatorhq/creator-api/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// generationFailed maps a creator pipeline error onto the response
// envelope. Validation messages are surfaced verbatim; provider, parse and
// shape failures all collapse to one generic notice for the caller while
// the distinction is kept in logs and in the envelope's type field.
func generationFailed(c *fiber.Ctx, log *logger.Logger, op string, err error) error {
	var validationErr *types.ValidationError
	if errors.As(err, &validationErr) {
		return utils.ErrorResponse(c, validationErr.Message, fiber.StatusBadRequest, "creator.validation.input")
	}

	var providerErr *llm.ProviderError
	if errors.As(err, &providerErr) {
		log.Error().Err(err).Str("op", op).Msg("provider call failed")
		return utils.ErrorResponse(c, "Generation failed", fiber.StatusInternalServerError, "creator.generation.provider")
	}

	var parseErr *llm.ParseError
	if errors.As(err, &parseErr) {
		log.Error().Err(err).Str("op", op).Msg("model response was not valid JSON")
		return utils.ErrorResponse(c, "Generation failed", fiber.StatusInternalServerError, "creator.generation.parse")
	}

	var shapeErr *llm.ShapeError
	if errors.As(err, &shapeErr) {
		log.Error().Err(err).Str("op", op).Msg("model response had the wrong shape")
		return utils.ErrorResponse(c, "Generation failed", fiber.StatusInternalServerError, "creator.generation.shape")
	}

	var storageErr *types.StorageError
	if errors.As(err, &storageErr) {
		log.Error().Err(err).Str("op", op).Msg("artifact store unavailable")
		return utils.ErrorResponse(c, "Storage unavailable", fiber.StatusInternalServerError, "creator.storage")
	}

	log.Error().Err(err).Str("op", op).Msg("operation failed")
	return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, op)
}

// invalidInput rejects a request body that did not parse.
func invalidInput(c *fiber.Ctx) error {
	return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "creator.validation.input")
}

// HealthHandler serves the service health probe.
type HealthHandler struct {
	Config *config.Config
	DB     *gorm.DB
}

// Check handles GET /api/health
// @Summary Service health
// @Description Probe database, Authorizer and LLM provider connectivity
// @Tags System
// @Produce json
// @Success 200 {object} services.HealthCheckResult
// @Failure 503 {object} services.HealthCheckResult
// @Router /health [get]
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	result := services.HealthCheck(h.Config, h.DB)
	status := fiber.StatusOK
	if result.Status != "healthy" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(result)
}

// AuthHandler serves identity endpoints.
type AuthHandler struct{}

// Me handles GET /api/auth/me
// @Summary Current user
// @Description Return the authenticated user's record
// @Tags Auth
// @Produce json
// @Success 200 {object} models.User
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /auth/me [get]
// @Security CookieAuth
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "creator.authorization.user")
	}
	return c.Status(fiber.StatusOK).JSON(user)
}
