package handlers

import (
	"github.com/creatorhq/creator-api/internal/llm"
	"github.com/creatorhq/creator-api/internal/logger"
	"github.com/creatorhq/creator-api/internal/middleware"
	"github.com/creatorhq/creator-api/internal/services"
	"github.com/creatorhq/creator-api/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CreatorHandler serves the AI creator toolkit endpoints.
type CreatorHandler struct {
	DB  *gorm.DB
	AI  llm.Invoker
	Log *logger.Logger
}

// AnalyzeHook handles POST /api/creator/hooks/analyze
// @Summary Analyze a video hook
// @Description Score the opening hook of a video and suggest improved variants
// @Tags Creator
// @Accept json
// @Produce json
// @Param request body services.HookAnalysisInput true "Hook to analyze"
// @Success 200 {object} services.HookAnalysis
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /creator/hooks/analyze [post]
// @Security CookieAuth
func (h *CreatorHandler) AnalyzeHook(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "creator.authorization.user")
	}

	var in services.HookAnalysisInput
	if err := c.BodyParser(&in); err != nil {
		return invalidInput(c)
	}

	result, err := services.AnalyzeHook(c.Context(), h.DB, h.AI, user.ID, in)
	if err != nil {
		return generationFailed(c, h.Log, "creator.hooks.analyze", err)
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

// GenerateIdeas handles POST /api/creator/ideas
// @Summary Generate content ideas
// @Description Produce viral content ideas for a topic and platform
// @Tags Creator
// @Accept json
// @Produce json
// @Param request body services.ContentIdeasInput true "Topic to ideate on"
// @Success 200 {array} services.ContentIdea
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /creator/ideas [post]
// @Security CookieAuth
func (h *CreatorHandler) GenerateIdeas(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "creator.authorization.user")
	}

	var in services.ContentIdeasInput
	if err := c.BodyParser(&in); err != nil {
		return invalidInput(c)
	}

	ideas, err := services.GenerateContentIdeas(c.Context(), h.DB, h.AI, user.ID, in)
	if err != nil {
		return generationFailed(c, h.Log, "creator.ideas", err)
	}
	return c.Status(fiber.StatusOK).JSON(ideas)
}

// GenerateScript handles POST /api/creator/scripts
// @Summary Generate a video script
// @Description Write a segmented short-form video script for a topic
// @Tags Creator
// @Accept json
// @Produce json
// @Param request body services.ScriptInput true "Script brief"
// @Success 200 {array} services.ScriptSegment
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /creator/scripts [post]
// @Security CookieAuth
func (h *CreatorHandler) GenerateScript(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "creator.authorization.user")
	}

	var in services.ScriptInput
	if err := c.BodyParser(&in); err != nil {
		return invalidInput(c)
	}

	segments, err := services.GenerateScript(c.Context(), h.DB, h.AI, user.ID, in)
	if err != nil {
		return generationFailed(c, h.Log, "creator.scripts", err)
	}
	return c.Status(fiber.StatusOK).JSON(segments)
}

// Repurpose handles POST /api/creator/repurpose
// @Summary Repurpose content
// @Description Rewrite a piece of content for other platforms
// @Tags Creator
// @Accept json
// @Produce json
// @Param request body services.RepurposeInput true "Content and target platforms"
// @Success 200 {array} services.RepurposedContent
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /creator/repurpose [post]
// @Security CookieAuth
func (h *CreatorHandler) Repurpose(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "creator.authorization.user")
	}

	var in services.RepurposeInput
	if err := c.BodyParser(&in); err != nil {
		return invalidInput(c)
	}

	results, err := services.RepurposeContent(c.Context(), h.DB, h.AI, user.ID, in)
	if err != nil {
		return generationFailed(c, h.Log, "creator.repurpose", err)
	}
	return c.Status(fiber.StatusOK).JSON(results)
}

// Monetization handles POST /api/creator/monetization
// @Summary Model monetization
// @Description Estimate monthly and annual revenue for a channel profile
// @Tags Creator
// @Accept json
// @Produce json
// @Param request body services.MonetizationInput true "Channel profile"
// @Success 200 {object} services.MonetizationModel
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /creator/monetization [post]
// @Security CookieAuth
func (h *CreatorHandler) Monetization(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "creator.authorization.user")
	}

	var in services.MonetizationInput
	if err := c.BodyParser(&in); err != nil {
		return invalidInput(c)
	}

	model, err := services.ModelMonetization(c.Context(), h.DB, h.AI, user.ID, in)
	if err != nil {
		return generationFailed(c, h.Log, "creator.monetization", err)
	}
	return c.Status(fiber.StatusOK).JSON(model)
}

// Sponsorship handles POST /api/creator/sponsorship
// @Summary Generate a sponsorship pitch
// @Description Draft a brand sponsorship pitch for a creator profile
// @Tags Creator
// @Accept json
// @Produce json
// @Param request body services.SponsorshipInput true "Creator and brand details"
// @Success 200 {object} services.SponsorshipPitch
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /creator/sponsorship [post]
// @Security CookieAuth
func (h *CreatorHandler) Sponsorship(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "creator.authorization.user")
	}

	var in services.SponsorshipInput
	if err := c.BodyParser(&in); err != nil {
		return invalidInput(c)
	}

	pitch, err := services.GenerateSponsorshipPitch(c.Context(), h.DB, h.AI, user.ID, in)
	if err != nil {
		return generationFailed(c, h.Log, "creator.sponsorship", err)
	}
	return c.Status(fiber.StatusOK).JSON(pitch)
}

// AnalyzeThumbnail handles POST /api/creator/thumbnails/analyze
// @Summary Analyze a thumbnail concept
// @Description Score a thumbnail description for click-through potential
// @Tags Creator
// @Accept json
// @Produce json
// @Param request body services.ThumbnailInput true "Thumbnail description"
// @Success 200 {object} services.ThumbnailAnalysis
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /creator/thumbnails/analyze [post]
// @Security CookieAuth
func (h *CreatorHandler) AnalyzeThumbnail(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "creator.authorization.user")
	}

	var in services.ThumbnailInput
	if err := c.BodyParser(&in); err != nil {
		return invalidInput(c)
	}

	analysis, err := services.AnalyzeThumbnail(c.Context(), h.DB, h.AI, user.ID, in)
	if err != nil {
		return generationFailed(c, h.Log, "creator.thumbnails.analyze", err)
	}
	return c.Status(fiber.StatusOK).JSON(analysis)
}
