package handlers

import (
	"strconv"
	"time"

	"github.com/creatorhq/creator-api/internal/llm"
	"github.com/creatorhq/creator-api/internal/logger"
	"github.com/creatorhq/creator-api/internal/middleware"
	"github.com/creatorhq/creator-api/internal/models"
	"github.com/creatorhq/creator-api/internal/services"
	"github.com/creatorhq/creator-api/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ArtifactHandler serves saved operation results.
type ArtifactHandler struct {
	DB  *gorm.DB
	Log *logger.Logger
}

// ArtifactResponse is one saved result as returned over the wire. Result
// carries the stored payload decoded back into JSON; rows whose payload
// cannot be decoded return a null result rather than failing the list.
type ArtifactResponse struct {
	ID        uint64              `json:"id"`
	PublicID  string              `json:"publicId"`
	Kind      models.ArtifactKind `json:"kind"`
	Title     string              `json:"title"`
	InputText string              `json:"inputText"`
	Result    interface{}         `json:"result"`
	CreatedAt time.Time           `json:"createdAt"`
}

// StatsResponse reports per-kind artifact totals for the current user.
type StatsResponse struct {
	Counts map[models.ArtifactKind]int64 `json:"counts"`
	Total  int64                         `json:"total"`
}

func toArtifactResponse(a models.Artifact) ArtifactResponse {
	return ArtifactResponse{
		ID:        a.ArtifactID,
		PublicID:  a.PublicID,
		Kind:      a.Kind,
		Title:     a.Title,
		InputText: a.InputText,
		Result:    llm.SafeParse(a.ResultJSON.String()),
		CreatedAt: a.CreatedAt,
	}
}

// List handles GET /api/creator/artifacts
// @Summary List artifacts
// @Description List the current user's saved results, optionally filtered by kind
// @Tags Artifacts
// @Produce json
// @Param kind query string false "Artifact kind" Enums(hook_analysis, content_idea, script, repurpose, monetization, sponsorship, thumbnail)
// @Success 200 {array} handlers.ArtifactResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /creator/artifacts [get]
// @Security CookieAuth
func (h *ArtifactHandler) List(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "creator.authorization.user")
	}

	kind := models.ArtifactKind(c.Query("kind"))
	if kind != "" && !kind.Valid() {
		return utils.ErrorResponse(c, "Unknown artifact kind", fiber.StatusBadRequest, "creator.validation.kind")
	}

	rows, err := services.ListArtifacts(h.DB, user.ID, kind)
	if err != nil {
		h.Log.Error().Err(err).Msg("artifact list failed")
		return utils.ErrorResponse(c, "Storage unavailable", fiber.StatusInternalServerError, "creator.storage")
	}

	out := make([]ArtifactResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, toArtifactResponse(row))
	}
	return c.Status(fiber.StatusOK).JSON(out)
}

// Delete handles DELETE /api/creator/artifacts/:id
// @Summary Delete an artifact
// @Description Delete one of the current user's saved results
// @Tags Artifacts
// @Produce json
// @Param id path int true "Artifact id"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /creator/artifacts/{id} [delete]
// @Security CookieAuth
func (h *ArtifactHandler) Delete(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "creator.authorization.user")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(c, "Invalid artifact id", fiber.StatusBadRequest, "creator.validation.id")
	}

	if err := services.DeleteArtifact(h.DB, user.ID, id); err != nil {
		h.Log.Error().Err(err).Uint64("artifact_id", id).Msg("artifact delete failed")
		return utils.ErrorResponse(c, "Storage unavailable", fiber.StatusInternalServerError, "creator.storage")
	}
	return utils.MutationSuccessResponse(c)
}

// Stats handles GET /api/creator/stats
// @Summary Artifact counts
// @Description Per-kind totals of the current user's saved results
// @Tags Artifacts
// @Produce json
// @Success 200 {object} handlers.StatsResponse
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /creator/stats [get]
// @Security CookieAuth
func (h *ArtifactHandler) Stats(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "creator.authorization.user")
	}

	counts, err := services.CountArtifacts(h.DB, user.ID)
	if err != nil {
		h.Log.Error().Err(err).Msg("artifact count failed")
		return utils.ErrorResponse(c, "Storage unavailable", fiber.StatusInternalServerError, "creator.storage")
	}

	stats := StatsResponse{Counts: make(map[models.ArtifactKind]int64, len(models.Kinds))}
	for _, kind := range models.Kinds {
		total := counts[kind]
		stats.Counts[kind] = total
		stats.Total += total
	}
	return c.Status(fiber.StatusOK).JSON(stats)
}
