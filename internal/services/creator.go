package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/creatorhq/creator-api/internal/llm"
	"github.com/creatorhq/creator-api/internal/models"
	"github.com/creatorhq/creator-api/internal/types"
	"gorm.io/gorm"
)

// Each creator operation follows the same pipeline: validate the typed
// input, build exactly two prompt messages, invoke the provider once, check
// the response shape field by field, persist the artifact, and return the
// validated result. Persistence happens only after validation succeeds, so
// a malformed model response never reaches storage.

// HookAnalysisInput is the request for a hook analysis.
type HookAnalysisInput struct {
	Hook string `json:"hook"`
}

// AnalyzeHook scores a hook for viral potential.
func AnalyzeHook(ctx context.Context, db *gorm.DB, ai llm.Invoker, userID uint64, in HookAnalysisInput) (*HookAnalysis, error) {
	hook := strings.TrimSpace(in.Hook)
	if hook == "" {
		return nil, &types.ValidationError{Message: "hook is required"}
	}

	comp, err := ai.Invoke(ctx, []llm.Message{
		{
			Role:    "system",
			Content: "You are a world-class short-form content strategist. Respond ONLY as compact JSON.",
		},
		{
			Role: "user",
			Content: fmt.Sprintf(`Analyze this hook for viral potential and return JSON with keys score (number), type (string), breakdown (curiosity, clarity, emotionalTrigger, specificity, scrollStoppingPower numbers), mainWeakness (string), improvedHooks (array of 5 strings), viralityConfidence (Low|Medium|High).
Hook: %q`, hook),
		},
	})
	if err != nil {
		return nil, err
	}

	var result HookAnalysis
	if err := llm.ParseObject(comp, "hook analysis", &result); err != nil {
		return nil, err
	}
	if err := result.validate("hook analysis"); err != nil {
		return nil, err
	}

	title := strings.TrimSpace("Hook score " + formatNumber(result.Score))
	if _, err := CreateArtifact(db, userID, models.KindHookAnalysis, title, hook, result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ContentIdeasInput is the request for content ideation.
type ContentIdeasInput struct {
	Topic string `json:"topic"`
}

// GenerateContentIdeas produces five content ideas for a topic.
func GenerateContentIdeas(ctx context.Context, db *gorm.DB, ai llm.Invoker, userID uint64, in ContentIdeasInput) ([]ContentIdea, error) {
	topic := strings.TrimSpace(in.Topic)
	if topic == "" {
		return nil, &types.ValidationError{Message: "topic is required"}
	}

	comp, err := ai.Invoke(ctx, []llm.Message{
		{
			Role:    "system",
			Content: "You are a viral content strategist. Respond with a JSON array of ideas only.",
		},
		{
			Role:    "user",
			Content: fmt.Sprintf(`Generate 5 content ideas for the topic %q. Each item must include title, description, format, difficulty (Easy|Medium|Hard). Return JSON array only.`, topic),
		},
	})
	if err != nil {
		return nil, err
	}

	var ideas []ContentIdea
	if err := llm.ParseArray(comp, "content ideas", &ideas); err != nil {
		return nil, err
	}
	if err := validateIdeas("content ideas", ideas); err != nil {
		return nil, err
	}

	if _, err := CreateArtifact(db, userID, models.KindContentIdea, topic, topic, ideas); err != nil {
		return nil, err
	}
	return ideas, nil
}

// ScriptInput is the request for script generation. Platform and Duration
// default to "Video" and "60s".
type ScriptInput struct {
	Hook     string `json:"hook"`
	Platform string `json:"platform"`
	Duration string `json:"duration"`
}

// GenerateScript writes a timed script seeded by a hook.
func GenerateScript(ctx context.Context, db *gorm.DB, ai llm.Invoker, userID uint64, in ScriptInput) ([]ScriptSegment, error) {
	hook := strings.TrimSpace(in.Hook)
	if hook == "" {
		return nil, &types.ValidationError{Message: "hook is required"}
	}
	platform := strings.TrimSpace(in.Platform)
	if platform == "" {
		platform = "Video"
	}
	duration := strings.TrimSpace(in.Duration)
	if duration == "" {
		duration = "60s"
	}

	comp, err := ai.Invoke(ctx, []llm.Message{
		{
			Role:    "system",
			Content: "You write concise video scripts. Return only JSON array of segments.",
		},
		{
			Role:    "user",
			Content: fmt.Sprintf(`Create a script for %s (%s) starting with hook %q. Return JSON array of segments with time and text fields only.`, platform, duration, hook),
		},
	})
	if err != nil {
		return nil, err
	}

	var segments []ScriptSegment
	if err := llm.ParseArray(comp, "script", &segments); err != nil {
		return nil, err
	}
	if err := validateSegments("script", segments); err != nil {
		return nil, err
	}

	title := platform + " script"
	if _, err := CreateArtifact(db, userID, models.KindScript, title, hook, segments); err != nil {
		return nil, err
	}
	return segments, nil
}

// RepurposeInput is the request for content repurposing.
type RepurposeInput struct {
	Content   string                 `json:"content"`
	Platforms types.FlexList[string] `json:"platforms"`
}

// RepurposeContent adapts content for a list of target platforms.
func RepurposeContent(ctx context.Context, db *gorm.DB, ai llm.Invoker, userID uint64, in RepurposeInput) ([]RepurposedContent, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, &types.ValidationError{Message: "content is required"}
	}
	platforms := make([]string, 0, len(in.Platforms))
	for _, p := range in.Platforms.Slice() {
		if p = strings.TrimSpace(p); p != "" {
			platforms = append(platforms, p)
		}
	}
	if len(platforms) == 0 {
		return nil, &types.ValidationError{Message: "at least one platform is required"}
	}

	comp, err := ai.Invoke(ctx, []llm.Message{
		{
			Role:    "system",
			Content: "You repurpose content. Return JSON array with platform and content.",
		},
		{
			Role:    "user",
			Content: fmt.Sprintf(`Adapt this content for platforms %s: %q. Return JSON array items {platform, content}.`, strings.Join(platforms, ", "), content),
		},
	})
	if err != nil {
		return nil, err
	}

	var items []RepurposedContent
	if err := llm.ParseArray(comp, "repurposed content", &items); err != nil {
		return nil, err
	}
	if err := validateRepurposed("repurposed content", items); err != nil {
		return nil, err
	}

	if _, err := CreateArtifact(db, userID, models.KindRepurpose, "Repurposed content", content, items); err != nil {
		return nil, err
	}
	return items, nil
}

// MonetizationInput is the request for monetization modeling.
type MonetizationInput struct {
	Subscribers    types.FlexUint64 `json:"subscribers"`
	MonthlyViews   types.FlexUint64 `json:"monthlyViews"`
	EngagementRate float64          `json:"engagementRate"`
}

// ModelMonetization estimates channel revenue from audience metrics.
func ModelMonetization(ctx context.Context, db *gorm.DB, ai llm.Invoker, userID uint64, in MonetizationInput) (*MonetizationModel, error) {
	if in.EngagementRate < 0 {
		return nil, &types.ValidationError{Message: "engagementRate must not be negative"}
	}

	comp, err := ai.Invoke(ctx, []llm.Message{
		{
			Role:    "system",
			Content: "You are a revenue modeler. Return a JSON object with monetization metrics only.",
		},
		{
			Role: "user",
			Content: fmt.Sprintf(`Calculate monetization for subscribers=%d, monthlyViews=%d, engagementRate=%s%%. Return JSON with subscribers, monthlyViews, engagementRate, adRevenue, sponsorshipPotential, affiliateRevenue, totalMonthly, annualProjection (numbers).`,
				in.Subscribers.Uint64(), in.MonthlyViews.Uint64(), formatNumber(in.EngagementRate)),
		},
	})
	if err != nil {
		return nil, err
	}

	var result MonetizationModel
	if err := llm.ParseObject(comp, "monetization", &result); err != nil {
		return nil, err
	}
	if err := result.validate("monetization"); err != nil {
		return nil, err
	}

	inputText, _ := json.Marshal(in)
	if _, err := CreateArtifact(db, userID, models.KindMonetization, "Monetization model", string(inputText), result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SponsorshipInput is the request for sponsorship pitch generation.
type SponsorshipInput struct {
	ChannelName string           `json:"channelName"`
	Subscribers types.FlexUint64 `json:"subscribers"`
	Niche       string           `json:"niche"`
}

// GenerateSponsorshipPitch drafts a sponsorship pitch for a channel.
func GenerateSponsorshipPitch(ctx context.Context, db *gorm.DB, ai llm.Invoker, userID uint64, in SponsorshipInput) (*SponsorshipPitch, error) {
	channel := strings.TrimSpace(in.ChannelName)
	if channel == "" {
		return nil, &types.ValidationError{Message: "channelName is required"}
	}
	niche := strings.TrimSpace(in.Niche)
	if niche == "" {
		return nil, &types.ValidationError{Message: "niche is required"}
	}

	comp, err := ai.Invoke(ctx, []llm.Message{
		{
			Role:    "system",
			Content: "You craft sponsorship pitches. Return JSON object with title and sections array.",
		},
		{
			Role: "user",
			Content: fmt.Sprintf(`Create a sponsorship pitch for channel %s with %d subscribers in niche %s. Return JSON {title, sections:[{title, content}]}.`,
				channel, in.Subscribers.Uint64(), niche),
		},
	})
	if err != nil {
		return nil, err
	}

	var pitch SponsorshipPitch
	if err := llm.ParseObject(comp, "sponsorship pitch", &pitch); err != nil {
		return nil, err
	}
	if err := pitch.validate("sponsorship pitch"); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(pitch.Title)
	if title == "" {
		title = "Sponsorship pitch"
	}
	inputText, _ := json.Marshal(in)
	if _, err := CreateArtifact(db, userID, models.KindSponsorship, title, string(inputText), pitch); err != nil {
		return nil, err
	}
	return &pitch, nil
}

// ThumbnailInput is the request for a thumbnail analysis.
type ThumbnailInput struct {
	Description string `json:"description"`
}

// AnalyzeThumbnail scores a thumbnail description for click-through appeal.
func AnalyzeThumbnail(ctx context.Context, db *gorm.DB, ai llm.Invoker, userID uint64, in ThumbnailInput) (*ThumbnailAnalysis, error) {
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, &types.ValidationError{Message: "description is required"}
	}

	comp, err := ai.Invoke(ctx, []llm.Message{
		{
			Role:    "system",
			Content: "You are a thumbnail CTR analyst. Return ONLY JSON with ctrScore, colorScore, textScore, faceScore, overallScore (0-10 numbers), strengths (array of strings), improvements (array of strings).",
		},
		{
			Role:    "user",
			Content: fmt.Sprintf("Analyze this thumbnail description: %s. Return JSON as specified.", description),
		},
	})
	if err != nil {
		return nil, err
	}

	var result ThumbnailAnalysis
	if err := llm.ParseObject(comp, "thumbnail analysis", &result); err != nil {
		return nil, err
	}
	if err := result.validate("thumbnail analysis"); err != nil {
		return nil, err
	}

	if _, err := CreateArtifact(db, userID, models.KindThumbnail, "Thumbnail analysis", description, result); err != nil {
		return nil, err
	}
	return &result, nil
}

// formatNumber renders a score the way it appears in artifact titles:
// integers without a decimal point, fractions as-is.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
