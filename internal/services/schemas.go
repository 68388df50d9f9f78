package services

import (
	"fmt"

	"github.com/creatorhq/creator-api/internal/llm"
)

// Typed result schemas for the seven creator operations. The model's JSON
// is decoded into these and checked field by field; a violation is a
// ShapeError carrying the operation label.

// HookBreakdown holds the five named sub-scores of a hook analysis.
type HookBreakdown struct {
	Curiosity           float64 `json:"curiosity"`
	Clarity             float64 `json:"clarity"`
	EmotionalTrigger    float64 `json:"emotionalTrigger"`
	Specificity         float64 `json:"specificity"`
	ScrollStoppingPower float64 `json:"scrollStoppingPower"`
}

// HookAnalysis is the validated result of a hook analysis.
type HookAnalysis struct {
	Score              float64       `json:"score"`
	Type               string        `json:"type"`
	Breakdown          HookBreakdown `json:"breakdown"`
	MainWeakness       string        `json:"mainWeakness"`
	ImprovedHooks      []string      `json:"improvedHooks"`
	ViralityConfidence string        `json:"viralityConfidence"`
}

func (h *HookAnalysis) validate(label string) error {
	if h.Score < 1 || h.Score > 10 {
		return shapeErr(label, "score %v is outside [1,10]", h.Score)
	}
	subs := map[string]float64{
		"curiosity":           h.Breakdown.Curiosity,
		"clarity":             h.Breakdown.Clarity,
		"emotionalTrigger":    h.Breakdown.EmotionalTrigger,
		"specificity":         h.Breakdown.Specificity,
		"scrollStoppingPower": h.Breakdown.ScrollStoppingPower,
	}
	for name, v := range subs {
		if v < 0 || v > 10 {
			return shapeErr(label, "breakdown.%s %v is outside [0,10]", name, v)
		}
	}
	if len(h.ImprovedHooks) != 5 {
		return shapeErr(label, "improvedHooks has %d entries, want 5", len(h.ImprovedHooks))
	}
	if !confidenceLevels[h.ViralityConfidence] {
		return shapeErr(label, "viralityConfidence %q is not one of Low, Medium, High", h.ViralityConfidence)
	}
	return nil
}

var confidenceLevels = map[string]bool{"Low": true, "Medium": true, "High": true}

var difficultyLevels = map[string]bool{"Easy": true, "Medium": true, "Hard": true}

// ContentIdea is one generated idea for a topic.
type ContentIdea struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Format      string `json:"format"`
	Difficulty  string `json:"difficulty"`
}

func validateIdeas(label string, ideas []ContentIdea) error {
	if len(ideas) == 0 {
		return shapeErr(label, "has no items")
	}
	for i, idea := range ideas {
		if idea.Title == "" {
			return shapeErr(label, "item %d has an empty title", i)
		}
		if !difficultyLevels[idea.Difficulty] {
			return shapeErr(label, "item %d difficulty %q is not one of Easy, Medium, Hard", i, idea.Difficulty)
		}
	}
	return nil
}

// ScriptSegment is one timed segment of a generated script.
type ScriptSegment struct {
	Time string `json:"time"`
	Text string `json:"text"`
}

func validateSegments(label string, segments []ScriptSegment) error {
	if len(segments) == 0 {
		return shapeErr(label, "has no segments")
	}
	for i, seg := range segments {
		if seg.Text == "" {
			return shapeErr(label, "segment %d has no text", i)
		}
	}
	return nil
}

// RepurposedContent is content adapted for one target platform.
type RepurposedContent struct {
	Platform string `json:"platform"`
	Content  string `json:"content"`
}

func validateRepurposed(label string, items []RepurposedContent) error {
	if len(items) == 0 {
		return shapeErr(label, "has no items")
	}
	for i, item := range items {
		if item.Platform == "" || item.Content == "" {
			return shapeErr(label, "item %d is missing platform or content", i)
		}
	}
	return nil
}

// MonetizationModel is the validated revenue model. AnnualProjection is
// always derived from TotalMonthly so the 12x invariant holds regardless
// of what the model returned.
type MonetizationModel struct {
	Subscribers          float64 `json:"subscribers"`
	MonthlyViews         float64 `json:"monthlyViews"`
	EngagementRate       float64 `json:"engagementRate"`
	AdRevenue            float64 `json:"adRevenue"`
	SponsorshipPotential float64 `json:"sponsorshipPotential"`
	AffiliateRevenue     float64 `json:"affiliateRevenue"`
	TotalMonthly         float64 `json:"totalMonthly"`
	AnnualProjection     float64 `json:"annualProjection"`
}

func (m *MonetizationModel) validate(label string) error {
	amounts := map[string]float64{
		"subscribers":          m.Subscribers,
		"monthlyViews":         m.MonthlyViews,
		"engagementRate":       m.EngagementRate,
		"adRevenue":            m.AdRevenue,
		"sponsorshipPotential": m.SponsorshipPotential,
		"affiliateRevenue":     m.AffiliateRevenue,
		"totalMonthly":         m.TotalMonthly,
	}
	for name, v := range amounts {
		if v < 0 {
			return shapeErr(label, "%s %v is negative", name, v)
		}
	}
	m.AnnualProjection = m.TotalMonthly * 12
	return nil
}

// PitchSection is one section of a sponsorship pitch.
type PitchSection struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// SponsorshipPitch is the validated pitch document.
type SponsorshipPitch struct {
	Title    string         `json:"title"`
	Sections []PitchSection `json:"sections"`
}

func (p *SponsorshipPitch) validate(label string) error {
	if len(p.Sections) == 0 {
		return shapeErr(label, "has no sections")
	}
	for i, s := range p.Sections {
		if s.Content == "" {
			return shapeErr(label, "section %d has no content", i)
		}
	}
	return nil
}

// ThumbnailAnalysis is the validated thumbnail CTR report.
type ThumbnailAnalysis struct {
	CtrScore     float64  `json:"ctrScore"`
	ColorScore   float64  `json:"colorScore"`
	TextScore    float64  `json:"textScore"`
	FaceScore    float64  `json:"faceScore"`
	OverallScore float64  `json:"overallScore"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
}

func (t *ThumbnailAnalysis) validate(label string) error {
	scores := map[string]float64{
		"ctrScore":     t.CtrScore,
		"colorScore":   t.ColorScore,
		"textScore":    t.TextScore,
		"faceScore":    t.FaceScore,
		"overallScore": t.OverallScore,
	}
	for name, v := range scores {
		if v < 0 || v > 10 {
			return shapeErr(label, "%s %v is outside [0,10]", name, v)
		}
	}
	if err := validateStringList(label, "strengths", t.Strengths); err != nil {
		return err
	}
	return validateStringList(label, "improvements", t.Improvements)
}

func validateStringList(label, field string, values []string) error {
	if len(values) == 0 {
		return shapeErr(label, "%s is empty", field)
	}
	for i, v := range values {
		if v == "" {
			return shapeErr(label, "%s entry %d is empty", field, i)
		}
	}
	return nil
}

func shapeErr(label, format string, args ...interface{}) error {
	return &llm.ShapeError{Label: label, Reason: fmt.Sprintf(format, args...)}
}
