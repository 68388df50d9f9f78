package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/creatorhq/creator-api/internal/database"
	"github.com/creatorhq/creator-api/internal/handlers"
	"github.com/creatorhq/creator-api/internal/llm"
	"github.com/creatorhq/creator-api/internal/logger"
	"github.com/creatorhq/creator-api/internal/middleware"
	"github.com/creatorhq/creator-api/internal/models"
	"github.com/creatorhq/creator-api/internal/services"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// stubInvoker returns a canned completion.
type stubInvoker struct {
	content string
	err     error
	calls   int
}

func (s *stubInvoker) Invoke(_ context.Context, _ []llm.Message) (*llm.Completion, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	quoted, _ := json.Marshal(s.content)
	return &llm.Completion{
		Choices: []llm.Choice{
			{Message: llm.ChoiceMessage{Role: "assistant", Content: json.RawMessage(quoted)}},
		},
	}, nil
}

// testApp wires the creator routes with a stub auth middleware that injects
// a fixed user, so handler behavior is tested without a live Authorizer.
func testApp(t *testing.T, ai llm.Invoker) (*fiber.App, *gorm.DB, *models.User) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	user := &models.User{OpenID: "open-1", Role: models.RoleUser}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create test user: %v", err)
	}

	app := fiber.New()
	authStub := func(c *fiber.Ctx) error {
		c.Locals(middleware.UserLocal, user)
		return c.Next()
	}

	log := logger.Nop()
	creatorHandler := &handlers.CreatorHandler{DB: db, AI: ai, Log: log}
	artifactHandler := &handlers.ArtifactHandler{DB: db, Log: log}

	creator := app.Group("/api/creator", authStub)
	creator.Post("/hooks/analyze", creatorHandler.AnalyzeHook)
	creator.Post("/ideas", creatorHandler.GenerateIdeas)
	creator.Post("/scripts", creatorHandler.GenerateScript)
	creator.Post("/repurpose", creatorHandler.Repurpose)
	creator.Post("/monetization", creatorHandler.Monetization)
	creator.Post("/sponsorship", creatorHandler.Sponsorship)
	creator.Post("/thumbnails/analyze", creatorHandler.AnalyzeThumbnail)
	creator.Get("/artifacts", artifactHandler.List)
	creator.Delete("/artifacts/:id", artifactHandler.Delete)
	creator.Get("/stats", artifactHandler.Stats)

	return app, db, user
}

func postJSON(t *testing.T, app *fiber.App, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("decode body %q: %v", raw, err)
	}
}

const validHookResponse = `{
	"score": 7,
	"type": "question",
	"breakdown": {"curiosity": 8, "clarity": 7, "emotionalTrigger": 6, "specificity": 7, "scrollStoppingPower": 8},
	"mainWeakness": "too vague",
	"improvedHooks": ["h1", "h2", "h3", "h4", "h5"],
	"viralityConfidence": "High"
}`

func TestAnalyzeHookEndpoint(t *testing.T) {
	ai := &stubInvoker{content: validHookResponse}
	app, db, user := testApp(t, ai)

	resp := postJSON(t, app, "/api/creator/hooks/analyze", `{"hook": "What if I told you..."}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var result services.HookAnalysis
	decodeBody(t, resp, &result)
	if result.Score != 7 {
		t.Errorf("score = %v", result.Score)
	}

	var artifact models.Artifact
	if err := db.Where("user_id = ?", user.ID).First(&artifact).Error; err != nil {
		t.Fatalf("load artifact: %v", err)
	}
	if artifact.Kind != models.KindHookAnalysis {
		t.Errorf("kind = %q", artifact.Kind)
	}
}

func TestAnalyzeHookEndpointValidation(t *testing.T) {
	ai := &stubInvoker{content: validHookResponse}
	app, _, _ := testApp(t, ai)

	resp := postJSON(t, app, "/api/creator/hooks/analyze", `{"hook": "  "}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var envelope map[string]interface{}
	decodeBody(t, resp, &envelope)
	// Validation messages surface verbatim.
	if envelope["message"] != "hook is required" {
		t.Errorf("message = %v", envelope["message"])
	}
	if ai.calls != 0 {
		t.Errorf("provider called %d times", ai.calls)
	}
}

func TestAnalyzeHookEndpointMalformedBody(t *testing.T) {
	ai := &stubInvoker{content: validHookResponse}
	app, _, _ := testApp(t, ai)

	resp := postJSON(t, app, "/api/creator/hooks/analyze", `{not json`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestGenerationFailureIsGeneric(t *testing.T) {
	// A malformed model response must not leak details to the caller.
	ai := &stubInvoker{content: `{broken`}
	app, _, _ := testApp(t, ai)

	resp := postJSON(t, app, "/api/creator/hooks/analyze", `{"hook": "a hook"}`)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var envelope map[string]interface{}
	decodeBody(t, resp, &envelope)
	if envelope["message"] != "Generation failed" {
		t.Errorf("message = %v", envelope["message"])
	}
}

func TestMonetizationEndpointFlexibleInput(t *testing.T) {
	ai := &stubInvoker{content: `{
		"subscribers": 10000, "monthlyViews": 250000, "engagementRate": 4.2,
		"adRevenue": 300, "sponsorshipPotential": 150, "affiliateRevenue": 50,
		"totalMonthly": 500, "annualProjection": 1
	}`}
	app, _, _ := testApp(t, ai)

	// Subscriber counts arrive as strings from some clients.
	resp := postJSON(t, app, "/api/creator/monetization", `{"subscribers": "10000", "monthlyViews": 250000, "engagementRate": 4.2}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var result services.MonetizationModel
	decodeBody(t, resp, &result)
	if result.AnnualProjection != 6000 {
		t.Errorf("annualProjection = %v, want 6000", result.AnnualProjection)
	}
}

func TestListArtifactsEndpoint(t *testing.T) {
	ai := &stubInvoker{content: validHookResponse}
	app, db, user := testApp(t, ai)

	if _, err := services.CreateArtifact(db, user.ID, models.KindScript, "a script", "hook", []map[string]string{{"time": "0-3s", "text": "x"}}); err != nil {
		t.Fatalf("CreateArtifact() error = %v", err)
	}
	if _, err := services.CreateArtifact(db, user.ID, models.KindThumbnail, "a thumb", "desc", map[string]float64{"ctrScore": 8}); err != nil {
		t.Fatalf("CreateArtifact() error = %v", err)
	}

	t.Run("all", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/creator/artifacts", nil)
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}

		var rows []handlers.ArtifactResponse
		decodeBody(t, resp, &rows)
		if len(rows) != 2 {
			t.Fatalf("got %d rows", len(rows))
		}
		// Stored payloads come back as structured JSON, not strings.
		for _, row := range rows {
			switch row.Kind {
			case models.KindScript:
				if _, ok := row.Result.([]interface{}); !ok {
					t.Errorf("script result type = %T", row.Result)
				}
			case models.KindThumbnail:
				if _, ok := row.Result.(map[string]interface{}); !ok {
					t.Errorf("thumbnail result type = %T", row.Result)
				}
			default:
				t.Errorf("unexpected kind %q", row.Kind)
			}
		}
	})

	t.Run("kind filter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/creator/artifacts?kind=script", nil)
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		var rows []handlers.ArtifactResponse
		decodeBody(t, resp, &rows)
		if len(rows) != 1 || rows[0].Kind != models.KindScript {
			t.Errorf("rows = %+v", rows)
		}
	})

	t.Run("unknown kind", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/creator/artifacts?kind=bogus", nil)
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d", resp.StatusCode)
		}
	})
}

func TestDeleteArtifactEndpoint(t *testing.T) {
	ai := &stubInvoker{}
	app, db, user := testApp(t, ai)

	artifact, err := services.CreateArtifact(db, user.ID, models.KindScript, "t", "i", 0)
	if err != nil {
		t.Fatalf("CreateArtifact() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/creator/artifacts/"+itoa(artifact.ArtifactID), nil)
	resp, errTest := app.Test(req, -1)
	if errTest != nil {
		t.Fatalf("app.Test: %v", errTest)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var n int64
	db.Model(&models.Artifact{}).Count(&n)
	if n != 0 {
		t.Errorf("artifact count = %d", n)
	}

	t.Run("bad id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/creator/artifacts/abc", nil)
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d", resp.StatusCode)
		}
	})
}

func TestStatsEndpoint(t *testing.T) {
	ai := &stubInvoker{}
	app, db, user := testApp(t, ai)

	for i := 0; i < 2; i++ {
		if _, err := services.CreateArtifact(db, user.ID, models.KindScript, "t", "i", i); err != nil {
			t.Fatalf("CreateArtifact() error = %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/creator/stats", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var stats handlers.StatsResponse
	decodeBody(t, resp, &stats)
	if stats.Total != 2 {
		t.Errorf("total = %d", stats.Total)
	}
	if stats.Counts[models.KindScript] != 2 {
		t.Errorf("script count = %d", stats.Counts[models.KindScript])
	}
	// Unused kinds are reported explicitly as zero.
	if got, ok := stats.Counts[models.KindThumbnail]; !ok || got != 0 {
		t.Errorf("thumbnail count = %d (present %v)", got, ok)
	}
}

func itoa(v uint64) string {
	return strconv.FormatUint(v, 10)
}
