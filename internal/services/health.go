package services

import (
	"fmt"

	"github.com/creatorhq/creator-api/internal/config"
	"github.com/creatorhq/creator-api/internal/utils"
	"gorm.io/gorm"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	Authorizer   string            `json:"authorizer"`
	LLMProvider  string            `json:"llmProvider"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// HealthCheck probes the database, the Authorizer, and the LLM provider.
func HealthCheck(cfg *config.Config, db *gorm.DB) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	// Database connectivity
	sqlDB, err := db.DB()
	if err != nil {
		result.Status = "unhealthy"
		result.Database = "error"
		result.Details["database_error"] = err.Error()
		result.ErrorMessage = fmt.Sprintf("Database connection error: %v", err)
	} else if err := sqlDB.Ping(); err != nil {
		result.Status = "unhealthy"
		result.Database = "unreachable"
		result.Details["database_ping_error"] = err.Error()
		result.ErrorMessage = fmt.Sprintf("Database ping failed: %v", err)
	} else {
		result.Database = "ok"
		result.Details["database_type"] = cfg.DBType
	}

	// Authorizer connectivity
	if err := utils.PingAuthorizer(cfg.AuthzURL); err != nil {
		result.Status = "unhealthy"
		result.Authorizer = "unreachable"
		result.Details["authorizer_error"] = err.Error()
		appendError(&result, fmt.Sprintf("Authorizer ping failed: %v", err))
	} else {
		result.Authorizer = "ok"
	}

	// LLM provider connectivity
	if err := utils.PingProvider(cfg.LLMBaseURL); err != nil {
		result.Status = "unhealthy"
		result.LLMProvider = "unreachable"
		result.Details["llm_provider_error"] = err.Error()
		appendError(&result, fmt.Sprintf("LLM provider ping failed: %v", err))
	} else {
		result.LLMProvider = "ok"
	}

	return result
}

func appendError(result *HealthCheckResult, msg string) {
	if result.ErrorMessage == "" {
		result.ErrorMessage = msg
		return
	}
	result.ErrorMessage += "; " + msg
}
