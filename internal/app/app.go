package app

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/fundlens/fundlens/config"
	"github.com/fundlens/fundlens/internal/api"
	"github.com/fundlens/fundlens/internal/dataset"
	"github.com/fundlens/fundlens/internal/llm"
	"github.com/fundlens/fundlens/internal/logger"
	"github.com/fundlens/fundlens/internal/service"
)

// completerCtor is an indirection for creating the LLM client; tests can
// override this to avoid real network calls.
var completerCtor = func(cfg config.LLMConfig) llm.Completer {
	return llm.NewAnthropicClient(cfg.APIKey, cfg.Model, cfg.MaxTokens)
}

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Loads the CSV datasets into an immutable store.
//   - Wires the planner/explainer on top of the Anthropic client.
//   - Creates the HTTP handler layer and the Gin router.
//   - Registers health probes.
//
// Degraded modes (the process still starts):
//   - Dataset load failure or no CSV files: chat answers will fail
//     validation; /api/health reports data_loaded=false.
//   - Missing API credential: chat endpoints return 503.
func InitializeApp(ctx context.Context) (*gin.Engine, func(), error) {
	cfg := config.AppConfig

	store, err := dataset.Load(ctx, cfg.Data.Dir)
	if err != nil {
		logger.L().Error().Err(err).Str("dir", cfg.Data.Dir).Msg("dataset load failed, continuing without data")
		store = dataset.NewStore()
	}
	if !store.Loaded() {
		logger.L().Warn().Str("dir", cfg.Data.Dir).Msg("no CSV data loaded")
	}

	// Chat service only exists when a credential is configured.
	var svc service.ChatService
	if cfg.LLM.APIKey == "" {
		logger.L().Warn().Msg("ANTHROPIC_API_KEY not set, chat endpoints will return 503")
	} else {
		client := completerCtor(cfg.LLM)
		svc = service.NewChatService(store, llm.NewPlanner(client), llm.NewExplainer(client))
	}

	handler := api.NewHandler(svc, store, cfg.Server.IndexFile)
	router := api.NewRouter(handler)

	healthHandler := api.NewHealthHandler(func() bool { return svc != nil }, store.Loaded)
	healthHandler.Register(router)

	// Nothing to release yet; kept for shutdown symmetry with the server.
	cleanup := func() {}

	return router, cleanup, nil
}
