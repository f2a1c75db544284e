package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/docuvoice/docuvoice/internal/config"
	"github.com/docuvoice/docuvoice/internal/core/ingest"
	"github.com/docuvoice/docuvoice/internal/core/llm"
	"github.com/docuvoice/docuvoice/internal/core/narrate"
	"github.com/docuvoice/docuvoice/internal/core/translate"
	"github.com/docuvoice/docuvoice/internal/core/tts"
	"github.com/docuvoice/docuvoice/internal/core/voice"
	"github.com/docuvoice/docuvoice/internal/core/websearch"
	"github.com/docuvoice/docuvoice/internal/services"
)

type App struct {
	Embedder *llm.GeminiEmbedder
	LLM      *llm.GeminiLLM
	Sessions *services.SessionService
	Server   *Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	embedder, err := llm.NewGeminiEmbedder(appCtx, cfg.AIAPIKey, cfg.EmbedModel)
	if err != nil {
		return nil, fmt.Errorf("couldn't initialize the embedder: %w", err)
	}

	llmProvider, err := llm.NewGeminiLLM(appCtx, cfg.AIAPIKey, cfg.GenModel)
	if err != nil {
		return nil, fmt.Errorf("couldn't initialize the llm: %w", err)
	}
	log.Println("Gemini clients initialized and ready.")

	extractor := ingest.NewDocconvExtractor(false)
	narrator := narrate.NewPipeline(translate.NewClient(0), tts.NewClient(0), cfg.TTSMaxChars)
	intake := voice.NewIntake(voice.NewGoogleRecognizer(cfg.AIAPIKey, 0), cfg.VoiceTimeout)
	searcher := websearch.NewDuckDuckGo(cfg.SearchRegion, 0)

	sessions := services.NewSessionService(
		services.NewRegistry(),
		cfg,
		extractor,
		embedder,
		llmProvider,
		narrator,
		intake,
		searcher,
	)

	server := NewServer(cfg, sessions)

	return &App{Embedder: embedder, LLM: llmProvider, Sessions: sessions, Server: server}, nil
}

func (a *App) Close() {
	if a.Embedder != nil {
		_ = a.Embedder.Close()
	}
	if a.LLM != nil {
		_ = a.LLM.Close()
	}
}
