package main

import (
	"context"
	"flag"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"bankdocs/internal/answer"
	"bankdocs/internal/config"
	"bankdocs/internal/domain"
	"bankdocs/internal/embedding/ollama"
	"bankdocs/internal/embedding/openai"
	"bankdocs/internal/extractor"
	"bankdocs/internal/index"
	"bankdocs/internal/llm"
	llmollama "bankdocs/internal/llm/ollama"
	llmopenai "bankdocs/internal/llm/openai"
	"bankdocs/internal/session"
	"bankdocs/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	var reindex bool
	var indexOnly bool
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/bankdocs/config.yaml if not provided)")
	flag.BoolVar(&reindex, "reindex", false, "Discard the stored index and rebuild it from the documents")
	flag.BoolVar(&indexOnly, "index-only", false, "Build the index and exit without starting the assistant")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if docs := flag.Args(); len(docs) > 0 {
		cfg.Documents = docs
	}

	// Assemble components
	var emb domain.Embedder
	switch cfg.Embedder.Type {
	case "openai", "":
		if cfg.Embedder.OpenAI == nil {
			log.Fatalf("openai embedder config missing")
		}
		client, err := openai.NewClient(openai.Config{
			BaseURL:   cfg.Embedder.OpenAI.BaseURL,
			APIKeyEnv: cfg.Embedder.OpenAI.APIKeyEnv,
			Model:     cfg.Embedder.OpenAI.Model,
			Timeout:   time.Duration(cfg.Embedder.OpenAI.TimeoutSecs) * time.Second,
		})
		if err != nil {
			log.Fatalf("openai embedder init failed: %v", err)
		}
		emb = client
	case "ollama":
		if cfg.Embedder.Ollama == nil {
			log.Fatalf("ollama embedder config missing")
		}
		emb = ollama.NewClient(ollama.Config{
			Host:    cfg.Embedder.Ollama.Host,
			Model:   cfg.Embedder.Ollama.Model,
			Timeout: time.Duration(cfg.Embedder.Ollama.TimeoutSecs) * time.Second,
		})
	default:
		log.Fatalf("unknown embedder: %s", cfg.Embedder.Type)
	}

	var chat llm.Client
	switch cfg.LLM.Type {
	case "openai", "":
		if cfg.LLM.OpenAI == nil {
			log.Fatalf("openai llm config missing")
		}
		client, err := llmopenai.NewClient(llmopenai.Config{
			BaseURL:   cfg.LLM.OpenAI.BaseURL,
			APIKeyEnv: cfg.LLM.OpenAI.APIKeyEnv,
			Model:     cfg.LLM.OpenAI.Model,
			Timeout:   time.Duration(cfg.LLM.OpenAI.TimeoutSecs) * time.Second,
		})
		if err != nil {
			log.Fatalf("openai llm init failed: %v", err)
		}
		chat = client
	case "ollama":
		if cfg.LLM.Ollama == nil {
			log.Fatalf("ollama llm config missing")
		}
		chat = llmollama.NewClient(llmollama.Config{
			Host:    cfg.LLM.Ollama.Host,
			Model:   cfg.LLM.Ollama.Model,
			Timeout: time.Duration(cfg.LLM.Ollama.TimeoutSecs) * time.Second,
		})
	default:
		log.Fatalf("unknown llm: %s", cfg.LLM.Type)
	}

	store := index.NewStore(cfg.IndexPath)
	if reindex {
		if err := store.Clear(); err != nil {
			log.Fatalf("failed to clear index: %v", err)
		}
	}

	sess := session.New(session.Config{
		Documents: cfg.Documents,
		TopK:      cfg.TopK,
	}, extractor.New(extractor.NewPDFReader()), emb, store, answer.New(chat))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	if err := sess.Open(ctx); err != nil {
		cancel()
		log.Fatalf("failed to open session: %v", err)
	}
	cancel()
	if indexOnly {
		log.Printf("index ready at %s", store.Path())
		return
	}

	m := tui.New(sess, 5*time.Minute)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}
