package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/w-h-a/docchat"
	"github.com/w-h-a/docchat/docstore"
	docmemory "github.com/w-h-a/docchat/docstore/memory"
	"github.com/w-h-a/docchat/docstore/sqlite"
	"github.com/w-h-a/docchat/embedder"
	googleembedder "github.com/w-h-a/docchat/embedder/google"
	"github.com/w-h-a/docchat/embedder/hash"
	"github.com/w-h-a/docchat/embedder/ollama"
	openaiembedder "github.com/w-h-a/docchat/embedder/openai"
	"github.com/w-h-a/docchat/generator"
	"github.com/w-h-a/docchat/generator/anthropic"
	googlegenerator "github.com/w-h-a/docchat/generator/google"
	openaigenerator "github.com/w-h-a/docchat/generator/openai"
	"github.com/w-h-a/docchat/history"
	"github.com/w-h-a/docchat/history/local"
	"github.com/w-h-a/docchat/history/redis"
	"github.com/w-h-a/docchat/internal/config"
	handlerhttp "github.com/w-h-a/docchat/internal/handler/http"
	"github.com/w-h-a/docchat/server"
	serverhttp "github.com/w-h-a/docchat/server/http"
	"github.com/w-h-a/docchat/vectorindex"
	indexmemory "github.com/w-h-a/docchat/vectorindex/memory"
	"github.com/w-h-a/docchat/vectorindex/postgres"
	"github.com/w-h-a/docchat/vectorindex/qdrant"
)

var version = "dev"

var (
	cfg struct {
		Config kong.ConfigFlag `help:"Path to a YAML config file" short:"c"`

		// Server config
		Address  string `help:"Address for the HTTP server" default:":8000" env:"DOCCHAT_ADDRESS"`
		LogFile  string `help:"Optional JSON log file" default:"" env:"DOCCHAT_LOG_FILE"`
		LogLevel string `help:"Log level (debug, info, warn, error)" default:"info" env:"DOCCHAT_LOG_LEVEL"`

		// Embedder config
		Embedder          string `help:"Embedding provider" enum:"hash,google,openai,ollama" default:"hash" env:"DOCCHAT_EMBEDDER"`
		EmbedderModel     string `help:"Embedding model identifier" default:"" env:"DOCCHAT_EMBEDDER_MODEL"`
		EmbedderApiKey    string `help:"API key for the embedding provider" default:"" env:"DOCCHAT_EMBEDDER_API_KEY"`
		EmbedderLocation  string `help:"Base URL for the embedding provider" default:"" env:"DOCCHAT_EMBEDDER_LOCATION"`
		EmbedderDimension int    `help:"Embedding dimension, 0 uses the provider default" default:"0" env:"DOCCHAT_EMBEDDER_DIMENSION"`

		// Generator config
		Generator         string `help:"Generative model provider" enum:"google,openai,anthropic" default:"google" env:"DOCCHAT_GENERATOR"`
		GeneratorModel    string `help:"Generative model identifier" default:"" env:"DOCCHAT_GENERATOR_MODEL"`
		GeneratorApiKey   string `help:"API key for the generative provider" default:"" env:"DOCCHAT_GENERATOR_API_KEY,GOOGLE_API_KEY"`
		GeneratorLocation string `help:"Base URL for the generative provider" default:"" env:"DOCCHAT_GENERATOR_LOCATION"`

		// Vector index config
		Index         string `help:"Vector index backend" enum:"memory,qdrant,postgres" default:"memory" env:"DOCCHAT_INDEX"`
		IndexLocation string `help:"Qdrant URL or postgres DSN" default:"" env:"DOCCHAT_INDEX_LOCATION"`
		IndexApiKey   string `help:"API key for the vector index" default:"" env:"DOCCHAT_INDEX_API_KEY"`
		Collection    string `help:"Vector collection name" default:"internship_documents" env:"DOCCHAT_COLLECTION"`

		// History config
		History         string        `help:"Chat history backend" enum:"local,redis" default:"local" env:"DOCCHAT_HISTORY"`
		HistoryLocation string        `help:"Redis URL for chat history" default:"" env:"DOCCHAT_HISTORY_LOCATION,REDIS_URL"`
		HistoryTtl      time.Duration `help:"Inactivity window before a session expires" default:"1h" env:"DOCCHAT_HISTORY_TTL"`

		// Document store config
		Documents         string `help:"Document metadata backend" enum:"memory,sqlite" default:"memory" env:"DOCCHAT_DOCUMENTS"`
		DocumentsLocation string `help:"SQLite file for document metadata" default:"" env:"DOCCHAT_DOCUMENTS_LOCATION"`

		// Pipeline config
		TopK         int           `help:"Chunks retrieved per answer" default:"3" env:"DOCCHAT_TOP_K"`
		Timeout      time.Duration `help:"Bound on each model and index call" default:"30s" env:"DOCCHAT_TIMEOUT"`
		ChunkSize    int           `help:"Target chunk size in characters" default:"500" env:"DOCCHAT_CHUNK_SIZE"`
		ChunkOverlap int           `help:"Overlap between consecutive chunks" default:"50" env:"DOCCHAT_CHUNK_OVERLAP"`
	}
)

func main() {
	// Load .env before parsing so env tags see it
	_ = godotenv.Load()

	// Parse inputs
	_ = kong.Parse(
		&cfg,
		kong.Name("docchat"),
		kong.Description("Retrieval-augmented document chat with interview booking."),
		kong.Configuration(config.YAML, "./docchat.yaml", "~/.config/docchat/docchat.yaml"),
	)

	// Logging
	logger, cleanup := config.SetupLogger(cfg.LogFile, config.ParseLevel(cfg.LogLevel))
	defer cleanup()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Create capabilities
	emb := newEmbedder()
	gen := newGenerator()
	idx := newIndex(emb.Dimension())
	hist := newHistory()
	docs := newDocuments()

	// Create app
	app := docchat.New(
		emb,
		gen,
		idx,
		hist,
		docs,
		docchat.WithTopK(cfg.TopK),
		docchat.WithTimeout(cfg.Timeout),
		docchat.WithChunkSize(cfg.ChunkSize),
		docchat.WithChunkOverlap(cfg.ChunkOverlap),
	)

	defer func() {
		if err := app.Close(); err != nil {
			slog.Error("failed to close resources", "error", err)
		}
	}()

	startCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	err := app.Start(startCtx)
	cancel()
	if err != nil {
		slog.Error("failed to start", "error", err)
		return
	}

	// Create server
	srv := serverhttp.NewServer(
		server.WithName("docchat"),
		server.WithVersion(version),
		server.WithAddress(cfg.Address),
		serverhttp.WithMiddleware(
			serverhttp.RecoverMiddleware(logger),
			serverhttp.LoggingMiddleware(logger),
		),
	)

	if err := srv.Handle(handlerhttp.NewRouter(app)); err != nil {
		slog.Error("failed to register handler", "error", err)
		return
	}

	if err := srv.Start(); err != nil {
		slog.Error("failed to start server", "error", err)
		return
	}

	<-ctx.Done()

	slog.Info("shutting down")

	if err := srv.Stop(context.Background()); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("failed to stop server", "error", err)
	}
}

func newEmbedder() embedder.Embedder {
	opts := []embedder.Option{
		embedder.WithApiKey(cfg.EmbedderApiKey),
		embedder.WithModel(cfg.EmbedderModel),
		embedder.WithLocation(cfg.EmbedderLocation),
		embedder.WithDimension(cfg.EmbedderDimension),
	}

	switch cfg.Embedder {
	case "google":
		return googleembedder.NewEmbedder(opts...)
	case "openai":
		return openaiembedder.NewEmbedder(opts...)
	case "ollama":
		return ollama.NewEmbedder(opts...)
	default:
		return hash.NewEmbedder(opts...)
	}
}

func newGenerator() generator.Generator {
	opts := []generator.Option{
		generator.WithApiKey(cfg.GeneratorApiKey),
		generator.WithModel(cfg.GeneratorModel),
		generator.WithLocation(cfg.GeneratorLocation),
	}

	switch cfg.Generator {
	case "openai":
		return openaigenerator.NewGenerator(opts...)
	case "anthropic":
		return anthropic.NewGenerator(opts...)
	default:
		return googlegenerator.NewGenerator(opts...)
	}
}

func newIndex(dimension int) vectorindex.Index {
	opts := []vectorindex.Option{
		vectorindex.WithLocation(cfg.IndexLocation),
		vectorindex.WithApiKey(cfg.IndexApiKey),
		vectorindex.WithCollection(cfg.Collection),
		vectorindex.WithVectorSize(dimension),
		vectorindex.WithTimeout(cfg.Timeout),
	}

	switch cfg.Index {
	case "qdrant":
		return qdrant.NewIndex(opts...)
	case "postgres":
		return postgres.NewIndex(opts...)
	default:
		return indexmemory.NewIndex(opts...)
	}
}

func newHistory() history.History {
	opts := []history.Option{
		history.WithLocation(cfg.HistoryLocation),
		history.WithTTL(cfg.HistoryTtl),
	}

	switch cfg.History {
	case "redis":
		return redis.NewHistory(opts...)
	default:
		return local.NewHistory(opts...)
	}
}

func newDocuments() docstore.Store {
	opts := []docstore.Option{
		docstore.WithLocation(cfg.DocumentsLocation),
	}

	switch cfg.Documents {
	case "sqlite":
		return sqlite.NewStore(opts...)
	default:
		return docmemory.NewStore(opts...)
	}
}
