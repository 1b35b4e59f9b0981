// Package main is the bunko CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/bunkodb/bunko/internal/answer"
	"github.com/bunkodb/bunko/internal/cli"
	"github.com/bunkodb/bunko/internal/config"
	"github.com/bunkodb/bunko/internal/embedding"
	"github.com/bunkodb/bunko/internal/extract"
	"github.com/bunkodb/bunko/internal/ingest"
	"github.com/bunkodb/bunko/internal/models"
	"github.com/bunkodb/bunko/internal/retrieve"
	"github.com/bunkodb/bunko/internal/server"
	"github.com/bunkodb/bunko/internal/storage"
	"github.com/bunkodb/bunko/internal/vector"
	"github.com/bunkodb/bunko/internal/watcher"
	"github.com/bunkodb/bunko/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/bunko/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used instead. Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	switch os.Args[1] {
	case "server":
		runServer()
	case "ingest":
		runIngest()
	case "search":
		runSearch()
	case "ask", "qa":
		runAsk()
	case "delete":
		runDelete()
	case "reindex":
		runReindex()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("bunko version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if len(cfg.Watch.Directories) > 0 {
		watchOpts := []watcher.Option{}
		if debugMode {
			watchOpts = append(watchOpts, watcher.WithLogger(logger))
		}
		watchSvc := watcher.NewWatcher(
			components.Ingester,
			cfg.Watch.Directories,
			cfg.Watch.Extensions,
			cfg.Watch.RecursiveOrDefault(),
			watchOpts...,
		)
		if err := watchSvc.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		defer watchSvc.Stop()
		watchSvc.SyncExistingFiles(watchCtx)
		logger.Info("watching directories", zap.Strings("directories", watchSvc.Directories()))
	}

	srv := server.NewServer(
		components.Store,
		components.Ingester,
		components.Retriever,
		components.Answerer,
		components.Index,
		cfg,
		logger,
	)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runIngest() {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	sourceID := fs.String("source", "", "source ID for supersession (default: file:// URL of the path)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: bunko ingest [flags] <file-or-directory> (use - for stdin)")
		os.Exit(1)
	}
	path := fs.Arg(0)
	format, err := parseFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	components, cfg := mustInitialize(*configPath)
	defer components.Close()

	ctx := context.Background()
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read stdin: %v\n", err)
			os.Exit(1)
		}
		result, err := components.Ingester.IngestText(ctx, string(data), *sourceID, models.SourceKindAPI)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Ingest failed: %v\n", err)
			os.Exit(1)
		}
		_ = cli.WriteIngestResult(os.Stdout, result, format)
		return
	}
	info, err := os.Stat(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to stat path: %v\n", err)
		os.Exit(1)
	}
	if info.IsDir() {
		n, err := ingestDirectory(ctx, components.Ingester, path, cfg.Watch.Extensions)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Ingesting directory failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Ingested %d file(s) from %s\n", n, path)
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read file: %v\n", err)
		os.Exit(1)
	}
	src := *sourceID
	if src == "" {
		src = watcher.SourceID(path)
	}
	result, err := components.Ingester.IngestFile(ctx, data, filepath.Base(path), src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ingest failed: %v\n", err)
		os.Exit(1)
	}
	_ = cli.WriteIngestResult(os.Stdout, result, format)
}

// ingestDirectory walks root and ingests every file with a supported extension.
func ingestDirectory(ctx context.Context, svc *ingest.Service, root string, extensions []string) (int, error) {
	if extensions == nil {
		extensions = extract.SupportedExtensions()
	}
	allowed := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		allowed[strings.ToLower(strings.TrimPrefix(e, "."))] = true
	}
	count := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
		if !allowed[ext] {
			return nil
		}
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return readErr
		}
		result, ingErr := svc.IngestFile(ctx, data, filepath.Base(path), watcher.SourceID(path))
		if ingErr != nil {
			return fmt.Errorf("ingest %s: %w", path, ingErr)
		}
		if result.Status == ingest.StatusIngested {
			count++
		}
		return nil
	})
	return count, err
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct storage when server is not running)")
	k := fs.Int("k", 0, "number of results (default from config)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: bunko search [flags] <query>")
		os.Exit(1)
	}
	query := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if query == "" {
		fmt.Println("Usage: bunko search [flags] <query>")
		os.Exit(1)
	}
	format, err := parseFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	if *serverURL != "" {
		results, err := searchViaHTTP(*serverURL, query, *k)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			os.Exit(1)
		}
		if err := cli.WriteSearchResults(os.Stdout, results, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	components, cfg := mustInitialize(*configPath)
	defer components.Close()
	n := *k
	if n <= 0 {
		n = cfg.Search.DefaultK
	}
	results, err := components.Retriever.Search(context.Background(), query, n)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteSearchResults(os.Stdout, results, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func searchViaHTTP(serverURL, query string, k int) ([]retrieve.Result, error) {
	body, err := json.Marshal(map[string]interface{}{"query": query, "k": k})
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/search", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var response struct {
		Results []retrieve.Result `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return response.Results, nil
}

func runAsk() {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = answer locally)")
	k := fs.Int("k", 0, "number of chunks to retrieve (default from config)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: bunko ask [flags] <question>")
		os.Exit(1)
	}
	question := strings.TrimSpace(strings.Join(fs.Args(), " "))
	format, err := parseFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	if *serverURL != "" {
		ans, err := askViaHTTP(*serverURL, question, *k)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Ask failed: %v\n", err)
			os.Exit(1)
		}
		_ = cli.WriteAnswer(os.Stdout, ans, format)
		return
	}

	components, cfg := mustInitialize(*configPath)
	defer components.Close()
	answerer := components.Answerer
	if answerer == nil {
		// QA disabled in config: answer in retrieval-only mode.
		answerer = answer.NewAnswerer(components.Retriever)
	}
	n := *k
	if n <= 0 {
		n = cfg.Search.DefaultK
	}
	ans, err := answerer.Ask(context.Background(), question, n)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ask failed: %v\n", err)
		os.Exit(1)
	}
	_ = cli.WriteAnswer(os.Stdout, ans, format)
}

func askViaHTTP(serverURL, question string, k int) (*answer.Answer, error) {
	body, err := json.Marshal(map[string]interface{}{"question": question, "k": k})
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/qa", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var ans answer.Answer
	if err := json.NewDecoder(resp.Body).Decode(&ans); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &ans, nil
}

func runDelete() {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	bySource := fs.Bool("source", false, "treat the argument as a source ID instead of a document ID")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: bunko delete [flags] <document-id | source-id>")
		os.Exit(1)
	}
	arg := fs.Arg(0)

	components, _ := mustInitialize(*configPath)
	defer components.Close()

	ctx := context.Background()
	if *bySource {
		if err := components.Ingester.DeleteBySource(ctx, arg); err != nil {
			fmt.Fprintf(os.Stderr, "Deletion failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Deleted source: %s\n", arg)
		return
	}
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid document ID %q\n", arg)
		os.Exit(1)
	}
	if err := components.Ingester.Delete(ctx, id); err != nil {
		fmt.Fprintf(os.Stderr, "Deletion failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Deleted document: %d\n", id)
}

func runReindex() {
	fs := flag.NewFlagSet("reindex", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "", "server URL (empty = rebuild locally)")
	_ = fs.Parse(os.Args[2:])

	if *serverURL != "" {
		resp, err := http.Post(*serverURL+"/api/v1/reindex", "application/json", nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Reindex failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			fmt.Fprintf(os.Stderr, "Reindex failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		var out struct {
			Vectors int `json:"vectors"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&out)
		fmt.Printf("Rebuilt vector index: %d vectors\n", out.Vectors)
		return
	}

	components, _ := mustInitialize(*configPath)
	defer components.Close()
	if err := components.Index.Rebuild(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Reindex failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Rebuilt vector index: %d vectors\n", components.Index.Size())
}

// statusResponse is the shape of GET /api/v1/status response.
type statusResponse struct {
	Documents       int64                  `json:"documents"`
	Chunks          int64                  `json:"chunks"`
	VectorIndexSize int                    `json:"vector_index_size"`
	DiskUsageBytes  *int64                 `json:"disk_usage_bytes,omitempty"`
	Config          map[string]interface{} `json:"config,omitempty"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct storage)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	var status statusResponse
	if *serverURL != "" {
		res, err := statusViaHTTP(*serverURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		status = *res
	} else {
		components, cfg := mustInitialize(*configPath)
		defer components.Close()
		ctx := context.Background()
		docCount, err := components.Store.CountDocuments(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Count documents failed: %v\n", err)
			os.Exit(1)
		}
		chunkCount, err := components.Store.CountChunks(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Count chunks failed: %v\n", err)
			os.Exit(1)
		}
		status = statusResponse{
			Documents:       docCount,
			Chunks:          chunkCount,
			VectorIndexSize: components.Index.Size(),
			Config: map[string]interface{}{
				"embedding_provider":   cfg.Embedding.Provider,
				"embedding_dimensions": components.Index.Dimensions(),
				"chunk_size":           cfg.Chunking.Size,
				"chunk_overlap":        cfg.Chunking.Overlap,
				"database_path":        cfg.Storage.DatabasePath,
				"index_path":           cfg.Storage.IndexPath,
			},
		}
		if diskBytes, err := storage.DiskUsageBytes(cfg.Storage.DatabasePath, cfg.Storage.IndexPath); err == nil {
			status.DiskUsageBytes = &diskBytes
		}
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		fmt.Printf("documents:          %d\n", status.Documents)
		fmt.Printf("chunks:             %d\n", status.Chunks)
		fmt.Printf("vector_index_size:  %d\n", status.VectorIndexSize)
		if status.DiskUsageBytes != nil {
			fmt.Printf("disk_usage_bytes:   %d\n", *status.DiskUsageBytes)
		}
		if len(status.Config) > 0 {
			fmt.Println()
			fmt.Println("# configuration")
			for _, key := range []string{
				"embedding_provider", "embedding_dimensions",
				"chunk_size", "chunk_overlap",
				"completeness_threshold",
				"database_path", "index_path",
			} {
				if v, ok := status.Config[key]; ok {
					fmt.Printf("%-22s%v\n", key+":", v)
				}
			}
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func statusViaHTTP(serverURL string) (*statusResponse, error) {
	resp, err := http.Get(serverURL + "/api/v1/status")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var s statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &s, nil
}

func parseFormat(s string) (cli.OutputFormat, error) {
	switch s {
	case "json":
		return cli.OutputJSON, nil
	case "text", "":
		return cli.OutputText, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", s)
	}
}

// mustInitialize loads config, builds a logger, and wires all components,
// exiting the process on failure. For direct-storage subcommands.
func mustInitialize(configPath string) (*Components, *config.Config) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	components, err := initializeComponents(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	return components, cfg
}

// Components holds initialized services.
type Components struct {
	Store     *storage.SQLiteStore
	Embedder  embedding.Embedder
	Index     *vector.Manager
	Ingester  *ingest.Service
	Retriever *retrieve.Retriever
	Answerer  *answer.Answerer // nil when QA is disabled
}

func (c *Components) Close() {
	if c.Store != nil {
		_ = c.Store.Close()
	}
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
}

// newEmbedder builds the embedder named by cfg.Embedding.Provider, falling
// back to the deterministic mock when the real provider cannot start.
func newEmbedder(cfg *config.Config, logger *zap.Logger) embedding.Embedder {
	switch cfg.Embedding.Provider {
	case "openai":
		embedder, err := embedding.NewOpenAIEmbedder(
			cfg.Embedding.APIKey(),
			cfg.Embedding.Model,
			cfg.Embedding.Dimensions,
			cfg.Embedding.CacheSize,
		)
		if err == nil {
			return embedder
		}
		logger.Warn("openai embedder unavailable, falling back to mock", zap.Error(err))
	case "onnx":
		embedder, err := embedding.NewONNXEmbedder(
			cfg.Embedding.ModelPath,
			cfg.Embedding.Dimensions,
			cfg.Embedding.MaxTokens,
			cfg.Embedding.CacheSize,
		)
		if err == nil {
			return embedder
		}
		logger.Warn("onnx embedder unavailable, falling back to mock", zap.Error(err))
	}
	return embedding.NewMockEmbedder(cfg.Embedding.Dimensions)
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	store, err := storage.NewSQLiteStore(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	embedder := newEmbedder(cfg, logger)
	logger.Info("embedder initialized",
		zap.String("model", embedder.ModelID()),
		zap.Int("dimensions", embedder.Dimensions()),
	)

	index := vector.NewManager(
		cfg.Storage.IndexPath,
		cfg.Storage.IndexMetaPath,
		embedder,
		store,
		vector.WithLogger(logger),
	)
	if err := index.Initialize(context.Background()); err != nil {
		_ = store.Close()
		_ = embedder.Close()
		return nil, fmt.Errorf("failed to initialize vector index: %w", err)
	}

	ingester := ingest.NewService(store, index,
		ingest.WithChunking(cfg.Chunking.Size, cfg.Chunking.Overlap),
		ingest.WithLogger(logger),
	)
	retriever := retrieve.NewRetriever(store, index,
		retrieve.WithThreshold(cfg.Search.CompletenessThreshold),
		retrieve.WithLogger(logger),
	)

	var answerer *answer.Answerer
	if cfg.QA.Enabled {
		opts := []answer.Option{answer.WithLogger(logger)}
		if key := cfg.Embedding.APIKey(); key != "" {
			opts = append(opts, answer.WithCompletionClient(openai.NewClient(key), cfg.QA.Model))
		} else {
			logger.Warn("qa enabled without an API key, answering in retrieval-only mode")
		}
		answerer = answer.NewAnswerer(retriever, opts...)
	}

	return &Components{
		Store:     store,
		Embedder:  embedder,
		Index:     index,
		Ingester:  ingester,
		Retriever: retriever,
		Answerer:  answerer,
	}, nil
}

func printUsage() {
	fmt.Println(`bunko - Local knowledge base with semantic retrieval

Usage:
  bunko server [flags]              Start the HTTP server
  bunko ingest [flags] <path>       Ingest a file or directory (- reads stdin)
  bunko search [flags] <query>      Search the knowledge base
  bunko ask [flags] <question>      Answer a question with citations
  bunko delete [flags] <id>         Delete a document (or --source <source-id>)
  bunko reindex [flags]             Rebuild the vector index from stored chunks
  bunko status [flags]              Show document/chunk/index status
  bunko version                     Show version
  bunko help                        Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/bunko/config.yaml)
  --debug            Enable debug logging

Search Flags:
  --config string    Config file path (for direct storage mode)
  --server string    Server URL (default: http://localhost:8080). Use --server "" for direct storage.
  --k int            Number of results (default from config)
  --output string    Output format: text or json (default: text)

Ask Flags:
  --server string    Server URL (default: http://localhost:8080). Use --server "" to answer locally.
  --k int            Number of chunks to retrieve (default from config)
  --output string    Output format: text or json (default: text)

Ingest Flags:
  --config string    Config file path
  --source string    Source ID for supersession (default: file:// URL of the path)
  --output string    Output format: text or json (default: text)

Examples:
  bunko server
  bunko ingest notes.md
  bunko ingest --source "wiki/onboarding" exported.txt
  bunko search "how do deployments work"
  bunko ask "where does the database live?"
  bunko delete 42
  bunko delete --source "wiki/onboarding"
  bunko reindex
  bunko status --output json`)
}
