package main

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/vendhub/receiptd/internal/ocr"
	"github.com/vendhub/receiptd/internal/parsing"
	"github.com/vendhub/receiptd/internal/receipt"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	fs := ff.NewFlagSet("receiptd")
	var (
		port        = fs.IntLong("port", 8080, "HTTP server port")
		maxJobs     = fs.IntLong("max-jobs", receipt.DefaultMaxJobs, "Maximum parse jobs kept in memory (oldest evicted first)")
		archiveType = fs.StringLong("archive", "dir", "Upload archive backend: 'dir' or 'bolt'")
		archiveDir  = fs.StringLong("archive-dir", "./uploads", "Upload archive directory (dir backend)")
		archiveDB   = fs.StringLong("archive-db", "receiptd-uploads.db", "Upload archive database file (bolt backend)")
		ocrType     = fs.StringLong("ocr", "stub", "OCR backend: 'stub', 'gemini' or 'ollama'")
		geminiKey   = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel = fs.StringLong("gemini-model", "gemini-2.5-pro", "Google Gemini model name")
		ollamaURL   = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel = fs.StringLong("ollama-model", "llava", "Ollama model name (e.g., llava, llava-phi3, qwen2-vl)")
		authUser    = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass    = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		showVersion = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("RECEIPTD"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Check version flag after parsing
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	// Initialize upload archive
	var archive receipt.Archive
	var err error
	switch *archiveType {
	case "dir":
		slog.Info("Initializing upload archive...", "dir", *archiveDir)
		archive, err = receipt.NewDirArchive(*archiveDir)
	case "bolt":
		slog.Info("Initializing upload archive...", "db", *archiveDB)
		archive, err = receipt.NewBoltArchive(*archiveDB)
	default:
		slog.Error("Invalid archive type", "type", *archiveType, "valid", "dir or bolt")
		os.Exit(1)
	}
	if err != nil {
		slog.Error("Failed to initialize upload archive", "error", err)
		os.Exit(1)
	}
	defer archive.Close()

	// Initialize OCR backend based on type
	var extractor ocr.Extractor
	switch *ocrType {
	case "stub":
		slog.Info("Initializing stub OCR backend...")
		extractor = ocr.NewStub()
	case "gemini":
		// Get Gemini API key from flag or environment
		apiKey := *geminiKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			slog.Error("Gemini API key is required. Set --gemini-key flag or GEMINI_API_KEY environment variable")
			os.Exit(1)
		}
		slog.Info("Initializing Gemini OCR backend...", "model", *geminiModel)
		extractor, err = ocr.NewGemini(apiKey, *geminiModel)
		if err != nil {
			slog.Error("Failed to initialize Gemini", "error", err)
			os.Exit(1)
		}
	case "ollama":
		slog.Info("Initializing Ollama OCR backend...", "url", *ollamaURL, "model", *ollamaModel)
		extractor, err = ocr.NewOllama(*ollamaURL, *ollamaModel)
		if err != nil {
			slog.Error("Failed to initialize Ollama", "error", err)
			os.Exit(1)
		}
	default:
		slog.Error("Invalid OCR backend", "type", *ocrType, "valid", "stub, gemini or ollama")
		os.Exit(1)
	}
	defer extractor.Close()

	// Initialize job store and service
	jobs := receipt.NewJobStore(parsing.NewParser(), *maxJobs)
	service := receipt.NewService(jobs, extractor, archive)

	// Initialize server
	basicAuth := receipt.BasicAuth{
		Username: *authUser,
		Password: *authPass,
	}
	server := receipt.NewServer(service, basicAuth)

	// Start server in goroutine
	addr := fmt.Sprintf(":%d", *port)
	go func() {
		if err := server.Start(addr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr))
	if *authUser != "" || *authPass != "" {
		slog.Info("Basic auth enabled", "user", *authUser)
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
}
