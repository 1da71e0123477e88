package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/a3tai/cbs-offer-importer/internal/api"
	"github.com/a3tai/cbs-offer-importer/internal/config"
	"github.com/a3tai/cbs-offer-importer/internal/importer"
	"github.com/a3tai/cbs-offer-importer/internal/mcp"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// setupLogging configures logging based on the run mode
func setupLogging(cfg *config.Config) {
	if cfg.IsStdioMode() {
		// stdout carries the MCP protocol
		log.SetOutput(os.Stderr)
		if !cfg.IsDebug() {
			log.SetOutput(io.Discard)
		}
	} else {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}
}

// batchRoot returns the deepest directory holding every path, so the
// template and output may sit beside the offer folder rather than in it.
func batchRoot(paths ...string) string {
	var root []string
	for i, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		parts := strings.Split(abs, string(filepath.Separator))
		if i > 0 {
			// Files contribute their directory.
			parts = parts[:len(parts)-1]
		}
		if root == nil {
			root = parts
			continue
		}
		n := 0
		for n < len(root) && n < len(parts) && root[n] == parts[n] {
			n++
		}
		root = root[:n]
	}
	if len(root) == 0 {
		return ""
	}
	joined := strings.Join(root, string(filepath.Separator))
	if joined == "" {
		return string(filepath.Separator)
	}
	return joined
}

func newService(cfg *config.Config, root string) (*importer.Service, error) {
	return importer.NewService(importer.Options{
		Directory:   root,
		MaxFileSize: cfg.MaxFileSize,
		Workers:     cfg.Workers,
		Settings:    cfg.Settings(),
	})
}

// runBatchMode imports the configured folder once and prints the summary
func runBatchMode(ctx context.Context, cfg *config.Config) int {
	root := batchRoot(cfg.OfferDirectory, cfg.Template, cfg.Output)
	svc, err := newService(cfg, root)
	if err != nil {
		log.Printf("Failed to create importer: %v", err)
		return 1
	}

	res, err := svc.Import(ctx, importer.ImportRequest{
		Directory: cfg.OfferDirectory,
		Template:  cfg.Template,
		Output:    cfg.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Import failed: %v\n", err)
		return 1
	}
	fmt.Println(importer.FormatSummary(res))
	return 0
}

// runServerMode serves the HTTP API until a shutdown signal arrives
func runServerMode(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, svc *importer.Service) {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	engine := api.Setup(api.NewHandler(svc, cfg.ServerName, cfg.Version))
	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- api.Serve(ctx, cfg.Address(), engine)
	}()

	select {
	case sig := <-signalCh:
		log.Printf("Received signal: %s", sig)
		log.Println("Initiating graceful shutdown...")
		cancel()

		if err := <-serverErrCh; err != nil {
			log.Printf("Server shutdown with error: %v", err)
			os.Exit(1)
		}

	case err := <-serverErrCh:
		if err != nil {
			log.Printf("Server error: %v", err)
			os.Exit(1)
		}
	}

	log.Println("Server stopped successfully")
}

// runStdioMode handles stdio mode execution
func runStdioMode(ctx context.Context, cfg *config.Config, svc *importer.Service) {
	server, err := mcp.NewServer(cfg, svc)
	if err != nil {
		log.Fatalf("Failed to create MCP server: %v", err)
	}
	// The parent process controls our lifecycle.
	if err := server.Run(ctx); err != nil {
		if cfg.IsDebug() {
			log.Printf("Server error: %v", err)
		}
		os.Exit(1)
	}
}

// hasVersionFlag reports whether args ask for the version, which is
// answered before configuration is loaded.
func hasVersionFlag(args []string) bool {
	for _, arg := range args {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return true
		}
	}
	return false
}

func main() {
	if hasVersionFlag(os.Args[1:]) {
		printVersion()
		return
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg)

	if version != "dev" {
		cfg.Version = version
	}

	if cfg.IsDebug() && !cfg.IsStdioMode() {
		log.Printf("Starting with configuration: %s", cfg.String())
	}

	if cfg.IsBatchMode() {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		code := runBatchMode(ctx, cfg)
		stop()
		os.Exit(code)
	}

	svc, err := newService(cfg, cfg.OfferDirectory)
	if err != nil {
		log.Fatalf("Failed to create importer: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.IsServerMode() {
		runServerMode(ctx, cancel, cfg, svc)
	} else {
		runStdioMode(ctx, cfg, svc)
	}
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("CBS Offer Importer\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
