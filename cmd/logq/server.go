package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/tinytelemetry/logq/internal/httpserver"
	"github.com/tinytelemetry/logq/internal/logparse"
	"github.com/tinytelemetry/logq/internal/logscan"
	"github.com/tinytelemetry/logq/internal/query"
	"github.com/tinytelemetry/logq/internal/socketrpc"
	"github.com/tinytelemetry/logq/internal/timestamp"
	"golang.org/x/sync/errgroup"
)

// newEngine wires timestamp parser, entry parser and scanner for cfg.LogDir.
func newEngine(cfg appConfig) *query.Engine {
	ts := timestamp.NewParser(timestamp.WithLocation(cfg.Location))
	scanner := logscan.New(cfg.LogDir, logparse.NewParser(ts))
	return query.NewEngine(scanner, ts)
}

// runServer serves queries over the log directory until SIGINT/SIGTERM.
func runServer(cfg appConfig) error {
	cleanupLogger := configureRuntimeLogger()
	defer cleanupLogger()

	engine := newEngine(cfg)

	if info, err := os.Stat(cfg.LogDir); err != nil {
		log.Printf("Warning: log directory %s: %v (queries return empty results until it exists)", cfg.LogDir, err)
	} else if !info.IsDir() {
		return fmt.Errorf("log-dir %s is not a directory", cfg.LogDir)
	}

	// Start HTTP API server if enabled
	if cfg.APIEnabled {
		apiServer := httpserver.NewServer(httpserver.Config{
			Addr:         cfg.APIAddr,
			LogDir:       cfg.LogDir,
			QueryTimeout: cfg.QueryTimeout,
		}, engine)
		if err := apiServer.Start(); err != nil {
			return fmt.Errorf("failed to start API server: %w", err)
		}
		defer apiServer.Stop()
	}

	// Start socket RPC server for logqctl
	socketUp := false
	if cfg.SocketEnabled {
		sockServer := socketrpc.NewServer(cfg.SocketPath, engine)
		sockServer.SetQueryTimeout(cfg.QueryTimeout)
		if err := sockServer.Start(); err != nil {
			log.Printf("Warning: failed to start socket server: %v", err)
		} else {
			socketUp = true
			defer sockServer.Stop()
		}
	}

	// Set up context and signal handling before errgroup
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\nShutting down gracefully... (press Ctrl+C again to force)")
		cancel()

		// Shutdown deadline starts now — not at boot.
		deadline := time.NewTimer(10 * time.Second)
		defer deadline.Stop()

		select {
		case <-sigCh:
			fmt.Println("\nForce shutdown.")
		case <-deadline.C:
			fmt.Println("Shutdown timed out, forcing exit.")
		}
		cleanupSocket(cfg.SocketPath)
		os.Exit(1)
	}()

	printStartupBanner(cfg, socketUp)

	g, gctx := errgroup.WithContext(ctx)

	// Wait for context cancellation (from signal handler) in the errgroup
	g.Go(func() error {
		<-gctx.Done()
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Printf("server: errgroup exited with error: %v", err)
	}

	// If we reach here, graceful shutdown succeeded within the deadline.
	// The signal goroutine (if active) dies with the process.
	signal.Stop(sigCh)

	return nil
}

func cleanupSocket(path string) {
	if path != "" {
		os.Remove(path)
	}
}

func configureRuntimeLogger() func() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	home, err := os.UserHomeDir()
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	logDir := filepath.Join(home, ".local", "state", "logq")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	logPath := filepath.Join(logDir, "logq.log")
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	log.SetOutput(f)
	return func() {
		_ = f.Close()
	}
}

func printStartupBanner(cfg appConfig, socketUp bool) {
	fmt.Println(renderStartupBanner(cfg, socketUp))
}

func renderStartupBanner(cfg appConfig, socketUp bool) string {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	cyan := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	bold := lipgloss.NewStyle().Bold(true)

	check := green.Render("●")
	dot := dim.Render("●")

	logo := cyan.Bold(true).Render(`
    ╦  ╔═╗╔═╗╔═╗
    ║  ║ ║║ ╦║ ║
    ╩═╝╚═╝╚═╝╚═╩`)

	ver := dim.Render("v" + version)

	var lines []string
	lines = append(lines, "")
	lines = append(lines, logo)
	lines = append(lines, "    "+ver)
	lines = append(lines, "")

	separator := dim.Render("    ─────────────────────────────────")
	lines = append(lines, separator)
	lines = append(lines, "")

	// Gateway
	lines = append(lines, bold.Render("    Gateway"))
	lines = append(lines, "")

	if cfg.APIEnabled {
		lines = append(lines, fmt.Sprintf("    %s  HTTP API       %s", check, cyan.Render(cfg.APIAddr)))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  HTTP API       %s", dot, dim.Render("disabled")))
	}

	if socketUp {
		lines = append(lines, fmt.Sprintf("    %s  Unix Socket    %s", check, cyan.Render(shortenPath(cfg.SocketPath))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Unix Socket    %s", dot, dim.Render("disabled")))
	}
	lines = append(lines, "")

	// Source
	lines = append(lines, bold.Render("    Source"))
	lines = append(lines, "")

	lines = append(lines, fmt.Sprintf("    %s  Log Directory  %s", check, dim.Render(shortenPath(cfg.LogDir))))
	lines = append(lines, fmt.Sprintf("    %s  Timezone       %s", check, dim.Render(cfg.Timezone)))
	if cfg.QueryTimeout > 0 {
		lines = append(lines, fmt.Sprintf("    %s  Query Timeout  %s", check, dim.Render(cfg.QueryTimeout.String())))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Query Timeout  %s", dot, dim.Render("none")))
	}

	lines = append(lines, "")
	lines = append(lines, bold.Render("    Config"))
	lines = append(lines, "")
	if cfg.ConfigPath != "" {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", check, dim.Render(shortenPath(cfg.ConfigPath))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", dot, dim.Render("default (no file)")))
	}

	lines = append(lines, "")
	lines = append(lines, separator)
	lines = append(lines, "")
	lines = append(lines, "    "+dim.Render("Press ")+yellow.Render("Ctrl+C")+dim.Render(" to stop"))
	lines = append(lines, "")

	return strings.Join(lines, "\n")
}

func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
