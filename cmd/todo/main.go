// Command todo is the terminal client for the todo API.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/xiaoyuanzhu-com/todo-app/client"
	"github.com/xiaoyuanzhu-com/todo-app/config"
	"github.com/xiaoyuanzhu-com/todo-app/log"
	"github.com/xiaoyuanzhu-com/todo-app/theme"
	"github.com/xiaoyuanzhu-com/todo-app/tui"
)

func main() {
	cfg := config.Get()

	apiURL := flag.String("api", cfg.APIURL, "todo collection URL")
	prefsPath := flag.String("prefs", cfg.PrefsPath, "local preferences file (.sqlite or .toml)")
	logFile := flag.String("log", cfg.LogFile, "log file")
	flag.Parse()

	if err := run(*apiURL, *prefsPath, *logFile); err != nil {
		fmt.Fprintln(os.Stderr, "todo:", err)
		os.Exit(1)
	}
}

func run(apiURL, prefsPath, logFile string) error {
	// The program owns the terminal, so logs go to a file
	out, err := openLogFile(logFile)
	if err != nil {
		return err
	}
	defer out.Close()
	log.SetOutput(out)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	kv, err := theme.OpenKV(prefsPath)
	if err != nil {
		return fmt.Errorf("failed to open preferences: %w", err)
	}
	if c, ok := kv.(io.Closer); ok {
		defer c.Close()
	}

	th := theme.Open(ctx, kv)
	c := client.New(client.NewHTTPTransport(apiURL, http.DefaultClient))

	log.Info().Str("api", apiURL).Str("prefs", prefsPath).Msg("starting terminal client")

	return tui.Run(ctx, c, th)
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}
