package commands

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/speedybites/bitechat/internal/config"
	"github.com/speedybites/bitechat/internal/server"
)

var listenFlag string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the chat server",
	Long: `Run the Speedy Bites chat server.

The server answers POST /chat requests with restaurant information
loaded from the data directory, or from built-in sample data when no
directory is configured.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	serveCmd.Flags().StringVarP(&listenFlag, "listen", "l", "", "Listen address (default from config)")
}

func runServe() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	addr := cfg.ListenAddr
	if listenFlag != "" {
		addr = listenFlag
	}

	data, err := server.LoadData(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to load restaurant data: %w", err)
	}

	flagsPath, err := flagStorePath(cfg)
	if err != nil {
		return err
	}
	flags, err := server.OpenFlagStore(flagsPath)
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}
	defer flags.Close()

	srv := &http.Server{
		Addr:         addr,
		Handler:      server.New(data, flags).Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("bitechat: %s listening on %s", data.Restaurant, addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("bitechat: shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Println("bitechat: stopped")
	return nil
}

// flagStorePath returns the session flag database path, next to the data
// directory when one is configured, otherwise under the config directory.
func flagStorePath(cfg config.Config) (string, error) {
	if cfg.DataDir != "" {
		return filepath.Join(cfg.DataDir, "sessions.db"), nil
	}
	dir, err := config.GetConfigDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return filepath.Join(dir, "sessions.db"), nil
}
