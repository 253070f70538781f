// ABOUTME: Entry point for the folio portfolio site server
// ABOUTME: Cobra root command with serve and health subcommands

package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/2389/folio/internal/config"
	"github.com/2389/folio/internal/site"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
   __       _ _
  / _| ___ | (_) ___
 | |_ / _ \| | |/ _ \
 |  _| (_) | | | (_) |
 |_|  \___/|_|_|\___/
`

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:           "folio",
		Short:         "Portfolio site server with precise cache revalidation",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the site server",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	healthCmd = &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		Args:  cobra.NoArgs,
		RunE:  runHealth,
	}

	readyCmd = &cobra.Command{
		Use:   "ready",
		Short: "Check server readiness and cache size",
		Args:  cobra.NoArgs,
		RunE:  runReady,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default "+config.Path()+")")

	rootCmd.AddCommand(serveCmd, healthCmd, readyCmd, initCmd, tokenCmd, revalidateCmd, seedCmd)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// resolveConfigPath returns the --config flag or the default location.
func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.Path()
}

func loadConfig() (*config.Config, string, error) {
	path := resolveConfigPath()
	cfg, err := config.Load(path)
	if err != nil {
		return nil, path, fmt.Errorf("loading config: %w", err)
	}
	return cfg, path, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	// Print banner
	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	cfg, path, err := loadConfig()
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Logging)

	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	green.Print("    ▶ ")
	fmt.Printf("Config:    %s\n", path)
	green.Print("    ▶ ")
	fmt.Printf("Database:  %s\n", cfg.Database.Path)
	if cfg.Server.HTTPAddr != "" {
		green.Print("    ▶ ")
		fmt.Printf("HTTP:      %s\n", cfg.Server.HTTPAddr)
	}
	if cfg.Tailscale.Enabled {
		green.Print("    ▶ ")
		fmt.Printf("Tailscale: ")
		cyan.Print(cfg.Tailscale.Hostname)
		if cfg.Tailscale.Ephemeral {
			gray.Print(" (ephemeral)")
		}
		fmt.Println()
	}
	if cfg.Auth.JWTSecret == "" {
		yellow.Print("    ! ")
		fmt.Println("Admin API disabled (no auth.jwt_secret)")
	}
	fmt.Println()

	logger.Info("starting folio",
		"config", path,
		"http_addr", cfg.Server.HTTPAddr,
		"cache_ttl", cfg.Cache.TTL,
	)

	srv, err := site.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating site server: %w", err)
	}

	return srv.Run(cmd.Context())
}

func runHealth(cmd *cobra.Command, args []string) error {
	if _, err := getLocal(cmd.Context(), "/health"); err != nil {
		return err
	}
	fmt.Println("healthy")
	return nil
}

func runReady(cmd *cobra.Command, args []string) error {
	body, err := getLocal(cmd.Context(), "/health/ready")
	if err != nil {
		return err
	}
	fmt.Println(body)
	return nil
}

// getLocal performs a GET against the configured HTTP address.
func getLocal(ctx context.Context, path string) (string, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("http://%s%s", cfg.Server.HTTPAddr, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unhealthy: status %d: %s", resp.StatusCode, body)
	}
	return string(body), nil
}
