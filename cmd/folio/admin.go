// ABOUTME: Operator subcommands: init, token, revalidate and seed
// ABOUTME: init writes a config with generated secrets; the rest act on a configured site

package main

import (
	"bufio"
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/2389/folio/internal/auth"
	"github.com/2389/folio/internal/config"
	"github.com/2389/folio/internal/content"
	"github.com/2389/folio/internal/revalidate"
	"github.com/2389/folio/internal/store"
)

var (
	tokenSubject string
	tokenRole    string
	tokenTTL     time.Duration
	initForce    bool
	seedDryRun   bool

	initCmd = &cobra.Command{
		Use:   "init",
		Short: "Create a new config file interactively",
		Args:  cobra.NoArgs,
		RunE:  runInit,
	}

	tokenCmd = &cobra.Command{
		Use:   "token",
		Short: "Mint an admin API token signed with auth.jwt_secret",
		Args:  cobra.NoArgs,
		RunE:  runToken,
	}

	revalidateCmd = &cobra.Command{
		Use:   "revalidate",
		Short: "Ask the running server to revalidate every page",
		Args:  cobra.NoArgs,
		RunE:  runRevalidate,
	}

	seedCmd = &cobra.Command{
		Use:   "seed [file.toml]",
		Short: "Import content from a TOML seed file",
		Args:  cobra.ExactArgs(1),
		RunE:  runSeed,
	}
)

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "", "token subject recorded in the audit log (default: random)")
	tokenCmd.Flags().StringVar(&tokenRole, "role", auth.RoleEditor, "token role (editor or admin)")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 30*24*time.Hour, "token lifetime")

	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config without asking")

	seedCmd.Flags().BoolVar(&seedDryRun, "dry-run", false, "parse and count the seed file without writing")
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

func runInit(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("folio configuration setup")
	fmt.Println("=========================")
	fmt.Println()

	defaultDBPath := filepath.Join(config.DataPath(), "folio.db")
	outputFile := prompt(reader, "Config file path", resolveConfigPath())

	if _, err := os.Stat(outputFile); err == nil && !initForce {
		overwrite := prompt(reader, "File exists. Overwrite?", "no")
		if !isYes(overwrite) {
			fmt.Println("Aborted.")
			return nil
		}
	}

	fmt.Println("\n--- Server Configuration ---")
	httpAddr := prompt(reader, "HTTP address", "localhost:8080")
	title := prompt(reader, "Site title", "Portfolio")
	baseURL := prompt(reader, "Public base URL", "http://localhost:8080")

	fmt.Println("\n--- Database Configuration ---")
	dbPath := prompt(reader, "SQLite database path", defaultDBPath)

	fmt.Println("\n--- Revalidation ---")
	deployHook := prompt(reader, "Deploy hook URL (leave empty to skip)", "")

	fmt.Println("\n--- Logging Configuration ---")
	logLevel := prompt(reader, "Log level (debug/info/warn/error)", "info")
	logFormat := prompt(reader, "Log format (text/json)", "text")

	jwtSecret, err := randomSecret()
	if err != nil {
		return fmt.Errorf("generating JWT secret: %w", err)
	}
	revalidationSecret, err := randomSecret()
	if err != nil {
		return fmt.Errorf("generating revalidation secret: %w", err)
	}

	var cfg strings.Builder
	cfg.WriteString("# folio configuration\n")
	cfg.WriteString("# Generated by folio init\n\n")

	cfg.WriteString("server:\n")
	cfg.WriteString(fmt.Sprintf("  http_addr: %q\n\n", httpAddr))

	cfg.WriteString("site:\n")
	cfg.WriteString(fmt.Sprintf("  title: %q\n", title))
	cfg.WriteString(fmt.Sprintf("  base_url: %q\n\n", baseURL))

	cfg.WriteString("database:\n")
	cfg.WriteString(fmt.Sprintf("  path: %q\n\n", dbPath))

	cfg.WriteString("auth:\n")
	cfg.WriteString(fmt.Sprintf("  jwt_secret: %q\n\n", jwtSecret))

	cfg.WriteString("revalidation:\n")
	cfg.WriteString(fmt.Sprintf("  secret: %q\n", revalidationSecret))
	if deployHook != "" {
		cfg.WriteString(fmt.Sprintf("  deploy_hook_url: %q\n", deployHook))
	}
	cfg.WriteString("  warm_paths: [\"/\", \"/work\"]\n\n")

	cfg.WriteString("cache:\n")
	cfg.WriteString("  ttl: \"10m\"\n")
	cfg.WriteString("  max_entries: 1000\n\n")

	cfg.WriteString("logging:\n")
	cfg.WriteString(fmt.Sprintf("  level: %q\n", logLevel))
	cfg.WriteString(fmt.Sprintf("  format: %q\n\n", logFormat))

	cfg.WriteString("metrics:\n")
	cfg.WriteString("  enabled: false\n")
	cfg.WriteString("  path: \"/metrics\"\n")

	if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(outputFile, []byte(cfg.String()), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	dataDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	green := color.New(color.FgGreen)
	green.Printf("\n  ✓ Config written to %s\n", outputFile)
	green.Printf("  ✓ Data directory: %s\n", dataDir)
	fmt.Println("\nNext steps:")
	fmt.Println("  folio token --role admin    # mint an admin API token")
	fmt.Println("  folio serve                 # start the server")
	return nil
}

func isYes(s string) bool {
	s = strings.ToLower(s)
	return s == "yes" || s == "y"
}

func prompt(reader *bufio.Reader, question, defaultVal string) string {
	if defaultVal != "" {
		fmt.Printf("%s [%s]: ", question, defaultVal)
	} else {
		fmt.Printf("%s: ", question)
	}

	input, err := reader.ReadString('\n')
	if err != nil {
		// On EOF or error, return default
		fmt.Println()
		return defaultVal
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return defaultVal
	}
	return input
}

func runToken(cmd *cobra.Command, args []string) error {
	if tokenRole != auth.RoleEditor && tokenRole != auth.RoleAdmin {
		return fmt.Errorf("--role must be %q or %q", auth.RoleEditor, auth.RoleAdmin)
	}

	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is not configured")
	}

	verifier, err := auth.NewJWTVerifier([]byte(cfg.Auth.JWTSecret))
	if err != nil {
		return fmt.Errorf("creating JWT verifier: %w", err)
	}

	subject := tokenSubject
	if subject == "" {
		subject = uuid.New().String()
	}

	token, err := verifier.Generate(subject, tokenRole, tokenTTL)
	if err != nil {
		return fmt.Errorf("generating token: %w", err)
	}

	fmt.Println(token)
	color.New(color.FgHiBlack).Fprintf(os.Stderr, "subject=%s role=%s expires=%s\n",
		subject, tokenRole, time.Now().Add(tokenTTL).UTC().Format(time.RFC3339))
	return nil
}

func runRevalidate(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Revalidation.Secret == "" {
		return errors.New("revalidation.secret is not configured")
	}

	body, err := json.Marshal(map[string]string{"secret": cfg.Revalidation.Secret})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	url := fmt.Sprintf("http://%s/api/revalidate", cfg.Server.HTTPAddr)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("revalidation request failed: %w", err)
	}
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("revalidation failed: status %d: %s", resp.StatusCode, bytes.TrimSpace(out))
	}

	fmt.Println(string(bytes.TrimSpace(out)))
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	sd, err := content.LoadSeed(args[0])
	if err != nil {
		return err
	}

	green := color.New(color.FgGreen)
	if seedDryRun {
		green.Printf("  ✓ %s parsed: %d rows\n", args[0], sd.Len())
		return nil
	}

	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	logger := setupLogger(cfg.Logging)

	s, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer s.Close()

	// Running servers pick up the rows after `folio revalidate`.
	svc := content.New(s, revalidate.Discard, logger)
	report, err := svc.Import(auth.WithAuth(cmd.Context(), &auth.AuthContext{Subject: "seed", Role: auth.RoleAdmin}), sd)
	if report != nil {
		for section, n := range report.Created {
			green.Printf("  ✓ %-14s %d\n", section, n)
		}
	}
	if err != nil {
		return fmt.Errorf("importing seed: %w", err)
	}

	fmt.Printf("\nImported %d rows into %s\n", report.Total(), cfg.Database.Path)
	color.New(color.FgYellow).Println("Run `folio revalidate` to refresh a running server.")
	return nil
}
