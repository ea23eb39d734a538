// Command admin-token mints an ADMIN access token for the catalog's write
// API using CATALOG_AUTH__JWT_SECRET and CATALOG_AUTH__ACCESS_TTL.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/middleware"
	"github.com/iliyamo/movie-catalog/internal/utils"
)

func main() {
	subject := flag.String("sub", "admin", "Token subject recorded on change events")
	ttl := flag.Duration("ttl", 0, "Token lifetime (default: configured access TTL)")
	outputJSON := flag.Bool("json", false, "Output as JSON")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Auth.JWTSecret == "" {
		fmt.Fprintln(os.Stderr, "CATALOG_AUTH__JWT_SECRET is not set")
		os.Exit(1)
	}
	lifetime := cfg.Auth.AccessTTL
	if *ttl > 0 {
		lifetime = *ttl
	}

	tok, err := utils.NewAccessToken(cfg.Auth.JWTSecret, *subject, middleware.RoleAdmin, lifetime)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error signing token: %v\n", err)
		os.Exit(1)
	}

	if *outputJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(map[string]any{
			"access_token": tok.Token,
			"token_type":   "Bearer",
			"expires_at":   tok.ExpiresAt.Format(time.RFC3339),
			"subject":      *subject,
			"role":         middleware.RoleAdmin,
		})
		return
	}

	fmt.Printf("Subject:  %s\n", *subject)
	fmt.Printf("Role:     %s\n", middleware.RoleAdmin)
	fmt.Printf("Expires:  %s\n", tok.ExpiresAt.Format(time.RFC3339))
	fmt.Println()
	fmt.Println(tok.Token)
	fmt.Println()
	fmt.Printf("  curl -X POST -H 'Authorization: Bearer %s' -d '{\"name\":\"Italian\"}' \\\n", tok.Token)
	fmt.Printf("       -H 'Content-Type: application/json' http://localhost:%s/v1/languages\n", cfg.App.Port)
}
