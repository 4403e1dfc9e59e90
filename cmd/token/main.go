// Command token mints a bearer token for local development.
//
//	go run ./cmd/token -user dev -email dev@example.com
//
// The secret, issuer and TTL come from the same environment as the server.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"partshub/internal/config"
	appctx "partshub/internal/core/context"
	"partshub/internal/domain/auth"
)

func main() {
	userID := flag.String("user", "dev", "subject (user id) of the token")
	email := flag.String("email", "", "email claim")
	roles := flag.String("roles", "", "comma separated roles")
	ttl := flag.Duration("ttl", 0, "token lifetime (defaults to JWT_TTL)")
	flag.Parse()

	// DATABASE_URL is irrelevant here
	if os.Getenv("DATABASE_URL") == "" {
		_ = os.Setenv("DATABASE_URL", "postgres://unused")
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load configuration: %v\n", err)
		os.Exit(1)
	}

	jwtCfg := auth.DefaultJWTConfig(cfg.JWTSecret)
	jwtCfg.Issuer = cfg.JWTIssuer
	jwtCfg.AccessTokenTTL = cfg.JWTTTL
	if *ttl > 0 {
		jwtCfg.AccessTokenTTL = *ttl
	}

	user := appctx.UserContext{UserID: *userID, Email: *email}
	for _, r := range strings.Split(*roles, ",") {
		if r = strings.TrimSpace(r); r != "" {
			user.Roles = append(user.Roles, r)
		}
	}

	token, expiresAt, err := auth.NewJWTService(jwtCfg).GenerateAccessToken(user)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generate token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires %s\n", expiresAt.Format(time.RFC3339))
}
