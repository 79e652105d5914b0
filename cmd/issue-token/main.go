// Command issue-token prints a signed access token for local development and
// manual testing against a running ledger.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"expense-ledger-go/internal/config"
	authmw "expense-ledger-go/internal/transport/httpserver/middleware"
	"expense-ledger-go/pkg/logger"
)

func main() {
	userID := flag.String("user", "", "owner id placed in the sub claim")
	name := flag.String("name", "", "optional display name")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	log := logger.NewFromEnv()

	if *userID == "" {
		fmt.Fprintln(os.Stderr, "issue-token: -user is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(log)
	if err != nil {
		log.Critical("issue-token: load config failed", "err", err)
		os.Exit(1)
	}
	if cfg.Auth.JWTSecret == "" {
		log.Critical("issue-token: AUTH_JWT_SECRET is not set")
		os.Exit(1)
	}

	token, err := authmw.SignToken(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, authmw.User{ID: *userID, Name: *name}, *ttl)
	if err != nil {
		log.Critical("issue-token: sign failed", "err", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
