// Package main issues identity tokens for local development.
//
// Production tokens come from the identity provider. This tool shares its
// symmetric key so the API can be exercised without one.
//
// Usage:
//
//	go run ./cmd/devtoken -gen-key
//	IDENTITY_TOKEN_KEY=... go run ./cmd/devtoken -user user-1 -email alice@example.com -username alice
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/reelnotes/reelnotes-server/internal/auth"
)

var (
	genKey   = flag.Bool("gen-key", false, "Print a new IDENTITY_TOKEN_KEY and exit")
	keyHex   = flag.String("key", "", "Token key (default: IDENTITY_TOKEN_KEY)")
	userID   = flag.String("user", "", "User ID claim")
	email    = flag.String("email", "", "Email claim")
	username = flag.String("username", "", "Username claim")
	name     = flag.String("name", "", "Full name claim")
	ttl      = flag.Duration("ttl", 24*time.Hour, "Token lifetime")
	envFile  = flag.String("env-file", ".env", "Path to .env file")
)

func main() {
	flag.Parse()

	if *genKey {
		key, err := auth.GenerateKeyHex()
		if err != nil {
			log.Fatalf("Failed to generate key: %v", err)
		}
		fmt.Println(key)
		return
	}

	_ = godotenv.Load(*envFile)

	key := *keyHex
	if key == "" {
		key = os.Getenv("IDENTITY_TOKEN_KEY")
	}
	if key == "" {
		log.Fatal("No token key: pass -key or set IDENTITY_TOKEN_KEY")
	}

	tokens, err := auth.NewTokenService(key)
	if err != nil {
		log.Fatalf("Invalid token key: %v", err)
	}

	token, err := tokens.Issue(auth.Identity{
		UserID:   *userID,
		Email:    *email,
		Username: *username,
		Name:     *name,
	}, *ttl)
	if err != nil {
		log.Fatalf("Failed to issue token: %v", err)
	}

	fmt.Println(token)
}
