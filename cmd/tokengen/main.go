// Package main provides a CLI tool for generating employer test tokens for
// the wagebridge API. These tokens use the dev signing key and will NOT work
// against a production deployment.
package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"wagebridge/internal/platform/middleware"
	"wagebridge/pkg/secrets"
)

const (
	// Dev signing key - matches config.go when JWT_SIGNING_KEY is not set
	devSigningKey = "dev-secret-key-change-in-production"

	defaultIssuer   = "wagebridge"
	defaultTokenTTL = 15 * time.Minute
)

type tokenOutput struct {
	Token      string            `json:"token"`
	Type       string            `json:"type"`
	EmployerID string            `json:"employer_id"`
	ExpiresIn  string            `json:"expires_in"`
	Usage      map[string]string `json:"usage"`
}

func main() {
	employerCmd := flag.NewFlagSet("employer", flag.ExitOnError)
	secretCmd := flag.NewFlagSet("secret", flag.ExitOnError)

	employerID := employerCmd.String("employer-id", "", "Employer ID (16 hex chars). Generated if empty.")
	ttl := employerCmd.Duration("ttl", defaultTokenTTL, "Token time-to-live")
	key := employerCmd.String("key", "", "Signing key. Defaults to the dev key, or JWT_SIGNING_KEY if set.")
	jsonOutput := employerCmd.Bool("json", false, "Output as JSON")

	secretJSON := secretCmd.Bool("json", false, "Output as JSON")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "employer":
		employerCmd.Parse(os.Args[2:])
		generateEmployerToken(*employerID, *ttl, *key, *jsonOutput)
	case "secret":
		secretCmd.Parse(os.Args[2:])
		generateEmployerSecret(*secretJSON)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`tokengen - Generate employer test tokens for the wagebridge API

WARNING: These tokens use the dev signing key and will NOT work in production.
         Only use for local development and testing.

Usage:
  tokengen <command> [flags]

Commands:
  employer    Generate an employer access token (JWT)
  secret      Generate an employer API secret and its bcrypt hash

Examples:
  # Generate a token for a random employer
  tokengen employer

  # Generate a token for a specific employer with a custom TTL
  tokengen employer -employer-id "a1b2c3d4e5f60718" -ttl 1h

  # Generate an API secret for onboarding an employer
  tokengen secret

  # Output as JSON
  tokengen employer -json

Use "tokengen <command> -h" for more information about a command.`)
}

func generateEmployerToken(employerID string, ttl time.Duration, key string, jsonOutput bool) {
	signingKey := key
	if signingKey == "" {
		signingKey = os.Getenv("JWT_SIGNING_KEY")
	}
	if signingKey == "" {
		signingKey = devSigningKey
	}

	if employerID == "" {
		employerID = randomEmployerID()
	}

	now := time.Now()
	claims := middleware.EmployerClaims{
		EmployerID: employerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    defaultIssuer,
			Subject:   employerID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(signingKey))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating token: %v\n", err)
		os.Exit(1)
	}

	if jsonOutput {
		printJSON(tokenOutput{
			Token:      token,
			Type:       "employer_token",
			EmployerID: employerID,
			ExpiresIn:  ttl.String(),
			Usage: map[string]string{
				"header": "Authorization: Bearer <token>",
			},
		})
		return
	}

	fmt.Println("Employer Token (JWT)")
	fmt.Println("====================")
	fmt.Printf("Employer ID: %s\n", employerID)
	fmt.Printf("Expires In:  %s\n", ttl)
	fmt.Println()
	fmt.Println("Token:")
	fmt.Println(token)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  curl -H \"Authorization: Bearer <token>\" http://localhost:8080/v1/attestations")
}

func generateEmployerSecret(jsonOutput bool) {
	secret, err := secrets.Generate()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating secret: %v\n", err)
		os.Exit(1)
	}

	hash, err := secrets.Hash(secret)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error hashing secret: %v\n", err)
		os.Exit(1)
	}

	if jsonOutput {
		printJSON(map[string]string{
			"secret": secret,
			"hash":   hash,
			"note":   "store only the hash; hand the secret to the employer once",
		})
		return
	}

	fmt.Println("Employer API Secret")
	fmt.Println("===================")
	fmt.Printf("Secret: %s\n", secret)
	fmt.Printf("Hash:   %s\n", hash)
	fmt.Println()
	fmt.Println("Store only the hash. Hand the secret to the employer once.")
}

func randomEmployerID() string {
	raw := uuid.New()
	return hex.EncodeToString(raw[:8])
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}
