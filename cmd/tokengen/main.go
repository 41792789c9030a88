package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cmlabs-hris/office-attendance/internal/pkg/jwt"
	"github.com/joho/godotenv"
)

// tokengen mints an access token for the dashboard or scripts.
func main() {
	_ = godotenv.Load()

	subject := flag.String("sub", "dashboard", "token subject")
	admin := flag.Bool("admin", false, "grant admin privileges")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET_KEY")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET_KEY is required")
		os.Exit(1)
	}

	token, expiresAt, err := jwt.NewJWTService(secret, *ttl).GenerateAccessToken(*subject, *admin)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error generating token:", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires at %s\n", time.Unix(expiresAt, 0).UTC().Format(time.RFC3339))
}
