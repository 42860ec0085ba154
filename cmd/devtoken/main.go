// Command devtoken mints a locally signed identity token for use with
// AUTH_PROVIDER=jwt.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/nikhil/teamhub/internal/identity"
)

func main() {
	email := flag.String("email", "", "e-mail carried by the token (required)")
	name := flag.String("name", "", "display name")
	subject := flag.String("sub", "", "subject, a random one is generated when empty")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	// The server's own .env carries JWT_SECRET; a missing file is fine.
	_ = godotenv.Load()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "devtoken: -email is required")
		flag.Usage()
		os.Exit(2)
	}
	if *subject == "" {
		*subject = uuid.NewString()
	}

	verifier, err := identity.NewJWTVerifier(os.Getenv("JWT_SECRET"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "devtoken: %v\n", err)
		os.Exit(1)
	}

	token, err := verifier.Issue(identity.Identity{Subject: *subject, Email: *email, Name: *name}, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "devtoken: signing token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
