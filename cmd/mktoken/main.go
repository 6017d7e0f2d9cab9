// Command mktoken mints a signed bearer token for a user id, for local
// development and API testing.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dukerupert/chorezilla/internal/auth"
)

func main() {
	userID := flag.String("user", "", "user id to mint a token for")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if *userID == "" {
		flag.Usage()
		os.Exit(2)
	}

	secret := os.Getenv("CHOREZILLA_TOKEN_SECRET")
	if secret == "" {
		log.Fatal("CHOREZILLA_TOKEN_SECRET is not set")
	}

	token, err := auth.Mint([]byte(secret), *userID, *ttl)
	if err != nil {
		log.Fatalf("mint token: %v", err)
	}
	fmt.Println(token)
}
