// Command token prints a development bearer token for the given caller.
//
//	go run ./cmd/token -sub sub-admin -role admin
package main

import (
	"clinicportal/cmd/internal/config"
	"clinicportal/cmd/internal/domain/entity"
	"clinicportal/cmd/internal/utils"
	"errors"
	"flag"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

func main() {
	sub := flag.String("sub", "", "subject the token is issued for")
	role := flag.String("role", string(entity.RoleClient), "client, staff or admin")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatal("failed to load .env file", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration", err)
	}

	if *sub == "" {
		log.Fatal("missing -sub")
	}
	if !entity.Role(*role).IsValid() {
		log.Fatalf("unknown role %q", *role)
	}

	token, err := utils.IssueToken(*sub, *role, cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(token)
}
