// Command taskadmin manages the is_admin flag on user accounts. Admin
// rights are granted only through this tool, never through the HTTP API.
//
// Usage:
//
//	taskadmin [flags] grant <email>
//	taskadmin [flags] revoke <email>
//	taskadmin [flags] create <email>
//
// The create command prompts for a password without echoing it and
// registers the account as an administrator.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/dmitrijs2005/taskboard/internal/server/auth"
	"github.com/dmitrijs2005/taskboard/internal/server/config"
	"github.com/dmitrijs2005/taskboard/internal/server/models"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/users"
	"github.com/dmitrijs2005/taskboard/internal/server/services"
	"github.com/dmitrijs2005/taskboard/internal/server/shared/db"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// positionalArgs strips option flags (and their values) from args,
// leaving only the subcommand and its arguments.
func positionalArgs(args []string) []string {
	positional := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if strings.HasPrefix(arg, "-") {
			if !strings.Contains(arg, "=") && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++
			}
			continue
		}
		positional = append(positional, arg)
	}
	return positional
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: taskadmin [flags] <grant|revoke|create> <email>")
	os.Exit(2)
}

func main() {
	cfg := config.LoadConfig()

	args := positionalArgs(os.Args[1:])
	if len(args) != 2 {
		usage()
	}
	command, email := args[0], services.NormalizeEmail(args[1])

	ctx := context.Background()

	conn, err := db.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	defer conn.Close()

	repo := repomanager.NewPostgresRepositoryManager().Users(conn)

	switch command {
	case "grant":
		err = setAdmin(ctx, repo, email, true)
	case "revoke":
		err = setAdmin(ctx, repo, email, false)
	case "create":
		err = createAdmin(ctx, repo, email, cfg.SecretKey)
	default:
		usage()
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	fmt.Println("Success!")
}

func setAdmin(ctx context.Context, repo users.Repository, email string, isAdmin bool) error {
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	_, err = repo.Update(ctx, user.ID, users.UserUpdate{IsAdmin: &isAdmin})
	return err
}

func createAdmin(ctx context.Context, repo users.Repository, email string, secretKey string) error {
	if err := services.ValidateEmail(email); err != nil {
		return err
	}

	fmt.Println("Enter password")
	password, err := readPassword(int(os.Stdin.Fd()))
	if err != nil {
		return err
	}

	if err := services.ValidatePassword(string(password)); err != nil {
		return err
	}

	hash, err := auth.HashPassword(string(password), []byte(secretKey))
	if err != nil {
		return err
	}

	user, err := repo.Create(ctx, &models.User{Email: email, PasswordHash: hash})
	if err != nil {
		return err
	}

	isAdmin := true
	_, err = repo.Update(ctx, user.ID, users.UserUpdate{IsAdmin: &isAdmin})
	return err
}
