// Command quizdesk-admin runs maintenance tasks against the quizdesk database.
//
//	quizdesk-admin migrate <up|down|status|redo|reset|version>
//	QUIZDESK_PASSWORD=... quizdesk-admin adduser <username> <role>
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"trainingorg/quizdesk/internal/config"
	"trainingorg/quizdesk/internal/db"
	"trainingorg/quizdesk/internal/db/repositories"
	"trainingorg/quizdesk/internal/logging"
	"trainingorg/quizdesk/internal/models/dtos"
	"trainingorg/quizdesk/internal/services"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage:")
	fmt.Fprintln(os.Stderr, "  quizdesk-admin migrate <up|down|status|redo|reset|version>")
	fmt.Fprintln(os.Stderr, "  QUIZDESK_PASSWORD=... quizdesk-admin adduser <username> <admin|coach|student>")
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := logging.Init(cfg.AppEnv, logging.Options{}); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logging.Close()

	sqlDB, err := db.InitPostgres(cfg.Postgres)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer sqlDB.Close()

	ctx := context.Background()

	switch os.Args[1] {
	case "migrate":
		if len(os.Args) != 3 {
			usage()
		}
		if err := db.Migrate(ctx, sqlDB.DB, os.Args[2]); err != nil {
			log.Fatalf("%v", err)
		}

	case "adduser":
		if len(os.Args) != 4 {
			usage()
		}
		password := os.Getenv("QUIZDESK_PASSWORD")
		if password == "" {
			log.Fatalf("QUIZDESK_PASSWORD must be set")
		}

		pgDB, err := db.InitPostgresORM(sqlDB.DB, false)
		if err != nil {
			log.Fatalf("open orm: %v", err)
		}
		users := services.NewUserService(repositories.NewUserRepositoryGORM(pgDB), bcrypt.DefaultCost)
		user, err := users.Create(ctx, dtos.CreateUserRequest{
			Username: os.Args[2],
			Password: password,
			Role:     os.Args[3],
		})
		if err != nil {
			log.Fatalf("create user: %v", err)
		}
		fmt.Printf("Created %s user %q with id %d\n", user.Role, user.Username, user.ID)

	default:
		usage()
	}
}
