package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"larry/internal/pkg/logger"
	"larry/internal/platform/auth"
	"larry/internal/platform/config"
	"larry/internal/platform/database"
	"larry/internal/platform/repositories"
	"larry/migrations"
)

func main() {
	configPath := pflag.String("config", "configs/config.yaml", "Path to config file")
	clientName := pflag.String("client", "", "Provision an API client with this name after migrating")
	scopes := pflag.StringSlice("scopes", []string{auth.ScopeCodesRead, auth.ScopeCodesWrite}, "Scopes granted to the provisioned client")
	revoke := pflag.String("revoke", "", "Revoke the API client with this id")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if closer := logger.Init(cfg.Logging, "migrate"); closer != nil {
		defer closer.Close()
	}

	db, err := database.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	applied, err := database.Migrate(db, migrations.FS)
	if err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
	fmt.Printf("Migration completed successfully (%d applied)\n", len(applied))

	clients := repositories.NewClientRepository(db)

	if *revoke != "" {
		if err := clients.Revoke(*revoke); err != nil {
			log.Fatal().Err(err).Str("client_id", *revoke).Msg("Failed to revoke client")
		}
		fmt.Printf("Revoked client %s\n", *revoke)
	}

	if *clientName != "" {
		client, secret, err := clients.Provision(*clientName, *scopes)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to provision client")
		}
		fmt.Printf("client_id:     %s\n", client.ID)
		fmt.Printf("client_secret: %s\n", secret)
		fmt.Printf("scopes:        %s\n", strings.Join(client.Scopes, ","))
		fmt.Println("Store the secret now; it cannot be shown again.")
	}
}
