package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/sooop-pk/sooop-portal/internal/app"
	"github.com/sooop-pk/sooop-portal/internal/buildinfo"
	"github.com/sooop-pk/sooop-portal/internal/config"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config file")
	migrateOnly := flag.Bool("migrate", false, "run database migrations and exit")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		log.Infof("sooop-portal %s (%s)", buildinfo.Version, buildinfo.Commit)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.AppConfig{ConfigPath: *configPath}

	if *migrateOnly {
		if err := app.Migrate(ctx, cfg); err != nil {
			log.WithError(err).Error("migration failed")
			os.Exit(1)
		}
		log.Info("migrations complete")
		return
	}

	if err := app.RunServer(ctx, cfg); err != nil {
		log.WithError(err).Error("server exited with error")
		os.Exit(1)
	}
}
