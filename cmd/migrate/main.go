// Command migrate runs the catalog schema migrations.
//
//	migrate [up|down|status|redo|version] [args...]
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ghuser/catalog/migrations/catalog"
	"github.com/ghuser/catalog/pkg/config"
	"github.com/ghuser/catalog/pkg/database"
	"github.com/ghuser/catalog/pkg/logger"
	"github.com/ghuser/catalog/pkg/migrator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	command, args := "up", []string(nil)
	if rest := flagArgs(); len(rest) > 0 {
		command, args = rest[0], rest[1:]
	}

	db, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := migrator.Run(ctx, db.DB(), catalog.FS, command, args...); err != nil {
		log.Error("migration failed", "command", command, "error", err)
		os.Exit(1)
	}
	log.Info("migrations complete", "command", command)
}

// flagArgs returns the positional arguments after the program name, skipping
// anything config.Load treats as a flag.
func flagArgs() []string {
	var out []string
	for _, a := range os.Args[1:] {
		if len(a) > 0 && a[0] == '-' {
			continue
		}
		out = append(out, a)
	}
	return out
}
