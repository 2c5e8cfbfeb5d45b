package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	_ "github.com/lib/pq"

	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/config"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/database"
	"github.com/EgehanKilicarslan/gamevault/backend-go/internal/logger"
)

const usage = `Usage: migrate <command> [args]

Commands:
  up                 Apply all pending migrations
  up-by-one          Apply the next pending migration
  down               Roll back the latest migration
  redo               Roll back and re-apply the latest migration
  status             Show the state of every migration
  version            Print the current schema version
  reset              Roll back every migration
`

func main() {
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}
	command, args := flag.Arg(0), flag.Args()[1:]

	cfg := config.LoadConfig()
	appLogger := logger.New(cfg)

	sqlDB, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		appLogger.Error("❌ [Migrate] Failed to open database", "error", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		appLogger.Error("❌ [Migrate] Database unreachable", "host", cfg.PostgreSQLHost, "error", err)
		os.Exit(1)
	}

	appLogger.Info("🔄 [Migrate] Running command", "command", command)
	if err := database.Migrate(sqlDB, command, args...); err != nil {
		appLogger.Error("❌ [Migrate] Command failed", "command", command, "error", err)
		os.Exit(1)
	}

	appLogger.Info("✅ [Migrate] Done", "command", command)
}
