package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/joho/godotenv"

	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/config"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/db"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/logger"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "migrate"})
	_ = godotenv.Load()

	cmd := flag.String("cmd", "up", "up|down|status|version|create|validate|sqlite-schema")
	dir := flag.String("dir", "", "migrations directory (default: embedded migrations)")
	name := flag.String("name", "", "migration name for -cmd=create")
	version := flag.String("version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	flag.Parse()

	// file-only commands run without config so they work on a fresh checkout
	switch *cmd {
	case "create":
		target := *dir
		if target == "" {
			target = migrate.DefaultDir
		}
		path, err := migrate.CreateSQLMigration(target, *name)
		exitOn(err, "create migration")
		fmt.Println("created migration:", path)
		return
	case "validate":
		exitOn(migrate.ValidateFS(migrate.Source(*dir)), "validate migrations")
		fmt.Println("migration validation passed")
		return
	}

	cfg, err := config.Load()
	exitOn(err, "load config")

	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":    cfg.App.Env,
		"cmd":    *cmd,
		"driver": cfg.DB.Driver,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	if *cmd == "sqlite-schema" {
		exitOn(db.ApplySQLiteSchema(ctx, dbClient.DB()), "apply sqlite schema")
		logg.Info(ctx, "sqlite schema applied")
		return
	}

	sqlDB, err := dbClient.DB().DB()
	exitOn(err, "extract sql.DB")

	source := migrate.Source(*dir)
	var reports []migrate.Report
	switch *cmd {
	case "up", "down", "status":
		reports, err = migrate.Run(ctx, sqlDB, source, *cmd)
	case "version":
		if *version == "" {
			exitOn(fmt.Errorf("missing -version"), "version")
		}
		reports, err = migrate.MigrateToVersion(ctx, sqlDB, source, *version)
	default:
		err = fmt.Errorf("unknown -cmd value %q", *cmd)
	}
	exitOn(err, *cmd)

	printReports(reports)
	logg.Info(logg.WithField(ctx, "migrations", len(reports)), "migrate finished")
}

func printReports(reports []migrate.Report) {
	if len(reports) == 0 {
		fmt.Println("nothing to do")
		return
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "VERSION\tSTATE\tDURATION\tPATH")
	for _, r := range reports {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", r.Version, r.State, r.Duration, r.Path)
	}
	_ = tw.Flush()
}

func exitOn(err error, step string) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "%s failed: %v\n", step, err)
	os.Exit(1)
}
