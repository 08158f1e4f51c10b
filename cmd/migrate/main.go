package main

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/quickmemo/backend/internal/infrastructure/config"
	"github.com/quickmemo/backend/internal/infrastructure/logger"
	"github.com/quickmemo/backend/internal/infrastructure/migration"
	"github.com/quickmemo/backend/migrations"
	_ "github.com/lib/pq"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

const defaultMigrationsPath = "migrations"

func main() {
	app := &cli.App{
		Name:  "migrate",
		Usage: "QuickMemo database migration tool",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "path",
				Usage: "read migrations from this directory instead of the embedded set",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: "info",
				Usage: "log level: debug, info, warn, error",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "apply all pending migrations",
				Action: withMigrator(func(c *cli.Context, m *migration.Migrator, _ *zap.Logger) error {
					return m.Up()
				}),
			},
			{
				Name:  "down",
				Usage: "roll back all migrations",
				Action: withMigrator(func(c *cli.Context, m *migration.Migrator, _ *zap.Logger) error {
					return m.Down()
				}),
			},
			{
				Name:      "step",
				Usage:     "apply n migrations (positive up, negative down)",
				ArgsUsage: "<n>",
				Action: withMigrator(func(c *cli.Context, m *migration.Migrator, _ *zap.Logger) error {
					n, err := strconv.Atoi(c.Args().First())
					if err != nil {
						return fmt.Errorf("invalid step count %q", c.Args().First())
					}
					return m.Steps(n)
				}),
			},
			{
				Name:      "goto",
				Usage:     "migrate to a specific version",
				ArgsUsage: "<version>",
				Action: withMigrator(func(c *cli.Context, m *migration.Migrator, _ *zap.Logger) error {
					version, err := strconv.ParseUint(c.Args().First(), 10, 32)
					if err != nil {
						return fmt.Errorf("invalid version %q", c.Args().First())
					}
					return m.GoTo(uint(version))
				}),
			},
			{
				Name:  "version",
				Usage: "show the current migration version",
				Action: withMigrator(func(c *cli.Context, m *migration.Migrator, log *zap.Logger) error {
					version, dirty, err := m.Version()
					if err != nil {
						return err
					}
					if version == 0 {
						log.Info("No migrations applied")
						return nil
					}
					log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
					return nil
				}),
			},
			{
				Name:      "force",
				Usage:     "force the migration version without running migrations",
				ArgsUsage: "<version>",
				Action: withMigrator(func(c *cli.Context, m *migration.Migrator, _ *zap.Logger) error {
					version, err := strconv.Atoi(c.Args().First())
					if err != nil {
						return fmt.Errorf("invalid version %q", c.Args().First())
					}
					return m.Force(version)
				}),
			},
			{
				Name:  "drop",
				Usage: "drop all database objects",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "confirm", Usage: "required to actually drop"},
				},
				Action: withMigrator(func(c *cli.Context, m *migration.Migrator, _ *zap.Logger) error {
					if !c.Bool("confirm") {
						return cli.Exit("drop cancelled, rerun with --confirm", 1)
					}
					return m.Drop()
				}),
			},
			{
				Name:      "create",
				Usage:     "create a new migration file pair",
				ArgsUsage: "<name> [description]",
				Action: func(c *cli.Context) error {
					log, err := newLogger(c)
					if err != nil {
						return err
					}
					defer func() { _ = logger.Sync(log) }()

					if c.NArg() < 1 {
						return cli.Exit("migration name required", 1)
					}
					dir := c.String("path")
					if dir == "" {
						dir = defaultMigrationsPath
					}
					mf, err := migration.CreateMigration(dir, c.Args().Get(0), c.Args().Get(1))
					if err != nil {
						return err
					}
					log.Info("Migration created",
						zap.String("version", mf.Version),
						zap.String("up_file", mf.UpPath),
						zap.String("down_file", mf.DownPath),
					)
					return nil
				},
			},
			{
				Name:  "list",
				Usage: "list available migrations",
				Action: func(c *cli.Context) error {
					var source fs.FS = migrations.FS
					if dir := c.String("path"); dir != "" {
						source = os.DirFS(dir)
					}
					names, err := migration.ListMigrations(source)
					if err != nil {
						return err
					}
					for _, name := range names {
						fmt.Fprintln(c.App.Writer, "  -", name)
					}
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(c *cli.Context) (*zap.Logger, error) {
	return logger.New(&logger.Config{
		Level:      c.String("log-level"),
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
}

type migratorAction func(c *cli.Context, m *migration.Migrator, log *zap.Logger) error

// withMigrator opens the configured PostgreSQL database and hands a Migrator to fn
func withMigrator(fn migratorAction) cli.ActionFunc {
	return func(c *cli.Context) error {
		log, err := newLogger(c)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer func() { _ = logger.Sync(log) }()

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if cfg.Database.Driver != "postgres" {
			return cli.Exit(fmt.Sprintf("migrations target postgres, configured driver is %q", cfg.Database.Driver), 1)
		}

		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		if err := db.PingContext(c.Context); err != nil {
			return fmt.Errorf("failed to ping database: %w", err)
		}

		var m *migration.Migrator
		if dir := c.String("path"); dir != "" {
			m, err = migration.New(db, dir, log)
		} else {
			m, err = migration.NewEmbedded(db, migrations.FS, log)
		}
		if err != nil {
			return err
		}
		defer m.Close()

		log.Info("Migration command started", zap.String("command", c.Command.Name))
		return fn(c, m, log)
	}
}
