package main

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"weightress/internal/adapter/memory"
	"weightress/internal/adapter/postgres"
	"weightress/internal/adapter/sqlite"
	"weightress/internal/config"
	"weightress/internal/domain"
	"weightress/internal/store"

	"github.com/spf13/cobra"
)

var (
	cfgFile string

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "weightress",
	Short: "Record and review your body weight",
	Long: `Weightress keeps a history of body weight entries with optional notes.
Run "weightress serve" for the web interface and reminders, or use the
record and history commands directly.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if err := c.Validate(); err != nil {
			return err
		}
		l, err := newLogger(c.Log, os.Stderr)
		if err != nil {
			return err
		}
		cfg, logger = c, l
		slog.SetDefault(l)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./weightress.yaml if present)")
}

func newLogger(lc config.LogConfig, w io.Writer) (*slog.Logger, error) {
	level, err := lc.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if lc.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// openStore opens the record store selected by database.driver together
// with the session repository that belongs to it.
func openStore(c *config.Config) (store.Store, domain.SessionRepository, func() error, error) {
	switch c.Database.Driver {
	case config.DriverSQLite:
		db, err := sqlite.Open(c.Database.Path)
		if err != nil {
			return nil, nil, nil, err
		}
		return db, memory.NewSessionRepo(), db.Close, nil
	case config.DriverPostgres:
		db, err := postgres.Open(c.Database.URL)
		if err != nil {
			return nil, nil, nil, err
		}
		return db, postgres.NewSessionRepo(db), db.Close, nil
	case config.DriverMemory:
		return memory.New(), memory.NewSessionRepo(), func() error { return nil }, nil
	}
	return nil, nil, nil, errors.New("unknown database driver " + c.Database.Driver)
}
