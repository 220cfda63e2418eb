// Command foodjournal is a local-first food journal.
//
//	foodjournal serve                 run the JSON API on localhost
//	foodjournal log add|list|rm       manage today's (or --date's) entries
//	foodjournal goal show|set         manage the daily goal
//	foodjournal search <food>         search FatSecret, optionally logging a hit
//	foodjournal summary               totals and goal progress for a day
//
// Settings come from FOODJOURNAL_* environment variables or a .env file;
// --db overrides the database path.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sakif/food-journal/internal/apperror"
	"github.com/sakif/food-journal/internal/config"
	"github.com/sakif/food-journal/internal/fatsecret"
	sqliteRepo "github.com/sakif/food-journal/internal/repository/sqlite"
	"github.com/sakif/food-journal/internal/service"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	dbPath  string
	verbose bool
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "foodjournal",
		Short:         "A personal food journal with daily nutrition goals",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "path to the journal database (default: FOODJOURNAL_DB_PATH or the user config dir)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(
		newServeCmd(a),
		newLogCmd(a),
		newGoalCmd(a),
		newSearchCmd(a),
		newSummaryCmd(a),
	)
	return root
}

// load reads configuration and builds the logger. One-shot commands log
// warnings and above unless --verbose is set; serve uses the configured
// level.
func (a *app) load(stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		cfg.DBPath = a.dbPath
	}
	a.cfg = cfg

	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	return nil
}

// openJournal opens the store for a single command. The returned func
// closes it.
func (a *app) openJournal() (*service.JournalService, func(), error) {
	db, err := sqliteRepo.New(a.cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	return service.NewJournalService(db, a.logger), func() { db.Close() }, nil
}

func (a *app) openSearch(journal *service.JournalService) *service.SearchService {
	return service.NewSearchService(fatsecret.New(a.cfg.FatSecret, a.logger), journal, a.logger)
}

// userMessage returns the text shown for err: the safe message of an
// apperror, or the error itself otherwise.
func userMessage(err error) string {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", userMessage(err))
		os.Exit(1)
	}
}
