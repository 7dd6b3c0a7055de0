package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/marcus/codenotes/internal/app"
	"github.com/marcus/codenotes/internal/config"
	"github.com/marcus/codenotes/internal/notes"
	"github.com/marcus/codenotes/internal/state"
	"github.com/marcus/codenotes/internal/storage"
	"github.com/marcus/codenotes/internal/styles"
)

var (
	configPath  string
	debugFlag   bool
	backendFlag string
	ephemeral   bool

	cfg     *config.Config
	slot    storage.Slot
	store   *notes.Store
	logger  *slog.Logger
	logFile *os.File
)

var rootCmd = &cobra.Command{
	Use:           "codenotes",
	Short:         "A terminal notebook for code snippets",
	Long:          `Write, highlight, search, export and import code notes from the terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == versionCmd.Name() {
			return nil
		}
		return setup(cmd == cmd.Root())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

// Execute runs the root command and releases storage however it ends.
func Execute() error {
	defer teardown()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "storage backend: file, sqlite, badger or memory")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "keep notes in memory only")
}

// setup loads configuration and opens storage. The TUI logs to a file so log
// lines do not paint over the alternate screen.
func setup(tui bool) error {
	var err error
	if configPath != "" {
		cfg, err = config.LoadFrom(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if backendFlag != "" {
		cfg.Storage.Backend = backendFlag
	}
	if ephemeral {
		cfg.Storage.Backend = config.BackendMemory
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger = newLogger(tui)
	slog.SetDefault(logger)

	// Load persistent state (ignore errors - state is optional)
	if err := state.Init(); err != nil {
		logger.Warn("load ui state", "err", err)
	}
	styles.ApplyTheme(cfg.UI.Theme)

	slot, err = storage.Open(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	store = notes.New(slot, notes.WithLogger(logger))
	return nil
}

func newLogger(tui bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if debugFlag {
		logLevel = slog.LevelDebug
	}

	var w io.Writer = os.Stderr
	if tui {
		w = io.Discard
		dir := config.DataDir()
		if err := os.MkdirAll(dir, 0755); err == nil {
			f, err := os.OpenFile(filepath.Join(dir, "codenotes.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err == nil {
				logFile = f
				w = f
			}
		}
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	}))
}

// teardown closes storage and the log file. Safe to call more than once.
func teardown() {
	if slot != nil {
		if err := slot.Close(); err != nil {
			logger.Warn("close storage", "err", err)
		}
		slot = nil
	}
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

func runTUI() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var changes <-chan struct{}
	if fs, ok := slot.(*storage.FileSlot); ok && cfg.Storage.Watch {
		ch, err := fs.Watch(ctx)
		if err != nil {
			logger.Warn("watch storage", "path", fs.Path(), "err", err)
		} else {
			changes = ch
		}
	}

	model := app.New(app.Options{
		Config:  cfg,
		Store:   store,
		Logger:  logger,
		Changes: changes,
		Version: effectiveVersion(Version),
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running application: %w", err)
	}

	// Retry a save that failed during the session. A store that never loaded
	// and was never changed is left alone.
	if store.LoadErr() != nil {
		return nil
	}
	if err := store.Save(); err != nil {
		logger.Error("final save", "err", err)
		return err
	}
	return nil
}
