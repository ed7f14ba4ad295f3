package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"customer-insights/internal/config"
	"customer-insights/internal/dashboard"
	"customer-insights/internal/logger"
	"customer-insights/internal/service"
	"customer-insights/internal/session"

	"github.com/spf13/cobra"
)

var (
	configFile string
	baseURL    string
	verbose    bool
	ephemeral  bool
)

// errReported means the failure was already printed as a notice.
var errReported = errors.New("command failed")

var rootCmd = &cobra.Command{
	Use:   "insightctl",
	Short: "Customer insights from the command line",
	Long: `insightctl signs in to the customer analysis backend, uploads CSV or
Excel files and prints the preview and category distribution.

It shares the session file with the dashboard server, so signing in here
also signs the browser dashboard in.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (e.g. etc/config-dev.yaml)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "backend base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "do not read or write the session file")

	rootCmd.AddCommand(healthCmd, loginCmd, registerCmd, uploadCmd, logoutCmd, statusCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

type runtime struct {
	cfg     *config.Config
	backend *service.Backend
	store   session.Store
	app     *dashboard.App
}

// setup loads config and starts an App the same way the server does.
func setup(cmd *cobra.Command) (*runtime, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if baseURL != "" {
		cfg.Backend.BaseURL = baseURL
	}
	cfg.Log.Console = verbose
	if verbose && cfg.Log.Level == "info" {
		cfg.Log.Level = "debug"
	}
	logger.Init(cfg.Log, cmd.ErrOrStderr())

	var store session.Store = session.NewFileStore(cfg.Session.Path)
	if ephemeral {
		store = session.NewMemoryStore()
	}
	backend := service.NewBackend(cfg.Backend, nil)
	app := dashboard.NewApp(backend, store, cfg.Dashboard.CategoryField)
	if err := app.Start(cmd.Context()); err != nil {
		logger.Warn("saved session ignored", "err", err)
	}
	return &runtime{cfg: cfg, backend: backend, store: store, app: app}, nil
}

// finish waits for in-flight requests, prints what the user would have seen
// as notices and fails when any of them is an error or warning.
func (rt *runtime) finish(cmd *cobra.Command) (dashboard.State, error) {
	rt.app.Wait()
	st := rt.app.Snapshot()
	out := cmd.OutOrStdout()
	failed := false
	for _, n := range st.Notices {
		fmt.Fprintln(out, renderNotice(n))
		if n.Level == dashboard.LevelError || n.Level == dashboard.LevelWarning {
			failed = true
		}
	}
	rt.app.Dispatch(dashboard.NoticesDismissed{})
	if failed {
		return st, errReported
	}
	return st, nil
}
