package cmd

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"cinebook/booking"
	"cinebook/catalog"
	"cinebook/config"
	"cinebook/controller"
	"cinebook/logging"
	"cinebook/service"
	"cinebook/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

const appName = "cinebook"

// app is what every command runs against: a controller with the saved
// session restored.
type app struct {
	cfg    config.Config
	ctrl   *controller.Controller
	closer io.Closer
}

func newApp() (*app, error) {
	cfg := config.Load()
	logger, closer, err := logging.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	cat, err := catalog.Default(time.Now())
	if err != nil {
		closer.Close()
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	client := service.NewClient(cfg.APIURL, httpClient).WithLogger(logger)
	ctrl := controller.New(client, cat, booking.SimulatedProcessor{Delay: cfg.PaymentDelay}, logger).
		WithLocator(service.NewLocator(httpClient).WithLogger(logger))
	ctrl.Restore()
	logger.Debug("started", "api", cfg.APIURL, "path", ctrl.Path())
	return &app{cfg: cfg, ctrl: ctrl, closer: closer}, nil
}

func (a *app) Close() error {
	return a.closer.Close()
}

// withApp wraps a command body with app setup and teardown.
func withApp(run func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		return run(cmd, args, a)
	}
}

func newRootCmd(version string, commit string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   appName,
		Short: "Movie and event booking from the terminal",
		Long: `Browse movies and live events, pick seats or zones and pay, all from the terminal.
Run without arguments to open the interactive app.`,
		SilenceUsage: true,
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			_, err := tea.NewProgram(tui.New(a.ctrl), tea.WithAltScreen()).Run()
			return err
		}),
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number of cinebook",
		Run: func(cmd *cobra.Command, args []string) {
			out := fmt.Sprintf("%s %s", appName, version)
			if commit != "none" && commit != "" {
				out += fmt.Sprintf(" (%s)", commit)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
		},
	}

	rootCmd.AddCommand(
		versionCmd,
		newLoginCmd(),
		newRegisterCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newShowtimesCmd(),
		newEventsCmd(),
		newBookingsCmd(),
		newDashboardCmd(),
	)
	return rootCmd
}

// Execute runs the command line and exits non-zero on failure.
func Execute(version string, commit string) {
	if err := newRootCmd(version, commit).Execute(); err != nil {
		os.Exit(1)
	}
}
