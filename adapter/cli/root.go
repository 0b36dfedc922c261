package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/daylog/pkg/observability"
)

var (
	cfgFile    string
	verbose    bool
	jsonOutput bool
	logger     *slog.Logger

	factory AppFactory
	cleanup func()
)

// Options are the global flags handed to the AppFactory.
type Options struct {
	ConfigPath string
	Verbose    bool
}

// AppFactory builds the App on first use. The returned func releases it.
type AppFactory func(ctx context.Context, opts Options) (*App, func(), error)

type commandContext struct {
	correlationID uuid.UUID
	startedAt     time.Time
}

type commandContextKey struct{}

// annotationNoApp marks commands that run without the App.
const annotationNoApp = "daylog/no-app"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "daylog",
	Short: "daylog - a local-first daily journal",
	Long: `daylog records what you did today: activities and the time spent on
them, small tasks, a diary note, a morning check-in and an evening reflection.

Everything is saved locally first. When you set a profile email and a remote
is configured, entries are mirrored to the remote store as well.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if logger == nil {
			logger = slog.Default()
		}
		info := commandContext{
			correlationID: uuid.New(),
			startedAt:     time.Now(),
		}
		ctx := observability.WithCorrelationID(cmd.Context(), info.correlationID.String())
		cmd.SetContext(context.WithValue(ctx, commandContextKey{}, info))
		logger.Debug("command start",
			"command", cmd.CommandPath(),
			"correlation_id", info.correlationID.String(),
		)
		if cmd.Annotations[annotationNoApp] == "true" {
			return nil
		}
		return initApp(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger == nil {
			logger = slog.Default()
		}
		info, ok := cmd.Context().Value(commandContextKey{}).(commandContext)
		if !ok {
			return
		}
		logger.Debug("command end",
			"command", cmd.CommandPath(),
			"correlation_id", info.correlationID.String(),
			"duration_ms", time.Since(info.startedAt).Milliseconds(),
		)
	},
}

// initApp builds the App through the factory unless one is already set.
func initApp(ctx context.Context) error {
	if app != nil || factory == nil {
		return nil
	}
	a, release, err := factory(ctx, Options{ConfigPath: cfgFile, Verbose: verbose})
	if err != nil {
		return err
	}
	app = a
	cleanup = release
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(ctx context.Context) {
	err := rootCmd.ExecuteContext(ctx)
	Shutdown()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// Shutdown releases the App built by the factory.
func Shutdown() {
	if cleanup != nil {
		cleanup()
		cleanup = nil
	}
	app = nil
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default $DAYLOG_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print results as JSON")
}

// AddCommand adds a command to the root command.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// SetLogger sets the CLI logger.
func SetLogger(l *slog.Logger) {
	logger = l
}

// SetAppFactory sets how the App is built before a command runs.
func SetAppFactory(f AppFactory) {
	factory = f
}

// JSONOutput reports whether --json was given.
func JSONOutput() bool {
	return jsonOutput
}

// SetJSONOutput overrides --json.
func SetJSONOutput(v bool) {
	jsonOutput = v
}

var errNotInitialized = errors.New("application not initialized")
