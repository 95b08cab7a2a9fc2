package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/getmockd/mockwire/internal/id"
	"github.com/getmockd/mockwire/pkg/client"
	"github.com/getmockd/mockwire/pkg/config"
	"github.com/getmockd/mockwire/pkg/logging"
	"github.com/getmockd/mockwire/pkg/server"
	"github.com/getmockd/mockwire/pkg/store"
	"github.com/spf13/cobra"
)

type serveFlags struct {
	configPath string
	concurrent bool
	maxConns   int
	logLevel   string
	logFormat  string
	logFile    string
	mocks      []string
}

// serveFlagVals is the package-level instance bound to cobra flags.
var serveFlagVals serveFlags

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a mockwire server in the foreground",
	Long: `Run a mockwire server until interrupted.

Settings are taken from flags, then MOCKWIRE_* environment variables, then the
config file, then built-in defaults. Seed mocks from the config file and from
--mocks are registered before the first connection is accepted.`,
	Example: `  # Start with defaults on 127.0.0.1:4280
  mockwire serve

  # Serve seed mocks on another port, one goroutine per connection
  mockwire serve --addr :9000 --concurrent --mocks 'mocks/**/*.yaml'

  # Use a config file and mirror logs into a file
  mockwire serve --config mockwire.yaml --log-file mockwire.log`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServe(ctx, cmd, &serveFlagVals)
	},
}

func init() {
	f := serveCmd.Flags()
	f.StringVarP(&serveFlagVals.configPath, "config", "c", "", "Config file (default: $"+config.EnvConfig+")")
	f.BoolVar(&serveFlagVals.concurrent, "concurrent", false, "Serve each connection on its own goroutine")
	f.IntVar(&serveFlagVals.maxConns, "max-conns", 0, "Maximum simultaneous connections (0 = unlimited)")
	f.StringVar(&serveFlagVals.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	f.StringVar(&serveFlagVals.logFormat, "log-format", "", "Log format: text or json")
	f.StringVar(&serveFlagVals.logFile, "log-file", "", "Also write JSON logs to this file")
	f.StringArrayVar(&serveFlagVals.mocks, "mocks", nil, "Seed mock file or glob (repeatable)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context, cmd *cobra.Command, flags *serveFlags) error {
	cfg, err := loadServeConfig(cmd, flags)
	if err != nil {
		return err
	}

	log, closeLog, err := newLogger(cfg, flags.logFile, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeLog()

	st := store.NewMemory()
	if err := seed(st, cfg.Mocks, cfg.BaseDir); err != nil {
		return err
	}
	if err := seed(st, flags.mocks, ""); err != nil {
		return err
	}

	srv := server.New(cfg.ServerConfig(), server.WithStore(st), server.WithLogger(log))
	if err := srv.Start(); err != nil {
		return err
	}
	if !srv.Listening() {
		return fmt.Errorf("%s is already being served by another process", cfg.Addr)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "mockwire listening on %s (%s)\n", client.BaseURL(srv.Addr()), plural(st.Len(), "mock"))

	<-ctx.Done()
	fmt.Fprintln(out, "Shutting down")
	return srv.Close()
}

// loadServeConfig layers flags over environment over file over defaults.
func loadServeConfig(cmd *cobra.Command, flags *serveFlags) (*config.Config, error) {
	path := flags.configPath
	if path == "" {
		path = config.PathFromEnv()
	}

	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	config.ApplyEnv(cfg)

	set := cmd.Flags()
	if addrFlag != "" {
		cfg.Addr = addrFlag
	}
	if set.Changed("concurrent") {
		cfg.Concurrent = flags.concurrent
	}
	if set.Changed("max-conns") {
		cfg.MaxConns = flags.maxConns
	}
	if set.Changed("log-level") {
		cfg.Log.Level = flags.logLevel
	}
	if set.Changed("log-format") {
		cfg.Log.Format = flags.logFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newLogger builds the serve logger. With a log file, records are also
// written there as JSON.
func newLogger(cfg *config.Config, logFile string, stderr io.Writer) (*slog.Logger, func(), error) {
	lc := cfg.LoggingConfig(stderr)
	handler := logging.NewHandler(lc)
	if logFile == "" {
		return slog.New(handler), func() {}, nil
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	fileHandler := logging.NewHandler(logging.Config{
		Level:  lc.Level,
		Format: logging.FormatJSON,
		Output: f,
	})
	return slog.New(logging.NewMultiHandler(handler, fileHandler)), func() { _ = f.Close() }, nil
}

// seed loads mocks matched by patterns into st, assigning ids where
// missing.
func seed(st store.MockStore, patterns []string, baseDir string) error {
	mocks, err := config.LoadMocks(patterns, baseDir)
	if err != nil {
		return err
	}
	for _, m := range mocks {
		if m.ID == "" {
			m.ID = id.UUID()
		}
		st.Insert(m)
	}
	return nil
}
