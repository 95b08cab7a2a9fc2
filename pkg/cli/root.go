package cli

import (
	"fmt"
	"os"

	"github.com/getmockd/mockwire/pkg/config"
	"github.com/getmockd/mockwire/pkg/server"
	"github.com/spf13/cobra"
)

var (
	// addrFlag is the persistent --addr flag shared by all commands.
	addrFlag string

	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "unknown"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mockwire",
	Short: "mockwire is a minimal HTTP mocking server",
	Long: `mockwire answers HTTP requests with canned responses registered at runtime.

Register a mock with POST /mocks, remove mocks with DELETE /mocks, and every
other request is answered by the newest mock for its method and path, or with
501 Not Implemented.`,
	SilenceUsage:  true,
	SilenceErrors: true, // We handle errors in Main()
}

// Main runs the command line and returns the process exit code.
func Main() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

// Execute runs the command line and exits. This is called by main.main().
func Execute() {
	os.Exit(Main())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&addrFlag, "addr", "", "Server address (default: $"+config.EnvAddr+" or "+server.DefaultAddr+")")
}

// serverAddr resolves the address used by client commands.
func serverAddr() string {
	if addrFlag != "" {
		return addrFlag
	}
	if v := os.Getenv(config.EnvAddr); v != "" {
		return v
	}
	return server.DefaultAddr
}
