package cli

import (
	"errors"
	"fmt"

	"github.com/getmockd/mockwire/pkg/config"
	"github.com/spf13/cobra"
)

var validateConfig string

var validateCmd = &cobra.Command{
	Use:   "validate [FILE...]",
	Short: "Check mock files and config files without a server",
	Long: `Check mock files the same way POST /mocks checks a document.

With --config the config file is checked as well, including every seed mock
file it references.`,
	Example: `  mockwire validate mocks/*.yaml
  mockwire validate --config mockwire.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && validateConfig == "" {
			return errors.New("nothing to validate: pass mock files or --config")
		}
		out := cmd.OutOrStdout()
		failed := 0

		if validateConfig != "" {
			n, err := checkConfig(validateConfig)
			if err != nil {
				fmt.Fprintf(out, "FAIL %v\n", err)
				failed++
			} else {
				fmt.Fprintf(out, "ok   %s (%s)\n", validateConfig, plural(n, "seed mock"))
			}
		}

		for _, path := range args {
			mocks, err := config.LoadMockFile(path)
			if err != nil {
				fmt.Fprintf(out, "FAIL %v\n", err)
				failed++
				continue
			}
			fmt.Fprintf(out, "ok   %s (%s)\n", path, plural(len(mocks), "mock"))
		}

		if failed > 0 {
			return fmt.Errorf("%s failed validation", plural(failed, "file"))
		}
		return nil
	},
}

func checkConfig(path string) (int, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return 0, err
	}
	if err := cfg.Validate(); err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	mocks, err := config.LoadMocks(cfg.Mocks, cfg.BaseDir)
	if err != nil {
		return 0, err
	}
	return len(mocks), nil
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func init() {
	validateCmd.Flags().StringVarP(&validateConfig, "config", "c", "", "Config file to validate")
	rootCmd.AddCommand(validateCmd)
}
