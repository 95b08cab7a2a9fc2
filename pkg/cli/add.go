package cli

import (
	"fmt"

	"github.com/getmockd/mockwire/pkg/client"
	"github.com/getmockd/mockwire/pkg/config"
	"github.com/getmockd/mockwire/pkg/mock"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add FILE...",
	Short: "Register mocks from files with a running server",
	Long: `Register every mock in the given YAML or JSON files with a running server.

Each file holds one mock or a list of mocks. All files are validated before
anything is sent, so a bad file registers nothing.`,
	Example: `  mockwire add mocks/hello.yaml
  mockwire add --addr 127.0.0.1:9000 mocks/*.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var pending []fileMocks
		for _, path := range args {
			mocks, err := config.LoadMockFile(path)
			if err != nil {
				return err
			}
			pending = append(pending, fileMocks{path: path, mocks: mocks})
		}

		c := client.New(serverAddr())
		out := cmd.OutOrStdout()
		for _, f := range pending {
			for _, m := range f.mocks {
				if err := c.Register(cmd.Context(), m); err != nil {
					return fmt.Errorf("%s: %s %s: %w", f.path, m.Request.Method, m.Request.Path, err)
				}
				fmt.Fprintf(out, "Registered %s %s%s\n", m.Request.Method, m.Request.Path, idSuffix(m.ID))
			}
		}
		return nil
	},
}

// fileMocks holds the mocks decoded from one file.
type fileMocks struct {
	path  string
	mocks []*mock.Mock
}

func idSuffix(id string) string {
	if id == "" {
		return ""
	}
	return " (id " + id + ")"
}

func init() {
	rootCmd.AddCommand(addCmd)
}
