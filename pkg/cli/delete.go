package cli

import (
	"fmt"

	"github.com/getmockd/mockwire/pkg/client"
	"github.com/spf13/cobra"
)

var deleteID string

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove one mock by id, or all mocks",
	Example: `  mockwire delete --id hello
  mockwire delete`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(serverAddr())
		if cmd.Flags().Changed("id") {
			if err := c.Delete(cmd.Context(), deleteID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted mock: %s\n", deleteID)
			return nil
		}

		if err := c.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Deleted all mocks")
		return nil
	},
}

func init() {
	deleteCmd.Flags().StringVar(&deleteID, "id", "", "ID of the mock to delete (default: all mocks)")
	rootCmd.AddCommand(deleteCmd)
}
