package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"treemaker/internal/output"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Версия",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		w := stdoutFromContext(ctx)
		if output.IsStructured(outputType) {
			return output.NewPrinter(w, outputType).Print(ctx, map[string]string{
				"version": version,
				"commit":  commit,
				"date":    date,
			})
		}
		_, err := fmt.Fprint(w, versionLine())
		return err
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
