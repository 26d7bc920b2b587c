package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"treemaker/internal/output"
	"treemaker/internal/snapshot"
)

var snapshotFlags snapshot.Options

var snapshotCmd = &cobra.Command{
	Use:   "snapshot DIR",
	Short: "Напечатать существующий каталог в виде схемы",
	Long: `Печатает каталог так, что вывод снова можно подать в build
(с флагом --indent) и получить ту же структуру.`,
	Example: `  treemaker snapshot ./proj > struct.txt
  treemaker snapshot ./proj | treemaker build --indent -b /tmp/copy`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if snapshotFlags.MaxDepth < 0 {
			return fmt.Errorf("неверный --max-depth %d", snapshotFlags.MaxDepth)
		}
		diagram, err := snapshot.Render(args[0], snapshotFlags)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		w := stdoutFromContext(ctx)
		if diagramAsStructured(cmd) {
			return output.NewPrinter(w, output.FormatFromContext(ctx)).Print(ctx, map[string]interface{}{
				"root":    args[0],
				"diagram": diagram,
			})
		}
		_, err = fmt.Fprint(w, diagram)
		return err
	},
}

func init() {
	snapshotCmd.Flags().IntVar(&snapshotFlags.MaxDepth, "max-depth", 0, "Глубина обхода (0 = без ограничения)")
	snapshotCmd.Flags().BoolVar(&snapshotFlags.Hidden, "hidden", false, "Включать имена, начинающиеся с точки")
	rootCmd.AddCommand(snapshotCmd)
}
