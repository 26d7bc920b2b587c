package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"treemaker/internal/demo"
	"treemaker/internal/output"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Напечатать пример схемы",
	Example: `  treemaker demo > struct.txt
  treemaker demo | treemaker build -b ./treemaker-demo`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		w := stdoutFromContext(ctx)
		if diagramAsStructured(cmd) {
			return output.NewPrinter(w, output.FormatFromContext(ctx)).Print(ctx, map[string]interface{}{
				"base":    demo.Base,
				"diagram": demo.Diagram,
			})
		}
		// Комментарий после # разбор пропускает, так что вывод можно сразу подать в build.
		_, err := fmt.Fprintf(w, "# базовый каталог: %s\n%s", demo.Base, demo.Diagram)
		return err
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

// diagramAsStructured: схема печатается как есть, если формат не задан явно
// флагом --output, чтобы её можно было передать в build через pipe.
func diagramAsStructured(cmd *cobra.Command) bool {
	return flagChanged(cmd, "output") && output.IsStructured(outputType)
}
