package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alexiusacademia/beamreport/internal/loads"
)

var templateCmd = &cobra.Command{
	Use:   "template <file.xlsx>",
	Short: "Write a starter input workbook",
	Long: `Write an Excel workbook with the Position and Force header row and a
few sample loads, ready to edit.

Examples:
  beamreport template Book1.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loads.WriteTemplate(args[0], nil); err != nil {
			return err
		}
		logger.Info("Template written", zap.String("path", args[0]))
		fmt.Printf("Template written to: %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(templateCmd)
}
