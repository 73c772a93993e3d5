package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"cogniflow/internal/config"
	"cogniflow/internal/export"
	"cogniflow/internal/workflow"
)

var (
	exportFormat string
	exportDir    string
)

var exportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a recorded workflow's response to a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid workflow id %q", args[0])
		}

		format := export.Format(exportFormat)
		if exportFormat == "txt" {
			format = export.FormatText
		}

		session, _ := newSession()
		if err := session.RefreshWorkflows(context.Background()); err != nil {
			return err
		}

		var record *workflow.Record
		for _, r := range session.Store().Records() {
			if r.ID == id {
				record = &r
				break
			}
		}
		if record == nil {
			return workflow.ErrNotFound
		}

		dir := exportDir
		if dir == "" {
			dir = config.Global().ExportDir
		}

		path, err := export.Write(dir, record.Text, record.Response, record.Mode, format, time.Now())
		if err != nil {
			return err
		}
		fmt.Printf("exported to %s\n", path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "text", "output format: text or pdf")
	exportCmd.Flags().StringVar(&exportDir, "out", "", "output directory (default from config)")
	rootCmd.AddCommand(exportCmd)
}
