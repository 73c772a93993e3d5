package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var workflowsCmd = &cobra.Command{
	Use:   "workflows",
	Short: "Inspect and manage recorded workflows without the TUI",
}

var workflowsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded workflows, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, _ := newSession()
		if err := session.RefreshWorkflows(context.Background()); err != nil {
			return err
		}
		records := session.Store().Records()
		if len(records) == 0 {
			fmt.Println("no workflows recorded")
			return nil
		}
		for _, record := range records {
			fmt.Printf("%6d  %-8s  %s  %s\n",
				record.ID,
				record.Mode,
				record.Timestamp.Format("2006-01-02 15:04:05"),
				record.Text,
			)
		}
		return nil
	},
}

var workflowsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one recorded workflow",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid workflow id %q", args[0])
		}
		session, _ := newSession()
		if err := session.DeleteOne(context.Background(), id); err != nil {
			return err
		}
		fmt.Printf("workflow %d deleted\n", id)
		return nil
	},
}

var workflowsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the entire workflow history",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, _ := newSession()
		if err := session.DeleteAll(context.Background()); err != nil {
			return err
		}
		fmt.Println("workflow history cleared")
		return nil
	},
}

func init() {
	workflowsCmd.AddCommand(workflowsListCmd)
	workflowsCmd.AddCommand(workflowsDeleteCmd)
	workflowsCmd.AddCommand(workflowsClearCmd)
	rootCmd.AddCommand(workflowsCmd)
}
