package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"fraudlens/internal/actions"
	"fraudlens/pkg/protocol"
)

// listOperations maps the user-facing names to wire operations.
var listOperations = map[string]string{
	"data":    protocol.OpListS3URIs,
	"flows":   protocol.OpListFlowURIs,
	"reports": protocol.OpListReportURIs,
}

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list <data|flows|reports>",
	Short: "List available data sets, flows or reports",
	Long: `Query the assistant for the S3 URIs it can work with:

  data      raw data sets available for analysis
  flows     processing flow definitions
  reports   previously generated reports`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		operation, ok := listOperations[args[0]]
		if !ok {
			// Raw operation names pass through so new backend operations
			// work without a client update.
			if !strings.HasPrefix(args[0], "list") {
				return fmt.Errorf("unknown list target %q (expected data, flows or reports)", args[0])
			}
			operation = args[0]
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		uris, err := a.client.SendList(context.Background(), operation)
		if err != nil {
			return err
		}
		if len(uris) == 0 {
			fmt.Printf("No %s found.\n", args[0])
			return nil
		}
		for _, uri := range uris {
			fmt.Println(uri)
		}
		return nil
	},
}

// actionsCmd represents the actions command
var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "List the available quick actions",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		list, err := actions.Load(a.cfg.ActionsFile)
		if err != nil {
			return err
		}
		for _, action := range list {
			title := action.Title
			if title == "" {
				title = action.Name
			}
			fmt.Printf("%-18s %s\n", action.Name, title)
			if ph := action.Placeholders(); len(ph) > 0 {
				fmt.Printf("%-18s arguments: %s\n", "", strings.Join(ph, ", "))
			}
		}
		return nil
	},
}
