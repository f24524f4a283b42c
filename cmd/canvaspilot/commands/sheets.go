package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jpcaldeira/canvaspilot/pkg/canvaspilot/canvas"
	"github.com/jpcaldeira/canvaspilot/pkg/canvaspilot/sheets"
)

// newSheetsCmd creates the `canvaspilot sheets` command group for working
// with spreadsheets directly, without going through the assistant.
func newSheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Import, sync, and inspect Google Sheets",
	}

	cmd.AddCommand(
		newSheetsImportCmd(),
		newSheetsSyncCmd(),
		newSheetsListCmd(),
		newSheetsCreateCmd(),
	)
	return cmd
}

func newSheetsImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <sheet-id-or-url>",
		Short: "Import a sheet into a canvas and print it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			assistant, _, _, err := buildAssistant(cmd)
			if err != nil {
				return err
			}
			sheetName, _ := cmd.Flags().GetString("sheet")

			sheetID := sheets.ExtractSheetID(args[0])
			state, err := assistant.SheetService().Import(context.Background(), sheetID, sheetName)
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}
			return printJSON(state)
		},
	}
	cmd.Flags().String("sheet", "", "worksheet name (first worksheet by default)")
	return cmd
}

func newSheetsSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync <sheet-id-or-url>",
		Short: "Write a canvas JSON file back to a sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			assistant, _, _, err := buildAssistant(cmd)
			if err != nil {
				return err
			}
			canvasPath, _ := cmd.Flags().GetString("canvas")
			sheetName, _ := cmd.Flags().GetString("sheet")

			data, err := os.ReadFile(canvasPath)
			if err != nil {
				return fmt.Errorf("reading canvas file: %w", err)
			}
			var state canvas.State
			if err := json.Unmarshal(data, &state); err != nil {
				return fmt.Errorf("parsing canvas file: %w", err)
			}

			sheetID := sheets.ExtractSheetID(args[0])
			result := assistant.SheetService().Reconcile(context.Background(), sheetID, &state, sheetName)
			if err := printJSON(result); err != nil {
				return err
			}
			if !result.Success {
				return fmt.Errorf("sync failed: %s", result.Error)
			}
			return nil
		},
	}
	cmd.Flags().String("canvas", "canvas.json", "path to the canvas JSON file")
	cmd.Flags().String("sheet", "", "worksheet name (first worksheet by default)")
	return cmd
}

func newSheetsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <sheet-id-or-url>",
		Short: "List the worksheets in a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			assistant, _, _, err := buildAssistant(cmd)
			if err != nil {
				return err
			}
			sheetID := sheets.ExtractSheetID(args[0])
			names, err := assistant.SheetService().ListSheetNames(context.Background(), sheetID)
			if err != nil {
				return fmt.Errorf("listing worksheets: %w", err)
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}
}

func newSheetsCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <title>",
		Short: "Create a new spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			assistant, _, _, err := buildAssistant(cmd)
			if err != nil {
				return err
			}
			created, err := assistant.SheetService().CreateSheet(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("creating spreadsheet: %w", err)
			}
			return printJSON(created)
		},
	}
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
