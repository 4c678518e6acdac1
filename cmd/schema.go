package cmd

import (
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var schemaAsJSON bool

type schemaColumn struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
}

var schemaCmd = &cobra.Command{
	Use:   "schema <file>",
	Short: "Print the schema a scan of a genomic file would produce",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSchema(args[0], os.Stdout)
	},
}

func init() {
	addScanFlags(schemaCmd)
	schemaCmd.Flags().BoolVar(&schemaAsJSON, "json", false, "print the schema as NDJSON instead of a table")
}

func runSchema(path string, out io.Writer) error {
	scanner, err := openScanner(path)
	if err != nil {
		return err
	}
	defer scanner.Close()
	if schemaAsJSON {
		encoder := json.NewEncoder(out)
		for _, col := range scanner.Schema() {
			if err := encoder.Encode(schemaColumn{
				Name:     col.Name,
				Type:     col.Type.String(),
				Nullable: col.Nullable,
			}); err != nil {
				return err
			}
		}
		return nil
	}
	for _, col := range scanner.Schema() {
		null := ""
		if col.Nullable {
			null = "NULL"
		}
		fmt.Fprintf(out, "%v\t%v\t%v\n", col.Name, col.Type, null)
	}
	return nil
}
