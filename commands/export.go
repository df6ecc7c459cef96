// Package commands holds the CLI sub-commands registered on the PocketBase
// root command.
package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cobra"

	"romplanner/services"
)

// Export formats.
const (
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// NewExportCommand returns `export <projectId>`, which writes the project
// report to a file without starting the server.
func NewExportCommand(app core.App, opts services.RenderOptions) *cobra.Command {
	var (
		out    string
		format string
	)

	cmd := &cobra.Command{
		Use:   "export <projectId>",
		Short: "Export a project cost report to a file",
		Long:  "Builds the Summary, Labor Details, Rates and Materials report for a project and writes it as xlsx, pdf or json.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(strings.TrimSpace(format))

			path, err := ExportProject(app, args[0], format, out, opts)
			if err != nil {
				return err
			}

			app.Logger().Info("project exported", "project", args[0], "format", format, "file", path)
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default Project_Export_<name>.<format>)")
	cmd.Flags().StringVarP(&format, "format", "f", FormatXLSX, "output format: xlsx, pdf or json")

	return cmd
}

// ExportProject renders the project report in format and writes it to out,
// or to the default export filename when out is empty. It returns the path
// written.
func ExportProject(app core.App, projectID, format, out string, opts services.RenderOptions) (string, error) {
	snap, err := services.LoadSnapshot(app, projectID)
	if err != nil {
		return "", fmt.Errorf("load project %s: %w", projectID, err)
	}

	report, err := snap.Report()
	if err != nil {
		return "", err
	}

	var data []byte
	switch format {
	case FormatXLSX:
		data, err = services.RenderExcel(report, opts)
	case FormatPDF:
		data, err = services.RenderPDF(report, opts)
	case FormatJSON:
		data, err = json.MarshalIndent(report, "", "  ")
	default:
		return "", fmt.Errorf("unknown format %q, want xlsx, pdf or json: %w", format, services.ErrInvalidInput)
	}
	if err != nil {
		return "", fmt.Errorf("render %s: %w", format, err)
	}

	if out == "" {
		out = defaultExportPath(report.Title, format)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", out, err)
	}

	return out, nil
}

// defaultExportPath is the export filename in the working directory. Path
// separators in the project name become underscores.
func defaultExportPath(projectName, format string) string {
	name := strings.NewReplacer("/", "_", `\`, "_").Replace(projectName)
	return filepath.Base(services.ExportFilename(name, format))
}
