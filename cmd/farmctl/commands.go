package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"agrimind/pkg/transfer/service"
)

const cliUser = "farmctl"

func newImportCmd(open opener) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the dataset with an export document",
		Long: `Import reads an export document and replaces every stored collection with it.
The previous dataset is lost unless a backup driver is configured.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := os.Open(file)
			if err != nil {
				return err
			}
			defer in.Close()

			svc, err := open(cmd.Context())
			if err != nil {
				return err
			}
			res, err := svc.Import(cmd.Context(), cliUser, in)
			if err != nil {
				if res != nil {
					return fmt.Errorf("import run %s: %w", res.RunID, err)
				}
				return err
			}
			return printImport(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "path to the JSON document")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newExportCmd(open opener) *cobra.Command {
	var (
		out    string
		format string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the dataset as JSON or xlsx",
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "xlsx" {
				return fmt.Errorf("unsupported format %q", format)
			}
			svc, err := open(cmd.Context())
			if err != nil {
				return err
			}

			if out == "" || out == "-" {
				return writeExport(cmd.Context(), svc, format, cmd.OutOrStdout())
			}
			return writeFileAtomic(out, func(w io.Writer) error {
				return writeExport(cmd.Context(), svc, format, w)
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&format, "format", "json", "json or xlsx")
	return cmd
}

func newRunsCmd(open opener) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent import runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := open(cmd.Context())
			if err != nil {
				return err
			}
			runs, err := svc.ImportRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSTATUS\tSTARTED\tERROR")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, r.Status, r.StartedAt.Format(time.RFC3339), r.Error)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to show")
	return cmd
}

func writeExport(ctx context.Context, svc service.TransferService, format string, w io.Writer) error {
	if format == "xlsx" {
		return svc.ExportXLSX(ctx, w)
	}
	doc, err := svc.Export(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// writeFileAtomic writes through a temp file in the target directory and
// renames it into place, so a failed export never leaves a partial file.
func writeFileAtomic(path string, write func(io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".farmctl-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = write(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	return os.Rename(tmp.Name(), path)
}

func printImport(w io.Writer, res *service.ImportResult) error {
	fmt.Fprintf(w, "run %s imported\n", res.RunID)
	if res.BackupKey != "" {
		fmt.Fprintf(w, "backup: %s\n", res.BackupKey)
	}
	keys := make([]string, 0, len(res.Counts))
	for k := range res.Counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, k := range keys {
		fmt.Fprintf(tw, "%s\t%d\n", k, res.Counts[k])
	}
	return tw.Flush()
}
