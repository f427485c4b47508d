package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func (c *cli) backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export and import inventory and cash book data",
	}
	cmd.AddCommand(
		c.exportCmd("export", "Write a JSON backup of inventory and cash book", "backup_limonero_%s.json",
			func(cmd *cobra.Command) exportFunc { return c.app.Backup(c.session(cmd)).ExportJSON }),
		c.exportCmd("inventory-csv", "Export the inventory as CSV", "inventario_limonero_%s.csv",
			func(cmd *cobra.Command) exportFunc { return c.app.Backup(c.session(cmd)).InventoryCSV }),
		c.exportCmd("cashbook-csv", "Export the cash book as CSV", "caja_limonero_%s.csv",
			func(cmd *cobra.Command) exportFunc { return c.app.Backup(c.session(cmd)).CashbookCSV }),
		c.exportCmd("xlsx", "Export both collections as an Excel workbook", "limonero_%s.xlsx",
			func(cmd *cobra.Command) exportFunc { return c.app.Backup(c.session(cmd)).Workbook }),
		c.importCmd(),
	)
	return cmd
}

type exportFunc func(ctx context.Context, w io.Writer) error

// exportCmd builds a command that writes an export to --out, to a dated
// file named after nameFormat by default, or to stdout with --out -.
func (c *cli) exportCmd(use, short, nameFormat string, pick func(*cobra.Command) exportFunc) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			export := pick(cmd)
			if out == "-" {
				return export(cmd.Context(), cmd.OutOrStdout())
			}
			path := out
			if path == "" {
				path = fmt.Sprintf(nameFormat, c.app.Now().Format("2006-01-02"))
			}
			return writeFile(cmd, path, export)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, - for stdout")
	return cmd
}

// writeFile only creates path once the export succeeded, so a failed
// export leaves no empty file behind.
func writeFile(cmd *cobra.Command, path string, export exportFunc) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".limonero-export-*")
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := export(cmd.Context(), tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close export file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), subtleStyle.Render("Archivo generado: "+path))
	return nil
}

func (c *cli) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace inventory and cash book with a JSON backup",
		Long: `Replace the collections present in FILE with its contents. A backup
holding only "inventory" leaves the cash book untouched, and the other
way around. Backups written by older versions are accepted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open backup: %w", err)
			}
			defer f.Close()

			res, err := c.app.Backup(c.session(cmd)).ImportJSON(cmd.Context(), f)
			if err != nil {
				return declinedOK(cmd, err)
			}
			out := cmd.OutOrStdout()
			if res.HasItems {
				fmt.Fprintf(out, "Inventario: %d materiales\n", res.Inventory)
			}
			if res.HasMoves {
				fmt.Fprintf(out, "Caja: %d movimientos\n", res.Cashbook)
			}
			return nil
		},
	}
}
