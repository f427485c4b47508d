package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Simplici0/limonero/internal/domain"
	"github.com/Simplici0/limonero/internal/inventory"
)

type itemFlags struct {
	item domain.InventoryItem
}

func (f *itemFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.item.Type, "type", "", "material type, e.g. PLA")
	fs.StringVar(&f.item.Brand, "brand", "", "brand")
	fs.StringVar(&f.item.Color, "color", "", "color")
	fs.Float64Var(&f.item.StockGrams, "stock", 0, "stock in grams")
	fs.Float64Var(&f.item.PricePerKg, "price", 0, "price per kg")
}

// apply copies the flags the user set onto item.
func (f *itemFlags) apply(cmd *cobra.Command, item domain.InventoryItem) domain.InventoryItem {
	fs := cmd.Flags()
	if fs.Changed("type") {
		item.Type = f.item.Type
	}
	if fs.Changed("brand") {
		item.Brand = f.item.Brand
	}
	if fs.Changed("color") {
		item.Color = f.item.Color
	}
	if fs.Changed("stock") {
		item.StockGrams = f.item.StockGrams
	}
	if fs.Changed("price") {
		item.PricePerKg = f.item.PricePerKg
	}
	return item
}

func (c *cli) inventoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "inventory",
		Aliases: []string{"inv"},
		Short:   "Manage filament inventory",
	}
	cmd.AddCommand(
		c.inventoryListCmd(),
		c.inventoryAddCmd(),
		c.inventoryUpdateCmd(),
		c.inventoryDuplicateCmd(),
		c.inventoryDeleteCmd(),
	)
	return cmd
}

func (c *cli) inventoryListCmd() *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List materials sorted by type, brand and color",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := c.app.Inventory(c.session(cmd))
			items, err := svc.Search(cmd.Context(), search)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, subtleStyle.Render("No hay materiales. Usa 'limonero inventory add' para cargar uno."))
				return nil
			}
			title(out, "Inventario")
			if err := writeItems(out, items); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nValor total: %s\n", totalStyle.Render(money(inventory.TotalValue(items))))
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "filter by type, brand or color")
	return cmd
}

func writeItems(w io.Writer, items []domain.InventoryItem) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
		headerStyle.Render("ID"), headerStyle.Render("Tipo"), headerStyle.Render("Marca"),
		headerStyle.Render("Color"), headerStyle.Render("Stock"), headerStyle.Render("Precio/kg"),
		headerStyle.Render("Valor"))
	for _, it := range items {
		stock := grams(it.StockGrams)
		if it.StockGrams < 0 {
			stock = expenseStyle.Render(stock)
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			it.ID, it.Type, it.Brand, it.Color, stock, money(it.PricePerKg), money(it.Value())); err != nil {
			return fmt.Errorf("write inventory row: %w", err)
		}
	}
	return tw.Flush()
}

func (c *cli) inventoryAddCmd() *cobra.Command {
	var flags itemFlags
	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Add a material",
		Example: `  limonero inventory add --type PLA --brand Grilon --color Rojo --stock 1000 --price 25000`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			item, err := c.app.Inventory(c.session(cmd)).Add(cmd.Context(), flags.item)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), subtleStyle.Render("id: "+item.ID))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func (c *cli) inventoryUpdateCmd() *cobra.Command {
	var flags itemFlags
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change fields of a material; unset flags keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := c.app.Inventory(c.session(cmd))
			item, err := svc.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = svc.Update(cmd.Context(), flags.apply(cmd, item))
			return err
		},
	}
	flags.register(cmd)
	return cmd
}

func (c *cli) inventoryDuplicateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "duplicate ID",
		Short: "Copy a material under a new id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dup, err := c.app.Inventory(c.session(cmd)).Duplicate(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), subtleStyle.Render("id: "+dup.ID))
			return nil
		},
	}
}

func (c *cli) inventoryDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a material",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return declinedOK(cmd, c.app.Inventory(c.session(cmd)).Delete(cmd.Context(), args[0]))
		},
	}
}
