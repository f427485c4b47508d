package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Simplici0/limonero/internal/pricing"
)

var (
	errFormNotReady  = errors.New("indica --weight o --hours para cotizar")
	errPriceOverflow = errors.New("el trabajo es demasiado grande para cotizar")
)

type jobFlags struct {
	form pricing.JobForm
}

func (j *jobFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&j.form.Hours, "hours", "", "print time, whole hours")
	f.StringVar(&j.form.Minutes, "minutes", "", "print time, extra minutes")
	f.StringVar(&j.form.Weight, "weight", "", "filament used in grams")
	f.StringVar(&j.form.Supplies, "supplies", "", "extra supplies cost")
}

func (c *cli) quoteCmd() *cobra.Command {
	var (
		job   jobFlags
		round string
	)
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Compute the cost breakdown and sale price of a print job",
		Example: `  limonero quote --hours 2 --weight 100
  limonero quote --hours 1 --minutes 30 --weight 45 --round up`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !job.form.Ready() {
				return errFormNotReady
			}
			cfg, err := c.app.CostConfig(c.session(cmd)).Config(cmd.Context())
			if err != nil {
				return err
			}

			in := pricing.ParseJobForm(job.form)
			res := pricing.ComputeCost(in, cfg)
			if !res.Finite() {
				return errPriceOverflow
			}

			out := cmd.OutOrStdout()
			title(out, "Cotización")
			if err := writeBreakdown(out, res); err != nil {
				return err
			}
			if round != "" {
				dir, err := pricing.ParseDirection(round)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Precio redondeado: %s\n", totalStyle.Render(money(pricing.SmartRound(res.Totals.SalePrice, dir, pricing.DefaultStep))))
			}
			return nil
		},
	}
	job.register(cmd)
	cmd.Flags().StringVar(&round, "round", "", "also show the sale price rounded up or down to the next 100")
	return cmd
}

func writeBreakdown(w io.Writer, res pricing.Result) error {
	b, t := res.Breakdown, res.Totals
	tw := newTable(w)
	rows := [][2]string{
		{"Material", money(b.MaterialCost)},
		{"Energía", fmt.Sprintf("%s (%s kWh)", money(b.EnergyCost), printer.Sprintf("%.3f", b.ConsumptionKWh))},
		{"Desgaste", money(b.WearCost)},
		{"Insumos", money(b.SuppliesCost)},
		{"Subtotal", money(b.Subtotal)},
		{"Margen de error", money(b.ErrorMargin)},
		{"Costo total", money(t.TotalCost)},
		{"Precio de venta", totalStyle.Render(money(t.SalePrice))},
		{"Ganancia neta", money(t.NetProfit)},
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(tw, "%s\t%s\n", r[0], r[1]); err != nil {
			return fmt.Errorf("write breakdown: %w", err)
		}
	}
	return tw.Flush()
}
