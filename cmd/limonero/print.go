package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Simplici0/limonero/internal/domain"
	"github.com/Simplici0/limonero/internal/pricing"
	"github.com/Simplici0/limonero/internal/printjob"
)

func (c *cli) printCmd() *cobra.Command {
	var (
		job         jobFlags
		materialID  string
		price       float64
		rounds      []string
		client      string
		description string
	)
	cmd := &cobra.Command{
		Use:   "print",
		Short: "Record a finished print: deduct filament and book the sale",
		Long: `Quote the job, then deduct the filament from the chosen material and
record the sale as income in the cash book, in one step.

When the material has less stock than the job needs you are asked to
confirm; --yes answers for you.`,
		Example: `  limonero print --hours 2 --weight 100 --material <id> --round up --client Ana`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if !job.form.Ready() {
				return errFormNotReady
			}
			sess := c.session(cmd)
			cfg, err := c.app.CostConfig(sess).Config(ctx)
			if err != nil {
				return err
			}

			wf := c.app.PrintJob(sess)
			in := pricing.ParseJobForm(job.form)
			if err := wf.Preview(in, pricing.ComputeCost(in, cfg)); err != nil {
				return err
			}
			if err := wf.Open(materialID); err != nil {
				return err
			}
			if cmd.Flags().Changed("price") {
				if err := wf.SetPrice(price); err != nil {
					return err
				}
			}
			for _, r := range rounds {
				dir, err := pricing.ParseDirection(r)
				if err != nil {
					return err
				}
				if _, err := wf.Round(dir); err != nil {
					return err
				}
			}
			if err := wf.SetClient(client); err != nil {
				return err
			}
			if err := wf.SetDescription(description); err != nil {
				return err
			}

			receipt, err := wf.Confirm(ctx)
			if errors.Is(err, domain.ErrNoMaterialSelected) {
				return fmt.Errorf("indica --material: %w", err)
			}
			if err != nil {
				return declinedOK(cmd, err)
			}
			writeReceipt(cmd, receipt)
			return nil
		},
	}
	job.register(cmd)
	f := cmd.Flags()
	f.StringVar(&materialID, "material", "", "inventory item the job was printed with")
	f.Float64Var(&price, "price", 0, "charge this price instead of the computed sale price")
	f.StringSliceVar(&rounds, "round", nil, "round the price up or down to the next 100, repeatable")
	f.StringVar(&client, "client", "", "client name")
	f.StringVar(&description, "description", "", "description for the cash book entry")
	return cmd
}

func writeReceipt(cmd *cobra.Command, r *printjob.Receipt) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, boxStyle.Render(fmt.Sprintf("%s\nCobrado: %s\nStock restante de %s %s: %s",
		r.Movement.Description,
		totalStyle.Render(money(r.Movement.Amount)),
		r.Item.Type, r.Item.Color, grams(r.Item.StockGrams),
	)))
}
