package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Simplici0/limonero/internal/cashbook"
	"github.com/Simplici0/limonero/internal/domain"
)

const timestampLayout = "02/01/2006 15:04"

// declinedOK turns a declined confirmation into a plain message.
func declinedOK(cmd *cobra.Command, err error) error {
	if errors.Is(err, domain.ErrDeclined) {
		fmt.Fprintln(cmd.OutOrStdout(), subtleStyle.Render("Operación cancelada."))
		return nil
	}
	return err
}

type entryFlags struct {
	direction   string
	amount      float64
	description string
	client      string
}

func (f *entryFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.direction, "direction", "INCOME", "INCOME/INGRESO or EXPENSE/EGRESO")
	fs.Float64Var(&f.amount, "amount", 0, "amount, greater than zero")
	fs.StringVar(&f.description, "description", "", "what the movement is for")
	fs.StringVar(&f.client, "client", "", "client name")
}

// entry builds an Entry from base, overriding the flags the user set.
func (f *entryFlags) entry(cmd *cobra.Command, base cashbook.Entry) (cashbook.Entry, error) {
	fs := cmd.Flags()
	if fs.Changed("direction") || base.Direction == "" {
		dir, err := domain.ParseDirection(f.direction)
		if err != nil {
			return cashbook.Entry{}, err
		}
		base.Direction = dir
	}
	if fs.Changed("amount") {
		base.Amount = f.amount
	}
	if fs.Changed("description") {
		base.Description = f.description
	}
	if fs.Changed("client") {
		base.ClientName = f.client
	}
	return base, nil
}

func (c *cli) cashbookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cashbook",
		Aliases: []string{"caja"},
		Short:   "Manage income and expense movements",
	}
	cmd.AddCommand(c.cashbookListCmd(), c.cashbookAddCmd(), c.cashbookEditCmd(), c.cashbookDeleteCmd())
	return cmd
}

func (c *cli) cashbookListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List movements, newest first, with totals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			movements, err := c.app.Cashbook(c.session(cmd)).List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(movements) == 0 {
				fmt.Fprintln(out, subtleStyle.Render("La caja está vacía."))
				return nil
			}
			title(out, "Caja")
			if err := writeMovements(out, movements); err != nil {
				return err
			}
			t := cashbook.Summarize(movements)
			fmt.Fprintf(out, "\nIngresos: %s  Egresos: %s  Balance: %s\n",
				incomeStyle.Render(money(t.Income)), expenseStyle.Render(money(t.Expense)), totalStyle.Render(money(t.Balance)))
			return nil
		},
	}
}

func writeMovements(w io.Writer, movements []domain.CashMovement) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
		headerStyle.Render("ID"), headerStyle.Render("Fecha"), headerStyle.Render("Monto"),
		headerStyle.Render("Descripción"), headerStyle.Render("Cliente"))
	for _, m := range movements {
		amount := incomeStyle.Render("+" + money(m.Amount))
		if m.Direction == domain.DirectionExpense {
			amount = expenseStyle.Render("-" + money(m.Amount))
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			m.ID, formatTimestamp(m.Timestamp), amount, m.Description, m.ClientName); err != nil {
			return fmt.Errorf("write cashbook row: %w", err)
		}
	}
	return tw.Flush()
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timestampLayout)
}

func (c *cli) cashbookAddCmd() *cobra.Command {
	var flags entryFlags
	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Record a manual movement",
		Example: `  limonero cashbook add --direction EGRESO --amount 3500 --description "Boquilla 0.4"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := flags.entry(cmd, cashbook.Entry{})
			if err != nil {
				return err
			}
			mov, err := c.app.Cashbook(c.session(cmd)).Add(cmd.Context(), e)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), subtleStyle.Render("id: "+mov.ID))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func (c *cli) cashbookEditCmd() *cobra.Command {
	var flags entryFlags
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit a movement; unset flags keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := c.app.Cashbook(c.session(cmd))
			movements, err := svc.List(cmd.Context())
			if err != nil {
				return err
			}
			i := domain.FindMovement(movements, args[0])
			if i < 0 {
				return fmt.Errorf("movement %s: %w", args[0], domain.ErrNotFound)
			}
			m := movements[i]
			e, err := flags.entry(cmd, cashbook.Entry{
				Direction:   m.Direction,
				Amount:      m.Amount,
				Description: m.Description,
				ClientName:  m.ClientName,
			})
			if err != nil {
				return err
			}
			_, err = svc.Edit(cmd.Context(), args[0], e)
			return err
		},
	}
	flags.register(cmd)
	return cmd
}

func (c *cli) cashbookDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a movement, returning its filament to stock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := c.app.Cashbook(c.session(cmd)).Delete(cmd.Context(), args[0])
			return declinedOK(cmd, err)
		},
	}
}
