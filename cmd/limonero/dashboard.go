package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Simplici0/limonero/internal/dashboard"
)

const barWidth = 30

func (c *cli) dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show inventory value, balance and the last months of income and expenses",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sum, err := c.app.Dashboard().Summary(cmd.Context(), c.app.Now())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			title(out, "Resumen")
			fmt.Fprintln(out, lipgloss.JoinHorizontal(lipgloss.Top,
				kpi("Valor inventario", money(sum.InventoryValue)),
				kpi("Balance", money(sum.Balance)),
				kpi("Ingresos del mes", money(sum.MonthlyIncome)),
				kpi("Materiales", fmt.Sprint(sum.ItemCount)),
			))
			fmt.Fprintln(out, renderChart(sum))
			return nil
		},
	}
}

func kpi(label, value string) string {
	return boxStyle.Render(subtleStyle.Render(label) + "\n" + totalStyle.Render(value))
}

func renderChart(sum dashboard.Summary) string {
	var b strings.Builder
	for _, m := range sum.Chart {
		fmt.Fprintf(&b, "%-5s %s %s\n", m.Label, incomeStyle.Render(bar(m.Income, sum.ChartMax)), money(m.Income))
		fmt.Fprintf(&b, "%-5s %s %s\n", "", expenseStyle.Render(bar(m.Expense, sum.ChartMax)), money(m.Expense))
	}
	return strings.TrimRight(b.String(), "\n")
}

func bar(v, scale float64) string {
	if scale <= 0 || v <= 0 {
		return ""
	}
	n := int(v / scale * barWidth)
	if n == 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}
