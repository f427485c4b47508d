package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Simplici0/limonero/internal/domain"
)

func (c *cli) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the cost parameters used for quotes",
	}
	cmd.AddCommand(c.configShowCmd(), c.configSetCmd(), c.configUseMaterialCmd())
	return cmd
}

func writeCostConfig(w io.Writer, cfg domain.CostConfig) error {
	tw := newTable(w)
	rows := [][2]string{
		{"Filamento ($/kg)", money(cfg.FilamentPricePerKg)},
		{"Energía ($/kWh)", money(cfg.EnergyPricePerKwh)},
		{"Consumo (W)", strconv.FormatFloat(cfg.Wattage, 'f', -1, 64)},
		{"Desgaste ($/h)", money(cfg.WearCostPerHour)},
		{"Repuestos", money(cfg.SparePartsCost)},
		{"Margen de error (%)", strconv.FormatFloat(cfg.ErrorMarginPercent, 'f', -1, 64)},
		{"Multiplicador", strconv.FormatFloat(cfg.ProfitMultiplier, 'f', -1, 64)},
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(tw, "%s\t%s\n", r[0], r[1]); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
	}
	return tw.Flush()
}

func (c *cli) configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the active configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.app.CostConfig(c.session(cmd)).Config(cmd.Context())
			if err != nil {
				return err
			}
			title(cmd.OutOrStdout(), "Configuración")
			return writeCostConfig(cmd.OutOrStdout(), cfg)
		},
	}
}

func (c *cli) configSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "set",
		Short:   "Change configuration values; unset flags keep their value",
		Example: `  limonero config set --multiplier 2.5 --margin 10`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := c.app.CostConfig(c.session(cmd))
			cfg, err := svc.Config(cmd.Context())
			if err != nil {
				return err
			}
			fs := cmd.Flags()
			for name, dst := range map[string]*float64{
				"filament-price": &cfg.FilamentPricePerKg,
				"energy-price":   &cfg.EnergyPricePerKwh,
				"wattage":        &cfg.Wattage,
				"wear-cost":      &cfg.WearCostPerHour,
				"spare-parts":    &cfg.SparePartsCost,
				"margin":         &cfg.ErrorMarginPercent,
				"multiplier":     &cfg.ProfitMultiplier,
			} {
				if !fs.Changed(name) {
					continue
				}
				if *dst, err = fs.GetFloat64(name); err != nil {
					return err
				}
			}
			if err := svc.SaveConfig(cmd.Context(), cfg); err != nil {
				return err
			}
			return writeCostConfig(cmd.OutOrStdout(), cfg)
		},
	}
	fs := cmd.Flags()
	fs.Float64("filament-price", 0, "filament price per kg")
	fs.Float64("energy-price", 0, "energy price per kWh")
	fs.Float64("wattage", 0, "printer consumption in watts")
	fs.Float64("wear-cost", 0, "machine wear cost per hour")
	fs.Float64("spare-parts", 0, "spare parts cost")
	fs.Float64("margin", 0, "error margin percent")
	fs.Float64("multiplier", 0, "profit multiplier")
	return cmd
}

func (c *cli) configUseMaterialCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use-material ID",
		Short: "Use a material's price per kg as the filament price",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.app.CostConfig(c.session(cmd)).UseMaterialPrice(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeCostConfig(cmd.OutOrStdout(), cfg)
		},
	}
}
