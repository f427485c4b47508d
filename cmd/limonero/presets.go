package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Simplici0/limonero/internal/domain"
)

func (c *cli) presetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "Save and apply named configurations",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List presets in display order",
			RunE: func(cmd *cobra.Command, _ []string) error {
				presets, err := c.app.CostConfig(c.session(cmd)).Presets(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(presets) == 0 {
					fmt.Fprintln(out, subtleStyle.Render("No hay presets guardados."))
					return nil
				}
				tw := newTable(out)
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", headerStyle.Render("#"), headerStyle.Render("ID"),
					headerStyle.Render("Nombre"), headerStyle.Render("Multiplicador"))
				for i, p := range presets {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i, p.ID, p.Name, strconv.FormatFloat(p.Config.ProfitMultiplier, 'f', -1, 64))
				}
				return tw.Flush()
			},
		},
		c.presetsSaveCmd(),
		&cobra.Command{
			Use:   "apply ID",
			Short: "Make a preset the active configuration",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := c.app.CostConfig(c.session(cmd)).ApplyPreset(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return writeCostConfig(cmd.OutOrStdout(), cfg)
			},
		},
		&cobra.Command{
			Use:   "delete ID",
			Short: "Delete a preset",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return declinedOK(cmd, c.app.CostConfig(c.session(cmd)).DeletePreset(cmd.Context(), args[0]))
			},
		},
		&cobra.Command{
			Use:   "move FROM TO",
			Short: "Move the preset at position FROM to position TO",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				from, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("from %q: %w", args[0], domain.ErrInvalidInput)
				}
				to, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("to %q: %w", args[1], domain.ErrInvalidInput)
				}
				_, err = c.app.CostConfig(c.session(cmd)).MovePreset(cmd.Context(), from, to)
				return err
			},
		},
	)
	return cmd
}

func (c *cli) presetsSaveCmd() *cobra.Command {
	var editingID string
	cmd := &cobra.Command{
		Use:   "save NAME",
		Short: "Save the active configuration as a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.app.CostConfig(c.session(cmd)).SavePreset(cmd.Context(), args[0], editingID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), subtleStyle.Render("id: "+p.ID))
			return nil
		},
	}
	cmd.Flags().StringVar(&editingID, "id", "", "overwrite this preset instead of creating a new one")
	return cmd
}
