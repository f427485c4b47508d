package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Simplici0/limonero/internal/app"
	"github.com/Simplici0/limonero/internal/config"
	"github.com/Simplici0/limonero/internal/confirm"
	"github.com/Simplici0/limonero/internal/logger"
	"github.com/Simplici0/limonero/internal/notify"
)

type cli struct {
	root    *cobra.Command
	v       *viper.Viper
	cfgFile string
	yes     bool

	app *app.App
	log zerolog.Logger
}

func newCLI() *cli {
	c := &cli{v: viper.New(), log: zerolog.Nop()}
	c.root = &cobra.Command{
		Use:               "limonero",
		Short:             "Cotizador, inventario y caja para impresión 3D",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.open,
	}

	flags := c.root.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "config file (default: ./config.yaml if present)")
	flags.String("db", "", "SQLite database path")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.BoolVarP(&c.yes, "yes", "y", false, "answer yes to every confirmation")
	_ = c.v.BindPFlag("db_path", flags.Lookup("db"))
	_ = c.v.BindPFlag("log_level", flags.Lookup("log-level"))

	c.root.AddCommand(
		c.quoteCmd(),
		c.printCmd(),
		c.inventoryCmd(),
		c.cashbookCmd(),
		c.configCmd(),
		c.presetsCmd(),
		c.backupCmd(),
		c.dashboardCmd(),
	)
	return c
}

// execute runs the command line in args and closes the database
// afterwards, whether or not the command failed.
func (c *cli) execute(ctx context.Context, args []string) error {
	c.root.SetArgs(args)
	err := c.root.ExecuteContext(ctx)
	if c.app != nil {
		if cerr := c.app.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close database: %w", cerr)
		}
		c.app = nil
	}
	return err
}

func (c *cli) open(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.v, c.cfgFile)
	if err != nil {
		return err
	}
	c.log = logger.New(logger.Config{Env: cfg.Env, Level: cfg.LogLevel, Out: cmd.ErrOrStderr()})

	a, err := app.Open(cfg, c.log)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	c.app = a
	return nil
}

// session answers questions on the terminal unless --yes was given.
func (c *cli) session(cmd *cobra.Command) app.Session {
	var conf confirm.Confirmer = &confirm.Prompt{In: cmd.InOrStdin(), Out: cmd.OutOrStdout()}
	if c.yes {
		conf = confirm.Always
	}
	return app.Session{Confirm: conf, Notify: notify.Console{Out: cmd.OutOrStdout()}}
}
