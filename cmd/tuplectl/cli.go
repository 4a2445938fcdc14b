package main

import (
	"fmt"
	"io"
	"log/slog"
	"sip-stack/config"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// CLI is the cobra-based command-line interface.
type CLI struct {
	root *cobra.Command

	out, errOut io.Writer

	configPath string
	logLevel   string

	cfg      *config.Config
	logger   *slog.Logger
	closeLog func() error
}

func NewCLI(out, errOut io.Writer) *CLI {
	cli := &CLI{out: out, errOut: errOut}

	cli.root = &cobra.Command{
		Use:               "tuplectl",
		Short:             "Inspect transport endpoints and transport selection",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return cli.setup() },
	}

	cli.root.PersistentFlags().StringVarP(&cli.configPath, "config", "c", "", "config file path")
	cli.root.PersistentFlags().StringVar(&cli.logLevel, "log-level", "", "override log.level")

	cli.root.AddCommand(
		cli.renderCmd(),
		cli.compareCmd(),
		cli.hashCmd(),
		cli.selectCmd(),
		cli.listCmd(),
		cli.methodCmd(),
	)

	cli.root.SetOut(out)
	cli.root.SetErr(errOut)

	return cli
}

func (cli *CLI) setup() error {
	cfg := config.Default()
	if cli.configPath != "" {
		loaded, err := config.Load(cli.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if cli.logLevel != "" {
		cfg.Log.Level = cli.logLevel
		if err := cfg.Validate(); err != nil {
			return errors.Wrap(err, "--log-level")
		}
	}

	cli.cfg = cfg
	cli.logger, cli.closeLog = newLogger(cfg.Log, cli.errOut)

	return nil
}

// Run executes the command line and returns the process exit code.
func (cli *CLI) Run(args []string) int {
	cli.root.SetArgs(args)

	err := cli.root.Execute()
	if cli.closeLog != nil {
		_ = cli.closeLog()
	}

	if err != nil {
		fmt.Fprintf(cli.errOut, "Error: %v\n", err)
		return 1
	}
	return 0
}
