package main

import (
	"fmt"
	"sip-stack/sip/method"
	"sip-stack/transport/conntable"
	"sip-stack/transport/registry"
	"sip-stack/transport/tuple"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func (cli *CLI) renderCmd() *cobra.Command {
	var connID uint64

	cmd := &cobra.Command{
		Use:   "render <endpoint>...",
		Short: "Print endpoints in log form",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tuples, err := parseEndpoints(args)
			if err != nil {
				return err
			}
			for _, tup := range tuples {
				fmt.Fprintln(cli.out, tup.WithConnectionID(tuple.ConnectionID(connID)))
			}
			return nil
		},
	}
	cmd.Flags().Uint64Var(&connID, "conn-id", 0, "connection id to attach")

	return cmd
}

func (cli *CLI) compareCmd() *cobra.Command {
	var policyName string

	cmd := &cobra.Command{
		Use:   "compare <endpoint> <endpoint>",
		Short: "Order two endpoints under a comparison policy",
		Long: `Order two endpoints under a comparison policy.

Policies: exact, any-interface, any-port, any-port-any-interface, or all.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tuples, err := parseEndpoints(args)
			if err != nil {
				return err
			}

			policies := tuple.Policies[:]
			if policyName != "all" {
				p, err := tuple.ParsePolicy(policyName)
				if err != nil {
					return err
				}
				policies = []tuple.Policy{p}
			}

			for _, p := range policies {
				fmt.Fprintf(cli.out, "%-22s %s\n", p, relation(p.Compare(tuples[0], tuples[1])))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&policyName, "policy", "p", tuple.Exact.String(), "comparison policy")

	return cmd
}

func relation(c int) string {
	switch {
	case c < 0:
		return "<"
	case c > 0:
		return ">"
	}
	return "=="
}

func (cli *CLI) hashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash <endpoint>...",
		Short: "Print the identity hash and socket address of endpoints",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tuples, err := parseEndpoints(args)
			if err != nil {
				return err
			}
			for _, tup := range tuples {
				fmt.Fprintf(cli.out, "%016x %x %s\n", tup.Hash(), tup.RawSockaddr(), tup)
			}
			return nil
		},
	}
}

// registry binds every configured transport.
func (cli *CLI) registry() (*registry.Registry, error) {
	reg := registry.New(cli.logger, cli.cfg.Ports.PortTable())

	for _, t := range cli.cfg.Transports {
		iface, err := t.Tuple()
		if err != nil {
			return nil, errors.Wrapf(err, "transport %s", t.Name)
		}
		if _, err := reg.Add(t.Name, iface); err != nil {
			return nil, err
		}
	}

	return reg, nil
}

func (cli *CLI) selectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select <endpoint>...",
		Short: "Select the configured transport for each destination",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dests, err := parseEndpoints(args)
			if err != nil {
				return err
			}

			reg, err := cli.registry()
			if err != nil {
				return err
			}
			conns := conntable.New(clock.New(), cli.cfg.Conn.IdleTimeout, cli.logger)

			for _, dest := range dests {
				t, err := reg.Select(dest)
				if err != nil {
					return err
				}

				routed := conns.Attach(dest.WithTransport(t.ID))
				fmt.Fprintln(cli.out, routed.Describe(reg))
			}
			return nil
		},
	}
}

type listing struct {
	Name      string `yaml:"name"`
	ID        string `yaml:"id"`
	Interface string `yaml:"interface"`
	Hash      string `yaml:"hash"`
}

func (cli *CLI) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the configured transports in exact order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := cli.registry()
			if err != nil {
				return err
			}

			var out []listing
			for _, t := range reg.List() {
				out = append(out, listing{
					Name:      t.Name,
					ID:        t.ID.String(),
					Interface: t.Interface.WithTransport(tuple.TransportID{}).String(),
					Hash:      fmt.Sprintf("%016x", t.Interface.Hash()),
				})
			}

			enc := yaml.NewEncoder(cli.out)
			if err := enc.Encode(out); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}

func (cli *CLI) methodCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "method [name]...",
		Short: "Resolve SIP method names, or list the known ones",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				for _, m := range method.All() {
					fmt.Fprintln(cli.out, m)
				}
				return nil
			}
			for _, arg := range args {
				fmt.Fprintf(cli.out, "%s %s\n", arg, method.Lookup(arg))
			}
			return nil
		},
	}
}
