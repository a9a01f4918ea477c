package commands

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"

	"route-bench/internal/algo"
)

func (c *CLI) newRegionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "regions",
		Short: "List sampling regions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			for _, r := range c.app.Service.Regions.List() {
				if _, err := fmt.Fprintf(w, "%s\t%d\t%s\n", r.Name, len(r.Rings), r.Label); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (c *CLI) newAlgosCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "algos",
		Short: "List or add algorithm definitions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			set := c.app.Service.Algos.Snapshot()
			ids := set.IDs()
			sort.Strings(ids)
			w := cmd.OutOrStdout()
			for _, id := range ids {
				d := set[id]
				if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", id, d.API, d.Name, d.NumRoutes); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.AddCommand(c.newAlgosAddCmd())
	return cmd
}

func (c *CLI) newAlgosAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <file>",
		Short: "Validate and register a single YAML/JSON definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := os.ReadFile(args[0])
			if err != nil {
				return zerr.With(zerr.Wrap(err, "read definition"), "file", args[0])
			}
			var d algo.Definition
			// YAML 是 JSON 的超集，两种格式走同一个解码器
			if err := yaml.Unmarshal(b, &d); err != nil {
				return zerr.With(zerr.Wrap(algo.ErrMalformedDefinition, err.Error()), "file", args[0])
			}
			id, err := c.app.Service.Algos.Add(d)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), id)
			return err
		},
	}
}
