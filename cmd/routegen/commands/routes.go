package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"

	"route-bench/internal/bench"
	"route-bench/internal/cache"
	"route-bench/internal/geo"
	"route-bench/internal/route"
)

type target struct {
	region string
	algo   string
}

func (t *target) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&t.region, "region", "r", "", "Region name")
	cmd.Flags().StringVarP(&t.algo, "algo", "a", "", "Algorithm ID")
	_ = cmd.MarkFlagRequired("region")
	_ = cmd.MarkFlagRequired("algo")
}

func (c *CLI) newPairsCmd() *cobra.Command {
	var (
		region    string
		routes    int
		waypoints int
		seed      string
	)
	cmd := &cobra.Command{
		Use:   "pairs",
		Short: "Sample origin/destination pairs without calling any backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, ok := c.app.Service.Regions.Lookup(region)
			if !ok {
				return zerr.With(zerr.Wrap(bench.ErrUnknownRegion, "pairs"), "region", region)
			}
			s := c.app.Service.Resolver.Seed
			if seed != "" {
				s = geo.SeedFromString(seed)
			}
			sampler, err := geo.NewSampler(r, geo.NewSFC32(s), c.app.Service.Resolver.MaxAttempts)
			if err != nil {
				return err
			}
			pairs, err := geo.GeneratePairs(sampler, routes, waypoints)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), pairs)
		},
	}
	cmd.Flags().StringVarP(&region, "region", "r", "", "Region name")
	cmd.Flags().IntVarP(&routes, "routes", "n", 10, "Number of pairs")
	cmd.Flags().IntVarP(&waypoints, "waypoints", "w", 0, "Waypoints per pair")
	cmd.Flags().StringVar(&seed, "seed", "", "Seed string (defaults to the resolver seed)")
	_ = cmd.MarkFlagRequired("region")
	return cmd
}

func (c *CLI) newRoutesCmd() *cobra.Command {
	var (
		t       target
		refresh bool
		summary bool
	)
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Resolve routes through the cache tiers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			recs, err := c.app.Service.GetRoutesByID(cmd.Context(), t.region, t.algo, refresh)
			if err != nil {
				return err
			}
			if summary {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d records\n", len(recs))
				return err
			}
			out, err := route.Marshal(recs)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	t.bind(cmd)
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Invalidate cached entries before resolving")
	cmd.Flags().BoolVar(&summary, "summary", false, "Print the record count only")
	return cmd
}

func (c *CLI) newChartCmd() *cobra.Command {
	var t target
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Resolve routes and print latency/duration/distance series",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// 进程内内存层为空，先解析一次
			if _, err := c.app.Service.GetRoutesByID(cmd.Context(), t.region, t.algo, false); err != nil {
				return err
			}
			data, err := c.app.Service.GetChartDataByID(t.region, t.algo)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), data)
		},
	}
	t.bind(cmd)
	return cmd
}

func (c *CLI) newExportCmd() *cobra.Command {
	var (
		t   target
		dir string
	)
	cmd := &cobra.Command{
		Use:   "export-fixture",
		Short: "Resolve routes and write them as an offline fixture file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := c.app.Service
			def, err := svc.Algos.Get(t.algo)
			if err != nil {
				return err
			}
			recs, err := svc.GetRoutes(cmd.Context(), t.region, def, false)
			if err != nil {
				return err
			}
			key, err := svc.Resolver.Key(t.region, def)
			if err != nil {
				return err
			}
			path, err := cache.WriteFixture(dir, key, recs)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}
	t.bind(cmd)
	cmd.Flags().StringVarP(&dir, "dir", "d", "fixtures", "Output directory")
	return cmd
}
