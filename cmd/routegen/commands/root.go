// Package commands 实现 routegen 命令行：生成起终点、解析路线、导出图表与离线数据
package commands

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"route-bench/internal/app"
	"route-bench/internal/logger"
)

// CLI：命令行入口
type CLI struct {
	app     *app.App
	rootCmd *cobra.Command
}

// New 以装配好的应用构造命令树
func New(a *app.App) *CLI {
	rootCmd := &cobra.Command{
		Use:           "routegen",
		Short:         "Synthetic routing workload generator with a multi-tier route cache",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Debug logging to stderr")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		if v, _ := cmd.Flags().GetBool("verbose"); v {
			logger.Set(logger.New(cmd.ErrOrStderr(), "debug", ""))
		}
	}

	c := &CLI{app: a, rootCmd: rootCmd}

	rootCmd.AddCommand(c.newRegionsCmd())
	rootCmd.AddCommand(c.newAlgosCmd())
	rootCmd.AddCommand(c.newPairsCmd())
	rootCmd.AddCommand(c.newRoutesCmd())
	rootCmd.AddCommand(c.newChartCmd())
	rootCmd.AddCommand(c.newExportCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOut 重定向结果输出
func (c *CLI) SetOut(w io.Writer) {
	c.rootCmd.SetOut(w)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
