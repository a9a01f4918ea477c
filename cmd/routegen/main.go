// Package main is the entry point for the routegen CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/joho/godotenv"

	"route-bench/cmd/routegen/commands"
	"route-bench/internal/app"
	"route-bench/internal/logger"
)

func main() {
	if err := run(); err != nil {
		// zerr 的 %+v 输出附带元数据
		_, _ = fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
	logger.Setup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := app.New(ctx, app.OptionsFromEnv())
	if err != nil {
		return err
	}
	defer a.Close()

	return commands.New(a).Execute(ctx)
}
