// 程序入口：读取配置、装配缓存与后端并启动 HTTP 服务；路由注册在 internal/api
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"route-bench/internal/api"
	"route-bench/internal/app"
	"route-bench/internal/logger"
	"route-bench/internal/middleware"
	"route-bench/internal/utils"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
	l := logger.Setup()
	l.Debug("log_init_ok")
	apiBase := strings.TrimRight(utils.Env("API_BASE", "/api"), "/")
	l.Debug("config_api_base", "base", apiBase)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, app.OptionsFromEnv())
	if err != nil {
		l.Error("app_init_error", "err", err)
		os.Exit(1)
	}
	defer a.Close()

	mux := http.NewServeMux()
	mux.Handle(apiBase+"/", http.StripPrefix(apiBase, api.BuildRoutes(a.Service)))

	addr := utils.Env("ADDR", ":8080")
	handler := logger.AccessMiddleware(l)(mux)
	handler = middleware.Wrap(handler)
	s := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if utils.EnvBool("TLS_ENABLE", false) {
			certPath := utils.Env("TLS_CERT_PATH", filepath.Join("data", "certs", "server.crt"))
			keyPath := utils.Env("TLS_KEY_PATH", filepath.Join("data", "certs", "server.key"))
			if err := utils.EnsureSelfSignedCert(certPath, keyPath, strings.Split(utils.Env("TLS_HOSTS", "route-bench.local"), ",")...); err != nil {
				return err
			}
			l.Info("listening_tls", "addr", addr, "cert", certPath)
			err = s.ListenAndServeTLS(certPath, keyPath)
		} else {
			l.Info("listening", "addr", addr)
			err = s.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	// 收到信号或监听失败时优雅关闭
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Shutdown(sctx)
	})
	if err := g.Wait(); err != nil {
		l.Error("server_error", "err", err)
		os.Exit(1)
	}
	l.Info("server_stopped")
}
