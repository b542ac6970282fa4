package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ailutions/ailutions-site/internal/config"
	"github.com/ailutions/ailutions-site/internal/httpapi"
	"github.com/ailutions/ailutions-site/internal/logging"
	"github.com/ailutions/ailutions-site/internal/maturity"
	"github.com/ailutions/ailutions-site/internal/narrative"
	"github.com/ailutions/ailutions-site/internal/report"
	"github.com/ailutions/ailutions-site/internal/rpc"
	"github.com/ailutions/ailutions-site/internal/submissions"
	"github.com/ailutions/ailutions-site/internal/telemetry"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const shutdownGrace = 10 * time.Second

func main() {
	cfgFile := flag.String("config", "", "Path to a config file (yaml, json or toml)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, *cfgFile)
	cancel()
	if err != nil {
		log.Error().Err(err).Msg("site-server stopped")
		os.Exit(1)
	}
}

// run serves until ctx is cancelled or a listener fails. Every resource it
// opens is released before it returns.
func run(ctx context.Context, cfgFile string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		logging.Setup("info", "text")
		return fmt.Errorf("load config: %w", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	shutdownTracing, err := telemetry.Setup(ctx, cfg.OTel.ServiceName, cfg.OTel.Endpoint)
	if err != nil {
		return fmt.Errorf("telemetry setup: %w", err)
	}
	defer func() {
		sctx, scancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer scancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn().Err(err).Msg("telemetry shutdown")
		}
	}()

	store, err := submissions.Open(ctx, submissions.Config{
		Driver: cfg.Store.Driver,
		Path:   cfg.Store.Path,
		DSN:    cfg.Store.DSN,
	}, afero.NewOsFs())
	if err != nil {
		return fmt.Errorf("open %s submission log: %w", cfg.Store.Driver, err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn().Err(err).Msg("close submission log")
		}
	}()
	log.Info().Str("driver", cfg.Store.Driver).Msg("submission log ready")

	gateway := narrative.NewGateway(newCaller(cfg), narrative.WithTimeout(cfg.Narrative.Timeout))
	chromium := report.NewChromium(cfg.Chrome.Path, cfg.Render.Timeout)

	handler := httpapi.NewServer(httpapi.Deps{
		Log:      store,
		Gateway:  gateway,
		Renderer: report.NewRenderer(chromium, chromium),
		WebDir:   resolveWebDir(cfg.Web.Dir),
	})

	if cfg.GRPC.Addr != "" {
		lis, err := net.Listen("tcp", cfg.GRPC.Addr)
		if err != nil {
			return fmt.Errorf("grpc listen on %s: %w", cfg.GRPC.Addr, err)
		}
		grpcServer := rpc.NewServer(rpc.NewHandler(maturity.DefaultSurvey(), store))
		go func() {
			log.Info().Str("addr", cfg.GRPC.Addr).Msg("grpc listening")
			if err := grpcServer.Serve(lis); err != nil {
				log.Error().Err(err).Msg("grpc server stopped")
			}
		}()
		defer grpcServer.GracefulStop()
	}

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           logging.AccessLog(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}
	served := make(chan struct{})
	defer close(served)
	go func() {
		select {
		case <-ctx.Done():
		case <-served:
			return
		}
		sctx, scancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer scancel()
		if err := srv.Shutdown(sctx); err != nil {
			log.Warn().Err(err).Msg("http shutdown")
		}
	}()

	log.Info().
		Str("addr", cfg.HTTP.Addr).
		Str("provider", cfg.Narrative.Provider).
		Bool("narrative", gateway.Configured()).
		Msg("site-server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// newCaller picks the narrative backend. A missing credential leaves the
// gateway unconfigured so the endpoint answers with a configuration error
// instead of the server refusing to start.
func newCaller(cfg config.Config) narrative.Caller {
	var (
		caller narrative.Caller
		err    error
	)
	switch cfg.Narrative.Provider {
	case "azure-openai":
		caller, err = narrative.NewAzureOpenAICaller(cfg.Azure.Endpoint, cfg.Azure.APIKey, cfg.Azure.Deployment, cfg.Narrative.MaxTokens)
	default:
		caller, err = narrative.NewAnthropicCaller(cfg.Anthropic.APIKey, cfg.Narrative.Model, cfg.Narrative.MaxTokens)
	}
	if err != nil {
		log.Warn().Err(err).Str("provider", cfg.Narrative.Provider).Msg("narrative generation disabled")
		return nil
	}
	return caller
}

func resolveWebDir(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	if _, err := os.Stat(dir); err == nil {
		return dir
	}
	exe, _ := os.Executable()
	candidate := filepath.Join(filepath.Dir(exe), "..", "..", dir)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return dir
}
