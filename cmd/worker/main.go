// Command worker is the process entrypoint: it wires config, logging, the
// sandbox/supervisor/language-adapter/batch-evaluator stack, the blob
// fetcher and orchestrator callback, and the HTTP (plus optional NATS)
// intake, then serves until terminated.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/nats-io/nats.go"
	"github.com/proglv/evalworker/internal/batch"
	"github.com/proglv/evalworker/internal/blobstore"
	"github.com/proglv/evalworker/internal/callback"
	"github.com/proglv/evalworker/internal/config"
	"github.com/proglv/evalworker/internal/evalmodel"
	"github.com/proglv/evalworker/internal/facade"
	"github.com/proglv/evalworker/internal/httpapi"
	"github.com/proglv/evalworker/internal/langkit"
	"github.com/proglv/evalworker/internal/logging"
	"github.com/proglv/evalworker/internal/natsintake"
	"github.com/proglv/evalworker/internal/sandbox"
	"github.com/proglv/evalworker/internal/supervisor"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:  "evalworker",
		Usage: "single-language code evaluation worker",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "override Server:Addr"},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("evalworker exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	logger := logging.New(os.Stdout, slog.LevelInfo)
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		// Configuration errors at startup are fatal: the process refuses to
		// start rather than silently running the wrong language.
		return fmt.Errorf("config: %w", err)
	}
	if addr := cmd.String("addr"); addr != "" {
		cfg.ServerAddr = addr
	}

	sup := supervisor.New(logger)
	adapter, err := langkit.New(evalmodel.Language(cfg.Language), sup, logger)
	if err != nil {
		return fmt.Errorf("langkit: %w", err)
	}
	sbox, err := sandbox.New(cfg.WorkingDirectory)
	if err != nil {
		return fmt.Errorf("sandbox: %w", err)
	}
	limits := evalmodel.GlobalLimits{MaxTimeSec: cfg.MaxTimeSec, MaxMemoryMB: cfg.MaxMemoryMB}
	evaluator := batch.New(adapter, sbox, limits, logger)

	fetcher, err := blobstore.NewS3Fetcher(ctx, blobstore.Config{
		Endpoint: cfg.BlobEndpoint,
		Bucket:   cfg.BlobBucket,
	})
	if err != nil {
		return fmt.Errorf("blobstore: %w", err)
	}

	sdkConfig, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("aws config: %w", err)
	}
	secondary := &callback.SecondaryNotifier{SQS: sqs.NewFromConfig(sdkConfig)}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			return fmt.Errorf("nats connect: %w", err)
		}
		defer natsConn.Close()
		secondary.NATS = natsConn
	}
	notifier := callback.NewHTTPNotifier(cfg.OrchestratorAddress, cfg.APIHeaderName, cfg.APIKey, secondary, logger)

	svc := facade.New(evaluator, fetcher, notifier, cfg.MaxConcurrentBatches, logger)

	if cfg.NATSSubject != "" && natsConn != nil {
		sub := natsintake.New(natsConn, cfg.NATSSubject, svc, logger)
		if err := sub.Start(); err != nil {
			return fmt.Errorf("nats intake: %w", err)
		}
		defer sub.Stop()
		logger.Info("nats intake enabled", "subject", cfg.NATSSubject)
	}

	server := &http.Server{Addr: cfg.ServerAddr, Handler: httpapi.New(svc, cfg.APIHeaderName, cfg.APIKey, logger)}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.ServerAddr, "language", cfg.Language)
		serveErr <- server.ListenAndServe()
	}()

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case <-sigCtx.Done():
		logger.Info("shutting down")
		return server.Shutdown(context.Background())
	case err := <-serveErr:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	}
}
