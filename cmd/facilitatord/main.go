package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	solana "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/solpay/x402-facilitator/auth"
	"github.com/solpay/x402-facilitator/config"
	"github.com/solpay/x402-facilitator/facilitator"
	"github.com/solpay/x402-facilitator/logger"
	"github.com/solpay/x402-facilitator/metrics"
	"github.com/solpay/x402-facilitator/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("configuration error: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.NewZapLogger(cfg.LogLevel)

	mint, err := solana.PublicKeyFromBase58(cfg.USDCMint)
	if err != nil {
		log.Error("invalid USDC mint", map[string]any{"mint": cfg.USDCMint, "error": err.Error()})
		os.Exit(1)
	}

	fac := facilitator.New(
		facilitator.Config{
			Network:        cfg.Network,
			FacilitatorID:  cfg.FacilitatorID,
			Mint:           mint,
			AssetDecimals:  cfg.AssetDecimals,
			Commitment:     rpc.CommitmentType(cfg.Commitment),
			ConfirmTimeout: cfg.ConfirmTimeout,
		},
		facilitator.NewRPCNetworkClient(cfg.RPCURL),
		facilitator.WithLogger(log),
		facilitator.WithMetrics(metrics.NewPrometheusRecorder()),
	)

	srv := server.New(fac, auth.NewService(), log)
	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: srv.Handler(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("facilitator listening", map[string]any{
			"port":    cfg.Port,
			"network": cfg.Network,
			"rpc":     cfg.RPCURL,
		})
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", map[string]any{"error": err.Error()})
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", map[string]any{"error": err.Error()})
	}
	log.Info("facilitator stopped", nil)
}
