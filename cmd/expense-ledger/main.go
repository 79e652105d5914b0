package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"expense-ledger-go/internal/app"
	"expense-ledger-go/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

func main() {
	bootLog := logger.NewFromEnv()
	bootLog.Info("app: starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(bootLog)
	if err != nil {
		bootLog.Critical("app: init failed", "err", err)
		os.Exit(1)
	}
	log := application.Logger()

	srv := application.HTTPServer()
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("http: listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		if ctx.Err() != nil {
			log.Info("app: shutdown signal received")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	exitCode := 0
	if err := group.Wait(); err != nil {
		log.Critical("http: server failed", "addr", srv.Addr, "err", err)
		exitCode = 1
	}

	if err := application.Close(); err != nil {
		log.Error("app: close failed", "err", err)
		exitCode = 1
	}

	if exitCode == 0 {
		log.Info("app: stopped")
		return
	}

	os.Exit(exitCode)
}
