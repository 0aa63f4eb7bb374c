package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danthegoodman1/icefooter/gologger"
	"github.com/danthegoodman1/icefooter/http_server"
	"github.com/danthegoodman1/icefooter/utils"
)

var logger = gologger.NewLogger()

func main() {
	logger.Debug().Msg("starting icefooter")
	ctx := logger.WithContext(context.Background())

	stores, err := NewStores(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("error creating stores")
		os.Exit(1)
	}

	httpServer, err := http_server.StartHTTPServer(stores.MetaStore, stores.DataStore)
	if err != nil {
		logger.Error().Err(err).Msg("error starting http server")
		os.Exit(1)
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
	logger.Warn().Msg("received shutdown signal!")

	sleepTime := utils.SHUTDOWN_SLEEP_SEC
	logger.Info().Msg(fmt.Sprintf("sleeping for %ds before exiting", sleepTime))

	time.Sleep(time.Second * time.Duration(sleepTime))
	logger.Info().Msg(fmt.Sprintf("slept for %ds, exiting", sleepTime))

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown HTTP server")
	} else {
		logger.Info().Msg("successfully shutdown HTTP server")
	}
	if err := stores.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown stores")
	}
}
