package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	echoweb "github.com/gradegator/dashboard/apps/web/echo"
	"github.com/gradegator/dashboard/core"
	"github.com/gradegator/dashboard/core/session"
	logsvc "github.com/gradegator/dashboard/services/logger"
	inmemstore "github.com/gradegator/dashboard/storage/session/inmem"
	redisstore "github.com/gradegator/dashboard/storage/session/redis"
)

func main() {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "WEB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up the session store
	var store session.Store
	redis, err := redisstore.Open(conf)
	switch {
	case err == nil:
		defer redis.Close()
		store = redis
	case conf.Debug:
		// tolerate a missing redis locally
		logger.Warn(fmt.Sprintf("redis unavailable, falling back to in-memory sessions: %v", err))
		store = inmemstore.NewStore(conf.Server.SessionTTL)
	default:
		logger.Fatal(fmt.Sprintf("connecting to redis: %v", err), err)
	}

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	app := echoweb.NewServer(
		&echoweb.Options{
			Addr:         conf.Server.Addr,
			Conf:         conf,
			Logger:       logger,
			SessionStore: store,
		},
	)

	go app.Start()

	// block until interrupted, then give outstanding requests a deadline
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Stop(shutdownCtx); err != nil {
		logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
	}
}
