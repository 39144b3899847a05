package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/NgigiN/ledger/internal/api"
	"github.com/NgigiN/ledger/internal/config"
	"github.com/NgigiN/ledger/internal/discord"
	"github.com/NgigiN/ledger/internal/ledger"
	"github.com/NgigiN/ledger/internal/storage"
)

func init() {
	log.SetOutput(os.Stdout)
	log.SetFormatter(&log.TextFormatter{
		DisableQuote: true,
	})
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration %v\n", err)
		os.Exit(1)
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatalf("invalid LOG_LEVEL: %v", err)
	}
	log.SetLevel(level)
	logger := log.StandardLogger()

	db, err := storage.NewDatabase(cfg.DBDriver, cfg.DBDSN, logger)
	if err != nil {
		log.Fatalf("Failed to initialize the database: %+v", err)
	}
	defer db.Close()

	engine := ledger.NewEngine(logger, db, ledger.SystemClock{})

	var bot *discord.Bot
	if cfg.DiscordEnabled() {
		bot, err = discord.NewBot(cfg, engine, logger)
		if err != nil {
			log.Fatalf("Failed to initialize the discord bot: %+v", err)
		}
		if err := bot.Start(); err != nil {
			log.Fatalf("Failed to start bot: %+v", err)
		}
		log.Info("Bot is running...")
	}

	e := api.NewRouter(api.NewRestController(logger, engine, db))
	go func() {
		address := fmt.Sprintf(":%d", cfg.ApiPort)
		if err := e.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("failed to start the server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-quit

	if bot != nil {
		bot.Stop()
		log.Info("Bot stopped.")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.WithError(err).Error("failing shutting down the server")
	} else {
		log.Info("shutting down the server")
	}
}
