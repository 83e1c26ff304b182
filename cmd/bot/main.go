package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/sellertools/ozon-fbs-bot/internal/api"
	"github.com/sellertools/ozon-fbs-bot/internal/bot"
	"github.com/sellertools/ozon-fbs-bot/internal/config"
	"github.com/sellertools/ozon-fbs-bot/internal/label"
	"github.com/sellertools/ozon-fbs-bot/internal/monitor"
	"github.com/sellertools/ozon-fbs-bot/internal/ozon"
)

// Version is set during build via ldflags
var Version = "dev"

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}
	if log.IsLevelEnabled(logrus.DebugLevel) {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	log.WithField("version", Version).Info("ozon-fbs-bot starting")

	client := ozon.NewClient(cfg.Ozon.ClientID, cfg.Ozon.APIKey)
	if cfg.Ozon.BaseURL != "" {
		client.SetBaseURL(cfg.Ozon.BaseURL)
	}

	composeOpts := label.DefaultComposeOptions()
	if cfg.Label.TextHeight > 0 {
		composeOpts.TextBandHeight = cfg.Label.TextHeight
	}
	barcodeOpts := label.DefaultBarcodeOptions()
	if cfg.Label.ModuleWidth > 0 {
		barcodeOpts.ModuleWidth = cfg.Label.ModuleWidth
	}
	if cfg.Label.ModuleHeight > 0 {
		barcodeOpts.ModuleHeight = cfg.Label.ModuleHeight
	}
	if cfg.Label.QuietZone > 0 {
		barcodeOpts.QuietZone = cfg.Label.QuietZone
	}
	pipeline, err := label.NewPipeline(cfg.Label.FontPath, barcodeOpts, composeOpts)
	if err != nil {
		log.Fatalf("label pipeline: %v", err)
	}

	tgBot, err := bot.New(cfg.Telegram.BotToken, cfg.Telegram.AdminID, client, pipeline,
		bot.Options{QREnabled: cfg.Label.QREnabled}, log)
	if err != nil {
		log.Fatalf("telegram: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var store monitor.SeenStore
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("redis: %v", err)
		}
		store = monitor.NewRedisStore(rdb)
		log.WithField("addr", cfg.Redis.Addr).Info("seen store: redis")
	} else {
		store = monitor.NewMemoryStore()
		log.Info("seen store: memory")
	}

	var server *api.Server
	notifier := monitor.Notifier(tgBot)
	if cfg.Server.Enabled {
		server = api.NewServer(client, pipeline, nil, cfg.Server.Mode, log)
		notifier = monitor.MultiNotifier(tgBot, server)
	}

	mon := monitor.New(client, store, notifier, cfg.Monitor.Interval, log)
	mon.SetBatchSize(cfg.Monitor.Batch)
	tgBot.AttachMonitor(mon)
	if server != nil {
		server.AttachMonitor(mon)
	}
	if cfg.Monitor.Enabled {
		mon.Start(ctx)
	}

	if server != nil {
		go func() {
			addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
			log.WithField("addr", addr).Info("api server listening")
			if err := server.Run(addr); err != nil {
				log.Fatalf("api server: %v", err)
			}
		}()
	}

	go tgBot.Run(ctx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("shutting down")
	cancel()
	mon.Stop()
}
