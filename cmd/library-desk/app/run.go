package app

import (
	"context"
	"database/sql"
	"time"

	"github.com/DareenAmin/Library-Desk-Agent/configs"
	"github.com/DareenAmin/Library-Desk-Agent/internal/adapter/cache"
	"github.com/DareenAmin/Library-Desk-Agent/internal/adapter/http"
	"github.com/DareenAmin/Library-Desk-Agent/internal/adapter/kafka"
	"github.com/DareenAmin/Library-Desk-Agent/internal/adapter/queue"
	"github.com/DareenAmin/Library-Desk-Agent/internal/adapter/repo"
	"github.com/DareenAmin/Library-Desk-Agent/internal/logging"
	"github.com/DareenAmin/Library-Desk-Agent/internal/usecase"
	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

type App struct {
	Router *gin.Engine
}

func InitWithConfig(cfg configs.Config) (*App, func(), error) {
	logger := logging.Init(cfg.App.Name, cfg.App.LogFile)

	// init database
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		return nil, nil, err
	}
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)
	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := db.PingContext(ctx); err != nil {
		cancel()
		return nil, nil, err
	}
	cancel()

	logger.Info("library-desk: starting up")

	// init redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, nil, err
	}

	// init rabbitmq
	conn, err := amqp091.Dial(cfg.Rabbit.URL)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, nil, err
	}
	producer, err := queue.NewRabbitProducer(ch)
	if err != nil {
		return nil, nil, err
	}

	// infra
	store := repo.NewMySQLStore(db)
	outboxRepo := repo.NewMySQLOutboxRepo(db)
	idem := cache.NewRedisIdempotencyStore(rdb, cfg.Idempotency.TTL)
	orderCache := cache.NewRedisOrderCache(rdb, cfg.Cache.OrderStatusTTL)

	// use cases
	createUC := usecase.NewCreateOrder(store, usecase.SystemClock, idem)
	statusUC := usecase.NewOrderStatus(store, orderCache)
	catalogUC := usecase.NewCatalog(store)
	transcriptUC := usecase.NewTranscript(store, usecase.SystemClock)

	appCtx, stop := context.WithCancel(context.Background())

	// outbox drainer → rabbitmq
	drainer := queue.NewOutboxPublisher(outboxRepo, producer,
		cfg.Outbox.DrainInterval, cfg.Outbox.BatchSize, logging.New("outbox"))
	go drainer.Start(appCtx)

	// kafka listener: warehouse stock deliveries
	if err := setupKafkaListener(appCtx, cfg, catalogUC); err != nil {
		stop()
		return nil, nil, err
	}

	// handlers + router
	oh := http.NewOrderHandler(createUC, statusUC)
	bh := http.NewBookHandler(catalogUC, cfg.Inventory.DefaultThreshold)
	th := http.NewTranscriptHandler(transcriptUC)
	router := http.NewRouter(oh, bh, th)

	cleanup := func() {
		stop()
		_ = ch.Close()
		_ = conn.Close()
		_ = rdb.Close()
		_ = db.Close()
	}

	return &App{Router: router}, cleanup, nil
}

func setupKafkaListener(ctx context.Context, cfg configs.Config, catalog *usecase.Catalog) error {
	grp, err := kafka.NewGroup(cfg.Kafka.Brokers, cfg.Kafka.GroupID)
	if err != nil {
		return err
	}

	log := logging.New("kafka")
	h := kafka.NewStockReceivedHandler(catalog, log)
	consumer := kafka.NewConsumer(grp, []string{cfg.Kafka.StockReceivedTopic}, h.Handle, log)

	go func() {
		if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
			log.Error("kafka consumer stopped", "err", err)
		}
	}()
	return nil
}
