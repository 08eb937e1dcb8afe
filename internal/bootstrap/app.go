package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	redisv9 "github.com/redis/go-redis/v9"

	"pdfchat/internal/ai"
	"pdfchat/internal/app"
	"pdfchat/internal/config"
	"pdfchat/internal/index"
	"pdfchat/internal/index/keyword"
	"pdfchat/internal/index/memvec"
	"pdfchat/internal/index/qdrant"
	"pdfchat/internal/index/redisvec"
	rabbitmqClient "pdfchat/internal/platform/rabbitmq"
	redisClient "pdfchat/internal/platform/redis"
	"pdfchat/internal/store"
)

type App struct {
	Config    *config.Config
	Store     *store.SessionStore
	Index     index.Index
	LLM       *ai.Client
	Publisher app.ChatEventPublisher

	Redis  *redisv9.Client  // set only for the redis index backend
	MQConn *amqp.Connection // set only when chat events are enabled

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	llm := ai.NewClient(ai.Config{
		BaseURL:        cfg.LLM.BaseURL,
		APIKey:         cfg.LLM.APIKey,
		Model:          cfg.LLM.Model,
		EmbeddingModel: cfg.LLM.EmbeddingModel,
		Temperature:    cfg.LLM.Temperature,
		MaxTokens:      cfg.LLM.MaxTokens,
	})

	a := &App{
		Config:    cfg,
		Store:     store.NewSessionStore(),
		LLM:       llm,
		StartedAt: time.Now(),
	}

	switch cfg.Index.Backend {
	case config.IndexKeyword:
		a.Index = keyword.New()
	case config.IndexMemory:
		a.Index = memvec.New(llm)
	case config.IndexRedis:
		redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		a.Redis = redisCli
		a.Index = redisvec.New(redisCli, llm)
	case config.IndexQdrant:
		q := qdrant.New(qdrant.Config{
			URL:        cfg.Qdrant.URL,
			APIKey:     cfg.Qdrant.APIKey,
			Collection: cfg.Qdrant.Collection,
			Timeout:    time.Duration(cfg.Qdrant.TimeoutSecs) * time.Second,
		}, llm)
		if err := q.EnsureCollection(ctx, cfg.Index.EmbeddingDim); err != nil {
			return nil, fmt.Errorf("ensure qdrant collection failed: %w", err)
		}
		a.Index = q
	default:
		return nil, fmt.Errorf("unknown index backend %q", cfg.Index.Backend)
	}

	if cfg.RabbitMQ.Enabled {
		mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
		if err != nil {
			return nil, err
		}
		a.MQConn = mqConn
		a.Publisher = rabbitmqClient.NewChatEventPublisher(mqConn, cfg.RabbitMQ.ChatEventsQueue)
	}

	return a, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	return closeErr
}
