package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SaiNageswarS/go-api-boot/config"
	"github.com/SaiNageswarS/go-api-boot/dotenv"
	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/brightside-ai/supplement-chat/agent"
	"github.com/brightside-ai/supplement-chat/appconfig"
	"github.com/brightside-ai/supplement-chat/catalog"
	"github.com/brightside-ai/supplement-chat/db"
	"github.com/brightside-ai/supplement-chat/llm"
	"github.com/brightside-ai/supplement-chat/memory"
	"github.com/brightside-ai/supplement-chat/services"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

func main() {
	dotenv.LoadEnv()

	// load config file
	ccfgg := &appconfig.AppConfig{}
	err := config.LoadConfig("config.ini", ccfgg)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	mongoClient, err := mongo.Connect(options.Client().ApplyURI(ccfgg.MongoURI))
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}

	ctx := getCancellableContext()

	if err := db.InitCatalogDB(ctx, mongoClient, ccfgg.CatalogTenant); err != nil {
		logger.Fatal("Failed to ensure catalog indexes", zap.Error(err))
	}

	searcher := catalog.NewSearcher(mongoClient, ccfgg.CatalogTenant, db.EmbeddingDimensions)

	chatAgent := agent.NewAgentBuilder().
		WithModel(llm.NewOpenAIClient(ccfgg.ChatModel)).
		WithEmbedder(llm.NewOpenAIEmbeddingClient(ccfgg.EmbeddingModel)).
		WithCatalog(searcher).
		Build()

	chatService := services.NewChatService(memory.NewStore(), chatAgent)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	chatService.RegisterRoutes(e)

	go func() {
		if err := e.Start(ccfgg.HTTPPort); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()
	logger.Info("Chat server started", zap.String("port", ccfgg.HTTPPort))

	// catch SIGINT -> drain
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown failed", zap.Error(err))
	}
	if err := searcher.Close(shutdownCtx); err != nil {
		logger.Error("MongoDB disconnect failed", zap.Error(err))
	}
}

func getCancellableContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sig
		cancel()
	}()

	return ctx
}
