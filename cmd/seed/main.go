package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/SaiNageswarS/go-api-boot/config"
	"github.com/SaiNageswarS/go-api-boot/dotenv"
	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-api-boot/odm"
	"github.com/SaiNageswarS/go-collection-boot/async"
	"github.com/brightside-ai/supplement-chat/appconfig"
	"github.com/brightside-ai/supplement-chat/db"
	"github.com/brightside-ai/supplement-chat/llm"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

// seedProduct mirrors one entry of the catalog export file.
type seedProduct struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Price          string `json:"price"`
	FormattedPrice string `json:"formattedPrice"`
	Image          string `json:"image"`
	Link           string `json:"link"`
}

func main() {
	productsPath := flag.String("products", "products.json", "Path to the catalog export JSON file")
	flag.Parse()

	dotenv.LoadEnv()

	ccfgg := &appconfig.AppConfig{}
	err := config.LoadConfig("config.ini", ccfgg)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	mongoClient, err := mongo.Connect(options.Client().ApplyURI(ccfgg.MongoURI))
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}

	ctx := context.Background()
	defer func() { _ = mongoClient.Disconnect(ctx) }()

	if err := db.InitCatalogDB(ctx, mongoClient, ccfgg.CatalogTenant); err != nil {
		logger.Fatal("Failed to ensure catalog indexes", zap.Error(err))
	}

	products, err := loadProducts(*productsPath)
	if err != nil {
		logger.Fatal("Failed to load catalog export", zap.String("path", *productsPath), zap.Error(err))
	}

	embedder := llm.NewOpenAIEmbeddingClient(ccfgg.EmbeddingModel)
	collection := odm.CollectionOf[db.ProductModel](mongoClient, ccfgg.CatalogTenant)

	for _, product := range products {
		embeddingText := product.Title + "\n" + product.Description

		embedding, err := async.Await(embedder.GetEmbedding(ctx, embeddingText))
		if err != nil {
			logger.Fatal("Failed to embed product", zap.String("id", product.ID), zap.Error(err))
		}

		model := db.ProductModel{
			ProductID:      product.ID,
			Title:          product.Title,
			Description:    product.Description,
			Price:          product.Price,
			FormattedPrice: product.FormattedPrice,
			Image:          product.Image,
			Link:           product.Link,
			Embedding:      bson.NewVector(embedding),
		}

		if _, err := async.Await(collection.Save(ctx, model)); err != nil {
			logger.Fatal("Failed to save product", zap.String("id", product.ID), zap.Error(err))
		}
	}

	logger.Info("Catalog seeded", zap.Int("products", len(products)))
}

func loadProducts(path string) ([]seedProduct, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var products []seedProduct
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, err
	}
	return products, nil
}
