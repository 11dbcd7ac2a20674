package appconfig

import (
	"github.com/SaiNageswarS/go-api-boot/config"
)

type AppConfig struct {
	config.BootConfig `ini:",extends"`

	MongoURI       string `env:"MONGO-URI" ini:"mongo_uri"`
	CatalogTenant  string `ini:"catalog_tenant"`
	ChatModel      string `ini:"chat_model"`
	EmbeddingModel string `ini:"embedding_model"`
	HTTPPort       string `ini:"http_port"`
}
