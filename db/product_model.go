package db

import (
	"github.com/SaiNageswarS/go-api-boot/odm"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	CatalogCollectionName = "products"
	VectorIndexName       = "productEmbeddingIndex"
	VectorPath            = "embedding"

	// EmbeddingDimensions matches the text-embedding-3-small model.
	EmbeddingDimensions = 1536
)

// ProductModel is one catalog entry as stored in the index: display
// attributes plus the embedding the similarity search runs over.
type ProductModel struct {
	ProductID      string      `json:"id" bson:"_id"`
	Title          string      `json:"title" bson:"title"`
	Description    string      `json:"description" bson:"description"`
	Price          string      `json:"price" bson:"price"` // display string, e.g. "24.99"
	FormattedPrice string      `json:"formattedPrice" bson:"formattedPrice"`
	Image          string      `json:"image" bson:"image"`
	Link           string      `json:"link" bson:"link"`
	Embedding      bson.Vector `json:"-" bson:"embedding"` // not serialized in JSON
}

func (m ProductModel) Id() string { return m.ProductID }

func (m ProductModel) CollectionName() string { return CatalogCollectionName }

// Indexes
func (m ProductModel) VectorIndexSpecs() []odm.VectorIndexSpec {
	return []odm.VectorIndexSpec{
		{
			Name:          VectorIndexName,
			Path:          VectorPath,
			Type:          "vector",
			NumDimensions: EmbeddingDimensions,
			Similarity:    "cosine",
			Quantization:  "scalar",
		},
	}
}
