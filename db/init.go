package db

import (
	"context"

	"github.com/SaiNageswarS/go-api-boot/odm"
)

func InitCatalogDB(ctx context.Context, mongo odm.MongoClient, tenant string) error {
	return odm.EnsureIndexes[ProductModel](ctx, mongo, tenant)
}
