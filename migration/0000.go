package migration

import (
	"context"

	"github.com/rafflefi/backend/pkg/xcontext"
)

// migrate0000 will create the database with the latest version.
func migrate0000(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(entities()...)
}
