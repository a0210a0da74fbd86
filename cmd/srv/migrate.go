package main

import (
	"fmt"

	"github.com/rafflefi/backend/migration"

	"github.com/urfave/cli/v2"
)

func (s *srv) startMigrate(cctx *cli.Context) error {
	if err := s.loadDatabase(); err != nil {
		return err
	}

	version := cctx.String("version")
	if version == "" {
		return migration.Migrate(s.ctx)
	}

	migrator, ok := migration.Migrators[version]
	if !ok {
		return fmt.Errorf("not found version %s", version)
	}

	return migrator(s.ctx)
}
