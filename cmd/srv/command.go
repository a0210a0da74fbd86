package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	s.app = cli.NewApp()
	s.app.Action = cli.ShowAppHelp
	s.app.Name = "RaffleFi"
	s.app.Usage = "Backend services of the raffle marketplace"
	s.app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to the toml configuration file",
			EnvVars: []string{"RAFFLEFI_CONFIG"},
		},
	}
	s.app.Before = s.loadConfig
	s.app.Commands = []*cli.Command{
		{
			Action:      s.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Flags:       []cli.Flag{},
			Category:    "Api",
			Description: `Used for start service api, it serves every query and the listing operations.`,
		},
		{
			Action:      s.startIngest,
			Name:        "ingest",
			Usage:       "Start service ingest",
			Flags:       []cli.Flag{},
			Category:    "Worker",
			Description: `Used to apply the decoded on-chain events published to the ingestion topic.`,
		},
		{
			Action:      s.startCron,
			Name:        "cron",
			Usage:       "Start service cron",
			Flags:       []cli.Flag{},
			Category:    "Worker",
			Description: `Used to run periodic jobs, such as announcing expired raffles.`,
		},
		{
			Action: s.startMigrate,
			Name:   "migrate",
			Usage:  "Migrate the database",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "version",
					Usage: "Run only the given migration version, all pending versions if empty",
				},
			},
			Category:    "Database",
			Description: `Used to create the tables and apply the pending data migrations.`,
		},
	}
}
