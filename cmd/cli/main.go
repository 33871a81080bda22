package main

import (
	"database/sql"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/consvis/watermod/pkg/config"
	"github.com/consvis/watermod/pkg/data"
	"github.com/consvis/watermod/pkg/logging"
)

const (
	dirMode = 0700
)

var (
	name    = "watermod"
	version = "v0.0.1-default"
	commit  = ""

	cfg *config.Config

	dbFilePath = path.Join(getHomeDir(), data.DataFileName)
	configDir  = getHomeDir()
	debug      = false

	debugFlag = &cli.BoolFlag{
		Name:        "debug",
		Usage:       "Prints verbose logs (optional, default: false)",
		Destination: &debug,
	}

	dbFilePathFlag = &cli.StringFlag{
		Name:        "db",
		Usage:       fmt.Sprintf("Path to the Sqlite database file (optional, defaults to $HOME/.%s/%s)", name, data.DataFileName),
		Destination: &dbFilePath,
		Value:       dbFilePath,
	}

	configDirFlag = &cli.StringFlag{
		Name:        "config",
		Usage:       fmt.Sprintf("Directory holding the run configuration (optional, defaults to $HOME/.%s)", name),
		Destination: &configDir,
		Value:       configDir,
	}
)

func main() {
	logging.Init(debug)

	app := &cli.App{
		Name:     name,
		Version:  fmt.Sprintf("%s - (commit: %s)", version, commit),
		Compiled: time.Now(),
		Usage:    "CLI for watershed protection scoring",
		Flags: []cli.Flag{
			debugFlag,
			dbFilePathFlag,
			configDirFlag,
		},
		Commands: []*cli.Command{
			importCmd,
			rescaleCmd,
			priorityCmd,
			surfaceWaterCmd,
			headwatersCmd,
			hydroCmd,
			statsCmd,
		},
		Before: func(c *cli.Context) error {
			if c.Bool(debugFlag.Name) {
				log.SetLevel(log.DebugLevel)
			}

			var err error
			cfg, err = config.ReadOrCreate(configDir)
			if err != nil {
				return errors.Wrap(err, "failed to load run configuration")
			}

			if err := data.Init(dbFilePath); err != nil {
				return errors.Wrap(err, "failed to initialize database")
			}
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		fatalErr(err)
	}
}

func fatalErr(err error) {
	if err != nil {
		log.Fatalf("fatal error: %v", err)
		os.Exit(1)
	}
}

func getDBOrFail() *sql.DB {
	db, err := data.GetDB(dbFilePath)
	if err != nil {
		log.Fatalf("fatal error creating DB: %v", err)
		os.Exit(1)
	}
	return db
}

func getHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Debugf("error getting home dir, using current dir instead: %v", err)
		home = "."
	}
	dir := path.Join(home, fmt.Sprintf(".%s", name))
	if err := os.MkdirAll(dir, dirMode); err != nil {
		log.Debugf("error creating dir %s, using current dir instead: %v", dir, err)
		return "."
	}
	return dir
}
