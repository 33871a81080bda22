package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/consvis/watermod/pkg/model"
	"github.com/consvis/watermod/pkg/score"
)

const (
	metricKFactor = "kfactor"
	metricMibi    = "mibi"
)

var (
	metricFlag = &cli.StringFlag{
		Name:     "metric",
		Usage:    "Name of the pollutant export coefficient metric",
		Required: true,
	}

	rescaleCmd = &cli.Command{
		Name:    "rescale",
		Aliases: []string{"r"},
		Usage:   "List measurement rescale operations",
		Subcommands: []*cli.Command{
			{
				Name:    "kfactor",
				Aliases: []string{"k"},
				Usage:   "Rescales soil erodibility factors through the calibrated window",
				Action:  cmdRescaleKFactor,
			},
			{
				Name:    "mibi",
				Aliases: []string{"m"},
				Usage:   "Rescales macroinvertebrate IBI scores through the calibrated window",
				Action:  cmdRescaleMibi,
			},
			{
				Name:    "pollutant",
				Aliases: []string{"p"},
				Usage:   "Rescales a pollutant export coefficient through its observed range",
				Action:  cmdRescalePollutant,
				Flags: []cli.Flag{
					metricFlag,
				},
			},
		},
	}
)

type rescaleSummary struct {
	Metric   string `json:"metric"`
	Scored   int    `json:"scored"`
	Duration string `json:"duration"`
}

func cmdRescaleKFactor(c *cli.Context) error {
	start := time.Now()
	db := getDBOrFail()
	defer db.Close()

	n, err := model.RescaleFixed(db, metricKFactor, cfg.KFactor.Min, cfg.KFactor.Max, score.Positive)
	if err != nil {
		return errors.Wrap(err, "failed to rescale kfactor")
	}
	return printRescaleSummary(metricKFactor, n, start)
}

func cmdRescaleMibi(c *cli.Context) error {
	start := time.Now()
	db := getDBOrFail()
	defer db.Close()

	n, err := model.RescaleFixed(db, metricMibi, cfg.Mibi.Min, cfg.Mibi.Max, score.Positive)
	if err != nil {
		return errors.Wrap(err, "failed to rescale mibi")
	}
	return printRescaleSummary(metricMibi, n, start)
}

func cmdRescalePollutant(c *cli.Context) error {
	start := time.Now()
	metric := c.String(metricFlag.Name)
	if metric == "" {
		return cli.ShowSubcommandHelp(c)
	}

	db := getDBOrFail()
	defer db.Close()

	n, err := model.RescaleObserved(db, metric)
	if err != nil {
		return errors.Wrapf(err, "failed to rescale %s", metric)
	}
	return printRescaleSummary(metric, n, start)
}

func printRescaleSummary(metric string, scored int, start time.Time) error {
	out := &rescaleSummary{
		Metric:   metric,
		Scored:   scored,
		Duration: time.Since(start).String(),
	}
	if err := json.NewEncoder(os.Stdout).Encode(out); err != nil {
		return errors.Wrapf(err, "error encoding result: %+v", out)
	}
	return nil
}
