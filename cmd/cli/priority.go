package main

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/consvis/watermod/pkg/model"
	"github.com/consvis/watermod/pkg/raster"
	"github.com/consvis/watermod/pkg/score"
)

var (
	priorityInFlag = &cli.StringFlag{
		Name:     "in",
		Usage:    "Path to the watershed integrity raster (ASCII grid)",
		Required: true,
	}

	priorityOutFlag = &cli.StringFlag{
		Name:     "out",
		Usage:    "Path to write the priority raster to",
		Required: true,
	}

	priorityYFlag = &cli.Float64Flag{
		Name:     "y",
		Usage:    "Priority score at the lower integrity threshold",
		Required: true,
	}

	priorityX1Flag = &cli.Float64Flag{
		Name:     "x1",
		Usage:    "Integrity below which the priority truncates",
		Required: true,
	}

	priorityX2Flag = &cli.Float64Flag{
		Name:     "x2",
		Usage:    "Integrity at which the priority reaches its maximum",
		Required: true,
	}

	priorityX3Flag = &cli.Float64Flag{
		Name:     "x3",
		Usage:    "Integrity at which the priority leaves its maximum",
		Required: true,
	}

	priorityX4Flag = &cli.Float64Flag{
		Name:     "x4",
		Usage:    "Integrity above which the priority truncates",
		Required: true,
	}

	priorityCmd = &cli.Command{
		Name:    "priority",
		Aliases: []string{"p"},
		Usage:   "List restoration priority operations",
		Subcommands: []*cli.Command{
			{
				Name:    "linear",
				Aliases: []string{"l"},
				Usage:   "Derives priority under a linear-truncated integrity relationship",
				Action:  cmdPriorityLinear,
				Flags: []cli.Flag{
					priorityInFlag,
					priorityOutFlag,
					priorityYFlag,
					priorityX1Flag,
					priorityX2Flag,
				},
			},
			{
				Name:    "hump",
				Aliases: []string{"h"},
				Usage:   "Derives priority under a hump-shaped integrity relationship",
				Action:  cmdPriorityHump,
				Flags: []cli.Flag{
					priorityInFlag,
					priorityOutFlag,
					priorityYFlag,
					priorityX1Flag,
					priorityX2Flag,
					priorityX3Flag,
					priorityX4Flag,
				},
			},
		},
	}
)

func cmdPriorityLinear(c *cli.Context) error {
	f := score.LinearTrunc{
		Y:  c.Float64(priorityYFlag.Name),
		X1: c.Float64(priorityX1Flag.Name),
		X2: c.Float64(priorityX2Flag.Name),
	}
	return runPriority(c, func(integ *raster.Raster) (*raster.Raster, error) {
		return model.DerivePriorityLinear(integ, f)
	})
}

func cmdPriorityHump(c *cli.Context) error {
	f := score.Hump{
		Y:  c.Float64(priorityYFlag.Name),
		X1: c.Float64(priorityX1Flag.Name),
		X2: c.Float64(priorityX2Flag.Name),
		X3: c.Float64(priorityX3Flag.Name),
		X4: c.Float64(priorityX4Flag.Name),
	}
	return runPriority(c, func(integ *raster.Raster) (*raster.Raster, error) {
		return model.DerivePriorityHump(integ, f)
	})
}

func runPriority(c *cli.Context, derive func(*raster.Raster) (*raster.Raster, error)) error {
	in := c.String(priorityInFlag.Name)
	out := c.String(priorityOutFlag.Name)

	integ, err := raster.ReadASC(in)
	if err != nil {
		return errors.Wrapf(err, "failed to read integrity raster: %s", in)
	}

	pri, err := derive(integ)
	if err != nil {
		return err
	}

	if err := raster.WriteASC(pri, out, cfg.Env.Overwrite); err != nil {
		return errors.Wrapf(err, "failed to write priority raster: %s", out)
	}

	log.Infof("priority raster written to %s", out)
	return nil
}
