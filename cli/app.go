// Package cli contains the ets command line tool.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"

	"go.viam.com/ets/kinematics"
)

func modelFlags(extra ...cli.Flag) []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:      flagModel,
			Aliases:   []string{"m"},
			Usage:     "load the chain model or link tree from `FILE`",
			Required:  true,
			TakesFile: true,
		},
		&cli.BoolFlag{
			Name:  flagTree,
			Usage: "the model file is a link tree",
		},
		&cli.StringFlag{
			Name:  flagEnd,
			Usage: "end link of the chain when the model is a link tree",
		},
		&cli.GenericFlag{
			Name:  flagQ,
			Usage: "comma separated joint vector, repeat for several",
			Value: &jointVectors{},
		},
		&cli.BoolFlag{
			Name:  flagJSON,
			Usage: "print json instead of tables",
		},
	}
	return append(flags, extra...)
}

// NewApp returns a new app with the ets commands, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:            "ets",
		Usage:           "kinematics of elementary transform sequences",
		HideHelpCommand: true,
		Writer:          out,
		ErrWriter:       errOut,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "describe",
				Usage:  "print the elementary transforms of a chain or the links of a tree",
				Flags:  modelFlags(),
				Action: DescribeAction,
			},
			{
				Name:   "fkine",
				Usage:  "print the pose of the end of the chain for each joint vector",
				Flags:  modelFlags(),
				Action: FkineAction,
			},
			{
				Name:   "jacob0",
				Usage:  "print the Jacobian in the base frame",
				Flags:  modelFlags(),
				Action: Jacob0Action,
			},
			{
				Name:   "jacobe",
				Usage:  "print the Jacobian in the end frame",
				Flags:  modelFlags(),
				Action: JacobeAction,
			},
			{
				Name:   "jacob0v",
				Usage:  "print the velocity transform from the end frame to the base frame",
				Flags:  modelFlags(),
				Action: Jacob0vAction,
			},
			{
				Name:   "jacobev",
				Usage:  "print the velocity transform from the base frame to the end frame",
				Flags:  modelFlags(),
				Action: JacobevAction,
			},
			{
				Name:  "jacobm",
				Usage: "print the manipulability and its Jacobian with respect to each joint",
				Flags: modelFlags(
					&cli.StringFlag{
						Name:  flagAxes,
						Usage: "rows of the Jacobian to measure: all, trans or rot",
						Value: kinematics.AllAxes.String(),
					},
				),
				Action: JacobmAction,
			},
			{
				Name:   "hessian0",
				Usage:  "print the Hessian in the base frame, one matrix per joint",
				Flags:  modelFlags(),
				Action: Hessian0Action,
			},
			{
				Name:   "hessiane",
				Usage:  "print the Hessian in the end frame, one matrix per joint",
				Flags:  modelFlags(),
				Action: HessianeAction,
			},
			{
				Name:  "ik",
				Usage: "solve for a joint vector reaching a target pose, the first --q is the seed",
				Flags: modelFlags(
					&cli.StringFlag{
						Name:     flagTarget,
						Usage:    "target pose as x,y,z,rx,ry,rz with the rotation as an axis angle vector",
						Required: true,
					},
					&cli.IntFlag{
						Name:  flagRestarts,
						Usage: "attempts from random joint positions after the first",
						Value: kinematics.NewDefaultIKOptions().MaxRestarts,
					},
					&cli.Int64Flag{
						Name:  flagSeed,
						Usage: "seed of the random restarts",
						Value: 1,
					},
					&cli.StringFlag{
						Name:  flagOptions,
						Usage: "solver options as a json5 object, e.g. {max_iterations: 300, epsilon: 1e-8}",
					},
				),
				Action: IKAction,
			},
			{
				Name:   "tree",
				Usage:  "print the world pose of every link and attached shape of a link tree",
				Flags:  modelFlags(),
				Action: TreeAction,
			},
		},
	}
}
