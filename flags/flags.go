package flags

import (
	"fmt"

	"github.com/urfave/cli/v2"

	opservice "github.com/ethereum-optimism/optimism/op-service"
	opflags "github.com/ethereum-optimism/optimism/op-service/flags"
	oplog "github.com/ethereum-optimism/optimism/op-service/log"
	opmetrics "github.com/ethereum-optimism/optimism/op-service/metrics"
)

const EnvVarPrefix = "OP_BDD"

var (
	RunDir = &cli.StringFlag{
		Name:    "rundir",
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "RUNDIR"),
		Usage:   "Directory holding archived runs and rendered reports. Defaults to the settings file value, then 'logs'.",
	}
	RunID = &cli.StringFlag{
		Name:    "run-id",
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "RUN_ID"),
		Usage:   "Run to render (eg. 'a2f1c410-…'). Omit to render the most recent archived run.",
	}
	RunInterval = &cli.DurationFlag{
		Name:    "run-interval",
		Value:   0,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "RUN_INTERVAL"),
		Usage:   "Interval between report renders (e.g. '1h', '30m'). Set to 0 or omit for run-once mode.",
	}
	Check = &cli.BoolFlag{
		Name:    "check",
		Value:   false,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "CHECK"),
		Usage:   "Exit with code 1 when the rendered run contains failed scenarios (run-once mode only)",
	}
	ShowSteps = &cli.BoolFlag{
		Name:    "show-steps",
		Value:   true,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "SHOW_STEPS"),
		Usage:   "Include step rows in the console results table",
	}
)

var requiredFlags = []cli.Flag{}

var optionalFlags = []cli.Flag{
	RunDir,
	RunID,
	RunInterval,
	Check,
	ShowSteps,
}
var Flags []cli.Flag

func init() {
	optionalFlags = append(optionalFlags, oplog.CLIFlags(EnvVarPrefix)...)
	optionalFlags = append(optionalFlags, opmetrics.CLIFlags(EnvVarPrefix)...)

	Flags = append(requiredFlags, optionalFlags...)
}

func CheckRequired(ctx *cli.Context) error {
	for _, f := range requiredFlags {
		if !ctx.IsSet(f.Names()[0]) {
			return fmt.Errorf("flag %s is required", f.Names()[0])
		}
	}
	return opflags.CheckRequiredXor(ctx)
}
