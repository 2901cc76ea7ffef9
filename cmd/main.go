package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	"github.com/honeycombio/otel-config-go/otelconfig"
	"github.com/urfave/cli/v2"

	bdd "github.com/ethereum-optimism/infra/op-bdd"
	"github.com/ethereum-optimism/infra/op-bdd/flags"
	"github.com/ethereum-optimism/infra/op-bdd/scenariolist"
	"github.com/ethereum-optimism/infra/op-bdd/service"
	"github.com/ethereum-optimism/optimism/devnet-sdk/telemetry"
	"github.com/ethereum-optimism/optimism/op-service/cliapp"
	"github.com/ethereum-optimism/optimism/op-service/ctxinterrupt"
	oplog "github.com/ethereum-optimism/optimism/op-service/log"
)

var (
	Version   = "v0.1.0"
	GitCommit = ""
	GitDate   = ""
)

func main() {
	svc := service.New()

	app := cli.NewApp()
	app.Version = fmt.Sprintf("%s-%s-%s", Version, GitCommit, GitDate)
	app.Name = "op-bdd"
	app.Usage = "Optimism BDD Report Service"
	app.Description = "op-bdd renders archived scenario runs into reports"
	app.Flags = cliapp.ProtectFlags(flags.Flags)
	app.Commands = []*cli.Command{listCommand()}
	app.Action = cliapp.LifecycleCmd(func(ctx *cli.Context, closeApp context.CancelCauseFunc) (cliapp.Lifecycle, error) {
		return run(ctx, svc, closeApp)
	})
	app.ExitErrHandler = func(c *cli.Context, err error) {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			// Use the exit code from the ExitCoder
			cli.HandleExitCoder(exitErr)
		} else if err != nil {
			// Runtime errors exit 2, scenario failures and anything else exit 1
			cli.HandleExitCoder(cli.Exit(err.Error(), bdd.ExitCodeForError(err)))
		}
	}

	// Start telemetry
	ctx, shutdown, err := telemetry.SetupOpenTelemetry(
		context.Background(),
		otelconfig.WithServiceName(app.Name),
		otelconfig.WithServiceVersion(app.Version),
	)
	if err != nil {
		log.Crit("Failed to setup open telemetry", "message", err)
	}
	defer shutdown()

	// Start server
	svc.Start(ctx)
	defer svc.Shutdown()

	// Start CLI
	ctx = ctxinterrupt.WithSignalWaiterMain(ctx)
	err = app.RunContext(ctx, os.Args)
	if err != nil {
		log.Crit("Application failed", "message", err)
	}
}

func run(cliCtx *cli.Context, svc *service.Service, closeApp context.CancelCauseFunc) (cliapp.Lifecycle, error) {
	logCfg := oplog.ReadCLIConfig(cliCtx)
	log := oplog.NewLogger(oplog.AppOut(cliCtx), logCfg)
	oplog.SetGlobalLogHandler(log.Handler())
	oplog.SetupDefaults()

	cfg, err := bdd.NewConfig(cliCtx, log, cliCtx.String(flags.RunDir.Name))
	if err != nil {
		// Wrap in RuntimeError to signal this should exit with code 2
		return nil, bdd.NewRuntimeError(fmt.Errorf("failed to create config: %w", err))
	}

	cfg.Log.Debug("Config", "config", cfg)

	// Expose the rendered reports once the run directory is known
	svc.ServeReports(cliCtx.Context, cfg.RunDir, cfg.ServeAddr)

	bddService, err := bdd.New(cliCtx.Context, cfg, Version, closeApp)
	if err != nil {
		// Wrap in RuntimeError to signal this should exit with code 2
		return nil, bdd.NewRuntimeError(fmt.Errorf("failed to create op-bdd: %w", err))
	}

	return bddService, nil
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "List scenario test functions in a module",
		ArgsUsage: "[package]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "workdir",
				Value: ".",
				Usage: "Module root the package path is resolved against",
			},
			&cli.BoolFlag{
				Name:  "all",
				Usage: "List every test function, not only scenario-driving ones",
			},
		},
		Action: runList,
	}
}

func runList(ctx *cli.Context) error {
	workingDir := ctx.String("workdir")
	pattern := ctx.Args().First()
	if pattern == "" {
		pattern = workingDir + "/..."
	}

	packages := []string{pattern}
	if strings.HasSuffix(pattern, "...") {
		var err error
		packages, err = scenariolist.FindTestPackages(pattern, workingDir)
		if err != nil {
			return err
		}
	}

	for _, pkg := range packages {
		if ctx.Bool("all") {
			functions, err := scenariolist.FindTestFunctions(pkg, workingDir)
			if err != nil {
				return err
			}
			for _, fn := range functions {
				fmt.Fprintf(ctx.App.Writer, "%s %s\n", pkg, fn)
			}
			continue
		}

		scenarios, err := scenariolist.FindScenarios(pkg, workingDir)
		if err != nil {
			return err
		}
		for _, sc := range scenarios {
			fmt.Fprintf(ctx.App.Writer, "%s %s: %s\n", pkg, sc.Function, sc.Name)
		}
	}
	return nil
}
