package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/openadmit/openadmit/cmd/loops/recurring"
	configs "github.com/openadmit/openadmit/pkg/configs/backend"
	admpg "github.com/openadmit/openadmit/pkg/domain/admission/db/postgres"
	"github.com/openadmit/openadmit/pkg/domain"
	"github.com/openadmit/openadmit/pkg/utils/args"
	"github.com/openadmit/openadmit/pkg/utils/filewatch"
	"github.com/openadmit/openadmit/pkg/utils/try"
)

func main() {
	logger := log.Default()
	ctx, cancel := signal.NotifyContext(
		context.Background(), os.Interrupt, os.Kill, syscall.SIGTERM,
	)
	defer cancel()

	pconfig := flag.String(
		"config", os.Getenv("ADMIT_BACKEND_CONFIG"), "path to config file",
	)
	pSchemaRepo := flag.String(
		"schema-repo", os.Getenv("ADMIT_SCHEMA"), "schema repository path",
	)
	loopType := args.Parser(domain.AsLoopType)
	flag.Var(loopType, "type", "one of loop type (inactivity|escalation)")
	policy := args.Parser(recurring.ParsePolicy)
	flag.Var(
		policy, "policy",
		`loop policy (syntax: forever[:COOLDOWN]|backlog).`+
			` "forever[:COOLDOWN]" = run forever until error. When backlog is over, `+
			`wait COOLDOWN (optional duration. default: 0) as interval.`+
			` "backlog" = run until error or backlog is over.`,
	)
	flag.Parse()

	{
		// restart (via the supervisor) when the config changes
		wctx, cancel, err := filewatch.UntilModifyContext(ctx, *pconfig)
		if err != nil {
			logger.Fatal(err)
		}
		defer cancel()
		ctx = wctx
	}

	conf := try.To(configs.LoadBackendConfig(*pconfig)).OrFatal(logger)

	database := try.To(admpg.New(
		ctx, conf.DBURI, admpg.WithSchemaRepository(*pSchemaRepo),
	)).OrFatal(logger)
	defer database.Close()

	{
		ctx_, ccan := database.Schema().Context(ctx)
		defer ccan()
		ctx = ctx_
	}

	logger.Printf(
		`start loop "%s" /w policy "%s"`,
		loopType.Value().String(), policy.Value().String(),
	)

	err := StartLoop(
		ctx, logger, database,
		LoopManifest{
			Type:   loopType.Value(),
			Policy: recurring.UntilError(policy.Value()),
		},
	)

	if err == nil {
		return
	} else if errors.Is(err, context.Canceled) {
		logger.Fatal(err, "(loop context is cancelled by:", context.Cause(ctx), ")")
	}

	if ctx.Err() != nil {
		logger.Fatal(err)
	}
}
