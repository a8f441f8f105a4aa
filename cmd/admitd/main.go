package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/openadmit/openadmit/cmd/admitd/handlers"
	"github.com/openadmit/openadmit/pkg/auth"
	configs "github.com/openadmit/openadmit/pkg/configs/frontend"
	admpg "github.com/openadmit/openadmit/pkg/domain/admission/db/postgres"
	"github.com/openadmit/openadmit/pkg/domain/conversion"
	"github.com/openadmit/openadmit/pkg/storage/local"
	"github.com/openadmit/openadmit/pkg/utils/echoutil"
	"github.com/openadmit/openadmit/pkg/utils/filewatch"
	"github.com/openadmit/openadmit/pkg/utils/try"
)

func main() {
	logger := log.Default()

	configPath := flag.String(
		"config-path", os.Getenv("ADMIT_FRONTEND_CONFIG"), "frontend config path",
	)
	pSchemaRepo := flag.String(
		"schema-repo", os.Getenv("ADMIT_SCHEMA"), "schema repository path",
	)
	loglevel := flag.String("loglevel", "info", "log level. debug|info|warn|error|off")
	pcert := flag.String("cert", "", "certification file for TLS")
	pkey := flag.String("certkey", "", "key of certification file for TLS")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(
		context.Background(), os.Interrupt, os.Kill, syscall.SIGTERM,
	)
	defer cancel()

	{
		// restart (via the supervisor) when the config changes
		wctx, cancel, err := filewatch.UntilModifyContext(ctx, *configPath)
		if err != nil {
			logger.Fatal(err)
		}
		defer cancel()
		ctx = wctx
	}

	conf := try.To(configs.LoadFrontendConfig(*configPath)).OrFatal(logger)

	database := try.To(admpg.New(
		ctx, conf.DBURI, admpg.WithSchemaRepository(*pSchemaRepo),
	)).OrFatal(logger)
	defer database.Close()

	{
		ctx_, ccan := database.Schema().Context(ctx)
		defer ccan()
		ctx = ctx_
	}

	e := echo.New()
	e.Pre(middleware.AddTrailingSlash())

	echoutil.SetLevel(e, *loglevel)
	e.HTTPErrorHandler = func(err error, ctx echo.Context) {
		e.DefaultHTTPErrorHandler(err, ctx)
		e.Logger.Error(err)
	}
	e.Use(echoutil.LogHandlerFunc)

	if conf.AuthSecret != "" {
		e.Use(auth.Middleware([]byte(conf.AuthSecret)))
	} else {
		logger.Println("WARNING: authSecret is empty. running without authentication.")
	}

	store := local.New(conf.Storage.Root)
	provisioner := conversion.NewHTTPProvisioner(
		conf.Provisioning.Endpoint, conf.Provisioning.Token,
	)

	api := func(p string) string { return path.Join("/api", p) + "/" }

	{
		dbpipeline := database.Pipeline()
		e.POST(api("pipelines"), handlers.PipelineRegisterHandler(dbpipeline))
		e.GET(api("pipelines"), handlers.FindPipelineHandler(dbpipeline))
		e.GET(api("pipelines/:pipelineId"), handlers.GetPipelineHandler(dbpipeline))
		e.PUT(api("pipelines/:pipelineId"), handlers.UpdatePipelineHandler(dbpipeline))
		e.DELETE(api("pipelines/:pipelineId"), handlers.DeletePipelineHandler(dbpipeline))

		e.POST(api("pipelines/:pipelineId/stages"), handlers.AddStageHandler(dbpipeline))
		e.PUT(api("pipelines/:pipelineId/stages/order"), handlers.ReorderStagesHandler(dbpipeline))
		e.PUT(api("stages/:stageId"), handlers.UpdateStageHandler(dbpipeline))
		e.DELETE(api("stages/:stageId"), handlers.DeleteStageHandler(dbpipeline))
	}

	{
		dbapplicant := database.Applicant()
		dbpipeline := database.Pipeline()

		e.POST(api("applicants"), handlers.ApplicantRegisterHandler(dbapplicant, dbpipeline))
		e.GET(api("applicants"), handlers.FindApplicantHandler(dbapplicant, dbpipeline))
		e.GET(api("applicants/:applicantId"), handlers.GetApplicantHandler(dbapplicant, dbpipeline))
		e.PUT(api("applicants/:applicantId"), handlers.UpdateApplicantHandler(dbapplicant, dbpipeline))
		e.DELETE(api("applicants/:applicantId"), handlers.DeleteApplicantHandler(dbapplicant))

		e.PUT(
			api("applicants/:applicantId/advance"),
			handlers.TransitionHandler(dbapplicant, dbpipeline, dbapplicant.Advance),
		)
		e.PUT(
			api("applicants/:applicantId/hold"),
			handlers.TransitionHandler(dbapplicant, dbpipeline, dbapplicant.Hold),
		)
		e.PUT(
			api("applicants/:applicantId/resume"),
			handlers.TransitionHandler(dbapplicant, dbpipeline, dbapplicant.Resume),
		)
		e.PUT(
			api("applicants/:applicantId/reject"),
			handlers.TransitionHandler(dbapplicant, dbpipeline, dbapplicant.Reject),
		)
		e.PUT(
			api("applicants/:applicantId/reactivate"),
			handlers.TransitionHandler(dbapplicant, dbpipeline, dbapplicant.Reactivate),
		)
		e.PUT(
			api("applicants/:applicantId/withdraw"),
			handlers.WithdrawHandler(dbapplicant, dbpipeline),
		)

		e.POST(api("applicants/:applicantId/form-submissions"), handlers.FormSubmissionHandler(dbapplicant))
		e.POST(api("applicants/:applicantId/approvals"), handlers.ApprovalHandler(dbapplicant))
		e.POST(api("applicants/bulk"), handlers.BulkHandler(dbapplicant))
		e.POST(
			api("applicants/:applicantId/conversion"),
			handlers.ConvertHandler(dbapplicant, provisioner),
		)
	}

	{
		dbelection := database.Election()
		e.GET(api("applicants/:applicantId/election-package"), handlers.GetElectionPackageHandler(dbelection))
		e.PUT(api("applicants/:applicantId/election-package"), handlers.UpdateElectionPackageHandler(dbelection))
		e.POST(api("applicants/:applicantId/election-package/submit"), handlers.SubmitElectionPackageHandler(dbelection))
		e.PUT(api("applicants/:applicantId/election-package/ballot-status"), handlers.BallotStatusHandler(dbelection))
	}

	{
		dbdocument := database.Document()
		dbapplicant := database.Applicant()
		e.POST(
			api("applicants/:applicantId/documents"),
			handlers.UploadDocumentHandler(dbdocument, dbapplicant, store),
		)
		e.GET(api("applicants/:applicantId/documents"), handlers.ListDocumentsHandler(dbdocument))
		e.GET(api("documents/:documentId/content"), handlers.DownloadDocumentHandler(dbdocument, store))
		e.DELETE(api("documents/:documentId"), handlers.DeleteDocumentHandler(dbdocument, store))
	}

	{
		dbactivity := database.Activity()
		e.GET(api("applicants/:applicantId/activity"), handlers.ListActivityHandler(dbactivity))
	}

	logger.Println("registered routes:")
	for _, r := range e.Routes() {
		logger.Println(r.Method, r.Path)
	}

	context.AfterFunc(ctx, func() {
		graceful, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := e.Shutdown(graceful); err != nil {
			logger.Printf("error on shutdown: %s", err)
		}
	})

	cert, key := *pcert, *pkey
	if cert != "" && key != "" {
		e.Logger.Fatal(e.StartTLS(":"+conf.ServerPort, cert, key))
	} else {
		e.Logger.Fatal(e.Start(":" + conf.ServerPort))
	}
}
