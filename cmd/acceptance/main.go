package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ocs-acceptance/cmd/config"
	"ocs-acceptance/internal/infra/node"
	"ocs-acceptance/internal/infra/schedule"
	"ocs-acceptance/internal/infra/telemetry"
	"ocs-acceptance/internal/logger"
	"ocs-acceptance/test/functional/driver"
	"ocs-acceptance/test/functional/steps"

	"github.com/cucumber/godog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	opts       = godog.Options{Format: "pretty"}
	configFile = pflag.String("config", "", "path of the configuration file")
	listSteps  = pflag.Bool("list-steps", false, "print the step definitions and exit")
	baseURL    = pflag.String("base-url", "", "base URL of the server under test")
	apiVersion = pflag.Int("api-version", 0, "OCS API version used by default (1 or 2)")
	version    = pflag.Bool("version", false, "print the version and exit")
	cronSpec   = pflag.String("schedule", "", "repeat the suite on this cron schedule until interrupted")
)

func init() {
	godog.BindCommandLineFlags("godog.", &opts)
}

func main() {
	pflag.Parse()
	opts.Paths = pathsOrDefault(pflag.Args())
	os.Exit(run())
}

func pathsOrDefault(args []string) []string {
	if len(args) > 0 {
		return args
	}
	return []string{"test/functional/features"}
}

func run() int {
	if *version {
		info := node.GetNodeInfo()
		fmt.Printf("ocs-acceptance %s (%s)\n", info.Version, info.CommitHash)
		return 0
	}

	v := viper.New()
	if *configFile != "" {
		v.SetConfigFile(*configFile)
	}
	if *baseURL != "" {
		v.Set("server.base_url", *baseURL)
	}
	if *apiVersion != 0 {
		v.Set("ocs.api_version", *apiVersion)
	}
	if *cronSpec != "" {
		v.Set("schedule.cron", *cronSpec)
	}

	cfg, err := config.Load(v)
	if err != nil {
		logger.Error("loading config", "error", err)
		return 2
	}
	log := logger.NewLogger(cfg.General.LogLevel)
	log.Debugw("config loaded", "data", cfg)

	if cfg.Tracing.Endpoint != "" {
		shutdown, err := telemetry.Start(context.Background(), telemetry.Options{
			Endpoint:    cfg.Tracing.Endpoint,
			ServiceName: "ocs-acceptance",
		})
		if err != nil {
			log.Errorw("starting trace provider", "error", err)
			return 2
		}
		defer func() {
			if err := shutdown(); err != nil {
				log.Warnw("stopping trace provider", "error", err)
			}
		}()
	}

	registry := prometheus.NewRegistry()
	api := driver.NewAPIDriver(cfg.HTTP.Timeout, driver.WithMetrics(driver.NewMetrics(registry)))

	featureContext, err := steps.NewFeatureContext(cfg, api, log)
	if err != nil {
		log.Errorw("creating feature context", "error", err)
		return 2
	}
	defer featureContext.Close()

	if *listSteps {
		for _, def := range featureContext.Registry().Definitions() {
			fmt.Printf("%-5s %s\n", def.Keyword, def.Pattern)
		}
		return 0
	}

	runSuite := func(context.Context) int {
		log.Infow("running acceptance suite", "base_url", cfg.Server.BaseURL, "ocs_api_version", cfg.OCS.APIVersion)
		status := godog.TestSuite{
			Name:                "ocs",
			ScenarioInitializer: featureContext.RegisterSteps,
			Options:             &opts,
		}.Run()

		if cfg.Metrics.Textfile != "" {
			if err := prometheus.WriteToTextfile(cfg.Metrics.Textfile, registry); err != nil {
				log.Warnw("writing metrics", "path", cfg.Metrics.Textfile, "error", err)
			}
		}
		return status
	}

	if cfg.Schedule.Cron == "" {
		return runSuite(context.Background())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	status, err := schedule.Run(ctx, cfg.Schedule.Cron, runSuite, log)
	if err != nil {
		log.Errorw("running scheduler", "error", err)
		return 2
	}
	return status
}
