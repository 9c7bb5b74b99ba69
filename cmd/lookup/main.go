package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/binaryshield/godeye-console/internal/config"
	"github.com/binaryshield/godeye-console/internal/export"
	"github.com/binaryshield/godeye-console/internal/godeye"
	"github.com/binaryshield/godeye-console/internal/models"
	"github.com/binaryshield/godeye-console/internal/results"
	"github.com/binaryshield/godeye-console/internal/search"
	"github.com/binaryshield/godeye-console/internal/store"
	"github.com/binaryshield/godeye-console/internal/validate"
	"github.com/binaryshield/godeye-console/pkg/utils"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Command line flags
var (
	query    = flag.String("query", "", "Query to analyze (domain, IP, email, or URL)")
	qtype    = flag.String("type", models.QueryTypeAuto, "Query type (auto, domain, ip, email, url)")
	jsonOut  = flag.String("json", "", "Write the raw result JSON to this file")
	csvOut   = flag.String("csv", "", "Write the indicator table CSV to this file")
	detect   = flag.Bool("detect", false, "Only classify the query type, do not submit")
	verbose  = flag.Bool("verbose", false, "Enable verbose logging")
	waitTime = flag.Duration("timeout", godeye.DefaultTimeout, "Request timeout")
)

func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	logger := utils.GetLogger()
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	if *query == "" {
		fmt.Fprintln(os.Stderr, "usage: lookup -query <target> [-type auto|domain|ip|email|url]")
		os.Exit(2)
	}

	if *detect {
		fmt.Printf("%s\n", validate.DetectType(*query))
		return
	}

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}
	if err := cfg.ValidateGodEye(); err != nil {
		logger.WithError(err).Fatal("GodEye configuration validation failed")
	}

	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.WithError(err).Fatal("Invalid Redis URL")
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	resultStore := store.NewRedisStore(redisClient, logger)
	client := godeye.NewClient(cfg.GodEye.BaseURL, cfg.GodEye.APIKey, logger).
		WithTimeout(*waitTime)

	// No minimum loading window on the CLI; that hint is for interactive UIs.
	controller := search.NewController(client, resultStore, nil, search.Options{}, logger)

	ctx, cancel := context.WithTimeout(context.Background(), *waitTime+30*time.Second)
	defer cancel()

	outcome, err := controller.Submit(ctx, models.QueryRequest{Query: *query, Type: *qtype}, search.Session{ID: "cli"})
	if err != nil {
		logger.WithError(err).Fatal("Lookup failed")
	}

	viewController := results.NewController(resultStore, results.TypeDistribution{}, logger)
	vm, err := viewController.Load(ctx)
	if err != nil {
		logger.WithError(err).Fatal("Failed to render results")
	}

	printResults(vm, outcome)

	if *jsonOut != "" {
		raw, err := resultStore.LoadRawResult(ctx)
		if err != nil {
			logger.WithError(err).Fatal("Failed to read stored result")
		}
		if err := os.WriteFile(*jsonOut, export.JSON(raw), 0o644); err != nil {
			logger.WithError(err).Fatal("Failed to write JSON report")
		}
		logger.WithField("path", *jsonOut).Info("JSON report written")
	}

	if *csvOut != "" {
		data, err := export.CSV(outcome.Result)
		if err != nil {
			logger.WithError(err).Fatal("Failed to build CSV report")
		}
		if err := os.WriteFile(*csvOut, data, 0o644); err != nil {
			logger.WithError(err).Fatal("Failed to write CSV report")
		}
		logger.WithField("path", *csvOut).Info("CSV report written")
	}
}

func printResults(vm *results.ViewModel, outcome *search.Outcome) {
	fmt.Printf("Query:      %s (%s)\n", vm.Header.Query, vm.Header.Type)
	if vm.Header.Timestamp != "" {
		fmt.Printf("Analyzed:   %s\n", vm.Header.Timestamp)
	}
	if vm.Header.Summary != "" {
		fmt.Printf("Summary:    %s\n", vm.Header.Summary)
	}
	fmt.Printf("Entities:   %d  Sources: %d  Avg confidence: %d%%  Risk: %s\n",
		vm.Stats.TotalEntities, vm.Stats.SourceCount, vm.Stats.AvgConfidencePct, vm.Stats.RiskLevel)
	fmt.Printf("Took:       %dms\n\n", outcome.ResponseTime.Milliseconds())

	fmt.Printf("%-40s %-10s %-6s %-6s %s\n", "INDICATOR", "TYPE", "CONF", "CONN", "SOURCE")
	for _, row := range vm.Rows {
		if row.Placeholder {
			fmt.Println(row.Indicator)
			continue
		}
		fmt.Printf("%-40s %-10s %5d%% %6d %s\n",
			row.Indicator, row.Type, row.ConfidencePct, row.Connections, row.Source)
	}

	if vm.Chart != nil {
		fmt.Println()
		for i, label := range vm.Chart.Labels {
			fmt.Printf("%-12s %d\n", label, vm.Chart.Values[i])
		}
	}
}
