package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"minigrid_finance/pkg/core/costs"
	"minigrid_finance/pkg/core/finance"
	"minigrid_finance/pkg/core/scenario"
	"minigrid_finance/pkg/report"
)

// output is the planner's JSON result: the grant-financed run plus the
// no-grant variant for comparison.
type output struct {
	WithGrant    *report.Bundle `json:"with_grant"`
	WithoutGrant *report.Bundle `json:"without_grant"`
}

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "Warning: .env file not found, assuming environment variables are set.")
	}

	scenarioPath := flag.String("scenario", envOr("PLANNER_SCENARIO", "scenario.yaml"), "project scenario file (.yaml, .yml, .hjson or .json)")
	costsPath := flag.String("costs", envOr("PLANNER_COST_TABLE", "cost_assumptions.csv"), "cost assumption catalog (semicolon-separated CSV)")
	outPath := flag.String("out", "", "output file (default stdout)")
	verbose := flag.Bool("v", false, "development logging")
	flag.Parse()

	logger, err := newLogger(*verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(*scenarioPath, *costsPath, *outPath, logger); err != nil {
		logger.Fatal("planner failed", zap.Error(err))
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(scenarioPath, costsPath, outPath string, logger *zap.Logger) error {
	s, err := scenario.Load(scenarioPath)
	if err != nil {
		return err
	}
	catalog, err := costs.LoadCatalogCSV(costsPath)
	if err != nil {
		return err
	}
	logger.Info("inputs loaded",
		zap.String("scenario", scenarioPath),
		zap.Int("cost_assumptions", catalog.Len()),
		zap.Int("project_start", s.ProjectStart),
		zap.Int("project_duration", s.ProjectDuration))

	system, indicators, err := s.SystemInput()
	if err != nil {
		return err
	}

	model, err := finance.NewModel(finance.Config{
		Catalog:         catalog,
		Params:          s.Params(),
		ProjectStart:    s.ProjectStart,
		ProjectDuration: s.ProjectDuration,
		System:          system,
		Logger:          logger,
	})
	if err != nil {
		return err
	}

	withGrant, err := report.Build(model, indicators)
	if err != nil {
		return err
	}
	withoutGrant, err := report.Build(model.WithoutGrant(), indicators)
	if err != nil {
		return err
	}

	for target, n := range model.MissingJoins() {
		logger.Warn("unmatched cost assumption target",
			zap.String("target", target), zap.Int("occurrences", n))
	}

	data, err := json.MarshalIndent(output{WithGrant: withGrant, WithoutGrant: withoutGrant}, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if outPath == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return err
	}
	logger.Info("report written", zap.String("path", outPath))
	return nil
}
