package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	internal "github.com/ZanzyTHEbar/cowbench/cowb"
	"github.com/ZanzyTHEbar/cowbench/cowb/bench"
	"github.com/ZanzyTHEbar/cowbench/cowb/config"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults to ./config.yaml, then "+internal.DefaultConfigPath+")")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	logger := internal.GetLogger()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := bench.NewRunner(cfg.Bench, bench.NewReporter(os.Stdout))
	if _, err := runner.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("benchmark run failed")
	}
}
