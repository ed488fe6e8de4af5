package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lintang-b-s/navigatorx-lastmile/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/engine"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/loader"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/logger"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/metrics"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/observability"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/usecases"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/util"
)

var (
	configPath         = flag.String("config", "", "config file, defaults to ./data/config.*")
	graphPath          = flag.String("graph", "./data/roads.graph", "road graph, a .graph snapshot or a .geojson network")
	infrastructurePath = flag.String("infrastructure", "./data/infrastructure.geojson", "existing fiber cables as GeoJSON")
	requestsPath       = flag.String("requests", "./data/requests.json", "FE/NE endpoint pairs as JSON")
	outDir             = flag.String("out", "./output", "output directory")
	metricsOut         = flag.String("metrics_out", "", "write a prometheus textfile snapshot here when set")
)

func main() {
	flag.Parse()

	cfg, err := util.ReadConfig(viper.New(), *configPath)
	if err != nil {
		panic(err)
	}
	logger, err := logger.NewWithLevel(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("last-mile batch failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg util.LastmileConfig, log *zap.Logger) error {
	tp, shutdown, err := observability.InitTracing(ctx, cfg.Tracing, os.Stderr, log)
	if err != nil {
		return err
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdown, log)

	reg := prometheus.NewRegistry()
	collector, err := metrics.NewBatchCollector(reg)
	if err != nil {
		return err
	}

	var (
		graph    *datastructure.Graph
		layer    *datastructure.InfrastructureLayer
		requests []datastructure.EndpointRequest
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		graph, err = loadGraph(*graphPath)
		return err
	})
	g.Go(func() error {
		return withFile(*infrastructurePath, func(r io.Reader) error {
			var err error
			layer, err = loader.LoadInfrastructureGeoJSON(r)
			return err
		})
	})
	g.Go(func() error {
		return withFile(*requestsPath, func(r io.Reader) error {
			var err error
			requests, err = loader.LoadRequestsJSON(r)
			return err
		})
	})
	if err := g.Wait(); err != nil {
		return err
	}

	eng, err := engine.NewEngine(graph, layer, cfg, log)
	if err != nil {
		return err
	}

	service := usecases.NewLastmileService(log, eng, cfg,
		usecases.WithCollector(collector),
		usecases.WithTracerProvider(tp),
	)
	results, summary, err := service.Run(ctx, requests)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}
	if err := createFile(filepath.Join(*outDir, "lastmile_detailed.geojson"), func(w io.Writer) error {
		return loader.WriteDetailedGeoJSON(w, results)
	}); err != nil {
		return err
	}
	if err := createFile(filepath.Join(*outDir, "lastmile_dissolved.geojson"), func(w io.Writer) error {
		return loader.WriteDissolvedGeoJSON(w, summary.Groups)
	}); err != nil {
		return err
	}
	if err := createFile(filepath.Join(*outDir, "analysis_summary.json"), func(w io.Writer) error {
		return loader.WriteSummaryJSON(w, summary, results)
	}); err != nil {
		return err
	}

	if *metricsOut != "" {
		if err := collector.WriteToTextfile(*metricsOut); err != nil {
			return err
		}
	}

	log.Info("Last-mile analysis written", zap.String("out", *outDir),
		zap.Float64("overlapped_percentage", summary.OverlapPercentage),
		zap.Float64("new_build_percentage", summary.NewBuildPercentage))
	return nil
}

func loadGraph(path string) (*datastructure.Graph, error) {
	if strings.HasSuffix(path, ".geojson") || strings.HasSuffix(path, ".json") {
		var graph *datastructure.Graph
		err := withFile(path, func(r io.Reader) error {
			var err error
			graph, err = loader.LoadGraphGeoJSON(r)
			return err
		})
		return graph, err
	}
	return datastructure.ReadGraph(path)
}

func withFile(path string, handle func(r io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return handle(f)
}

func createFile(path string, handle func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := handle(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
