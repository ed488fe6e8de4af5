package main

import (
	"flag"
	"os"

	"go.uber.org/zap"

	"github.com/lintang-b-s/navigatorx-lastmile/pkg/loader"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/logger"
)

var (
	input  = flag.String("input", "./data/roads.geojson", "road network as GeoJSON LineString features")
	output = flag.String("output", "./data/roads.graph", "bzip2 graph snapshot to write")
)

// converts a GeoJSON road network into the compressed snapshot read by cmd/lastmile.
func main() {
	flag.Parse()
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}

	f, err := os.Open(*input)
	if err != nil {
		panic(err)
	}
	defer f.Close()

	graph, err := loader.LoadGraphGeoJSON(f)
	if err != nil {
		panic(err)
	}

	if err := graph.WriteGraph(*output); err != nil {
		panic(err)
	}

	logger.Info("Preprocessing completed successfully.", zap.String("output", *output),
		zap.Int("vertices", graph.NumberOfVertices()), zap.Int("edges", graph.NumberOfEdges()),
		zap.Int("components", graph.NumberOfComponents()))
}
