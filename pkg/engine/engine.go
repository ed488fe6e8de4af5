package engine

import (
	"go.uber.org/zap"

	"github.com/lintang-b-s/navigatorx-lastmile/pkg/costfunction"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/engine/routing"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/overlap"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/snap"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/spatialindex"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/util"
)

// Engine. read only query components over one graph and one infrastructure layer.
type Engine struct {
	graph       *datastructure.Graph
	layer       *datastructure.InfrastructureLayer
	snapper     *snap.Snapper
	routeSolver *routing.RouteSolver
	classifier  *overlap.Classifier
}

func (e *Engine) GetGraph() *datastructure.Graph {
	return e.graph
}

func (e *Engine) GetInfrastructureLayer() *datastructure.InfrastructureLayer {
	return e.layer
}

func (e *Engine) GetSnapper() *snap.Snapper {
	return e.snapper
}

func (e *Engine) GetRouteSolver() *routing.RouteSolver {
	return e.routeSolver
}

func (e *Engine) GetClassifier() *overlap.Classifier {
	return e.classifier
}

func NewEngine(graph *datastructure.Graph, layer *datastructure.InfrastructureLayer, cfg util.LastmileConfig,
	logger *zap.Logger) (*Engine, error) {
	if graph == nil {
		return nil, datastructure.ErrMissingGraph
	}
	if layer == nil {
		return nil, datastructure.ErrMissingInfrastructure
	}

	logger.Info("Starting last-mile query engine...", zap.Int("vertices", graph.NumberOfVertices()),
		zap.Int("edges", graph.NumberOfEdges()), zap.Int("components", graph.NumberOfComponents()),
		zap.Int("infrastructure_features", layer.Len()))

	rt := spatialindex.NewRtree()
	rt.Build(graph, logger)

	routeSolver, err := routing.NewRouteSolver(graph, costfunction.NewLengthCostFunction(), cfg.PathCacheSize, logger)
	if err != nil {
		return nil, err
	}

	infraIndex := spatialindex.NewInfrastructureIndex(layer, cfg.BufferToleranceMeters, logger)

	return &Engine{
		graph:       graph,
		layer:       layer,
		snapper:     snap.NewSnapper(graph, rt, cfg.SnapToleranceMeters),
		routeSolver: routeSolver,
		classifier:  overlap.NewClassifier(infraIndex, cfg.MinSegmentLengthMeters, logger),
	}, nil
}
