package usecases

import (
	"context"
	"time"

	"github.com/paulmach/orb"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/lintang-b-s/navigatorx-lastmile/pkg"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/concurrent"
	da "github.com/lintang-b-s/navigatorx-lastmile/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/dissolve"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/engine"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/engine/routing"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/geo"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/metrics"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/observability"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/util"
)

type LastmileService struct {
	log        *zap.Logger
	cfg        util.LastmileConfig
	graph      *da.Graph
	layer      *da.InfrastructureLayer
	snapper    Snapper
	solver     RouteSolver
	classifier Classifier
	collector  *metrics.BatchCollector
	tracer     trace.Tracer
}

type Option func(*LastmileService)

func WithCollector(c *metrics.BatchCollector) Option {
	return func(ls *LastmileService) {
		ls.collector = c
	}
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(ls *LastmileService) {
		if tp != nil {
			ls.tracer = tp.Tracer(observability.TracerName)
		}
	}
}

// NewLastmileService. eng may be nil, Run then reports the missing precondition.
func NewLastmileService(log *zap.Logger, eng *engine.Engine, cfg util.LastmileConfig, opts ...Option) *LastmileService {
	ls := &LastmileService{
		log:    log,
		cfg:    cfg,
		tracer: otel.Tracer(observability.TracerName),
	}
	if eng != nil {
		ls.graph = eng.GetGraph()
		ls.layer = eng.GetInfrastructureLayer()
		ls.snapper = eng.GetSnapper()
		ls.solver = eng.GetRouteSolver()
		ls.classifier = eng.GetClassifier()
	}
	for _, opt := range opts {
		opt(ls)
	}
	return ls
}

type indexedRequest struct {
	pos int
	req da.EndpointRequest
}

type indexedResult struct {
	pos    int
	result da.RouteResult
}

// Run. solves and classifies every request independently, then dissolves the solved ones into the batch summary.
// results keep the order of requests. a failed request never aborts the batch, only a cancelled ctx does: Run then
// returns ctx.Err() and no results.
func (ls *LastmileService) Run(ctx context.Context, requests []da.EndpointRequest) ([]da.RouteResult, da.BatchSummary, error) {
	if ls.graph == nil {
		return nil, da.BatchSummary{}, da.ErrMissingGraph
	}
	if ls.layer == nil {
		return nil, da.BatchSummary{}, da.ErrMissingInfrastructure
	}
	if err := ctx.Err(); err != nil {
		return nil, da.BatchSummary{}, err
	}

	ctx, span := ls.tracer.Start(ctx, "lastmile.batch", trace.WithAttributes(
		attribute.Int("requests", len(requests)),
		attribute.Int("workers", ls.cfg.Workers),
	))
	defer span.End()

	start := time.Now()
	ls.log.Info("starting last-mile batch", zap.Int("requests", len(requests)), zap.Int("workers", ls.cfg.Workers))

	wp := concurrent.NewWorkerPool[indexedRequest, indexedResult](ls.cfg.Workers, len(requests))
	wp.Start(ctx, func(ctx context.Context, job indexedRequest) indexedResult {
		return indexedResult{pos: job.pos, result: ls.processRequest(ctx, job.req)}
	})

	go func() {
		for i, req := range requests {
			wp.AddJob(indexedRequest{pos: i, req: req})
		}
		wp.Close()
		wp.Wait()
	}()

	results := make([]da.RouteResult, len(requests))
	done := 0
	for res := range wp.CollectResults() {
		results[res.pos] = res.result
		done++
	}

	if done < len(requests) {
		err := ctx.Err()
		if err == nil {
			err = util.WrapErrorf(nil, da.ErrInternal, "only %d of %d requests finished", done, len(requests))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		ls.log.Warn("last-mile batch aborted", zap.Int("finished", done), zap.Int("requests", len(requests)), zap.Error(err))
		return nil, da.BatchSummary{}, err
	}

	summary, err := ls.aggregate(ctx, results)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, da.BatchSummary{}, err
	}

	elapsed := time.Since(start)
	ls.collector.ObserveBatch(summary, elapsed)
	span.SetAttributes(
		attribute.Int("processed", summary.ProcessedRequests),
		attribute.Int("failed", summary.FailedRequests),
		attribute.Float64("overlap_m", summary.OverlapDistance),
		attribute.Float64("new_build_m", summary.NewBuildDistance),
	)
	ls.log.Info("last-mile batch finished", zap.Int("processed", summary.ProcessedRequests),
		zap.Int("failed", summary.FailedRequests), zap.Int("groups", summary.GroupsAfterDissolve),
		zap.Float64("overlap_m", summary.OverlapDistance), zap.Float64("new_build_m", summary.NewBuildDistance),
		zap.Duration("elapsed", elapsed))

	return results, summary, nil
}

func (ls *LastmileService) aggregate(ctx context.Context, results []da.RouteResult) (da.BatchSummary, error) {
	_, span := ls.tracer.Start(ctx, "lastmile.dissolve")
	defer span.End()

	summary, err := dissolve.Aggregate(results)
	if err != nil {
		return da.BatchSummary{}, err
	}
	span.SetAttributes(
		attribute.Int("segments", summary.SegmentsBeforeDissolve),
		attribute.Int("groups", summary.GroupsAfterDissolve),
	)
	return summary, nil
}

// processRequest. never panics, any failure ends up in the result status.
func (ls *LastmileService) processRequest(ctx context.Context, req da.EndpointRequest) (result da.RouteResult) {
	_, span := ls.tracer.Start(ctx, "lastmile.request", trace.WithAttributes(
		attribute.Int("seq", req.Seq),
		attribute.String("fe_name", req.FarEndName),
		attribute.String("ne_name", req.NearEndName),
	))
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			result = da.NewFailedRouteResult(req, util.WrapErrorf(nil, da.ErrInternal, "panic while processing request %d: %v", req.Seq, r))
		}

		span.SetAttributes(attribute.String("status", result.Status.String()))
		if !result.IsSolved() {
			span.RecordError(result.Err)
			span.SetStatus(codes.Error, result.Message)
			ls.log.Warn("last-mile request failed", zap.Int("seq", req.Seq), zap.String("status", result.Status.String()),
				zap.Error(result.Err))
		}
		span.End()
		ls.collector.ObserveRequest(result, time.Since(start))
	}()

	return ls.solve(req)
}

func (ls *LastmileService) solve(req da.EndpointRequest) da.RouteResult {
	fe, feDist, err := ls.snapper.Snap(req.FarEnd)
	if err != nil {
		return da.NewFailedRouteResult(req, util.WrapErrorf(err, da.ErrSnapFailed, "far end %q: %v", req.FarEndName, err))
	}
	ne, neDist, err := ls.snapper.Snap(req.NearEnd)
	if err != nil {
		return da.NewFailedRouteResult(req, util.WrapErrorf(err, da.ErrSnapFailed, "near end %q: %v", req.NearEndName, err))
	}

	snapped := func(err error) da.RouteResult {
		res := da.NewFailedRouteResult(req, err)
		res.FarEndVertex, res.NearEndVertex = fe, ne
		res.FarEndSnapDistance, res.NearEndSnapDistance = feDist, neDist
		return res
	}

	path, subs, considered, err := ls.route(fe, ne)
	if err != nil {
		return snapped(err)
	}

	geometry := path.GetGeometry()
	res := da.RouteResult{
		Seq:                    req.Seq,
		FarEndName:             req.FarEndName,
		NearEndName:            req.NearEndName,
		Status:                 da.StatusSolved,
		FarEndVertex:           fe,
		NearEndVertex:          ne,
		FarEndSnapDistance:     feDist,
		NearEndSnapDistance:    neDist,
		Geometry:               geometry,
		EncodedPolyline:        geo.EncodePolyline(geometry),
		Length:                 path.GetLength(),
		Cost:                   path.GetCost(),
		VertexPath:             path.GetVertices(),
		EdgePath:               path.GetEdgeIds(),
		SubSegments:            subs,
		AlternativesConsidered: considered,
	}
	res.OverlapLength = res.TagLength(pkg.OVERLAP)
	res.NewBuildLength = res.TagLength(pkg.NEW_BUILD)
	return res
}

// route. shortest path, or with alternatives enabled the candidate reusing the most infrastructure.
func (ls *LastmileService) route(fe, ne da.Index) (*routing.Path, []da.SubSegment, int, error) {
	if !ls.cfg.Alternatives.Enabled {
		path, err := ls.solver.ShortestPath(fe, ne)
		if err != nil {
			return nil, nil, 0, err
		}
		subs, err := ls.classifier.Classify(path.GetGeometry())
		if err != nil {
			return nil, nil, 0, err
		}
		return path, subs, 1, nil
	}

	paths, err := ls.solver.AlternativeRoutes(fe, ne, routing.AlternativeOptions{
		TargetCount:  ls.cfg.Alternatives.TargetCount,
		WeightFactor: ls.cfg.Alternatives.WeightFactor,
		ShareFactor:  ls.cfg.Alternatives.ShareFactor,
		Penalty:      ls.cfg.Alternatives.Penalty,
	})
	if err != nil {
		return nil, nil, 0, err
	}

	candidates := make([]orb.LineString, len(paths))
	for i, p := range paths {
		candidates[i] = p.GetGeometry()
	}
	best, subs, err := ls.classifier.ClassifyBest(candidates)
	if err != nil {
		return nil, nil, 0, err
	}
	return paths[best], subs, len(paths), nil
}
