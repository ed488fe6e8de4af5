package usecases

import (
	"github.com/paulmach/orb"

	"github.com/lintang-b-s/navigatorx-lastmile/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/engine/routing"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/geo"
)

type Snapper interface {
	Snap(coord geo.Coordinate) (datastructure.Index, float64, error)
}

type RouteSolver interface {
	ShortestPath(s, t datastructure.Index) (*routing.Path, error)
	AlternativeRoutes(s, t datastructure.Index, opts routing.AlternativeOptions) ([]*routing.Path, error)
}

type Classifier interface {
	Classify(route orb.LineString) ([]datastructure.SubSegment, error)
	ClassifyBest(routes []orb.LineString) (int, []datastructure.SubSegment, error)
}
