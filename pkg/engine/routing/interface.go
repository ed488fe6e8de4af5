package routing

import (
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/costfunction"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/datastructure"
)

type CostFunction interface {
	GetWeight(e costfunction.EdgeAttributes) float64
}

type Router interface {
	ShortestPath(s, t datastructure.Index) (*Path, error)
}
