package costfunction

import (
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/datastructure"
)

type EdgeAttributes interface {
	GetLength() float64
	GetEdgeId() datastructure.Index
}

type CostFunction interface {
	GetWeight(e EdgeAttributes) float64
}

// LengthCostFunction. edge weight = physical length in meter
type LengthCostFunction struct{}

func NewLengthCostFunction() *LengthCostFunction {
	return &LengthCostFunction{}
}

func (lf *LengthCostFunction) GetWeight(e EdgeAttributes) float64 {
	return e.GetLength()
}

// PenaltyCostFunction. multiplies the weight of penalized edges, used by the penalty method for alternative routes.
// not safe for concurrent use while Penalize is called.
type PenaltyCostFunction struct {
	base      CostFunction
	penalty   float64
	penalized map[datastructure.Index]float64
}

func NewPenaltyCostFunction(base CostFunction, penalty float64) *PenaltyCostFunction {
	return &PenaltyCostFunction{
		base:      base,
		penalty:   penalty,
		penalized: make(map[datastructure.Index]float64),
	}
}

func (pf *PenaltyCostFunction) GetWeight(e EdgeAttributes) float64 {
	w := pf.base.GetWeight(e)
	if factor, ok := pf.penalized[e.GetEdgeId()]; ok {
		return w * factor
	}
	return w
}

// Penalize. every call on the same edge compounds the penalty
func (pf *PenaltyCostFunction) Penalize(edgeId datastructure.Index) {
	factor, ok := pf.penalized[edgeId]
	if !ok {
		factor = 1
	}
	pf.penalized[edgeId] = factor * pf.penalty
}

func (pf *PenaltyCostFunction) NumberOfPenalizedEdges() int {
	return len(pf.penalized)
}
