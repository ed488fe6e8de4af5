package datastructure

import (
	"github.com/paulmach/orb"
)

// InfrastructureFeature. one named existing fiber-optic cable.
type InfrastructureFeature struct {
	Name     string
	Geometry orb.MultiLineString
}

// InfrastructureLayer. immutable set of features, treated as a union by the classifier.
type InfrastructureLayer struct {
	features []InfrastructureFeature
}

func NewInfrastructureLayer(features []InfrastructureFeature) *InfrastructureLayer {
	fs := make([]InfrastructureFeature, len(features))
	copy(fs, features)
	return &InfrastructureLayer{features: fs}
}

func (l *InfrastructureLayer) Len() int {
	return len(l.features)
}

func (l *InfrastructureLayer) GetFeature(i int) InfrastructureFeature {
	return l.features[i]
}

// ForSegments. calls handle for every consecutive coordinate pair of every feature
func (l *InfrastructureLayer) ForSegments(handle func(featureIdx int, a, b orb.Point)) {
	for fi, f := range l.features {
		for _, ls := range f.Geometry {
			for i := 1; i < len(ls); i++ {
				handle(fi, ls[i-1], ls[i])
			}
		}
	}
}
