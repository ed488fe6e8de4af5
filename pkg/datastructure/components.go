package datastructure

// labelComponents. labels weakly connected components with union-find over all edges.
// roots are the smallest vertex id of the component, labels are compressed to 0..k-1 in order of first appearance.
func (g *Graph) labelComponents() {
	n := len(g.vertices)
	parent := make([]Index, n)
	for v := range parent {
		parent[v] = Index(v)
	}

	find := func(v Index) Index {
		root := v
		for parent[root] != root {
			root = parent[root]
		}
		// path compression
		for parent[v] != root {
			next := parent[v]
			parent[v] = root
			v = next
		}
		return root
	}

	union := func(u, v Index) {
		ru, rv := find(u), find(v)
		if ru == rv {
			return
		}
		if ru < rv {
			parent[rv] = ru
		} else {
			parent[ru] = rv
		}
	}

	for i := range g.edges {
		union(g.edges[i].tail, g.edges[i].head)
	}

	labels := make(map[Index]Index)
	components := make([]Index, n)
	for v := 0; v < n; v++ {
		root := find(Index(v))
		label, ok := labels[root]
		if !ok {
			label = Index(len(labels))
			labels[root] = label
		}
		components[v] = label
	}

	g.components = components
	g.numComponents = len(labels)
}
