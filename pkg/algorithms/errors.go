package algorithms

import "errors"

var (
	// ErrInvalidGraphKind is returned when a directed graph is passed to an
	// algorithm that only supports undirected graphs.
	ErrInvalidGraphKind = errors.New("algorithms: graph must be undirected")

	// ErrUndefinedMetric is returned when a metric has no value for the
	// input, e.g. modularity of a graph without edges.
	ErrUndefinedMetric = errors.New("algorithms: metric undefined")

	// ErrNodeUnassigned is returned when a graph node has no community.
	ErrNodeUnassigned = errors.New("algorithms: node has no community")

	// ErrNegativeWeight is returned by Louvain for graphs with negative edge weights.
	ErrNegativeWeight = errors.New("algorithms: negative edge weight")
)
