// Package graphql exposes scoring reports through a read-only GraphQL API.
package graphql

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/graphql-go/graphql"

	"github.com/dd0wney/cluso-polarity/pkg/engine"
	"github.com/dd0wney/cluso-polarity/pkg/validation"
)

// ErrNoReport is returned by resolvers before a report is available.
var ErrNoReport = errors.New("no report available")

// ReportProvider returns the current report, or nil if none has been
// computed yet.
type ReportProvider interface {
	Report() *engine.Report
}

// ReportFunc adapts a function to ReportProvider.
type ReportFunc func() *engine.Report

// Report calls f.
func (f ReportFunc) Report() *engine.Report { return f() }

func createScoreType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name:        "Score",
		Description: "A metric value; undefined scores carry a reason",
		Fields: graphql.Fields{
			"value":   &graphql.Field{Type: graphql.Float},
			"defined": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"reason":  &graphql.Field{Type: graphql.String},
		},
	})
}

func createPairType(scoreType *graphql.Object) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name:        "PairScore",
		Description: "Scores of one community pair",
		Fields: graphql.Fields{
			"a":             &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"b":             &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"polarization":  &graphql.Field{Type: scoreType},
			"modularity":    &graphql.Field{Type: scoreType},
			"boundaryNodes": &graphql.Field{Type: graphql.Int},
			"interiorNodes": &graphql.Field{Type: graphql.Int},
			"excludedNodes": &graphql.Field{Type: graphql.Int},
			"boundaryEdges": &graphql.Field{Type: graphql.Int},
			"interiorEdges": &graphql.Field{Type: graphql.Int},
		},
	})
}

func createSummaryType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Summary",
		Fields: graphql.Fields{
			"count":     &graphql.Field{Type: graphql.Int},
			"defined":   &graphql.Field{Type: graphql.Int},
			"undefined": &graphql.Field{Type: graphql.Int},
			"mean":      &graphql.Field{Type: graphql.Float},
			"min":       &graphql.Field{Type: graphql.Float},
			"max":       &graphql.Field{Type: graphql.Float},
		},
	})
}

func createRunType(scoreType *graphql.Object) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Run",
		Fields: graphql.Fields{
			"id":              &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"startedAt":       &graphql.Field{Type: graphql.DateTime},
			"durationMs":      &graphql.Field{Type: graphql.Float},
			"nodes":           &graphql.Field{Type: graphql.Int},
			"edges":           &graphql.Field{Type: graphql.Int},
			"communities":     &graphql.Field{Type: graphql.NewList(graphql.Int)},
			"policy":          &graphql.Field{Type: graphql.String},
			"graphModularity": &graphql.Field{Type: scoreType},
		},
	})
}

func scoreValue(s engine.Score) map[string]any {
	out := map[string]any{"defined": s.Defined}
	if s.Defined {
		out["value"] = s.Value
	} else {
		out["reason"] = s.Reason
	}
	return out
}

func pairValue(r *engine.Report, i int) map[string]any {
	ps := r.Polarization[i]
	out := map[string]any{
		"a":             ps.Pair.A,
		"b":             ps.Pair.B,
		"polarization":  scoreValue(ps.Score),
		"boundaryNodes": ps.BoundaryNodes,
		"interiorNodes": ps.InteriorNodes,
		"excludedNodes": ps.ExcludedNodes,
		"boundaryEdges": ps.BoundaryEdges,
		"interiorEdges": ps.InteriorEdges,
	}
	if i < len(r.Modularity) {
		out["modularity"] = scoreValue(r.Modularity[i].Score)
	}
	return out
}

// NewSchema builds the query schema over the reports of provider.
func NewSchema(provider ReportProvider, limits *LimitConfig) (graphql.Schema, error) {
	if limits == nil {
		limits = DefaultLimitConfig()
	}
	if err := ValidateLimitConfig(limits); err != nil {
		return graphql.Schema{}, err
	}

	current := func() (*engine.Report, error) {
		r := provider.Report()
		if r == nil {
			return nil, ErrNoReport
		}
		return r, nil
	}

	scoreType := createScoreType()
	pairType := createPairType(scoreType)

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"run": &graphql.Field{
				Type: createRunType(scoreType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					r, err := current()
					if err != nil {
						return nil, err
					}
					return map[string]any{
						"id":              r.RunID,
						"startedAt":       r.StartedAt,
						"durationMs":      float64(r.Duration.Microseconds()) / 1000,
						"nodes":           r.Nodes,
						"edges":           r.Edges,
						"communities":     r.Communities,
						"policy":          r.Policy,
						"graphModularity": scoreValue(r.GraphModularity),
					}, nil
				},
			},
			"pairs": &graphql.Field{
				Type:        graphql.NewList(pairType),
				Description: "Community pairs in scoring order",
				Args: graphql.FieldConfigArgument{
					"limit":       &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: -1},
					"offset":      &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
					"definedOnly": &graphql.ArgumentConfig{Type: graphql.Boolean, DefaultValue: false},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					r, err := current()
					if err != nil {
						return nil, err
					}
					limit := applyLimit(p.Args["limit"].(int), limits)
					offset := p.Args["offset"].(int)
					if offset < 0 {
						return nil, fmt.Errorf("offset must be non-negative, got %d", offset)
					}
					definedOnly := p.Args["definedOnly"].(bool)

					out := make([]map[string]any, 0)
					skipped := 0
					for i, ps := range r.Polarization {
						if len(out) >= limit {
							break
						}
						if definedOnly && !ps.Score.Defined {
							continue
						}
						if skipped < offset {
							skipped++
							continue
						}
						out = append(out, pairValue(r, i))
					}
					return out, nil
				},
			},
			"pair": &graphql.Field{
				Type:        pairType,
				Description: "One pair, in either orientation",
				Args: graphql.FieldConfigArgument{
					"a": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"b": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					a, b := p.Args["a"].(int), p.Args["b"].(int)
					if err := validation.ValidatePair(a, b); err != nil {
						return nil, err
					}
					r, err := current()
					if err != nil {
						return nil, err
					}
					for i, ps := range r.Polarization {
						if (ps.Pair.A == a && ps.Pair.B == b) || (ps.Pair.A == b && ps.Pair.B == a) {
							return pairValue(r, i), nil
						}
					}
					return nil, nil
				},
			},
			"summary": &graphql.Field{
				Type: createSummaryType(),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					r, err := current()
					if err != nil {
						return nil, err
					}
					s := r.Summarize()
					return map[string]any{
						"count":     s.Pairs,
						"defined":   s.Defined,
						"undefined": s.Undefined,
						"mean":      s.Mean,
						"min":       s.Min,
						"max":       s.Max,
					}, nil
				},
			},
			"community": &graphql.Field{
				Type:        graphql.Int,
				Description: "Community of a node, null if the node is unknown",
				Args: graphql.FieldConfigArgument{
					"node": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					node := p.Args["node"].(string)
					if err := validation.ValidateNodeID(node); err != nil {
						return nil, err
					}
					r, err := current()
					if err != nil {
						return nil, err
					}
					idx, err := strconv.Atoi(node)
					if err != nil || strconv.Itoa(idx) != node || idx < 0 || idx >= len(r.Assignment) {
						return nil, nil
					}
					return r.Assignment[idx], nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: queryType})
}
