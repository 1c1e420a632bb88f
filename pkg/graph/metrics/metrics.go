package metrics

import (
	"github.com/athapong/go-calais/pkg/graph"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GraphNodeCount = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "calais_graph_nodes",
			Help: "Number of nodes in the knowledge graph",
		},
		[]string{"group", "node_type"},
	)

	GraphEdgeCount = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "calais_graph_edges",
			Help: "Number of edges in the knowledge graph",
		},
		[]string{"edge_type"},
	)

	GraphDocuments = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "calais_graph_documents",
		Help: "Number of distinct documents contributing to the knowledge graph",
	})
)

// Record replaces the graph gauges with the counts found in data
func Record(data *graph.KnowledgeGraphData) {
	GraphNodeCount.Reset()
	GraphEdgeCount.Reset()
	if data == nil {
		GraphDocuments.Set(0)
		return
	}

	docs := make(map[string]struct{})
	for _, node := range data.Nodes {
		GraphNodeCount.WithLabelValues(node.Group, node.Type).Inc()
		for _, src := range node.Sources {
			docs[src] = struct{}{}
		}
	}
	for _, edge := range data.Edges {
		GraphEdgeCount.WithLabelValues(edge.Type).Inc()
	}
	GraphDocuments.Set(float64(len(docs)))
}
