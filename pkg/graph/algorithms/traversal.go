package algorithms

import (
	"fmt"

	"github.com/athapong/go-calais/pkg/graph"
	mapset "github.com/deckarep/golang-set/v2"
)

type TraversalType string

const (
	BFS TraversalType = "BFS"
	DFS TraversalType = "DFS"
)

// GraphTraversal walks a knowledge graph treating edges as undirected, so an
// entity reaches the relations it takes part in and, through them, the other
// participants.
type GraphTraversal struct {
	nodes     map[string]graph.Node
	adjacency map[string][]string
}

func NewGraphTraversal(data *graph.KnowledgeGraphData) *GraphTraversal {
	t := &GraphTraversal{
		nodes:     make(map[string]graph.Node),
		adjacency: make(map[string][]string),
	}
	if data == nil {
		return t
	}
	for _, node := range data.Nodes {
		t.nodes[node.ID] = node
	}
	for _, edge := range data.Edges {
		t.adjacency[edge.Source] = append(t.adjacency[edge.Source], edge.Target)
		t.adjacency[edge.Target] = append(t.adjacency[edge.Target], edge.Source)
	}
	return t
}

// Traverse returns the nodes within maxDepth hops of startID in visiting
// order, startID first.
func (t *GraphTraversal) Traverse(startID string, maxDepth int, traversalType TraversalType) ([]graph.Node, error) {
	if _, ok := t.nodes[startID]; !ok {
		return nil, fmt.Errorf("node %s not found", startID)
	}

	visited := mapset.NewThreadUnsafeSet[string]()
	switch traversalType {
	case BFS:
		return t.bfs(startID, maxDepth, visited), nil
	case DFS:
		var result []graph.Node
		t.dfs(startID, maxDepth, visited, &result)
		return result, nil
	default:
		return nil, fmt.Errorf("unsupported traversal type: %s", traversalType)
	}
}

func (t *GraphTraversal) bfs(startID string, maxDepth int, visited mapset.Set[string]) []graph.Node {
	queue := []string{startID}
	visited.Add(startID)
	var result []graph.Node

	for depth := 0; len(queue) > 0 && depth <= maxDepth; depth++ {
		var next []string
		for _, current := range queue {
			result = append(result, t.nodes[current])
			for _, neighbor := range t.adjacency[current] {
				if visited.Add(neighbor) {
					next = append(next, neighbor)
				}
			}
		}
		queue = next
	}

	return result
}

func (t *GraphTraversal) dfs(currentID string, maxDepth int, visited mapset.Set[string], result *[]graph.Node) {
	if maxDepth < 0 || !visited.Add(currentID) {
		return
	}
	*result = append(*result, t.nodes[currentID])

	for _, neighbor := range t.adjacency[currentID] {
		t.dfs(neighbor, maxDepth-1, visited, result)
	}
}

// FindByLabel returns the ID of the first node, in graph order, whose ID or
// label equals key.
func FindByLabel(data *graph.KnowledgeGraphData, key string) (string, bool) {
	for _, node := range data.Nodes {
		if node.ID == key || node.Label == key {
			return node.ID, true
		}
	}
	return "", false
}

// Subgraph keeps the given nodes and the edges between them. Nodes and Edges
// are never nil so the result always encodes as JSON arrays.
func Subgraph(data *graph.KnowledgeGraphData, nodes []graph.Node) *graph.KnowledgeGraphData {
	keep := mapset.NewThreadUnsafeSet[string]()
	for _, node := range nodes {
		keep.Add(node.ID)
	}

	sub := &graph.KnowledgeGraphData{
		Nodes:       make([]graph.Node, 0, len(nodes)),
		Edges:       make([]graph.Edge, 0),
		GeneratedAt: data.GeneratedAt,
	}
	for _, node := range data.Nodes {
		if keep.Contains(node.ID) {
			sub.Nodes = append(sub.Nodes, node)
		}
	}
	for _, edge := range data.Edges {
		if keep.Contains(edge.Source, edge.Target) {
			sub.Edges = append(sub.Edges, edge)
		}
	}
	return sub
}
