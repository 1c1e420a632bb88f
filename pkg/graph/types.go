package graph

import (
	"context"
	"time"
)

// Node types assigned when the service omits _type.
const (
	NodeTypeTopic    = "Topic"
	NodeTypeRelation = "Relation"
)

// Node represents an entity, topic or relation in the knowledge graph
type Node struct {
	ID         string                 `json:"id"`
	Label      string                 `json:"label"`
	Type       string                 `json:"type"`
	Group      string                 `json:"group"`
	Properties map[string]interface{} `json:"properties,omitempty"`
	Relevance  float64                `json:"relevance,omitempty"`
	Sources    []string               `json:"sources,omitempty"` // Document IDs where this node was found
}

// Edge links a relation node to one of its participants
type Edge struct {
	ID     string  `json:"id"`
	Source string  `json:"source"` // Source node ID
	Target string  `json:"target"` // Target node ID
	Type   string  `json:"type"`
	Weight float64 `json:"weight"`
}

// KnowledgeGraphData is the serializable form of a knowledge graph
type KnowledgeGraphData struct {
	Nodes       []Node    `json:"nodes"`
	Edges       []Edge    `json:"edges"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Store persists knowledge graphs
type Store interface {
	StoreGraph(ctx context.Context, data *KnowledgeGraphData) error
	LoadGraph(ctx context.Context) (*KnowledgeGraphData, error)
}
