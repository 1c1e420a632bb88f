package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/athapong/go-calais/pkg/graph"
	"github.com/neo4j/neo4j-go-driver/v4/neo4j"
	"github.com/pkg/errors"
)

const (
	mergeNodeQuery = `
		MERGE (n:CalaisNode {id: $id})
		SET n.label = $label,
			n.type = $type,
			n.group = $group,
			n.relevance = $relevance,
			n.properties = $properties,
			n.sources = $sources,
			n.updated_at = datetime()
	`

	mergeEdgeQuery = `
		MATCH (from:CalaisNode {id: $fromID})
		MATCH (to:CalaisNode {id: $toID})
		MERGE (from)-[r:RELATES {id: $id}]->(to)
		SET r.type = $type,
			r.weight = $weight,
			r.updated_at = datetime()
	`

	loadNodesQuery = `
		MATCH (n:CalaisNode)
		RETURN n.id AS id, n.label AS label, n.type AS type, n.group AS group,
			n.relevance AS relevance, n.properties AS properties, n.sources AS sources
		ORDER BY id
	`

	loadEdgesQuery = `
		MATCH (from:CalaisNode)-[r:RELATES]->(to:CalaisNode)
		RETURN r.id AS id, from.id AS source, to.id AS target, r.type AS type, r.weight AS weight
		ORDER BY id
	`
)

// Neo4jStorage implements graph.Store on a Neo4j database. Node properties
// are stored as a JSON string since Neo4j does not accept nested maps.
type Neo4jStorage struct {
	driver neo4j.Driver
}

var _ graph.Store = (*Neo4jStorage)(nil)

// NewNeo4jStorage creates a new Neo4j storage instance
func NewNeo4jStorage(uri, username, password string) (*Neo4jStorage, error) {
	driver, err := neo4j.NewDriver(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Neo4j driver")
	}
	return &Neo4jStorage{driver: driver}, nil
}

// Close releases the driver
func (s *Neo4jStorage) Close() error {
	return s.driver.Close()
}

// StoreGraph merges every node and edge in a single write transaction
func (s *Neo4jStorage) StoreGraph(ctx context.Context, data *graph.KnowledgeGraphData) error {
	if data == nil {
		return errors.New("cannot store nil graph")
	}

	session := s.driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(tx neo4j.Transaction) (interface{}, error) {
		for _, node := range data.Nodes {
			params, err := nodeParams(node)
			if err != nil {
				return nil, err
			}
			if _, err := tx.Run(mergeNodeQuery, params); err != nil {
				return nil, errors.Wrapf(err, "merging node %s", node.ID)
			}
		}

		for _, edge := range data.Edges {
			params := map[string]interface{}{
				"id":     edge.ID,
				"fromID": edge.Source,
				"toID":   edge.Target,
				"type":   edge.Type,
				"weight": edge.Weight,
			}
			if _, err := tx.Run(mergeEdgeQuery, params); err != nil {
				return nil, errors.Wrapf(err, "merging edge %s", edge.ID)
			}
		}

		return nil, nil
	})

	return err
}

// LoadGraph reads back every node and edge written by StoreGraph
func (s *Neo4jStorage) LoadGraph(ctx context.Context) (*graph.KnowledgeGraphData, error) {
	session := s.driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	loaded, err := session.ReadTransaction(func(tx neo4j.Transaction) (interface{}, error) {
		data := &graph.KnowledgeGraphData{GeneratedAt: time.Now()}

		nodes, err := tx.Run(loadNodesQuery, nil)
		if err != nil {
			return nil, errors.Wrap(err, "loading nodes")
		}
		for nodes.Next() {
			node, err := nodeFromRecord(nodes.Record())
			if err != nil {
				return nil, err
			}
			data.Nodes = append(data.Nodes, node)
		}
		if err := nodes.Err(); err != nil {
			return nil, errors.Wrap(err, "loading nodes")
		}

		edges, err := tx.Run(loadEdgesQuery, nil)
		if err != nil {
			return nil, errors.Wrap(err, "loading edges")
		}
		for edges.Next() {
			data.Edges = append(data.Edges, edgeFromRecord(edges.Record()))
		}
		if err := edges.Err(); err != nil {
			return nil, errors.Wrap(err, "loading edges")
		}

		return data, nil
	})
	if err != nil {
		return nil, err
	}

	return loaded.(*graph.KnowledgeGraphData), nil
}

func nodeParams(node graph.Node) (map[string]interface{}, error) {
	properties, err := json.Marshal(node.Properties)
	if err != nil {
		return nil, errors.Wrapf(err, "encoding properties of %s", node.ID)
	}

	sources := make([]interface{}, len(node.Sources))
	for i, src := range node.Sources {
		sources[i] = src
	}

	return map[string]interface{}{
		"id":         node.ID,
		"label":      node.Label,
		"type":       node.Type,
		"group":      node.Group,
		"relevance":  node.Relevance,
		"properties": string(properties),
		"sources":    sources,
	}, nil
}

func nodeFromRecord(record *neo4j.Record) (graph.Node, error) {
	node := graph.Node{
		ID:        stringValue(record, "id"),
		Label:     stringValue(record, "label"),
		Type:      stringValue(record, "type"),
		Group:     stringValue(record, "group"),
		Relevance: floatValue(record, "relevance"),
	}

	if raw := stringValue(record, "properties"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &node.Properties); err != nil {
			return graph.Node{}, errors.Wrapf(err, "decoding properties of %s", node.ID)
		}
	}

	if sources, ok := record.Get("sources"); ok {
		if list, ok := sources.([]interface{}); ok {
			for _, src := range list {
				if s, ok := src.(string); ok {
					node.Sources = append(node.Sources, s)
				}
			}
		}
	}

	return node, nil
}

func edgeFromRecord(record *neo4j.Record) graph.Edge {
	return graph.Edge{
		ID:     stringValue(record, "id"),
		Source: stringValue(record, "source"),
		Target: stringValue(record, "target"),
		Type:   stringValue(record, "type"),
		Weight: floatValue(record, "weight"),
	}
}

func stringValue(record *neo4j.Record, key string) string {
	v, _ := record.Get(key)
	s, _ := v.(string)
	return s
}

func floatValue(record *neo4j.Record, key string) float64 {
	v, _ := record.Get(key)
	switch f := v.(type) {
	case float64:
		return f
	case int64:
		return float64(f)
	default:
		return 0
	}
}
