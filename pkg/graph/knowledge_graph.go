package graph

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/athapong/go-calais/pkg/calais"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/sirupsen/logrus"
)

type nodeState struct {
	node    Node
	sources mapset.Set[string]
}

// KnowledgeGraphGenerator merges analysis results into one knowledge graph.
// Entities and topics become nodes keyed by their URI; each relation becomes
// a node with one edge per participant it references.
type KnowledgeGraphGenerator struct {
	nodes       map[string]*nodeState
	edges       map[string]Edge
	documentMap map[string]bool
	mutex       sync.RWMutex
	logger      *logrus.Logger
}

// NewKnowledgeGraphGenerator creates a new knowledge graph generator
func NewKnowledgeGraphGenerator(logger *logrus.Logger) *KnowledgeGraphGenerator {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	return &KnowledgeGraphGenerator{
		nodes:       make(map[string]*nodeState),
		edges:       make(map[string]Edge),
		documentMap: make(map[string]bool),
		logger:      logger,
	}
}

// AddResult adds the objects of one analysis result. Results already added
// under the same docID are skipped.
func (g *KnowledgeGraphGenerator) AddResult(docID string, result *calais.Result) error {
	if result == nil {
		return fmt.Errorf("cannot add nil result to graph")
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	if g.documentMap[docID] {
		return nil
	}
	g.documentMap[docID] = true

	for _, obj := range result.Entities() {
		g.addNode(docID, obj, calais.GroupEntities, obj.Name())
	}

	for _, obj := range result.Topics() {
		label, ok := obj.Field("categoryName")
		if !ok {
			label = obj.Name()
		}
		g.addNode(docID, obj, calais.GroupTopics, label)
	}

	skipped := 0
	for _, rel := range result.Relations() {
		relID := g.addNode(docID, rel, calais.GroupRelations, rel.Type())
		if relID == "" {
			continue
		}
		weight, ok := rel.Relevance()
		if !ok {
			weight = 1
		}

		for _, field := range rel.Keys() {
			if strings.HasPrefix(field, "_") {
				continue
			}
			participant, ok := rel.Ref(field)
			if !ok {
				continue
			}
			targetID := g.participantID(participant)
			if targetID == "" {
				skipped++
				continue
			}
			edgeID := fmt.Sprintf("%s-%s-%s", relID, field, targetID)
			if _, exists := g.edges[edgeID]; !exists {
				g.edges[edgeID] = Edge{
					ID:     edgeID,
					Source: relID,
					Target: targetID,
					Type:   field,
					Weight: weight,
				}
			}
		}
	}

	if skipped > 0 {
		g.logger.WithFields(logrus.Fields{
			"doc_id":  docID,
			"skipped": skipped,
		}).Warn("Skipping relation participants with unknown entities")
	}

	g.logger.WithFields(logrus.Fields{
		"doc_id":    docID,
		"nodes":     len(g.nodes),
		"edges":     len(g.edges),
		"relations": len(result.Relations()),
	}).Debug("Added analysis result to graph")

	return nil
}

// addNode inserts or updates the node for obj and returns its ID.
func (g *KnowledgeGraphGenerator) addNode(docID string, obj calais.Object, group, label string) string {
	id := obj.URI()
	if id == "" {
		return ""
	}

	state, exists := g.nodes[id]
	if !exists {
		nodeType := obj.Type()
		if nodeType == "" {
			nodeType = defaultNodeType(group)
		}
		if label == "" {
			label = id
		}
		state = &nodeState{
			node: Node{
				ID:         id,
				Label:      label,
				Type:       nodeType,
				Group:      group,
				Properties: scalarProperties(obj),
			},
			sources: mapset.NewThreadUnsafeSet[string](),
		}
		g.nodes[id] = state
	}

	if relevance, ok := obj.Relevance(); ok && relevance > state.node.Relevance {
		state.node.Relevance = relevance
	}
	state.sources.Add(docID)
	return id
}

// participantID returns the node ID of an inlined participant, or "" when
// the participant is not in the graph.
func (g *KnowledgeGraphGenerator) participantID(participant calais.Object) string {
	id := participant.URI()
	if _, exists := g.nodes[id]; !exists {
		return ""
	}
	return id
}

// Generate builds and returns the final knowledge graph
func (g *KnowledgeGraphGenerator) Generate() *KnowledgeGraphData {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	nodes := make([]Node, 0, len(g.nodes))
	for _, state := range g.nodes {
		node := state.node
		node.Sources = state.sources.ToSlice()
		sort.Strings(node.Sources)
		nodes = append(nodes, node)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	edges := make([]Edge, 0, len(g.edges))
	for _, edge := range g.edges {
		edges = append(edges, edge)
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].ID < edges[j].ID })

	return &KnowledgeGraphData{
		Nodes:       nodes,
		Edges:       edges,
		GeneratedAt: time.Now(),
	}
}

func defaultNodeType(group string) string {
	switch group {
	case calais.GroupTopics:
		return NodeTypeTopic
	case calais.GroupRelations:
		return NodeTypeRelation
	default:
		return group
	}
}

// scalarProperties keeps the service fields that render as plain strings.
func scalarProperties(obj calais.Object) map[string]interface{} {
	props := make(map[string]interface{})
	for _, key := range obj.Keys() {
		if strings.HasPrefix(key, "_") || key == calais.FieldName {
			continue
		}
		if v, ok := obj.Field(key); ok {
			props[key] = v
		}
	}
	return props
}
