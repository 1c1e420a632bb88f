package graph_test

import (
	"io"
	"testing"

	"github.com/athapong/go-calais/pkg/calais"
	"github.com/athapong/go-calais/pkg/graph"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	appleURI   = "http://d.opencalais.com/comphash-1/apple"
	jobsURI    = "http://d.opencalais.com/pershash-1/jobs"
	foundedURI = "http://d.opencalais.com/genericHasher-1/founded"
	topicURI   = "http://d.opencalais.com/dochash-1/abc/cat/1"
)

func sampleResult(t *testing.T) *calais.Result {
	t.Helper()
	result, err := calais.Normalize(map[string]interface{}{
		"doc": map[string]interface{}{
			"info": map[string]interface{}{"docId": "doc-1"},
		},
		appleURI: map[string]interface{}{
			"_typeGroup": "entities",
			"_type":      "Company",
			"name":       "Apple Inc.",
			"relevance":  0.8,
			"ticker":     "AAPL",
		},
		jobsURI: map[string]interface{}{
			"_typeGroup": "entities",
			"_type":      "Person",
			"name":       "Steve Jobs",
			"relevance":  0.6,
		},
		foundedURI: map[string]interface{}{
			"_typeGroup": "relations",
			"_type":      "CompanyFounded",
			"company":    appleURI,
			"founder":    jobsURI,
		},
		topicURI: map[string]interface{}{
			"_typeGroup":   "topics",
			"categoryName": "Business_Finance",
		},
	})
	require.NoError(t, err)
	return result
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func nodeByID(data *graph.KnowledgeGraphData, id string) (graph.Node, bool) {
	for _, node := range data.Nodes {
		if node.ID == id {
			return node, true
		}
	}
	return graph.Node{}, false
}

func TestKnowledgeGraphGenerator_AddResult(t *testing.T) {
	gen := graph.NewKnowledgeGraphGenerator(quietLogger())
	require.NoError(t, gen.AddResult("doc-1", sampleResult(t)))

	data := gen.Generate()
	require.Len(t, data.Nodes, 4)

	apple, ok := nodeByID(data, appleURI)
	require.True(t, ok)
	assert.Equal(t, "Apple Inc.", apple.Label)
	assert.Equal(t, "Company", apple.Type)
	assert.Equal(t, calais.GroupEntities, apple.Group)
	assert.Equal(t, 0.8, apple.Relevance)
	assert.Equal(t, "AAPL", apple.Properties["ticker"])
	assert.Equal(t, []string{"doc-1"}, apple.Sources)

	topic, ok := nodeByID(data, topicURI)
	require.True(t, ok)
	assert.Equal(t, "Business_Finance", topic.Label)
	assert.Equal(t, graph.NodeTypeTopic, topic.Type)

	founded, ok := nodeByID(data, foundedURI)
	require.True(t, ok)
	assert.Equal(t, calais.GroupRelations, founded.Group)
	assert.NotContains(t, founded.Properties, "company", "inlined participants are not scalar properties")

	require.Len(t, data.Edges, 2)
	assert.Equal(t, foundedURI, data.Edges[0].Source)
	assert.Equal(t, appleURI, data.Edges[0].Target)
	assert.Equal(t, "company", data.Edges[0].Type)
	assert.Equal(t, 1.0, data.Edges[0].Weight)
	assert.Equal(t, jobsURI, data.Edges[1].Target)
	assert.Equal(t, "founder", data.Edges[1].Type)
}

func TestKnowledgeGraphGenerator_MergesDocuments(t *testing.T) {
	gen := graph.NewKnowledgeGraphGenerator(quietLogger())
	result := sampleResult(t)
	require.NoError(t, gen.AddResult("doc-2", result))
	require.NoError(t, gen.AddResult("doc-1", result))
	require.NoError(t, gen.AddResult("doc-1", result))

	data := gen.Generate()
	assert.Len(t, data.Nodes, 4)
	assert.Len(t, data.Edges, 2)

	apple, ok := nodeByID(data, appleURI)
	require.True(t, ok)
	assert.Equal(t, []string{"doc-1", "doc-2"}, apple.Sources)
}

func TestKnowledgeGraphGenerator_SkipsUnknownParticipants(t *testing.T) {
	result, err := calais.Normalize(map[string]interface{}{
		"doc": map[string]interface{}{},
		foundedURI: map[string]interface{}{
			"_typeGroup": "relations",
			"_type":      "CompanyFounded",
			"company":    appleURI,
		},
		appleURI: map[string]interface{}{
			"_typeGroup": "socialTag",
			"name":       "Apple",
		},
	})
	require.NoError(t, err)

	gen := graph.NewKnowledgeGraphGenerator(quietLogger())
	require.NoError(t, gen.AddResult("doc-1", result))

	data := gen.Generate()
	require.Len(t, data.Nodes, 1)
	assert.Equal(t, "CompanyFounded", data.Nodes[0].Type)
	assert.Empty(t, data.Edges)
}

func TestKnowledgeGraphGenerator_NilResult(t *testing.T) {
	gen := graph.NewKnowledgeGraphGenerator(nil)
	assert.Error(t, gen.AddResult("doc-1", nil))
}
