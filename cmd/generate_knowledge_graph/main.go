package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/athapong/go-calais/pkg/calais"
	"github.com/athapong/go-calais/pkg/graph"
	"github.com/athapong/go-calais/pkg/graph/algorithms"
	"github.com/athapong/go-calais/pkg/graph/metrics"
	"github.com/athapong/go-calais/pkg/graph/storage"
	"github.com/athapong/go-calais/pkg/graph/visualizer"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var (
	envFile         = flag.String("env", ".env", "Path to environment file")
	inputDir        = flag.String("input", "", "Directory containing input documents")
	outputFile      = flag.String("output", "knowledge_graph.json", "Output file path for the knowledge graph")
	stripHTML       = flag.Bool("strip-html", false, "Submit HTML files as plain text instead of markup")
	useNeo4j        = flag.Bool("neo4j", false, "Also write the graph to Neo4j (NEO4J_URI, NEO4J_USER, NEO4J_PASSWORD)")
	visualize       = flag.Bool("visualize", false, "Generate a visualization of the knowledge graph")
	visualizeOutput = flag.String("viz-output", "knowledge_graph.html", "Output file for the visualization")
	focus           = flag.String("focus", "", "Only visualize the neighborhood of this node (ID or label)")
	focusDepth      = flag.Int("focus-depth", 2, "Hops to include around the focus node")
	logLevel        = flag.String("log-level", "info", "Logging level (debug, info, warn, error)")
)

func main() {
	flag.Parse()

	logger := logrus.New()
	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		logger.Fatalf("Invalid log level: %v", err)
	}
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	if err := godotenv.Load(*envFile); err != nil {
		logger.Debugf("No env file loaded from %s: %v", *envFile, err)
	}

	if *inputDir == "" {
		logger.Fatal("Input directory must be specified")
	}

	apiKey := os.Getenv("CALAIS_API_KEY")
	if apiKey == "" {
		logger.Fatal("CALAIS_API_KEY must be set")
	}

	opts := []calais.Option{calais.WithLogger(logger)}
	if endpoint := os.Getenv("CALAIS_ENDPOINT"); endpoint != "" {
		opts = append(opts, calais.WithEndpoint(endpoint))
	}
	if *stripHTML {
		opts = append(opts, calais.WithStripHTML())
	}
	client := calais.NewClient(apiKey, opts...)

	files, err := readInputFiles(*inputDir)
	if err != nil {
		logger.Fatalf("Failed to read input directory: %v", err)
	}
	if len(files) == 0 {
		logger.Fatal("No input files found")
	}

	logger.Infof("Analyzing %d input files...", len(files))

	ctx := context.Background()
	knowledgeGraph, failed := buildGraph(ctx, client, files, logger)
	if failed == len(files) {
		logger.Fatal("Every input file failed to analyze")
	}
	metrics.Record(knowledgeGraph)

	graphStore := storage.NewJSONGraphStore(*outputFile)
	if err := graphStore.StoreGraph(ctx, knowledgeGraph); err != nil {
		logger.Fatalf("Failed to store knowledge graph: %v", err)
	}

	logger.Infof("Knowledge graph generated with %d nodes and %d edges",
		len(knowledgeGraph.Nodes), len(knowledgeGraph.Edges))
	logger.Infof("Knowledge graph saved to %s", *outputFile)

	if *useNeo4j {
		if err := storeNeo4j(ctx, knowledgeGraph); err != nil {
			logger.Errorf("Failed to write knowledge graph to Neo4j: %v", err)
		} else {
			logger.Info("Knowledge graph written to Neo4j")
		}
	}

	if *visualize {
		vizGraph, err := focusGraph(knowledgeGraph, *focus, *focusDepth)
		if err != nil {
			logger.Fatalf("Failed to focus visualization: %v", err)
		}
		viz := visualizer.NewD3Visualizer(*visualizeOutput)
		if err := viz.Visualize(vizGraph); err != nil {
			logger.Errorf("Failed to visualize knowledge graph: %v", err)
		} else {
			logger.Infof("Visualization saved to %s", *visualizeOutput)
		}
	}
}

// buildGraph analyzes files one at a time and merges the results. It returns
// the graph and the number of files that could not be analyzed.
func buildGraph(ctx context.Context, client *calais.Client, files []string, logger *logrus.Logger) (*graph.KnowledgeGraphData, int) {
	generator := graph.NewKnowledgeGraphGenerator(logger)
	failed := 0

	for _, file := range files {
		result, err := client.AnalyzeFile(ctx, file, client.Config().With(calais.WithExternalID(filepath.Base(file))))
		if err != nil {
			logger.Errorf("Failed to analyze %s: %v", file, err)
			failed++
			continue
		}
		if err := generator.AddResult(file, result); err != nil {
			logger.Errorf("Failed to add %s to graph: %v", file, err)
			failed++
		}
	}

	return generator.Generate(), failed
}

// focusGraph narrows data to the neighborhood of the node named by key. An
// empty key keeps the whole graph.
func focusGraph(data *graph.KnowledgeGraphData, key string, depth int) (*graph.KnowledgeGraphData, error) {
	if key == "" {
		return data, nil
	}
	id, ok := algorithms.FindByLabel(data, key)
	if !ok {
		return nil, fmt.Errorf("no node with ID or label %q", key)
	}
	nodes, err := algorithms.NewGraphTraversal(data).Traverse(id, depth, algorithms.BFS)
	if err != nil {
		return nil, err
	}
	return algorithms.Subgraph(data, nodes), nil
}

func storeNeo4j(ctx context.Context, data *graph.KnowledgeGraphData) error {
	store, err := storage.NewNeo4jStorage(
		os.Getenv("NEO4J_URI"),
		os.Getenv("NEO4J_USER"),
		os.Getenv("NEO4J_PASSWORD"),
	)
	if err != nil {
		return err
	}
	defer store.Close()

	return store.StoreGraph(ctx, data)
}

// readInputFiles lists the documents under inputDir that can be analyzed
func readInputFiles(inputDir string) ([]string, error) {
	supportedExtensions := map[string]bool{
		".txt": true, ".md": true, ".html": true, ".htm": true, ".xhtml": true, ".xml": true, ".pdf": true,
	}

	var files []string
	err := filepath.Walk(inputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			ext := strings.ToLower(filepath.Ext(path))
			if supportedExtensions[ext] {
				files = append(files, path)
			}
		}
		return nil
	})

	return files, err
}
