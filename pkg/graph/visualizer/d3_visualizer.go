package visualizer

import (
	"bytes"
	"encoding/json"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"github.com/athapong/go-calais/pkg/graph"
	"github.com/pkg/errors"
)

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>{{.Title}}</title>
    <script src="https://d3js.org/d3.v7.min.js"></script>
    <style>
        body { margin: 0; font-family: Arial, sans-serif; }
        #graph { width: 100%; height: 100vh; background-color: #fafafa; }
        .link { stroke: #999; stroke-opacity: 0.6; }
        .node { stroke: #fff; stroke-width: 1.5px; }
        .node-label { font-size: 10px; pointer-events: none; }
        .legend { position: absolute; top: 10px; left: 10px; padding: 10px;
            background-color: rgba(255,255,255,0.85); border-radius: 5px; }
    </style>
</head>
<body>
    <div id="graph"></div>
    <div class="legend">
        <h3>{{.Title}}</h3>
        <p>Nodes: {{.NodeCount}}, Edges: {{.EdgeCount}}</p>
        <ul>{{range .Groups}}<li>{{.}}</li>{{end}}</ul>
    </div>
    <script>
        const graphData = {{.GraphData}};
        const groupColor = d3.scaleOrdinal(d3.schemeTableau10)
            .domain([...new Set(graphData.nodes.map(n => n.group))]);

        const svg = d3.select("#graph").append("svg")
            .attr("width", "100%").attr("height", "100%")
            .call(d3.zoom().on("zoom", (event) => g.attr("transform", event.transform)));
        const g = svg.append("g");

        const simulation = d3.forceSimulation(graphData.nodes)
            .force("link", d3.forceLink(graphData.edges).id(d => d.id).distance(90))
            .force("charge", d3.forceManyBody().strength(-250))
            .force("center", d3.forceCenter(window.innerWidth / 2, window.innerHeight / 2));

        const link = g.append("g").selectAll("line").data(graphData.edges).enter()
            .append("line").attr("class", "link")
            .attr("stroke-width", d => 1 + Math.sqrt(d.weight) * 2);
        link.append("title").text(d => d.type);

        const node = g.append("g").selectAll("circle").data(graphData.nodes).enter()
            .append("circle").attr("class", "node")
            .attr("r", d => d.group === "relations" ? 5 : 6 + 6 * (d.relevance || 0))
            .attr("fill", d => groupColor(d.group))
            .call(d3.drag()
                .on("start", (event, d) => { if (!event.active) simulation.alphaTarget(0.3).restart(); d.fx = d.x; d.fy = d.y; })
                .on("drag", (event, d) => { d.fx = event.x; d.fy = event.y; })
                .on("end", (event, d) => { if (!event.active) simulation.alphaTarget(0); d.fx = null; d.fy = null; }));
        node.append("title").text(d => d.label + " (" + d.type + ")");

        const label = g.append("g").selectAll("text").data(graphData.nodes).enter()
            .append("text").attr("class", "node-label")
            .attr("dx", 10).attr("dy", ".35em").text(d => d.label);

        simulation.on("tick", () => {
            link.attr("x1", d => d.source.x).attr("y1", d => d.source.y)
                .attr("x2", d => d.target.x).attr("y2", d => d.target.y);
            node.attr("cx", d => d.x).attr("cy", d => d.y);
            label.attr("x", d => d.x).attr("y", d => d.y);
        });
    </script>
</body>
</html>
`

var page = template.Must(template.New("d3").Parse(pageTemplate))

// D3Visualizer renders knowledge graphs as a standalone D3.js page,
// coloring nodes by their analysis group.
type D3Visualizer struct {
	outputPath string
	title      string
}

// NewD3Visualizer creates a new D3.js visualizer writing to outputPath
func NewD3Visualizer(outputPath string) *D3Visualizer {
	return &D3Visualizer{
		outputPath: outputPath,
		title:      "Calais Knowledge Graph",
	}
}

// Render writes the page for data to w
func (v *D3Visualizer) Render(w io.Writer, data *graph.KnowledgeGraphData) error {
	if data == nil {
		return errors.New("cannot render nil graph")
	}

	encoded, err := json.Marshal(data)
	if err != nil {
		return errors.Wrap(err, "encoding graph")
	}

	seen := make(map[string]bool)
	var groups []string
	for _, node := range data.Nodes {
		if !seen[node.Group] {
			seen[node.Group] = true
			groups = append(groups, node.Group)
		}
	}

	return page.Execute(w, struct {
		Title     string
		GraphData template.JS
		NodeCount int
		EdgeCount int
		Groups    []string
	}{
		Title:     v.title,
		GraphData: template.JS(encoded),
		NodeCount: len(data.Nodes),
		EdgeCount: len(data.Edges),
		Groups:    groups,
	})
}

// Visualize renders data into the configured output file
func (v *D3Visualizer) Visualize(data *graph.KnowledgeGraphData) error {
	var buf bytes.Buffer
	if err := v.Render(&buf, data); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(v.outputPath), 0755); err != nil {
		return errors.Wrapf(err, "creating directory for %s", v.outputPath)
	}
	return errors.Wrapf(os.WriteFile(v.outputPath, buf.Bytes(), 0644), "writing %s", v.outputPath)
}
