package drawer

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/template"
	"time"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/askiada/go-evalflow/internal/store"
	"github.com/askiada/go-evalflow/pkg/evalflow/measure"
)

// SVGDrawer is a drawer that creates a DOT file with the evaluation graph.
// The file can be converted to SVG with graphviz.
type SVGDrawer struct {
	graph       graph.Graph[string, string]
	steps       map[string]struct{}
	dotFileName string
}

// NewSVGDrawer creates a new SVG drawer.
func NewSVGDrawer(dotFileName string) *SVGDrawer {
	return &SVGDrawer{
		dotFileName: dotFileName,
		graph:       graph.NewWithStore(graph.StringHash, store.NewMemoryStore[string, string](), graph.Directed()),
		steps:       make(map[string]struct{}),
	}
}

// AddStep adds a stage to the evaluation graph.
func (d *SVGDrawer) AddStep(name string) error {
	err := d.graph.AddVertex(name)
	if err != nil {
		return errors.Wrap(err, "unable to add vertex")
	}

	d.steps[name] = struct{}{}

	return nil
}

// AddLink adds a link between parent and child stages.
func (d *SVGDrawer) AddLink(parentName, childName string) error {
	err := d.graph.AddEdge(parentName, childName)
	if err != nil {
		return errors.Wrapf(err, "unable to add edge from %s to %s", parentName, childName)
	}

	return nil
}

// Draw creates a DOT file with the evaluation graph.
func (d *SVGDrawer) Draw() error {
	file, err := os.Create(d.dotFileName)
	if err != nil {
		return errors.Wrapf(err, "unable to create file %s", d.dotFileName)
	}
	defer file.Close()

	err = dot(d.graph, file)
	if err != nil {
		return errors.Wrapf(err, "unable to create dot file %s", d.dotFileName)
	}

	return nil
}

// SetTotalTime sets the total time for the stage.
func (d *SVGDrawer) SetTotalTime(stepName string, startTime time.Time) error {
	_, properties, err := d.graph.VertexWithProperties(stepName)
	if err != nil {
		return errors.Wrap(err, "unable to get end vertex properties")
	}

	properties.Attributes["xlabel"] = time.Since(startTime).String()

	return nil
}

const maxRGB = 240

// AddMeasure adds timing information to the evaluation graph. Stages are
// coloured on a red to blue gradient, red for the slowest stage.
func (d *SVGDrawer) AddMeasure(msr measure.Measure) error {
	stageTotals := make(map[string]time.Duration)

	var minValue, maxValue time.Duration

	for name, metric := range msr.AllMetrics() {
		total := metric.GetTotalDuration()
		if total == 0 {
			continue
		}

		if _, ok := d.steps[name]; !ok {
			continue
		}

		if len(stageTotals) == 0 || total < minValue {
			minValue = total
		}

		if len(stageTotals) == 0 || total > maxValue {
			maxValue = total
		}

		stageTotals[name] = total
	}

	if len(stageTotals) == 0 {
		return nil
	}

	stageColours := make(map[string]string, len(stageTotals))

	for name, total := range stageTotals {
		fraction := 1.0
		if maxValue > minValue {
			fraction = float64(total-minValue) / float64(maxValue-minValue)
		}

		red := maxRGB * fraction
		blue := -maxRGB*fraction + maxRGB

		stageColour, err := colors.RGB(uint8(red), 0, uint8(blue)) //nolint
		if err != nil {
			return errors.Wrap(err, "unable to get colour")
		}

		stageColours[name] = stageColour.ToHEX().String()
	}

	err := d.updateMetrics(msr, stageTotals, stageColours)
	if err != nil {
		return errors.Wrap(err, "unable to update metrics")
	}

	return nil
}

func (d *SVGDrawer) updateMetrics(msr measure.Measure, stageTotals map[string]time.Duration, stageColours map[string]string) error {
	for name, metric := range msr.AllMetrics() {
		if _, ok := d.steps[name]; !ok {
			continue
		}

		_, properties, err := d.graph.VertexWithProperties(name)
		if err != nil {
			return errors.Wrap(err, "unable to get vertex properties")
		}

		stageAvg := metric.AVGDuration()
		if stageAvg != 0 {
			properties.Attributes["xlabel"] = stageAvg.String()
		}

		if metric.GetTotalDuration() > 0 {
			properties.Attributes["xlabel"] += ", end: " + metric.GetTotalDuration().String()
		}
	}

	adjacencyMap, err := d.graph.AdjacencyMap()
	if err != nil {
		return errors.Wrap(err, "unable to get adjacency map")
	}

	// Edges inherit the colour and cost of the stage they feed.
	for parent, adjacencies := range adjacencyMap {
		for child := range adjacencies {
			colour, ok := stageColours[child]
			if !ok {
				continue
			}

			err := d.graph.UpdateEdge(parent, child,
				graph.EdgeAttribute("label", stageTotals[child].String()),
				graph.EdgeAttribute("fontcolor", "blue"),
				graph.EdgeAttribute("color", colour),
			)
			if err != nil {
				return errors.Wrap(err, "unable to update edge")
			}
		}
	}

	return nil
}

//nolint:lll //this is a template
const dotTemplate = `strict {{.GraphType}} {
	{{range $k, $v := .Attributes}}
		{{$k}}="{{$v}}";
	{{end}}
	{{range $s := .Statements}}
		"{{.Source}}" {{if .Target}}{{$.EdgeOperator}} "{{.Target}}" [ {{range $k, $v := .EdgeAttributes}}{{$k}}="{{$v}}", {{end}} weight={{.EdgeWeight}} ]{{else}}[ {{range $k, $v := .HTMLAttributes}}{{$k}}={{$v}}, {{end}} {{range $k, $v := .SourceAttributes}}{{$k}}="{{$v}}", {{end}} weight={{.SourceWeight}} ]{{end}};
	{{end}}
	}
	`

type description struct {
	GraphType    string
	Attributes   map[string]string
	EdgeOperator string
	Statements   []statement
}

type statement struct {
	Source           string
	Target           string
	SourceAttributes map[string]string
	HTMLAttributes   map[string]string
	EdgeAttributes   map[string]string
	SourceWeight     int
	EdgeWeight       int
}

func dot(g graph.Graph[string, string], wrt io.Writer, options ...func(*description)) error {
	desc, err := generateDOT(g, options...)
	if err != nil {
		return fmt.Errorf("failed to generate DOT description: %w", err)
	}

	return renderDOT(wrt, desc)
}

// GraphAttribute is a functional option for the [dot] function.
func GraphAttribute(key, value string) func(*description) {
	return func(d *description) {
		d.Attributes[key] = value
	}
}

func generateDOT(gra graph.Graph[string, string], options ...func(*description)) (description, error) {
	desc := description{
		GraphType:    "graph",
		Attributes:   make(map[string]string),
		EdgeOperator: "--",
		Statements:   make([]statement, 0),
	}

	for _, option := range options {
		option(&desc)
	}

	if gra.Traits().IsDirected {
		desc.GraphType = "digraph"
		desc.EdgeOperator = "->"
	}

	adjacencyMap, err := gra.AdjacencyMap()
	if err != nil {
		return desc, errors.Wrap(err, "unable to get adjacency map")
	}

	// Sort vertices so the rendered file is stable between runs.
	vertices := make([]string, 0, len(adjacencyMap))
	for vertex := range adjacencyMap {
		vertices = append(vertices, vertex)
	}

	sort.Strings(vertices)

	for _, vertex := range vertices {
		_, sourceProperties, err := gra.VertexWithProperties(vertex)
		if err != nil {
			return desc, errors.Wrap(err, "unable to get vertex properties")
		}

		htmlAttributes := make(map[string]string)

		if xlabel, ok := sourceProperties.Attributes["xlabel"]; ok {
			htmlAttributes["label"] = fmt.Sprintf(`<%+v <BR /> <FONT POINT-SIZE="12">%s</FONT>>`, vertex, xlabel)

			delete(sourceProperties.Attributes, "xlabel")
		}

		stmt := statement{
			Source:           vertex,
			SourceWeight:     sourceProperties.Weight,
			SourceAttributes: sourceProperties.Attributes,
			HTMLAttributes:   htmlAttributes,
		}
		desc.Statements = append(desc.Statements, stmt)

		adjacencies := adjacencyMap[vertex]

		children := make([]string, 0, len(adjacencies))
		for child := range adjacencies {
			children = append(children, child)
		}

		sort.Strings(children)

		for _, child := range children {
			edge := adjacencies[child]

			stmt := statement{
				Source:         vertex,
				Target:         child,
				EdgeWeight:     edge.Properties.Weight,
				EdgeAttributes: edge.Properties.Attributes,
			}
			desc.Statements = append(desc.Statements, stmt)
		}
	}

	return desc, nil
}

func renderDOT(wrt io.Writer, desc description) error {
	tpl, err := template.New("dotTemplate").Parse(dotTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	err = tpl.Execute(wrt, desc)
	if err != nil {
		return errors.Wrap(err, "unable to execute template")
	}

	return nil
}

var _ Drawer = (*SVGDrawer)(nil)
