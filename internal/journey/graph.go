package journey

import (
	"sort"
	"strconv"
	"strings"

	"pilgrim-insights-go/internal/filters"
	"pilgrim-insights-go/internal/types"
)

// RootID is the id of the synthetic population node.
const RootID = "root"

// MaxTargetsPerNode caps the outgoing inter-stage edges of one node.
const MaxTargetsPerNode = 4

// Layout holds the fixed geometry of the flow diagram.
type Layout struct {
	ColGap          float64
	RowGap          float64
	FirstStageY     float64
	HeaderColWidth  float64
	ContentPad      float64
	MinContentWidth float64
	MinHeight       float64
	RootY           float64
	RootRadius      float64
	// NodeAnchor is the distance from a node centre to where stage-to-stage
	// edges attach.
	NodeAnchor float64
	// RootTargetAnchor is the same distance for edges coming from the root.
	RootTargetAnchor float64
}

// DefaultLayout matches the dashboard's SVG canvas.
func DefaultLayout() Layout {
	return Layout{
		ColGap:          180,
		RowGap:          120,
		FirstStageY:     180,
		HeaderColWidth:  150,
		ContentPad:      80,
		MinContentWidth: 920,
		MinHeight:       820,
		RootY:           64,
		RootRadius:      34,
		NodeAnchor:      30,

		RootTargetAnchor: 32,
	}
}

// Node is one value at one stage, positioned on the canvas.
type Node struct {
	ID         string      `json:"id"`
	StageIndex int         `json:"stageIndex"`
	Field      string      `json:"field"`
	FilterKey  filters.Key `json:"filterKey"`
	Label      string      `json:"label"`
	Value      float64     `json:"value"`
	IsSelected bool        `json:"isSelected"`
	IsDate     bool        `json:"isDate"`
	X          float64     `json:"x"`
	Y          float64     `json:"y"`
}

// Edge is a weighted transition between two nodes.
type Edge struct {
	ID          string  `json:"id"`
	FromID      string  `json:"fromId"`
	ToID        string  `json:"toId"`
	FromX       float64 `json:"fromX"`
	FromY       float64 `json:"fromY"`
	ToX         float64 `json:"toX"`
	ToY         float64 `json:"toY"`
	Value       float64 `json:"value"`
	Faded       bool    `json:"faded"`
	StrokeWidth float64 `json:"strokeWidth"`
	PathD       string  `json:"pathD"`
}

// Graph is the positioned journey diagram.
type Graph struct {
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Root       Node    `json:"root"`
	Population int     `json:"population"`
	Nodes      []Node  `json:"nodes"`
	Edges      []Edge  `json:"edges"`
	MaxEdge    float64 `json:"maxEdge"`
}

// TopNodes returns the limit highest-valued points; ties keep their order.
func TopNodes(points []types.ChartPoint, limit int) []types.ChartPoint {
	out := append([]types.ChartPoint(nil), points...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Build lays out the stages of res and derives root and inter-stage edges.
// Inter-stage edges count records of the fully filtered subset, restricted to
// pairs whose labels are both visible.
func Build(res Resolution, layout Layout) Graph {
	visible := make([][]types.ChartPoint, len(res.Stages))
	widest := 1
	for i, s := range res.Stages {
		visible[i] = TopNodes(s.Points, s.Stage.Limit)
		if len(visible[i]) > widest {
			widest = len(visible[i])
		}
	}

	contentWidth := max(layout.MinContentWidth, float64(widest)*layout.ColGap+layout.ContentPad*2)
	centerX := layout.HeaderColWidth + contentWidth/2
	g := Graph{
		Width:      layout.HeaderColWidth + contentWidth + 40,
		Height:     max(layout.MinHeight, layout.FirstStageY+float64(len(res.Stages))*layout.RowGap+120),
		Population: res.Population,
		Root: Node{
			ID:         RootID,
			StageIndex: -1,
			Label:      RootID,
			Value:      float64(res.Total),
			IsSelected: true,
			X:          centerX,
			Y:          layout.RootY,
		},
	}

	byStage := make([][]Node, len(res.Stages))
	for i, s := range res.Stages {
		y := layout.FirstStageY + float64(i)*layout.RowGap
		span := float64(len(visible[i])-1) * layout.ColGap
		startX := centerX - span/2
		for j, pt := range visible[i] {
			n := Node{
				ID:         s.Stage.Field.String() + ":" + pt.Label,
				StageIndex: i,
				Field:      s.Stage.Field.String(),
				FilterKey:  s.Stage.Key,
				Label:      pt.Label,
				Value:      pt.Value,
				IsSelected: pt.IsSelected,
				IsDate:     s.Stage.IsDate(),
				X:          startX + float64(j)*layout.ColGap,
				Y:          y,
			}
			byStage[i] = append(byStage[i], n)
			g.Nodes = append(g.Nodes, n)
		}
	}

	if len(byStage) > 0 {
		for _, n := range byStage[0] {
			g.Edges = append(g.Edges, newEdge(g.Root, n, layout.RootRadius, layout.RootTargetAnchor, n.Value))
		}
	}
	for i := 0; i+1 < len(res.Stages); i++ {
		g.Edges = append(g.Edges, stageEdges(res.Filtered, res.Stages[i].Stage, res.Stages[i+1].Stage, byStage[i], byStage[i+1], layout)...)
	}

	g.MaxEdge = 1
	for _, e := range g.Edges {
		g.MaxEdge = max(g.MaxEdge, e.Value)
	}
	for i := range g.Edges {
		g.Edges[i].StrokeWidth = 0.9 + g.Edges[i].Value/g.MaxEdge*3.3
	}
	return g
}

type target struct {
	label string
	count int
}

func stageEdges(filtered []types.Pilgrim, from, to Stage, left, right []Node, layout Layout) []Edge {
	if len(left) == 0 || len(right) == 0 {
		return nil
	}
	leftByLabel := make(map[string]Node, len(left))
	for _, n := range left {
		leftByLabel[n.Label] = n
	}
	rightByLabel := make(map[string]Node, len(right))
	for _, n := range right {
		rightByLabel[n.Label] = n
	}

	counts := make(map[string]map[string]int)
	var sources []string
	for i := range filtered {
		a := from.Field.Value(&filtered[i])
		b := to.Field.Value(&filtered[i])
		if _, ok := leftByLabel[a]; !ok {
			continue
		}
		if _, ok := rightByLabel[b]; !ok {
			continue
		}
		if counts[a] == nil {
			counts[a] = make(map[string]int)
			sources = append(sources, a)
		}
		counts[a][b]++
	}

	var edges []Edge
	for _, src := range sources {
		targets := make([]target, 0, len(counts[src]))
		for label, c := range counts[src] {
			targets = append(targets, target{label, c})
		}
		// map iteration is random; break count ties by label for stable output
		sort.Slice(targets, func(i, j int) bool {
			if targets[i].count != targets[j].count {
				return targets[i].count > targets[j].count
			}
			return targets[i].label < targets[j].label
		})
		if len(targets) > MaxTargetsPerNode {
			targets = targets[:MaxTargetsPerNode]
		}
		fromNode := leftByLabel[src]
		for _, t := range targets {
			edges = append(edges, newEdge(fromNode, rightByLabel[t.label], layout.NodeAnchor, layout.NodeAnchor, float64(t.count)))
		}
	}
	return edges
}

func newEdge(from, to Node, fromOffset, toOffset, value float64) Edge {
	e := Edge{
		ID:     from.ID + "->" + to.ID,
		FromID: from.ID,
		ToID:   to.ID,
		FromX:  from.X,
		FromY:  from.Y + fromOffset,
		ToX:    to.X,
		ToY:    to.Y - toOffset,
		Value:  value,
		Faded:  !from.IsSelected || !to.IsSelected,
	}
	e.PathD = curve(e.FromX, e.FromY, e.ToX, e.ToY)
	return e
}

// curve is a vertical S-curve with control points at 38% and 72% of the span.
func curve(x1, y1, x2, y2 float64) string {
	c1 := y1 + (y2-y1)*0.38
	c2 := y1 + (y2-y1)*0.72
	var b strings.Builder
	b.WriteString("M ")
	b.WriteString(num(x1) + " " + num(y1))
	b.WriteString(" C ")
	b.WriteString(num(x1) + " " + num(c1) + ", ")
	b.WriteString(num(x2) + " " + num(c2) + ", ")
	b.WriteString(num(x2) + " " + num(y2))
	return b.String()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
