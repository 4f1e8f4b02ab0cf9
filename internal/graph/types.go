// Package graph turns the entity registry plus a metrics snapshot into
// node/edge descriptions for the force-directed universe and orbit views.
// Builders are pure: same inputs, same graph, no layout randomness here.
package graph

// ItemStyle carries node styling consumed by the renderer.
type ItemStyle struct {
	Color       string `json:"color,omitempty"`
	ShadowBlur  int    `json:"shadowBlur,omitempty"`
	ShadowColor string `json:"shadowColor,omitempty"`
}

// Label carries node label styling.
type Label struct {
	Show       bool   `json:"show"`
	Color      string `json:"color,omitempty"`
	FontSize   int    `json:"fontSize,omitempty"`
	FontWeight string `json:"fontWeight,omitempty"`
}

// LineStyle carries edge styling.
type LineStyle struct {
	Color     string  `json:"color,omitempty"`
	Width     float64 `json:"width,omitempty"`
	Curveness float64 `json:"curveness,omitempty"`
	Opacity   float64 `json:"opacity,omitempty"`
}

// Node is one graph vertex in echarts graph-series shape.
type Node struct {
	Name       string     `json:"name"`
	SymbolSize float64    `json:"symbolSize"`
	Value      string     `json:"value,omitempty"`
	Category   int        `json:"category"`
	Fixed      bool       `json:"fixed,omitempty"`
	X          float64    `json:"x,omitempty"`
	Y          float64    `json:"y,omitempty"`
	ItemStyle  *ItemStyle `json:"itemStyle,omitempty"`
	Label      *Label     `json:"label,omitempty"`
}

// Link is one graph edge.
type Link struct {
	Source    string     `json:"source"`
	Target    string     `json:"target"`
	LineStyle *LineStyle `json:"lineStyle,omitempty"`
}

// Category groups nodes for legend coloring.
type Category struct {
	Name      string     `json:"name"`
	ItemStyle *ItemStyle `json:"itemStyle,omitempty"`
}

// Graph is an immutable snapshot-in-time node/edge set. It is rebuilt in
// full on every request and never updated in place.
type Graph struct {
	Title      string     `json:"title"`
	Categories []Category `json:"categories,omitempty"`
	Nodes      []Node     `json:"nodes"`
	Links      []Link     `json:"links"`
}

// Share is one slice of the business-activity distribution.
type Share struct {
	Code    string  `json:"code"`
	Percent float64 `json:"percent"`
	Color   string  `json:"color,omitempty"`
}
