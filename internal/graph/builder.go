package graph

import (
	"fmt"

	"command-center/internal/config"
	"command-center/internal/snapshot"
)

// Universe palette.
const (
	CoreNodeName = "GANDI\nCORE"

	colorCoreGlow = "#00D4FF"
	colorGreen    = "#00FF94"
	colorYellow   = "#FFD700"
	colorRed      = "#FF0055"
	colorOrange   = "#FF6B35"
	colorHealth   = "#00B8FF"

	kenyaPeerColor = "#00FF9433"
	usaPeerColor   = "#FF005533"
)

// Category indices used by universe nodes. The core always wins index 0.
const (
	CategoryCore = iota
	CategoryKenya
	CategoryUSA
	CategoryHealthcare
)

// Node size bounds derived from the health score.
const (
	minNodeSize  = 30
	sizeSpan     = 40
	coreNodeSize = 100
)

// NodeSize maps a health score in [0,100] onto the [30,70] symbol range.
func NodeSize(health int) float64 {
	return minNodeSize + float64(health)/100*sizeSpan
}

// entityCategory assigns the mutually exclusive legend category. Regulated
// status always wins over location: a regulated USA entity is Healthcare,
// never USA.
func entityCategory(e config.Entity) int {
	switch {
	case e.Regulated:
		return CategoryHealthcare
	case e.Location == config.LocationKenya:
		return CategoryKenya
	default:
		return CategoryUSA
	}
}

func entityNodeName(e config.Entity) string {
	return fmt.Sprintf("%s %s", e.Icon, e.Code)
}

// BuildUniverse builds the whole-universe view: a pinned core node, one node
// per registry entity sized by health score, hub links from the core to
// every entity, and same-location peer links. Regulated entities are kept
// out of USA peer links; that isolation is the compliance boundary, not an
// oversight. A nil snapshot yields a complete graph with defaulted metrics.
func BuildUniverse(entities []config.Entity, snap *snapshot.Snapshot) *Graph {
	g := &Graph{
		Title: "GANDI Universe",
		Categories: []Category{
			{Name: "Core", ItemStyle: &ItemStyle{Color: colorCoreGlow}},
			{Name: "Kenya", ItemStyle: &ItemStyle{Color: colorGreen}},
			{Name: "USA", ItemStyle: &ItemStyle{Color: colorRed}},
			{Name: "Healthcare", ItemStyle: &ItemStyle{Color: colorHealth}},
		},
	}

	g.Nodes = append(g.Nodes, Node{
		Name:       CoreNodeName,
		SymbolSize: coreNodeSize,
		Value:      "Command Center",
		Category:   CategoryCore,
		Fixed:      true,
		X:          400,
		Y:          300,
		ItemStyle:  &ItemStyle{Color: colorCoreGlow, ShadowBlur: 30, ShadowColor: colorCoreGlow},
		Label:      &Label{Show: true, Color: "#FFFFFF", FontSize: 14, FontWeight: "bold"},
	})

	for _, e := range entities {
		m := snap.Entity(e.Code)
		g.Nodes = append(g.Nodes, Node{
			Name:       entityNodeName(e),
			SymbolSize: NodeSize(m.HealthScore),
			Value:      fmt.Sprintf("%s\nHealth: %d%%\nPending: %d", e.Name, m.HealthScore, m.PendingItems),
			Category:   entityCategory(e),
			ItemStyle:  &ItemStyle{Color: e.Color, ShadowBlur: 20, ShadowColor: e.Glow},
			Label:      &Label{Show: true, Color: "#FFFFFF", FontSize: 12},
		})
	}

	// Hub topology: the core oversees every entity.
	for _, e := range entities {
		g.Links = append(g.Links, Link{
			Source:    CoreNodeName,
			Target:    entityNodeName(e),
			LineStyle: &LineStyle{Color: e.Color, Width: 2, Curveness: 0.1, Opacity: 0.6},
		})
	}

	var kenya, usa []config.Entity
	for _, e := range entities {
		switch {
		case e.Location == config.LocationKenya:
			kenya = append(kenya, e)
		case e.Location == config.LocationUSA && !e.Regulated:
			usa = append(usa, e)
		}
	}
	g.Links = append(g.Links, peerLinks(kenya, kenyaPeerColor)...)
	g.Links = append(g.Links, peerLinks(usa, usaPeerColor)...)

	return g
}

// peerLinks connects every unordered pair in registry order. n is at most a
// few dozen, so the quadratic pass stays trivial.
func peerLinks(entities []config.Entity, color string) []Link {
	var links []Link
	for i, a := range entities {
		for _, b := range entities[i+1:] {
			links = append(links, Link{
				Source:    entityNodeName(a),
				Target:    entityNodeName(b),
				LineStyle: &LineStyle{Color: color, Width: 1, Curveness: 0.2},
			})
		}
	}
	return links
}

// HealthColor encodes the health threshold tiers, inclusive on each lower
// bound: 80 is green, 60 is yellow, below that red.
func HealthColor(health int) string {
	switch {
	case health >= 80:
		return colorGreen
	case health >= 60:
		return colorYellow
	default:
		return colorRed
	}
}

// PendingColor flags any backlog in orange.
func PendingColor(pending int) string {
	if pending > 0 {
		return colorOrange
	}
	return colorGreen
}

// StatusColor marks anything other than Active as red.
func StatusColor(status string) string {
	if status == snapshot.StatusActive {
		return colorGreen
	}
	return colorRed
}

// BuildOrbit builds the 4-node star for one entity: the pinned entity node
// plus health, pending, and status satellites whose colors encode the
// threshold evaluation. Returns nil when code is not in the registry;
// callers render nothing rather than failing.
func BuildOrbit(entities []config.Entity, snap *snapshot.Snapshot, code string) *Graph {
	var ent *config.Entity
	for i := range entities {
		if entities[i].Code == code {
			ent = &entities[i]
			break
		}
	}
	if ent == nil {
		return nil
	}
	m := snap.Entity(code)

	center := entityNodeName(*ent)
	healthNode := fmt.Sprintf("Health\n%d%%", m.HealthScore)
	pendingNode := fmt.Sprintf("Pending\n%d", m.PendingItems)
	statusNode := fmt.Sprintf("Status\n%s", m.Status)

	g := &Graph{
		Title: fmt.Sprintf("%s %s Orbit", ent.Icon, ent.Name),
		Nodes: []Node{
			{
				Name:       center,
				SymbolSize: 80,
				Value:      fmt.Sprintf("%s\nStatus: %s", ent.Name, m.Status),
				Fixed:      true,
				X:          300,
				Y:          200,
				ItemStyle:  &ItemStyle{Color: ent.Color, ShadowBlur: 30, ShadowColor: ent.Glow},
				Label:      &Label{Show: true, Color: "#FFFFFF", FontSize: 14, FontWeight: "bold"},
			},
			{Name: healthNode, SymbolSize: 40, ItemStyle: &ItemStyle{Color: HealthColor(m.HealthScore)}},
			{Name: pendingNode, SymbolSize: 35, ItemStyle: &ItemStyle{Color: PendingColor(m.PendingItems)}},
			{Name: statusNode, SymbolSize: 35, ItemStyle: &ItemStyle{Color: StatusColor(m.Status)}},
		},
	}
	for _, sat := range []string{healthNode, pendingNode, statusNode} {
		g.Links = append(g.Links, Link{
			Source:    center,
			Target:    sat,
			LineStyle: &LineStyle{Color: ent.Color, Width: 2, Opacity: 0.6},
		})
	}
	return g
}

// ActivityShares derives the business-activity distribution from the
// snapshot: each entity's share of the total pending backlog, uniform when
// nothing is pending.
func ActivityShares(entities []config.Entity, snap *snapshot.Snapshot) []Share {
	if len(entities) == 0 {
		return nil
	}
	total := 0
	for _, e := range entities {
		total += snap.Entity(e.Code).PendingItems
	}
	shares := make([]Share, 0, len(entities))
	for _, e := range entities {
		pct := 100.0 / float64(len(entities))
		if total > 0 {
			pct = float64(snap.Entity(e.Code).PendingItems) / float64(total) * 100
		}
		shares = append(shares, Share{Code: e.Code, Percent: pct, Color: e.Color})
	}
	return shares
}
