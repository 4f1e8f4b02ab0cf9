package graph

import (
	"reflect"
	"strings"
	"testing"

	"command-center/internal/config"
	"command-center/internal/snapshot"
)

func scenarioRegistry() []config.Entity {
	return []config.Entity{
		{Code: "AFK", Name: "Afro Farm Kenya", Icon: "F", Color: "#00FF94", Location: config.LocationKenya},
		{Code: "GAKC", Name: "GAK Commodities", Icon: "C", Color: "#9D00FF", Location: config.LocationKenya},
		{Code: "GAKP", Name: "GAK Properties", Icon: "P", Color: "#FF0055", Location: config.LocationUSA},
		{Code: "COMF", Name: "Comfort Services", Icon: "H", Color: "#00B8FF", Location: config.LocationUSA, Regulated: true},
	}
}

func TestNodeSizeRangeAndMonotonic(t *testing.T) {
	prev := 0.0
	for h := 0; h <= 100; h++ {
		size := NodeSize(h)
		if size < 30 || size > 70 {
			t.Fatalf("size %v out of [30,70] for health %d", size, h)
		}
		if size < prev {
			t.Fatalf("size not monotonic at health %d: %v < %v", h, size, prev)
		}
		prev = size
	}
	if NodeSize(0) != 30 || NodeSize(100) != 70 {
		t.Errorf("unexpected endpoints: %v, %v", NodeSize(0), NodeSize(100))
	}
}

func TestBuildUniverseNilSnapshot(t *testing.T) {
	reg := scenarioRegistry()
	g := BuildUniverse(reg, nil)

	if len(g.Nodes) != len(reg)+1 {
		t.Fatalf("expected %d nodes, got %d", len(reg)+1, len(g.Nodes))
	}
	if core := g.Nodes[0]; core.Name != CoreNodeName || !core.Fixed || core.Category != CategoryCore {
		t.Errorf("unexpected core node: %+v", core)
	}
	for _, n := range g.Nodes[1:] {
		if n.SymbolSize != NodeSize(snapshot.DefaultHealthScore) {
			t.Errorf("node %q not sized from default health: %v", n.Name, n.SymbolSize)
		}
		if !strings.Contains(n.Value, "Health: 80%") || !strings.Contains(n.Value, "Pending: 0") {
			t.Errorf("node %q missing defaulted metrics: %q", n.Name, n.Value)
		}
	}

	hub := 0
	for _, l := range g.Links {
		if l.Source == CoreNodeName {
			hub++
		}
	}
	if hub != len(reg) {
		t.Errorf("expected %d hub links, got %d", len(reg), hub)
	}
}

func TestCategoryPrecedence(t *testing.T) {
	// Regulated status always wins over location.
	reg := []config.Entity{
		{Code: "A", Location: config.LocationKenya, Regulated: true},
		{Code: "B", Location: config.LocationKenya},
		{Code: "C", Location: config.LocationUSA},
	}
	g := BuildUniverse(reg, nil)
	want := []int{CategoryHealthcare, CategoryKenya, CategoryUSA}
	for i, cat := range want {
		if g.Nodes[i+1].Category != cat {
			t.Errorf("node %q category = %d, want %d", g.Nodes[i+1].Name, g.Nodes[i+1].Category, cat)
		}
	}
}

func TestRegulatedExcludedFromUSAPeerLinks(t *testing.T) {
	reg := scenarioRegistry()
	g := BuildUniverse(reg, nil)

	var peers []Link
	for _, l := range g.Links {
		if l.Source != CoreNodeName {
			peers = append(peers, l)
		}
	}
	// Expected peer set: exactly AFK-GAKC. GAKP has no non-regulated USA
	// partner and COMF is isolated by the compliance boundary.
	if len(peers) != 1 {
		t.Fatalf("expected exactly one peer link, got %d: %+v", len(peers), peers)
	}
	if !strings.Contains(peers[0].Source, "AFK") || !strings.Contains(peers[0].Target, "GAKC") {
		t.Errorf("unexpected peer link: %+v", peers[0])
	}
	for _, l := range peers {
		for _, banned := range []string{"GAKP", "COMF"} {
			if strings.Contains(l.Source, banned) || strings.Contains(l.Target, banned) {
				t.Errorf("%s must only appear in hub links, found %+v", banned, l)
			}
		}
	}
}

func TestUSAPeerLinksConnectNonRegulatedPairs(t *testing.T) {
	reg := []config.Entity{
		{Code: "GAKP", Icon: "P", Location: config.LocationUSA},
		{Code: "GIFP", Icon: "G", Location: config.LocationUSA},
		{Code: "COMF", Icon: "H", Location: config.LocationUSA, Regulated: true},
	}
	g := BuildUniverse(reg, nil)
	var peers []Link
	for _, l := range g.Links {
		if l.Source != CoreNodeName {
			peers = append(peers, l)
		}
	}
	if len(peers) != 1 {
		t.Fatalf("expected one USA peer link, got %d", len(peers))
	}
	if !strings.Contains(peers[0].Source, "GAKP") || !strings.Contains(peers[0].Target, "GIFP") {
		t.Errorf("unexpected USA peer pair: %+v", peers[0])
	}
}

func TestHealthThresholdBoundaries(t *testing.T) {
	cases := []struct {
		health int
		want   string
	}{
		{80, "#00FF94"},
		{79, "#FFD700"},
		{60, "#FFD700"},
		{59, "#FF0055"},
		{100, "#00FF94"},
		{0, "#FF0055"},
	}
	for _, c := range cases {
		if got := HealthColor(c.health); got != c.want {
			t.Errorf("HealthColor(%d) = %q, want %q", c.health, got, c.want)
		}
	}
}

func TestBuildOrbitUnknownCode(t *testing.T) {
	if g := BuildOrbit(scenarioRegistry(), nil, "ZZZZ"); g != nil {
		t.Fatalf("expected nil orbit for unknown code, got %+v", g)
	}
}

func TestBuildOrbitSatellites(t *testing.T) {
	reg := scenarioRegistry()
	snap := &snapshot.Snapshot{Entities: map[string]snapshot.EntityMetrics{
		"AFK": {HealthScore: 65, PendingItems: 2, Status: "Paused", RecentActivity: "x"},
	}}
	g := BuildOrbit(reg, snap, "AFK")
	if g == nil {
		t.Fatal("expected orbit graph")
	}
	if len(g.Nodes) != 4 || len(g.Links) != 3 {
		t.Fatalf("expected 4-node star with 3 links, got %d/%d", len(g.Nodes), len(g.Links))
	}
	if !g.Nodes[0].Fixed || g.Nodes[0].SymbolSize != 80 {
		t.Errorf("entity node not pinned large: %+v", g.Nodes[0])
	}
	if got := g.Nodes[1].ItemStyle.Color; got != "#FFD700" {
		t.Errorf("health satellite color = %q, want yellow", got)
	}
	if got := g.Nodes[2].ItemStyle.Color; got != "#FF6B35" {
		t.Errorf("pending satellite color = %q, want orange", got)
	}
	if got := g.Nodes[3].ItemStyle.Color; got != "#FF0055" {
		t.Errorf("status satellite color = %q, want red", got)
	}

	// Zero pending and Active status flip both satellites to green.
	g = BuildOrbit(reg, nil, "AFK")
	if got := g.Nodes[2].ItemStyle.Color; got != "#00FF94" {
		t.Errorf("zero-pending satellite color = %q, want green", got)
	}
	if got := g.Nodes[3].ItemStyle.Color; got != "#00FF94" {
		t.Errorf("active-status satellite color = %q, want green", got)
	}
}

func TestBuildUniverseIdempotent(t *testing.T) {
	reg := scenarioRegistry()
	snap := &snapshot.Snapshot{Entities: map[string]snapshot.EntityMetrics{
		"AFK":  {HealthScore: 91, PendingItems: 1, Status: "Active"},
		"GAKP": {HealthScore: 40, PendingItems: 9, Status: "Stalled"},
	}}
	a := BuildUniverse(reg, snap)
	b := BuildUniverse(reg, snap)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("identical inputs produced different graphs")
	}
}

func TestActivityShares(t *testing.T) {
	reg := scenarioRegistry()
	snap := &snapshot.Snapshot{Entities: map[string]snapshot.EntityMetrics{
		"AFK":  {HealthScore: 90, PendingItems: 3, Status: "Active"},
		"GAKP": {HealthScore: 90, PendingItems: 1, Status: "Active"},
	}}
	shares := ActivityShares(reg, snap)
	if len(shares) != len(reg) {
		t.Fatalf("expected %d shares, got %d", len(reg), len(shares))
	}
	if shares[0].Percent != 75 || shares[2].Percent != 25 {
		t.Errorf("unexpected weighted shares: %+v", shares)
	}

	// Uniform split when nothing is pending anywhere.
	uniform := ActivityShares(reg, nil)
	for _, s := range uniform {
		if s.Percent != 25 {
			t.Errorf("expected uniform 25%%, got %+v", s)
		}
	}
}
