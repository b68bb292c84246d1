package deckbuild

import (
	"testing"

	"github.com/cubeforge/cubedraft/internal/cards"
	"github.com/cubeforge/cubedraft/internal/grid"
)

var testPool = []cards.Card{
	{OracleID: "o-bear", Name: "Grizzly Bears", ManaCost: "{1}{G}", CMC: 2, TypeLine: "Creature — Bear", Colors: []string{"G"}},
	{OracleID: "o-bolt", Name: "Lightning Bolt", ManaCost: "{R}", CMC: 1, TypeLine: "Instant", Colors: []string{"R"}},
	{OracleID: "o-angel", Name: "Serra Angel", ManaCost: "{3}{W}{W}", CMC: 5, TypeLine: "Creature — Angel", Colors: []string{"W"}},
	{OracleID: "o-wastes", Name: "Wastes", ManaCost: "", CMC: 0, TypeLine: "Basic Land", Colors: nil},
	{OracleID: "o-colossus", Name: "Walking Colossus", ManaCost: "{9}", CMC: 9, TypeLine: "Artifact Creature — Golem", Colors: nil},
}

func TestBuildPlacement(t *testing.T) {
	// Picks arrive most recent first; oldest pick lands at the bottom of
	// its stack.
	picks := []cards.Ref{4, 3, 2, 1, 0}

	deck, err := Build(picks, testPool, nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	tests := []struct {
		name string
		row  int
		col  int
		want cards.Ref
	}{
		{name: "creature at cmc column", row: 0, col: 2, want: 0},
		{name: "instant on spell row", row: 1, col: 1, want: 1},
		{name: "five drop creature", row: 0, col: 5, want: 2},
		{name: "land on spell row column zero", row: 1, col: 0, want: 3},
		{name: "high cmc clamped to last column", row: 0, col: 7, want: 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stack := deck.Mainboard.Stack(tt.row, tt.col)
			if len(stack) != 1 || stack[0] != tt.want {
				t.Errorf("Stack(%d, %d) = %v, want [%d]", tt.row, tt.col, stack, tt.want)
			}
		})
	}

	if deck.Mainboard.Count() != 5 {
		t.Errorf("mainboard count = %d, want 5", deck.Mainboard.Count())
	}
	if deck.Sideboard.Count() != 0 {
		t.Errorf("sideboard count = %d, want 0", deck.Sideboard.Count())
	}
}

func TestBuildColors(t *testing.T) {
	picks := []cards.Ref{0, 1, 2, 3}
	deck, err := Build(picks, testPool, nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	// Lands do not contribute; WUBRG order.
	want := []string{"W", "R", "G"}
	if len(deck.Colors) != len(want) {
		t.Fatalf("Colors = %v, want %v", deck.Colors, want)
	}
	for i := range want {
		if deck.Colors[i] != want[i] {
			t.Fatalf("Colors = %v, want %v", deck.Colors, want)
		}
	}
}

func TestBuildRejectsBadRef(t *testing.T) {
	if _, err := Build([]cards.Ref{99}, testPool, nil); err == nil {
		t.Fatal("Build() with out-of-range ref: error = nil, want error")
	}
}

func TestPipProportionPolicy(t *testing.T) {
	// Twelve green pips, one white splash: a 10% threshold drops white.
	placed := []cards.Card{
		{ManaCost: "{G}{G}{G}{G}{G}{G}"},
		{ManaCost: "{G}{G}{G}{G}{G}{G}"},
		{ManaCost: "{W}"},
	}
	policy := PipProportionPolicy{Threshold: 0.10}
	got := policy.DeckColors(placed)
	if len(got) != 1 || got[0] != "G" {
		t.Errorf("DeckColors() = %v, want [G]", got)
	}

	loose := PipProportionPolicy{Threshold: 0.05}
	got = loose.DeckColors(placed)
	if len(got) != 2 || got[0] != "W" || got[1] != "G" {
		t.Errorf("DeckColors() with loose threshold = %v, want [W G]", got)
	}
}

func TestRecommendBasicsProportional(t *testing.T) {
	// 23 nonland cards with a 2:1 green to red pip ratio leaves room for
	// 17 lands split proportionally.
	board := grid.New()
	pool := make([]cards.Card, 0, 23)
	for i := 0; i < 23; i++ {
		cost := "{G}{G}"
		if i%3 == 0 {
			cost = "{R}{R}"
		}
		c := cards.Card{
			OracleID: "o-curve",
			Name:     "Filler",
			ManaCost: cost,
			CMC:      2,
			TypeLine: "Creature",
		}
		pool = append(pool, c)
		board = board.AddDefault(c, cards.Ref(i))
	}

	counts, err := RecommendBasics(board, pool)
	if err != nil {
		t.Fatalf("RecommendBasics() error = %v", err)
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	if total != TargetDeckSize-23 {
		t.Errorf("total recommended basics = %d, want %d", total, TargetDeckSize-23)
	}
	if counts["G"] <= counts["R"] {
		t.Errorf("counts = %v, want more Forests than Mountains", counts)
	}
	if counts["U"] != 0 {
		t.Errorf("counts[U] = %d, want 0", counts["U"])
	}

	basics := BasicsFor(counts)
	if len(basics) != total {
		t.Errorf("BasicsFor() = %d cards, want %d", len(basics), total)
	}
	if len(basics) > 0 && basics[0].Name != "Mountain" && basics[0].Name != "Forest" {
		t.Errorf("BasicsFor() first card = %s, want a Mountain or Forest", basics[0].Name)
	}
}

func TestRecommendBasicsEdgeCases(t *testing.T) {
	t.Run("full board needs nothing", func(t *testing.T) {
		board := grid.New()
		pool := make([]cards.Card, TargetDeckSize)
		for i := range pool {
			pool[i] = cards.Card{ManaCost: "{W}", CMC: 1, TypeLine: "Creature"}
			board = board.AddDefault(pool[i], cards.Ref(i))
		}
		counts, err := RecommendBasics(board, pool)
		if err != nil {
			t.Fatalf("RecommendBasics() error = %v", err)
		}
		if len(counts) != 0 {
			t.Errorf("counts = %v, want empty", counts)
		}
	})

	t.Run("colorless board gets no suggestion", func(t *testing.T) {
		board := grid.New()
		pool := []cards.Card{{ManaCost: "{3}", CMC: 3, TypeLine: "Artifact"}}
		board = board.AddDefault(pool[0], 0)
		counts, err := RecommendBasics(board, pool)
		if err != nil {
			t.Fatalf("RecommendBasics() error = %v", err)
		}
		if len(counts) != 0 {
			t.Errorf("counts = %v, want empty", counts)
		}
	})
}

func TestAnalyzeCurve(t *testing.T) {
	picks := []cards.Ref{0, 1, 2, 3, 4}
	deck, err := Build(picks, testPool, nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	curve, err := AnalyzeCurve(deck.Mainboard, testPool)
	if err != nil {
		t.Fatalf("AnalyzeCurve() error = %v", err)
	}

	if curve.Lands != 1 {
		t.Errorf("Lands = %d, want 1", curve.Lands)
	}
	if curve.Creatures[2] != 1 || curve.Creatures[5] != 1 || curve.Creatures[7] != 1 {
		t.Errorf("Creatures = %v, want counts at columns 2, 5 and 7", curve.Creatures)
	}
	if curve.Spells[1] != 1 {
		t.Errorf("Spells = %v, want a count at column 1", curve.Spells)
	}

	// (2 + 1 + 5 + 9) / 4 nonland cards.
	want := 4.25
	if curve.AverageCMC != want {
		t.Errorf("AverageCMC = %v, want %v", curve.AverageCMC, want)
	}
}
