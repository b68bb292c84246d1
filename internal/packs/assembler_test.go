package packs

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/cubeforge/cubedraft/internal/cards"
	"github.com/cubeforge/cubedraft/internal/format"
)

func taggedPool(counts map[string]int) []cards.Card {
	var pool []cards.Card
	for tag, n := range counts {
		for i := 0; i < n; i++ {
			pool = append(pool, cards.Card{
				OracleID: tag + "-" + string(rune('a'+i)),
				Name:     tag,
				TypeLine: "Creature",
				Tags:     []string{tag},
			})
		}
	}
	return pool
}

func untaggedPool(n int) []cards.Card {
	pool := make([]cards.Card, n)
	for i := range pool {
		pool[i] = cards.Card{
			OracleID: "card-" + string(rune('a'+i%26)) + string(rune('0'+i/26)),
			Name:     "Card",
			TypeLine: "Creature",
		}
	}
	return pool
}

func customFormat(t *testing.T, raw string) format.Format {
	t.Helper()
	desc, err := format.Parse([]byte(raw))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	f, err := format.Compile(desc)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	return f
}

func TestAssembleStandard(t *testing.T) {
	f, err := format.Standard(3, 15)
	if err != nil {
		t.Fatalf("Standard() error = %v", err)
	}
	pool := untaggedPool(360)

	asm, err := Assemble(f, pool, 8, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	if len(asm.Packs) != 8 {
		t.Fatalf("seats dealt = %d, want 8", len(asm.Packs))
	}
	seen := make(map[cards.Ref]bool)
	for seat := range asm.Packs {
		if len(asm.Packs[seat]) != 3 {
			t.Fatalf("seat %d packs = %d, want 3", seat, len(asm.Packs[seat]))
		}
		for _, pack := range asm.Packs[seat] {
			if len(pack) != 15 {
				t.Fatalf("pack size = %d, want 15", len(pack))
			}
			for _, ref := range pack {
				if seen[ref] {
					t.Fatalf("card %d dealt twice", ref)
				}
				seen[ref] = true
			}
		}
	}
	if len(seen) != 360 {
		t.Errorf("distinct cards dealt = %d, want 360", len(seen))
	}
}

func TestAssembleStandardDeterministicWithSeed(t *testing.T) {
	f, err := format.Standard(1, 5)
	if err != nil {
		t.Fatalf("Standard() error = %v", err)
	}
	pool := untaggedPool(20)

	first, err := Assemble(f, pool, 2, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	second, err := Assemble(f, pool, 2, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	for seat := range first.Packs {
		for _, packIdx := range []int{0} {
			for i := range first.Packs[seat][packIdx] {
				if first.Packs[seat][packIdx][i] != second.Packs[seat][packIdx][i] {
					t.Fatalf("same seed produced different deals at seat %d card %d", seat, i)
				}
			}
		}
	}
}

func TestAssembleStandardPoolTooSmall(t *testing.T) {
	f, err := format.Standard(3, 15)
	if err != nil {
		t.Fatalf("Standard() error = %v", err)
	}
	pool := untaggedPool(100)

	_, err = Assemble(f, pool, 8, rand.New(rand.NewSource(1)))
	var sizeErr *InsufficientPoolSizeError
	if !errors.As(err, &sizeErr) {
		t.Fatalf("Assemble() error = %v, want *InsufficientPoolSizeError", err)
	}
	if sizeErr.Need != 360 || sizeErr.Have != 100 {
		t.Errorf("error = need %d have %d, want need 360 have 100", sizeErr.Need, sizeErr.Have)
	}
}

func TestAssembleInvalidInputs(t *testing.T) {
	f, err := format.Standard(1, 2)
	if err != nil {
		t.Fatalf("Standard() error = %v", err)
	}

	tests := []struct {
		name  string
		pool  []cards.Card
		seats int
		rng   *rand.Rand
	}{
		{name: "empty pool", pool: nil, seats: 2, rng: rand.New(rand.NewSource(1))},
		{name: "single seat", pool: untaggedPool(10), seats: 1, rng: rand.New(rand.NewSource(1))},
		{name: "nil rng", pool: untaggedPool(10), seats: 2, rng: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Assemble(f, tt.pool, tt.seats, tt.rng); err == nil {
				t.Error("Assemble() error = nil, want error")
			}
		})
	}
}

func TestAssembleCustomWithoutMultiples(t *testing.T) {
	f := customFormat(t, `{"packs": [["creature", "creature", "removal"]]}`)
	pool := taggedPool(map[string]int{"creature": 6, "removal": 3})

	asm, err := Assemble(f, pool, 2, rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	seen := make(map[cards.Ref]bool)
	for seat := range asm.Packs {
		pack := asm.Packs[seat][0]
		if len(pack) != 3 {
			t.Fatalf("seat %d pack size = %d, want 3", seat, len(pack))
		}
		for i, ref := range pack {
			if seen[ref] {
				t.Fatalf("card %d dealt twice without multiples", ref)
			}
			seen[ref] = true

			card := asm.Cards[ref]
			wantTag := "creature"
			if i == 2 {
				wantTag = "removal"
			}
			if !card.HasTag(wantTag) {
				t.Errorf("seat %d slot %d dealt %v, want tag %q", seat, i, card.Tags, wantTag)
			}
		}
	}
}

func TestAssembleCustomAlternativeRetry(t *testing.T) {
	// Only one scarce card exists; the second seat's slot must fall back
	// to the slot's other alternative instead of failing.
	f := customFormat(t, `{"packs": [["scarce,common"]]}`)
	pool := taggedPool(map[string]int{"scarce": 1, "common": 4})

	for seed := int64(0); seed < 10; seed++ {
		asm, err := Assemble(f, pool, 3, rand.New(rand.NewSource(seed)))
		if err != nil {
			t.Fatalf("seed %d: Assemble() error = %v", seed, err)
		}
		scarceDealt := 0
		for seat := range asm.Packs {
			for _, ref := range asm.Packs[seat][0] {
				if asm.Cards[ref].HasTag("scarce") {
					scarceDealt++
				}
			}
		}
		if scarceDealt > 1 {
			t.Fatalf("seed %d: scarce card dealt %d times", seed, scarceDealt)
		}
	}
}

func TestAssembleWildcardWhenTagAbsent(t *testing.T) {
	// The pool holds no creatures at all; every deal must satisfy the slot
	// through the wildcard alternative instead of failing.
	f := customFormat(t, `{"packs": [["creature,*"]]}`)
	pool := taggedPool(map[string]int{"removal": 4})

	for seed := int64(0); seed < 10; seed++ {
		asm, err := Assemble(f, pool, 3, rand.New(rand.NewSource(seed)))
		if err != nil {
			t.Fatalf("seed %d: Assemble() error = %v", seed, err)
		}
		for seat := range asm.Packs {
			pack := asm.Packs[seat][0]
			if len(pack) != 1 {
				t.Fatalf("seed %d: seat %d pack size = %d, want 1", seed, seat, len(pack))
			}
			if !asm.Cards[pack[0]].HasTag("removal") {
				t.Errorf("seed %d: dealt card outside the pool: %v", seed, asm.Cards[pack[0]].Tags)
			}
		}
	}
}

func TestAssembleCustomReportsOffendingTag(t *testing.T) {
	// The pool has no removal at all; the error names the unsatisfiable
	// tag rather than the wildcard alternative.
	f := customFormat(t, `{"packs": [["removal,*"]]}`)
	pool := []cards.Card{}

	_, err := Assemble(f, pool, 2, rand.New(rand.NewSource(1)))
	if err == nil {
		t.Fatal("Assemble() error = nil, want error")
	}

	f = customFormat(t, `{"packs": [["removal"]]}`)
	pool = taggedPool(map[string]int{"creature": 5})
	_, err = Assemble(f, pool, 2, rand.New(rand.NewSource(1)))
	var tagErr *InsufficientTagPoolError
	if !errors.As(err, &tagErr) {
		t.Fatalf("Assemble() error = %v, want *InsufficientTagPoolError", err)
	}
	if tagErr.Tag != "removal" {
		t.Errorf("offending tag = %q, want removal", tagErr.Tag)
	}
}

func TestAssembleCustomWithMultiples(t *testing.T) {
	f := customFormat(t, `{"packs": [["token", "token", "token", "token"]], "multiples": true}`)
	pool := taggedPool(map[string]int{"token": 2})

	asm, err := Assemble(f, pool, 4, rand.New(rand.NewSource(2)))
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	for seat := range asm.Packs {
		if len(asm.Packs[seat][0]) != 4 {
			t.Fatalf("seat %d pack size = %d, want 4", seat, len(asm.Packs[seat][0]))
		}
		for _, ref := range asm.Packs[seat][0] {
			if !asm.Cards[ref].HasTag("token") {
				t.Errorf("dealt card without required tag: %v", asm.Cards[ref].Tags)
			}
		}
	}
}

func TestCheckFormat(t *testing.T) {
	pool := taggedPool(map[string]int{"creature": 3})

	ok := customFormat(t, `{"packs": [["creature", "*"]]}`)
	if err := CheckFormat(ok, pool); err != nil {
		t.Errorf("CheckFormat() error = %v, want nil", err)
	}

	bad := customFormat(t, `{"packs": [["removal"]]}`)
	err := CheckFormat(bad, pool)
	var tagErr *InsufficientTagPoolError
	if !errors.As(err, &tagErr) {
		t.Fatalf("CheckFormat() error = %v, want *InsufficientTagPoolError", err)
	}
	if tagErr.Tag != "removal" {
		t.Errorf("offending tag = %q, want removal", tagErr.Tag)
	}
}

func TestTagPool(t *testing.T) {
	pool := taggedPool(map[string]int{"creature": 2, "removal": 1})
	tp := NewTagPool(pool)

	if got := len(tp.Refs("creature")); got != 2 {
		t.Errorf("Refs(creature) = %d refs, want 2", got)
	}
	if got := len(tp.Refs(format.Wildcard)); got != 3 {
		t.Errorf("Refs(*) = %d refs, want 3", got)
	}
	if got := len(tp.Refs("missing")); got != 0 {
		t.Errorf("Refs(missing) = %d refs, want 0", got)
	}
}
