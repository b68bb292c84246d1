package format

import (
	"testing"
)

func TestParseAndCompile(t *testing.T) {
	raw := []byte(`{"packs": [["Creature, Removal", "*"], ["artifact"]], "multiples": true}`)

	desc, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	f, err := Compile(desc)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	if !f.Custom {
		t.Error("compiled descriptor not marked custom")
	}
	if !f.Multiples {
		t.Error("multiples flag lost in compilation")
	}
	if len(f.Packs) != 2 {
		t.Fatalf("packs = %d, want 2", len(f.Packs))
	}

	// Alternatives are trimmed and lowercased.
	slot := f.Packs[0].Slots[0]
	if len(slot) != 2 || slot[0] != "creature" || slot[1] != "removal" {
		t.Errorf("first slot = %v, want [creature removal]", slot)
	}
	if f.Packs[0].Slots[1][0] != Wildcard {
		t.Errorf("second slot = %v, want wildcard", f.Packs[0].Slots[1])
	}
}

func TestParsePackWithSteps(t *testing.T) {
	raw := []byte(`{"packs": [{"slots": ["*", "*"], "steps": [
		{"action": "pick", "amount": 2}
	]}]}`)

	desc, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	f, err := Compile(desc)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	steps := f.Packs[0].Steps
	if len(steps) != 1 || steps[0].Action != ActionPick || steps[0].Amount != 2 {
		t.Errorf("steps = %v, want single pick of 2", steps)
	}
}

func TestCompileRejectsMalformedDescriptors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "no packs", raw: `{"packs": []}`},
		{name: "empty pack", raw: `{"packs": [[]]}`},
		{name: "empty slot", raw: `{"packs": [[""]]}`},
		{name: "empty alternative", raw: `{"packs": [["creature,,removal"]]}`},
		{name: "unknown step action", raw: `{"packs": [{"slots": ["*"], "steps": [{"action": "discard"}]}]}`},
		{name: "endpack in custom steps", raw: `{"packs": [{"slots": ["*"], "steps": [{"action": "endpack"}]}]}`},
		{name: "negative step amount", raw: `{"packs": [{"slots": ["*"], "steps": [{"action": "pick", "amount": -1}]}]}`},
		{name: "pick amount exceeds slots", raw: `{"packs": [{"slots": ["*"], "steps": [{"action": "pick", "amount": 2}]}]}`},
		{name: "combined selections exceed slots", raw: `{"packs": [{"slots": ["*", "*"], "steps": [
			{"action": "trash", "amount": 1},
			{"action": "pick", "amount": 1},
			{"action": "pickrandom"}
		]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc, err := Parse([]byte(tt.raw))
			if err != nil {
				return
			}
			if _, err := Compile(desc); err == nil {
				t.Errorf("Compile(%s) error = nil, want error", tt.raw)
			}
		})
	}
}

func TestStandard(t *testing.T) {
	f, err := Standard(3, 15)
	if err != nil {
		t.Fatalf("Standard() error = %v", err)
	}
	if f.Custom || f.Multiples {
		t.Error("standard format marked custom or multiples")
	}
	if len(f.Packs) != 3 {
		t.Fatalf("packs = %d, want 3", len(f.Packs))
	}
	for _, pack := range f.Packs {
		if len(pack.Slots) != 15 {
			t.Fatalf("pack slots = %d, want 15", len(pack.Slots))
		}
		for _, slot := range pack.Slots {
			if len(slot) != 1 || slot[0] != Wildcard {
				t.Fatalf("slot = %v, want wildcard only", slot)
			}
		}
	}

	if _, err := Standard(0, 15); err == nil {
		t.Error("Standard(0, 15) error = nil, want error")
	}
	if _, err := Standard(3, 0); err == nil {
		t.Error("Standard(3, 0) error = nil, want error")
	}
}

func TestDefaultSteps(t *testing.T) {
	steps := DefaultSteps(3)
	want := []Step{
		{Action: ActionPick, Amount: 1},
		{Action: ActionPass},
		{Action: ActionPick, Amount: 1},
		{Action: ActionPass},
		{Action: ActionPick, Amount: 1},
	}
	if len(steps) != len(want) {
		t.Fatalf("DefaultSteps(3) = %d steps, want %d", len(steps), len(want))
	}
	for i := range want {
		if steps[i] != want[i] {
			t.Errorf("step %d = %v, want %v", i, steps[i], want[i])
		}
	}
}

func TestStepQueue(t *testing.T) {
	f, err := Standard(2, 2)
	if err != nil {
		t.Fatalf("Standard() error = %v", err)
	}

	queue := f.StepQueue()

	// Each pack contributes pick, pass, pick plus one endpack.
	endpacks := 0
	selections := 0
	for _, step := range queue {
		switch {
		case step.Action == ActionEndPack:
			endpacks++
		case step.Selects():
			selections += step.Amount
		}
	}
	if endpacks != 2 {
		t.Errorf("endpack steps = %d, want exactly one per pack", endpacks)
	}
	if selections != 4 {
		t.Errorf("selections = %d, want 4", selections)
	}
	if queue[len(queue)-1].Action != ActionEndPack {
		t.Error("queue does not end with endpack")
	}
}

func TestSelectionsPerPack(t *testing.T) {
	raw := []byte(`{"packs": [{"slots": ["*", "*", "*"], "steps": [
		{"action": "trash", "amount": 1},
		{"action": "pass"},
		{"action": "pick", "amount": 2}
	]}]}`)
	desc, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	f, err := Compile(desc)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if got := f.SelectionsPerPack(0); got != 3 {
		t.Errorf("SelectionsPerPack(0) = %d, want 3", got)
	}
}

func TestStepPredicates(t *testing.T) {
	tests := []struct {
		action  Action
		selects bool
		random  bool
		trash   bool
	}{
		{action: ActionPick, selects: true},
		{action: ActionTrash, selects: true, trash: true},
		{action: ActionPickRandom, selects: true, random: true},
		{action: ActionTrashRandom, selects: true, random: true, trash: true},
		{action: ActionPass},
		{action: ActionEndPack},
	}
	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			step := Step{Action: tt.action, Amount: 1}
			if step.Selects() != tt.selects {
				t.Errorf("Selects() = %v, want %v", step.Selects(), tt.selects)
			}
			if step.Random() != tt.random {
				t.Errorf("Random() = %v, want %v", step.Random(), tt.random)
			}
			if step.IsTrash() != tt.trash {
				t.Errorf("IsTrash() = %v, want %v", step.IsTrash(), tt.trash)
			}
		})
	}
}
