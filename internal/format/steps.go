package format

import "fmt"

// Action identifies a step variant in the draft's step queue.
type Action string

// Step actions. Pick and Trash carry an amount; the random variants select
// for every seat uniformly at random. Pass rotates held packs and EndPack
// closes out the current pack.
const (
	ActionPick        Action = "pick"
	ActionTrash       Action = "trash"
	ActionPickRandom  Action = "pickrandom"
	ActionTrashRandom Action = "trashrandom"
	ActionPass        Action = "pass"
	ActionEndPack     Action = "endpack"
)

// Step is one pending entry in the step queue.
type Step struct {
	Action Action
	Amount int
}

// Selects reports whether the step removes a card from a pack.
func (s Step) Selects() bool {
	switch s.Action {
	case ActionPick, ActionTrash, ActionPickRandom, ActionTrashRandom:
		return true
	}
	return false
}

// Random reports whether every seat's choice is made uniformly at random.
func (s Step) Random() bool {
	return s.Action == ActionPickRandom || s.Action == ActionTrashRandom
}

// IsTrash reports whether the selected card goes to the trash list.
func (s Step) IsTrash() bool {
	return s.Action == ActionTrash || s.Action == ActionTrashRandom
}

// DefaultSteps returns the steps for a pack of n cards with no custom step
// list: pick one card, pass, repeated, with no pass after the final pick.
func DefaultSteps(n int) []Step {
	steps := make([]Step, 0, 2*n-1)
	for i := 0; i < n; i++ {
		if i > 0 {
			steps = append(steps, Step{Action: ActionPass})
		}
		steps = append(steps, Step{Action: ActionPick, Amount: 1})
	}
	return steps
}

// compileSteps validates a custom step list from a descriptor. EndPack is
// rejected; the queue builder appends exactly one per pack.
func compileSteps(raw []DescriptorStep) ([]Step, error) {
	steps := make([]Step, 0, len(raw))
	for i, rs := range raw {
		action := Action(rs.Action)
		switch action {
		case ActionPick, ActionTrash:
			amount := rs.Amount
			if amount == 0 {
				amount = 1
			}
			if amount < 0 {
				return nil, fmt.Errorf("step %d has negative amount %d", i+1, rs.Amount)
			}
			steps = append(steps, Step{Action: action, Amount: amount})
		case ActionPickRandom, ActionTrashRandom:
			steps = append(steps, Step{Action: action, Amount: 1})
		case ActionPass:
			steps = append(steps, Step{Action: ActionPass})
		case ActionEndPack:
			return nil, fmt.Errorf("step %d: endpack cannot appear in a custom step list", i+1)
		default:
			return nil, fmt.Errorf("step %d has unknown action %q", i+1, rs.Action)
		}
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("custom step list is empty")
	}
	return steps, nil
}

// PackSteps returns the step list for one pack of the format, falling back
// to DefaultSteps for the pack's slot count.
func (f Format) PackSteps(packIdx int) []Step {
	pack := f.Packs[packIdx]
	if len(pack.Steps) > 0 {
		steps := make([]Step, len(pack.Steps))
		copy(steps, pack.Steps)
		return steps
	}
	return DefaultSteps(len(pack.Slots))
}

// StepQueue flattens the whole format into the draft's step queue: every
// pack's steps followed by exactly one EndPack.
func (f Format) StepQueue() []Step {
	var queue []Step
	for i := range f.Packs {
		queue = append(queue, f.PackSteps(i)...)
		queue = append(queue, Step{Action: ActionEndPack})
	}
	return queue
}

// SelectionsPerPack returns how many cards each pack's steps remove from a
// pack, counting pick and trash amounts.
func (f Format) SelectionsPerPack(packIdx int) int {
	total := 0
	for _, step := range f.PackSteps(packIdx) {
		if step.Selects() {
			total += step.Amount
		}
	}
	return total
}
