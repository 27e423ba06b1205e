package marshal

import (
	"fmt"
	"math"

	"github.com/wippyai/oak/value"
)

// SlotKind is the primitive type held by one stack slot.
type SlotKind uint8

const (
	SlotNil SlotKind = iota
	SlotNumber
	SlotInteger
	SlotBool
	SlotText
	SlotRef
)

func (k SlotKind) String() string {
	switch k {
	case SlotNil:
		return "nil"
	case SlotNumber:
		return "number"
	case SlotInteger:
		return "integer"
	case SlotBool:
		return "bool"
	case SlotText:
		return "text"
	case SlotRef:
		return "ref"
	default:
		return "unknown"
	}
}

// Slot is one entry of a Slots stack.
type Slot struct {
	Text   string
	Ref    value.Ref
	Number float64
	Int    int64
	Kind   SlotKind
	Bool   bool
}

func (s Slot) String() string {
	switch s.Kind {
	case SlotNumber:
		return fmt.Sprint(s.Number)
	case SlotInteger:
		return fmt.Sprint(s.Int)
	case SlotBool:
		return fmt.Sprint(s.Bool)
	case SlotText:
		return fmt.Sprintf("%q", s.Text)
	case SlotRef:
		return s.Ref.String()
	default:
		return "nil"
	}
}

// Slots is an in-memory Stack. Reads outside the stack return nil slots.
type Slots struct {
	slots []Slot
}

// NewSlots creates an empty stack with room for capacity slots.
func NewSlots(capacity int) *Slots {
	return &Slots{slots: make([]Slot, 0, capacity)}
}

// Top returns the number of slots.
func (s *Slots) Top() int { return len(s.slots) }

// Pop removes up to n slots from the top.
func (s *Slots) Pop(n int) {
	if n > len(s.slots) {
		n = len(s.slots)
	}
	if n > 0 {
		clear(s.slots[len(s.slots)-n:])
		s.slots = s.slots[:len(s.slots)-n]
	}
}

// Reset removes every slot.
func (s *Slots) Reset() { s.Pop(len(s.slots)) }

// Push appends a raw slot.
func (s *Slots) Push(slot Slot) { s.slots = append(s.slots, slot) }

func (s *Slots) PushNumber(f float64) { s.Push(Slot{Kind: SlotNumber, Number: f}) }
func (s *Slots) PushInteger(i int64) { s.Push(Slot{Kind: SlotInteger, Int: i}) }
func (s *Slots) PushBool(b bool) { s.Push(Slot{Kind: SlotBool, Bool: b}) }
func (s *Slots) PushText(t string) { s.Push(Slot{Kind: SlotText, Text: t}) }
func (s *Slots) PushRef(r value.Ref) { s.Push(Slot{Kind: SlotRef, Ref: r}) }

// At returns the slot at index i. Negative indices count from the top,
// positive indices from the bottom starting at 1.
func (s *Slots) At(i int) Slot {
	idx := i - 1
	if i < 0 {
		idx = len(s.slots) + i
	}
	if idx < 0 || idx >= len(s.slots) {
		return Slot{}
	}
	return s.slots[idx]
}

// All returns the slots bottom first. The slice aliases the stack.
func (s *Slots) All() []Slot { return s.slots }

func (s *Slots) Number(i int) float64 {
	slot := s.At(i)
	switch slot.Kind {
	case SlotNumber:
		return slot.Number
	case SlotInteger:
		return float64(slot.Int)
	default:
		return 0
	}
}

func (s *Slots) Integer(i int) int64 {
	slot := s.At(i)
	switch slot.Kind {
	case SlotInteger:
		return slot.Int
	case SlotNumber:
		return int64(math.Trunc(slot.Number))
	default:
		return 0
	}
}

func (s *Slots) Bool(i int) bool {
	slot := s.At(i)
	switch slot.Kind {
	case SlotNil:
		return false
	case SlotBool:
		return slot.Bool
	default:
		return true
	}
}

func (s *Slots) Text(i int) string {
	slot := s.At(i)
	switch slot.Kind {
	case SlotText:
		return slot.Text
	case SlotNumber, SlotInteger, SlotBool, SlotRef:
		return slot.String()
	default:
		return ""
	}
}

func (s *Slots) Ref(i int) value.Ref {
	slot := s.At(i)
	if slot.Kind != SlotRef {
		return value.Ref{}
	}
	return slot.Ref
}

var _ Stack = (*Slots)(nil)
