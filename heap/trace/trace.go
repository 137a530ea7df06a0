// Package trace implements the heap's diagnostic trace boundary: a
// write-only stream of packed 32-bit words describing each allocator
// operation, emitted to an external Port. The stream is best-effort and
// purely observational; it never influences allocation outcomes.
//
// Each operation emits two or three words. The top byte of every word is
// an opcode nibble pair, the rest carries size bits, and every word is
// XORed with Key before transmission. Decode reverses the transform.
package trace

import "fmt"

// Key scrambles every emitted word. The decoder applies the same XOR.
const Key uint32 = 0xC5ACCE55

// Opcodes occupying the top byte of each emitted word.
const (
	opAllocate1   = 0xA1
	opAllocate2   = 0xA2
	opGrow1       = 0xB1
	opGrow2       = 0xB2
	opGrow3       = 0xB3
	opShrink1     = 0xC1
	opShrink2     = 0xC2
	opShrink3     = 0xC3
	opDeallocate1 = 0xD1
	opDeallocate2 = 0xD2
)

// Port is a one-directional word sink, typically a debug channel of the
// enclosing runtime. Enabled is queried per operation, so tracing can be
// toggled at run time without reconstructing the heap.
type Port interface {
	Enabled() bool
	Write(word uint32)
}

// Tracer encodes allocator operations onto a Port.
type Tracer struct {
	port Port
}

// New returns a Tracer emitting to port.
func New(port Port) *Tracer {
	return &Tracer{port: port}
}

// Allocate emits an allocation event for a request of size bytes.
func (t *Tracer) Allocate(size int) {
	if !t.port.Enabled() {
		return
	}
	s := uint32(size)
	t.port.Write((opAllocate1<<24 | s>>24) ^ Key)
	t.port.Write((opAllocate2<<24 | s&0xFF) ^ Key)
}

// Deallocate emits a deallocation event for a block of size bytes.
func (t *Tracer) Deallocate(size int) {
	if !t.port.Enabled() {
		return
	}
	s := uint32(size)
	t.port.Write((opDeallocate1<<24 | s>>24) ^ Key)
	t.port.Write((opDeallocate2<<24 | s&0xFF) ^ Key)
}

// Grow emits a grow event carrying both the old and the new request size.
func (t *Tracer) Grow(oldSize, newSize int) {
	if !t.port.Enabled() {
		return
	}
	o, n := uint32(oldSize), uint32(newSize)
	t.port.Write((opGrow1<<24 | o>>24) ^ Key)
	t.port.Write((opGrow2<<24 | (o&0xFF)<<16 | n>>16) ^ Key)
	t.port.Write((opGrow3<<24 | n&0xFFFF) ^ Key)
}

// Shrink emits a shrink event carrying both the old and the new request size.
func (t *Tracer) Shrink(oldSize, newSize int) {
	if !t.port.Enabled() {
		return
	}
	o, n := uint32(oldSize), uint32(newSize)
	t.port.Write((opShrink1<<24 | o>>24) ^ Key)
	t.port.Write((opShrink2<<24 | (o&0xFF)<<16 | n>>16) ^ Key)
	t.port.Write((opShrink3<<24 | n&0xFFFF) ^ Key)
}

// Op identifies a decoded trace event.
type Op uint8

// Decoded event kinds.
const (
	OpAllocate Op = iota
	OpDeallocate
	OpGrow
	OpShrink
)

// String returns the lower-case event name.
func (o Op) String() string {
	switch o {
	case OpAllocate:
		return "allocate"
	case OpDeallocate:
		return "deallocate"
	case OpGrow:
		return "grow"
	case OpShrink:
		return "shrink"
	default:
		return fmt.Sprintf("op(%d)", uint8(o))
	}
}

// Event is one decoded allocator operation.
//
// The wire format carries only the top and bottom bytes of Size and
// OldSize, so their bits 8..23 are reconstructed as zero. NewSize is
// carried in full across the second and third words and decodes exactly.
type Event struct {
	Op      Op
	Size    uint32 // allocate/deallocate
	OldSize uint32 // grow/shrink
	NewSize uint32 // grow/shrink
}

// Decode parses a captured word stream back into events. It fails on a
// truncated stream, an unknown opcode, or mismatched continuation words.
func Decode(words []uint32) ([]Event, error) {
	var events []Event
	for i := 0; i < len(words); {
		w1 := words[i] ^ Key
		switch op := w1 >> 24; op {
		case opAllocate1, opDeallocate1:
			if i+1 >= len(words) {
				return nil, fmt.Errorf("trace: truncated stream at word %d", i)
			}
			w2 := words[i+1] ^ Key
			want := uint32(opAllocate2)
			kind := OpAllocate
			if op == opDeallocate1 {
				want = opDeallocate2
				kind = OpDeallocate
			}
			if w2>>24 != want {
				return nil, fmt.Errorf("trace: word %d: expected opcode %#x, got %#x", i+1, want, w2>>24)
			}
			events = append(events, Event{
				Op:   kind,
				Size: (w1&0xFFFFFF)<<24 | w2&0xFF,
			})
			i += 2
		case opGrow1, opShrink1:
			if i+2 >= len(words) {
				return nil, fmt.Errorf("trace: truncated stream at word %d", i)
			}
			w2 := words[i+1] ^ Key
			w3 := words[i+2] ^ Key
			want2, want3 := uint32(opGrow2), uint32(opGrow3)
			kind := OpGrow
			if op == opShrink1 {
				want2, want3 = opShrink2, opShrink3
				kind = OpShrink
			}
			if w2>>24 != want2 {
				return nil, fmt.Errorf("trace: word %d: expected opcode %#x, got %#x", i+1, want2, w2>>24)
			}
			if w3>>24 != want3 {
				return nil, fmt.Errorf("trace: word %d: expected opcode %#x, got %#x", i+2, want3, w3>>24)
			}
			events = append(events, Event{
				Op:      kind,
				OldSize: (w1&0xFFFFFF)<<24 | (w2>>16)&0xFF,
				NewSize: (w2&0xFFFF)<<16 | w3&0xFFFF,
			})
			i += 3
		default:
			return nil, fmt.Errorf("trace: word %d: unknown opcode %#x", i, op)
		}
	}
	return events, nil
}
