package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatedPort counts Enabled checks and rejects writes while disabled.
type gatedPort struct {
	enabled bool
	checks  int
	words   []uint32
}

func (p *gatedPort) Enabled() bool { p.checks++; return p.enabled }

func (p *gatedPort) Write(word uint32) { p.words = append(p.words, word) }

func TestTracer_AllocateWireFormat(t *testing.T) {
	rec := &Recorder{}
	New(rec).Allocate(300)

	require.Len(t, rec.Words(), 2)
	assert.Equal(t, (uint32(0xA1)<<24|300>>24)^Key, rec.Words()[0])
	assert.Equal(t, (uint32(0xA2)<<24|300&0xFF)^Key, rec.Words()[1])
}

func TestTracer_DeallocateWireFormat(t *testing.T) {
	rec := &Recorder{}
	New(rec).Deallocate(0x01020304)

	require.Len(t, rec.Words(), 2)
	assert.Equal(t, (uint32(0xD1)<<24|0x01)^Key, rec.Words()[0])
	assert.Equal(t, (uint32(0xD2)<<24|0x04)^Key, rec.Words()[1])
}

func TestTracer_GrowWireFormat(t *testing.T) {
	rec := &Recorder{}
	New(rec).Grow(0x01020304, 0x0A0B0C0D)

	require.Len(t, rec.Words(), 3)
	assert.Equal(t, (uint32(0xB1)<<24|0x01)^Key, rec.Words()[0])
	assert.Equal(t, (uint32(0xB2)<<24|uint32(0x04)<<16|0x0A0B)^Key, rec.Words()[1])
	assert.Equal(t, (uint32(0xB3)<<24|0x0C0D)^Key, rec.Words()[2])
}

func TestTracer_ShrinkWireFormat(t *testing.T) {
	rec := &Recorder{}
	New(rec).Shrink(91, 16)

	require.Len(t, rec.Words(), 3)
	assert.Equal(t, (uint32(0xC1)<<24|0)^Key, rec.Words()[0])
	assert.Equal(t, (uint32(0xC2)<<24|uint32(91)<<16|0)^Key, rec.Words()[1])
	assert.Equal(t, (uint32(0xC3)<<24|16)^Key, rec.Words()[2])
}

func TestTracer_DisabledPortStaysSilent(t *testing.T) {
	port := &gatedPort{enabled: false}
	tr := New(port)

	tr.Allocate(64)
	tr.Deallocate(64)
	tr.Grow(64, 128)
	tr.Shrink(128, 64)

	assert.Equal(t, 4, port.checks, "Enabled is queried per call")
	assert.Empty(t, port.words, "disabled port must receive nothing")
}

func TestDecode_RoundTrip(t *testing.T) {
	rec := &Recorder{}
	tr := New(rec)
	tr.Allocate(38)
	tr.Grow(38, 0x00012345)
	tr.Shrink(91, 16)
	tr.Deallocate(16)

	events, err := Decode(rec.Words())
	require.NoError(t, err)
	require.Len(t, events, 4)

	assert.Equal(t, Event{Op: OpAllocate, Size: 38}, events[0])
	assert.Equal(t, Event{Op: OpGrow, OldSize: 38, NewSize: 0x00012345}, events[1])
	assert.Equal(t, Event{Op: OpShrink, OldSize: 91, NewSize: 16}, events[2])
	assert.Equal(t, Event{Op: OpDeallocate, Size: 16}, events[3])
}

func TestDecode_Errors(t *testing.T) {
	rec := &Recorder{}
	New(rec).Grow(38, 91)
	words := rec.Words()

	_, err := Decode(words[:2])
	assert.Error(t, err, "truncated grow")

	_, err = Decode([]uint32{0 ^ Key})
	assert.Error(t, err, "unknown opcode")

	// Continuation word from the wrong operation.
	bad := []uint32{(uint32(0xA1) << 24) ^ Key, (uint32(0xD2) << 24) ^ Key}
	_, err = Decode(bad)
	assert.Error(t, err)
}

func TestOp_String(t *testing.T) {
	assert.Equal(t, "allocate", OpAllocate.String())
	assert.Equal(t, "deallocate", OpDeallocate.String())
	assert.Equal(t, "grow", OpGrow.String())
	assert.Equal(t, "shrink", OpShrink.String())
}
