package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFits_SizeProbe(t *testing.T) {
	p := New(0x1000, 16, 8)

	assert.True(t, SizeProbe(1).Fits(p))
	assert.True(t, SizeProbe(16).Fits(p))
	assert.False(t, SizeProbe(17).Fits(p))
}

func TestFits_AddrProbe(t *testing.T) {
	p := New(0x1000, 16, 8) // range [0x1000, 0x1080)

	assert.True(t, AddrProbe(0).Fits(p))
	assert.True(t, AddrProbe(0x1000).Fits(p))
	assert.True(t, AddrProbe(0x107F).Fits(p))
	assert.False(t, AddrProbe(0x1080).Fits(p))
	assert.False(t, AddrProbe(0x2000).Fits(p))
}

// Both probes must be monotonic over a sorted pool array: false for every
// pool before some index, true from it onward.
func TestFits_Monotonic(t *testing.T) {
	pools := []*Pool{
		New(20, 2, 100),
		New(220, 5, 100),
		New(720, 8, 100),
		New(1520, 12, 100),
	}

	for _, probe := range []Fits{SizeProbe(6), AddrProbe(800)} {
		flipped := false
		for i, p := range pools {
			ok := probe.Fits(p)
			if ok {
				flipped = true
			} else {
				assert.False(t, flipped, "probe %#v not monotonic at pool %d", probe, i)
			}
		}
	}
}
