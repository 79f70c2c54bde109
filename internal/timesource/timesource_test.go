package timesource

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimulated_AdvanceAndSet(t *testing.T) {
	ts := NewSimulated(100)
	assert.Equal(t, uint64(100), ts.NowNs())

	ts.Advance(50)
	assert.Equal(t, uint64(150), ts.NowNs())

	ts.Set(10)
	assert.Equal(t, uint64(10), ts.NowNs())
}

func TestMonotonic_Increases(t *testing.T) {
	ts := NewMonotonic()
	first := ts.NowNs()
	second := ts.NowNs()
	assert.GreaterOrEqual(t, second, first)
}
