package tickprice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromFloat_RoundsToNearestTick(t *testing.T) {
	assert.Equal(t, Price(10000), FromFloat(100.00, 0.01))
	assert.Equal(t, Price(10001), FromFloat(100.005, 0.01))
	assert.Equal(t, Price(10001), FromFloat(100.009, 0.01))
}

func TestFromFloat_TiesAwayFromZero(t *testing.T) {
	assert.Equal(t, Price(1), FromFloat(0.5, 1))
	assert.Equal(t, Price(-1), FromFloat(-0.5, 1))
}

func TestToFloat_RoundTrip(t *testing.T) {
	p := FromFloat(123.45, 0.01)
	assert.InDelta(t, 123.45, p.ToFloat(0.01), 1e-9)
}

func TestInvalid_NotValid(t *testing.T) {
	assert.False(t, Invalid.Valid())
	assert.True(t, Price(0).Valid())
}
