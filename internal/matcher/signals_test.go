package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func f(v float64) *float64 { return &v }

func TestBPMSignal(t *testing.T) {
	assert.Equal(t, 0.15, bpmSignal(f(128), f(128)))
	assert.Equal(t, 0.15, bpmSignal(f(128), f(128.5)))
	assert.Equal(t, -0.10, bpmSignal(f(128), f(140)))
	assert.Equal(t, 0.0, bpmSignal(f(128), f(132)))
	assert.Equal(t, 0.0, bpmSignal(nil, f(128)))
	assert.Equal(t, 0.0, bpmSignal(f(128), nil))
}

func TestTemporalSignal(t *testing.T) {
	const day = 86400
	var base int64 = 1700000000
	assert.Equal(t, 0.10, temporalSignal(base, base+3600))
	assert.Equal(t, 0.05, temporalSignal(base, base+7*day))
	assert.Equal(t, 0.0, temporalSignal(base, base+60*day))
}
