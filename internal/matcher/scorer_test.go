package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfidenceIdenticalNamesHigh(t *testing.T) {
	score := Confidence("acid bass line", "acid bass line", f(128), f(128), 1700000000, 1700000000)
	assert.Greater(t, score, 0.9)
}

func TestConfidenceDifferentNamesLow(t *testing.T) {
	score := Confidence("acid bass line", "funky groove master", f(128), f(90), 1700000000, 1700000000)
	assert.Less(t, score, 0.4)
}

func TestConfidenceShortNameExactMatch(t *testing.T) {
	score := Confidence("hi", "hi", f(128), f(128), 1700000000, 1700000000)
	assert.Greater(t, score, 0.9)
}

func TestConfidenceShortNameNoMatch(t *testing.T) {
	score := Confidence("hi", "ho", nil, nil, 1700000000, 1700000000)
	assert.Less(t, score, 0.3)
}

func TestConfidenceClampedToOne(t *testing.T) {
	score := Confidence("test name", "test name", f(128), f(128), 1700000000, 1700000000)
	assert.LessOrEqual(t, score, 1.0)
}

func TestConfidenceClampedToZero(t *testing.T) {
	score := Confidence("aaaa", "zzzzzzzz", f(128), f(140), 0, 100*86400)
	assert.GreaterOrEqual(t, score, 0.0)
}

func TestConfidenceSymmetric(t *testing.T) {
	a, b := "acid bass line", "acid bass line 2"
	bpmA, bpmB := f(128), f(129)
	mtimeA, mtimeB := int64(1700000000), int64(1700086400)

	ab := Confidence(a, b, bpmA, bpmB, mtimeA, mtimeB)
	ba := Confidence(b, a, bpmB, bpmA, mtimeB, mtimeA)
	assert.Equal(t, ab, ba)
}
