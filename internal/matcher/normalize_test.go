package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeBasic(t *testing.T) {
	assert.Equal(t, "song name", Normalize("Song Name.flp"))
}

func TestNormalizeStripsVersionNumber(t *testing.T) {
	assert.Equal(t, "song name", Normalize("Song Name 2.flp"))
}

func TestNormalizeStripsDoubleVersionNumber(t *testing.T) {
	assert.Equal(t, "trap beat", Normalize("Trap Beat 22.flp"))
}

func TestNormalizeStripsTripleVersionNumber(t *testing.T) {
	assert.Equal(t, "trap beat", Normalize("Trap Beat 222.flp"))
}

func TestNormalizeStripsUnderscoreVersion(t *testing.T) {
	assert.Equal(t, "song name", Normalize("Song Name_3.flp"))
}

func TestNormalizeStripsNoiseSuffixes(t *testing.T) {
	assert.Equal(t, "my song", Normalize("My Song_final.flp"))
	assert.Equal(t, "my song", Normalize("My Song_backup.flp"))
	assert.Equal(t, "my song", Normalize("My Song_old.flp"))
	assert.Equal(t, "my song", Normalize("My Song_copy.flp"))
}

func TestNormalizeFullPathExtractsStem(t *testing.T) {
	assert.Equal(t, "song name", Normalize("/path/to/Song Name 5.flp"))
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"Song Name.flp", "Trap Beat 222.flp", "My Song_final.flp", "123.flp", ""}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		assert.Equal(t, once, twice, "not idempotent for %q", in)
	}
}

func TestNormalizeAutoNumberingEquivalence(t *testing.T) {
	assert.Equal(t, Normalize("X.flp"), Normalize("X 2.flp"))
	assert.Equal(t, Normalize("X.flp"), Normalize("X 17.flp"))
}
