package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionIsBareSemver(t *testing.T) {
	assert.Regexp(t, `^\d+\.\d+\.\d+$`, Version, "ldflags override expects a bare x.y.z default")
	assert.NotEmpty(t, BuildTime)
	assert.NotEmpty(t, GitCommit)
}
