package dafile

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/koeppl/yasco-da/pkg/dasolve"
)

func intp(v int) *int { return &v }

func TestEncodeDecodeRoundTrip(t *testing.T) {
	res := &dasolve.Result{
		Base:  []*int{intp(0), nil, intp(1)},
		Check: []*int{nil, intp(0), intp(1)},
	}
	var buf bytes.Buffer
	assert.NoError(t, Encode(&buf, res))

	got, err := Decode(&buf)
	assert.NoError(t, err)
	assert.Equal(t, res.Base, got.Base)
	assert.Equal(t, res.Check, got.Check)
}

func TestCachePath(t *testing.T) {
	assert.Equal(t, "input.mat.sat-size=12.json", CachePath("input.mat", 12))
}
