// Package dafile defines the double-array output file format and the
// cache-file naming convention used by pkg/search to record probed sizes.
package dafile

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/koeppl/yasco-da/pkg/dasolve"
)

// wireArray is the JSON wire format for a decoded double array: {"base":
// [...], "check": [...]}, with nulls at unreserved slots.
type wireArray struct {
	Base  []*int `json:"base"`
	Check []*int `json:"check"`
}

// Encode writes res to w in the double-array JSON wire format.
func Encode(w io.Writer, res *dasolve.Result) error {
	wire := wireArray{Base: res.Base, Check: res.Check}
	enc := json.NewEncoder(w)
	return enc.Encode(wire)
}

// WriteFile writes res to a JSON file at path, creating or truncating it.
func WriteFile(path string, res *dasolve.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create double array %s: %w", path, err)
	}
	defer f.Close()
	return Encode(f, res)
}

// Decode reads a double array from its JSON wire representation.
func Decode(r io.Reader) (*dasolve.Result, error) {
	var wire wireArray
	if err := json.NewDecoder(r).Decode(&wire); err != nil {
		return nil, fmt.Errorf("decode double array: %w", err)
	}
	return &dasolve.Result{Base: wire.Base, Check: wire.Check}, nil
}

// ReadFile loads a double array from a JSON file at path.
func ReadFile(path string) (*dasolve.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open double array %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

// CachePath names the per-size probe result file for inputPath at the given
// array size, matching the original solver's "<input>.sat-size=<N>.json"
// convention.
func CachePath(inputPath string, size int) string {
	return fmt.Sprintf("%s.sat-size=%d.json", inputPath, size)
}
