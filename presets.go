package jsoncore

import (
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Preset is a named, reusable Options profile (spec §3), letting a
// caller ship a fixed options set alongside a binary instead of
// constructing Options{} literals at every call site.
type Preset struct {
	Name    string
	Options Options
}

type presetDocument struct {
	Presets []presetEntry `yaml:"presets"`
}

type presetEntry struct {
	Name      string `yaml:"name"`
	Float64   bool   `yaml:"float64"`
	JSONLines bool   `yaml:"jsonlines"`
}

// LoadPresets unmarshals a YAML document of the shape:
//
//	presets:
//	  - name: strict
//	    float64: false
//	    jsonlines: false
//
// into a list of Preset, in document order.
func LoadPresets(r io.Reader) ([]Preset, error) {
	var doc presetDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decoding presets")
	}
	out := make([]Preset, len(doc.Presets))
	for i, e := range doc.Presets {
		out[i] = Preset{
			Name: e.Name,
			Options: Options{
				Float64:   e.Float64,
				JSONLines: e.JSONLines,
			},
		}
	}
	return out, nil
}

// Presets indexes a Preset list by name for O(1) lookup.
type Presets map[string]Options

// NewPresets builds a Presets index from a loaded list, last entry
// wins on a duplicate name.
func NewPresets(list []Preset) Presets {
	p := make(Presets, len(list))
	for _, preset := range list {
		p[preset.Name] = preset.Options
	}
	return p
}
