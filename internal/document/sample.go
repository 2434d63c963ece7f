package document

import (
	"embed"
	"fmt"
)

//go:embed samples/*.json
var samplesFS embed.FS

// SampleFiles maps each kind to its default file name.
var SampleFiles = map[Kind]string{
	KindReport:      "data.json",
	KindDashboard:   "dashboard.json",
	KindCompetitors: "competitors.json",
}

// Sample returns the bundled example document for kind.
func Sample(kind Kind) ([]byte, error) {
	name, ok := SampleFiles[kind]
	if !ok {
		return nil, fmt.Errorf("unknown document kind: %s", kind)
	}
	return samplesFS.ReadFile("samples/" + name)
}

// SampleBundle decodes all three bundled example documents.
func SampleBundle() (*Bundle, error) {
	var b *Bundle
	for _, kind := range Kinds {
		raw, err := Sample(kind)
		if err != nil {
			return nil, err
		}
		if b, err = b.With(kind, raw); err != nil {
			return nil, err
		}
	}
	return b, nil
}
