package document

import "fmt"

// Bundle is the set of documents behind one rendered report. Report is
// required; Dashboard and Competitors may be nil. Raw keeps the exact bytes
// each document was decoded from so exports can reproduce them.
type Bundle struct {
	Report      *Report
	Dashboard   *Dashboard
	Competitors *Competitors
	Raw         map[Kind][]byte
}

// RawBytes returns the stored bytes for kind, or nil.
func (b *Bundle) RawBytes(kind Kind) []byte {
	if b == nil || b.Raw == nil {
		return nil
	}
	return b.Raw[kind]
}

// With returns a copy of b with the document of the given kind decoded from
// raw and swapped in. b itself is never modified, so a failed decode leaves
// the caller's bundle untouched.
func (b *Bundle) With(kind Kind, raw []byte) (*Bundle, error) {
	next := &Bundle{Raw: make(map[Kind][]byte, len(Kinds))}
	if b != nil {
		next.Report, next.Dashboard, next.Competitors = b.Report, b.Dashboard, b.Competitors
		for k, v := range b.Raw {
			next.Raw[k] = v
		}
	}

	switch kind {
	case KindReport:
		doc, err := DecodeReport(raw)
		if err != nil {
			return nil, err
		}
		next.Report = doc
	case KindDashboard:
		doc, err := DecodeDashboard(raw)
		if err != nil {
			return nil, err
		}
		next.Dashboard = doc
	case KindCompetitors:
		doc, err := DecodeCompetitors(raw)
		if err != nil {
			return nil, err
		}
		next.Competitors = doc
	default:
		return nil, fmt.Errorf("unknown document kind: %s", kind)
	}

	next.Raw[kind] = append([]byte(nil), raw...)
	return next, nil
}
