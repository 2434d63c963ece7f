package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Kind identifies one of the three input documents.
type Kind string

const (
	KindReport      Kind = "report"
	KindDashboard   Kind = "dashboard"
	KindCompetitors Kind = "competitors"
)

// Kinds lists the document kinds in load order.
var Kinds = []Kind{KindReport, KindDashboard, KindCompetitors}

// ParseKind parses a document kind name.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindReport:
		return KindReport, nil
	case KindDashboard:
		return KindDashboard, nil
	case KindCompetitors:
		return KindCompetitors, nil
	default:
		return "", fmt.Errorf("invalid document kind: %q (expected report, dashboard, or competitors)", s)
	}
}

// ErrEmpty is returned for documents with no content.
var ErrEmpty = errors.New("document is empty")

// ParseError reports a document that could not be decoded or did not
// match its schema.
type ParseError struct {
	Kind Kind
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s document: %v", e.Kind, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Clean strips a UTF-8 byte order mark, surrounding whitespace and a
// Markdown code fence from raw document bytes.
func Clean(raw []byte) []byte {
	text := bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	text = bytes.TrimSpace(text)

	if bytes.HasPrefix(text, []byte("```")) {
		lines := strings.Split(string(text), "\n")
		endIdx := len(lines)
		for i := len(lines) - 1; i > 0; i-- {
			if strings.TrimSpace(lines[i]) == "```" {
				endIdx = i
				break
			}
		}
		text = []byte(strings.Join(lines[1:endIdx], "\n"))
	}
	return text
}

// DecodeReport decodes and validates a report document.
func DecodeReport(raw []byte) (*Report, error) {
	return decode[Report](KindReport, raw)
}

// DecodeDashboard decodes and validates a dashboard document.
func DecodeDashboard(raw []byte) (*Dashboard, error) {
	return decode[Dashboard](KindDashboard, raw)
}

// DecodeCompetitors decodes and validates a competitors document.
func DecodeCompetitors(raw []byte) (*Competitors, error) {
	return decode[Competitors](KindCompetitors, raw)
}

func decode[T any](kind Kind, raw []byte) (*T, error) {
	text := Clean(raw)
	if len(text) == 0 {
		return nil, &ParseError{Kind: kind, Err: ErrEmpty}
	}

	var doc T
	if err := json.Unmarshal(text, &doc); err != nil {
		return nil, &ParseError{Kind: kind, Err: err}
	}
	if err := Validate(kind, text); err != nil {
		return nil, &ParseError{Kind: kind, Err: err}
	}
	return &doc, nil
}
