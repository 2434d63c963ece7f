// Package session holds the document bundle currently on display.
package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/TobiSchelling/hotelreport/internal/document"
	"github.com/TobiSchelling/hotelreport/internal/logger"
)

// Snapshot is the state observed by a single read.
type Snapshot struct {
	Bundle *document.Bundle
	LoadID string
}

// Session owns the current bundle. Replacements are whole-bundle swaps, so
// readers never see a partially updated set of documents.
type Session struct {
	mu     sync.RWMutex
	bundle *document.Bundle
	loadID string
}

// New creates an empty session.
func New() *Session {
	return &Session{}
}

// Replace swaps in b and returns the new load id.
func (s *Session) Replace(b *document.Bundle) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.bundle, s.loadID = b, id
	s.mu.Unlock()
	logger.Log.WithField("load_id", id).Info("Loaded new document bundle")
	return id
}

// ReplaceDocument decodes raw as kind and swaps it into the current bundle.
// On error the session is left as it was.
func (s *Session) ReplaceDocument(kind document.Kind, raw []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.bundle.With(kind, raw)
	if err != nil {
		logger.Log.WithField("kind", kind).Warnf("Rejected upload: %v", err)
		return "", err
	}
	s.bundle = next
	s.loadID = uuid.NewString()
	logger.Log.WithField("load_id", s.loadID).Infof("Replaced %s document", kind)
	return s.loadID, nil
}

// Current returns the bundle on display and its load id. The bundle is nil
// before the first successful load.
func (s *Session) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Bundle: s.bundle, LoadID: s.loadID}
}
