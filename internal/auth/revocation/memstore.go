package revocation

import (
	"context"
	"sync"
	"time"
)

// memStore keeps revocation records in process memory. It serves tests and
// single-node setups without a reachable Redis; records do not survive a
// restart.
type memStore struct {
	mu              sync.Mutex
	denylist        map[string]time.Time
	watermarks      map[string]time.Time
	globalWatermark time.Time
	globalSet       bool
}

func NewMemStore() Store {
	return &memStore{
		denylist:   map[string]time.Time{},
		watermarks: map[string]time.Time{},
	}
}

func (s *memStore) PutDenylist(_ context.Context, tokenID string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.denylist[tokenID] = expiresAt
	return nil
}

func (s *memStore) IsDenylisted(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var _, found = s.denylist[tokenID]
	return found, nil
}

func (s *memStore) DeleteDenylist(_ context.Context, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.denylist, tokenID)
	return nil
}

func (s *memStore) DenylistEntries(_ context.Context) ([]DenylistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var entries = make([]DenylistEntry, 0, len(s.denylist))
	for tokenID, expiresAt := range s.denylist {
		entries = append(entries, DenylistEntry{TokenID: tokenID, ExpiresAt: expiresAt})
	}
	return entries, nil
}

func (s *memStore) SetSubjectWatermark(_ context.Context, subject string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watermarks[subject] = at
	return nil
}

func (s *memStore) SubjectWatermark(_ context.Context, subject string) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var at, found = s.watermarks[subject]
	return at, found, nil
}

func (s *memStore) DeleteSubjectWatermark(_ context.Context, subject string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.watermarks, subject)
	return nil
}

func (s *memStore) SubjectWatermarks(_ context.Context) ([]Watermark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var watermarks = make([]Watermark, 0, len(s.watermarks))
	for subject, at := range s.watermarks {
		watermarks = append(watermarks, Watermark{Subject: subject, RevokedBefore: at})
	}
	return watermarks, nil
}

func (s *memStore) SetGlobalWatermark(_ context.Context, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.globalWatermark = at
	s.globalSet = true
	return nil
}

func (s *memStore) GlobalWatermark(_ context.Context) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.globalWatermark, s.globalSet, nil
}

func (s *memStore) DeleteGlobalWatermark(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.globalWatermark = time.Time{}
	s.globalSet = false
	return nil
}

func (s *memStore) Ping(_ context.Context) error {
	return nil
}
