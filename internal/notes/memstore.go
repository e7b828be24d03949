package notes

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memStore keeps notes in process memory for tests and zero-config startup.
type memStore struct {
	mu    sync.Mutex
	notes map[uuid.UUID]Note
}

func NewMemStore() Store {
	return &memStore{notes: map[uuid.UUID]Note{}}
}

func (s *memStore) ListByUser(_ context.Context, userID string) ([]Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var list []Note
	for _, note := range s.notes {
		if note.UserID.String() == userID {
			list = append(list, note)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func (s *memStore) Lookup(_ context.Context, id string) (*Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var noteID, err = uuid.Parse(id)
	if err != nil {
		return nil, ErrNoteNotFound
	}
	if note, found := s.notes[noteID]; found {
		return &note, nil
	}
	return nil, ErrNoteNotFound
}

func (s *memStore) Create(_ context.Context, note *Note) (*Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if note.ID == uuid.Nil {
		note.ID = uuid.New()
	}
	note.CreatedAt = time.Now()
	note.UpdatedAt = note.CreatedAt
	s.notes[note.ID] = *note
	var created = *note
	return &created, nil
}

func (s *memStore) Update(_ context.Context, note *Note) (*Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stored, found = s.notes[note.ID]
	if !found {
		return nil, ErrNoteNotFound
	}
	stored.Text = note.Text
	stored.UpdatedAt = time.Now()
	s.notes[note.ID] = stored
	return &stored, nil
}

func (s *memStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var noteID, err = uuid.Parse(id)
	if err != nil {
		return ErrNoteNotFound
	}
	if _, found := s.notes[noteID]; !found {
		return ErrNoteNotFound
	}
	delete(s.notes, noteID)
	return nil
}

func (s *memStore) CountByUser(_ context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int
	for _, note := range s.notes {
		if note.UserID.String() == userID {
			count++
		}
	}
	return count, nil
}

func (s *memStore) Ping(_ context.Context) error {
	return nil
}
