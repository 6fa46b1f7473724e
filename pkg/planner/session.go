package planner

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/codeGROOVE-dev/tzmeet/pkg/tzconvert"
	"github.com/google/uuid"
)

// LocalParticipantID identifies the participant created with the session.
const LocalParticipantID = "local"

var (
	// ErrProtectedParticipant is returned when removing the session's own participant.
	ErrProtectedParticipant = errors.New("the local participant cannot be removed")
	// ErrParticipantNotFound is returned when removing an id that is not in the session.
	ErrParticipantNotFound = errors.New("participant not found")
	// ErrEmptyName is returned when adding a participant without a name.
	ErrEmptyName = errors.New("participant name is required")
)

// Participant is someone who has to attend, with the zone their business hours are in.
type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Zone string `json:"zone"`
}

// Session owns the participant list of one planning session.
type Session struct {
	participants []Participant
	mu           sync.RWMutex
}

// NewSession starts a session whose first participant is "Me" in localZone.
func NewSession(localZone string) (*Session, error) {
	if _, err := tzconvert.LoadZone(localZone); err != nil {
		return nil, fmt.Errorf("local participant: %w", err)
	}
	return &Session{
		participants: []Participant{{ID: LocalParticipantID, Name: "Me", Zone: localZone}},
	}, nil
}

// Add validates and appends a participant.
func (s *Session) Add(name, zone string) (Participant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Participant{}, ErrEmptyName
	}
	if _, err := tzconvert.LoadZone(zone); err != nil {
		return Participant{}, fmt.Errorf("participant %q: %w", name, err)
	}

	p := Participant{ID: uuid.NewString(), Name: name, Zone: zone}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.participants = append(s.participants, p)
	return p, nil
}

// Remove drops the participant with the given id.
func (s *Session) Remove(id string) error {
	if id == LocalParticipantID {
		return ErrProtectedParticipant
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.participants {
		if p.ID == id {
			s.participants = append(s.participants[:i], s.participants[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrParticipantNotFound, id)
}

// Participants returns a copy of the list in insertion order.
func (s *Session) Participants() []Participant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Participant, len(s.participants))
	copy(out, s.participants)
	return out
}
