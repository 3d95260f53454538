package entities

import (
	"strings"

	pkgerrors "github.com/jeffa5/matcher/pkg/errors"
)

// Participant is a person eligible to be paired. The identifier is issued
// by the store on first save and is stable for the participant's lifetime;
// it is the identity the matching history is keyed on.
type Participant struct {
	id      uint64
	email   string
	name    string
	waiting bool
}

// NewParticipant creates an unsaved participant with basic rule checks.
// The ID stays zero until the repository persists it.
func NewParticipant(email, name string) (*Participant, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	name = strings.TrimSpace(name)
	if email == "" {
		return nil, pkgerrors.NewValidationError("email cannot be empty")
	}
	if name == "" {
		return nil, pkgerrors.NewValidationError("name cannot be empty")
	}
	return &Participant{email: email, name: name}, nil
}

// ReconstructParticipant rebuilds a participant from repository data.
func ReconstructParticipant(id uint64, email, name string, waiting bool) *Participant {
	return &Participant{id: id, email: email, name: name, waiting: waiting}
}

// ID returns the participant's stable identifier.
func (p *Participant) ID() uint64 {
	return p.id
}

// Email returns the participant's email address.
func (p *Participant) Email() string {
	return p.email
}

// Name returns the participant's display name.
func (p *Participant) Name() string {
	return p.name
}

// IsWaiting reports whether the participant is queued for the next round.
func (p *Participant) IsWaiting() bool {
	return p.waiting
}

// SetID assigns the store-issued identifier after the first save.
func (p *Participant) SetID(id uint64) {
	p.id = id
}

// SetWaiting flips the waiting flag.
func (p *Participant) SetWaiting(waiting bool) {
	p.waiting = waiting
}
