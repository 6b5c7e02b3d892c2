package models

import (
	"maps"
	"slices"
)

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Clone returns a copy that shares no slices, maps or pointers with p.
func (p *Patient) Clone() Patient {
	c := *p
	c.DateOfBirth = clonePtr(p.DateOfBirth)
	c.Allergies = slices.Clone(p.Allergies)
	c.EmergencyContact = clonePtr(p.EmergencyContact)
	return c
}

func (d *Doctor) Clone() Doctor {
	c := *d
	c.AvailableDays = slices.Clone(d.AvailableDays)
	return c
}

func (b *Bill) Clone() Bill {
	c := *b
	c.AppointmentID = clonePtr(b.AppointmentID)
	c.Items = slices.Clone(b.Items)
	c.DueDate = clonePtr(b.DueDate)
	c.PaidAt = clonePtr(b.PaidAt)
	return c
}

func (f *Feedback) Clone() Feedback {
	c := *f
	c.DoctorID = clonePtr(f.DoctorID)
	c.AppointmentID = clonePtr(f.AppointmentID)
	return c
}

func (e *EngagementEvent) Clone() EngagementEvent {
	c := *e
	c.Metadata = maps.Clone(e.Metadata)
	return c
}

func (s *TelehealthSession) Clone() TelehealthSession {
	c := *s
	c.StartedAt = clonePtr(s.StartedAt)
	c.EndedAt = clonePtr(s.EndedAt)
	if s.Participants != nil {
		c.Participants = make([]Participant, len(s.Participants))
		for i, p := range s.Participants {
			p.LeftAt = clonePtr(p.LeftAt)
			c.Participants[i] = p
		}
	}
	return c
}
