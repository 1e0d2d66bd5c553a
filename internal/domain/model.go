package domain

import (
	"reflect"
	"time"
)

// Model is the embedded base for every persisted entity. The numeric ID is
// assigned by the data store on insert and never reassigned.
type Model struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (m *Model) GetID() uint   { return m.ID }
func (m *Model) SetID(id uint) { m.ID = id }

// Touch stamps creation/update times; the memory backend calls this in place
// of GORM's automatic timestamping.
func (m *Model) Touch(t time.Time) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = t
	}
	m.UpdatedAt = t
}

// Entity is implemented by every persisted record via the embedded Model.
type Entity interface {
	GetID() uint
	SetID(uint)
	Touch(time.Time)
}

// Equal reports identity equality: two entities are equal iff they are the
// same concrete type and carry the same store-assigned ID. Unsaved entities
// (ID zero) compare unequal to everything, themselves included.
func Equal(a, b Entity) bool {
	if a == nil || b == nil {
		return false
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	if a.GetID() == 0 || b.GetID() == 0 {
		return false
	}
	return a.GetID() == b.GetID()
}
