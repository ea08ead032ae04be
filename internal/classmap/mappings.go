package classmap

import (
	"errors"
	"fmt"
)

// ErrDuplicateMapping is returned when two class maps share a key.
var ErrDuplicateMapping = errors.New("duplicate class mapping")

// ClassMappings is the merged, keyed set of class maps.
type ClassMappings struct {
	byKey map[Key]*ClassMap
	order []*ClassMap
}

// NewClassMappings creates an empty set.
func NewClassMappings() *ClassMappings {
	return &ClassMappings{byKey: make(map[Key]*ClassMap)}
}

// Add registers cm under its key. A second explicit class map with the same
// key fails; an earlier synthesized reverse is replaced.
func (m *ClassMappings) Add(cm *ClassMap) error {
	key := cm.Key()
	if prev, ok := m.byKey[key]; ok {
		if !prev.Reversed {
			return fmt.Errorf("%w: %s declared in %s and %s", ErrDuplicateMapping, key, prev.Source, cm.Source)
		}

		m.replace(prev, cm)

		return nil
	}

	m.byKey[key] = cm
	m.order = append(m.order, cm)

	return nil
}

// AddDefault registers cm only when its key is free. It reports whether cm was added.
func (m *ClassMappings) AddDefault(cm *ClassMap) bool {
	key := cm.Key()
	if _, ok := m.byKey[key]; ok {
		return false
	}

	m.byKey[key] = cm
	m.order = append(m.order, cm)

	return true
}

func (m *ClassMappings) replace(prev, cm *ClassMap) {
	m.byKey[cm.Key()] = cm
	for i, c := range m.order {
		if c == prev {
			m.order[i] = cm

			return
		}
	}
}

// Find returns the class map for the pair and map id, or nil.
func (m *ClassMappings) Find(src, dst, mapID string) *ClassMap {
	if m == nil {
		return nil
	}

	return m.byKey[Key{Src: src, Dst: dst, MapID: mapID}]
}

// FindByMapID returns the class map with the given id whose A side is src.
// It is used when the destination type is only known from the rule.
func (m *ClassMappings) FindByMapID(src, mapID string) *ClassMap {
	if m == nil || mapID == "" {
		return nil
	}

	for _, cm := range m.order {
		if cm.MapID == mapID && cm.A.Name == src {
			return cm
		}
	}

	return nil
}

// All returns the class maps in registration order.
func (m *ClassMappings) All() []*ClassMap {
	if m == nil {
		return nil
	}

	return append([]*ClassMap(nil), m.order...)
}

// Len returns the number of class maps, synthesized reverses included.
func (m *ClassMappings) Len() int {
	if m == nil {
		return 0
	}

	return len(m.order)
}
