package tree

import "time"

// Metadata carries creation/update timestamps and the free-form tag bag
// attached to nodes and trees.
type Metadata struct {
	createdAt time.Time
	updatedAt time.Time
	tags      []string
	custom    map[string]string
}

func NewMetadata() Metadata {
	now := time.Now().UTC()
	return Metadata{createdAt: now, updatedAt: now}
}

func HydrateMetadata(createdAt, updatedAt time.Time, tags []string, custom map[string]string) Metadata {
	m := Metadata{createdAt: createdAt, updatedAt: updatedAt}
	if len(tags) > 0 {
		m.tags = append([]string(nil), tags...)
	}
	if len(custom) > 0 {
		m.custom = make(map[string]string, len(custom))
		for k, v := range custom {
			m.custom[k] = v
		}
	}
	return m
}

func (m Metadata) CreatedAt() time.Time { return m.createdAt }
func (m Metadata) UpdatedAt() time.Time { return m.updatedAt }

func (m Metadata) Tags() []string {
	if m.tags == nil {
		return nil
	}
	return append([]string(nil), m.tags...)
}

func (m Metadata) Custom() map[string]string {
	if m.custom == nil {
		return nil
	}
	out := make(map[string]string, len(m.custom))
	for k, v := range m.custom {
		out[k] = v
	}
	return out
}

func (m *Metadata) touch() {
	m.updatedAt = time.Now().UTC()
}

func (m *Metadata) setTags(tags []string) {
	m.tags = append([]string(nil), tags...)
	m.touch()
}

func (m *Metadata) setCustom(key, value string) {
	if m.custom == nil {
		m.custom = make(map[string]string, 1)
	}
	m.custom[key] = value
	m.touch()
}
