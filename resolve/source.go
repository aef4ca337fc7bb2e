package resolve

import (
	"fmt"

	"github.com/google/uuid"
)

// SourceKind distinguishes where a resolved record came from.
type SourceKind int

const (
	SourceDefinition SourceKind = iota
	SourceInstance
)

// String returns the kind name.
func (k SourceKind) String() string {
	switch k {
	case SourceDefinition:
		return "definition"
	case SourceInstance:
		return "instance"
	default:
		return "unknown"
	}
}

// Source is the provenance of a resolved record.
type Source struct {
	Kind SourceKind `json:"kind" yaml:"kind"`
	ID   string     `json:"id" yaml:"id"`
}

// FromDefinition returns a definition provenance.
func FromDefinition(id string) Source {
	return Source{Kind: SourceDefinition, ID: id}
}

// FromInstance returns an instance provenance.
func FromInstance(id string) Source {
	return Source{Kind: SourceInstance, ID: id}
}

// IsDefinition reports whether the record was built from a definition.
func (s Source) IsDefinition() bool {
	return s.Kind == SourceDefinition
}

// IsInstance reports whether the record was built from an instance.
func (s Source) IsInstance() bool {
	return s.Kind == SourceInstance
}

func (s Source) String() string {
	return fmt.Sprintf("%s(%s)", s.Kind, s.ID)
}

// NewID returns a fresh identity for definitions and instances.
func NewID() string {
	return uuid.NewString()
}
