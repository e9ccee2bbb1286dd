// Package typeid mints the prefixed, sortable identifiers given to canvas
// objects. Scenes written by older clients carry other id formats, which the
// document model accepts as they are.
package typeid

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

const PrefixObject = "obj"

func New(prefix string) string {
	return typeid.MustGenerate(prefix).String()
}

// NewObjectID is the editor's default id source for created and copied
// objects.
func NewObjectID() string { return New(PrefixObject) }

// Validate checks that id parses as a typeid carrying expectedPrefix.
func Validate(id, expectedPrefix string) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid typeid %q: %w", id, err)
	}
	if got := parsed.Prefix(); got != expectedPrefix {
		return fmt.Errorf("expected prefix %q, got %q in id %q", expectedPrefix, got, id)
	}
	return nil
}
