package referenceframe

import "github.com/pkg/errors"

// ErrCircularReference is returned when the parents of a set of links form a cycle.
var ErrCircularReference = errors.New("infinite loop finding path from link to root")

// NewLinkNotFoundError returns an error indicating that a link with the given name was not found.
func NewLinkNotFoundError(name string) error {
	return errors.Errorf("link with name %q not in link tree", name)
}

// NewParentLinkNotFoundError returns an error indicating that a link's parent was not found.
func NewParentLinkNotFoundError(name, parent string) error {
	return errors.Errorf("parent link %q of link %q not in link tree", parent, name)
}

// NewDuplicateLinkError returns an error indicating that a link name is already in use.
func NewDuplicateLinkError(name string) error {
	return errors.Errorf("link with name %q already in link tree", name)
}

// NewEmptyLinkNameError returns an error for a link configured without a name.
func NewEmptyLinkNameError() error {
	return errors.New("link name must not be empty")
}
