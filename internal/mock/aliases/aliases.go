package aliases

import (
	"github.com/google/uuid"
)

// This file contains interface counterparts of function types for which
// we want to generate mocks. Mocks of these interfaces can be passed
// to code expecting the function type by using their Call method.

// UUIDGenerator is the interface counterpart of util.UUIDGenerator.
type UUIDGenerator interface {
	Call() (uuid.UUID, error)
}
