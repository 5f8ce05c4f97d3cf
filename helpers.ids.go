package main

import (
	"github.com/gofrs/uuid"
)

var _ UIDHandler = (*IDsHandler)(nil) // ensure IDsHandler implements UIDHandler.

// UIDHandler generates request ids and checks the shape of book ids.
type UIDHandler interface {
	Generate(prefix string) string
	IsValidBookID(id string) bool
}

// IDsHandler implements the UIDHandler interface.
type IDsHandler struct{}

// NewIDsHandler returns a ready to use IDsHandler.
func NewIDsHandler() *IDsHandler {
	return &IDsHandler{}
}

// Generate provides a random unique identifier.
func (idh *IDsHandler) Generate(prefix string) string {
	id, _ := uuid.NewV4()
	return prefix + ":" + id.String()
}

// IsValidBookID only checks the length. Content is left to the store.
func (idh *IDsHandler) IsValidBookID(id string) bool {
	return len(id) == BookIDLength
}
