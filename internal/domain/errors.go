package domain

import "errors"

// Domain errors shared by the services and the HTTP/CLI surfaces.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrNoMaterialSelected = errors.New("no material selected")
	ErrDeclined           = errors.New("action declined")
	ErrNoResult           = errors.New("no cost result to confirm")
	ErrInvalidState       = errors.New("operation not allowed in current state")
)
