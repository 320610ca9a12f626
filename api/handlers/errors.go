package handlers

import "errors"

var (
	errInvalidInput    = errors.New("invalid input")
	errAlreadyMember   = errors.New("already a member of this trip")
	errAlreadyResolved = errors.New("join request is not pending")
	errNotCreator      = errors.New("not the trip creator")
	errNotTraveller    = errors.New("not a traveller on this trip")
)
