package server

import "errors"

var (
	ErrAuth           = errors.New("authentication failed")
	ErrInvalidCommand = errors.New("invalid command")
	ErrNoSuchTable    = errors.New("no such table")
	ErrTableNotOpen   = errors.New("table not open")
)
