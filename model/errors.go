package model

import "errors"

// ErrInvalidRecord marks input that would corrupt downstream counts if
// silently dropped. Readers and the sequencer wrap it with row context;
// callers abort the whole run, since partial results misstate rates.
var ErrInvalidRecord = errors.New("invalid record")
