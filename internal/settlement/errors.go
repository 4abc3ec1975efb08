package settlement

import "errors"

// ErrInvalidRoundSize indicates a round input without exactly four seats.
var ErrInvalidRoundSize = errors.New("round must contain exactly four seats")

// ErrDuplicatePlayer indicates the same player occupies two seats of one round.
var ErrDuplicatePlayer = errors.New("duplicate player in round")

// ErrInvalidConfig indicates a malformed room configuration.
var ErrInvalidConfig = errors.New("invalid room config")
