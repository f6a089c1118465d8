package progress

import "errors"

var (
	// ErrInvalidBody indicates a replace payload that is not a JSON object.
	ErrInvalidBody = errors.New("invalid progress body")
	// ErrInvalidDay indicates a day outside the cycle.
	ErrInvalidDay = errors.New("invalid day")
	// ErrInvalidCompound indicates an unknown compound key.
	ErrInvalidCompound = errors.New("invalid compound")
	// ErrInvalidDate indicates a start date not in YYYY-MM-DD form.
	ErrInvalidDate = errors.New("invalid start date")
)
