package punch

import "errors"

var (
	ErrInvalidRange = errors.New("punch range end must be after start")
)
