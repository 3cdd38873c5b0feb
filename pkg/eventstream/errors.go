package eventstream

import "errors"

// ErrNilTurnEvent is returned when publishing a nil event or an event
// without a turn.
var ErrNilTurnEvent = errors.New("turn event is nil")
