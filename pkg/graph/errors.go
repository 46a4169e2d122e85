package graph

import "errors"

// Reasons an edit is rejected. Public edit methods report plain success or
// failure; CheckConnection returns these so callers can show a reason.
var (
	ErrNodeNotFound        = errors.New("node not found")
	ErrDuplicateNode       = errors.New("node id already in use")
	ErrNilProcessor        = errors.New("processor is nil or declares no buses")
	ErrPinOutOfRange       = errors.New("pin out of range")
	ErrEventMismatch       = errors.New("event pins only connect to event pins")
	ErrDuplicateConnection = errors.New("connection already exists")
	ErrPinOccupied         = errors.New("input pin already has a source")
	ErrCycle               = errors.New("connection would create a cycle")
	ErrBusIndex            = errors.New("bus index out of range")
	ErrBusNotAddable       = errors.New("processor cannot add a bus")
	ErrBusLimits           = errors.New("declared buses exceed bus limits")
	ErrBusNotRemovable     = errors.New("processor cannot remove a bus")
	ErrConnectionNotFound  = errors.New("connection not found")
	ErrLayoutShape         = errors.New("layout does not match the node's bus counts")
)

// errorLabel maps an error to the metric label recorded for a rejected edit.
func errorLabel(err error) string {
	switch {
	case err == nil:
		return "applied"
	case errors.Is(err, ErrNodeNotFound):
		return "node_not_found"
	case errors.Is(err, ErrDuplicateNode):
		return "duplicate_node"
	case errors.Is(err, ErrNilProcessor):
		return "nil_processor"
	case errors.Is(err, ErrPinOutOfRange):
		return "pin_out_of_range"
	case errors.Is(err, ErrEventMismatch):
		return "event_mismatch"
	case errors.Is(err, ErrDuplicateConnection):
		return "duplicate"
	case errors.Is(err, ErrPinOccupied):
		return "pin_occupied"
	case errors.Is(err, ErrCycle):
		return "cycle"
	case errors.Is(err, ErrBusIndex):
		return "bus_index"
	case errors.Is(err, ErrBusNotAddable), errors.Is(err, ErrBusNotRemovable), errors.Is(err, ErrBusLimits):
		return "bus_count"
	case errors.Is(err, ErrConnectionNotFound):
		return "not_found"
	case errors.Is(err, ErrLayoutShape):
		return "layout_shape"
	default:
		return "rolled_back"
	}
}
