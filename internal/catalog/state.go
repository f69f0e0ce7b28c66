// Package catalog implements the viewer side of a dataset web catalog:
// a view state object, an HTTP client for the catalog endpoints, and the
// page-bootstrap controller that wires them together.
package catalog

// AlertType classifies a user-facing alert.
type AlertType string

const (
	AlertError AlertType = "error"
	AlertInfo  AlertType = "info"
)

// Alert is one user-facing notification. Alerts accumulate; they are
// never removed for the life of the view.
type Alert struct {
	Text string
	Type AlertType
}

// State is the viewer's whole in-memory model. It is constructed once
// per bootstrap and handed by reference to everything that reads or
// writes it; there are no package-level globals.
//
// DSInfo holds the current dataset's metadata record and COInfo a
// companion record that surrounding callers may load (the controller
// itself never writes COInfo). DSByPath caches the path→object
// inventory for the session.
type State struct {
	DSInfo   map[string]any
	COInfo   map[string]any
	DSByPath map[string]string
	Alerts   []Alert

	observers []func(*State)
}

// NewState returns an empty view state.
func NewState() *State {
	return &State{
		DSInfo:   map[string]any{},
		COInfo:   map[string]any{},
		DSByPath: map[string]string{},
	}
}

// Subscribe registers fn to run after every state mutation. Observers
// run synchronously on the mutating goroutine, in registration order.
// This is the explicit stand-in for a reactive view binding: the view
// re-renders from the state it is given.
func (s *State) Subscribe(fn func(*State)) {
	s.observers = append(s.observers, fn)
}

func (s *State) notify() {
	for _, fn := range s.observers {
		fn(s)
	}
}

// SetInventory stores the fetched path→object inventory.
func (s *State) SetInventory(inv map[string]string) {
	s.DSByPath = inv
	s.notify()
}

// SetSlot assigns a metadata record into the named slot ("dsinfo" or
// "coinfo"). Unknown slot names are ignored.
func (s *State) SetSlot(slot string, record map[string]any) {
	switch slot {
	case SlotDSInfo:
		s.DSInfo = record
	case SlotCOInfo:
		s.COInfo = record
	default:
		return
	}
	s.notify()
}

// AddAlert appends a user-facing alert.
func (s *State) AddAlert(typ AlertType, text string) {
	s.Alerts = append(s.Alerts, Alert{Text: text, Type: typ})
	s.notify()
}

// Slot names recognized by SetSlot and the controller.
const (
	SlotDSInfo = "dsinfo"
	SlotCOInfo = "coinfo"
)
