package catalog

import "testing"

func TestStateObservers(t *testing.T) {
	s := NewState()
	var seen int
	s.Subscribe(func(st *State) {
		if st != s {
			t.Error("observer received a different state")
		}
		seen++
	})

	s.SetInventory(map[string]string{".": "ab/cd"})
	s.SetSlot(SlotDSInfo, map[string]any{"name": "x"})
	s.AddAlert(AlertInfo, "hello")

	if seen != 3 {
		t.Errorf("observer ran %d times, want 3", seen)
	}
}

func TestStateAlertsAppendOnly(t *testing.T) {
	s := NewState()
	s.AddAlert(AlertError, "first")
	s.AddAlert(AlertInfo, "second")

	if len(s.Alerts) != 2 {
		t.Fatalf("len(Alerts) = %d, want 2", len(s.Alerts))
	}
	if s.Alerts[0].Text != "first" || s.Alerts[1].Text != "second" {
		t.Errorf("alerts out of order: %v", s.Alerts)
	}
}

func TestSetSlotUnknownIgnored(t *testing.T) {
	s := NewState()
	notified := false
	s.Subscribe(func(*State) { notified = true })

	s.SetSlot("bogus", map[string]any{"x": 1})

	if notified {
		t.Error("unknown slot should not notify observers")
	}
	if len(s.DSInfo) != 0 || len(s.COInfo) != 0 {
		t.Error("unknown slot mutated a known slot")
	}
}
