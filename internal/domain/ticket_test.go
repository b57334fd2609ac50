package domain

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from  TicketStatus
		to    TicketStatus
		valid bool
	}{
		{TicketStatusNew, TicketStatusProcessing, true},
		{TicketStatusNew, TicketStatusResolved, true},
		{TicketStatusProcessing, TicketStatusResolved, true},
		{TicketStatusProcessing, TicketStatusNew, false},
		{TicketStatusResolved, TicketStatusNew, false},
		{TicketStatusResolved, TicketStatusProcessing, false},
		{TicketStatusResolved, TicketStatusResolved, false},
		{TicketStatusNew, TicketStatusNew, false},
		{TicketStatusNew, "archived", false},
		{"archived", TicketStatusResolved, false},
	}

	for _, tt := range cases {
		if got := CanTransition(tt.from, tt.to); got != tt.valid {
			t.Fatalf("CanTransition(%q, %q)=%v, want %v", tt.from, tt.to, got, tt.valid)
		}
	}
}

func TestDepartmentValid(t *testing.T) {
	if !DepartmentSupport.Valid() || !DepartmentSales.Valid() {
		t.Fatal("closed-set departments must be valid")
	}
	if Department("marketing").Valid() {
		t.Fatal("unknown department must be invalid")
	}
	if Department("").Valid() {
		t.Fatal("empty department must be invalid")
	}
}
