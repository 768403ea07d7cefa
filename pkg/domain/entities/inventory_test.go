package entities

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestStockReservation_Validation(t *testing.T) {
	from := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	to := from.Add(4 * time.Hour)
	window := TimeWindow{From: from, To: to}

	res, err := NewStockReservation("H1", "E1", "SI1", decimal.NewFromInt(5), window)
	if err != nil {
		t.Fatalf("Expected valid reservation creation to succeed: %v", err)
	}
	if !res.Quantity.Equal(decimal.NewFromInt(5)) {
		t.Errorf("Expected quantity 5, got %s", res.Quantity)
	}

	testCases := []struct {
		name        string
		hotelID     string
		eventID     string
		itemID      string
		qty         decimal.Decimal
		window      TimeWindow
		expectError string
	}{
		{"empty hotel", "", "E1", "SI1", decimal.NewFromInt(1), window, "hotel id cannot be empty"},
		{"empty event", "H1", "", "SI1", decimal.NewFromInt(1), window, "event id cannot be empty"},
		{"empty item", "H1", "E1", "", decimal.NewFromInt(1), window, "supplier item id cannot be empty"},
		{"negative qty", "H1", "E1", "SI1", decimal.NewFromInt(-2), window, "reserved quantity cannot be negative, got -2"},
		{"inverted window", "H1", "E1", "SI1", decimal.NewFromInt(1), TimeWindow{From: to, To: from}, "reservation window ends before it starts"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewStockReservation(tc.hotelID, tc.eventID, tc.itemID, tc.qty, tc.window)
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if err.Error() != tc.expectError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectError, err.Error())
			}
		})
	}
}

func TestTimeWindow_Overlaps(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	w := TimeWindow{From: base, To: base.Add(2 * time.Hour)}

	testCases := []struct {
		name     string
		other    TimeWindow
		expected bool
	}{
		{"identical", w, true},
		{"inside", TimeWindow{From: base.Add(30 * time.Minute), To: base.Add(time.Hour)}, true},
		{"straddles start", TimeWindow{From: base.Add(-time.Hour), To: base.Add(time.Minute)}, true},
		{"touches end", TimeWindow{From: base.Add(2 * time.Hour), To: base.Add(3 * time.Hour)}, false},
		{"before", TimeWindow{From: base.Add(-3 * time.Hour), To: base.Add(-time.Hour)}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := w.Overlaps(tc.other); got != tc.expected {
				t.Errorf("Expected overlap %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestNewEventService_Validation(t *testing.T) {
	svc, err := NewEventService("S1", "E1", "Lunch", 50, FormatStanding, "TPL1")
	if err != nil {
		t.Fatalf("Expected valid service creation to succeed: %v", err)
	}
	if svc.Pax != 50 || svc.Format != FormatStanding {
		t.Errorf("Unexpected service %+v", svc)
	}

	if _, err := NewEventService("S1", "E1", "Lunch", -1, FormatSeated, ""); err == nil {
		t.Errorf("Expected negative pax to fail")
	}
	if _, err := NewEventService("S1", "E1", "Lunch", 10, "buffet", ""); err == nil {
		t.Errorf("Expected unknown format to fail")
	}
	if _, err := NewEventService("", "E1", "Lunch", 10, FormatSeated, ""); err == nil {
		t.Errorf("Expected empty id to fail")
	}
}
