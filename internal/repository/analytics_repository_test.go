package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockAnalyticsRepo(t *testing.T) (*AnalyticsRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewAnalyticsRepo(db), mock
}

// Both dashboards report ticket units: cancelled and scanned figures
// sum booking quantities, never count booking rows.
func TestOverviewSumsTicketQuantities(t *testing.T) {
	repo, mock := newMockAnalyticsRepo(t)

	mock.ExpectQuery(`SUM\(CASE WHEN status = 'CANCELLED' THEN quantity ELSE 0 END\).*\s+.*SUM\(CASE WHEN is_used = 1 THEN quantity ELSE 0 END\)`).
		WillReturnRows(sqlmock.NewRows([]string{"revenue", "sold", "cancelled", "scanned"}).
			AddRow(99800, 200, 12, 57))

	s, err := repo.Overview(context.Background())
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if s.TotalRevenueCents != 99800 || s.TicketsSold != 200 {
		t.Errorf("overview = %+v, want revenue 99800 and sold 200", s)
	}
	if s.CancelledTickets != 12 || s.ScannedTickets != 57 {
		t.Errorf("overview = %+v, want cancelled 12 and scanned 57", s)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestEventReportSumsTicketQuantities(t *testing.T) {
	repo, mock := newMockAnalyticsRepo(t)

	mock.ExpectQuery(`SUM\(CASE WHEN b\.status = 'CANCELLED' THEN b\.quantity ELSE 0 END\)`).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "total_tickets", "available_tickets",
			"sold", "cancelled", "scanned",
		}).AddRow(1, "Holi Bash 2026", 500, 300, 200, 12, 250))
	mock.ExpectQuery(`SELECT id, attendee_name, attendee_mobile`).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "attendee_name", "attendee_mobile", "quantity", "status", "is_used",
		}).AddRow(41, "Asha", "9876543210", 2, "CONFIRMED", true))

	s, err := repo.EventReport(context.Background(), 1)
	if err != nil {
		t.Fatalf("EventReport: %v", err)
	}
	if s.Cancelled != 12 || s.ScannedTickets != 250 {
		t.Errorf("report = %+v, want cancelled 12 and scanned 250", s)
	}
	// Scanned can exceed sold after cancellations; the backlog figure
	// floors at zero instead of going negative.
	if s.RemainingToScan != 0 {
		t.Errorf("remaining to scan = %d, want 0", s.RemainingToScan)
	}
	if len(s.Attendees) != 1 || s.Attendees[0].AttendeeName != "Asha" {
		t.Errorf("attendees = %+v, want the roster row", s.Attendees)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
