package services

import (
	"errors"
	"testing"

	"rental-market/models"
)

func TestLatestEmpty(t *testing.T) {
	var l Latest
	snap := l.Current()
	if snap.Ticket != 0 || snap.Results != nil || snap.Err != nil {
		t.Errorf("zero Latest: got %+v", snap)
	}
}

func TestLatestLastFilterWins(t *testing.T) {
	var l Latest
	first := l.Begin()
	second := l.Begin()

	newer := []models.NormalizedListing{{Title: "second"}}
	if !l.Publish(second, newer, nil) {
		t.Fatal("Publish(second): rejected")
	}
	if l.Publish(first, []models.NormalizedListing{{Title: "first"}}, nil) {
		t.Error("Publish(first): accepted after a newer ticket")
	}

	snap := l.Current()
	if snap.Ticket != second || len(snap.Results) != 1 || snap.Results[0].Title != "second" {
		t.Errorf("Current: got %+v", snap)
	}
}

func TestLatestPendingTicketBlocksOlder(t *testing.T) {
	var l Latest
	first := l.Begin()
	l.Begin() // still in flight

	if l.Publish(first, nil, nil) {
		t.Error("older result accepted while a newer search is pending")
	}
	if snap := l.Current(); snap.Ticket != 0 {
		t.Errorf("ticket: got %d, want 0", snap.Ticket)
	}
}

func TestLatestCarriesError(t *testing.T) {
	var l Latest
	boom := errors.New("boom")
	ticket := l.Begin()
	l.Publish(ticket, nil, boom)

	if snap := l.Current(); !errors.Is(snap.Err, boom) {
		t.Errorf("Err: got %v, want %v", snap.Err, boom)
	}
}
