package services

import (
	"sync"

	"rental-market/models"
)

// Latest holds the result of the most recent search. Every filter change
// takes a ticket with Begin; a result is only kept if its ticket is still
// the newest when it arrives, so a slow earlier search never overwrites a
// later one.
type Latest struct {
	mu      sync.Mutex
	issued  uint64
	shown   uint64
	results []models.NormalizedListing
	err     error
}

// Begin issues the ticket for a new search.
func (l *Latest) Begin() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.issued++
	return l.issued
}

// Publish stores results (or err) for ticket. It returns false and changes
// nothing when a newer ticket has been issued since.
func (l *Latest) Publish(ticket uint64, results []models.NormalizedListing, err error) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if ticket != l.issued {
		return false
	}
	l.shown = ticket
	l.results = results
	l.err = err
	return true
}

// Snapshot is what Latest currently shows. Ticket 0 means nothing has been
// published yet.
type Snapshot struct {
	Ticket  uint64
	Results []models.NormalizedListing
	Err     error
}

// Current returns the last published search.
func (l *Latest) Current() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Snapshot{Ticket: l.shown, Results: l.results, Err: l.err}
}
