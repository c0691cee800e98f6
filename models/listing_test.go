package models

import (
	"testing"
	"time"
)

func TestListingStatusTransitions(t *testing.T) {
	cases := []struct {
		from    ListingStatus
		to      ListingStatus
		allowed bool
	}{
		{ListingPending, ListingActive, true},
		{ListingPending, ListingRejected, true},
		{ListingPending, ListingSold, false},
		{ListingPending, ListingExpired, false},
		{ListingActive, ListingSold, true},
		{ListingActive, ListingExpired, true},
		{ListingActive, ListingPending, false},
		{ListingRejected, ListingActive, false},
		{ListingSold, ListingActive, false},
		{ListingExpired, ListingActive, false},
		// Admin override and owner soft delete work from any live status
		{ListingPending, ListingDeleted, true},
		{ListingActive, ListingDeleted, true},
		{ListingSold, ListingDeleted, true},
		{ListingRejected, ListingDeleted, true},
		{ListingExpired, ListingDeleted, true},
	}

	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.allowed {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestDeletedIsTerminal(t *testing.T) {
	targets := []ListingStatus{ListingPending, ListingActive, ListingSold, ListingRejected, ListingExpired, ListingDeleted}
	for _, to := range targets {
		if CanTransition(ListingDeleted, to) {
			t.Errorf("deleted listing must not transition to %s", to)
		}
	}
}

func TestIsExpired(t *testing.T) {
	now := time.Now()

	active := Listing{Status: ListingActive, ExpiresAt: now.Add(-time.Hour)}
	if !active.IsExpired(now) {
		t.Error("active listing past expiresAt should be expired")
	}

	fresh := Listing{Status: ListingActive, ExpiresAt: now.Add(time.Hour)}
	if fresh.IsExpired(now) {
		t.Error("active listing within its window should not be expired")
	}

	// Only active listings expire; a pending one just sits in moderation.
	pending := Listing{Status: ListingPending, ExpiresAt: now.Add(-time.Hour)}
	if pending.IsExpired(now) {
		t.Error("pending listing should not expire")
	}
}

func TestImageURLsRoundTrip(t *testing.T) {
	var listing Listing
	listing.SetImageURLs([]string{"https://res.cloudinary.com/demo/a.jpg", "https://res.cloudinary.com/demo/b.jpg"})

	urls := listing.ImageURLs()
	if len(urls) != 2 || urls[0] != "https://res.cloudinary.com/demo/a.jpg" {
		t.Fatalf("unexpected image URLs: %v", urls)
	}

	listing.SetImageURLs(nil)
	if got := listing.ImageURLs(); len(got) != 0 {
		t.Fatalf("expected empty image list, got %v", got)
	}
}
