package routes

import "testing"

func TestResolveMeetupParties(t *testing.T) {
	const owner, stranger, counterpart = uint(1), uint(2), uint(3)

	// A potential buyer proposing becomes the buyer
	buyer, seller, ok := resolveMeetupParties(owner, stranger, 0)
	if !ok || buyer != stranger || seller != owner {
		t.Fatalf("buyer proposal resolved to buyer=%d seller=%d ok=%v", buyer, seller, ok)
	}

	// The owner proposing must name a counterpart
	_, _, ok = resolveMeetupParties(owner, owner, 0)
	if ok {
		t.Fatal("owner proposing without buyerId should fail")
	}

	buyer, seller, ok = resolveMeetupParties(owner, owner, counterpart)
	if !ok || buyer != counterpart || seller != owner {
		t.Fatalf("seller proposal resolved to buyer=%d seller=%d ok=%v", buyer, seller, ok)
	}
}

func TestHasMeetupLocation(t *testing.T) {
	loc := uint(7)

	if !hasMeetupLocation(&ProposeMeetupInput{Location: &loc}) {
		t.Error("official location reference should satisfy the requirement")
	}

	if hasMeetupLocation(&ProposeMeetupInput{}) {
		t.Error("no location at all should fail")
	}

	// Custom location needs both a name and coordinates
	if hasMeetupLocation(&ProposeMeetupInput{CustomLocation: &CustomLocationInput{Name: "Library steps"}}) {
		t.Error("custom location without coordinates should fail")
	}
	if hasMeetupLocation(&ProposeMeetupInput{CustomLocation: &CustomLocationInput{Coordinates: []float64{90.39, 23.75}}}) {
		t.Error("custom location without a name should fail")
	}
	if !hasMeetupLocation(&ProposeMeetupInput{CustomLocation: &CustomLocationInput{
		Name:        "Library steps",
		Coordinates: []float64{90.39, 23.75},
	}}) {
		t.Error("fully specified custom location should pass")
	}
}
