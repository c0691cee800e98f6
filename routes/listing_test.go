package routes

import (
	"strings"
	"testing"

	"github.com/navid1111/DormDeals/models"
	"github.com/navid1111/DormDeals/utils"
)

func floatPtr(v float64) *float64 { return &v }

func validInput() CreateListingInput {
	return CreateListingInput{
		Title:       "Bike",
		Description: "Well maintained road bike",
		Category:    "Other",
		ListingType: "item",
		PricingType: "fixed",
		Price:       floatPtr(5000),
		Condition:   "Good",
	}
}

func TestValidateListingFieldsAccepts(t *testing.T) {
	input := validInput()
	missing, rejection := validateListingFields(&input)
	if len(missing) != 0 || rejection != "" {
		t.Fatalf("expected valid input, got missing=%v rejection=%q", missing, rejection)
	}
}

func TestValidateListingFieldsMissing(t *testing.T) {
	input := CreateListingInput{}
	missing, _ := validateListingFields(&input)
	for _, field := range []string{"title", "description", "category", "listingType", "pricingType"} {
		found := false
		for _, m := range missing {
			if m == field {
				found = true
			}
		}
		if !found {
			t.Errorf("expected %s in missing-field list, got %v", field, missing)
		}
	}
}

func TestValidateListingFieldsPriceRules(t *testing.T) {
	// Non-free without a price is rejected
	input := validInput()
	input.Price = nil
	missing, _ := validateListingFields(&input)
	if len(missing) != 1 || missing[0] != "price" {
		t.Fatalf("expected price to be required for fixed pricing, got %v", missing)
	}

	// Zero price counts as absent
	input = validInput()
	input.Price = floatPtr(0)
	missing, _ = validateListingFields(&input)
	if len(missing) != 1 || missing[0] != "price" {
		t.Fatalf("expected zero price to be rejected, got %v", missing)
	}

	// Free listings need no price
	input = validInput()
	input.PricingType = "free"
	input.Price = nil
	input.Condition = "Good"
	missing, rejection := validateListingFields(&input)
	if len(missing) != 0 || rejection != "" {
		t.Fatalf("free listing without price should pass, got missing=%v rejection=%q", missing, rejection)
	}

	// A free listing carrying a non-zero price is contradictory
	input.Price = floatPtr(10)
	_, rejection = validateListingFields(&input)
	if !strings.Contains(rejection, "Free") {
		t.Fatalf("expected free-with-price rejection, got %q", rejection)
	}
}

func TestValidateListingFieldsConditionRules(t *testing.T) {
	// Items need a condition
	input := validInput()
	input.Condition = ""
	missing, _ := validateListingFields(&input)
	if len(missing) != 1 || missing[0] != "condition" {
		t.Fatalf("expected condition to be required for items, got %v", missing)
	}

	// Services do not
	input = validInput()
	input.ListingType = "service"
	input.Category = "Services"
	input.Condition = ""
	missing, rejection := validateListingFields(&input)
	if len(missing) != 0 || rejection != "" {
		t.Fatalf("service without condition should pass, got missing=%v rejection=%q", missing, rejection)
	}

	// Condition outside the enum is rejected
	input = validInput()
	input.Condition = "Mint"
	_, rejection = validateListingFields(&input)
	if rejection == "" {
		t.Fatal("expected invalid condition to be rejected")
	}
}

func TestValidateListingFieldsEnums(t *testing.T) {
	input := validInput()
	input.Category = "Weapons"
	if _, rejection := validateListingFields(&input); rejection == "" {
		t.Error("expected invalid category to be rejected")
	}

	input = validInput()
	input.PricingType = "auction"
	if _, rejection := validateListingFields(&input); rejection == "" {
		t.Error("expected invalid pricing type to be rejected")
	}

	input = validInput()
	input.Visibility = "friends"
	if _, rejection := validateListingFields(&input); rejection == "" {
		t.Error("expected invalid visibility mode to be rejected")
	}
}

func TestValidateBidTarget(t *testing.T) {
	const owner, bidder = uint(1), uint(2)

	fixed := models.Listing{PricingType: "fixed", OwnerID: owner}
	if rejection := validateBidTarget(&fixed, bidder); rejection == "" {
		t.Error("expected bid on a fixed-price listing to be rejected")
	}

	bidding := models.Listing{PricingType: "bidding", OwnerID: owner}
	if rejection := validateBidTarget(&bidding, owner); rejection == "" {
		t.Error("expected owner bidding on their own listing to be rejected")
	}

	if rejection := validateBidTarget(&bidding, bidder); rejection != "" {
		t.Errorf("expected bid to be allowed, got %q", rejection)
	}
}

func TestVisibilityScope(t *testing.T) {
	member := &utils.AccessToken{ID: 1, UniversityID: 7}

	// Anonymous requests are never restricted
	if _, restrict := visibilityScope("university", nil); restrict {
		t.Error("anonymous request should not be scoped")
	}
	if _, restrict := visibilityScope("all", nil); restrict {
		t.Error("anonymous open-marketplace request should not be scoped")
	}

	// An authenticated caller defaults to their own university
	scopeID, restrict := visibilityScope("university", member)
	if !restrict || scopeID != 7 {
		t.Fatalf("expected scoping to university 7, got id=%d restrict=%v", scopeID, restrict)
	}

	// visibilityMode=all opts out of the restriction
	if _, restrict := visibilityScope("all", member); restrict {
		t.Error("visibilityMode=all should lift the university restriction")
	}
}

func TestResolveUniversityFilter(t *testing.T) {
	member := &utils.AccessToken{ID: 1, UniversityID: 7}

	// No parameter, no filter
	if _, apply, errMsg := resolveUniversityFilter("", member); apply || errMsg != "" {
		t.Errorf("empty parameter should be a no-op, got apply=%v err=%q", apply, errMsg)
	}

	// "my" resolves through the claims
	id, apply, errMsg := resolveUniversityFilter("my", member)
	if !apply || id != 7 || errMsg != "" {
		t.Fatalf("expected my to resolve to university 7, got id=%d apply=%v err=%q", id, apply, errMsg)
	}

	// "my" without a token is a client error, not a malformed query
	if _, _, errMsg := resolveUniversityFilter("my", nil); errMsg == "" {
		t.Error("expected my without claims to be rejected")
	}

	id, apply, errMsg = resolveUniversityFilter("3", nil)
	if !apply || id != 3 || errMsg != "" {
		t.Fatalf("expected numeric filter to pass through, got id=%d apply=%v err=%q", id, apply, errMsg)
	}

	// Non-numeric values never reach the university_id column
	for _, param := range []string{"abc", "0", "-1", "7; DROP TABLE listings"} {
		if _, apply, errMsg := resolveUniversityFilter(param, member); apply || errMsg == "" {
			t.Errorf("expected %q to be rejected, got apply=%v err=%q", param, apply, errMsg)
		}
	}
}
