package routes

import (
	"fmt"
	"strconv"
	"time"

	"github.com/navid1111/DormDeals/models"
	"github.com/navid1111/DormDeals/storage"
	"github.com/navid1111/DormDeals/utils"

	"github.com/kataras/iris/v12"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

const maxListingImages = 5

type CreateListingInput struct {
	Title       string   `json:"title" validate:"max=100"`
	Description string   `json:"description" validate:"max=1000"`
	Category    string   `json:"category"`
	ListingType string   `json:"listingType"`
	PricingType string   `json:"pricingType"`
	Price       *float64 `json:"price"`
	Condition   string   `json:"condition"`
	Visibility  string   `json:"visibilityMode"`
	Images      []string `json:"images" validate:"max=5"`

	// Ignored on purpose; owner, university and status always come from
	// the server side.
	Owner      uint   `json:"owner"`
	University uint   `json:"university"`
	Status     string `json:"status"`
}

type UpdateListingInput struct {
	Title       string   `json:"title" validate:"max=100"`
	Description string   `json:"description" validate:"max=1000"`
	Category    string   `json:"category"`
	ListingType string   `json:"listingType"`
	PricingType string   `json:"pricingType"`
	Price       *float64 `json:"price"`
	Condition   string   `json:"condition"`
	Visibility  string   `json:"visibilityMode"`
}

type SubmitBidInput struct {
	Amount  float64 `json:"amount" validate:"required,gt=0"`
	Message string  `json:"message" validate:"max=500"`
}

// validateListingFields checks presence and enum membership of the
// descriptive and commercial fields, including the conditional rules:
// price is required (and positive) unless the listing is free, condition
// is required exactly for items. Returns the missing-field list and a
// rejection message for malformed values.
func validateListingFields(input *CreateListingInput) ([]string, string) {
	var missing []string
	if input.Title == "" {
		missing = append(missing, "title")
	}
	if input.Description == "" {
		missing = append(missing, "description")
	}
	if input.Category == "" {
		missing = append(missing, "category")
	}
	if input.ListingType == "" {
		missing = append(missing, "listingType")
	}
	if input.PricingType == "" {
		missing = append(missing, "pricingType")
	}
	if input.PricingType != "" && input.PricingType != "free" && (input.Price == nil || *input.Price <= 0) {
		missing = append(missing, "price")
	}
	if input.ListingType == "item" && input.Condition == "" {
		missing = append(missing, "condition")
	}
	if len(missing) > 0 {
		return missing, ""
	}

	if !slices.Contains(models.ListingCategories, input.Category) {
		return nil, "Invalid category"
	}
	if !slices.Contains(models.ListingTypes, input.ListingType) {
		return nil, "listingType must be item or service"
	}
	if !slices.Contains(models.PricingTypes, input.PricingType) {
		return nil, "Invalid pricing type"
	}
	if input.ListingType == "item" && !slices.Contains(models.ListingConditions, input.Condition) {
		return nil, "Invalid condition"
	}
	if input.Visibility != "" && !slices.Contains(models.VisibilityModes, input.Visibility) {
		return nil, "visibilityMode must be university or all"
	}
	if input.PricingType == "free" && input.Price != nil && *input.Price != 0 {
		return nil, "Free listings cannot carry a price"
	}
	return nil, ""
}

// resolveUniversityFilter maps the university query parameter onto a
// concrete ID. "my" needs an authenticated caller; anything else must be
// numeric so the filter never binds a bare string against university_id.
func resolveUniversityFilter(param string, claims *utils.AccessToken) (uint, bool, string) {
	switch {
	case param == "":
		return 0, false, ""
	case param == "my":
		if claims == nil {
			return 0, false, "Sign in to filter by your university"
		}
		return claims.UniversityID, true, ""
	default:
		id, err := strconv.ParseUint(param, 10, 32)
		if err != nil || id == 0 {
			return 0, false, "Invalid university filter"
		}
		return uint(id), true, ""
	}
}

// visibilityScope restricts an authenticated request to the caller's own
// university unless it explicitly asks for the open marketplace.
// Anonymous requests are never restricted.
func visibilityScope(visibilityMode string, claims *utils.AccessToken) (uint, bool) {
	if visibilityMode != "all" && claims != nil {
		return claims.UniversityID, true
	}
	return 0, false
}

// validateBidTarget returns the rejection message for a bid against the
// listing, or "" when the bid is allowed.
func validateBidTarget(listing *models.Listing, bidderID uint) string {
	if listing.PricingType != "bidding" {
		return "This listing does not support bidding"
	}
	if listing.OwnerID == bidderID {
		return "You cannot bid on your own listing"
	}
	return ""
}

func CreateListing(ctx iris.Context) {
	claims := utils.GetClaims(ctx)

	var input CreateListingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if missing, rejection := validateListingFields(&input); len(missing) > 0 {
		utils.CreateMissingFields(ctx, missing)
		return
	} else if rejection != "" {
		utils.CreateError(iris.StatusBadRequest, rejection, ctx)
		return
	}

	if len(input.Images) > maxListingImages {
		utils.CreateError(iris.StatusBadRequest, "Maximum 5 images allowed per listing", ctx)
		return
	}

	visibility := input.Visibility
	if visibility == "" {
		visibility = "university"
	}

	// Upload before the row exists; a provider failure after the bounded
	// retries aborts the whole creation so no listing ever references
	// images that never uploaded.
	imageURLs, uploadErr := storage.UploadImages(input.Images, "dormdeals/listings")
	if uploadErr != nil {
		fmt.Printf("Listing creation aborted, image upload failed: %v\n", uploadErr)
		utils.CreateError(iris.StatusBadGateway, "Image upload failed, listing was not created", ctx)
		return
	}

	price := input.Price
	if input.PricingType == "free" {
		price = nil
	}

	listing := models.Listing{
		Title:        input.Title,
		Description:  input.Description,
		Category:     input.Category,
		ListingType:  input.ListingType,
		PricingType:  input.PricingType,
		Price:        price,
		Condition:    input.Condition,
		Visibility:   visibility,
		Status:       models.ListingPending,
		OwnerID:      claims.ID,
		UniversityID: claims.UniversityID,
		ExpiresAt:    time.Now().Add(models.ListingExpiryWindow),
	}
	listing.SetImageURLs(imageURLs)

	if result := storage.DB.Create(&listing); result.Error != nil {
		fmt.Printf("Failed to create listing: %v\n", result.Error)
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{
		"success": true,
		"message": "Listing created successfully",
		"data":    &listing,
	})
}

// expireOverdueListings lazily flips active listings past their expiry
// window; listing reads call it so the expired status is observable
// without a background sweeper.
func expireOverdueListings() {
	storage.DB.Model(&models.Listing{}).
		Where("status = ? AND expires_at < ?", models.ListingActive, time.Now()).
		Update("status", models.ListingExpired)
}

func GetListings(ctx iris.Context) {
	expireOverdueListings()

	claims := utils.GetClaims(ctx)
	query := storage.DB.Model(&models.Listing{})

	if category := ctx.URLParam("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if listingType := ctx.URLParam("listingType"); listingType != "" {
		query = query.Where("listing_type = ?", listingType)
	}
	if minPrice := ctx.URLParam("minPrice"); minPrice != "" {
		if v, err := strconv.ParseFloat(minPrice, 64); err == nil {
			query = query.Where("price >= ?", v)
		}
	}
	if maxPrice := ctx.URLParam("maxPrice"); maxPrice != "" {
		if v, err := strconv.ParseFloat(maxPrice, 64); err == nil {
			query = query.Where("price <= ?", v)
		}
	}
	if condition := ctx.URLParam("condition"); condition != "" {
		query = query.Where("condition = ?", condition)
	}

	universityID, applyUniversity, filterErr := resolveUniversityFilter(ctx.URLParam("university"), claims)
	if filterErr != "" {
		utils.CreateError(iris.StatusBadRequest, filterErr, ctx)
		return
	}
	if applyUniversity {
		query = query.Where("university_id = ?", universityID)
	}

	// Visibility scoping: unless the caller explicitly asks for the open
	// marketplace, an authenticated request only sees listings of the
	// caller's own university, whatever the listings themselves declare.
	if scopeID, restrict := visibilityScope(ctx.URLParamDefault("visibilityMode", "university"), claims); restrict {
		query = query.Where("university_id = ?", scopeID)
	}

	status := ctx.URLParamDefault("status", string(models.ListingActive))
	query = query.Where("status = ?", status)

	if search := ctx.URLParam("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	page := ctx.URLParamIntDefault("page", 1)
	if page < 1 {
		page = 1
	}
	limit := ctx.URLParamIntDefault("limit", 12)
	if limit < 1 || limit > 100 {
		limit = 12
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var listings []models.Listing
	err := query.
		Preload("Owner", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, first_name, last_name, profile_picture, verification_status")
		}).
		Preload("University", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name, code")
		}).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&listings).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, listings, len(listings), page, limit, total)
}

func GetListing(ctx iris.Context) {
	expireOverdueListings()

	id := ctx.Params().GetUintDefault("id", 0)
	if id == 0 {
		utils.CreateError(iris.StatusBadRequest, "Invalid listing ID", ctx)
		return
	}

	var listing models.Listing
	err := storage.DB.
		Preload("Owner", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, first_name, last_name, profile_picture, verification_status")
		}).
		Preload("University", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name, code")
		}).
		First(&listing, id).Error
	if err != nil {
		utils.CreateNotFound(ctx, "Listing")
		return
	}

	// Full bid history is owner-only; everyone else gets the count.
	claims := utils.GetClaims(ctx)
	var bidCount int64
	storage.DB.Model(&models.Bid{}).Where("listing_id = ?", listing.ID).Count(&bidCount)
	if claims != nil && claims.ID == listing.OwnerID {
		storage.DB.Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, first_name, last_name, profile_picture")
		}).Where("listing_id = ?", listing.ID).Order("created_at DESC").Find(&listing.Bids)
	}

	ctx.JSON(iris.Map{
		"success":  true,
		"bidCount": bidCount,
		"data":     &listing,
	})
}

func UpdateListing(ctx iris.Context) {
	claims := utils.GetClaims(ctx)
	id := ctx.Params().GetUintDefault("id", 0)

	var listing models.Listing
	if err := storage.DB.First(&listing, id).Error; err != nil {
		utils.CreateNotFound(ctx, "Listing")
		return
	}

	if listing.OwnerID != claims.ID {
		utils.CreateForbidden(ctx, "Not authorized to update this listing")
		return
	}

	var input UpdateListingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	// Owner, university and status never change through this path; the
	// input struct simply has no fields for them.
	if input.Title != "" {
		listing.Title = input.Title
	}
	if input.Description != "" {
		listing.Description = input.Description
	}
	if input.Category != "" {
		listing.Category = input.Category
	}
	if input.ListingType != "" {
		listing.ListingType = input.ListingType
	}
	if input.PricingType != "" {
		listing.PricingType = input.PricingType
	}
	if input.Price != nil {
		listing.Price = input.Price
	}
	if input.Condition != "" {
		listing.Condition = input.Condition
	}
	if input.Visibility != "" {
		listing.Visibility = input.Visibility
	}

	check := CreateListingInput{
		Title:       listing.Title,
		Description: listing.Description,
		Category:    listing.Category,
		ListingType: listing.ListingType,
		PricingType: listing.PricingType,
		Price:       listing.Price,
		Condition:   listing.Condition,
		Visibility:  listing.Visibility,
	}
	if missing, rejection := validateListingFields(&check); len(missing) > 0 {
		utils.CreateMissingFields(ctx, missing)
		return
	} else if rejection != "" {
		utils.CreateError(iris.StatusBadRequest, rejection, ctx)
		return
	}
	if listing.PricingType == "free" {
		listing.Price = nil
	}

	if err := storage.DB.Save(&listing).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"message": "Listing updated successfully",
		"data":    &listing,
	})
}

// DeleteListing is a soft delete: the row stays, status becomes deleted.
func DeleteListing(ctx iris.Context) {
	claims := utils.GetClaims(ctx)
	id := ctx.Params().GetUintDefault("id", 0)

	var listing models.Listing
	if err := storage.DB.First(&listing, id).Error; err != nil {
		utils.CreateNotFound(ctx, "Listing")
		return
	}

	if listing.OwnerID != claims.ID && claims.Role != models.RoleAdmin {
		utils.CreateForbidden(ctx, "Not authorized to delete this listing")
		return
	}

	if !models.CanTransition(listing.Status, models.ListingDeleted) {
		utils.CreateError(iris.StatusBadRequest, "Listing is already deleted", ctx)
		return
	}

	if err := storage.DB.Model(&listing).Update("status", models.ListingDeleted).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"message": "Listing deleted successfully",
		"data":    iris.Map{},
	})
}

func SubmitBid(ctx iris.Context) {
	claims := utils.GetClaims(ctx)
	id := ctx.Params().GetUintDefault("id", 0)

	var input SubmitBidInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var listing models.Listing
	if err := storage.DB.First(&listing, id).Error; err != nil {
		utils.CreateNotFound(ctx, "Listing")
		return
	}

	if rejection := validateBidTarget(&listing, claims.ID); rejection != "" {
		utils.CreateError(iris.StatusBadRequest, rejection, ctx)
		return
	}

	bid := models.Bid{
		ListingID: listing.ID,
		UserID:    claims.ID,
		Amount:    input.Amount,
		Message:   input.Message,
	}
	if err := storage.DB.Create(&bid).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{
		"success": true,
		"message": "Bid submitted successfully",
		"data":    bid,
	})
}

// UploadListingImages appends more images to an existing listing with the
// same all-or-nothing upload semantics as creation.
func UploadListingImages(ctx iris.Context) {
	claims := utils.GetClaims(ctx)
	id := ctx.Params().GetUintDefault("id", 0)

	var input struct {
		Images []string `json:"images" validate:"required,min=1,max=5"`
	}
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var listing models.Listing
	if err := storage.DB.First(&listing, id).Error; err != nil {
		utils.CreateNotFound(ctx, "Listing")
		return
	}
	if listing.OwnerID != claims.ID {
		utils.CreateForbidden(ctx, "You are not authorized to update this listing")
		return
	}

	existing := listing.ImageURLs()
	if len(existing)+len(input.Images) > maxListingImages {
		utils.CreateError(iris.StatusBadRequest, "Maximum 5 images allowed per listing", ctx)
		return
	}

	folder := fmt.Sprintf("dormdeals/listings/%d", listing.ID)
	uploaded, err := storage.UploadImages(input.Images, folder)
	if err != nil {
		utils.CreateError(iris.StatusBadGateway, "Image upload failed", ctx)
		return
	}

	listing.SetImageURLs(append(existing, uploaded...))
	if err := storage.DB.Model(&listing).Update("images", listing.Images).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"data":    iris.Map{"images": listing.ImageURLs()},
	})
}

func DeleteListingImage(ctx iris.Context) {
	claims := utils.GetClaims(ctx)
	id := ctx.Params().GetUintDefault("id", 0)
	index, indexErr := strconv.Atoi(ctx.Params().Get("imageIndex"))

	var listing models.Listing
	if err := storage.DB.First(&listing, id).Error; err != nil {
		utils.CreateNotFound(ctx, "Listing")
		return
	}
	if listing.OwnerID != claims.ID {
		utils.CreateForbidden(ctx, "You are not authorized to update this listing")
		return
	}

	images := listing.ImageURLs()
	if indexErr != nil || index < 0 || index >= len(images) {
		utils.CreateError(iris.StatusBadRequest, "Invalid image index", ctx)
		return
	}

	removed := images[index]
	images = append(images[:index], images[index+1:]...)
	listing.SetImageURLs(images)
	if err := storage.DB.Model(&listing).Update("images", listing.Images).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	// Best effort; an orphaned CDN asset is not worth failing the request.
	go func(url string) {
		if !storage.DeleteImage(url) {
			fmt.Printf("Failed to delete image from Cloudinary: %s\n", url)
		}
	}(removed)

	ctx.JSON(iris.Map{
		"success": true,
		"message": "Image deleted successfully",
	})
}
