package routes

import (
	"time"

	"github.com/navid1111/DormDeals/models"
	"github.com/navid1111/DormDeals/storage"
	"github.com/navid1111/DormDeals/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

type CustomLocationInput struct {
	Name string `json:"name"`
	// [longitude, latitude]
	Coordinates []float64 `json:"coordinates"`
	Description string    `json:"description"`
}

type ProposeMeetupInput struct {
	Location       *uint                `json:"location"`
	CustomLocation *CustomLocationInput `json:"customLocation"`
	ProposedTime   time.Time            `json:"proposedTime" validate:"required"`
	BuyerID        uint                 `json:"buyerId"`
	Notes          string               `json:"notes" validate:"max=500"`
}

type RespondMeetupInput struct {
	Response string `json:"response" validate:"required"`
}

// resolveMeetupParties maps the proposer onto buyer/seller. The listing
// owner proposing needs an explicit counterpart; anyone else proposing is
// the buyer.
func resolveMeetupParties(listingOwnerID, proposerID, counterpartID uint) (buyerID, sellerID uint, ok bool) {
	if proposerID == listingOwnerID {
		if counterpartID == 0 {
			return 0, 0, false
		}
		return counterpartID, proposerID, true
	}
	return proposerID, listingOwnerID, true
}

// hasMeetupLocation reports whether the proposal carries a usable
// location: an official reference or a fully specified custom spot.
func hasMeetupLocation(input *ProposeMeetupInput) bool {
	if input.Location != nil && *input.Location != 0 {
		return true
	}
	custom := input.CustomLocation
	return custom != nil && custom.Name != "" && len(custom.Coordinates) == 2
}

func ProposeMeetup(ctx iris.Context) {
	claims := utils.GetClaims(ctx)
	listingID := ctx.Params().GetUintDefault("listingId", 0)

	var input ProposeMeetupInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var listing models.Listing
	if err := storage.DB.First(&listing, listingID).Error; err != nil {
		utils.CreateNotFound(ctx, "Listing")
		return
	}

	buyerID, sellerID, ok := resolveMeetupParties(listing.OwnerID, claims.ID, input.BuyerID)
	if !ok {
		utils.CreateError(iris.StatusBadRequest, "Buyer ID is required when seller proposes a meetup", ctx)
		return
	}

	if !hasMeetupLocation(&input) {
		utils.CreateError(iris.StatusBadRequest, "Either a meetup location ID or custom location details are required", ctx)
		return
	}

	meetup := models.Meetup{
		ListingID:    listing.ID,
		BuyerID:      buyerID,
		SellerID:     sellerID,
		ProposedTime: input.ProposedTime,
		Status:       models.MeetupProposed,
		ProposedByID: claims.ID,
		Notes:        input.Notes,
	}
	if input.Location != nil && *input.Location != 0 {
		meetup.LocationID = input.Location
	} else {
		meetup.CustomLocationName = input.CustomLocation.Name
		meetup.CustomLocationLng = &input.CustomLocation.Coordinates[0]
		meetup.CustomLocationLat = &input.CustomLocation.Coordinates[1]
		meetup.CustomLocationDescription = input.CustomLocation.Description
	}

	if err := storage.DB.Create(&meetup).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	preloadMeetup(&meetup)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{
		"success": true,
		"message": "Meetup proposed successfully",
		"data":    meetup,
	})
}

func RespondToMeetup(ctx iris.Context) {
	claims := utils.GetClaims(ctx)
	meetupID := ctx.Params().GetUintDefault("meetupId", 0)

	var input RespondMeetupInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.Response != "accepted" && input.Response != "rejected" {
		utils.CreateError(iris.StatusBadRequest, `Response must be either "accepted" or "rejected"`, ctx)
		return
	}

	var meetup models.Meetup
	if err := storage.DB.First(&meetup, meetupID).Error; err != nil {
		utils.CreateNotFound(ctx, "Meetup")
		return
	}

	if meetup.ProposedByID == claims.ID {
		utils.CreateForbidden(ctx, "You cannot respond to your own meetup proposal")
		return
	}
	if !meetup.IsParticipant(claims.ID) {
		utils.CreateForbidden(ctx, "You are not authorized to respond to this meetup")
		return
	}
	if meetup.Status != models.MeetupProposed {
		utils.CreateError(iris.StatusBadRequest, "This meetup proposal has already been answered", ctx)
		return
	}

	meetup.Status = models.MeetupStatus(input.Response)
	if err := storage.DB.Save(&meetup).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	preloadMeetup(&meetup)

	ctx.JSON(iris.Map{
		"success": true,
		"message": "Meetup " + input.Response,
		"data":    meetup,
	})
}

func GetMyMeetups(ctx iris.Context) {
	claims := utils.GetClaims(ctx)

	query := storage.DB.
		Where("buyer_id = ? OR seller_id = ?", claims.ID, claims.ID)
	if status := ctx.URLParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var meetups []models.Meetup
	err := query.
		Preload("Listing", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, title, images, price")
		}).
		Preload("Buyer", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, first_name, last_name, profile_picture")
		}).
		Preload("Seller", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, first_name, last_name, profile_picture")
		}).
		Preload("Location").
		Order("created_at DESC").
		Find(&meetups).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"count":   len(meetups),
		"data":    meetups,
	})
}

func GetMeetup(ctx iris.Context) {
	claims := utils.GetClaims(ctx)
	id := ctx.Params().GetUintDefault("id", 0)

	var meetup models.Meetup
	if err := storage.DB.First(&meetup, id).Error; err != nil {
		utils.CreateNotFound(ctx, "Meetup")
		return
	}

	if !meetup.IsParticipant(claims.ID) {
		utils.CreateForbidden(ctx, "You are not authorized to view this meetup")
		return
	}

	preloadMeetup(&meetup)

	ctx.JSON(iris.Map{
		"success": true,
		"data":    meetup,
	})
}

// ConfirmSafety flips the caller's own safety flag. Idempotent; meetup
// status is untouched.
func ConfirmSafety(ctx iris.Context) {
	claims := utils.GetClaims(ctx)
	meetupID := ctx.Params().GetUintDefault("meetupId", 0)

	var meetup models.Meetup
	if err := storage.DB.First(&meetup, meetupID).Error; err != nil {
		utils.CreateNotFound(ctx, "Meetup")
		return
	}

	var column string
	switch claims.ID {
	case meetup.BuyerID:
		column = "buyer_safety_confirmed"
		meetup.BuyerSafetyConfirmed = true
	case meetup.SellerID:
		column = "seller_safety_confirmed"
		meetup.SellerSafetyConfirmed = true
	default:
		utils.CreateForbidden(ctx, "You are not authorized to confirm safety for this meetup")
		return
	}

	if err := storage.DB.Model(&meetup).Update(column, true).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"message": "Safety confirmation updated",
		"data": iris.Map{
			"buyer":  meetup.BuyerSafetyConfirmed,
			"seller": meetup.SellerSafetyConfirmed,
		},
	})
}

func preloadMeetup(meetup *models.Meetup) {
	storage.DB.
		Preload("Listing", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, title, description, images, price, category")
		}).
		Preload("Buyer", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, first_name, last_name, profile_picture")
		}).
		Preload("Seller", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, first_name, last_name, profile_picture")
		}).
		Preload("Location").
		First(meetup, meetup.ID)
}
