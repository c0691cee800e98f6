package routes

import (
	"errors"
	"strings"
	"time"

	"github.com/navid1111/DormDeals/models"
	"github.com/navid1111/DormDeals/storage"
	"github.com/navid1111/DormDeals/utils"

	"github.com/kataras/iris/v12"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

type ModerateListingInput struct {
	Action  string `json:"action" validate:"required"`
	Message string `json:"message" validate:"max=500"`
}

type CreateReportInput struct {
	Reported  uint   `json:"reported" validate:"required"`
	ListingID *uint  `json:"listing"`
	Reason    string `json:"reason" validate:"required"`
	Details   string `json:"details" validate:"max=500"`
}

type ReviewReportInput struct {
	Status  string `json:"status" validate:"required,oneof=pending resolved rejected"`
	Details string `json:"details" validate:"max=500"`
}

type AddReviewInput struct {
	ReviewedUser uint   `json:"reviewedUser" validate:"required"`
	Listing      uint   `json:"listing" validate:"required"`
	Rating       int    `json:"rating" validate:"required,min=1,max=5"`
	Comment      string `json:"comment" validate:"max=500"`
}

// ModerateListing approves or rejects a pending listing. University-admins
// act only on listings of their administered university; global admins are
// unrestricted.
func ModerateListing(ctx iris.Context) {
	claims := utils.GetClaims(ctx)
	id := ctx.Params().GetUintDefault("id", 0)

	var input ModerateListingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.Action != "approve" && input.Action != "reject" {
		utils.CreateError(iris.StatusBadRequest, `Invalid action. Use "approve" or "reject"`, ctx)
		return
	}

	var listing models.Listing
	if err := storage.DB.First(&listing, id).Error; err != nil {
		utils.CreateNotFound(ctx, "Listing")
		return
	}

	if !claims.CanModerate(listing.UniversityID) {
		utils.CreateForbidden(ctx, "You are only authorized to moderate listings from your university")
		return
	}

	target := models.ListingActive
	if input.Action == "reject" {
		target = models.ListingRejected
	}
	if !models.CanTransition(listing.Status, target) {
		utils.CreateError(iris.StatusBadRequest, "Listing is not awaiting moderation", ctx)
		return
	}

	before := listing.Status
	now := time.Now()
	updates := map[string]interface{}{
		"status":             target,
		"moderated_by_id":    claims.ID,
		"moderated_at":       now,
		"moderation_message": input.Message,
	}
	if err := storage.DB.Model(&listing).Updates(updates).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	listing.Status = target
	listing.ModeratedByID = &claims.ID
	listing.ModeratedAt = &now
	listing.ModerationMessage = input.Message

	utils.Audit(ctx, "listing."+input.Action, "listing", listing.ID,
		iris.Map{"status": before}, iris.Map{"status": target})

	ctx.JSON(iris.Map{
		"success": true,
		"message": "Listing " + input.Action + "d successfully",
		"data":    &listing,
	})
}

func HandleReport(ctx iris.Context) {
	claims := utils.GetClaims(ctx)

	var input CreateReportInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if !slices.Contains(models.ReportReasons, input.Reason) {
		utils.CreateError(iris.StatusBadRequest, "Invalid report reason", ctx)
		return
	}

	report := models.Report{
		ReporterID: claims.ID,
		ReportedID: input.Reported,
		ListingID:  input.ListingID,
		Reason:     input.Reason,
		Details:    input.Details,
		Status:     "pending",
	}
	if err := storage.DB.Create(&report).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{
		"success": true,
		"message": "Report submitted successfully",
		"data":    report,
	})
}

// ReviewReport resolves or rejects a report, with the same university
// scoping as listing moderation when the report points at a listing.
func ReviewReport(ctx iris.Context) {
	claims := utils.GetClaims(ctx)
	id := ctx.Params().GetUintDefault("id", 0)

	var input ReviewReportInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var report models.Report
	if err := storage.DB.First(&report, id).Error; err != nil {
		utils.CreateNotFound(ctx, "Report")
		return
	}

	if report.ListingID != nil {
		var listing models.Listing
		if err := storage.DB.First(&listing, *report.ListingID).Error; err == nil {
			if !claims.CanModerate(listing.UniversityID) {
				utils.CreateForbidden(ctx, "You can only review reports from your university")
				return
			}
		}
	} else if claims.Role != models.RoleAdmin {
		// Reports without a listing have no university to scope by.
		utils.CreateForbidden(ctx, "Only global admins can review reports without a listing")
		return
	}

	now := time.Now()
	report.Status = input.Status
	report.ReviewedByID = &claims.ID
	report.ResolvedAt = &now
	if input.Details != "" {
		report.AdminNotes = input.Details
	}
	if err := storage.DB.Save(&report).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "report."+input.Status, "report", report.ID, nil, report)

	ctx.JSON(iris.Map{
		"success": true,
		"message": "Report reviewed successfully",
		"data":    report,
	})
}

// AddReview rates the counterpart of a transaction. The (reviewer, listing)
// unique index turns a second review into a conflict.
func AddReview(ctx iris.Context) {
	claims := utils.GetClaims(ctx)

	var input AddReviewInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var listing models.Listing
	if err := storage.DB.First(&listing, input.Listing).Error; err != nil {
		utils.CreateNotFound(ctx, "Listing")
		return
	}

	isSeller := listing.OwnerID == claims.ID
	isBuyer := listing.OwnerID == input.ReviewedUser
	if !isSeller && !isBuyer {
		utils.CreateForbidden(ctx, "You can only review transactions you participated in")
		return
	}

	review := models.Review{
		ReviewerID:     claims.ID,
		ReviewedUserID: input.ReviewedUser,
		ListingID:      listing.ID,
		Rating:         input.Rating,
		Comment:        input.Comment,
	}
	if err := storage.DB.Create(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "duplicate key") {
			utils.CreateError(iris.StatusConflict, "You have already reviewed this transaction", ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{
		"success": true,
		"message": "Review submitted successfully",
		"data":    review,
	})
}

func GetUserReviews(ctx iris.Context) {
	userID := ctx.Params().GetUintDefault("userId", 0)

	var reviews []models.Review
	err := storage.DB.
		Preload("Reviewer", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, first_name, last_name, profile_picture")
		}).
		Preload("Listing", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, title")
		}).
		Where("reviewed_user_id = ?", userID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	totalRating := 0
	for _, review := range reviews {
		totalRating += review.Rating
	}
	averageRating := 0.0
	if len(reviews) > 0 {
		averageRating = float64(totalRating) / float64(len(reviews))
	}

	ctx.JSON(iris.Map{
		"success":       true,
		"count":         len(reviews),
		"averageRating": averageRating,
		"data":          reviews,
	})
}
