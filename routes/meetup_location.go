package routes

import (
	"github.com/navid1111/DormDeals/models"
	"github.com/navid1111/DormDeals/storage"
	"github.com/navid1111/DormDeals/utils"

	"github.com/kataras/iris/v12"
	"golang.org/x/exp/slices"
)

type MeetupLocationInput struct {
	Name         string  `json:"name" validate:"required,max=100"`
	Description  string  `json:"description" validate:"required,max=500"`
	UniversityID uint    `json:"universityID" validate:"required"`
	Lng          float64 `json:"lng"`
	Lat          float64 `json:"lat"`
	LocationType string  `json:"locationType" validate:"required"`
	IsOfficial   bool    `json:"isOfficial"`
	SafetyRating int     `json:"safetyRating" validate:"omitempty,min=1,max=5"`
	OpeningHours string  `json:"openingHours"`
}

func GetMeetupLocations(ctx iris.Context) {
	query := storage.DB.Model(&models.MeetupLocation{})
	if university := ctx.URLParam("university"); university != "" {
		query = query.Where("university_id = ?", university)
	}
	if ctx.URLParam("official") == "true" {
		query = query.Where("is_official = ?", true)
	}

	var locations []models.MeetupLocation
	if err := query.Order("name ASC").Find(&locations).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"count":   len(locations),
		"data":    locations,
	})
}

func GetMeetupLocation(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)

	var location models.MeetupLocation
	if err := storage.DB.First(&location, id).Error; err != nil {
		utils.CreateNotFound(ctx, "Meetup location")
		return
	}

	ctx.JSON(iris.Map{"success": true, "data": &location})
}

// CreateMeetupLocation registers an official spot. University-admins may
// only add locations for their own campus.
func CreateMeetupLocation(ctx iris.Context) {
	claims := utils.GetClaims(ctx)

	var input MeetupLocationInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if !slices.Contains(models.MeetupLocationTypes, input.LocationType) {
		utils.CreateError(iris.StatusBadRequest, "Invalid location type", ctx)
		return
	}

	if !claims.CanModerate(input.UniversityID) {
		utils.CreateForbidden(ctx, "You can only add meetup locations for your university")
		return
	}

	safetyRating := input.SafetyRating
	if safetyRating == 0 {
		safetyRating = 3
	}

	location := models.MeetupLocation{
		Name:         input.Name,
		Description:  input.Description,
		UniversityID: input.UniversityID,
		Lng:          input.Lng,
		Lat:          input.Lat,
		LocationType: input.LocationType,
		IsOfficial:   input.IsOfficial,
		SafetyRating: safetyRating,
		OpeningHours: input.OpeningHours,
		CreatedByID:  &claims.ID,
	}
	if err := storage.DB.Create(&location).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "data": &location})
}
