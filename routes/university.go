package routes

import (
	"strings"

	"github.com/navid1111/DormDeals/models"
	"github.com/navid1111/DormDeals/storage"
	"github.com/navid1111/DormDeals/utils"

	"github.com/kataras/iris/v12"
)

type UniversityInput struct {
	Name        string `json:"name" validate:"required"`
	Code        string `json:"code" validate:"required,max=20"`
	EmailDomain string `json:"emailDomain" validate:"required"`
	City        string `json:"city"`
	Country     string `json:"country"`
	IsActive    *bool  `json:"isActive"`
}

func GetAllUniversities(ctx iris.Context) {
	query := storage.DB.Model(&models.University{})
	// Inactive entries stay hidden from the public directory.
	if ctx.URLParam("all") != "true" {
		query = query.Where("is_active = ?", true)
	}

	var universities []models.University
	if err := query.Order("name ASC").Find(&universities).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"count":   len(universities),
		"data":    universities,
	})
}

func GetUniversityByID(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)

	var university models.University
	if err := storage.DB.First(&university, id).Error; err != nil {
		utils.CreateNotFound(ctx, "University")
		return
	}

	ctx.JSON(iris.Map{"success": true, "data": university})
}

func CreateUniversity(ctx iris.Context) {
	var input UniversityInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	university := models.University{
		Name:        input.Name,
		Code:        strings.ToUpper(input.Code),
		EmailDomain: strings.ToLower(input.EmailDomain),
		City:        input.City,
		Country:     input.Country,
		IsActive:    input.IsActive,
	}
	if err := storage.DB.Create(&university).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			utils.CreateError(iris.StatusConflict, "University code or email domain already exists", ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "university.create", "university", university.ID, nil, university)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "data": university})
}

func UpdateUniversity(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)

	var university models.University
	if err := storage.DB.First(&university, id).Error; err != nil {
		utils.CreateNotFound(ctx, "University")
		return
	}
	before := university

	var input UniversityInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	university.Name = input.Name
	university.Code = strings.ToUpper(input.Code)
	university.EmailDomain = strings.ToLower(input.EmailDomain)
	university.City = input.City
	university.Country = input.Country
	if input.IsActive != nil {
		university.IsActive = input.IsActive
	}

	if err := storage.DB.Save(&university).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "university.update", "university", university.ID, before, university)

	ctx.JSON(iris.Map{"success": true, "data": university})
}

// DeleteUniversity hard-deletes only unreferenced directory entries;
// anything with users or listings attached must be deactivated instead so
// dependents keep resolving.
func DeleteUniversity(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)

	var university models.University
	if err := storage.DB.First(&university, id).Error; err != nil {
		utils.CreateNotFound(ctx, "University")
		return
	}

	var userCount, listingCount int64
	storage.DB.Model(&models.User{}).Where("university_id = ?", university.ID).Count(&userCount)
	storage.DB.Model(&models.Listing{}).Where("university_id = ?", university.ID).Count(&listingCount)
	if userCount > 0 || listingCount > 0 {
		utils.CreateError(iris.StatusConflict,
			"University has registered users or listings; deactivate it instead", ctx)
		return
	}

	if err := storage.DB.Delete(&university).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "university.delete", "university", university.ID, university, nil)

	ctx.JSON(iris.Map{"success": true, "message": "University deleted successfully"})
}
