package routes

import (
	"strings"

	"github.com/navid1111/DormDeals/models"
	"github.com/navid1111/DormDeals/storage"
	"github.com/navid1111/DormDeals/utils"

	"github.com/kataras/iris/v12"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// Directory responses hide contact details; only these columns leave the
// server.
const userDirectoryColumns = "id, first_name, last_name, profile_picture, bio, department, program, year_of_study, verification_status, university_id, created_at"

type UpdateProfileInput struct {
	FirstName      string `json:"firstName" validate:"omitempty,max=50"`
	LastName       string `json:"lastName" validate:"omitempty,max=50"`
	PhoneNumber    string `json:"phoneNumber"`
	Department     string `json:"department"`
	Program        string `json:"program"`
	YearOfStudy    int    `json:"yearOfStudy" validate:"omitempty,min=1,max=8"`
	GraduationYear int    `json:"graduationYear"`
	Bio            string `json:"bio" validate:"max=500"`
	ProfilePicture string `json:"profilePicture"`
}

// GetUserProfile exposes the public slice of a user: name, picture,
// verification state, academic basics and received reviews summary.
func GetUserProfile(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)

	var user models.User
	err := storage.DB.
		Select(userDirectoryColumns).
		Preload("University", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name, code")
		}).
		First(&user, id).Error
	if err != nil {
		utils.CreateNotFound(ctx, "User")
		return
	}

	var reviewCount int64
	storage.DB.Model(&models.Review{}).Where("reviewed_user_id = ?", user.ID).Count(&reviewCount)

	ctx.JSON(iris.Map{
		"success":     true,
		"data":        &user,
		"reviewCount": reviewCount,
	})
}

// UpdateProfile edits the caller's own profile. Email, university and
// role are not part of the input on purpose.
func UpdateProfile(ctx iris.Context) {
	claims := utils.GetClaims(ctx)

	var input UpdateProfileInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.Program != "" && !slices.Contains(models.UserPrograms, input.Program) {
		utils.CreateError(iris.StatusBadRequest, "Invalid program", ctx)
		return
	}

	var user models.User
	if err := storage.DB.First(&user, claims.ID).Error; err != nil {
		utils.CreateNotFound(ctx, "User")
		return
	}

	if input.FirstName != "" {
		user.FirstName = input.FirstName
	}
	if input.LastName != "" {
		user.LastName = input.LastName
	}
	if input.PhoneNumber != "" {
		user.PhoneNumber = input.PhoneNumber
	}
	if input.Department != "" {
		user.Department = input.Department
	}
	if input.Program != "" {
		user.Program = input.Program
	}
	if input.YearOfStudy != 0 {
		user.YearOfStudy = input.YearOfStudy
	}
	if input.GraduationYear != 0 {
		user.GraduationYear = input.GraduationYear
	}
	if input.Bio != "" {
		user.Bio = input.Bio
	}
	if input.ProfilePicture != "" {
		// Base64 payloads go through the CDN; hosted URLs pass through.
		uploaded, err := storage.UploadImages([]string{input.ProfilePicture}, "dormdeals/avatars")
		if err != nil {
			utils.CreateError(iris.StatusBadGateway, "Profile picture upload failed", ctx)
			return
		}
		user.ProfilePicture = uploaded[0]
	}

	user.CheckProfileCompletion()

	if err := storage.DB.Save(&user).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"message": "Profile updated successfully",
		"data":    &user,
	})
}

// directoryQuery is the base filter of every user-directory lookup: verified,
// active students of the caller's university, the caller excluded.
func directoryQuery(claims *utils.AccessToken) *gorm.DB {
	return storage.DB.Model(&models.User{}).
		Where("university_id = ?", claims.UniversityID).
		Where("is_email_verified = ?", true).
		Where("verification_status = ?", "verified").
		Where("is_active = ?", true).
		Where("id <> ?", claims.ID)
}

// GetUniversityUsers lists verified students of the caller's university,
// optionally narrowed by department, program or year of study.
func GetUniversityUsers(ctx iris.Context) {
	claims := utils.GetClaims(ctx)
	query := directoryQuery(claims)

	if department := ctx.URLParam("department"); department != "" {
		query = query.Where("department ILIKE ?", "%"+department+"%")
	}
	if program := ctx.URLParam("program"); program != "" {
		query = query.Where("program = ?", program)
	}
	if yearOfStudy := ctx.URLParamIntDefault("yearOfStudy", 0); yearOfStudy > 0 {
		query = query.Where("year_of_study = ?", yearOfStudy)
	}

	page := ctx.URLParamIntDefault("page", 1)
	if page < 1 {
		page = 1
	}
	limit := ctx.URLParamIntDefault("limit", 10)
	if limit < 1 || limit > 100 {
		limit = 10
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var users []models.User
	err := query.
		Select(userDirectoryColumns).
		Preload("University", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name, code")
		}).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, users, len(users), page, limit, total)
}

// normalizeSearchQuery trims the search term and reports whether it is
// long enough to run; single-character lookups scan too much of the table.
func normalizeSearchQuery(query string) (string, bool) {
	query = strings.TrimSpace(query)
	return query, len(query) >= 2
}

// SearchUsers finds students of the caller's university by name,
// department or student ID.
func SearchUsers(ctx iris.Context) {
	claims := utils.GetClaims(ctx)

	search, ok := normalizeSearchQuery(ctx.URLParam("query"))
	if !ok {
		utils.CreateError(iris.StatusBadRequest, "Search query must be at least 2 characters long", ctx)
		return
	}

	page := ctx.URLParamIntDefault("page", 1)
	if page < 1 {
		page = 1
	}
	limit := ctx.URLParamIntDefault("limit", 10)
	if limit < 1 || limit > 100 {
		limit = 10
	}

	pattern := "%" + search + "%"
	query := directoryQuery(claims).
		Where("first_name ILIKE ? OR last_name ILIKE ? OR department ILIKE ? OR student_id ILIKE ?",
			pattern, pattern, pattern, pattern)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var users []models.User
	err := query.
		Select(userDirectoryColumns).
		Preload("University", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name, code")
		}).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, users, len(users), page, limit, total)
}

// DeactivateAccount flips the caller's own IsActive flag off. Login and the
// verified-email middleware reject deactivated accounts from then on.
func DeactivateAccount(ctx iris.Context) {
	claims := utils.GetClaims(ctx)

	var user models.User
	if err := storage.DB.First(&user, claims.ID).Error; err != nil {
		utils.CreateNotFound(ctx, "User")
		return
	}

	if err := storage.DB.Model(&user).Update("is_active", false).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	// The open session is no longer welcome either.
	var input utils.RefreshTokenInput
	if err := ctx.ReadJSON(&input); err == nil {
		utils.RevokeRefreshToken(input.RefreshToken)
	}

	ctx.JSON(iris.Map{
		"success": true,
		"message": "Account deactivated successfully",
	})
}
