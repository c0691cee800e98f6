package routes

import (
	"strings"
	"time"

	"github.com/navid1111/DormDeals/models"
	"github.com/navid1111/DormDeals/services"
	"github.com/navid1111/DormDeals/storage"
	"github.com/navid1111/DormDeals/utils"

	"github.com/kataras/iris/v12"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

var emailService = services.NewEmailService()

type RegisterUserInput struct {
	FirstName      string `json:"firstName" validate:"required,max=50"`
	LastName       string `json:"lastName" validate:"required,max=50"`
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=8,max=256"`
	PhoneNumber    string `json:"phoneNumber" validate:"required"`
	DateOfBirth    string `json:"dateOfBirth" validate:"required"`
	StudentID      string `json:"studentId" validate:"required"`
	Department     string `json:"department" validate:"required"`
	Program        string `json:"program" validate:"required"`
	YearOfStudy    int    `json:"yearOfStudy" validate:"required,min=1,max=8"`
	GraduationYear int    `json:"graduationYear" validate:"required"`
}

type LoginUserInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ResendVerificationInput struct {
	Email string `json:"email" validate:"required,email"`
}

func Register(ctx iris.Context) {
	var input RegisterUserInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if !slices.Contains(models.UserPrograms, input.Program) {
		utils.CreateError(iris.StatusBadRequest, "Invalid program", ctx)
		return
	}

	var existingUser models.User
	userExists, userExistsErr := getAndHandleUserExists(&existingUser, input.Email)
	if userExistsErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if userExists {
		utils.CreateError(iris.StatusBadRequest, "User already exists with this email", ctx)
		return
	}

	// The university comes from the email domain, never from the payload.
	university, matched := utils.ResolveUniversityByEmail(input.Email)
	if !matched {
		utils.CreateError(iris.StatusBadRequest, "Please use your official university email address", ctx)
		return
	}

	var sameStudentID int64
	storage.DB.Model(&models.User{}).
		Where("student_id = ? AND university_id = ?", input.StudentID, university.ID).
		Count(&sameStudentID)
	if sameStudentID > 0 {
		utils.CreateError(iris.StatusBadRequest, "Student ID already registered for this university", ctx)
		return
	}

	hashedPassword, hashErr := hashAndSaltPassword(input.Password)
	if hashErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	newUser := models.User{
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Email:          strings.ToLower(input.Email),
		Password:       hashedPassword,
		PhoneNumber:    input.PhoneNumber,
		DateOfBirth:    input.DateOfBirth,
		UniversityID:   university.ID,
		StudentID:      input.StudentID,
		Department:     input.Department,
		Program:        input.Program,
		YearOfStudy:    input.YearOfStudy,
		GraduationYear: input.GraduationYear,
		Role:           models.RoleStudent,
	}
	newUser.CheckProfileCompletion()

	if err := storage.DB.Create(&newUser).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	token, tokenErr := utils.CreateEmailVerificationToken(newUser.ID, newUser.Email)
	if tokenErr == nil {
		expire := time.Now().Add(24 * time.Hour)
		storage.DB.Model(&newUser).Updates(map[string]interface{}{
			"email_verification_token":  token,
			"email_verification_expire": expire,
		})
		// A mail outage must not block signup; the user can resend later.
		emailService.SendVerificationEmail(newUser.Email, newUser.FirstName, token)
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{
		"success": true,
		"message": "Registration successful! Please check your email to verify your account.",
		"data":    iris.Map{"user": &newUser},
	})
}

func Login(ctx iris.Context) {
	var input LoginUserInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	errorMsg := "Invalid email or password."
	var existingUser models.User
	userExists, userExistsErr := getAndHandleUserExists(&existingUser, input.Email)
	if userExistsErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if !userExists {
		utils.CreateError(iris.StatusUnauthorized, errorMsg, ctx)
		return
	}

	if passwordErr := bcrypt.CompareHashAndPassword([]byte(existingUser.Password), []byte(input.Password)); passwordErr != nil {
		utils.CreateError(iris.StatusUnauthorized, errorMsg, ctx)
		return
	}

	if existingUser.IsActive != nil && !*existingUser.IsActive {
		utils.CreateError(iris.StatusUnauthorized, "Account is deactivated", ctx)
		return
	}

	now := time.Now()
	storage.DB.Model(&existingUser).Update("last_login", now)
	existingUser.LastLogin = &now

	returnUser(&existingUser, ctx)
}

func VerifyEmail(ctx iris.Context) {
	token := ctx.Params().Get("token")
	if token == "" {
		utils.CreateError(iris.StatusBadRequest, "Verification token is required", ctx)
		return
	}

	userID, err := utils.ParseEmailVerificationToken(token)
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Invalid or expired verification token", ctx)
		return
	}

	var user models.User
	if dbErr := storage.DB.First(&user, userID).Error; dbErr != nil {
		utils.CreateNotFound(ctx, "User")
		return
	}

	if user.IsEmailVerified {
		ctx.JSON(iris.Map{"success": true, "message": "Email already verified"})
		return
	}

	// Token must also be the one most recently issued for this user.
	if user.EmailVerificationToken != token ||
		(user.EmailVerificationExpire != nil && time.Now().After(*user.EmailVerificationExpire)) {
		utils.CreateError(iris.StatusBadRequest, "Invalid or expired verification token", ctx)
		return
	}

	updates := map[string]interface{}{
		"is_email_verified":         true,
		"verification_status":       "verified",
		"email_verification_token":  "",
		"email_verification_expire": nil,
	}
	if dbErr := storage.DB.Model(&user).Updates(updates).Error; dbErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	emailService.SendWelcomeEmail(user.Email, user.FirstName)

	ctx.JSON(iris.Map{
		"success": true,
		"message": "Email verified successfully! Welcome to DormDeals.",
	})
}

func ResendVerification(ctx iris.Context) {
	var input ResendVerificationInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var user models.User
	userExists, userExistsErr := getAndHandleUserExists(&user, input.Email)
	if userExistsErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if !userExists {
		utils.CreateNotFound(ctx, "User")
		return
	}
	if user.IsEmailVerified {
		utils.CreateError(iris.StatusBadRequest, "Email is already verified", ctx)
		return
	}

	token, tokenErr := utils.CreateEmailVerificationToken(user.ID, user.Email)
	if tokenErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	expire := time.Now().Add(24 * time.Hour)
	storage.DB.Model(&user).Updates(map[string]interface{}{
		"email_verification_token":  token,
		"email_verification_expire": expire,
	})

	if sendErr := emailService.SendVerificationEmail(user.Email, user.FirstName, token); sendErr != nil {
		utils.CreateError(iris.StatusBadGateway, "Failed to send verification email", ctx)
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"message": "Verification email sent. Please check your inbox.",
	})
}

func GetMe(ctx iris.Context) {
	claims := utils.GetClaims(ctx)

	var user models.User
	err := storage.DB.
		Preload("University", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name, code, email_domain")
		}).
		First(&user, claims.ID).Error
	if err != nil {
		utils.CreateNotFound(ctx, "User")
		return
	}

	ctx.JSON(iris.Map{"success": true, "data": &user})
}

func Logout(ctx iris.Context) {
	var input utils.RefreshTokenInput
	if err := ctx.ReadJSON(&input); err == nil {
		utils.RevokeRefreshToken(input.RefreshToken)
	}

	ctx.JSON(iris.Map{"success": true, "message": "Logged out successfully"})
}

func getAndHandleUserExists(user *models.User, email string) (exists bool, err error) {
	userExistsQuery := storage.DB.Where("email = ?", strings.ToLower(email)).Limit(1).Find(user)

	if userExistsQuery.Error != nil {
		return false, userExistsQuery.Error
	}

	return userExistsQuery.RowsAffected > 0, nil
}

func hashAndSaltPassword(password string) (hashedPassword string, err error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(bytes), nil
}

func returnUser(user *models.User, ctx iris.Context) {
	tokenPair, tokenErr := utils.CreateTokenPair(user)
	if tokenErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"success":      true,
		"accessToken":  string(tokenPair.AccessToken),
		"refreshToken": string(tokenPair.RefreshToken),
		"data":         user,
	})
}
