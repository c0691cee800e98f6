package main

import (
	"log"
	"os"

	"github.com/navid1111/DormDeals/routes"
	"github.com/navid1111/DormDeals/storage"
	"github.com/navid1111/DormDeals/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	godotenv.Load()
	storage.InitializeDB()
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = validator.New()

	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})
	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		if err := ctx.ReadJSON(&tokenInput); err != nil {
			return ""
		}
		return tokenInput.RefreshToken
	})

	auth := app.Party("/api/auth")
	{
		auth.Post("/register", routes.Register)
		auth.Post("/login", routes.Login)
		auth.Get("/verify-email/{token}", routes.VerifyEmail)
		auth.Post("/resend-verification", routes.ResendVerification)
		auth.Post("/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)
		auth.Get("/me", accessTokenVerifierMiddleware, routes.GetMe)
		auth.Post("/logout", accessTokenVerifierMiddleware, routes.Logout)
	}

	listings := app.Party("/api/listings")
	{
		// Discovery is public; a bearer token only tightens visibility.
		listings.Get("/", utils.OptionalAccessTokenMiddleware, routes.GetListings)
		listings.Get("/{id:uint}", utils.OptionalAccessTokenMiddleware, routes.GetListing)

		listings.Post("/", accessTokenVerifierMiddleware, utils.VerifiedEmailMiddleware, routes.CreateListing)
		listings.Put("/{id:uint}", accessTokenVerifierMiddleware, utils.VerifiedEmailMiddleware, routes.UpdateListing)
		listings.Delete("/{id:uint}", accessTokenVerifierMiddleware, utils.VerifiedEmailMiddleware, routes.DeleteListing)

		listings.Post("/{id:uint}/images", accessTokenVerifierMiddleware, utils.VerifiedEmailMiddleware, routes.UploadListingImages)
		listings.Delete("/{id:uint}/images/{imageIndex}", accessTokenVerifierMiddleware, utils.VerifiedEmailMiddleware, routes.DeleteListingImage)

		listings.Post("/{id:uint}/bids", accessTokenVerifierMiddleware, utils.VerifiedEmailMiddleware, routes.SubmitBid)
	}

	moderation := app.Party("/api/moderation", accessTokenVerifierMiddleware)
	{
		moderation.Put("/listings/{id:uint}", utils.AdminOnlyMiddleware, routes.ModerateListing)
		moderation.Put("/reports/{id:uint}", utils.AdminOnlyMiddleware, routes.ReviewReport)
		moderation.Post("/report", utils.UserIDFromTokenMiddleware, routes.HandleReport)
		moderation.Post("/review", utils.UserIDFromTokenMiddleware, routes.AddReview)
		moderation.Get("/reviews/{userId:uint}", routes.GetUserReviews)
	}

	meetups := app.Party("/api/meetups", accessTokenVerifierMiddleware, utils.VerifiedEmailMiddleware)
	{
		meetups.Post("/listing/{listingId:uint}", routes.ProposeMeetup)
		meetups.Put("/{meetupId:uint}/respond", routes.RespondToMeetup)
		meetups.Put("/{meetupId:uint}/safety", routes.ConfirmSafety)
		meetups.Get("/my", routes.GetMyMeetups)
		meetups.Get("/{id:uint}", routes.GetMeetup)
	}

	universities := app.Party("/api/universities")
	{
		universities.Get("/", routes.GetAllUniversities)
		universities.Get("/{id:uint}", routes.GetUniversityByID)
		universities.Post("/", accessTokenVerifierMiddleware, utils.GlobalAdminOnlyMiddleware, routes.CreateUniversity)
		universities.Put("/{id:uint}", accessTokenVerifierMiddleware, utils.GlobalAdminOnlyMiddleware, routes.UpdateUniversity)
		universities.Delete("/{id:uint}", accessTokenVerifierMiddleware, utils.GlobalAdminOnlyMiddleware, routes.DeleteUniversity)
	}

	meetupLocations := app.Party("/api/meetup-locations")
	{
		meetupLocations.Get("/", routes.GetMeetupLocations)
		meetupLocations.Get("/{id:uint}", routes.GetMeetupLocation)
		meetupLocations.Post("/", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware, routes.CreateMeetupLocation)
	}

	user := app.Party("/api/user")
	{
		user.Get("/university-users", accessTokenVerifierMiddleware, utils.VerifiedEmailMiddleware, routes.GetUniversityUsers)
		user.Get("/search", accessTokenVerifierMiddleware, utils.VerifiedEmailMiddleware, routes.SearchUsers)
		user.Get("/{id:uint}", routes.GetUserProfile)
		user.Put("/profile", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.UpdateProfile)
		user.Delete("/deactivate", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.DeactivateAccount)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	log.Println("Starting DormDeals server on port", port)
	app.Listen(":" + port)
}
