package utils

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/navid1111/DormDeals/models"
	"github.com/navid1111/DormDeals/storage"

	jwtv4 "github.com/golang-jwt/jwt/v4"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

var bgContext = context.Background()

// AccessToken carries the identity and capability data every handler
// needs without a user lookup.
type AccessToken struct {
	ID           uint   `json:"ID"`
	Role         string `json:"role"`
	UniversityID uint   `json:"universityID"`
	// AdminUniversityID is zero unless the user is a university-admin.
	AdminUniversityID uint `json:"adminUniversityID"`
}

type RefreshTokenInput struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// CanModerate reports whether the token holder may moderate resources of
// the given university. Global admins are unrestricted; university-admins
// only act on their administered university.
func (t *AccessToken) CanModerate(universityID uint) bool {
	switch t.Role {
	case models.RoleAdmin:
		return true
	case models.RoleUniversityAdmin:
		return t.AdminUniversityID != 0 && t.AdminUniversityID == universityID
	default:
		return false
	}
}

func (t *AccessToken) IsAdmin() bool {
	return t.Role == models.RoleAdmin || t.Role == models.RoleUniversityAdmin
}

func CreateTokenPair(user *models.User) (*jwt.TokenPair, error) {
	accessTokenSigner := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 24*time.Hour)
	refreshTokenSigner := jwt.NewSigner(jwt.HS256, os.Getenv("REFRESH_TOKEN_SECRET"), 365*24*time.Hour)

	accessTokenClaims := AccessToken{
		ID:           user.ID,
		Role:         user.Role,
		UniversityID: user.UniversityID,
	}
	if user.AdminUniversityID != nil {
		accessTokenClaims.AdminUniversityID = *user.AdminUniversityID
	}

	accessToken, err := accessTokenSigner.Sign(accessTokenClaims)
	if err != nil {
		return nil, err
	}

	userID := strconv.FormatUint(uint64(user.ID), 10)
	refreshToken, err := refreshTokenSigner.Sign(jwt.Claims{Subject: userID})
	if err != nil {
		return nil, err
	}

	var tokenPair jwt.TokenPair
	tokenPair.AccessToken = accessToken
	tokenPair.RefreshToken = refreshToken

	storage.Redis.Set(bgContext, string(refreshToken), "true", 365*24*time.Hour+5*time.Minute)

	return &tokenPair, nil
}

func RefreshToken(ctx iris.Context) {
	token := jwt.GetVerifiedToken(ctx)
	tokenStr := string(token.Token)
	validToken, tokenErr := storage.Redis.Get(bgContext, tokenStr).Result()

	if tokenErr != nil {
		CreateNotFound(ctx, "Token")
		return
	}

	if validToken != "true" {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	storage.Redis.Del(bgContext, tokenStr)
	userID, parseErr := strconv.ParseUint(token.StandardClaims.Subject, 10, 32)
	if parseErr != nil {
		CreateInternalServerError(ctx)
		return
	}

	var user models.User
	if err := storage.DB.First(&user, uint(userID)).Error; err != nil {
		CreateNotFound(ctx, "User")
		return
	}

	tokenPair, tokenPairErr := CreateTokenPair(&user)
	if tokenPairErr != nil {
		CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"accessToken":  string(tokenPair.AccessToken),
		"refreshToken": string(tokenPair.RefreshToken),
	})
}

// RevokeRefreshToken drops a refresh token from the allowlist on logout.
func RevokeRefreshToken(refreshToken string) {
	if refreshToken != "" {
		storage.Redis.Del(bgContext, refreshToken)
	}
}

type emailVerificationClaims struct {
	UserID  uint   `json:"userID"`
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
	jwtv4.RegisteredClaims
}

// CreateEmailVerificationToken signs a short-lived token mailed to the
// student; VerifyEmail checks it against the copy stored on the user row.
func CreateEmailVerificationToken(userID uint, email string) (string, error) {
	claims := emailVerificationClaims{
		UserID:  userID,
		Email:   email,
		Purpose: "verify-email",
		RegisteredClaims: jwtv4.RegisteredClaims{
			ExpiresAt: jwtv4.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwtv4.NewNumericDate(time.Now()),
		},
	}

	token := jwtv4.NewWithClaims(jwtv4.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("EMAIL_TOKEN_SECRET")))
}

// ParseEmailVerificationToken returns the user ID a valid verification
// token was issued for.
func ParseEmailVerificationToken(tokenStr string) (uint, error) {
	claims := &emailVerificationClaims{}
	token, err := jwtv4.ParseWithClaims(tokenStr, claims, func(t *jwtv4.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtv4.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(os.Getenv("EMAIL_TOKEN_SECRET")), nil
	})
	if err != nil {
		return 0, err
	}
	if !token.Valid || claims.Purpose != "verify-email" {
		return 0, fmt.Errorf("invalid verification token")
	}
	return claims.UserID, nil
}
