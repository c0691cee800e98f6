package storage

import (
	"crypto/sha1"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Cloudinary configuration via environment variables
// CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY, CLOUDINARY_API_SECRET, CLOUDINARY_FOLDER (optional)

const (
	uploadAttempts   = 3
	uploadRetryDelay = 500 * time.Millisecond
)

var ErrUploadFailed = errors.New("image upload failed")

// UploadBase64Image pushes one base64 image to Cloudinary under publicID.
// A transient provider failure is retried up to uploadAttempts times with a
// short fixed delay; the last error is returned when all attempts fail.
func UploadBase64Image(base64ImageSrc string, publicID string) (string, error) {
	if base64ImageSrc == "" {
		return "", fmt.Errorf("%w: empty image payload", ErrUploadFailed)
	}

	var lastErr error
	for attempt := 1; attempt <= uploadAttempts; attempt++ {
		imageURL, err := uploadOnce(base64ImageSrc, publicID)
		if err == nil {
			return imageURL, nil
		}
		lastErr = err
		fmt.Printf("Cloudinary upload attempt %d/%d for %s failed: %v\n", attempt, uploadAttempts, publicID, err)
		if attempt < uploadAttempts {
			time.Sleep(uploadRetryDelay)
		}
	}
	return "", lastErr
}

// UploadImages uploads a batch of base64 images under folder and returns the
// hosted URLs. The batch is all-or-nothing: one image failing after its
// retries fails the whole call, so no listing ever references images that
// never made it to the CDN. Already-hosted URLs pass through untouched.
func UploadImages(images []string, folder string) ([]string, error) {
	urls := make([]string, 0, len(images))
	for _, image := range images {
		if image == "" {
			continue
		}
		if strings.Contains(image, "res.cloudinary.com") {
			urls = append(urls, image)
			continue
		}

		publicID := uuid.NewString()
		if folder != "" {
			publicID = folder + "/" + publicID
		}

		imageURL, err := UploadBase64Image(image, publicID)
		if err != nil {
			return nil, err
		}
		urls = append(urls, imageURL)
	}
	return urls, nil
}

func uploadOnce(base64ImageSrc string, publicID string) (string, error) {
	i := strings.Index(base64ImageSrc, ",")
	payload := base64ImageSrc
	if i != -1 {
		payload = base64ImageSrc[i+1:]
	}

	cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME")
	apiKey := os.Getenv("CLOUDINARY_API_KEY")
	apiSecret := os.Getenv("CLOUDINARY_API_SECRET")
	folder := os.Getenv("CLOUDINARY_FOLDER")

	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return "", fmt.Errorf("%w: missing Cloudinary credentials", ErrUploadFailed)
	}

	endpoint := "https://api.cloudinary.com/v1_1/" + cloudName + "/image/upload"

	form := url.Values{}
	form.Add("file", "data:image/jpeg;base64,"+payload)
	form.Add("api_key", apiKey)

	finalPublicID := publicID
	if folder != "" {
		finalPublicID = folder + "/" + publicID
	}
	if finalPublicID != "" {
		form.Add("public_id", finalPublicID)
	}

	// Signed upload: signature is SHA1 over the sorted params plus the secret
	timestamp := fmt.Sprintf("%d", time.Now().Unix())
	form.Add("timestamp", timestamp)

	signatureString := fmt.Sprintf("public_id=%s&timestamp=%s%s", finalPublicID, timestamp, apiSecret)
	signature := fmt.Sprintf("%x", sha1.Sum([]byte(signatureString)))
	form.Add("signature", signature)

	req, err := http.NewRequest("POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}

	if res.StatusCode != 200 {
		return "", fmt.Errorf("%w: status %d: %s", ErrUploadFailed, res.StatusCode, string(body))
	}

	var cloudRes struct {
		SecureURL string `json:"secure_url"`
		URL       string `json:"url"`
		Error     struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &cloudRes); err != nil {
		return "", err
	}
	if cloudRes.Error.Message != "" {
		return "", fmt.Errorf("%w: %s", ErrUploadFailed, cloudRes.Error.Message)
	}

	imageURL := cloudRes.SecureURL
	if imageURL == "" {
		imageURL = cloudRes.URL
	}
	if imageURL == "" {
		return "", fmt.Errorf("%w: no URL in provider response", ErrUploadFailed)
	}
	return imageURL, nil
}

// DeleteImage removes an uploaded image by its hosted URL. Failures are
// logged by callers; orphaned CDN assets are acceptable.
func DeleteImage(imageURL string) bool {
	if !strings.Contains(imageURL, "res.cloudinary.com") {
		return false
	}

	parts := strings.Split(imageURL, "/upload/")
	if len(parts) != 2 {
		return false
	}
	publicID := parts[1]
	// Strip version prefix and file extension
	if idx := strings.Index(publicID, "/"); idx != -1 && strings.HasPrefix(publicID, "v") {
		publicID = publicID[idx+1:]
	}
	if idx := strings.LastIndex(publicID, "."); idx != -1 {
		publicID = publicID[:idx]
	}

	cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME")
	apiKey := os.Getenv("CLOUDINARY_API_KEY")
	apiSecret := os.Getenv("CLOUDINARY_API_SECRET")
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return false
	}

	endpoint := "https://api.cloudinary.com/v1_1/" + cloudName + "/image/destroy"

	timestamp := fmt.Sprintf("%d", time.Now().Unix())
	signatureString := fmt.Sprintf("public_id=%s&timestamp=%s%s", publicID, timestamp, apiSecret)
	signature := fmt.Sprintf("%x", sha1.Sum([]byte(signatureString)))

	form := url.Values{}
	form.Add("public_id", publicID)
	form.Add("api_key", apiKey)
	form.Add("timestamp", timestamp)
	form.Add("signature", signature)

	res, err := http.PostForm(endpoint, form)
	if err != nil {
		fmt.Printf("Failed to delete image %s: %v\n", publicID, err)
		return false
	}
	defer res.Body.Close()

	return res.StatusCode == 200
}
