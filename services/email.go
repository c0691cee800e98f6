package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"
)

// EmailService handles all transactional email logic
type EmailService struct{}

// NewEmailService creates a new email service instance
func NewEmailService() *EmailService {
	return &EmailService{}
}

type emailPayload struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Subject  string `json:"subject"`
	HTMLBody string `json:"html"`
}

var emailClient = &http.Client{Timeout: 10 * time.Second}

// send posts one message to the provider HTTP API. Failures are returned
// to the caller; registration logs them and continues, it never blocks the
// signup on a mail outage.
func (es *EmailService) send(to, subject, htmlBody string) error {
	apiURL := os.Getenv("EMAIL_API_URL")
	apiKey := os.Getenv("EMAIL_API_KEY")
	from := os.Getenv("EMAIL_FROM")
	if from == "" {
		from = "DormDeals <no-reply@dormdeals.app>"
	}

	if apiURL == "" || apiKey == "" {
		log.Printf("Email provider not configured, skipping mail to %s (%s)", to, subject)
		return nil
	}

	body, err := json.Marshal(emailPayload{From: from, To: to, Subject: subject, HTMLBody: htmlBody})
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", apiURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	res, err := emailClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		return fmt.Errorf("email provider returned status %d", res.StatusCode)
	}
	return nil
}

// SendVerificationEmail mails the signed verification link to a new user.
func (es *EmailService) SendVerificationEmail(to, firstName, token string) error {
	clientURL := os.Getenv("CLIENT_URL")
	if clientURL == "" {
		clientURL = "http://localhost:3000"
	}
	verifyURL := fmt.Sprintf("%s/verify-email/%s", clientURL, token)

	subject := "Verify your DormDeals email"
	body := fmt.Sprintf(`
		<h2>Welcome to DormDeals, %s!</h2>
		<p>Confirm your university email to start listing and bidding.</p>
		<p><a href="%s">Verify my email</a></p>
		<p>This link expires in 24 hours.</p>`, firstName, verifyURL)

	err := es.send(to, subject, body)
	if err != nil {
		log.Printf("Failed to send verification email to %s: %v", to, err)
	}
	return err
}

// SendWelcomeEmail mails the post-verification welcome note.
func (es *EmailService) SendWelcomeEmail(to, firstName string) error {
	subject := "Your DormDeals account is verified"
	body := fmt.Sprintf(`
		<h2>You're all set, %s!</h2>
		<p>Your email is verified. Browse your campus marketplace, post a
		listing or place a bid.</p>`, firstName)

	err := es.send(to, subject, body)
	if err != nil {
		log.Printf("Failed to send welcome email to %s: %v", to, err)
	}
	return err
}
