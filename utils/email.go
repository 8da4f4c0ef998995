package utils

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"ecommerce-api/models"
)

// EmailService sends transactional mail through SendGrid. A nil service
// is valid and sends nothing, so mail stays optional in development.
type EmailService struct {
	client *sendgrid.Client
	sender string
}

// NewEmailService returns a service bound to the given API key, or nil
// when no key is configured.
func NewEmailService(apiKey, sender string) *EmailService {
	if apiKey == "" {
		return nil
	}
	return &EmailService{
		client: sendgrid.NewSendClient(apiKey),
		sender: sender,
	}
}

// SendEmail sends one message to the recipient.
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	if es == nil {
		return nil
	}
	from := mail.NewEmail("", es.sender)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, htmlContent, htmlContent)
	resp, err := es.client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("failed to send email: status %d", resp.StatusCode)
	}
	return nil
}

// SendWelcomeEmail greets a freshly registered user.
func (es *EmailService) SendWelcomeEmail(toEmail, username string) error {
	subject := "Welcome"
	htmlContent := fmt.Sprintf(
		"<strong>Hi %s,</strong><br><br>Your account has been created. Happy shopping!",
		username,
	)
	return es.SendEmail(toEmail, subject, htmlContent)
}

// SendOrderConfirmationEmail confirms a placed order.
func (es *EmailService) SendOrderConfirmationEmail(toEmail string, order models.Order) error {
	subject := "Order Confirmation"
	htmlContent := fmt.Sprintf(
		"<strong>Dear Customer,</strong><br><br>Your order (ID: %s) has been placed successfully.<br><br>Total Amount: <strong>$%.2f</strong><br>Status: <strong>%s</strong><br><br>Thank you for shopping with us!",
		order.ID.Hex(),
		order.FinalAmount,
		order.Status,
	)
	return es.SendEmail(toEmail, subject, htmlContent)
}
