package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) send(to, toName, subject, plainText string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)

	message := mail.NewSingleEmail(from, subject, recipient, plainText, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *emailService) SendVerificationApproved(ctx context.Context, email, name string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour identity documents have been reviewed and approved. You can now continue with your rental.\n\nBest regards,\nThe Roadshare Team", name)
	return s.send(email, name, "Identity Verification Approved", body)
}

func (s *emailService) SendVerificationDenied(ctx context.Context, email, name, reason string) error {
	body := fmt.Sprintf("Hello %s,\n\nUnfortunately your identity documents could not be approved.\n\nReason: %s\n\nYou may re-submit corrected documents at any time.\n\nBest regards,\nThe Roadshare Team", name, reason)
	return s.send(email, name, "Identity Verification Denied", body)
}

func (s *emailService) SendLockboxReleased(ctx context.Context, email, name string) error {
	body := fmt.Sprintf("Hello %s,\n\nThe lockbox for your rental vehicle has been released. Please document the vehicle condition with pickup photos before driving off.\n\nBest regards,\nThe Roadshare Team", name)
	return s.send(email, name, "Your Vehicle Is Ready", body)
}

func (s *emailService) SendDepositRefunded(ctx context.Context, email, name string, amountCents int32) error {
	body := fmt.Sprintf("Hello %s,\n\nYour security deposit of $%.2f has been refunded to your original payment method.\n\nBest regards,\nThe Roadshare Team", name, float64(amountCents)/100)
	return s.send(email, name, "Deposit Refunded", body)
}

func (s *emailService) SendDepositWithheld(ctx context.Context, email, name, reason string, amountCents int32) error {
	body := fmt.Sprintf("Hello %s,\n\n$%.2f of your security deposit has been withheld.\n\nReason: %s\n\nAny remainder has been refunded to your original payment method. Contact support to dispute this decision.\n\nBest regards,\nThe Roadshare Team", name, float64(amountCents)/100, reason)
	return s.send(email, name, "Deposit Partially Withheld", body)
}

func (s *emailService) SendReturnReminder(ctx context.Context, email, name, endDate string) error {
	body := fmt.Sprintf("Hello %s,\n\nA reminder that your rental is due back on %s. Please upload return photos and confirm the return in the app.\n\nBest regards,\nThe Roadshare Team", name, endDate)
	return s.send(email, name, "Rental Return Reminder", body)
}
