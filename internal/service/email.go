package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"rentloop-backend/internal/logger"
	"rentloop-backend/internal/utils"
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

func (s *emailService) send(ctx context.Context, to, subject, plainText string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, "")

	logger.ExternalServiceCall("sendgrid", "send", "subject", subject)
	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		logger.ExternalServiceResult("sendgrid", "send", err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
		logger.ExternalServiceResult("sendgrid", "send", err)
		return err
	}
	logger.ExternalServiceResult("sendgrid", "send", nil)
	return nil
}

func (s *emailService) SendBookingRequestedNotification(ctx context.Context, lenderEmail, renterName, listingTitle string) error {
	subject := fmt.Sprintf("New booking request: %s", listingTitle)
	body := fmt.Sprintf("%s wants to rent your %s.\n\nOpen the app to accept or decline the request.", renterName, listingTitle)
	return s.send(ctx, lenderEmail, subject, body)
}

func (s *emailService) SendBookingAcceptedNotification(ctx context.Context, renterEmail, lenderName, listingTitle string) error {
	subject := fmt.Sprintf("Booking accepted: %s", listingTitle)
	body := fmt.Sprintf("%s accepted your booking for %s.\n\nA delivery agent will bring the item on the start date.", lenderName, listingTitle)
	return s.send(ctx, renterEmail, subject, body)
}

func (s *emailService) SendBookingCancelledNotification(ctx context.Context, email, byName, listingTitle, reason string) error {
	subject := fmt.Sprintf("Booking cancelled: %s", listingTitle)
	body := fmt.Sprintf("%s cancelled the booking for %s.", byName, listingTitle)
	if reason != "" {
		body += fmt.Sprintf("\n\nReason: %s", reason)
	}
	return s.send(ctx, email, subject, body)
}

func (s *emailService) SendReturnInitiatedNotification(ctx context.Context, lenderEmail, renterName, listingTitle string, totalRefundCents int64) error {
	subject := fmt.Sprintf("Early return started: %s", listingTitle)
	body := fmt.Sprintf("%s has started an early return of %s.\n\nThe renter will be refunded %s once the item is back with you.",
		renterName, listingTitle, utils.FormatCents(totalRefundCents))
	return s.send(ctx, lenderEmail, subject, body)
}

func (s *emailService) SendDeliveredNotification(ctx context.Context, email, listingTitle string) error {
	subject := fmt.Sprintf("Delivered: %s", listingTitle)
	body := fmt.Sprintf("Your rental %s has been delivered. The rental period is now active.", listingTitle)
	return s.send(ctx, email, subject, body)
}

func (s *emailService) SendReturnedNotification(ctx context.Context, email, listingTitle string) error {
	subject := fmt.Sprintf("Returned: %s", listingTitle)
	body := fmt.Sprintf("Your item %s has been returned and the booking is complete.", listingTitle)
	return s.send(ctx, email, subject, body)
}

func (s *emailService) SendReturnReminderNotification(ctx context.Context, renterEmail, listingTitle, endDate string) error {
	subject := fmt.Sprintf("Return reminder: %s", listingTitle)
	body := fmt.Sprintf("Your rental of %s ends on %s.\n\nStart the return in the app to schedule a pickup and avoid late charges.", listingTitle, endDate)
	return s.send(ctx, renterEmail, subject, body)
}

func (s *emailService) SendOverdueNotification(ctx context.Context, renterEmail, listingTitle string, daysPastDue int, penaltyCents int64) error {
	subject := fmt.Sprintf("Overdue rental: %s", listingTitle)
	body := fmt.Sprintf("Your rental of %s is %d day(s) past due.\n\nThe late charge so far is %s. Please start the return as soon as possible.",
		listingTitle, daysPastDue, utils.FormatCents(penaltyCents))
	return s.send(ctx, renterEmail, subject, body)
}
