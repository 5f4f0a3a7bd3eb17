package service

import (
	"context"
	"fmt"

	"vehicle-rental-agency/internal/domain"
	"vehicle-rental-agency/internal/logger"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// mailSender is satisfied by *sendgrid.Client.
type mailSender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

type sendGridEmailService struct {
	client    mailSender
	fromEmail string
	fromName  string
}

func NewSendGridEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &sendGridEmailService{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *sendGridEmailService) SendRentalReceipt(ctx context.Context, email, name string, tx *domain.RentalTransaction) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(name, email)
	subject := fmt.Sprintf("Your rental receipt - %s", tx.VehicleModel)

	plain := fmt.Sprintf(
		"Hello %s,\n\nThank you for renting with us.\n\n%s\n\nBest regards,\n%s",
		name, tx.String(), s.fromName,
	)
	html := fmt.Sprintf(`<p>Hello %s,</p>
<p>Thank you for renting with us.</p>
<table>
<tr><td>Transaction</td><td>%s</td></tr>
<tr><td>Vehicle</td><td>%s (%s)</td></tr>
<tr><td>Days</td><td>%d</td></tr>
<tr><td>Total</td><td>%s</td></tr>
</table>
<p>Best regards,<br>%s</p>`,
		name, tx.ID, tx.VehicleModel, tx.VehicleID, tx.Days, tx.TotalCost.StringFixed(2), s.fromName,
	)

	message := mail.NewSingleEmail(from, subject, to, plain, html)

	logger.ExternalServiceCall("SendGrid", "SendRentalReceipt", "to", email, "transactionID", tx.ID)
	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		logger.ExternalServiceResult("SendGrid", "SendRentalReceipt", err)
		return fmt.Errorf("failed to send rental receipt via sendgrid: %w", err)
	}
	if resp.StatusCode >= 400 {
		err := fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
		logger.ExternalServiceResult("SendGrid", "SendRentalReceipt", err)
		return err
	}
	logger.ExternalServiceResult("SendGrid", "SendRentalReceipt", nil, "status", resp.StatusCode)
	return nil
}

type noopEmailService struct{}

// NewNoopEmailService returns an EmailService that only logs receipts.
func NewNoopEmailService() EmailService {
	return noopEmailService{}
}

func (noopEmailService) SendRentalReceipt(ctx context.Context, email, name string, tx *domain.RentalTransaction) error {
	logger.Debug("Receipt email disabled, skipping", "to", email, "transactionID", tx.ID)
	return nil
}
