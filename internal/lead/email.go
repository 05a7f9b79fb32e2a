package lead

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailSink forwards leads to the sales team via SendGrid
type EmailSink struct {
	apiKey     string
	salesEmail string
}

// NewEmailSink creates a new SendGrid-backed lead sink
func NewEmailSink(apiKey, salesEmail string) *EmailSink {
	if salesEmail == "" {
		salesEmail = "sales@swansorter.com"
	}
	return &EmailSink{
		apiKey:     apiKey,
		salesEmail: salesEmail,
	}
}

// Submit sends the lead to the sales team and CCs the customer
func (s *EmailSink) Submit(ctx context.Context, l Lead) error {
	if s.apiKey == "" {
		return fmt.Errorf("SendGrid API key not configured")
	}

	from := mail.NewEmail("SwanSorter Chat", "noreply@swansorter.com")
	to := mail.NewEmail("Sales Team", s.salesEmail)
	cc := mail.NewEmail(l.Name, l.Email)

	subject := "New Enquiry - Chat Widget"

	phone := l.Phone
	if phone == "" {
		phone = "not provided"
	}

	body := fmt.Sprintf(`A visitor submitted an enquiry through the chat widget.

Name: %s
Email: %s
Phone: %s
Language: %s
Session: %s
Timestamp: %s

Message:
%s`, l.Name, l.Email, phone, l.Language, l.SessionID, l.SubmittedAt.Format(time.RFC3339), l.Message)

	message := mail.NewSingleEmail(from, subject, to, body, body)

	// Add CC recipient using Personalizations
	if len(message.Personalizations) > 0 {
		message.Personalizations[0].AddCCs(cc)
	}

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	if response.StatusCode >= 400 {
		return fmt.Errorf("SendGrid API error: status %d, body: %s", response.StatusCode, response.Body)
	}

	return nil
}
