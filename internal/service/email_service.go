package service

import (
	"context"
	"fmt"
	"html"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// EmailService sends admin notifications via Amazon SES. When no sender
// address is configured it runs disabled and sends become logged no-ops.
type EmailService struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	adminEmail string
	enabled    bool
	debug      bool
}

// NewEmailService creates a new email service.
func NewEmailService(awsRegion, fromEmail, fromName, adminEmail string, debug bool) (*EmailService, error) {
	if fromEmail == "" || adminEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL or ADMIN_EMAIL not configured")
		return &EmailService{enabled: false, debug: debug}, nil
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)
	return &EmailService{
		client:     sesv2.NewFromConfig(cfg),
		fromEmail:  fromEmail,
		fromName:   fromName,
		adminEmail: adminEmail,
		enabled:    true,
		debug:      debug,
	}, nil
}

// IsEnabled returns whether the email service is enabled.
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// NotifyFeedback emails the admin about a new feedback submission.
func (s *EmailService) NotifyFeedback(ctx context.Context, name, email, message string) error {
	subject := fmt.Sprintf("New Joyverse feedback from %s", name)
	textBody := fmt.Sprintf("From: %s <%s>\n\n%s", name, email, message)
	htmlBody := fmt.Sprintf("<p><b>From:</b> %s &lt;%s&gt;</p><p>%s</p>",
		html.EscapeString(name), html.EscapeString(email), html.EscapeString(message))
	return s.sendEmail(ctx, s.adminEmail, subject, htmlBody, textBody)
}

// NotifyQuestion emails the admin about a new FAQ submission.
func (s *EmailService) NotifyQuestion(ctx context.Context, name, email, question string) error {
	subject := fmt.Sprintf("New Joyverse question from %s", name)
	textBody := fmt.Sprintf("From: %s <%s>\n\n%s", name, email, question)
	htmlBody := fmt.Sprintf("<p><b>From:</b> %s &lt;%s&gt;</p><p>%s</p>",
		html.EscapeString(name), html.EscapeString(email), html.EscapeString(question))
	return s.sendEmail(ctx, s.adminEmail, subject, htmlBody, textBody)
}

// sendEmail sends an email using Amazon SES.
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): %s", subject)
		return nil
	}

	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	if s.debug && result.MessageId != nil {
		log.Printf("[DEBUG] SES message ID: %s", *result.MessageId)
	}
	log.Printf("Email sent: to=%s, subject=%s", toEmail, subject)
	return nil
}
