package services

import (
	"context"
	"fmt"

	"showwise/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// Mail providers
const (
	MailSendGrid = "sendgrid"
	MailSES      = "ses"
	MailNoop     = "noop"
)

// Message is a single e-mail to one recipient
type Message struct {
	ToAddress string
	ToName    string
	Subject   string
	HTML      string
	Text      string
}

// Mailer delivers e-mail
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// NewMailer creates a mailer from config. Unknown or empty providers fall back to noop.
func NewMailer(cfg config.MailConfig, log *zap.Logger) Mailer {
	switch cfg.Provider {
	case MailSendGrid:
		return &sendGridMailer{
			client:      sendgrid.NewSendClient(cfg.SendGridAPIKey),
			fromAddress: cfg.FromAddress,
			fromName:    cfg.FromName,
		}
	case MailSES:
		awsCfg := aws.Config{
			Region: cfg.AWSRegion,
			Credentials: aws.NewCredentialsCache(
				credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretKey, ""),
			),
		}
		return &sesMailer{
			client:      ses.NewFromConfig(awsCfg),
			fromAddress: cfg.FromAddress,
			fromName:    cfg.FromName,
		}
	case MailNoop, "":
		return &noopMailer{log: log}
	default:
		log.Warn("unknown mail provider, using noop", zap.String("provider", cfg.Provider))
		return &noopMailer{log: log}
	}
}

type sendGridMailer struct {
	client      *sendgrid.Client
	fromAddress string
	fromName    string
}

func (s *sendGridMailer) Send(ctx context.Context, msg Message) error {
	from := mail.NewEmail(s.fromName, s.fromAddress)
	to := mail.NewEmail(msg.ToName, msg.ToAddress)
	message := mail.NewSingleEmail(from, msg.Subject, to, msg.Text, msg.HTML)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email via sendgrid: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("failed to send email to %s: %d", msg.ToAddress, response.StatusCode)
	}
	return nil
}

type sesMailer struct {
	client      *ses.Client
	fromAddress string
	fromName    string
}

func (s *sesMailer) Send(ctx context.Context, msg Message) error {
	source := s.fromAddress
	if s.fromName != "" {
		source = fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)
	}
	input := &ses.SendEmailInput{
		Source:      aws.String(source),
		Destination: &types.Destination{ToAddresses: []string{msg.ToAddress}},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
			Body:    &types.Body{},
		},
	}
	if msg.HTML != "" {
		input.Message.Body.Html = &types.Content{Data: aws.String(msg.HTML), Charset: aws.String("UTF-8")}
	}
	if msg.Text != "" {
		input.Message.Body.Text = &types.Content{Data: aws.String(msg.Text), Charset: aws.String("UTF-8")}
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email via SES: %w", err)
	}
	return nil
}

type noopMailer struct {
	log *zap.Logger
}

func (n *noopMailer) Send(_ context.Context, msg Message) error {
	n.log.Debug("email would be sent (noop)", zap.String("to", msg.ToAddress), zap.String("subject", msg.Subject))
	return nil
}
