package email

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/resendlabs/resend-go"
	"go.uber.org/zap"
)

type Attachment struct {
	Filename string
	Content  []byte
}

type Message struct {
	To         string
	Subject    string
	HTML       string
	Attachment *Attachment
}

type EmailService struct {
	client   *resend.Client
	from     string
	fromName string
	logger   *zap.Logger
}

func NewEmailService(apiKey, fromAddress, fromName string, logger *zap.Logger) *EmailService {
	return &EmailService{
		client:   resend.NewClient(apiKey),
		from:     fromAddress,
		fromName: fromName,
		logger:   logger,
	}
}

// Send delivers one email to one address. The Resend call is all-or-nothing;
// any failure is returned so the caller can decide whether to retry.
func (s *EmailService) Send(_ context.Context, msg Message) error {
	params := &resend.SendEmailRequest{
		From:    s.fromName + " <" + s.from + ">",
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	}

	if msg.Attachment != nil {
		params.Attachments = []resend.Attachment{
			{
				Filename: msg.Attachment.Filename,
				Content:  base64.StdEncoding.EncodeToString(msg.Attachment.Content),
			},
		}
	}

	resp, err := s.client.Emails.Send(params)
	if err != nil {
		s.logger.Error("failed to send email",
			zap.String("to", Mask(msg.To)),
			zap.String("subject", msg.Subject),
			zap.Error(err))
		return fmt.Errorf("email: send to %s failed: %w", Mask(msg.To), err)
	}

	s.logger.Info("email sent",
		zap.String("to", Mask(msg.To)),
		zap.String("subject", msg.Subject),
		zap.String("id", resp.Id))
	return nil
}
