package email

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"go.uber.org/zap"

	"catalog-backend/application/ports"
	apperrors "catalog-backend/pkg/errors"
)

// SESSender implements ports.EmailSender on SES.
type SESSender struct {
	client          *sesv2.Client
	senderAddress   string
	approverAddress string
	logger          *zap.Logger
}

// NewSESSender creates an SES-backed notification sender.
func NewSESSender(client *sesv2.Client, senderAddress, approverAddress string, logger *zap.Logger) *SESSender {
	return &SESSender{
		client:          client,
		senderAddress:   senderAddress,
		approverAddress: approverAddress,
		logger:          logger,
	}
}

// SendApprovalRequested notifies the approvers inbox that a change request
// is waiting.
func (s *SESSender) SendApprovalRequested(ctx context.Context, notice ports.ApprovalNotice) error {
	if s.approverAddress == "" {
		s.logger.Debug("no approver address configured, skipping notification")
		return nil
	}
	subject := fmt.Sprintf("[catalog] %s %q needs approval", notice.Kind, notice.Name)
	body := fmt.Sprintf(
		"A %s change request is waiting for review.\n\nRecord: %s (%s)\nStatus: %s\nRequested by: %s\n",
		notice.Kind, notice.Name, notice.RecordID, notice.Status, notice.Requester,
	)
	return s.send(ctx, s.approverAddress, subject, body)
}

// SendApprovalResolved notifies the requester of the approve/deny outcome.
func (s *SESSender) SendApprovalResolved(ctx context.Context, notice ports.ApprovalNotice) error {
	if notice.Requester == "" {
		return nil
	}
	subject := fmt.Sprintf("[catalog] %s %q change request resolved", notice.Kind, notice.Name)
	body := fmt.Sprintf(
		"Your change request was resolved.\n\nRecord: %s (%s)\nOutcome: %s\nResolved by: %s\n",
		notice.Name, notice.RecordID, notice.Status, notice.Resolver,
	)
	return s.send(ctx, notice.Requester, subject, body)
}

func (s *SESSender) send(ctx context.Context, to, subject, body string) error {
	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.senderAddress),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		},
	})
	if err != nil {
		return apperrors.NewExternalError("ses", err)
	}
	s.logger.Debug("notification sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}
