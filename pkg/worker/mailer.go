package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/clinovia/portal-api/internal/email"
	"github.com/clinovia/portal-api/internal/model"
	"github.com/clinovia/portal-api/pkg/logger"
	"github.com/clinovia/portal-api/pkg/messaging"
)

// Mailer consumes invitation.created events off the broker and sends the
// invitation email. Delivery is at-least-once; a re-sent invitation email
// is harmless.
type Mailer struct {
	broker messaging.Broker
	email  email.Service
	logger *logger.Logger
}

func NewMailer(broker messaging.Broker, emailSvc email.Service, logger *logger.Logger) *Mailer {
	return &Mailer{
		broker: broker,
		email:  emailSvc,
		logger: logger,
	}
}

func (m *Mailer) Start(ctx context.Context) error {
	messages, err := m.broker.Subscribe(ctx, model.EventInvitationCreated)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", model.EventInvitationCreated, err)
	}

	m.logger.Info("Starting invitation mailer")

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("Shutting down invitation mailer")
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			m.handle(msg)
		}
	}
}

func (m *Mailer) handle(msg []byte) {
	var payload model.InvitationEmailPayload
	if err := json.Unmarshal(msg, &payload); err != nil {
		m.logger.Error(err, "Failed to decode invitation payload")
		return
	}

	if err := m.email.SendInvitation(&payload); err != nil {
		m.logger.Error(err, "Failed to send invitation email", "email", payload.Email)
		return
	}

	m.logger.Info("Invitation email sent", "email", payload.Email)
}
