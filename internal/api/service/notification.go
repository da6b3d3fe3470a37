package service

import (
	"context"
	"log/slog"
)

// Notifier is the email-delivery collaborator. The server only hands it
// (recipient, code); the transport itself lives outside this system.
type Notifier interface {
	SendConfirmationCode(ctx context.Context, email, code string) error
}

// logNotifier is the development transport: it writes the message it
// would have mailed to the structured log.
type logNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) Notifier {
	return &logNotifier{logger: logger}
}

func (n *logNotifier) SendConfirmationCode(ctx context.Context, email, code string) error {
	n.logger.Info("sending confirmation email",
		"recipient", email,
		"subject", "Confirmation code",
		"body", "Your confirmation code: "+code,
	)
	return nil
}
