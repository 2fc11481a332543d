// Package mail delivers account emails. The production transport is swapped
// in behind Sender; the default LogSender writes the links to the server log,
// which is enough for development and tests.
package mail

import (
	"context"

	"github.com/avolkovs/daykeeper/internal/logging"
)

type Sender interface {
	SendVerification(ctx context.Context, email, token string) error
	SendReset(ctx context.Context, email, token string) error
}

type LogSender struct {
	logger logging.Logger
}

func NewLogSender(logger logging.Logger) *LogSender {
	return &LogSender{logger: logger.With("component", "mail")}
}

func (s *LogSender) SendVerification(ctx context.Context, email, token string) error {
	s.logger.Info(ctx, "verification mail", "email", email, "token", token)
	return nil
}

func (s *LogSender) SendReset(ctx context.Context, email, token string) error {
	s.logger.Info(ctx, "password reset mail", "email", email, "token", token)
	return nil
}
