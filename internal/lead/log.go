package lead

import (
	"context"

	"github.com/rs/zerolog"
)

// LogSink records leads to the application log. Used when no SendGrid
// key is configured so enquiry submission still completes.
type LogSink struct {
	logger zerolog.Logger
}

func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Submit(ctx context.Context, l Lead) error {
	s.logger.Info().
		Str("name", l.Name).
		Str("email", l.Email).
		Str("phone", l.Phone).
		Str("language", l.Language).
		Str("session_id", l.SessionID).
		Str("message", l.Message).
		Msg("Enquiry submitted")
	return nil
}
