package voice

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/docuvoice/docuvoice/internal/core"
)

// Kind tags the outcome of one capture attempt. Every failure mode maps to a
// distinct variant so callers branch on outcome instead of inspecting errors.
type Kind int

const (
	Recognized Kind = iota
	NotUnderstood
	ServiceUnavailable
	TimedOut
)

// Outcome is the result of one voice capture: either a transcript or exactly
// one of the three failure variants.
type Outcome struct {
	Kind Kind
	Text string
}

// Sentence renders the outcome as the line shown (and spoken) to the user.
func (o Outcome) Sentence() string {
	switch o.Kind {
	case Recognized:
		return o.Text
	case NotUnderstood:
		return "Sorry, I couldn't understand your question."
	case ServiceUnavailable:
		return "Speech recognition service is not available."
	case TimedOut:
		return "Listening timed out. Try again."
	}
	return ""
}

// DefaultTimeout bounds a single capture attempt.
const DefaultTimeout = 5 * time.Second

// Intake converts captured audio to text through an external recognizer,
// bounded by a timeout. No retries: every attempt returns exactly one Outcome.
type Intake struct {
	recognizer core.SpeechRecognizer
	timeout    time.Duration
}

func NewIntake(recognizer core.SpeechRecognizer, timeout time.Duration) *Intake {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Intake{recognizer: recognizer, timeout: timeout}
}

// Capture transcribes audio. The recognizer call is cut off at the configured
// timeout and reported as TimedOut; transport faults become ServiceUnavailable;
// an empty transcript becomes NotUnderstood.
func (in *Intake) Capture(ctx context.Context, audio []byte, lang string) Outcome {
	cctx, cancel := context.WithTimeout(ctx, in.timeout)
	defer cancel()

	text, err := in.recognizer.Recognize(cctx, audio, lang)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(cctx.Err(), context.DeadlineExceeded) {
			return Outcome{Kind: TimedOut}
		}
		return Outcome{Kind: ServiceUnavailable}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return Outcome{Kind: NotUnderstood}
	}
	return Outcome{Kind: Recognized, Text: text}
}
