package voice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeRecognizer scripts one recognition behavior per test.
type fakeRecognizer struct {
	text  string
	err   error
	block bool // wait for the context deadline instead of answering
}

func (f *fakeRecognizer) Recognize(ctx context.Context, audio []byte, lang string) (string, error) {
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.text, f.err
}

func TestCapture_Recognized(t *testing.T) {
	in := NewIntake(&fakeRecognizer{text: "what color is the sky"}, time.Second)
	out := in.Capture(context.Background(), []byte("audio"), "en-US")

	assert.Equal(t, Recognized, out.Kind)
	assert.Equal(t, "what color is the sky", out.Text)
	assert.Equal(t, "what color is the sky", out.Sentence())
}

func TestCapture_EmptyTranscriptNotUnderstood(t *testing.T) {
	in := NewIntake(&fakeRecognizer{text: "   "}, time.Second)
	out := in.Capture(context.Background(), []byte("audio"), "")

	assert.Equal(t, NotUnderstood, out.Kind)
	assert.Equal(t, "Sorry, I couldn't understand your question.", out.Sentence())
}

func TestCapture_TransportFaultServiceUnavailable(t *testing.T) {
	in := NewIntake(&fakeRecognizer{err: errors.New("connection refused")}, time.Second)
	out := in.Capture(context.Background(), []byte("audio"), "")

	assert.Equal(t, ServiceUnavailable, out.Kind)
	assert.Equal(t, "Speech recognition service is not available.", out.Sentence())
}

func TestCapture_TimeoutDeterministic(t *testing.T) {
	in := NewIntake(&fakeRecognizer{block: true}, 30*time.Millisecond)

	start := time.Now()
	out := in.Capture(context.Background(), []byte("audio"), "")

	assert.Equal(t, TimedOut, out.Kind)
	assert.Equal(t, "Listening timed out. Try again.", out.Sentence())
	assert.Less(t, time.Since(start), time.Second, "capture must return once the timeout elapses")
}

func TestNewIntake_DefaultTimeout(t *testing.T) {
	in := NewIntake(&fakeRecognizer{}, 0)
	assert.Equal(t, DefaultTimeout, in.timeout)
}
