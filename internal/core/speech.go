package core

import "context"

// SpeechSynthesizer turns one bounded piece of text into encoded audio (MP3).
// Callers are responsible for splitting text to the backend's request limit.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text, lang string) ([]byte, error)
}

// SpeechRecognizer transcribes captured audio. An empty transcript with a nil
// error means the service heard nothing it could understand.
type SpeechRecognizer interface {
	Recognize(ctx context.Context, audio []byte, lang string) (string, error)
}

// Translator translates text into the target language, detecting the source.
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}
