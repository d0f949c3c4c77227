package gemini

import (
	"context"
	"errors"
)

// ErrNoAPIKeys is returned when the client has no key to call Gemini with.
var ErrNoAPIKeys = errors.New("no Gemini API keys configured")

// Client is a Gemini client that rotates through its API keys on quota
// errors.
type Client interface {
	// GenerateText sends prompt to the text model and returns the joined
	// text parts. With jsonArray set the model is asked for a JSON array
	// of strings.
	GenerateText(ctx context.Context, prompt string, jsonArray bool) (string, error)

	// Speak synthesizes text with the speech model and returns raw 16-bit
	// little-endian mono PCM at SampleRate.
	Speak(ctx context.Context, text, voice, language string) ([]byte, error)
}

// SampleRate is the PCM sample rate of Speak output.
const SampleRate = 24000
