package speech

import (
	"context"
	"errors"

	"github.com/nguyentantai21042004/slidecast/internal/models"
)

// ErrNoAudio is returned when no chunk of the narration could be
// synthesized by any provider.
var ErrNoAudio = errors.New("no narration audio generated")

// Synthesizer turns narration text into a single audio track.
type Synthesizer interface {
	// Synthesize writes the narration to req.OutputPath. The returned
	// duration is measured from the written file.
	Synthesize(ctx context.Context, req Request) (models.AudioAsset, error)
}

// Request describes one narration.
type Request struct {
	Text        string
	VoiceSample string
	Language    string
	OutputPath  string
}

// Provider is one ranked speech capability. Providers write a WAV file to
// out or return an error; the synthesizer moves on to the next one.
type Provider interface {
	Name() string
	Synthesize(ctx context.Context, text, language, out string) error
}

// SupportedLanguages lists the narration language codes accepted by
// Synthesize. Anything else falls back to English.
var SupportedLanguages = []string{
	"en", "es", "fr", "de", "it", "pt", "pl", "tr", "ru",
	"nl", "cs", "ar", "zh-cn", "ja", "hu", "ko", "hi",
}

// IsSupportedLanguage reports whether code is in SupportedLanguages.
func IsSupportedLanguage(code string) bool {
	for _, l := range SupportedLanguages {
		if l == code {
			return true
		}
	}
	return false
}
