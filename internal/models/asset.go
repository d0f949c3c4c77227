package models

// ImageAsset references a rendered slide image.
type ImageAsset struct {
	Path string `json:"path"`
}

// AudioAsset references a narration track and its measured duration.
type AudioAsset struct {
	Path            string  `json:"path"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// VideoAsset is the composed output. Degraded is set when the fallback
// video was produced instead of the full slideshow.
type VideoAsset struct {
	Path            string  `json:"path"`
	DurationSeconds float64 `json:"duration_seconds"`
	Degraded        bool    `json:"degraded"`
	Reason          string  `json:"reason,omitempty"`
}
