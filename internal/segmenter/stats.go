package segmenter

import "github.com/nguyentantai21042004/slidecast/internal/models"

// Stats summarizes a slide sequence.
type Stats struct {
	TotalSlides             int     `json:"total_slides"`
	TotalWords              int     `json:"total_words"`
	TotalDuration           float64 `json:"total_duration"`
	AverageWordsPerSlide    float64 `json:"average_words_per_slide"`
	AverageDurationPerSlide float64 `json:"average_duration_per_slide"`
}

// EstimateDuration sums the planned slide durations.
func EstimateDuration(slides []models.Slide) float64 {
	var total float64
	for _, s := range slides {
		total += s.DurationSeconds
	}
	return total
}

// ComputeStats totals words and durations across slides.
func ComputeStats(slides []models.Slide) Stats {
	st := Stats{
		TotalSlides:   len(slides),
		TotalDuration: EstimateDuration(slides),
	}
	for _, s := range slides {
		st.TotalWords += s.WordCount()
	}
	if len(slides) > 0 {
		st.AverageWordsPerSlide = float64(st.TotalWords) / float64(len(slides))
		st.AverageDurationPerSlide = st.TotalDuration / float64(len(slides))
	}
	return st
}
