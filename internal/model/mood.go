package model

// MoodBand groups mood scores for display and enrichment
type MoodBand string

const (
	MoodLow      MoodBand = "low"      // score <= 3
	MoodModerate MoodBand = "moderate" // score <= 6
	MoodGood     MoodBand = "good"     // score < 9
	MoodGreat    MoodBand = "great"    // 9 and above
)

// BandFor classifies an unrounded mood score.
func BandFor(score float64) MoodBand {
	switch {
	case score <= 3:
		return MoodLow
	case score <= 6:
		return MoodModerate
	case score < 9:
		return MoodGood
	default:
		return MoodGreat
	}
}
