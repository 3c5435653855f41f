package mood

const (
	insightHighDanceability = "You're drawn to highly danceable music - you might be feeling energetic and ready to move!"
	insightLowDanceability  = "Your recent tracks are less danceable - you might prefer more contemplative or relaxing music right now."
	insightAcoustic         = "You're gravitating toward acoustic music, suggesting a desire for authenticity and raw emotion."
	insightInstrumental     = "You're choosing more instrumental music - perhaps seeking focus, relaxation, or emotional processing without words."
	insightHighTempo        = "Your music tempo is quite high - you might be feeling energetic or need motivation!"
	insightLowTempo         = "You're preferring slower-paced music, which might indicate a need for calm and reflection."
)

// Insights returns observations about the averaged features, in rule order:
// danceability, acousticness, instrumentalness, tempo.
//
// A feature that was never measured averages to 0 and therefore counts as
// "low" (for example tempo < 90).
func Insights(avg Averages) []string {
	insights := []string{}

	if avg.Danceability > 0.7 {
		insights = append(insights, insightHighDanceability)
	} else if avg.Danceability < 0.3 {
		insights = append(insights, insightLowDanceability)
	}

	if avg.Acousticness > 0.6 {
		insights = append(insights, insightAcoustic)
	}

	if avg.Instrumentalness > 0.5 {
		insights = append(insights, insightInstrumental)
	}

	if avg.Tempo > 140 {
		insights = append(insights, insightHighTempo)
	} else if avg.Tempo < 90 {
		insights = append(insights, insightLowTempo)
	}

	return insights
}
