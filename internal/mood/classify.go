package mood

// Mood is one of the fixed labels assigned by the classifier.
type Mood string

// Mood labels.
const (
	Neutral     Mood = "neutral"
	Euphoric    Mood = "euphoric"
	Happy       Mood = "happy"
	Content     Mood = "content"
	Melancholic Mood = "melancholic"
	Sad         Mood = "sad"
	Aggressive  Mood = "aggressive"
)

// Messages attached to each classification branch.
const (
	encouragementEuphoric = "You're radiating incredible positive energy! Your music choices show you're in an amazing headspace. Keep riding this wave of joy!"
	encouragementHappy    = "Your mood is bright and uplifting! You're choosing music that reflects a positive outlook. This energy is contagious - spread it around!"
	encouragementContent  = "You seem to be in a peaceful, balanced state. Your music reflects contentment and stability. This is a wonderful foundation for growth!"
	adviceMelancholic     = "Your music suggests you might be going through a tough time. It's okay to feel this way - emotions are valid. Consider reaching out to someone you trust, or try some uplifting activities."
	adviceSad             = "Your recent listening patterns indicate you may be feeling down. Remember that difficult emotions are temporary. Consider talking to a friend, going for a walk, or engaging in self-care activities. If these feelings persist, professional support can be very helpful."
	adviceAggressive      = "Your music choices suggest high energy but possibly some frustration. Channel this energy positively - maybe through exercise, creative expression, or problem-solving."
	encouragementNeutral  = "Your mood seems balanced and stable. You're in a good position to make positive changes or tackle new challenges!"
)

// Classification is the mood assigned to a batch of averaged features.
// Exactly one of Advice and Encouragement is set when Features.Count > 0.
type Classification struct {
	Mood          Mood     `json:"mood"`
	Confidence    float64  `json:"confidence"`
	Features      Averages `json:"features"`
	Advice        string   `json:"advice,omitempty"`
	Encouragement string   `json:"encouragement,omitempty"`
}

// Positive reports whether the classification carries encouragement
// rather than advice.
func (c Classification) Positive() bool {
	return c.Encouragement != ""
}

// Classify assigns a mood from average valence and energy.
//
// The rules are checked in order and the first match wins, so overlapping
// ranges resolve to the earlier rule (valence 0.55 / energy 0.55 is happy,
// not content). Confidence is a fixed value per rule.
func Classify(avg Averages) Classification {
	if avg.Count == 0 {
		return Classification{Mood: Neutral, Confidence: 0}
	}

	c := Classification{Features: avg}
	v, e := avg.Valence, avg.Energy

	if v > 0.6 && e > 0.6 {
		c.Mood, c.Confidence, c.Encouragement = Euphoric, 0.9, encouragementEuphoric
	} else if v > 0.5 && e > 0.5 {
		c.Mood, c.Confidence, c.Encouragement = Happy, 0.8, encouragementHappy
	} else if v > 0.4 && e > 0.4 {
		c.Mood, c.Confidence, c.Encouragement = Content, 0.7, encouragementContent
	} else if v < 0.3 && e < 0.4 {
		c.Mood, c.Confidence, c.Advice = Melancholic, 0.8, adviceMelancholic
	} else if v < 0.4 && e < 0.3 {
		c.Mood, c.Confidence, c.Advice = Sad, 0.85, adviceSad
	} else if e > 0.7 && v < 0.5 {
		c.Mood, c.Confidence, c.Advice = Aggressive, 0.75, adviceAggressive
	} else {
		c.Mood, c.Confidence, c.Encouragement = Neutral, 0.6, encouragementNeutral
	}

	return c
}
