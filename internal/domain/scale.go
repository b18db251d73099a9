package domain

// Bucket is the qualitative label of a 1-10 scale value.
type Bucket string

const (
	BucketLow      Bucket = "low"
	BucketModerate Bucket = "moderate"
	BucketHigh     Bucket = "high"
)

// ScaleBuckets holds the inclusive upper bounds of the low and moderate
// buckets. Values above ModerateMax are high.
type ScaleBuckets struct {
	LowMax      int `json:"lowMax"`
	ModerateMax int `json:"moderateMax"`
}

// DefaultScaleBuckets are the display thresholds used when none are configured.
var DefaultScaleBuckets = ScaleBuckets{LowMax: 3, ModerateMax: 6}

func (b ScaleBuckets) Bucket(v int) Bucket {
	switch {
	case v <= b.LowMax:
		return BucketLow
	case v <= b.ModerateMax:
		return BucketModerate
	default:
		return BucketHigh
	}
}

// Scale names one of the four assessment scales.
type Scale string

const (
	ScaleFatigue    Scale = "fatigue"
	ScalePain       Scale = "pain"
	ScaleMotivation Scale = "motivation"
	ScaleEnergy     Scale = "energy"
)

// Polarity tells whether a low reading on a scale is good news.
type Polarity int

const (
	LowIsGood Polarity = iota
	HighIsGood
)

func (s Scale) Polarity() Polarity {
	if s == ScaleFatigue || s == ScalePain {
		return LowIsGood
	}
	return HighIsGood
}

// Tone is the display sentiment of a bucket once polarity is applied.
type Tone string

const (
	ToneGood    Tone = "good"
	ToneNeutral Tone = "neutral"
	ToneBad     Tone = "bad"
)

// ScaleReading is a labelled scale value, ready for display.
type ScaleReading struct {
	Scale  Scale  `json:"scale"`
	Value  int    `json:"value"`
	Bucket Bucket `json:"bucket"`
	Tone   Tone   `json:"tone"`
}

// Read labels v for the given scale.
func (b ScaleBuckets) Read(s Scale, v int) ScaleReading {
	bucket := b.Bucket(v)
	tone := ToneNeutral
	switch {
	case bucket == BucketLow && s.Polarity() == LowIsGood,
		bucket == BucketHigh && s.Polarity() == HighIsGood:
		tone = ToneGood
	case bucket == BucketLow, bucket == BucketHigh:
		tone = ToneBad
	}
	return ScaleReading{Scale: s, Value: v, Bucket: bucket, Tone: tone}
}

// Readings labels the four scales of an assessment.
func (b ScaleBuckets) Readings(a FitnessAssessment) []ScaleReading {
	return []ScaleReading{
		b.Read(ScaleFatigue, a.FatigueLevel),
		b.Read(ScalePain, a.PainLevel),
		b.Read(ScaleMotivation, a.MotivationLevel),
		b.Read(ScaleEnergy, a.EnergyLevel),
	}
}
