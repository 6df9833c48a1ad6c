package audio

import (
	"math"
)

const (
	baseFreq = 55.0
	maxFreq  = 440.0
)

// Synth is a detuned triangle pair through a one-pole low pass and a short
// ping-pong delay. Pitch rises with the square root of tension, as for a
// plucked string.
type Synth struct {
	rate      float64
	phase     [2]float64
	freq      float64
	level     float64
	filter    [2]float64
	delay     [2][]float64
	delayHead int
}

func NewSynth(rate int) *Synth {
	delayLen := int(float64(rate) * 0.3)
	return &Synth{
		rate:  float64(rate),
		freq:  baseFreq,
		delay: [2][]float64{make([]float64, delayLen), make([]float64, delayLen)},
	}
}

// Pitch maps a tension to the hum frequency in Hz.
func Pitch(tension float64) float64 {
	if tension <= 0 || math.IsNaN(tension) {
		return baseFreq
	}
	return math.Min(baseFreq*(1+math.Sqrt(tension)), maxFreq)
}

// Triangle Wave: Smooth, flute-like, no harsh buzz
func triangle(phase float64) float64 {
	p := phase - math.Floor(phase)
	return 4.0*math.Abs(p-0.5) - 1.0
}

// Low Pass Filter (One Pole)
func lpf(sample, cutoff, dt, state float64) float64 {
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	alpha := dt / (rc + dt)
	return state + alpha*(sample-state)
}

// Fill writes one stereo buffer. Frequency and loudness glide toward their
// targets so frame-rate updates do not click.
func (s *Synth) Fill(out [][]float32, tension, energy float64) {
	if len(out) < 2 {
		return
	}
	target := Pitch(tension)
	loud := 0.0
	if energy > 0 && !math.IsInf(energy, 0) {
		loud = math.Min(math.Log1p(energy)/10, 1)
	}
	dt := 1.0 / s.rate
	cutoff := 300.0 + 900.0*loud
	want := 0.1 + 0.9*loud

	for i := range out[0] {
		s.freq += (target - s.freq) * 0.001
		s.level += (want - s.level) * 0.0005

		var mix [2]float64
		for ch, detune := range [2]float64{0.998, 1.002} {
			s.phase[ch] += s.freq * detune * dt
			if s.phase[ch] >= 1 {
				s.phase[ch] -= math.Floor(s.phase[ch])
			}
			s.filter[ch] = lpf(triangle(s.phase[ch]), cutoff, dt, s.filter[ch])
			mix[ch] = s.filter[ch]
		}

		if n := len(s.delay[0]); n > 0 {
			dl, dr := s.delay[0][s.delayHead], s.delay[1][s.delayHead]
			mix[0] += dl*0.3 + dr*0.1
			mix[1] += dr*0.3 + dl*0.1
			s.delay[0][s.delayHead] = mix[0] * 0.5
			s.delay[1][s.delayHead] = mix[1] * 0.5
			s.delayHead = (s.delayHead + 1) % n
		}

		out[0][i] = float32(mix[0] * s.level * 0.25)
		out[1][i] = float32(mix[1] * s.level * 0.25)
	}
}
