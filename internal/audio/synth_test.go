package audio

import (
	"math"
	"testing"
)

func TestPitch(t *testing.T) {
	if Pitch(0) != baseFreq || Pitch(-1) != baseFreq || Pitch(math.NaN()) != baseFreq {
		t.Error("slack chain should hum at the base frequency")
	}
	if Pitch(4) <= Pitch(1) {
		t.Error("pitch should rise with tension")
	}
	if Pitch(1e9) != maxFreq {
		t.Errorf("pitch should be capped, got %f", Pitch(1e9))
	}
}

func TestSynthFillBounded(t *testing.T) {
	s := NewSynth(8000)
	out := [][]float32{make([]float32, 4096), make([]float32, 4096)}

	for i := 0; i < 10; i++ {
		s.Fill(out, 50, 1e6)
	}
	for ch := range out {
		for i, v := range out[ch] {
			if math.IsNaN(float64(v)) || math.Abs(float64(v)) > 1 {
				t.Fatalf("sample %d on channel %d out of range: %f", i, ch, v)
			}
		}
	}
}

func TestSynthGlidesTowardPitch(t *testing.T) {
	s := NewSynth(8000)
	out := [][]float32{make([]float32, 8000), make([]float32, 8000)}
	s.Fill(out, 9, 1)

	if math.Abs(s.freq-Pitch(9)) > 1 {
		t.Errorf("expected frequency near %f after a second, got %f", Pitch(9), s.freq)
	}
}

func TestSynthIgnoresMono(t *testing.T) {
	s := NewSynth(8000)
	s.Fill([][]float32{make([]float32, 16)}, 1, 1)
}
