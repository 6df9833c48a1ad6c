package audio

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
)

const (
	SampleRate = 44100
	BufferSize = 1024
)

// Processor plays a hum whose pitch follows the chain's tension. Physics
// updates arrive from the frame loop; samples are produced on the audio
// thread.
type Processor struct {
	Stream *portaudio.Stream

	mu      sync.Mutex
	tension float64
	energy  float64

	synth  *Synth
	Active bool
}

func NewProcessor() *Processor {
	return &Processor{synth: NewSynth(SampleRate)}
}

func (a *Processor) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("audio init: %w", err)
	}

	stream, err := portaudio.OpenDefaultStream(0, 2, SampleRate, BufferSize, a.ProcessAudio)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("audio stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("audio start: %w", err)
	}

	a.Stream = stream
	a.Active = true
	return nil
}

func (a *Processor) Stop() {
	if a.Stream != nil {
		a.Stream.Stop()
		a.Stream.Close()
		a.Stream = nil
	}
	if a.Active {
		portaudio.Terminate()
	}
	a.Active = false
}

// UpdateTension feeds the mean spring extension and total energy of the
// latest frame.
func (a *Processor) UpdateTension(tension, energy float64) {
	a.mu.Lock()
	a.tension = tension
	a.energy = energy
	a.mu.Unlock()
}

func (a *Processor) ProcessAudio(out [][]float32) {
	a.mu.Lock()
	tension, energy := a.tension, a.energy
	a.mu.Unlock()

	a.synth.Fill(out, tension, energy)
}
