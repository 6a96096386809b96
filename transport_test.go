package pixelstrip

import (
	"time"
)

// byteTransport records every byte sent through Transfer.
type byteTransport struct {
	initErr    error
	actionsErr error
	txErr      error

	inits   []Instance
	actions int
	delays  []time.Duration
	out     []byte
}

func (t *byteTransport) Init(inst Instance) error {
	t.inits = append(t.inits, inst)
	return t.initErr
}

func (t *byteTransport) InitActions(s *Strip) error {
	t.actions++
	return t.actionsErr
}

func (t *byteTransport) Transfer(inst Instance, b byte) error {
	if t.txErr != nil {
		return t.txErr
	}
	t.out = append(t.out, b)
	return nil
}

func (t *byteTransport) Delay(d time.Duration) {
	t.delays = append(t.delays, d)
}

// reset forgets everything sent so far.
func (t *byteTransport) reset() {
	t.out = t.out[:0]
}

// frameTransport additionally accepts whole frames.
type frameTransport struct {
	byteTransport
	frames [][]byte
}

func (t *frameTransport) WriteFrame(inst Instance, frame []byte) error {
	if t.txErr != nil {
		return t.txErr
	}
	t.frames = append(t.frames, append([]byte(nil), frame...))
	return nil
}
