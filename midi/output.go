package midi

import (
	"fmt"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"go.uber.org/zap"

	"github.com/wfunc/drumgame/logger"
)

// OutputConfig maps targets and feedback to notes on one channel.
type OutputConfig struct {
	Channel     uint8
	Notes       []uint8 // indexed by target id
	CorrectNote uint8
	WrongNote   uint8
	Velocity    uint8
	NoteLength  time.Duration
}

// Output is a sink.Sound that plays through a MIDI sound module.
type Output struct {
	cfg   OutputConfig
	send  func(gomidi.Message) error
	after func(d time.Duration, f func())
	log   *zap.SugaredLogger
}

// OpenOutput opens the first output port whose name contains portName.
func OpenOutput(portName string, cfg OutputConfig) (*Output, error) {
	port, err := gomidi.FindOutPort(portName)
	if err != nil {
		return nil, fmt.Errorf("find output %q: %w", portName, err)
	}
	send, err := gomidi.SendTo(port)
	if err != nil {
		return nil, fmt.Errorf("open output: %w", err)
	}
	logger.Log.Infow("midi output open", "port", port.String())
	return NewOutput(send, cfg), nil
}

func NewOutput(send func(gomidi.Message) error, cfg OutputConfig) *Output {
	if cfg.Velocity == 0 {
		cfg.Velocity = 100
	}
	if cfg.NoteLength <= 0 {
		cfg.NoteLength = 200 * time.Millisecond
	}
	return &Output{
		cfg:  cfg,
		send: send,
		after: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
		log: logger.Log,
	}
}

func (o *Output) PlayCue(targetID int) {
	if targetID < 0 || targetID >= len(o.cfg.Notes) {
		o.log.Warnw("no midi note for target", "target", targetID)
		return
	}
	o.strike(o.cfg.Notes[targetID])
}

func (o *Output) PlayCorrect() {
	o.strike(o.cfg.CorrectNote)
}

func (o *Output) PlayWrong() {
	o.strike(o.cfg.WrongNote)
}

func (o *Output) strike(note uint8) {
	if err := o.send(gomidi.NoteOn(o.cfg.Channel, note, o.cfg.Velocity)); err != nil {
		o.log.Warnw("midi send failed", "note", note, "error", err)
		return
	}
	o.after(o.cfg.NoteLength, func() {
		if err := o.send(gomidi.NoteOff(o.cfg.Channel, note)); err != nil {
			o.log.Warnw("midi send failed", "note", note, "error", err)
		}
	})
}
