// Package midi connects drum pads and sound modules over MIDI.
package midi

import (
	"fmt"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
	"go.uber.org/zap"

	"github.com/wfunc/drumgame/game"
	"github.com/wfunc/drumgame/logger"
)

// Submitter accepts hits without blocking. round.Controller implements it.
type Submitter interface {
	Submit(hit game.HitEvent) bool
}

// Input turns note-on messages from a drum pad into hits.
type Input struct {
	notes  map[uint8]int // note -> target id
	submit Submitter
	now    func() time.Time
	stop   func()
	log    *zap.SugaredLogger
}

func NewInput(notes map[uint8]int, submit Submitter) *Input {
	m := make(map[uint8]int, len(notes))
	for note, id := range notes {
		m[note] = id
	}
	return &Input{
		notes:  m,
		submit: submit,
		now:    time.Now,
		log:    logger.Log,
	}
}

// Listen opens the first input port whose name contains portName.
func (in *Input) Listen(portName string) error {
	port, err := gomidi.FindInPort(portName)
	if err != nil {
		return fmt.Errorf("find input %q: %w", portName, err)
	}
	stop, err := gomidi.ListenTo(port, in.Handle)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	in.stop = stop
	in.log.Infow("midi input open", "port", port.String())
	return nil
}

// Handle is the ListenTo callback. Note-ons with velocity 0 are note-offs.
func (in *Input) Handle(msg gomidi.Message, timestampms int32) {
	var channel, note, velocity uint8
	if !msg.GetNoteOn(&channel, &note, &velocity) || velocity == 0 {
		return
	}
	id, ok := in.notes[note]
	if !ok {
		in.log.Debugw("unmapped note", "note", note, "channel", channel)
		return
	}
	in.submit.Submit(game.HitEvent{TargetID: id, Timestamp: in.now()})
}

func (in *Input) Close() {
	if in.stop != nil {
		in.stop()
		in.stop = nil
	}
}

// Ports lists the available input and output port names.
func Ports() (ins, outs []string) {
	for _, p := range gomidi.GetInPorts() {
		ins = append(ins, p.String())
	}
	for _, p := range gomidi.GetOutPorts() {
		outs = append(outs, p.String())
	}
	return ins, outs
}

// CloseDriver releases the MIDI driver.
func CloseDriver() {
	gomidi.CloseDriver()
}
