// Package audio plays cue and feedback sounds through the system speaker.
package audio

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"go.uber.org/zap"

	"github.com/wfunc/drumgame/logger"
)

const (
	cueDuration      = 400 * time.Millisecond
	feedbackDuration = 150 * time.Millisecond
	amplitude        = 0.3
)

// Voice is how one target sounds: a sample file if set, otherwise a tone.
type Voice struct {
	ToneHz float64
	Sample string
}

// Player hands streamers to the output device.
type Player func(s ...beep.Streamer)

// Sink is a sink.Sound backed by beep.
type Sink struct {
	rate   beep.SampleRate
	cues   []func() beep.Streamer
	volume float64
	play   Player
	log    *zap.SugaredLogger
}

type Option func(*Sink)

// WithPlayer replaces speaker.Play.
func WithPlayer(p Player) Option {
	return func(s *Sink) { s.play = p }
}

// WithVolume sets the gain in beep's base-2 scale; 0 leaves samples untouched.
func WithVolume(v float64) Option {
	return func(s *Sink) { s.volume = v }
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Sink) { s.log = l }
}

// InitSpeaker opens the output device at rate.
func InitSpeaker(rate beep.SampleRate) error {
	return speaker.Init(rate, rate.N(time.Second/60))
}

// NewSink prepares one cue per voice. Samples are decoded up front so a bad
// file is reported before the match starts.
func NewSink(rate beep.SampleRate, voices []Voice, opts ...Option) (*Sink, error) {
	s := &Sink{
		rate: rate,
		play: speaker.Play,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Log
	}

	s.cues = make([]func() beep.Streamer, len(voices))
	for i, v := range voices {
		if v.Sample != "" {
			buf, err := LoadSample(v.Sample, rate)
			if err != nil {
				return nil, fmt.Errorf("voice %d: %w", i, err)
			}
			s.cues[i] = func() beep.Streamer { return buf.Streamer(0, buf.Len()) }
			continue
		}
		hz := v.ToneHz
		if hz <= 0 {
			return nil, fmt.Errorf("voice %d: no sample and no tone frequency", i)
		}
		s.cues[i] = func() beep.Streamer { return Note(rate, hz, cueDuration) }
	}
	return s, nil
}

func (s *Sink) PlayCue(targetID int) {
	if targetID < 0 || targetID >= len(s.cues) {
		s.log.Warnw("no cue for target", "target", targetID)
		return
	}
	s.output(s.cues[targetID]())
}

// PlayCorrect is a rising fifth.
func (s *Sink) PlayCorrect() {
	s.output(beep.Seq(
		Note(s.rate, 523.25, feedbackDuration),
		Note(s.rate, 783.99, 2*feedbackDuration),
	))
}

// PlayWrong is a low buzz.
func (s *Sink) PlayWrong() {
	s.output(beep.Seq(
		Note(s.rate, 146.83, feedbackDuration),
		Note(s.rate, 110.00, 2*feedbackDuration),
	))
}

func (s *Sink) output(st beep.Streamer) {
	if s.volume != 0 {
		st = &effects.Volume{Streamer: st, Base: 2, Volume: s.volume}
	}
	s.play(st)
}

// Note is a sine tone of length d that fades out linearly.
func Note(rate beep.SampleRate, hz float64, d time.Duration) beep.Streamer {
	total := rate.N(d)
	step := 2 * math.Pi * hz / float64(rate)
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		for n < len(samples) && pos < total {
			env := amplitude * (1 - float64(pos)/float64(total))
			v := env * math.Sin(step*float64(pos))
			samples[n][0], samples[n][1] = v, v
			n++
			pos++
		}
		return n, n > 0
	})
}

// LoadSample decodes a WAV or MP3 file into memory at rate.
func LoadSample(path string, rate beep.SampleRate) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var streamer beep.StreamSeekCloser
	var format beep.Format
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	default:
		f.Close()
		return nil, fmt.Errorf("unsupported sample format: %s", path)
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	defer streamer.Close()

	var src beep.Streamer = streamer
	if format.SampleRate != rate {
		src = beep.Resample(4, format.SampleRate, rate, streamer)
	}

	buf := beep.NewBuffer(beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2})
	buf.Append(src)
	return buf, nil
}
