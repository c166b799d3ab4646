package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/faiface/beep"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/wfunc/drumgame/audio"
	"github.com/wfunc/drumgame/config"
	"github.com/wfunc/drumgame/engine"
	"github.com/wfunc/drumgame/logger"
	"github.com/wfunc/drumgame/midi"
	"github.com/wfunc/drumgame/monitor"
	"github.com/wfunc/drumgame/round"
	"github.com/wfunc/drumgame/shuffle"
	"github.com/wfunc/drumgame/sink"
	"github.com/wfunc/drumgame/tui"
)

var (
	configDir   = kingpin.Flag("config", "Directory holding config.yaml").Default(".").Short('c').String()
	logLevel    = kingpin.Flag("log-level", "Log level, overrides the config file").String()
	logFile     = kingpin.Flag("log-file", "Log file, overrides the config file").String()
	seed        = kingpin.Flag("seed", "Sequence seed, 0 seeds from the clock").Default("0").Int64()
	mute        = kingpin.Flag("mute", "Disable speaker output").Short('m').Bool()
	midiIn      = kingpin.Flag("midi-in", "MIDI input port to read drum hits from").String()
	midiOut     = kingpin.Flag("midi-out", "MIDI output port to play cues on").String()
	metricsAddr = kingpin.Flag("metrics", "Address to serve Prometheus metrics on").String()
	listMIDI    = kingpin.Flag("list-midi", "List MIDI ports and exit").Bool()
)

func main() {
	kingpin.Version("0.1.0")
	kingpin.Parse()

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	override(&cfg.Log.Level, *logLevel)
	override(&cfg.Log.File, *logFile)
	override(&cfg.MIDI.InPort, *midiIn)
	override(&cfg.MIDI.OutPort, *midiOut)
	override(&cfg.Metrics.Address, *metricsAddr)

	if *listMIDI {
		defer midi.CloseDriver()
		ins, outs := midi.Ports()
		fmt.Println("inputs:")
		for _, p := range ins {
			fmt.Println("  " + p)
		}
		fmt.Println("outputs:")
		for _, p := range outs {
			fmt.Println("  " + p)
		}
		return nil
	}

	// Initialize logger; the terminal belongs to the UI
	var paths []string
	if cfg.Log.File != "" {
		paths = append(paths, cfg.Log.File)
	}
	if err := logger.Init(cfg.Log.Level, paths...); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	screen := tui.NewSink()

	var sounds sink.Sounds
	if cfg.Audio.Enabled && !*mute {
		snd, err := newAudio(cfg)
		if err != nil {
			return err
		}
		sounds = append(sounds, snd)
	}
	if cfg.MIDI.OutPort != "" || cfg.MIDI.InPort != "" {
		defer midi.CloseDriver()
	}
	if cfg.MIDI.OutPort != "" {
		out, err := midi.OpenOutput(cfg.MIDI.OutPort, midiOutputConfig(cfg))
		if err != nil {
			return err
		}
		sounds = append(sounds, out)
	}

	var permuter engine.Permuter = shuffle.New(nil)
	if *seed != 0 {
		permuter = shuffle.NewSeeded(*seed)
	}

	eng := engine.New(cfg.EngineSettings(), cfg.Roster(),
		engine.WithPermuter(permuter),
		engine.WithPresentation(screen),
		engine.WithSound(sounds),
	)

	observers := []round.Observer{screen}
	if cfg.Metrics.Address != "" {
		mon := monitor.NewMonitor(cfg.Metrics.Namespace, nil)
		mon.StartServer(cfg.Metrics.Address)
		observers = append(observers, mon)
		logger.Log.Infof("Serving metrics on %s", cfg.Metrics.Address)
	}

	ctl := round.NewController(eng,
		round.WithPresentation(screen),
		round.WithObservers(observers...),
		round.WithTickRate(cfg.TickRate),
	)
	defer ctl.Close()

	if cfg.MIDI.InPort != "" {
		in := midi.NewInput(cfg.NoteMap(), ctl)
		if err := in.Listen(cfg.MIDI.InPort); err != nil {
			return err
		}
		defer in.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ctl.Run(ctx)

	drums := make([]tui.Drum, len(cfg.Drums))
	for i, d := range cfg.Drums {
		drums[i] = tui.Drum{Name: d.Name, Color: d.Color, Key: d.Key}
	}

	p := tea.NewProgram(tui.NewModel(screen, ctl, drums), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("terminal ui: %w", err)
	}
	logger.Log.Infow("exiting", "match", ctl.MatchID(), "score", ctl.Snapshot().Score)
	return nil
}

func override(dst *string, flag string) {
	if flag != "" {
		*dst = flag
	}
}

func newAudio(cfg *config.Config) (*audio.Sink, error) {
	rate := beep.SampleRate(cfg.Audio.SampleRate)
	if err := audio.InitSpeaker(rate); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	voices := make([]audio.Voice, len(cfg.Drums))
	for i, d := range cfg.Drums {
		voices[i] = audio.Voice{ToneHz: d.ToneHz, Sample: d.Sample}
	}
	return audio.NewSink(rate, voices, audio.WithVolume(cfg.Audio.Volume))
}

func midiOutputConfig(cfg *config.Config) midi.OutputConfig {
	notes := make([]uint8, len(cfg.Drums))
	for i, d := range cfg.Drums {
		notes[i] = d.MIDINote
	}
	return midi.OutputConfig{
		Channel:     cfg.MIDI.Channel,
		Notes:       notes,
		CorrectNote: cfg.MIDI.CorrectNote,
		WrongNote:   cfg.MIDI.WrongNote,
		Velocity:    cfg.MIDI.Velocity,
	}
}
