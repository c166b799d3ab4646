package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/wfunc/drumgame/engine"
	"github.com/wfunc/drumgame/game"
)

type Config struct {
	TickRate time.Duration   `mapstructure:"tick_rate"`
	Game     GameConfig      `mapstructure:"game"`
	Drums    []DrumConfig    `mapstructure:"drums"`
	Speakers []SpeakerConfig `mapstructure:"speakers"`
	Audio    AudioConfig     `mapstructure:"audio"`
	MIDI     MIDIConfig      `mapstructure:"midi"`
	Metrics  MetricsConfig   `mapstructure:"metrics"`
	Log      LogConfig       `mapstructure:"log"`
}

type GameConfig struct {
	MatchDuration     time.Duration `mapstructure:"match_duration"`
	ResponseDuration  time.Duration `mapstructure:"response_duration"`
	HighlightDuration time.Duration `mapstructure:"highlight_duration"`
	RestDuration      time.Duration `mapstructure:"rest_duration"`
	CountdownSteps    int           `mapstructure:"countdown_steps"`
	CountdownStep     time.Duration `mapstructure:"countdown_step"`
	HoldMatchClock    bool          `mapstructure:"hold_match_clock"`
	GlowIntensity     float64       `mapstructure:"glow_intensity"`
	CorrectBonus      int           `mapstructure:"correct_bonus"`
	MissThreshold     int           `mapstructure:"miss_threshold"`
}

// DrumConfig describes one drum and how it is played and heard.
type DrumConfig struct {
	Name      string  `mapstructure:"name"`
	Signature string  `mapstructure:"signature"`
	Color     string  `mapstructure:"color"`
	Key       string  `mapstructure:"key"`
	MIDINote  uint8   `mapstructure:"midi_note"`
	ToneHz    float64 `mapstructure:"tone_hz"`
	Sample    string  `mapstructure:"sample"`
}

type SpeakerConfig struct {
	Name string `mapstructure:"name"`
}

type AudioConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	SampleRate int     `mapstructure:"sample_rate"`
	Volume     float64 `mapstructure:"volume"`
}

type MIDIConfig struct {
	InPort      string `mapstructure:"in_port"`
	OutPort     string `mapstructure:"out_port"`
	Channel     uint8  `mapstructure:"channel"`
	CorrectNote uint8  `mapstructure:"correct_note"`
	WrongNote   uint8  `mapstructure:"wrong_note"`
	Velocity    uint8  `mapstructure:"velocity"`
}

type MetricsConfig struct {
	Address   string `mapstructure:"address"`
	Namespace string `mapstructure:"namespace"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// DefaultDrums is the four-pad kit used when the config file lists none.
func DefaultDrums() []DrumConfig {
	return []DrumConfig{
		{Name: "Red", Signature: "red", Color: "#ff5f5f", Key: "a", MIDINote: 36, ToneHz: 261.63},
		{Name: "Green", Signature: "green", Color: "#5fff87", Key: "s", MIDINote: 38, ToneHz: 329.63},
		{Name: "Blue", Signature: "blue", Color: "#5f87ff", Key: "d", MIDINote: 42, ToneHz: 392.00},
		{Name: "Yellow", Signature: "yellow", Color: "#ffd75f", Key: "f", MIDINote: 46, ToneHz: 523.25},
	}
}

func DefaultSpeakers() []SpeakerConfig {
	return []SpeakerConfig{{Name: "Red"}, {Name: "Green"}, {Name: "Blue"}, {Name: "Yellow"}}
}

func setDefaults(v *viper.Viper) {
	d := engine.DefaultSettings()

	v.SetDefault("tick_rate", time.Second/60)

	v.SetDefault("game.match_duration", d.MatchDuration)
	v.SetDefault("game.response_duration", d.ResponseDuration)
	v.SetDefault("game.highlight_duration", d.HighlightDuration)
	v.SetDefault("game.rest_duration", d.RestDuration)
	v.SetDefault("game.countdown_steps", d.CountdownSteps)
	v.SetDefault("game.countdown_step", d.CountdownStep)
	v.SetDefault("game.hold_match_clock", d.HoldMatchClock)
	v.SetDefault("game.glow_intensity", d.GlowIntensity)
	v.SetDefault("game.correct_bonus", d.CorrectBonus)
	v.SetDefault("game.miss_threshold", d.MissThreshold)

	v.SetDefault("audio.enabled", true)
	v.SetDefault("audio.sample_rate", 44100)
	v.SetDefault("audio.volume", 0)

	v.SetDefault("midi.in_port", "")
	v.SetDefault("midi.out_port", "")
	v.SetDefault("midi.channel", 9)
	v.SetDefault("midi.correct_note", 81)
	v.SetDefault("midi.wrong_note", 49)
	v.SetDefault("midi.velocity", 100)

	v.SetDefault("metrics.address", "")
	v.SetDefault("metrics.namespace", "drumgame")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "drumgame.log")
}

// LoadConfig reads config.yaml from path. A missing file is not an error: the
// defaults apply, and DRUMGAME_* environment variables override either.
func LoadConfig(path string) (config *Config, err error) {
	v := viper.New()
	if path != "" {
		v.AddConfigPath(path)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("DRUMGAME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	err = v.Unmarshal(&config)
	if err != nil {
		return nil, err
	}

	if len(config.Drums) == 0 {
		config.Drums = DefaultDrums()
	}
	if len(config.Speakers) == 0 {
		config.Speakers = DefaultSpeakers()
	}
	return config, nil
}

// EngineSettings converts the game section into engine settings.
func (c *Config) EngineSettings() engine.Settings {
	return engine.Settings{
		MatchDuration:     c.Game.MatchDuration,
		ResponseDuration:  c.Game.ResponseDuration,
		HighlightDuration: c.Game.HighlightDuration,
		RestDuration:      c.Game.RestDuration,
		CountdownSteps:    c.Game.CountdownSteps,
		CountdownStep:     c.Game.CountdownStep,
		HoldMatchClock:    c.Game.HoldMatchClock,
		GlowIntensity:     c.Game.GlowIntensity,
		CorrectBonus:      c.Game.CorrectBonus,
		MissThreshold:     c.Game.MissThreshold,
	}
}

// Roster pairs drum i with speaker i. It is validated when a round starts.
func (c *Config) Roster() *game.Roster {
	drums := make([]game.Drum, len(c.Drums))
	for i, d := range c.Drums {
		drums[i] = game.Drum{Name: d.Name, Signature: game.Signature(d.Signature), Color: d.Color}
	}
	speakers := make([]game.Speaker, len(c.Speakers))
	for i, s := range c.Speakers {
		speakers[i] = game.Speaker{Name: s.Name}
	}
	return game.NewRoster(drums, speakers)
}

// KeyMap maps keyboard keys to target ids.
func (c *Config) KeyMap() map[string]int {
	keys := make(map[string]int, len(c.Drums))
	for i, d := range c.Drums {
		if d.Key != "" {
			keys[d.Key] = i
		}
	}
	return keys
}

// NoteMap maps incoming MIDI note numbers to target ids.
func (c *Config) NoteMap() map[uint8]int {
	notes := make(map[uint8]int, len(c.Drums))
	for i, d := range c.Drums {
		if d.MIDINote != 0 {
			notes[d.MIDINote] = i
		}
	}
	return notes
}
