// Package sound keeps track of which music tracks and sound effects a cart
// asked to play on which channel. It does not synthesize audio: terminals have
// no audio device, so an optional Sink receives every accepted voice and the
// mixer itself only maintains channel assignment.
package sound

import (
	"io"

	"github.com/charmbracelet/log"
)

// DefaultChannels is the channel count used when none is configured.
const DefaultChannels = 8

// Default sound-effect parameters, used by carts that omit them.
const (
	DefaultNote    uint16 = 13312
	DefaultPanning int32  = 64
	DefaultRate    int32  = 50
)

// Kind distinguishes music from sound effects.
type Kind int

const (
	KindMusic Kind = iota
	KindEffect
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	if k == KindMusic {
		return "music"
	}
	return "sfx"
}

// Voice is one playing track or effect.
type Voice struct {
	Kind          Kind
	ID            int32
	Filename      string
	Channel       int
	Loops         int32
	StartPosition int32 // music only
	Note          uint16
	Panning       int32
	Rate          int32
	seq           uint64
}

// Sink receives every voice the mixer starts. Implementations must not block.
type Sink interface {
	Play(v Voice)
	Stop(channel int)
}

// Mixer assigns voices to a fixed set of channels.
// It is not safe for concurrent use; share it through a core.Handle.
type Mixer struct {
	channels []*Voice
	sink     Sink
	logger   *log.Logger
	seq      uint64
}

// Option configures a Mixer.
type Option func(*Mixer)

// WithSink forwards started and stopped voices to s.
func WithSink(s Sink) Option {
	return func(m *Mixer) {
		m.sink = s
	}
}

// WithLogger sets the logger used for dropped requests.
func WithLogger(l *log.Logger) Option {
	return func(m *Mixer) {
		m.logger = l
	}
}

// NewMixer creates a mixer with n channels (DefaultChannels if n <= 0).
func NewMixer(n int, opts ...Option) *Mixer {
	if n <= 0 {
		n = DefaultChannels
	}
	m := &Mixer{
		channels: make([]*Voice, n),
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Channels returns the number of channels.
func (m *Mixer) Channels() int {
	return len(m.channels)
}

// Music starts a music track. A negative channel lets the mixer pick one.
func (m *Mixer) Music(id int32, filename string, channel, loops, startPosition int32) {
	m.start(channel, Voice{
		Kind:          KindMusic,
		ID:            id,
		Filename:      filename,
		Loops:         loops,
		StartPosition: startPosition,
	})
}

// Sfx starts a sound effect. A negative channel lets the mixer pick one.
func (m *Mixer) Sfx(id int32, filename string, channel int32, note uint16, panning, rate, loops int32) {
	m.start(channel, Voice{
		Kind:     KindEffect,
		ID:       id,
		Filename: filename,
		Loops:    loops,
		Note:     note,
		Panning:  panning,
		Rate:     rate,
	})
}

// Voice returns the voice playing on channel, if any.
func (m *Mixer) Voice(channel int) (Voice, bool) {
	if channel < 0 || channel >= len(m.channels) || m.channels[channel] == nil {
		return Voice{}, false
	}
	return *m.channels[channel], true
}

// Voices returns all playing voices ordered by channel.
func (m *Mixer) Voices() []Voice {
	var out []Voice
	for _, v := range m.channels {
		if v != nil {
			out = append(out, *v)
		}
	}
	return out
}

// Stop silences one channel.
func (m *Mixer) Stop(channel int) {
	if channel < 0 || channel >= len(m.channels) || m.channels[channel] == nil {
		return
	}
	m.channels[channel] = nil
	if m.sink != nil {
		m.sink.Stop(channel)
	}
}

// StopAll silences every channel.
func (m *Mixer) StopAll() {
	for ch := range m.channels {
		m.Stop(ch)
	}
}

func (m *Mixer) start(channel int32, v Voice) {
	ch := int(channel)
	if channel < 0 {
		ch = m.pick()
	} else if ch >= len(m.channels) {
		m.logger.Debug("dropping voice on unknown channel", "kind", v.Kind, "id", v.ID, "channel", channel)
		return
	}

	m.seq++
	v.Channel = ch
	v.seq = m.seq
	m.channels[ch] = &v
	if m.sink != nil {
		m.sink.Play(v)
	}
}

// pick returns the first idle channel, or the one holding the oldest voice.
func (m *Mixer) pick() int {
	oldest := 0
	for ch, v := range m.channels {
		if v == nil {
			return ch
		}
		if v.seq < m.channels[oldest].seq {
			oldest = ch
		}
	}
	return oldest
}
