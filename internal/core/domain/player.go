package domain

import "math/rand"

// TransportState is the playback lifecycle state of a player session.
type TransportState string

const (
	TransportIdle    TransportState = "idle"
	TransportPaused  TransportState = "paused"
	TransportPlaying TransportState = "playing"
)

// QueueItem is a song snapshot held in the player queue. The URL is what the
// client feeds its media element; the rest is display metadata.
type QueueItem struct {
	SongID          string  `json:"song_id"`
	Title           string  `json:"title"`
	Artist          string  `json:"artist,omitempty"`
	URL             string  `json:"url"`
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
}

// PickFunc selects a queue index in [0, n). Passing nil to the transport
// methods falls back to uniform math/rand selection; tests inject a
// deterministic implementation.
type PickFunc func(n int) int

func defaultPick(n int) int { return rand.Intn(n) }

// Player is the playback state machine for one user session. It holds the
// loaded queue, the current index, transport state, observed position and
// duration, volume and the shuffle/repeat flags. All transitions are driven
// either by user transport commands or by media element lifecycle events; the
// machine itself performs no I/O.
type Player struct {
	Queue    []QueueItem    `json:"queue"`
	Index    int            `json:"index"`
	State    TransportState `json:"state"`
	Position float64        `json:"position"`
	Duration float64        `json:"duration"`
	Volume   float64        `json:"volume"`
	Shuffle  bool           `json:"shuffle"`
	Repeat   bool           `json:"repeat"`
}

// NewPlayer returns an idle player with full volume and an empty queue.
func NewPlayer() *Player {
	return &Player{State: TransportIdle, Volume: 1.0}
}

// LoadQueue replaces the queue and resets the machine to the first item,
// paused. An empty queue puts the machine back to idle.
func (p *Player) LoadQueue(items []QueueItem) {
	p.Queue = items
	p.Index = 0
	p.Position = 0
	p.Duration = 0
	if len(items) == 0 {
		p.State = TransportIdle
		return
	}
	p.State = TransportPaused
	p.Duration = items[0].DurationSeconds
}

// Current returns the queue item at the current index, or false when the
// queue is empty.
func (p *Player) Current() (QueueItem, bool) {
	if len(p.Queue) == 0 || p.Index < 0 || p.Index >= len(p.Queue) {
		return QueueItem{}, false
	}
	return p.Queue[p.Index], true
}

// TogglePlay flips Paused and Playing. With no current song it is a no-op.
func (p *Player) TogglePlay() {
	if _, ok := p.Current(); !ok {
		return
	}
	switch p.State {
	case TransportPlaying:
		p.State = TransportPaused
	default:
		p.State = TransportPlaying
	}
}

// Next advances the queue. Under shuffle the new index is uniform over the
// whole queue and may land on the current song again; otherwise the index
// wraps with (i+1) mod len. Transport state is preserved across the change:
// a Playing session keeps playing the new song from position 0.
func (p *Player) Next(pick PickFunc) {
	n := len(p.Queue)
	if n == 0 {
		return
	}
	if p.Shuffle {
		if pick == nil {
			pick = defaultPick
		}
		p.Index = pick(n)
	} else {
		p.Index = (p.Index + 1) % n
	}
	p.startOfTrack()
}

// Prev steps back one song, wrapping from the first to the last. Shuffle has
// no effect on Prev.
func (p *Player) Prev() {
	n := len(p.Queue)
	if n == 0 {
		return
	}
	if p.Index == 0 {
		p.Index = n - 1
	} else {
		p.Index--
	}
	p.startOfTrack()
}

// Seek sets the playback position in seconds. Negative values clamp to zero;
// anything beyond the track end is left for the media backend to resolve.
func (p *Player) Seek(seconds float64) {
	if seconds < 0 {
		seconds = 0
	}
	p.Position = seconds
}

// SetVolume sets the playback volume, clamped to [0, 1].
func (p *Player) SetVolume(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	p.Volume = v
}

// OnMediaEnded handles the media element's ended event. With repeat on, the
// same song restarts from position 0 and keeps playing; otherwise the machine
// advances exactly like Next.
func (p *Player) OnMediaEnded(pick PickFunc) {
	if _, ok := p.Current(); !ok {
		return
	}
	if p.Repeat {
		p.Position = 0
		p.State = TransportPlaying
		return
	}
	p.Next(pick)
}

// OnMediaTimeUpdate records the position and duration reported by the media
// element. Pure observation; no transition happens here.
func (p *Player) OnMediaTimeUpdate(position, duration float64) {
	p.Position = position
	p.Duration = duration
}

// OnMediaReady records the duration reported by loadedmetadata.
func (p *Player) OnMediaReady(duration float64) {
	p.Duration = duration
}

func (p *Player) startOfTrack() {
	p.Position = 0
	p.Duration = 0
	if item, ok := p.Current(); ok {
		p.Duration = item.DurationSeconds
	}
	// Idle only happens with an empty queue; a loaded queue is at least paused.
	if p.State == TransportIdle {
		p.State = TransportPaused
	}
}
