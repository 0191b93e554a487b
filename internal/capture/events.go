package capture

// EventAudioChunk is the event name under which every chunk and level
// payload is emitted.
const EventAudioChunk = "audio-chunk"

// Event is the payload emitted for chunks and level updates. Data
// carries a base64 WAV file when the drained chunk cleared the
// amplitude gate and is empty otherwise.
type Event struct {
	Role      Role   `json:"role"`
	Data      string `json:"data"`
	Amplitude int16  `json:"amplitude"`
}

// Sink receives emitted events. Emit is called from realtime audio
// callbacks and must not block.
type Sink interface {
	Emit(name string, evt Event)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(name string, evt Event)

func (f SinkFunc) Emit(name string, evt Event) { f(name, evt) }
