package store

// Keys under which the application persists its state.
const (
	KeySettings = "tts-settings"
	KeyStats    = "tts-stats"
	KeyPitch    = "tts-pitch"
	KeyRate     = "tts-rate"
	KeyVolume   = "tts-volume"
	KeyHistory  = "tts-history"
	KeyUser     = "tts-user"
)
