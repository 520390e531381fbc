package infrastructure

import (
	"sync"

	"github.com/disgoorg/snowflake/v2"
)

// voiceHandshake collects the VoiceStateUpdate and VoiceServerUpdate that
// Discord sends after a voice join. Lavalink rejects a partial voice state,
// so both halves are forwarded together once the second one arrives,
// whatever their order.
type voiceHandshake struct {
	mu sync.Mutex

	hasState  bool
	channelID *snowflake.ID
	sessionID string

	hasServer bool
	token     string
	endpoint  string

	ready chan struct{}
}

type voiceCredentials struct {
	channelID *snowflake.ID
	sessionID string
	token     string
	endpoint  string
}

func newVoiceHandshake() *voiceHandshake {
	return &voiceHandshake{ready: make(chan struct{})}
}

// setState records the voice state half. It returns the credentials once both
// halves are present.
func (h *voiceHandshake) setState(channelID *snowflake.ID, sessionID string) (voiceCredentials, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.hasState = true
	h.channelID = channelID
	h.sessionID = sessionID
	return h.take()
}

// setServer records the voice server half. It returns the credentials once
// both halves are present.
func (h *voiceHandshake) setServer(token, endpoint string) (voiceCredentials, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.hasServer = true
	h.token = token
	h.endpoint = endpoint
	return h.take()
}

// take must be called with mu held. Completing the handshake resets it so a
// later server move starts a fresh pair.
func (h *voiceHandshake) take() (voiceCredentials, bool) {
	if !h.hasState || !h.hasServer {
		return voiceCredentials{}, false
	}

	creds := voiceCredentials{
		channelID: h.channelID,
		sessionID: h.sessionID,
		token:     h.token,
		endpoint:  h.endpoint,
	}
	h.hasState, h.hasServer = false, false

	select {
	case <-h.ready:
	default:
		close(h.ready)
	}
	return creds, true
}

// Ready is closed once the first complete pair has been received.
func (h *voiceHandshake) Ready() <-chan struct{} {
	return h.ready
}
