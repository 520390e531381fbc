package usecases

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/sglre6355/heimdall/internal/modules/media_console/application/ports"
	"github.com/sglre6355/heimdall/internal/modules/media_console/domain"
)

const testTimeout = 2 * time.Second

func mockTrack(id string) domain.Track {
	return domain.Track{
		ID:       domain.TrackID(id),
		Source:   domain.TrackSourceYouTube,
		Title:    "Artist " + id + " - Song " + id,
		Artist:   "Channel " + id,
		Duration: 180,
	}
}

func trackIDs(tracks []domain.Track) []string {
	result := make([]string, len(tracks))
	for i, t := range tracks {
		result[i] = string(t.ID)
	}
	return result
}

func sameIDs(tracks []domain.Track, want ...string) bool {
	got := trackIDs(tracks)
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func nowPlayingID(s Snapshot) string {
	if s.NowPlaying == nil {
		return ""
	}
	return string(s.NowPlaying.ID)
}

// mockStore is an in-memory DurableStore.
type mockStore struct {
	mu     sync.Mutex
	values map[string]string
	getErr error
	setErr error
}

func newMockStore() *mockStore {
	return &mockStore{values: make(map[string]string)}
}

func (m *mockStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *mockStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *mockStore) value(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key]
}

func (m *mockStore) seed(t *testing.T, key string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to encode seed: %v", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = string(data)
}

type resolveResult struct {
	url string
	err error
}

// mockResolver resolves every track to "https://stream/<id>" unless told
// to fail or to hold the call until released.
type mockResolver struct {
	mu      sync.Mutex
	fails   map[domain.TrackID]error
	holds   map[domain.TrackID]chan resolveResult
	calls   []domain.TrackID
	aborted []domain.TrackID
}

func newMockResolver() *mockResolver {
	return &mockResolver{
		fails: make(map[domain.TrackID]error),
		holds: make(map[domain.TrackID]chan resolveResult),
	}
}

func (m *mockResolver) fail(id string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fails[domain.TrackID(id)] = err
}

func (m *mockResolver) hold(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holds[domain.TrackID(id)] = make(chan resolveResult, 1)
}

func (m *mockResolver) release(id string, url string, err error) {
	m.mu.Lock()
	ch := m.holds[domain.TrackID(id)]
	m.mu.Unlock()
	ch <- resolveResult{url: url, err: err}
}

func (m *mockResolver) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockResolver) wasAborted(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.aborted {
		if string(a) == id {
			return true
		}
	}
	return false
}

func (m *mockResolver) Resolve(
	ctx context.Context,
	_ domain.TrackSource,
	id domain.TrackID,
) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, id)
	hold, held := m.holds[id]
	failure := m.fails[id]
	m.mu.Unlock()

	if held {
		select {
		case res := <-hold:
			return res.url, res.err
		case <-ctx.Done():
			m.mu.Lock()
			m.aborted = append(m.aborted, id)
			m.mu.Unlock()
			return "", ctx.Err()
		}
	}
	if failure != nil {
		return "", failure
	}
	return "https://stream/" + string(id), nil
}

// mockSink records media output calls.
type mockSink struct {
	mu       sync.Mutex
	sources  []string
	plays    int
	pauses   int
	setErr   error
	playErr  error
	listener ports.MediaListener

	// gate, when set, holds Play until it is closed.
	gate    chan struct{}
	entered chan struct{}
}

func (m *mockSink) SetSource(_ context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if url != "" && m.setErr != nil {
		return m.setErr
	}
	m.sources = append(m.sources, url)
	return nil
}

func (m *mockSink) Play(ctx context.Context) error {
	m.mu.Lock()
	gate, entered := m.gate, m.entered
	m.entered = nil
	m.mu.Unlock()

	if gate != nil {
		if entered != nil {
			close(entered)
		}
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.plays++
	return m.playErr
}

// holdPlay makes the next Play block until the returned release is called.
// The entered channel is closed once Play is waiting.
func (m *mockSink) holdPlay() (entered <-chan struct{}, release func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gate = make(chan struct{})
	m.entered = make(chan struct{})
	gate := m.gate
	return m.entered, func() {
		m.mu.Lock()
		m.gate, m.entered = nil, nil
		m.mu.Unlock()
		close(gate)
	}
}

func (m *mockSink) Pause(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pauses++
	return nil
}

func (m *mockSink) SetListener(listener ports.MediaListener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listener = listener
}

func (m *mockSink) lastSource() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sources) == 0 {
		return ""
	}
	return m.sources[len(m.sources)-1]
}

func (m *mockSink) finish() {
	m.mu.Lock()
	listener := m.listener
	m.mu.Unlock()
	listener.OnEnded()
}

func (m *mockSink) crash(err error) {
	m.mu.Lock()
	listener := m.listener
	m.mu.Unlock()
	listener.OnError(err)
}

type lyricsCall struct {
	artist string
	title  string
}

// mockLyrics returns text for every song unless an error is set or the
// title is held until released.
type mockLyrics struct {
	mu    sync.Mutex
	text  string
	err   error
	holds map[string]chan resolveResult
	calls []lyricsCall
}

func newMockLyrics() *mockLyrics {
	return &mockLyrics{
		text:  "first line\nsecond line",
		holds: make(map[string]chan resolveResult),
	}
}

func (m *mockLyrics) hold(title string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holds[title] = make(chan resolveResult, 1)
}

func (m *mockLyrics) release(title, text string, err error) {
	m.mu.Lock()
	ch := m.holds[title]
	m.mu.Unlock()
	ch <- resolveResult{url: text, err: err}
}

func (m *mockLyrics) setResult(text string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	m.err = err
}

func (m *mockLyrics) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockLyrics) lastCall() lyricsCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return lyricsCall{}
	}
	return m.calls[len(m.calls)-1]
}

func (m *mockLyrics) FetchLyrics(ctx context.Context, artist, title string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, lyricsCall{artist: artist, title: title})
	hold, held := m.holds[title]
	text, err := m.text, m.err
	m.mu.Unlock()

	if held {
		select {
		case res := <-hold:
			return res.url, res.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return text, err
}

// mockNotifier records notifications.
type mockNotifier struct {
	mu    sync.Mutex
	notes []ports.Notification
}

func (m *mockNotifier) Notify(n ports.Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notes = append(m.notes, n)
}

func (m *mockNotifier) has(level ports.NotificationLevel, message string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notes {
		if n.Level == level && n.Message == message {
			return true
		}
	}
	return false
}

// mockPublisher records published events.
type mockPublisher struct {
	mu     sync.Mutex
	events []domain.Event
}

func (m *mockPublisher) Publish(event domain.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

func (m *mockPublisher) count(match func(domain.Event) bool) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.events {
		if match(e) {
			n++
		}
	}
	return n
}

// sequentialIDs hands out 1, 2, 3, ...
type sequentialIDs struct {
	mu   sync.Mutex
	next int
}

func (s *sequentialIDs) NextPlaylistID() domain.PlaylistID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return domain.PlaylistID(strconv.Itoa(s.next))
}

type fixture struct {
	cfg       ConsoleConfig
	store     *mockStore
	resolver  *mockResolver
	sink      *mockSink
	lyrics    *mockLyrics
	notifier  *mockNotifier
	publisher *mockPublisher
	console   *Console
}

func newFixture() *fixture {
	return &fixture{
		cfg: ConsoleConfig{
			ErrorGracePeriod: 30 * time.Millisecond,
			HistoryPolicy:    domain.HistoryPolicyIgnore,
		},
		store:     newMockStore(),
		resolver:  newMockResolver(),
		sink:      &mockSink{},
		lyrics:    newMockLyrics(),
		notifier:  &mockNotifier{},
		publisher: &mockPublisher{},
	}
}

// seedQueue stores tracks as the persisted queue so the console starts with
// them queued and nothing playing.
func (f *fixture) seedQueue(t *testing.T, ids ...string) {
	t.Helper()
	tracks := make([]domain.Track, len(ids))
	for i, id := range ids {
		tracks[i] = mockTrack(id)
	}
	f.store.seed(t, QueueStorageKey, tracks)
}

func (f *fixture) start(t *testing.T) *Console {
	t.Helper()

	c := NewConsole(f.cfg, ConsoleDependencies{
		Store:     f.store,
		Resolver:  f.resolver,
		Sink:      f.sink,
		Lyrics:    f.lyrics,
		Notifier:  f.notifier,
		Publisher: f.publisher,
		IDs:       &sequentialIDs{},
		Clock: func() time.Time {
			return time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	go c.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-c.Done()
	})

	f.console = c
	return c
}

func (f *fixture) dispatch(t *testing.T, cmd Command) (Snapshot, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()
	return f.console.Dispatch(ctx, cmd)
}

func (f *fixture) mustDispatch(t *testing.T, cmd Command) Snapshot {
	t.Helper()
	snap, err := f.dispatch(t, cmd)
	if err != nil {
		t.Fatalf("unexpected error dispatching %T: %v", cmd, err)
	}
	return snap
}

// waitFor polls the console until cond holds.
func (f *fixture) waitFor(t *testing.T, what string, cond func(Snapshot) bool) Snapshot {
	t.Helper()
	deadline := time.Now().Add(testTimeout)
	for {
		snap := f.mustDispatch(t, SnapshotCommand{})
		if cond(snap) {
			return snap
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s; last snapshot: phase=%v now=%q queue=%v history=%v",
				what, snap.Phase, nowPlayingID(snap), trackIDs(snap.Queue), trackIDs(snap.History))
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func (f *fixture) waitPlaying(t *testing.T, id string) Snapshot {
	t.Helper()
	return f.waitFor(t, "playing "+id, func(s Snapshot) bool {
		return s.Phase == domain.PhasePlaying && nowPlayingID(s) == id
	})
}

// waitUnloaded polls the sink until its output has been cleared.
func (f *fixture) waitUnloaded(t *testing.T) {
	t.Helper()
	deadline := time.Now().Add(testTimeout)
	for f.sink.lastSource() != "" {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for sink unload; last source %q", f.sink.lastSource())
		}
		time.Sleep(2 * time.Millisecond)
	}
}
