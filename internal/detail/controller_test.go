package detail

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/abhisek/futable/internal/audio"
	"github.com/abhisek/futable/internal/catalog"
	"github.com/abhisek/futable/internal/explain"
	"github.com/abhisek/futable/internal/store"
	"github.com/abhisek/futable/internal/tts"
)

func TestMain(m *testing.M) {
	// genai's transitive opencensus import starts a stats worker in init.
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

// fakeFetcher answers per concept name. A gate holds the answer until it
// is closed; ignoreCancel makes the fetch outlive its session.
type fakeFetcher struct {
	mu           sync.Mutex
	results      map[string]fetchResult
	calls        []string
	ignoreCancel bool
}

type fetchResult struct {
	exp  *explain.Explanation
	err  error
	gate chan struct{}
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{results: map[string]fetchResult{}}
}

func (f *fakeFetcher) set(name string, r fetchResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[name] = r
}

func (f *fakeFetcher) Fetch(ctx context.Context, name string) (*explain.Explanation, error) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	r, ok := f.results[name]
	f.mu.Unlock()

	if r.gate != nil {
		if f.ignoreCancel {
			<-r.gate
		} else {
			select {
			case <-r.gate:
			case <-ctx.Done():
				return nil, &explain.FetchError{Concept: name, Err: ctx.Err()}
			}
		}
	}
	if !ok {
		return explanationFor(name), nil
	}
	return r.exp, r.err
}

func explanationFor(name string) *explain.Explanation {
	return &explain.Explanation{
		Definition: name + "的定义",
		Analogy:    name + "的比喻",
		KeyPoint:   name + "的重点",
		Example:    name + "的例子",
	}
}

// countingDevice wraps a silent device and tracks what the controller
// acquires.
type countingDevice struct {
	inner   audio.Device
	openErr error

	opens   atomic.Int32
	closes  atomic.Int32
	mu      sync.Mutex
	handles []audio.Handle
}

func (d *countingDevice) Open() (audio.Output, error) {
	if d.openErr != nil {
		return nil, &audio.DeviceError{Op: "open", Err: d.openErr}
	}
	out, err := d.inner.Open()
	if err != nil {
		return nil, err
	}
	d.opens.Add(1)
	return &countingOutput{Output: out, dev: d}, nil
}

func (d *countingDevice) lastHandle() audio.Handle {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.handles) == 0 {
		return nil
	}
	return d.handles[len(d.handles)-1]
}

type countingOutput struct {
	audio.Output
	dev    *countingDevice
	closed atomic.Bool
}

func (o *countingOutput) Play(buf *audio.Buffer, onEnd func()) (audio.Handle, error) {
	h, err := o.Output.Play(buf, onEnd)
	if err == nil {
		o.dev.mu.Lock()
		o.dev.handles = append(o.dev.handles, h)
		o.dev.mu.Unlock()
	}
	return h, err
}

func (o *countingOutput) Close() error {
	if o.closed.CompareAndSwap(false, true) {
		o.dev.closes.Add(1)
	}
	return o.Output.Close()
}

type harness struct {
	ctrl    *Controller
	fetcher *fakeFetcher
	speech  *tts.MockSynthesizer
	device  *countingDevice
}

func newHarness(t *testing.T, opts ...func(*Options)) *harness {
	t.Helper()
	h := &harness{
		fetcher: newFakeFetcher(),
		speech:  tts.NewMockSynthesizer(),
		device:  &countingDevice{inner: audio.NewSilentDevice()},
	}
	// Long enough that playback is still running when a test looks.
	h.speech.SetFallback(tts.MockResult{Clip: tts.Silence(10 * time.Second)})

	o := Options{Fetcher: h.fetcher, Speech: h.speech, Device: h.device}
	for _, fn := range opts {
		fn(&o)
	}
	h.ctrl = New(o)
	t.Cleanup(h.ctrl.Shutdown)
	return h
}

func concept(t *testing.T, symbol string) catalog.Concept {
	t.Helper()
	c, err := catalog.BySymbol(symbol)
	require.NoError(t, err)
	return c
}

// waitFor re-reads state on every change notification until cond holds.
func waitFor(t *testing.T, c *Controller, cond func(Snapshot) bool) Snapshot {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if snap := c.State(); cond(snap) {
			return snap
		}
		select {
		case <-c.Changed():
		case <-time.After(10 * time.Millisecond):
		case <-deadline:
			t.Fatalf("condition not reached; state: %+v", c.State())
		}
	}
}

func ready(s Snapshot) bool   { return s.Status == ExplanationReady }
func playing(s Snapshot) bool { return s.Audio == AudioPlaying }

func TestOpen_StartsPendingThenReady(t *testing.T) {
	h := newHarness(t)

	snap := h.ctrl.Open(concept(t, "Mg"))
	require.True(t, snap.Active)
	require.NotEmpty(t, snap.SessionID)
	require.Equal(t, ExplanationPending, snap.Status)
	require.Equal(t, AudioIdle, snap.Audio)

	snap = waitFor(t, h.ctrl, ready)
	require.Equal(t, "保证金的定义", snap.Explanation.Definition)
	require.Equal(t, []string{"保证金"}, h.fetcher.calls)
}

func TestOpen_DiscardsLateExplanation(t *testing.T) {
	h := newHarness(t)
	h.fetcher.ignoreCancel = true
	gate := make(chan struct{})
	h.fetcher.set("保证金", fetchResult{exp: explanationFor("保证金"), gate: gate})

	first := h.ctrl.Open(concept(t, "Mg"))
	second := h.ctrl.Open(concept(t, "Lv"))
	require.NotEqual(t, first.SessionID, second.SessionID)

	waitFor(t, h.ctrl, ready)
	close(gate)
	h.ctrl.Wait()

	snap := h.ctrl.State()
	require.Equal(t, second.SessionID, snap.SessionID)
	require.Equal(t, "Lv", snap.Concept.Symbol)
	require.Equal(t, "杠杆的定义", snap.Explanation.Definition)
}

func TestOpen_CancelsPriorFetch(t *testing.T) {
	h := newHarness(t)
	gate := make(chan struct{})
	defer close(gate)
	h.fetcher.set("保证金", fetchResult{gate: gate})

	h.ctrl.Open(concept(t, "Mg"))
	h.ctrl.Close()
	h.ctrl.Wait()

	require.False(t, h.ctrl.State().Active)
}

func TestExplanationFailure(t *testing.T) {
	h := newHarness(t)
	h.fetcher.set("保证金", fetchResult{err: &explain.FetchError{Concept: "保证金", Err: errors.New("network down")}})

	h.ctrl.Open(concept(t, "Mg"))
	snap := waitFor(t, h.ctrl, func(s Snapshot) bool { return s.Status == ExplanationFailed })
	require.ErrorContains(t, snap.ExplanationErr, "network down")
	require.Nil(t, snap.Explanation)

	h.ctrl.RequestAudio()
	h.ctrl.Wait()
	require.Equal(t, AudioIdle, h.ctrl.State().Audio)
	require.Zero(t, h.speech.CallCount())
	require.Zero(t, h.device.opens.Load())
}

func TestExplanationWithEmptyFieldFails(t *testing.T) {
	h := newHarness(t)
	exp := explanationFor("杠杆")
	exp.KeyPoint = ""
	h.fetcher.set("杠杆", fetchResult{exp: exp})

	h.ctrl.Open(concept(t, "Lv"))
	snap := waitFor(t, h.ctrl, func(s Snapshot) bool { return s.Status == ExplanationFailed })
	var fe *explain.FetchError
	require.ErrorAs(t, snap.ExplanationErr, &fe)
}

func TestRequestAudio_ToggleAndReplayFromCache(t *testing.T) {
	h := newHarness(t)
	h.ctrl.Open(concept(t, "Mg"))
	waitFor(t, h.ctrl, ready)

	h.ctrl.RequestAudio()
	snap := waitFor(t, h.ctrl, playing)
	require.True(t, snap.AudioCached)
	require.Equal(t, 1, snap.Plays)
	first := h.device.lastHandle()

	h.ctrl.RequestAudio()
	require.Equal(t, AudioIdle, h.ctrl.State().Audio)
	select {
	case <-first.Done():
	default:
		t.Fatal("toggle did not stop playback")
	}

	h.ctrl.RequestAudio()
	snap = h.ctrl.State()
	require.Equal(t, AudioPlaying, snap.Audio, "cached replay starts synchronously")
	require.Equal(t, 2, snap.Plays)
	require.Equal(t, 1, snap.SpeechFetches)
	require.Equal(t, 1, h.speech.CallCount())
	require.EqualValues(t, 1, h.device.opens.Load())
}

func TestRequestAudio_NoopWhileLoading(t *testing.T) {
	h := newHarness(t)
	block := make(chan struct{})
	h.speech = tts.NewMockSynthesizer(tts.MockResult{Clip: tts.Silence(time.Second), Block: block})
	h.ctrl = New(Options{Fetcher: h.fetcher, Speech: h.speech, Device: h.device})
	defer h.ctrl.Shutdown()

	h.ctrl.Open(concept(t, "Mg"))
	waitFor(t, h.ctrl, ready)

	h.ctrl.RequestAudio()
	require.Equal(t, AudioLoading, h.ctrl.State().Audio)
	h.ctrl.RequestAudio()
	h.ctrl.RequestAudio()

	close(block)
	waitFor(t, h.ctrl, playing)
	require.Equal(t, 1, h.speech.CallCount())
}

func TestRequestAudio_NarrationScenario(t *testing.T) {
	h := newHarness(t)
	h.fetcher.set("保证金", fetchResult{exp: &explain.Explanation{
		Definition: "交易者存入的履约资金",
		Analogy:    "像租房押金",
		KeyPoint:   "不足会被强平",
		Example:    "10万合约交1万",
	}})

	h.ctrl.Open(concept(t, "Mg"))
	waitFor(t, h.ctrl, ready)
	h.ctrl.RequestAudio()
	waitFor(t, h.ctrl, playing)

	require.Equal(t, []string{"关于保证金。交易者存入的履约资金。举个例子：像租房押金。记住：不足会被强平"}, h.speech.Texts)

	h.ctrl.RequestAudio()
	require.Equal(t, AudioIdle, h.ctrl.State().Audio)

	h.ctrl.Close()
	require.False(t, h.ctrl.State().Active)
	require.EqualValues(t, 1, h.device.closes.Load())
}

func TestSpeechFailureKeepsExplanation(t *testing.T) {
	h := newHarness(t)
	h.speech = tts.NewMockSynthesizer(
		tts.MockResult{Err: &tts.FetchError{Err: errors.New("quota")}},
		tts.MockResult{Clip: tts.Silence(5 * time.Second)},
	)
	h.ctrl = New(Options{Fetcher: h.fetcher, Speech: h.speech, Device: h.device})
	defer h.ctrl.Shutdown()

	h.ctrl.Open(concept(t, "Ar"))
	waitFor(t, h.ctrl, ready)

	h.ctrl.RequestAudio()
	snap := waitFor(t, h.ctrl, func(s Snapshot) bool { return s.Audio == AudioFailed })
	require.Equal(t, ExplanationReady, snap.Status)
	require.NotNil(t, snap.Explanation)
	require.False(t, snap.AudioCached)
	var fe *tts.FetchError
	require.ErrorAs(t, snap.AudioErr, &fe)

	h.ctrl.RequestAudio()
	snap = waitFor(t, h.ctrl, playing)
	require.Nil(t, snap.AudioErr)
	require.Equal(t, 2, snap.SpeechFetches)
	require.EqualValues(t, 1, h.device.opens.Load(), "retry reuses the open output")
}

func TestDecodeFailure(t *testing.T) {
	h := newHarness(t)
	h.speech.SetFallback(tts.MockResult{Clip: &tts.Clip{Data: []byte{0xff, 0xfb}, MIMEType: "audio/mpeg"}})

	h.ctrl.Open(concept(t, "Hg"))
	waitFor(t, h.ctrl, ready)
	h.ctrl.RequestAudio()

	snap := waitFor(t, h.ctrl, func(s Snapshot) bool { return s.Audio == AudioFailed })
	var de *audio.DecodeError
	require.ErrorAs(t, snap.AudioErr, &de)
	require.False(t, snap.AudioCached)
	require.Nil(t, h.device.lastHandle())
}

func TestDeviceOpenFailure(t *testing.T) {
	h := newHarness(t)
	h.device.openErr = errors.New("no sound card")

	h.ctrl.Open(concept(t, "Mg"))
	waitFor(t, h.ctrl, ready)
	h.ctrl.RequestAudio()

	snap := waitFor(t, h.ctrl, func(s Snapshot) bool { return s.Audio == AudioFailed })
	var de *audio.DeviceError
	require.ErrorAs(t, snap.AudioErr, &de)
	require.Zero(t, h.speech.CallCount())

	h.ctrl.DismissAudioError()
	snap = h.ctrl.State()
	require.Equal(t, AudioIdle, snap.Audio)
	require.Nil(t, snap.AudioErr)
}

func TestNaturalEndReturnsToIdle(t *testing.T) {
	h := newHarness(t)
	h.speech.SetFallback(tts.MockResult{Clip: tts.Silence(30 * time.Millisecond)})

	h.ctrl.Open(concept(t, "T0"))
	waitFor(t, h.ctrl, ready)
	h.ctrl.RequestAudio()

	snap := waitFor(t, h.ctrl, func(s Snapshot) bool { return s.Plays == 1 && s.Audio == AudioIdle })
	require.True(t, snap.AudioCached)

	h.ctrl.RequestAudio()
	require.Equal(t, AudioPlaying, h.ctrl.State().Audio)
	require.Equal(t, 1, h.speech.CallCount())
}

func TestClose_StopsPlaybackAndReleasesDevice(t *testing.T) {
	h := newHarness(t)
	h.ctrl.Open(concept(t, "Mg"))
	waitFor(t, h.ctrl, ready)
	h.ctrl.RequestAudio()
	waitFor(t, h.ctrl, playing)

	handle := h.device.lastHandle()
	h.ctrl.Close()

	select {
	case <-handle.Done():
	default:
		t.Fatal("playback still active after Close returned")
	}
	require.EqualValues(t, 1, h.device.closes.Load())
	require.Equal(t, Snapshot{}, h.ctrl.State())

	h.ctrl.Close()
	require.EqualValues(t, 1, h.device.closes.Load())
}

func TestOpen_ReplacesPlayingSession(t *testing.T) {
	h := newHarness(t)
	h.ctrl.Open(concept(t, "Mg"))
	waitFor(t, h.ctrl, ready)
	h.ctrl.RequestAudio()
	waitFor(t, h.ctrl, playing)
	handle := h.device.lastHandle()

	snap := h.ctrl.Open(concept(t, catalog.Neighbor(4, 1).Symbol))
	require.Equal(t, "Lv", snap.Concept.Symbol)
	require.Equal(t, AudioIdle, snap.Audio)
	require.False(t, snap.AudioCached)

	select {
	case <-handle.Done():
	default:
		t.Fatal("previous session still playing")
	}
	require.EqualValues(t, 1, h.device.closes.Load())
}

func TestClose_DuringSpeechFetch(t *testing.T) {
	h := newHarness(t)
	block := make(chan struct{})
	defer close(block)
	h.speech.SetFallback(tts.MockResult{Clip: tts.Silence(time.Second), Block: block})

	h.ctrl.Open(concept(t, "Mg"))
	waitFor(t, h.ctrl, ready)
	h.ctrl.RequestAudio()
	require.Equal(t, AudioLoading, h.ctrl.State().Audio)

	h.ctrl.Close()
	h.ctrl.Wait()

	require.False(t, h.ctrl.State().Active)
	require.Nil(t, h.device.lastHandle())
	require.Equal(t, h.device.opens.Load(), h.device.closes.Load())
}

func TestSpeechArrivingAfterSwitchIsDiscarded(t *testing.T) {
	h := newHarness(t)
	block := make(chan struct{})
	// Ignores cancellation so the result really arrives late.
	h.speech = tts.NewMockSynthesizer()
	h.ctrl = New(Options{Fetcher: h.fetcher, Speech: lateSpeech{gate: block, inner: h.speech}, Device: h.device})
	defer h.ctrl.Shutdown()

	h.ctrl.Open(concept(t, "Mg"))
	waitFor(t, h.ctrl, ready)
	h.ctrl.RequestAudio()

	h.ctrl.Open(concept(t, "Lv"))
	close(block)
	waitFor(t, h.ctrl, ready)
	h.ctrl.Wait()

	snap := h.ctrl.State()
	require.Equal(t, "Lv", snap.Concept.Symbol)
	require.Equal(t, AudioIdle, snap.Audio)
	require.False(t, snap.AudioCached)
	require.Nil(t, h.device.lastHandle())
	require.Equal(t, h.device.opens.Load(), h.device.closes.Load())
}

type lateSpeech struct {
	gate  chan struct{}
	inner tts.Synthesizer
}

func (l lateSpeech) Synthesize(ctx context.Context, text string) (*tts.Clip, error) {
	<-l.gate
	return l.inner.Synthesize(context.Background(), text)
}

func (l lateSpeech) ModelID() string { return "late" }

func TestRequestAudio_NoSession(t *testing.T) {
	h := newHarness(t)
	h.ctrl.RequestAudio()
	h.ctrl.DismissAudioError()
	h.ctrl.Close()
	require.Equal(t, Snapshot{}, h.ctrl.State())
	require.Zero(t, h.speech.CallCount())
}

func TestSessionEventsRecorded(t *testing.T) {
	st, err := store.Open("file:" + t.Name() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	defer st.Close()

	h := newHarness(t, func(o *Options) { o.Events = st.EventRepo() })
	h.ctrl.Open(concept(t, "Mg"))
	waitFor(t, h.ctrl, ready)
	h.ctrl.RequestAudio()
	waitFor(t, h.ctrl, playing)
	h.ctrl.Shutdown()

	rows, err := st.EventRepo().RecentSessions(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	byAction := map[string]store.ConceptSessionEvent{}
	for _, r := range rows {
		byAction[r.Action] = r
	}
	start, end := byAction[store.ActionStart], byAction[store.ActionEnd]
	require.NotEmpty(t, start.SessionID)
	require.Equal(t, start.SessionID, end.SessionID)
	require.Equal(t, "Mg", end.Symbol)
	require.Equal(t, "ready", end.ExplanationStatus)
	require.Equal(t, 1, end.Plays)
	require.Equal(t, 1, end.SpeechFetches)
}

func TestChangedCoalesces(t *testing.T) {
	h := newHarness(t)
	h.ctrl.Open(concept(t, "Mg"))
	h.ctrl.Close()
	h.ctrl.Open(concept(t, "Lv"))
	h.ctrl.Wait()

	select {
	case <-h.ctrl.Changed():
	default:
		t.Fatal("expected a pending notification")
	}
	select {
	case <-h.ctrl.Changed():
		t.Fatal("notifications should coalesce")
	default:
	}
}
