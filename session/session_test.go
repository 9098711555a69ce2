// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/bureau-foundation/gputop/lib/clock"
	"github.com/bureau-foundation/gputop/lib/hwinfo"
	"github.com/bureau-foundation/gputop/lib/logbatch"
	"github.com/bureau-foundation/gputop/lib/perf"
	"github.com/bureau-foundation/gputop/lib/ringbuf"
	"github.com/bureau-foundation/gputop/lib/testutil"
	"github.com/bureau-foundation/gputop/mux"
	"github.com/bureau-foundation/gputop/protocol"
)

const (
	testTick       = 200 * time.Millisecond
	testBufferSize = 8192
	testTimeout    = 5 * time.Second
)

var (
	epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	testDevice = hwinfo.DeviceInfo{DeviceID: 0x1912, EUs: 24, Slices: 1, Subslices: 3, Samplers: 3}

	errConnClosed = errors.New("fake connection closed")
)

// fakeConn hands queued frames to the test through a channel. Frames
// still in the channel when the connection closes complete with an
// error, as a real transport's pending queue would.
type fakeConn struct {
	inbound chan []byte
	frames  chan *mux.Frame
	done    chan struct{}

	mu     sync.Mutex
	closed bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		inbound: make(chan []byte, 16),
		frames:  make(chan *mux.Frame, 256),
		done:    make(chan struct{}),
	}
}

func (c *fakeConn) Queue(frame *mux.Frame) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		go frame.Complete(errConnClosed)
		return
	}
	c.frames <- frame
}

func (c *fakeConn) Receive(ctx context.Context) ([]byte, error) {
	select {
	case data := <-c.inbound:
		return data, nil
	case <-c.done:
		return nil, io.EOF
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	close(c.done)
	for {
		select {
		case frame := <-c.frames:
			go frame.Complete(errConnClosed)
		default:
			return nil
		}
	}
}

// recordingOpener wraps Simulated and remembers every stream it
// opened, so tests can write into their rings.
type recordingOpener struct {
	*perf.Simulated
	unavailable error

	mu      sync.Mutex
	streams []*perf.Stream
}

func (o *recordingOpener) Available() error { return o.unavailable }

func (o *recordingOpener) Open(params perf.Params) (*perf.Stream, error) {
	stream, err := o.Simulated.Open(params)
	if err != nil {
		return nil, err
	}
	o.mu.Lock()
	o.streams = append(o.streams, stream)
	o.mu.Unlock()
	return stream, nil
}

func (o *recordingOpener) stream(t *testing.T, index int) *perf.Stream {
	t.Helper()
	var stream *perf.Stream
	testutil.Eventually(t, func() bool {
		o.mu.Lock()
		defer o.mu.Unlock()
		if index < len(o.streams) {
			stream = o.streams[index]
			return true
		}
		return false
	}, testTimeout, "stream %d never opened", index)
	return stream
}

// writer returns the producer side of the index'th opened stream.
func (o *recordingOpener) writer(t *testing.T, index int) *ringbuf.Writer {
	t.Helper()
	writer := o.Writer(o.stream(t, index))
	if writer == nil {
		t.Fatalf("stream %d already closed", index)
	}
	return writer
}

type harness struct {
	t       *testing.T
	clock   *clock.FakeClock
	opener  *recordingOpener
	logs    *logbatch.Batch
	metrics *Metrics
	server  *Server
	conn    *fakeConn
	session *Session

	cancel context.CancelFunc
	result chan error
}

type harnessOption func(*harness, *Config)

// withLogForwarding has the session forward the harness's log batch
// to the client on every tick.
func withLogForwarding(h *harness, config *Config) {
	config.Logs = h.logs
}

func newHarness(t *testing.T, options ...harnessOption) *harness {
	t.Helper()
	fake := clock.Fake(epoch)
	h := &harness{
		t:       t,
		clock:   fake,
		opener:  &recordingOpener{Simulated: perf.NewSimulated(fake, 0)},
		logs:    logbatch.New(64),
		metrics: NewMetrics(prometheus.NewRegistry()),
		conn:    newFakeConn(),
		result:  make(chan error, 1),
	}
	config := Config{
		Opener:       h.opener,
		Device:       testDevice,
		Clock:        fake,
		TickInterval: testTick,
		BufferSize:   testBufferSize,
		Metrics:      h.metrics,
		Logger:       slog.New(logbatch.NewHandler(h.logs, slog.LevelInfo)),
	}
	for _, option := range options {
		option(h, &config)
	}
	h.server = NewServer(config)

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	go func() { h.result <- h.server.Serve(ctx, h.conn) }()

	testutil.Eventually(t, func() bool {
		h.server.mu.Lock()
		defer h.server.mu.Unlock()
		h.session = h.server.active
		return h.session != nil
	}, testTimeout, "session never started")

	t.Cleanup(func() {
		cancel()
		select {
		case <-h.result:
		case <-time.After(testTimeout):
			t.Error("Serve did not return after cancellation")
		}
	})
	return h
}

// onLoop runs function on the session's event loop and waits for it.
// Everything posted before it has run by the time it returns.
func (h *harness) onLoop(function func()) {
	h.t.Helper()
	done := make(chan struct{})
	h.session.post(func() {
		function()
		close(done)
	})
	testutil.RequireClosed(h.t, done, testTimeout, "event loop stalled")
}

// settle waits until every closure posted so far has run.
func (h *harness) settle() {
	h.t.Helper()
	h.onLoop(func() {})
}

// request dispatches a request on the event loop, bypassing the
// connection's reader so ordering against later onLoop calls is exact.
func (h *harness) request(request protocol.Request) {
	h.t.Helper()
	data, err := protocol.EncodeRequest(request)
	if err != nil {
		h.t.Fatalf("EncodeRequest: %v", err)
	}
	h.onLoop(func() { h.session.handleMessage(data) })
}

// tick runs one scheduler pass on the event loop.
func (h *harness) tick() {
	h.t.Helper()
	h.onLoop(h.session.tick)
}

func (h *harness) openOA(id uint32, metricSet perf.MetricSet) {
	h.t.Helper()
	h.request(protocol.Request{OpenQuery: &protocol.OpenQuery{
		ID:      id,
		OAQuery: &protocol.OAQuery{MetricSet: uint32(metricSet), PeriodExponent: 16},
	}})
}

// nextFrame waits for the next queued frame, reads it to completion
// and completes it successfully.
func (h *harness) nextFrame() (protocol.Header, []byte) {
	h.t.Helper()
	frame := testutil.RequireReceive(h.t, h.conn.frames, testTimeout, "no frame queued")
	return h.deliver(frame)
}

func (h *harness) deliver(frame *mux.Frame) (protocol.Header, []byte) {
	h.t.Helper()
	data, err := io.ReadAll(frame)
	if err != nil {
		h.t.Fatalf("reading frame: %v", err)
	}
	frame.Complete(nil)
	header, payload, err := protocol.ParseHeader(data)
	if err != nil {
		h.t.Fatalf("ParseHeader: %v", err)
	}
	return header, payload
}

// nextControl waits for the next frame and decodes it as a control
// message, skipping Log messages unless wantLog is set.
func (h *harness) nextControl(wantLog bool) protocol.Message {
	h.t.Helper()
	for {
		header, payload := h.nextFrame()
		if header.Kind != protocol.KindControl {
			h.t.Fatalf("frame kind = %s, want control", header.Kind)
		}
		message, err := protocol.DecodeMessage(payload)
		if err != nil {
			h.t.Fatalf("DecodeMessage: %v", err)
		}
		if message.Log != nil && !wantLog {
			continue
		}
		return message
	}
}

func (h *harness) requireNoFrame() {
	h.t.Helper()
	select {
	case frame := <-h.conn.frames:
		h.t.Fatalf("unexpected %s frame for stream %d", frame.Kind(), frame.StreamID())
	default:
	}
}

// counts returns the registry's active and draining sizes.
func (h *harness) counts() (active, draining int) {
	h.t.Helper()
	h.onLoop(func() {
		active = h.session.registry.Len()
		draining = h.session.registry.Draining()
	})
	return active, draining
}

func pattern(n int, seed byte) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = seed + byte(i*13)
	}
	return data
}

func TestGetFeaturesOverConnection(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	data, err := protocol.EncodeRequest(protocol.Request{GetFeatures: &protocol.GetFeatures{}})
	if err != nil {
		t.Fatalf("EncodeRequest: %v", err)
	}
	testutil.RequireSend(t, h.conn.inbound, data, testTimeout)

	message := h.nextControl(false)
	if message.Features == nil {
		t.Fatalf("reply = %s, want features", message.Kind())
	}
	want := protocol.DevInfo{DevID: 0x1912, NEUs: 24, NEUSlices: 1, NEUSubSlices: 3, NSamplers: 3}
	if message.Features.DevInfo != want {
		t.Errorf("devinfo = %+v, want %+v", message.Features.DevInfo, want)
	}
	if !message.Features.HasI915OA || message.Features.HasGLPerformanceQuery {
		t.Errorf("features = %+v, want i915 OA only", message.Features)
	}
	if got := promtest.ToFloat64(h.metrics.Requests.WithLabelValues("get_features")); got != 1 {
		t.Errorf("get_features requests = %v, want 1", got)
	}
}

func TestGetFeaturesWithoutCounterAccess(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.opener.unavailable = errors.New("i915_oa PMU not found")

	h.request(protocol.Request{GetFeatures: &protocol.GetFeatures{}})
	h.requireNoFrame()

	entries, _ := h.logs.Drain()
	found := false
	for _, entry := range entries {
		if entry.Level == slog.LevelWarn && strings.Contains(entry.Message, "i915_oa PMU not found") {
			found = true
		}
	}
	if !found {
		t.Errorf("no warning logged for missing counter access; entries = %+v", entries)
	}
}

func TestOpenArmsTickerAndStreamsSamples(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	if pending := h.clock.PendingCount(); pending != 0 {
		t.Fatalf("ticker armed before any stream opened: %d timers", pending)
	}
	h.openOA(1, perf.MetricSetRenderBasic)
	h.clock.WaitForTimers(1)

	record := make([]byte, perf.SampleRecordSize)
	perf.EncodeSyntheticRecord(record, perf.MetricSetRenderBasic, 99)
	if !h.opener.writer(t, 0).Write(record) {
		t.Fatal("ring rejected a record")
	}

	h.clock.Advance(testTick)
	header, payload := h.nextFrame()
	if header.Kind != protocol.KindSample || header.StreamID != 1 {
		t.Fatalf("header = %+v, want sample for stream 1", header)
	}
	if !bytes.Equal(payload, record) {
		t.Errorf("payload differs from the record written to the ring")
	}

	h.settle()
	if pending := h.opener.stream(t, 0).Reader().PendingBytes(); pending != 0 {
		t.Errorf("PendingBytes = %d after delivery, want 0", pending)
	}
	if got := promtest.ToFloat64(h.metrics.SampleBytes); got != float64(len(record)) {
		t.Errorf("sample bytes = %v, want %d", got, len(record))
	}
}

func TestWrappedRingProducesOneFrame(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.openOA(3, perf.MetricSetComputeBasic)
	writer := h.opener.writer(t, 0)

	// Advance the tail to 8000 by streaming one frame.
	if !writer.Write(pattern(8000, 1)) {
		t.Fatal("ring rejected the first 8000 bytes")
	}
	h.tick()
	if _, payload := h.nextFrame(); len(payload) != 8000 {
		t.Fatalf("first frame carried %d bytes, want 8000", len(payload))
	}
	h.settle()

	// 4000 more bytes wrap: 192 at the end of the ring, 3808 at the start.
	want := pattern(4000, 2)
	if !writer.Write(want) {
		t.Fatal("ring rejected the wrapping write")
	}
	h.tick()
	header, payload := h.nextFrame()
	if header.Kind != protocol.KindSample || header.StreamID != 3 {
		t.Fatalf("header = %+v, want sample for stream 3", header)
	}
	if !bytes.Equal(payload, want) {
		t.Fatalf("wrapped payload (%d bytes) differs from the bytes written", len(payload))
	}
	h.settle()

	reader := h.opener.stream(t, 0).Reader()
	if tail := reader.Snapshot().Tail; tail != 12000 {
		t.Errorf("tail = %d after wrapped frame, want 12000", tail)
	}
	if pending := reader.PendingBytes(); pending != 0 {
		t.Errorf("PendingBytes = %d, want 0", pending)
	}
}

func TestSingleSamplePermit(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.openOA(1, perf.MetricSetRenderBasic)
	h.openOA(2, perf.MetricSetComputeBasic)
	h.opener.writer(t, 0).Write(pattern(100, 1))
	h.opener.writer(t, 1).Write(pattern(200, 2))

	h.tick()
	first := testutil.RequireReceive(t, h.conn.frames, testTimeout, "no sample frame")
	if first.Kind() != protocol.KindSample {
		t.Fatalf("first frame kind = %s, want sample", first.Kind())
	}

	// The permit is held, so a second pass queues nothing.
	h.tick()
	h.requireNoFrame()
	if throttled := promtest.ToFloat64(h.metrics.FlushThrottled); throttled == 0 {
		t.Error("no throttled attempts recorded while the permit was held")
	}
	attempts := promtest.ToFloat64(h.metrics.FlushAttempts)
	frames := promtest.ToFloat64(h.metrics.SampleFrames)
	if frames != 1 || attempts <= frames {
		t.Errorf("attempts = %v, frames = %v; want one frame and more attempts", attempts, frames)
	}

	// Completing the frame frees the permit; the other stream goes next.
	h.deliver(first)
	h.settle()
	h.tick()
	second := testutil.RequireReceive(t, h.conn.frames, testTimeout, "permit never released")
	if second.StreamID() == first.StreamID() {
		t.Errorf("stream %d sent twice while stream %d waited", first.StreamID(), first.StreamID()%2+1)
	}
	h.deliver(second)
}

func TestCloseUnknownIDIsNoop(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.openOA(1, perf.MetricSetRenderBasic)

	h.request(protocol.Request{CloseQuery: &protocol.CloseQuery{ID: 99}})
	if active, draining := h.counts(); active != 1 || draining != 0 {
		t.Errorf("active = %d, draining = %d; want 1, 0", active, draining)
	}
	h.requireNoFrame()
}

func TestDuplicateIDResolvesToNewestStream(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.openOA(5, perf.MetricSetRenderBasic)
	h.openOA(5, perf.MetricSetMemoryReads)

	if active, _ := h.counts(); active != 2 {
		t.Fatalf("active = %d, want both streams", active)
	}
	var query protocol.OAQuery
	h.onLoop(func() {
		handle, _ := h.session.registry.Lookup(5)
		query = h.session.registry.Get(handle).Query
	})
	if perf.MetricSet(query.MetricSet) != perf.MetricSetMemoryReads {
		t.Errorf("id 5 resolves to metric set %d, want the second stream's", query.MetricSet)
	}

	h.request(protocol.Request{CloseQuery: &protocol.CloseQuery{ID: 5}})
	message := h.nextControl(false)
	if message.CloseNotify == nil || message.CloseNotify.ID != 5 {
		t.Fatalf("reply = %+v, want close_notify for 5", message)
	}
	if h.opener.Writer(h.opener.stream(t, 1)) != nil {
		t.Error("second stream still open after close")
	}
	if h.opener.Writer(h.opener.stream(t, 0)) == nil {
		t.Error("first stream closed along with the second")
	}
	if active, _ := h.counts(); active != 1 {
		t.Errorf("active = %d after close, want 1", active)
	}
}

func TestCloseWaitsForInFlightFrame(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.openOA(4, perf.MetricSetRenderBasic)
	h.opener.writer(t, 0).Write(pattern(512, 3))

	h.tick()
	frame := testutil.RequireReceive(t, h.conn.frames, testTimeout, "no sample frame")

	h.request(protocol.Request{CloseQuery: &protocol.CloseQuery{ID: 4}})
	if active, draining := h.counts(); active != 0 || draining != 1 {
		t.Fatalf("active = %d, draining = %d; want 0, 1", active, draining)
	}
	if h.opener.Writer(h.opener.stream(t, 0)) == nil {
		t.Fatal("ring released while a frame still references it")
	}
	h.requireNoFrame()

	h.deliver(frame)
	h.settle()
	h.tick()

	message := h.nextControl(false)
	if message.CloseNotify == nil || message.CloseNotify.ID != 4 {
		t.Fatalf("reply = %+v, want close_notify for 4", message)
	}
	if active, draining := h.counts(); active != 0 || draining != 0 {
		t.Errorf("active = %d, draining = %d; want 0, 0", active, draining)
	}
	if h.opener.Writer(h.opener.stream(t, 0)) != nil {
		t.Error("ring not released after the last frame completed")
	}
	h.requireNoFrame()
}

func TestDisconnectClosesAllStreams(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.openOA(1, perf.MetricSetRenderBasic)
	h.openOA(2, perf.MetricSetComputeBasic)
	h.opener.writer(t, 0).Write(pattern(128, 5))
	h.tick()
	frame := testutil.RequireReceive(t, h.conn.frames, testTimeout, "no sample frame")

	// The in-flight frame fails when the connection goes away; only
	// then can stream 1 be destroyed and the session finish.
	h.conn.Close()
	frame.Complete(errConnClosed)
	select {
	case err := <-h.result:
		if err != nil {
			t.Fatalf("Serve = %v, want nil after the client disconnected", err)
		}
	case <-time.After(testTimeout):
		t.Fatal("Serve did not return after disconnect")
	}
	h.result <- nil

	for index := range 2 {
		if h.opener.Writer(h.opener.stream(t, index)) != nil {
			t.Errorf("stream %d still open after disconnect", index)
		}
	}
	if h.server.Busy() {
		t.Error("server still busy after the session ended")
	}
	if got := promtest.ToFloat64(h.metrics.ActiveStreams); got != 0 {
		t.Errorf("active streams gauge = %v, want 0", got)
	}
	if got := promtest.ToFloat64(h.metrics.FrameErrors); got != 1 {
		t.Errorf("frame errors = %v, want 1", got)
	}
}

func TestMalformedRequestKeepsConnection(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	h.onLoop(func() { h.session.handleMessage([]byte{0xff, 0x00, 0x13}) })
	if got := promtest.ToFloat64(h.metrics.DecodeErrors); got != 1 {
		t.Fatalf("decode errors = %v, want 1", got)
	}
	h.requireNoFrame()

	h.request(protocol.Request{GetFeatures: &protocol.GetFeatures{}})
	if message := h.nextControl(false); message.Features == nil {
		t.Errorf("reply after malformed request = %s, want features", message.Kind())
	}
}

func TestGLQueryIgnored(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	h.request(protocol.Request{OpenQuery: &protocol.OpenQuery{
		ID:      9,
		GLQuery: &protocol.GLQuery{Name: "Pipeline Statistics"},
	}})
	if active, _ := h.counts(); active != 0 {
		t.Errorf("active = %d after GL query, want 0", active)
	}
	if pending := h.clock.PendingCount(); pending != 0 {
		t.Errorf("ticker armed by an ignored query")
	}
	h.requireNoFrame()
}

func TestOpenFailureForwardedAsLog(t *testing.T) {
	t.Parallel()
	h := newHarness(t, withLogForwarding)

	h.openOA(6, perf.MetricSet(99))
	if active, _ := h.counts(); active != 0 {
		t.Fatalf("active = %d after failed open, want 0", active)
	}
	reason := perf.ReasonInvalidMetricSet.String()
	if got := promtest.ToFloat64(h.metrics.OpenFailures.WithLabelValues(reason)); got != 1 {
		t.Errorf("open failures{%s} = %v, want 1", reason, got)
	}

	h.tick()
	message := h.nextControl(true)
	if message.Log == nil {
		t.Fatalf("reply = %s, want log", message.Kind())
	}
	found := false
	for _, entry := range message.Log.Entries {
		if entry.Level == slog.LevelError.String() && strings.Contains(entry.Message, "reason="+reason) {
			found = true
		}
	}
	if !found {
		t.Errorf("log entries %+v carry no error with the failure reason", message.Log.Entries)
	}
}

func TestForwardLogsReportsDrops(t *testing.T) {
	t.Parallel()
	h := newHarness(t, func(h *harness, config *Config) {
		config.Logs = logbatch.New(2)
		config.Logger = slog.New(logbatch.NewHandler(config.Logs, slog.LevelInfo))
	})
	logs := h.server.config.Logs
	h.settle()
	logs.Drain()
	for _, message := range []string{"one", "two", "three", "four"} {
		logs.Add(logbatch.Entry{Level: slog.LevelInfo, Message: message})
	}

	h.tick()
	message := h.nextControl(true)
	if message.Log == nil {
		t.Fatalf("reply = %s, want log", message.Kind())
	}
	entries := message.Log.Entries
	if len(entries) != 3 {
		t.Fatalf("entries = %+v, want drop notice plus two entries", entries)
	}
	if entries[0].Level != "WARN" || entries[0].Message != "2 log entries dropped" {
		t.Errorf("first entry = %+v, want the drop notice", entries[0])
	}
	if entries[1].Message != "three" || entries[2].Message != "four" {
		t.Errorf("entries = %+v, want the newest two", entries[1:])
	}

	// Nothing new: the next tick sends nothing.
	h.tick()
	h.requireNoFrame()
}

func TestSecondClientIsBusy(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	if !h.server.Busy() {
		t.Fatal("Busy = false with a session running")
	}

	err := h.server.Serve(context.Background(), newFakeConn())
	if !errors.Is(err, ErrBusy) {
		t.Fatalf("second Serve = %v, want ErrBusy", err)
	}
	if got := promtest.ToFloat64(h.metrics.RejectedClients); got != 1 {
		t.Errorf("rejected clients = %v, want 1", got)
	}
}

func TestCancelEndsSession(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.openOA(1, perf.MetricSetRenderBasic)

	h.cancel()
	select {
	case err := <-h.result:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Serve = %v, want context.Canceled", err)
		}
	case <-time.After(testTimeout):
		t.Fatal("Serve did not return after cancellation")
	}
	h.result <- nil

	if h.opener.Writer(h.opener.stream(t, 0)) != nil {
		t.Error("stream still open after cancellation")
	}
	if pending := h.clock.PendingCount(); pending != 0 {
		t.Errorf("ticker still registered after the session ended: %d timers", pending)
	}
}

func TestNewServerRequiresDependencies(t *testing.T) {
	t.Parallel()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	opener := perf.NewSimulated(clock.Fake(epoch), 0)
	tests := []struct {
		name   string
		config Config
	}{
		{"no opener", Config{Clock: clock.Fake(epoch), Logger: logger}},
		{"no clock", Config{Opener: opener, Logger: logger}},
		{"no logger", Config{Opener: opener, Clock: clock.Fake(epoch)}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			defer func() {
				if recover() == nil {
					t.Fatal("NewServer did not panic")
				}
			}()
			NewServer(test.config)
		})
	}
}
