package plotter

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/five82/penplot/internal/stroke"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" {
		t.Fatalf("scheme = %q, want http", u.Scheme)
	}
	if u.Host != defaultServer {
		t.Fatalf("host = %q, want %q", u.Host, defaultServer)
	}

	u, err = parseBaseURL("http://example.com:1234/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func TestDecodeResponse(t *testing.T) {
	cases := []struct {
		name string
		body string
		kind ResponseKind
		n    int
	}{
		{"empty array", "[]", ClearAll, 0},
		{"empty array with space", "  [ ]\n", ClearAll, 0},
		{"list", `[{"x":1,"y":2,"pointType":"start"},{"x":3,"y":4,"pointType":"end"}]`, StrokeList, 2},
		{"text", "Data: {}\nReceived successfully", Unrecognized, 0},
		{"empty body", "", Unrecognized, 0},
		{"malformed array", `[{"x":1,`, Unrecognized, 0},
		{"bad point type", `[{"x":1,"y":2,"pointType":"sideways"}]`, Unrecognized, 0},
		{"null element", `[null]`, Unrecognized, 0},
		{"empty object", `[{}]`, Unrecognized, 0},
		{"missing point type", `[{"x":1,"y":2}]`, Unrecognized, 0},
		{"missing y", `[{"x":1,"pointType":"start"}]`, Unrecognized, 0},
		{"null point type", `[{"x":1,"y":2,"pointType":null}]`, Unrecognized, 0},
		{"one bad element", `[{"x":1,"y":2,"pointType":"start"},{"x":3,"y":4}]`, Unrecognized, 0},
		{"string element", `["start"]`, Unrecognized, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DecodeResponse([]byte(tc.body))
			if got.Kind != tc.kind {
				t.Fatalf("Kind = %v, want %v", got.Kind, tc.kind)
			}
			if len(got.Points) != tc.n {
				t.Fatalf("len(Points) = %d, want %d", len(got.Points), tc.n)
			}
		})
	}
}

func TestDecodeResponse_Points(t *testing.T) {
	got := DecodeResponse([]byte(`[{"x":0,"y":0,"pointType":"start"},{"x":3,"y":4,"pointType":"end"}]`))
	want := []stroke.PixelPoint{{X: 0, Y: 0, Kind: stroke.Start}, {X: 3, Y: 4, Kind: stroke.End}}
	if got.Kind != StrokeList || !stroke.Equal(got.Points, want) {
		t.Fatalf("DecodeResponse = %v %v, want %v", got.Kind, got.Points, want)
	}
}

func TestSyncRequest_Body(t *testing.T) {
	body, err := SyncRequest{Clear: true, Points: []stroke.PixelPoint{{X: 1}}}.Body()
	if err != nil || string(body) != "[clear]" {
		t.Fatalf("clear body = %q, %v", body, err)
	}
	body, err = SyncRequest{}.Body()
	if err != nil || string(body) != "[]" {
		t.Fatalf("empty body = %q, %v", body, err)
	}
	body, err = SyncRequest{Points: []stroke.PixelPoint{{X: 1, Y: 2, Kind: stroke.End}}}.Body()
	if err != nil || string(body) != `[{"x":1,"y":2,"pointType":"end"}]` {
		t.Fatalf("list body = %q, %v", body, err)
	}
}

func TestMoveCommand(t *testing.T) {
	cmd, err := MoveCommand(DirLeft)
	if err != nil || cmd.Move != "left" || cmd.Label() != "move left" {
		t.Fatalf("MoveCommand(left) = %#v, %v", cmd, err)
	}
	if _, err := MoveCommand("sideways"); err == nil {
		t.Fatalf("MoveCommand accepted unknown direction")
	}
}

func TestClient_PostsEndpointsAndHeaders(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	bodies := map[string]string{}
	var gotClient, gotUserAgent string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies[r.URL.Path] = string(raw)
		gotClient = r.Header.Get(ClientHeader)
		gotUserAgent = r.Header.Get("User-Agent")
		mu.Unlock()

		switch r.URL.Path {
		case "/api/lines":
			_, _ = w.Write([]byte(`[{"x":5,"y":6,"pointType":"start"},{"x":7,"y":8,"pointType":"end"}]`))
		case "/api/point", "/api/command":
			_, _ = w.Write([]byte("ok"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, "client-1")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	canvas := stroke.Canvas{Width: 650, Height: 650}
	if err := c.SendPoint(ctx, canvas.Wire(stroke.Sample{X: 700, Y: 325, Kind: stroke.Mid})); err != nil {
		t.Fatalf("SendPoint returned error: %v", err)
	}
	if err := c.SendCommand(ctx, HomeCommand()); err != nil {
		t.Fatalf("SendCommand returned error: %v", err)
	}
	resp, err := c.Sync(ctx, SyncRequest{Points: []stroke.PixelPoint{{X: 1, Y: 1, Kind: stroke.Start}}})
	if err != nil {
		t.Fatalf("Sync returned error: %v", err)
	}
	if resp.Kind != StrokeList || len(resp.Points) != 2 || resp.Points[1].Kind != stroke.End {
		t.Fatalf("Sync response = %#v", resp)
	}

	mu.Lock()
	defer mu.Unlock()
	if bodies["/api/point"] != `{"x":1.000000,"y":0.500000,"t":"mid"}` {
		t.Fatalf("point body = %q", bodies["/api/point"])
	}
	if bodies["/api/command"] != `{"h":"home"}` {
		t.Fatalf("command body = %q", bodies["/api/command"])
	}
	if bodies["/api/lines"] != `[{"x":1,"y":1,"pointType":"start"}]` {
		t.Fatalf("lines body = %q", bodies["/api/lines"])
	}
	if gotClient != "client-1" {
		t.Fatalf("%s = %q, want client-1", ClientHeader, gotClient)
	}
	if !strings.HasPrefix(gotUserAgent, "penplot/") {
		t.Fatalf("User-Agent = %q, want penplot/*", gotUserAgent)
	}
}

func TestClient_HTTPErrorAndUnreachable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, "")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.Sync(context.Background(), SyncRequest{Clear: true})
	if err == nil || !strings.Contains(err.Error(), "returned status 500") {
		t.Fatalf("Sync error = %v, want status 500 error", err)
	}

	dead, err := NewClient("127.0.0.1:1", "")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if err := dead.SendCommand(context.Background(), ConnectCommand()); err == nil {
		t.Fatalf("SendCommand to closed port returned nil error")
	}
}

type recordingTransport struct {
	mu    sync.Mutex
	sent  []string
	fail  error
	done  chan struct{}
	limit int
}

func (r *recordingTransport) record(s string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, s)
	if len(r.sent) == r.limit {
		close(r.done)
	}
	return r.fail
}

func (r *recordingTransport) SendPoint(_ context.Context, p stroke.WirePoint) error {
	return r.record("p:" + p.X.String())
}

func (r *recordingTransport) SendCommand(_ context.Context, c Command) error {
	return r.record("c:" + c.Label())
}

func (r *recordingTransport) Sync(context.Context, SyncRequest) (Response, error) {
	return Response{}, nil
}

func TestDispatcher_PreservesOrder(t *testing.T) {
	rt := &recordingTransport{done: make(chan struct{}), limit: 4}
	d := NewDispatcher(rt, 8)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	d.EnqueuePoint(stroke.WirePoint{X: "0.1", Y: "0", Kind: stroke.Start})
	d.EnqueuePoint(stroke.WirePoint{X: "0.2", Y: "0"})
	d.EnqueueCommand(HomeCommand())
	d.EnqueuePoint(stroke.WirePoint{X: "0.3", Y: "0", Kind: stroke.End})
	d.Start(ctx)

	select {
	case <-rt.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("dispatcher did not drain queue")
	}

	rt.mu.Lock()
	defer rt.mu.Unlock()
	want := []string{"p:0.1", "p:0.2", "c:home", "p:0.3"}
	for i := range want {
		if rt.sent[i] != want[i] {
			t.Fatalf("sent = %v, want %v", rt.sent, want)
		}
	}
}

func TestDispatcher_ReportsErrorsAndFullQueue(t *testing.T) {
	rt := &recordingTransport{done: make(chan struct{}), limit: 1, fail: errors.New("boom")}
	d := NewDispatcher(rt, 1)

	d.EnqueueCommand(HomeCommand())
	d.EnqueueCommand(SaveHomeCommand())

	select {
	case err := <-d.Errors():
		if !errors.Is(err, ErrQueueFull) {
			t.Fatalf("error = %v, want ErrQueueFull", err)
		}
	default:
		t.Fatalf("no error reported for full queue")
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	d.Start(ctx)

	select {
	case err := <-d.Errors():
		if err == nil || err.Error() != "boom" {
			t.Fatalf("error = %v, want boom", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("transport failure not reported")
	}
}
