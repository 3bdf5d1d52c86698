package plotter

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/five82/penplot/internal/stroke"
)

// Command is a device control payload. Exactly one field is set on the wire.
type Command struct {
	Save    string `json:"s,omitempty"`
	Home    string `json:"h,omitempty"`
	Connect string `json:"c,omitempty"`
	Move    string `json:"m,omitempty"`
}

// Jog directions accepted by MoveCommand.
const (
	DirUp    = "up"
	DirDown  = "down"
	DirLeft  = "left"
	DirRight = "right"
)

// SaveHomeCommand persists the current pen position as home.
func SaveHomeCommand() Command { return Command{Save: "save"} }

// HomeCommand moves the pen to the saved home position.
func HomeCommand() Command { return Command{Home: "home"} }

// ConnectCommand reinitialises the device link.
func ConnectCommand() Command { return Command{Connect: "connect"} }

// MoveCommand jogs the pen one step in direction.
func MoveCommand(direction string) (Command, error) {
	switch direction {
	case DirUp, DirDown, DirLeft, DirRight:
		return Command{Move: direction}, nil
	}
	return Command{}, fmt.Errorf("unknown direction %q", direction)
}

// Label returns a short human readable name for the command.
func (c Command) Label() string {
	switch {
	case c.Save != "":
		return "save home"
	case c.Home != "":
		return "home"
	case c.Connect != "":
		return "connect"
	case c.Move != "":
		return "move " + c.Move
	}
	return "empty"
}

// ClearToken is the literal sync body announcing an explicit clear.
const ClearToken = "[clear]"

// SyncRequest is a multi-client sync payload: either an explicit clear or the
// client's current view of the line list.
type SyncRequest struct {
	Clear  bool
	Points []stroke.PixelPoint
}

// Body encodes the request as sent on the wire.
func (r SyncRequest) Body() ([]byte, error) {
	if r.Clear {
		return []byte(ClearToken), nil
	}
	points := r.Points
	if points == nil {
		points = []stroke.PixelPoint{}
	}
	return json.Marshal(points)
}

// ResponseKind classifies a sync reply.
type ResponseKind int

const (
	// Unrecognized replies carry no line list and are a sync no-op.
	Unrecognized ResponseKind = iota
	// ClearAll means the relay's line list is empty.
	ClearAll
	// StrokeList carries a non-empty authoritative line list.
	StrokeList
)

func (k ResponseKind) String() string {
	switch k {
	case ClearAll:
		return "clear-all"
	case StrokeList:
		return "stroke-list"
	default:
		return "unrecognized"
	}
}

// Response is a sync reply classified once at the transport boundary.
type Response struct {
	Kind   ResponseKind
	Points []stroke.PixelPoint
}

// wirePixel mirrors stroke.PixelPoint with every field required.
type wirePixel struct {
	X    *int         `json:"x"`
	Y    *int         `json:"y"`
	Kind *stroke.Kind `json:"pointType"`
}

// DecodeResponse classifies a raw sync reply. Malformed arrays, including
// elements missing a coordinate or point type, are treated as Unrecognized
// so the previous list is kept.
func DecodeResponse(body []byte) Response {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return Response{Kind: Unrecognized}
	}
	var raw []wirePixel
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return Response{Kind: Unrecognized}
	}
	if len(raw) == 0 {
		return Response{Kind: ClearAll}
	}
	points := make([]stroke.PixelPoint, len(raw))
	for i, r := range raw {
		if r.X == nil || r.Y == nil || r.Kind == nil {
			return Response{Kind: Unrecognized}
		}
		points[i] = stroke.PixelPoint{X: *r.X, Y: *r.Y, Kind: *r.Kind}
	}
	return Response{Kind: StrokeList, Points: points}
}
