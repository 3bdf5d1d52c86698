package relay

import (
	"bytes"
	"encoding/json"
	"sync"

	"github.com/golang/glog"

	"github.com/five82/penplot/internal/plotter"
	"github.com/five82/penplot/internal/stroke"
)

// ClearAfterSamePolls is how many further polls a lone clearing client makes
// before the relay stops answering it with an empty list.
const ClearAfterSamePolls = 3

var emptyReply = []byte("[]")

// Lines is the shared line list every client converges on.
//
// A clear is propagated by answering [] to every other client until one of
// them has seen it and the clearing client polls again. A clearing client
// with no peers is released after ClearAfterSamePolls polls.
type Lines struct {
	mu    sync.Mutex
	saved []stroke.PixelPoint

	clearing    bool   // other clients must still be told to clear
	clearedBy   string // client that issued the clear
	observedBy  string // last other client that received the clear
	samePollCnt int
}

// NewLines returns an empty list.
func NewLines() *Lines {
	return &Lines{}
}

// Update merges a sync body from client and returns the reply body.
func (l *Lines) Update(client string, body []byte) []byte {
	l.mu.Lock()
	defer l.mu.Unlock()

	body = bytes.TrimSpace(body)

	if l.clearedBy == client && l.observedBy != "" {
		l.clearing = false
		l.clearedBy = ""
	} else if l.clearedBy == client && l.clearing {
		l.samePollCnt++
		if l.samePollCnt > ClearAfterSamePolls {
			l.clearing = false
			l.samePollCnt = 0
		}
		// Whatever the clearing client still holds predates its own clear.
		l.saved = nil
		body = emptyReply
	}

	isClear := bytes.HasPrefix(body, []byte(plotter.ClearToken))
	if isClear {
		glog.Infof("[lines] clear from %s", client)
		l.clearing = true
		l.clearedBy = client
		l.observedBy = ""
		l.samePollCnt = 0
		l.saved = nil
	}

	switch {
	case l.clearing && l.clearedBy != client:
		l.saved = nil
		l.observedBy = client
	case !isClear && !bytes.HasPrefix(body, emptyReply):
		var pushed []stroke.PixelPoint
		if err := json.Unmarshal(body, &pushed); err != nil {
			glog.Warningf("[lines] ignoring malformed list from %s: %v", client, err)
			break
		}
		if l.saved != nil && !stroke.Equal(l.saved, pushed) {
			l.saved = dropDuplicateStrokes(append(l.saved, pushed...))
		} else {
			l.saved = pushed
		}
	}

	if glog.V(1) {
		glog.Infof("[lines] %s -> %d points (clearing=%v)", client, len(l.saved), l.clearing)
	}
	return l.replyLocked()
}

// Snapshot returns a copy of the stored list.
func (l *Lines) Snapshot() []stroke.PixelPoint {
	l.mu.Lock()
	defer l.mu.Unlock()
	return stroke.Clone(l.saved)
}

func (l *Lines) replyLocked() []byte {
	if len(l.saved) == 0 {
		return emptyReply
	}
	out, err := json.Marshal(l.saved)
	if err != nil {
		glog.Errorf("[lines] encode: %v", err)
		return emptyReply
	}
	return out
}

// dropDuplicateStrokes removes the earlier copy of every whole stroke that
// appears again later in the list. A run is only removed when it starts on a
// Start point and ends on an End point, all of which recur later.
func dropDuplicateStrokes(points []stroke.PixelPoint) []stroke.PixelPoint {
	remove := make([]bool, len(points))
	var run []int
	for i, p := range points {
		if !occursAfter(points, i) {
			run = nil
			continue
		}
		switch {
		case len(run) == 0 && p.Kind == stroke.Start:
			run = append(run, i)
		case len(run) != 0:
			run = append(run, i)
			if p.Kind == stroke.End {
				for _, j := range run {
					remove[j] = true
				}
				run = nil
			}
		default:
			run = nil
		}
	}

	out := make([]stroke.PixelPoint, 0, len(points))
	for i, p := range points {
		if !remove[i] {
			out = append(out, p)
		}
	}
	return out
}

func occursAfter(points []stroke.PixelPoint, i int) bool {
	for _, q := range points[i+1:] {
		if q == points[i] {
			return true
		}
	}
	return false
}
