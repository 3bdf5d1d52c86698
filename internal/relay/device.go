package relay

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/five82/penplot/internal/plotter"
	"github.com/five82/penplot/internal/stroke"
)

// DefaultWriteDelay paces instructions so the device can keep up.
const DefaultWriteDelay = 100 * time.Millisecond

// ErrDeviceUnavailable is returned when the device node could not be opened.
var ErrDeviceUnavailable = errors.New("device not available")

// Device is a line oriented instruction sink. Each instruction is written as
// "<c> <value>\n". Without a path instructions are only logged.
type Device struct {
	path  string
	delay time.Duration
	sleep func(time.Duration)

	mu sync.Mutex
	w  io.WriteCloser
}

// NewDevice returns a sink writing to path. Call Connect before use.
func NewDevice(path string, delay time.Duration) *Device {
	if delay < 0 {
		delay = 0
	}
	return &Device{path: path, delay: delay, sleep: time.Sleep}
}

// Connect (re)opens the device node.
func (d *Device) Connect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.w != nil {
		_ = d.w.Close()
		d.w = nil
	}
	if d.path == "" {
		glog.Infof("[device] no device configured, logging instructions only")
		return nil
	}
	f, err := os.OpenFile(d.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		glog.Warningf("[device] cannot open %s: %v", d.path, err)
		return fmt.Errorf("open device %s: %w", d.path, err)
	}
	d.w = f
	glog.Infof("[device] %s connected", d.path)
	return nil
}

// Connected reports whether instructions reach a device or the log sink.
func (d *Device) Connected() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.path == "" || d.w != nil
}

// SendPoint writes the x, y and t instructions of p.
func (d *Device) SendPoint(p stroke.WirePoint) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.writeLocked("x", p.X.String()); err != nil {
		return err
	}
	if err := d.writeLocked("y", p.Y.String()); err != nil {
		return err
	}
	return d.writeLocked("t", p.Kind.String())
}

// Send writes a control command. Connect is handled by the caller through
// Connect.
func (d *Device) Send(cmd plotter.Command) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch {
	case cmd.Home != "":
		return d.writeRawLocked("h\n")
	case cmd.Move != "":
		return d.writeLocked("m", cmd.Move)
	case cmd.Save != "":
		return d.writeLocked("s", cmd.Save)
	}
	return fmt.Errorf("unsupported device command %q", cmd.Label())
}

// Close releases the device node.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.w == nil {
		return nil
	}
	err := d.w.Close()
	d.w = nil
	return err
}

func (d *Device) writeLocked(instr, value string) error {
	return d.writeRawLocked(instr + " " + value + "\n")
}

func (d *Device) writeRawLocked(line string) error {
	if d.path == "" {
		glog.Infof("[device] %q", line)
		d.sleep(d.delay)
		return nil
	}
	if d.w == nil {
		return ErrDeviceUnavailable
	}
	if _, err := io.WriteString(d.w, line); err != nil {
		return fmt.Errorf("write device: %w", err)
	}
	if glog.V(1) {
		glog.Infof("[device] %q", line)
	}
	d.sleep(d.delay)
	return nil
}
