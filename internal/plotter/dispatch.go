package plotter

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/five82/penplot/internal/stroke"
)

const defaultQueueSize = 256

// ErrQueueFull is reported when an outbound message is dropped.
var ErrQueueFull = errors.New("outbound queue full")

// Outbound is a point or command waiting to be sent.
type Outbound struct {
	Point   *stroke.WirePoint
	Command *Command
}

func (o Outbound) describe() string {
	if o.Point != nil {
		return fmt.Sprintf("point %s,%s %s", o.Point.X, o.Point.Y, o.Point.Kind)
	}
	if o.Command != nil {
		return "command " + o.Command.Label()
	}
	return "empty"
}

// Dispatcher sends points and commands one at a time, in enqueue order, so
// the device receives a stroke in the order it was drawn.
type Dispatcher struct {
	transport Transport
	queue     chan Outbound
	errs      chan error
}

// NewDispatcher returns a Dispatcher with a bounded queue. size <= 0 uses
// the default.
func NewDispatcher(transport Transport, size int) *Dispatcher {
	if size <= 0 {
		size = defaultQueueSize
	}
	return &Dispatcher{
		transport: transport,
		queue:     make(chan Outbound, size),
		errs:      make(chan error, 16),
	}
}

// Start launches the send loop. It returns immediately; the loop exits when
// ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-d.queue:
				if err := d.send(ctx, msg); err != nil {
					log.Printf("send %s failed: %v", msg.describe(), err)
					d.report(err)
				}
			}
		}
	}()
}

// EnqueuePoint queues a stroke point.
func (d *Dispatcher) EnqueuePoint(p stroke.WirePoint) {
	d.enqueue(Outbound{Point: &p})
}

// EnqueueCommand queues a device command.
func (d *Dispatcher) EnqueueCommand(c Command) {
	d.enqueue(Outbound{Command: &c})
}

// Errors delivers transport failures. Reports are dropped when nobody reads.
func (d *Dispatcher) Errors() <-chan error {
	return d.errs
}

func (d *Dispatcher) enqueue(msg Outbound) {
	select {
	case d.queue <- msg:
	default:
		d.report(fmt.Errorf("%w: dropped %s", ErrQueueFull, msg.describe()))
	}
}

func (d *Dispatcher) send(ctx context.Context, msg Outbound) error {
	switch {
	case msg.Point != nil:
		return d.transport.SendPoint(ctx, *msg.Point)
	case msg.Command != nil:
		return d.transport.SendCommand(ctx, *msg.Command)
	}
	return nil
}

func (d *Dispatcher) report(err error) {
	select {
	case d.errs <- err:
	default:
	}
}
