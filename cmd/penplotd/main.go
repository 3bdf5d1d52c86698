package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/docopt/docopt-go"
	"github.com/golang/glog"

	"github.com/five82/penplot/internal/lan"
	"github.com/five82/penplot/internal/relay"
)

const version = "0.1.0"

const usage = `penplot relay.

Keeps the shared line list for penplot clients and forwards points to the
plotting device.

Usage:
    penplotd [--addr=<addr>] [--device=<path>] [--delay=<ms>]
        [--advertise] [--name=<name>] [-v]
    penplotd -h | --help
    penplotd --version

Options:
    -h --help          Show this screen.
    --version          Show version.
    --addr=<addr>      Listen address [default: :8080].
    --device=<path>    Device node receiving instructions. Without it
                       instructions are only logged.
    --delay=<ms>       Pause after each instruction [default: 100].
    --advertise        Announce the relay on the local network.
    --name=<name>      Instance name to announce; defaults to the host name.
    -v --verbose       Log every sync exchange.`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	opts, err := docopt.ParseArgs(usage, argv, version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "penplotd: %v\n", err)
		return 2
	}

	// glog is configured through the standard flag set.
	_ = flag.Set("logtostderr", "true")
	if verbose, _ := opts.Bool("--verbose"); verbose {
		_ = flag.Set("v", "1")
	}
	defer glog.Flush()

	delayMS, err := opts.Int("--delay")
	if err != nil || delayMS < 0 {
		fmt.Fprintf(os.Stderr, "penplotd: invalid --delay\n")
		return 2
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	device := relay.NewDevice(optString(opts, "--device"), time.Duration(delayMS)*time.Millisecond)
	if err := device.Connect(); err != nil {
		glog.Warningf("[device] starting without device: %v", err)
	}
	defer func() { _ = device.Close() }()

	ln, err := net.Listen("tcp", optString(opts, "--addr"))
	if err != nil {
		glog.Errorf("[relay] listen: %v", err)
		return 1
	}
	glog.Infof("[relay] %s listening on %s", version, ln.Addr())

	if advertise, _ := opts.Bool("--advertise"); advertise {
		if tcp, ok := ln.Addr().(*net.TCPAddr); ok {
			adv, err := lan.Advertise(optString(opts, "--name"), tcp.Port)
			if err != nil {
				glog.Warningf("[mdns] advertise failed: %v", err)
			} else {
				glog.Infof("[mdns] advertising %s on port %d", lan.ServiceType, tcp.Port)
				defer func() { _ = adv.Close() }()
			}
		}
	}

	server := relay.NewServer(relay.NewLines(), device)
	if err := server.Serve(ctx, ln); err != nil {
		glog.Errorf("[relay] %v", err)
		return 1
	}
	glog.Infof("[relay] stopped")
	return 0
}

func optString(opts docopt.Opts, key string) string {
	if v, ok := opts[key].(string); ok {
		return v
	}
	return ""
}
