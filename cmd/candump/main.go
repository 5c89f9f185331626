// Command candump listens on a SocketCAN interface and prints frames in
// candump's compact text format, optionally decoding them against a DBC
// file.
//
//	candump -i can0 -dbc vehicle.dbc
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/candbc/canbus"
	"github.com/candbc/canbus/dbc"
)

func main() {
	iface := flag.String("i", "can0", "CAN interface name")
	dbcPath := flag.String("dbc", "", "optional DBC file to decode against")
	minID := flag.Uint("min", 0, "lower bound of an optional id range filter")
	maxID := flag.Uint("max", 0, "upper bound of an optional id range filter (0 disables the range filter)")
	fd := flag.Bool("fd", false, "receive CAN FD frames")
	flag.Parse()

	var decoder canbus.Decoder
	if *dbcPath != "" {
		catalog, err := dbc.Load(*dbcPath)
		if err != nil {
			log.Fatalf("candump: %v", err)
		}
		decoder = catalog
	}

	filter := canbus.NoFilter()
	if *maxID != 0 {
		filter = canbus.RangeFilter(uint32(*minID), uint32(*maxID))
	}

	m := canbus.NewMessenger(*iface, canbus.WithDefaultFD(*fd), canbus.WithLogger(canbus.NewLogrusLogger(nil)))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		m.StopListening()
	}()

	m.Listen(filter, nil, decoder, func(rf canbus.ReceivedFrame) {
		fmt.Printf("%-8s %s\n", *iface, rf.Frame.String())
		if rf.Decoded != nil {
			fmt.Printf("  %s %v\n", rf.Decoded.Name, rf.Decoded.Signals)
		}
	})
}
