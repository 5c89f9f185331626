// Command cansend sends a single CAN frame on a SocketCAN interface.
//
//	cansend -i can0 -id 123 -data DEADBEEF
package main

import (
	"encoding/hex"
	"flag"
	"log"
	"strconv"

	"github.com/candbc/canbus"
)

func main() {
	iface := flag.String("i", "can0", "CAN interface name")
	idHex := flag.String("id", "", "identifier in hex, e.g. 123 or 1ABCDEF0")
	dataHex := flag.String("data", "", "payload in hex, e.g. DEADBEEF")
	extended := flag.Bool("extended", false, "use a 29-bit extended identifier")
	fd := flag.Bool("fd", false, "send as CAN FD")
	flag.Parse()

	if *idHex == "" {
		log.Fatal("cansend: -id is required")
	}

	id, err := strconv.ParseUint(*idHex, 16, 32)
	if err != nil {
		log.Fatalf("cansend: invalid -id: %v", err)
	}

	data, err := hex.DecodeString(*dataHex)
	if err != nil {
		log.Fatalf("cansend: invalid -data: %v", err)
	}

	m := canbus.NewMessenger(*iface, canbus.WithDefaultFD(*fd), canbus.WithLogger(canbus.NewLogrusLogger(nil)))
	if err := m.SendRaw(uint32(id), data, *extended, nil); err != nil {
		log.Fatalf("cansend: %v", err)
	}
}
