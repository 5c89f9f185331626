// Command dbcdump loads a DBC file and lists its messages and signals.
//
//	dbcdump vehicle.dbc
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/candbc/canbus/dbc"
)

func main() {
	if len(os.Args) != 2 {
		log.Fatal("usage: dbcdump <file.dbc>")
	}

	catalog, err := dbc.Load(os.Args[1])
	if err != nil {
		log.Fatalf("dbcdump: %v", err)
	}

	for _, msg := range catalog.Messages() {
		fmt.Printf("BO_ %d %s: %d\n", msg.ID, msg.Name, msg.DLC)
		for _, sig := range msg.Signals {
			endian := "Intel"
			if sig.BigEndian {
				endian = "Motorola"
			}
			sign := "unsigned"
			if sig.Signed {
				sign = "signed"
			}
			fmt.Printf("  SG_ %s: start=%d len=%d %s %s factor=%g offset=%g\n",
				sig.Name, sig.StartBit, sig.Length, endian, sign, sig.Factor, sig.Offset)
		}
	}
}
