package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/pimaster/ard.go/pkg/dev"
	"github.com/pimaster/ard.go/pkg/master"
	"github.com/pimaster/ard.go/pkg/run"
	"github.com/pimaster/ard.go/pkg/sim"
	"github.com/pimaster/ard.go/pkg/wire"
)

//go-build: CGO_ENABLED=0

var (
	checkEcho bool
	blinks    int
	blinkPin  uint
	scans     = 1
	interval  = 500 * time.Millisecond
)

func init() {
	dev.SetupFlags()
	flag.BoolVar(&checkEcho, "echo", checkEcho, "Run the echo check (device must be in echo mode, sim enters it automatically).")
	flag.IntVar(&blinks, "blink", blinks, "Blink the LED this many times.")
	flag.UintVar(&blinkPin, "blink-pin", 5, "Output pin wired to the LED.")
	flag.IntVar(&scans, "scan", scans, "Configure the bench pins and scan them this many rounds.")
	flag.DurationVar(&interval, "interval", interval, "Delay between blink toggles and scan rounds.")
}

func describe(sent uint16) string {
	w, err := wire.Decode(sent)
	if err != nil {
		return fmt.Sprintf("%d", sent)
	}
	switch w.Kind {
	case wire.KindPin:
		return fmt.Sprintf("%s %d", w.Op, w.Pin)
	case wire.KindQuery:
		return w.Query.String()
	default:
		return fmt.Sprintf("status %d", sent)
	}
}

func check(ctx context.Context, m *master.Master, slave *sim.Slave) error {
	if checkEcho {
		if slave != nil {
			slave.SetEchoMode(true)
		}
		if err := m.CheckEcho(nil); err != nil {
			return err
		}
		if slave != nil {
			slave.SetEchoMode(false)
		}
		log.Println("echo check passed")
	}

	if blinks > 0 {
		if err := m.Blink(ctx, uint8(blinkPin), blinks, interval); err != nil {
			return err
		}
		log.Printf("blink check passed: pin %d, %d cycles", blinkPin, blinks)
	}

	if scans > 0 {
		if err := m.Setup(nil); err != nil {
			return err
		}
		for i := 0; i < scans; i++ {
			readings, err := m.Scan(nil)
			if err != nil {
				return err
			}
			for _, r := range readings {
				log.Printf("%-20s %d > %d", describe(r.Sent), r.Sent, r.Received)
			}
			if i+1 < scans && interval > 0 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(interval):
				}
			}
		}
	}
	return nil
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	if blinkPin > wire.MaxPin {
		log.Fatalf("blink pin must be 0..%d", wire.MaxPin)
	}

	conf := dev.NewConfig()
	m, slave, err := conf.Open()
	if err != nil {
		log.Fatalf("open %s failed: %v", conf.Name(), err)
	}
	defer m.Close()

	err = run.NewRunner().
		HandleSignals().
		Go(run.Func(func(ctx context.Context) error {
			return check(ctx, m, slave)
		})).
		Wait()
	if err != nil {
		log.Fatalln(err)
	}
}
