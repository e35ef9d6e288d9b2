package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/pimaster/ard.go/pkg/dev"
	"github.com/pimaster/ard.go/pkg/run"
	"github.com/pimaster/ard.go/pkg/session"
	"github.com/pimaster/ard.go/pkg/telemetry"
	"github.com/pimaster/ard.go/pkg/wire"
)

//go-build: CGO_ENABLED=0

var (
	mqttURL    = "mqtt://localhost:1883/ard/"
	pinList    = "5,6,7,8,9"
	interval   = session.DefaultInterval
	applySetup bool
)

func init() {
	if val := os.Getenv("ARD_MQTT_URL"); val != "" {
		mqttURL = val
	}
	dev.SetupFlags()
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL, empty disables telemetry.")
	flag.StringVar(&pinList, "pins", pinList, "Comma separated pins to poll.")
	flag.DurationVar(&interval, "interval", interval, "Poll interval.")
	flag.BoolVar(&applySetup, "setup", applySetup, "Apply the bench pin configuration first.")
}

func parsePins(list string) ([]uint8, error) {
	var pins []uint8
	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		n, err := strconv.ParseUint(item, 10, 8)
		if err != nil || n > wire.MaxPin {
			return nil, fmt.Errorf("bad pin %q", item)
		}
		pins = append(pins, uint8(n))
	}
	return pins, nil
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	pins, err := parsePins(pinList)
	if err != nil {
		log.Fatalln(err)
	}
	if len(pins) == 0 {
		log.Fatalln("no pins to poll")
	}

	conf := dev.NewConfig()
	m, _, err := conf.Open()
	if err != nil {
		log.Fatalf("open %s failed: %v", conf.Name(), err)
	}
	defer m.Close()

	if applySetup {
		if err := m.Setup(nil); err != nil {
			// rejected pins are reported but the rest still polls
			log.Printf("setup: %v", err)
		}
	}

	s := session.New(m, pins)
	s.Interval = interval

	if mqttURL != "" {
		q, err := telemetry.NewQueueFromURL(mqttURL)
		if err != nil {
			log.Fatalln(err)
		}
		if err := q.Connect(); err != nil {
			log.Fatalf("connect %s failed: %v", mqttURL, err)
		}
		defer q.Close()
		if err := q.SubscribeOutputs(m); err != nil {
			log.Fatalln(err)
		}
		s.Publisher = q
	}

	// a blocked exchange against a dead device only unblocks when the
	// handle closes, so shutdown closes the master itself
	poll := run.Func(func(ctx context.Context) error {
		return run.WithContextCloser(ctx, m, func() error {
			return s.Run(ctx)
		})
	})
	if err := run.NewRunner().
		HandleSignals().
		Go(poll).
		Wait(); err != nil {
		log.Fatalln(err)
	}
}
