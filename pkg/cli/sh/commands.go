package sh

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/pimaster/ard.go/pkg/wire"
)

var modeNames = map[string]wire.Operation{
	"input":        wire.ConfigureInput,
	"pullup":       wire.ConfigureInputPullup,
	"input-pullup": wire.ConfigureInputPullup,
	"analog":       wire.ConfigureAnalogInput,
	"analog-input": wire.ConfigureAnalogInput,
	"output":       wire.ConfigureOutput,
}

var queryNames = map[string]wire.Query{
	"reset-request-count": wire.ResetRequestCount,
	"request-count":       wire.RequestCount,
	"echo-test":           wire.EchoTest,
	"loop-count":          wire.LoopCount,
	"clear-queues":        wire.ClearQueues,
	"analog-range-min":    wire.AnalogRangeMin,
	"analog-range-max":    wire.AnalogRangeMax,
	"auto-range-off":      wire.AutoRangeOff,
	"auto-range-on":       wire.AutoRangeOn,
}

func parsePin(arg string) (uint8, error) {
	n, err := strconv.ParseUint(arg, 10, 8)
	if err != nil || n > wire.MaxPin {
		return 0, fmt.Errorf("pin must be 0..%d", wire.MaxPin)
	}
	return uint8(n), nil
}

type valueOut struct {
	Sent     uint16 `json:"sent"`
	Received uint16 `json:"received"`
}

func printValue(c *ishell.Context, sent, received uint16) {
	s := ShellFrom(c)
	if s.OutputJSON {
		out, err := json.Marshal(valueOut{Sent: sent, Received: received})
		if err != nil {
			c.Err(err)
			return
		}
		c.Println(string(out))
		return
	}
	c.Printf("%d > %d\n", sent, received)
}

var (
	// OpenCmd opens the configured device.
	OpenCmd = ishell.Cmd{
		Name: "open",
		Help: "",
		Func: func(c *ishell.Context) {
			if err := ShellFrom(c).Open(); err != nil {
				c.Err(err)
			}
		},
	}

	// CloseCmd closes the open device.
	CloseCmd = ishell.Cmd{
		Name: "close",
		Help: "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).CloseDevice()
		},
	}

	// ReadCmd reads the assignment or value of pins.
	ReadCmd = ishell.Cmd{
		Name:    "read",
		Aliases: []string{"r"},
		Help:    "PIN...",
		Func: MustBeOpen(func(c *ishell.Context) {
			if len(c.Args) == 0 {
				c.Err(fmt.Errorf("pin expected"))
				return
			}
			for _, arg := range c.Args {
				pin, err := parsePin(arg)
				if err != nil {
					c.Err(err)
					return
				}
				v, err := ShellFrom(c).Master().ReadPin(pin)
				if err != nil {
					c.Err(err)
					return
				}
				printValue(c, uint16(pin), v)
			}
		}),
	}

	// ConfigCmd assigns a pin mode.
	ConfigCmd = ishell.Cmd{
		Name:    "config",
		Aliases: []string{"cfg"},
		Help:    "PIN input|pullup|analog|output",
		Func: MustBeOpen(func(c *ishell.Context) {
			if len(c.Args) != 2 {
				c.Err(fmt.Errorf("usage: config PIN MODE"))
				return
			}
			pin, err := parsePin(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			op, ok := modeNames[c.Args[1]]
			if !ok {
				c.Err(fmt.Errorf("unknown mode %q", c.Args[1]))
				return
			}
			if err := ShellFrom(c).Master().Configure(pin, op); err != nil {
				c.Err(err)
				return
			}
			c.Println("OK")
		}),
	}

	// HighCmd drives an output pin high.
	HighCmd = ishell.Cmd{
		Name: "high",
		Help: "PIN",
		Func: MustBeOpen(setOutputFunc(true)),
	}

	// LowCmd drives an output pin low.
	LowCmd = ishell.Cmd{
		Name: "low",
		Help: "PIN",
		Func: MustBeOpen(setOutputFunc(false)),
	}

	// QueryCmd sends a fixed diagnostic code.
	QueryCmd = ishell.Cmd{
		Name:    "query",
		Aliases: []string{"q"},
		Help:    "NAME (no argument lists the names)",
		Func: MustBeOpen(func(c *ishell.Context) {
			if len(c.Args) == 0 {
				names := make([]string, 0, len(queryNames))
				for name := range queryNames {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					c.Printf("%s (%d)\n", name, queryNames[name])
				}
				return
			}
			q, ok := queryNames[c.Args[0]]
			if !ok {
				c.Err(fmt.Errorf("unknown query %q", c.Args[0]))
				return
			}
			v, err := ShellFrom(c).Master().Query(q)
			if err != nil {
				c.Err(err)
				return
			}
			printValue(c, wire.EncodeQuery(q), v)
		}),
	}

	// EchoCmd runs the echo check (device must be in echo mode).
	EchoCmd = ishell.Cmd{
		Name: "echo",
		Help: "[BYTE...] default probe set when empty",
		Func: MustBeOpen(func(c *ishell.Context) {
			var probes []byte
			for _, arg := range c.Args {
				n, err := strconv.ParseUint(arg, 10, 8)
				if err != nil {
					c.Err(fmt.Errorf("bad byte %q: %v", arg, err))
					return
				}
				probes = append(probes, byte(n))
			}
			if err := ShellFrom(c).Master().CheckEcho(probes); err != nil {
				c.Err(err)
				return
			}
			c.Println("OK")
		}),
	}

	// BlinkCmd blinks an LED on an output pin.
	BlinkCmd = ishell.Cmd{
		Name: "blink",
		Help: "PIN COUNT [INTERVAL_MS]",
		Func: MustBeOpen(func(c *ishell.Context) {
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("usage: blink PIN COUNT [INTERVAL_MS]"))
				return
			}
			pin, err := parsePin(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			count, err := strconv.Atoi(c.Args[1])
			if err != nil || count <= 0 {
				c.Err(fmt.Errorf("bad count %q", c.Args[1]))
				return
			}
			interval := 500 * time.Millisecond
			if len(c.Args) > 2 {
				ms, err := strconv.Atoi(c.Args[2])
				if err != nil || ms < 0 {
					c.Err(fmt.Errorf("bad interval %q", c.Args[2]))
					return
				}
				interval = time.Duration(ms) * time.Millisecond
			}
			if err := ShellFrom(c).Master().Blink(context.Background(), pin, count, interval); err != nil {
				c.Err(err)
				return
			}
			c.Println("OK")
		}),
	}

	// SetupCmd applies the reference bench configuration.
	SetupCmd = ishell.Cmd{
		Name: "setup",
		Help: "",
		Func: MustBeOpen(func(c *ishell.Context) {
			if err := ShellFrom(c).Master().Setup(nil); err != nil {
				c.Err(err)
				return
			}
			c.Println("OK")
		}),
	}

	// ScanCmd exchanges the reference probe sequence.
	ScanCmd = ishell.Cmd{
		Name: "scan",
		Help: "",
		Func: MustBeOpen(func(c *ishell.Context) {
			readings, err := ShellFrom(c).Master().Scan(nil)
			if err != nil {
				c.Err(err)
				return
			}
			for _, r := range readings {
				printValue(c, r.Sent, r.Received)
			}
		}),
	}

	// EchoModeCmd toggles echo mode on the simulated slave.
	EchoModeCmd = ishell.Cmd{
		Name: "echomode",
		Help: "on|off (simulated device only)",
		Func: MustBeOpen(func(c *ishell.Context) {
			s := ShellFrom(c)
			if s.Slave() == nil {
				c.Err(fmt.Errorf("echo mode is set out of band on real hardware"))
				return
			}
			if len(c.Args) != 1 || (c.Args[0] != "on" && c.Args[0] != "off") {
				c.Err(fmt.Errorf("usage: echomode on|off"))
				return
			}
			s.Slave().SetEchoMode(c.Args[0] == "on")
		}),
	}

	// PressCmd drives a simulated input pin.
	PressCmd = ishell.Cmd{
		Name: "press",
		Help: "PIN VALUE (simulated device only)",
		Func: MustBeOpen(func(c *ishell.Context) {
			s := ShellFrom(c)
			if s.Slave() == nil {
				c.Err(fmt.Errorf("inputs can only be driven on the simulated device"))
				return
			}
			if len(c.Args) != 2 {
				c.Err(fmt.Errorf("usage: press PIN VALUE"))
				return
			}
			pin, err := parsePin(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			v, err := strconv.ParseUint(c.Args[1], 10, 16)
			if err != nil {
				c.Err(fmt.Errorf("bad value %q: %v", c.Args[1], err))
				return
			}
			s.Slave().SetPinValue(pin, uint16(v))
		}),
	}
)

func setOutputFunc(high bool) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if len(c.Args) != 1 {
			c.Err(fmt.Errorf("pin expected"))
			return
		}
		pin, err := parsePin(c.Args[0])
		if err != nil {
			c.Err(err)
			return
		}
		v, err := ShellFrom(c).Master().SetOutput(pin, high)
		if err != nil {
			c.Err(err)
			return
		}
		w := wire.WriteLow
		if high {
			w = wire.WriteHigh
		}
		printValue(c, uint16(w)+uint16(pin), v)
	}
}
