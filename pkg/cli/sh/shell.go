// Package sh provides the ishell backed console for a pin slave.
package sh

import (
	"flag"
	"fmt"
	"log"

	"github.com/abiosoft/ishell"

	"github.com/pimaster/ard.go/pkg/dev"
	"github.com/pimaster/ard.go/pkg/master"
	"github.com/pimaster/ard.go/pkg/sim"
)

// Shell is the interactive console around one open device.
type Shell struct {
	Interactive bool
	OutputJSON  bool

	Shell  *ishell.Shell
	Config *dev.Config

	master *master.Master
	slave  *sim.Slave // non-nil when the device is simulated
}

const (
	shellKey     = "$shell"
	closedPrompt = "[none] > "
)

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands = []*ishell.Cmd{
		&OpenCmd,
		&CloseCmd,
		&ReadCmd,
		&ConfigCmd,
		&HighCmd,
		&LowCmd,
		&QueryCmd,
		&EchoCmd,
		&BlinkCmd,
		&SetupCmd,
		&ScanCmd,
		&EchoModeCmd,
		&PressCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// New creates a new shell.
func New(conf *dev.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(closedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeOpen wraps command funcs that require an open device.
func MustBeOpen(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).master == nil {
			c.Err(fmt.Errorf("no device open"))
			return
		}
		fn(c)
	}
}

// Master gets the open device, nil when closed.
func (s *Shell) Master() *master.Master {
	return s.master
}

// Slave gets the simulated slave, nil on real hardware.
func (s *Shell) Slave() *sim.Slave {
	return s.slave
}

// Open opens the configured device, replacing any open one.
func (s *Shell) Open() error {
	m, slave, err := s.Config.Open()
	if err != nil {
		return err
	}
	if s.master != nil {
		s.master.Close()
	}
	s.master, s.slave = m, slave
	s.Shell.SetPrompt(fmt.Sprintf("%s > ", s.Config.Name()))
	return nil
}

// CloseDevice releases the open device.
func (s *Shell) CloseDevice() {
	if s.master != nil {
		s.master.Close()
		s.master, s.slave = nil, nil
		s.Shell.SetPrompt(closedPrompt)
	}
}

// Run runs the shell, opening the configured device first.
func (s *Shell) Run(args ...string) {
	if err := s.Open(); err != nil {
		log.Fatalf("open %s failed: %v", s.Config.Name(), err)
	}
	defer s.CloseDevice()

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(dev.NewConfig()).Run(flag.Args()...)
}
