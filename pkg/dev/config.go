// Package dev selects and opens the slave device shared by the
// command line tools.
package dev

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/pimaster/ard.go/pkg/link"
	"github.com/pimaster/ard.go/pkg/master"
	"github.com/pimaster/ard.go/pkg/sim"
)

// Config selects the device to open.
type Config struct {
	// Bus is the i2c-dev bus number (/dev/i2c-<Bus>).
	Bus int
	// Addr is the slave address, 0x08 by default.
	Addr int
	// Sim replaces the hardware with the in-memory slave.
	Sim bool
}

var defaultConfig = Config{Bus: 1, Addr: 0x08}

func init() {
	if val := os.Getenv("ARD_I2C_BUS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			defaultConfig.Bus = n
		}
	}
	if val := os.Getenv("ARD_I2C_ADDR"); val != "" {
		if n, err := strconv.ParseInt(val, 0, 0); err == nil {
			defaultConfig.Addr = int(n)
		}
	}
	if val := os.Getenv("ARD_SIM"); val != "" {
		defaultConfig.Sim = val != "0"
	}
}

// SetupFlags registers the device selection flags.
func SetupFlags() {
	flag.IntVar(&defaultConfig.Bus, "i2c-bus", defaultConfig.Bus, "I2C bus number.")
	flag.IntVar(&defaultConfig.Addr, "i2c-addr", defaultConfig.Addr, "I2C slave address.")
	flag.BoolVar(&defaultConfig.Sim, "sim", defaultConfig.Sim, "Use the in-memory simulated slave.")
}

// NewConfig returns a copy of the default configuration.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Name describes the selection for prompts and logs.
func (c *Config) Name() string {
	if c.Sim {
		return "sim"
	}
	return fmt.Sprintf("i2c-%d:%#02x", c.Bus, c.Addr)
}

// Open opens the selected device. The returned slave is non-nil only
// for simulated runs.
func (c *Config) Open() (*master.Master, *sim.Slave, error) {
	if c.Sim {
		slave := sim.NewSlave()
		return master.New(link.New(slave)), slave, nil
	}
	bus, err := link.OpenI2C(c.Bus, c.Addr)
	if err != nil {
		return nil, nil, err
	}
	return master.New(link.New(bus)), nil, nil
}
