package link

import (
	"fmt"

	"golang.org/x/exp/io/i2c"
)

// I2CBus is a Bus over a Linux i2c-dev device node.
type I2CBus struct {
	dev *i2c.Device
}

// OpenI2C opens the slave at addr on /dev/i2c-<bus>.
func OpenI2C(bus, addr int) (*I2CBus, error) {
	devPath := fmt.Sprintf("/dev/i2c-%d", bus)
	dev, err := i2c.Open(&i2c.Devfs{Dev: devPath}, addr)
	if err != nil {
		return nil, &DeviceUnavailableError{Dev: devPath, Addr: addr, Err: err}
	}
	return &I2CBus{dev: dev}, nil
}

// WriteByte implements Bus.
func (b *I2CBus) WriteByte(c byte) error {
	return b.dev.Write([]byte{c})
}

// ReadBytes implements Bus.
func (b *I2CBus) ReadBytes(p []byte) (int, error) {
	if err := b.dev.Read(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close implements Bus.
func (b *I2CBus) Close() error {
	return b.dev.Close()
}
