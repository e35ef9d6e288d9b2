// Package wire defines the command code space spoken between the host
// and the pin slave.
package wire

// Every exchange is a 16-bit command word answered by a 16-bit
// response word, both little-endian on the bus. Only the low byte of
// a command carries opcode information: the byte domain 0..255 is
// partitioned into seven pin-indexed families of 32 codes each, a
// block of fixed diagnostic codes, and a reserved range for
// device-reported status codes. The partition doubles as addressing
// (which pin) and opcode (what to do with it).
//
// Producer: host (master)
// Consumer: pin slave firmware
