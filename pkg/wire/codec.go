package wire

import "errors"

var (
	// ErrPinRange signals a pin outside 0..MaxPin.
	ErrPinRange = errors.New("pin out of range")
	// ErrCodeRange signals a wire value above the byte domain.
	ErrCodeRange = errors.New("command code out of range")
	// ErrUnassignedCode signals a wire value no command is assigned to.
	ErrUnassignedCode = errors.New("unassigned command code")
)

// Kind tells which part of the code space a decoded word belongs to.
type Kind int

const (
	// KindPin is a pin-indexed command (codes 0..223).
	KindPin Kind = iota
	// KindQuery is a fixed diagnostic code (codes 225..233).
	KindQuery
	// KindStatus is a device-reported status code (codes 240..255).
	KindStatus
)

// Word is the decoded form of a 16-bit wire value.
type Word struct {
	Kind   Kind
	Op     Operation // valid when Kind is KindPin
	Pin    uint8     // valid when Kind is KindPin
	Query  Query     // valid when Kind is KindQuery
	Status uint8     // valid when Kind is KindStatus
}

// Encode flattens a pin-indexed command into its wire value.
func Encode(op Operation, pin uint8) (uint16, error) {
	if pin > MaxPin {
		return 0, ErrPinRange
	}
	return uint16(op) + uint16(pin), nil
}

// EncodeQuery returns the wire value of a fixed code.
func EncodeQuery(q Query) uint16 {
	return uint16(q)
}

// Decode classifies a wire value. It is total over the byte domain:
// every value in 0..255 either decodes or is reported unassigned
// (224 and 234..239 have no meaning in this protocol revision, nor
// does anything above the low byte).
func Decode(w uint16) (Word, error) {
	if w > 0xff {
		return Word{}, ErrCodeRange
	}
	b := uint8(w)
	switch {
	case b < 224:
		return Word{Kind: KindPin, Op: Operation(b &^ MaxPin), Pin: b & MaxPin}, nil
	case b >= 225 && b <= 233:
		return Word{Kind: KindQuery, Query: Query(b)}, nil
	case b >= StatusMin:
		return Word{Kind: KindStatus, Status: b}, nil
	}
	return Word{}, ErrUnassignedCode
}
