package pumplink

import "fmt"

// frameBuilders is the closed table of known opcodes. Each entry appends the
// opcode's parameter bytes (if any) after the address and opcode have been
// rendered. Keeping this a table of pure builders rules out the
// format-string/argument mismatches of a printf-style encoder.
var frameBuilders = map[byte]func(dst []byte, rate FlowRate) []byte{
	CmdStart:            nil,
	CmdStop:             nil,
	CmdPanelDisable:     nil,
	CmdPanelEnable:      nil,
	CmdClockwise:        nil,
	CmdCounterClockwise: nil,
	CmdFlowRate:         appendFlowRate,
}

// EncodeCommand renders a parameterless command frame, "<address><opcode>\r".
// CmdFlowRate without parameters is the flow-rate query.
func EncodeCommand(address int, cmd byte) ([]byte, error) {
	return encodeFrame(address, cmd, false, FlowRate{})
}

// EncodeSetFlowRate renders a set-flow-rate frame,
// "<address>f<mantissa:4 digits><sign><|exponent|:1 digit>\r".
// The rate is validated before any byte is produced.
func EncodeSetFlowRate(address int, rate FlowRate) ([]byte, error) {
	if err := rate.Validate(); err != nil {
		return nil, err
	}
	return encodeFrame(address, CmdFlowRate, true, rate)
}

func encodeFrame(address int, cmd byte, withRate bool, rate FlowRate) ([]byte, error) {
	if address < MinAddress || address > MaxAddress {
		return nil, fmt.Errorf("%w: address %d not in [%d,%d]",
			ErrOutOfRange, address, MinAddress, MaxAddress)
	}
	builder, known := frameBuilders[cmd]
	if !known {
		return nil, fmt.Errorf("%w: unknown opcode %q", ErrFrameTooLong, cmd)
	}

	frame := make([]byte, 0, FrameCapacity)
	frame = append(frame, byte('0'+address), cmd)
	if withRate && builder != nil {
		frame = builder(frame, rate)
	}
	frame = append(frame, '\r')

	if len(frame) > FrameCapacity {
		return nil, fmt.Errorf("%w: %d bytes exceeds capacity %d",
			ErrFrameTooLong, len(frame), FrameCapacity)
	}
	return frame, nil
}

// appendFlowRate appends the set-flow-rate payload: the mantissa zero-padded
// to four digits, then the exponent as a sign and a single magnitude digit.
func appendFlowRate(dst []byte, rate FlowRate) []byte {
	m := rate.Mantissa
	dst = append(dst,
		byte('0'+m/1000%10),
		byte('0'+m/100%10),
		byte('0'+m/10%10),
		byte('0'+m%10))

	sign, e := byte('+'), rate.Exponent
	if e < 0 {
		sign, e = '-', -e
	}
	return append(dst, sign, byte('0'+e))
}
