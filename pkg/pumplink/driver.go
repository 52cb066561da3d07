// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Fluidbench Labs

package pumplink

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Default transport tuning. At typical pump baud rates a reply byte arrives
// within a few milliseconds, so half a second of polling is generous.
const (
	DefaultReplyTimeout = 500 * time.Millisecond
	DefaultPollInterval = 500 * time.Microsecond
)

// Config tunes a Driver. The zero value is usable: timeouts fall back to the
// defaults above and logging is disabled.
type Config struct {
	// ReplyTimeout bounds how long any single operation waits for reply
	// bytes. An operation returns ErrTimeout instead of hanging when the
	// controller never answers.
	ReplyTimeout time.Duration

	// PollInterval is the pause between read polls while waiting.
	PollInterval time.Duration

	// Logger receives debug-level frame traces and warn-level protocol
	// anomalies. A zero zerolog.Logger discards everything.
	Logger zerolog.Logger
}

func (c Config) withDefaults() Config {
	if c.ReplyTimeout <= 0 {
		c.ReplyTimeout = DefaultReplyTimeout
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	return c
}

// Driver controls one pump controller on the bus. It owns the stream handle
// for the duration of each call but not its lifecycle, and keeps no session
// state between calls.
//
// A Driver is not safe for concurrent use: the stream is an exclusively
// owned resource with no internal locking. Confine each instance to one
// logical task, or serialize access externally.
type Driver struct {
	tr      transport
	address int
	log     zerolog.Logger
	stats   *Statistics
}

// New creates a Driver for the controller at the given bus address with
// default configuration. The stream must already be open; the caller keeps
// ownership of it.
func New(stream Stream, address int) (*Driver, error) {
	return NewWithConfig(stream, address, Config{})
}

// NewWithConfig creates a Driver with explicit transport tuning and logging.
func NewWithConfig(stream Stream, address int, cfg Config) (*Driver, error) {
	if address < MinAddress || address > MaxAddress {
		return nil, fmt.Errorf("%w: address %d not in [%d,%d]",
			ErrOutOfRange, address, MinAddress, MaxAddress)
	}
	cfg = cfg.withDefaults()
	return &Driver{
		tr: transport{
			stream:       stream,
			replyTimeout: cfg.ReplyTimeout,
			pollInterval: cfg.PollInterval,
		},
		address: address,
		log:     cfg.Logger,
		stats:   newStatistics(),
	}, nil
}

// Address returns the controller's bus address.
func (d *Driver) Address() int {
	return d.address
}

// Stats returns a snapshot of the exchange statistics with rates calculated.
func (d *Driver) Stats() Statistics {
	s := *d.stats
	s.CalculateRates()
	return s
}

// Start starts the pump.
func (d *Driver) Start() error {
	return d.confirm(CmdStart)
}

// Stop stops the pump.
func (d *Driver) Stop() error {
	return d.confirm(CmdStop)
}

// Clockwise sets revolution in the clockwise direction.
func (d *Driver) Clockwise() error {
	return d.confirm(CmdClockwise)
}

// CounterClockwise sets revolution in the counter-clockwise direction.
func (d *Driver) CounterClockwise() error {
	return d.confirm(CmdCounterClockwise)
}

// EnableControlPanel switches the front panel to manual operation.
func (d *Driver) EnableControlPanel() error {
	return d.confirm(CmdPanelEnable)
}

// DisableControlPanel locks out the front panel.
func (d *Driver) DisableControlPanel() error {
	return d.confirm(CmdPanelDisable)
}

// FlowRate queries the current flow rate.
func (d *Driver) FlowRate() (FlowRate, error) {
	frame, err := EncodeCommand(d.address, CmdFlowRate)
	if err != nil {
		return FlowRate{}, err
	}
	rate, err := d.exchangeFlow(frame)
	if err == nil {
		d.stats.recordResult(nil)
	}
	return rate, err
}

// SetFlowRate requests a new flow rate and returns the value the controller
// confirms. The controller clamps unreachable setpoints to its nearest
// achievable value instead of rejecting them, so the echoed value is checked
// against the request at four decimal digits; a mismatch is reported as
// ErrMalformedReply alongside the reported rate.
func (d *Driver) SetFlowRate(rate FlowRate) (FlowRate, error) {
	frame, err := EncodeSetFlowRate(d.address, rate)
	if err != nil {
		return FlowRate{}, err
	}

	reported, err := d.exchangeFlow(frame)
	if err != nil {
		return reported, err
	}

	if !reported.Equivalent(rate) {
		err = fmt.Errorf("%w: controller reports %v, requested %v",
			ErrMalformedReply, reported, rate)
		d.stats.recordResult(err)
		d.log.Warn().
			Int("address", d.address).
			Stringer("requested", rate).
			Stringer("reported", reported).
			Msg("set flow rate echo mismatch")
		return reported, err
	}
	d.stats.recordResult(nil)
	return reported, nil
}

// confirm runs one fire-and-confirm exchange: drain stale input, send the
// frame, classify the single confirmation byte.
func (d *Driver) confirm(cmd byte) error {
	frame, err := EncodeCommand(d.address, cmd)
	if err != nil {
		return err
	}
	if err := d.send(frame); err != nil {
		return err
	}

	b, err := d.tr.readByte(d.tr.deadline())
	if err != nil {
		d.stats.recordResult(err)
		return err
	}

	err = classifyConfirmation(b)
	d.stats.recordResult(err)
	if err != nil {
		d.log.Warn().
			Int("address", d.address).
			Str("frame", string(frame)).
			Err(err).
			Msg("command not confirmed")
	}
	return err
}

// exchangeFlow runs one numeric exchange: drain, send, read the fixed-width
// reply, parse. A leading error marker is recognized before committing to
// the full reply length. Error outcomes are recorded here; the caller
// records the success once its own validation passes.
func (d *Driver) exchangeFlow(frame []byte) (FlowRate, error) {
	if err := d.send(frame); err != nil {
		return FlowRate{}, err
	}

	deadline := d.tr.deadline()
	var reply [FlowReplyLength]byte

	b, err := d.tr.readByte(deadline)
	if err != nil {
		d.stats.recordResult(err)
		return FlowRate{}, err
	}
	reply[0] = b
	if b == ReplyError {
		err = fmt.Errorf("%w: error marker in flow reply", ErrDeviceRejected)
		d.stats.recordResult(err)
		return FlowRate{}, err
	}

	if err := d.tr.readFull(reply[1:], deadline); err != nil {
		d.stats.recordResult(err)
		return FlowRate{}, err
	}

	rate, err := ParseFlowReply(reply[:])
	if err != nil {
		d.stats.recordResult(err)
		d.log.Warn().
			Int("address", d.address).
			Str("reply", string(reply[:])).
			Err(err).
			Msg("bad flow rate reply")
		return FlowRate{}, err
	}

	d.log.Debug().
		Int("address", d.address).
		Stringer("rate", rate).
		Msg("flow rate exchange complete")
	return rate, nil
}

// send drains stale input and writes one frame.
func (d *Driver) send(frame []byte) error {
	discarded, err := d.tr.drain()
	if err != nil {
		d.stats.recordResult(err)
		return err
	}
	if discarded > 0 {
		d.log.Debug().
			Int("address", d.address).
			Int("bytes", discarded).
			Msg("discarded stale input")
	}

	if err := d.tr.writeFrame(frame); err != nil {
		d.stats.recordResult(err)
		return err
	}
	d.stats.recordSent()
	d.log.Debug().
		Int("address", d.address).
		Str("frame", string(frame)).
		Msg("frame sent")
	return nil
}
