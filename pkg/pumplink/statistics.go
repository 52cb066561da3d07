// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Fluidbench Labs

package pumplink

import (
	"errors"
	"fmt"
	"time"
)

// Statistics tracks command/reply exchange outcomes for one driver instance.
// Counters follow the error taxonomy, so a long-running poller can see at a
// glance whether a flaky link is timing out, garbling replies, or being
// rejected by the controller.
type Statistics struct {
	StartTime      time.Time
	LastUpdateTime time.Time

	// Counters
	CommandsSent     uint64
	Confirmations    uint64
	Rejections       uint64
	Timeouts         uint64
	MalformedReplies uint64
	TransportErrors  uint64

	// Rates (calculated)
	CommandRate float64 // commands/sec
	ErrorRate   float64 // errors/sec
}

// newStatistics creates a statistics tracker starting now.
func newStatistics() *Statistics {
	now := time.Now()
	return &Statistics{
		StartTime:      now,
		LastUpdateTime: now,
	}
}

// recordSent counts a frame handed to the transport.
func (s *Statistics) recordSent() {
	s.CommandsSent++
	s.LastUpdateTime = time.Now()
}

// recordResult counts the terminal state of one operation.
func (s *Statistics) recordResult(err error) {
	switch {
	case err == nil:
		s.Confirmations++
	case errors.Is(err, ErrDeviceRejected):
		s.Rejections++
	case errors.Is(err, ErrTimeout):
		s.Timeouts++
	case errors.Is(err, ErrMalformedReply):
		s.MalformedReplies++
	case errors.Is(err, ErrTransport):
		s.TransportErrors++
	}
	s.LastUpdateTime = time.Now()
}

// CalculateRates calculates command and error rates since StartTime.
func (s *Statistics) CalculateRates() {
	elapsed := time.Since(s.StartTime).Seconds()
	if elapsed > 0 {
		s.CommandRate = float64(s.CommandsSent) / elapsed
		errorCount := s.Rejections + s.Timeouts + s.MalformedReplies + s.TransportErrors
		s.ErrorRate = float64(errorCount) / elapsed
	}
}

// String returns a formatted statistics summary.
func (s *Statistics) String() string {
	s.CalculateRates()

	var confirmedPercent float64
	if s.CommandsSent > 0 {
		confirmedPercent = float64(s.Confirmations) * 100.0 / float64(s.CommandsSent)
	}

	elapsed := time.Since(s.StartTime)

	result := fmt.Sprintf("=== Exchange Statistics (%.0f seconds) ===\n", elapsed.Seconds())
	result += fmt.Sprintf("Commands Sent:   %8d\n", s.CommandsSent)
	result += fmt.Sprintf("Confirmed:       %8d (%.1f%%)\n", s.Confirmations, confirmedPercent)

	if s.Rejections > 0 {
		result += fmt.Sprintf("Rejected:        %8d\n", s.Rejections)
	}
	if s.Timeouts > 0 {
		result += fmt.Sprintf("Timeouts:        %8d\n", s.Timeouts)
	}
	if s.MalformedReplies > 0 {
		result += fmt.Sprintf("Malformed:       %8d\n", s.MalformedReplies)
	}
	if s.TransportErrors > 0 {
		result += fmt.Sprintf("Transport Errors:%8d\n", s.TransportErrors)
	}

	result += fmt.Sprintf("Command Rate:    %8.1f cmds/sec\n", s.CommandRate)
	result += fmt.Sprintf("Error Rate:      %8.1f errors/sec\n", s.ErrorRate)
	result += "==========================================\n"

	return result
}

// Reset resets all statistics counters.
func (s *Statistics) Reset() {
	now := time.Now()
	*s = Statistics{StartTime: now, LastUpdateTime: now}
}
