// Package gate implements the access-control layer around plate
// recognition: allow-lists, multi-frame verification, scan cooldown and
// the decision log.
package gate

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// AccessType labels why access was granted or refused.
type AccessType string

const (
	AccessHomeowner AccessType = "homeowner"
	AccessGuest     AccessType = "guest"
	AccessUnknown   AccessType = "unknown"
	AccessNone      AccessType = "none"
)

// Decision is the outcome of checking one plate.
type Decision struct {
	Granted bool
	Type    AccessType
	Plate   string
	Message string
}

// Actuator drives the physical barrier. Hardware drivers live outside
// this package; NopActuator serves hosts without one.
type Actuator interface {
	Open() error
	Close() error
}

// NopActuator is an Actuator that does nothing.
type NopActuator struct{}

func (NopActuator) Open() error  { return nil }
func (NopActuator) Close() error { return nil }

// Options configures a Controller.
type Options struct {
	HomeownerPlates []string
	GuestPlates     []string
	// VerificationCount is how many consecutive frames must agree on a
	// plate before it counts as verified.
	VerificationCount int
	// ScanCooldown is the minimum pause between processed scans.
	ScanCooldown time.Duration
	// EventLimit bounds the in-memory decision log.
	EventLimit int
}

// Controller makes access decisions and tracks verification state across
// frames.
type Controller struct {
	actuator Actuator
	events   *EventLog

	mu           sync.Mutex
	homeowners   map[string]bool
	guests       map[string]bool
	verifyCount  int
	buffer       []string
	lastVerified string
	lastScan     time.Time
	cooldown     time.Duration
	lastDecision *Decision
}

// NewController creates a controller. A nil actuator gets a NopActuator.
func NewController(opts Options, actuator Actuator) *Controller {
	if actuator == nil {
		actuator = NopActuator{}
	}
	if opts.VerificationCount < 1 {
		opts.VerificationCount = 3
	}
	c := &Controller{
		actuator:    actuator,
		events:      NewEventLog(opts.EventLimit),
		homeowners:  make(map[string]bool),
		guests:      make(map[string]bool),
		verifyCount: opts.VerificationCount,
		cooldown:    opts.ScanCooldown,
	}
	for _, p := range opts.HomeownerPlates {
		c.homeowners[p] = true
	}
	for _, p := range opts.GuestPlates {
		c.guests[p] = true
	}
	return c
}

// Events exposes the decision log.
func (c *Controller) Events() *EventLog {
	return c.events
}

// ShouldScan reports whether enough time has passed since the last
// processed scan, and marks a new scan when it has.
func (c *Controller) ShouldScan(now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if now.Sub(c.lastScan) < c.cooldown {
		return false
	}
	c.lastScan = now
	return true
}

// CheckAccess decides whether a plate may pass and records the decision.
func (c *Controller) CheckAccess(plate string) Decision {
	var d Decision
	switch {
	case plate == "":
		d = Decision{Granted: false, Type: AccessNone, Message: "no plate detected"}
	case c.isHomeowner(plate):
		d = Decision{Granted: true, Type: AccessHomeowner, Plate: plate,
			Message: fmt.Sprintf("access granted - homeowner: %s", plate)}
	case c.isGuest(plate):
		d = Decision{Granted: true, Type: AccessGuest, Plate: plate,
			Message: fmt.Sprintf("access granted - guest: %s", plate)}
	default:
		d = Decision{Granted: false, Type: AccessUnknown, Plate: plate,
			Message: fmt.Sprintf("access denied - unknown: %s", plate)}
	}

	c.mu.Lock()
	c.lastDecision = &d
	c.mu.Unlock()

	c.events.Record(d.Plate, d.Granted, string(d.Type), d.Message)
	return d
}

// LastDecision returns the most recent decision, or nil before the first.
func (c *Controller) LastDecision() *Decision {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastDecision == nil {
		return nil
	}
	d := *c.lastDecision
	return &d
}

// RecordSighting pushes a recognized plate into the verification buffer
// and reports whether the plate just became verified: the last
// VerificationCount sightings agree and the plate is not the one already
// verified.
func (c *Controller) RecordSighting(plate string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.buffer) >= c.verifyCount {
		c.buffer = c.buffer[1:]
	}
	c.buffer = append(c.buffer, plate)

	if len(c.buffer) < c.verifyCount {
		return false
	}
	for _, p := range c.buffer {
		if p != c.buffer[0] {
			return false
		}
	}
	if c.buffer[0] == c.lastVerified {
		return false
	}
	c.lastVerified = c.buffer[0]
	return true
}

// OpenGate drives the barrier open.
func (c *Controller) OpenGate() error {
	if err := c.actuator.Open(); err != nil {
		return fmt.Errorf("open gate: %w", err)
	}
	return nil
}

// CloseGate drives the barrier closed.
func (c *Controller) CloseGate() error {
	if err := c.actuator.Close(); err != nil {
		return fmt.Errorf("close gate: %w", err)
	}
	return nil
}

// AddPlate registers a plate on the homeowner or guest list.
func (c *Controller) AddPlate(plate string, guest bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if guest {
		c.guests[plate] = true
	} else {
		c.homeowners[plate] = true
	}
}

// RemovePlate removes a plate from both lists. It reports whether the
// plate was present.
func (c *Controller) RemovePlate(plate string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	found := c.homeowners[plate] || c.guests[plate]
	delete(c.homeowners, plate)
	delete(c.guests, plate)
	return found
}

// Plates returns the homeowner and guest lists, sorted.
func (c *Controller) Plates() (homeowners, guests []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for p := range c.homeowners {
		homeowners = append(homeowners, p)
	}
	for p := range c.guests {
		guests = append(guests, p)
	}
	sort.Strings(homeowners)
	sort.Strings(guests)
	return homeowners, guests
}

func (c *Controller) isHomeowner(plate string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.homeowners[plate]
}

func (c *Controller) isGuest(plate string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.guests[plate]
}
