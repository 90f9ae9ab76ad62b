package probe

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// SimOption is a functional option for configuring a Sim
type SimOption func(*Sim)

// WithLatency delays every read by d, honoring context cancellation
func WithLatency(d time.Duration) SimOption {
	return func(s *Sim) {
		s.latency = d
	}
}

// WithFaults makes the next n reads fail with ErrFault
func WithFaults(n int) SimOption {
	return func(s *Sim) {
		s.faults = n
	}
}

// Sim is an in-memory probe that answers reads from a Fixture. It counts
// reads and access port sessions so tests can check resource handling.
type Sim struct {
	mu      sync.Mutex
	name    string
	idcode  uint32
	memory  map[uint32]uint32
	dmi     map[uint32]uint32
	latency time.Duration
	faults  int

	reads  int
	opened int
	closed int
}

// NewSim creates a simulated probe attached to the board described by f
func NewSim(f *Fixture, opts ...SimOption) *Sim {
	s := &Sim{}
	s.load(f)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reload swaps in a new board. Open sessions stay counted.
func (s *Sim) Reload(f *Fixture) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load(f)
}

func (s *Sim) load(f *Fixture) {
	if f == nil {
		f = &Fixture{}
	}
	s.name = f.Name
	s.idcode = uint32(f.IDCode)
	s.memory = words(f.Memory)
	s.dmi = words(f.DMI)
}

// Name returns the fixture name
func (s *Sim) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

// ReadIDCode implements Probe
func (s *Sim) ReadIDCode(ctx context.Context) (uint32, error) {
	if err := s.begin(ctx); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.idcode == 0 {
		return 0, ErrNoTarget
	}
	return s.idcode, nil
}

// Read32 implements Probe
func (s *Sim) Read32(ctx context.Context, addr uint32) (uint32, error) {
	if err := s.begin(ctx); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.idcode == 0 {
		return 0, ErrNoTarget
	}
	value, ok := s.memory[addr]
	if !ok {
		return 0, fmt.Errorf("read 0x%08x: %w", addr, ErrUnmapped)
	}
	return value, nil
}

// ReadDMI implements Probe
func (s *Sim) ReadDMI(ctx context.Context, reg uint32) (uint32, error) {
	if err := s.begin(ctx); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.idcode == 0 {
		return 0, ErrNoTarget
	}
	value, ok := s.dmi[reg]
	if !ok {
		return 0, fmt.Errorf("dmi 0x%02x: %w", reg, ErrUnmapped)
	}
	return value, nil
}

// begin accounts for one read: latency, then an injected fault if any remain
func (s *Sim) begin(ctx context.Context) error {
	s.mu.Lock()
	latency := s.latency
	s.reads++
	s.mu.Unlock()

	if latency > 0 {
		timer := time.NewTimer(latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.faults > 0 {
		s.faults--
		return ErrFault
	}
	return nil
}

// OpenAccessPort implements AccessPortOpener
func (s *Sim) OpenAccessPort(ctx context.Context, ap uint8) (io.Closer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.idcode == 0 {
		return nil, ErrNoTarget
	}
	s.opened++
	return &simSession{sim: s, ap: ap}, nil
}

// Reads returns the number of reads attempted so far
func (s *Sim) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

// OpenSessions returns the number of access port sessions not yet closed
func (s *Sim) OpenSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opened - s.closed
}

// Closed returns the number of sessions closed so far
func (s *Sim) Closed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

type simSession struct {
	sim  *Sim
	ap   uint8
	once sync.Once
}

// Close releases the session; repeated calls are no-ops
func (c *simSession) Close() error {
	c.once.Do(func() {
		c.sim.mu.Lock()
		c.sim.closed++
		c.sim.mu.Unlock()
	})
	return nil
}
