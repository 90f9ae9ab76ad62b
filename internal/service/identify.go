package service

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/blake2b"

	"probeid/internal/domain"
	"probeid/internal/probe"
	"probeid/internal/registry"
)

// ErrNoTarget is returned when no leaf of the taxonomy claims the hardware
var ErrNoTarget = errors.New("no target identified")

// CapabilitySelector decides which declared capabilities are invoked
type CapabilitySelector interface {
	IsEnabled(name domain.CapabilityName) bool
}

type allCapabilities struct{}

func (allCapabilities) IsEnabled(domain.CapabilityName) bool { return true }

// Identification is one successful walk. The caller owns it and must call
// Close to release the descriptors.
type Identification struct {
	Sequence *domain.Sequence
	Table    domain.Table
	Report   *domain.Report
}

// Close releases the identified descriptors
func (i *Identification) Close() error {
	if i == nil {
		return nil
	}
	return i.Sequence.Close()
}

// IdentifyService runs walks and turns their results into reports
type IdentifyService struct {
	walker *registry.Walker
	bus    *EventBus
	log    zerolog.Logger
	caps   CapabilitySelector
	now    func() time.Time
}

// Option configures an IdentifyService
type Option func(*IdentifyService)

// WithEventBus publishes walk progress on bus
func WithEventBus(bus *EventBus) Option {
	return func(s *IdentifyService) {
		s.bus = bus
	}
}

// WithLogger sets the service logger
func WithLogger(l zerolog.Logger) Option {
	return func(s *IdentifyService) {
		s.log = l
	}
}

// WithCapabilities limits which capabilities are invoked
func WithCapabilities(sel CapabilitySelector) Option {
	return func(s *IdentifyService) {
		if sel != nil {
			s.caps = sel
		}
	}
}

// NewIdentifyService creates a service over walker
func NewIdentifyService(walker *registry.Walker, opts ...Option) *IdentifyService {
	s := &IdentifyService{
		walker: walker,
		log:    zerolog.Nop(),
		caps:   allCapabilities{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Identify walks the taxonomy against p and invokes the enabled
// capabilities of the identified target
func (s *IdentifyService) Identify(ctx context.Context, p probe.Probe) (*Identification, error) {
	session := uuid.NewString()
	name := probeName(p)
	log := s.log.With().Str("session", session).Str("probe", name).Logger()

	s.bus.Publish(Event{Type: EventWalkStarted, Session: session, Payload: map[string]string{"probe": name}})

	outer := registry.ContextTrace(ctx)
	ctx = registry.WithTrace(ctx, &registry.Trace{
		NodeVisited: func(v registry.Visit) {
			log.Trace().Str("path", v.Path).Str("outcome", string(v.Outcome)).Msg("Node visited")
			s.bus.Publish(Event{Type: EventNodeVisited, Session: session, Payload: v})
			if outer != nil && outer.NodeVisited != nil {
				outer.NodeVisited(v)
			}
		},
	})

	seq, table, ok := s.walker.Identify(ctx, p)
	if !ok {
		log.Info().Msg("No target identified")
		s.bus.Publish(Event{Type: EventTargetMissed, Session: session, Payload: map[string]string{"probe": name}})
		if name != "" {
			return nil, fmt.Errorf("%w on %s", ErrNoTarget, name)
		}
		return nil, ErrNoTarget
	}

	report := domain.NewReport(seq)
	report.Session = session
	report.Probe = name
	report.IdentifiedAt = s.now()
	report.Fingerprint = Fingerprint(seq)
	s.invoke(seq, table, report)

	log.Info().
		Str("path", report.Path()).
		Str("fingerprint", report.Fingerprint).
		Msg("Target identified")
	s.bus.Publish(Event{Type: EventTargetIdentified, Session: session, Payload: report})

	return &Identification{Sequence: seq, Table: table, Report: report}, nil
}

// invoke runs each declared and enabled capability, recording those that
// produced a result
func (s *IdentifyService) invoke(seq *domain.Sequence, table domain.Table, report *domain.Report) {
	for _, name := range table.Declared() {
		if !s.caps.IsEnabled(name) {
			continue
		}

		produced := false
		switch name {
		case domain.CapabilityDebugView:
			if v, ok := table.DebugView(seq); ok && v != nil {
				report.Debug = v.String()
				produced = true
			}
		case domain.CapabilityMemoryMap:
			if m, ok := table.MemoryMap(seq); ok {
				report.Memory = m
				produced = true
			}
		case domain.CapabilityCore:
			if c, ok := table.Core(seq); ok {
				report.Core = &c
				produced = true
			}
		}

		if produced {
			report.Capabilities = append(report.Capabilities, name)
		} else {
			s.log.Warn().Str("capability", string(name)).Str("path", seq.String()).
				Msg("Declared capability returned nothing")
		}
	}
}

// Fingerprint hashes the descriptor names and any unique device IDs with
// BLAKE2b-256. The same board yields the same fingerprint on every walk.
func Fingerprint(seq *domain.Sequence) string {
	h, err := blake2b.New256(nil)
	if err != nil {
		return ""
	}
	for _, role := range domain.Roles() {
		d, ok := seq.Slot(role)
		if !ok {
			h.Write([]byte{0xff})
			continue
		}
		h.Write([]byte(d.Name()))
		h.Write([]byte{0})
		if id, ok := d.(domain.Identifier); ok {
			h.Write(id.UniqueID())
		}
		h.Write([]byte{0xff})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func probeName(p probe.Probe) string {
	if named, ok := p.(interface{ Name() string }); ok {
		return named.Name()
	}
	return ""
}
