// Package service turns walks into reports.
//
// IdentifyService runs the registry walker against a probe, invokes the
// capabilities the identified target declares (filtered by configuration)
// and collects the results in a domain.Report with a session id and a
// stable device fingerprint.
//
// # Event System
//
// Walk progress is published on an EventBus: the walk start, every node
// visit, and the final hit or miss. Watch mode subscribes to it to print
// traces as fixtures change. Publishing never blocks; slow subscribers miss
// events.
package service
