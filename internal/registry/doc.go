// Package registry declares the target taxonomy as a tree of typed nodes
// and walks it against a probe.
//
// A taxonomy has four levels: architecture, manufacturer, family and
// target. Every node carries a claim predicate that reads the probe and,
// on a match, produces the node's descriptor.
//
// # Walking
//
// The walk is depth-first and first-match-wins. Children are tried in the
// order they were declared and siblings are never revisited once one of
// them commits. A leaf that claims the hardware creates a fresh
// domain.Sequence, stores its target descriptor and builds the capability
// table. Each branch then stores its own descriptor as the call returns,
// so the sequence is complete by the time it reaches the Walker.
//
// Descriptors that end up outside a sequence (a branch whose children all
// missed) are closed if they implement io.Closer.
//
// # Tracing
//
// WithTrace attaches hooks to a context in the manner of net/http/httptrace:
//
//	ctx = registry.WithTrace(ctx, &registry.Trace{
//		NodeVisited: func(v registry.Visit) {
//			fmt.Println(v.Path, v.Outcome)
//		},
//	})
//	seq, table, ok := walker.Identify(ctx, p)
//
// Validate checks a tree's shape statically and is meant to run in tests.
package registry
