// Package sim provides the discrete-event queueing-network engine behind procsim.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - network.go: the immutable, index-based Network a replication runs
//   - compile.go: how a name-based process.Model becomes a Network
//   - event.go: arrival and completion events and their deterministic ordering
//   - simulator.go: the event loop, FIFO queues, routing and visit records
//
// # Architecture
//
// The sim package owns the engine; supporting packages live beside it:
//   - sim/dist/: service and inter-arrival distributions
//   - sim/process/: the process-model document, its loader and validation
//   - sim/experiment/: replications, summaries, confidence intervals, export
//
// Every random draw comes from a PartitionedRNG keyed by the replication seed,
// with one stream per arrival node, per service node and one for routing, so a
// replication is reproducible from its seed alone.
package sim
