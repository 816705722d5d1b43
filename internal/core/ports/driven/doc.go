// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the engine to function:
//
//   - VersionStore: Document version persistence (append-only)
//   - AlertStore: Alert persistence
//   - AnchorStore: Text anchor persistence
//   - HistoryStore: Alert state-change history (append-only)
//   - DismissalStore: Dismissal pattern persistence
//   - AnalyzerRunner: Dispatches chapter text to external analyzers
//
// # Optional Interfaces
//
// These can be nil - the engine degrades gracefully:
//
//   - ProgressSink: Per-chapter completion events. Without it, runs are silent.
//   - ConfigStore: Application configuration. Without it, defaults apply.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or analyzer package
package driven
