// Package core provides the rule-matching engine of the attribute extractor.
//
// The package has no I/O and no transport dependencies. Spreadsheet parsing,
// session folders and HTTP live in sibling packages and hand the core two
// parsed tables.
//
// # Rules
//
// A configuration table has one row per (attribute, value, patterns) triple:
//
//	Atributo  | Valor  | Padrões
//	Voltagem  | 110V   | 110, 110v, 110 volts
//	Voltagem  | 220V   | 220, 220v
//	Cor       | Branco | branco, branca
//
// [CompileRules] groups rows by attribute, keeping row order, and splits the
// pattern cell into trimmed lower-case patterns.
//
// # Matching
//
// [Match] lower-cases a description and returns the value of the first rule
// owning a pattern that occurs in it. Order decides ties: the earliest rule
// in the configuration wins even if a later rule is more specific.
//
// # Extraction Jobs
//
// [Extract] adds one column per attribute and reports progress after each
// attribute. [Coordinator] runs at most one job at a time:
//
//  1. Caller invokes [Coordinator.Start] with a [Job]
//  2. A second Start before the first job ends fails with [ErrJobInProgress]
//  3. Progress and terminal failures are read with [Coordinator.Status]
//  4. The finished table is read with [Coordinator.Result]
//
// # Errors
//
// Failed jobs carry a [Failure] whose kind maps to a fixed [UserMessage]
// (codes JOB001-JOB004). See error_messages.go for the full code table.
package core
