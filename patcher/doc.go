// Package patcher implements idempotent, targeted patching of Klipper-style
// configuration files.
//
// Every operation is a pure transformation over one file: the file is read
// fresh, the full output is computed in memory, and the original is replaced
// through a temporary file plus rename. A line the operation's locator does
// not match is carried through byte-for-byte, and re-running any operation on
// its own output leaves the file unchanged.
//
// # Quick Start
//
// Create a Patcher and call operations directly:
//
//	p := patcher.New()
//	result, err := p.ManageInclude("printer.cfg", patcher.IncludeAdd)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	switch result.Outcome {
//	case patcher.OutcomeApplied:
//	    fmt.Println("include directive installed")
//	case patcher.OutcomeAlreadyPresent:
//	    fmt.Println("nothing to do")
//	}
//
// # Outcomes
//
// Every operation returns a [Result] with one of four outcomes:
//
//   - [OutcomeApplied]: the file was modified
//   - [OutcomeAlreadyPresent]: the desired construct already existed
//   - [OutcomeSkipped]: no insertion point or locator match was found
//   - [OutcomeInvalidInput]: an enumerated argument was not recognized
//
// Only I/O failures are returned as Go errors, with one exception:
// [Patcher.InjectBufferBlock] also returns an error for an unknown buffer
// system, since an unknown hardware variant there is a caller bug rather
// than a harmless miss.
//
// # Supported File Grammar
//
// The operations understand flat files of the form:
//
//	[section-name]
//	key: value          # trailing comment
//	#[include mcu/MMB_1.0.cfg]
//
// Sections do not nest, values do not span lines, and blank lines act as soft
// section terminators where an operation says they do.
//
// # Logging and Restarts
//
// Operations report already-present, skipped, and invalid-input conditions
// through the minimal [Logger] interface (see [NewSlogAdapter]); service
// restarts after patching go through the [Restarter] collaborator, which the
// package only declares.
//
// # Related Packages
//
// The patcher package integrates with other cfgtools packages:
//   - [github.com/erraggy/cfgtools/plan] - Declarative YAML patch plans
//   - [github.com/erraggy/cfgtools/cfgerrors] - Structured error types
package patcher
