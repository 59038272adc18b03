// Package reconcile matches raw scanner codes against the expected units of a
// pick session.
//
// A scanned label is a plain concatenation of part number, bin and reference
// code with no delimiters. The engine works out which pending unit a code
// satisfies without double-counting a unit and records every scan, matched or
// not, in an append-only log.
//
// # Resolution
//
// For each scan the engine:
//
//  1. Normalizes the code (trim, full-width folding, upper case).
//  2. Finds the part numbers of the session that prefix the code, trying the
//     longest first. Part numbers already fully picked still count, so an
//     exhausted part is told apart from an unknown one.
//  3. Compares the rest of the code with bin + reference code of that part's
//     units. Separators such as hyphens are stripped from label fields.
//  4. Consumes the pending unit with the lowest unit index.
//
// Codes that cannot be resolved are not errors. They produce one of the
// outcomes OutcomePartNotFound, OutcomeFieldMismatch or
// OutcomeAllUnitsAlreadyMatched so scanning never halts on unexpected input.
// Only an empty code (ErrInvalidScan) or a malformed unit set at session
// creation (ErrInvalidInput) are errors.
//
// # Concurrency
//
// The engine performs no I/O and is not safe for concurrent use. Hosts that
// accept scans from several goroutines hold a per-session lock around
// ProcessScan (see feature/picking).
//
// # Usage Example
//
//	units, err := reconcile.ExpandLines([]reconcile.Line{
//	    {LineID: "10", PartNo: "WX9", Bin: "B1", ReferenceCode: "R7", Quantity: 2},
//	})
//	session, err := reconcile.NewSession(units)
//
//	event, err := session.ProcessScan("wx9b1r7")
//	// event.Outcome == reconcile.OutcomeMatched, event.Unit.UnitIndex == 0
//
//	fmt.Println(session.Progress().Percent) // 50
package reconcile
