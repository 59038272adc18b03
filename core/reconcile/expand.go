package reconcile

import "fmt"

// ExpandLines turns order lines into individually scannable units.
// A line needing quantity N becomes N units. Unit indexes continue across
// lines sharing the same (PartNo, Bin, ReferenceCode) triple so the indexes of
// every triple stay a dense 0..count-1 range. Triples are compared after
// Clean with the separators set by opts, the same way NewSession validates
// them.
func ExpandLines(lines []Line, opts ...Option) ([]ExpectedUnit, error) {
	separators := configure(opts).separators

	total := 0
	for i, line := range lines {
		if line.Quantity < 0 {
			return nil, fmt.Errorf("%w: line %d (%s) has negative quantity %d", ErrInvalidInput, i, line.LineID, line.Quantity)
		}
		if line.PartNo == "" || line.Bin == "" {
			return nil, fmt.Errorf("%w: line %d (%s) is missing part number or bin", ErrInvalidInput, i, line.LineID)
		}
		total += line.Quantity
	}

	units := make([]ExpectedUnit, 0, total)
	next := make(map[tripleKey]int)
	for _, line := range lines {
		key := cleanTriple(line.PartNo, line.Bin, line.ReferenceCode, separators)
		for q := 0; q < line.Quantity; q++ {
			units = append(units, ExpectedUnit{
				LineID:        line.LineID,
				PartNo:        line.PartNo,
				Bin:           line.Bin,
				ReferenceCode: line.ReferenceCode,
				UnitIndex:     next[key],
				State:         StatePending,
			})
			next[key]++
		}
	}

	return units, nil
}

// tripleKey identifies the units that are physically indistinguishable.
type tripleKey struct {
	partNo        string
	bin           string
	referenceCode string
}

func cleanTriple(partNo, bin, referenceCode, separators string) tripleKey {
	return tripleKey{
		partNo:        Clean(partNo, separators),
		bin:           Clean(bin, separators),
		referenceCode: Clean(referenceCode, separators),
	}
}
