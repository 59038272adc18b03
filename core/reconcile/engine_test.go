package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// newTestSession expands lines and creates a session with a fixed clock.
func newTestSession(t *testing.T, lines ...Line) *Session {
	t.Helper()
	units, err := ExpandLines(lines)
	require.NoError(t, err)
	s, err := NewSession(units, WithClock(fixedClock))
	require.NoError(t, err)
	return s
}

func TestProcessScan_WorkedExample(t *testing.T) {
	s := newTestSession(t, Line{LineID: "L1", PartNo: "WX9", Bin: "B1", ReferenceCode: "R7", Quantity: 2})

	ev, err := s.ProcessScan("WX9B1R7")
	require.NoError(t, err)
	assert.Equal(t, OutcomeMatched, ev.Outcome)
	require.NotNil(t, ev.Unit)
	assert.Equal(t, UnitRef{LineID: "L1", UnitIndex: 0}, *ev.Unit)
	assert.Equal(t, 1, s.Progress().MatchedCount)
	assert.False(t, s.IsComplete())

	ev, err = s.ProcessScan("WX9B1R7")
	require.NoError(t, err)
	assert.Equal(t, OutcomeMatched, ev.Outcome)
	assert.Equal(t, 1, ev.Unit.UnitIndex)
	assert.Equal(t, 2, s.Progress().MatchedCount)
	assert.True(t, s.IsComplete())

	ev, err = s.ProcessScan("WX9B1R7")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAllUnitsAlreadyMatched, ev.Outcome)
	assert.Nil(t, ev.Unit)
	assert.Equal(t, "WX9", ev.PartNo)
	assert.Equal(t, 2, s.Progress().MatchedCount)
	assert.Len(t, s.Log(), 3)
}

func TestProcessScan_LongestPrefixWins(t *testing.T) {
	t.Run("both prefixes resolve", func(t *testing.T) {
		s := newTestSession(t,
			Line{LineID: "short", PartNo: "AB", Bin: "12BIN1", ReferenceCode: "REF1", Quantity: 1},
			Line{LineID: "long", PartNo: "AB12", Bin: "BIN1", ReferenceCode: "REF1", Quantity: 1},
		)

		ev, err := s.ProcessScan("AB12BIN1REF1")
		require.NoError(t, err)
		assert.Equal(t, OutcomeMatched, ev.Outcome)
		assert.Equal(t, "AB12", ev.PartNo)
		assert.Equal(t, "long", ev.Unit.LineID)
	})

	t.Run("longer prefix does not resolve", func(t *testing.T) {
		s := newTestSession(t,
			Line{LineID: "short", PartNo: "AB", Bin: "12BIN1", ReferenceCode: "REF1", Quantity: 1},
			Line{LineID: "long", PartNo: "AB12", Bin: "BINX", ReferenceCode: "REF1", Quantity: 1},
		)

		ev, err := s.ProcessScan("AB12BIN1REF1")
		require.NoError(t, err)
		assert.Equal(t, OutcomeMatched, ev.Outcome)
		assert.Equal(t, "short", ev.Unit.LineID)
	})

	t.Run("shorter prefix still pending after longer is picked", func(t *testing.T) {
		s := newTestSession(t,
			Line{LineID: "short", PartNo: "AB", Bin: "12BIN1", ReferenceCode: "REF1", Quantity: 1},
			Line{LineID: "long", PartNo: "AB12", Bin: "BIN1", ReferenceCode: "REF1", Quantity: 1},
		)

		ev, err := s.ProcessScan("AB12BIN1REF1")
		require.NoError(t, err)
		assert.Equal(t, OutcomeMatched, ev.Outcome)
		assert.Equal(t, "long", ev.Unit.LineID)

		ev, err = s.ProcessScan("AB12BIN1REF1")
		require.NoError(t, err)
		assert.Equal(t, OutcomeMatched, ev.Outcome)
		assert.Equal(t, "AB", ev.PartNo)
		assert.Equal(t, "short", ev.Unit.LineID)
		assert.True(t, s.IsComplete())

		ev, err = s.ProcessScan("AB12BIN1REF1")
		require.NoError(t, err)
		assert.Equal(t, OutcomeAllUnitsAlreadyMatched, ev.Outcome)
		assert.Equal(t, "AB12", ev.PartNo)
		assert.Nil(t, ev.Unit)
	})

	t.Run("no prefix resolves", func(t *testing.T) {
		s := newTestSession(t,
			Line{LineID: "short", PartNo: "AB", Bin: "C1", ReferenceCode: "R", Quantity: 1},
			Line{LineID: "long", PartNo: "AB12", Bin: "C2", ReferenceCode: "R", Quantity: 1},
		)

		ev, err := s.ProcessScan("AB12BIN1REF1")
		require.NoError(t, err)
		assert.Equal(t, OutcomeFieldMismatch, ev.Outcome)
		assert.Equal(t, "AB12", ev.PartNo)
		assert.Equal(t, 0, s.Progress().MatchedCount)
	})
}

func TestProcessScan_Outcomes(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		want    Outcome
		partNo  string
		matched int
	}{
		{"exact", "WX9B1R7", OutcomeMatched, "WX9", 1},
		{"unknown part", "ZZ1B1R7", OutcomePartNotFound, "", 0},
		{"wrong bin", "WX9B2R7", OutcomeFieldMismatch, "WX9", 0},
		{"wrong reference", "WX9B1R8", OutcomeFieldMismatch, "WX9", 0},
		{"trailing garbage", "WX9B1R7X", OutcomeFieldMismatch, "WX9", 0},
		{"part only", "WX9", OutcomeFieldMismatch, "WX9", 0},
		{"lower case and spaces", "  wx9b1r7\n", OutcomeMatched, "WX9", 1},
		{"full width", "ＷＸ９Ｂ１Ｒ７", OutcomeMatched, "WX9", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t, Line{LineID: "L1", PartNo: "WX9", Bin: "B1", ReferenceCode: "R7", Quantity: 1})

			ev, err := s.ProcessScan(tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ev.Outcome)
			assert.Equal(t, tt.partNo, ev.PartNo)
			assert.Equal(t, tt.code, ev.RawCode)
			assert.Equal(t, tt.matched, s.Progress().MatchedCount)
			assert.Equal(t, fixedNow, ev.Timestamp)
		})
	}
}

func TestProcessScan_SeparatorsStripped(t *testing.T) {
	s := newTestSession(t, Line{LineID: "L1", PartNo: "WX-9", Bin: "B-01", ReferenceCode: "R 7", Quantity: 1})

	ev, err := s.ProcessScan("WX9B01R7")
	require.NoError(t, err)
	assert.Equal(t, OutcomeMatched, ev.Outcome)
	assert.Equal(t, "WX-9", ev.PartNo)
}

func TestProcessScan_CustomSeparators(t *testing.T) {
	units, err := ExpandLines([]Line{{LineID: "L1", PartNo: "WX/9", Bin: "B1", Quantity: 1}})
	require.NoError(t, err)

	s, err := NewSession(units, WithSeparators("/"))
	require.NoError(t, err)

	ev, err := s.ProcessScan("WX9B1")
	require.NoError(t, err)
	assert.Equal(t, OutcomeMatched, ev.Outcome)
}

func TestProcessScan_EmptyCode(t *testing.T) {
	s := newTestSession(t, Line{LineID: "L1", PartNo: "WX9", Bin: "B1", Quantity: 1})

	for _, code := range []string{"", "   ", "\t\n"} {
		_, err := s.ProcessScan(code)
		assert.ErrorIs(t, err, ErrInvalidScan)
	}
	assert.Empty(t, s.Log())
	assert.Equal(t, 0, s.Progress().MatchedCount)
}

func TestProcessScan_MatchedAtSetOnTransition(t *testing.T) {
	s := newTestSession(t, Line{LineID: "L1", PartNo: "WX9", Bin: "B1", Quantity: 2})

	_, err := s.ProcessScan("WX9B1")
	require.NoError(t, err)

	units := s.Units()
	require.NotNil(t, units[0].MatchedAt)
	assert.Equal(t, fixedNow, *units[0].MatchedAt)
	assert.Equal(t, StateMatched, units[0].State)
	assert.Nil(t, units[1].MatchedAt)
	assert.Equal(t, StatePending, units[1].State)
}

func TestProcessScan_ExactlyOnceConsumption(t *testing.T) {
	const quantity = 5
	for k := 0; k <= quantity; k++ {
		s := newTestSession(t,
			Line{LineID: "A", PartNo: "P-100", Bin: "B7", ReferenceCode: "ORD1", Quantity: quantity},
			Line{LineID: "B", PartNo: "P-100", Bin: "B8", ReferenceCode: "ORD1", Quantity: 1},
		)

		seen := make(map[UnitRef]bool)
		for i := 0; i < k; i++ {
			ev, err := s.ProcessScan("P100B7ORD1")
			require.NoError(t, err)
			require.True(t, ev.IsMatch())
			assert.False(t, seen[*ev.Unit], "unit consumed twice")
			seen[*ev.Unit] = true
			assert.Equal(t, i, ev.Unit.UnitIndex)
		}
		assert.Len(t, s.MatchedUnits(), k)

		if k == quantity {
			before := s.Units()
			ev, err := s.ProcessScan("P100B7ORD1")
			require.NoError(t, err)
			assert.Equal(t, OutcomeAllUnitsAlreadyMatched, ev.Outcome)
			assert.Equal(t, before, s.Units())
		}
	}
}

func TestProcessScan_NoFalseNegatives(t *testing.T) {
	lines := []Line{
		{LineID: "1", PartNo: "AB", Bin: "X1", ReferenceCode: "R1", Quantity: 2},
		{LineID: "2", PartNo: "AB12", Bin: "X1", ReferenceCode: "R1", Quantity: 1},
		{LineID: "3", PartNo: "AB-12", Bin: "Y-2", ReferenceCode: "", Quantity: 3},
		{LineID: "4", PartNo: "C", Bin: "Z", ReferenceCode: "99", Quantity: 1},
		{LineID: "5", PartNo: "AB", Bin: "X1", ReferenceCode: "R1", Quantity: 1},
	}
	s := newTestSession(t, lines...)

	for _, u := range s.Units() {
		code := Clean(u.PartNo, DefaultSeparators) + Clean(u.Bin, DefaultSeparators) + Clean(u.ReferenceCode, DefaultSeparators)
		ev, err := s.ProcessScan(code)
		require.NoError(t, err)
		require.Equal(t, OutcomeMatched, ev.Outcome, "code %s", code)
	}
	assert.True(t, s.IsComplete())
	assert.Empty(t, s.PendingUnits())
}

func TestProcessScan_NoFalsePositives(t *testing.T) {
	s := newTestSession(t,
		Line{LineID: "1", PartNo: "AB", Bin: "X1", ReferenceCode: "R1", Quantity: 1},
		Line{LineID: "2", PartNo: "AB12", Bin: "X2", ReferenceCode: "R2", Quantity: 1},
	)

	for _, code := range []string{"AB", "ABX1", "ABX1R", "ABX1R1R1", "AB12X1R1", "AB12X2", "AB1X1R1", "XAB12X2R2", "A"} {
		ev, err := s.ProcessScan(code)
		require.NoError(t, err)
		assert.NotEqual(t, OutcomeMatched, ev.Outcome, "code %s", code)
	}
	assert.Equal(t, 0, s.Progress().MatchedCount)
}

func TestProcessScan_IdempotentCompletion(t *testing.T) {
	s := newTestSession(t,
		Line{LineID: "1", PartNo: "P1", Bin: "B1", Quantity: 1},
		Line{LineID: "2", PartNo: "P2", Bin: "B2", Quantity: 1},
	)
	for _, code := range []string{"P1B1", "P2B2"} {
		_, err := s.ProcessScan(code)
		require.NoError(t, err)
	}
	require.True(t, s.IsComplete())

	for i := 0; i < 10; i++ {
		ev, err := s.ProcessScan([]string{"P1B1", "P2B2"}[i%2])
		require.NoError(t, err)
		assert.Equal(t, OutcomeAllUnitsAlreadyMatched, ev.Outcome)
	}
	assert.Equal(t, 2, s.Progress().MatchedCount)
	assert.True(t, s.IsComplete())
}

func TestProcessScan_AuditCompleteness(t *testing.T) {
	s := newTestSession(t, Line{LineID: "1", PartNo: "P1", Bin: "B1", Quantity: 2})

	codes := []string{"P1B1", "nope", "P1B9", "P1B1", "P1B1", "p1b1"}
	for _, code := range codes {
		_, err := s.ProcessScan(code)
		require.NoError(t, err)
	}

	log := s.Log()
	require.Len(t, log, len(codes))
	for i, ev := range log {
		assert.Equal(t, i+1, ev.Sequence)
		assert.Equal(t, codes[i], ev.RawCode)
	}
	assert.Equal(t, []Outcome{
		OutcomeMatched,
		OutcomePartNotFound,
		OutcomeFieldMismatch,
		OutcomeMatched,
		OutcomeAllUnitsAlreadyMatched,
		OutcomeAllUnitsAlreadyMatched,
	}, outcomes(log))
}

func TestProcessScan_ExhaustedPartStillRecognized(t *testing.T) {
	s := newTestSession(t, Line{LineID: "1", PartNo: "P1", Bin: "B1", Quantity: 1})

	_, err := s.ProcessScan("P1B1")
	require.NoError(t, err)

	ev, err := s.ProcessScan("P1B2")
	require.NoError(t, err)
	assert.Equal(t, OutcomeFieldMismatch, ev.Outcome)
}

func TestOutcome_Warning(t *testing.T) {
	assert.Empty(t, OutcomeMatched.Warning())
	assert.NotEmpty(t, OutcomePartNotFound.Warning())
	assert.NotEmpty(t, OutcomeFieldMismatch.Warning())
	assert.NotEmpty(t, OutcomeAllUnitsAlreadyMatched.Warning())
}

func outcomes(log []ScanEvent) []Outcome {
	out := make([]Outcome, len(log))
	for i, ev := range log {
		out[i] = ev.Outcome
	}
	return out
}
