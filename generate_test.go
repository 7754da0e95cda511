package triage_test

import (
	"encoding/json"
	"slices"
	"strings"
	"testing"

	triage "github.com/MegaGrindStone/go-ticket-triage"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_Generate(t *testing.T) {
	tax := triage.DefaultTaxonomy()
	gen := triage.NewGenerator(tax, triage.NewRand(42))

	for range 500 {
		ex := gen.Generate()

		ticket, ok := triage.TicketFromPrompt(ex.Prompt)
		require.True(t, ok, "prompt layout: %q", ex.Prompt)

		var label triage.Label
		require.NoError(t, json.Unmarshal([]byte(ex.Completion), &label))

		assert.Equal(t, triage.MarshalLabel(label), ex.Completion)
		assert.True(t, tax.Contains(label.Category))
		assert.True(t, slices.Contains(tax.Phrasings(label.Category), ticket))
		assert.True(t, slices.Contains(tax.Actions(label.Category), label.NextAction))
		assert.Equal(t, tax.Team(label.Category), label.RouteTo)

		_, valid := triage.ParsePriority(string(label.Priority))
		assert.True(t, valid)

		// Priorities with a keyword match do not depend on the stream.
		if p := triage.ClassifyPriority(label.Category, ticket, triage.NewRand(0)); p == triage.P1 || p == triage.P2 {
			assert.Equal(t, p, label.Priority)
		}
	}
}

func TestGenerator_Split(t *testing.T) {
	tests := []struct {
		name      string
		nTotal    int
		nEval     int
		wantTrain int
		wantEval  int
		wantErr   bool
	}{
		{name: "Default sizes", nTotal: 800, nEval: 120, wantTrain: 680, wantEval: 120},
		{name: "All eval", nTotal: 10, nEval: 10, wantTrain: 0, wantEval: 10},
		{name: "No eval", nTotal: 10, nEval: 0, wantTrain: 10, wantEval: 0},
		{name: "Empty", nTotal: 0, nEval: 0},
		{name: "Eval larger than total", nTotal: 5, nEval: 6, wantErr: true},
		{name: "Negative total", nTotal: -1, nEval: 0, wantErr: true},
		{name: "Negative eval", nTotal: 5, nEval: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := triage.NewGenerator(triage.DefaultTaxonomy(), triage.NewRand(42))

			train, eval, err := gen.Split(tt.nTotal, tt.nEval)
			if tt.wantErr {
				assert.ErrorIs(t, err, triage.ErrInvalidSplit)
				return
			}
			require.NoError(t, err)
			assert.Len(t, train, tt.wantTrain)
			assert.Len(t, eval, tt.wantEval)
		})
	}
}

func TestGenerator_SplitDeterministic(t *testing.T) {
	split := func(seed uint64) ([]triage.Example, []triage.Example) {
		gen := triage.NewGenerator(triage.DefaultTaxonomy(), triage.NewRand(seed))
		train, eval, err := gen.Split(800, 120)
		require.NoError(t, err)
		return train, eval
	}

	train1, eval1 := split(42)
	train2, eval2 := split(42)
	if diff := cmp.Diff(train1, train2); diff != "" {
		t.Errorf("train differs for the same seed (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(eval1, eval2); diff != "" {
		t.Errorf("eval differs for the same seed (-first +second):\n%s", diff)
	}

	train3, _ := split(43)
	assert.NotEqual(t, train1, train3)
}

func TestGenerator_SplitPartitions(t *testing.T) {
	const nTotal, nEval = 200, 30

	gen := triage.NewGenerator(triage.DefaultTaxonomy(), triage.NewRand(42))
	train, eval, err := gen.Split(nTotal, nEval)
	require.NoError(t, err)

	// A fresh generator on the same seed yields the sequence Split drew before shuffling.
	ref := triage.NewGenerator(triage.DefaultTaxonomy(), triage.NewRand(42))
	generated := make([]triage.Example, nTotal)
	for i := range generated {
		generated[i] = ref.Generate()
	}

	byContent := func(a, b triage.Example) int {
		if c := strings.Compare(a.Prompt, b.Prompt); c != 0 {
			return c
		}
		return strings.Compare(a.Completion, b.Completion)
	}
	union := slices.Concat(train, eval)
	slices.SortFunc(union, byContent)
	slices.SortFunc(generated, byContent)
	if diff := cmp.Diff(generated, union); diff != "" {
		t.Errorf("train and eval do not partition the generated examples (-want +got):\n%s", diff)
	}

	first := train[0]
	eval = append(eval, triage.Example{Prompt: "extra"})
	assert.Equal(t, first, train[0], "appending to eval must not overwrite train")
	assert.Len(t, eval, nEval+1)
}

func TestMarshalLabel(t *testing.T) {
	got := triage.MarshalLabel(triage.Label{
		Category:   triage.CategoryNetworkingVPN,
		Priority:   triage.P2,
		RouteTo:    triage.TeamNetwork,
		NextAction: "Check VPN client logs & gateway <status>",
	})

	want := `{"category": "Networking > VPN", "priority": "P2", "route_to": "Network Team", ` +
		`"next_action": "Check VPN client logs & gateway <status>"}`
	assert.Equal(t, want, got)
	assert.False(t, strings.HasSuffix(got, "\n"))

	var decoded triage.Label
	require.NoError(t, json.Unmarshal([]byte(got), &decoded))
	assert.Equal(t, triage.TeamNetwork, decoded.RouteTo)

	quoted := triage.MarshalLabel(triage.Label{NextAction: `say "hi"` + "\n"})
	assert.Contains(t, quoted, `"next_action": "say \"hi\"\n"`)
}
