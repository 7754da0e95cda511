package triage_test

import (
	"errors"
	"testing"

	triage "github.com/MegaGrindStone/go-ticket-triage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		want     map[string]any
		wantKind error
		wantRaw  string
	}{
		{
			name: "Bare object",
			raw:  `{"category":"Networking > VPN","priority":"P2"}`,
			want: map[string]any{"category": "Networking > VPN", "priority": "P2"},
		},
		{
			name: "Commentary around the object",
			raw:  "Sure! Here it is:\n{\"priority\":\"P1\"}\nHope this helps.",
			want: map[string]any{"priority": "P1"},
		},
		{
			name: "Nested object",
			raw:  `{"a":{"b":"c"}}`,
			want: map[string]any{"a": map[string]any{"b": "c"}},
		},
		{
			name:     "No JSON",
			raw:      "no json here",
			wantKind: triage.ErrNoJSONFound,
			wantRaw:  "no json here",
		},
		{
			name:     "Closing brace before opening brace",
			raw:      "} nothing {",
			wantKind: triage.ErrNoJSONFound,
			wantRaw:  "} nothing {",
		},
		{
			name:     "Unquoted keys",
			raw:      "prefix {category: unquoted} suffix",
			wantKind: triage.ErrInvalidJSON,
			wantRaw:  "{category: unquoted}",
		},
		{
			name:     "Two blocks take the outer span",
			raw:      `{"a":"1"} and {"b":"2"}`,
			wantKind: triage.ErrInvalidJSON,
			wantRaw:  `{"a":"1"} and {"b":"2"}`,
		},
		{
			name: "Object inside an array",
			raw:  `[{"a":"1"}]`,
			want: map[string]any{"a": "1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := triage.Extract(tt.raw)
			if tt.wantKind == nil {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}

			assert.ErrorIs(t, err, tt.wantKind)
			var extractErr *triage.ExtractionError
			require.True(t, errors.As(err, &extractErr))
			assert.Equal(t, tt.wantRaw, extractErr.Raw)
			assert.Nil(t, got)
		})
	}
}

func TestExtract_KindsAreDistinct(t *testing.T) {
	_, err := triage.Extract("no json here")
	assert.False(t, errors.Is(err, triage.ErrInvalidJSON))

	_, err = triage.Extract("{nope}")
	assert.False(t, errors.Is(err, triage.ErrNoJSONFound))
}

func TestExtractRepair(t *testing.T) {
	obj, repaired, err := triage.ExtractRepair(`{"priority":"P2"}`)
	require.NoError(t, err)
	assert.False(t, repaired)
	assert.Equal(t, map[string]any{"priority": "P2"}, obj)

	obj, repaired, err = triage.ExtractRepair(`Answer: {'category': 'Networking > VPN', 'priority': 'P2',}`)
	require.NoError(t, err)
	assert.True(t, repaired)
	assert.Equal(t, "Networking > VPN", obj["category"])
	assert.Equal(t, "P2", obj["priority"])

	_, _, err = triage.ExtractRepair("no json here")
	assert.ErrorIs(t, err, triage.ErrNoJSONFound)
}

func TestExtract_MarshalLabelRoundTrip(t *testing.T) {
	tax := triage.DefaultTaxonomy()

	for i, category := range tax.Categories() {
		t.Run(string(category), func(t *testing.T) {
			label := triage.Label{
				Category:   category,
				Priority:   triage.Priorities[i%len(triage.Priorities)],
				RouteTo:    tax.Team(category),
				NextAction: tax.Actions(category)[0],
			}

			obj, err := triage.Extract(triage.MarshalLabel(label))
			require.NoError(t, err)
			assert.Equal(t, map[string]any{
				"category":    string(label.Category),
				"priority":    string(label.Priority),
				"route_to":    label.RouteTo,
				"next_action": label.NextAction,
			}, obj)
		})
	}
}
