package triage_test

import (
	"errors"
	"testing"

	triage "github.com/MegaGrindStone/go-ticket-triage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validObject() map[string]any {
	return map[string]any{
		"category":    "Networking > VPN",
		"priority":    "P2",
		"route_to":    "Network Team",
		"next_action": "Check VPN client logs",
	}
}

func TestValidate(t *testing.T) {
	tax := triage.DefaultTaxonomy()

	tests := []struct {
		name      string
		mutate    func(map[string]any)
		wantKinds []triage.WarningKind
	}{
		{name: "Valid", mutate: func(map[string]any) {}},
		{
			name:      "Missing key",
			mutate:    func(o map[string]any) { delete(o, "next_action") },
			wantKinds: []triage.WarningKind{triage.WarningMissingKey},
		},
		{
			name:      "Wrong type",
			mutate:    func(o map[string]any) { o["priority"] = float64(1) },
			wantKinds: []triage.WarningKind{triage.WarningInvalidType},
		},
		{
			name:      "Invalid priority",
			mutate:    func(o map[string]any) { o["priority"] = "P5" },
			wantKinds: []triage.WarningKind{triage.WarningInvalidPriority},
		},
		{
			name:      "Unknown category",
			mutate:    func(o map[string]any) { o["category"] = "Facilities > Coffee" },
			wantKinds: []triage.WarningKind{triage.WarningUnknownCategory},
		},
		{
			name:      "Route mismatch",
			mutate:    func(o map[string]any) { o["route_to"] = "Service Desk" },
			wantKinds: []triage.WarningKind{triage.WarningRouteMismatch},
		},
		{
			name: "Several problems",
			mutate: func(o map[string]any) {
				delete(o, "category")
				o["priority"] = "urgent"
			},
			wantKinds: []triage.WarningKind{triage.WarningMissingKey, triage.WarningInvalidPriority},
		},
		{
			name:   "Extra keys are kept",
			mutate: func(o map[string]any) { o["confidence"] = 0.9 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj := validObject()
			tt.mutate(obj)

			v := triage.Validate(obj, tax)

			var kinds []triage.WarningKind
			for _, w := range v.Warnings {
				kinds = append(kinds, w.Kind)
			}
			assert.Equal(t, tt.wantKinds, kinds)
			assert.Equal(t, len(tt.wantKinds) == 0, v.OK())
			assert.Equal(t, obj, v.Raw)
		})
	}
}

func TestValidate_BestEffortLabel(t *testing.T) {
	obj := validObject()
	delete(obj, "route_to")

	v := triage.Validate(obj, triage.DefaultTaxonomy())

	assert.Equal(t, triage.Label{
		Category:   triage.CategoryNetworkingVPN,
		Priority:   triage.P2,
		NextAction: "Check VPN client logs",
	}, v.Label)
	require.Len(t, v.Warnings, 1)
	assert.Equal(t, "route_to", v.Warnings[0].Field)
}

func TestValidateStrict(t *testing.T) {
	tax := triage.DefaultTaxonomy()

	label, err := triage.ValidateStrict(validObject(), tax)
	require.NoError(t, err)
	assert.Equal(t, triage.P2, label.Priority)

	obj := validObject()
	obj["priority"] = "P9"
	_, err = triage.ValidateStrict(obj, tax)
	assert.ErrorIs(t, err, triage.ErrValidation)

	var vErr *triage.ValidationError
	require.True(t, errors.As(err, &vErr))
	require.Len(t, vErr.Warnings, 1)
	assert.Equal(t, triage.WarningInvalidPriority, vErr.Warnings[0].Kind)
}
