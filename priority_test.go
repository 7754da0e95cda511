package triage_test

import (
	"testing"

	triage "github.com/MegaGrindStone/go-ticket-triage"
	"github.com/stretchr/testify/assert"
)

func TestClassifyPriority(t *testing.T) {
	tests := []struct {
		name string
		text string
		want triage.Priority
	}{
		{name: "Urgent wins over everything", text: "User cannot log in, urgent", want: triage.P1},
		{name: "Blocked", text: "MFA push notifications not arriving for user, sign-in blocked.", want: triage.P1},
		{name: "Won't boot", text: "Laptop won't boot after update.", want: triage.P1},
		{name: "Case insensitive", text: "URGENT printer issue", want: triage.P1},
		{name: "P1 beats P2 keywords", text: "VPN fails and I am blocked", want: triage.P1},
		{name: "Fails", text: "VPN fails to connect", want: triage.P2},
		{name: "Stuck", text: "Outlook stuck on 'Trying to connect' and won't sync mail.", want: triage.P2},
		{name: "Denied", text: "Access denied to finance share", want: triage.P2},
		{name: "P2 beats P3 keywords", text: "Slow Wi-Fi then an error page", want: triage.P2},
		{name: "Slow", text: "Printer is slow today", want: triage.P3},
		{name: "Intermittent", text: "Intermittent drops on the guest network", want: triage.P3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := triage.ClassifyPriority(triage.CategoryNetworkingVPN, tt.text, triage.NewRand(0))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyPriority_Fallback(t *testing.T) {
	rng := triage.NewRand(42)

	seen := make(map[triage.Priority]int)
	for range 200 {
		seen[triage.ClassifyPriority(triage.CategoryEmailOutlook, "Outlook search not returning recent emails.", rng)]++
	}

	assert.Len(t, seen, 2)
	assert.Positive(t, seen[triage.P3])
	assert.Positive(t, seen[triage.P4])
}

func TestClassifyPriority_RuleMatchDrawsNothing(t *testing.T) {
	a, b := triage.NewRand(7), triage.NewRand(7)

	triage.ClassifyPriority(triage.CategoryHardwareLaptop, "Laptop won't boot", a)

	assert.Equal(t, b.Uint64(), a.Uint64())
}

func TestParsePriority(t *testing.T) {
	p, ok := triage.ParsePriority("P2")
	assert.True(t, ok)
	assert.Equal(t, triage.P2, p)
	assert.Equal(t, 2, p.Rank())

	_, ok = triage.ParsePriority("p2")
	assert.False(t, ok)
	assert.Equal(t, 0, triage.Priority("P5").Rank())
}
