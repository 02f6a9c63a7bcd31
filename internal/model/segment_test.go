package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		name      string
		stored    string
		hasTarget bool
		want      Status
	}{
		{name: "valid passes through", stored: "confirmed", hasTarget: true, want: StatusConfirmed},
		{name: "valid passes through even without target", stored: "confirmed", hasTarget: false, want: StatusConfirmed},
		{name: "garbage with target", stored: "signed-off", hasTarget: true, want: StatusDraft},
		{name: "garbage without target", stored: "signed-off", hasTarget: false, want: StatusNew},
		{name: "empty with target", stored: "", hasTarget: true, want: StatusDraft},
		{name: "empty without target", stored: "", hasTarget: false, want: StatusNew},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeStatus(tt.stored, tt.hasTarget))
		})
	}
}

func TestSegment_NormalizedStatus(t *testing.T) {
	translated := &Segment{Status: "???", TargetTokens: `[{"kind":"text","content":"Bonjour"}]`}
	assert.Equal(t, StatusDraft, translated.NormalizedStatus())

	empty := &Segment{Status: "???", TargetTokens: "[]"}
	assert.Equal(t, StatusNew, empty.NormalizedStatus())

	// a corrupted target column counts as empty
	corrupted := &Segment{Status: "???", TargetTokens: "{broken"}
	assert.Equal(t, StatusNew, corrupted.NormalizedStatus())
}
