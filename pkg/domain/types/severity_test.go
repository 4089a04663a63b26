package types_test

import (
	"encoding/json"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/vanerisk/vane/pkg/domain/types"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		input string
		want  types.Severity
	}{
		{"High", types.SeverityHigh},
		{"high", types.SeverityHigh},
		{"MEDIUM", types.SeverityMedium},
		{" low ", types.SeverityLow},
		{"", types.SeverityNone},
		{"   ", types.SeverityNone},
		{"critical", types.SeverityLow},
		{"moderate-to-high", types.SeverityLow},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			gt.Value(t, types.ParseSeverity(tt.input)).Equal(tt.want)
		})
	}
}

func TestSeverityOrder(t *testing.T) {
	gt.Bool(t, types.SeverityLow < types.SeverityMedium).True()
	gt.Bool(t, types.SeverityMedium < types.SeverityHigh).True()
	gt.Bool(t, types.SeverityNone.IsSet()).False()
	gt.Bool(t, types.SeverityLow.IsSet()).True()

	gt.Value(t, types.SeverityNone.Max(types.SeverityLow)).Equal(types.SeverityLow)
	gt.Value(t, types.SeverityHigh.Max(types.SeverityMedium)).Equal(types.SeverityHigh)
	gt.Value(t, types.SeverityNone.Max(types.SeverityNone)).Equal(types.SeverityNone)
}

func TestSeverityJSON(t *testing.T) {
	type doc struct {
		Severity types.Severity `json:"severity"`
	}

	raw, err := json.Marshal(doc{Severity: types.SeverityMedium})
	gt.NoError(t, err).Required()
	gt.Value(t, string(raw)).Equal(`{"severity":"Medium"}`)

	raw, err = json.Marshal(doc{})
	gt.NoError(t, err).Required()
	gt.Value(t, string(raw)).Equal(`{"severity":null}`)

	var got doc
	gt.NoError(t, json.Unmarshal([]byte(`{"severity":"high"}`), &got)).Required()
	gt.Value(t, got.Severity).Equal(types.SeverityHigh)

	gt.NoError(t, json.Unmarshal([]byte(`{"severity":null}`), &got)).Required()
	gt.Value(t, got.Severity).Equal(types.SeverityNone)
}
