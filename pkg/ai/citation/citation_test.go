package citation

import (
	"testing"
)

func TestResolve(t *testing.T) {
	sources := []SourceRef{
		{Id: "a", Name: "Ocean Currents"},
		{Id: "b", Name: "Tidal Forces"},
		{Id: "c", Name: "Marine Biology"},
	}

	tests := []struct {
		name          string
		response      string
		wantCiteCount int
		wantFirstId   string
		wantHasCites  bool
	}{
		{
			name:          "no markers",
			response:      "The ocean is large.",
			wantCiteCount: 0,
			wantHasCites:  false,
		},
		{
			name:          "single marker",
			response:      "Currents move heat poleward [1].",
			wantCiteCount: 1,
			wantFirstId:   "a",
			wantHasCites:  true,
		},
		{
			name:          "multiple markers",
			response:      "Tides follow the moon [2], and reefs host life [3].",
			wantCiteCount: 2,
			wantFirstId:   "b",
			wantHasCites:  true,
		},
		{
			name:          "out of range marker ignored",
			response:      "As shown in [7], this is unknown.",
			wantCiteCount: 0,
			wantHasCites:  false,
		},
		{
			name:          "zero marker ignored",
			response:      "See [0] for nothing.",
			wantCiteCount: 0,
			wantHasCites:  false,
		},
		{
			name:          "duplicate markers resolve once",
			response:      "First [1], and again [1].",
			wantCiteCount: 1,
			wantFirstId:   "a",
			wantHasCites:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Resolve(tt.response, sources)

			if len(result.Citations) != tt.wantCiteCount {
				t.Errorf("CiteCount = %d, want %d", len(result.Citations), tt.wantCiteCount)
			}
			if result.HasCites != tt.wantHasCites {
				t.Errorf("HasCites = %v, want %v", result.HasCites, tt.wantHasCites)
			}
			if tt.wantCiteCount > 0 && result.Citations[0].SourceId != tt.wantFirstId {
				t.Errorf("FirstId = %q, want %q", result.Citations[0].SourceId, tt.wantFirstId)
			}
		})
	}
}

func TestResolveEmptySourceList(t *testing.T) {
	result := Resolve("Anything [1] goes.", nil)
	if result.HasCites {
		t.Error("Resolve with no sources should produce no citations")
	}
}
