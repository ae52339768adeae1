package chessmcp

import (
	"encoding/json"
	"testing"
)

func TestScoreMarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		score *Score
		want  string
	}{
		{"centipawns", Centipawns(34), "0.34"},
		{"negative centipawns", Centipawns(-150), "-1.5"},
		{"zero", Centipawns(0), "0"},
		{"mate for", MateScore(3), `"mate3"`},
		{"mate against", MateScore(-2), `"mate-2"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.score)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("Marshal = %s, want %s", data, tt.want)
			}
		})
	}
}

func TestAnalysisResultJSON(t *testing.T) {
	result := &AnalysisResult{
		Depth: 18,
		Score: Centipawns(27),
		PV:    []string{"e2e4", "e7e5", "g1f3"},
	}
	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"depth":18,"score":0.27,"pv":["e2e4","e7e5","g1f3"]}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}
}
