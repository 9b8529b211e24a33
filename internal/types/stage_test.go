package types

import "testing"

func TestStageLabels(t *testing.T) {
	cases := []struct {
		stage OpportunityStage
		want  string
	}{
		{StageLead, "Lead"},
		{StageQualified, "Qualified"},
		{StageProposal, "Proposal"},
		{StageNegotiation, "Negotiation"},
		{StageClosedWon, "Closed Won"},
		{StageClosedLost, "Closed Lost"},
		{OpportunityStage("mystery"), "Mystery"},
		{OpportunityStage(""), ""},
	}
	for _, tc := range cases {
		if got := tc.stage.Label(); got != tc.want {
			t.Errorf("Label(%q)=%q, want %q", tc.stage, got, tc.want)
		}
	}
}

func TestStageDefaultProbability(t *testing.T) {
	cases := []struct {
		stage OpportunityStage
		want  int
	}{
		{StageLead, 10},
		{StageQualified, 25},
		{StageProposal, 50},
		{StageNegotiation, 75},
		{StageClosedWon, 100},
		{StageClosedLost, 0},
		{OpportunityStage("mystery"), 50},
	}
	for _, tc := range cases {
		if got := tc.stage.DefaultProbability(); got != tc.want {
			t.Errorf("DefaultProbability(%q)=%d, want %d", tc.stage, got, tc.want)
		}
	}
}

func TestStageTerminal(t *testing.T) {
	for _, stage := range []OpportunityStage{StageLead, StageQualified, StageProposal, StageNegotiation} {
		if stage.Terminal() {
			t.Errorf("stage %q should not be terminal", stage)
		}
	}
	for _, stage := range []OpportunityStage{StageClosedWon, StageClosedLost} {
		if !stage.Terminal() {
			t.Errorf("stage %q should be terminal", stage)
		}
	}
}

func TestActiveStages(t *testing.T) {
	active := ActiveStages()
	if len(active) != 4 {
		t.Fatalf("expected 4 active stages, got %d", len(active))
	}
	for _, stage := range active {
		if stage.Terminal() {
			t.Errorf("active stage set contains terminal stage %q", stage)
		}
	}
}

func TestStageOrderIsPipelineOrder(t *testing.T) {
	stages := Stages()
	for i := 1; i < len(stages); i++ {
		if stages[i-1].Order() >= stages[i].Order() {
			t.Errorf("stage %q should order before %q", stages[i-1], stages[i])
		}
	}
	if OpportunityStage("mystery").Order() != len(stages) {
		t.Errorf("unknown stage should sort last")
	}
}

func TestStageValid(t *testing.T) {
	for _, stage := range Stages() {
		if !stage.Valid() {
			t.Errorf("stage %q should be valid", stage)
		}
	}
	if OpportunityStage("mystery").Valid() {
		t.Error("unknown stage should be invalid")
	}
}
