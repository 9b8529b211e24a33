package types

import "strings"

// OpportunityStage is the pipeline position of a sales opportunity. The set
// is closed at the schema level; closed_won and closed_lost are terminal.
type OpportunityStage string

const (
  StageLead        OpportunityStage = "lead"
  StageQualified   OpportunityStage = "qualified"
  StageProposal    OpportunityStage = "proposal"
  StageNegotiation OpportunityStage = "negotiation"
  StageClosedWon   OpportunityStage = "closed_won"
  StageClosedLost  OpportunityStage = "closed_lost"
)

// stageOrder is the fixed pipeline order used for presentation sorting.
var stageOrder = []OpportunityStage{
  StageLead,
  StageQualified,
  StageProposal,
  StageNegotiation,
  StageClosedWon,
  StageClosedLost,
}

var stageLabels = map[OpportunityStage]string{
  StageLead:        "Lead",
  StageQualified:   "Qualified",
  StageProposal:    "Proposal",
  StageNegotiation: "Negotiation",
  StageClosedWon:   "Closed Won",
  StageClosedLost:  "Closed Lost",
}

// stageDefaultProbability is advisory: clients pre-fill it on stage change,
// and create falls back to it when no probability is supplied.
var stageDefaultProbability = map[OpportunityStage]int{
  StageLead:        10,
  StageQualified:   25,
  StageProposal:    50,
  StageNegotiation: 75,
  StageClosedWon:   100,
  StageClosedLost:  0,
}

func Stages() []OpportunityStage {
  out := make([]OpportunityStage, len(stageOrder))
  copy(out, stageOrder)
  return out
}

func ActiveStages() []OpportunityStage {
  out := make([]OpportunityStage, 0, len(stageOrder))
  for _, s := range stageOrder {
    if !s.Terminal() {
      out = append(out, s)
    }
  }
  return out
}

func (s OpportunityStage) Valid() bool {
  _, ok := stageLabels[s]
  return ok
}

func (s OpportunityStage) Terminal() bool {
  return s == StageClosedWon || s == StageClosedLost
}

// Label returns the display label for the stage. Unknown values should not
// reach this path, but rather than erroring it falls back to a capitalized
// form of the raw value.
func (s OpportunityStage) Label() string {
  if label, ok := stageLabels[s]; ok {
    return label
  }
  raw := string(s)
  if raw == "" {
    return ""
  }
  return strings.ToUpper(raw[:1]) + raw[1:]
}

// DefaultProbability returns the advisory probability for the stage.
func (s OpportunityStage) DefaultProbability() int {
  if p, ok := stageDefaultProbability[s]; ok {
    return p
  }
  return 50
}

// Order returns the stage's position in the pipeline; unknown stages sort
// last.
func (s OpportunityStage) Order() int {
  for i, st := range stageOrder {
    if st == s {
      return i
    }
  }
  return len(stageOrder)
}
