package model

import "time"

type StageType string

const (
	DataStageType      StageType = "data"
	TargetStageType    StageType = "target"
	EvaluatorStageType StageType = "evaluator"
	ReportStageType    StageType = "report"
)

// StageInfo describes one stage of an evaluation.
type StageInfo struct {
	Type       StageType
	Name       string
	Concurrent int
}

var (
	StartStage = &StageInfo{Name: "start"}
	EndStage   = &StageInfo{Name: "end"}
)

// Monitor defines the hooks an evaluation calls around its stages.
type Monitor interface {
	// New initialises the monitor.
	New() error
	// PrepareStage runs before the stage is executed.
	PrepareStage(parents []*StageInfo, stage *StageInfo) error
	// OnStageRow runs for every row the stage processed.
	OnStageRow(stage *StageInfo, elapsed time.Duration) error
	// AfterStage runs once the stage has finished.
	AfterStage(stage *StageInfo, totalDuration time.Duration) error
	// Finish runs after the evaluation is finished.
	Finish(totalDuration time.Duration) error
}
