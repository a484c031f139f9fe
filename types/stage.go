// Package types defines core domain types shared across reqforge packages.
//
//nolint:revive // types is a common Go package naming convention
package types

import "fmt"

// Stage identifies a wizard stage.
type Stage string

// Wizard stages in the order a session walks through them.
const (
	StageDiagram  Stage = "diagram"
	StageAPISpec  Stage = "openapi"
	StageTests    Stage = "tests"
	StageDatabase Stage = "database"
	StageCode     Stage = "code"
)

// Stages returns all stages in wizard order.
func Stages() []Stage {
	return []Stage{StageDiagram, StageAPISpec, StageTests, StageDatabase, StageCode}
}

// ParseStage parses a stage name.
func ParseStage(s string) (Stage, error) {
	for _, st := range Stages() {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown stage: %q", s)
}

// Next returns the stage that follows s, or "" for the last stage.
func (s Stage) Next() Stage {
	stages := Stages()
	for i, st := range stages {
		if st == s && i+1 < len(stages) {
			return stages[i+1]
		}
	}
	return ""
}
