package pipeline

import (
	"fmt"

	"github.com/raysh454/siteshift/internal/model"
)

// ErrorKind classifies why a stage failed. Only StageFailure ever propagates to
// the Project record; the rest are captured inside a stage's own results.
type ErrorKind string

const (
	KindInputFormat     ErrorKind = "input_format"
	KindInputMissing    ErrorKind = "input_missing"
	KindTransportFail   ErrorKind = "transport_failure"
	KindStageFailure    ErrorKind = "stage_failure"
)

// StageError wraps an unrecoverable failure inside one stage. It is the only error
// kind the controller lets abort the pipeline.
type StageError struct {
	Stage model.StageTag
	Kind  ErrorKind
	Cause error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("pipeline: stage %s failed (%s): %v", e.Stage, e.Kind, e.Cause)
}

func (e *StageError) Unwrap() error {
	return e.Cause
}

func newStageError(stage model.StageTag, cause error) *StageError {
	return &StageError{Stage: stage, Kind: KindStageFailure, Cause: cause}
}
