package models

// Outcome tags a Result.
type Outcome int

const (
	OutcomeFailure Outcome = iota
	OutcomeSuccess
	OutcomeProcessing
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeProcessing:
		return "processing"
	default:
		return "failure"
	}
}

// Result is the outcome of a gateway interaction together with whatever
// the gateway chose to hand back. The zero value is a Failure with no payload.
type Result struct {
	outcome Outcome
	value   any
}

func Success(value any) Result {
	return Result{outcome: OutcomeSuccess, value: value}
}

func Processing(value any) Result {
	return Result{outcome: OutcomeProcessing, value: value}
}

func Failure(value any) Result {
	return Result{outcome: OutcomeFailure, value: value}
}

// Outcome returns the tag the result was constructed with.
func (r Result) Outcome() Outcome {
	return r.outcome
}

// Value returns the payload unchanged, nil if none was given.
func (r Result) Value() any {
	return r.value
}

func (r Result) IsSuccess() bool {
	return r.outcome == OutcomeSuccess
}

func (r Result) IsProcessing() bool {
	return r.outcome == OutcomeProcessing
}
