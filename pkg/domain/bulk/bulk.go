package bulk

import (
	"context"
	"errors"
	"fmt"

	appdb "github.com/openadmit/openadmit/pkg/domain/applicant/db"
)

// Action is a status operation applied to many applicants at once.
type Action string

const (
	Advance    Action = "advance"
	Hold       Action = "hold"
	Resume     Action = "resume"
	Reject     Action = "reject"
	Reactivate Action = "reactivate"
)

func AsAction(s string) (Action, error) {
	switch Action(s) {
	case Advance, Hold, Resume, Reject, Reactivate:
		return Action(s), nil
	default:
		return "", fmt.Errorf("'%s' is not a bulk action", s)
	}
}

// bulk reject was requested without the explicit confirmation flag.
var ErrConfirmationRequired = errors.New("bulk reject requires confirmation")

type Request struct {
	Action       Action
	ApplicantIds []string
	Notes        string

	// must be true for Reject; it is irreversible for every applicant
	// it touches.
	Confirmed bool
}

// Failure records why one applicant was skipped.
type Failure struct {
	ApplicantId string
	Reason      string
}

type Outcome struct {
	Total     int
	Succeeded int
	Failures  []Failure
}

// Apply runs the action over the applicants one by one. Each applicant is
// its own transaction: a failure is recorded and the rest proceed, so the
// outcome can be partial.
func Apply(ctx context.Context, ops appdb.TransitionOps, actor string, req Request) (Outcome, error) {
	op, err := operation(ops, req.Action)
	if err != nil {
		return Outcome{}, err
	}
	if req.Action == Reject && !req.Confirmed {
		return Outcome{}, ErrConfirmationRequired
	}

	outcome := Outcome{Total: len(req.ApplicantIds)}
	for _, applicantId := range req.ApplicantIds {
		if err := ctx.Err(); err != nil {
			return outcome, err
		}

		if err := op(ctx, applicantId, actor, req.Notes); err != nil {
			outcome.Failures = append(outcome.Failures, Failure{
				ApplicantId: applicantId,
				Reason:      err.Error(),
			})
			continue
		}
		outcome.Succeeded += 1
	}
	return outcome, nil
}

func operation(ops appdb.TransitionOps, action Action) (func(context.Context, string, string, string) error, error) {
	switch action {
	case Advance:
		return ops.Advance, nil
	case Hold:
		return ops.Hold, nil
	case Resume:
		return ops.Resume, nil
	case Reject:
		return ops.Reject, nil
	case Reactivate:
		return ops.Reactivate, nil
	default:
		return nil, fmt.Errorf("'%s' is not a bulk action", action)
	}
}
