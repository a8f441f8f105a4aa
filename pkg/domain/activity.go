package domain

import "time"

// One entry of the append-only per-applicant audit log.
//
// Written in the same transaction as the action it records.
type ActivityEntry struct {
	Id          int64
	ApplicantId string

	// user who performed the action; "system" for loop-driven transitions.
	Actor string

	// machine-readable action name, e.g. "advance", "reject", "convert".
	Action string

	// human-readable detail, e.g. the transition notes.
	Detail string

	HappenedAt time.Time
}

// Actor recorded for transitions performed by background loops.
const SystemActor = "system"

func (a *ActivityEntry) Equal(o *ActivityEntry) bool {
	if (a == nil) || (o == nil) {
		return (a == nil) && (o == nil)
	}
	return a.Id == o.Id &&
		a.ApplicantId == o.ApplicantId &&
		a.Actor == o.Actor &&
		a.Action == o.Action &&
		a.Detail == o.Detail &&
		a.HappenedAt.Equal(o.HappenedAt)
}
