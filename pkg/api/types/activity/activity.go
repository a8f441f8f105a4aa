package activity

import (
	"github.com/openadmit/openadmit/pkg/utils/rfctime"
)

type Entry struct {
	Id          int64           `json:"id"`
	ApplicantId string          `json:"applicant_id"`
	Actor       string          `json:"actor"`
	Action      string          `json:"action"`
	Detail      string          `json:"detail,omitempty"`
	HappenedAt  rfctime.RFC3339 `json:"happened_at"`
}

func (e Entry) Equal(o Entry) bool {
	return e.Id == o.Id &&
		e.ApplicantId == o.ApplicantId &&
		e.Actor == o.Actor &&
		e.Action == o.Action &&
		e.Detail == o.Detail &&
		e.HappenedAt.Equal(o.HappenedAt)
}

type Page struct {
	Items []Entry `json:"items"`
	Page  int     `json:"page"`
	Size  int     `json:"size"`
	Total int     `json:"total"`
}
