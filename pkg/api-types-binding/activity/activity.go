package activity

import (
	apiactivity "github.com/openadmit/openadmit/pkg/api/types/activity"
	"github.com/openadmit/openadmit/pkg/domain"
	"github.com/openadmit/openadmit/pkg/utils/rfctime"
)

func ComposeEntry(e domain.ActivityEntry) apiactivity.Entry {
	return apiactivity.Entry{
		Id:          e.Id,
		ApplicantId: e.ApplicantId,
		Actor:       e.Actor,
		Action:      e.Action,
		Detail:      e.Detail,
		HappenedAt:  rfctime.RFC3339(e.HappenedAt),
	}
}
