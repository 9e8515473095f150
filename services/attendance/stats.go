package attendance

import (
	"math"

	"clubhub/services/event"
	"clubhub/set"
)

// computeStatistics derives the present/absent tally for a record set.
func computeStatistics(records []Record) Statistics {
	stats := Statistics{Total: len(records)}
	for _, r := range records {
		if r.Present {
			stats.Present++
		}
	}
	stats.Absent = stats.Total - stats.Present
	if stats.Total > 0 {
		stats.Percentage = math.Round(float64(stats.Present)/float64(stats.Total)*1000) / 10
	}
	return stats
}

// computeCrossCheck classifies everyone appearing in the attendance roster
// or the event's response map into one of eight buckets:
// {confirmed, declined, tentative, no response} x {came, didn't come}.
func computeCrossCheck(ev *event.Event, records []Record) *CrossCheck {
	if ev == nil {
		return nil
	}

	present := set.New[string]()
	recorded := set.New[string]()
	for _, r := range records {
		recorded.Add(r.UserID)
		if r.Present {
			present.Add(r.UserID)
		}
	}
	responders := set.New[string]()
	for userID := range ev.Responses {
		responders.Add(userID)
	}

	check := &CrossCheck{EventID: ev.ID}
	for _, userID := range recorded.Union(responders).ToSlice() {
		came := present.Contains(userID)
		switch ev.Responses[userID] {
		case event.ResponseConfirmed:
			if came {
				check.ConfirmedCame++
			} else {
				check.ConfirmedMissed++
			}
		case event.ResponseDeclined:
			if came {
				check.DeclinedCame++
			} else {
				check.DeclinedMissed++
			}
		case event.ResponseTentative:
			if came {
				check.TentativeCame++
			} else {
				check.TentativeMissed++
			}
		default:
			if came {
				check.NoResponseCame++
			} else {
				check.NoResponseMissed++
			}
		}
	}
	return check
}

// prefillFromEvent seeds presence from RSVP responses: confirmed marks the
// member present; declined and tentative only annotate the comment.
func prefillFromEvent(ev *event.Event, records []Record) []Record {
	if ev == nil {
		return records
	}
	result := make([]Record, len(records))
	copy(result, records)
	for i := range result {
		switch ev.Responses[result[i].UserID] {
		case event.ResponseConfirmed:
			result[i].Present = true
		case event.ResponseDeclined:
			result[i].Comment = "RSVP: declined"
		case event.ResponseTentative:
			result[i].Comment = "RSVP: tentative"
		}
	}
	return result
}
