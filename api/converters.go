package api

import (
	"clubhub/services/attendance"
	"clubhub/services/parentchild"
)

func ToNewChild(in NewChild) parentchild.NewChild {
	out := parentchild.NewChild{
		FirstName: in.FirstName,
		LastName:  in.LastName,
	}
	if in.BirthDate != nil {
		out.BirthDate = in.BirthDate.Format("2006-01-02")
	}
	for _, c := range in.Clubs {
		out.ClubSelections = append(out.ClubSelections, parentchild.ClubSelection{
			ClubID:  c.ClubID,
			TeamIDs: c.TeamIDs,
		})
	}
	return out
}

func ToProfileUpdate(in UpdateChildProfileRequest) parentchild.ProfileUpdate {
	return parentchild.ProfileUpdate{
		FirstName: in.FirstName,
		LastName:  in.LastName,
	}
}

func ToAttendanceRecords(in []AttendanceRecord) []attendance.Record {
	out := make([]attendance.Record, 0, len(in))
	for _, r := range in {
		out = append(out, attendance.Record{
			UserID:         r.UserID,
			Name:           r.Name,
			Present:        r.Present,
			Comment:        r.Comment,
			CustomStatuses: r.CustomStatuses,
		})
	}
	return out
}
