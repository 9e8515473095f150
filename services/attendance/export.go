package attendance

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"clubhub/apperr"
)

// ExportTeamReport renders per-session rows followed by per-member totals
// and uploads the CSV to the report archive.
func (s *service) ExportTeamReport(ctx context.Context, teamID, fromDay, toDay string) (string, error) {
	if s.uploader == nil {
		return "", apperr.New("EXPORT_DISABLED", "no report storage configured")
	}
	sessions, err := s.GetTeamSessions(ctx, teamID, fromDay, toDay)
	if err != nil {
		return "", err
	}
	stats, err := s.GetTeamStats(ctx, teamID)
	if err != nil {
		return "", err
	}

	buf := bytes.Buffer{}
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"day", "session", "type", "present", "total", "percentage"}); err != nil {
		return "", err
	}
	for _, session := range sessions {
		name := session.SessionName
		if name == "" {
			name = session.EventTitle
		}
		err := w.Write([]string{
			session.Day,
			name,
			session.Type,
			strconv.Itoa(session.Statistics.Present),
			strconv.Itoa(session.Statistics.Total),
			strconv.FormatFloat(session.Statistics.Percentage, 'f', 1, 64),
		})
		if err != nil {
			return "", err
		}
	}
	if err := w.Write([]string{}); err != nil {
		return "", err
	}
	if err := w.Write([]string{"member", "present", "sessions", "rate"}); err != nil {
		return "", err
	}
	for _, m := range stats.Members {
		err := w.Write([]string{
			m.Name,
			strconv.Itoa(m.Present),
			strconv.Itoa(m.Total),
			strconv.FormatFloat(m.Rate, 'f', 1, 64),
		})
		if err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	objectName := fmt.Sprintf("attendance/%s/%s.csv", teamID, time.Now().Format("2006-01-02T15-04-05"))
	if err := s.uploader.Upload(ctx, objectName, buf.Bytes()); err != nil {
		return "", fmt.Errorf("failed to upload report: %w", err)
	}
	return objectName, nil
}
