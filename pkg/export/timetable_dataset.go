package export

import (
	"fmt"

	"github.com/campusforge/timetable-scheduler/internal/dto"
)

// TimetableDataset flattens a solved timetable into the tabular Dataset
// shape the CSV/PDF exporters already render.
func TimetableDataset(resp dto.SolveResponse) Dataset {
	headers := []string{
		"Day", "Slot", "Subject", "Group", "Teacher", "Room", "Session",
	}
	rows := make([]map[string]string, 0)
	for _, day := range resp.Timetable {
		for _, period := range day.Periods {
			rows = append(rows, map[string]string{
				"Day":     day.Day,
				"Slot":    period.SlotID,
				"Subject": period.SubjectName,
				"Group":   period.GroupID,
				"Teacher": period.TeacherName,
				"Room":    period.RoomName,
				"Session": fmt.Sprintf("%d/%d", period.SessionNumber, period.TotalSessions),
			})
		}
	}
	return Dataset{Headers: headers, Rows: rows}
}

// ConflictDataset flattens the diagnostics conflict list into a Dataset.
// The export endpoints render only TimetableDataset.
func ConflictDataset(resp dto.SolveResponse) Dataset {
	headers := []string{"Category", "Severity", "Description", "Details", "Affected"}
	rows := make([]map[string]string, 0, len(resp.Conflicts))
	for _, c := range resp.Conflicts {
		rows = append(rows, map[string]string{
			"Category":    c.Category,
			"Severity":    c.Severity,
			"Description": c.Description,
			"Details":     c.Details,
			"Affected":    fmt.Sprintf("%d", c.AffectedActivities),
		})
	}
	return Dataset{Headers: headers, Rows: rows}
}
