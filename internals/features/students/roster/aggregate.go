package roster

import "edumanager_backend/internals/features/students/grading"

const noTopPerformer = "-"

type Summary struct {
	Count             int    `json:"count"`
	AveragePercentage string `json:"average_percentage"`
	TopPerformerName  string `json:"top_performer_name"`
}

// Aggregate summarizes the roster after view-time backfill.
// Ties for the top spot go to the earliest record.
func Aggregate(records []Record) Summary {
	return AggregateRows(Resolve(records))
}

func AggregateRows(rows []Row) Summary {
	if len(rows) == 0 {
		return Summary{Count: 0, AveragePercentage: grading.FormatPercentage(0), TopPerformerName: noTopPerformer}
	}

	var sum float64
	top := 0
	for i, row := range rows {
		sum += row.Stats.Percentage
		if row.Stats.Percentage > rows[top].Stats.Percentage {
			top = i
		}
	}
	avg := grading.RoundPercentage(sum / float64(len(rows)))

	return Summary{
		Count:             len(rows),
		AveragePercentage: grading.FormatPercentage(avg),
		TopPerformerName:  rows[top].Name,
	}
}
