package app

import (
	"math"

	"live-quiz-service/internal/domain"
)

// responseUpdateLocked tallies answers to the active question across all
// submissions records. Answers naming an unknown option are not counted.
func responseUpdateLocked(room *Room) ResponseUpdate {
	q := room.current
	if q == nil {
		return ResponseUpdate{Type: TypeResponseUpdate, Responses: []domain.ResponseStat{}}
	}

	counts := make(map[string]int, len(q.options))
	for _, opt := range q.options {
		counts[opt.ID] = 0
	}
	for _, sub := range room.submissions {
		for _, a := range sub.answers {
			if a.QuestionID != q.id {
				continue
			}
			if _, known := counts[a.SelectedOption]; known {
				counts[a.SelectedOption]++
			}
			break
		}
	}

	total := 0
	for _, c := range counts {
		total += c
	}

	return ResponseUpdate{
		Type:           TypeResponseUpdate,
		QuestionID:     q.id,
		Responses:      responseStats(q.options, counts, total),
		TotalResponses: total,
	}
}

func responseStats(options []OptionView, counts map[string]int, total int) []domain.ResponseStat {
	stats := make([]domain.ResponseStat, 0, len(options))
	for _, opt := range options {
		stats = append(stats, domain.ResponseStat{
			OptionID:   opt.ID,
			OptionText: opt.Text,
			Count:      counts[opt.ID],
			Percentage: percentage(counts[opt.ID], total),
		})
	}
	return stats
}

func percentage(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}
