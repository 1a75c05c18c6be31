package scoring

// QuestionKey is the grading view of a question: its id and the id of the
// single correct option.
type QuestionKey struct {
	ID              uint
	CorrectOptionID uint
}

// Result of grading one submission
type Result struct {
	Score        float64 `json:"score"` // 0-100
	Passed       bool    `json:"passed"`
	CorrectCount int     `json:"correct_count"`
	TotalCount   int     `json:"total_count"`
}

// Score grades a submitted answer map against the question keys. It is a
// pure function and never fails: a missing answer or an option id that does
// not belong to the question simply counts as incorrect.
//
// An assessment with zero questions scores 0 and never passes, regardless
// of the threshold.
func Score(questions []QuestionKey, answers map[uint]uint, passingScore float64) Result {
	total := len(questions)
	if total == 0 {
		return Result{Score: 0, Passed: false, CorrectCount: 0, TotalCount: 0}
	}

	correct := 0
	for _, q := range questions {
		// A zero key marks a question without a designated correct option;
		// no submission can match it
		if q.CorrectOptionID == 0 {
			continue
		}
		if chosen, ok := answers[q.ID]; ok && chosen == q.CorrectOptionID {
			correct++
		}
	}

	score := 100 * float64(correct) / float64(total)

	return Result{
		Score:        score,
		Passed:       score >= passingScore,
		CorrectCount: correct,
		TotalCount:   total,
	}
}
