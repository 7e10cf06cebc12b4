// Package scoring grades a learner's answers against a quiz definition.
package scoring

import "lms-service/internal/domain"

// ComputeScore grades every question of quiz independently. Answers for
// questions outside the quiz are ignored and unknown question types score as
// incorrect. The result is a pure function of its inputs.
func ComputeScore(quiz domain.Quiz, answers []domain.UserAnswer) domain.ScoringResult {
	selected := groupAnswers(answers)

	result := domain.ScoringResult{
		TotalQuestions: len(quiz.Questions),
		Details:        make([]domain.QuestionDetail, 0, len(quiz.Questions)),
	}
	for _, q := range quiz.Questions {
		correct := correctOptions(q)
		chosen, ok := selected[q.ID]
		if !ok {
			chosen = domain.NewOptionSet()
		}

		isCorrect := gradeQuestion(q.Type, correct, chosen)
		if isCorrect {
			result.Score++
		}
		result.Details = append(result.Details, domain.QuestionDetail{
			QuestionID:            q.ID,
			QuestionText:          q.Text,
			QuestionType:          q.Type,
			IsCorrect:             isCorrect,
			CorrectOptionIDs:      correct,
			UserSelectedOptionIDs: chosen,
		})
	}
	return result
}

func gradeQuestion(typ domain.QuestionType, correct, chosen domain.OptionSet) bool {
	switch typ {
	case domain.SingleChoice:
		if chosen.Len() != 1 || correct.Len() != 1 {
			return false
		}
		for id := range chosen {
			return correct.Has(id)
		}
		return false
	case domain.MultipleChoice:
		// an empty selection never matches, even against zero correct options
		return chosen.Len() > 0 && chosen.Equal(correct)
	default:
		return false
	}
}

func correctOptions(q domain.Question) domain.OptionSet {
	set := domain.NewOptionSet()
	for _, opt := range q.Options {
		if opt.IsCorrect {
			set.Add(opt.ID)
		}
	}
	return set
}

func groupAnswers(answers []domain.UserAnswer) map[string]domain.OptionSet {
	out := make(map[string]domain.OptionSet)
	for _, a := range answers {
		set, ok := out[a.QuestionID]
		if !ok {
			set = domain.NewOptionSet()
			out[a.QuestionID] = set
		}
		set.Add(a.OptionID)
	}
	return out
}
