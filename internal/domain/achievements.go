package domain

import "mathquiz/internal/store"

// DefaultAchievements is the fixed catalog. IDs are stable strings so the
// earned-join survives reseeding a fresh store; the catalog itself is
// seeded only when the collection is empty.
func DefaultAchievements() []Achievement {
	entries := []struct {
		id          string
		name        string
		description string
		icon        string
		reqType     string
		reqValue    int
		points      int
	}{
		{"ach-first-steps", "First Steps", "Complete your first quiz", "🎯", RequirementGames, 1, 10},
		{"ach-getting-started", "Getting Started", "Complete 10 quizzes", "🌟", RequirementGames, 10, 25},
		{"ach-quiz-master", "Quiz Master", "Complete 50 quizzes", "🏆", RequirementGames, 50, 50},
		{"ach-math-wizard", "Math Wizard", "Complete 100 quizzes", "🧙", RequirementGames, 100, 100},
		{"ach-perfect-score", "Perfect Score", "Get 100% on a quiz", "💯", RequirementPerfect, 1, 30},
		{"ach-streak-starter", "Streak Starter", "Achieve a 3-day streak", "🔥", RequirementStreak, 3, 20},
		{"ach-on-fire", "On Fire", "Achieve a 7-day streak", "💥", RequirementStreak, 7, 40},
		{"ach-unstoppable", "Unstoppable", "Achieve a 30-day streak", "🚀", RequirementStreak, 30, 100},
		{"ach-speed-demon", "Speed Demon", "Answer 50 questions correctly", "⚡", RequirementCorrect, 50, 25},
		{"ach-math-genius", "Math Genius", "Answer 200 questions correctly", "🧠", RequirementCorrect, 200, 75},
		{"ach-high-scorer", "High Scorer", "Score over 80 points in one game", "🎖️", RequirementScore, 80, 20},
		{"ach-addition-expert", "Addition Expert", "Answer 50 addition questions correctly", "➕", RequirementAddition, 50, 30},
		{"ach-subtraction-expert", "Subtraction Expert", "Answer 50 subtraction questions correctly", "➖", RequirementSubtraction, 50, 30},
		{"ach-multiplication-expert", "Multiplication Expert", "Answer 50 multiplication questions correctly", "✖️", RequirementMultiplication, 50, 30},
		{"ach-division-expert", "Division Expert", "Answer 50 division questions correctly", "➗", RequirementDivision, 50, 30},
	}

	catalog := make([]Achievement, len(entries))
	for i, e := range entries {
		catalog[i] = Achievement{
			Meta:             store.Meta{ID: e.id},
			Name:             e.name,
			Description:      e.description,
			Icon:             e.icon,
			RequirementType:  e.reqType,
			RequirementValue: e.reqValue,
			Points:           e.points,
		}
	}
	return catalog
}
