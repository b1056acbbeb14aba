package service

import (
	"content-generator/internal/model"
)

// PromptPlanner строит пары (тема, вариация) для индексов пакета.
type PromptPlanner struct {
	random RandomSource
}

func NewPromptPlanner(random RandomSource) *PromptPlanner {
	return &PromptPlanner{random: random}
}

// Plan возвращает ровно count назначений: assignment[i] = (topics[i mod T], variations[i mod V]),
// затем список один раз перемешивается. Пустые списки заменяются значениями по умолчанию.
func (p *PromptPlanner) Plan(count int, siteContext model.SiteContext) []model.PromptAssignment {
	if count <= 0 {
		return nil
	}
	ctx := siteContext.WithDefaults()

	assignments := make([]model.PromptAssignment, count)
	for i := range assignments {
		assignments[i] = model.PromptAssignment{
			Topic:     ctx.Topics[i%len(ctx.Topics)],
			Variation: ctx.Variations[i%len(ctx.Variations)],
		}
	}
	p.random.Shuffle(len(assignments), func(i, j int) {
		assignments[i], assignments[j] = assignments[j], assignments[i]
	})
	return assignments
}
