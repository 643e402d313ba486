package recommend

import "sort"

type CategoryStat struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
	AvgScore float64  `json:"avg_score"`
}

type ActionStat struct {
	Action string `json:"action"`
	Count  int    `json:"count"`
}

// Analytics aggregates a set of sessions for reporting. Metric averages only
// cover sessions that have recorded at least one interaction.
type Analytics struct {
	TotalSessions       int            `json:"total_sessions"`
	AvgRecommendations  float64        `json:"avg_recommendations"`
	TotalInteractions   int            `json:"total_interactions"`
	AvgClickThroughRate float64        `json:"avg_click_through_rate"`
	AvgConversionRate   float64        `json:"avg_conversion_rate"`
	AvgEngagementScore  float64        `json:"avg_engagement_score"`
	CategoryStats       []CategoryStat `json:"category_stats"`
	InteractionStats    []ActionStat   `json:"interaction_stats"`
}

func Summarize(sessions []*Session) Analytics {
	a := Analytics{
		TotalSessions:    len(sessions),
		CategoryStats:    []CategoryStat{},
		InteractionStats: []ActionStat{},
	}
	if len(sessions) == 0 {
		return a
	}

	var recs, withMetrics int
	var ctr, conv, eng float64
	catIdx := map[Category]int{}
	catScore := map[Category]float64{}
	actIdx := map[string]int{}

	for _, s := range sessions {
		recs += len(s.Recommendations)
		a.TotalInteractions += len(s.Interactions)

		if s.Metrics != nil {
			withMetrics++
			ctr += s.Metrics.ClickThroughRate
			conv += s.Metrics.ConversionRate
			eng += s.Metrics.EngagementScore
		}

		for _, r := range s.Recommendations {
			i, ok := catIdx[r.Category]
			if !ok {
				i = len(a.CategoryStats)
				catIdx[r.Category] = i
				a.CategoryStats = append(a.CategoryStats, CategoryStat{Category: r.Category})
			}
			a.CategoryStats[i].Count++
			catScore[r.Category] += r.Score
		}

		for _, in := range s.Interactions {
			i, ok := actIdx[in.Action]
			if !ok {
				i = len(a.InteractionStats)
				actIdx[in.Action] = i
				a.InteractionStats = append(a.InteractionStats, ActionStat{Action: in.Action})
			}
			a.InteractionStats[i].Count++
		}
	}

	a.AvgRecommendations = float64(recs) / float64(len(sessions))
	if withMetrics > 0 {
		n := float64(withMetrics)
		a.AvgClickThroughRate = ctr / n
		a.AvgConversionRate = conv / n
		a.AvgEngagementScore = eng / n
	}

	for i := range a.CategoryStats {
		c := &a.CategoryStats[i]
		c.AvgScore = catScore[c.Category] / float64(c.Count)
	}

	sort.SliceStable(a.CategoryStats, func(i, j int) bool {
		return a.CategoryStats[i].Count > a.CategoryStats[j].Count
	})
	sort.SliceStable(a.InteractionStats, func(i, j int) bool {
		return a.InteractionStats[i].Count > a.InteractionStats[j].Count
	})

	return a
}
