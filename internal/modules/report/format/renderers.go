package format

import (
	"sort"
	"strconv"

	"github.com/yungbote/tgdash-backend/internal/modules/report/personas"
)

// renderer writes one persona's body sections. It reports false when data
// is not the shape the persona produces.
type renderer func(d *doc, data any) bool

var renderers = map[personas.Key]renderer{
	personas.Curator:        renderFlatPersona,
	personas.Twitter:        renderFlatPersona,
	personas.Reddit:         renderFlatPersona,
	personas.Business:       renderBusiness,
	personas.Psychologist:   renderPsychologist,
	personas.AIPsychologist: renderAIPsychologist,
	personas.Creative:       renderCreative,
	personas.DailySummary:   renderDailySummary,
}

func renderFlat(d *doc, r *personas.FlatReport) {
	d.text("📊", "Краткая сводка", r.Summary)
	d.numbered("🎯", "Главные темы дня", r.Themes)
	d.bulleted("💡", "Ключевые инсайты", r.Insights)
}

func renderFlatPersona(d *doc, data any) bool {
	r, ok := data.(*personas.FlatReport)
	if !ok {
		return false
	}
	d.text("📊", "Обзор", r.Summary)
	d.numbered("🎯", "Темы", r.Themes)
	d.bulleted("💡", "Инсайты", r.Insights)
	return true
}

func renderBusiness(d *doc, data any) bool {
	r, ok := data.(*personas.BusinessReport)
	if !ok {
		return false
	}
	d.numbered("💰", "Идеи монетизации", r.MonetizationIdeas)
	d.numbered("📈", "Стратегии дохода", r.RevenueStrategies)
	d.bulleted("🔥", "ROI-инсайты", r.ROIInsights)
	return true
}

func renderPsychologist(d *doc, data any) bool {
	r, ok := data.(*personas.PsychologyReport)
	if !ok {
		return false
	}
	d.text("🧠", "Атмосфера группы", r.GroupAtmosphere)
	archetypes(d, r.Archetypes)
	d.numbered("🌊", "Эмоциональные паттерны", r.EmotionalPatterns)
	d.bulleted("🔄", "Групповая динамика", r.GroupDynamics)
	return true
}

func renderAIPsychologist(d *doc, data any) bool {
	r, ok := data.(*personas.AIPsychologistReport)
	if !ok {
		return false
	}
	d.text("🧠", "Атмосфера группы", r.GroupAtmosphere)
	archetypes(d, r.Archetypes)

	if len(r.Personalities) > 0 {
		d.add("🤖 <b>Модельные диагнозы</b>", "")
		for i, p := range r.Personalities {
			d.add(
				keycap(i+1)+" <b>"+escape(p.Name)+"</b>",
				"   <code>"+escape(p.AIModel)+"</code> "+confidenceEmoji(p.Confidence),
				"   <i>"+escape(p.Reasoning)+"</i>",
				"",
			)
		}
		d.divider()
	}

	d.numbered("🌊", "Эмоциональные паттерны", r.EmotionalPatterns)
	d.bulleted("🔄", "Групповая динамика", r.GroupDynamics)

	dist := r.Distribution
	if dist.DominantModel != "" || len(dist.ModelCounts) > 0 {
		d.add("📊 <b>Распределение моделей</b>", "")
		if dist.DominantModel != "" {
			d.add("🏆 <i>Доминирует:</i> " + escape(dist.DominantModel))
		}
		for _, name := range sortedCounts(dist.ModelCounts) {
			d.add("   • " + escape(name) + " (" + strconv.FormatFloat(dist.ModelCounts[name], 'f', -1, 64) + ")")
		}
		if dist.DiversityScore != "" {
			d.add("🌈 <i>Разнообразие:</i> " + escape(dist.DiversityScore))
		}
		d.add("")
		if dist.InteractionChemistry != "" {
			d.add(escape(dist.InteractionChemistry), "")
		}
		d.divider()
	}
	return true
}

func renderCreative(d *doc, data any) bool {
	r, ok := data.(*personas.CreativeReport)
	if !ok {
		return false
	}
	d.text("🌡️", "Креативная температура", r.CreativeTemperature)
	d.numbered("🚀", "Вирусные концепции", r.ViralConcepts)
	d.numbered("🎨", "Контент-форматы", r.ContentFormats)
	d.bulleted("🔥", "Трендовые возможности", r.TrendOpportunities)
	return true
}

func renderDailySummary(d *doc, data any) bool {
	r, ok := data.(*personas.DailySummaryReport)
	if !ok {
		return false
	}
	d.text("🌅", "Обзор дня", r.DayOverview)

	if len(r.KeyEvents) > 0 {
		events := make([]personas.KeyEvent, len(r.KeyEvents))
		copy(events, r.KeyEvents)
		sort.SliceStable(events, func(i, j int) bool {
			return importanceRank(events[i].Importance) > importanceRank(events[j].Importance)
		})
		d.add("✨ <b>Ключевые события</b>", "")
		for _, e := range events {
			d.add(importanceEmoji(e.Importance)+" <b>"+escape(e.Time)+"</b>", "   "+escape(e.Event), "")
		}
		d.divider()
	}

	if len(r.ParticipantHighlights) > 0 {
		d.add("🏆 <b>Яркие участники</b>", "")
		for i, p := range r.ParticipantHighlights {
			d.add(
				keycap(i+1)+" <b>"+escape(p.Name)+"</b>",
				"   🎤 "+escape(p.Contribution),
				"   💫 "+escape(p.Impact),
				"",
			)
		}
		d.divider()
	}

	if ls := r.LinkSummary; ls.TotalLinks > 0 {
		d.add("🔗 <b>Поделились ссылками</b> <i>("+strconv.Itoa(ls.TotalLinks)+")</i>", "")
		if len(ls.TopSharers) > 0 {
			d.add("👑 <i>Активные командиры:</i>")
			for _, s := range firstN(ls.TopSharers, 3) {
				d.add("   • " + escape(s.Name) + " (" + strconv.Itoa(s.Count) + ")")
			}
			d.add("")
		}
		if len(ls.Categories) > 0 {
			d.add("📊 <i>Категории:</i>")
			for _, c := range firstN(ls.Categories, 3) {
				d.add("   🔹 " + escape(c.Name) + " (" + strconv.Itoa(c.Count) + ")")
			}
			d.add("")
		}
		d.divider()
	}

	d.bulleted("💬", "Обсуждаемые темы", r.DiscussionTopics)

	if m := r.DailyMetrics; m != (personas.DailyMetrics{}) {
		d.add(
			"📈 <b>Метрики дня</b>",
			"",
			"🟢 <i>Активность:</i> "+escape(m.ActivityLevel),
			"🔵 <i>Вовлеченность:</i> "+escape(m.EngagementQuality),
			"🟡 <i>Настроение:</i> "+escape(m.MoodTone),
			"🟠 <i>Продуктивность:</i> "+escape(m.Productivity),
			"",
		)
		d.divider()
	}

	if len(r.NextDayForecast) > 0 {
		d.add("🔮 <b>Прогноз на завтра</b>", "")
		for _, f := range r.NextDayForecast {
			d.add("✨ " + escape(f))
		}
		d.add("")
	}
	return true
}

func archetypes(d *doc, items []personas.Archetype) {
	if len(items) == 0 {
		return
	}
	d.add("🎭 <b>Психологические архетипы</b>", "")
	for i, a := range items {
		d.add(
			keycap(i+1)+" <b>"+escape(a.Name)+"</b> <i>"+escape(a.Archetype)+"</i>",
			"   "+escape(a.Influence),
			"",
		)
	}
	d.divider()
}

func confidenceEmoji(c string) string {
	switch c {
	case "high":
		return "🎯"
	case "medium":
		return "🤔"
	default:
		return "❓"
	}
}

// importanceRank orders high > medium > low; unknown values rank as medium.
func importanceRank(s string) int {
	switch s {
	case "high":
		return 3
	case "low":
		return 1
	default:
		return 2
	}
}

func importanceEmoji(s string) string {
	switch s {
	case "high":
		return "🔥"
	case "low":
		return "🟡"
	default:
		return "🔶"
	}
}

func sortedCounts(m map[string]float64) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool {
		if m[names[i]] != m[names[j]] {
			return m[names[i]] > m[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

func firstN[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
