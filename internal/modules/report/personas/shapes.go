package personas

// The structs below are the single source for both the JSON-Schema handed to
// the model and the validator applied to its answer. Bounds live in the
// jsonschema tags only.

type FlatReport struct {
	Summary  string   `json:"summary" jsonschema:"required,minLength=10"`
	Themes   []string `json:"themes" jsonschema:"required,maxItems=8"`
	Insights []string `json:"insights" jsonschema:"required,maxItems=8"`
}

type BusinessReport struct {
	MonetizationIdeas []string `json:"monetization_ideas" jsonschema:"required,minItems=3,maxItems=6"`
	RevenueStrategies []string `json:"revenue_strategies" jsonschema:"required,minItems=3,maxItems=6"`
	ROIInsights       []string `json:"roi_insights" jsonschema:"required,minItems=3,maxItems=5"`
}

type Archetype struct {
	Name      string `json:"name" jsonschema:"required"`
	Archetype string `json:"archetype" jsonschema:"required"`
	Influence string `json:"influence" jsonschema:"required"`
}

type PsychologyReport struct {
	GroupAtmosphere   string      `json:"group_atmosphere" jsonschema:"required,minLength=50,maxLength=200"`
	Archetypes        []Archetype `json:"psychological_archetypes" jsonschema:"required,minItems=4,maxItems=8"`
	EmotionalPatterns []string    `json:"emotional_patterns" jsonschema:"required,minItems=3,maxItems=6"`
	GroupDynamics     []string    `json:"group_dynamics" jsonschema:"required,minItems=3,maxItems=5"`
}

type AIModelPersonality struct {
	Name                 string `json:"name" jsonschema:"required"`
	AIModel              string `json:"ai_model" jsonschema:"required,enum=GPT-5,enum=Claude Sonnet 4.5,enum=Gemini 2.5 Pro,enum=GLM-4,enum=DeepSeek V3,enum=Llama 3.3,enum=Qwen 2.5,enum=Mistral Large"`
	Confidence           string `json:"confidence" jsonschema:"required,enum=high,enum=medium,enum=low"`
	Reasoning            string `json:"reasoning" jsonschema:"required,minLength=20,maxLength=1000"`
	TraditionalArchetype string `json:"traditional_archetype" jsonschema:"required"`
}

type AIModelDistribution struct {
	DominantModel        string             `json:"dominant_model" jsonschema:"required"`
	ModelCounts          map[string]float64 `json:"model_counts" jsonschema:"required"`
	DiversityScore       string             `json:"diversity_score" jsonschema:"required,enum=high,enum=medium,enum=low"`
	InteractionChemistry string             `json:"interaction_chemistry" jsonschema:"required,minLength=50,maxLength=800"`
}

type AIPsychologistReport struct {
	GroupAtmosphere   string               `json:"group_atmosphere" jsonschema:"required,minLength=50,maxLength=400"`
	Archetypes        []Archetype          `json:"psychological_archetypes" jsonschema:"required,minItems=4,maxItems=8"`
	Personalities     []AIModelPersonality `json:"ai_model_personalities" jsonschema:"required,minItems=4,maxItems=8"`
	EmotionalPatterns []string             `json:"emotional_patterns" jsonschema:"required,minItems=3,maxItems=6"`
	GroupDynamics     []string             `json:"group_dynamics" jsonschema:"required,minItems=3,maxItems=5"`
	Distribution      AIModelDistribution  `json:"ai_model_distribution" jsonschema:"required"`
}

type CreativeReport struct {
	CreativeTemperature string   `json:"creative_temperature" jsonschema:"required,minLength=50,maxLength=300"`
	ViralConcepts       []string `json:"viral_concepts" jsonschema:"required,minItems=4,maxItems=7"`
	ContentFormats      []string `json:"content_formats" jsonschema:"required,minItems=3,maxItems=6"`
	TrendOpportunities  []string `json:"trend_opportunities" jsonschema:"required,minItems=3,maxItems=5"`
}

type KeyEvent struct {
	Time       string `json:"time" jsonschema:"required" jsonschema_description:"HH:MM"`
	Event      string `json:"event" jsonschema:"required"`
	Importance string `json:"importance" jsonschema:"required,enum=high,enum=medium,enum=low"`
}

type ParticipantHighlight struct {
	Name         string `json:"name" jsonschema:"required"`
	Contribution string `json:"contribution" jsonschema:"required"`
	Impact       string `json:"impact" jsonschema:"required"`
}

type SharedLink struct {
	URL      string `json:"url" jsonschema:"required"`
	Domain   string `json:"domain" jsonschema:"required"`
	SharedBy string `json:"shared_by" jsonschema:"required"`
	SharedAt string `json:"shared_at" jsonschema:"required"`
	Context  string `json:"context,omitempty"`
	Category string `json:"category,omitempty"`
}

type NamedCount struct {
	Name  string `json:"name" jsonschema:"required"`
	Count int    `json:"count" jsonschema:"required"`
}

type LinkCategory struct {
	Name     string   `json:"name" jsonschema:"required"`
	Count    int      `json:"count" jsonschema:"required"`
	Examples []string `json:"examples" jsonschema:"required"`
}

type LinkSummary struct {
	TotalLinks    int            `json:"total_links" jsonschema:"required"`
	UniqueDomains []string       `json:"unique_domains" jsonschema:"required"`
	TopSharers    []NamedCount   `json:"top_sharers" jsonschema:"required"`
	Categories    []LinkCategory `json:"categories" jsonschema:"required"`
}

type DailyMetrics struct {
	ActivityLevel     string `json:"activity_level" jsonschema:"required,enum=низкий,enum=средний,enum=высокий,enum=очень высокий"`
	EngagementQuality string `json:"engagement_quality" jsonschema:"required,enum=поверхностное,enum=среднее,enum=глубокое,enum=интенсивное"`
	MoodTone          string `json:"mood_tone" jsonschema:"required,enum=позитивное,enum=нейтральное,enum=смешанное,enum=напряженное"`
	Productivity      string `json:"productivity" jsonschema:"required,enum=низкая,enum=средняя,enum=высокая,enum=очень высокая"`
}

type DailySummaryReport struct {
	DayOverview           string                 `json:"day_overview" jsonschema:"required,minLength=100,maxLength=300"`
	KeyEvents             []KeyEvent             `json:"key_events" jsonschema:"required,minItems=3,maxItems=8"`
	ParticipantHighlights []ParticipantHighlight `json:"participant_highlights" jsonschema:"required,minItems=3,maxItems=6"`
	SharedLinks           []SharedLink           `json:"shared_links" jsonschema:"required,minItems=0,maxItems=20"`
	LinkSummary           LinkSummary            `json:"link_summary" jsonschema:"required"`
	DiscussionTopics      []string               `json:"discussion_topics" jsonschema:"required,minItems=3,maxItems=7"`
	DailyMetrics          DailyMetrics           `json:"daily_metrics" jsonschema:"required"`
	NextDayForecast       []string               `json:"next_day_forecast" jsonschema:"required,minItems=2,maxItems=4"`
}
