package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/tgdash-backend/internal/clients/openrouter"
	"github.com/yungbote/tgdash-backend/internal/domain/chatlog"
	"github.com/yungbote/tgdash-backend/internal/modules/report/personas"
	"github.com/yungbote/tgdash-backend/internal/modules/report/prompts"
	"github.com/yungbote/tgdash-backend/internal/modules/report/reconcile"
	"github.com/yungbote/tgdash-backend/internal/observability"
	"github.com/yungbote/tgdash-backend/internal/platform/ctxutil"
	"github.com/yungbote/tgdash-backend/internal/platform/logger"
)

// ErrAIUnavailable is returned when the model client was never configured.
var ErrAIUnavailable = openrouter.ErrNotConfigured

const (
	transcriptLimit   = 5000
	linkLimit         = 500
	defaultCharBudget = 80000
	temperature       = 0.6
	flatMaxTokens     = 1600
	personaMaxTokens  = 3000
)

// ChatLog is the data-access collaborator.
type ChatLog interface {
	Metrics(ctx context.Context, q chatlog.Query) (chatlog.ActivityMetrics, error)
	Transcript(ctx context.Context, q chatlog.Query, limit int, preferUsername bool) ([]chatlog.TranscriptEntry, error)
	LinkMessages(ctx context.Context, q chatlog.Query, limit int) ([]chatlog.LinkMessage, error)
}

type ModelClient interface {
	Complete(ctx context.Context, r openrouter.Request) (string, bool, error)
}

type Params struct {
	Date     string
	ChatID   string
	ThreadID string
	Days     int
	Persona  string
}

type Deps struct {
	Log        *logger.Logger
	ChatLog    ChatLog
	Model      ModelClient
	Metrics    *observability.Metrics
	CharBudget int
	Now        func() time.Time
}

type Service struct {
	log        *logger.Logger
	chatlog    ChatLog
	model      ModelClient
	reconciler *reconcile.Reconciler
	metrics    *observability.Metrics
	tracer     trace.Tracer
	charBudget int
	now        func() time.Time
}

func NewService(d Deps) *Service {
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.CharBudget <= 0 {
		d.CharBudget = defaultCharBudget
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Service{
		log:        d.Log.With("service", "ReportService"),
		chatlog:    d.ChatLog,
		model:      d.Model,
		reconciler: reconcile.New(d.Log),
		metrics:    d.Metrics,
		tracer:     observability.Tracer("tgdash/report"),
		charBudget: d.CharBudget,
		now:        d.Now,
	}
}

// plan is the resolved prompt/schema configuration for one build.
type plan struct {
	mode       string
	system     string
	user       string
	contract   personas.Contract
	schemaName string
	maxTokens  int
}

// Build produces one report. A nil result with a nil error means the report
// could not be produced this time (model unavailable, unusable output, data
// fetch failure) and the caller may retry. Only invalid input and missing
// model configuration return an error.
func (s *Service) Build(ctx context.Context, p Params) (*Result, error) {
	start := s.now()
	q, err := s.validate(p, start)
	if err != nil {
		return nil, err
	}

	persona, hasPersona := personas.Parse(p.Persona)
	runID := uuid.New().String()
	log := s.log.With("run_id", runID, "persona", string(persona), "request_id", ctxutil.RequestID(ctx))

	ctx, span := s.tracer.Start(ctx, "report.Build", trace.WithAttributes(
		attribute.String("report.persona", string(persona)),
		attribute.String("report.run_id", runID),
	))
	defer span.End()

	dateForAI := strings.TrimSpace(p.Date)
	if dateForAI == "" {
		dateForAI = start.Local().Format("2006-01-02")
	}

	res, mode, err := s.generate(ctx, log, generateInput{
		query:      q,
		persona:    persona,
		hasPersona: hasPersona,
		date:       dateForAI,
		chatID:     strings.TrimSpace(p.ChatID),
	})
	span.SetAttributes(attribute.String("report.mode", mode))

	outcome := "ok"
	switch {
	case err != nil:
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Error("Report generation failed", "error", err, "mode", mode)
	case res == nil:
		outcome = "empty"
	}
	span.SetAttributes(attribute.String("report.outcome", outcome))
	s.metrics.ObserveReport(personaLabel(persona), mode, outcome, time.Since(start))
	if err != nil || res == nil {
		return nil, nil
	}

	res.Date = dateForAI
	res.ChatID = strings.TrimSpace(p.ChatID)
	res.ThreadID = strings.TrimSpace(p.ThreadID)
	log.Info("Report built", "mode", mode, "duration_ms", time.Since(start).Milliseconds())
	return res, nil
}

// validate resolves the query for p and rejects input or configuration that
// no build could succeed with.
func (s *Service) validate(p Params, now time.Time) (chatlog.Query, error) {
	window, err := ResolveWindow(p.Date, p.Days, now)
	if err != nil {
		return chatlog.Query{}, err
	}
	filter, err := chatlog.ParseFilter(p.ChatID, p.ThreadID)
	if err != nil {
		return chatlog.Query{}, err
	}
	if s.model == nil {
		return chatlog.Query{}, ErrAIUnavailable
	}
	return chatlog.Query{Filter: filter, Window: window}, nil
}

type generateInput struct {
	query      chatlog.Query
	persona    personas.Key
	hasPersona bool
	date       string
	chatID     string
}

// generate runs fetch, prompt, model call and reconcile. Any error it returns
// is a soft failure from the caller's point of view.
func (s *Service) generate(ctx context.Context, log *logger.Logger, in generateInput) (*Result, string, error) {
	log.Info("Report range",
		"from", in.query.From.UTC().Format(time.RFC3339),
		"to", in.query.To.UTC().Format(time.RFC3339),
		"chat_id", in.chatID,
	)

	metrics, err := s.chatlog.Metrics(ctx, in.query)
	if err != nil {
		return nil, "", fmt.Errorf("fetch metrics: %w", err)
	}

	contract := personas.Default()
	if in.hasPersona {
		contract = personas.Lookup(in.persona)
	}

	entries, err := s.chatlog.Transcript(ctx, in.query, transcriptLimit, contract.PreferUsername)
	if err != nil {
		return nil, "", fmt.Errorf("fetch transcript: %w", err)
	}
	text, truncated := s.transcriptBlob(entries)
	log.Info("Transcript payload", "messages", len(entries), "chars", utf8.RuneCountInString(text), "truncated", truncated, "max_chars", s.charBudget)

	var links []chatlog.LinkMessage
	linksFetched := false
	if in.hasPersona && in.persona == personas.DailySummary {
		links, err = s.chatlog.LinkMessages(ctx, in.query, linkLimit)
		if err != nil {
			return nil, "", fmt.Errorf("fetch links: %w", err)
		}
		linksFetched = true
		log.Info("Fetched messages with links", "count", len(links))
	}

	pi := prompts.Input{Date: in.date, ChatID: in.chatID, Metrics: metrics, Transcript: text, Links: links}
	pl := selectPlan(in.persona, in.hasPersona, text != "", linksFetched, pi)
	pl.contract = contract

	raw, ok, err := s.complete(ctx, pl)
	if err != nil {
		return nil, pl.mode, err
	}
	if !ok {
		log.Warn("Model returned no usable completion", "mode", pl.mode)
		return nil, pl.mode, nil
	}

	data, err := s.reconciler.Reconcile(raw, contract, pl.mode)
	if err != nil {
		if errors.Is(err, reconcile.ErrEmpty) {
			return nil, pl.mode, nil
		}
		return nil, pl.mode, err
	}
	typed, err := reconcile.Decode(data, contract)
	if err != nil {
		return nil, pl.mode, err
	}

	res := &Result{Metrics: metrics}
	if in.hasPersona {
		res.Persona = in.persona
		res.Data = typed
		return res, pl.mode, nil
	}
	flat, ok := typed.(*personas.FlatReport)
	if !ok {
		return nil, pl.mode, fmt.Errorf("unexpected flat payload %T", typed)
	}
	res.FlatReport = flat
	return res, pl.mode, nil
}

// selectPlan is total over the four (persona, evidence) combinations.
func selectPlan(k personas.Key, hasPersona, hasText, hasLinks bool, in prompts.Input) plan {
	switch {
	case hasPersona && k == personas.DailySummary && hasLinks:
		return plan{
			mode:       "links",
			system:     prompts.System(k),
			user:       prompts.Links(in),
			schemaName: personas.LinksSchemaName,
			maxTokens:  personaMaxTokens,
		}
	case hasPersona:
		user, mode := prompts.Metrics(in), "persona-metrics"
		if hasText {
			user, mode = prompts.Transcript(in), "persona-text"
		}
		return plan{
			mode:       mode,
			system:     prompts.System(k),
			user:       user,
			schemaName: personas.Lookup(k).SchemaName,
			maxTokens:  personaMaxTokens,
		}
	case hasText:
		return plan{
			mode:       "text",
			system:     prompts.FlatSystem(prompts.FlatText),
			user:       prompts.Transcript(in),
			schemaName: personas.DefaultSchemaName,
			maxTokens:  flatMaxTokens,
		}
	default:
		return plan{
			mode:       "metrics",
			system:     prompts.FlatSystem(prompts.FlatMetrics),
			user:       prompts.Metrics(in),
			schemaName: personas.DefaultSchemaName,
			maxTokens:  flatMaxTokens,
		}
	}
}

func (s *Service) complete(ctx context.Context, pl plan) (string, bool, error) {
	ctx, span := s.tracer.Start(ctx, "report.Complete", trace.WithAttributes(
		attribute.String("llm.schema", pl.schemaName),
		attribute.Int("llm.max_tokens", pl.maxTokens),
	))
	defer span.End()

	start := time.Now()
	raw, ok, err := s.model.Complete(ctx, openrouter.Request{
		System:      pl.system,
		User:        pl.user,
		SchemaName:  pl.schemaName,
		Schema:      pl.contract.Schema,
		Temperature: temperature,
		MaxTokens:   pl.maxTokens,
	})
	outcome := "ok"
	switch {
	case err != nil:
		outcome = "error"
		span.RecordError(err)
	case !ok:
		outcome = "soft_fail"
	}
	model := ""
	if m, isNamed := s.model.(interface{ Model() string }); isNamed {
		model = m.Model()
	}
	s.metrics.ObserveLLMRequest(model, pl.schemaName, outcome, time.Since(start))
	return raw, ok, err
}

// transcriptBlob joins entries into "[HH:MM] label: text" lines and cuts the
// result at the character budget.
func (s *Service) transcriptBlob(entries []chatlog.TranscriptEntry) (string, bool) {
	if len(entries) == 0 {
		return "", false
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, e.Line())
	}
	raw := strings.Join(lines, "\n")
	if utf8.RuneCountInString(raw) <= s.charBudget {
		return raw, false
	}
	return string([]rune(raw)[:s.charBudget]), true
}

const buildAllLimit = 4

// BuildAll builds every persona concurrently for the same parameters. Invalid
// input and a missing model are reported once, before fanning out. After that
// one persona failing never affects the others.
func (s *Service) BuildAll(ctx context.Context, p Params) ([]Outcome, error) {
	if _, err := s.validate(p, s.now()); err != nil {
		return nil, err
	}
	keys := personas.All()
	out := make([]Outcome, len(keys))
	var g errgroup.Group
	g.SetLimit(buildAllLimit)
	for i, k := range keys {
		i, k := i, k
		g.Go(func() error {
			pp := p
			pp.Persona = string(k)
			res, err := s.Build(ctx, pp)
			out[i] = Outcome{Persona: k, Report: res, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return out, nil
}

func personaLabel(k personas.Key) string {
	if k == "" {
		return "flat"
	}
	return string(k)
}
