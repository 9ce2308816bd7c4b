package personas

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/invopop/jsonschema"
)

type Shape string

const (
	ShapeFlat       Shape = "flat"
	ShapeStructured Shape = "structured"
)

// DefaultSchemaName names the flat contract used when no persona applies.
const DefaultSchemaName = "telegram_report"

// LinksSchemaName is sent for the daily summary when link evidence is attached.
const LinksSchemaName = "daily_summary_report"

// Contract binds a persona to its schema name, JSON-Schema and typed shape.
type Contract struct {
	Key            Key
	SchemaName     string
	Shape          Shape
	Schema         map[string]any
	PreferUsername bool

	newData func() any
}

// Validate checks v against the contract's schema and returns *ValidationError
// listing every violation.
func (s Contract) Validate(v any) error {
	issues := Validate(Node(s.Schema), v)
	if len(issues) == 0 {
		return nil
	}
	return &ValidationError{Schema: s.SchemaName, Issues: issues}
}

// NewData returns a pointer to a zero value of the persona's typed shape.
func (s Contract) NewData() any {
	if s.newData == nil {
		return &FlatReport{}
	}
	return s.newData()
}

// Required lists the top-level required property names.
func (s Contract) Required() []string {
	return Node(s.Schema).Required()
}

// Node exposes the schema for path lookups.
func (s Contract) Node() Node { return Node(s.Schema) }

var (
	buildOnce    sync.Once
	registry     map[Key]Contract
	flatContract Contract
)

func build() {
	buildOnce.Do(func() {
		flat := reflectSchema[FlatReport]()
		flatContract = Contract{
			SchemaName: DefaultSchemaName,
			Shape:      ShapeFlat,
			Schema:     flat,
			newData:    func() any { return &FlatReport{} },
		}
		registry = map[Key]Contract{
			Curator:        flatFor(Curator, flat),
			Twitter:        flatFor(Twitter, flat),
			Reddit:         flatFor(Reddit, flat),
			Business:       structured[BusinessReport](Business),
			Psychologist:   structured[PsychologyReport](Psychologist),
			AIPsychologist: structured[AIPsychologistReport](AIPsychologist),
			Creative:       structured[CreativeReport](Creative),
			DailySummary:   structured[DailySummaryReport](DailySummary),
		}
		ps := registry[Psychologist]
		ps.PreferUsername = true
		registry[Psychologist] = ps
	})
}

func flatFor(k Key, schema map[string]any) Contract {
	return Contract{
		Key:        k,
		SchemaName: string(k) + "_report",
		Shape:      ShapeFlat,
		Schema:     schema,
		newData:    func() any { return &FlatReport{} },
	}
}

func structured[T any](k Key) Contract {
	return Contract{
		Key:        k,
		SchemaName: string(k) + "_report",
		Shape:      ShapeStructured,
		Schema:     reflectSchema[T](),
		newData:    func() any { return new(T) },
	}
}

// Lookup never fails: unknown keys get the flat default.
func Lookup(k Key) Contract {
	build()
	if s, ok := registry[k]; ok {
		return s
	}
	return flatContract
}

// Default is the flat contract used when no persona was requested.
func Default() Contract {
	build()
	return flatContract
}

func reflectSchema[T any]() map[string]any {
	r := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
		Anonymous:                  true,
	}
	var v T
	m, err := schemaToMap(r.Reflect(v))
	if err != nil {
		// Shapes are compile-time constants; a failure here is a programming error.
		panic(fmt.Sprintf("personas: reflect %T: %v", v, err))
	}
	delete(m, "$schema")
	delete(m, "$id")
	return m
}

func schemaToMap(schema *jsonschema.Schema) (map[string]any, error) {
	b, err := schema.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}
