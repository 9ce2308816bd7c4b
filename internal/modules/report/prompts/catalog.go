package prompts

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/tgdash-backend/internal/modules/report/personas"
)

//go:embed catalog.yaml
var catalogYAML []byte

// FlatMode picks the system prompt used when no persona was requested.
type FlatMode string

const (
	FlatText    FlatMode = "text"
	FlatMetrics FlatMode = "metrics"
)

type catalog struct {
	Flat     map[FlatMode]string     `yaml:"flat"`
	Personas map[personas.Key]string `yaml:"personas"`
}

var (
	loadOnce sync.Once
	loaded   catalog
)

func load() catalog {
	loadOnce.Do(func() {
		var c catalog
		if err := yaml.Unmarshal(catalogYAML, &c); err != nil {
			panic(fmt.Sprintf("prompts: parse catalog: %v", err))
		}
		for _, k := range personas.All() {
			if strings.TrimSpace(c.Personas[k]) == "" {
				panic(fmt.Sprintf("prompts: catalog missing persona %q", k))
			}
		}
		for _, m := range []FlatMode{FlatText, FlatMetrics} {
			if strings.TrimSpace(c.Flat[m]) == "" {
				panic(fmt.Sprintf("prompts: catalog missing flat mode %q", m))
			}
		}
		loaded = c
	})
	return loaded
}

// System returns the persona's system prompt. Unknown personas get the
// flat metrics prompt.
func System(k personas.Key) string {
	c := load()
	if p, ok := c.Personas[k]; ok {
		return strings.TrimSpace(p)
	}
	return strings.TrimSpace(c.Flat[FlatMetrics])
}

func FlatSystem(mode FlatMode) string {
	c := load()
	if p, ok := c.Flat[mode]; ok {
		return strings.TrimSpace(p)
	}
	return strings.TrimSpace(c.Flat[FlatMetrics])
}
