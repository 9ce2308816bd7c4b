package prompts

import (
	"bytes"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"text/template"
	"time"
)

var funcs = template.FuncMap{"join": strings.Join}

var (
	transcriptT = template.Must(template.New("transcript").Option("missingkey=zero").Funcs(funcs).Parse(transcriptTmpl))
	linksT      = template.Must(template.New("links").Option("missingkey=zero").Funcs(funcs).Parse(linksTmpl))
	metricsT    = template.Must(template.New("metrics").Option("missingkey=zero").Funcs(funcs).Parse(metricsTmpl))
)

func render(t *template.Template, data any) string {
	var b bytes.Buffer
	if err := t.Execute(&b, data); err != nil {
		// Views are built here from typed inputs; execution cannot fail short of a template bug.
		panic(fmt.Sprintf("prompts: render %s: %v", t.Name(), err))
	}
	return strings.TrimSpace(b.String())
}

type header struct {
	Date         string
	Chat         string
	Total        int64
	Unique       int64
	LinkMessages int64
}

func headerOf(in Input) header {
	return header{
		Date:         in.Date,
		Chat:         in.chat(),
		Total:        in.Metrics.TotalMessages,
		Unique:       in.Metrics.UniqueUsers,
		LinkMessages: in.Metrics.LinkMessages,
	}
}

// Transcript renders the prompt that hands the model the raw conversation.
func Transcript(in Input) string {
	return render(transcriptT, struct {
		header
		Transcript string
	}{headerOf(in), in.Transcript})
}

// Links renders the daily-summary prompt built around shared URLs.
func Links(in Input) string {
	var (
		all     []string
		details []string
		counts  = map[string]int{}
		order   []string
	)
	for _, m := range in.Links {
		all = append(all, m.Links...)
		if len(m.Links) > 0 {
			if _, seen := counts[m.Label]; !seen {
				order = append(order, m.Label)
			}
			counts[m.Label] += len(m.Links)
		}
		var b strings.Builder
		b.WriteString("[" + m.Timestamp.UTC().Format("15:04") + "] " + m.Label + ":\n")
		b.WriteString(m.Text + "\nСсылки:")
		for _, l := range m.Links {
			b.WriteString("\n  - " + l)
		}
		details = append(details, b.String())
	}

	domainSet := map[string]struct{}{}
	for _, l := range all {
		domainSet[Domain(l)] = struct{}{}
	}
	domains := make([]string, 0, len(domainSet))
	for d := range domainSet {
		domains = append(domains, d)
	}
	sort.Strings(domains)
	top := domains
	if len(top) > 5 {
		top = top[:5]
	}

	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	if len(order) > 5 {
		order = order[:5]
	}
	sharers := make([]string, 0, len(order))
	for _, name := range order {
		sharers = append(sharers, fmt.Sprintf("%s: %d", name, counts[name]))
	}

	return render(linksT, struct {
		header
		TotalLinks int
		Domains    []string
		TopDomains []string
		TopSharers []string
		Details    []string
	}{headerOf(in), len(all), domains, top, sharers, details})
}

type userLine struct {
	Rank  int
	Name  string
	Count int64
	Pct   string
}

type pointLine struct {
	At    string
	Count int64
}

// Metrics renders the metrics-only prompt: ranked participants, concentration
// and the busiest time buckets.
func Metrics(in Input) string {
	m := in.Metrics

	users := make([]userLine, 0, len(m.TopUsers))
	var top3 int64
	for i, u := range m.TopUsers {
		if i < 3 {
			top3 += u.MessageCount
		}
		users = append(users, userLine{
			Rank:  i + 1,
			Name:  u.DisplayName,
			Count: u.MessageCount,
			Pct:   percent(u.MessageCount, m.TotalMessages),
		})
	}

	series := append(m.Series[:0:0], m.Series...)
	peaks := len(series) > 5
	if peaks {
		sort.SliceStable(series, func(i, j int) bool { return series[i].MessageCount > series[j].MessageCount })
		series = series[:5]
	}
	points := make([]pointLine, 0, len(series))
	for _, p := range series {
		points = append(points, pointLine{At: p.Timestamp.UTC().Format(time.RFC3339), Count: p.MessageCount})
	}

	return render(metricsT, struct {
		header
		AvgPerUser   string
		LinkPct      string
		Users        []userLine
		Concentrated bool
		Peaks        bool
		Series       []pointLine
		SeriesTotal  int
	}{
		header:       headerOf(in),
		AvgPerUser:   ratio(m.TotalMessages, m.UniqueUsers),
		LinkPct:      percent(m.LinkMessages, m.TotalMessages),
		Users:        users,
		Concentrated: m.TotalMessages > 0 && float64(top3)/float64(m.TotalMessages) > 0.5,
		Peaks:        peaks,
		Series:       points,
		SeriesTotal:  len(m.Series),
	})
}

func percent(part, total int64) string {
	if total <= 0 {
		return "0.0"
	}
	return fmt.Sprintf("%.1f", float64(part)/float64(total)*100)
}

func ratio(a, b int64) string {
	if b <= 0 {
		return "0.0"
	}
	return fmt.Sprintf("%.1f", float64(a)/float64(b))
}

// Domain returns the hostname of raw without a leading "www.". Strings that do
// not parse as absolute URLs fall back to their third "/" segment.
func Domain(raw string) string {
	if u, err := url.Parse(raw); err == nil && u.Hostname() != "" {
		return strings.TrimPrefix(u.Hostname(), "www.")
	}
	parts := strings.Split(raw, "/")
	if len(parts) > 2 && parts[2] != "" {
		return parts[2]
	}
	return raw
}
