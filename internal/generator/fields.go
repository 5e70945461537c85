package generator

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/BerylCAtieno/marketing-strategy-agent/internal/extract"
	"github.com/BerylCAtieno/marketing-strategy-agent/internal/models"
)

var listMarker = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s+`)

func asObject(v any) (extract.Object, bool) {
	switch t := v.(type) {
	case extract.Object:
		return t, true
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := make(extract.Object, 0, len(t))
		for _, k := range keys {
			obj = append(obj, extract.Field{Key: k, Value: t[k]})
		}
		return obj, true
	}
	return nil, false
}

// str reads the first present key as text. Lists are joined with ", ".
func str(obj extract.Object, keys ...string) string {
	v, ok := obj.Lookup(keys...)
	if !ok {
		return ""
	}
	return text(v)
}

func text(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			if s := text(e); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case extract.Object:
		parts := make([]string, 0, len(t))
		for _, f := range t {
			if s := text(f.Value); s != "" {
				parts = append(parts, f.Key+": "+s)
			}
		}
		return strings.Join(parts, "; ")
	}
	return ""
}

// list reads the first present key as a list of strings. A bare string is
// split into lines, or on semicolons when it is a single line.
func list(obj extract.Object, keys ...string) []string {
	v, ok := obj.Lookup(keys...)
	if !ok {
		return []string{}
	}
	return toList(v, splitSentences)
}

// terms is list for short values such as keywords, which may also be
// comma-separated.
func terms(obj extract.Object, keys ...string) []string {
	v, ok := obj.Lookup(keys...)
	if !ok {
		return []string{}
	}
	return toList(v, splitTerms)
}

func toList(v any, split func(string) []string) []string {
	out := []string{}
	switch t := v.(type) {
	case []any:
		for _, e := range t {
			if s := text(e); s != "" {
				out = append(out, s)
			}
		}
	case string:
		for _, s := range split(t) {
			if s = strings.TrimSpace(listMarker.ReplaceAllString(s, "")); s != "" {
				out = append(out, s)
			}
		}
	default:
		if s := text(t); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func splitSentences(s string) []string {
	if strings.Contains(s, "\n") {
		return strings.Split(s, "\n")
	}
	return strings.Split(s, ";")
}

func splitTerms(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == '\n' || r == ';' || r == ','
	})
}

// demographics accepts free text or an object with the known fields.
func demographics(obj extract.Object) models.Demographics {
	v, ok := obj.Lookup("demographics")
	if !ok {
		return models.Demographics{}
	}
	rec, ok := v.(extract.Object)
	if !ok {
		return models.Demographics{Text: text(v)}
	}
	d := models.Demographics{
		CompanySize:  str(rec, "companySize", "company_size"),
		Industries:   terms(rec, "industries", "industry"),
		Regions:      terms(rec, "regions", "region", "locations"),
		JobTitles:    terms(rec, "jobTitles", "job_titles", "roles"),
		TechAdoption: str(rec, "techAdoption", "technologyAdoption", "tech_adoption"),
	}
	if d.IsZero() {
		d.Text = text(rec)
	}
	return d
}
