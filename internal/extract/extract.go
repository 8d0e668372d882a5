package extract

import (
	"log"
	"regexp"
	"strings"

	"widmap/internal/mapping"
	"widmap/internal/textenc"
	"widmap/internal/wid"
)

// dpTokenRe pulls the first DP<n> token out of an entry path.
var dpTokenRe = regexp.MustCompile(`DP\d+`)

// Logger is the minimal logging interface used by the extractor.
// *log.Logger satisfies this interface.
type Logger interface {
	Printf(format string, v ...any)
}

// Extractor runs every extraction pass over an opened container and
// merges the results into catalog records. The zero value is usable.
type Extractor struct {
	Logger Logger

	// Verbose logs the full archive entry listing before extraction.
	Verbose bool
}

// ProviderResult describes one processed data provider.
type ProviderResult struct {
	ID       string
	Label    string
	Encoding string
	Records  int
}

// Result is the complete extraction outcome for one container. Records
// holds provider rows in archive order followed by the document-scoped
// CALC and VAR rows; it carries no ordering beyond that, so report sinks
// sort it themselves.
type Result struct {
	Records   []mapping.Record
	Providers []ProviderResult
	CalcCount int
	VarCount  int
}

// Run extracts every field candidate from the container.
//
// Provider-local failures (an unreadable entry, a query spec that does
// not parse) are logged and leave that provider partially or fully empty;
// they never abort the rest of the container.
func (e *Extractor) Run(c *wid.Container) *Result {
	logf := e.logger()
	names := c.EntryNames()
	if e.Verbose {
		for _, n := range names {
			logf("extract: entry %s", n)
		}
	}

	labels := e.classifyProviders(c, names)
	calcs := ScanCalculatedFields(e.docSources(c, names, calcFieldKeywords))
	vars := ScanReportVariables(e.docSources(c, names, reportVarKeywords))

	res := &Result{CalcCount: len(calcs), VarCount: len(vars)}
	for _, p := range c.Providers() {
		if p.Generic == "" {
			continue
		}
		data, err := c.ReadEntry(p.Generic)
		if err != nil {
			logf("extract: provider %s: %v", p.ID, err)
			continue
		}
		text, enc := textenc.Decode(data)
		fragment := QuerySpecFragment(text)

		var fields []mapping.FieldInfo
		if fragment != "" {
			fields, err = MineQuerySpec(fragment)
			if err != nil {
				logf("extract: provider %s: %v", p.ID, err)
			}
		}

		label := labels[p.ID]
		if label == "" {
			label = p.ID
		}
		recs := mapping.MergeProvider(p.ID, label, fields,
			ScanDirectMappings(text), ScanFormulaAttributes(text, p.ID))
		res.Records = append(res.Records, recs...)
		res.Providers = append(res.Providers, ProviderResult{
			ID:       p.ID,
			Label:    label,
			Encoding: enc,
			Records:  len(recs),
		})
	}

	res.Records = append(res.Records, mapping.DocumentRecords(calcs, vars)...)
	return res
}

// classifyProviders assigns each DP<n> token a dialect label by running
// the classifier over every DP_Generic entry in the archive, wherever it
// sits. When several entries carry the same token, the last one wins.
func (e *Extractor) classifyProviders(c *wid.Container, names []string) map[string]string {
	logf := e.logger()
	labels := make(map[string]string)
	for _, name := range names {
		if !strings.HasSuffix(name, wid.GenericEntry) {
			continue
		}
		dp := dpTokenRe.FindString(name)
		if dp == "" {
			continue
		}
		data, err := c.ReadEntry(name)
		if err != nil {
			logf("extract: classify %s: %v", name, err)
			continue
		}
		text, _ := textenc.Decode(data)
		labels[dp] = ClassifyFragment(QuerySpecFragment(text), dp)
	}
	return labels
}

// docSources reads and decodes every entry whose path matches the keyword
// set, in archive order. Document-level entries decode through the
// UTF-16-first chain.
func (e *Extractor) docSources(c *wid.Container, names, keywords []string) []DocSource {
	logf := e.logger()
	var out []DocSource
	for _, name := range names {
		if !pathMatchesAny(name, keywords) {
			continue
		}
		data, err := c.ReadEntry(name)
		if err != nil {
			logf("extract: read %s: %v", name, err)
			continue
		}
		text, _ := textenc.DecodeUTF16(data)
		out = append(out, DocSource{Name: name, Text: text})
	}
	return out
}

func (e *Extractor) logger() func(format string, v ...any) {
	if e.Logger == nil {
		l := log.New(discardWriter{}, "", 0)
		return l.Printf
	}
	return e.Logger.Printf
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (n int, err error) { return len(p), nil }
