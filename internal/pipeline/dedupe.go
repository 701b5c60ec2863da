package pipeline

import (
	"net/url"
	"path"
	"strings"

	"github.com/rs/zerolog"
)

// DedupeConfig describes the domain trust ranking used by the stub
// deduplicator. It is constructed once at startup and passed in explicitly;
// there is no process-wide priority table.
type DedupeConfig struct {
	// Priorities maps a normalized host to its trust rank; lower wins.
	// Hosts absent from the map rank worse than every configured host.
	Priorities map[string]int

	// ExcludePrefix exempts rows whose URL starts with it; that path space
	// is already disambiguated upstream by site structure.
	ExcludePrefix string

	// RequiredDomains names the two competing hosts whose overlap the pass
	// exists to reconcile. Unless the batch contains at least one row from
	// each, deduplication is skipped entirely.
	RequiredDomains [2]string
}

func (c DedupeConfig) enabled() bool {
	return strings.TrimSpace(c.RequiredDomains[0]) != "" &&
		strings.TrimSpace(c.RequiredDomains[1]) != ""
}

// worstPriority ranks unknown domains behind every configured one.
func (c DedupeConfig) worstPriority() int {
	worst := 0
	for _, p := range c.Priorities {
		if p > worst {
			worst = p
		}
	}
	return worst + 1
}

func (c DedupeConfig) priorityFor(host string) int {
	if p, ok := c.Priorities[host]; ok {
		return p
	}
	return c.worstPriority()
}

// DedupeOutcome reports a stub-dedup pass over one batch.
type DedupeOutcome struct {
	Rows        [][]string `json:"rows"`
	Applied     bool       `json:"applied"`
	Candidates  int        `json:"candidates"`
	Collapsed   int        `json:"collapsed"`
	Passthrough int        `json:"passthrough"`
	Malformed   int        `json:"malformed"`
}

// StubDeduper collapses same-stub rows across a small set of trusted domains.
type StubDeduper struct {
	cfg    DedupeConfig
	logger zerolog.Logger
}

func NewStubDeduper(cfg DedupeConfig, logger zerolog.Logger) *StubDeduper {
	return &StubDeduper{cfg: cfg, logger: logger}
}

// Dedupe runs the one-shot stub-dedup filter over a materialized batch of
// rows (field 0 = URL, remaining fields opaque).
//
// The pass activates only when the batch contains at least one row from each
// of the two configured competing domains; otherwise the input is returned
// unchanged. Rows under the exclude prefix and rows whose URL path does not
// have exactly one non-empty segment pass through untouched. Among candidate
// rows sharing a stub, the row from the lowest-priority-value domain is kept,
// first seen winning ties. Deduped candidates are returned first in
// first-seen stub order, then passthrough rows in their original order.
func (d *StubDeduper) Dedupe(rows [][]string) DedupeOutcome {
	if !d.cfg.enabled() || !d.batchHasRequiredDomains(rows) {
		d.logger.Debug().Int("rows", len(rows)).Msg("stub dedup skipped: competing domains not both present")
		return DedupeOutcome{Rows: rows, Passthrough: len(rows)}
	}

	type keptRow struct {
		row      []string
		priority int
	}
	var (
		kept        []keptRow
		keptByStub  = make(map[string]int)
		passthrough [][]string
		outcome     = DedupeOutcome{Applied: true}
	)

	for _, row := range rows {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			outcome.Malformed++
			d.logger.Warn().Msg("dropping malformed row: missing URL field")
			continue
		}
		rawURL := row[0]

		if d.cfg.ExcludePrefix != "" && strings.HasPrefix(rawURL, d.cfg.ExcludePrefix) {
			passthrough = append(passthrough, row)
			continue
		}

		parsed, err := url.Parse(rawURL)
		if err != nil {
			passthrough = append(passthrough, row)
			continue
		}

		stub, ok := singleSegmentStub(parsed.Path)
		if !ok {
			passthrough = append(passthrough, row)
			continue
		}

		outcome.Candidates++
		priority := d.cfg.priorityFor(normalizeHost(parsed))
		if i, seen := keptByStub[stub]; seen {
			outcome.Collapsed++
			if priority < kept[i].priority {
				kept[i] = keptRow{row: row, priority: priority}
			}
			continue
		}
		keptByStub[stub] = len(kept)
		kept = append(kept, keptRow{row: row, priority: priority})
	}

	out := make([][]string, 0, len(kept)+len(passthrough))
	for _, k := range kept {
		out = append(out, k.row)
	}
	out = append(out, passthrough...)

	outcome.Rows = out
	outcome.Passthrough = len(passthrough)
	d.logger.Info().
		Int("rows", len(rows)).
		Int("kept", len(out)).
		Int("collapsed", outcome.Collapsed).
		Int("passthrough", outcome.Passthrough).
		Msg("stub dedup applied")
	return outcome
}

func (d *StubDeduper) batchHasRequiredDomains(rows [][]string) bool {
	wantA := bareHost(d.cfg.RequiredDomains[0])
	wantB := bareHost(d.cfg.RequiredDomains[1])
	var haveA, haveB bool
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		parsed, err := url.Parse(row[0])
		if err != nil {
			continue
		}
		host := bareHost(normalizeHost(parsed))
		if host == wantA {
			haveA = true
		}
		if host == wantB {
			haveB = true
		}
		if haveA && haveB {
			return true
		}
	}
	return false
}

// normalizeHost lowercases the host and strips any port.
func normalizeHost(u *url.URL) string {
	return strings.ToLower(u.Hostname())
}

// bareHost drops a leading www. so configured pairs match both variants.
func bareHost(host string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(host)), "www.")
}

// singleSegmentStub returns the topic-collision stub for a URL path with
// exactly one non-empty segment: the segment percent-decoded, extension
// stripped and lowercased. Any other path shape is not a candidate.
func singleSegmentStub(rawPath string) (string, bool) {
	decoded, err := url.PathUnescape(rawPath)
	if err != nil {
		decoded = rawPath
	}
	trimmed := strings.Trim(decoded, "/")
	if trimmed == "" {
		return "", false
	}
	segments := strings.Split(trimmed, "/")
	if len(segments) != 1 {
		return "", false
	}
	segment := segments[0]
	segment = strings.TrimSuffix(segment, path.Ext(segment))
	if segment == "" {
		return "", false
	}
	return strings.ToLower(segment), true
}
