package dashboard

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"sort"
	"strings"

	"github.com/waldronlab/curation-dashboard/internal/classify"
	"github.com/waldronlab/curation-dashboard/internal/report"
	"github.com/waldronlab/curation-dashboard/internal/validation"
)

// Render writes the dashboard page for rep. A nil view renders the initial
// state: validation tab, every distribution by count.
func Render(w io.Writer, rep validation.ValidationReport, opts Options, view *View) error {
	opts = opts.withDefaults()
	if view == nil {
		view = NewView(rep)
	}
	status := rep.NormalizedStatus()

	var b strings.Builder
	writeHead(&b, opts.Title)
	fmt.Fprintf(&b, "<header class=\"hero\"><div class=\"hero-top\"><h1>%s</h1><a id=\"workflow-link\" class=\"workflow-link\" href=\"%s\" target=\"_blank\" rel=\"noopener\">View workflow run</a></div></header>", esc(opts.Title), esc(workflowHref(opts, rep.Metadata)))
	b.WriteString("<div id=\"loading\" class=\"loading\" style=\"display:none\">Loading validation results...</div>")
	b.WriteString("<div id=\"error\" class=\"card error-box\" style=\"display:none\"><h2>Failed to load validation results</h2><p id=\"error-text\"></p></div>")
	b.WriteString("<div id=\"content\" style=\"display:block\">")

	fmt.Fprintf(&b, "<section class=\"summary-grid\" aria-label=\"Summary\"><article id=\"status-card\" class=\"card stat status-card %s\"><div class=\"k\">Overall Status</div><div class=\"v\"><span id=\"overall-status\" class=\"status-badge status-%s\">%s</span></div></article>", statusCardClass(status), esc(strings.ToLower(string(status))), esc(string(status)))
	fmt.Fprintf(&b, "<article class=\"card stat\"><div class=\"k\">Files Checked</div><div class=\"v\" id=\"total-files\">%d</div></article>", rep.Summary.TotalFiles)
	fmt.Fprintf(&b, "<article class=\"card stat\"><div class=\"k\">Errors</div><div class=\"v\" id=\"total-errors\">%d</div></article>", rep.Summary.TotalErrors)
	fmt.Fprintf(&b, "<article class=\"card stat\"><div class=\"k\">Warnings</div><div class=\"v\" id=\"total-warnings\">%d</div></article>", rep.Summary.TotalWarnings)
	fmt.Fprintf(&b, "<article class=\"card stat\"><div class=\"k\">Files With Issues</div><div class=\"v\" id=\"files-with-issues\">%d</div></article></section>", rep.Summary.FilesWithIssues)

	b.WriteString("<section class=\"card meta-card\" aria-label=\"Run metadata\"><dl class=\"meta-grid\">")
	fmt.Fprintf(&b, "<div><dt>Last Updated</dt><dd id=\"last-updated\">%s</dd></div>", esc(FormatTimestamp(rep.Metadata.Timestamp, opts.Location)))
	fmt.Fprintf(&b, "<div><dt>Trigger</dt><dd id=\"trigger\">%s</dd></div>", esc(orNA(rep.Metadata.Trigger)))
	fmt.Fprintf(&b, "<div><dt>Branch</dt><dd id=\"branch\">%s</dd></div>", esc(orNA(rep.Metadata.Branch)))
	fmt.Fprintf(&b, "<div><dt>Schema Commit</dt><dd id=\"schema-commit\" class=\"mono\">%s</dd></div>", schemaCommitHTML(opts, rep.Metadata))
	b.WriteString("</dl></section>")

	active := view.ActiveTab()
	b.WriteString("<nav class=\"tabs\" role=\"tablist\">")
	for _, t := range Tabs {
		fmt.Fprintf(&b, "<button type=\"button\" class=\"tab-button%s\" data-tab=\"%s\" role=\"tab\">%s</button>", activeClass(t == active), esc(string(t)), esc(t.Label()))
	}
	b.WriteString("</nav>")

	fmt.Fprintf(&b, "<section id=\"tab-%s\" class=\"tab-panel%s\" role=\"tabpanel\">", TabValidation, activeClass(active == TabValidation))
	writeIssues(&b, rep)
	b.WriteString("</section>")

	fmt.Fprintf(&b, "<section id=\"tab-%s\" class=\"tab-panel%s\" role=\"tabpanel\">", TabStats, activeClass(active == TabStats))
	writeStats(&b, rep, view)
	b.WriteString("</section>")

	b.WriteString("</div>")
	writeFoot(&b)

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderError writes the page shown when the report could not be loaded.
func RenderError(w io.Writer, message string, opts Options) error {
	opts = opts.withDefaults()
	var b strings.Builder
	writeHead(&b, opts.Title)
	fmt.Fprintf(&b, "<header class=\"hero\"><div class=\"hero-top\"><h1>%s</h1></div></header>", esc(opts.Title))
	b.WriteString("<div id=\"loading\" class=\"loading\" style=\"display:none\">Loading validation results...</div>")
	fmt.Fprintf(&b, "<div id=\"error\" class=\"card error-box\" style=\"display:block\"><h2>Failed to load validation results</h2><p id=\"error-text\">%s</p></div>", esc(message))
	b.WriteString("<div id=\"content\" style=\"display:none\"></div>")
	writeFoot(&b)
	_, err := io.WriteString(w, b.String())
	return err
}

// RenderBytes is Render into a buffer.
func RenderBytes(rep validation.ValidationReport, opts Options, view *View) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, rep, opts, view); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func WriteHTML(path string, page []byte) error {
	return report.WriteFile(path, page)
}

func writeIssues(b *strings.Builder, rep validation.ValidationReport) {
	hasIssues := rep.HasIssues()
	fmt.Fprintf(b, "<div id=\"issues-section\" style=\"display:%s\">", display(hasIssues))
	if hasIssues {
		writeIssueTable(b, rep.StudiesWithIssues)
		b.WriteString("<h2 class=\"section-title\">Studies With Issues</h2><div id=\"studies-list\">")
		for _, s := range validation.ByErrorCount(rep.StudiesWithIssues) {
			writeStudyCard(b, s)
		}
		b.WriteString("</div>")
	} else {
		b.WriteString("<div id=\"studies-list\"></div>")
	}
	b.WriteString("</div>")
	fmt.Fprintf(b, "<div id=\"success-section\" class=\"card success-box\" style=\"display:%s\"><h2>All studies passed validation</h2><p class=\"note\">No errors or warnings were reported for any curated file.</p></div>", display(!hasIssues))
}

func writeIssueTable(b *strings.Builder, studies []validation.StudyResult) {
	rows := classify.Summarize(studies)
	totals := classify.CategoryTotals(studies)

	b.WriteString("<section class=\"card section-block\" aria-labelledby=\"issue-summary-title\"><div class=\"section-head\"><h2 id=\"issue-summary-title\">Issue Summary</h2><span class=\"badge\">By category</span></div>")
	if len(totals) > 0 {
		cats := make([]string, 0, len(totals))
		for c := range totals {
			cats = append(cats, c)
		}
		sort.Strings(cats)
		b.WriteString("<ul class=\"chips\" id=\"category-totals\">")
		for _, c := range cats {
			fmt.Fprintf(b, "<li class=\"chip\">%s <strong>%d</strong></li>", esc(c), totals[c])
		}
		b.WriteString("</ul>")
	}
	b.WriteString("<div class=\"table-wrap\"><table id=\"issue-summary\"><thead><tr><th scope=\"col\">Study</th><th scope=\"col\" class=\"nowrap\">Errors</th><th scope=\"col\" class=\"nowrap\">Warnings</th><th scope=\"col\">Categories</th><th scope=\"col\">Affected fields</th></tr></thead><tbody>")
	for _, r := range rows {
		fmt.Fprintf(b, "<tr><td>%s</td><td class=\"nowrap\">%d</td><td class=\"nowrap\">%d</td><td>%s</td><td class=\"mono\">%s</td></tr>", esc(r.Study), r.Errors, r.Warnings, esc(joinOrDash(r.Categories)), esc(joinOrDash(r.Fields)))
	}
	b.WriteString("</tbody></table></div></section>")
}

func writeStudyCard(b *strings.Builder, s validation.StudyResult) {
	errorCount := s.ErrorCount()
	warningCount := s.WarningCount()

	fmt.Fprintf(b, "<div class=\"study-card\"><div class=\"study-header\"><h3>%s</h3><div class=\"study-badges\">", esc(s.Name.String()))
	if errorCount > 0 {
		fmt.Fprintf(b, "<span class=\"badge badge-error\">%s</span>", plural(errorCount, "error"))
	}
	if warningCount > 0 {
		fmt.Fprintf(b, "<span class=\"badge badge-warning\">%s</span>", plural(warningCount, "warning"))
	}
	b.WriteString("</div></div>")

	fmt.Fprintf(b, "<div class=\"study-info\"><span><strong>File:</strong> %s</span>", esc(s.File))
	if s.Rows != nil {
		cols := 0
		if s.Cols != nil {
			cols = *s.Cols
		}
		fmt.Fprintf(b, "<span><strong>Dimensions:</strong> %d rows × %d columns</span>", *s.Rows, cols)
	}
	b.WriteString("</div>")

	if errorCount > 0 {
		b.WriteString("<div class=\"issues-container\"><h4 class=\"issue-title error-title\">❌ Errors:</h4><ul class=\"issue-list\">")
		for _, e := range s.Errors {
			fmt.Fprintf(b, "<li class=\"issue-item error-item\">%s</li>", esc(e))
		}
		b.WriteString("</ul></div>")
	}
	if warningCount > 0 {
		b.WriteString("<div class=\"issues-container\"><h4 class=\"issue-title warning-title\">⚠️ Warnings:</h4><ul class=\"issue-list\">")
		for _, w := range s.Warnings {
			fmt.Fprintf(b, "<li class=\"issue-item warning-item\">%s</li>", esc(w))
		}
		b.WriteString("</ul></div>")
	}
	b.WriteString("</div>")
}

func writeStats(b *strings.Builder, rep validation.ValidationReport, view *View) {
	totalStudies, totalSamples := 0, 0
	if rep.Stats != nil {
		totalStudies = rep.Stats.TotalStudies
		totalSamples = rep.Stats.TotalSamples
	}
	fmt.Fprintf(b, "<section class=\"stats-totals\"><article class=\"card stat\"><div class=\"k\">Studies</div><div class=\"v\" id=\"total-studies\">%d</div></article><article class=\"card stat\"><div class=\"k\">Samples</div><div class=\"v\" id=\"total-samples\">%d</div></article></section>", totalStudies, totalSamples)

	b.WriteString("<section class=\"dist-grid\">")
	for _, field := range validation.DistributionFields {
		writeDistribution(b, field, rep.Distribution(field), view)
	}
	b.WriteString("</section>")
}

func writeDistribution(b *strings.Builder, field string, d *validation.Distribution, view *View) {
	prefix := elementPrefix(field)
	fmt.Fprintf(b, "<article class=\"card dist-card\"><div class=\"section-head\"><h3>%s</h3>", esc(fieldTitle(field)))
	if d == nil || !view.HasData(field) {
		fmt.Fprintf(b, "</div><p class=\"note\" id=\"%s-meta\">No data available</p><ul class=\"stat-list\" id=\"%s-list\"></ul></article>", prefix, prefix)
		return
	}
	by := view.SortOf(field)
	fmt.Fprintf(b, "<button type=\"button\" class=\"sort-toggle\" data-target=\"%s-list\" data-sort=\"%s\">%s</button></div>", prefix, esc(string(by)), esc(sortToggleLabel(by)))
	fmt.Fprintf(b, "<p class=\"note\" id=\"%s-meta\">%d distinct values • %d total</p>", prefix, d.TotalDistinct, d.TotalCount)
	fmt.Fprintf(b, "<ul class=\"stat-list\" id=\"%s-list\">", prefix)
	for _, it := range view.IndexedItems(field) {
		fmt.Fprintf(b, "<li class=\"stat-item\" data-index=\"%d\" data-name=\"%s\" data-count=\"%d\"><span class=\"stat-label\">%s</span><span class=\"stat-count\">%d</span></li>", it.Index, esc(it.Name.String()), it.Count, esc(it.Name.String()), it.Count)
	}
	b.WriteString("</ul></article>")
}

func sortToggleLabel(current SortBy) string {
	if current == SortByName {
		return "Sort by count"
	}
	return "Sort A→Z"
}

func schemaCommitHTML(opts Options, meta validation.Metadata) string {
	short, full, ok := CommitRef(meta)
	if !ok {
		return notAvailable
	}
	return fmt.Sprintf("<a href=\"%s\" target=\"_blank\" rel=\"noopener\">%s</a>", esc(CommitURL(opts.SchemaOwner, opts.SchemaRepo, full)), esc(short))
}

func workflowHref(opts Options, meta validation.Metadata) string {
	if u := WorkflowURL(opts.RepoOwner, opts.RepoName, meta.RunID); u != "" {
		return u
	}
	return "#"
}

func statusCardClass(status validation.Status) string {
	if status == validation.StatusPass {
		return "status-pass"
	}
	return "status-fail"
}

func activeClass(active bool) string {
	if active {
		return " active"
	}
	return ""
}

func display(visible bool) string {
	if visible {
		return "block"
	}
	return "none"
}

func joinOrDash(v []string) string {
	if len(v) == 0 {
		return "-"
	}
	return strings.Join(v, ", ")
}

func esc(s string) string {
	return html.EscapeString(s)
}

func writeHead(b *strings.Builder, title string) {
	b.WriteString("<!DOCTYPE html><html lang=\"en\"><head><meta charset=\"utf-8\"><meta name=\"viewport\" content=\"width=device-width,initial-scale=1\">")
	fmt.Fprintf(b, "<title>%s</title>", esc(title))
	b.WriteString(pageStyle)
	b.WriteString("</head><body><main class=\"shell\">")
}

func writeFoot(b *strings.Builder) {
	b.WriteString("<footer>Generated from validation_results.json. Sorting and tabs change the view only.</footer></main>")
	b.WriteString(pageScript)
	b.WriteString("</body></html>")
}

const pageStyle = `<style>
:root {
  --bg: #f3f7fc;
  --panel: #ffffff;
  --ink: #0f172a;
  --muted: #475569;
  --line: #d7e1ed;
  --ok: #166534;
  --ok-bg: #e9f8ee;
  --warn: #b45309;
  --warn-bg: #fff5e9;
  --block: #b91c1c;
  --block-bg: #fff0f0;
  --brand: #1e3a5f;
  --chip: #edf3fb;
  --radius: 12px;
}
* { box-sizing: border-box; }
body { margin: 0; background: var(--bg); color: var(--ink); font-family: "IBM Plex Sans", "Segoe UI", system-ui, sans-serif; line-height: 1.5; }
.shell { max-width: 1200px; margin: 0 auto; padding: 20px; }
.hero-top { display: flex; align-items: center; justify-content: space-between; gap: 12px; }
h1 { font-size: 1.5rem; color: var(--brand); margin: 0 0 16px; }
.card { background: var(--panel); border: 1px solid var(--line); border-radius: var(--radius); padding: 14px 16px; }
.summary-grid, .stats-totals { display: grid; grid-template-columns: repeat(auto-fit, minmax(170px, 1fr)); gap: 12px; margin-bottom: 14px; }
.stat .k { color: var(--muted); font-size: 0.78rem; text-transform: uppercase; letter-spacing: 0.04em; }
.stat .v { font-size: 1.6rem; font-weight: 700; }
.status-card.status-pass { border-color: var(--ok); background: var(--ok-bg); }
.status-card.status-fail { border-color: var(--block); background: var(--block-bg); }
.status-badge { font-weight: 700; padding: 2px 10px; border-radius: 999px; }
.status-badge.status-pass { color: var(--ok); }
.status-badge.status-fail { color: var(--block); }
.meta-card { margin-bottom: 14px; }
.meta-grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(200px, 1fr)); gap: 10px; margin: 0; }
.meta-grid dt { color: var(--muted); font-size: 0.78rem; text-transform: uppercase; }
.meta-grid dd { margin: 2px 0 0; }
.mono { font-family: "IBM Plex Mono", ui-monospace, monospace; }
.tabs { display: flex; gap: 6px; margin: 6px 0 12px; }
.tab-button { border: 1px solid var(--line); background: var(--panel); border-radius: 8px; padding: 8px 14px; cursor: pointer; font: inherit; }
.tab-button.active { background: var(--brand); color: #fff; border-color: var(--brand); }
.tab-panel { display: none; }
.tab-panel.active { display: block; }
.section-block { margin-bottom: 14px; }
.section-head { display: flex; align-items: center; justify-content: space-between; gap: 8px; }
.section-head h2, .section-head h3 { margin: 0 0 8px; }
.badge { display: inline-block; border-radius: 999px; padding: 2px 10px; font-size: 0.8rem; background: var(--chip); }
.badge-error { background: var(--block-bg); color: var(--block); }
.badge-warning { background: var(--warn-bg); color: var(--warn); }
.chips { list-style: none; display: flex; flex-wrap: wrap; gap: 6px; padding: 0; margin: 0 0 10px; }
.chip { background: var(--chip); border-radius: 999px; padding: 2px 10px; font-size: 0.85rem; }
.table-wrap { overflow-x: auto; }
table { width: 100%; border-collapse: collapse; font-size: 0.9rem; }
th, td { text-align: left; padding: 6px 8px; border-bottom: 1px solid var(--line); vertical-align: top; }
.nowrap { white-space: nowrap; }
.study-card { background: var(--panel); border: 1px solid var(--line); border-left: 4px solid var(--block); border-radius: var(--radius); padding: 12px 16px; margin-bottom: 12px; }
.study-header { display: flex; justify-content: space-between; align-items: center; gap: 8px; }
.study-header h3 { margin: 0; }
.study-badges { display: flex; gap: 6px; }
.study-info { display: flex; flex-wrap: wrap; gap: 16px; color: var(--muted); font-size: 0.9rem; margin: 6px 0; }
.issue-title { margin: 8px 0 4px; font-size: 0.95rem; }
.error-title { color: var(--block); }
.warning-title { color: var(--warn); }
.issue-list { margin: 0; padding-left: 20px; }
.issue-item { margin: 2px 0; word-break: break-word; }
.success-box { border-color: var(--ok); background: var(--ok-bg); }
.error-box { border-color: var(--block); background: var(--block-bg); }
.dist-grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(260px, 1fr)); gap: 12px; }
.sort-toggle { border: 1px solid var(--line); background: var(--chip); border-radius: 6px; padding: 2px 8px; cursor: pointer; font-size: 0.8rem; }
.stat-list { list-style: none; margin: 0; padding: 0; max-height: 320px; overflow-y: auto; }
.stat-item { display: flex; justify-content: space-between; gap: 8px; padding: 3px 0; border-bottom: 1px dashed var(--line); }
.stat-count { font-weight: 600; }
.note { color: var(--muted); font-size: 0.88rem; margin: 4px 0 8px; }
footer { color: var(--muted); font-size: 0.8rem; margin-top: 18px; }
</style>`

const pageScript = `<script>(function(){var buttons=document.querySelectorAll('.tab-button');var panels=document.querySelectorAll('.tab-panel');buttons.forEach(function(btn){btn.addEventListener('click',function(){var name=btn.getAttribute('data-tab');buttons.forEach(function(b){b.classList.remove('active')});panels.forEach(function(p){p.classList.remove('active')});btn.classList.add('active');var panel=document.getElementById('tab-'+name);if(panel){panel.classList.add('active')}})});function idx(el){return Number(el.getAttribute('data-index'))}document.querySelectorAll('.sort-toggle').forEach(function(btn){btn.addEventListener('click',function(){var list=document.getElementById(btn.getAttribute('data-target'));if(!list){return}var by=btn.getAttribute('data-sort')==='count'?'name':'count';var items=Array.prototype.slice.call(list.children);items.sort(function(a,b){if(by==='name'){var an=a.getAttribute('data-name'),bn=b.getAttribute('data-name'),x=an.toLowerCase(),y=bn.toLowerCase();if(x!==y){return x<y?-1:1}if(an!==bn){return an<bn?-1:1}return idx(a)-idx(b)}return Number(b.getAttribute('data-count'))-Number(a.getAttribute('data-count'))||idx(a)-idx(b)});items.forEach(function(li){list.appendChild(li)});btn.setAttribute('data-sort',by);btn.textContent=by==='name'?'Sort by count':'Sort A→Z'})})})();</script>`
