package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/alligatorO15/finboard/internal/daterange"
	"github.com/alligatorO15/finboard/internal/stats"
)

type TableConfig struct {
	NameWidth   int
	StatusWidth int
	TimeWidth   int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		NameWidth:   20,
		StatusWidth: 44,
		TimeWidth:   20,
	}
}

// Reporter renders command results as text tables or JSON.
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

// reportRow is one line of the reports table; DSO contributes one row per slot.
type reportRow struct {
	Name      string
	Status    string
	FetchedAt string
}

type reportsView struct {
	Range daterange.State
	Rows  []reportRow
}

const reportsTemplate = `
Range: {{.Range.SelectedRange}} ({{.Range.Start.Format "2006-01-02"}} to {{.Range.End.Format "2006-01-02"}})

{{separator}}
{{formatRow "Report" "Status" "Fetched At"}}
{{separator}}
{{range .Rows}}{{formatRow .Name .Status .FetchedAt}}
{{end}}{{separator}}
`

const tilesTemplate = `
Range: {{.Range.SelectedRange}} ({{.Range.Start.Format "2006-01-02"}} to {{.Range.End.Format "2006-01-02"}})

{{range .Tiles}}{{printf "%-32s" .Title}} {{if .Missing}}-{{else}}{{.Display}}{{end}}
{{end}}`

func (r *Reporter) funcs() template.FuncMap {
	return template.FuncMap{
		"formatRow": func(name, status, fetched string) string {
			return fmt.Sprintf("| %-*s | %-*s | %-*s |",
				r.config.NameWidth, name,
				r.config.StatusWidth, truncate(status, r.config.StatusWidth),
				r.config.TimeWidth, fetched)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+",
				strings.Repeat("-", r.config.NameWidth+2),
				strings.Repeat("-", r.config.StatusWidth+2),
				strings.Repeat("-", r.config.TimeWidth+2))
		},
	}
}

func (r *Reporter) render(name, text string, data any) error {
	t, err := template.New(name).Funcs(r.funcs()).Parse(text)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return t.Execute(r.writer, data)
}

// Reports prints one row per report in names order.
func (r *Reporter) Reports(rng daterange.State, names []string, statuses map[string]any) error {
	view := reportsView{Range: rng}
	for _, name := range names {
		rows, err := summarize(name, statuses[name])
		if err != nil {
			return err
		}
		view.Rows = append(view.Rows, rows...)
	}
	return r.render("reports", reportsTemplate, view)
}

func (r *Reporter) Tiles(rng daterange.State, tiles []stats.Tile) error {
	return r.render("tiles", tilesTemplate, struct {
		Range daterange.State
		Tiles []stats.Tile
	}{Range: rng, Tiles: tiles})
}

func (r *Reporter) Token(token string, expiresAt time.Time) error {
	_, err := fmt.Fprintf(r.writer, "%s\nexpires at %s\n", token, expiresAt.Format(time.RFC3339))
	return err
}

func (r *Reporter) JSON(v any) error {
	enc := json.NewEncoder(r.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// storeStatus mirrors the JSON form of a store state.
type storeStatus struct {
	IsLoading *bool      `json:"isLoading"`
	Error     *string    `json:"error"`
	FetchedAt *time.Time `json:"fetchedAt"`
}

// summarize flattens a report status into table rows. Composite reports
// such as DSO are keyed by slot and yield one row per slot.
func summarize(name string, status any) ([]reportRow, error) {
	raw, err := json.Marshal(status)
	if err != nil {
		return nil, fmt.Errorf("encode %s status: %w", name, err)
	}

	var single storeStatus
	if err := json.Unmarshal(raw, &single); err == nil && single.IsLoading != nil {
		return []reportRow{single.row(name)}, nil
	}

	var slots map[string]storeStatus
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, fmt.Errorf("decode %s status: %w", name, err)
	}
	keys := make([]string, 0, len(slots))
	for k := range slots {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]reportRow, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, slots[k].row(name+"."+k))
	}
	return rows, nil
}

func (s storeStatus) row(name string) reportRow {
	row := reportRow{Name: name, Status: "ok", FetchedAt: "-"}
	switch {
	case s.Error != nil:
		row.Status = *s.Error
	case s.IsLoading != nil && *s.IsLoading:
		row.Status = "loading"
	case s.FetchedAt == nil:
		row.Status = "not fetched"
	}
	if s.FetchedAt != nil {
		row.FetchedAt = s.FetchedAt.Local().Format("2006-01-02 15:04:05")
	}
	return row
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
