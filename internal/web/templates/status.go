// Package templates holds the HTML components served by the upload server.
package templates

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/a-h/templ"
	"github.com/halostats/uploadserver/internal/core"
)

const pageStyle = `body{font-family:system-ui,sans-serif;margin:2rem;color:#1f2937}` +
	`table{border-collapse:collapse;min-width:24rem}` +
	`th,td{text-align:left;padding:.35rem .75rem;border-bottom:1px solid #e5e7eb}` +
	`th{font-weight:600;color:#4b5563}` +
	`h2{margin-top:2rem;font-size:1.1rem}`

// Layout wraps body in the page chrome.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!doctype html><html lang="en"><head><meta charset="utf-8"><title>`+
			templ.EscapeString(title)+`</title><style>`+pageStyle+`</style></head><body><h1>`+
			templ.EscapeString(title)+`</h1>`); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}

// StatusPage renders ingest counters and limiter state.
func StatusPage(st core.Status) templ.Component {
	return Layout("Stats upload server", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		sections := []struct {
			title string
			rows  [][2]string
		}{
			{"Ingest", [][2]string{
				{"Started", st.StartedAt.UTC().Format(time.RFC3339)},
				{"Uptime", st.Uptime.Truncate(time.Second).String()},
				{"Stats uploads", fmt.Sprint(st.Uploads)},
				{"Crash dumps", fmt.Sprint(st.CrashDumps)},
				{"Rejected", fmt.Sprint(st.Rejected)},
				{"Decompression failures", fmt.Sprint(st.DecompressionFailures)},
				{"Truncated containers", fmt.Sprint(st.Truncated)},
			}},
			{"Player records", [][2]string{
				{"Decoded", fmt.Sprint(st.Records)},
				{"Service records updated", fmt.Sprint(st.Forwarded)},
				{"Guests skipped", fmt.Sprint(st.Guests)},
			}},
			{"Upload slots", [][2]string{
				{"Active", fmt.Sprint(st.Limiter.Active)},
				{"Waiting", fmt.Sprint(st.Limiter.Waiting)},
				{"Available", fmt.Sprint(st.Limiter.Available)},
				{"Max concurrent", fmt.Sprint(st.Limiter.MaxConcurrent)},
				{"Rejected when busy", fmt.Sprint(st.Limiter.Rejected)},
			}},
		}
		for _, sec := range sections {
			if err := StatTable(sec.title, sec.rows).Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	}))
}

// StatTable renders a titled two-column table.
func StatTable(title string, rows [][2]string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<h2>`+templ.EscapeString(title)+`</h2><table><tbody>`); err != nil {
			return err
		}
		for _, row := range rows {
			if _, err := io.WriteString(w, `<tr><th>`+templ.EscapeString(row[0])+`</th><td>`+
				templ.EscapeString(row[1])+`</td></tr>`); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</tbody></table>`)
		return err
	})
}

// ErrorPage renders a user-facing error with its support code.
func ErrorPage(msg core.UserMessage) templ.Component {
	return Layout("Error", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<p role="alert">`+templ.EscapeString(msg.Message)+
			` (Code: `+templ.EscapeString(msg.Code)+`)</p><p>`+templ.EscapeString(msg.Action)+`</p>`)
		return err
	}))
}
