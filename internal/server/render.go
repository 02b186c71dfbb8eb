package server

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/elpatron68/mission-control/internal/board"
	applog "github.com/elpatron68/mission-control/internal/log"
	"github.com/elpatron68/mission-control/internal/ui"
)

const layoutHTML = `<!doctype html><html><head><meta charset="utf-8"><title>Mission Control</title>
<style>
body{font-family:system-ui,-apple-system,Segoe UI,Roboto,Ubuntu,Helvetica,Arial,sans-serif;margin:16px;background:#0d1117;color:#c9d1d9}
a{color:#58a6ff}
.board{display:flex;gap:12px;align-items:flex-start}
.column{flex:1;background:#161b22;border:1px solid #30363d;border-radius:6px;padding:8px;min-width:200px}
.column h3{margin:4px 0 8px;font-size:14px}
.column .count{color:#8b949e;font-weight:normal}
.task-card{background:#0d1117;border:1px solid #30363d;border-radius:6px;padding:8px;margin-bottom:8px}
.task-title{font-weight:600}
.task-description{font-size:13px;color:#8b949e}
.task-tag{display:inline-block;padding:1px 6px;margin:2px;border-radius:12px;background:#1f6feb33;font-size:12px}
.progress-bar{display:inline-block;width:80px;height:6px;background:#30363d;border-radius:3px;vertical-align:middle}
.progress-fill{height:6px;background:#238636;border-radius:3px}
.empty{text-align:center;color:#8b949e;padding:20px}
.savelog{margin-top:16px;border-top:1px solid #30363d;padding-top:8px;font-size:13px}
.savelog .ts{color:#8b949e}
</style></head><body>
<h2>Mission Control</h2>
{{template "content" .}}
</body></html>`

const boardHTML = `<p>{{.Board.Total}} tasks · <a href="/">open dashboard</a> · <a href="/api/tasks">raw JSON</a></p>
<div class="board">
{{range .Board.Columns}}
  <div class="column" id="col-{{.ID}}">
    <h3>{{.Name}} <span class="count">({{len .Cards}})</span></h3>
    {{range .Cards}}
    <div class="task-card" data-task-id="{{.ID}}">
      <div class="task-title">{{.Title}}</div>
      {{if .Description}}<div class="task-description">{{.Description}}</div>{{end}}
      {{if .Tags}}<div class="task-meta">{{range .Tags}}<span class="task-tag">{{.}}</span>{{end}}</div>{{end}}
      {{if .SubtasksTotal}}<div class="task-subtasks">{{.SubtasksDone}}/{{.SubtasksTotal}} done
        <span class="progress-bar"><span class="progress-fill" style="display:block;width:{{.Progress}}%"></span></span> {{.Progress}}%</div>{{end}}
    </div>
    {{else}}
    <div class="empty">No tasks</div>
    {{end}}
  </div>
{{end}}
</div>
{{if .Saves}}
<div class="savelog">
  <strong>Recent saves</strong>
  <ul>
  {{range .Saves}}<li><span class="ts">{{.When.Format "2006-01-02 15:04:05"}}</span> {{.Remote}} · {{fmtBytes .Bytes}}</li>{{end}}
  </ul>
</div>
{{end}}`

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Load()
	if err != nil {
		applog.Errorf("board: load tasks: %v", err)
		http.Error(w, "failed to load tasks", http.StatusInternalServerError)
		return
	}
	b, err := board.Build(doc)
	if err != nil {
		applog.Errorf("board: build: %v", err)
		http.Error(w, "failed to read tasks", http.StatusInternalServerError)
		return
	}

	t, err := s.layoutTpl.Clone()
	if err == nil {
		_, err = t.New("content").Parse(boardHTML)
	}
	if err != nil {
		applog.Errorf("board: template: %v", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}

	data := struct {
		Board *board.Board
		Saves []ui.SaveEntry
	}{Board: b, Saves: s.saves.List(0)}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		applog.Errorf("board: render: %v", err)
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func fmtBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
