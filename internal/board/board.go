// Package board arranges the opaque task document into Kanban columns for
// the read-only board page.
package board

import (
	"bytes"
	"encoding/json"
	"html/template"
	"math"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// OtherColumnID collects tasks whose status matches no known column.
const OtherColumnID = "other"

type columnDef struct{ ID, Name string }

var columnDefs = []columnDef{
	{"backlog", "Backlog"},
	{"in_progress", "In Progress"},
	{"review", "Review"},
	{"done", "Done"},
}

type Card struct {
	ID            string
	Title         string
	Description   template.HTML
	Tags          []string
	SubtasksDone  int
	SubtasksTotal int
	Progress      int // percent, 0..100
}

type Column struct {
	ID    string
	Name  string
	Cards []Card
}

type Board struct {
	Columns []Column
	Total   int
}

// Build projects doc onto the fixed columns. Documents without a tasks array
// yield an empty board; the store accepts any JSON, so this never fails on
// shape, only on malformed input.
func Build(doc []byte) (*Board, error) {
	b := &Board{}
	idx := make(map[string]int, len(columnDefs))
	for i, c := range columnDefs {
		b.Columns = append(b.Columns, Column{ID: c.ID, Name: c.Name})
		idx[c.ID] = i
	}
	other := Column{ID: OtherColumnID, Name: "Other"}

	// UseNumber keeps ids like 1e400 that do not fit a float64
	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.UseNumber()
	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, err
	}
	obj, _ := root.(map[string]any)
	tasks, _ := obj["tasks"].([]any)
	for _, raw := range tasks {
		task, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		card := cardFrom(task)
		status, _ := task["status"].(string)
		if i, ok := idx[status]; ok {
			b.Columns[i].Cards = append(b.Columns[i].Cards, card)
		} else {
			other.Cards = append(other.Cards, card)
		}
		b.Total++
	}
	if len(other.Cards) > 0 {
		b.Columns = append(b.Columns, other)
	}
	return b, nil
}

func cardFrom(task map[string]any) Card {
	c := Card{ID: scalarString(task["id"])}
	c.Title, _ = task["title"].(string)
	if strings.TrimSpace(c.Title) == "" {
		c.Title = "Untitled"
	}
	if desc, _ := task["description"].(string); strings.TrimSpace(desc) != "" {
		c.Description = RenderMarkdown(desc)
	}
	if tags, ok := task["tags"].([]any); ok {
		for _, t := range tags {
			if s, ok := t.(string); ok && s != "" {
				c.Tags = append(c.Tags, s)
			}
		}
	}
	if subs, ok := task["subtasks"].([]any); ok {
		c.SubtasksTotal = len(subs)
		for _, st := range subs {
			if m, ok := st.(map[string]any); ok {
				if done, _ := m["done"].(bool); done {
					c.SubtasksDone++
				}
			}
		}
		if c.SubtasksTotal > 0 {
			c.Progress = int(math.Round(float64(c.SubtasksDone) * 100 / float64(c.SubtasksTotal)))
		}
	}
	return c
}

func scalarString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		if x {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// RenderMarkdown converts a task description to HTML. Raw HTML in the source
// is dropped, so the result is safe to embed in the page.
func RenderMarkdown(src string) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	r := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.SkipHTML | html.HrefTargetBlank | html.Safelink,
	})
	out := markdown.ToHTML([]byte(strings.ReplaceAll(src, "\r\n", "\n")), p, r)
	return template.HTML(strings.TrimSpace(string(out)))
}
