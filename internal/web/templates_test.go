package web

import (
	"bytes"
	"html/template"
	"testing"
	"testing/fstest"
)

func testTemplatesFS() fstest.MapFS {
	return fstest.MapFS{
		"layouts/base.html":    {Data: []byte(`{{define "base"}}<title>{{.Title}}</title>{{template "content" .}}{{end}}`)},
		"partials/badge.html":  {Data: []byte(`{{define "badge"}}<b>{{title .}}</b>{{end}}`)},
		"pages/home.html":      {Data: []byte(`{{define "content"}}home {{template "badge" "calm"}}{{end}}`)},
		"pages/dashboard.html": {Data: []byte(`{{define "content"}}dash {{percent 0.456}}{{end}}`)},
	}
}

func TestTemplatesRender(t *testing.T) {
	tmpl, err := NewTemplates(testTemplatesFS())
	if err != nil {
		t.Fatalf("NewTemplates() error = %v", err)
	}

	tests := []struct {
		page  string
		title string
		want  string
	}{
		{"home", "Home", "<title>Home</title>home <b>Calm</b>"},
		{"dashboard", "Mood", "<title>Mood</title>dash 46%"},
	}

	for _, tt := range tests {
		t.Run(tt.page, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tmpl.Render(&buf, tt.page, PageData{Title: tt.title}); err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("Render() = %q, want %q", buf.String(), tt.want)
			}
		})
	}

	if err := tmpl.Render(&bytes.Buffer{}, "missing", nil); err == nil {
		t.Error("Render(missing) error = nil")
	}
}

func TestTemplatesRenderPartial(t *testing.T) {
	tmpl, err := NewTemplates(testTemplatesFS())
	if err != nil {
		t.Fatalf("NewTemplates() error = %v", err)
	}

	var buf bytes.Buffer
	if err := tmpl.RenderPartial(&buf, "badge", "tense"); err != nil {
		t.Fatalf("RenderPartial() error = %v", err)
	}
	if buf.String() != "<b>Tense</b>" {
		t.Errorf("RenderPartial() = %q", buf.String())
	}

	if err := tmpl.RenderPartial(&buf, "home", nil); err == nil {
		t.Error("RenderPartial(page) error = nil")
	}
}

func TestMoodColor(t *testing.T) {
	moodColor := defaultFuncs()["moodColor"].(func(float64, float64) template.CSS)

	tests := []struct {
		name    string
		energy  float64
		valence float64
		want    string
	}{
		{"calm and low", 0, 0, "hsl(264, 60%, 40%)"},
		{"energetic and bright", 1, 1, "hsl(35, 100%, 60%)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(moodColor(tt.energy, tt.valence)); got != tt.want {
				t.Errorf("moodColor(%v, %v) = %q, want %q", tt.energy, tt.valence, got, tt.want)
			}
		})
	}
}
