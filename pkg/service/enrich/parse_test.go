package enrich_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/m-mizutani/gt"
	"github.com/notedrop/notedrop/pkg/service/enrich"
)

func TestParseResponse(t *testing.T) {
	t.Run("plain JSON object", func(t *testing.T) {
		got, err := enrich.ParseResponse(`{
			"summary": "a short summary",
			"actions": ["send report", "call Bob"],
			"suggested_type": "Task",
			"suggested_priority": "High"
		}`)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Summary).Equal("a short summary")
		gt.Array(t, got.Actions).Length(2)
		gt.Value(t, got.Actions[0]).Equal("send report")
		gt.Value(t, got.SuggestedType).Equal("Task")
		gt.Value(t, got.SuggestedPriority).Equal("High")
	})

	t.Run("JSON wrapped in prose", func(t *testing.T) {
		got, err := enrich.ParseResponse("Here is the analysis:\n```json\n{\"summary\": \"s\", \"actions\": []}\n```\nDone.")
		gt.NoError(t, err).Required()
		gt.Value(t, got.Summary).Equal("s")
		gt.Array(t, got.Actions).Length(0)
	})

	t.Run("spanish field names", func(t *testing.T) {
		got, err := enrich.ParseResponse(`{
			"resumen": "resumen corto",
			"acciones": ["enviar informe"],
			"tipo_sugerido": "Task",
			"prioridad_sugerida": "Medium"
		}`)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Summary).Equal("resumen corto")
		gt.Array(t, got.Actions).Length(1)
		gt.Value(t, got.SuggestedType).Equal("Task")
	})

	t.Run("actions as stringified list with single quotes", func(t *testing.T) {
		got, err := enrich.ParseResponse(`{"summary": "s", "actions": "[' A1 ', '', 'A2']"}`)
		gt.NoError(t, err).Required()
		gt.Array(t, got.Actions).Length(2)
		gt.Value(t, got.Actions[0]).Equal("A1")
		gt.Value(t, got.Actions[1]).Equal("A2")
	})

	t.Run("actions as bullet list in one string", func(t *testing.T) {
		got, err := enrich.ParseResponse(`{"summary": "s", "actions": "- first\n- second\n3. third"}`)
		gt.NoError(t, err).Required()
		gt.Array(t, got.Actions).Length(3)
		gt.Value(t, got.Actions[2]).Equal("third")
	})

	t.Run("actions as scalar number", func(t *testing.T) {
		got, err := enrich.ParseResponse(`{"summary": "s", "actions": 42}`)
		gt.NoError(t, err).Required()
		gt.Array(t, got.Actions).Length(1)
		gt.Value(t, got.Actions[0]).Equal("42")
	})

	t.Run("actions as mapping with subtasks", func(t *testing.T) {
		got, err := enrich.ParseResponse(`{"summary": "s", "actions": {"descripcion": "X", "subtareas": ["Y", "Z"]}}`)
		gt.NoError(t, err).Required()
		gt.Array(t, got.Actions).Length(3)
		gt.Value(t, got.Actions[0]).Equal("X")
		gt.Value(t, got.Actions[1]).Equal("Y")
		gt.Value(t, got.Actions[2]).Equal("Z")
	})

	t.Run("list of mappings", func(t *testing.T) {
		got, err := enrich.ParseResponse(`{"actions": [{"description": "A"}, {"description": "B", "subtasks": ["C"]}]}`)
		gt.NoError(t, err).Required()
		gt.Array(t, got.Actions).Length(3)
		gt.Value(t, got.Actions[2]).Equal("C")
	})

	t.Run("null actions yield empty list", func(t *testing.T) {
		got, err := enrich.ParseResponse(`{"summary": "s", "actions": null}`)
		gt.NoError(t, err).Required()
		gt.Array(t, got.Actions).Length(0)
	})

	t.Run("no JSON object fails", func(t *testing.T) {
		_, err := enrich.ParseResponse("sorry, I cannot help with that")
		gt.Value(t, err).NotNil()
	})
}

func TestFallbackAction(t *testing.T) {
	t.Run("deadline phrase triggers fallback", func(t *testing.T) {
		action, ok := enrich.FallbackAction("Se solicita enviar el informe antes del 15/03.")
		gt.Bool(t, ok).True()
		gt.Bool(t, strings.HasPrefix(action, enrich.FallbackPrefix)).True()
		gt.Bool(t, strings.Contains(action, "antes del 15/03")).True()
	})

	t.Run("english obligation triggers fallback", func(t *testing.T) {
		_, ok := enrich.FallbackAction("The report must be submitted before Friday.")
		gt.Bool(t, ok).True()
	})

	t.Run("iso date triggers fallback", func(t *testing.T) {
		_, ok := enrich.FallbackAction("Deadline: 2026-09-01 for the audit")
		gt.Bool(t, ok).True()
	})

	t.Run("neutral text does not trigger", func(t *testing.T) {
		_, ok := enrich.FallbackAction("We had a pleasant chat about the weather.")
		gt.Bool(t, ok).False()
	})

	t.Run("excerpt is bounded", func(t *testing.T) {
		long := "se requiere " + strings.Repeat("palabra ", 100)
		action, ok := enrich.FallbackAction(long)
		gt.Bool(t, ok).True()
		gt.Bool(t, len(action) <= len(enrich.FallbackPrefix)+160).True()
	})

	t.Run("multibyte excerpt stays valid UTF-8", func(t *testing.T) {
		long := "se requiere " + strings.Repeat("revisión ", 100)
		action, ok := enrich.FallbackAction(long)
		gt.Bool(t, ok).True()
		gt.Bool(t, utf8.ValidString(action)).True()
		excerpt := strings.TrimPrefix(action, enrich.FallbackPrefix)
		gt.Bool(t, utf8.RuneCountInString(excerpt) <= 160).True()
	})
}
