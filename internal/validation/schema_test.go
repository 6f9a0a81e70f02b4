package validation_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-cms-elements/internal/validation"
	"gopkg.in/yaml.v3"
)

const layoutSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["name"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "cells": {"type": "array", "items": {"type": "string"}}
  }
}`

func TestCompileRejectsInvalidSchema(t *testing.T) {
	if _, err := validation.Compile("broken.json", []byte(`{"type": 12}`)); !errors.Is(err, validation.ErrSchemaInvalid) {
		t.Fatalf("expected ErrSchemaInvalid, got %v", err)
	}
}

func TestValidateAcceptsDecodedDocuments(t *testing.T) {
	validator, err := validation.Compile("layout.json", []byte(layoutSchema))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	doc := map[string]any{"name": "standard", "cells": []any{"header", "news"}}
	if err := validator.Validate("layouts.yml", doc); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidateReportsIssues(t *testing.T) {
	validator, err := validation.Compile("layout.json", []byte(layoutSchema))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	err = validator.Validate("layouts.yml", map[string]any{"cells": []any{1}})
	if !errors.Is(err, validation.ErrSchemaValidation) {
		t.Fatalf("expected ErrSchemaValidation, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "layouts.yml: ") {
		t.Fatalf("expected source prefix, got %q", err.Error())
	}
	if len(validation.Issues(err)) < 2 {
		t.Fatalf("expected an issue per failure, got %+v", validation.Issues(err))
	}
}

const contentSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "name": {"type": "string"},
    "max_length": {"type": "integer", "minimum": 1},
    "ratio": {"type": "number", "maximum": 1}
  }
}`

func TestValidateYAMLNumbers(t *testing.T) {
	validator, err := validation.Compile("content.json", []byte(contentSchema))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	var valid map[string]any
	if err := yaml.Unmarshal([]byte("name: title\nmax_length: 80\nratio: 0.5\n"), &valid); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if err := validator.Validate("contents.yml", valid); err != nil {
		t.Fatalf("validate: %v", err)
	}

	var invalid map[string]any
	if err := yaml.Unmarshal([]byte("name: title\nmax_length: 0\nratio: 1.5\n"), &invalid); err != nil {
		t.Fatalf("decode: %v", err)
	}
	err = validator.Validate("contents.yml", invalid)
	if !errors.Is(err, validation.ErrSchemaValidation) {
		t.Fatalf("expected ErrSchemaValidation, got %v", err)
	}
	if len(validation.Issues(err)) < 2 {
		t.Fatalf("expected an issue per numeric field, got %+v", validation.Issues(err))
	}
}
