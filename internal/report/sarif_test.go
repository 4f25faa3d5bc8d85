package report

import (
	"encoding/json"
	"strings"
	"testing"

	cerrs "crossbind/internal/core/errors"
	"crossbind/internal/engine/pipeline"
	"crossbind/internal/names"
)

func sampleDiagnostics() []pipeline.Diagnostic {
	return []pipeline.Diagnostic{
		{
			Context: cerrs.ItemContext("Handle"),
			Name:    names.FromUserText("ns::Handle"),
			Err:     cerrs.New(cerrs.CodeUnsafePodType, "has a user-defined destructor"),
		},
		{
			Context: cerrs.MethodContext("Point", "scale"),
			Name:    names.FromUserText("Point"),
			Err:     cerrs.New(cerrs.CodeUnknownType, "unknown parameter type"),
		},
	}
}

func TestGenerateSARIFShape(t *testing.T) {
	data, err := GenerateSARIF("include/demo.h", sampleDiagnostics())
	if err != nil {
		t.Fatalf("GenerateSARIF: %v", err)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if doc["version"] != "2.1.0" {
		t.Errorf("version = %v", doc["version"])
	}
	runs := doc["runs"].([]interface{})
	if len(runs) != 1 {
		t.Fatalf("runs = %d, want 1", len(runs))
	}
	run := runs[0].(map[string]interface{})
	results := run["results"].([]interface{})
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}

	first := results[0].(map[string]interface{})
	if first["ruleId"] != "XBND001" {
		t.Errorf("ruleId = %v, want XBND001", first["ruleId"])
	}
	if first["level"] != "error" {
		t.Errorf("level = %v", first["level"])
	}
	if !strings.Contains(string(data), "include/demo.h") {
		t.Error("physical location missing header path")
	}

	driver := run["tool"].(map[string]interface{})["driver"].(map[string]interface{})
	rules := driver["rules"].([]interface{})
	if len(rules) != 2 {
		t.Errorf("rules = %d, want 2 (one per distinct code)", len(rules))
	}
}

func TestGenerateSARIFUnknownCodeFallsBack(t *testing.T) {
	diags := []pipeline.Diagnostic{{
		Context: cerrs.ItemContext("X"),
		Name:    names.FromUserText("X"),
		Err:     cerrs.New(cerrs.CodeInternal, "boom"),
	}}
	data, err := GenerateSARIF("", diags)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), ruleIDOther) {
		t.Errorf("out-of-taxonomy code should map to %s", ruleIDOther)
	}
	if strings.Contains(string(data), "physicalLocation") {
		t.Error("empty header path should omit physical locations")
	}
}
