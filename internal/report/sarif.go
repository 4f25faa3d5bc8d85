package report

import (
	"encoding/json"

	cerrs "crossbind/internal/core/errors"
	"crossbind/internal/engine/pipeline"
	"crossbind/internal/shared/util"
)

// SARIF v2.1.0 schema – see https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json

const (
	sarifSchema  = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"
	sarifVersion = "2.1.0"

	toolName    = "crossbind"
	toolVersion = "1.0.0"
)

// Error codes map onto stable SARIF rule IDs so downstream viewers can group
// and suppress per rule.
var ruleIDs = map[cerrs.ErrorCode]string{
	cerrs.CodeUnsafePodType:           "XBND001",
	cerrs.CodeSelfReferentialAlias:    "XBND002",
	cerrs.CodeComplexAliasTarget:      "XBND003",
	cerrs.CodeUnsupportedBuiltIn:      "XBND004",
	cerrs.CodeTemplateNonPathArg:      "XBND005",
	cerrs.CodeConflictingTemplateArgs: "XBND006",
	cerrs.CodeInvalidPointee:          "XBND007",
	cerrs.CodeForwardDeclInTemplate:   "XBND008",
	cerrs.CodeUnknownType:             "XBND009",
	cerrs.CodeReservedName:            "XBND010",
	cerrs.CodeTooManyUnderscores:      "XBND011",
	cerrs.CodeBlocked:                 "XBND012",
	cerrs.CodeIgnoredDependent:        "XBND013",
	cerrs.CodeNotGenerated:            "XBND014",
}

const ruleIDOther = "XBND999"

type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	ShortDescription sarifMessage           `json:"shortDescription"`
	DefaultConfig    sarifRuleDefaultConfig `json:"defaultConfiguration"`
}

type sarifRuleDefaultConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	LogicalLocations []sarifLogicalLocation `json:"logicalLocations,omitempty"`
	PhysicalLocation *sarifPhysicalLocation `json:"physicalLocation,omitempty"`
}

type sarifLogicalLocation struct {
	Name               string `json:"name"`
	FullyQualifiedName string `json:"fullyQualifiedName,omitempty"`
	Kind               string `json:"kind,omitempty"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

// GenerateSARIF builds a SARIF v2.1.0 document from the run's diagnostic
// stream. headerPath attributes every result to the original header the
// declarations came from; it may be empty.
func GenerateSARIF(headerPath string, diags []pipeline.Diagnostic) ([]byte, error) {
	results := make([]sarifResult, 0, len(diags))
	seenRules := make(map[string]cerrs.ErrorCode)

	for _, d := range diags {
		code := cerrs.CodeOf(d.Err)
		ruleID := ruleIDFor(code)
		seenRules[ruleID] = code

		result := sarifResult{
			RuleID:  ruleID,
			Level:   "error",
			Message: sarifMessage{Text: d.Render()},
			Locations: []sarifLocation{{
				LogicalLocations: []sarifLogicalLocation{{
					Name:               d.Context.ID(),
					FullyQualifiedName: d.Name.ForeignName(),
					Kind:               "type",
				}},
			}},
		}
		if headerPath != "" {
			result.Locations[0].PhysicalLocation = &sarifPhysicalLocation{
				ArtifactLocation: sarifArtifactLocation{URI: headerPath},
			}
		}
		results = append(results, result)
	}

	doc := sarifReport{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{{
			Tool: sarifTool{Driver: sarifDriver{
				Name:    toolName,
				Version: toolVersion,
				Rules:   buildRules(seenRules),
			}},
			Results: results,
		}},
	}
	return json.MarshalIndent(doc, "", "  ")
}

func ruleIDFor(code cerrs.ErrorCode) string {
	if id, ok := ruleIDs[code]; ok {
		return id
	}
	return ruleIDOther
}

func buildRules(seen map[string]cerrs.ErrorCode) []sarifRule {
	ids := util.SortedStringKeys(seen)
	rules := make([]sarifRule, 0, len(ids))
	for _, id := range ids {
		rules = append(rules, sarifRule{
			ID:               id,
			Name:             string(seen[id]),
			ShortDescription: sarifMessage{Text: string(seen[id])},
			DefaultConfig:    sarifRuleDefaultConfig{Level: "error"},
		})
	}
	return rules
}
