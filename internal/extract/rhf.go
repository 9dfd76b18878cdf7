// Package extract turns scraped documents into relationship tuples via
// a three-step LLM extraction sequence: discover the relation types in
// a document, the head entities per relation, then the tail facts per
// (head, relation) pair.
package extract

import (
	"context"

	"github.com/qiangli/deepsearch/internal/llm"
	"github.com/qiangli/deepsearch/internal/progress"
)

// UnknownType is the sentinel entity type. A node never regresses back
// to it once a specific type is known.
const UnknownType = "Unknown"

// DefaultEntityTypes is the allow-list used when the caller supplies none.
var DefaultEntityTypes = []string{"Person", "Organization", "Technology", "Concept", "Location"}

// every extracted fact carries this fixed strength
const factStrength = 0.8

// Relationship is one extracted (source, relation, target) tuple.
type Relationship struct {
	Source       string  `json:"source"`
	SourceType   string  `json:"source_type"`
	Target       string  `json:"target"`
	TargetType   string  `json:"target_type"`
	Relationship string  `json:"relationship"`
	Strength     float64 `json:"strength"`
}

// ToolCaller issues one forced function tool call and decodes its
// arguments.
type ToolCaller interface {
	CallTool(ctx context.Context, system, user string, tool llm.ToolSpec, out any) error
}

type Extractor struct {
	llm    ToolCaller
	notify progress.Notifier

	allowedTypes []string
}

func New(tc ToolCaller, notify progress.Notifier, allowedTypes []string) *Extractor {
	if len(allowedTypes) == 0 {
		allowedTypes = DefaultEntityTypes
	}
	return &Extractor{
		llm:          tc,
		notify:       notify,
		allowedTypes: allowedTypes,
	}
}

type relationsArgs struct {
	Relations []string `json:"relations"`
}

type headsArgs struct {
	HeadEntities []string `json:"head_entities"`
}

type factsArgs struct {
	Facts []fact `json:"facts"`
}

type fact struct {
	TailEntity     string `json:"tail_entity"`
	TailEntityType string `json:"tail_entity_type"`
}

func stringArraySchema(field string) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			field: map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required": []string{field},
	}
}

func (e *Extractor) factsSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"facts": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"tail_entity": map[string]any{"type": "string"},
						"tail_entity_type": map[string]any{
							"type": "string",
							"enum": e.allowedTypes,
						},
					},
					"required": []string{"tail_entity", "tail_entity_type"},
				},
			},
		},
		"required": []string{"facts"},
	}
}

// Document runs the full extraction sequence on one document. Every
// step degrades gracefully: a failed or empty step contributes nothing
// and processing continues with the remaining relations and heads.
func (e *Extractor) Document(ctx context.Context, text string) []Relationship {
	relations := e.relations(ctx, text)
	if len(relations) == 0 {
		return nil
	}

	var out []Relationship
	for _, relation := range relations {
		heads := e.headEntities(ctx, text, relation)
		for _, head := range heads {
			for _, f := range e.facts(ctx, text, relation, head) {
				if f.TailEntity == "" || !IsValidEntity(head) || !IsValidEntity(f.TailEntity) {
					continue
				}
				targetType := f.TailEntityType
				if targetType == "" {
					targetType = UnknownType
				}
				out = append(out, Relationship{
					Source:       head,
					SourceType:   UnknownType,
					Target:       f.TailEntity,
					TargetType:   targetType,
					Relationship: relation,
					Strength:     factStrength,
				})
			}
		}
	}
	return out
}

func (e *Extractor) relations(ctx context.Context, text string) []string {
	e.notify.Info("extraction step 1: discovering relations in document")

	tool := llm.ToolSpec{
		Name:        "store_relations",
		Description: "Stores the extracted semantic relation types.",
		Parameters:  stringArraySchema("relations"),
	}
	prompt := `Given the document, identify all unique semantic relation types.
Examples: 'works for', 'located in', 'develops', 'CEO of'.
Return only the relation types, not the entities.

DOCUMENT:
` + text

	var args relationsArgs
	if err := e.llm.CallTool(ctx, "You are an expert in identifying relationship types.", prompt, tool, &args); err != nil {
		e.notify.Error("extraction step 1 failed: %v", err)
		return nil
	}
	if len(args.Relations) == 0 {
		e.notify.Warn("extraction step 1: no relations found in document")
	}
	return args.Relations
}

func (e *Extractor) headEntities(ctx context.Context, text, relation string) []string {
	e.notify.Info("extraction step 2: discovering head entities for relation %q", relation)

	tool := llm.ToolSpec{
		Name:        "store_head_entities",
		Description: "Stores extracted head entities for a relation.",
		Parameters:  stringArraySchema("head_entities"),
	}
	prompt := "Given the document and the relation '" + relation + `', list all subject entities.

DOCUMENT:
` + text

	var args headsArgs
	if err := e.llm.CallTool(ctx, "You are an expert in identifying subject entities.", prompt, tool, &args); err != nil {
		e.notify.Error("extraction step 2 failed for relation %q: %v", relation, err)
		return nil
	}
	return args.HeadEntities
}

func (e *Extractor) facts(ctx context.Context, text, relation, head string) []fact {
	e.notify.Info("extraction step 3: discovering facts for (%q, %q, ?)", head, relation)

	tool := llm.ToolSpec{
		Name:        "store_facts",
		Description: "Stores extracted facts (tail entities and types).",
		Parameters:  e.factsSchema(),
	}
	prompt := "From the document, identify all tail entities that have the relation '" + relation + "' with the head entity '" + head + `'.

DOCUMENT:
` + text

	var args factsArgs
	if err := e.llm.CallTool(ctx, "You are an expert in extracting structured facts.", prompt, tool, &args); err != nil {
		e.notify.Error("extraction step 3 failed for (%q, %q, ?): %v", head, relation, err)
		return nil
	}
	return args.Facts
}
