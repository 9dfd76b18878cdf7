package extract

import (
	"context"
	"testing"

	"github.com/qiangli/deepsearch/internal/llm"
	"github.com/qiangli/deepsearch/internal/progress"
)

// scriptedLLM answers each tool by name with canned payloads.
type scriptedLLM struct {
	relations []string
	heads     map[string][]string // relation -> heads
	facts     map[string][]fact   // relation+"|"+head -> facts
	fail      map[string]error    // tool name -> error
	calls     []string
}

func (s *scriptedLLM) CallTool(ctx context.Context, system, user string, tool llm.ToolSpec, out any) error {
	s.calls = append(s.calls, tool.Name)
	if err := s.fail[tool.Name]; err != nil {
		return err
	}

	switch tool.Name {
	case "store_relations":
		*(out.(*relationsArgs)) = relationsArgs{Relations: s.relations}
	case "store_head_entities":
		relation := findQuoted(user)
		*(out.(*headsArgs)) = headsArgs{HeadEntities: s.heads[relation]}
	case "store_facts":
		relation, head := findRelationHead(user)
		*(out.(*factsArgs)) = factsArgs{Facts: s.facts[relation+"|"+head]}
	}
	return nil
}

// pulls the first single-quoted value out of a prompt
func findQuoted(prompt string) string {
	start := -1
	for i, r := range prompt {
		if r == '\'' {
			if start < 0 {
				start = i + 1
			} else {
				return prompt[start:i]
			}
		}
	}
	return ""
}

func findRelationHead(prompt string) (string, string) {
	relation := findQuoted(prompt)
	rest := prompt[len("From the document, identify all tail entities that have the relation '"+relation+"' with the head entity '"):]
	return relation, findQuoted("'" + rest)
}

func TestDocumentExtractsFacts(t *testing.T) {
	s := &scriptedLLM{
		relations: []string{"develops"},
		heads:     map[string][]string{"develops": {"Google"}},
		facts: map[string][]fact{
			"develops|Google": {{TailEntity: "TensorFlow", TailEntityType: "Technology"}},
		},
	}

	e := New(s, progress.Discard(), nil)
	rels := e.Document(context.Background(), "some document")

	if len(rels) != 1 {
		t.Fatalf("expected 1 relationship, got %d", len(rels))
	}
	r := rels[0]
	if r.Source != "Google" || r.Target != "TensorFlow" || r.Relationship != "develops" {
		t.Errorf("unexpected relationship: %+v", r)
	}
	if r.SourceType != UnknownType {
		t.Errorf("source type should be %q, got %q", UnknownType, r.SourceType)
	}
	if r.TargetType != "Technology" {
		t.Errorf("target type should be Technology, got %q", r.TargetType)
	}
	if r.Strength != 0.8 {
		t.Errorf("strength should be 0.8, got %v", r.Strength)
	}
}

func TestDocumentNoRelations(t *testing.T) {
	s := &scriptedLLM{}

	e := New(s, progress.Discard(), nil)
	rels := e.Document(context.Background(), "empty document")

	if len(rels) != 0 {
		t.Fatalf("expected no relationships, got %v", rels)
	}
	// only the first step should run
	if len(s.calls) != 1 || s.calls[0] != "store_relations" {
		t.Errorf("unexpected calls: %v", s.calls)
	}
}

func TestDocumentStepFailureDegrades(t *testing.T) {
	s := &scriptedLLM{
		relations: []string{"develops", "acquired"},
		heads: map[string][]string{
			"develops": {"Google"},
			"acquired": {"Microsoft"},
		},
		facts: map[string][]fact{
			"acquired|Microsoft": {{TailEntity: "GitHub", TailEntityType: "Organization"}},
		},
	}
	// the first fact call fails; the second relation's branch survives
	failed := false
	s2 := &failOnceLLM{inner: s, failKey: "store_facts", err: llm.ErrNoToolCall, failed: &failed}

	e := New(s2, progress.Discard(), nil)
	rels := e.Document(context.Background(), "doc")

	if len(rels) != 1 {
		t.Fatalf("expected 1 relationship from the surviving branch, got %d", len(rels))
	}
	if rels[0].Target != "GitHub" {
		t.Errorf("unexpected relationship: %+v", rels[0])
	}
}

type failOnceLLM struct {
	inner   *scriptedLLM
	failKey string
	err     error
	failed  *bool
}

func (f *failOnceLLM) CallTool(ctx context.Context, system, user string, tool llm.ToolSpec, out any) error {
	if tool.Name == f.failKey && !*f.failed {
		*f.failed = true
		return f.err
	}
	return f.inner.CallTool(ctx, system, user, tool, out)
}

func TestDocumentFiltersLowQualityEntities(t *testing.T) {
	s := &scriptedLLM{
		relations: []string{"related to"},
		heads:     map[string][]string{"related to": {"42", "ARPANET"}},
		facts: map[string][]fact{
			"related to|42":      {{TailEntity: "Computers", TailEntityType: "Technology"}},
			"related to|ARPANET": {{TailEntity: "the", TailEntityType: "Concept"}, {TailEntity: "Networking", TailEntityType: "Concept"}},
		},
	}

	e := New(s, progress.Discard(), nil)
	rels := e.Document(context.Background(), "doc")

	if len(rels) != 1 {
		t.Fatalf("expected 1 relationship after filtering, got %v", rels)
	}
	if rels[0].Source != "ARPANET" || rels[0].Target != "Networking" {
		t.Errorf("unexpected relationship: %+v", rels[0])
	}
}
