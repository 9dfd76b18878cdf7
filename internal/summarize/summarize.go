// Package summarize produces natural-language descriptions of the most
// central graph entities, using the linearized graph as shared context.
package summarize

import (
	"context"
	"fmt"
	"sync"

	"github.com/qiangli/deepsearch/internal/kgraph"
	"github.com/qiangli/deepsearch/internal/progress"
)

const systemPrompt = "You are a helpful assistant that summarizes entities from a knowledge graph."

const entityPromptFormat = `Given the following knowledge graph summary:

%s

Provide a concise 2-3 sentence summary of the entity '%s', focusing on its role, significance, and key relationships within the topic.
Do not simply list its connections; synthesize the information into a coherent description.`

// Completer is the text-completion side of the LLM client.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

type Summary struct {
	Entity  string
	Summary string
}

// Entities summarizes each node in parallel against the shared graph
// context. Failed or empty summaries are dropped; the result preserves
// the input node order.
func Entities(ctx context.Context, llm Completer, notify progress.Notifier, nodes []*kgraph.Node, graphContext string) []Summary {
	if len(nodes) == 0 {
		return nil
	}

	results := make([]*Summary, len(nodes))

	var wg sync.WaitGroup
	for i, node := range nodes {
		wg.Add(1)
		go func(i int, node *kgraph.Node) {
			defer wg.Done()

			notify.Info("Summarizing entity %d/%d: %s", i+1, len(nodes), node.Name)
			prompt := fmt.Sprintf(entityPromptFormat, graphContext, node.Name)

			text, err := llm.Complete(ctx, systemPrompt, prompt)
			if err != nil {
				notify.Warn("Failed to summarize entity %s. Reason: %v", node.Name, err)
				return
			}
			if text == "" {
				notify.Warn("No response content for entity %s", node.Name)
				return
			}
			results[i] = &Summary{Entity: node.Name, Summary: text}
		}(i, node)
	}
	wg.Wait()

	var summaries []Summary
	for _, s := range results {
		if s != nil {
			summaries = append(summaries, *s)
		}
	}
	notify.Info("Completed parallel summarization: %d successful summaries", len(summaries))
	return summaries
}
