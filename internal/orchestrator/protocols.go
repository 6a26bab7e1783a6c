// Package orchestrator computes dependency waves within an epic,
// selects the next task to spawn, assembles protocol-injected spawn
// prompts, and records subagent returns (spec.md §4.7, component H).
package orchestrator

import (
	"embed"
	"strings"

	"github.com/cleo-run/cleo/internal/model"
)

//go:embed protocols
var protocolFS embed.FS

// Protocol is one of the fixed conditional protocols dispatched by task
// type/keyword (spec.md §4.7: "research / decomposition / implementation
// / specification / contribution / consensus / release").
type Protocol string

const (
	ProtocolResearch       Protocol = "research"
	ProtocolDecomposition  Protocol = "decomposition"
	ProtocolImplementation Protocol = "implementation"
	ProtocolSpecification  Protocol = "specification"
	ProtocolContribution   Protocol = "contribution"
	ProtocolConsensus      Protocol = "consensus"
	ProtocolRelease        Protocol = "release"
)

var protocolFile = map[Protocol]string{
	ProtocolResearch:       "protocols/research.md",
	ProtocolDecomposition:  "protocols/decomposition.md",
	ProtocolImplementation: "protocols/implementation.md",
	ProtocolSpecification:  "protocols/specification.md",
	ProtocolContribution:   "protocols/contribution.md",
	ProtocolConsensus:      "protocols/consensus.md",
	ProtocolRelease:        "protocols/release.md",
}

// keywordDispatch maps a lowercase keyword found in a task's title or
// labels to the protocol it selects, checked in order; the first match
// wins. Keys are original to CLEO since the teacher has no equivalent
// task-kind taxonomy.
var keywordDispatch = []struct {
	keyword  string
	protocol Protocol
}{
	{"research", ProtocolResearch},
	{"decompose", ProtocolDecomposition},
	{"decomposition", ProtocolDecomposition},
	{"spec", ProtocolSpecification},
	{"specification", ProtocolSpecification},
	{"design", ProtocolSpecification},
	{"contribution", ProtocolContribution},
	{"contribute", ProtocolContribution},
	{"consensus", ProtocolConsensus},
	{"reconcile", ProtocolConsensus},
	{"release", ProtocolRelease},
	{"ship", ProtocolRelease},
}

// Classify picks the conditional protocol for a task by scanning its
// title and labels for a dispatch keyword, defaulting to implementation
// when nothing matches (spec.md §4.7).
func Classify(t model.Task) Protocol {
	haystack := strings.ToLower(t.Title)
	for _, label := range t.Labels {
		haystack += " " + strings.ToLower(label)
	}
	for _, entry := range keywordDispatch {
		if strings.Contains(haystack, entry.keyword) {
			return entry.protocol
		}
	}
	return ProtocolImplementation
}

func loadProtocol(path string) (string, error) {
	raw, err := protocolFS.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func basePrompt() (string, error) {
	return loadProtocol("protocols/base.md")
}

func conditionalPrompt(p Protocol) (string, error) {
	path, ok := protocolFile[p]
	if !ok {
		return "", nil
	}
	return loadProtocol(path)
}
