package keyword

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"atg/internal/llm"

	"go.uber.org/zap"
)

// DefaultMinConfidence is the resolver-level gate for generated lines.
const DefaultMinConfidence = 0.8

// rawResponseConfidence is the fixed confidence assigned when the model
// answers with plain text instead of the requested JSON object.
const rawResponseConfidence = 0.8

// Resolver maps a single action phrase to an automation keyword. The
// library is consulted first; on a miss the language model is asked,
// the answer is decoded opportunistically, and the result is persisted
// before it is reported as a success.
//
// The resolver is single-threaded by contract: each resolution blocks on
// the model round trip, and no internal locking is provided.
type Resolver struct {
	client        llm.Client
	store         *Store
	library       Library
	unmapped      map[string]struct{}
	minConfidence float64
	logger        *zap.Logger
}

// NewResolver creates a resolver backed by the given client and store.
// The library is loaded once, here; later mutations are written back
// through the store after every change.
func NewResolver(client llm.Client, store *Store, minConfidence float64, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if minConfidence <= 0 {
		minConfidence = DefaultMinConfidence
	}
	return &Resolver{
		client:        client,
		store:         store,
		library:       store.Load(),
		unmapped:      make(map[string]struct{}),
		minConfidence: minConfidence,
		logger:        logger,
	}
}

// modelSuggestion is the structured shape requested from the model.
// Pointer fields distinguish "absent" from zero values.
type modelSuggestion struct {
	Keyword    *string  `json:"keyword"`
	Confidence *float64 `json:"confidence"`
}

// MapActionToKeyword resolves an action phrase to (keyword, confidence).
// Failures of any kind yield ("", 0): they are logged and recorded in the
// unmapped set, never propagated. A resolution only counts as successful
// once it has been durably persisted.
func (r *Resolver) MapActionToKeyword(ctx context.Context, action string) (string, float64) {
	if entry, ok := r.library[action]; ok {
		return entry.Keyword, entry.Confidence
	}

	content, err := r.client.CompleteWithSystem(ctx, systemPrompt, r.buildPrompt(action))
	if err != nil {
		return r.fail(action, err)
	}

	content = strings.TrimSpace(stripCodeFence(content))
	if content == "" {
		return r.fail(action, fmt.Errorf("model produced no usable content"))
	}

	keyword, confidence, err := interpret(content)
	if err != nil {
		return r.fail(action, err)
	}

	r.library[action] = Entry{Keyword: keyword, Confidence: confidence}
	if !r.store.Save(r.library) {
		// The entry stays in memory and rides along with the next
		// successful save, but this resolution is reported as failed.
		r.logger.Warn("failed to persist keyword mapping",
			zap.String("action", action), zap.String("keyword", keyword))
		return "", 0
	}

	return keyword, confidence
}

// interpret applies the two-stage decode: a strict JSON object with both
// fields wins; anything that is not decodable is taken literally as the
// keyword at the default confidence; a decodable object missing a field
// is malformed and fails.
func interpret(content string) (string, float64, error) {
	var suggestion modelSuggestion
	if err := json.Unmarshal([]byte(content), &suggestion); err == nil {
		if suggestion.Keyword == nil || suggestion.Confidence == nil {
			return "", 0, fmt.Errorf("model response missing keyword or confidence")
		}
		return strings.TrimSpace(*suggestion.Keyword), *suggestion.Confidence, nil
	}

	return content, rawResponseConfidence, nil
}

func (r *Resolver) fail(action string, err error) (string, float64) {
	r.unmapped[action] = struct{}{}
	r.logger.Warn("failed to resolve keyword for action",
		zap.String("action", action), zap.Error(err))
	return "", 0
}

const systemPrompt = "You are a Robot Framework test case generator. " +
	"You map free-text test actions to Robot Framework keywords."

// buildPrompt embeds the action and the already-known keyword names so the
// model stays consistent with prior resolutions.
func (r *Resolver) buildPrompt(action string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Given the action: %q\n", action)
	sb.WriteString("Suggest the most appropriate Robot Framework keyword.\n")

	if known := r.KnownKeywords(); len(known) > 0 {
		sb.WriteString("Prefer one of the keywords already in use:\n")
		for _, kw := range known {
			fmt.Fprintf(&sb, "- %s\n", kw)
		}
	}

	sb.WriteString(`Return a JSON object with the following structure:` + "\n" +
		`{"keyword": "KeywordName", "confidence": 0.0 to 1.0}`)
	return sb.String()
}

// KnownKeywords returns the sorted, de-duplicated keyword names currently
// in the library.
func (r *Resolver) KnownKeywords() []string {
	seen := make(map[string]struct{}, len(r.library))
	for _, entry := range r.library {
		seen[entry.Keyword] = struct{}{}
	}
	keywords := make([]string, 0, len(seen))
	for kw := range seen {
		keywords = append(keywords, kw)
	}
	sort.Strings(keywords)
	return keywords
}

// UnmappedActions returns a sorted snapshot of the action phrases that
// failed resolution during this resolver's lifetime.
func (r *Resolver) UnmappedActions() []string {
	actions := make([]string, 0, len(r.unmapped))
	for action := range r.unmapped {
		actions = append(actions, action)
	}
	sort.Strings(actions)
	return actions
}

// AddFeedback records a human-supplied mapping, overwriting any previous
// entry, and clears the action from the unmapped set. Persistence failure
// here is logged but not surfaced; feedback always lands in memory.
func (r *Resolver) AddFeedback(action, keyword string, confidence float64) {
	r.library[action] = Entry{Keyword: keyword, Confidence: confidence}
	if !r.store.Save(r.library) {
		r.logger.Warn("failed to persist feedback",
			zap.String("action", action), zap.String("keyword", keyword))
	}
	delete(r.unmapped, action)
}

// Library returns the in-memory library. The resolver owns it; callers
// must treat the result as read-only.
func (r *Resolver) Library() Library {
	return r.library
}

// MinConfidence returns the configured confidence gate.
func (r *Resolver) MinConfidence() float64 {
	return r.minConfidence
}

// TestCaseLine resolves the action and formats it as an indented test-case
// line. Resolutions below the confidence gate produce an empty string so
// low-trust guesses never silently enter generated files.
func (r *Resolver) TestCaseLine(ctx context.Context, action string) string {
	keyword, confidence := r.MapActionToKeyword(ctx, action)
	if keyword != "" && confidence >= r.minConfidence {
		return "    " + keyword
	}
	return ""
}

// stripCodeFence removes a surrounding Markdown code fence, with or
// without a language tag, from a model response.
func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return s
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		// Drop the language tag line (e.g. "json").
		first := strings.TrimSpace(trimmed[:idx])
		if first == "" || !strings.ContainsAny(first, " \t{") {
			trimmed = trimmed[idx+1:]
		}
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
