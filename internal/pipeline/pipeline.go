package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/civitaslabs/planqd/internal/assemble"
	"github.com/civitaslabs/planqd/internal/authz"
	"github.com/civitaslabs/planqd/internal/classify"
	"github.com/civitaslabs/planqd/internal/fallback"
	"github.com/civitaslabs/planqd/internal/fusion"
	"github.com/civitaslabs/planqd/internal/generation"
	"github.com/civitaslabs/planqd/internal/logging"
	"github.com/civitaslabs/planqd/internal/memory"
	"github.com/civitaslabs/planqd/internal/retrieval"
)

var tracer = otel.Tracer("planqd.pipeline")

// ErrUnknownUser is returned for user IDs absent from the registry.
var ErrUnknownUser = errors.New("pipeline: unknown user")

// emptyContextResponse substitutes for a model call when nothing retrievable
// matched and no fallback applied.
const emptyContextResponse = "I couldn't find relevant information in the knowledge base for your question. " +
	"Try rephrasing it, or ask about urban planning concepts, zoning, transportation, or community development."

// relevantHistoryLimit caps how many past conversations are folded into the
// prompt.
const relevantHistoryLimit = 3

// DocumentRetriever is the hybrid retrieval entry point.
type DocumentRetriever interface {
	Retrieve(ctx context.Context, userID, query string) (vector, graph []retrieval.Candidate)
}

// Memory records turns and recalls conversation context. A nil Memory
// disables both without changing the rest of the flow.
type Memory interface {
	AddTurn(ctx context.Context, userID, sessionID, userQuery, assistantResponse string) error
	SessionContext(ctx context.Context, sessionID string) (string, error)
	RelevantHistory(ctx context.Context, userID, query string, limit int) (string, error)
}

var (
	_ DocumentRetriever = (*retrieval.Retriever)(nil)
	_ Memory            = (*memory.Manager)(nil)
)

// Answer is the outcome of one query turn.
type Answer struct {
	Response  string
	SessionID string

	// Denied reports the topic gate rejected the query before retrieval.
	Denied bool

	// FromFallback reports the response came from the canned role tables
	// rather than generation.
	FromFallback bool

	// RestrictedCount is how many retrieved documents access control
	// withheld.
	RestrictedCount int
}

// Pipeline wires the stages together. Construct with New.
type Pipeline struct {
	policy    *authz.Policy
	gate      *classify.Gate
	retriever DocumentRetriever
	generator generation.Generator
	memory    Memory
	resultCap int
	logger    *logging.Logger
}

// New builds a Pipeline. memory may be nil. resultCap bounds the fused
// candidate list; non-positive values fall back to the fusion default.
func New(policy *authz.Policy, retriever DocumentRetriever, generator generation.Generator, mem Memory, resultCap int, logger *logging.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		policy:    policy,
		gate:      classify.NewGate(),
		retriever: retriever,
		generator: generator,
		memory:    mem,
		resultCap: resultCap,
		logger:    logger.Named("pipeline"),
	}
}

// Query answers one user question. An empty sessionID starts a new session;
// the session ID in use is always returned so callers can continue it.
func (p *Pipeline) Query(ctx context.Context, userID, sessionID, query string) (Answer, error) {
	ctx, span := tracer.Start(ctx, "pipeline.query",
		trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	user, ok := p.policy.User(userID)
	if !ok {
		return Answer{}, fmt.Errorf("%w: %s", ErrUnknownUser, userID)
	}

	if sessionID == "" {
		sessionID = memory.StartSession(userID)
	}
	ctx = logging.ContextWithSession(logging.ContextWithUser(ctx, userID), sessionID)

	if denied, message := p.gate.ShouldDeny(user.Roles, query); denied {
		p.logger.Info(ctx, "query denied by topic gate", zap.String("user_id", userID))
		p.recordTurn(ctx, userID, sessionID, query, message)
		return Answer{Response: message, SessionID: sessionID, Denied: true}, nil
	}

	if response, ok := fallback.Respond(user.Roles, query); ok {
		p.logger.Info(ctx, "query answered from role fallback", zap.String("user_id", userID))
		p.recordTurn(ctx, userID, sessionID, query, response)
		return Answer{Response: response, SessionID: sessionID, FromFallback: true}, nil
	}

	memoryContext := p.memoryContext(ctx, userID, sessionID, query)

	vector, graph := p.retriever.Retrieve(ctx, userID, query)
	ranked := fusion.Fuse(vector, graph, p.resultCap)
	assembled := assemble.Assemble(ranked, user.Roles)

	span.SetAttributes(
		attribute.Int("retrieval.candidates", len(ranked)),
		attribute.Int("retrieval.restricted", assembled.RestrictedCount),
	)

	if assembled.Context == "" {
		p.logger.Debug(ctx, "no usable context retrieved")
		p.recordTurn(ctx, userID, sessionID, query, emptyContextResponse)
		return Answer{Response: emptyContextResponse, SessionID: sessionID}, nil
	}

	prompt := buildPrompt(user.Roles, assembled.Context, query, memoryContext)

	response, err := p.generator.Generate(ctx, prompt)
	if err != nil {
		return Answer{}, fmt.Errorf("generating answer: %w", err)
	}

	p.recordTurn(ctx, userID, sessionID, query, response)
	return Answer{
		Response:        response,
		SessionID:       sessionID,
		RestrictedCount: assembled.RestrictedCount,
	}, nil
}

// memoryContext combines the session transcript with relevant past
// conversations. Memory failures degrade to an empty context.
func (p *Pipeline) memoryContext(ctx context.Context, userID, sessionID, query string) string {
	if p.memory == nil {
		return ""
	}

	session, err := p.memory.SessionContext(ctx, sessionID)
	if err != nil {
		p.logger.Warn(ctx, "session context unavailable", zap.Error(err))
	}
	relevant, err := p.memory.RelevantHistory(ctx, userID, query, relevantHistoryLimit)
	if err != nil {
		p.logger.Warn(ctx, "relevant history unavailable", zap.Error(err))
	}

	switch {
	case session != "" && relevant != "":
		return session + "\n" + relevant
	case session != "":
		return session
	default:
		return relevant
	}
}

func (p *Pipeline) recordTurn(ctx context.Context, userID, sessionID, query, response string) {
	if p.memory == nil {
		return
	}
	if err := p.memory.AddTurn(ctx, userID, sessionID, query, response); err != nil {
		p.logger.Warn(ctx, "failed to record conversation turn", zap.Error(err))
	}
}
