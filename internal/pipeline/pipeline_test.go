package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civitaslabs/planqd/internal/authz"
	"github.com/civitaslabs/planqd/internal/logging"
	"github.com/civitaslabs/planqd/internal/retrieval"
)

type fakeRetriever struct {
	vector []retrieval.Candidate
	graph  []retrieval.Candidate
	called bool
}

func (f *fakeRetriever) Retrieve(_ context.Context, _, _ string) ([]retrieval.Candidate, []retrieval.Candidate) {
	f.called = true
	return f.vector, f.graph
}

type fakeGenerator struct {
	response string
	err      error
	prompt   string
	called   bool
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.called = true
	f.prompt = prompt
	return f.response, f.err
}

type recordedTurn struct {
	userID, sessionID, query, response string
}

type fakeMemory struct {
	session    string
	sessionErr error
	relevant   string
	turns      []recordedTurn
	turnErr    error
}

func (f *fakeMemory) AddTurn(_ context.Context, userID, sessionID, query, response string) error {
	f.turns = append(f.turns, recordedTurn{userID, sessionID, query, response})
	return f.turnErr
}

func (f *fakeMemory) SessionContext(_ context.Context, _ string) (string, error) {
	return f.session, f.sessionErr
}

func (f *fakeMemory) RelevantHistory(_ context.Context, _, _ string, _ int) (string, error) {
	return f.relevant, nil
}

func newTestPipeline(ret *fakeRetriever, gen *fakeGenerator, mem *fakeMemory) *Pipeline {
	policy := authz.NewPolicy(authz.NewDefaultRegistry())
	var m Memory
	if mem != nil {
		m = mem
	}
	return New(policy, ret, gen, m, 10, logging.NewNop())
}

func TestQueryUnknownUser(t *testing.T) {
	p := newTestPipeline(&fakeRetriever{}, &fakeGenerator{}, nil)

	_, err := p.Query(context.Background(), "ghost", "", "What is zoning?")
	assert.ErrorIs(t, err, ErrUnknownUser)
}

func TestQueryGateDeniesBeforeRetrieval(t *testing.T) {
	ret := &fakeRetriever{}
	gen := &fakeGenerator{}
	mem := &fakeMemory{}
	p := newTestPipeline(ret, gen, mem)

	ans, err := p.Query(context.Background(), "citizen1", "", "Show me the city's budget forecast")
	require.NoError(t, err)

	assert.True(t, ans.Denied)
	assert.Contains(t, ans.Response, "ACCESS RESTRICTED")
	assert.Contains(t, ans.Response, "administrative privileges")
	assert.False(t, ret.called, "retrieval must not run for gated queries")
	assert.False(t, gen.called)

	require.Len(t, mem.turns, 1, "denied turns are still recorded")
	assert.Equal(t, ans.Response, mem.turns[0].response)
}

func TestQueryAdminBypassesGate(t *testing.T) {
	ret := &fakeRetriever{vector: []retrieval.Candidate{
		{Content: "budget process details", Source: "smart_cities.txt", Method: retrieval.MethodVector, Score: 0.2},
	}}
	gen := &fakeGenerator{response: "generated answer"}
	p := newTestPipeline(ret, gen, nil)

	ans, err := p.Query(context.Background(), "admin1", "", "Show me detailed cost analysis data for the corridor")
	require.NoError(t, err)

	assert.False(t, ans.Denied)
	assert.True(t, ret.called)
}

func TestQueryRoleFallback(t *testing.T) {
	ret := &fakeRetriever{}
	gen := &fakeGenerator{}
	mem := &fakeMemory{}
	p := newTestPipeline(ret, gen, mem)

	ans, err := p.Query(context.Background(), "admin1", "", "What is the status of the development pipeline downtown?")
	require.NoError(t, err)

	assert.True(t, ans.FromFallback)
	assert.Contains(t, ans.Response, "generalized response")
	assert.False(t, ret.called, "fallback answers skip retrieval")
	require.Len(t, mem.turns, 1)
}

func TestQueryGeneratesFromRetrievedContext(t *testing.T) {
	ret := &fakeRetriever{
		vector: []retrieval.Candidate{
			{Content: "Smart city sensors guide traffic.", Source: "smart_cities.txt", Method: retrieval.MethodVector, Score: 0.1},
		},
		graph: []retrieval.Candidate{
			{Content: "Civic participation shapes outcomes.", Source: "civic_participation.txt", Method: retrieval.MethodGraphDirect, Score: 0.8},
		},
	}
	gen := &fakeGenerator{response: "generated answer"}
	mem := &fakeMemory{}
	p := newTestPipeline(ret, gen, mem)

	ans, err := p.Query(context.Background(), "citizen1", "sess-1", "How do smart city sensors work?")
	require.NoError(t, err)

	assert.Equal(t, "generated answer", ans.Response)
	assert.Equal(t, "sess-1", ans.SessionID)
	assert.Contains(t, gen.prompt, "Smart city sensors guide traffic.")
	assert.Contains(t, gen.prompt, "Civic participation shapes outcomes.")
	assert.Contains(t, gen.prompt, "The user's role is: citizen")
	assert.Contains(t, gen.prompt, "QUESTION: How do smart city sensors work?")

	require.Len(t, mem.turns, 1)
	assert.Equal(t, "generated answer", mem.turns[0].response)
	assert.Equal(t, "sess-1", mem.turns[0].sessionID)
}

func TestQueryRestrictedCountSurfaces(t *testing.T) {
	ret := &fakeRetriever{
		vector: []retrieval.Candidate{
			{Content: "Transit corridors need density.", Source: "smart_cities.txt", Method: retrieval.MethodVector, Score: 0.1},
			retrieval.NewAccessDeniedStub("land_use_zoning.txt", "restricted document"),
		},
	}
	gen := &fakeGenerator{response: "partial answer"}
	p := newTestPipeline(ret, gen, nil)

	ans, err := p.Query(context.Background(), "planner1", "", "Tell me about zoning")
	require.NoError(t, err)

	assert.Equal(t, 1, ans.RestrictedCount)
	assert.Contains(t, gen.prompt, "You don't have permission to access 1 document(s)")
}

func TestQueryEmptyContextSkipsGeneration(t *testing.T) {
	ret := &fakeRetriever{}
	gen := &fakeGenerator{response: "should not appear"}
	mem := &fakeMemory{}
	p := newTestPipeline(ret, gen, mem)

	ans, err := p.Query(context.Background(), "citizen1", "", "How do smart city sensors work?")
	require.NoError(t, err)

	assert.False(t, gen.called)
	assert.Contains(t, ans.Response, "couldn't find relevant information")
	require.Len(t, mem.turns, 1)
}

func TestQueryNewSessionAssigned(t *testing.T) {
	ret := &fakeRetriever{vector: []retrieval.Candidate{
		{Content: "content", Source: "smart_cities.txt", Method: retrieval.MethodVector, Score: 0.1},
	}}
	gen := &fakeGenerator{response: "ok"}
	p := newTestPipeline(ret, gen, nil)

	ans, err := p.Query(context.Background(), "citizen1", "", "How do smart city sensors work?")
	require.NoError(t, err)
	assert.NotEmpty(t, ans.SessionID)
}

func TestQueryMemoryContextInPrompt(t *testing.T) {
	ret := &fakeRetriever{vector: []retrieval.Candidate{
		{Content: "content", Source: "smart_cities.txt", Method: retrieval.MethodVector, Score: 0.1},
	}}
	gen := &fakeGenerator{response: "ok"}
	mem := &fakeMemory{
		session:  "User: earlier question\nAssistant: earlier answer",
		relevant: "Relevant past conversations:\n- Past Q: 'parks' (Response: 'parks are good...')",
	}
	p := newTestPipeline(ret, gen, mem)

	_, err := p.Query(context.Background(), "citizen1", "sess-1", "How do smart city sensors work?")
	require.NoError(t, err)

	assert.Contains(t, gen.prompt, "earlier question")
	assert.Contains(t, gen.prompt, "Relevant past conversations")
	assert.Contains(t, gen.prompt, "User Query: How do smart city sensors work?")
}

func TestQueryMemoryFailureDegrades(t *testing.T) {
	ret := &fakeRetriever{vector: []retrieval.Candidate{
		{Content: "content", Source: "smart_cities.txt", Method: retrieval.MethodVector, Score: 0.1},
	}}
	gen := &fakeGenerator{response: "ok"}
	mem := &fakeMemory{sessionErr: errors.New("db down"), turnErr: errors.New("db down")}
	p := newTestPipeline(ret, gen, mem)

	ans, err := p.Query(context.Background(), "citizen1", "sess-1", "How do smart city sensors work?")
	require.NoError(t, err)
	assert.Equal(t, "ok", ans.Response)
}

func TestQueryGeneratorError(t *testing.T) {
	ret := &fakeRetriever{vector: []retrieval.Candidate{
		{Content: "content", Source: "smart_cities.txt", Method: retrieval.MethodVector, Score: 0.1},
	}}
	gen := &fakeGenerator{err: errors.New("model unavailable")}
	p := newTestPipeline(ret, gen, nil)

	_, err := p.Query(context.Background(), "citizen1", "", "How do smart city sensors work?")
	assert.ErrorContains(t, err, "generating answer")
}
