package pipes_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ib-77/pipes/pkg/pipes"
)

// flowStage appends its name to the mutable "flow" field.
func flowStage(name string) *pipes.Stage {
	return pipes.Define(name, func(_ context.Context, h *pipes.Handle) error {
		flow, _ := pipes.Lookup[[]string](h.Context(), "flow")
		return h.PutMutable("flow", append(flow, name))
	}, pipes.RequireKind("flow", pipes.KindOf[[]string]()))
}

func newFlowContext(t *testing.T) *pipes.Context {
	t.Helper()
	pc, err := pipes.NewContext(nil, pipes.Mutable(pipes.Fields{"flow": []string{}}))
	require.NoError(t, err)
	return pc
}

func flowOf(t *testing.T, pc *pipes.Context) []string {
	t.Helper()
	flow, ok := pipes.Lookup[[]string](pc, "flow")
	require.True(t, ok, "flow field missing")
	return flow
}

var (
	parent          = flowStage("Parent")
	child           = flowStage("Child")
	grandchild      = flowStage("Grandchild")
	grandGrandchild = flowStage("GrandGrandchild")
	noMethodPipe    = pipes.Define("NoMethodPipe", nil)

	errBadApple = errors.New("bad apple")
	badApple    = pipes.Define("BadApple", func(context.Context, *pipes.Handle) error {
		return errBadApple
	})
	haltingApple = pipes.Define("HaltingApple", func(_ context.Context, h *pipes.Handle) error {
		h.Halt()
		return nil
	})
)

func TestPipeline_LeftToRight(t *testing.T) {
	t.Parallel()
	pc := newFlowContext(t)

	out, err := parent.Then(child).Then(grandchild).Call(context.Background(), pc)

	require.NoError(t, err)
	assert.Same(t, pc, out)
	assert.Equal(t, []string{"Parent", "Child", "Grandchild"}, flowOf(t, pc))
	assert.True(t, pc.Success())
}

func TestPipeline_RaisedErrorPropagates(t *testing.T) {
	t.Parallel()
	pc := newFlowContext(t)

	_, err := pipes.Chain(parent, badApple, child).Call(context.Background(), pc)

	assert.ErrorIs(t, err, errBadApple)
	assert.Equal(t, []string{"Parent"}, flowOf(t, pc))
}

func TestPipeline_HaltSkipsLaterStages(t *testing.T) {
	t.Parallel()
	pc := newFlowContext(t)

	_, err := pipes.Chain(parent, haltingApple, child).Call(context.Background(), pc)

	require.NoError(t, err)
	assert.False(t, pc.Success())
	assert.True(t, pc.Failure())
	assert.Equal(t, []string{"Parent"}, flowOf(t, pc))
	assert.EqualError(t, pc.Error(), pipes.DefaultHaltMessage)
}

func TestPipeline_TerminateSkipsRestOfStageAndLaterStages(t *testing.T) {
	t.Parallel()
	pc := newFlowContext(t)
	reached := false
	stopper := pipes.Define("Stopper", func(_ context.Context, h *pipes.Handle) error {
		if err := h.Terminate(errors.New("stop")); err != nil {
			return err
		}
		reached = true
		return nil
	})

	_, err := pipes.Chain(parent, stopper, child).Call(context.Background(), pc)

	require.NoError(t, err)
	assert.False(t, reached)
	assert.Equal(t, []string{"Parent"}, flowOf(t, pc))
	assert.EqualError(t, pc.Error(), "stop")
}

func TestPipeline_ProvidedInvalidType(t *testing.T) {
	t.Parallel()
	bacon := pipes.Define("Bacon", func(_ context.Context, h *pipes.Handle) error {
		return h.Put("bacon", "not a number")
	}, pipes.ProvideKind("bacon", pipes.Numeric))

	pc := newFlowContext(t)
	_, err := parent.Then(bacon).Call(context.Background(), pc)

	require.ErrorIs(t, err, pipes.ErrInvalidType)
	var perr *pipes.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "bacon", perr.Field)
	assert.Contains(t, err.Error(), "bacon")
}

func TestPipeline_RequiredMissing(t *testing.T) {
	t.Parallel()
	ran := false
	needsBacon := pipes.Define("NeedsBacon", func(context.Context, *pipes.Handle) error {
		ran = true
		return nil
	}, pipes.Require("bacon"))

	pc := newFlowContext(t)
	_, err := needsBacon.Then(parent).Call(context.Background(), pc)

	require.ErrorIs(t, err, pipes.ErrMissingContext)
	assert.Contains(t, err.Error(), "bacon")
	assert.False(t, ran)
	assert.Empty(t, flowOf(t, pc))
}

func TestPipeline_Closure(t *testing.T) {
	t.Parallel()
	dynamic := pipes.Closure(func(_ context.Context, pc *pipes.Context) error {
		flow, _ := pipes.Lookup[[]string](pc, "flow")
		return pc.PutMutable("flow", append(flow, "bacon"))
	})

	pc := newFlowContext(t)
	_, err := pipes.Chain(parent, dynamic, child).Call(context.Background(), pc)

	require.NoError(t, err)
	assert.Equal(t, []string{"Parent", "bacon", "Child"}, flowOf(t, pc))
	assert.Equal(t, pipes.ClosureName, dynamic.Name())
	assert.Empty(t, dynamic.Required())
	assert.Empty(t, dynamic.Provided())
}

func TestPipeline_CombinedPipes(t *testing.T) {
	t.Parallel()
	first := parent.Then(child)
	second := grandchild.Then(grandGrandchild)

	pc := newFlowContext(t)
	_, err := first.Then(second).Call(context.Background(), pc)

	require.NoError(t, err)
	assert.Equal(t, []string{"Parent", "Child", "Grandchild", "GrandGrandchild"}, flowOf(t, pc))
	assert.Equal(t, "Parent | Child | Grandchild | GrandGrandchild", first.Then(second).Name())
}

func TestPipeline_MissingCallMethod(t *testing.T) {
	t.Parallel()
	p := pipes.Chain(parent, child, noMethodPipe)
	require.ErrorIs(t, p.Err(), pipes.ErrMissingCallMethod)

	pc := newFlowContext(t)
	_, err := p.Call(context.Background(), pc)

	require.ErrorIs(t, err, pipes.ErrMissingCallMethod)
	assert.Empty(t, flowOf(t, pc), "no stage runs in a broken pipeline")
}

func TestPipeline_BrokenCombination(t *testing.T) {
	t.Parallel()
	second := noMethodPipe.Then(grandchild)
	p := parent.Then(child).Then(second)

	_, err := p.Call(context.Background(), newFlowContext(t))
	assert.ErrorIs(t, err, pipes.ErrMissingCallMethod)

	var nilPipe pipes.Pipe
	assert.ErrorIs(t, pipes.Chain(parent, nilPipe).Err(), pipes.ErrMissingCallMethod)
}

func TestPipeline_Associative(t *testing.T) {
	t.Parallel()
	cases := map[string]pipes.Pipe{
		"(A|B)|C":    parent.Then(child).Then(grandchild),
		"A|(B|C)":    parent.Then(child.Then(grandchild)),
		"(A|Halt)|C": parent.Then(haltingApple).Then(grandchild),
		"A|(Halt|C)": parent.Then(haltingApple.Then(grandchild)),
	}

	run := func(p pipes.Pipe) *pipes.Context {
		pc := newFlowContext(t)
		_, err := p.Call(context.Background(), pc)
		require.NoError(t, err)
		return pc
	}

	left, right := run(cases["(A|B)|C"]), run(cases["A|(B|C)"])
	assert.Equal(t, flowOf(t, left), flowOf(t, right))
	assert.Equal(t, left.Errors(), right.Errors())

	left, right = run(cases["(A|Halt)|C"]), run(cases["A|(Halt|C)"])
	assert.Equal(t, flowOf(t, left), flowOf(t, right))
	assert.Equal(t, left.Errors(), right.Errors())
	assert.Equal(t, []string{"Parent"}, flowOf(t, left))
}

func TestPipeline_StagesShareContext(t *testing.T) {
	t.Parallel()
	writer := pipes.Define("Writer", func(_ context.Context, h *pipes.Handle) error {
		return h.Add(pipes.Fields{"user": map[string]string{"name": "ann"}})
	}, pipes.Provide("user"))
	reader := pipes.Define("Reader", func(_ context.Context, h *pipes.Handle) error {
		user, _ := pipes.Lookup[map[string]string](h.Context(), "user")
		user["name"] = "bob"
		return h.Put("greeting", "hi "+user["name"])
	}, pipes.RequireKind("user", pipes.MapKind))

	pc, err := pipes.Run(context.Background(), writer.Then(reader), nil)
	require.NoError(t, err)

	user, _ := pipes.Lookup[map[string]string](pc, "user")
	assert.Equal(t, "ann", user["name"], "frozen value cannot be changed by a later stage")
	greeting, _ := pc.Get("greeting")
	assert.Equal(t, "hi bob", greeting)
}

func TestPipeline_OverrideInStageRaises(t *testing.T) {
	t.Parallel()
	grandChild := pipes.Define("GrandChild", func(_ context.Context, h *pipes.Handle) error {
		if err := h.Put("grandchild", 3); err != nil {
			return err
		}
		return h.Put("grandchild", 4)
	})

	pc, err := pipes.Run(context.Background(), grandChild, nil)
	require.ErrorIs(t, err, pipes.ErrPropertyOverride)
	v, _ := pc.Get("grandchild")
	assert.Equal(t, 3, v)
}

func TestRun_UsesContextOptions(t *testing.T) {
	t.Parallel()
	hooks := &countingHooks{}
	ctx := pipes.WithContextOptions(context.Background(),
		pipes.WithHooks(hooks),
		pipes.Mutable(pipes.Fields{"flow": []string{}}))

	pc, err := pipes.Run(ctx, parent.Then(child), pipes.Fields{"user": "ann"})

	require.NoError(t, err)
	assert.Equal(t, []string{"Parent", "Child"}, flowOf(t, pc))
	assert.Equal(t, 2, hooks.started)
	assert.Equal(t, 2, hooks.succeeded)
	assert.Len(t, pipes.GetContextOptions(ctx), 2)
}

func TestRun_InitialOverride(t *testing.T) {
	t.Parallel()
	ctx := pipes.WithContextOptions(context.Background(), pipes.Mutable(pipes.Fields{"user": "bob"}))
	_, err := pipes.Run(ctx, parent, pipes.Fields{"user": "ann"})
	assert.ErrorIs(t, err, pipes.ErrPropertyOverride)
}

type countingHooks struct {
	started, succeeded int
}

func (c *countingHooks) OnStart(ctx context.Context, _ *pipes.Context, _ pipes.StageRef) context.Context {
	c.started++
	return ctx
}

func (c *countingHooks) OnSuccess(context.Context, *pipes.Context, pipes.StageRef) {
	c.succeeded++
}
