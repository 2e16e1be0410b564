package mine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procdiff/procdiff/internal/eventlog"
)

// logFromTraces builds a log with one event per activity, sequenced in
// trace order.
func logFromTraces(name string, traces ...[]string) *eventlog.Log {
	log := &eventlog.Log{Name: name}
	for c, trace := range traces {
		for i, act := range trace {
			log.Events = append(log.Events, eventlog.Event{
				CaseID:   string(rune('a' + c)),
				Seq:      int64(i),
				Activity: act,
			})
		}
	}
	return log
}

func TestDiscover_SingleTrace(t *testing.T) {
	log := logFromTraces("t", []string{"register", "approve", "ship"})

	m, err := Discover(log)
	require.NoError(t, err)

	assert.Equal(t, []string{EndActivity, StartActivity, "approve", "register", "ship"}, m.Activities())

	f, ok := m.Frequency("register")
	require.True(t, ok)
	assert.Equal(t, int64(1), f)

	f, _ = m.Frequency(StartActivity)
	assert.Equal(t, int64(1), f)

	assert.True(t, m.HasEdge(StartActivity, "register"))
	assert.True(t, m.HasEdge("register", "approve"))
	assert.True(t, m.HasEdge("approve", "ship"))
	assert.True(t, m.HasEdge("ship", EndActivity))
	assert.Equal(t, 4, m.EdgeCount())
}

func TestDiscover_FrequenciesAccumulate(t *testing.T) {
	log := logFromTraces("t",
		[]string{"register", "approve", "ship"},
		[]string{"register", "approve", "ship"},
		[]string{"register", "reject"},
	)

	m, err := Discover(log)
	require.NoError(t, err)

	f, _ := m.Frequency("register")
	assert.Equal(t, int64(3), f)
	f, _ = m.Frequency("approve")
	assert.Equal(t, int64(2), f)
	f, _ = m.Frequency(StartActivity)
	assert.Equal(t, int64(3), f, "sentinel frequency is the trace count")
	f, _ = m.Frequency(EndActivity)
	assert.Equal(t, int64(3), f)

	ef, ok := m.EdgeFrequency("register", "approve")
	require.True(t, ok)
	assert.Equal(t, int64(2), ef)
	ef, _ = m.EdgeFrequency("register", "reject")
	assert.Equal(t, int64(1), ef)
	ef, _ = m.EdgeFrequency(StartActivity, "register")
	assert.Equal(t, int64(3), ef)
}

func TestDiscover_SelfLoop(t *testing.T) {
	log := logFromTraces("t", []string{"retry", "retry", "done"})

	m, err := Discover(log)
	require.NoError(t, err)

	ef, ok := m.EdgeFrequency("retry", "retry")
	require.True(t, ok)
	assert.Equal(t, int64(1), ef)
	f, _ := m.Frequency("retry")
	assert.Equal(t, int64(2), f)
}

func TestDiscover_EmptyLog(t *testing.T) {
	_, err := Discover(&eventlog.Log{Name: "empty"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyLog)
}

func TestEdges_Deterministic(t *testing.T) {
	log := logFromTraces("t", []string{"b", "a", "c"})

	m, err := Discover(log)
	require.NoError(t, err)

	want := []EdgeKey{
		{Source: StartActivity, Target: "b"},
		{Source: "a", Target: "c"},
		{Source: "b", Target: "a"},
		{Source: "c", Target: EndActivity},
	}
	assert.Equal(t, want, m.Edges())
}

func TestFromGraph(t *testing.T) {
	in := GraphInput{
		Activities:  []string{StartActivity, EndActivity, "a"},
		Frequencies: map[string]int64{StartActivity: 1, EndActivity: 1, "a": 1},
		Edges: []EdgeKey{
			{Source: StartActivity, Target: "a"},
			{Source: "a", Target: EndActivity},
		},
		EdgeFrequencies: map[EdgeKey]int64{
			{Source: StartActivity, Target: "a"}: 1,
			{Source: "a", Target: EndActivity}:   1,
		},
	}

	m, err := FromGraph(in)
	require.NoError(t, err)
	assert.Equal(t, 3, m.NodeCount())
	assert.Equal(t, 2, m.EdgeCount())
}

func TestFromGraph_FailsFast(t *testing.T) {
	base := func() GraphInput {
		return GraphInput{
			Activities:      []string{"a"},
			Frequencies:     map[string]int64{"a": 1},
			Edges:           []EdgeKey{},
			EdgeFrequencies: map[EdgeKey]int64{},
		}
	}

	t.Run("missing field", func(t *testing.T) {
		in := base()
		in.Frequencies = nil
		_, err := FromGraph(in)
		assert.ErrorContains(t, err, "required")
	})

	t.Run("missing node frequency", func(t *testing.T) {
		in := base()
		in.Activities = append(in.Activities, "b")
		_, err := FromGraph(in)
		assert.ErrorContains(t, err, `"b" has no frequency`)
	})

	t.Run("missing edge frequency", func(t *testing.T) {
		in := base()
		in.Edges = append(in.Edges, EdgeKey{Source: "a", Target: "a"})
		_, err := FromGraph(in)
		assert.ErrorContains(t, err, "has no frequency")
	})

	t.Run("negative frequency", func(t *testing.T) {
		in := base()
		in.Frequencies["a"] = -2
		_, err := FromGraph(in)
		assert.ErrorContains(t, err, "negative")
	})
}
