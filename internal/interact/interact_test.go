package interact

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psidex/ptviz/internal/graph"
)

func TestReportDataIsExactlyTheAttributeMap(t *testing.T) {
	n, err := graph.NewNode(graph.Data{"id": "n1", "type": "PT_NODE", "name": "n1"})
	require.NoError(t, err)
	n.AddClass("node", "pt_node")
	n.SetPosition(graph.Position{X: 1, Y: 2})

	var out bytes.Buffer
	r := &Reporter{Out: &out, Mode: ModeData}
	require.NoError(t, r.Report(n))

	var got map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	want := map[string]any{"id": "n1", "type": "PT_NODE", "name": "n1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("reported data mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, byte('\n'), out.Bytes()[out.Len()-1])
}

func TestReportID(t *testing.T) {
	n, err := graph.NewNode(graph.Data{"id": "a", "type": "PT_NODE"})
	require.NoError(t, err)

	var out bytes.Buffer
	r := &Reporter{Out: &out, Mode: ModeID}
	require.NoError(t, r.Report(n))
	assert.Equal(t, "clicked a\n", out.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestReportErrors(t *testing.T) {
	n, err := graph.NewNode(graph.Data{"id": "a"})
	require.NoError(t, err)

	assert.Error(t, (&Reporter{Out: failingWriter{}, Mode: ModeID}).Report(n))
	assert.Error(t, (&Reporter{Out: &bytes.Buffer{}, Mode: "loud"}).Report(n))
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("id")
	require.NoError(t, err)
	assert.Equal(t, ModeID, m)

	_, err = ParseMode("everything")
	assert.Error(t, err)
}
