package lib

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSetAddReportsNewElements(t *testing.T) {
	s := NewSet("node")
	assert.Equal(t, 1, s.Add("node", "pt_node"))
	assert.Equal(t, 0, s.Add("pt_node"))
	assert.Equal(t, []string{"node", "pt_node"}, s.Sorted())
	assert.True(t, s.Contains("pt_node"))

	assert.Equal(t, 1, s.Remove("node", "missing"))
	assert.Equal(t, []string{"pt_node"}, s.Sorted())
}

func TestQueueFIFO(t *testing.T) {
	q := NewQueue[int]()
	_, ok := q.Dequeue()
	assert.False(t, ok)

	for i := 0; i < 3; i++ {
		q.Enqueue(i)
	}
	assert.Equal(t, 3, q.Size())

	for want := 0; want < 3; want++ {
		got, ok := q.Dequeue()
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, 0, q.Size())
}

func TestQueueConcurrentEnqueue(t *testing.T) {
	q := NewQueue[string]()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.Enqueue("x")
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, q.Size())
}

func TestNumbererFirstSeenOrder(t *testing.T) {
	n := NewNumberer()
	assert.Equal(t, 1, n.Number("0x10"))
	assert.Equal(t, 2, n.Number("0x20"))
	assert.Equal(t, 1, n.Number("0x10"))
	assert.Equal(t, 3, n.Number(""))
}

func TestDurationUnmarshal(t *testing.T) {
	var fromJson struct {
		D Duration `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"d": "1m30s"}`), &fromJson))
	assert.Equal(t, 90*time.Second, fromJson.D.Duration)

	require.NoError(t, json.Unmarshal([]byte(`{"d": 1000}`), &fromJson))
	assert.Equal(t, time.Microsecond, fromJson.D.Duration)

	assert.Error(t, json.Unmarshal([]byte(`{"d": true}`), &fromJson))

	var fromYaml struct {
		D Duration `yaml:"d"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("d: 5s\n"), &fromYaml))
	assert.Equal(t, 5*time.Second, fromYaml.D.Duration)

	assert.Error(t, yaml.Unmarshal([]byte("d: soon\n"), &fromYaml))
}

func TestParseSLogLevel(t *testing.T) {
	level, err := ParseSLogLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, "DEBUG", level.String())

	_, err = ParseSLogLevel("loud")
	assert.Error(t, err)
}
