package internal

import (
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	a := map[string]int{"A": 1}
	b := map[string]int{"B": 2, "C": 3}

	all := maps.Collect(Seq2Concat(maps.All(a), maps.All(b)))
	assert.Equal(map[string]int{"A": 1, "B": 2, "C": 3}, all)

	var count int
	for range Seq2Concat(maps.All(a), maps.All(b)) {
		count++
		break
	}
	assert.Equal(1, count)
}

func TestSeq2Sorted(t *testing.T) {
	assert := assert.New(t)

	a := map[string]string{"XLEN": "32", "A": "x"}
	b := map[string]string{"MEMORY_SIZE": "8096", "A": "y"}

	var keys []string
	var values []string
	for key, value := range Seq2Sorted(Seq2Concat(maps.All(a), maps.All(b))) {
		keys = append(keys, key)
		values = append(values, value)
	}

	assert.Equal([]string{"A", "MEMORY_SIZE", "XLEN"}, keys)
	assert.Equal("y", values[0])
	assert.True(slices.IsSorted(keys))
}
