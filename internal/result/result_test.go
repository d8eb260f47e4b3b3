package result

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(pairs ...[2]string) Result {
	r := make(Result)
	for _, p := range pairs {
		r.Add(p[0], p[1])
	}
	return r
}

func TestResult_AddDedupes(t *testing.T) {
	r := make(Result)
	r.Add("apple", "a.txt")
	r.Add("apple", "a.txt")
	r.Add("apple", "b.txt")

	assert.Equal(t, []string{"a.txt", "b.txt"}, r.Files("apple"))
	assert.True(t, r.Has("apple", "a.txt"))
	assert.False(t, r.Has("pear", "a.txt"))
}

func TestResult_Words(t *testing.T) {
	r := build([2]string{"pear", "x"}, [2]string{"apple", "y"})
	assert.Equal(t, []string{"apple", "pear"}, r.Words())
}

func TestResult_JSON(t *testing.T) {
	r := build([2]string{"banana", "b.txt"}, [2]string{"banana", "a.txt"}, [2]string{"apple", "a.txt"})

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"apple":["a.txt"],"banana":["a.txt","b.txt"]}`, string(data))

	var decoded Result
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, r.Equal(decoded))
}

func TestResult_UnmarshalDropsEmptyWords(t *testing.T) {
	var r Result
	require.NoError(t, json.Unmarshal([]byte(`{"apple":[],"pear":["p.txt"]}`), &r))
	assert.Equal(t, []string{"pear"}, r.Words())
}

func TestResult_Equal(t *testing.T) {
	a := build([2]string{"apple", "a"}, [2]string{"banana", "b"})

	assert.True(t, a.Equal(build([2]string{"banana", "b"}, [2]string{"apple", "a"})))
	assert.False(t, a.Equal(build([2]string{"apple", "a"})))
	assert.False(t, a.Equal(build([2]string{"apple", "a"}, [2]string{"banana", "c"})))
	assert.True(t, Result{}.Equal(nil))
}

func TestMerge_Unions(t *testing.T) {
	p1 := build([2]string{"apple", "file_0.txt"}, [2]string{"banana", "file_0.txt"})
	p2 := build([2]string{"banana", "file_1.txt"})

	got := Merge(p1, p2)

	assert.Equal(t, []string{"apple", "banana"}, got.Words())
	assert.Equal(t, []string{"file_0.txt"}, got.Files("apple"))
	assert.Equal(t, []string{"file_0.txt", "file_1.txt"}, got.Files("banana"))
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	p1 := build([2]string{"apple", "a"})
	p2 := build([2]string{"apple", "b"})

	_ = Merge(p1, p2)

	assert.Equal(t, []string{"a"}, p1.Files("apple"))
	assert.Equal(t, []string{"b"}, p2.Files("apple"))
}

func TestMerge_OmitsEmptySets(t *testing.T) {
	got := Merge(Result{"durian": FileSet{}}, nil)
	assert.Empty(t, got)
}

func TestMerge_AssociativeAndCommutative(t *testing.T) {
	a := build([2]string{"w1", "f1"}, [2]string{"w2", "f2"})
	b := build([2]string{"w1", "f3"})
	c := build([2]string{"w2", "f2"}, [2]string{"w3", "f4"})

	flat := Merge(a, b, c)

	assert.True(t, flat.Equal(Merge(Merge(a, b), c)))
	assert.True(t, flat.Equal(Merge(a, Merge(b, c))))
	assert.True(t, flat.Equal(Merge(c, a, b)))
	assert.True(t, flat.Equal(Merge(Merge(c, b), a)))
}

func TestMerge_Identity(t *testing.T) {
	a := build([2]string{"w", "f"})
	assert.True(t, a.Equal(Merge(a, Result{})))
	assert.Empty(t, Merge())
}

func TestMergePartials(t *testing.T) {
	partials := []Partial{
		{Matches: build([2]string{"apple", "a"}), Failures: []Failure{{Path: "bad", Error: "boom"}}},
		{Matches: build([2]string{"apple", "b"})},
	}

	got, failures := MergePartials(partials)

	assert.Equal(t, []string{"a", "b"}, got.Files("apple"))
	require.Len(t, failures, 1)
	assert.Equal(t, "bad", failures[0].Path)
}
