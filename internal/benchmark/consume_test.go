package benchmark

import (
	"bytes"
	"container/list"
	"log/slog"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsumeLogsNil(t *testing.T) {
	var buf bytes.Buffer
	c := &consumer{
		rng: rand.New(rand.NewPCG(1, 2)),
		log: slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})),
	}
	var p *int
	var m map[string]int
	c.consume(nil)
	c.consume(p)
	c.consume(m)
	assert.Equal(t, 3, bytes.Count(buf.Bytes(), []byte("consumed nil result")))
}

func TestConsumeNeverPanics(t *testing.T) {
	type inner struct {
		name string
		vals []int
	}
	type outer struct {
		in    inner
		ptr   *inner
		any   any
		arr   [3]float64
		fn    func()
		ch    chan int
		flag  bool
		small uint8
	}
	c := &consumer{rng: rand.New(rand.NewPCG(3, 4)), log: quietLogger()}
	values := []any{
		"s", []byte("b"), 1, true, 3.5, uint16(7), list.New(),
		[]string{"a"}, map[int]int{1: 2}, [2]int{1, 2}, make(chan int),
		outer{in: inner{name: "x"}, any: outer{}, fn: func() {}},
		&outer{}, struct{}{}, complex(1, 2),
	}
	for _, v := range values {
		assert.NotPanics(t, func() { c.consume(v) }, "%T", v)
	}
}

func TestFingerprint(t *testing.T) {
	tests := []struct {
		name  string
		v     any
		sized bool
		size  int
	}{
		{name: "string", v: "hello", sized: false},
		{name: "bytes", v: []byte("hello"), sized: true, size: 5},
		{name: "slice", v: []int{1, 2, 3}, sized: true, size: 3},
		{name: "map", v: map[string]bool{"a": true}, sized: true, size: 1},
		{name: "list", v: func() *list.List { l := list.New(); l.PushBack(1); return l }(), sized: true, size: 1},
		{name: "int", v: 12, sized: false},
		{name: "struct", v: struct{ A, B int }{1, 2}, sized: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, size, sized := fingerprint(tt.v)
			assert.Equal(t, tt.sized, sized)
			assert.Equal(t, tt.size, size)
		})
	}

	a, _, _ := fingerprint("same")
	b, _, _ := fingerprint("same")
	assert.Equal(t, a, b)
	x, _, _ := fingerprint(struct{ A, B int }{1, 2})
	y, _, _ := fingerprint(struct{ A, B int }{2, 1})
	assert.NotEqual(t, x, y)
}
