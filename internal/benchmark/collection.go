package benchmark

import (
	"container/list"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strconv"
	"time"
)

// DefaultCollectionSizes are the element counts measured per collection.
var DefaultCollectionSizes = []int{10, 100, 1_000, 10_000, 100_000}

// item is the element stored in measured collections.
type item struct {
	id   string
	n    int
	tags [2]string
}

func randomItem(rng *rand.Rand) item {
	return item{
		id:   strconv.FormatUint(rng.Uint64(), 16),
		n:    rng.IntN(1 << 31),
		tags: [2]string{strconv.FormatUint(rng.Uint64(), 16), strconv.FormatUint(rng.Uint64(), 16)},
	}
}

func randomItems(rng *rand.Rand, n int) []item {
	items := make([]item, n)
	for i := range items {
		items[i] = randomItem(rng)
	}
	return items
}

// collection is the capability every measured container has.
type collection interface {
	Name() string
	Reset(data []item)
	Len() int
	Add(v item)
	Remove(v item) bool
	Contains(v item) bool
	Browse() int
}

// sequence is an ordered, indexable collection.
type sequence interface {
	collection
	AddBegin(v item)
	Insert(i int, v item)
	RemoveBegin() item
	RemoveEnd() item
	Get(i int) item
}

var collections = map[string]func() collection{
	"slice":      func() collection { return &sliceSeq{} },
	"linkedlist": func() collection { return &linkedSeq{l: list.New()} },
	"ring":       func() collection { return &ringSeq{} },
	"mapset":     func() collection { return &mapSet{} },
}

// CollectionNames returns the measured collections in display order.
func CollectionNames() []string {
	return []string{"slice", "linkedlist", "ring", "mapset"}
}

type collectionOp struct {
	name  string
	input func(c collection, rng *rand.Rand, data []item) any
	run   func(c collection, in any) any
}

func pickItem(_ collection, rng *rand.Rand, data []item) any { return data[rng.IntN(len(data))] }

func newItem(_ collection, rng *rand.Rand, _ []item) any { return randomItem(rng) }

var collectionOps = []collectionOp{
	{"addBegin", newItem, func(c collection, in any) any {
		c.(sequence).AddBegin(in.(item)) //nolint:errcheck,forcetypeassert // checked by supports
		return c
	}},
	{"addEnd", newItem, func(c collection, in any) any {
		c.Add(in.(item)) //nolint:errcheck,forcetypeassert // input built by newItem
		return c
	}},
	{"addRandom", func(c collection, rng *rand.Rand, _ []item) any { return rng.IntN(c.Len() + 1) },
		func(c collection, in any) any {
			c.(sequence).Insert(in.(int), item{id: "inserted"}) //nolint:errcheck,forcetypeassert // checked by supports
			return c
		}},
	{"removeBegin", nil, func(c collection, _ any) any {
		return c.(sequence).RemoveBegin() //nolint:errcheck,forcetypeassert // checked by supports
	}},
	{"removeEnd", nil, func(c collection, _ any) any {
		return c.(sequence).RemoveEnd() //nolint:errcheck,forcetypeassert // checked by supports
	}},
	{"removeRandom", pickItem, func(c collection, in any) any {
		return c.Remove(in.(item)) //nolint:errcheck,forcetypeassert // input built by pickItem
	}},
	{"getRandom", func(c collection, rng *rand.Rand, _ []item) any { return rng.IntN(c.Len()) },
		func(c collection, in any) any {
			return c.(sequence).Get(in.(int)) //nolint:errcheck,forcetypeassert // checked by supports
		}},
	{"contains", pickItem, func(c collection, in any) any {
		return c.Contains(in.(item)) //nolint:errcheck,forcetypeassert // input built by pickItem
	}},
	{"fullBrowse", nil, func(c collection, _ any) any {
		return c.Browse()
	}},
}

// sequenceOnly lists operations that need positions.
var sequenceOnly = map[string]bool{
	"addBegin": true, "addRandom": true, "removeBegin": true, "removeEnd": true, "getRandom": true,
}

func (op collectionOp) supports(c collection) bool {
	if !sequenceOnly[op.name] {
		return true
	}
	_, ok := c.(sequence)
	return ok
}

// CollectionSuiteConfig selects what RunCollectionSuite measures.
type CollectionSuiteConfig struct {
	Collections []string
	// Methods restricts the operations run; empty means all.
	Methods []string
	Sizes   []int
	Runs    []Run
	Seed    uint64
	Logger  *slog.Logger
}

// CollectionMethodNames returns the collection operations in run order.
func CollectionMethodNames() []string {
	names := make([]string, len(collectionOps))
	for i, op := range collectionOps {
		names[i] = op.name
	}
	return names
}

// RunCollectionSuite measures each operation on each collection and size.
// Every iteration starts from the same baseline contents.
func RunCollectionSuite(cfg CollectionSuiteConfig) ([]CollectionEntry, error) {
	log := orDefault(cfg.Logger)
	rng := seeded(cfg.Seed)

	var entries []CollectionEntry
	for _, name := range cfg.Collections {
		mk, ok := collections[name]
		if !ok {
			return entries, fmt.Errorf("unknown collection %q (valid: %v)", name, CollectionNames())
		}
		for _, size := range cfg.Sizes {
			if size < 1 {
				return entries, fmt.Errorf("collection size %d is below 1", size)
			}
			data := randomItems(rng, size)
			for _, op := range collectionOps {
				c := mk()
				if !op.supports(c) || (len(cfg.Methods) > 0 && !slices.Contains(cfg.Methods, op.name)) {
					continue
				}
				for _, run := range cfg.Runs {
					avg, err := runCollectionOp(c, op, data, run, rng, log)
					if err != nil {
						return entries, err
					}
					entries = append(entries, CollectionEntry{
						Method:     op.name,
						Collection: c.Name(),
						WarmUp:     run.WarmUp,
						Tests:      run.Tests,
						Size:       size,
						AvgTime:    avg,
					})
				}
			}
		}
	}
	return entries, nil
}

func runCollectionOp(c collection, op collectionOp, data []item, run Run, rng *rand.Rand,
	log *slog.Logger,
) (avg time.Duration, err error) {
	b, err := New(Config[any, any]{
		WarmUpIterations:    run.WarmUp,
		TestCaseIterations:  run.Tests,
		BeforeEachIteration: func() { c.Reset(data) },
		DataProvider: func(int) any {
			if op.input == nil {
				return nil
			}
			return op.input(c, rng, data)
		},
		UnitOfWork: func(in any, _ *Iteration) any { return op.run(c, in) },
		Rand:       rng,
		Logger:     log,
	})
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", c.Name(), op.name, err)
	}
	avg = b.Run()
	log.Debug("collection op done", "collection", c.Name(), "method", op.name, "size", len(data), "avg", avg)
	return avg, nil
}

type sliceSeq struct {
	s []item
}

func (*sliceSeq) Name() string { return "slice" }

func (c *sliceSeq) Reset(data []item) {
	c.s = append(c.s[:0], data...)
}

func (c *sliceSeq) Len() int { return len(c.s) }

func (c *sliceSeq) Add(v item) { c.s = append(c.s, v) }

func (c *sliceSeq) AddBegin(v item) { c.s = slices.Insert(c.s, 0, v) }

func (c *sliceSeq) Insert(i int, v item) { c.s = slices.Insert(c.s, i, v) }

func (c *sliceSeq) RemoveBegin() item {
	v := c.s[0]
	c.s = slices.Delete(c.s, 0, 1)
	return v
}

func (c *sliceSeq) RemoveEnd() item {
	v := c.s[len(c.s)-1]
	c.s = c.s[:len(c.s)-1]
	return v
}

func (c *sliceSeq) Remove(v item) bool {
	i := slices.Index(c.s, v)
	if i < 0 {
		return false
	}
	c.s = slices.Delete(c.s, i, i+1)
	return true
}

func (c *sliceSeq) Get(i int) item { return c.s[i] }

func (c *sliceSeq) Contains(v item) bool { return slices.Contains(c.s, v) }

func (c *sliceSeq) Browse() int {
	n := 0
	for _, v := range c.s {
		n += v.n & 1
	}
	return n
}

type linkedSeq struct {
	l *list.List
}

func (*linkedSeq) Name() string { return "linkedlist" }

func (c *linkedSeq) Reset(data []item) {
	c.l.Init()
	for _, v := range data {
		c.l.PushBack(v)
	}
}

func (c *linkedSeq) Len() int { return c.l.Len() }

func (c *linkedSeq) Add(v item) { c.l.PushBack(v) }

func (c *linkedSeq) AddBegin(v item) { c.l.PushFront(v) }

func (c *linkedSeq) Insert(i int, v item) {
	if i >= c.l.Len() {
		c.l.PushBack(v)
		return
	}
	c.l.InsertBefore(v, c.at(i))
}

func (c *linkedSeq) RemoveBegin() item {
	return c.l.Remove(c.l.Front()).(item) //nolint:errcheck,revive // list only holds item
}

func (c *linkedSeq) RemoveEnd() item {
	return c.l.Remove(c.l.Back()).(item) //nolint:errcheck,revive // list only holds item
}

func (c *linkedSeq) Remove(v item) bool {
	for e := c.l.Front(); e != nil; e = e.Next() {
		if e.Value.(item) == v { //nolint:errcheck,revive // list only holds item
			c.l.Remove(e)
			return true
		}
	}
	return false
}

func (c *linkedSeq) Get(i int) item {
	return c.at(i).Value.(item) //nolint:errcheck,revive // list only holds item
}

// at walks from the nearer end.
func (c *linkedSeq) at(i int) *list.Element {
	if i < c.l.Len()/2 {
		e := c.l.Front()
		for range i {
			e = e.Next()
		}
		return e
	}
	e := c.l.Back()
	for range c.l.Len() - 1 - i {
		e = e.Prev()
	}
	return e
}

func (c *linkedSeq) Contains(v item) bool {
	for e := c.l.Front(); e != nil; e = e.Next() {
		if e.Value.(item) == v { //nolint:errcheck,revive // list only holds item
			return true
		}
	}
	return false
}

func (c *linkedSeq) Browse() int {
	n := 0
	for e := c.l.Front(); e != nil; e = e.Next() {
		n += e.Value.(item).n & 1 //nolint:errcheck,revive // list only holds item
	}
	return n
}

// ringSeq is a growable ring buffer.
type ringSeq struct {
	buf   []item
	head  int
	count int
}

func (*ringSeq) Name() string { return "ring" }

func (c *ringSeq) Reset(data []item) {
	if cap(c.buf) < len(data)*2 {
		c.buf = make([]item, len(data)*2)
	}
	c.buf = c.buf[:cap(c.buf)]
	copy(c.buf, data)
	c.head = 0
	c.count = len(data)
}

func (c *ringSeq) Len() int { return c.count }

func (c *ringSeq) idx(i int) int { return (c.head + i) % len(c.buf) }

func (c *ringSeq) grow() {
	if c.count < len(c.buf) {
		return
	}
	buf := make([]item, max(len(c.buf)*2, 8))
	for i := range c.count {
		buf[i] = c.buf[c.idx(i)]
	}
	c.buf = buf
	c.head = 0
}

func (c *ringSeq) Add(v item) {
	c.grow()
	c.buf[c.idx(c.count)] = v
	c.count++
}

func (c *ringSeq) AddBegin(v item) {
	c.grow()
	c.head = (c.head - 1 + len(c.buf)) % len(c.buf)
	c.buf[c.head] = v
	c.count++
}

func (c *ringSeq) Insert(i int, v item) {
	c.Add(v)
	for j := c.count - 1; j > i; j-- {
		c.buf[c.idx(j)] = c.buf[c.idx(j-1)]
	}
	c.buf[c.idx(i)] = v
}

func (c *ringSeq) RemoveBegin() item {
	v := c.buf[c.head]
	c.buf[c.head] = item{}
	c.head = c.idx(1)
	c.count--
	return v
}

func (c *ringSeq) RemoveEnd() item {
	last := c.idx(c.count - 1)
	v := c.buf[last]
	c.buf[last] = item{}
	c.count--
	return v
}

func (c *ringSeq) Remove(v item) bool {
	for i := range c.count {
		if c.buf[c.idx(i)] != v {
			continue
		}
		for j := i; j < c.count-1; j++ {
			c.buf[c.idx(j)] = c.buf[c.idx(j+1)]
		}
		c.RemoveEnd()
		return true
	}
	return false
}

func (c *ringSeq) Get(i int) item { return c.buf[c.idx(i)] }

func (c *ringSeq) Contains(v item) bool {
	for i := range c.count {
		if c.buf[c.idx(i)] == v {
			return true
		}
	}
	return false
}

func (c *ringSeq) Browse() int {
	n := 0
	for i := range c.count {
		n += c.buf[c.idx(i)].n & 1
	}
	return n
}

type mapSet struct {
	m map[item]struct{}
}

func (*mapSet) Name() string { return "mapset" }

func (c *mapSet) Reset(data []item) {
	if c.m == nil {
		c.m = make(map[item]struct{}, len(data))
	}
	clear(c.m)
	for _, v := range data {
		c.m[v] = struct{}{}
	}
}

func (c *mapSet) Len() int { return len(c.m) }

func (c *mapSet) Add(v item) { c.m[v] = struct{}{} }

func (c *mapSet) Remove(v item) bool {
	_, ok := c.m[v]
	delete(c.m, v)
	return ok
}

func (c *mapSet) Contains(v item) bool {
	_, ok := c.m[v]
	return ok
}

func (c *mapSet) Browse() int {
	n := 0
	for v := range c.m {
		n += v.n & 1
	}
	return n
}
