package hexagon

import (
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/hexcorn/hexcorn/go/logflags"
)

type tbCache struct {
	cache *lru.Cache
	log   *logrus.Entry
}

func newTBCache(size int) (*tbCache, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrapf(err, "tb cache of size %d", size)
	}
	return &tbCache{cache: cache, log: logflags.TBLogger()}, nil
}

func (t *tbCache) Get(pc uint32) (*TB, bool) {
	if v, ok := t.cache.Get(pc); ok {
		return v.(*TB), true
	}
	return nil, false
}

func (t *tbCache) Add(tb *TB) {
	if t.cache.Add(tb.PC, tb) {
		t.log.Debugf("evicted a block to make room for %#x", tb.PC)
	}
}

func (t *tbCache) Purge() {
	t.cache.Purge()
}

func (t *tbCache) Len() int {
	return t.cache.Len()
}

// lookupTB finds or compiles the block at pc.
func (c *Core) lookupTB(pc uint32) (*TB, error) {
	if tb, ok := c.tbs.Get(pc); ok {
		return tb, nil
	}
	if c.translator == nil {
		return nil, errors.Errorf("no translator for block at %#x", pc)
	}
	tb, err := c.translator.Translate(c, pc)
	if err != nil {
		return nil, errors.Wrapf(err, "translating block at %#x", pc)
	}
	if tb.PC != pc {
		return nil, errors.Errorf("translator returned block at %#x for %#x", tb.PC, pc)
	}
	c.tbs.log.Debugf("compiled block at %#x: %d insns, %d ops", pc, len(tb.Boundaries), len(tb.Ops))
	c.tbs.Add(tb)
	return tb, nil
}

// FlushTBs drops every compiled block, for callers that rewrite guest code.
func (c *Core) FlushTBs() {
	c.tbs.Purge()
}
