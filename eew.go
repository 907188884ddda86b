// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package concurrent

import (
	"runtime"

	"code.hybscloud.com/atomix"
)

// EEW (Enter/Exit/Wait) counts active readers for LeftRight and lets a
// writer wait for them to drain. Enter/Exit must never block; WaitEmpty may
// spin.
type EEW interface {
	Enter()
	Exit()
	WaitEmpty()
}

// CounterEEW is a dual-accumulator EEW: Enter/Exit each bump one of two
// shared counters, and WaitEmpty spins until they agree. Simple, and cheap
// for low reader concurrency, at the cost of the two counters sharing
// contention across all reader goroutines.
type CounterEEW struct {
	_      pad
	enters atomix.Uint64
	_      pad
	exits  atomix.Uint64
	_      pad
}

// NewCounterEEW creates a ready-to-use CounterEEW.
func NewCounterEEW() *CounterEEW {
	return &CounterEEW{}
}

func (c *CounterEEW) Enter() { c.enters.AddAcqRel(1) }
func (c *CounterEEW) Exit()  { c.exits.AddAcqRel(1) }

func (c *CounterEEW) WaitEmpty() {
	for c.exits.LoadAcquire() != c.enters.LoadAcquire() {
		runtime.Gosched()
	}
}

// eewShardCount is the number of independent counters ShardedEEW stripes
// reader traffic across; a goroutine is mapped to a shard by hashing its
// goroutine ID, so unrelated readers rarely contend on the same cache line.
const eewShardCount = 32

type eewShard struct {
	_  pad
	in atomix.Int32
	_  padShort
}

// ShardedEEW is a padded, per-shard EEW: each reader's Enter/Exit touches a
// shard selected by its goroutine ID, trading CounterEEW's single hot
// cacheline for a fixed table sized to avoid most false sharing. This is
// the closest Go analogue to a per-thread registry, since Go has no
// ThreadLocal.
type ShardedEEW struct {
	shards [eewShardCount]eewShard
}

// NewShardedEEW creates a ready-to-use ShardedEEW.
func NewShardedEEW() *ShardedEEW {
	return &ShardedEEW{}
}

func (s *ShardedEEW) shard() *eewShard {
	mask := uint64(roundToPow2(eewShardCount) - 1)
	return &s.shards[getGoroutineID()&mask]
}

func (s *ShardedEEW) Enter() { s.shard().in.AddAcqRel(1) }
func (s *ShardedEEW) Exit()  { s.shard().in.AddAcqRel(-1) }

func (s *ShardedEEW) WaitEmpty() {
	for i := range s.shards {
		for s.shards[i].in.LoadAcquire() > 0 {
			runtime.Gosched()
		}
	}
}
