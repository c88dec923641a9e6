package buscenter

import (
	"github.com/google/uuid"

	pkgif "github.com/dep2p/go-buscenter/pkg/interfaces"
	"github.com/dep2p/go-buscenter/pkg/types"
)

// ============================================================================
//                              拓扑监听器表
// ============================================================================

// subscription 拓扑监听器登记
type subscription struct {
	id       uuid.UUID
	listener pkgif.TopologyListener
	mask     types.EventMask
}

// subscriptionTable 有上限的拓扑监听器表
//
// 不变式：entries.len() == count <= max
type subscriptionTable struct {
	entries ledger[subscription]
	count   int
	max     int
}

// add 登记监听器，达到上限时拒绝
func (t *subscriptionTable) add(listener pkgif.TopologyListener, mask types.EventMask) error {
	if t.count >= t.max {
		return ErrSubscriptionLimitReached
	}
	id, err := newEntryID()
	if err != nil {
		return err
	}
	t.entries.push(subscription{id: id, listener: listener, mask: mask})
	t.count++
	return nil
}

// remove 注销至多一个匹配的监听器，返回是否找到
//
// 只按监听器匹配，不比较事件掩码：同一监听器以不同掩码登记多次时，
// 每次注销移除最新的一条。
func (t *subscriptionTable) remove(listener pkgif.TopologyListener) bool {
	i := t.entries.find(func(s *subscription) bool {
		return sameListener(s.listener, listener)
	})
	if i < 0 {
		return false
	}
	t.entries.removeAt(i)
	t.count--
	return true
}

// snapshot 复制整张表
func (t *subscriptionTable) snapshot() []subscription {
	return t.entries.snapshot(nil)
}

// reset 清空并设置新的上限
func (t *subscriptionTable) reset(limit int) {
	t.entries.clear()
	t.count = 0
	t.max = limit
}
