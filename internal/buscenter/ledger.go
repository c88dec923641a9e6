package buscenter

import (
	"fmt"
	"reflect"
	"slices"
	"time"
	"unsafe"

	"github.com/google/uuid"

	pkgif "github.com/dep2p/go-buscenter/pkg/interfaces"
	"github.com/dep2p/go-buscenter/pkg/types"
)

// ============================================================================
//                              请求账本
// ============================================================================

// ledger 有序登记列表
//
// 新登记追加在切片尾部，逻辑上的"表头"即切片尾部：
// find 从最新登记开始扫描，snapshot 按登记先后顺序复制。
type ledger[E any] struct {
	entries []E
}

// push 在表头插入登记
func (l *ledger[E]) push(e E) {
	l.entries = append(l.entries, e)
}

// find 从表头开始查找第一个匹配项，未找到返回 -1
func (l *ledger[E]) find(match func(*E) bool) int {
	for i := len(l.entries) - 1; i >= 0; i-- {
		if match(&l.entries[i]) {
			return i
		}
	}
	return -1
}

// removeAt 摘除并返回指定位置的登记
func (l *ledger[E]) removeAt(i int) E {
	e := l.entries[i]
	l.entries = slices.Delete(l.entries, i, i+1)
	return e
}

// snapshot 复制所有匹配项，按登记先后顺序排列
func (l *ledger[E]) snapshot(match func(*E) bool) []E {
	var out []E
	for i := range l.entries {
		if match == nil || match(&l.entries[i]) {
			out = append(out, l.entries[i])
		}
	}
	return out
}

// clear 清空账本
func (l *ledger[E]) clear() {
	clear(l.entries)
	l.entries = l.entries[:0]
}

// len 返回登记数
func (l *ledger[E]) len() int {
	return len(l.entries)
}

// joinEntry 入网请求登记
type joinEntry struct {
	id        uuid.UUID
	addr      types.ConnectionAddr
	listener  pkgif.JoinResultListener
	createdAt time.Time
}

// leaveEntry 退网请求登记
type leaveEntry struct {
	id        uuid.UUID
	networkID string
	listener  pkgif.LeaveResultListener
	createdAt time.Time
}

// timeSyncEntry 时间同步请求登记
type timeSyncEntry struct {
	id        uuid.UUID
	networkID string
	accuracy  types.TimeSyncAccuracy
	period    types.TimeSyncPeriod
	listener  pkgif.TimeSyncResultListener
	createdAt time.Time
}

// newEntryID 分配登记 ID
func newEntryID() (uuid.UUID, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", ErrAllocationFailure, err)
	}
	return id, nil
}

// copyNetworkID 复制网络 ID，超出容量直接报错，不截断
func copyNetworkID(networkID string) (string, error) {
	if len(networkID) >= types.NetworkIDBufLen {
		return "", fmt.Errorf("%w: network ID is %d bytes", ErrKeyTooLong, len(networkID))
	}
	return networkID, nil
}

// sameListener 判断两个监听器是否为同一个
//
// 动态类型必须相同；可比较类型用 ==，函数类型比较函数值本身（闭包对象地址），
// 其余不可比较类型视为不同。
//
// 不同接收者上的方法值、同一工厂返回的不同闭包共享代码指针，
// 因此不能用 reflect.Value.Pointer 判断。
func sameListener(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		return a == b
	}
	if ta.Kind() == reflect.Func {
		return funcValueWord(a) == funcValueWord(b)
	}
	return false
}

// funcValueWord 返回函数值所指向的闭包对象地址
//
// 函数值在内存中是单个指针字，指向 {代码指针, 捕获变量...}。
// 同一次求值得到的函数值地址相同，不同闭包或不同接收者的方法值地址不同。
func funcValueWord(f any) unsafe.Pointer {
	v := reflect.ValueOf(f)
	p := reflect.New(v.Type())
	p.Elem().Set(v)
	return *(*unsafe.Pointer)(p.UnsafePointer())
}

// isNilListener 判断监听器是否为空（包括带类型的空指针和空函数）
func isNilListener(l any) bool {
	if l == nil {
		return true
	}
	v := reflect.ValueOf(l)
	switch v.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Map, reflect.Slice, reflect.Chan, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}
