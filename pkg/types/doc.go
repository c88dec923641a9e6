// Package types 定义 bus center 客户端的公共数据结构
//
// 这是最底层包，不依赖任何内部包。所有类型都是纯值类型。
//
// # 文件组织
//
//   - address.go  - ConnectionAddr 地址变体及匹配规则
//   - node.go     - NodeBasicInfo、信息变更类型、网络 ID / 包名校验
//   - timesync.go - 时间同步精度、周期、结果
//   - events.go   - 拓扑事件掩码
//   - errors.go   - 公共错误定义
package types
