// Package buscenter 实现 bus center 客户端的回调注册表与通知分发
//
// 注册表跟踪本地应用发起的入网、退网、时间同步请求，对重复请求去重，
// 并把远端服务异步回送的结果与拓扑变化分发给登记的监听器。
//
// # 并发模型
//
// 全部状态由一把互斥锁保护，监听器回调永远在锁外执行：
//   - 入网/退网结果：先在锁内摘除登记，释放锁后回调，再重新加锁继续查找
//   - 拓扑/时间同步通知：在锁内复制快照，释放锁后遍历快照回调
//
// 因此监听器可以在回调中重新进入注册表（发起新请求、注销自己）。
//
// # 文件组织
//
//   - registry.go     - Registry 结构、Init/Deinit、查找与登记
//   - ledger.go       - 请求账本（入网、退网、时间同步）
//   - subscription.go - 拓扑监听器表
//   - requests.go     - 请求 API
//   - dispatcher.go   - 入站通知分发
//   - metrics.go      - Prometheus 指标
//   - module.go       - Fx 模块
package buscenter
