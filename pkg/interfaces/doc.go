// Package interfaces 定义 bus center 客户端的公共接口
//
// # 监听器
//
// 应用实现以下接口接收异步结果，每个接口都有对应的函数适配器：
//   - JoinResultListener / JoinResultFunc         - 入网结果（一次性）
//   - LeaveResultListener / LeaveResultFunc       - 退网结果（一次性）
//   - TimeSyncResultListener / TimeSyncResultFunc - 时间同步结果（持续到停止）
//   - TopologyListener                            - 节点上线、下线、信息变更
//
// # 服务端边界
//
//   - ServerProxy - 客户端调用的远端服务代理
//   - Notifier    - 远端服务回送结果的入口，由注册表实现
package interfaces
