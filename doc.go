// Package buscenter 提供 bus center 客户端
//
// Client 管理本地应用包发起的入网、退网和时间同步请求，
// 并把服务端回送的异步结果和拓扑事件分发给已注册的监听器。
// 监听器回调从不在注册表锁内执行，可以在回调中重新调用 Client。
//
// # 快速开始
//
//	client, err := buscenter.New(
//	    buscenter.WithServer(server),
//	)
//	if err != nil {
//	    return err
//	}
//	if err := client.Start(ctx); err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	if err := client.InitPackage("com.example.app"); err != nil {
//	    return err
//	}
//	addr := buscenter.NewWLANAddr("10.0.0.5", 6000)
//	err = client.JoinLNN(ctx, "com.example.app", &addr,
//	    buscenter.JoinResultFunc(func(addr *buscenter.ConnectionAddr, networkID string, code int32) {
//	        // 处理入网结果
//	    }))
//
// # 服务端回送
//
// 服务端通过 Client.Notifier() 返回的 Notifier 回送结果：
// 入网/退网结果按请求一次性送达，送达后登记即被移除；
// 时间同步结果在 StopTimeSync 之前会持续送达；
// 拓扑事件按注册时的事件掩码过滤。
//
// # 错误处理
//
// 所有错误都可以用 errors.Is 与本包导出的哨兵错误比较。
package buscenter
