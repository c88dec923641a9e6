// Package main 提供 bus center 模拟器命令行入口
//
// 模拟器在进程内启动一个模拟 LNN 服务端，驱动 bus center 客户端完成
// 入网、时间同步和拓扑监听，并通过 /metrics 暴露客户端指标。
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dep2p/go-buscenter"
	"github.com/dep2p/go-buscenter/config"
	"github.com/dep2p/go-buscenter/pkg/lib/log"
	"github.com/dep2p/go-buscenter/pkg/types"
)

var logger = log.Logger("buscenter/sim")

const simPkg = "com.buscenter.sim"

// ═══════════════════════════════════════════════════════════════════════════
// 命令行参数
// ═══════════════════════════════════════════════════════════════════════════
var (
	configFile  = flag.String("config", "", "配置文件路径（JSON）")
	metricsAddr = flag.String("metrics-addr", ":9464", "指标监听地址（空 = 不暴露）")
	latency     = flag.Duration("latency", 200*time.Millisecond, "模拟服务端回送延迟")
	churnEvery  = flag.Duration("churn", 2*time.Second, "拓扑事件间隔")
	simNodes    = flag.Int("nodes", 5, "模拟节点数量")
	joinIP      = flag.String("join-ip", "10.0.0.5", "入网目标 IP")
	joinPort    = flag.Uint("join-port", 6000, "入网目标端口")
	logJSON     = flag.Bool("log-json", false, "输出 JSON 日志")
	showVersion = flag.Bool("version", false, "显示版本信息")
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()

	if *showVersion {
		fmt.Println(buscenter.VersionInfo())
		return nil
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("配置错误: %w", err)
	}
	cfg.ApplyEnv()
	if *logJSON {
		cfg.Log.JSON = true
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	promReg := prometheus.NewRegistry()
	server := newSimServer(ctx, clock.New(), *latency)

	client, err := buscenter.New(
		buscenter.WithConfig(cfg),
		buscenter.WithServer(server),
		buscenter.WithMetricsRegisterer(promReg),
	)
	if err != nil {
		return fmt.Errorf("创建客户端失败: %w", err)
	}
	server.bind(client.Notifier())

	logger.Info("启动 bus center 模拟器", "version", buscenter.Version, "commit", buscenter.GitCommit)
	if err := client.Start(ctx); err != nil {
		return fmt.Errorf("启动失败: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Warn("关闭客户端失败", "error", err)
		}
	}()

	if err := client.InitPackage(simPkg); err != nil {
		return err
	}

	var metricsSrv *http.Server
	if *metricsAddr != "" {
		metricsSrv = serveMetrics(*metricsAddr, promReg)
	}

	if err := drive(ctx, client); err != nil {
		return err
	}
	server.churn(*churnEvery, *simNodes)

	fmt.Println("模拟器已启动，按 Ctrl+C 退出")
	waitForSignal()
	fmt.Println("\n正在关闭模拟器...")

	cancel()
	if metricsSrv != nil {
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		_ = metricsSrv.Shutdown(shutdownCtx)
		done()
	}
	return server.wait()
}

// drive 注册拓扑监听器并发起入网；入网成功后开始与该网络时间同步
func drive(ctx context.Context, client *buscenter.Client) error {
	if err := client.RegNodeDeviceStateCb(simPkg, printer{}, buscenter.EventNodeAll); err != nil {
		return fmt.Errorf("注册拓扑监听器失败: %w", err)
	}

	addr := buscenter.NewWLANAddr(*joinIP, uint16(*joinPort))
	onJoin := buscenter.JoinResultFunc(func(addr *buscenter.ConnectionAddr, networkID string, code int32) {
		fmt.Printf("入网结果: %s -> %s (code=%d)\n", addr, networkID, code)
		if code != 0 {
			return
		}
		err := client.StartTimeSync(ctx, simPkg, networkID, types.HighAccuracy, types.ShortPeriod,
			buscenter.TimeSyncResultFunc(func(info *buscenter.TimeSyncResultInfo, code int32) {
				fmt.Printf("时间同步: %s offset=%dms%dus accuracy=%s (code=%d)\n",
					info.Target.TargetNetworkID, info.Result.Millisecond, info.Result.Microsecond,
					info.Result.Accuracy, code)
			}))
		if err != nil {
			logger.Warn("开始时间同步失败", "networkID", networkID, "error", err)
		}
	})
	if err := client.JoinLNN(ctx, simPkg, &addr, onJoin); err != nil {
		return fmt.Errorf("入网请求失败: %w", err)
	}
	return nil
}

// printer 打印拓扑事件
type printer struct{}

func (printer) OnNodeOnline(info *buscenter.NodeBasicInfo) {
	fmt.Printf("节点上线: %s (%s)\n", info.NetworkID, info.DeviceName)
}

func (printer) OnNodeOffline(info *buscenter.NodeBasicInfo) {
	fmt.Printf("节点下线: %s\n", info.NetworkID)
}

func (printer) OnNodeBasicInfoChanged(t buscenter.NodeBasicInfoType, info *buscenter.NodeBasicInfo) {
	fmt.Printf("节点信息变更: %s %s=%s\n", info.NetworkID, t, info.DeviceName)
}

// ═══════════════════════════════════════════════════════════════════════════
// 辅助函数
// ═══════════════════════════════════════════════════════════════════════════

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.NewConfig(), nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // G304: 用户指定的配置文件路径是预期行为
	if err != nil {
		return nil, err
	}
	return config.FromJSON(data)
}

func serveMetrics(addr string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("指标服务退出", "addr", addr, "error", err)
		}
	}()
	logger.Info("指标服务已启动", "addr", addr)
	return srv
}

func waitForSignal() {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	<-signals
}
