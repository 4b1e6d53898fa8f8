package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/samseatt/vitaledge-pi-iot/pkg/common"
	"github.com/samseatt/vitaledge-pi-iot/pkg/config"
	iotGrpc "github.com/samseatt/vitaledge-pi-iot/pkg/grpc"
	iotHttp "github.com/samseatt/vitaledge-pi-iot/pkg/http"
	"github.com/samseatt/vitaledge-pi-iot/pkg/transmit"
)

// status surfaces allow a few probes per second per client
const (
	statusRate  = 5
	statusBurst = 10
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the capture and delivery loop",
	Long: `Run the capture loop until SIGINT or SIGTERM. Each cycle captures a reading,
buffers it, evaluates alerts, delivers it and retries every undelivered reading.`,
	RunE: runAgent,
}

func runAgent(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.RequireCredentials(); err != nil {
		return err
	}

	agent, err := NewAgent(cfg)
	if err != nil {
		return err
	}
	defer agent.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.HttpHostPort != "" {
		go serveStatus(ctx, agent, cfg.HttpHostPort)
	}
	if cfg.GrpcHostPort != "" {
		go serveHealth(ctx, agent, cfg.GrpcHostPort)
	}

	common.GetLogger().Info("Agent started",
		zap.String("device_id", cfg.DeviceID),
		zap.String("patient_id", cfg.PatientID),
		zap.String("sensor_mode", cfg.SensorMode),
	)
	return agent.Iot.Run(ctx, cfg.CycleInterval)
}

func serveStatus(ctx context.Context, agent *Agent, hostPort string) {
	logger := common.GetLoggerWith(common.LoggerNameStatusServer)

	if common.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	rs := &iotHttp.RestfulServer{
		Server:           gin.New(),
		Iot:              agent.Iot,
		Tokens:           agent.Client.Tokens(),
		RateLimiterStore: transmit.NewRateLimiterStore(statusRate, statusBurst),
	}
	rs.Server.Use(gin.Recovery())
	rs.Setup()

	srv := &http.Server{Addr: hostPort, Handler: rs.Server}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("Starting HTTP server on: " + hostPort)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed to serve", zap.Error(err))
	}
}

func serveHealth(ctx context.Context, agent *Agent, hostPort string) {
	logger := common.GetLoggerWith(common.LoggerNameGrpcServer)

	listener, err := net.Listen("tcp", hostPort)
	if err != nil {
		logger.Error("failed to listen", zap.String("host_port", hostPort), zap.Error(err))
		return
	}

	server := iotGrpc.NewIOTServer(agent.Iot, transmit.NewRateLimiterStore(statusRate, statusBurst))
	if err := server.Serve(ctx, listener); err != nil {
		logger.Error("grpc server failed to serve", zap.Error(err))
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
}
