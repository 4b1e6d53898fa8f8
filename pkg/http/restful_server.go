package http

import (
	"github.com/gin-gonic/gin"

	"github.com/samseatt/vitaledge-pi-iot/pkg/iot"
	"github.com/samseatt/vitaledge-pi-iot/pkg/transmit"
)

type TokenState interface {
	HasToken() bool
}

// RestfulServer is the read-only local status API of the agent.
type RestfulServer struct {
	Server           *gin.Engine
	Iot              *iot.IOT
	Tokens           TokenState
	RateLimiterStore *transmit.RateLimiterStore
}

func (rs *RestfulServer) CheckClientLimiter(clientIP string) bool {
	return rs.RateLimiterStore.Allow(clientIP)
}

func (rs *RestfulServer) Setup() {
	rs.Server.GET("/healthz", rs.HealthCheck)

	api := rs.Server.Group("/", rs.limitClients)
	{
		api.GET("/status", rs.GetStatus)
		api.GET("/records/undelivered", rs.GetUndelivered)
	}
}
