package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"

	"github.com/samseatt/vitaledge-pi-iot/pkg/common"
	"github.com/samseatt/vitaledge-pi-iot/pkg/iot"
	"github.com/samseatt/vitaledge-pi-iot/pkg/models"
)

const (
	DefaultUndeliveredLimit = 100
	MaxUndeliveredLimit     = 1000
)

func (rs *RestfulServer) limitClients(c *gin.Context) {
	if !rs.CheckClientLimiter(c.ClientIP()) {
		c.AbortWithStatus(http.StatusTooManyRequests)
		return
	}
	c.Next()
}

type StatusResponse struct {
	DeviceID    string              `json:"deviceId"`
	PatientID   string              `json:"patientId"`
	LastCycle   *iot.CycleReport    `json:"lastCycle"`
	Records     models.StatusCounts `json:"records"`
	TokenCached bool                `json:"tokenCached"`
}

func (rs *RestfulServer) GetStatus(c *gin.Context) {
	counts, err := rs.Iot.Store.CountByStatus(c.Request.Context())
	if err != nil {
		common.GetLoggerWith(common.LoggerNameStatusServer).Error("Failed to count records", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := StatusResponse{
		DeviceID:  rs.Iot.Settings.DeviceID,
		PatientID: rs.Iot.Settings.PatientID,
		Records:   counts,
	}
	if report, ok := rs.Iot.LastReport(); ok {
		resp.LastCycle = &report
	}
	if rs.Tokens != nil {
		resp.TokenCached = rs.Tokens.HasToken()
	}

	c.JSON(http.StatusOK, resp)
}

type UndeliveredQuery struct {
	Limit int `zog:"limit"`
}

var undeliveredQuerySchema = z.Struct(z.Shape{
	"Limit": z.Int().GTE(1).LTE(MaxUndeliveredLimit).Default(DefaultUndeliveredLimit),
})

func (rs *RestfulServer) GetUndelivered(c *gin.Context) {
	var query UndeliveredQuery
	if err := undeliveredQuerySchema.Parse(zhttp.Request(c.Request), &query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	records, err := rs.Iot.Store.PeekUndelivered(c.Request.Context(), query.Limit)
	if err != nil {
		common.GetLoggerWith(common.LoggerNameStatusServer).Error("Failed to load undelivered records", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if records == nil {
		records = []models.SensorRecord{}
	}

	c.JSON(http.StatusOK, records)
}

func (rs *RestfulServer) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
