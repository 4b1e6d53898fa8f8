// mock-collector stands in for the VitalEdge backend during bench tests on a Pi. It
// issues tokens, accepts device data and fails a configurable share of requests so
// the agent's buffering and retry sweep can be watched end to end.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var hostPort = flag.String("listen", "127.0.0.1:8080", "address to listen on")
var username = flag.String("username", "admin", "accepted username")
var password = flag.String("password", "password", "accepted password")
var outageRate = flag.Float64("outage", 0.3, "share of device-data requests answered with 503")
var expireRate = flag.Float64("expire", 0.02, "share of device-data requests answered with 401, revoking the token")

var rnd *rand.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
var rndMu sync.Mutex

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type deviceData struct {
	DeviceID       string   `json:"deviceId"`
	PatientID      string   `json:"patientId"`
	Timestamp      string   `json:"timestamp"`
	HeartRate      *float64 `json:"heartRate"`
	StepsCount     *float64 `json:"stepsCount"`
	CaloriesBurned *float64 `json:"caloriesBurned"`
	OxygenLevel    *float64 `json:"oxygenLevel"`
	Temperature    *float64 `json:"temperature"`
}

type collector struct {
	mu       sync.Mutex
	tokens   map[string]bool
	seen     map[string]int
	accepted atomic.Int64
	failed   atomic.Int64
}

func chance(p float64) bool {
	rndMu.Lock()
	defer rndMu.Unlock()
	return rnd.Float64() < p
}

func (c *collector) authenticate(ctx *gin.Context) {
	var req credentials
	if err := ctx.ShouldBindJSON(&req); err != nil || req.Username != *username || req.Password != *password {
		ctx.Status(http.StatusUnauthorized)
		return
	}

	token := uuid.NewString()
	c.mu.Lock()
	c.tokens[token] = true
	c.mu.Unlock()

	ctx.String(http.StatusOK, token)
}

func (c *collector) deviceData(ctx *gin.Context) {
	token := strings.TrimPrefix(ctx.GetHeader("Authorization"), "Bearer ")

	c.mu.Lock()
	valid := c.tokens[token]
	c.mu.Unlock()
	if !valid {
		ctx.Status(http.StatusUnauthorized)
		return
	}

	if chance(*expireRate) {
		c.mu.Lock()
		delete(c.tokens, token)
		c.mu.Unlock()
		c.failed.Add(1)
		ctx.Status(http.StatusUnauthorized)
		return
	}

	if chance(*outageRate) {
		c.failed.Add(1)
		ctx.Status(http.StatusServiceUnavailable)
		return
	}

	var data deviceData
	if err := ctx.ShouldBindJSON(&data); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if data.PatientID != ctx.Param("patientId") {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "patient mismatch"})
		return
	}

	key := data.DeviceID + "@" + data.Timestamp
	c.mu.Lock()
	c.seen[key]++
	duplicates := c.seen[key] - 1
	c.mu.Unlock()

	accepted := c.accepted.Add(1)
	fmt.Printf("\raccepted=%v failed=%v last=%v duplicates=%v", accepted, c.failed.Load(), data.Timestamp, duplicates)
	ctx.Status(http.StatusCreated)
}

func main() {
	flag.Parse()

	c := &collector{tokens: map[string]bool{}, seen: map[string]int{}}

	gin.SetMode(gin.ReleaseMode)
	server := gin.New()
	server.POST("/authenticate", c.authenticate)
	server.POST("/api/patients/:patientId/device-data", c.deviceData)
	server.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"accepted": c.accepted.Load(),
			"failed":   c.failed.Load(),
		})
	})

	fmt.Printf("mock collector on %v: outage=%v expire=%v\n", *hostPort, *outageRate, *expireRate)
	if err := server.Run(*hostPort); err != nil {
		log.Fatalf("mock collector failed to serve: %v", err)
	}
}
