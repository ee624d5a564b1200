package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/MinterTeam/influence-pool/config"
	"github.com/MinterTeam/influence-pool/core/code"
	"github.com/MinterTeam/influence-pool/core/distributor"
	"github.com/MinterTeam/influence-pool/core/events"
	"github.com/MinterTeam/influence-pool/core/statistics"
	"github.com/MinterTeam/influence-pool/core/types"
	"github.com/MinterTeam/influence-pool/log"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/handlers"
)

// Response is the envelope of every API answer.
type Response struct {
	Code   uint32      `json:"code"`
	Result interface{} `json:"result,omitempty"`
	Log    string      `json:"log,omitempty"`
}

// Service serves read-only views of the pool.
type Service struct {
	distributor *distributor.Distributor
	eventsDB    events.IEventsDB
	statistics  *statistics.Data
	cfg         *config.APIConfig
	logger      log.Logger
}

func NewService(d *distributor.Distributor, eventsDB events.IEventsDB, statistic *statistics.Data, cfg *config.APIConfig, logger log.Logger) *Service {
	return &Service{
		distributor: d,
		eventsDB:    eventsDB,
		statistics:  statistic,
		cfg:         cfg,
		logger:      logger.With("module", "api"),
	}
}

// Handler returns the router wrapped with CORS and panic recovery.
func (s *Service) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(s.timing)

	r.GET("/status", s.Status)
	r.GET("/influence/:address", s.Influence)
	r.GET("/influence_of/:address", s.InfluenceOf)
	r.GET("/history/:address/:index", s.History)
	r.GET("/claims_left/:address", s.ClaimsLeft)
	r.GET("/snapshot/:index", s.Snapshot)
	r.GET("/snapshots", s.Snapshots)
	r.GET("/events/:height", s.Events)
	r.GET("/reward/:key", s.Reward)

	cors := handlers.CORS(
		handlers.AllowedOrigins(s.cfg.CORSAllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodOptions}),
	)

	return handlers.RecoveryHandler(handlers.PrintRecoveryStack(false))(cors(r))
}

// Run serves the API on addr until ctx is done.
func Run(ctx context.Context, s *Service, addr string) error {
	server := &http.Server{
		Addr:              strings.TrimPrefix(addr, "tcp://"),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("api shutdown", "err", err)
		}
	}()

	s.logger.Info("starting api", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

func (s *Service) timing(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.statistics.SetApiTime(time.Since(start), c.FullPath())
}

func ok(c *gin.Context, result interface{}) {
	c.JSON(http.StatusOK, Response{Code: code.OK, Result: result})
}

func fail(c *gin.Context, err error) {
	status := http.StatusBadRequest
	if code.Is(err, code.UnknownSnapshot) {
		status = http.StatusNotFound
	}

	c.JSON(status, Response{Code: code.Of(err), Log: err.Error()})
}

func addressParam(c *gin.Context) (types.Address, bool) {
	param := c.Param("address")
	if !types.IsHexAddress(param) {
		fail(c, code.New(code.InvalidInput, "invalid address "+param, nil))
		return types.Address{}, false
	}

	return types.HexToAddress(param), true
}
