package statistics

import (
	"math/big"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Data collects the pool metrics. A nil *Data is valid and records nothing.
type Data struct {
	Pool   poolGauges
	Claims claimCounters
	Commit commitInfo

	Api apiResponseTime
}

type LastCommitInfo struct {
	Height    int64
	Duration  float64
	Timestamp float64
}

type poolGauges struct {
	TotalInfluenceProm prometheus.Gauge
	UnclaimedPoolProm  prometheus.Gauge
	SnapshotsProm      prometheus.Gauge
}

type claimCounters struct {
	ClaimsProm prometheus.Counter
	YieldsProm prometheus.Counter
	PaidProm   prometheus.Counter
}

type commitInfo struct {
	sync.RWMutex
	HeightProm     prometheus.Gauge
	DurationProm   prometheus.Gauge
	LastCommitInfo LastCommitInfo
}

type apiResponseTime struct {
	sync.Mutex
	responseTime *prometheus.GaugeVec
}

// New creates the collectors and registers them with registerer.
func New(registerer prometheus.Registerer) *Data {
	apiVec := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "api",
			Help: "Api duration per path",
		},
		[]string{"path"},
	)
	totalInfluence := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "total_influence",
		Help: "Sum of current influence scores",
	})
	unclaimedPool := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "unclaimed_pool",
		Help: "Reserved but not yet paid reward",
	})
	snapshots := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "snapshots",
		Help: "Number of recorded snapshots",
	})
	claims := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "claims_total",
		Help: "Paid claims",
	})
	yields := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "claim_yields_total",
		Help: "Claims stopped early by the execution budget",
	})
	paid := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "paid_amount_total",
		Help: "Paid reward units",
	})
	height := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "height",
		Help: "Last committed height",
	})
	commitDuration := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "last_commit_duration",
		Help: "Last commit duration",
	})

	registerer.MustRegister(apiVec, totalInfluence, unclaimedPool, snapshots, claims, yields, paid, height, commitDuration)

	return &Data{
		Api:    apiResponseTime{responseTime: apiVec},
		Pool:   poolGauges{TotalInfluenceProm: totalInfluence, UnclaimedPoolProm: unclaimedPool, SnapshotsProm: snapshots},
		Claims: claimCounters{ClaimsProm: claims, YieldsProm: yields, PaidProm: paid},
		Commit: commitInfo{HeightProm: height, DurationProm: commitDuration},
	}
}

func (d *Data) SetPool(totalInfluence *big.Int, unclaimedPool *big.Int, snapshots uint64) {
	if d == nil {
		return
	}

	d.Pool.TotalInfluenceProm.Set(bigToFloat(totalInfluence))
	d.Pool.UnclaimedPoolProm.Set(bigToFloat(unclaimedPool))
	d.Pool.SnapshotsProm.Set(float64(snapshots))
}

func (d *Data) AddClaim(amount *big.Int, yielded bool) {
	if d == nil {
		return
	}

	if yielded {
		d.Claims.YieldsProm.Inc()
	}

	if amount.Sign() > 0 {
		d.Claims.ClaimsProm.Inc()
		d.Claims.PaidProm.Add(bigToFloat(amount))
	}
}

func (d *Data) SetCommit(height int64, start time.Time, end time.Time) {
	if d == nil {
		return
	}

	d.Commit.Lock()
	defer d.Commit.Unlock()

	durationSeconds := end.Sub(start).Seconds()

	d.Commit.HeightProm.Set(float64(height))
	d.Commit.DurationProm.Set(durationSeconds)

	d.Commit.LastCommitInfo.Height = height
	d.Commit.LastCommitInfo.Duration = durationSeconds
	d.Commit.LastCommitInfo.Timestamp = float64(end.UnixNano() / 1e09)
}

func (d *Data) SetApiTime(duration time.Duration, path string) {
	if d == nil {
		return
	}

	d.Api.Lock()
	defer d.Api.Unlock()

	d.Api.responseTime.With(prometheus.Labels{"path": path}).Set(duration.Seconds())
}

func (d *Data) GetLastCommitInfo() LastCommitInfo {
	if d == nil {
		return LastCommitInfo{}
	}

	d.Commit.RLock()
	defer d.Commit.RUnlock()

	return d.Commit.LastCommitInfo
}

func bigToFloat(value *big.Int) float64 {
	f, _ := new(big.Float).SetInt(value).Float64()
	return f
}
