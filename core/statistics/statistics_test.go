package statistics

import (
	"math/big"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestData(t *testing.T) {
	t.Parallel()

	data := New(prometheus.NewRegistry())

	data.SetPool(big.NewInt(130), big.NewInt(100), 2)
	if v := testutil.ToFloat64(data.Pool.TotalInfluenceProm); v != 130 {
		t.Fatalf("Wrong total influence gauge: %f", v)
	}
	if v := testutil.ToFloat64(data.Pool.SnapshotsProm); v != 2 {
		t.Fatalf("Wrong snapshots gauge: %f", v)
	}

	data.AddClaim(big.NewInt(30), false)
	data.AddClaim(big.NewInt(0), true)
	if v := testutil.ToFloat64(data.Claims.ClaimsProm); v != 1 {
		t.Fatalf("Wrong claims counter: %f", v)
	}
	if v := testutil.ToFloat64(data.Claims.YieldsProm); v != 1 {
		t.Fatalf("Wrong yields counter: %f", v)
	}
	if v := testutil.ToFloat64(data.Claims.PaidProm); v != 30 {
		t.Fatalf("Wrong paid counter: %f", v)
	}

	start := time.Now()
	data.SetCommit(5, start, start.Add(time.Second))
	if info := data.GetLastCommitInfo(); info.Height != 5 || info.Duration != 1 {
		t.Fatalf("Wrong last commit info: %+v", info)
	}
}

func TestNilData(t *testing.T) {
	t.Parallel()

	var data *Data
	data.SetPool(big.NewInt(1), big.NewInt(1), 1)
	data.AddClaim(big.NewInt(1), true)
	data.SetApiTime(time.Second, "/status")
	if info := data.GetLastCommitInfo(); info.Height != 0 {
		t.Fatal("nil data must report nothing")
	}
}
