package api

import (
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MinterTeam/influence-pool/config"
	"github.com/MinterTeam/influence-pool/core/code"
	"github.com/MinterTeam/influence-pool/core/custody"
	"github.com/MinterTeam/influence-pool/core/distributor"
	"github.com/MinterTeam/influence-pool/core/events"
	"github.com/MinterTeam/influence-pool/core/roles"
	"github.com/MinterTeam/influence-pool/core/state"
	"github.com/MinterTeam/influence-pool/core/types"
	"github.com/MinterTeam/influence-pool/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	db "github.com/tendermint/tm-db"
)

var (
	owner    = types.HexToAddress("Mx00000000000000000000000000000000000000f1")
	pool     = types.HexToAddress("Mx0000000000000000000000000000000000000001")
	accountA = types.HexToAddress("Mx00000000000000000000000000000000000000aa")
	accountB = types.HexToAddress("Mx00000000000000000000000000000000000000bb")
)

func newTestService(t *testing.T) http.Handler {
	t.Helper()

	st, err := state.NewState(0, db.NewMemDB(), 1024, 0)
	require.NoError(t, err)

	table := roles.NewTable(owner)
	require.NoError(t, table.Grant(owner, roles.RoleMaintainer, owner))
	require.NoError(t, table.Grant(owner, roles.RoleTrigger, owner))

	vault := custody.NewVault(st.Accounts, pool)
	require.NoError(t, vault.Deposit(big.NewInt(100)))

	eventsDB := events.NewEventsStore(db.NewMemDB())
	d := distributor.NewDistributor(st, table, vault, eventsDB, config.DefaultBudgetConfig(), log.NewNopLogger(), nil)

	require.NoError(t, d.AddInfluence(owner, []distributor.Update{
		{Address: accountA, Delta: big.NewInt(30)},
		{Address: accountB, Delta: big.NewInt(70)},
	}))
	_, err = d.RecordSnapshot(owner, types.Key(42), big.NewInt(100))
	require.NoError(t, err)
	require.NoError(t, d.SetRewardSchedule(owner, []types.Key{7}, []*big.Int{big.NewInt(5)}))
	_, err = d.Commit()
	require.NoError(t, err)

	return NewService(d, eventsDB, nil, config.DefaultAPIConfig(), log.NewNopLogger()).Handler()
}

func get(t *testing.T, handler http.Handler, path string, result interface{}) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if result != nil {
		response := Response{Result: result}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response), rr.Body.String())
	}

	return rr
}

func TestStatus(t *testing.T) {
	t.Parallel()

	handler := newTestService(t)

	var status StatusResponse
	rr := get(t, handler, "/status", &status)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, int64(1), status.Height)
	assert.Equal(t, "100", status.TotalInfluence)
	assert.Equal(t, "100", status.UnclaimedPool)
	assert.Equal(t, uint64(1), status.Snapshots)
}

func TestInfluenceEndpoints(t *testing.T) {
	t.Parallel()

	handler := newTestService(t)

	var influence InfluenceResponse
	rr := get(t, handler, "/influence/"+accountA.String(), &influence)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "30", influence.Score)
	assert.Equal(t, uint64(1), influence.ClaimsLeft)

	var share InfluenceOfResponse
	rr = get(t, handler, "/influence_of/"+accountB.String()+"?amount=1000", &share)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "700", share.Share)

	var history HistoryResponse
	rr = get(t, handler, "/history/"+accountA.String()+"/0", &history)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "30", history.Score)

	var left ClaimsLeftResponse
	rr = get(t, handler, "/claims_left/"+accountB.String(), &left)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, uint64(1), left.ClaimsLeft)

	var response Response
	rr = get(t, handler, "/influence/not-an-address", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.Equal(t, code.InvalidInput, response.Code)
}

func TestSnapshotEndpoints(t *testing.T) {
	t.Parallel()

	handler := newTestService(t)

	var snapshot SnapshotResponse
	rr := get(t, handler, "/snapshot/0", &snapshot)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, uint64(42), snapshot.Key)
	assert.Equal(t, "100", snapshot.RewardAmount)
	assert.Equal(t, "100", snapshot.TotalInfluence)

	rr = get(t, handler, "/snapshot/1", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	var list SnapshotsResponse
	rr = get(t, handler, "/snapshots?from=0&limit=10", &list)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, uint64(1), list.Count)
	assert.Len(t, list.Snapshots, 1)

	var reward RewardResponse
	rr = get(t, handler, "/reward/7", &reward)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "5", reward.Amount)
}

func TestEventsEndpoint(t *testing.T) {
	t.Parallel()

	handler := newTestService(t)

	rr := get(t, handler, "/events/1", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var response struct {
		Result struct {
			Height uint64 `json:"height"`
			Events []struct {
				Type  string `json:"type"`
				Value struct {
					Addresses []string `json:"addresses"`
					Scores    []string `json:"scores"`
				} `json:"value"`
			} `json:"events"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	require.Len(t, response.Result.Events, 3)
	assert.Equal(t, events.TypeInfluenceUpdatedEvent, response.Result.Events[0].Type)
	assert.Equal(t, []string{accountA.String(), accountB.String()}, response.Result.Events[0].Value.Addresses)
	assert.Equal(t, []string{"30", "70"}, response.Result.Events[0].Value.Scores)
	assert.Equal(t, events.TypeSnapshotRecordedEvent, response.Result.Events[1].Type)
	assert.Equal(t, events.TypeRewardScheduleUpdatedEvent, response.Result.Events[2].Type)
}
