package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arbscan/internal/sink"
	"arbscan/internal/strategy"
)

func testReport() strategy.Report {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tr := strategy.TriangularOpportunity{ID: "t1", Strategy: strategy.KindTriangular, RouteID: "USDT-BTC-ETH", Exchange: "binance", NetProfitLoss: 1, Timestamp: at}
	top, all := strategy.Rank(nil, []strategy.TriangularOpportunity{tr}, 10)
	return strategy.Report{GeneratedAt: at, Top: top, All: all}
}

func TestPublish_SetsKeyAndPublishes(t *testing.T) {
	db, mock := redismock.NewClientMock()
	rep := testReport()
	doc, err := sink.Encode(rep)
	require.NoError(t, err)

	mock.ExpectSet("arbscan:report:latest", doc, time.Minute).SetVal("OK")
	mock.ExpectPublish("arbscan:opportunities", doc).SetVal(1)

	s := New(db, Options{Key: "arbscan:report:latest", Channel: "arbscan:opportunities", TTL: time.Minute})
	require.NoError(t, s.Publish(context.Background(), rep))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPublish_NoChannel(t *testing.T) {
	db, mock := redismock.NewClientMock()
	rep := testReport()
	doc, err := sink.Encode(rep)
	require.NoError(t, err)

	mock.ExpectSet("latest", doc, 0).SetVal("OK")

	s := New(db, Options{Key: "latest"})
	require.NoError(t, s.Publish(context.Background(), rep))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPublish_SetError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	rep := testReport()
	doc, err := sink.Encode(rep)
	require.NoError(t, err)

	mock.ExpectSet("latest", doc, 0).SetErr(errors.New("READONLY"))

	s := New(db, Options{Key: "latest", Channel: "ch"})
	err = s.Publish(context.Background(), rep)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis: set latest")
	assert.Equal(t, "redis", s.Name())
}
