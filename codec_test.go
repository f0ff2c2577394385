package jsonrpc_test

import (
	"testing"

	"github.com/gate4ai/jsonrpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBatchEmptyArrayIsInvalidRequest(t *testing.T) {
	_, isBatch, perr := jsonrpc.ParseBatch([]byte(`[]`))
	require.NotNil(t, perr)
	assert.True(t, isBatch)
	assert.Equal(t, jsonrpc.InvalidRequest, perr.Code)
}

func TestParseBatchMalformedJSONIsParseError(t *testing.T) {
	_, isBatch, perr := jsonrpc.ParseBatch([]byte(`{"jsonrpc":"2.0","method":`))
	require.NotNil(t, perr)
	assert.False(t, isBatch)
	assert.Equal(t, jsonrpc.ParseError, perr.Code)
}

func TestSerializeResponsesSingle(t *testing.T) {
	resp := jsonrpc.NewResultResponse(jsonrpc.IntID(1), jsonrpc.Int64Value(30))
	data, err := jsonrpc.SerializeResponses([]jsonrpc.Response{resp}, false)
	require.NoError(t, err)
	assert.JSONEq(t, `{"jsonrpc":"2.0","result":30,"id":1}`, string(data))
}

func TestSerializeResponsesBatch(t *testing.T) {
	responses := []jsonrpc.Response{
		jsonrpc.NewResultResponse(jsonrpc.IntID(1), jsonrpc.Int64Value(3)),
		jsonrpc.NewResultResponse(jsonrpc.IntID(2), jsonrpc.Int64Value(7)),
	}
	data, err := jsonrpc.SerializeResponses(responses, true)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"jsonrpc":"2.0","result":3,"id":1},{"jsonrpc":"2.0","result":7,"id":2}]`, string(data))
}

func TestSerializeResponsesEmptyBatch(t *testing.T) {
	data, err := jsonrpc.SerializeResponses(nil, true)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestSerializeResponsesPanicsOnNonBatchMismatch(t *testing.T) {
	assert.Panics(t, func() {
		jsonrpc.SerializeResponses(nil, false)
	})
}

func TestParseResponseBatchPreservesOrder(t *testing.T) {
	body := []byte(`[{"jsonrpc":"2.0","result":1,"id":1},{"jsonrpc":"2.0","result":2,"id":2}]`)
	responses, isBatch, perr := jsonrpc.ParseResponseBatch(body)
	require.Nil(t, perr)
	require.True(t, isBatch)
	require.Len(t, responses, 2)
	assert.True(t, responses[0].ID().Equal(jsonrpc.IntID(1)))
	assert.True(t, responses[1].ID().Equal(jsonrpc.IntID(2)))
}
