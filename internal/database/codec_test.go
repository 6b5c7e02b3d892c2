package database

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/harentsoaR/medicare-api/internal/models"
	"github.com/harentsoaR/medicare-api/internal/repository"
)

func TestDecimalCodec_RoundTrip(t *testing.T) {
	reg := Registry()
	in := models.BillItem{Description: "X-Ray", Quantity: 2, UnitPrice: decimal.RequireFromString("49.95")}

	raw, err := bson.MarshalWithRegistry(reg, in)
	require.NoError(t, err)

	var doc bson.Raw = raw
	assert.Equal(t, bson.TypeDecimal128, doc.Lookup("unitPrice").Type)

	var out models.BillItem
	require.NoError(t, bson.UnmarshalWithRegistry(reg, raw, &out))
	assert.True(t, in.UnitPrice.Equal(out.UnitPrice), "got %s", out.UnitPrice)
	assert.Equal(t, in.Description, out.Description)
}

func TestDecimalCodec_DecodesLegacyNumbers(t *testing.T) {
	reg := Registry()
	for _, v := range []interface{}{12.5, int32(12), int64(12), "12.50"} {
		raw, err := bson.Marshal(bson.M{"unitPrice": v})
		require.NoError(t, err)

		var out models.BillItem
		require.NoError(t, bson.UnmarshalWithRegistry(reg, raw, &out), "value %v", v)
		assert.True(t, out.UnitPrice.GreaterThanOrEqual(decimal.NewFromInt(12)), "value %v decoded as %s", v, out.UnitPrice)
	}
}

func TestDecimalCodec_RejectsUnsupported(t *testing.T) {
	raw, err := bson.Marshal(bson.M{"unitPrice": true})
	require.NoError(t, err)

	var out models.BillItem
	assert.Error(t, bson.UnmarshalWithRegistry(Registry(), raw, &out))
}

func TestIndexes_CoverUniqueKeys(t *testing.T) {
	idx := Indexes()
	users := idx[repository.UsersCollection]
	require.NotEmpty(t, users)
	require.NotNil(t, users[0].Options)
	assert.True(t, *users[0].Options.Unique)

	sessions := idx[repository.SessionsCollection]
	require.NotEmpty(t, sessions)
	assert.True(t, *sessions[0].Options.Unique)
}
