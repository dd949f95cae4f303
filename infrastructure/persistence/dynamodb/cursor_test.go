package dynamodb

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursor_RoundTrip(t *testing.T) {
	key := map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: "KIND#product"},
		"SK": &types.AttributeValueMemberS{Value: "RECORD#abc-123"},
	}

	cursor, err := encodeCursor(key)
	require.NoError(t, err)
	assert.NotEmpty(t, cursor)

	decoded, err := decodeCursor(cursor)
	require.NoError(t, err)
	require.Len(t, decoded, 2)

	pk, ok := decoded["PK"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "KIND#product", pk.Value)
	sk, ok := decoded["SK"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "RECORD#abc-123", sk.Value)
}

func TestEncodeCursor_RejectsNonStringKey(t *testing.T) {
	key := map[string]types.AttributeValue{
		"Version": &types.AttributeValueMemberN{Value: "3"},
	}
	_, err := encodeCursor(key)
	assert.Error(t, err)
}

func TestDecodeCursor_RejectsGarbage(t *testing.T) {
	_, err := decodeCursor("%%%not-base64%%%")
	assert.Error(t, err)
}
