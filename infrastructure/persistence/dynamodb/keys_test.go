package dynamodb

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampKeyRoundTrip(t *testing.T) {
	key := timestampKey("user_alias", "alice", 1714000000123)

	pk, ok := key["user_alias"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "alice", pk.Value)

	sk, ok := key["timestamp"].(*types.AttributeValueMemberN)
	require.True(t, ok)
	assert.Equal(t, "1714000000123", sk.Value)

	assert.Equal(t, int64(1714000000123), lastTimestamp(key))
}

func TestLastTimestamp_NilOrMalformedKey(t *testing.T) {
	assert.Zero(t, lastTimestamp(nil))
	assert.Zero(t, lastTimestamp(map[string]types.AttributeValue{
		"timestamp": &types.AttributeValueMemberS{Value: "not-a-number"},
	}))
}

func TestFollowKeyRoundTrip(t *testing.T) {
	key := followKey("alice", "bob")

	assert.Equal(t, "alice", lastFollowerAlias(key))
	assert.Equal(t, "bob", lastFolloweeAlias(key))
}

func TestLastFollowerAlias_NilKey(t *testing.T) {
	assert.Empty(t, lastFollowerAlias(nil))
	assert.Empty(t, lastFolloweeAlias(nil))
}
