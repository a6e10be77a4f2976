package reconciler

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// ZSet wraps one redis sorted set. The reconciler keys seen tx ids by block
// height so a re-sync can cheaply skip records already ingested and the
// pruner can trim by height watermark.
type ZSet struct {
	client *redis.Client
	key    string
}

func NewZSet(cache *redis.Client, key string) ZSet {
	return ZSet{
		key:    key,
		client: cache,
	}
}

type ZSetKVP = redis.Z

// AddValues inserts members, keeping the greater score on conflict. The
// returned count is how many members were new or had their score raised.
func (zz *ZSet) AddValues(ctx context.Context, keys ...ZSetKVP) (int64, error) {
	cmd := zz.client.ZAddArgs(ctx, zz.key, redis.ZAddArgs{
		GT:      true,
		Ch:      true,
		Members: keys,
	})
	return cmd.Result()
}

func (zz *ZSet) Contains(ctx context.Context, member string) (bool, error) {
	cmd := zz.client.ZScore(ctx, zz.key, member)
	if cmd.Err() == redis.Nil {
		return false, nil
	}
	return cmd.Err() == nil, cmd.Err()
}

func (zz *ZSet) Count(ctx context.Context) (int64, error) {
	cmd := zz.client.ZCount(ctx, zz.key, "-inf", "+inf")
	return cmd.Val(), cmd.Err()
}

func (zz *ZSet) RemoveByScore(ctx context.Context, min, max int64) (int64, error) {
	cmd := zz.client.ZRemRangeByScore(ctx, zz.key, fmt.Sprintf("%d", min), fmt.Sprintf("%d", max))
	return cmd.Val(), cmd.Err()
}
