package repository

import (
	"Orion_Tube/internal/model"
	"context"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"
)

// CounterCache 关系计数（点赞数、粉丝数）的缓存。只是加速读，数据库才是准的
type CounterCache interface {
	// Get ok=false表示缓存里没有，需要回源
	Get(ctx context.Context, target model.Target) (count int64, ok bool, err error)
	Set(ctx context.Context, target model.Target, count int64) error
	Invalidate(ctx context.Context, target model.Target) error
}

type redisCounterCache struct {
	rdb *redis.Client
}

func NewCounterCache(rdb *redis.Client) CounterCache {
	return &redisCounterCache{rdb: rdb}
}

// 每种目标一个哈希：relation:counts:{kind}，field是目标ID
func (c *redisCounterCache) keyCounts(kind model.TargetKind) string {
	return fmt.Sprintf("relation:counts:%s", kind)
}

func (c *redisCounterCache) Get(ctx context.Context, target model.Target) (int64, bool, error) {
	field := strconv.FormatUint(target.ID, 10)
	// 虽然redis是“键值数据库”，但是储存后拿出来，都是字符串string，所以之后要转化
	countStr, err := c.rdb.HGet(ctx, c.keyCounts(target.Kind), field).Result()
	if err == redis.Nil {
		return 0, false, nil // 如果key或field不存在
	} else if err != nil {
		return 0, false, err
	}
	count, err := strconv.ParseInt(countStr, 10, 64)
	if err != nil {
		return 0, false, nil // 脏数据当作没命中
	}
	return count, true, nil
}

func (c *redisCounterCache) Set(ctx context.Context, target model.Target, count int64) error {
	return c.rdb.HSet(ctx, c.keyCounts(target.Kind), strconv.FormatUint(target.ID, 10), count).Err()
}

func (c *redisCounterCache) Invalidate(ctx context.Context, target model.Target) error {
	return c.rdb.HDel(ctx, c.keyCounts(target.Kind), strconv.FormatUint(target.ID, 10)).Err()
}
