package adapter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"bistro/internal/pkg/logger"
	"bistro/internal/pkg/redis"
)

const orderSeqScriptName = "order_seq"

// 按天自增的序列。第一次自增时给 key 挂两天过期，
// 跨天后旧 key 自然淘汰，序列从 1 重新开始。
var orderSeqScript = `
local n = redis.call('incr', KEYS[1])
if n == 1 then
    redis.call('expire', KEYS[1], 172800)
end
return n
`

// RedisNumberGenerator 是 port.NumberGenerator 的 Redis 实现，
// 生成形如 ORD-20260831-0042 的单号：日期 + 当日序号。
// Redis 不可用时降级为日期 + 随机尾缀，单号唯一性不受影响，
// 只是失去了当日连续编号的可读性。
type RedisNumberGenerator struct {
	redisClient *redis.Client
}

func NewRedisNumberGenerator(redisClient *redis.Client) (*RedisNumberGenerator, error) {
	if err := redisClient.LoadScriptFromContent(orderSeqScriptName, orderSeqScript); err != nil {
		return nil, fmt.Errorf("failed to load order sequence script: %w", err)
	}
	return &RedisNumberGenerator{redisClient: redisClient}, nil
}

func (g *RedisNumberGenerator) Next(ctx context.Context, at time.Time) (string, error) {
	day := at.UTC().Format("20060102")
	key := fmt.Sprintf("order:seq:{%s}", day)

	result, err := g.redisClient.RunScript(ctx, orderSeqScriptName, []string{key})
	if err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("order sequence unavailable, falling back to random suffix")
		suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
		return fmt.Sprintf("ORD-%s-%s", day, suffix), nil
	}

	n, ok := result.(int64)
	if !ok {
		return "", fmt.Errorf("unexpected result type from order sequence script: %T", result)
	}
	return fmt.Sprintf("ORD-%s-%04d", day, n), nil
}
