package redisx

import (
    "context"
    "encoding/json"
    "errors"
    "time"

    "github.com/redis/go-redis/v9"
)

type Client struct { Rdb *redis.Client }

func New(addr string, password string, db int) *Client {
    rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
    return &Client{Rdb: rdb}
}

// Wrap adopts an existing client, e.g. one pointed at a test server.
func Wrap(rdb *redis.Client) *Client { return &Client{Rdb: rdb} }

func (c *Client) Ping(ctx context.Context) error {
    return c.Rdb.Ping(ctx).Err()
}

func (c *Client) Close() error { return c.Rdb.Close() }

func (c *Client) Set(ctx context.Context, key string, val string, ttl time.Duration) error {
    return c.Rdb.Set(ctx, key, val, ttl).Err()
}

func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
    n, err := c.Rdb.Exists(ctx, key).Result()
    return n == 1, err
}

// GetJSON decodes the value at key into out. found is false when the key does not exist.
func (c *Client) GetJSON(ctx context.Context, key string, out any) (found bool, err error) {
    val, err := c.Rdb.Get(ctx, key).Bytes()
    if errors.Is(err, redis.Nil) { return false, nil }
    if err != nil { return false, err }
    if err := json.Unmarshal(val, out); err != nil { return false, err }
    return true, nil
}

func (c *Client) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
    b, err := json.Marshal(v)
    if err != nil { return err }
    return c.Rdb.Set(ctx, key, b, ttl).Err()
}
