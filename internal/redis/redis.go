package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Client wraps the go-redis client so the rest of the codebase never
// imports the driver directly.
type Client struct {
	*goredis.Client
}

func New(addr, password string) (*Client, error) {

	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := client.Ping(ctx).Err()

	if err != nil {
		return nil, err
	}

	return &Client{Client: client}, nil

}

// Wrap adopts an already-connected client. Used by tests that point the
// codebase at a miniredis instance.
func Wrap(client *goredis.Client) *Client {
	return &Client{Client: client}
}

// IsMiss reports whether err is the driver's key-absent sentinel, so
// callers can tell a cache miss from a cache failure.
func IsMiss(err error) bool {
	return errors.Is(err, goredis.Nil)
}
