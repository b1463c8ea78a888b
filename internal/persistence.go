package internal

import (
	"errors"
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"
	"go.uber.org/zap"
)

// PersistenceEngine stores question-bank definitions in redis. A nil
// engine is valid and turns every operation into a no-op, so callers
// can run memory-only.
type PersistenceEngine struct {
	pool *redis.Pool
	log  *zap.SugaredLogger
}

func InitRedis(redisHost, redisPassword string, log *zap.SugaredLogger) *PersistenceEngine {
	pool := redis.Pool{
		MaxIdle:     3,
		IdleTimeout: 240 * time.Second,

		Dial: func() (redis.Conn, error) {
			if redisPassword == "" {
				return redis.Dial("tcp", redisHost)
			}
			return redis.Dial("tcp", redisHost, redis.DialPassword(redisPassword))
		},

		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			_, err := c.Do("PING")
			return err
		},
	}

	return &PersistenceEngine{pool: &pool, log: log}
}

// WaitForRedis blocks until a connection can be borrowed from the pool.
func (engine *PersistenceEngine) WaitForRedis() {
	if engine == nil {
		return
	}

	for {
		conn := engine.pool.Get()
		if conn.Err() == nil {
			conn.Close()
			return
		}
		engine.log.Warn("could not get connection to redis, sleeping...")
		time.Sleep(5 * time.Second)
	}
}

func (engine *PersistenceEngine) Close() {
	if engine == nil {
		return
	}
	engine.pool.Close()
	engine.log.Info("persistence engine shutdown")
}

func (engine *PersistenceEngine) GetKeys(prefix string) ([]string, error) {
	if engine == nil {
		return []string{}, nil
	}
	conn := engine.pool.Get()
	defer conn.Close()

	iter := 0
	keys := []string{}
	pattern := prefix + ":*"
	for {
		arr, err := redis.Values(conn.Do("SCAN", iter, "MATCH", pattern))
		if err != nil {
			return keys, fmt.Errorf("error retrieving %s keys: %w", pattern, err)
		}

		iter, _ = redis.Int(arr[0], nil)
		k, _ := redis.Strings(arr[1], nil)
		keys = append(keys, k...)
		if iter == 0 {
			break
		}
	}

	return keys, nil
}

func (engine *PersistenceEngine) Get(key string) ([]byte, error) {
	if engine == nil {
		return nil, nil
	}
	conn := engine.pool.Get()
	defer conn.Close()

	data, err := redis.Bytes(conn.Do("GET", key))
	if err != nil {
		return nil, fmt.Errorf("error getting value for key %s: %w", key, err)
	}
	return data, nil
}

func (engine *PersistenceEngine) Set(key string, value []byte) error {
	if engine == nil {
		return nil
	}
	conn := engine.pool.Get()
	defer conn.Close()

	if _, err := conn.Do("SET", key, value); err != nil {
		return fmt.Errorf("error setting key %s in redis: %w", key, err)
	}
	return nil
}

func (engine *PersistenceEngine) Delete(key string) {
	if engine == nil {
		return
	}
	conn := engine.pool.Get()
	defer conn.Close()

	conn.Do("DEL", key)
}

func (engine *PersistenceEngine) Incr(counterKey string) (int, error) {
	if engine == nil {
		return 0, errors.New("redis not configured")
	}
	conn := engine.pool.Get()
	defer conn.Close()

	return redis.Int(conn.Do("INCR", counterKey))
}
