package mapbridge

import (
	"fmt"
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/rs/zerolog/log"
	"github.com/wayfarer/wayfarer/pkg/redis_client"
)

// RedisConsumer runs a pool of batch consumers against one bridge queue.
type RedisConsumer struct {
	QueueName string

	NumberConsumers int
	BatchSize       int

	Timeout time.Duration

	Consumer rmq.BatchConsumer
}

func (c *RedisConsumer) Setup() error {
	log.Info().Str("queue", c.QueueName).Msg("Starting consumers")

	queue, err := redis_client.QueueConnection.OpenQueue(c.QueueName)
	if err != nil {
		return err
	}
	if err := queue.StartConsuming(int64(c.NumberConsumers*c.BatchSize), 1*time.Second); err != nil {
		return err
	}

	for i := 0; i < c.NumberConsumers; i++ {
		if err := c.addQueueConsumer(queue, i); err != nil {
			return err
		}
	}

	return nil
}

func (c *RedisConsumer) addQueueConsumer(queue rmq.Queue, id int) error {
	log.Info().Msgf("Starting %s consumer %d", c.QueueName, id)

	_, err := queue.AddBatchConsumer(fmt.Sprintf("%s-%d", c.QueueName, id), int64(c.BatchSize), c.Timeout, c.Consumer)
	return err
}
