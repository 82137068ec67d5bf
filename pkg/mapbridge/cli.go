package mapbridge

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"github.com/wayfarer/wayfarer/pkg/config"
	"github.com/wayfarer/wayfarer/pkg/incidents"
	"github.com/wayfarer/wayfarer/pkg/redis_client"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "bridge",
		Usage: "Provides the map bridge runner",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run the map bridge consumers",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "config",
						Usage: "path to the engine config file",
					},
				},
				Action: func(c *cli.Context) error {
					engineConfig, err := config.Load(c.String("config"))
					if err != nil {
						return err
					}

					if err := redis_client.Connect(); err != nil {
						return err
					}

					publisher, err := NewPublisher()
					if err != nil {
						return err
					}

					state := NewState()

					mirrorConsumer := RedisConsumer{
						QueueName:       OutboundQueueName,
						NumberConsumers: 1,
						BatchSize:       20,
						Timeout:         2 * time.Second,
						Consumer:        &OutboundMirror{State: state},
					}
					if err := mirrorConsumer.Setup(); err != nil {
						return err
					}

					inboundConsumer := RedisConsumer{
						QueueName:       InboundQueueName,
						NumberConsumers: 2,
						BatchSize:       20,
						Timeout:         2 * time.Second,
						Consumer: &InboundHandler{
							Matcher:   &incidents.Matcher{ServiceArea: engineConfig.ServiceArea},
							Styles:    engineConfig.IncidentStyles,
							State:     state,
							Publisher: publisher,
						},
					}
					if err := inboundConsumer.Setup(); err != nil {
						return err
					}

					signals := make(chan os.Signal, 1)
					signal.Notify(signals, syscall.SIGINT)
					defer signal.Stop(signals)

					<-signals // wait for signal
					go func() {
						<-signals // hard exit on second signal (in case shutdown gets stuck)
						os.Exit(1)
					}()

					<-redis_client.QueueConnection.StopAllConsuming() // wait for all Consume() calls to finish

					return nil
				},
			},
		},
	}
}
