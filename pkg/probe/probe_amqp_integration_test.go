//go:build integration

package probe

import (
	"context"
	"flag"
	"testing"

	"github.com/mittwald/healthd/internal/config"
	"github.com/stretchr/testify/assert"
)

var (
	amqpHost     = flag.String("amqp.host", svcHost("127.0.0.1", "amqp"), "AMQP integration server host")
	amqpPort     = flag.Uint("amqp.port", svcPort(15672, 5672), "AMQP integration server port")
	amqpVhost    = flag.String("amqp.vhost", "/", "AMQP virtual host")
	amqpUsername = flag.String("amqp.username", "guest", "AMQP integration username")
	amqpPassword = flag.String("amqp.password", "guest", "AMQP integration password")
)

func TestAmqpProbeIntegration(t *testing.T) {
	subject := NewAmqpProbe(&config.Amqp{
		User:        *amqpUsername,
		Password:    *amqpPassword,
		Hostname:    *amqpHost,
		Port:        portString(*amqpPort),
		VirtualHost: *amqpVhost,
	}, integrationTimeout)

	result := subject.Exec(context.Background())
	assert.True(t, result.OK, result.Message)
}
