package sensor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/smokyabdulrahman/salat/internal/geomath"
)

// DefaultTopic is the topic a networked compass publishes on.
const DefaultTopic = "salat/heading"

const disconnectQuiesce = 250 // ms

// Dial connects to an MQTT broker such as "tcp://localhost:1883".
func Dial(broker, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetConnectTimeout(5 * time.Second)
	opts.OnConnect = func(mqtt.Client) {
		log.Debug().Str("broker", broker).Msg("connected to MQTT broker")
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.Warn().Err(err).Str("broker", broker).Msg("MQTT connection lost")
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connecting to MQTT broker %s: %w", broker, token.Error())
	}
	return client, nil
}

type payload struct {
	Heading *float64 `json:"heading"`
	X       *float64 `json:"x"`
	Y       *float64 `json:"y"`
}

// ParsePayload decodes {"heading": h} or {"x": .., "y": ..}.
func ParsePayload(b []byte) (float64, error) {
	var p payload
	if err := json.Unmarshal(b, &p); err != nil {
		return 0, fmt.Errorf("decoding heading payload: %w", err)
	}
	switch {
	case p.Heading != nil:
		return geomath.Normalize360(*p.Heading), nil
	case p.X != nil && p.Y != nil:
		return HeadingFromMagnetometer(*p.X, *p.Y), nil
	default:
		return 0, errors.New("heading payload needs \"heading\" or \"x\" and \"y\"")
	}
}

// MQTTSource subscribes to a topic carrying heading payloads.
type MQTTSource struct {
	Client mqtt.Client
	Topic  string
	Now    func() time.Time
}

// NewMQTTSource returns a source on an already connected client.
func NewMQTTSource(client mqtt.Client, topic string) *MQTTSource {
	if topic == "" {
		topic = DefaultTopic
	}
	return &MQTTSource{Client: client, Topic: topic, Now: time.Now}
}

// Samples subscribes and forwards samples until ctx is done. Messages that
// arrive while the consumer is busy are dropped.
func (s *MQTTSource) Samples(ctx context.Context) (<-chan Sample, error) {
	if s.Client == nil {
		return nil, ErrUnavailable
	}
	now := s.Now
	if now == nil {
		now = time.Now
	}

	out := make(chan Sample, 16)
	var (
		mu     sync.Mutex
		closed bool
	)

	handler := func(_ mqtt.Client, msg mqtt.Message) {
		h, err := ParsePayload(msg.Payload())
		if err != nil {
			log.Warn().Err(err).Str("topic", msg.Topic()).Msg("skipping heading message")
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case out <- Sample{Heading: h, At: now()}:
		default:
			log.Debug().Str("topic", msg.Topic()).Msg("heading consumer busy, dropping sample")
		}
	}

	if token := s.Client.Subscribe(s.Topic, 1, handler); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("subscribing to %s: %w", s.Topic, token.Error())
	}
	log.Debug().Str("topic", s.Topic).Msg("subscribed to heading topic")

	go func() {
		<-ctx.Done()
		if token := s.Client.Unsubscribe(s.Topic); token.Wait() && token.Error() != nil {
			log.Warn().Err(token.Error()).Str("topic", s.Topic).Msg("unsubscribing heading topic")
		}
		mu.Lock()
		closed = true
		close(out)
		mu.Unlock()
	}()

	return out, nil
}

// Close disconnects the underlying client.
func (s *MQTTSource) Close() {
	if s.Client != nil {
		s.Client.Disconnect(disconnectQuiesce)
	}
}
