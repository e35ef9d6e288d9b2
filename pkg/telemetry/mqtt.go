// Package telemetry publishes pin readings and accepts remote output
// commands over MQTT.
package telemetry

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/denisbrodbeck/machineid"
	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"
)

// Queue wraps the MQTT client under a topic prefix.
type Queue struct {
	Client      paho.Client
	TopicPrefix string
}

// ClientOptionsFromURL creates ClientOptions from a URL of the form
// mqtt://[user:pass@]host:port/topic-prefix[?client-id=...].
// Without an explicit client-id the machine ID seeds a stable one.
func ClientOptionsFromURL(serverURL string) (*paho.ClientOptions, string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, "", err
	}
	var server string
	if u.Scheme == "" || u.Scheme == "mqtt" {
		server = "tcp"
	} else {
		server = u.Scheme
	}
	server += "://" + u.Host

	topicPrefix := strings.TrimPrefix(u.Path, "/")
	if topicPrefix != "" && !strings.HasSuffix(topicPrefix, "/") {
		topicPrefix += "/"
	}

	opts := paho.NewClientOptions()
	opts.AddBroker(server).
		SetAutoReconnect(true).
		SetCleanSession(true)
	if u.User != nil {
		opts.SetUsername(u.User.Username())
		if pwd, ok := u.User.Password(); ok {
			opts.SetPassword(pwd)
		}
	}

	if clientID := u.Query().Get("client-id"); clientID != "" {
		opts.SetClientID(clientID)
	} else if id, err := machineid.ID(); err == nil {
		opts.SetClientID("ard-" + id)
	} else {
		glog.Warningf("no stable machine id: %v", err)
	}

	return opts, topicPrefix, nil
}

// NewQueueFromURL creates a Queue from a broker URL.
func NewQueueFromURL(brokerURL string) (*Queue, error) {
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	q := &Queue{TopicPrefix: topicPrefix}
	opts.SetOnConnectHandler(func(paho.Client) {
		glog.Info("broker connected")
	})
	opts.SetConnectionLostHandler(func(c paho.Client, err error) {
		glog.Warningf("broker connection lost: %v", err)
	})
	q.Client = paho.NewClient(opts)
	return q, nil
}

// Connect connects and waits for the broker handshake.
func (q *Queue) Connect() error {
	t := q.Client.Connect()
	t.Wait()
	return t.Error()
}

// Close implements io.Closer.
func (q *Queue) Close() error {
	q.Client.Disconnect(250)
	return nil
}

// PublishReading implements session.Publisher: each reading goes to
// pins/<pin> as a retained decimal string.
func (q *Queue) PublishReading(pin uint8, value uint16) error {
	topic := fmt.Sprintf("%spins/%d", q.TopicPrefix, pin)
	if glog.V(2) {
		glog.Infof("PUB %s = %d", topic, value)
	}
	t := q.Client.Publish(topic, 0, true, strconv.Itoa(int(value)))
	t.Wait()
	return t.Error()
}

// OutputSetter applies a remote output command.
type OutputSetter interface {
	SetOutput(pin uint8, high bool) (uint16, error)
}

// SubscribeOutputs routes set/<pin> messages with payload 0/1 (or
// low/high, off/on) to the setter.
func (q *Queue) SubscribeOutputs(setter OutputSetter) error {
	topic := q.TopicPrefix + "set/+"
	if glog.V(2) {
		glog.Infof("SUB %q", topic)
	}
	t := q.Client.Subscribe(topic, 0, func(c paho.Client, msg paho.Message) {
		pin, high, err := parseSetCommand(msg.Topic(), msg.Payload())
		if err != nil {
			glog.Warningf("%s: %v", msg.Topic(), err)
			return
		}
		if r, err := setter.SetOutput(pin, high); err != nil {
			glog.Errorf("set pin %d: %v", pin, err)
		} else if glog.V(1) {
			glog.Infof("set pin %d = %v > %d", pin, high, r)
		}
	})
	t.Wait()
	return t.Error()
}

func parseSetCommand(topic string, payload []byte) (pin uint8, high bool, err error) {
	segs := strings.Split(topic, "/")
	n, err := strconv.ParseUint(segs[len(segs)-1], 10, 8)
	if err != nil {
		return 0, false, fmt.Errorf("bad pin in topic: %v", err)
	}
	pin = uint8(n)
	switch string(payload) {
	case "1", "high", "on":
		high = true
	case "0", "low", "off":
		high = false
	default:
		return 0, false, fmt.Errorf("bad payload %q", payload)
	}
	return pin, high, nil
}
