package nats

import (
	"os"

	"github.com/nats-io/nats.go"
)

// Nats holds the single shared connection a service relays through. It is
// opened once at startup and closed on shutdown.
type Nats struct {
	Url  string
	Conn *nats.Conn
}

// Connect dials the server named by NATS_URL, defaulting to a local one.
// The client name shows up in server monitoring, so each service passes
// its own.
func Connect(clientName string) (*Nats, error) {
	n := &Nats{
		Url: os.Getenv("NATS_URL"),
	}
	if n.Url == "" {
		n.Url = "nats://localhost:4222"
	}

	opts := []nats.Option{
		nats.Name(clientName),
	}
	if token := os.Getenv("NATS_TOKEN"); token != "" {
		opts = append(opts, nats.Token(token))
	}

	conn, err := nats.Connect(n.Url, opts...)
	if err != nil {
		return nil, err
	}

	n.Conn = conn
	return n, nil
}
