package room

import (
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Client is a client connected to the server via websockets
type Client struct {
	// Conn is the underlying websocket connection
	Conn *websocket.Conn

	// send is a channel for sending messages to the client
	send chan interface{}

	// Close is a channel for closing the client
	Close chan string

	// CloseError contains the reason why the connection was closed
	CloseError error

	dealer *Dealer

	// identity requested at connect time; the dealer decides what it becomes
	name        string
	token       string
	asSpectator bool
}

// NewClient returns a new client object
func NewClient(conn *websocket.Conn, name, token string, asSpectator bool) *Client {
	return &Client{
		send:        make(chan interface{}, 256),
		Close:       make(chan string),
		Conn:        conn,
		name:        name,
		token:       token,
		asSpectator: asSpectator,
	}
}

// Send sends a message to the web client
func (c *Client) Send(msg interface{}) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// SendChan returns a read-only channel of outbound messages
func (c *Client) SendChan() <-chan interface{} {
	return c.send
}

// String returns a traceable identifier for the client
func (c *Client) String() string {
	roomID := ""
	if c.dealer != nil {
		roomID = c.dealer.room.ID
	}

	return fmt.Sprintf("%s:%s", c.name, roomID)
}

// ReceivedMessage is called when the server receives a message from a connected client
func (c *Client) ReceivedMessage(msg *PayloadIn) {
	if c.dealer == nil {
		logrus.WithField("msg", msg).Warn("received message, but dealer not found")
		return
	}

	c.dealer.ReceivedMessage(c, msg)
}
