// Copyright 2015 The Govisor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use file except in compliance with the License.
// You may obtain a copy of the license at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package control

import "github.com/hypebeast/go-osc/osc"

// Client sends one-way OSC messages to a fixed host:port, with no
// response expected -- the shape of both the pid-request channel
// and of a future keep-alive sender, should one be needed.
type Client struct {
	osc *osc.Client
}

// NewClient targets host:port for future Sends.
func NewClient(host string, port int) *Client {
	return &Client{osc: osc.NewClient(host, port)}
}

// Send builds an OSC message for address with args and fires it.
func (c *Client) Send(address string, args ...interface{}) error {
	msg := osc.NewMessage(address)
	for _, a := range args {
		msg.Append(a)
	}
	return c.osc.Send(msg)
}
