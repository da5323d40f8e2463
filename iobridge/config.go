// This file is part of ts7200.
//
// ts7200 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// ts7200 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with ts7200.  If not, see <https://www.gnu.org/licenses/>.

package iobridge

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ts7200emu/ts7200/curated"
)

// Sentinal error patterns.
const (
	BadConfig = "iobridge: bad configuration (%s): %v"
)

// Kind of endpoint.
type Kind int

// List of valid Kind values.
const (
	None Kind = iota
	Stdio
	File
	TCP
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Stdio:
		return "stdio"
	case File:
		return "file"
	case TCP:
		return "tcp"
	}
	return "unknown"
}

// DefaultHost is used when a TCP configuration does not name a host.
const DefaultHost = "127.0.0.1"

// Config describes the endpoint of a Channel.
type Config struct {
	Kind Kind

	// File
	Out string
	In  string

	// TCP
	Host string
	Port int
}

func (cfg Config) String() string {
	switch cfg.Kind {
	case File:
		if cfg.In != "" {
			return fmt.Sprintf("file:%s,in=%s", cfg.Out, cfg.In)
		}
		return fmt.Sprintf("file:%s", cfg.Out)
	case TCP:
		return fmt.Sprintf("tcp:%s:%d", cfg.Host, cfg.Port)
	}
	return cfg.Kind.String()
}

// ParseConfig parses a configuration string. See the package documentation
// for the syntax.
func ParseConfig(s string) (Config, error) {
	kind, rest, _ := strings.Cut(s, ":")

	switch kind {
	case "none":
		return Config{Kind: None}, nil

	case "stdio":
		return Config{Kind: Stdio}, nil

	case "file":
		out, in, hasIn := strings.Cut(rest, ",")
		if out == "" {
			return Config{}, curated.Errorf(BadConfig, s, "no output path specified")
		}
		cfg := Config{Kind: File, Out: out}
		if hasIn {
			key, path, ok := strings.Cut(in, "=")
			if !ok || key != "in" {
				return Config{}, curated.Errorf(BadConfig, s, "expected to find in=PATH")
			}
			if path == "" {
				return Config{}, curated.Errorf(BadConfig, s, "invalid input path")
			}
			cfg.In = path
		}
		return cfg, nil

	case "tcp":
		host, port, ok := strings.Cut(rest, ":")
		if !ok {
			return Config{}, curated.Errorf(BadConfig, s, "no port specified")
		}
		if host == "" {
			host = DefaultHost
		}
		p, err := strconv.ParseUint(port, 10, 16)
		if err != nil || p == 0 {
			return Config{}, curated.Errorf(BadConfig, s, "invalid port")
		}
		return Config{Kind: TCP, Host: host, Port: int(p)}, nil
	}

	return Config{}, curated.Errorf(BadConfig, s, "invalid io type")
}
