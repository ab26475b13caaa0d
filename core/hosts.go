package core

import (
	"fmt"
	"strconv"
	"strings"
)

const DefaultDevToolsPort = 9222

type Host struct {
	Ip   string
	Port int
}

func ProduceHost(arg string) (*Host, error) {
	arg = strings.TrimSpace(arg)
	arg = strings.TrimPrefix(arg, "http://")
	arg = strings.TrimSuffix(arg, "/")
	if arg == "" {
		return nil, fmt.Errorf("empty host")
	}

	sections := strings.Split(arg, ":")
	if len(sections) == 1 {
		return &Host{
			Ip:   arg,
			Port: DefaultDevToolsPort,
		}, nil
	}
	if len(sections) != 2 {
		return nil, fmt.Errorf("invalid host %v", arg)
	}

	port, err := strconv.Atoi(sections[1])
	if err != nil {
		return nil, fmt.Errorf("parse port in %v failed: %w", arg, err)
	}

	return &Host{
		Ip:   sections[0],
		Port: port,
	}, nil
}

func (h *Host) String() string {
	return fmt.Sprintf("%v:%v", h.Ip, h.Port)
}

func (h *Host) HttpUrl(path string) string {
	return fmt.Sprintf("http://%v%v", h.String(), path)
}
