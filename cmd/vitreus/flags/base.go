package flags

import (
	"github.com/urfave/cli/v2"
)

var (
	// MonitoringAddrFlag defines the address used to serve prometheus metrics.
	MonitoringAddrFlag = &cli.StringFlag{
		Name:  "monitoring-addr",
		Usage: "Address used to listen and respond metrics for prometheus.",
		Value: "127.0.0.1:8080",
	}
)
